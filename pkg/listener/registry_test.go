package listener

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type probe struct{ calls int }

func TestRegistryAddRemove(t *testing.T) {
	var r Registry[*probe]
	a, b := &probe{}, &probe{}

	assert.True(t, r.Add(a))
	assert.True(t, r.Add(b))
	assert.False(t, r.Add(a), "duplicate add is rejected")
	assert.Equal(t, []*probe{a, b}, r.Snapshot())

	assert.True(t, r.Remove(a))
	assert.False(t, r.Remove(a), "unknown removal is a no-op")
	assert.Equal(t, []*probe{b}, r.Snapshot())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Snapshot())
}

func TestRegistryInsertionOrder(t *testing.T) {
	var r Registry[*probe]
	ps := []*probe{{}, {}, {}, {}}
	for _, p := range ps {
		r.Add(p)
	}
	r.Remove(ps[1])
	r.Add(ps[1])

	assert.Equal(t, []*probe{ps[0], ps[2], ps[3], ps[1]}, r.Snapshot())
}

func TestRegistrySnapshotIsStableDuringMutation(t *testing.T) {
	var r Registry[*probe]
	a, b := &probe{}, &probe{}
	r.Add(a)
	r.Add(b)

	var seen []*probe
	r.Each(func(p *probe) {
		seen = append(seen, p)
		// Mutating during iteration must not affect the snapshot being walked.
		r.Remove(b)
		r.Add(&probe{})
	})

	assert.Equal(t, []*probe{a, b}, seen)
	assert.Equal(t, 3, r.Len(), "a plus one probe added per callback")
}

func TestRegistryConcurrentUse(t *testing.T) {
	var r Registry[*probe]
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p := &probe{}
			for j := 0; j < 100; j++ {
				r.Add(p)
				r.Remove(p)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Each(func(p *probe) { _ = p })
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}
