package activity

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordNeverObservedIsZero(t *testing.T) {
	r := NewRecord("transmit", "receive")

	assert.True(t, r.Last("transmit").IsZero())
	assert.True(t, r.Last("unknown").IsZero())
	assert.True(t, r.Last(Any).IsZero())
	assert.Equal(t, []string{"transmit", "receive"}, r.Names())
}

func TestRecordAnyIsLatest(t *testing.T) {
	r := NewRecord()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r.TouchAt("transmit", base)
	r.TouchAt("receive", base.Add(2*time.Second))

	assert.Equal(t, base, r.Last("transmit"))
	assert.Equal(t, base.Add(2*time.Second), r.Last(Any))
	assert.Equal(t, []string{"transmit", "receive"}, r.Names())
}

func TestRecordNeverMovesBackwards(t *testing.T) {
	r := NewRecord()
	base := time.Now()

	r.TouchAt("x", base)
	r.TouchAt("x", base.Add(-time.Minute))

	assert.Equal(t, base, r.LastActivity("x"))
}

func TestRecordAnyIsNotAName(t *testing.T) {
	r := NewRecord(Any)
	r.Touch(Any)
	assert.Empty(t, r.ActivityNames())
	assert.False(t, r.Last(Any).IsZero())
}

func TestRecordReset(t *testing.T) {
	r := NewRecord("a")
	r.Touch("a")
	r.Reset()
	assert.True(t, r.Last("a").IsZero())
	assert.Equal(t, []string{"a"}, r.Names())
}

func TestRecordConcurrent(t *testing.T) {
	r := NewRecord()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Touch("rx")
				_ = r.Last(Any)
			}
		}()
	}
	wg.Wait()
	assert.False(t, r.Last("rx").IsZero())
}
