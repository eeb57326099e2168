package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Task is a background loop owned by a Composite. It must return once ctx
// is cancelled.
type Task func(ctx context.Context)

// Composite aggregates background tasks and child services into one service.
//
// Start launches every task in its own goroutine and starts every child. A
// child that regresses to STOPPED or ERROR forces the composite into ERROR;
// the composite never restarts it on its own. Stop cancels the tasks and
// stops the children in reverse order of addition.
type Composite struct {
	*Lifecycle

	mu       sync.Mutex
	tasks    []Task
	children []Service
	watchers map[Service]StatusListener
	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewComposite creates an empty, stopped composite.
func NewComposite(name string, logger *slog.Logger) *Composite {
	c := &Composite{watchers: make(map[Service]StatusListener)}
	c.Lifecycle = NewLifecycle(name, Hooks{Acquire: c.acquire, Release: c.release}, logger)
	return c
}

// AddTask registers a background task. If the composite is running the task
// is launched immediately.
func (c *Composite) AddTask(t Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tasks = append(c.tasks, t)
	if c.running {
		c.launchLocked(t)
	}
}

// AddChild registers a child service. If the composite is running the child
// is watched and started immediately; a start failure is returned and also
// forces the composite into ERROR.
func (c *Composite) AddChild(s Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slices.Contains(c.children, s) {
		return nil
	}
	c.children = append(c.children, s)
	if !c.running {
		return nil
	}
	return c.startChildLocked(s)
}

// Children returns the registered child services in order of addition.
func (c *Composite) Children() []Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.children)
}

func (c *Composite) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.running = true
	c.ctx, c.cancel = context.WithCancel(context.Background())
	for _, t := range c.tasks {
		c.launchLocked(t)
	}
	for _, s := range c.children {
		if err := c.startChildLocked(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composite) release() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.cancel()
	children := slices.Clone(c.children)
	watchers := c.watchers
	c.watchers = make(map[Service]StatusListener)
	c.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		s := children[i]
		if w, ok := watchers[s]; ok {
			s.RemoveStatusListener(w)
		}
		s.Stop()
	}
	c.wg.Wait()
}

func (c *Composite) launchLocked(t Task) {
	ctx := c.ctx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		t(ctx)
	}()
}

func (c *Composite) startChildLocked(s Service) error {
	w := &childWatcher{parent: c}
	c.watchers[s] = w
	s.AddStatusListener(w)

	if err := s.Start(); err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrChildFailed, s.Name(), err)
		c.Fail(err)
		return err
	}
	return nil
}

// childWatcher maps a child's regression into a composite failure. The
// STOPPED step of a child's own Restart is not a regression.
// It must never take the composite's mu: it runs under the child's
// status lock, possibly while the composite is adding children.
type childWatcher struct {
	parent *Composite
}

func (w *childWatcher) StatusChanged(change StatusChange) {
	if change.New == StatusActive {
		return
	}
	if change.New == StatusStopped && errors.Is(change.Err, ErrRestarting) {
		return
	}
	cause := change.Err
	if cause == nil {
		cause = fmt.Errorf("%w: %s is %s", ErrChildFailed, change.Name, change.New)
	} else {
		cause = fmt.Errorf("%w: %s: %v", ErrChildFailed, change.Name, cause)
	}
	w.parent.Fail(cause)
}

// Compile-time interface satisfaction check.
var _ Service = (*Composite)(nil)
