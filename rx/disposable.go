package rx

import (
	"sync"
)

// Disposable releases the resources of a subscription. Dispose must be safe to call more than once
// and from any goroutine.
type Disposable interface {
	Dispose()
}

type funcDisposable struct {
	once sync.Once
	fn   func()
}

// NewDisposable returns a Disposable that runs fn on the first call to Dispose.
func NewDisposable(fn func()) Disposable {
	return &funcDisposable{fn: fn}
}

// Dispose implements Disposable.
func (d *funcDisposable) Dispose() {
	d.once.Do(func() {
		if d.fn != nil {
			d.fn()
		}
	})
}

type nopDisposable struct{}

func (nopDisposable) Dispose() {}

// Nop returns a Disposable that does nothing.
func Nop() Disposable {
	return nopDisposable{}
}

// Composite disposes a group of disposables together.
// Disposables added after the group was disposed are disposed immediately.
type Composite struct {
	mu       sync.Mutex
	disposed bool
	items    []Disposable
}

// NewComposite creates a Composite holding items.
func NewComposite(items ...Disposable) *Composite {
	return &Composite{items: items}
}

// Add puts d into the group.
func (c *Composite) Add(d Disposable) {
	if d == nil {
		return
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		d.Dispose()

		return
	}
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Dispose disposes every member exactly once.
func (c *Composite) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	items := c.items
	c.items = nil
	c.mu.Unlock()

	for _, d := range items {
		d.Dispose()
	}
}

// IsDisposed reports whether Dispose was called.
func (c *Composite) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.disposed
}

// singleAssignment holds the upstream disposable of a sink.
// The upstream may be assigned after Dispose was requested, e.g. when a synchronous producer
// terminates before it returns; it is then disposed on assignment.
type singleAssignment struct {
	mu       sync.Mutex
	disposed bool
	current  Disposable
}

func (s *singleAssignment) set(d Disposable) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		if d != nil {
			d.Dispose()
		}

		return
	}
	s.current = d
	s.mu.Unlock()
}

// Dispose implements Disposable.
func (s *singleAssignment) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	d := s.current
	s.current = nil
	s.mu.Unlock()

	if d != nil {
		d.Dispose()
	}
}
