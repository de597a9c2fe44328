package http

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Completion receives the terminal Outcome of a call. It is invoked exactly
// once per call, on the goroutine that finished the call.
type Completion func(Outcome)

// Call is the handle of one dispatched request. It moves from building to
// in flight to completed, and reaches completed exactly once.
type Call struct {
	id      string
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	outcome Outcome
}

func newCall(cancel context.CancelFunc) *Call {
	return &Call{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns a unique identifier for the call.
func (c *Call) ID() string { return c.id }

// Cancel asks the transport to abandon the exchange. The call still completes,
// typically with a context.Canceled transport error.
func (c *Call) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Done is closed once the call has completed and its completion has returned.
func (c *Call) Done() <-chan struct{} { return c.done }

// Wait blocks until the call completes and returns its Outcome.
func (c *Call) Wait() Outcome {
	<-c.done
	return c.outcome
}

// Outcome returns the Outcome if the call has completed.
func (c *Call) Outcome() (Outcome, bool) {
	select {
	case <-c.done:
		return c.outcome, true
	default:
		return Outcome{}, false
	}
}

// complete records o and runs notify. Only the first invocation has any
// effect; it reports whether this invocation was that one.
func (c *Call) complete(o Outcome, notify func(Outcome)) bool {
	first := false
	c.once.Do(func() {
		first = true
		c.outcome = o
		defer close(c.done)
		if notify != nil {
			notify(o)
		}
	})
	return first
}
