package credential

import (
	"fmt"
	"log/slog"

	"github.com/polisai/tlscred/pkg/engine"
	"github.com/polisai/tlscred/pkg/tlserr"
)

// Context is the public configuration handle for one credential store. It is
// movable and non-copyable: use Move to transfer ownership and Close when
// done. A moved-from or closed Context must not be used again; by contract
// that is a programming error, not a guarded condition.
type Context struct {
	store *Store
}

// Option adjusts ambient behavior of a new Context.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *Collector
}

// WithLogger installs a structured logger on the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics installs a metrics collector on the store.
func WithMetrics(c *Collector) Option {
	return func(o *options) { o.metrics = c }
}

// New allocates a Context with a fresh credential store for the given
// role-and-version method. Allocation failure of the engine handle is
// resource exhaustion, reported as a construction error; there is no partial
// Context to recover.
func New(m Method, opts ...Option) (*Context, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown method %#04x", int(m))
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	store, err := newStore(m, o.logger, o.metrics)
	if err != nil {
		return nil, tlserr.New(tlserr.Credential, engine.StatusAllocation, err)
	}
	ctx := &Context{store: store}
	store.owner = ctx
	return ctx, nil
}

// MustNew is New, panicking on failure.
func MustNew(m Method, opts ...Option) *Context {
	ctx, err := New(m, opts...)
	if err != nil {
		panic(err)
	}
	return ctx
}

// Move transfers the store to a fresh Context and empties the receiver. The
// store's back-reference is re-pointed at the new owner; streams holding the
// store are unaffected.
func (c *Context) Move() *Context {
	dst := &Context{store: c.store}
	dst.store.owner = dst
	c.store = nil
	return dst
}

// Close clears the store's back-reference and releases the Context's
// reference. The store, and with it the engine handle, survives as long as
// any stream still retains it. Closing a moved-from Context is a no-op.
func (c *Context) Close() {
	if c.store == nil {
		return
	}
	s := c.store
	c.store = nil
	s.owner = nil
	s.Release()
}

// Store returns the underlying credential store so a stream can Retain it
// for the duration of a connection.
func (c *Context) Store() *Store { return c.store }

// NativeHandle returns the engine credentials handle for escape-hatch use.
// No ownership is transferred.
func (c *Context) NativeHandle() *engine.Credentials { return c.store.cred }
