package credential

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/polisai/tlscred/pkg/engine"
)

// Store owns the native credentials handle and all configured trust and
// identity material. It is created once per Context and shared, via explicit
// reference counting, with any stream that needs the material to outlive the
// Context itself. The engine handle is freed when the last holder releases
// the store.
type Store struct {
	id     uuid.UUID
	method Method
	cred   *engine.Credentials

	verify VerifyMode
	opts   Options

	certFile, keyFile string
	certBuf, keyBuf   []byte
	// The sequencing precondition for key installation is "a certificate
	// was stored", tracked separately from the material so that an empty
	// stored buffer still satisfies it.
	certFileStored, certBufStored bool

	passphrase string

	verifyCallback     VerifyCallback
	servernameCallback ServernameCallback

	// owner is a non-owning back-reference to the Context currently
	// holding the store. It is nulled on Close and re-pointed on Move and
	// never extends the Context's lifetime.
	owner *Context

	refs    atomic.Int32
	logger  *slog.Logger
	metrics *Collector
}

func newStore(m Method, logger *slog.Logger, metrics *Collector) (*Store, error) {
	cred, err := engine.AllocateCredentials()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		id:      uuid.New(),
		method:  m,
		cred:    cred,
		logger:  logger.With("component", "credential"),
		metrics: metrics,
	}
	s.refs.Store(1)
	return s, nil
}

// Retain adds a reference. Streams call this before the owning Context may
// go away.
func (s *Store) Retain() { s.refs.Add(1) }

// Release drops a reference; the last release frees the engine handle.
func (s *Store) Release() {
	if s.refs.Add(-1) == 0 {
		s.cred.Close()
		s.logger.Debug("credential store released", "store_id", s.id)
	}
}

// ID returns the store's identity, used for logging and diagnostics.
func (s *Store) ID() uuid.UUID { return s.id }

// Method returns the fixed role-and-version value set at construction.
func (s *Store) Method() Method { return s.method }

// Owner returns the Context currently owning the store, or nil if it has
// been closed or not yet re-homed.
func (s *Store) Owner() *Context { return s.owner }

// NativeHandle returns the engine credentials handle. Ownership stays with
// the store.
func (s *Store) NativeHandle() *engine.Credentials { return s.cred }

// VerifyMode returns the stored peer-verification bit-set.
func (s *Store) VerifyMode() VerifyMode { return s.verify }

// Options returns the stored legacy-options bit-set.
func (s *Store) Options() Options { return s.opts }

// VerifyCallback returns the configured verify decision, defaulting to
// accepting exactly what the engine's own validation accepted.
func (s *Store) VerifyCallback() VerifyCallback {
	if s.verifyCallback != nil {
		return s.verifyCallback
	}
	return acceptPreverified
}

// ServernameCallback returns the configured SNI decision, or nil when none
// was set.
func (s *Store) ServernameCallback() ServernameCallback { return s.servernameCallback }
