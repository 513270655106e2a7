package credential

import "crypto/x509"

// VerifyContext is a read-only view of one certificate in a peer's chain,
// handed to a verify callback during chain validation.
type VerifyContext interface {
	// NativeHandle returns the certificate under consideration.
	NativeHandle() *x509.Certificate
}

// VerifyCallback is consulted once per certificate in the peer's chain.
// preverified reports whether the engine's own validation already accepted
// the certificate; the return value is the final accept/reject decision.
type VerifyCallback func(preverified bool, ctx VerifyContext) bool

// StreamHandle is the minimal view of an in-progress server-role handshake
// that a servername callback receives.
type StreamHandle interface {
	// Context returns the context the stream was created from.
	Context() *Context
}

// ServernameCallback is consulted at most once per server-role handshake,
// when the client presents an SNI extension. Returning false rejects the
// handshake.
type ServernameCallback func(s StreamHandle, name string) bool

type certView struct {
	cert *x509.Certificate
}

func (v certView) NativeHandle() *x509.Certificate { return v.cert }

// NewVerifyContext wraps a certificate in the read-only view passed to
// verify callbacks. Intended for the stream collaborator.
func NewVerifyContext(cert *x509.Certificate) VerifyContext {
	return certView{cert: cert}
}

// acceptPreverified is the default verify decision when no callback is set.
func acceptPreverified(preverified bool, _ VerifyContext) bool { return preverified }
