package credential

import (
	"crypto/tls"

	"github.com/polisai/tlscred/pkg/engine"
)

// FileFormat identifies the encoding of certificate and key material.
type FileFormat = engine.Format

const (
	PEM FileFormat = engine.FormatPEM
	DER FileFormat = engine.FormatDER
)

// VerifyMode is a bit-set controlling how strictly peer certificates are
// validated. It is stored state only; the stream collaborator applies it at
// handshake time.
type VerifyMode int

const (
	VerifyNone             VerifyMode = 0x00
	VerifyPeer             VerifyMode = 0x01
	VerifyFailIfNoPeerCert VerifyMode = 0x02
	// VerifyClientOnce is accepted and stored but has no effect; session
	// resumption never re-runs client verification here.
	VerifyClientOnce VerifyMode = 0x04
)

// Has reports whether every bit of flag is set.
func (v VerifyMode) Has(flag VerifyMode) bool { return v&flag == flag }

// ClientAuth maps the verify mode onto the crypto/tls client-auth policy a
// server-role stream should use.
func (v VerifyMode) ClientAuth() tls.ClientAuthType {
	switch {
	case v.Has(VerifyPeer | VerifyFailIfNoPeerCert):
		return tls.RequireAndVerifyClientCert
	case v.Has(VerifyPeer):
		return tls.VerifyClientCertIfGiven
	default:
		return tls.NoClientCert
	}
}

// Options is a bit-set of legacy protocol-disabling flags. Most are inert on
// a modern engine and exist for source compatibility; only NoSSLv3 carries
// meaning, and SSLv2 is always disabled.
type Options int64

const (
	DefaultWorkarounds Options = 0x01 // inert
	SingleDHUse        Options = 0x02 // inert
	NoSSLv2            Options = 0x04 // inert, SSLv2 is never offered
	NoSSLv3            Options = 0x08
)

// Has reports whether every bit of flag is set.
func (o Options) Has(flag Options) bool { return o&flag == flag }
