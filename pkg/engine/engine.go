package engine

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"os"

	"github.com/hashicorp/go-rootcerts"
)

// Format identifies the encoding of certificate and key material.
type Format int

const (
	FormatPEM Format = iota
	FormatDER
)

// Credentials is an opaque engine handle holding the installed key pairs and
// trust anchors for one context. It is exclusively owned by its credential
// store; nothing else may close it.
type Credentials struct {
	pairs  []tls.Certificate
	system *x509.CertPool
	extra  []*x509.Certificate
	closed bool
}

// allocFailure lets tests make allocation fail the way a native engine does
// under resource exhaustion.
var allocFailure func() error

// AllocateCredentials creates an empty credentials handle.
func AllocateCredentials() (*Credentials, error) {
	if allocFailure != nil {
		if err := allocFailure(); err != nil {
			return nil, err
		}
	}
	return &Credentials{}, nil
}

// Close releases the handle. Installed material becomes unusable; Close is
// idempotent.
func (c *Credentials) Close() {
	c.pairs = nil
	c.system = nil
	c.extra = nil
	c.closed = true
}

// Closed reports whether the handle has been released.
func (c *Credentials) Closed() bool { return c.closed }

// Certificates returns the installed certificate/key pairs for use by the
// handshake layer.
func (c *Credentials) Certificates() []tls.Certificate { return c.pairs }

// TrustPool assembles the effective trust anchors: the system pool, if
// installed, plus any anchors installed from memory.
func (c *Credentials) TrustPool() *x509.CertPool {
	var pool *x509.CertPool
	if c.system != nil {
		pool = c.system.Clone()
	} else {
		pool = x509.NewCertPool()
	}
	for _, cert := range c.extra {
		pool.AddCert(cert)
	}
	return pool
}

// SetSystemTrust installs the platform's trust anchors into the handle.
func SetSystemTrust(c *Credentials) (Status, error) {
	pool, err := rootcerts.LoadSystemCAs()
	if err != nil {
		return StatusSystemTrust, err
	}
	if pool == nil {
		pool = x509.NewCertPool()
	}
	c.system = pool
	return StatusSuccess, nil
}

// SetKeyPairFile reads a certificate and private key from files and installs
// them as one pair. The passphrase is consulted only if the key is encrypted.
func SetKeyPairFile(c *Credentials, certFile, keyFile string, format Format, passphrase string) (Status, error) {
	certData, err := os.ReadFile(certFile)
	if err != nil {
		return StatusFileError, err
	}
	keyData, err := os.ReadFile(keyFile)
	if err != nil {
		return StatusFileError, err
	}
	return SetKeyPairMem(c, certData, keyData, format, passphrase)
}

// SetKeyPairMem installs a certificate chain and its private key from memory
// as one atomic pair. On any failure the handle is left unchanged.
func SetKeyPairMem(c *Credentials, cert, key []byte, format Format, passphrase string) (Status, error) {
	chain, st, err := parseCertificateChain(cert, format)
	if st != StatusSuccess {
		return st, err
	}
	priv, st, err := parsePrivateKey(key, format, passphrase)
	if st != StatusSuccess {
		return st, err
	}
	pair := tls.Certificate{Certificate: chain, PrivateKey: priv}
	leaf, err := x509.ParseCertificate(chain[0])
	if err != nil {
		return StatusBadCertificate, err
	}
	pair.Leaf = leaf
	if err := matchKeyPair(leaf, priv); err != nil {
		return StatusKeyMismatch, err
	}
	c.pairs = append(c.pairs, pair)
	return StatusSuccess, nil
}

// SetTrustMem installs CA certificates from memory into the handle's trust
// store. It returns the number of certificates processed; zero is reported as
// a failure, preserving the engine's negative-result convention.
func SetTrustMem(c *Credentials, data []byte, format Format) (int, Status, error) {
	certs, st, err := parseTrustAnchors(data, format)
	if st != StatusSuccess {
		return 0, st, err
	}
	if len(certs) == 0 {
		return 0, StatusNoTrustAnchors, errors.New("no CA certificates in buffer")
	}
	c.extra = append(c.extra, certs...)
	return len(certs), StatusSuccess, nil
}
