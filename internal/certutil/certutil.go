// Package certutil generates and inspects X.509 test material: self-signed
// certificates, CA-signed pairs, and optionally passphrase-encrypted private
// keys. It backs the package tests and the tlscred-cert tool.
package certutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"
)

// Options controls certificate generation.
type Options struct {
	CommonName   string
	Organization []string
	DNSNames     []string
	IPAddresses  []net.IP
	ValidFor     time.Duration
	IsCA         bool
	KeySize      int
	SerialNumber *big.Int

	// Passphrase, when non-empty, encrypts the emitted private key PEM.
	Passphrase string

	// ParentCert and ParentKey sign the certificate; when nil the
	// certificate is self-signed.
	ParentCert *x509.Certificate
	ParentKey  *rsa.PrivateKey
}

func (o *Options) applyDefaults() {
	if o.ValidFor == 0 {
		o.ValidFor = 365 * 24 * time.Hour
	}
	if o.KeySize == 0 {
		o.KeySize = 2048
	}
	if o.SerialNumber == nil {
		o.SerialNumber = big.NewInt(time.Now().UnixNano())
	}
	if o.CommonName == "" {
		o.CommonName = "localhost"
	}
	if len(o.DNSNames) == 0 && len(o.IPAddresses) == 0 {
		o.DNSNames = []string{"localhost"}
		o.IPAddresses = []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback}
	}
}

// Generate produces a certificate and private key in PEM form. The key PEM
// is encrypted when Options.Passphrase is set.
func Generate(opts Options) (certPEM, keyPEM []byte, err error) {
	cert, key, err := GenerateKeyPair(opts)
	if err != nil {
		return nil, nil, err
	}
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
	keyPEM, err = EncodeKeyPEM(key, opts.Passphrase)
	if err != nil {
		return nil, nil, err
	}
	return certPEM, keyPEM, nil
}

// GenerateKeyPair produces a parsed certificate and its RSA key.
func GenerateKeyPair(opts Options) (*x509.Certificate, *rsa.PrivateKey, error) {
	opts.applyDefaults()

	key, err := rsa.GenerateKey(rand.Reader, opts.KeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("generate private key: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: opts.SerialNumber,
		Subject: pkix.Name{
			CommonName:   opts.CommonName,
			Organization: opts.Organization,
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(opts.ValidFor),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		DNSNames:              opts.DNSNames,
		IPAddresses:           opts.IPAddresses,
	}
	if opts.IsCA {
		template.IsCA = true
		template.KeyUsage |= x509.KeyUsageCertSign
	}

	parent := &template
	signingKey := key
	if opts.ParentCert != nil && opts.ParentKey != nil {
		parent = opts.ParentCert
		signingKey = opts.ParentKey
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, parent, &key.PublicKey, signingKey)
	if err != nil {
		return nil, nil, fmt.Errorf("create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, fmt.Errorf("parse generated certificate: %w", err)
	}
	return cert, key, nil
}

// EncodeKeyPEM serializes an RSA key as PKCS#1 PEM, encrypting the block
// with the legacy DEK-Info scheme when a passphrase is given. That scheme is
// what passphrase-protected PEM keys in the wild use.
func EncodeKeyPEM(key *rsa.PrivateKey, passphrase string) ([]byte, error) {
	der := x509.MarshalPKCS1PrivateKey(key)
	if passphrase == "" {
		return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der}), nil
	}
	//nolint:staticcheck
	block, err := x509.EncryptPEMBlock(rand.Reader, "RSA PRIVATE KEY", der, []byte(passphrase), x509.PEMCipherAES256)
	if err != nil {
		return nil, fmt.Errorf("encrypt private key: %w", err)
	}
	return pem.EncodeToMemory(block), nil
}

// WriteFiles writes certificate and key PEM to disk, with restrictive
// permissions on the key.
func WriteFiles(certFile, keyFile string, certPEM, keyPEM []byte) error {
	if err := os.WriteFile(certFile, certPEM, 0o644); err != nil {
		return fmt.Errorf("write certificate: %w", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	return nil
}
