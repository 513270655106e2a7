package credential

import (
	"github.com/polisai/tlscred/pkg/engine"
	"github.com/polisai/tlscred/pkg/tlserr"
)

// SetVerifyMode stores the peer-verification bit-set for the stream to apply
// at handshake time. Any bit pattern is accepted.
func (c *Context) SetVerifyMode(v VerifyMode) error {
	c.store.verify = v
	return nil
}

// SetOptions stores the legacy-options bit-set.
func (c *Context) SetOptions(o Options) error {
	c.store.opts = o
	return nil
}

// ClearOptions resets the options bit-set to empty.
func (c *Context) ClearOptions() error {
	c.store.opts = 0
	return nil
}

// SetDefaultVerifyPaths loads the platform's system trust anchors into the
// engine handle.
func (c *Context) SetDefaultVerifyPaths() error {
	st, cause := engine.SetSystemTrust(c.store.cred)
	if st != engine.StatusSuccess {
		c.store.metrics.recordError(installSystemTrust, st)
		return tlserr.New(tlserr.Credential, st, cause)
	}
	c.store.metrics.recordInstall(installSystemTrust)
	c.store.logger.Debug("system trust anchors installed", "store_id", c.store.id)
	return nil
}

// SetVerifyCallback stores a verify decision consulted once per peer
// certificate during chain validation.
func (c *Context) SetVerifyCallback(cb VerifyCallback) error {
	c.store.verifyCallback = cb
	return nil
}

// SetServernameCallback stores an SNI decision consulted during server-role
// handshakes.
func (c *Context) SetServernameCallback(cb ServernameCallback) error {
	c.store.servernameCallback = cb
	return nil
}

// UsePassphrase stores the passphrase used to decrypt a private key at
// installation time. It must be set before the key-installation call that
// needs it.
func (c *Context) UsePassphrase(pass string) error {
	c.store.passphrase = pass
	return nil
}

// UseCertificateFile stores a certificate file path. The certificate is not
// installed yet: the engine installs certificate and key as one pair when
// UsePrivateKeyFile is called.
func (c *Context) UseCertificateFile(filename string, _ FileFormat) error {
	c.store.certFile = filename
	c.store.certFileStored = true
	return nil
}

// UsePrivateKeyFile pairs a private key file with the previously stored
// certificate file and installs both into the engine handle in one call,
// decrypting with the stored passphrase if needed. Calling it with no stored
// certificate is a sequencing error and leaves the handle untouched.
func (c *Context) UsePrivateKeyFile(filename string, format FileFormat) error {
	if !c.store.certFileStored {
		c.store.metrics.recordSequencing(installKeyPair)
		return tlserr.ErrOperationNotSupported
	}
	c.store.keyFile = filename
	st, cause := engine.SetKeyPairFile(c.store.cred, c.store.certFile, filename, format, c.store.passphrase)
	if st != engine.StatusSuccess {
		c.store.metrics.recordError(installKeyPair, st)
		return tlserr.New(tlserr.Credential, st, cause)
	}
	c.store.metrics.recordInstall(installKeyPair)
	c.store.logger.Debug("key pair installed from files",
		"store_id", c.store.id,
		"cert_file", c.store.certFile,
		"key_file", filename)
	return nil
}

// UseCertificate stores an in-memory certificate chain. As with the file
// form, installation is deferred until the paired key arrives.
func (c *Context) UseCertificate(cert []byte, _ FileFormat) error {
	c.store.certBuf = append([]byte(nil), cert...)
	c.store.certBufStored = true
	return nil
}

// UsePrivateKey pairs an in-memory private key with the previously stored
// certificate buffer and installs both into the engine handle in one call.
func (c *Context) UsePrivateKey(key []byte, format FileFormat) error {
	if !c.store.certBufStored {
		c.store.metrics.recordSequencing(installKeyPair)
		return tlserr.ErrOperationNotSupported
	}
	c.store.keyBuf = append([]byte(nil), key...)
	st, cause := engine.SetKeyPairMem(c.store.cred, c.store.certBuf, c.store.keyBuf, format, c.store.passphrase)
	if st != engine.StatusSuccess {
		c.store.metrics.recordError(installKeyPair, st)
		return tlserr.New(tlserr.Credential, st, cause)
	}
	c.store.metrics.recordInstall(installKeyPair)
	c.store.logger.Debug("key pair installed from memory", "store_id", c.store.id)
	return nil
}

// UseTmpDHFile accepts and ignores a Diffie-Hellman parameter file. Modern
// protocol versions negotiate DH parameters (RFC 7919); the operation exists
// for source compatibility and never fails.
func (c *Context) UseTmpDHFile(string) error { return nil }

// UseTmpDH accepts and ignores in-memory Diffie-Hellman parameters. See
// UseTmpDHFile.
func (c *Context) UseTmpDH([]byte) error { return nil }

// SetVerifyTrust installs one or more CA certificates from memory into the
// engine handle's trust store. A buffer yielding zero certificates is an
// engine rejection.
func (c *Context) SetVerifyTrust(ca []byte, format FileFormat) error {
	n, st, cause := engine.SetTrustMem(c.store.cred, ca, format)
	if st != engine.StatusSuccess {
		c.store.metrics.recordError(installTrust, st)
		return tlserr.New(tlserr.Credential, st, cause)
	}
	c.store.metrics.recordInstall(installTrust)
	c.store.logger.Debug("trust anchors installed", "store_id", c.store.id, "count", n)
	return nil
}
