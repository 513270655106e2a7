package credential

// The Must variants below are mechanical wrappers over the error-returning
// mutators: call the non-panicking form and panic on any reported error.
// They hold no logic of their own.

// MustSetVerifyMode is SetVerifyMode, panicking on failure.
func (c *Context) MustSetVerifyMode(v VerifyMode) {
	if err := c.SetVerifyMode(v); err != nil {
		panic(err)
	}
}

// MustSetOptions is SetOptions, panicking on failure.
func (c *Context) MustSetOptions(o Options) {
	if err := c.SetOptions(o); err != nil {
		panic(err)
	}
}

// MustClearOptions is ClearOptions, panicking on failure.
func (c *Context) MustClearOptions() {
	if err := c.ClearOptions(); err != nil {
		panic(err)
	}
}

// MustSetDefaultVerifyPaths is SetDefaultVerifyPaths, panicking on failure.
func (c *Context) MustSetDefaultVerifyPaths() {
	if err := c.SetDefaultVerifyPaths(); err != nil {
		panic(err)
	}
}

// MustSetVerifyCallback is SetVerifyCallback, panicking on failure.
func (c *Context) MustSetVerifyCallback(cb VerifyCallback) {
	if err := c.SetVerifyCallback(cb); err != nil {
		panic(err)
	}
}

// MustSetServernameCallback is SetServernameCallback, panicking on failure.
func (c *Context) MustSetServernameCallback(cb ServernameCallback) {
	if err := c.SetServernameCallback(cb); err != nil {
		panic(err)
	}
}

// MustUsePassphrase is UsePassphrase, panicking on failure.
func (c *Context) MustUsePassphrase(pass string) {
	if err := c.UsePassphrase(pass); err != nil {
		panic(err)
	}
}

// MustUseCertificateFile is UseCertificateFile, panicking on failure.
func (c *Context) MustUseCertificateFile(filename string, format FileFormat) {
	if err := c.UseCertificateFile(filename, format); err != nil {
		panic(err)
	}
}

// MustUsePrivateKeyFile is UsePrivateKeyFile, panicking on failure.
func (c *Context) MustUsePrivateKeyFile(filename string, format FileFormat) {
	if err := c.UsePrivateKeyFile(filename, format); err != nil {
		panic(err)
	}
}

// MustUseCertificate is UseCertificate, panicking on failure.
func (c *Context) MustUseCertificate(cert []byte, format FileFormat) {
	if err := c.UseCertificate(cert, format); err != nil {
		panic(err)
	}
}

// MustUsePrivateKey is UsePrivateKey, panicking on failure.
func (c *Context) MustUsePrivateKey(key []byte, format FileFormat) {
	if err := c.UsePrivateKey(key, format); err != nil {
		panic(err)
	}
}

// MustUseTmpDHFile is UseTmpDHFile, panicking on failure.
func (c *Context) MustUseTmpDHFile(filename string) {
	if err := c.UseTmpDHFile(filename); err != nil {
		panic(err)
	}
}

// MustUseTmpDH is UseTmpDH, panicking on failure.
func (c *Context) MustUseTmpDH(dh []byte) {
	if err := c.UseTmpDH(dh); err != nil {
		panic(err)
	}
}

// MustSetVerifyTrust is SetVerifyTrust, panicking on failure.
func (c *Context) MustSetVerifyTrust(ca []byte, format FileFormat) {
	if err := c.SetVerifyTrust(ca, format); err != nil {
		panic(err)
	}
}
