package credential

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisai/tlscred/internal/certutil"
	"github.com/polisai/tlscred/pkg/engine"
	"github.com/polisai/tlscred/pkg/tlserr"
)

func generatePair(t *testing.T, passphrase string) (certPEM, keyPEM []byte) {
	t.Helper()
	certPEM, keyPEM, err := certutil.Generate(certutil.Options{
		CommonName: "test.local",
		Passphrase: passphrase,
	})
	require.NoError(t, err)
	return certPEM, keyPEM
}

func TestVerifyModeAndOptions_AreStoredState(t *testing.T) {
	ctx := MustNew(TLS)
	defer ctx.Close()

	require.NoError(t, ctx.SetVerifyMode(VerifyPeer|VerifyFailIfNoPeerCert))
	assert.Equal(t, VerifyPeer|VerifyFailIfNoPeerCert, ctx.Store().VerifyMode())

	// Any bit pattern is accepted and read back exactly.
	require.NoError(t, ctx.SetVerifyMode(VerifyMode(0xFF)))
	assert.Equal(t, VerifyMode(0xFF), ctx.Store().VerifyMode())

	require.NoError(t, ctx.SetOptions(NoSSLv3|SingleDHUse))
	assert.Equal(t, NoSSLv3|SingleDHUse, ctx.Store().Options())

	require.NoError(t, ctx.ClearOptions())
	assert.Equal(t, Options(0), ctx.Store().Options())
}

func TestUsePrivateKey_RequiresCertificateFirst(t *testing.T) {
	_, keyPEM := generatePair(t, "")

	t.Run("buffer form", func(t *testing.T) {
		ctx := MustNew(TLSServer)
		defer ctx.Close()

		err := ctx.UsePrivateKey(keyPEM, PEM)
		assert.ErrorIs(t, err, tlserr.ErrOperationNotSupported)
		assert.Empty(t, ctx.NativeHandle().Certificates(), "sequencing error must not touch the handle")
	})

	t.Run("file form", func(t *testing.T) {
		ctx := MustNew(TLSServer)
		defer ctx.Close()

		err := ctx.UsePrivateKeyFile("key.pem", PEM)
		assert.ErrorIs(t, err, tlserr.ErrOperationNotSupported)
		assert.Empty(t, ctx.NativeHandle().Certificates())
	})

	t.Run("forms do not satisfy each other", func(t *testing.T) {
		certPEM, _ := generatePair(t, "")
		ctx := MustNew(TLSServer)
		defer ctx.Close()

		require.NoError(t, ctx.UseCertificate(certPEM, PEM))
		err := ctx.UsePrivateKeyFile("key.pem", PEM)
		assert.ErrorIs(t, err, tlserr.ErrOperationNotSupported)
	})
}

func TestUseCertificateThenKey_Buffer(t *testing.T) {
	t.Run("unencrypted key", func(t *testing.T) {
		certPEM, keyPEM := generatePair(t, "")
		ctx := MustNew(TLSServer)
		defer ctx.Close()

		require.NoError(t, ctx.UseCertificate(certPEM, PEM))
		require.NoError(t, ctx.UsePrivateKey(keyPEM, PEM))
		assert.Len(t, ctx.NativeHandle().Certificates(), 1)
	})

	t.Run("encrypted key with correct passphrase", func(t *testing.T) {
		certPEM, keyPEM := generatePair(t, "letmein")
		ctx := MustNew(TLSServer)
		defer ctx.Close()

		require.NoError(t, ctx.UsePassphrase("letmein"))
		require.NoError(t, ctx.UseCertificate(certPEM, PEM))
		require.NoError(t, ctx.UsePrivateKey(keyPEM, PEM))
		assert.Len(t, ctx.NativeHandle().Certificates(), 1)
	})

	t.Run("encrypted key without passphrase", func(t *testing.T) {
		certPEM, keyPEM := generatePair(t, "letmein")
		ctx := MustNew(TLSServer)
		defer ctx.Close()

		require.NoError(t, ctx.UseCertificate(certPEM, PEM))
		err := ctx.UsePrivateKey(keyPEM, PEM)
		code, ok := tlserr.IsEngine(err)
		require.True(t, ok)
		assert.Equal(t, engine.StatusDecryptFailed, code)
		assert.Empty(t, ctx.NativeHandle().Certificates())
	})

	t.Run("encrypted key with wrong passphrase", func(t *testing.T) {
		certPEM, keyPEM := generatePair(t, "letmein")
		ctx := MustNew(TLSServer)
		defer ctx.Close()

		require.NoError(t, ctx.UsePassphrase("wrong"))
		require.NoError(t, ctx.UseCertificate(certPEM, PEM))
		err := ctx.UsePrivateKey(keyPEM, PEM)
		code, ok := tlserr.IsEngine(err)
		require.True(t, ok)
		assert.Equal(t, engine.StatusDecryptFailed, code)
	})
}

func TestUsePrivateKey_MismatchedPairIsEngineRejection(t *testing.T) {
	certPEM, _ := generatePair(t, "")
	_, otherKeyPEM := generatePair(t, "")

	ctx := MustNew(TLSServer)
	defer ctx.Close()

	require.NoError(t, ctx.UseCertificate(certPEM, PEM))
	err := ctx.UsePrivateKey(otherKeyPEM, PEM)
	require.Error(t, err)
	assert.False(t, tlserr.IsSequencing(err), "mismatch is an engine rejection, not a sequencing error")
	code, ok := tlserr.IsEngine(err)
	require.True(t, ok)
	assert.Equal(t, engine.StatusKeyMismatch, code)
}

func TestUseCertificateFileThenKeyFile(t *testing.T) {
	certPEM, keyPEM := generatePair(t, "")
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o644))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))

	ctx := MustNew(TLSServer)
	defer ctx.Close()

	require.NoError(t, ctx.UseCertificateFile(certFile, PEM))
	require.NoError(t, ctx.UsePrivateKeyFile(keyFile, PEM))
	assert.Len(t, ctx.NativeHandle().Certificates(), 1)
}

func TestUsePrivateKeyFile_MissingFileIsEngineRejection(t *testing.T) {
	ctx := MustNew(TLSServer)
	defer ctx.Close()

	require.NoError(t, ctx.UseCertificateFile("/nonexistent/server.crt", PEM))
	err := ctx.UsePrivateKeyFile("/nonexistent/server.key", PEM)
	code, ok := tlserr.IsEngine(err)
	require.True(t, ok)
	assert.Equal(t, engine.StatusFileError, code)
}

func TestUseTmpDH_NeverFails(t *testing.T) {
	ctx := MustNew(TLSServer)
	defer ctx.Close()

	assert.NoError(t, ctx.UseTmpDH(nil))
	assert.NoError(t, ctx.UseTmpDH([]byte("not dh params at all")))
	assert.NoError(t, ctx.UseTmpDHFile(""))
	assert.NoError(t, ctx.UseTmpDHFile("/nonexistent/dh.pem"))
}

func TestSetVerifyTrust(t *testing.T) {
	t.Run("valid CA buffer", func(t *testing.T) {
		caPEM, _ := generatePair(t, "")
		ctx := MustNew(TLSClient)
		defer ctx.Close()

		require.NoError(t, ctx.SetVerifyTrust(caPEM, PEM))
	})

	t.Run("buffer with zero certificates", func(t *testing.T) {
		ctx := MustNew(TLSClient)
		defer ctx.Close()

		err := ctx.SetVerifyTrust([]byte("-----BEGIN JUNK-----\nZm9v\n-----END JUNK-----\n"), PEM)
		code, ok := tlserr.IsEngine(err)
		require.True(t, ok)
		assert.Equal(t, engine.StatusNoTrustAnchors, code)
	})
}

func TestClientScenario_ForcedVersionAndSystemTrust(t *testing.T) {
	ctx := MustNew(TLSv12Client)
	defer ctx.Close()

	require.NoError(t, ctx.SetVerifyMode(VerifyPeer))
	require.NoError(t, ctx.SetDefaultVerifyPaths())

	version, forced := ctx.Store().Method().TLSVersion()
	assert.True(t, forced)
	assert.EqualValues(t, 0x0303, version) // TLS 1.2
	assert.NotNil(t, ctx.NativeHandle().TrustPool())
}

func TestCallbacks(t *testing.T) {
	ctx := MustNew(TLSServer)
	defer ctx.Close()

	// Default verify decision follows the engine's own validation.
	def := ctx.Store().VerifyCallback()
	assert.True(t, def(true, NewVerifyContext(&x509.Certificate{})))
	assert.False(t, def(false, NewVerifyContext(&x509.Certificate{})))

	called := false
	require.NoError(t, ctx.SetVerifyCallback(func(preverified bool, vc VerifyContext) bool {
		called = true
		assert.NotNil(t, vc.NativeHandle())
		return !preverified
	}))
	assert.True(t, ctx.Store().VerifyCallback()(false, NewVerifyContext(&x509.Certificate{})))
	assert.True(t, called)

	assert.Nil(t, ctx.Store().ServernameCallback())
	require.NoError(t, ctx.SetServernameCallback(func(s StreamHandle, name string) bool {
		return name == "accepted.local"
	}))
	cb := ctx.Store().ServernameCallback()
	require.NotNil(t, cb)
	assert.True(t, cb(nil, "accepted.local"))
	assert.False(t, cb(nil, "other.local"))
}

func TestMustWrappers(t *testing.T) {
	ctx := MustNew(TLSServer)
	defer ctx.Close()

	assert.NotPanics(t, func() {
		ctx.MustSetVerifyMode(VerifyPeer)
		ctx.MustClearOptions()
		ctx.MustUseTmpDH(nil)
	})

	_, keyPEM := generatePair(t, "")
	assert.Panics(t, func() { ctx.MustUsePrivateKey(keyPEM, PEM) })
}
