package engine

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisai/tlscred/internal/certutil"
)

func TestAllocateCredentials(t *testing.T) {
	cred, err := AllocateCredentials()
	require.NoError(t, err)
	assert.False(t, cred.Closed())
	assert.Empty(t, cred.Certificates())

	cred.Close()
	assert.True(t, cred.Closed())
	cred.Close() // idempotent
}

func TestAllocateCredentials_Exhaustion(t *testing.T) {
	allocFailure = func() error { return errors.New("out of handles") }
	defer func() { allocFailure = nil }()

	_, err := AllocateCredentials()
	assert.Error(t, err)
}

func TestStrerror(t *testing.T) {
	assert.Equal(t, "success", Strerror(StatusSuccess))
	assert.Equal(t, "private key does not match certificate", Strerror(StatusKeyMismatch))
	assert.Contains(t, Strerror(Status(-12345)), "unknown engine status")
}

func TestSetKeyPairMem(t *testing.T) {
	certPEM, keyPEM, err := certutil.Generate(certutil.Options{CommonName: "engine.test"})
	require.NoError(t, err)

	t.Run("PEM pair", func(t *testing.T) {
		cred, err := AllocateCredentials()
		require.NoError(t, err)
		defer cred.Close()

		st, cause := SetKeyPairMem(cred, certPEM, keyPEM, FormatPEM, "")
		require.Equal(t, StatusSuccess, st, "cause: %v", cause)
		require.Len(t, cred.Certificates(), 1)
		assert.NotNil(t, cred.Certificates()[0].Leaf)
	})

	t.Run("DER pair", func(t *testing.T) {
		certBlock, _ := pem.Decode(certPEM)
		keyBlock, _ := pem.Decode(keyPEM)

		cred, err := AllocateCredentials()
		require.NoError(t, err)
		defer cred.Close()

		st, cause := SetKeyPairMem(cred, certBlock.Bytes, keyBlock.Bytes, FormatDER, "")
		require.Equal(t, StatusSuccess, st, "cause: %v", cause)
		assert.Len(t, cred.Certificates(), 1)
	})

	t.Run("garbage certificate", func(t *testing.T) {
		cred, err := AllocateCredentials()
		require.NoError(t, err)
		defer cred.Close()

		st, _ := SetKeyPairMem(cred, []byte("garbage"), keyPEM, FormatPEM, "")
		assert.Equal(t, StatusBadCertificate, st)
		assert.Empty(t, cred.Certificates(), "failed install must leave the handle unchanged")
	})

	t.Run("garbage key", func(t *testing.T) {
		cred, err := AllocateCredentials()
		require.NoError(t, err)
		defer cred.Close()

		st, _ := SetKeyPairMem(cred, certPEM, []byte("garbage"), FormatPEM, "")
		assert.Equal(t, StatusBadPrivateKey, st)
		assert.Empty(t, cred.Certificates())
	})

	t.Run("unknown format", func(t *testing.T) {
		cred, err := AllocateCredentials()
		require.NoError(t, err)
		defer cred.Close()

		st, _ := SetKeyPairMem(cred, certPEM, keyPEM, Format(42), "")
		assert.Equal(t, StatusUnsupportedFormat, st)
	})
}

func TestSetKeyPairMem_EncryptedKey(t *testing.T) {
	certPEM, keyPEM, err := certutil.Generate(certutil.Options{
		CommonName: "engine.test",
		Passphrase: "s3cret",
	})
	require.NoError(t, err)

	cred, err := AllocateCredentials()
	require.NoError(t, err)
	defer cred.Close()

	st, _ := SetKeyPairMem(cred, certPEM, keyPEM, FormatPEM, "")
	assert.Equal(t, StatusDecryptFailed, st)

	st, _ = SetKeyPairMem(cred, certPEM, keyPEM, FormatPEM, "nope")
	assert.Equal(t, StatusDecryptFailed, st)

	st, cause := SetKeyPairMem(cred, certPEM, keyPEM, FormatPEM, "s3cret")
	require.Equal(t, StatusSuccess, st, "cause: %v", cause)
	assert.Len(t, cred.Certificates(), 1)
}

func TestSetTrustMem(t *testing.T) {
	caPEM, _, err := certutil.Generate(certutil.Options{CommonName: "ca.test", IsCA: true})
	require.NoError(t, err)

	cred, err := AllocateCredentials()
	require.NoError(t, err)
	defer cred.Close()

	n, st, cause := SetTrustMem(cred, caPEM, FormatPEM)
	require.Equal(t, StatusSuccess, st, "cause: %v", cause)
	assert.Equal(t, 1, n)

	// Two concatenated bundles count individually.
	n, st, _ = SetTrustMem(cred, append(append([]byte{}, caPEM...), caPEM...), FormatPEM)
	require.Equal(t, StatusSuccess, st)
	assert.Equal(t, 2, n)

	n, st, _ = SetTrustMem(cred, []byte("no pem here"), FormatPEM)
	assert.Equal(t, StatusNoTrustAnchors, st)
	assert.Zero(t, n)
}

func TestTrustPool_CombinesSystemAndExtra(t *testing.T) {
	caPEM, _, err := certutil.Generate(certutil.Options{CommonName: "ca.test", IsCA: true})
	require.NoError(t, err)

	cred, err := AllocateCredentials()
	require.NoError(t, err)
	defer cred.Close()

	_, st, _ := SetTrustMem(cred, caPEM, FormatPEM)
	require.Equal(t, StatusSuccess, st)

	pool := cred.TrustPool()
	require.NotNil(t, pool)
	assert.False(t, pool.Equal(x509.NewCertPool()), "installed anchor must be present")

	st, cause := SetSystemTrust(cred)
	require.Equal(t, StatusSuccess, st, "cause: %v", cause)
	assert.NotNil(t, cred.TrustPool())
}
