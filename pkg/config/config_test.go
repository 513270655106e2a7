package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/polisai/tlscred/internal/certutil"
	"github.com/polisai/tlscred/pkg/credential"
)

func TestCredential_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cred    Credential
		wantErr string
	}{
		{
			name: "minimal",
			cred: Credential{Role: "client"},
		},
		{
			name:    "unknown role",
			cred:    Credential{Role: "peer"},
			wantErr: "unknown role",
		},
		{
			name:    "unsupported version",
			cred:    Credential{Role: "server", Version: "0.9"},
			wantErr: "unsupported TLS version",
		},
		{
			name:    "cert file and inline are exclusive",
			cred:    Credential{CertFile: "a.pem", CertPEM: "inline"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "key without certificate",
			cred:    Credential{KeyFile: "k.pem"},
			wantErr: "cert_file",
		},
		{
			name:    "mixed forms",
			cred:    Credential{CertPEM: "inline", KeyFile: "k.pem"},
			wantErr: "same form",
		},
		{
			name:    "unknown verify flag",
			cred:    Credential{Verify: []string{"everything"}},
			wantErr: "unknown verify flag",
		},
		{
			name:    "unknown option flag",
			cred:    Credential{Options: []string{"no_tlsv9"}},
			wantErr: "unknown option flag",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cred.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCredential_Build_InlinePEM(t *testing.T) {
	certPEM, keyPEM, err := certutil.Generate(certutil.Options{
		CommonName: "config.test",
		Passphrase: "hunter2",
	})
	require.NoError(t, err)
	caPEM, _, err := certutil.Generate(certutil.Options{CommonName: "ca.test", IsCA: true})
	require.NoError(t, err)

	cred := Credential{
		Role:       "server",
		Version:    "1.3",
		CertPEM:    string(certPEM),
		KeyPEM:     string(keyPEM),
		Passphrase: "hunter2",
		CAPEM:      string(caPEM),
		Verify:     []string{"peer", "fail_if_no_peer_cert"},
		Options:    []string{"no_sslv3"},
	}

	ctx, err := cred.Build()
	require.NoError(t, err)
	defer ctx.Close()

	store := ctx.Store()
	assert.Equal(t, credential.TLSv13Server, store.Method())
	assert.Equal(t, credential.VerifyPeer|credential.VerifyFailIfNoPeerCert, store.VerifyMode())
	assert.Equal(t, credential.NoSSLv3, store.Options())
	assert.Len(t, ctx.NativeHandle().Certificates(), 1)
}

func TestCredential_Build_WrongPassphraseFails(t *testing.T) {
	certPEM, keyPEM, err := certutil.Generate(certutil.Options{
		CommonName: "config.test",
		Passphrase: "correct",
	})
	require.NoError(t, err)

	cred := Credential{
		Role:       "server",
		CertPEM:    string(certPEM),
		KeyPEM:     string(keyPEM),
		Passphrase: "incorrect",
	}
	_, err = cred.Build()
	assert.Error(t, err)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	certPEM, keyPEM, err := certutil.Generate(certutil.Options{CommonName: "yaml.test"})
	require.NoError(t, err)

	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	require.NoError(t, certutil.WriteFiles(certFile, keyFile, certPEM, keyPEM))

	doc, err := yaml.Marshal(Credential{
		Role:     "server",
		Version:  "1.2",
		CertFile: certFile,
		KeyFile:  keyFile,
		Verify:   []string{"peer"},
	})
	require.NoError(t, err)
	configPath := filepath.Join(dir, "tls.yaml")
	require.NoError(t, os.WriteFile(configPath, doc, 0o644))

	cred, err := Load(configPath)
	require.NoError(t, err)

	ctx, err := cred.Build()
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, credential.TLSv12Server, ctx.Store().Method())
	assert.Len(t, ctx.NativeHandle().Certificates(), 1)
}

func TestLoad_RejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("role: [nested"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
