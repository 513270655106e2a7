// Package config declares a YAML-friendly description of a TLS credential
// context and builds configured credential.Context values from it.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/polisai/tlscred/pkg/credential"
)

// ConfigError reports an invalid or missing configuration field together
// with remediation hints.
type ConfigError struct {
	Field       string
	Reason      string
	Suggestions []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in field '%s': %s", e.Field, e.Reason)
}

// WithSuggestion appends a remediation hint.
func (e *ConfigError) WithSuggestion(s string) *ConfigError {
	e.Suggestions = append(e.Suggestions, s)
	return e
}

func newMissingError(field string) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf("required field '%s' is missing", field)}
}

func newValidationError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// Credential describes one credential context.
type Credential struct {
	// Role selects the negotiation role: "any", "client", or "server".
	Role string `yaml:"role" json:"role"`

	// Version forces a protocol version: "", "1.0", "1.1", "1.2", "1.3".
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	CertFile string `yaml:"cert_file,omitempty" json:"cert_file,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty" json:"key_file,omitempty"`

	// CertPEM and KeyPEM hold inline material, mutually exclusive with
	// the file fields.
	CertPEM string `yaml:"cert_pem,omitempty" json:"cert_pem,omitempty"`
	KeyPEM  string `yaml:"key_pem,omitempty" json:"key_pem,omitempty"`

	Passphrase string `yaml:"passphrase,omitempty" json:"passphrase,omitempty"`

	CAFile      string `yaml:"ca_file,omitempty" json:"ca_file,omitempty"`
	CAPEM       string `yaml:"ca_pem,omitempty" json:"ca_pem,omitempty"`
	SystemTrust bool   `yaml:"system_trust,omitempty" json:"system_trust,omitempty"`

	// Verify lists verification flags: "peer", "fail_if_no_peer_cert",
	// "client_once". Empty means no verification.
	Verify []string `yaml:"verify,omitempty" json:"verify,omitempty"`

	// Options lists legacy option flags: "default_workarounds",
	// "single_dh_use", "no_sslv2", "no_sslv3".
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// Load reads and validates a credential description from a YAML file.
func Load(path string) (*Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Credential
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks field combinations before any engine work happens.
func (c *Credential) Validate() error {
	if _, err := c.method(); err != nil {
		return err
	}
	if c.CertFile != "" && c.CertPEM != "" {
		return newValidationError("cert_pem", "cert_file and cert_pem are mutually exclusive").
			WithSuggestion("Provide the certificate either as a file path or inline, not both")
	}
	if c.KeyFile != "" && c.KeyPEM != "" {
		return newValidationError("key_pem", "key_file and key_pem are mutually exclusive").
			WithSuggestion("Provide the private key either as a file path or inline, not both")
	}
	if (c.KeyFile != "" || c.KeyPEM != "") && c.CertFile == "" && c.CertPEM == "" {
		return newMissingError("cert_file").
			WithSuggestion("A private key requires its certificate; configure cert_file or cert_pem")
	}
	if c.KeyFile != "" && c.CertPEM != "" || c.KeyPEM != "" && c.CertFile != "" {
		return newValidationError("key_file", "certificate and key must use the same form").
			WithSuggestion("Use file paths for both or inline PEM for both")
	}
	if _, err := c.verifyMode(); err != nil {
		return err
	}
	if _, err := c.options(); err != nil {
		return err
	}
	return nil
}

// Build constructs and configures a credential context. Installation order
// follows the engine's requirements: passphrase before the key, certificate
// before the key.
func (c *Credential) Build(opts ...credential.Option) (*credential.Context, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	m, err := c.method()
	if err != nil {
		return nil, err
	}

	ctx, err := credential.New(m, opts...)
	if err != nil {
		return nil, err
	}

	if err := c.apply(ctx); err != nil {
		ctx.Close()
		return nil, err
	}
	return ctx, nil
}

func (c *Credential) apply(ctx *credential.Context) error {
	verify, _ := c.verifyMode()
	if err := ctx.SetVerifyMode(verify); err != nil {
		return err
	}
	options, _ := c.options()
	if err := ctx.SetOptions(options); err != nil {
		return err
	}
	if c.Passphrase != "" {
		if err := ctx.UsePassphrase(c.Passphrase); err != nil {
			return err
		}
	}
	switch {
	case c.CertFile != "":
		if err := ctx.UseCertificateFile(c.CertFile, credential.PEM); err != nil {
			return err
		}
		if c.KeyFile != "" {
			if err := ctx.UsePrivateKeyFile(c.KeyFile, credential.PEM); err != nil {
				return err
			}
		}
	case c.CertPEM != "":
		if err := ctx.UseCertificate([]byte(c.CertPEM), credential.PEM); err != nil {
			return err
		}
		if c.KeyPEM != "" {
			if err := ctx.UsePrivateKey([]byte(c.KeyPEM), credential.PEM); err != nil {
				return err
			}
		}
	}
	if c.SystemTrust {
		if err := ctx.SetDefaultVerifyPaths(); err != nil {
			return err
		}
	}
	if c.CAPEM != "" {
		if err := ctx.SetVerifyTrust([]byte(c.CAPEM), credential.PEM); err != nil {
			return err
		}
	}
	if c.CAFile != "" {
		data, err := os.ReadFile(c.CAFile)
		if err != nil {
			return fmt.Errorf("read CA bundle: %w", err)
		}
		if err := ctx.SetVerifyTrust(data, credential.PEM); err != nil {
			return err
		}
	}
	return nil
}

func (c *Credential) method() (credential.Method, error) {
	role := strings.ToLower(strings.TrimSpace(c.Role))
	var roleBits credential.Method
	switch role {
	case "", "any":
		roleBits = credential.TLS
	case "client":
		roleBits = credential.TLSClient
	case "server":
		roleBits = credential.TLSServer
	default:
		return 0, newValidationError("role", fmt.Sprintf("unknown role %q", c.Role)).
			WithSuggestion("Use one of: any, client, server")
	}

	switch strings.TrimSpace(c.Version) {
	case "":
		return roleBits, nil
	case "1.0":
		return credential.TLSv1 | roleBits, nil
	case "1.1":
		return credential.TLSv11 | roleBits, nil
	case "1.2":
		return credential.TLSv12 | roleBits, nil
	case "1.3":
		return credential.TLSv13 | roleBits, nil
	default:
		return 0, newValidationError("version", fmt.Sprintf("unsupported TLS version %q", c.Version)).
			WithSuggestion("Use one of: 1.0, 1.1, 1.2, 1.3, or leave empty for any")
	}
}

func (c *Credential) verifyMode() (credential.VerifyMode, error) {
	mode := credential.VerifyNone
	for _, flag := range c.Verify {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "none":
		case "peer":
			mode |= credential.VerifyPeer
		case "fail_if_no_peer_cert":
			mode |= credential.VerifyFailIfNoPeerCert
		case "client_once":
			mode |= credential.VerifyClientOnce
		default:
			return 0, newValidationError("verify", fmt.Sprintf("unknown verify flag %q", flag)).
				WithSuggestion("Use: none, peer, fail_if_no_peer_cert, client_once")
		}
	}
	return mode, nil
}

func (c *Credential) options() (credential.Options, error) {
	var opts credential.Options
	for _, flag := range c.Options {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "default_workarounds":
			opts |= credential.DefaultWorkarounds
		case "single_dh_use":
			opts |= credential.SingleDHUse
		case "no_sslv2":
			opts |= credential.NoSSLv2
		case "no_sslv3":
			opts |= credential.NoSSLv3
		default:
			return 0, newValidationError("options", fmt.Sprintf("unknown option flag %q", flag)).
				WithSuggestion("Use: default_workarounds, single_dh_use, no_sslv2, no_sslv3")
		}
	}
	return opts, nil
}
