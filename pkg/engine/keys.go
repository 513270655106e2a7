package engine

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"
)

func parseCertificateChain(data []byte, format Format) ([][]byte, Status, error) {
	switch format {
	case FormatDER:
		if _, err := x509.ParseCertificate(data); err != nil {
			return nil, StatusBadCertificate, err
		}
		return [][]byte{data}, StatusSuccess, nil
	case FormatPEM:
		var chain [][]byte
		rest := data
		for {
			var block *pem.Block
			block, rest = pem.Decode(rest)
			if block == nil {
				break
			}
			if block.Type != "CERTIFICATE" {
				continue
			}
			if _, err := x509.ParseCertificate(block.Bytes); err != nil {
				return nil, StatusBadCertificate, err
			}
			chain = append(chain, block.Bytes)
		}
		if len(chain) == 0 {
			return nil, StatusBadCertificate, errors.New("no certificate PEM data found")
		}
		return chain, StatusSuccess, nil
	default:
		return nil, StatusUnsupportedFormat, fmt.Errorf("unknown format %d", int(format))
	}
}

func parsePrivateKey(data []byte, format Format, passphrase string) (crypto.PrivateKey, Status, error) {
	if format == FormatDER {
		key, err := parseKeyDER(data)
		if err != nil {
			return nil, StatusBadPrivateKey, err
		}
		return key, StatusSuccess, nil
	}
	if format != FormatPEM {
		return nil, StatusUnsupportedFormat, fmt.Errorf("unknown format %d", int(format))
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, StatusBadPrivateKey, errors.New("no private key PEM data found")
	}

	//nolint:staticcheck // legacy DEK-Info encryption is exactly what
	// passphrase-protected PEM keys in the wild use.
	if x509.IsEncryptedPEMBlock(block) {
		if passphrase == "" {
			return nil, StatusDecryptFailed, errors.New("encrypted private key and no passphrase set")
		}
		//nolint:staticcheck
		der, err := x509.DecryptPEMBlock(block, []byte(passphrase))
		if err != nil {
			return nil, StatusDecryptFailed, err
		}
		key, err := parseKeyDER(der)
		if err != nil {
			return nil, StatusBadPrivateKey, err
		}
		return key, StatusSuccess, nil
	}

	if block.Type == "OPENSSH PRIVATE KEY" || block.Type == "ENCRYPTED PRIVATE KEY" {
		var key interface{}
		var err error
		if passphrase != "" {
			key, err = ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(passphrase))
		} else {
			key, err = ssh.ParseRawPrivateKey(data)
		}
		if err != nil {
			var missing *ssh.PassphraseMissingError
			if errors.As(err, &missing) || errors.Is(err, x509.IncorrectPasswordError) {
				return nil, StatusDecryptFailed, err
			}
			if passphrase != "" {
				return nil, StatusDecryptFailed, err
			}
			return nil, StatusBadPrivateKey, err
		}
		return key, StatusSuccess, nil
	}

	key, err := parseKeyDER(block.Bytes)
	if err != nil {
		return nil, StatusBadPrivateKey, err
	}
	return key, StatusSuccess, nil
}

func parseKeyDER(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, errors.New("unrecognized private key encoding")
}

func parseTrustAnchors(data []byte, format Format) ([]*x509.Certificate, Status, error) {
	switch format {
	case FormatDER:
		cert, err := x509.ParseCertificate(data)
		if err != nil {
			return nil, StatusNoTrustAnchors, err
		}
		return []*x509.Certificate{cert}, StatusSuccess, nil
	case FormatPEM:
		var certs []*x509.Certificate
		rest := data
		for {
			var block *pem.Block
			block, rest = pem.Decode(rest)
			if block == nil {
				break
			}
			if block.Type != "CERTIFICATE" {
				continue
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				continue
			}
			certs = append(certs, cert)
		}
		return certs, StatusSuccess, nil
	default:
		return nil, StatusUnsupportedFormat, fmt.Errorf("unknown format %d", int(format))
	}
}

type publicKeyEqualer interface {
	Equal(crypto.PublicKey) bool
}

func matchKeyPair(leaf *x509.Certificate, priv crypto.PrivateKey) error {
	signer, ok := priv.(crypto.Signer)
	if !ok {
		return errors.New("private key does not implement crypto.Signer")
	}
	pub, ok := leaf.PublicKey.(publicKeyEqualer)
	if !ok {
		return errors.New("unsupported certificate public key type")
	}
	if !pub.Equal(signer.Public()) {
		return errors.New("private key does not match certificate public key")
	}
	return nil
}
