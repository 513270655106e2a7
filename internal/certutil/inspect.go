package certutil

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net"
	"strings"
	"time"
)

// Summary describes one parsed certificate for display.
type Summary struct {
	Subject      string
	Issuer       string
	SerialNumber string
	NotBefore    time.Time
	NotAfter     time.Time
	DNSNames     []string
	IPAddresses  []net.IP
	IsCA         bool
	KeyAlgorithm string
	SelfSigned   bool
}

// Inspect parses the first certificate in a PEM buffer and summarizes it.
func Inspect(certPEM []byte) (*Summary, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("no certificate PEM data found")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	return &Summary{
		Subject:      cert.Subject.String(),
		Issuer:       cert.Issuer.String(),
		SerialNumber: cert.SerialNumber.String(),
		NotBefore:    cert.NotBefore,
		NotAfter:     cert.NotAfter,
		DNSNames:     cert.DNSNames,
		IPAddresses:  cert.IPAddresses,
		IsCA:         cert.IsCA,
		KeyAlgorithm: cert.PublicKeyAlgorithm.String(),
		SelfSigned:   cert.Subject.String() == cert.Issuer.String(),
	}, nil
}

// Format renders a summary as indented text.
func (s *Summary) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject:       %s\n", s.Subject)
	fmt.Fprintf(&b, "Issuer:        %s\n", s.Issuer)
	fmt.Fprintf(&b, "Serial:        %s\n", s.SerialNumber)
	fmt.Fprintf(&b, "Valid from:    %s\n", s.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(&b, "Valid until:   %s\n", s.NotAfter.Format(time.RFC3339))
	if len(s.DNSNames) > 0 {
		fmt.Fprintf(&b, "DNS names:     %s\n", strings.Join(s.DNSNames, ", "))
	}
	if len(s.IPAddresses) > 0 {
		ips := make([]string, len(s.IPAddresses))
		for i, ip := range s.IPAddresses {
			ips[i] = ip.String()
		}
		fmt.Fprintf(&b, "IP addresses:  %s\n", strings.Join(ips, ", "))
	}
	fmt.Fprintf(&b, "Key algorithm: %s\n", s.KeyAlgorithm)
	fmt.Fprintf(&b, "CA:            %t\n", s.IsCA)
	fmt.Fprintf(&b, "Self-signed:   %t\n", s.SelfSigned)
	return b.String()
}
