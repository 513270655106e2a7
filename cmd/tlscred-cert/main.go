// tlscred-cert generates, inspects, and validates TLS credential material.
package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/polisai/tlscred/internal/certutil"
	"github.com/polisai/tlscred/pkg/credential"
)

func main() {
	root := &cobra.Command{
		Use:           "tlscred-cert",
		Short:         "Generate, inspect, and validate TLS credential material",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(generateCommand(), inspectCommand(), validateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func generateCommand() *cobra.Command {
	var (
		commonName string
		org        string
		dnsNames   string
		ips        string
		validFor   time.Duration
		keySize    int
		isCA       bool
		passphrase string
		certFile   string
		keyFile    string
		outputDir  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a self-signed certificate and private key",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := certutil.Options{
				CommonName:  commonName,
				DNSNames:    splitList(dnsNames),
				IPAddresses: parseIPs(ips),
				ValidFor:    validFor,
				KeySize:     keySize,
				IsCA:        isCA,
				Passphrase:  passphrase,
			}
			if org != "" {
				opts.Organization = []string{org}
			}
			certPEM, keyPEM, err := certutil.Generate(opts)
			if err != nil {
				return err
			}
			certPath := filepath.Join(outputDir, certFile)
			keyPath := filepath.Join(outputDir, keyFile)
			if err := certutil.WriteFiles(certPath, keyPath, certPEM, keyPEM); err != nil {
				return err
			}
			fmt.Printf("Wrote %s and %s\n", certPath, keyPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&commonName, "cn", "localhost", "Common name for the certificate")
	cmd.Flags().StringVar(&org, "org", "", "Organization name")
	cmd.Flags().StringVar(&dnsNames, "dns", "", "Comma-separated DNS names (SANs)")
	cmd.Flags().StringVar(&ips, "ips", "", "Comma-separated IP addresses")
	cmd.Flags().DurationVar(&validFor, "valid-for", 365*24*time.Hour, "Certificate validity duration")
	cmd.Flags().IntVar(&keySize, "key-size", 2048, "RSA key size in bits")
	cmd.Flags().BoolVar(&isCA, "ca", false, "Generate a CA certificate")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Encrypt the private key with this passphrase")
	cmd.Flags().StringVar(&certFile, "cert", "cert.pem", "Output certificate file")
	cmd.Flags().StringVar(&keyFile, "key", "key.pem", "Output private key file")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "Output directory")
	return cmd
}

func inspectCommand() *cobra.Command {
	var certFile string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a summary of a PEM certificate",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(certFile)
			if err != nil {
				return err
			}
			summary, err := certutil.Inspect(data)
			if err != nil {
				return err
			}
			fmt.Print(summary.Format())
			return nil
		},
	}

	cmd.Flags().StringVar(&certFile, "cert", "", "Certificate file to inspect")
	cmd.MarkFlagRequired("cert")
	return cmd
}

func validateCommand() *cobra.Command {
	var (
		certFile   string
		keyFile    string
		passphrase string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a certificate and key install as a pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := credential.New(credential.TLS)
			if err != nil {
				return err
			}
			defer ctx.Close()

			if passphrase != "" {
				if err := ctx.UsePassphrase(passphrase); err != nil {
					return err
				}
			}
			if err := ctx.UseCertificateFile(certFile, credential.PEM); err != nil {
				return err
			}
			if err := ctx.UsePrivateKeyFile(keyFile, credential.PEM); err != nil {
				return fmt.Errorf("pair rejected: %w", err)
			}
			fmt.Println("Certificate and key are a valid pair")
			return nil
		},
	}

	cmd.Flags().StringVar(&certFile, "cert", "", "Certificate file")
	cmd.Flags().StringVar(&keyFile, "key", "", "Private key file")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Private key passphrase")
	cmd.MarkFlagRequired("cert")
	cmd.MarkFlagRequired("key")
	return cmd
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseIPs(s string) []net.IP {
	var out []net.IP
	for _, part := range splitList(s) {
		if ip := net.ParseIP(part); ip != nil {
			out = append(out, ip)
		}
	}
	return out
}
