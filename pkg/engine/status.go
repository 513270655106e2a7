package engine

import "fmt"

// Status is a native-style engine status code. Zero means success; failures
// are negative, matching the convention of credential-handle TLS libraries so
// callers can carry codes through error values unchanged.
type Status int

const (
	StatusSuccess Status = 0

	// StatusInternal covers failures with no more specific code.
	StatusInternal Status = -1

	// StatusAllocation reports that a credentials handle could not be
	// allocated. Treated as resource exhaustion by the credential layer.
	StatusAllocation Status = -2

	// StatusFileError reports that a certificate, key, or trust file could
	// not be read.
	StatusFileError Status = -3

	// StatusBadCertificate reports an unparsable or empty certificate.
	StatusBadCertificate Status = -4

	// StatusBadPrivateKey reports an unparsable private key.
	StatusBadPrivateKey Status = -5

	// StatusKeyMismatch reports a private key that does not match the
	// public key of its paired certificate.
	StatusKeyMismatch Status = -6

	// StatusDecryptFailed reports a missing or wrong passphrase for an
	// encrypted private key.
	StatusDecryptFailed Status = -7

	// StatusNoTrustAnchors reports that a trust install processed zero
	// certificates.
	StatusNoTrustAnchors Status = -8

	// StatusSystemTrust reports that the platform trust store could not be
	// loaded.
	StatusSystemTrust Status = -9

	// StatusUnsupportedFormat reports an unknown material encoding.
	StatusUnsupportedFormat Status = -10
)

var statusText = map[Status]string{
	StatusSuccess:           "success",
	StatusInternal:          "internal engine error",
	StatusAllocation:        "credentials allocation failed",
	StatusFileError:         "cannot read credential file",
	StatusBadCertificate:    "invalid certificate",
	StatusBadPrivateKey:     "invalid private key",
	StatusKeyMismatch:       "private key does not match certificate",
	StatusDecryptFailed:     "private key decryption failed",
	StatusNoTrustAnchors:    "no trust anchors found",
	StatusSystemTrust:       "system trust store unavailable",
	StatusUnsupportedFormat: "unsupported credential format",
}

// Strerror formats a status code as a human-readable message. Unknown codes
// get a generic message rather than an error; the map is immutable, so this
// is safe for concurrent use.
func Strerror(st Status) string {
	if s, ok := statusText[st]; ok {
		return s
	}
	return fmt.Sprintf("unknown engine status %d", int(st))
}
