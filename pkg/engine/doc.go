// Package engine is the facade over the native TLS machinery that backs
// credential handles.
//
// It exposes the small set of primitives the credential layer needs:
// allocating and freeing a credentials handle, installing a certificate and
// private key pair (atomically, from files or memory, optionally
// passphrase-protected), installing CA trust anchors, and formatting engine
// status codes as human-readable strings. Certificate parsing and the
// handshake state machine belong to crypto/tls and crypto/x509, not here.
package engine
