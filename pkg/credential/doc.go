// Package credential implements the public configuration surface for TLS
// contexts: trust material, certificate and key installation, negotiation
// policy, and handshake-time callbacks.
//
// A Context is a movable, non-copyable handle over a reference-counted
// credential Store. The Store owns the native engine handle and outlives the
// Context while any dependent stream still retains it. Configuration is not
// internally synchronized; a Context must be fully configured before it is
// shared with a connection.
package credential
