package credential

import (
	"crypto/tls"
	"fmt"
)

// Method packs the negotiation role and an optional forced protocol version
// into one value: the low byte carries the role (0 either, 1 client,
// 2 server) and the next byte carries the version as 0xXY for TLS X.Y, zero
// meaning unconstrained. The set below is closed; behavior for other bit
// patterns is unspecified.
type Method int

const (
	// Any TLS version.
	TLS       Method = 0x0000
	TLSClient Method = 0x0001
	TLSServer Method = 0x0002

	// Force a specific TLS version.
	TLSv1        Method = 0x1000
	TLSv1Client  Method = 0x1001
	TLSv1Server  Method = 0x1002
	TLSv11       Method = 0x1100
	TLSv11Client Method = 0x1101
	TLSv11Server Method = 0x1102
	TLSv12       Method = 0x1200
	TLSv12Client Method = 0x1201
	TLSv12Server Method = 0x1202
	TLSv13       Method = 0x1300
	TLSv13Client Method = 0x1301
	TLSv13Server Method = 0x1302

	// SSLv3 + TLS compatibility selectors. SSL itself is never offered;
	// these behave as unconstrained TLS.
	SSLv23       Method = 0x0300
	SSLv23Client Method = 0x0301
	SSLv23Server Method = 0x0302
)

// Role is the negotiation role extracted from a Method's low byte.
type Role int

const (
	RoleAny Role = iota
	RoleClient
	RoleServer
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "any"
	}
}

const compatVersionByte = 0x03

var knownMethods = map[Method]string{
	TLS:          "tls",
	TLSClient:    "tls_client",
	TLSServer:    "tls_server",
	TLSv1:        "tlsv1",
	TLSv1Client:  "tlsv1_client",
	TLSv1Server:  "tlsv1_server",
	TLSv11:       "tlsv11",
	TLSv11Client: "tlsv11_client",
	TLSv11Server: "tlsv11_server",
	TLSv12:       "tlsv12",
	TLSv12Client: "tlsv12_client",
	TLSv12Server: "tlsv12_server",
	TLSv13:       "tlsv13",
	TLSv13Client: "tlsv13_client",
	TLSv13Server: "tlsv13_server",
	SSLv23:       "sslv23",
	SSLv23Client: "sslv23_client",
	SSLv23Server: "sslv23_server",
}

// Valid reports whether m is one of the named constants.
func (m Method) Valid() bool {
	_, ok := knownMethods[m]
	return ok
}

// Role returns the negotiation role encoded in the low byte.
func (m Method) Role() Role {
	switch int(m) & 0x03 {
	case 0x01:
		return RoleClient
	case 0x02:
		return RoleServer
	default:
		return RoleAny
	}
}

// IsServer reports whether bit 1 of the role byte is set.
func (m Method) IsServer() bool { return int(m)&0x02 != 0 }

// IsClient reports whether the method selects the client role.
func (m Method) IsClient() bool { return int(m)&0x01 != 0 }

// Version returns the forced protocol version as a major.minor pair. forced
// is false for unconstrained methods, including the SSLv23 compatibility
// selectors.
func (m Method) Version() (major, minor uint8, forced bool) {
	v := (int(m) >> 8) & 0xFF
	if v == 0 || v == compatVersionByte {
		return 0, 0, false
	}
	return uint8(v >> 4), uint8(v & 0x0F), true
}

// TLSVersion maps the forced version, if any, onto the crypto/tls version
// constant a stream should pin both MinVersion and MaxVersion to.
func (m Method) TLSVersion() (uint16, bool) {
	major, minor, forced := m.Version()
	if !forced || major != 1 {
		return 0, false
	}
	switch minor {
	case 0:
		return tls.VersionTLS10, true
	case 1:
		return tls.VersionTLS11, true
	case 2:
		return tls.VersionTLS12, true
	case 3:
		return tls.VersionTLS13, true
	default:
		return 0, false
	}
}

func (m Method) String() string {
	if name, ok := knownMethods[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%#04x)", int(m))
}
