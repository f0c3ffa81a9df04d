package connection

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Endpoint is an IPv4 address and TCP port.
type Endpoint struct {
	Host uint32
	Port uint16
}

// Addr returns the host as a netip.Addr.
func (e Endpoint) Addr() netip.Addr {
	return netip.AddrFrom4([4]byte{
		byte(e.Host >> 24),
		byte(e.Host >> 16),
		byte(e.Host >> 8),
		byte(e.Host),
	})
}

// String returns "a.b.c.d:port".
func (e Endpoint) String() string {
	return netip.AddrPortFrom(e.Addr(), e.Port).String()
}

// PackIPv4 packs four octets into a host-order address.
func PackIPv4(b1, b2, b3, b4 uint8) uint32 {
	return uint32(b1)<<24 | uint32(b2)<<16 | uint32(b3)<<8 | uint32(b4)
}

// ParseIPv4 parses a dotted quad. Exactly four tokens are required, each a
// decimal value in [0, 255].
func ParseIPv4(s string) (uint32, error) {
	tokens := strings.Split(s, ".")
	if len(tokens) != 4 {
		return 0, fmt.Errorf("%w: %q: want 4 dot-separated octets, got %d", ErrInvalidAddress, s, len(tokens))
	}

	var octets [4]uint8
	for i, tok := range tokens {
		v, err := strconv.ParseUint(tok, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: octet %d (%q) is not a number in 0-255", ErrInvalidAddress, s, i+1, tok)
		}
		octets[i] = uint8(v)
	}

	return PackIPv4(octets[0], octets[1], octets[2], octets[3]), nil
}

// ParsePort parses a TCP port in [1, 65535].
func ParsePort(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: port %q must be a number in 1-65535", ErrInvalidAddress, s)
	}
	return uint16(v), nil
}

// ParseEndpoint parses the operator form "a.b.c.d:port".
func ParseEndpoint(s string) (Endpoint, error) {
	tokens := strings.Split(s, ":")
	if len(tokens) != 2 {
		return Endpoint{}, fmt.Errorf("%w: %q: want the format x.x.x.x:port", ErrInvalidAddress, s)
	}

	host, err := ParseIPv4(tokens[0])
	if err != nil {
		return Endpoint{}, err
	}
	port, err := ParsePort(tokens[1])
	if err != nil {
		return Endpoint{}, err
	}

	return Endpoint{Host: host, Port: port}, nil
}
