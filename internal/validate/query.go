// Package validate classifies lookup items before they are sent to the registry.
package validate

import "net/netip"

// Kind is the registry endpoint family a lookup item belongs to.
type Kind int

const (
	// KindDomain is any item that is not an IP literal. Domain syntax is not
	// checked locally; the registry is authoritative.
	KindDomain Kind = iota
	// KindIP is an IPv4 or IPv6 literal.
	KindIP
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k == KindIP {
		return "ip"
	}
	return "domain"
}

// MarshalText implements encoding.TextMarshaler so Kind renders as "domain"/"ip" in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classify reports whether item is an IP literal or a domain name.
// It never fails: anything that does not parse as an IPv4 or IPv6 address
// (zones included, CIDR prefixes excluded) is a domain.
func Classify(item string) Kind {
	if IsIP(item) {
		return KindIP
	}
	return KindDomain
}

// IsIP reports whether s is a strict IPv4 or IPv6 literal.
func IsIP(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}
	return addr.Is4() || addr.Is6()
}
