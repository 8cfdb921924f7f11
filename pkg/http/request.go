package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver extracts the client address of a request. Forwarding headers
// are only believed when the direct peer is inside a trusted proxy range.
type IPResolver struct {
	trusted []netip.Prefix
}

// NewIPResolver parses the trusted proxy CIDR ranges, skipping invalid entries
func NewIPResolver(trustedProxies []string) *IPResolver {
	res := &IPResolver{}
	for _, cidr := range trustedProxies {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			continue
		}
		res.trusted = append(res.trusted, prefix.Masked())
	}
	return res
}

// ClientIP returns the first valid X-Forwarded-For entry, then X-Real-IP,
// when the peer is a trusted proxy, and the peer address otherwise.
func (res *IPResolver) ClientIP(r *http.Request) string {
	remote := remoteAddr(r)
	if res == nil || !res.isTrusted(remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, candidate := range strings.Split(xff, ",") {
			candidate = strings.TrimSpace(candidate)
			if _, err := netip.ParseAddr(candidate); err == nil {
				return candidate
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}

	return remote
}

// KeyByClientIP adapts ClientIP to the key function shape httprate expects
func (res *IPResolver) KeyByClientIP(r *http.Request) (string, error) {
	return res.ClientIP(r), nil
}

func (res *IPResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range res.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteAddr(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
