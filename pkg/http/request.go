package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies is a parsed set of proxy networks whose forwarding headers
// are believed. The zero value trusts nobody.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies parses CIDR ranges; invalid entries are skipped.
func ParseTrustedProxies(cidrs []string) TrustedProxies {
	var tp TrustedProxies
	for _, c := range cidrs {
		p, err := netip.ParsePrefix(strings.TrimSpace(c))
		if err != nil {
			continue
		}
		tp.prefixes = append(tp.prefixes, p.Masked())
	}
	return tp
}

// Contains reports whether addr falls inside a trusted network.
func (tp TrustedProxies) Contains(addr string) bool {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	for _, p := range tp.prefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the address of the client that sent r.
// X-Forwarded-For and X-Real-IP are consulted only when the direct peer is
// a trusted proxy; otherwise they are attacker controlled.
func ClientIP(r *http.Request, proxies TrustedProxies) string {
	peer := remoteHost(r)
	if !proxies.Contains(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			candidate := strings.TrimSpace(part)
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

	return peer
}

func remoteHost(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
