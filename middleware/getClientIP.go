package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// clientIPResolver picks the address a request is attributed to. Forwarding headers are only
// honoured when the direct peer is one of the trusted proxies; otherwise any client could pick
// its own rate-limit bucket.
type clientIPResolver struct {
	trusted []*net.IPNet
}

// newClientIPResolver accepts CIDRs ("10.0.0.0/8") and single addresses ("127.0.0.1").
// Unparseable entries are logged and skipped.
func newClientIPResolver(proxies []string) *clientIPResolver {
	r := &clientIPResolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				zap.L().Warn("Ignoring invalid trusted proxy", zap.String("proxy", p))
				continue
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			r.trusted = append(r.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(p)
		if err != nil {
			zap.L().Warn("Ignoring invalid trusted proxy", zap.String("proxy", p), zap.Error(err))
			continue
		}
		r.trusted = append(r.trusted, network)
	}
	return r
}

func (r *clientIPResolver) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range r.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP walks X-Forwarded-For from the nearest hop outwards and returns the first address
// that is not a trusted proxy.
func (r *clientIPResolver) clientIP(c *gin.Context) string {
	remote := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if !r.isTrusted(remote) {
		return remote
	}

	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if i == 0 || !r.isTrusted(hop) {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return remote
}
