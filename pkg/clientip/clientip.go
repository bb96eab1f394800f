package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders in priority order. CDN headers outrank generic proxy
// headers because the CDN terminates the client connection directly and
// overwrites any value the client supplied.
var proxyHeaders = [...]string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP extracts the client IP address from the request, preferring
// trusted proxy headers over the raw connection address. It always
// returns a non-empty string; when nothing parses it falls back to the
// raw RemoteAddr.
func GetIP(r *http.Request) string {
	for _, header := range proxyHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// X-Forwarded-For may hold a chain "client, proxy1, proxy2";
		// the leftmost entry is the original client.
		if ip := validIP(strings.Split(value, ",")[0]); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := validIP(host); ip != "" {
		return ip
	}

	return r.RemoteAddr
}

// validIP normalizes the candidate and rejects anything unparseable,
// plus the unspecified address (0.0.0.0 / ::), which signals "no client
// IP" rather than a usable one.
func validIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
