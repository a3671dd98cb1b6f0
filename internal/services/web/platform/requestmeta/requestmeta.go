// Package requestmeta derives scheme, origin and return-path facts from
// incoming requests.
package requestmeta

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls how the request scheme is resolved.
//
// X-Forwarded-Proto is only honoured when TrustForwardedProto is set, which
// deployments enable when a trusted proxy terminates TLS.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// IsHTTPS reports whether r should be treated as HTTPS under policy.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return scheme(r, policy) == "https"
}

// HasSameOriginProof reports whether the Origin header, or failing that the
// Referer, names the same scheme, host and port as the request.
func HasSameOriginProof(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	want, ok := requestOrigin(r, policy)
	if !ok {
		return false
	}
	for _, header := range []string{"Origin", "Referer"} {
		raw := strings.TrimSpace(r.Header.Get(header))
		if raw == "" {
			continue
		}
		got, ok := parseOrigin(raw)
		return ok && got == want
	}
	return false
}

// ReturnPath picks a same-origin path to send the browser back to: the
// explicit candidate first, then the Referer. Anything that could leave the
// site resolves to fallback.
func ReturnPath(r *http.Request, candidate string, fallback string) string {
	if path, ok := localPath(candidate); ok {
		return path
	}
	if r != nil {
		if ref, err := url.Parse(strings.TrimSpace(r.Header.Get("Referer"))); err == nil && ref.Host != "" {
			if strings.EqualFold(ref.Host, r.Host) {
				if path, ok := localPath(ref.RequestURI()); ok {
					return path
				}
			}
		}
	}
	return fallback
}

type origin struct {
	scheme string
	host   string
	port   string
}

func requestOrigin(r *http.Request, policy SchemePolicy) (origin, bool) {
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	o := origin{scheme: scheme(r, policy)}
	o.host, o.port = splitHostPort(host, o.scheme)
	return o, o.host != ""
}

func parseOrigin(raw string) (origin, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return origin{}, false
	}
	s := strings.ToLower(parsed.Scheme)
	if s != "http" && s != "https" {
		return origin{}, false
	}
	o := origin{scheme: s}
	o.host, o.port = splitHostPort(parsed.Host, s)
	return o, o.host != ""
}

func splitHostPort(raw string, scheme string) (string, string) {
	raw = strings.TrimSpace(raw)
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		host, port = strings.Trim(raw, "[]"), ""
	}
	if port == "" {
		port = defaultPort(scheme)
	}
	return strings.ToLower(host), port
}

func scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		if forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded == "http" || forwarded == "https" {
			return forwarded
		}
	}
	if r.URL != nil {
		if s := strings.ToLower(r.URL.Scheme); s == "http" || s == "https" {
			return s
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func defaultPort(scheme string) string {
	if scheme == "https" {
		return "443"
	}
	return "80"
}

func localPath(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "", false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host != "" || parsed.Scheme != "" {
		return "", false
	}
	return parsed.RequestURI(), true
}
