package target

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	scerrors "github.com/scamlens/scamlens/internal/shared/errors"
)

// Target contains the parsed, normalized form of a submitted URL.
// It is immutable once an analysis job starts.
type Target struct {
	Original string // Original input string, untouched
	URL      string // Normalized full URL (scheme always present)
	Host     string // Lower-cased hostname, leading "www." stripped
	Domain   string // Registered domain (eTLD+1); falls back to Host
}

// Parse normalizes an untrusted URL string into a Target.
// Bare hostnames are accepted: when no scheme is present, https:// is
// assumed. The host is lower-cased and a leading "www." is stripped.
//
// Unparseable input is an input-level error; the aggregator is never
// invoked for it.
func Parse(raw string) (*Target, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, scerrors.ErrEmptyURL
	}

	candidate := trimmed
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return nil, scerrors.ErrInvalidURL
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" || !strings.Contains(host, ".") {
		return nil, scerrors.ErrMissingHost
	}

	t := &Target{
		Original: raw,
		Host:     host,
		Domain:   registeredDomain(host),
	}

	// Rebuild the URL with the normalized host so every downstream consumer
	// sees the same canonical form.
	parsed.Host = rebuildHostPort(host, parsed.Port())
	t.URL = parsed.String()

	return t, nil
}

// SubdomainDepth reports how many labels the host carries beyond the
// registered domain. "a.b.c.example.com" has depth 3.
func (t *Target) SubdomainDepth() int {
	if t.Host == t.Domain {
		return 0
	}
	hostLabels := strings.Count(t.Host, ".") + 1
	domainLabels := strings.Count(t.Domain, ".") + 1
	depth := hostLabels - domainLabels
	if depth < 0 {
		return 0
	}
	return depth
}

// TLD returns the final label of the host, without a leading dot.
func (t *Target) TLD() string {
	idx := strings.LastIndex(t.Host, ".")
	if idx < 0 {
		return ""
	}
	return t.Host[idx+1:]
}

// registeredDomain resolves the eTLD+1 for a host using the public suffix
// list. Hosts that are themselves a public suffix (or unlisted) fall back
// to the host string, which keeps scoring deterministic for odd inputs.
func registeredDomain(host string) string {
	apex, err := publicsuffix.Domain(host)
	if err != nil {
		return host
	}
	return apex
}

func rebuildHostPort(host, port string) string {
	if port == "" {
		return host
	}
	return host + ":" + port
}
