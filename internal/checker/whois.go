package checker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// WhoisChecker queries WHOIS for domain registration data.
//
// The IANA root registry is asked for the registry server of the TLD, then
// that server is queried for the domain record. Records are free-text, so
// the fields of interest are pulled out of the common key: value variants.
type WhoisChecker struct {
	Timeout time.Duration
	// Server overrides the referral chain (host:port). Used by tests.
	Server string
}

const ianaWhois = "whois.iana.org:43"

// Check looks up registration date, registrar, and registrant country for
// a registered domain and derives the domain age in days.
func (w *WhoisChecker) Check(ctx context.Context, domain string) WhoisCheck {
	result := WhoisCheck{}

	server := w.Server
	if server == "" {
		referral, err := w.referralServer(ctx, domain)
		if err != nil {
			result.Error = fmt.Sprintf("WHOIS referral failed: %v", err)
			return result
		}
		server = referral
	}

	record, err := w.query(ctx, server, domain)
	if err != nil {
		result.Error = fmt.Sprintf("WHOIS query failed: %v", err)
		return result
	}

	parseWhoisRecord(record, &result)
	if result.CreationDate == "" {
		result.Error = "no creation date in WHOIS record"
		return result
	}

	if created, err := parseWhoisDate(result.CreationDate); err == nil {
		age := int(time.Since(created).Hours() / 24)
		result.DomainAge = &age
	}
	return result
}

// Name returns the name of this checker.
func (w *WhoisChecker) Name() string {
	return "check whois"
}

// referralServer asks the IANA root for the TLD's registry WHOIS server.
func (w *WhoisChecker) referralServer(ctx context.Context, domain string) (string, error) {
	idx := strings.LastIndex(domain, ".")
	if idx < 0 {
		return "", fmt.Errorf("domain %s has no TLD", domain)
	}
	tld := domain[idx+1:]

	record, err := w.query(ctx, ianaWhois, tld)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(record, "\n") {
		if v, ok := whoisValue(line, "whois"); ok {
			return net.JoinHostPort(v, "43"), nil
		}
	}
	return "", fmt.Errorf("no registry WHOIS server for .%s", tld)
}

func (w *WhoisChecker) query(ctx context.Context, server, q string) (string, error) {
	dialer := &net.Dialer{Timeout: w.Timeout}

	queryCtx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	conn, err := dialer.DialContext(queryCtx, "tcp", server)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(w.Timeout))

	if _, err := fmt.Fprintf(conn, "%s\r\n", q); err != nil {
		return "", err
	}

	var sb strings.Builder
	reader := bufio.NewReader(conn)
	if _, err := io.Copy(&sb, reader); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// whoisKeys maps record fields to the key variants registries use.
var whoisKeys = map[string][]string{
	"created":   {"creation date", "created", "registered on", "registration time"},
	"registrar": {"registrar"},
	"country":   {"registrant country", "country"},
}

func parseWhoisRecord(record string, result *WhoisCheck) {
	for _, line := range strings.Split(record, "\n") {
		if result.CreationDate == "" {
			for _, key := range whoisKeys["created"] {
				if v, ok := whoisValue(line, key); ok {
					result.CreationDate = v
					break
				}
			}
		}
		if result.Registrar == "" {
			for _, key := range whoisKeys["registrar"] {
				if v, ok := whoisValue(line, key); ok {
					result.Registrar = v
					break
				}
			}
		}
		if result.RegistrantCountry == "" {
			for _, key := range whoisKeys["country"] {
				if v, ok := whoisValue(line, key); ok {
					result.RegistrantCountry = v
					break
				}
			}
		}
	}
}

// whoisValue extracts the value of a "key: value" line, case-insensitively.
// It returns false for comment lines and keys that only prefix-match
// (e.g. "registrar url" must not satisfy "registrar").
func whoisValue(line, key string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "%") || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	idx := strings.Index(trimmed, ":")
	if idx < 0 {
		return "", false
	}
	if !strings.EqualFold(strings.TrimSpace(trimmed[:idx]), key) {
		return "", false
	}
	value := strings.TrimSpace(trimmed[idx+1:])
	if value == "" {
		return "", false
	}
	return value, true
}

// whoisDateLayouts covers the date formats registries emit.
var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02 15:04:05",
	"02.01.2006",
}

func parseWhoisDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range whoisDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized WHOIS date %q", value)
}
