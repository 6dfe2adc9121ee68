package checker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DNSChecker resolves A, MX, and NS records for the target host.
type DNSChecker struct {
	Timeout time.Duration
	// Resolver is the nameserver to query (host:port).
	Resolver string
}

// DefaultResolver is used when no resolver is configured.
const DefaultResolver = "8.8.8.8:53"

// cdnNameserverHints identifies hosts parked behind a CDN/reverse proxy,
// which hides the origin server from the IP-based checks.
var cdnNameserverHints = []string{
	"cloudflare",
	"akamai",
	"fastly",
	"cloudfront",
	"incapdns",
	"sucuri",
}

// Check resolves the host. A failed A lookup marks the whole check as an
// error; MX and NS failures degrade to empty record sets since many small
// legitimate sites have neither.
func (d *DNSChecker) Check(ctx context.Context, host string) DNSCheck {
	result := DNSCheck{
		IPAddresses: []string{},
		MXRecords:   []string{},
		Nameservers: []string{},
	}

	resolver := d.Resolver
	if resolver == "" {
		resolver = DefaultResolver
	}
	client := &dns.Client{Timeout: d.Timeout}

	aAnswers, err := d.exchange(ctx, client, resolver, host, dns.TypeA)
	if err != nil {
		result.Error = fmt.Sprintf("DNS lookup failed: %v", err)
		return result
	}
	for _, rr := range aAnswers {
		if a, ok := rr.(*dns.A); ok {
			result.IPAddresses = append(result.IPAddresses, a.A.String())
		}
	}
	result.HasARecord = len(result.IPAddresses) > 0
	if !result.HasARecord {
		result.Error = "no A records found"
		return result
	}

	// MX presence is a proxy for "real mail-receiving business"; the
	// lookup runs on the same host the A query used.
	if mxAnswers, err := d.exchange(ctx, client, resolver, host, dns.TypeMX); err == nil {
		for _, rr := range mxAnswers {
			if mx, ok := rr.(*dns.MX); ok {
				result.MXRecords = append(result.MXRecords, strings.TrimSuffix(mx.Mx, "."))
			}
		}
	}
	result.HasMXRecord = len(result.MXRecords) > 0

	if nsAnswers, err := d.exchange(ctx, client, resolver, host, dns.TypeNS); err == nil {
		for _, rr := range nsAnswers {
			if ns, ok := rr.(*dns.NS); ok {
				result.Nameservers = append(result.Nameservers, strings.TrimSuffix(ns.Ns, "."))
			}
		}
	}
	result.IsCDNProxy = isCDNProxied(result.Nameservers)

	return result
}

// Name returns the name of this checker.
func (d *DNSChecker) Name() string {
	return "check dns"
}

func (d *DNSChecker) exchange(ctx context.Context, client *dns.Client, resolver, host string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	resp, _, err := client.ExchangeContext(ctx, msg, resolver)
	if err != nil {
		return nil, err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("rcode %s", dns.RcodeToString[resp.Rcode])
	}
	return resp.Answer, nil
}

func isCDNProxied(nameservers []string) bool {
	for _, ns := range nameservers {
		lower := strings.ToLower(ns)
		for _, hint := range cdnNameserverHints {
			if strings.Contains(lower, hint) {
				return true
			}
		}
	}
	return false
}
