// Package score is the risk aggregator: it reduces the heterogeneous,
// partially-unreliable checker signals into a single verdict.
//
// Evaluate is a pure function: deterministic for identical inputs, no I/O,
// no shared state, safe to call concurrently for independent jobs.
package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scamlens/scamlens/internal/brand"
	"github.com/scamlens/scamlens/internal/checker"
	consts "github.com/scamlens/scamlens/internal/shared/constants"
	"github.com/scamlens/scamlens/internal/target"
)

// Point weights of the scoring table. Raw sums are clamped to [0,100].
const (
	PointsImpersonation  = 35
	PointsFeedMalicious  = 30 // per feed, at most once each
	PointsAgeUnknown     = 20 // also the conservative default for WHOIS failures
	PointsKeywordsMulti  = 20 // replaces, not adds to, the single-keyword bonus
	PointsSSLInvalid     = 15
	PointsMissingMX      = 10
	PointsFeedSuspicious = 10
	PointsNoHeaders      = 10
	PointsKeywordSingle  = 10
	PointsAgeRecent      = 8
	PointsRedirects      = 8
	PointsSSLNearExpiry  = 5
	PointsOneHeader      = 5
	PointsKeywordsMedium = 5
	PointsAnomaly        = 5 // per structural anomaly, cumulative
)

// Unknown-handling policy (table-driven via the rules below): a checker
// that reports an error marker is scored by its conservative default.
// WHOIS is the one signal whose absence is penalized (unknown age scores
// as newly registered); SSL, DNS, headers, reputation, and geo default to
// a neutral contribution so transient network failures do not manufacture
// false positives. An unknown check therefore never scores lower than the
// same check reporting its default explicitly.

// contribution is one fired scoring condition. Contributions are appended
// in table order; factors are sorted by descending points with a stable
// sort, so ties keep table order.
type contribution struct {
	points int
	text   string
}

// Evaluate scores a target given the brand matcher output and the settled
// checker results. Partially-populated results (error markers) are valid
// input; a verdict is always produced.
func Evaluate(t *target.Target, brandInfo brand.Info, checks checker.Results) Verdict {
	var contribs []contribution
	add := func(points int, text string) {
		contribs = append(contribs, contribution{points: points, text: text})
	}

	// Brand impersonation
	if brandInfo.IsImpersonation {
		add(PointsImpersonation, fmt.Sprintf("Domain appears to impersonate %s (official site: %s)", brandInfo.Name, brandInfo.OfficialURL))
	}

	// SSL: unknown is neutral; an inspected-but-invalid certificate is not.
	ssl := checks.SSL
	switch {
	case ssl.Unknown():
	case !ssl.Valid:
		add(PointsSSLInvalid, "SSL certificate is invalid or does not match the domain")
	case ssl.DaysRemaining < consts.SSLSoonExpiryWindowDays:
		add(PointsSSLNearExpiry, fmt.Sprintf("SSL certificate expires in %d days", ssl.DaysRemaining))
	}

	// Domain age: unknown scores as newly registered.
	whois := checks.Whois
	switch {
	case whois.Unknown():
		add(PointsAgeUnknown, "Domain registration date could not be determined")
	case *whois.DomainAge < consts.YoungDomainAgeDays:
		add(PointsAgeUnknown, fmt.Sprintf("Domain is only %d days old", *whois.DomainAge))
	case *whois.DomainAge < consts.RecentDomainAgeDays:
		add(PointsAgeRecent, fmt.Sprintf("Domain was registered recently (%d days ago)", *whois.DomainAge))
	}

	// Missing MX: only penalized when DNS actually resolved.
	if dns := checks.DNS; !dns.Unknown() && !dns.HasMXRecord {
		add(PointsMissingMX, "Domain has no MX records and cannot receive email")
	}

	// Reputation feeds: malicious counted at most once per feed.
	scoreFeeds(checks, add)

	// Security headers and redirects.
	if headers := checks.Headers; !headers.Unknown() {
		present := 0
		for _, has := range []bool{headers.HasHSTS, headers.HasCSP, headers.HasXFrameOptions} {
			if has {
				present++
			}
		}
		switch present {
		case 0:
			add(PointsNoHeaders, "No security headers (HSTS, CSP, X-Frame-Options) present")
		case 1:
			add(PointsOneHeader, "Only one of three core security headers present")
		}
		if headers.RedirectCount > 3 {
			add(PointsRedirects, fmt.Sprintf("Excessive redirect chain (%d redirects)", headers.RedirectCount))
		}
	}

	// Structural domain anomalies, +5 each.
	scoreAnomalies(t, add)

	// Keyword scan over the full URL (domain, path, and query). The
	// multi-keyword bonus replaces the single-keyword bonus.
	lowered := strings.ToLower(t.URL)
	highCount, highMatched := countMatches(lowered, highRiskKeywords)
	switch {
	case highCount >= 2:
		add(PointsKeywordsMulti, fmt.Sprintf("Multiple high-risk keywords in URL (%s)", strings.Join(highMatched, ", ")))
	case highCount == 1:
		add(PointsKeywordSingle, fmt.Sprintf("High-risk keyword %q in URL", highMatched[0]))
	}
	if medCount, _ := countMatches(lowered, mediumRiskKeywords); medCount >= 2 {
		add(PointsKeywordsMedium, "Multiple commerce bait keywords in URL")
	}

	// Sum, clamp, order factors.
	total := 0
	for _, c := range contribs {
		total += c.points
	}
	if total > 100 {
		total = 100
	}

	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].points > contribs[j].points
	})
	factors := make([]string, 0, len(contribs))
	for _, c := range contribs {
		factors = append(factors, c.text)
	}

	label, color := labelFor(total)
	impersonated := ""
	if brandInfo.IsImpersonation {
		impersonated = brandInfo.Name
	}

	return Verdict{
		Score:       total,
		Label:       label,
		Color:       color,
		Summary:     summaryFor(label, impersonated),
		RiskFactors: factors,
	}
}

func scoreFeeds(checks checker.Results, add func(int, string)) {
	if vt := checks.VirusTotal; !vt.Unknown() {
		switch {
		case vt.MaliciousCount > 0:
			add(PointsFeedMalicious, fmt.Sprintf("Flagged malicious by %d of %d security engines", vt.MaliciousCount, vt.TotalEngines))
		case vt.SuspiciousCount > 0:
			add(PointsFeedSuspicious, fmt.Sprintf("Flagged suspicious by %d security engines", vt.SuspiciousCount))
		}
	}

	if pt := checks.PhishTank; !pt.Unknown() && pt.IsPhish {
		text := "Listed in the PhishTank phishing database"
		if pt.Verified {
			text += " (verified)"
		}
		add(PointsFeedMalicious, text)
	}

	if sb := checks.SafeBrowsing; !sb.Unknown() && sb.IsFlagged {
		text := "Flagged by Safe Browsing"
		if sb.ThreatType != "" {
			text = fmt.Sprintf("Flagged by Safe Browsing (%s)", sb.ThreatType)
		}
		add(PointsFeedMalicious, text)
	}

	if us := checks.URLScan; !us.Unknown() {
		switch {
		case us.Malicious:
			add(PointsFeedMalicious, "Marked malicious by passive scan history")
		case us.Score >= 50:
			add(PointsFeedSuspicious, fmt.Sprintf("Elevated passive-scan risk score (%d)", us.Score))
		}
	}
}

func scoreAnomalies(t *target.Target, add func(int, string)) {
	host := t.Host

	if t.SubdomainDepth() >= 3 {
		add(PointsAnomaly, "Unusually deep subdomain nesting")
	}
	if n := strings.Count(host, "-"); n >= 3 {
		add(PointsAnomaly, fmt.Sprintf("Domain contains %d hyphens", n))
	}
	if hasDigitLetterAdjacency(host) {
		add(PointsAnomaly, "Digit-for-letter substitution pattern in domain name")
	}
	if len(host) > 40 {
		add(PointsAnomaly, fmt.Sprintf("Unusually long domain name (%d characters)", len(host)))
	}
	if suspiciousTLDs[t.TLD()] {
		add(PointsAnomaly, fmt.Sprintf("Suspicious top-level domain .%s", t.TLD()))
	}
	if hasSpoofKeyword(host) {
		add(PointsAnomaly, "Security-themed keyword embedded in domain name")
	}
}
