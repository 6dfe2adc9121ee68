package score

import "strings"

// Keyword lists scanned over the full URL (domain, path, and query).
// Distinct matches are counted; substring matching is intentional since
// scam URLs concatenate bait words without separators.
var (
	highRiskKeywords = []string{
		"free", "win", "prize", "claim", "verify", "suspend",
		"urgent", "login", "password", "signin", "confirm", "wallet",
	}
	mediumRiskKeywords = []string{
		"sale", "shop", "buy", "cheap", "discount", "deal", "offer",
	}
)

// Suspicious TLD watch-list: cheap or free registries favored by
// throwaway phishing domains.
var suspiciousTLDs = map[string]bool{
	"xyz":   true,
	"top":   true,
	"click": true,
	"tk":    true,
	"ml":    true,
	"cf":    true,
	"ga":    true,
	"pw":    true,
}

// Security-themed keywords that scam domains embed to look official.
var domainSpoofKeywords = []string{
	"secure", "login", "verify", "account", "billing", "support",
}

// countMatches returns the distinct keywords from list present in s and
// how many there are.
func countMatches(s string, list []string) (int, []string) {
	var matched []string
	for _, kw := range list {
		if strings.Contains(s, kw) {
			matched = append(matched, kw)
		}
	}
	return len(matched), matched
}

// hasSpoofKeyword reports whether the host embeds a security-themed
// keyword next to a hyphen ("paypal-secure-login", "secure-chase").
func hasSpoofKeyword(host string) bool {
	for _, kw := range domainSpoofKeywords {
		if strings.Contains(host, "-"+kw) || strings.Contains(host, kw+"-") {
			return true
		}
	}
	return false
}

// hasDigitLetterAdjacency reports a digit immediately next to a letter
// anywhere in the host, the classic leet-speak substitution footprint.
func hasDigitLetterAdjacency(host string) bool {
	for i := 0; i+1 < len(host); i++ {
		a, b := host[i], host[i+1]
		if (isDigit(a) && isLetter(b)) || (isLetter(a) && isDigit(b)) {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }
