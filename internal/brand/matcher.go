// Package brand decides whether a URL plausibly impersonates a known brand.
//
// The matcher is a pure function over the parsed target and an injected,
// read-only brand table: no network I/O, no shared mutable state, safe for
// concurrent use across jobs.
package brand

import (
	"strings"

	"github.com/scamlens/scamlens/internal/target"
)

// Info is the matcher outcome attached to every analysis result.
type Info struct {
	Detected        bool   `json:"detected"`
	Name            string `json:"name,omitempty"`
	OfficialURL     string `json:"officialUrl,omitempty"`
	IsImpersonation bool   `json:"isImpersonation"`
}

// Matcher resolves brand references against a fixed table.
type Matcher struct {
	table *Table
}

// NewMatcher builds a matcher over the given table.
func NewMatcher(table *Table) *Matcher {
	return &Matcher{table: table}
}

// leetReplacer undoes the digit-for-letter substitutions scam domains use
// to dodge literal keyword matches (paypa1.com, g00gle.com, ...).
var leetReplacer = strings.NewReplacer(
	"0", "o",
	"1", "l",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"8", "b",
	"9", "g",
)

// Match determines whether the target references a known brand.
//
// A registered domain inside a brand's canonical set is a legitimate match
// and is never flagged as impersonation. A brand keyword found in the host
// or anywhere else in the URL while the registered domain is outside the
// canonical set is flagged as impersonation, with the brand's official URL
// surfaced for comparison. Unmatched input yields Detected=false; the
// matcher never fails.
func (m *Matcher) Match(t *target.Target) Info {
	fullURL := strings.ToLower(t.URL)

	for _, b := range m.table.brands {
		if contains(b.Domains, t.Domain) {
			return Info{
				Detected:    true,
				Name:        b.Name,
				OfficialURL: b.URL,
			}
		}
	}

	// Keyword scan: literal first, then with leet-speak substitutions
	// undone. The host is checked before the rest of the URL so domain
	// squats win over incidental path mentions.
	for _, haystack := range []string{t.Host, leetReplacer.Replace(t.Host), fullURL, leetReplacer.Replace(fullURL)} {
		for _, b := range m.table.brands {
			for _, kw := range b.Keywords {
				if kw != "" && strings.Contains(haystack, kw) {
					return Info{
						Detected:        true,
						Name:            b.Name,
						OfficialURL:     b.URL,
						IsImpersonation: true,
					}
				}
			}
		}
	}

	return Info{}
}
