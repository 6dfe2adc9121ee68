package brand

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	scerrors "github.com/scamlens/scamlens/internal/shared/errors"
)

// Brand describes one known brand: its display name, the canonical domains
// that legitimately belong to it, the keywords that reference it, and the
// official URL surfaced to users when impersonation is detected.
type Brand struct {
	Name     string   `yaml:"name" json:"name"`
	Domains  []string `yaml:"domains" json:"domains"`
	Keywords []string `yaml:"keywords" json:"keywords,omitempty"`
	URL      string   `yaml:"url" json:"url"`
}

// Table is a read-only brand lookup table. It is injected into the Matcher
// at construction so tests can use their own tables and concurrent jobs can
// share one safely.
type Table struct {
	brands []Brand
}

type tableFile struct {
	Brands []Brand `yaml:"brands"`
}

// NewTable validates and wraps a brand list.
func NewTable(brands []Brand) (*Table, error) {
	if len(brands) == 0 {
		return nil, scerrors.ErrBrandTableEmpty
	}
	normalized := make([]Brand, 0, len(brands))
	for _, b := range brands {
		if strings.TrimSpace(b.Name) == "" {
			return nil, scerrors.ErrEmptyBrandName
		}
		if len(b.Domains) == 0 {
			return nil, fmt.Errorf("brand %s: %w", b.Name, scerrors.ErrNoBrandDomains)
		}
		nb := Brand{Name: b.Name, URL: b.URL}
		for _, d := range b.Domains {
			nb.Domains = append(nb.Domains, strings.ToLower(strings.TrimSpace(d)))
		}
		for _, k := range b.Keywords {
			nb.Keywords = append(nb.Keywords, strings.ToLower(strings.TrimSpace(k)))
		}
		// The brand name itself always acts as a keyword.
		nameKey := strings.ToLower(strings.ReplaceAll(b.Name, " ", ""))
		if !contains(nb.Keywords, nameKey) {
			nb.Keywords = append(nb.Keywords, nameKey)
		}
		if nb.URL == "" {
			nb.URL = "https://" + nb.Domains[0]
		}
		normalized = append(normalized, nb)
	}
	return &Table{brands: normalized}, nil
}

// LoadTable reads a brand table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config, not remote input.
	if err != nil {
		return nil, fmt.Errorf("read brand table: %w", err)
	}
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse brand table: %w", err)
	}
	return NewTable(tf.Brands)
}

// Brands returns a copy of the table entries.
func (t *Table) Brands() []Brand {
	out := make([]Brand, len(t.brands))
	copy(out, t.brands)
	return out
}

// Len returns the number of brands in the table.
func (t *Table) Len() int {
	return len(t.brands)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultTable returns the built-in brand table used when no external file
// is configured. The set mirrors the brands most often impersonated in
// phishing campaigns.
func DefaultTable() *Table {
	t, err := NewTable([]Brand{
		{Name: "PayPal", Domains: []string{"paypal.com", "paypal.me"}, URL: "https://www.paypal.com"},
		{Name: "Apple", Domains: []string{"apple.com", "icloud.com"}, Keywords: []string{"icloud", "appleid"}, URL: "https://www.apple.com"},
		{Name: "Amazon", Domains: []string{"amazon.com", "amazon.co.uk", "amazon.de"}, URL: "https://www.amazon.com"},
		{Name: "Microsoft", Domains: []string{"microsoft.com", "live.com", "outlook.com"}, Keywords: []string{"outlook", "office365"}, URL: "https://www.microsoft.com"},
		{Name: "Google", Domains: []string{"google.com", "gmail.com"}, Keywords: []string{"gmail"}, URL: "https://www.google.com"},
		{Name: "Netflix", Domains: []string{"netflix.com"}, URL: "https://www.netflix.com"},
		{Name: "Facebook", Domains: []string{"facebook.com", "fb.com"}, URL: "https://www.facebook.com"},
		{Name: "Instagram", Domains: []string{"instagram.com"}, URL: "https://www.instagram.com"},
		{Name: "WhatsApp", Domains: []string{"whatsapp.com"}, URL: "https://www.whatsapp.com"},
		{Name: "Chase", Domains: []string{"chase.com"}, URL: "https://www.chase.com"},
		{Name: "Wells Fargo", Domains: []string{"wellsfargo.com"}, Keywords: []string{"wellsfargo"}, URL: "https://www.wellsfargo.com"},
		{Name: "DHL", Domains: []string{"dhl.com", "dhl.de"}, URL: "https://www.dhl.com"},
		{Name: "USPS", Domains: []string{"usps.com"}, URL: "https://www.usps.com"},
		{Name: "Steam", Domains: []string{"steampowered.com", "steamcommunity.com"}, Keywords: []string{"steamcommunity"}, URL: "https://store.steampowered.com"},
	})
	if err != nil {
		// The built-in table is validated by tests; this cannot happen at runtime.
		panic(err)
	}
	return t
}
