package brand

import (
	"testing"

	"github.com/scamlens/scamlens/internal/target"
)

func mustTarget(t *testing.T, raw string) *target.Target {
	t.Helper()
	tgt, err := target.Parse(raw)
	if err != nil {
		t.Fatalf("target.Parse(%q): %v", raw, err)
	}
	return tgt
}

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable([]Brand{
		{Name: "PayPal", Domains: []string{"paypal.com", "paypal.me"}, URL: "https://www.paypal.com"},
		{Name: "Google", Domains: []string{"google.com"}, Keywords: []string{"gmail"}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestMatch_CanonicalDomainIsNeverImpersonation(t *testing.T) {
	m := NewMatcher(testTable(t))

	for _, raw := range []string{"paypal.com", "https://www.paypal.com/signin", "checkout.paypal.com"} {
		info := m.Match(mustTarget(t, raw))
		if !info.Detected {
			t.Errorf("%s: expected brand detected", raw)
		}
		if info.IsImpersonation {
			t.Errorf("%s: canonical domain flagged as impersonation", raw)
		}
		if info.Name != "PayPal" {
			t.Errorf("%s: Name = %q, want PayPal", raw, info.Name)
		}
	}
}

func TestMatch_KeywordOutsideCanonicalSetIsImpersonation(t *testing.T) {
	m := NewMatcher(testTable(t))

	tests := []struct {
		raw  string
		name string
	}{
		{"paypal-secure-login.top", "PayPal"},
		{"paypal.com.evil.example", "PayPal"},
		{"https://evil.example/paypal/signin", "PayPal"},
		{"gmail-verify.click", "Google"},
	}

	for _, tc := range tests {
		info := m.Match(mustTarget(t, tc.raw))
		if !info.Detected {
			t.Errorf("%s: expected brand detected", tc.raw)
			continue
		}
		if !info.IsImpersonation {
			t.Errorf("%s: expected impersonation flag", tc.raw)
		}
		if info.Name != tc.name {
			t.Errorf("%s: Name = %q, want %q", tc.raw, info.Name, tc.name)
		}
		if info.OfficialURL == "" {
			t.Errorf("%s: official URL not surfaced", tc.raw)
		}
	}
}

func TestMatch_LeetSpeakSubstitution(t *testing.T) {
	m := NewMatcher(testTable(t))

	for _, raw := range []string{"paypa1.com", "payp4l-billing.xyz", "g00gle-login.top"} {
		info := m.Match(mustTarget(t, raw))
		if !info.Detected || !info.IsImpersonation {
			t.Errorf("%s: detected=%v impersonation=%v, want both true", raw, info.Detected, info.IsImpersonation)
		}
	}
}

func TestMatch_NoBrandReference(t *testing.T) {
	m := NewMatcher(testTable(t))

	info := m.Match(mustTarget(t, "github.com"))
	if info.Detected || info.IsImpersonation || info.Name != "" {
		t.Errorf("expected empty Info for unrelated domain, got %+v", info)
	}
}

func TestDefaultTableIsValid(t *testing.T) {
	table := DefaultTable()
	if table.Len() == 0 {
		t.Fatal("default table is empty")
	}
	for _, b := range table.Brands() {
		if b.URL == "" {
			t.Errorf("brand %s missing official URL", b.Name)
		}
		if len(b.Keywords) == 0 {
			t.Errorf("brand %s has no keywords", b.Name)
		}
	}
}
