package score

import (
	"reflect"
	"testing"

	"github.com/scamlens/scamlens/internal/brand"
	"github.com/scamlens/scamlens/internal/checker"
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

func intPtr(v int) *int { return &v }

// cleanChecks is a fully-populated result set with no risk signals.
func cleanChecks() checker.Results {
	return checker.Results{
		SSL: checker.SSLCheck{Valid: true, DaysRemaining: 120, Issuer: "R11", DomainMatch: true},
		Whois: checker.WhoisCheck{
			CreationDate: "2008-02-01T00:00:00Z",
			DomainAge:    intPtr(6000),
			Registrar:    "MarkMonitor Inc.",
		},
		DNS: checker.DNSCheck{
			HasARecord:  true,
			IPAddresses: []string{"140.82.112.3"},
			HasMXRecord: true,
			MXRecords:   []string{"aspmx.l.google.com"},
			Nameservers: []string{"dns1.p08.nsone.net"},
		},
		Headers: checker.HeadersCheck{
			HasHSTS:                true,
			HasCSP:                 true,
			HasXFrameOptions:       true,
			HasXContentTypeOptions: true,
			HasReferrerPolicy:      true,
			StatusCode:             200,
		},
		VirusTotal:   checker.VirusTotalCheck{TotalEngines: 90, HarmlessCount: 80},
		PhishTank:    checker.PhishTankCheck{},
		SafeBrowsing: checker.SafeBrowsingCheck{},
		URLScan:      checker.URLScanCheck{},
		Geo:          &checker.GeoInfo{Country: "United States"},
	}
}

// unknownChecks has every checker reporting an error marker.
func unknownChecks() checker.Results {
	return checker.Results{
		SSL:          checker.SSLCheck{Error: "timeout"},
		Whois:        checker.WhoisCheck{Error: "timeout"},
		DNS:          checker.DNSCheck{Error: "timeout"},
		Headers:      checker.HeadersCheck{Error: "timeout"},
		VirusTotal:   checker.VirusTotalCheck{Error: "timeout"},
		PhishTank:    checker.PhishTankCheck{Error: "timeout"},
		SafeBrowsing: checker.SafeBrowsingCheck{Error: "timeout"},
		URLScan:      checker.URLScanCheck{Error: "timeout"},
	}
}

func TestEvaluate_CleanDomainScoresZero(t *testing.T) {
	// Scenario: established domain, every signal clean.
	v := Evaluate(mustTarget(t, "github.com"), brand.Info{}, cleanChecks())

	if v.Score != 0 {
		t.Errorf("Score = %d, want 0 (factors: %v)", v.Score, v.RiskFactors)
	}
	if v.Label != LabelLegitimate || v.Color != "green" {
		t.Errorf("Label/Color = %s/%s, want %s/green", v.Label, v.Color, LabelLegitimate)
	}
	if len(v.RiskFactors) != 0 {
		t.Errorf("RiskFactors = %v, want empty", v.RiskFactors)
	}
}

func TestEvaluate_ImpersonationWithAllCheckersDown(t *testing.T) {
	// Scenario: paypal-secure-login.top with no checker data at all.
	// Contributions: impersonation 35, age unknown 20, high-risk keyword
	// "login" 10, suspicious TLD 5, spoof keyword in domain 5 = 75.
	info := brand.Info{
		Detected:        true,
		Name:            "PayPal",
		OfficialURL:     "https://www.paypal.com",
		IsImpersonation: true,
	}
	v := Evaluate(mustTarget(t, "paypal-secure-login.top"), info, unknownChecks())

	if v.Score != 75 {
		t.Errorf("Score = %d, want 75 (factors: %v)", v.Score, v.RiskFactors)
	}
	if v.Label != LabelScam || v.Color != "red" {
		t.Errorf("Label/Color = %s/%s, want %s/red", v.Label, v.Color, LabelScam)
	}
	if len(v.RiskFactors) != 5 {
		t.Errorf("got %d risk factors, want 5: %v", len(v.RiskFactors), v.RiskFactors)
	}
	// Largest contribution first.
	if len(v.RiskFactors) > 0 && v.RiskFactors[0] != "Domain appears to impersonate PayPal (official site: https://www.paypal.com)" {
		t.Errorf("first factor = %q", v.RiskFactors[0])
	}
}

func TestEvaluate_SingleCheckerFailureStillCompletes(t *testing.T) {
	// Scenario: WHOIS errors out, everything else clean. The conservative
	// default penalizes unknown age as if the domain were newly registered.
	checks := cleanChecks()
	checks.Whois = checker.WhoisCheck{Error: "whois: connection refused"}

	v := Evaluate(mustTarget(t, "github.com"), brand.Info{}, checks)

	if v.Score != PointsAgeUnknown {
		t.Errorf("Score = %d, want %d", v.Score, PointsAgeUnknown)
	}
	if v.Label != LabelLowRisk {
		t.Errorf("Label = %s, want %s", v.Label, LabelLowRisk)
	}
	if len(v.RiskFactors) != 1 {
		t.Errorf("RiskFactors = %v, want exactly one", v.RiskFactors)
	}
}

func TestEvaluate_ClampsAt100(t *testing.T) {
	// Impersonation + invalid SSL + young domain + several feed hits +
	// no headers + anomalies far exceeds 100 raw points.
	checks := cleanChecks()
	checks.SSL = checker.SSLCheck{Valid: false}
	checks.Whois = checker.WhoisCheck{DomainAge: intPtr(3), CreationDate: "recent"}
	checks.DNS.HasMXRecord = false
	checks.Headers.HasHSTS = false
	checks.Headers.HasCSP = false
	checks.Headers.HasXFrameOptions = false
	checks.Headers.RedirectCount = 6
	checks.VirusTotal = checker.VirusTotalCheck{MaliciousCount: 12, TotalEngines: 90, Detected: true}
	checks.PhishTank = checker.PhishTankCheck{InDatabase: true, IsPhish: true, Verified: true}
	checks.SafeBrowsing = checker.SafeBrowsingCheck{IsFlagged: true, ThreatType: "SOCIAL_ENGINEERING"}
	checks.URLScan = checker.URLScanCheck{Malicious: true, Score: 95}

	info := brand.Info{Detected: true, Name: "PayPal", OfficialURL: "https://www.paypal.com", IsImpersonation: true}
	v := Evaluate(mustTarget(t, "paypal-verify-account-login.xyz/free-prize"), info, checks)

	if v.Score != 100 {
		t.Errorf("Score = %d, want clamped 100", v.Score)
	}
	if v.Label != LabelScam {
		t.Errorf("Label = %s, want %s", v.Label, LabelScam)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	info := brand.Info{Detected: true, Name: "PayPal", OfficialURL: "https://www.paypal.com", IsImpersonation: true}
	tgt := mustTarget(t, "paypal-secure-login.top")

	first := Evaluate(tgt, info, unknownChecks())
	for i := 0; i < 10; i++ {
		if got := Evaluate(tgt, info, unknownChecks()); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\n%+v\nvs\n%+v", i, got, first)
		}
	}
}

func TestEvaluate_NoDuplicateFactors(t *testing.T) {
	info := brand.Info{Detected: true, Name: "PayPal", OfficialURL: "https://www.paypal.com", IsImpersonation: true}
	v := Evaluate(mustTarget(t, "paypal-verify-account-login.xyz/free-prize"), info, unknownChecks())

	seen := map[string]bool{}
	for _, f := range v.RiskFactors {
		if seen[f] {
			t.Errorf("duplicate risk factor %q", f)
		}
		seen[f] = true
	}
}

func TestEvaluate_FactorsOrderedByContribution(t *testing.T) {
	checks := cleanChecks()
	checks.Whois = checker.WhoisCheck{DomainAge: intPtr(10), CreationDate: "recent"} // +20
	checks.SSL = checker.SSLCheck{Valid: false}                                      // +15
	checks.DNS.HasMXRecord = false                                                   // +10

	v := Evaluate(mustTarget(t, "example.org"), brand.Info{}, checks)

	want := []string{
		"Domain is only 10 days old",
		"SSL certificate is invalid or does not match the domain",
		"Domain has no MX records and cannot receive email",
	}
	if !reflect.DeepEqual(v.RiskFactors, want) {
		t.Errorf("RiskFactors = %v, want %v", v.RiskFactors, want)
	}
	if v.Score != 45 {
		t.Errorf("Score = %d, want 45", v.Score)
	}
}

// Unknown checks must never score lower than the same check reporting its
// configured conservative default explicitly.
func TestEvaluate_UnknownNeverBelowConservativeDefault(t *testing.T) {
	tgt := mustTarget(t, "example.org")

	mutations := []struct {
		name     string
		unknown  func(*checker.Results)
		explicit func(*checker.Results)
	}{
		{
			name:     "whois",
			unknown:  func(r *checker.Results) { r.Whois = checker.WhoisCheck{Error: "timeout"} },
			explicit: func(r *checker.Results) { r.Whois = checker.WhoisCheck{DomainAge: intPtr(5), CreationDate: "x"} },
		},
		{
			name:     "ssl",
			unknown:  func(r *checker.Results) { r.SSL = checker.SSLCheck{Error: "timeout"} },
			explicit: func(r *checker.Results) {}, // neutral default: clean SSL
		},
		{
			name:     "dns",
			unknown:  func(r *checker.Results) { r.DNS = checker.DNSCheck{Error: "timeout"} },
			explicit: func(r *checker.Results) {},
		},
		{
			name:     "headers",
			unknown:  func(r *checker.Results) { r.Headers = checker.HeadersCheck{Error: "timeout"} },
			explicit: func(r *checker.Results) {},
		},
		{
			name:     "virustotal",
			unknown:  func(r *checker.Results) { r.VirusTotal = checker.VirusTotalCheck{Error: "timeout"} },
			explicit: func(r *checker.Results) {},
		},
	}

	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			unknownSet := cleanChecks()
			tc.unknown(&unknownSet)
			explicitSet := cleanChecks()
			tc.explicit(&explicitSet)

			unknownScore := Evaluate(tgt, brand.Info{}, unknownSet).Score
			explicitScore := Evaluate(tgt, brand.Info{}, explicitSet).Score
			if unknownScore < explicitScore {
				t.Errorf("unknown %s scored %d, below explicit default %d", tc.name, unknownScore, explicitScore)
			}
		})
	}
}

func TestLabelBoundaries(t *testing.T) {
	tests := []struct {
		score int
		label string
		color string
	}{
		{0, LabelLegitimate, "green"},
		{19, LabelLegitimate, "green"},
		{20, LabelLowRisk, "yellow"},
		{39, LabelLowRisk, "yellow"},
		{40, LabelSuspicious, "orange"},
		{69, LabelSuspicious, "orange"},
		{70, LabelScam, "red"},
		{100, LabelScam, "red"},
	}

	for _, tc := range tests {
		label, color := labelFor(tc.score)
		if label != tc.label || color != tc.color {
			t.Errorf("labelFor(%d) = %s/%s, want %s/%s", tc.score, label, color, tc.label, tc.color)
		}
	}
}

// Sweep generated inputs and assert the structural invariants: score in
// [0,100], label consistent with the mapping, factors non-empty exactly
// when the score is positive.
func TestEvaluate_InvariantsOverGeneratedInputs(t *testing.T) {
	targets := []string{
		"github.com",
		"paypal-secure-login.top",
		"a.b.c.d.long-sub-domain-name-for-testing-limits.xyz",
		"shop-discount-sale.example/buy-cheap",
	}
	brandInfos := []brand.Info{
		{},
		{Detected: true, Name: "PayPal", OfficialURL: "https://www.paypal.com"},
		{Detected: true, Name: "PayPal", OfficialURL: "https://www.paypal.com", IsImpersonation: true},
	}
	checkSets := []checker.Results{cleanChecks(), unknownChecks()}
	{
		mixed := cleanChecks()
		mixed.SSL = checker.SSLCheck{Valid: true, DaysRemaining: 3, DomainMatch: true}
		mixed.Whois = checker.WhoisCheck{DomainAge: intPtr(45), CreationDate: "x"}
		mixed.VirusTotal = checker.VirusTotalCheck{SuspiciousCount: 2, TotalEngines: 90}
		checkSets = append(checkSets, mixed)
	}

	for _, raw := range targets {
		for _, info := range brandInfos {
			for _, checks := range checkSets {
				v := Evaluate(mustTarget(t, raw), info, checks)

				if v.Score < 0 || v.Score > 100 {
					t.Errorf("%s: score %d out of range", raw, v.Score)
				}
				label, color := labelFor(v.Score)
				if v.Label != label || v.Color != color {
					t.Errorf("%s: label %s/%s inconsistent with score %d", raw, v.Label, v.Color, v.Score)
				}
				if v.Score > 0 && len(v.RiskFactors) == 0 {
					t.Errorf("%s: positive score %d with empty risk factors", raw, v.Score)
				}
				if v.Score == 0 && len(v.RiskFactors) != 0 {
					t.Errorf("%s: zero score with factors %v", raw, v.RiskFactors)
				}
				if v.Summary == "" {
					t.Errorf("%s: empty summary", raw)
				}
			}
		}
	}
}

func TestEvaluate_SummaryNamesImpersonatedBrand(t *testing.T) {
	info := brand.Info{Detected: true, Name: "PayPal", OfficialURL: "https://www.paypal.com", IsImpersonation: true}
	v := Evaluate(mustTarget(t, "paypal-secure-login.top"), info, unknownChecks())

	if want := "This link is almost certainly a scam impersonating PayPal. Do not enter any personal information."; v.Summary != want {
		t.Errorf("Summary = %q, want %q", v.Summary, want)
	}
}
