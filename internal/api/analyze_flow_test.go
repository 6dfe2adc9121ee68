package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scamlens/scamlens/internal/analysis"
	"github.com/scamlens/scamlens/internal/checker"
)

// The stubs below respect cancellation like the real probes, so this
// flow test catches a background job accidentally tied to the request
// context. httptest.NewServer is required: the request context is only
// canceled after the handler returns on a real connection.

type flowSSL struct{}

func (flowSSL) Check(ctx context.Context, _ string) checker.SSLCheck {
	if err := ctx.Err(); err != nil {
		return checker.SSLCheck{Error: err.Error()}
	}
	return checker.SSLCheck{Valid: true, DaysRemaining: 120, DomainMatch: true}
}

type flowWhois struct{}

func (flowWhois) Check(ctx context.Context, _ string) checker.WhoisCheck {
	if err := ctx.Err(); err != nil {
		return checker.WhoisCheck{Error: err.Error()}
	}
	age := 6000
	return checker.WhoisCheck{DomainAge: &age, CreationDate: "2008-02-01"}
}

type flowDNS struct{}

func (flowDNS) Check(ctx context.Context, _ string) checker.DNSCheck {
	if err := ctx.Err(); err != nil {
		return checker.DNSCheck{Error: err.Error()}
	}
	return checker.DNSCheck{
		HasARecord:  true,
		IPAddresses: []string{"140.82.112.3"},
		HasMXRecord: true,
	}
}

type flowHeaders struct{}

func (flowHeaders) Check(ctx context.Context, _ string) checker.HeadersCheck {
	if err := ctx.Err(); err != nil {
		return checker.HeadersCheck{Error: err.Error()}
	}
	return checker.HeadersCheck{
		HasHSTS:          true,
		HasCSP:           true,
		HasXFrameOptions: true,
		StatusCode:       200,
	}
}

type flowGeo struct{}

func (flowGeo) Check(ctx context.Context, _ string) *checker.GeoInfo {
	if err := ctx.Err(); err != nil {
		return &checker.GeoInfo{Error: err.Error()}
	}
	return &checker.GeoInfo{Country: "United States"}
}

func TestAnalyzeFlowEndToEnd(t *testing.T) {
	coord, err := analysis.NewCoordinator(analysis.CoordinatorConfig{
		Checkers: analysis.Checkers{
			SSL:     flowSSL{},
			Whois:   flowWhois{},
			DNS:     flowDNS{},
			Headers: flowHeaders{},
			Geo:     flowGeo{},
		},
	})
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	srv := NewServer(Config{Analyzer: coord, Jobs: coord.Jobs()})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	body, _ := json.Marshal(AnalyzeRequest{URL: "github.com"})
	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/analyze: %v", err)
	}
	var job analysis.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("submit status = %d, want 202", resp.StatusCode)
	}
	if job.ID == "" {
		t.Fatal("submit response missing job ID")
	}

	status := pollUntilFinished(t, ts.URL, job.ID)
	if status.Status == analysis.StatusError {
		t.Fatalf("job failed: %s", status.Error)
	}
	if status.Status != analysis.StatusComplete {
		t.Fatalf("final status = %s, want %s", status.Status, analysis.StatusComplete)
	}
	if status.Checks.SSL.Unknown() || status.Checks.Whois.Unknown() {
		t.Errorf("checks degraded to error markers: ssl=%q whois=%q",
			status.Checks.SSL.Error, status.Checks.Whois.Error)
	}
	if status.Verdict.Score != 0 {
		t.Errorf("Score = %d, want 0 (factors: %v)", status.Verdict.Score, status.Verdict.RiskFactors)
	}
}

type flowStatus struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Verdict struct {
		Score       int      `json:"score"`
		RiskFactors []string `json:"riskFactors"`
	} `json:"verdict"`
	Checks checker.Results `json:"checks"`
}

func pollUntilFinished(t *testing.T, baseURL, jobID string) flowStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("%s/api/status/%s", baseURL, jobID))
		if err != nil {
			t.Fatalf("GET status: %v", err)
		}
		var st flowStatus
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		resp.Body.Close()
		if st.Status == analysis.StatusComplete || st.Status == analysis.StatusError {
			return st
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return flowStatus{}
}
