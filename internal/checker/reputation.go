package checker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	scerrors "github.com/scamlens/scamlens/internal/shared/errors"
)

// feedClient carries the plumbing shared by every reputation feed:
// one HTTP client, one global rate limiter so a burst of jobs cannot
// exhaust third-party quotas.
type feedClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func (f *feedClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return f.httpClient.Do(req)
}

// FeedConfig configures the reputation feed clients.
type FeedConfig struct {
	VirusTotalKey   string
	PhishTankAppKey string
	SafeBrowsingKey string
	URLScanKey      string
	Timeout         time.Duration
	RateLimit       rate.Limit
}

// NewFeeds builds all four reputation clients over a shared HTTP client
// and rate limiter.
func NewFeeds(cfg FeedConfig) (*VirusTotalClient, *PhishTankClient, *SafeBrowsingClient, *URLScanClient) {
	shared := &feedClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(cfg.RateLimit, int(cfg.RateLimit)+1),
	}
	return &VirusTotalClient{feedClient: shared, APIKey: cfg.VirusTotalKey},
		&PhishTankClient{feedClient: shared, AppKey: cfg.PhishTankAppKey},
		&SafeBrowsingClient{feedClient: shared, APIKey: cfg.SafeBrowsingKey},
		&URLScanClient{feedClient: shared, APIKey: cfg.URLScanKey}
}

// VirusTotalClient queries the malware-list aggregator for engine verdicts.
type VirusTotalClient struct {
	*feedClient
	APIKey  string
	BaseURL string // overridable for tests
}

const virusTotalBaseURL = "https://www.virustotal.com/api/v3"

// Check fetches the aggregate engine verdict for a URL. An unknown URL is
// a clean result, not an error; a missing API key is an error marker.
func (c *VirusTotalClient) Check(ctx context.Context, rawURL string) VirusTotalCheck {
	result := VirusTotalCheck{}
	if c.APIKey == "" {
		result.Error = scerrors.ErrFeedKeyMissing.Error()
		return result
	}

	base := c.BaseURL
	if base == "" {
		base = virusTotalBaseURL
	}
	// VirusTotal addresses URLs by their unpadded base64 form.
	id := base64.RawURLEncoding.EncodeToString([]byte(rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/urls/"+id, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("x-apikey", c.APIKey)

	resp, err := c.do(ctx, req)
	if err != nil {
		result.Error = fmt.Sprintf("virustotal request failed: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Never scanned before: no evidence either way.
		return result
	}
	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("virustotal status %d", resp.StatusCode)
		return result
	}

	var payload struct {
		Data struct {
			Attributes struct {
				Stats struct {
					Malicious  int `json:"malicious"`
					Suspicious int `json:"suspicious"`
					Harmless   int `json:"harmless"`
					Undetected int `json:"undetected"`
				} `json:"last_analysis_stats"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		result.Error = fmt.Sprintf("virustotal decode failed: %v", err)
		return result
	}

	stats := payload.Data.Attributes.Stats
	result.MaliciousCount = stats.Malicious
	result.SuspiciousCount = stats.Suspicious
	result.HarmlessCount = stats.Harmless
	result.TotalEngines = stats.Malicious + stats.Suspicious + stats.Harmless + stats.Undetected
	result.Detected = stats.Malicious > 0 || stats.Suspicious > 0
	result.Permalink = "https://www.virustotal.com/gui/url/" + id
	return result
}

// Name returns the name of this checker.
func (c *VirusTotalClient) Name() string { return "check virustotal" }

// PhishTankClient queries the community phishing-report database.
type PhishTankClient struct {
	*feedClient
	AppKey  string
	BaseURL string
}

const phishTankBaseURL = "https://checkurl.phishtank.com/checkurl/"

// Check asks PhishTank whether the URL has been reported as phishing.
// PhishTank requires no API key, so this feed works out of the box.
func (c *PhishTankClient) Check(ctx context.Context, rawURL string) PhishTankCheck {
	result := PhishTankCheck{}

	base := c.BaseURL
	if base == "" {
		base = phishTankBaseURL
	}
	form := url.Values{}
	form.Set("url", rawURL)
	form.Set("format", "json")
	if c.AppKey != "" {
		form.Set("app_key", c.AppKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, strings.NewReader(form.Encode()))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(ctx, req)
	if err != nil {
		result.Error = fmt.Sprintf("phishtank request failed: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("phishtank status %d", resp.StatusCode)
		return result
	}

	var payload struct {
		Results struct {
			InDatabase     bool            `json:"in_database"`
			Verified       bool            `json:"verified"`
			Valid          bool            `json:"valid"`
			PhishID        json.RawMessage `json:"phish_id"`
			PhishDetailURL string          `json:"phish_detail_page"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		result.Error = fmt.Sprintf("phishtank decode failed: %v", err)
		return result
	}

	result.InDatabase = payload.Results.InDatabase
	result.IsPhish = payload.Results.InDatabase && payload.Results.Valid
	result.Verified = payload.Results.Verified
	result.PhishID = strings.Trim(string(payload.Results.PhishID), `"`)
	result.PhishDetailURL = payload.Results.PhishDetailURL
	return result
}

// Name returns the name of this checker.
func (c *PhishTankClient) Name() string { return "check phishtank" }

// SafeBrowsingClient queries a Safe-Browsing-style blocklist.
type SafeBrowsingClient struct {
	*feedClient
	APIKey  string
	BaseURL string
}

const safeBrowsingBaseURL = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

// Check asks the blocklist whether the URL matches a known threat entry.
func (c *SafeBrowsingClient) Check(ctx context.Context, rawURL string) SafeBrowsingCheck {
	result := SafeBrowsingCheck{}
	if c.APIKey == "" {
		result.Error = scerrors.ErrFeedKeyMissing.Error()
		return result
	}

	base := c.BaseURL
	if base == "" {
		base = safeBrowsingBaseURL
	}

	body := map[string]interface{}{
		"client": map[string]string{"clientId": "scamlens", "clientVersion": "1.0"},
		"threatInfo": map[string]interface{}{
			"threatTypes":      []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE"},
			"platformTypes":    []string{"ANY_PLATFORM"},
			"threatEntryTypes": []string{"URL"},
			"threatEntries":    []map[string]string{{"url": rawURL}},
		},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"?key="+url.QueryEscape(c.APIKey), bytes.NewReader(encoded))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		result.Error = fmt.Sprintf("safebrowsing request failed: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("safebrowsing status %d", resp.StatusCode)
		return result
	}

	var payload struct {
		Matches []struct {
			ThreatType string `json:"threatType"`
		} `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		result.Error = fmt.Sprintf("safebrowsing decode failed: %v", err)
		return result
	}

	if len(payload.Matches) > 0 {
		result.IsFlagged = true
		result.ThreatType = payload.Matches[0].ThreatType
	}
	return result
}

// Name returns the name of this checker.
func (c *SafeBrowsingClient) Name() string { return "check safebrowsing" }

// URLScanClient queries the passive-scan service for a prior verdict on
// the domain.
type URLScanClient struct {
	*feedClient
	APIKey  string
	BaseURL string
}

const urlScanBaseURL = "https://urlscan.io/api/v1"

// Check searches prior scans for the domain and reads the newest verdict.
func (c *URLScanClient) Check(ctx context.Context, domain string) URLScanCheck {
	result := URLScanCheck{}
	if c.APIKey == "" {
		result.Error = scerrors.ErrFeedKeyMissing.Error()
		return result
	}

	base := c.BaseURL
	if base == "" {
		base = urlScanBaseURL
	}

	searchURL := fmt.Sprintf("%s/search/?q=domain:%s&size=1", base, url.QueryEscape(domain))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("API-Key", c.APIKey)

	resp, err := c.do(ctx, req)
	if err != nil {
		result.Error = fmt.Sprintf("urlscan request failed: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("urlscan status %d", resp.StatusCode)
		return result
	}

	var payload struct {
		Results []struct {
			Page struct {
				IP      string `json:"ip"`
				Country string `json:"country"`
			} `json:"page"`
			Verdicts struct {
				Overall struct {
					Score      int      `json:"score"`
					Malicious  bool     `json:"malicious"`
					Categories []string `json:"categories"`
				} `json:"overall"`
			} `json:"verdicts"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		result.Error = fmt.Sprintf("urlscan decode failed: %v", err)
		return result
	}

	if len(payload.Results) == 0 {
		// Never scanned: no evidence either way.
		return result
	}
	top := payload.Results[0]
	result.Malicious = top.Verdicts.Overall.Malicious
	result.Score = top.Verdicts.Overall.Score
	result.Categories = top.Verdicts.Overall.Categories
	result.IP = top.Page.IP
	result.Country = top.Page.Country
	return result
}

// Name returns the name of this checker.
func (c *URLScanClient) Name() string { return "check urlscan" }
