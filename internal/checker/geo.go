package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GeoChecker resolves the hosting location and network owner of an IP.
// The data is informational only and never contributes to the score.
type GeoChecker struct {
	Timeout time.Duration
	BaseURL string // overridable for tests
}

const geoBaseURL = "http://ip-api.com/json"

// Check looks up country, city, ISP, and AS for the given IP address.
func (g *GeoChecker) Check(ctx context.Context, ip string) *GeoInfo {
	info := &GeoInfo{}

	base := g.BaseURL
	if base == "" {
		base = geoBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/"+ip, nil)
	if err != nil {
		info.Error = err.Error()
		return info
	}

	client := &http.Client{Timeout: g.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		info.Error = fmt.Sprintf("geo lookup failed: %v", err)
		return info
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		info.Error = fmt.Sprintf("geo lookup status %d", resp.StatusCode)
		return info
	}

	var payload struct {
		Status      string `json:"status"`
		Country     string `json:"country"`
		CountryCode string `json:"countryCode"`
		City        string `json:"city"`
		ISP         string `json:"isp"`
		Org         string `json:"org"`
		AS          string `json:"as"`
		Message     string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		info.Error = fmt.Sprintf("geo decode failed: %v", err)
		return info
	}
	if payload.Status != "success" {
		info.Error = fmt.Sprintf("geo lookup failed: %s", payload.Message)
		return info
	}

	info.Country = payload.Country
	info.CountryCode = payload.CountryCode
	info.City = payload.City
	info.ISP = payload.ISP
	info.Org = payload.Org
	info.AS = payload.AS
	return info
}

// Name returns the name of this checker.
func (g *GeoChecker) Name() string {
	return "check geo"
}
