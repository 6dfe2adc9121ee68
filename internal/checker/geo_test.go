package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGeoCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/203.0.113.9") {
			t.Errorf("path = %s, want IP suffix", r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","country":"Netherlands","countryCode":"NL","city":"Amsterdam","isp":"Example ISP","org":"Example Org","as":"AS64500 Example"}`))
	}))
	defer srv.Close()

	g := &GeoChecker{Timeout: 2 * time.Second, BaseURL: srv.URL}
	info := g.Check(context.Background(), "203.0.113.9")

	if info.Error != "" {
		t.Fatalf("unexpected error: %s", info.Error)
	}
	if info.Country != "Netherlands" || info.CountryCode != "NL" || info.City != "Amsterdam" {
		t.Errorf("info = %+v", info)
	}
	if info.ISP != "Example ISP" || info.AS != "AS64500 Example" {
		t.Errorf("network fields = %+v", info)
	}
}

func TestGeoCheckLookupFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	g := &GeoChecker{Timeout: 2 * time.Second, BaseURL: srv.URL}
	info := g.Check(context.Background(), "10.0.0.1")

	if info.Error == "" {
		t.Error("failed lookup should carry an error")
	}
	if !strings.Contains(info.Error, "private range") {
		t.Errorf("error = %q, want upstream message", info.Error)
	}
}
