package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	consts "github.com/scamlens/scamlens/internal/shared/constants"
)

// HeadersChecker fetches the target and records security headers, the
// final URL, and the redirect chain.
type HeadersChecker struct {
	Timeout time.Duration
	// Client overrides the HTTP client. Used by tests.
	Client *http.Client
}

// Check performs a GET against the normalized URL, following up to
// MaxRedirects hops and recording each one.
func (h *HeadersChecker) Check(ctx context.Context, rawURL string) HeadersCheck {
	result := HeadersCheck{RedirectChain: []string{}}

	var chain []string
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: h.Timeout}
	}
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= consts.MaxRedirects {
			return http.ErrUseLastResponse
		}
		chain = append(chain, req.URL.String())
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	result.StatusCode = resp.StatusCode
	result.FinalURL = resp.Request.URL.String()
	result.RedirectChain = chain
	result.RedirectCount = len(chain)
	result.Server = resp.Header.Get("Server")

	result.HasHSTS = resp.Header.Get("Strict-Transport-Security") != ""
	result.HasCSP = resp.Header.Get("Content-Security-Policy") != ""
	result.HasXFrameOptions = resp.Header.Get("X-Frame-Options") != ""
	result.HasXContentTypeOptions = resp.Header.Get("X-Content-Type-Options") != ""
	result.HasReferrerPolicy = resp.Header.Get("Referrer-Policy") != ""

	return result
}

// Name returns the name of this checker.
func (h *HeadersChecker) Name() string {
	return "check headers"
}
