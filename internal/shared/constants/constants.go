package constants

import (
	"time"
)

const (
	// DefaultCheckTimeout bounds each individual signal checker (SSL, WHOIS,
	// DNS, headers, reputation feeds, geo-IP). A checker that does not settle
	// inside this window is recorded as an error marker, never as a job failure.
	DefaultCheckTimeout = 10 * time.Second
	// DefaultJobTimeout bounds a whole analysis job, all checkers included.
	DefaultJobTimeout = 45 * time.Second
	// SSLSoonExpiryWindowDays is the remaining-validity threshold below which
	// a certificate is scored as near expiry.
	SSLSoonExpiryWindowDays = 7
	// MaxRedirects caps how many redirect hops the header checker follows.
	MaxRedirects = 10
	// ResultCacheSize is the number of completed analyses kept in the LRU
	// cache, keyed by normalized URL.
	ResultCacheSize = 512
	// FeedRateLimit is the global requests-per-second budget shared by all
	// outbound reputation-feed calls.
	FeedRateLimit = 4
)

const (
	// YoungDomainAgeDays marks domains scored as newly registered.
	YoungDomainAgeDays = 30
	// RecentDomainAgeDays marks domains scored as recently registered.
	RecentDomainAgeDays = 90
)
