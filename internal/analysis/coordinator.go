package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scamlens/scamlens/internal/brand"
	"github.com/scamlens/scamlens/internal/checker"
	"github.com/scamlens/scamlens/internal/score"
	consts "github.com/scamlens/scamlens/internal/shared/constants"
	"github.com/scamlens/scamlens/internal/target"
)

// Checker collaborator contracts. The concrete implementations live in
// the checker package; the coordinator only needs the Check methods so
// tests can substitute canned signals.
type (
	SSLChecker interface {
		Check(ctx context.Context, host string) checker.SSLCheck
	}
	WhoisChecker interface {
		Check(ctx context.Context, domain string) checker.WhoisCheck
	}
	DNSChecker interface {
		Check(ctx context.Context, host string) checker.DNSCheck
	}
	HeadersChecker interface {
		Check(ctx context.Context, rawURL string) checker.HeadersCheck
	}
	VirusTotalChecker interface {
		Check(ctx context.Context, rawURL string) checker.VirusTotalCheck
	}
	PhishTankChecker interface {
		Check(ctx context.Context, rawURL string) checker.PhishTankCheck
	}
	SafeBrowsingChecker interface {
		Check(ctx context.Context, rawURL string) checker.SafeBrowsingCheck
	}
	URLScanChecker interface {
		Check(ctx context.Context, domain string) checker.URLScanCheck
	}
	GeoChecker interface {
		Check(ctx context.Context, ip string) *checker.GeoInfo
	}
)

// Checkers bundles the signal probes dispatched for each analysis. Any
// nil entry is skipped and its result left as an error marker.
type Checkers struct {
	SSL          SSLChecker
	Whois        WhoisChecker
	DNS          DNSChecker
	Headers      HeadersChecker
	VirusTotal   VirusTotalChecker
	PhishTank    PhishTankChecker
	SafeBrowsing SafeBrowsingChecker
	URLScan      URLScanChecker
	Geo          GeoChecker
}

// CoordinatorConfig wires a Coordinator.
type CoordinatorConfig struct {
	Checkers     Checkers
	Brands       *brand.Matcher
	Jobs         *Manager
	Logger       *zap.SugaredLogger
	CheckTimeout time.Duration // per checker, default DefaultCheckTimeout
	JobTimeout   time.Duration // whole job, default DefaultJobTimeout
	CacheSize    int           // completed analyses, default ResultCacheSize
}

// Coordinator dispatches the signal checkers concurrently, feeds their
// settled results through the brand matcher and risk aggregator, and
// records the outcome on the job manager. Completed verdicts are cached
// by normalized URL so repeat submissions skip the network entirely.
type Coordinator struct {
	checkers     Checkers
	brands       *brand.Matcher
	jobs         *Manager
	log          *zap.SugaredLogger
	checkTimeout time.Duration
	jobTimeout   time.Duration
	cache        *lru.Cache
}

// NewCoordinator validates the config and returns a ready coordinator.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Brands == nil {
		cfg.Brands = brand.NewMatcher(brand.DefaultTable())
	}
	if cfg.Jobs == nil {
		cfg.Jobs = NewManager()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = consts.DefaultCheckTimeout
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = consts.DefaultJobTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = consts.ResultCacheSize
	}
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &Coordinator{
		checkers:     cfg.Checkers,
		brands:       cfg.Brands,
		jobs:         cfg.Jobs,
		log:          cfg.Logger,
		checkTimeout: cfg.CheckTimeout,
		jobTimeout:   cfg.JobTimeout,
		cache:        cache,
	}, nil
}

// Jobs exposes the job manager for polling handlers.
func (c *Coordinator) Jobs() *Manager { return c.jobs }

// Submit validates the URL, registers a job, and starts the analysis in
// the background. The returned snapshot carries the job ID for polling.
// The analysis outlives the caller's context: an HTTP handler returns as
// soon as the job is registered, and cancellation of its request context
// must not abort the checkers. Only the job timeout bounds the run.
func (c *Coordinator) Submit(ctx context.Context, rawURL string) (*Job, error) {
	t, err := target.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	job := c.jobs.Create(t.Original)
	go c.run(context.WithoutCancel(ctx), job.ID, t)
	return job, nil
}

// Analyze runs a full analysis synchronously, outside the job store.
// Used by the one-shot CLI path.
func (c *Coordinator) Analyze(ctx context.Context, rawURL string) (*Result, error) {
	t, err := target.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.jobTimeout)
	defer cancel()
	return c.analyze(ctx, "", t, nil), nil
}

func (c *Coordinator) run(ctx context.Context, jobID string, t *target.Target) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("analysis panicked", "jobId", jobID, "panic", r)
			c.jobs.Fail(jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.jobTimeout)
	defer cancel()

	c.jobs.Start(jobID)
	if err := ctx.Err(); err != nil {
		c.jobs.Fail(jobID, fmt.Sprintf("analysis canceled: %v", err))
		return
	}

	onSettle := func(progress int, stage string) {
		c.jobs.SetProgress(jobID, progress, stage)
	}
	res := c.analyze(ctx, jobID, t, onSettle)
	c.jobs.Complete(jobID, res)
	c.log.Infow("analysis complete",
		"jobId", jobID,
		"domain", t.Domain,
		"score", res.Verdict.Score,
		"label", res.Verdict.Label,
	)
}

// analyze is the shared scoring path: cache lookup, concurrent checker
// dispatch, brand match, risk aggregation, cache store.
func (c *Coordinator) analyze(ctx context.Context, jobID string, t *target.Target, onSettle func(int, string)) *Result {
	if cached, ok := c.cache.Get(t.URL); ok {
		res := *cached.(*Result)
		res.JobID = jobID
		c.log.Debugw("result cache hit", "url", t.URL)
		return &res
	}

	checks := c.dispatch(ctx, t, onSettle)
	info := c.brands.Match(t)
	verdict := score.Evaluate(t, info, checks)

	res := &Result{
		JobID:       jobID,
		Status:      StatusComplete,
		URL:         t.Original,
		Domain:      t.Domain,
		Brand:       info,
		Verdict:     verdict,
		Checks:      checks,
		RiskFactors: verdict.RiskFactors,
	}
	c.cache.Add(t.URL, res)
	return res
}

// dispatch runs every configured checker concurrently, each under its
// own timeout. A checker that is not configured settles immediately as
// an error marker; absence of data is scored conservatively, never as
// safe. Geo runs after DNS since it needs a resolved IP.
func (c *Coordinator) dispatch(ctx context.Context, t *target.Target, onSettle func(int, string)) checker.Results {
	var results checker.Results

	// 8 dispatched checks plus the piggybacked geo lookup.
	const totalChecks = 9
	var (
		progressMu sync.Mutex
		settled    int
	)
	settle := func(stage string) {
		if onSettle == nil {
			return
		}
		progressMu.Lock()
		settled++
		onSettle(settled*100/(totalChecks+1), stage)
		progressMu.Unlock()
	}

	var g errgroup.Group

	g.Go(func() error {
		defer settle("ssl certificate")
		if c.checkers.SSL == nil {
			results.SSL = checker.SSLCheck{Error: "checker not configured"}
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
		results.SSL = c.checkers.SSL.Check(cctx, t.Host)
		return nil
	})

	g.Go(func() error {
		defer settle("whois registration")
		if c.checkers.Whois == nil {
			results.Whois = checker.WhoisCheck{Error: "checker not configured"}
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
		results.Whois = c.checkers.Whois.Check(cctx, t.Domain)
		return nil
	})

	g.Go(func() error {
		defer settle("dns records")
		if c.checkers.DNS == nil {
			results.DNS = checker.DNSCheck{Error: "checker not configured"}
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
		results.DNS = c.checkers.DNS.Check(cctx, t.Host)

		// Geo piggybacks on the first resolved address.
		if c.checkers.Geo != nil && len(results.DNS.IPAddresses) > 0 {
			gctx, gcancel := context.WithTimeout(ctx, c.checkTimeout)
			defer gcancel()
			results.Geo = c.checkers.Geo.Check(gctx, results.DNS.IPAddresses[0])
			settle("hosting location")
		}
		return nil
	})

	g.Go(func() error {
		defer settle("security headers")
		if c.checkers.Headers == nil {
			results.Headers = checker.HeadersCheck{Error: "checker not configured"}
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
		results.Headers = c.checkers.Headers.Check(cctx, t.URL)
		return nil
	})

	g.Go(func() error {
		defer settle("malware engines")
		if c.checkers.VirusTotal == nil {
			results.VirusTotal = checker.VirusTotalCheck{Error: "checker not configured"}
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
		results.VirusTotal = c.checkers.VirusTotal.Check(cctx, t.URL)
		return nil
	})

	g.Go(func() error {
		defer settle("phishing reports")
		if c.checkers.PhishTank == nil {
			results.PhishTank = checker.PhishTankCheck{Error: "checker not configured"}
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
		results.PhishTank = c.checkers.PhishTank.Check(cctx, t.URL)
		return nil
	})

	g.Go(func() error {
		defer settle("blocklist lookup")
		if c.checkers.SafeBrowsing == nil {
			results.SafeBrowsing = checker.SafeBrowsingCheck{Error: "checker not configured"}
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
		results.SafeBrowsing = c.checkers.SafeBrowsing.Check(cctx, t.URL)
		return nil
	})

	g.Go(func() error {
		defer settle("passive scan history")
		if c.checkers.URLScan == nil {
			results.URLScan = checker.URLScanCheck{Error: "checker not configured"}
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
		results.URLScan = c.checkers.URLScan.Check(cctx, t.Domain)
		return nil
	})

	g.Wait()
	return results
}
