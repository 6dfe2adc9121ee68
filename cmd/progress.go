package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// stagePrinter rewrites a single terminal line with the latest analysis
// progress. Safe for concurrent updates.
type stagePrinter struct {
	mu       sync.Mutex
	progress int
	stage    string
	active   bool
}

func newStagePrinter() *stagePrinter {
	return &stagePrinter{active: true}
}

func (p *stagePrinter) Update(progress int, stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	if progress < p.progress && stage == p.stage {
		return
	}
	p.progress = progress
	p.stage = stage
	fmt.Fprintf(os.Stdout, "\r%s Analyzing... %3d%%  %-30s", colorInfo("→"), progress, stage)
}

// Stop clears the progress line so the report starts on a clean row.
func (p *stagePrinter) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.active = false
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 60))
}
