package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scamlens/scamlens/internal/analysis"
	consts "github.com/scamlens/scamlens/internal/shared/constants"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a URL for phishing and impersonation signals",
	Long: `Runs the full battery of checks against one URL: structural heuristics,
SSL certificate, WHOIS age, DNS records, HTTP security headers, reputation
feeds, and brand impersonation matching. Prints the verdict with the risk
factors behind it.

Reputation feeds require API keys (virustotal_api_key, safebrowsing_api_key,
urlscan_api_key in the config file or SCAMLENS_* environment variables);
feeds without a key are skipped and scored neutrally.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		showProgress, _ := cmd.Flags().GetBool("progress")
		checkTimeout, _ := cmd.Flags().GetDuration("check-timeout")
		jobTimeout, _ := cmd.Flags().GetDuration("timeout")

		coord, err := buildCoordinator(checkTimeout, jobTimeout)
		if err != nil {
			return err
		}

		job, err := coord.Submit(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var printer *stagePrinter
		if showProgress && !jsonOut {
			printer = newStagePrinter()
		}

		res, err := waitForJob(coord.Jobs(), job.ID, jobTimeout+5*time.Second, printer)
		if printer != nil {
			printer.Stop()
		}
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printReport(res)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Print the full result as JSON")
	analyzeCmd.Flags().Bool("progress", true, "Show live progress while checks run")
	analyzeCmd.Flags().Duration("check-timeout", consts.DefaultCheckTimeout, "Timeout per individual check")
	analyzeCmd.Flags().Duration("timeout", consts.DefaultJobTimeout, "Timeout for the whole analysis")
	rootCmd.AddCommand(analyzeCmd)
}

// waitForJob polls until the job finishes, forwarding progress to the
// printer along the way.
func waitForJob(jobs *analysis.Manager, id string, deadline time.Duration, printer *stagePrinter) (*analysis.Result, error) {
	timeout := time.After(deadline)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			job, err := jobs.Get(id)
			if err != nil {
				return nil, err
			}
			switch job.Status {
			case analysis.StatusComplete:
				return job.Result, nil
			case analysis.StatusError:
				return nil, fmt.Errorf("analysis failed: %s", job.Error)
			default:
				if printer != nil {
					printer.Update(job.Progress, job.Stage)
				}
			}
		case <-timeout:
			return nil, fmt.Errorf("analysis did not finish within %s", deadline)
		}
	}
}

func printReport(res *analysis.Result) {
	v := res.Verdict

	fmt.Printf("URL:     %s\n", res.URL)
	fmt.Printf("Domain:  %s\n", res.Domain)
	fmt.Printf("Verdict: %s (score %d/100)\n", formatVerdict(v.Label, v.Color), v.Score)
	fmt.Printf("Summary: %s\n", v.Summary)

	if res.Brand.Detected {
		if res.Brand.IsImpersonation {
			fmt.Printf("Brand:   %s impersonation of %s (official: %s)\n",
				colorError("likely"), res.Brand.Name, res.Brand.OfficialURL)
		} else {
			fmt.Printf("Brand:   %s (canonical domain)\n", res.Brand.Name)
		}
	}

	if len(v.RiskFactors) > 0 {
		fmt.Println("\nRisk factors:")
		for _, f := range v.RiskFactors {
			fmt.Printf("  %s %s\n", colorWarn("•"), f)
		}
	}

	fmt.Println("\nChecks:")
	printCheckLines(res)
}

func printCheckLines(res *analysis.Result) {
	c := res.Checks

	if c.SSL.Unknown() {
		fmt.Printf("  ssl:      %s (%s)\n", colorWarn("unknown"), c.SSL.Error)
	} else if c.SSL.Valid {
		fmt.Printf("  ssl:      %s, %d days remaining (issuer: %s)\n", colorSuccess("valid"), c.SSL.DaysRemaining, c.SSL.Issuer)
	} else {
		fmt.Printf("  ssl:      %s\n", colorError("invalid"))
	}

	if c.Whois.Unknown() {
		fmt.Printf("  whois:    %s\n", colorWarn("unknown"))
	} else {
		fmt.Printf("  whois:    %d days old (registrar: %s)\n", *c.Whois.DomainAge, c.Whois.Registrar)
	}

	if c.DNS.Unknown() {
		fmt.Printf("  dns:      %s (%s)\n", colorWarn("unknown"), c.DNS.Error)
	} else {
		fmt.Printf("  dns:      %d address(es), MX: %v\n", len(c.DNS.IPAddresses), c.DNS.HasMXRecord)
	}

	if c.Headers.Unknown() {
		fmt.Printf("  headers:  %s (%s)\n", colorWarn("unknown"), c.Headers.Error)
	} else {
		fmt.Printf("  headers:  HSTS:%v CSP:%v XFO:%v, %d redirect(s)\n",
			c.Headers.HasHSTS, c.Headers.HasCSP, c.Headers.HasXFrameOptions, c.Headers.RedirectCount)
	}

	for _, feed := range []struct {
		name    string
		unknown bool
		hit     bool
		detail  string
	}{
		{"virustotal", c.VirusTotal.Unknown(), c.VirusTotal.MaliciousCount > 0,
			fmt.Sprintf("%d/%d engines flagged", c.VirusTotal.MaliciousCount, c.VirusTotal.TotalEngines)},
		{"phishtank", c.PhishTank.Unknown(), c.PhishTank.IsPhish, "listed phishing report"},
		{"safebrowsing", c.SafeBrowsing.Unknown(), c.SafeBrowsing.IsFlagged, c.SafeBrowsing.ThreatType},
		{"urlscan", c.URLScan.Unknown(), c.URLScan.Malicious, fmt.Sprintf("score %d", c.URLScan.Score)},
	} {
		switch {
		case feed.unknown:
			fmt.Printf("  %-9s %s\n", feed.name+":", colorInfo("skipped"))
		case feed.hit:
			fmt.Printf("  %-9s %s (%s)\n", feed.name+":", colorError("flagged"), feed.detail)
		default:
			fmt.Printf("  %-9s %s\n", feed.name+":", colorSuccess("clean"))
		}
	}

	if c.Geo != nil && c.Geo.Error == "" {
		fmt.Printf("  geo:      %s, %s (%s)\n", c.Geo.City, c.Geo.Country, c.Geo.ISP)
	}
}
