package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/scamlens/scamlens/internal/analysis"
	"github.com/scamlens/scamlens/internal/brand"
	"github.com/scamlens/scamlens/internal/checker"
	consts "github.com/scamlens/scamlens/internal/shared/constants"
)

var cfgFile string
var brandTablePath string
var logger *zap.SugaredLogger

var rootCmd = &cobra.Command{
	Use:   "scamlens",
	Short: "Phishing link analyzer: scores URLs for impersonation and scam signals",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".scamlens")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("SCAMLENS")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		l, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l.Sugar()

		if brandTablePath == "" {
			brandTablePath = viper.GetString("brand_table")
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scamlens.yaml)")
	rootCmd.PersistentFlags().StringVar(&brandTablePath, "brands", "", "brand table YAML file (default: built-in table)")
}

// loadBrandTable reads the configured table file, or returns the
// built-in table when none is set.
func loadBrandTable() (*brand.Table, error) {
	if brandTablePath == "" {
		return brand.DefaultTable(), nil
	}
	return brand.LoadTable(brandTablePath)
}

func loadBrandMatcher() (*brand.Matcher, error) {
	table, err := loadBrandTable()
	if err != nil {
		return nil, err
	}
	return brand.NewMatcher(table), nil
}

// buildCoordinator assembles the live checkers. Feed API keys come from
// config or SCAMLENS_* environment variables; feeds without a key settle
// as error markers and are scored neutrally.
func buildCoordinator(checkTimeout, jobTimeout time.Duration) (*analysis.Coordinator, error) {
	matcher, err := loadBrandMatcher()
	if err != nil {
		return nil, err
	}
	if checkTimeout <= 0 {
		checkTimeout = consts.DefaultCheckTimeout
	}
	if jobTimeout <= 0 {
		jobTimeout = consts.DefaultJobTimeout
	}

	vt, pt, sb, us := checker.NewFeeds(checker.FeedConfig{
		VirusTotalKey:   viper.GetString("virustotal_api_key"),
		PhishTankAppKey: viper.GetString("phishtank_app_key"),
		SafeBrowsingKey: viper.GetString("safebrowsing_api_key"),
		URLScanKey:      viper.GetString("urlscan_api_key"),
		Timeout:         checkTimeout,
		RateLimit:       consts.FeedRateLimit,
	})

	return analysis.NewCoordinator(analysis.CoordinatorConfig{
		Checkers: analysis.Checkers{
			SSL:          &checker.SSLChecker{Timeout: checkTimeout},
			Whois:        &checker.WhoisChecker{Timeout: checkTimeout},
			DNS:          &checker.DNSChecker{Timeout: checkTimeout},
			Headers:      &checker.HeadersChecker{Timeout: checkTimeout},
			VirusTotal:   vt,
			PhishTank:    pt,
			SafeBrowsing: sb,
			URLScan:      us,
			Geo:          &checker.GeoChecker{Timeout: checkTimeout},
		},
		Brands:       matcher,
		Logger:       logger,
		CheckTimeout: checkTimeout,
		JobTimeout:   jobTimeout,
	})
}
