package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scamlens/scamlens/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analyzer as a REST API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		authToken, _ := cmd.Flags().GetString("auth-token")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		rateLimit, _ := cmd.Flags().GetInt("rate-limit")
		rateBurst, _ := cmd.Flags().GetInt("rate-burst")
		maxJobs, _ := cmd.Flags().GetInt("max-jobs")
		checkTimeout, _ := cmd.Flags().GetDuration("check-timeout")
		jobTimeout, _ := cmd.Flags().GetDuration("job-timeout")

		zlog, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() {
			_ = zlog.Sync()
		}()

		coord, err := buildCoordinator(checkTimeout, jobTimeout)
		if err != nil {
			return err
		}
		coord.Jobs().SetMaxJobs(maxJobs)

		table, err := loadBrandTable()
		if err != nil {
			return err
		}

		server := api.NewServer(api.Config{
			Analyzer:    coord,
			Jobs:        coord.Jobs(),
			Brands:      table,
			AuthToken:   authToken,
			Logger:      zlog,
			CORSOrigins: corsOrigins,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("%s API server listening on %s\n", colorInfo("→"), addr)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}
			fmt.Printf("%s Server shutdown complete\n", colorSuccess("✓"))
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address for the API server")
	serveCmd.Flags().String("auth-token", "", "Optional shared secret for API requests")
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().Int("rate-limit", 10, "Rate limit per IP (requests/second, 0 = disabled)")
	serveCmd.Flags().Int("rate-burst", 20, "Rate limit burst size")
	serveCmd.Flags().Int("max-jobs", 1000, "Completed jobs retained in memory")
	serveCmd.Flags().Duration("check-timeout", 0, "Timeout per individual check (default 10s)")
	serveCmd.Flags().Duration("job-timeout", 0, "Timeout for a whole analysis (default 45s)")
	rootCmd.AddCommand(serveCmd)
}
