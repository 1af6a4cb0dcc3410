package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lukman83/martdash/config"
	"github.com/lukman83/martdash/internal/accounts"
	"github.com/lukman83/martdash/internal/app"
	"github.com/lukman83/martdash/internal/dealstore"
	"github.com/lukman83/martdash/internal/httputil"
	"github.com/lukman83/martdash/internal/jiomart"
	"github.com/lukman83/martdash/internal/logging"
	"github.com/lukman83/martdash/internal/platform"
	"github.com/lukman83/martdash/internal/rider"
	"github.com/lukman83/martdash/internal/stealth"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "martdash",
	Short: "martdash - JioMart deal finder and rider delivery CLI & MCP server",
	Long: "A Go CLI and MCP server that ranks JioMart seller prices to find hot deals,\n" +
		"and drives a delivery rider's assigned shipments from pending to delivered.",
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("deal-store", "", "Deal store: csv:PATH, sqlite:PATH or a CSV path")
	rootCmd.PersistentFlags().String("account-store", "", "Rider account store: file path or redis:// URL")
	rootCmd.PersistentFlags().String("delay-profile", "", "Delay profile: cautious, normal, aggressive, none")
	rootCmd.PersistentFlags().Bool("respect-robots", true, "Respect robots.txt rules")
	rootCmd.PersistentFlags().String("proxy-file", "", "Path to proxy list file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	flags := rootCmd.PersistentFlags()
	if v, _ := flags.GetString("deal-store"); v != "" {
		cfg.DealStore = v
	}
	if v, _ := flags.GetString("account-store"); v != "" {
		cfg.AccountStore = v
	}
	if v, _ := flags.GetString("delay-profile"); v != "" {
		cfg.DelayProfile = v
	}
	if v, _ := flags.GetBool("respect-robots"); !v {
		cfg.RespectRobots = false
	}
	if v, _ := flags.GetString("proxy-file"); v != "" {
		cfg.ProxyFile = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	logger = logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
}

// buildSearchClient creates the stealth-wrapped HTTP client used for catalog searches.
func buildSearchClient() (*http.Client, error) {
	transport := &stealth.Transport{
		Base: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Fingerprints: stealth.NewFingerprintPool(),
		Limiter:      rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		Jitter:       stealth.JitterFor(stealth.DelayProfile(cfg.DelayProfile)),
	}
	if cfg.RespectRobots {
		transport.Robots = stealth.NewRobotsChecker(httputil.NewHTTPClient(nil, 10*time.Second), time.Hour)
	}
	if cfg.ProxyFile != "" {
		urls, err := stealth.LoadProxyFile(cfg.ProxyFile)
		if err != nil {
			return nil, err
		}
		if transport.Proxies, err = stealth.NewProxyPool(urls); err != nil {
			return nil, err
		}
	}
	return httputil.NewHTTPClient(transport, cfg.HTTPTimeout), nil
}

// initPlatforms registers the JioMart searcher.
func initPlatforms() error {
	client, err := buildSearchClient()
	if err != nil {
		return fmt.Errorf("build search client: %w", err)
	}
	identity := jiomart.NewIdentity(cfg.JioMartUserID, cfg.JioMartCookie)
	platform.Register(jiomart.PlatformName, jiomart.NewScraper(logger,
		jiomart.NewAPIStrategy(client, identity),
		jiomart.NewHeadlessStrategy(cfg.BrowserBin, identity),
	))
	return nil
}

// buildApp opens the stores and wires every service. Rider calls go
// through a plain client with no stealth layer and no retries.
func buildApp(ctx context.Context) (*app.App, error) {
	if err := initPlatforms(); err != nil {
		return nil, err
	}
	searcher, err := platform.Get(jiomart.PlatformName)
	if err != nil {
		return nil, err
	}

	deals, err := dealstore.Open(cfg.DealStore)
	if err != nil {
		return nil, fmt.Errorf("open deal store: %w", err)
	}
	accts, err := accounts.Open(ctx, cfg.AccountStore)
	if err != nil {
		deals.Close()
		return nil, fmt.Errorf("open account store: %w", err)
	}

	a := &app.App{
		Searcher:      searcher,
		Deals:         deals,
		Accounts:      accts,
		HotThreshold:  cfg.HotThreshold,
		MaxConcurrent: cfg.MaxConcurrent,
		Logger:        logger,
	}
	if cfg.RiderBaseURL != "" {
		a.Rider = rider.NewClient(httputil.NewHTTPClient(nil, cfg.HTTPTimeout), cfg.RiderBaseURL, cfg.RiderProvider, cfg.RiderHashCode)
	}
	return a, nil
}
