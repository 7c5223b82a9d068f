package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/socialpulse/internal/config"
	"github.com/KaramelBytes/socialpulse/internal/logger"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	flagLogLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "socialpulse",
	Short: "SocialPulse: engagement analytics for social-media post exports",
	Long: `SocialPulse reads a CSV/TSV/XLSX export of social-media posts and reports
engagement metrics, the best time to post, hashtag rankings, performance-drop
alerts, per-post advice and a weekly posting schedule, on the command line or
in a web dashboard.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initApp)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.socialpulse/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func initApp() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to read .env: %v\n", err)
	}
	loadConfig()

	level := "info"
	if cfg != nil && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if debug {
		level = "debug"
	}
	logger.Init(level)
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to currentConfig
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
}

// currentConfig returns the loaded configuration, loading it on demand.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
