package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/discography/internal/config"
	"github.com/handiism/discography/internal/site"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	siteURL     string
	verboseMode bool
)

var rootCmd = &cobra.Command{
	Use:           "discography",
	Short:         "Resolve and export a band site's discography",
	Long:          `Loads albums.json and notes.json from a band site, resolves covers and notes, and lists or exports the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&siteURL, "site", "", "Site base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(newListCmd(), newExportCmd())
}

func main() {
	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if ctx.Err() != nil {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// loadSettings reads the config file and applies global flag overrides.
func loadSettings() (*config.Settings, error) {
	settings := config.DefaultSettings()
	if configFile != "" {
		var err error
		settings, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}

	if siteURL != "" {
		settings.SiteURL = siteURL
	}
	return settings, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verboseMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// openSite loads settings and assembles the pipeline.
func openSite(configure func(*config.Settings)) (*site.Site, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if configure != nil {
		configure(settings)
	}
	return site.New(settings, newLogger())
}
