package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nick-rajwade/svg-crawler/internal/auth"
	"github.com/nick-rajwade/svg-crawler/internal/browser"
	"github.com/nick-rajwade/svg-crawler/internal/config"
	"github.com/nick-rajwade/svg-crawler/internal/crawler"
	"github.com/nick-rajwade/svg-crawler/internal/progress"
	"github.com/nick-rajwade/svg-crawler/internal/writer"
)

var (
	cfg        = config.Default()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "svgcrawl",
	Short: "Extract SVG process diagrams from the Temenos process library",
	Long: `svgcrawl signs in to the Temenos partner portal, walks the process
library and saves every process diagram it can extract as an .svg file,
together with a crawl_log.json describing the whole run.

A failed page never stops the crawl; it is recorded in the log and the
run moves on. The exit status is non-zero only when the crawl cannot
run at all: login failure, browser startup failure or an unwritable
output directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.Username, "username", "u", "", "portal username")
	flags.StringVarP(&cfg.Password, "password", "p", "", "portal password")
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "portal base URL")
	flags.StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "output directory")
	flags.StringVar((*string)(&cfg.Mode), "mode", string(cfg.Mode), "crawl mode: sample, full or library-recursive")
	flags.IntVar(&cfg.MaxSections, "max-sections", cfg.MaxSections, "sections to visit in sample mode (0 = all)")
	flags.IntVar(&cfg.MaxProcesses, "max-processes", cfg.MaxProcesses, "processes per section in sample mode (0 = all)")
	flags.IntVar(&cfg.MaxPages, "max-pages", cfg.MaxPages, "page budget in library-recursive mode")
	flags.BoolVar(&cfg.Headless, "headless", cfg.Headless, "run the browser headless")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-step browser timeout")
	flags.DurationVar(&cfg.Settle, "wait", cfg.Settle, "settle wait after navigation")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging")
	flags.StringVarP(&configFile, "config", "c", "", "TOML config file")
}

func run(cmd *cobra.Command, _ []string) error {
	if configFile != "" {
		if err := applyConfigFile(cmd); err != nil {
			return err
		}
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	session, err := browser.NewChrome(ctx, browser.Options{
		Headless: cfg.Headless,
		Timeout:  cfg.Timeout,
		Settle:   cfg.Settle,
	})
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	store, err := writer.NewStore(cfg.OutputDir)
	if err != nil {
		return err
	}

	creds := auth.Credentials{Username: cfg.Username, Password: cfg.Password}
	if err := auth.New(creds, cfg.BaseURL, cfg.OutputDir).Login(ctx, session); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	start := time.Now()
	summary, err := crawler.New(session, store, progress.New(), cfg).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(progress.RenderSummary(summary, cfg.OutputDir, time.Since(start)))
	return nil
}

// applyConfigFile layers the TOML file under the flags: file values
// fill in only the settings not set explicitly on the command line.
func applyConfigFile(cmd *cobra.Command) error {
	loaded, err := config.Load(configFile, config.Default())
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("username") {
		cfg.Username = loaded.Username
	}
	if !flags.Changed("password") {
		cfg.Password = loaded.Password
	}
	if !flags.Changed("base-url") {
		cfg.BaseURL = loaded.BaseURL
	}
	if !flags.Changed("output-dir") {
		cfg.OutputDir = loaded.OutputDir
	}
	if !flags.Changed("mode") {
		cfg.Mode = loaded.Mode
	}
	if !flags.Changed("max-sections") {
		cfg.MaxSections = loaded.MaxSections
	}
	if !flags.Changed("max-processes") {
		cfg.MaxProcesses = loaded.MaxProcesses
	}
	if !flags.Changed("max-pages") {
		cfg.MaxPages = loaded.MaxPages
	}
	if !flags.Changed("headless") {
		cfg.Headless = loaded.Headless
	}
	if !flags.Changed("verbose") {
		cfg.Verbose = loaded.Verbose
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal("crawl failed", "err", err)
	}
}
