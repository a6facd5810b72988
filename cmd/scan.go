// Package cmd — scan command.
// Orchestrates the audit: load config → start browser session → discover
// targets → extract signals → evaluate rules → capture evidence → render
// the report.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karthik-anand/webaudit/config"
	"github.com/karthik-anand/webaudit/core"
	"github.com/karthik-anand/webaudit/core/browser"
	"github.com/karthik-anand/webaudit/core/evidence"
	"github.com/karthik-anand/webaudit/core/fetch"
	"github.com/karthik-anand/webaudit/core/output"
	"github.com/karthik-anand/webaudit/core/report"
	"github.com/karthik-anand/webaudit/core/rules"
	"github.com/karthik-anand/webaudit/core/scan"
	"github.com/karthik-anand/webaudit/core/signal"
	"github.com/karthik-anand/webaudit/crawl"
	"github.com/karthik-anand/webaudit/logging"
)

// Flag variables.
var (
	flagFile         string
	flagAll          bool
	flagPDF          bool
	flagJSON         bool
	flagOutputDir    string
	flagAllOffenders bool
	flagConfig       string
	flagLogLevel     string
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>...",
	Short: "Audit one or more pages and write a report",
	Long: `Scan audits each given URL in a headless browser and writes a single
report covering all of them. URLs without a scheme default to https.

Examples:
  webaudit scan https://example.com
  webaudit scan example.com example.com/pricing --json
  webaudit scan https://example.com --all --output_dir ./reports
  webaudit scan --file ./draft/index.html`,
	Args: cobra.ArbitraryArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&flagFile, "file", "", "Audit a local HTML file instead of (or alongside) URLs")
	scanCmd.Flags().BoolVar(&flagAll, "all", false, "Discover and audit all internal pages of the first URL")

	// Report format flags (mutually exclusive, PDF is the default).
	scanCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Write a PDF report (default)")
	scanCmd.Flags().BoolVar(&flagJSON, "json", false, "Write a JSON report")

	scanCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Directory for the scan workspace (default: current directory)")
	scanCmd.Flags().BoolVar(&flagAllOffenders, "all-offenders", false, "Report every offending element per check, not just the first")
	scanCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	scanCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := validateScanFlags(args); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	targets, err := buildTargets(args)
	if err != nil {
		return err
	}

	ws, err := output.NewWorkspace(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing scan workspace: %w", err)
	}

	ctx := context.Background()

	session, err := browser.Start(ctx, browser.Options{
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		SettleDelay:    cfg.SettleDelay(),
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("starting browser session: %w", err)
	}
	defer session.Close()

	if flagAll {
		discoverer := crawl.NewDiscoverer(fetch.New(), 0, log)
		targets, err = discoverer.Discover(ctx, targets[0])
		if err != nil {
			return fmt.Errorf("discovering pages: %w", err)
		}
		log.Infof("auditing %d discovered pages", len(targets))
	}

	probe := fetch.NewProber(cfg.LivenessTimeout())
	battery := rules.Battery(rules.Options{
		AllOffenders: cfg.AllOffenders,
		SlowPageMs:   cfg.SlowPageMs,
	}, probe)

	extractor := signal.NewExtractor(session, cfg.SampleLimit, log)
	capturer := evidence.New(session, ws.ShotsDir, log)
	runner := scan.NewRunner(session, session, extractor, battery, capturer, ws.ShotsDir, log)

	result := runner.Run(ctx, targets)

	renderer := selectRenderer()
	data, err := renderer.Render(result, ws.ShotsDir)
	if err != nil {
		return err
	}
	path, err := ws.WriteReport(data, renderer.Extension())
	if err != nil {
		return err
	}

	printSummary(result, path)
	return nil
}

// loadConfig layers CLI flags over the YAML file over the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := config.DefaultConfigPath
	explicit := flagConfig != ""
	if explicit {
		path = flagConfig
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("output_dir") {
		cfg.OutputDir = flagOutputDir
	}
	if cmd.Flags().Changed("all-offenders") {
		cfg.AllOffenders = flagAllOffenders
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// buildTargets turns positional URLs and --file into the list of pages to
// audit, in argument order with the file target last.
func buildTargets(args []string) ([]string, error) {
	targets := make([]string, 0, len(args)+1)
	for _, arg := range args {
		normalized, err := normalizeTarget(arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, normalized)
	}
	if flagFile != "" {
		fileURL, err := fileTarget(flagFile)
		if err != nil {
			return nil, err
		}
		targets = append(targets, fileURL)
	}
	return targets, nil
}

// normalizeTarget validates a URL argument, defaulting the scheme to https
// when none is given.
func normalizeTarget(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q in %s", parsed.Scheme, raw)
	}
	return parsed.String(), nil
}

// fileTarget turns a local HTML file path into a file:// URL the browser
// can navigate to.
func fileTarget(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, expected an HTML file", path)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func validateScanFlags(args []string) error {
	if len(args) == 0 && flagFile == "" {
		return fmt.Errorf("nothing to audit: pass at least one URL or --file")
	}
	if flagPDF && flagJSON {
		return fmt.Errorf("--pdf and --json are mutually exclusive")
	}
	if flagAll {
		if len(args) != 1 {
			return fmt.Errorf("--all takes exactly one start URL")
		}
		if flagFile != "" {
			return fmt.Errorf("--all cannot be combined with --file")
		}
	}
	return nil
}

func selectRenderer() core.Renderer {
	if flagJSON {
		return report.NewJSONRenderer()
	}
	return report.NewPDFRenderer()
}

func printSummary(result *core.ScanResult, reportPath string) {
	counts := result.SeverityCounts()
	fmt.Fprintf(os.Stdout, "Scanned %d pages, %d findings (High %d / Medium %d / Low %d)\n",
		len(result.Pages), len(result.Findings),
		counts[core.SeverityHigh], counts[core.SeverityMedium], counts[core.SeverityLow])
	fmt.Fprintf(os.Stdout, "✓ Report written: %s\n", reportPath)
}
