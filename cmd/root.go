// Package cmd implements the CLI commands for WebAudit using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "webaudit",
	Short: "WebAudit — automated usability audits for web pages",
	Long: `WebAudit drives a headless browser across one or more pages, evaluates a
battery of usability and accessibility checks against the rendered DOM, and
produces a report with annotated screenshot evidence for every finding.

Usage:
  webaudit scan <url>... [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
