package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "labelsense",
	Short: "Label photo analysis: OCR extraction plus consumer-friendly risk explanations",
	Long: "Labelsense reads a product-label photo with a vision model, extracts\n" +
		"ingredients, warnings, and claims, enriches them with a local glossary and\n" +
		"risk rules (and optional public database lookups), and explains the result\n" +
		"for lay consumers with per-ingredient risk badges.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
