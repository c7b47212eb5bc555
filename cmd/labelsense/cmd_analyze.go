package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelsense/labelsense/internal/llm"
)

var extractOnly bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image-file|url>",
	Short: "Analyze a label image and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&extractOnly, "extract-only", false, "skip the explanation step")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	ref := args[0]
	if _, statErr := os.Stat(ref); statErr == nil {
		dataURL, _, err := llm.ReadAsDataURL(ref)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		ref = dataURL
	}

	ctx := cmd.Context()
	extraction, err := a.extractor.Extract(ctx, ref)
	if err != nil {
		return err
	}

	out := map[string]any{"extraction": extraction}
	if !extractOnly {
		explanation, err := a.explainer.Explain(ctx, extraction)
		if err != nil {
			return err
		}
		out["explanation"] = explanation
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
