package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"aargeom/domain/geometry"
	"aargeom/internal/batch"
	"aargeom/internal/compliance"
	"aargeom/internal/engine"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var concurrency int
	var pretty bool

	cmd := &cobra.Command{
		Use:   "aargeom-validate [files...]",
		Short: "Validate JSON records against the five geometry patterns",
		Long: `Validate one or more JSON files (or stdin when no files are given)
against the circle, triangle, spiral, golden ratio and fractal rubrics
and print the aggregated compliance per record.

Example: aargeom-validate mission1.json mission2.json --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args, concurrency, pretty)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Max concurrent validations (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent JSON output")

	return cmd
}

// fileResult pairs a validation outcome with its input source.
type fileResult struct {
	Source          string  `json:"source"`
	OverallScore    float64 `json:"overall_compliance"`
	ComplianceLevel string  `json:"compliance_level"`
	ValidPatterns   int     `json:"valid_patterns"`
	TotalPatterns   int     `json:"total_patterns"`

	Patterns map[geometry.Pattern]geometry.PatternResult `json:"pattern_results"`
}

func runValidate(ctx context.Context, files []string, concurrency int, pretty bool) error {
	eng := engine.NewEngine()
	if err := eng.Initialize(); err != nil {
		return fmt.Errorf("engine initialization failed: %w", err)
	}

	sources, raws, err := readInputs(files)
	if err != nil {
		return err
	}

	validator := batch.NewValidator(eng, concurrency)
	results, err := validator.ValidateAllJSON(ctx, raws)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := make([]fileResult, len(results))
	for i, result := range results {
		out[i] = fileResult{
			Source:          sources[i],
			OverallScore:    result.OverallCompliance,
			ComplianceLevel: string(compliance.LevelFor(result.OverallCompliance)),
			ValidPatterns:   result.ValidPatterns,
			TotalPatterns:   result.TotalPatterns,
			Patterns:        result.PatternResults,
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}

func readInputs(files []string) (sources []string, raws [][]byte, err error) {
	if len(files) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []string{"stdin"}, [][]byte{raw}, nil
	}

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		sources = append(sources, file)
		raws = append(raws, raw)
	}
	return sources, raws, nil
}
