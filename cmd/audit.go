package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hydraops/sysaudit/internal/audit/catalog"
	"github.com/hydraops/sysaudit/internal/audit/evaluator"
	"github.com/hydraops/sysaudit/internal/audit/graph"
	"github.com/hydraops/sysaudit/internal/audit/validator"
	"github.com/hydraops/sysaudit/internal/discovery"
	"github.com/hydraops/sysaudit/internal/report"
	"github.com/hydraops/sysaudit/internal/tui"
)

var (
	outputFormat string
	outputFile   string
	parallelism  int
	minScore     float64
)

var auditFormats = []string{"cli", "cli-more", "tui", "json", "yaml", "markdown", "html"}

var auditCmd = &cobra.Command{
	Use:               "audit [project-dir]",
	Short:             "Evaluate project completeness and dependency health",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDirs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(auditFormats, outputFormat) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", outputFormat, auditFormats)
		}
		if minScore < 0 || minScore > 1 {
			return fmt.Errorf("min-score must be between 0 and 1, got %.2f", minScore)
		}
		root := projectRoot(args)
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("project directory does not exist: %s", root)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", root)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		root := projectRoot(args)

		summary, err := runAudit(cmd, root)
		if err != nil {
			return err
		}

		if err := renderAudit(summary); err != nil {
			return err
		}

		// Gate for CI use: fail the run when the project falls short.
		if minScore > 0 && summary.OverallCompletion < minScore {
			return fmt.Errorf("overall completion %.1f%% below required %.1f%%",
				summary.OverallCompletion*100, minScore*100)
		}
		return nil
	},
}

func renderAudit(summary *report.SystemSummary) error {
	switch outputFormat {
	case "tui":
		return tui.StartTUI(summary)
	case "json":
		data, err := report.RenderJSON(summary)
		if err != nil {
			return err
		}
		return writeOutput(data)
	case "yaml":
		data, err := report.RenderYAML(summary)
		if err != nil {
			return err
		}
		return writeOutput(data)
	case "markdown":
		return writeOutput(report.RenderMarkdown(summary))
	case "html":
		path, err := report.WriteHTMLReport(summary, outputFile)
		if err != nil {
			return err
		}
		fmt.Printf("📄 Report written to %s\n", path)
		return nil
	default:
		report.PrintReport(summary, outputFormat)
		return nil
	}
}

func runAudit(cmd *cobra.Command, root string) (*report.SystemSummary, error) {
	cat := catalog.Default()
	if defects := cat.Validate(); len(defects) > 0 {
		return nil, fmt.Errorf("criteria catalog is invalid: %s", defects[0])
	}

	comps, err := discovery.Discover(root)
	if err != nil {
		return nil, err
	}

	eval := evaluator.New(cat, validator.New(root), evaluator.WithParallelism(parallelism))
	evals := eval.EvaluateAll(cmd.Context(), comps)

	g := graph.NewBuilder(nil, nil).Build(comps)
	analysis := graph.NewAnalyzer().Analyze(g)

	return report.BuildSummary(root, evals, analysis), nil
}

func projectRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func writeOutput(data []byte) error {
	if outputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}
	fmt.Printf("📄 Report written to %s\n", outputFile)
	return nil
}

func completeDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	entries, _ := os.ReadDir(".")

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	return dirs, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&outputFormat, "output", "o", "cli", "Output format")
	auditCmd.Flags().StringVarP(&outputFile, "out-file", "f", "", "Write the report to a file instead of stdout")
	auditCmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0, "Max concurrent component evaluations (0 = CPU count)")
	auditCmd.Flags().Float64Var(&minScore, "min-score", 0, "Exit with an error if overall completion is below this fraction")

	// When user types: sysaudit audit dir -o <TAB>
	auditCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return auditFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
