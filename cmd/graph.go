package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydraops/sysaudit/internal/audit/graph"
	"github.com/hydraops/sysaudit/internal/discovery"
	"github.com/hydraops/sysaudit/utils"
	"gopkg.in/yaml.v3"
)

var graphFormat string

var graphFormats = []string{"cli", "json", "yaml"}

var graphCmd = &cobra.Command{
	Use:               "graph [project-dir]",
	Short:             "Analyze the dependency graph only",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDirs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(graphFormats, graphFormat) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", graphFormat, graphFormats)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		root := projectRoot(args)

		comps, err := discovery.Discover(root)
		if err != nil {
			return err
		}

		g := graph.NewBuilder(nil, nil).Build(comps)
		result := graph.NewAnalyzer().Analyze(g)

		switch graphFormat {
		case "json":
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		case "yaml":
			data, err := yaml.Marshal(result)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		default:
			printGraphAnalysis(result)
			return nil
		}
	},
}

func printGraphAnalysis(result *graph.AnalysisResult) {
	fmt.Printf("🔗 Dependency Analysis\n")
	fmt.Println(strings.Repeat("═", 65))

	fmt.Printf("\nOverall health: %.1f%%\n", result.OverallHealth*100)

	if len(result.CircularDependencies) > 0 {
		fmt.Printf("\n🔴 Circular dependencies (%d)\n", len(result.CircularDependencies))
		for _, cycle := range result.CircularDependencies {
			fmt.Printf("   %s\n", utils.CriticalLightStyle.Render(strings.Join(cycle, " → ")))
		}
	} else {
		fmt.Println("\n✅ No circular dependencies")
	}

	if len(result.MissingDependencies) > 0 {
		fmt.Printf("\n🔴 Missing dependencies (%d)\n", len(result.MissingDependencies))
		for _, dep := range result.MissingDependencies {
			fmt.Printf("   %s → %s (%s)\n", dep.Source, dep.Target, dep.Type)
		}
	}

	if len(result.ConflictingDeps) > 0 {
		fmt.Printf("\n🟡 Conflicting dependencies (%d)\n", len(result.ConflictingDeps))
		for _, pair := range result.ConflictingDeps {
			fmt.Printf("   %s → %s: %q vs %q\n",
				pair[0].Source, pair[0].Target,
				pair[0].VersionRequirement, pair[1].VersionRequirement)
		}
	}

	if len(result.DependencyViolations) > 0 {
		fmt.Printf("\n🟡 Layer violations (%d)\n", len(result.DependencyViolations))
		for _, v := range result.DependencyViolations {
			fmt.Printf("   %s\n", utils.WarningLightStyle.Render(v))
		}
	}

	fmt.Println("\n📊 Component health")
	for _, name := range sortedScoreNames(result.ComponentHealthScores) {
		fmt.Printf("   %-24s %.1f%%\n", name, result.ComponentHealthScores[name]*100)
	}
}

func sortedScoreNames(scores map[string]float64) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&graphFormat, "output", "o", "cli", "Output format")
	graphCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return graphFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
