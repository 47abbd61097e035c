package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hydraops/sysaudit/internal/audit/catalog"
	"github.com/hydraops/sysaudit/utils"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the built-in criteria catalog",
}

var catalogLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the criteria catalog for authoring defects",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.Default()
		defects := cat.Validate()
		if len(defects) == 0 {
			fmt.Printf("✅ Catalog is valid: %d criteria sets\n", len(cat.Kinds()))
			return nil
		}
		for _, d := range defects {
			fmt.Println(utils.CriticalLightStyle.Render("✗ " + d))
		}
		return fmt.Errorf("catalog has %d defects", len(defects))
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List component kinds and their criteria",
	Run: func(cmd *cobra.Command, args []string) {
		cat := catalog.Default()
		for _, kind := range cat.Kinds() {
			set, _ := cat.ForKind(kind)
			fmt.Printf("%s (minimum score %.0f%%, %d criteria)\n",
				utils.GoodStyle.Render(string(kind)), set.MinimumScore*100, len(set.Criteria))
			for _, crit := range set.Criteria {
				marker := " "
				if crit.Required {
					marker = "*"
				}
				fmt.Printf("  %s %-24s %.0f%%  %s\n", marker, crit.ID, crit.Weight*100, crit.Method)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLintCmd)
	catalogCmd.AddCommand(catalogListCmd)
}
