package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"speccheck/internal/output"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show the active tier rule table",
	Long: `Prints the classification rules in effect: the built-in defaults merged
with any workspace rules from speccheck.yml.`,
	RunE: runTiers,
}

func init() {
	rootCmd.AddCommand(tiersCmd)
}

// tierRuleJSON is the JSON shape of one classification rule.
type tierRuleJSON struct {
	Tier     int      `json:"tier"`
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
	TypeOnly bool     `json:"type_only,omitempty"`
}

func runTiers(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table := cfg.Table()

	switch outputFormat() {
	case output.FormatJSON:
		rules := make([]tierRuleJSON, 0, len(table.Rules))
		for _, rule := range table.Rules {
			rules = append(rules, tierRuleJSON{
				Tier:     int(rule.Tier),
				Name:     rule.Tier.Name(),
				Patterns: rule.Patterns,
				TypeOnly: rule.TypeOnly,
			})
		}
		return output.JSON(os.Stdout, rules)
	case output.FormatCompact:
		output.TiersCompact(os.Stdout, table)
	default:
		output.TiersTable(os.Stdout, table)
	}
	return nil
}
