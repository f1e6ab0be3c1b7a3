package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/admitscan-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Manage the coverage taxonomy",
	Long: `The taxonomy defines the pre-med informational categories coverage is
measured against: their aspects, relevance keywords, must-include terms
and selection budgets. The built-in taxonomy is used unless a TOML file
is provided to 'analyze' via --taxonomy.`,
	RunE: runTaxonomyList,
}

var taxonomyInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the built-in taxonomy to a TOML file for customisation",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaxonomyInit,
}

var taxonomyValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a taxonomy file for errors",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaxonomyValidate,
}

var taxonomyListCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List taxonomy categories",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaxonomyList,
}

func init() {
	taxonomyCmd.AddCommand(taxonomyInitCmd)
	taxonomyCmd.AddCommand(taxonomyValidateCmd)
	taxonomyCmd.AddCommand(taxonomyListCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomyInit(cmd *cobra.Command, args []string) error {
	if err := configfile.WriteDefaultTaxonomy(args[0]); err != nil {
		return err
	}
	cmd.Printf("Taxonomy written to %s\n", args[0])
	cmd.Println("Edit the file and pass it to 'admitscan analyze --taxonomy'.")
	return nil
}

func runTaxonomyValidate(cmd *cobra.Command, args []string) error {
	taxonomy, err := configfile.LoadTaxonomy(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Taxonomy is valid: %d categories.\n", len(taxonomy))
	return nil
}

func runTaxonomyList(cmd *cobra.Command, args []string) error {
	taxonomy := domain.DefaultTaxonomy()
	if len(args) > 0 {
		loaded, err := configfile.LoadTaxonomy(args[0])
		if err != nil {
			return err
		}
		taxonomy = loaded
	}

	for _, cat := range taxonomy {
		cmd.Printf("%s (%s)\n", cat.Name, cat.ID)
		cmd.Printf("  %s\n", cat.Description)
		cmd.Printf("  Aspects: %d, keywords: %d, must-include: %v\n",
			len(cat.Aspects), len(cat.Keywords), cat.MustInclude)
		if cat.Budget > 0 {
			cmd.Printf("  Budget: %d characters\n", cat.Budget)
		}
		cmd.Println()
	}
	return nil
}

// loadTaxonomyOrDefault resolves the taxonomy for an analysis run.
func loadTaxonomyOrDefault(path string) (domain.Taxonomy, error) {
	if path == "" {
		return domain.DefaultTaxonomy(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("taxonomy file: %w", err)
	}
	return configfile.LoadTaxonomy(path)
}
