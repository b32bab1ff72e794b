// =============================================================================
// Catalog Scanner - Templates Command
// =============================================================================
//
// This file defines the 'templates' command group for managing saved
// wholesaler templates.
//
// COMMAND USAGE:
//   catalogscan templates list
//   catalogscan templates show <name>
//   catalogscan templates delete <name>
//   catalogscan templates export <name> <file>
//   catalogscan templates import <file>
//
// =============================================================================

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wholescan/catalog-scanner/internal/template"
	"github.com/wholescan/catalog-scanner/pkg/utils"
)

// =============================================================================
// TEMPLATES COMMAND DEFINITION
// =============================================================================

// templatesCmd is the parent for all template management subcommands.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage saved wholesaler templates",
	Long: `Saved templates remember the column mappings for a wholesaler so that
future catalogs from the same source skip auto-detection entirely.

Templates are created with 'catalogscan scan <file> --save-template <name>'
and stored in a single JSON file (see templates_file in the configuration).`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := template.NewStore(cfg.TemplatesFile, logger)

		summaries := store.List()
		if len(summaries) == 0 {
			fmt.Println("No templates saved yet.")
			return nil
		}

		fmt.Printf("%-25s %-8s %-8s %-10s %s\n", "NAME", "COLUMNS", "USES", "CURRENCY", "LAST USED")
		for _, s := range summaries {
			currency := s.Currency
			if currency == "" {
				currency = "-"
			}
			fmt.Printf("%-25s %-8d %-8d %-10s %s\n",
				s.Name, s.ColumnCount, s.UseCount, currency,
				s.LastUsedDate.Format("2006-01-02"))
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's column mappings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := template.NewStore(cfg.TemplatesFile, logger)

		tpl, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("template %q not found", args[0])
		}

		fmt.Printf("Name:        %s\n", tpl.Name)
		if tpl.Currency != "" {
			fmt.Printf("Currency:    %s\n", tpl.Currency)
		}
		fmt.Printf("VAT incl.:   %v\n", tpl.VATIncluded)
		fmt.Printf("Created:     %s\n", tpl.CreatedDate.Format("2006-01-02"))
		fmt.Printf("Use count:   %d\n", tpl.UseCount)
		fmt.Println("Mappings:")

		columns := make([]string, 0, len(tpl.ColumnMappings))
		for column := range tpl.ColumnMappings {
			columns = append(columns, column)
		}
		sort.Strings(columns)
		for _, column := range columns {
			fmt.Printf("  %-30s -> %s\n", column, tpl.ColumnMappings[column])
		}
		return nil
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := template.NewStore(cfg.TemplatesFile, logger)

		if !store.Delete(args[0]) {
			return fmt.Errorf("template %q not found", args[0])
		}
		fmt.Printf("Deleted template %q\n", args[0])
		return nil
	},
}

var templatesExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Export a template to a standalone JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := template.NewStore(cfg.TemplatesFile, logger)

		if !store.Export(args[0], args[1]) {
			return fmt.Errorf("failed to export template %q", args[0])
		}
		fmt.Printf("Exported template %q to %s\n", args[0], args[1])
		return nil
	},
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a template from a standalone JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.FileExists(args[0]) {
			return fmt.Errorf("file %s does not exist", args[0])
		}
		store := template.NewStore(cfg.TemplatesFile, logger)

		name, ok := store.Import(args[0])
		if !ok {
			return fmt.Errorf("failed to import template from %s", args[0])
		}
		fmt.Printf("Imported template %q\n", name)
		return nil
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the templates command group with the root command.
func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesDeleteCmd)
	templatesCmd.AddCommand(templatesExportCmd)
	templatesCmd.AddCommand(templatesImportCmd)
}
