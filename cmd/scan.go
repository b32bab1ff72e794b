// =============================================================================
// Catalog Scanner - Scan Command
// =============================================================================
//
// This file defines the 'scan' command, which is the main command for
// ingesting a wholesaler catalog. It orchestrates the entire pipeline.
//
// COMMAND USAGE:
//   catalogscan scan <file> [flags]
//
// FLAGS:
//   --save-template : Save the detected mappings as a named template
//   --template      : Apply a saved template instead of auto-detection
//   --samples       : Number of sample rows to print per mapped column
//   --dry-run       : Detect and report without touching the template store
//
// SCAN PIPELINE:
//   1. Load the catalog file (CSV or Excel)
//   2. Locate the header row and detect delimiter, encoding, currency
//   3. Match against saved templates, or classify columns automatically
//   4. Print the mapping report with confidence scores
//   5. Optionally persist the mappings as a reusable template
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wholescan/catalog-scanner/internal/catalog"
	"github.com/wholescan/catalog-scanner/internal/detector"
	"github.com/wholescan/catalog-scanner/internal/template"
	"github.com/wholescan/catalog-scanner/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// saveTemplate is the name under which to save the detected mappings.
var saveTemplate string

// useTemplate forces a specific saved template instead of auto-detection.
var useTemplate string

// sampleCount is the number of sample values to print per mapped column.
var sampleCount int

// dryRun skips all writes to the template store.
var dryRun bool

// =============================================================================
// SCAN COMMAND DEFINITION
// =============================================================================

// scanCmd represents the 'scan' command.
var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Ingest a wholesaler catalog and map its columns",
	Long: `The scan command loads a wholesaler catalog file (CSV or Excel), locates
the real header row, detects the delimiter, encoding, and currency, and
classifies every column into a standard catalog field.

When a saved template matches the file, its mappings are applied directly.
Otherwise each column is classified by header name and, for columns the
header match cannot place, by the shape of its values.

On completion the mapping report is printed with per-column confidence
scores and any warnings (missing critical fields, mostly-unmapped files).`,

	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("cannot access %s: %w", args[0], err)
		}
		if !info.IsDir() {
			return runScan(args[0])
		}

		// A directory argument scans every catalog file inside it.
		files, err := utils.DiscoverCatalogFiles(args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no catalog files found in %s", args[0])
		}
		for _, file := range files {
			if err := runScan(file); err != nil {
				fmt.Printf("Error:       %s: %v\n", filepath.Base(file), err)
			}
			fmt.Println()
		}
		return nil
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the scan command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(scanCmd)

	// Local flags are only available to this command.

	scanCmd.Flags().StringVar(
		&saveTemplate,
		"save-template",
		"",
		"Save the detected mappings as a template with this name",
	)

	scanCmd.Flags().StringVar(
		&useTemplate,
		"template",
		"",
		"Apply a saved template by name instead of auto-detection",
	)

	scanCmd.Flags().IntVar(
		&sampleCount,
		"samples",
		3,
		"Number of sample values to print per mapped column",
	)

	scanCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Detect and report without touching the template store",
	)
}

// =============================================================================
// MAIN SCAN FUNCTION
// =============================================================================

// runScan drives the ingestion pipeline for one catalog file.
func runScan(path string) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: PARSE THE CATALOG FILE
	// =========================================================================

	fmt.Println("=== Catalog Scanner ===")
	fmt.Printf("Loading %s...\n", filepath.Base(path))

	parser := catalog.NewParser(logger)
	parser.MaxRows = cfg.MaxRows

	cat, err := parser.Parse(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	fmt.Printf("Format:      %s\n", cat.Format)
	if cat.Encoding != "" {
		fmt.Printf("Encoding:    %s\n", cat.Encoding)
	}
	if cat.DetectedDelimiter != 0 {
		fmt.Printf("Delimiter:   %q\n", cat.DetectedDelimiter)
	}
	if cat.DetectedCurrency != "" {
		fmt.Printf("Currency:    %s\n", cat.DetectedCurrency)
	}
	fmt.Printf("Header row:  %d\n", cat.HeaderRowIndex+1)
	fmt.Printf("Data rows:   %d\n", cat.RowCount)
	for _, warning := range cat.Warnings {
		fmt.Printf("Warning:     %s\n", warning)
	}

	report := catalog.Validate(cat)
	if !report.Valid {
		for _, e := range report.Errors {
			fmt.Printf("Error:       %s\n", e)
		}
		return fmt.Errorf("catalog failed validation")
	}
	for _, warning := range report.Warnings {
		fmt.Printf("Warning:     %s\n", warning)
	}

	// =========================================================================
	// STEP 2: RESOLVE COLUMN MAPPINGS
	// =========================================================================
	// A saved template wins over auto-detection: either one the user named
	// explicitly, or one whose columns match the incoming file.

	store := template.NewStore(cfg.TemplatesFile, logger)

	mappings, source, err := resolveMappings(store, cat, path)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: PRINT THE MAPPING REPORT
	// =========================================================================

	fmt.Printf("\n=== Column Mappings (%s) ===\n", source)
	printMappings(cat, mappings)

	// =========================================================================
	// STEP 4: SAVE TEMPLATE IF REQUESTED
	// =========================================================================

	if saveTemplate != "" && !dryRun {
		metadata := map[string]any{
			"source_file": filepath.Base(path),
			"signature":   template.Signature(cat.Headers),
		}
		if ok := store.Save(saveTemplate, mappings, cat.DetectedCurrency, cfg.VAT.ApplyOnCost, metadata); !ok {
			return fmt.Errorf("failed to save template %q", saveTemplate)
		}
		fmt.Printf("\nSaved template %q (%d columns)\n", saveTemplate, len(mappings))
	}

	fmt.Printf("\nCompleted in %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// resolveMappings produces column-to-field mappings from a template or by
// auto-detection. It returns the mappings and a short label describing
// where they came from.
func resolveMappings(store *template.Store, cat *catalog.Catalog, path string) (map[string]string, string, error) {
	if useTemplate != "" {
		tpl, ok := store.Get(useTemplate)
		if !ok {
			return nil, "", fmt.Errorf("template %q not found", useTemplate)
		}
		return tpl.ColumnMappings, fmt.Sprintf("template %q", useTemplate), nil
	}

	if name, ok := store.FindMatching(cat.Headers, filepath.Base(path)); ok && !dryRun {
		tpl, found := store.Get(name)
		if found {
			return tpl.ColumnMappings, fmt.Sprintf("template %q", name), nil
		}
	}

	d := detector.New(logger)
	d.MinConfidence = cfg.MinConfidence
	result := d.Detect(cat.Headers, cat.Sample(detectSampleRows))

	for _, warning := range result.Warnings {
		fmt.Printf("Warning:     %s\n", warning)
	}
	fmt.Printf("Overall confidence: %.0f%%\n", result.Confidence*100)

	return result.Mapped(), "auto-detected", nil
}

// detectSampleRows is how many data rows feed value-based classification.
const detectSampleRows = 20

// printMappings renders the mapping table with sample values.
func printMappings(cat *catalog.Catalog, mappings map[string]string) {
	columns := make([]string, 0, len(mappings))
	for column := range mappings {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		fmt.Printf("  %-30s -> %s\n", column, mappings[column])
		if sampleCount > 0 {
			values := cat.Column(column)
			shown := 0
			for _, v := range values {
				if v == "" {
					continue
				}
				fmt.Printf("      %s\n", v)
				shown++
				if shown >= sampleCount {
					break
				}
			}
		}
	}

	mapped := make(map[string]bool, len(mappings))
	for column := range mappings {
		mapped[column] = true
	}
	var unmapped []string
	for _, header := range cat.Headers {
		if !mapped[header] {
			unmapped = append(unmapped, header)
		}
	}
	if len(unmapped) > 0 {
		fmt.Printf("\nUnmapped columns (%d):\n", len(unmapped))
		for _, header := range unmapped {
			fmt.Printf("  %s\n", header)
		}
	}
}
