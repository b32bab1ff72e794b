// =============================================================================
// Catalog Scanner - Bulk Scan Engine
// =============================================================================
//
// Walks a parsed catalog row by row, looks each product up on the
// marketplace, runs the profitability math, and collects the results.
//
// KEY FEATURES:
//   - Context cancellation checked before every row; a cancelled scan
//     returns the rows finished so far together with ctx.Err()
//   - Per-row status tracking (matched, matched_by_name, not_found,
//     invalid identifier, no price, error)
//   - Optional progress callback for interactive frontends
//   - CSV export of results with collision-free file naming
//
// =============================================================================

package scanner

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wholescan/catalog-scanner/internal/catalog"
	"github.com/wholescan/catalog-scanner/internal/detector"
	"github.com/wholescan/catalog-scanner/internal/identifier"
	"github.com/wholescan/catalog-scanner/internal/marketplace"
	"github.com/wholescan/catalog-scanner/internal/roi"
	"github.com/wholescan/catalog-scanner/pkg/utils"
)

// Status labels the outcome of matching one catalog row.
type Status string

const (
	StatusMatched       Status = "matched"
	StatusMatchedByName Status = "matched_by_name"
	StatusNotFound      Status = "not_found"
	StatusInvalidCode   Status = "gtin_invalid"
	StatusNoPrice       Status = "no_price"
	StatusError         Status = "error"
)

// nameSearchLimit caps how many candidates a name fallback search pulls.
const nameSearchLimit = 3

// Product is one catalog row lifted into typed fields via the column
// mappings.
type Product struct {
	GTIN           string
	Name           string
	Brand          string
	Category       string
	WholesalePrice float64
	Stock          int
}

// RowResult is the scan outcome for one catalog row.
type RowResult struct {
	Product    Product
	Status     Status
	Snapshot   *marketplace.ProductSnapshot
	ROI        *roi.Result
	Profitable bool
	Err        error
}

// Summary aggregates a finished (or cancelled) scan.
type Summary struct {
	Results    []RowResult
	Total      int
	Matched    int
	Profitable int
	Errors     int
}

// ProgressFunc receives scan progress: rows done, rows total, and a short
// human-readable message.
type ProgressFunc func(done, total int, message string)

// Scanner drives bulk catalog scans against a marketplace.
type Scanner struct {
	lookup     marketplace.Lookup
	calculator *roi.Calculator
	logger     *zap.Logger

	// VATRate, when positive, strips VAT from wholesale prices before
	// the profitability math. Only applied when VATIncluded is set.
	VATRate     float64
	VATIncluded bool

	// Progress, when set, is invoked after every row.
	Progress ProgressFunc
}

// New builds a scanner. A nil logger disables logging; a nil calculator
// falls back to the default fee model.
func New(lookup marketplace.Lookup, calculator *roi.Calculator, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calculator == nil {
		calculator = &roi.Calculator{}
	}
	return &Scanner{lookup: lookup, calculator: calculator, logger: logger}
}

// Scan matches every catalog row and evaluates its profitability.
//
// Cancellation is checked before each row. On cancellation the summary
// holds every row finished so far and the context's error is returned
// alongside it.
func (s *Scanner) Scan(ctx context.Context, cat *catalog.Catalog, mappings map[string]string) (*Summary, error) {
	products := s.liftProducts(cat, mappings)
	summary := &Summary{Total: len(products)}

	s.logger.Info("starting catalog scan", zap.Int("rows", len(products)))

	for i, product := range products {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("scan cancelled",
				zap.Int("completed", i), zap.Int("total", len(products)))
			return summary, err
		}

		result := s.scanRow(ctx, product)
		summary.Results = append(summary.Results, result)

		switch result.Status {
		case StatusMatched, StatusMatchedByName:
			summary.Matched++
			if result.Profitable {
				summary.Profitable++
			}
		case StatusError:
			summary.Errors++
		}

		if s.Progress != nil {
			s.Progress(i+1, len(products),
				fmt.Sprintf("%s: %s", product.Name, result.Status))
		}
	}

	s.logger.Info("scan complete",
		zap.Int("total", summary.Total),
		zap.Int("matched", summary.Matched),
		zap.Int("profitable", summary.Profitable),
		zap.Int("errors", summary.Errors))
	return summary, nil
}

// scanRow matches a single product and runs the profitability math.
func (s *Scanner) scanRow(ctx context.Context, product Product) RowResult {
	result := RowResult{Product: product}

	code := identifier.Normalize(product.GTIN)
	kind, valid := identifier.Detect(code)

	var snapshot *marketplace.ProductSnapshot
	switch {
	case valid && kind != identifier.KindASIN:
		found, err := s.lookup.ByGTIN(ctx, code)
		switch {
		case err == nil:
			snapshot = found
			result.Status = StatusMatched
		case err == marketplace.ErrNotFound:
			// fall through to the name search below
		default:
			result.Status = StatusError
			result.Err = err
			return result
		}
	case valid:
		// Valid ASIN, but the barcode endpoint cannot resolve it; the
		// name search below still gets a chance.
	case product.GTIN != "":
		result.Status = StatusInvalidCode
	}

	if snapshot == nil && product.Name != "" && result.Status != StatusError {
		found, err := s.searchByName(ctx, product)
		if err != nil {
			result.Status = StatusError
			result.Err = err
			return result
		}
		if found != nil {
			snapshot = found
			result.Status = StatusMatchedByName
		}
	}

	if snapshot == nil {
		if result.Status == "" {
			result.Status = StatusNotFound
		}
		return result
	}
	if snapshot.CurrentPrice <= 0 {
		result.Status = StatusNoPrice
		result.Snapshot = snapshot
		return result
	}

	cost := product.WholesalePrice
	if s.VATIncluded {
		cost = roi.NetOfVAT(cost, s.VATRate)
	}
	evaluated := s.calculator.Evaluate(cost, snapshot.CurrentPrice, -1, 0)
	result.Snapshot = snapshot
	result.ROI = &evaluated
	result.Profitable = s.calculator.Profitable(evaluated.ROIPercent)
	return result
}

// searchByName falls back to a free-text search using brand and product
// name. Returns nil without error when nothing plausible comes back.
func (s *Scanner) searchByName(ctx context.Context, product Product) (*marketplace.ProductSnapshot, error) {
	query := strings.TrimSpace(strings.Join([]string{product.Brand, product.Name}, " "))
	if query == "" {
		return nil, nil
	}
	candidates, err := s.lookup.ByQuery(ctx, query, nameSearchLimit)
	if err != nil {
		if err == marketplace.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates[0], nil
}

// liftProducts converts catalog records into typed products using the
// column-to-field mappings.
func (s *Scanner) liftProducts(cat *catalog.Catalog, mappings map[string]string) []Product {
	columnFor := make(map[string]string, len(mappings))
	for column, field := range mappings {
		columnFor[field] = column
	}

	get := func(record catalog.Record, field detector.Field) string {
		column, ok := columnFor[string(field)]
		if !ok {
			return ""
		}
		return strings.TrimSpace(record[column])
	}

	products := make([]Product, 0, len(cat.Records))
	for _, record := range cat.Records {
		products = append(products, Product{
			GTIN:           get(record, detector.FieldGTIN),
			Name:           get(record, detector.FieldProductName),
			Brand:          get(record, detector.FieldBrand),
			Category:       get(record, detector.FieldCategory),
			WholesalePrice: parsePrice(get(record, detector.FieldWholesalePrice)),
			Stock:          parseInt(get(record, detector.FieldStock)),
		})
	}
	return products
}

// parsePrice extracts a numeric price from catalog text, tolerating
// currency symbols and European decimal commas.
func parsePrice(raw string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0
	}

	// When both separators appear, the last one is the decimal mark and
	// the other marks thousands ("1.234,56" and "1,234.56" both parse to
	// 1234.56). A lone comma is a decimal separator.
	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseInt(raw string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return value
}

// exportHeader is the column set written by Export.
var exportHeader = []string{
	"GTIN", "Brand", "Product_Name", "Category", "Wholesale_Price",
	"Marketplace_Price", "Profit", "ROI_Percentage", "Grade",
	"Match_Status", "ASIN", "Stock",
}

// Export writes scan results as CSV into the given directory and returns
// the full path of the written file. File names embed a random suffix so
// repeated exports never collide.
func (s *Scanner) Export(summary *Summary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, utils.UniqueExportName("scan_results", ".csv"))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(exportHeader); err != nil {
		return "", fmt.Errorf("failed to write export header: %w", err)
	}

	for _, r := range summary.Results {
		row := []string{
			r.Product.GTIN,
			r.Product.Brand,
			r.Product.Name,
			r.Product.Category,
			formatFloat(r.Product.WholesalePrice),
			"", "", "", "",
			string(r.Status),
			"",
			strconv.Itoa(r.Product.Stock),
		}
		if r.Snapshot != nil {
			row[5] = formatFloat(r.Snapshot.CurrentPrice)
			row[10] = r.Snapshot.ASIN
		}
		if r.ROI != nil {
			row[6] = formatFloat(r.ROI.Profit)
			row[7] = formatFloat(r.ROI.ROIPercent)
			row[8] = r.ROI.Grade
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}

	s.logger.Info("exported scan results",
		zap.String("path", path), zap.Int("rows", len(summary.Results)))
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
