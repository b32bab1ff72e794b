// =============================================================================
// Catalog Scanner - Catalog Parser
// =============================================================================
//
// This module is responsible for loading wholesaler catalog files into a
// structured form. Wholesaler exports are messy by nature:
//   - The header row is rarely the first row (title and metadata rows above it)
//   - Delimiters vary (comma, semicolon, tab, pipe)
//   - Encodings vary (UTF-8, UTF-8 with BOM, Latin-1, Windows-1252)
//   - Prices carry currency symbols and locale-specific decimal separators
//
// PARSING PROCESS:
//   1. Dispatch on file extension (text vs. spreadsheet)
//   2. Text files: try each supported encoding in order; per encoding, sniff
//      the delimiter, parse, and locate the header row. The first encoding
//      that yields a full consistent parse wins; partial successes are never
//      accepted.
//   3. Spreadsheets: read the active sheet only, coercing cells to strings.
//   4. Slice data rows into records keyed by header, sniff the currency, and
//      assemble the Catalog.
//
// =============================================================================

package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultMaxRows caps the number of data rows read from a single catalog.
// Rows beyond the cap are dropped with a truncation warning.
const DefaultMaxRows = 10000

// sniffSampleSize is how many bytes of the decoded file the delimiter
// sniffer inspects.
const sniffSampleSize = 8192

// textEncoding pairs an encoding name with its decoder. A nil decoder means
// the UTF-8 variants, which decodeText validates by hand.
type textEncoding struct {
	name    string
	decoder *encoding.Decoder
}

// supportedEncodings is the fixed list of encodings attempted for text
// files, in order. Latin-1 and ISO-8859-1 share a decoder; both names are
// kept so the reported encoding matches what operators expect to see.
var supportedEncodings = []textEncoding{
	{name: "utf-8"},
	{name: "utf-8-sig"},
	{name: "latin-1", decoder: charmap.ISO8859_1.NewDecoder()},
	{name: "windows-1252", decoder: charmap.Windows1252.NewDecoder()},
	{name: "iso-8859-1", decoder: charmap.ISO8859_1.NewDecoder()},
}

// delimiterCandidates is the candidate set for delimiter sniffing, in
// preference order. Ties between candidates keep the earlier entry, so a
// comma wins over a semicolon at equal average counts.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// Parser loads catalog files.
type Parser struct {
	// MaxRows caps the number of data rows per parse. Zero means
	// DefaultMaxRows.
	MaxRows int

	logger *zap.Logger
}

// NewParser creates a Parser. A nil logger disables logging.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{MaxRows: DefaultMaxRows, logger: logger}
}

// Parse loads a catalog file and extracts structured data.
//
// PARAMETERS:
//   - path: Path to the catalog file (.csv, .tsv, .txt, .xlsx, .xlsm).
//
// RETURNS:
//   - A pointer to the Catalog containing headers, records, and metadata.
//   - An error: an I/O error when the file is missing or unreadable,
//     ErrUnsupportedFormat for unknown extensions, or a parse error
//     (wrapping ErrHeaderNotFound / ErrNoData) when the content cannot be
//     interpreted under any supported encoding.
func (p *Parser) Parse(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return p.parseText(path)
	case ".xlsx", ".xlsm":
		return p.parseSpreadsheet(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// parseText parses a delimiter-separated text file, trying each supported
// encoding until one yields a complete parse. Either a full consistent
// parse succeeds under one encoding, or the whole attempt fails; there is
// no partial acceptance.
func (p *Parser) parseText(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog file: %w", err)
	}

	var lastErr error
	for _, enc := range supportedEncodings {
		text, err := decodeText(raw, enc)
		if err != nil {
			lastErr = fmt.Errorf("encoding %s: %w", enc.name, err)
			continue
		}

		delimiter := detectDelimiter(sample(text))

		grid, err := readGrid(text, delimiter)
		if err != nil {
			lastErr = fmt.Errorf("encoding %s: %w", enc.name, err)
			continue
		}
		if len(grid) == 0 {
			lastErr = fmt.Errorf("encoding %s: %w", enc.name, ErrNoData)
			continue
		}

		headerIndex, headers, err := LocateHeader(grid)
		if err != nil {
			p.logger.Debug("no header row under encoding",
				zap.String("encoding", enc.name),
				zap.String("file", path))
			lastErr = fmt.Errorf("encoding %s: %w", enc.name, err)
			continue
		}

		cat := p.assemble(grid, headerIndex, headers)
		cat.Format = FormatCSV
		cat.Encoding = enc.name
		cat.DetectedDelimiter = delimiter
		cat.SourceFile = path

		p.logger.Info("parsed catalog",
			zap.String("file", path),
			zap.String("encoding", enc.name),
			zap.Int("rows", cat.RowCount),
			zap.Int("columns", len(cat.Headers)))
		return cat, nil
	}

	return nil, fmt.Errorf("failed to parse %s with any supported encoding: %w", filepath.Base(path), lastErr)
}

// parseSpreadsheet parses an Excel workbook. Only the active sheet is read;
// cell values are coerced to strings and empty cells become empty strings.
func (p *Parser) parseSpreadsheet(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets: %w", ErrNoData)
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("sheet %q is empty: %w", sheet, ErrNoData)
	}
	grid = padRows(grid)

	headerIndex, headers, err := LocateHeader(grid)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	cat := p.assemble(grid, headerIndex, headers)
	cat.Format = FormatExcel
	cat.Encoding = "utf-8"
	cat.SourceFile = path

	p.logger.Info("parsed catalog",
		zap.String("file", path),
		zap.String("sheet", sheet),
		zap.Int("rows", cat.RowCount),
		zap.Int("columns", len(cat.Headers)))
	return cat, nil
}

// assemble slices the data rows below the header into records, applies the
// row cap, and sniffs the currency.
func (p *Parser) assemble(grid [][]string, headerIndex int, headers []string) *Catalog {
	maxRows := p.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	dataRows := grid[headerIndex+1:]

	var warnings []string
	if len(dataRows) > maxRows {
		warnings = append(warnings,
			fmt.Sprintf("catalog truncated to %d rows (%d found)", maxRows, len(dataRows)))
		p.logger.Warn("catalog truncated",
			zap.Int("limit", maxRows),
			zap.Int("found", len(dataRows)))
		dataRows = dataRows[:maxRows]
	}

	records := make([]Record, 0, len(dataRows))
	for _, row := range dataRows {
		// Rows narrower than the header set are structural noise (footer
		// lines, stray notes) and are dropped.
		if len(row) < len(headers) {
			continue
		}
		rec := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				rec[header] = strings.TrimSpace(row[i])
			} else {
				rec[header] = ""
			}
		}
		records = append(records, rec)
	}

	return &Catalog{
		Headers:          headers,
		Records:          records,
		HeaderRowIndex:   headerIndex,
		RowCount:         len(records),
		DetectedCurrency: SniffCurrency(records, headers),
		Warnings:         warnings,
	}
}

// readGrid parses delimiter-separated text into a raw grid whose row
// indices match the file's line positions. encoding/csv silently skips
// blank lines, which would shift every index below a blank preamble row,
// so skipped blanks are restored as empty rows by tracking the reader's
// byte offsets.
func readGrid(text string, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	// Wholesaler exports routinely have ragged rows and stray quotes.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var grid [][]string
	offset := int64(0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		// Blank lines the reader skipped sit at the start of the consumed
		// chunk; each becomes an empty row so positions stay file-accurate.
		chunk := text[offset:reader.InputOffset()]
		for {
			nl := strings.IndexByte(chunk, '\n')
			if nl < 0 || strings.TrimRight(chunk[:nl], "\r") != "" {
				break
			}
			grid = append(grid, []string{})
			chunk = chunk[nl+1:]
		}

		grid = append(grid, record)
		offset = reader.InputOffset()
	}
	return grid, nil
}

// padRows widens every row to the width of the widest row, filling with
// empty cells. Spreadsheet readers trim trailing empty cells, which would
// otherwise make rows with a blank final column look short.
func padRows(grid [][]string) [][]string {
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range grid {
		for len(row) < width {
			row = append(row, "")
		}
		grid[i] = row
	}
	return grid
}

// utf8BOM is the UTF-8 byte order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText decodes raw bytes using the given encoding. The UTF-8 variants
// are validated strictly so that legacy encodings get their turn on
// non-UTF-8 input instead of silently mangling it; the library decoders
// would substitute replacement characters and "succeed" on anything.
func decodeText(raw []byte, enc textEncoding) (string, error) {
	switch enc.name {
	case "utf-8":
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid UTF-8")
		}
		return string(raw), nil
	case "utf-8-sig":
		if !bytes.HasPrefix(raw, utf8BOM) {
			return "", fmt.Errorf("missing UTF-8 BOM")
		}
		body := raw[len(utf8BOM):]
		if !utf8.Valid(body) {
			return "", fmt.Errorf("invalid UTF-8")
		}
		return string(body), nil
	}

	decoded, err := enc.decoder.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// sample returns the sniffing window from the start of the decoded text.
func sample(text string) string {
	if len(text) > sniffSampleSize {
		return text[:sniffSampleSize]
	}
	return text
}

// detectDelimiter picks the field delimiter for a text catalog.
//
// Each candidate is scored by its average per-line occurrence count across
// the first five non-blank lines of the sample; the candidate with the
// highest average wins. A real delimiter appears a consistent number of
// times per line, so the average separates it from incidental punctuation.
// Ties keep the earlier candidate (comma preferred); no candidate appearing
// at all falls back to comma.
func detectDelimiter(sample string) rune {
	var lines []string
	for _, line := range strings.Split(sample, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 5 {
			break
		}
	}

	best := ','
	bestAvg := 0.0
	for _, candidate := range delimiterCandidates {
		total := 0
		for _, line := range lines {
			total += strings.Count(line, string(candidate))
		}
		if len(lines) == 0 || total == 0 {
			continue
		}
		avg := float64(total) / float64(len(lines))
		if avg > bestAvg {
			bestAvg = avg
			best = candidate
		}
	}
	return best
}
