// =============================================================================
// Catalog Scanner - File Utilities
// =============================================================================
//
// This module provides file management utilities for the scanner, including:
//   - Catalog file discovery and scanning
//   - Collision-free export file naming
//   - Small filesystem helpers
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// catalogExtensions are the file extensions recognized as catalog files.
var catalogExtensions = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".txt":  true,
	".xlsx": true,
	".xlsm": true,
}

// IsCatalogFile reports whether a path has a recognized catalog extension.
func IsCatalogFile(path string) bool {
	return catalogExtensions[strings.ToLower(filepath.Ext(path))]
}

// DiscoverCatalogFiles walks a directory tree and returns every catalog
// file found, in walk order.
//
// PARAMETERS:
//   - dir: The directory to scan.
//
// RETURNS:
//   - A slice of file paths.
//   - An error if the directory cannot be read.
func DiscoverCatalogFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if IsCatalogFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	return files, nil
}

// UniqueExportName generates a collision-free file name embedding the
// current timestamp and a random suffix.
//
// EXAMPLE:
//   UniqueExportName("scan_results", ".csv")
//   -> "scan_results_20240115_143022_a1b2c3d4.csv"
func UniqueExportName(prefix, ext string) string {
	timestamp := time.Now().Format("20060102_150405")
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s_%s%s", prefix, timestamp, suffix, ext)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
