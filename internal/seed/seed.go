// Package seed loads the initial catalogue from JSON lines files.
package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Record is one product line of a seed file. Categories are referenced by name.
type Record struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImgURL      string    `json:"imgUrl"`
	Date        time.Time `json:"date"`
	Categories  []string  `json:"categories"`
}

// Loader defines the interface for loading seed files.
type Loader interface {
	// Load reads a seed file and returns its records in file order.
	// Files whose name ends in ".gz" are gunzipped first.
	Load(ctx context.Context, path string) ([]Record, error)
}

// isGzip reports whether a seed file is gzip compressed.
func isGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// decodeRecords reads one JSON record per line. Blank lines are skipped.
func decodeRecords(ctx context.Context, r io.Reader, path string) ([]Record, error) {
	if isGzip(path) {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	records := []Record{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("invalid seed record at %s:%d: %w", path, lineNo, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", path, err)
	}

	return records, nil
}
