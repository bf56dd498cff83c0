package seed

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteRecords writes records as JSON lines, gzip compressed when compress is
// set.
func WriteRecords(w io.Writer, records []Record, compress bool) error {
	var gzipWriter *gzip.Writer
	if compress {
		gzipWriter = gzip.NewWriter(w)
		w = gzipWriter
	}

	buffered := bufio.NewWriter(w)
	encoder := json.NewEncoder(buffered)
	encoder.SetEscapeHTML(false)
	for i, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to encode seed record %d: %w", i+1, err)
		}
	}

	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("failed to flush seed records: %w", err)
	}
	if gzipWriter != nil {
		if err := gzipWriter.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}
	return nil
}

// WriteFile writes records to path, creating parent directories. Paths ending
// in ".gz" are gzip compressed.
func WriteFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file %s: %w", path, err)
	}

	if err := WriteRecords(file, records, isGzip(path)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
