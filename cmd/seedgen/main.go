// Command seedgen converts catalogue seed files, e.g. to produce the gzipped
// copy uploaded to the S3 seed bucket:
//
//	go run ./cmd/seedgen -in data/seed/catalog.jsonl -out build/seed/catalog.jsonl.gz
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"dscatalog/internal/config"
	"dscatalog/internal/seed"
)

func main() {
	in := flag.String("in", "data/seed/catalog.jsonl", "seed file to read")
	out := flag.String("out", "data/seed/catalog.jsonl.gz", "seed file to write (gzipped when ending in .gz)")
	flag.Parse()

	logger := config.NewLogger(config.LoggerConfig{Level: "info", Format: "console"})

	records, err := seed.NewFileLoader(logger).Load(context.Background(), *in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := seed.WriteFile(*out, records); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info().
		Str("in", *in).
		Str("out", *out).
		Int("records", len(records)).
		Msg("seed file written")
}
