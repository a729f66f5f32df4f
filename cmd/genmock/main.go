// Command genmock reads the volcano table and the country geometry and writes
// the per-country aggregates as a JSON fixture. It uses the service's own
// loader and aggregation so the fixture matches real pipeline output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -volcanoes data/mock/volcanoes.csv \
//	  -geometry data/mock/countries.geojson \
//	  -out data/mock/country_aggregates.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/volcano-atlas/internal/adapter/filestore"
	"github.com/couchcryptid/volcano-atlas/internal/domain"
)

// fixtureTime stamps the fixture so regenerated files diff cleanly.
var fixtureTime = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

// Fixture is the file genmock writes and validate reads back.
type Fixture struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Records     int                       `json:"records"`
	Matched     int                       `json:"matched"`
	Dropped     int                       `json:"dropped"`
	Statuses    []string                  `json:"statuses"`
	Rows        []domain.CountryAggregate `json:"rows"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	volcanoes := flag.String("volcanoes", "", "path to the volcano table (.csv or .xlsx)")
	geometry := flag.String("geometry", "", "path to the country GeoJSON document")
	out := flag.String("out", "", "output path for the aggregates fixture")
	flag.Parse()

	if *volcanoes == "" || *geometry == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -volcanoes, -geometry, -out")
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	ctx := context.Background()
	loader := filestore.NewLoader(1, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	records, err := loader.LoadVolcanoes(ctx, *volcanoes)
	if err != nil {
		return err
	}
	doc, err := loader.LoadGeometry(ctx, *geometry)
	if err != nil {
		return err
	}
	log.Printf("loaded %d records, %d countries", len(records), len(doc.Features))

	agg := domain.Aggregate(records, domain.NewCountryCodes(doc.Features))
	fixture := Fixture{
		GeneratedAt: domain.Now(),
		Records:     len(records),
		Matched:     agg.Matched,
		Dropped:     agg.Dropped,
		Statuses:    agg.Statuses,
		Rows:        agg.Rows,
	}

	if err := writeJSON(*out, fixture); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(agg)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644) //nolint:gosec // fixture is not sensitive
}

func printStats(agg domain.Aggregation) {
	withVolcanoes := 0
	for _, row := range agg.Rows {
		if row.Total > 0 {
			withVolcanoes++
		}
	}

	log.Printf("matched %d, dropped %d", agg.Matched, agg.Dropped)
	log.Printf("countries: %d total, %d with volcanoes", len(agg.Rows), withVolcanoes)
	for _, s := range agg.Statuses {
		n := 0
		for _, row := range agg.Rows {
			n += row.Status(s).Count
		}
		log.Printf("  %-24s %d", s, n)
	}
}
