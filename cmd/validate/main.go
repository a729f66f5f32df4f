// Command validate checks the volcano inputs and the aggregation built from
// them. It reports volcano countries that do not resolve to a geometry code
// (the service drops those rows silently) and verifies the aggregate
// invariants. With -fixture it also compares a genmock fixture against a
// fresh aggregation.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -volcanoes data/mock/volcanoes.csv \
//	  -geometry data/mock/countries.geojson \
//	  -fixture data/mock/country_aggregates.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"sort"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/couchcryptid/volcano-atlas/internal/adapter/filestore"
	"github.com/couchcryptid/volcano-atlas/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// fixture mirrors the file cmd/genmock writes.
type fixture struct {
	Matched  int                       `json:"matched"`
	Dropped  int                       `json:"dropped"`
	Statuses []string                  `json:"statuses"`
	Rows     []domain.CountryAggregate `json:"rows"`
}

func main() {
	volcanoes := flag.String("volcanoes", "", "path to the volcano table (.csv or .xlsx)")
	geometry := flag.String("geometry", "", "path to the country GeoJSON document")
	fixturePath := flag.String("fixture", "", "optional genmock fixture to compare against")
	flag.Parse()

	if *volcanoes == "" || *geometry == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*volcanoes, *geometry, *fixturePath); code != 0 {
		os.Exit(code)
	}
}

func run(volcanoPath, geometryPath, fixturePath string) int {
	fmt.Println("=== Volcano Data Integrity Validation ===")
	fmt.Println()

	ctx := context.Background()
	loader := filestore.NewLoader(1, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	records, err := loader.LoadVolcanoes(ctx, volcanoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	doc, err := loader.LoadGeometry(ctx, geometryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	codes := domain.NewCountryCodes(doc.Features)
	agg := domain.Aggregate(records, codes)

	phases := []*phase{
		validateGeometry(doc.Features),
		validateAggregates(agg, codes, len(records)),
		validateThreshold(agg),
	}
	if fixturePath != "" {
		phases = append(phases, validateFixture(fixturePath, agg))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d loaded, %d matched, %d dropped; %d countries, %d statuses\n",
		len(records), agg.Matched, agg.Dropped, len(agg.Rows), len(agg.Statuses))

	if unmatched := unmatchedCountries(records, codes); len(unmatched) > 0 {
		fmt.Printf("\nUnmatched countries (%d, dropped from every count):\n", len(unmatched))
		for _, u := range unmatched {
			fmt.Printf("  %-40s %d records\n", u.name, u.records)
		}
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

// validateGeometry flags duplicate names and codes. Duplicates are legal
// (the last one wins) but usually point at a bad geometry export.
func validateGeometry(features []domain.CountryGeometry) *phase {
	p := &phase{name: "Phase 1: Geometry document"}
	names := make(map[string]int)
	for _, f := range features {
		names[f.Name]++
		if len(f.ISO3) != 3 && f.ISO3 != "-99" {
			p.errorf("%s: ISO_A3 %q is not a three-letter code", f.Name, f.ISO3)
		}
	}
	for name, n := range names {
		if n > 1 {
			p.errorf("country name %q appears %d times", name, n)
		}
	}
	return p
}

func validateAggregates(agg domain.Aggregation, codes domain.CountryCodes, records int) *phase {
	p := &phase{name: "Phase 2: Aggregate invariants"}

	if agg.Matched+agg.Dropped != records {
		p.errorf("matched %d + dropped %d != records %d", agg.Matched, agg.Dropped, records)
	}
	for code := range codes.CodeToName {
		if _, ok := agg.Lookup(code); !ok {
			p.errorf("%s: known code has no row", code)
		}
	}

	seen := make(map[string]bool, len(agg.Rows))
	total := 0
	for _, row := range agg.Rows {
		if seen[row.ISO3] {
			p.errorf("%s: duplicate row", row.ISO3)
		}
		seen[row.ISO3] = true
		total += row.Total

		statusSum := 0
		for _, s := range agg.Statuses {
			m := row.Status(s)
			statusSum += m.Count
			if !finiteNonNegative(m.RatePerMillion) {
				p.errorf("%s/%s: rate %v is not a finite non-negative number", row.ISO3, s, m.RatePerMillion)
			}
		}
		if statusSum != row.Total {
			p.errorf("%s: status counts sum to %d, total is %d", row.ISO3, statusSum, row.Total)
		}
		if !finiteNonNegative(row.RatePerMillion) {
			p.errorf("%s: rate %v is not a finite non-negative number", row.ISO3, row.RatePerMillion)
		}
		if row.Total == 0 && (row.Population != 1 || row.RatePerMillion != 0) {
			p.errorf("%s: zero-count row has population %v and rate %v", row.ISO3, row.Population, row.RatePerMillion)
		}
	}
	if total != agg.Matched {
		p.errorf("row totals sum to %d, matched is %d", total, agg.Matched)
	}
	if !sort.SliceIsSorted(agg.Rows, func(i, j int) bool { return agg.Rows[i].ISO3 < agg.Rows[j].ISO3 }) {
		p.errorf("rows are not sorted by code")
	}
	return p
}

// validateThreshold checks that the largest value is always Above for any
// threshold below 1, and that nothing is Above at a zero maximum.
func validateThreshold(agg domain.Aggregation) *phase {
	p := &phase{name: "Phase 3: Threshold classification"}

	values := make([]float64, len(agg.Rows))
	for i, row := range agg.Rows {
		values[i] = float64(row.Total)
	}
	labels := domain.ClassifyThreshold(values, 0.999)
	maxValue := slices.Max(append([]float64{0}, values...))
	for i, v := range values {
		if v == maxValue && maxValue > 0 && labels[i] != domain.AboveThreshold {
			p.errorf("%s: maximum value %v classified %s", agg.Rows[i].ISO3, v, labels[i])
		}
		if maxValue == 0 && labels[i] != domain.BelowThreshold {
			p.errorf("%s: classified %s with no positive values", agg.Rows[i].ISO3, labels[i])
		}
	}
	return p
}

func validateFixture(path string, agg domain.Aggregation) *phase {
	p := &phase{name: "Phase 4: Fixture consistency"}

	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read fixture: %v", err)
		return p
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		p.errorf("decode fixture: %v", err)
		return p
	}

	if fx.Matched != agg.Matched || fx.Dropped != agg.Dropped {
		p.errorf("fixture matched/dropped %d/%d, computed %d/%d", fx.Matched, fx.Dropped, agg.Matched, agg.Dropped)
	}
	if diff := cmp.Diff(fx.Statuses, agg.Statuses); diff != "" {
		p.errorf("statuses differ (-fixture +computed):\n%s", diff)
	}
	if diff := cmp.Diff(fx.Rows, agg.Rows, cmpopts.EquateApprox(0, 1e-9), cmpopts.EquateEmpty()); diff != "" {
		p.errorf("rows differ (-fixture +computed):\n%s", diff)
	}
	return p
}

// ── Helpers ──

type unmatched struct {
	name    string
	records int
}

func unmatchedCountries(records []domain.VolcanoRecord, codes domain.CountryCodes) []unmatched {
	counts := make(map[string]int)
	for _, rec := range records {
		if _, ok := codes.Code(rec.Country); !ok {
			counts[rec.Country]++
		}
	}
	out := make([]unmatched, 0, len(counts))
	for name, n := range counts {
		out = append(out, unmatched{name: name, records: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].records != out[j].records {
			return out[i].records > out[j].records
		}
		return out[i].name < out[j].name
	})
	return out
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
