package domain

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// perMillion scales a count-per-person ratio to count per million people.
const perMillion = 1_000_000

// zeroCountPopulation is the population assigned to countries without
// volcanoes. It keeps their rates at exactly 0.
const zeroCountPopulation = 1

// Aggregate joins records to ISO codes and builds one CountryAggregate per
// known code. The steps run in this order:
//
//  1. attach a code to each record by country name; unresolved records are
//     dropped from every count
//  2. count records per code
//  3. add a zero row for every code the geometry knows
//  4. population: 1 for zero-count rows, otherwise the mean of the records'
//     populations
//  5. total rate per million
//  6. per-status counts and rates, missing statuses counted as 0
func Aggregate(records []VolcanoRecord, codes CountryCodes) Aggregation {
	type bucket struct {
		total       int
		byStatus    map[string]int
		populations stats.Float64Data
	}

	buckets := make(map[string]*bucket)
	var statuses []string
	seenStatus := make(map[string]bool)
	var matched, dropped int

	for _, rec := range records {
		if !seenStatus[rec.Status] {
			seenStatus[rec.Status] = true
			statuses = append(statuses, rec.Status)
		}

		code, ok := codes.Code(rec.Country)
		if !ok || code == "" {
			dropped++
			continue
		}
		matched++

		b := buckets[code]
		if b == nil {
			b = &bucket{byStatus: make(map[string]int)}
			buckets[code] = b
		}
		b.total++
		b.byStatus[rec.Status]++
		if rec.HasPopulation {
			b.populations = append(b.populations, rec.Population)
		}
	}

	// Codes only reachable through an alias take the alias as display name.
	aliasNames := make(map[string]string)
	for name, code := range codes.NameToCode {
		if _, ok := buckets[code]; !ok {
			buckets[code] = &bucket{byStatus: make(map[string]int)}
		}
		if _, ok := codes.CodeToName[code]; !ok {
			aliasNames[code] = name
		}
	}

	rows := make([]CountryAggregate, 0, len(buckets))
	for code, b := range buckets {
		row := CountryAggregate{
			ISO3:       code,
			Name:       displayName(codes, aliasNames, code),
			Total:      b.total,
			Population: countryPopulation(b.total, b.populations),
			ByStatus:   make(map[string]StatusMetrics, len(statuses)),
		}
		row.RatePerMillion = ratePerMillion(row.Total, row.Population)
		for _, s := range statuses {
			n := b.byStatus[s]
			row.ByStatus[s] = StatusMetrics{
				Count:          n,
				RatePerMillion: ratePerMillion(n, row.Population),
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ISO3 < rows[j].ISO3 })

	index := make(map[string]int, len(rows))
	for i, r := range rows {
		index[r.ISO3] = i
	}

	return Aggregation{
		Rows:     rows,
		Statuses: statuses,
		Matched:  matched,
		Dropped:  dropped,
		index:    index,
	}
}

// countryPopulation returns the sentinel for zero-count countries and the
// mean of the known populations otherwise. A country with volcanoes but no
// population values at all gets 0.
func countryPopulation(total int, populations stats.Float64Data) float64 {
	if total == 0 {
		return zeroCountPopulation
	}
	mean, err := stats.Mean(populations)
	if err != nil {
		return 0
	}
	return mean
}

func displayName(codes CountryCodes, aliasNames map[string]string, code string) string {
	if name, ok := codes.Name(code); ok {
		return name
	}
	return aliasNames[code]
}

func ratePerMillion(count int, population float64) float64 {
	if population <= 0 {
		return 0
	}
	return float64(count) / population * perMillion
}
