package filestore

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/volcano-atlas/internal/domain"
)

// Column headers of the volcano table.
const (
	colNumber     = "Number"
	colName       = "Volcano Name"
	colCountry    = "Country"
	colLatitude   = "Latitude"
	colLongitude  = "Longitude"
	colStatus     = "Status"
	colPopulation = "Population (2020)"
)

var requiredColumns = []string{colCountry, colLatitude, colLongitude, colStatus, colNumber, colPopulation}

// readTable returns the raw rows of a CSV or XLSX file, header first.
func readTable(path string) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported table format %q", ext)
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// readXLSX reads the first sheet of a workbook.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// missingTokens are the cell values spreadsheet exports use for "no value".
var missingTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true, "n/a": true, "nan": true, "null": true,
}

func isMissing(cell string) bool {
	return missingTokens[cell]
}

// parseVolcanoRows converts raw rows into records. Latitude and longitude
// must parse; an empty or NA population cell is recorded as unknown.
func parseVolcanoRows(rows [][]string) ([]domain.VolcanoRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		colIdx[h] = i
	}
	for _, c := range requiredColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	records := make([]domain.VolcanoRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}

		lat, err := parseFloat(get(row, colIdx, colLatitude))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colLatitude, err)
		}
		lon, err := parseFloat(get(row, colIdx, colLongitude))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colLongitude, err)
		}

		rec := domain.VolcanoRecord{
			Number:    get(row, colIdx, colNumber),
			Name:      get(row, colIdx, colName),
			Country:   get(row, colIdx, colCountry),
			Latitude:  lat,
			Longitude: lon,
			Status:    get(row, colIdx, colStatus),
		}

		if raw := get(row, colIdx, colPopulation); !isMissing(raw) {
			pop, err := parseFloat(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, colPopulation, err)
			}
			if math.IsNaN(pop) || math.IsInf(pop, 0) || pop < 0 {
				return nil, fmt.Errorf("line %d: %s: %q is not a finite non-negative number", line, colPopulation, raw)
			}
			rec.Population = pop
			rec.HasPopulation = true
		}

		records = append(records, rec)
	}
	return records, nil
}

// get returns the trimmed cell for column name, or "" when the row is short
// or the column is absent.
func get(row []string, colIdx map[string]int, name string) string {
	i, ok := colIdx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
