package http

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/volcano-atlas/internal/pipeline"
)

const (
	sheetVolcanoes = "Volcanoes"
	sheetCountries = "Countries"
)

// writeWorkbook writes both raw tables as a two-sheet XLSX workbook.
func writeWorkbook(w io.Writer, snap *pipeline.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetVolcanoes); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetCountries); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRows(f, sheetVolcanoes, volcanoRows(snap)); err != nil {
		return err
	}
	if err := writeRows(f, sheetCountries, countryRows(snap)); err != nil {
		return err
	}
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func volcanoRows(snap *pipeline.Snapshot) [][]any {
	rows := make([][]any, 0, len(snap.Records)+1)
	rows = append(rows, []any{"Number", "Volcano Name", "Country", "Latitude", "Longitude", "Status", "Population (2020)"})
	for _, rec := range snap.Records {
		var pop any
		if rec.HasPopulation {
			pop = rec.Population
		}
		rows = append(rows, []any{rec.Number, rec.Name, rec.Country, rec.Latitude, rec.Longitude, rec.Status, pop})
	}
	return rows
}

// countryRows lays out one row per code with a count and a rate column for
// every status.
func countryRows(snap *pipeline.Snapshot) [][]any {
	statuses := snap.Aggregation.Statuses
	header := []any{"ISO", "Country", "Total number of volcanoes", "Population", "Volcanoes per million people"}
	for _, s := range statuses {
		header = append(header, s, s+" per million people")
	}

	rows := make([][]any, 0, len(snap.Aggregation.Rows)+1)
	rows = append(rows, header)
	for _, agg := range snap.Aggregation.Rows {
		row := []any{agg.ISO3, agg.Name, agg.Total, agg.Population, agg.RatePerMillion}
		for _, s := range statuses {
			m := agg.Status(s)
			row = append(row, m.Count, m.RatePerMillion)
		}
		rows = append(rows, row)
	}
	return rows
}
