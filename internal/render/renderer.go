// Package render turns a selection and the aggregated statistics into a map
// figure the browser client draws.
package render

import (
	"github.com/couchcryptid/volcano-atlas/internal/domain"
)

// Column labels shown in titles and tooltips.
const (
	labelTotal     = "Total number of volcanoes"
	labelTotalRate = "Volcanoes per million people"
	rateSuffix     = " per million people"
)

// Renderer builds figures from one immutable snapshot of the data.
type Renderer struct {
	records []domain.VolcanoRecord
	agg     domain.Aggregation
	options domain.SelectionOptions
	layout  Layout
}

// NewRenderer creates a Renderer. The arguments are shared, not copied.
func NewRenderer(records []domain.VolcanoRecord, agg domain.Aggregation, options domain.SelectionOptions, layout Layout) *Renderer {
	return &Renderer{records: records, agg: agg, options: options, layout: layout}
}

// Options returns the values the controls may take.
func (r *Renderer) Options() domain.SelectionOptions {
	return r.options
}

// Render produces the figure for sel. It returns an error wrapping
// ErrInvalidSelection when sel is not among the offered options.
func (r *Renderer) Render(sel Selection) (Figure, error) {
	if err := checkSelection(sel, r.options); err != nil {
		return Figure{}, err
	}

	fig := Figure{Layout: r.layout, GeneratedAt: domain.Now()}
	if sel.Points {
		fig.Kind = KindScatter
		fig.Mode = ModePoints
		fig.Title = "Volcanoes"
		if sel.Status != domain.StatusAll {
			fig.Title = sel.Status + " volcanoes"
		}
		fig.Points = r.points(sel.Status)
		return fig, nil
	}

	fig.Kind = KindChoropleth
	fig.FeatureIDKey = FeatureIDKey
	fig.Title = columnLabel(sel.Status, sel.Metric)

	rows := r.agg.Rows
	fig.Locations = make([]string, len(rows))
	fig.Values = make([]float64, len(rows))
	fig.Hover = make([]Hover, len(rows))
	for i, row := range rows {
		fig.Locations[i] = row.ISO3
		fig.Values[i] = columnValue(row, sel.Status, sel.Metric)
		fig.Hover[i] = r.hover(row, sel, fig.Values[i])
	}

	if sel.IsThreshold() {
		fig.Mode = ModeThreshold
		fig.Categories = domain.ClassifyThreshold(fig.Values, sel.Threshold)
		fig.DiscreteColors = ThresholdColors
		return fig, nil
	}

	fig.Mode = ModeContinuous
	fig.ColorScale = sel.ColorScheme
	return fig, nil
}

func (r *Renderer) points(status string) []Point {
	points := make([]Point, 0, len(r.records))
	for _, rec := range r.records {
		if status != domain.StatusAll && rec.Status != status {
			continue
		}
		points = append(points, Point{
			Lat:     rec.Latitude,
			Lon:     rec.Longitude,
			Name:    rec.Name,
			Country: rec.Country,
			Status:  rec.Status,
		})
	}
	return points
}

// hover lists the shown metric first. The "All" map also lists the total
// and every per-status count.
func (r *Renderer) hover(row domain.CountryAggregate, sel Selection, value float64) Hover {
	h := Hover{Name: row.Name}
	h.Fields = append(h.Fields, HoverField{Label: columnLabel(sel.Status, sel.Metric), Value: value})
	if sel.Status != domain.StatusAll {
		return h
	}
	if sel.Metric == domain.MetricRate {
		h.Fields = append(h.Fields, HoverField{Label: labelTotal, Value: float64(row.Total)})
	}
	for _, s := range r.agg.Statuses {
		h.Fields = append(h.Fields, HoverField{Label: s, Value: float64(row.Status(s).Count)})
	}
	return h
}

func columnLabel(status string, metric domain.Metric) string {
	switch {
	case status == domain.StatusAll && metric == domain.MetricRate:
		return labelTotalRate
	case status == domain.StatusAll:
		return labelTotal
	case metric == domain.MetricRate:
		return status + rateSuffix
	default:
		return status
	}
}

func columnValue(row domain.CountryAggregate, status string, metric domain.Metric) float64 {
	if status == domain.StatusAll {
		if metric == domain.MetricRate {
			return row.RatePerMillion
		}
		return float64(row.Total)
	}
	m := row.Status(status)
	if metric == domain.MetricRate {
		return m.RatePerMillion
	}
	return float64(m.Count)
}
