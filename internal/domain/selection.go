package domain

import "slices"

// StatusAll selects every status.
const StatusAll = "All"

// ThresholdMode is the color-scheme identifier for two-class threshold
// coloring.
const ThresholdMode = "threshold-mode"

// Metric selects the aggregate column a choropleth shows.
type Metric string

const (
	MetricCount Metric = "count"
	MetricRate  Metric = "rate"
)

// thresholdStops is the number of slider positions in [0, 1).
const thresholdStops = 1000

// ContinuousColorScales lists the named continuous color scales the map
// client understands.
var ContinuousColorScales = []string{
	"aggrnyl", "agsunset", "blackbody", "bluered", "blues", "blugrn", "bluyl",
	"brwnyl", "bugn", "bupu", "burg", "burgyl", "cividis", "darkmint",
	"electric", "emrld", "gnbu", "greens", "greys", "hot", "inferno", "jet",
	"magenta", "magma", "mint", "orrd", "oranges", "oryel", "peach", "pinkyl",
	"plasma", "plotly3", "pubu", "pubugn", "purd", "purp", "purples", "purpor",
	"rainbow", "rdbu", "rdpu", "redor", "reds", "sunset", "sunsetdark", "teal",
	"tealgrn", "turbo", "viridis", "ylgn", "ylgnbu", "ylorbr", "ylorrd",
	"algae", "amp", "deep", "dense", "gray", "haline", "ice", "matter",
	"solar", "speed", "tempo", "thermal", "turbid", "armyrose", "brbg",
	"earth", "fall", "geyser", "prgn", "piyg", "picnic", "portland", "puor",
	"rdgy", "rdylbu", "rdylgn", "spectral", "tealrose", "temps", "tropic",
	"balance", "curl", "delta", "oxy", "edge", "hsv", "icefire", "phase",
	"twilight", "mrybm", "mygbm",
}

// SelectionOptions enumerates every value the dashboard controls may take.
type SelectionOptions struct {
	Statuses     []string  `json:"statuses"`
	ColorSchemes []string  `json:"color_schemes"`
	Metrics      []Metric  `json:"metrics"`
	Thresholds   []float64 `json:"thresholds"`
}

// NewSelectionOptions derives the control values from an aggregation.
func NewSelectionOptions(agg Aggregation) SelectionOptions {
	statuses := make([]string, 0, len(agg.Statuses)+1)
	statuses = append(statuses, StatusAll)
	statuses = append(statuses, agg.Statuses...)

	schemes := make([]string, 0, len(ContinuousColorScales)+1)
	schemes = append(schemes, ThresholdMode)
	schemes = append(schemes, ContinuousColorScales...)

	thresholds := make([]float64, thresholdStops)
	for i := range thresholds {
		thresholds[i] = float64(i) / thresholdStops
	}

	return SelectionOptions{
		Statuses:     statuses,
		ColorSchemes: schemes,
		Metrics:      []Metric{MetricCount, MetricRate},
		Thresholds:   thresholds,
	}
}

// HasStatus reports whether status is selectable.
func (o SelectionOptions) HasStatus(status string) bool {
	return slices.Contains(o.Statuses, status)
}

// HasColorScheme reports whether scheme is selectable.
func (o SelectionOptions) HasColorScheme(scheme string) bool {
	return slices.Contains(o.ColorSchemes, scheme)
}
