package domain

// VolcanoRecord is one row of the volcano table. Records are never mutated
// after loading.
type VolcanoRecord struct {
	Number    string  `json:"number"`
	Name      string  `json:"name,omitempty"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Status    string  `json:"status"`

	// Population is the 2020 population of Country. HasPopulation is false
	// when the source cell was empty.
	Population    float64 `json:"population"`
	HasPopulation bool    `json:"-"`
}

// Bounds is a lon/lat bounding box.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// CountryGeometry is one feature of the geometry document.
type CountryGeometry struct {
	Name   string `json:"name"`
	ISO3   string `json:"iso3"`
	Bounds Bounds `json:"bounds"`
}

// GeometryDocument is the parsed country-boundary document. Raw holds the
// original bytes so the client can draw the same polygons the codes came from.
type GeometryDocument struct {
	Features []CountryGeometry
	Raw      []byte
}

// StatusMetrics holds the per-status figures of one country.
type StatusMetrics struct {
	Count          int     `json:"count"`
	RatePerMillion float64 `json:"rate_per_million"`
}

// CountryAggregate is the statistics row for one ISO-3 code.
type CountryAggregate struct {
	ISO3           string                   `json:"iso3"`
	Name           string                   `json:"name"`
	Total          int                      `json:"total"`
	Population     float64                  `json:"population"`
	RatePerMillion float64                  `json:"rate_per_million"`
	ByStatus       map[string]StatusMetrics `json:"by_status"`
}

// Status returns the metrics for status, zero when the country has none.
func (a CountryAggregate) Status(status string) StatusMetrics {
	return a.ByStatus[status]
}

// Aggregation is the output of [Aggregate].
type Aggregation struct {
	// Rows are sorted by ISO3.
	Rows []CountryAggregate `json:"rows"`

	// Statuses lists distinct status values in first-appearance order.
	Statuses []string `json:"statuses"`

	// Matched and Dropped count volcano records with and without a
	// resolvable country code.
	Matched int `json:"matched"`
	Dropped int `json:"dropped"`

	index map[string]int
}

// Lookup returns the row for iso3.
func (a *Aggregation) Lookup(iso3 string) (CountryAggregate, bool) {
	i, ok := a.index[iso3]
	if !ok {
		return CountryAggregate{}, false
	}
	return a.Rows[i], true
}
