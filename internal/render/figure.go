package render

import (
	"time"

	"github.com/couchcryptid/volcano-atlas/internal/domain"
)

// Figure kinds.
const (
	KindScatter    = "scatter"
	KindChoropleth = "choropleth"
)

// Figure modes, also used as the render metric label.
const (
	ModePoints     = "points"
	ModeContinuous = "continuous"
	ModeThreshold  = "threshold"
)

// FeatureIDKey is the geometry property the client matches Locations against.
const FeatureIDKey = "properties.ISO_A3"

// ThresholdColors maps each threshold class to its fill color.
var ThresholdColors = map[domain.ThresholdLabel]string{
	domain.AboveThreshold: "green",
	domain.BelowThreshold: "red",
}

// Figure is a renderable map description. Choropleth slices are parallel:
// index i of Locations, Hover, Values and Categories describes one country.
type Figure struct {
	Kind  string `json:"kind"`
	Mode  string `json:"mode"`
	Title string `json:"title"`

	Points []Point `json:"points,omitempty"`

	Locations      []string                         `json:"locations,omitempty"`
	FeatureIDKey   string                           `json:"featureidkey,omitempty"`
	Hover          []Hover                          `json:"hover,omitempty"`
	Values         []float64                        `json:"values,omitempty"`
	ColorScale     string                           `json:"colorscale,omitempty"`
	Categories     []domain.ThresholdLabel          `json:"categories,omitempty"`
	DiscreteColors map[domain.ThresholdLabel]string `json:"discrete_colors,omitempty"`

	Layout      Layout    `json:"layout"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Point is one volcano marker.
type Point struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name,omitempty"`
	Country string  `json:"country"`
	Status  string  `json:"status"`
}

// Hover is the tooltip of one country. It is keyed by display name only.
type Hover struct {
	Name   string       `json:"name"`
	Fields []HoverField `json:"fields"`
}

// HoverField is one labelled tooltip line.
type HoverField struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Layout holds the map viewport settings.
type Layout struct {
	Style   string  `json:"style"`
	Zoom    float64 `json:"zoom"`
	Center  LatLon  `json:"center"`
	Opacity float64 `json:"opacity"`
	Margin  Margin  `json:"margin"`
}

// LatLon is a map position.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

// DefaultMapStyle is the basemap used when none is configured.
const DefaultMapStyle = "carto-positron"

// NewLayout returns the dashboard viewport for the given basemap style.
func NewLayout(style string) Layout {
	if style == "" {
		style = DefaultMapStyle
	}
	return Layout{
		Style:   style,
		Zoom:    1,
		Center:  LatLon{Lat: 40, Lon: 40},
		Opacity: 0.5,
	}
}
