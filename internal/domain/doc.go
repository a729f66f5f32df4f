// Package domain models the volcano dataset and the per-country statistics
// derived from it.
//
// # Data Sources
//
// The volcano table is the Smithsonian Global Volcanism Program list joined
// with 2020 country population figures. Each row carries:
//
//	Number            GVP volcano number, e.g. "283030" (identifier only)
//	Volcano Name      e.g. "Fujisan"
//	Country           display name, e.g. "Japan"
//	Latitude          decimal degrees, WGS-84
//	Longitude         decimal degrees, WGS-84
//	Status            eruption evidence class, e.g. "Historical", "Holocene"
//	Population (2020) population of the volcano's country, repeated per row
//
// The geometry document is a Natural Earth admin-0 GeoJSON FeatureCollection.
// Each feature exposes the country display name in the ADMIN property and
// the ISO 3166-1 alpha-3 code in ISO_A3.
//
// # Joining
//
// Volcano rows are joined to geometry features by country display name. The
// two sources disagree on one name: the volcano table says "United States"
// while Natural Earth says "United States of America". [NewCountryCodes]
// patches that single alias. Rows whose country still fails to resolve are
// dropped from every aggregate; they remain visible in point mode because
// points only need coordinates.
//
// # Rates
//
// Rates are volcanoes per million inhabitants:
//
//	rate = count / population * 1_000_000
//
// Countries without volcanoes get population 1 so their rate is exactly 0.
//
// # Threshold Classification
//
// A metric column is split into two classes relative to its maximum:
//
//	value / max(values) > threshold  →  "Above Threshold"
//	otherwise                        →  "Below Threshold"
//
// See [ClassifyThreshold].
package domain
