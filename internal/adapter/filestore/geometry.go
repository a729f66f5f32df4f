package filestore

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/volcano-atlas/internal/domain"
)

// Feature property names in the Natural Earth admin-0 document.
const (
	propName = "ADMIN"
	propISO3 = "ISO_A3"
)

// parseGeometry decodes a GeoJSON FeatureCollection. Every feature must carry
// string ADMIN and ISO_A3 properties.
func parseGeometry(data []byte) (*domain.GeometryDocument, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("feature collection is empty")
	}

	features := make([]domain.CountryGeometry, 0, len(fc.Features))
	for i, f := range fc.Features {
		name, err := stringProperty(f, propName)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		code, err := stringProperty(f, propISO3)
		if err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, name, err)
		}
		features = append(features, domain.CountryGeometry{
			Name:   name,
			ISO3:   code,
			Bounds: featureBounds(f),
		})
	}

	return &domain.GeometryDocument{Features: features, Raw: data}, nil
}

func stringProperty(f *geojson.Feature, key string) (string, error) {
	v, ok := f.Properties[key]
	if !ok {
		return "", fmt.Errorf("missing property %s", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("property %s is not a non-empty string", key)
	}
	return s, nil
}

func featureBounds(f *geojson.Feature) domain.Bounds {
	if f.Geometry == nil {
		return domain.Bounds{}
	}
	b := f.Geometry.Bounds()
	if b == nil || b.IsEmpty() {
		return domain.Bounds{}
	}
	return domain.Bounds{
		MinLon: b.Min(0),
		MinLat: b.Min(1),
		MaxLon: b.Max(0),
		MaxLat: b.Max(1),
	}
}
