package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCountryCodes(t *testing.T) {
	codes := NewCountryCodes(testGeometry())

	tests := []struct {
		name string
		want string
	}{
		{"Japan", "JPN"},
		{"France", "FRA"},
		{"United States of America", "USA"},
		{"United States", "USA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := codes.Code(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := codes.Code("Atlantis")
	assert.False(t, ok)
}

func TestNewCountryCodes_ReverseMap(t *testing.T) {
	codes := NewCountryCodes(testGeometry())

	name, ok := codes.Name("USA")
	assert.True(t, ok)
	assert.Equal(t, "United States of America", name, "alias must not replace the geometry name")

	for code, name := range codes.CodeToName {
		assert.Equal(t, code, codes.NameToCode[name], "every code has a name entry")
	}
	assert.Len(t, codes.NameToCode, len(codes.CodeToName)+1, "only the alias is extra")
}

func TestNewCountryCodes_LastWriteWins(t *testing.T) {
	codes := NewCountryCodes([]CountryGeometry{
		{Name: "Somaliland", ISO3: "-99"},
		{Name: "Kosovo", ISO3: "-99"},
	})

	name, ok := codes.Name("-99")
	assert.True(t, ok)
	assert.Equal(t, "Kosovo", name)
	assert.Equal(t, "-99", codes.NameToCode["Somaliland"])
}
