package domain

// usAlias is the volcano table's name for the country Natural Earth calls
// "United States of America".
const (
	usAlias = "United States"
	usCode  = "USA"
)

// CountryCodes maps country display names to ISO-3 codes and back.
type CountryCodes struct {
	NameToCode map[string]string
	CodeToName map[string]string
}

// NewCountryCodes builds both maps in one pass over the features. Duplicate
// names or codes keep the last feature seen. The "United States" alias is
// added to NameToCode only, so CodeToName["USA"] keeps the geometry name.
func NewCountryCodes(features []CountryGeometry) CountryCodes {
	codes := CountryCodes{
		NameToCode: make(map[string]string, len(features)+1),
		CodeToName: make(map[string]string, len(features)),
	}
	for _, f := range features {
		codes.NameToCode[f.Name] = f.ISO3
		codes.CodeToName[f.ISO3] = f.Name
	}
	codes.NameToCode[usAlias] = usCode
	return codes
}

// Code returns the ISO-3 code for a display name.
func (c CountryCodes) Code(name string) (string, bool) {
	code, ok := c.NameToCode[name]
	return code, ok
}

// Name returns the display name for an ISO-3 code.
func (c CountryCodes) Name(code string) (string, bool) {
	name, ok := c.CodeToName[code]
	return name, ok
}
