package domain

import "fmt"

// Dimension is a column that may be used for filtering or breakdowns. Only
// values declared here ever reach SQL text as identifiers.
type Dimension string

const (
	DimURLPath        Dimension = "url_path"
	DimURLQuery       Dimension = "url_query"
	DimReferrerPath   Dimension = "referrer_path"
	DimReferrerQuery  Dimension = "referrer_query"
	DimReferrerDomain Dimension = "referrer_domain"
	DimPageTitle      Dimension = "page_title"
	DimEventName      Dimension = "event_name"
	DimBrowser        Dimension = "browser"
	DimOS             Dimension = "os"
	DimDevice         Dimension = "device"
	DimScreen         Dimension = "screen"
	DimLanguage       Dimension = "language"
	DimCountry        Dimension = "country"
	DimSubdivision1   Dimension = "subdivision1"
	DimSubdivision2   Dimension = "subdivision2"
	DimCity           Dimension = "city"
)

// dimensions maps every known dimension to whether it lives on the
// session-derived table.
var dimensions = map[Dimension]bool{
	DimURLPath:        false,
	DimURLQuery:       false,
	DimReferrerPath:   false,
	DimReferrerQuery:  false,
	DimReferrerDomain: false,
	DimPageTitle:      false,
	DimEventName:      false,
	DimBrowser:        true,
	DimOS:             true,
	DimDevice:         true,
	DimScreen:         true,
	DimLanguage:       true,
	DimCountry:        true,
	DimSubdivision1:   true,
	DimSubdivision2:   true,
	DimCity:           true,
}

// ParseDimension validates a caller-supplied column name against the
// allow-list.
func ParseDimension(name string) (Dimension, error) {
	d := Dimension(name)
	if _, ok := dimensions[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDimension, name)
	}
	return d, nil
}

func (d Dimension) Valid() bool {
	_, ok := dimensions[d]
	return ok
}

// SessionDerived reports whether the dimension is stored on the session
// table rather than on the event itself.
func (d Dimension) SessionDerived() bool {
	return dimensions[d]
}

// CarriesCountry reports whether breakdowns by d need the country alongside,
// since city and subdivision names repeat across countries.
func (d Dimension) CarriesCountry() bool {
	return d == DimCity || d == DimSubdivision1
}
