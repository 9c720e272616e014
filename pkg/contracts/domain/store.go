// Package domain holds the shared store-directory data contracts: the store
// record, the cleaning report, and the aggregate shapes exchanged between
// the pipeline stages.
package domain

import (
	"strconv"
	"strings"
)

// Text is an optional text field. A blank or whitespace-only cell collapses
// to the absent state rather than carrying an empty string around.
type Text struct {
	Value   string
	Present bool
}

// NewText trims the raw cell and marks blank values absent.
func NewText(raw string) Text {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Text{}
	}
	return Text{Value: v, Present: true}
}

// String renders the field for output; absent renders as the empty string.
func (t Text) String() string {
	if !t.Present {
		return ""
	}
	return t.Value
}

// Coordinate is an optional geographic coordinate component.
type Coordinate struct {
	Value   float64
	Present bool
}

// Header is the canonical output column order for store records.
var Header = []string{
	"Brand",
	"Store Number",
	"Store Name",
	"Ownership Type",
	"Street Address",
	"City",
	"State/Province",
	"Country",
	"Postcode",
	"Phone Number",
	"Timezone",
	"Longitude",
	"Latitude",
}

// StoreRecord is one cleaned store-directory entry. Country is an uppercase
// two-letter code once cleaning has run.
type StoreRecord struct {
	Brand         Text
	StoreNumber   Text
	StoreName     Text
	OwnershipType Text
	StreetAddress Text
	City          Text
	StateProvince Text
	Country       Text
	Postcode      Text
	PhoneNumber   Text
	Timezone      Text
	Longitude     Coordinate
	Latitude      Coordinate
}

// HasCoordinates reports whether both coordinate components are present.
func (s StoreRecord) HasCoordinates() bool {
	return s.Latitude.Present && s.Longitude.Present
}

// Row renders the record as output cells in Header order.
func (s StoreRecord) Row() []string {
	return []string{
		s.Brand.String(),
		s.StoreNumber.String(),
		s.StoreName.String(),
		s.OwnershipType.String(),
		s.StreetAddress.String(),
		s.City.String(),
		s.StateProvince.String(),
		s.Country.String(),
		s.Postcode.String(),
		s.PhoneNumber.String(),
		s.Timezone.String(),
		formatCoordinate(s.Longitude),
		formatCoordinate(s.Latitude),
	}
}

func formatCoordinate(c Coordinate) string {
	if !c.Present {
		return ""
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}
