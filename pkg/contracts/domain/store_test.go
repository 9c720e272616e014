package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPresent bool
		wantValue   string
	}{
		{name: "plain value", input: "Seattle", wantPresent: true, wantValue: "Seattle"},
		{name: "surrounding whitespace trimmed", input: "  Seattle \t", wantPresent: true, wantValue: "Seattle"},
		{name: "empty is absent", input: "", wantPresent: false},
		{name: "whitespace only is absent", input: "   ", wantPresent: false},
		{name: "non-ascii preserved", input: "上海", wantPresent: true, wantValue: "上海"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewText(tt.input)
			assert.Equal(t, tt.wantPresent, got.Present)
			assert.Equal(t, tt.wantValue, got.Value)
		})
	}
}

func TestStoreRecord_Row(t *testing.T) {
	record := StoreRecord{
		Brand:       NewText("Starbucks"),
		StoreNumber: NewText("101-1"),
		City:        NewText("Seattle"),
		Country:     NewText("US"),
		Latitude:    Coordinate{Value: 47.6, Present: true},
		Longitude:   Coordinate{Value: -122.3, Present: true},
	}

	row := record.Row()
	assert.Len(t, row, len(Header))
	assert.Equal(t, "Starbucks", row[0])
	assert.Equal(t, "101-1", row[1])
	assert.Equal(t, "", row[2], "absent store name becomes empty cell")
	assert.Equal(t, "Seattle", row[5])
	assert.Equal(t, "US", row[7])
	assert.Equal(t, "-122.3", row[11])
	assert.Equal(t, "47.6", row[12])
}

func TestStoreRecord_HasCoordinates(t *testing.T) {
	assert.False(t, StoreRecord{}.HasCoordinates())
	assert.False(t, StoreRecord{Latitude: Coordinate{Value: 1, Present: true}}.HasCoordinates())
	assert.True(t, StoreRecord{
		Latitude:  Coordinate{Value: 1, Present: true},
		Longitude: Coordinate{Value: 2, Present: true},
	}.HasCoordinates())
}

func TestCleaningReport_Consistent(t *testing.T) {
	report := CleaningReport{
		TotalRows:  5,
		Duplicates: 1,
		Rejected:   []RejectedRow{{Line: 3, Reason: ReasonMissingRequiredField}},
		Retained:   3,
	}
	assert.True(t, report.Consistent())
	assert.Equal(t, 1, report.RejectedCount())

	report.Retained = 4
	assert.False(t, report.Consistent())
}
