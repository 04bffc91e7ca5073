package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRows() []OperatorRow {
	return []OperatorRow{
		{Code: "A1", Name: "Ana", LastName: "Diaz", Country: "US", State: "TX", City: "Austin"},
		{Code: "B2", Name: "Bruno", LastName: "Silva", Country: "US", State: "TX", City: "Dallas"},
		{Code: "C3", Name: "Carla", LastName: "Anders", Country: "US", State: "CA", City: "Fresno"},
		{Code: "D4", Name: "Denis", LastName: "Moreau", Country: "MX", State: "NL", City: "Monterrey"},
	}
}

func codes(rows []OperatorRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Code)
	}
	return out
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	rows := sampleRows()
	assert.Equal(t, []string{"A1", "C3"}, codes(Filter(rows, "AN", Location{})))
	assert.Equal(t, []string{"B2"}, codes(Filter(rows, "b2", Location{})))
	assert.Equal(t, []string{"D4"}, codes(Filter(rows, " moreau ", Location{})))
	assert.Len(t, Filter(rows, "", Location{}), 4)
	assert.Empty(t, Filter(rows, "zzz", Location{}))
}

func TestFilterLocationHierarchy(t *testing.T) {
	rows := sampleRows()
	assert.Equal(t, []string{"A1", "B2", "C3"}, codes(Filter(rows, "", Location{Country: "us"})))
	assert.Equal(t, []string{"A1", "B2"}, codes(Filter(rows, "", Location{Country: "US", State: "TX"})))
	assert.Equal(t, []string{"B2"}, codes(Filter(rows, "", Location{Country: "US", State: "TX", City: "Dallas"})))
	// A state without a country is reset, so nothing is narrowed.
	assert.Len(t, Filter(rows, "", Location{State: "TX", City: "Dallas"}), 4)
}

func TestFilterIsIdempotent(t *testing.T) {
	rows := sampleRows()
	loc := Location{Country: "US", State: "TX"}
	once := Filter(rows, "a", loc)
	twice := Filter(once, "a", loc)
	assert.Equal(t, once, twice)
	assert.Len(t, rows, 4, "input must not be mutated")
}

func TestLocationNormalize(t *testing.T) {
	assert.Equal(t, Location{}, Location{State: "TX", City: "Austin"}.Normalize())
	assert.Equal(t, Location{Country: "US"}, Location{Country: " US ", City: "Austin"}.Normalize())
	assert.Equal(t, Location{Country: "US", State: "TX", City: "Austin"}, Location{Country: "US", State: "TX", City: "Austin"}.Normalize())
}

func TestOptionsNarrowByLevel(t *testing.T) {
	rows := sampleRows()

	all := Options(rows, Location{})
	assert.Equal(t, []string{"MX", "US"}, all.Countries)
	assert.Empty(t, all.States)
	assert.Empty(t, all.Cities)

	us := Options(rows, Location{Country: "US"})
	assert.Equal(t, []string{"CA", "TX"}, us.States)
	assert.Empty(t, us.Cities)

	tx := Options(rows, Location{Country: "US", State: "TX"})
	assert.Equal(t, []string{"Austin", "Dallas"}, tx.Cities)
}
