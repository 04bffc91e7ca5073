package payroll

import (
	"sort"
	"strings"
)

// Normalize trims the selection and clears every level below an empty one:
// no state without a country, no city without a state.
func (l Location) Normalize() Location {
	out := Location{
		Country: strings.TrimSpace(l.Country),
		State:   strings.TrimSpace(l.State),
		City:    strings.TrimSpace(l.City),
	}
	if out.Country == "" {
		out.State = ""
	}
	if out.State == "" {
		out.City = ""
	}
	return out
}

func (l Location) IsZero() bool {
	return l.Country == "" && l.State == "" && l.City == ""
}

// Filter narrows rows by a case-insensitive substring search over code,
// name and last name, then by the normalized location. It never mutates its
// input.
func Filter(rows []OperatorRow, search string, loc Location) []OperatorRow {
	term := strings.ToLower(strings.TrimSpace(search))
	loc = loc.Normalize()
	out := make([]OperatorRow, 0, len(rows))
	for _, row := range rows {
		if term != "" && !matchesSearch(row, term) {
			continue
		}
		if !matchesLocation(row, loc) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesSearch(row OperatorRow, term string) bool {
	return strings.Contains(strings.ToLower(row.Code), term) ||
		strings.Contains(strings.ToLower(row.Name), term) ||
		strings.Contains(strings.ToLower(row.LastName), term)
}

func matchesLocation(row OperatorRow, loc Location) bool {
	if loc.Country != "" && !strings.EqualFold(row.Country, loc.Country) {
		return false
	}
	if loc.State != "" && !strings.EqualFold(row.State, loc.State) {
		return false
	}
	if loc.City != "" && !strings.EqualFold(row.City, loc.City) {
		return false
	}
	return true
}

// Options returns the selectable values for each level given the current
// selection: states only within the chosen country, cities only within the
// chosen state.
func Options(rows []OperatorRow, sel Location) LocationOptions {
	sel = sel.Normalize()
	countries := map[string]struct{}{}
	states := map[string]struct{}{}
	cities := map[string]struct{}{}
	for _, row := range rows {
		if row.Country != "" {
			countries[row.Country] = struct{}{}
		}
		if sel.Country == "" || !strings.EqualFold(row.Country, sel.Country) {
			continue
		}
		if row.State != "" {
			states[row.State] = struct{}{}
		}
		if sel.State == "" || !strings.EqualFold(row.State, sel.State) {
			continue
		}
		if row.City != "" {
			cities[row.City] = struct{}{}
		}
	}
	return LocationOptions{
		Countries: sortedKeys(countries),
		States:    sortedKeys(states),
		Cities:    sortedKeys(cities),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
