package models

import "sort"

// Report counts successful responses by their origin identifier.
type Report map[string]int

// BuildReport aggregates a batch of outcomes. Failed attempts and successes
// without an origin are skipped. The result does not depend on the order of
// the input.
func BuildReport(outcomes []Outcome) Report {
	report := Report{}
	for _, outcome := range outcomes {
		if outcome.OK() && outcome.Origin != "" {
			report[outcome.Origin]++
		}
	}
	return report
}

// Keys returns the origin identifiers in ascending lexicographic order.
func (r Report) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (r Report) Total() int {
	total := 0
	for _, count := range r {
		total += count
	}
	return total
}
