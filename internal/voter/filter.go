package voter

import "time"

// FilterOptions controls which records survive cleaning.
type FilterOptions struct {
	// ActiveStatus is the only status value kept.
	ActiveStatus string
	// BirthFloor drops records born on or before this date.
	BirthFloor time.Time
}

// DefaultBirthFloor is the earliest plausible birth date (exclusive).
var DefaultBirthFloor = time.Date(1902, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultFilterOptions keeps Active voters born after 1902-01-01.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{ActiveStatus: "Active", BirthFloor: DefaultBirthFloor}
}

// FilterStats counts records dropped by each rule. A record is counted against
// the first rule it fails.
type FilterStats struct {
	In           int
	Confidential int
	Inactive     int
	BirthFloor   int
	Kept         int
}

// Filter removes confidential, inactive and implausibly old records. Records
// with no parseable birth date cannot be shown to be after the floor and are
// removed with the old ones.
func Filter(records []VoterRecord, opts FilterOptions) ([]VoterRecord, FilterStats) {
	stats := FilterStats{In: len(records)}
	kept := make([]VoterRecord, 0, len(records))
	for _, r := range records {
		switch {
		case r.Confidential != nil:
			stats.Confidential++
		case r.Status != opts.ActiveStatus:
			stats.Inactive++
		case r.BirthDate == nil || !r.BirthDate.After(opts.BirthFloor):
			stats.BirthFloor++
		default:
			kept = append(kept, r)
		}
	}
	stats.Kept = len(kept)
	return kept, stats
}
