package voter

import (
	"fmt"

	"github.com/banshee-data/omv.report/internal/monitoring"
	"github.com/banshee-data/omv.report/internal/table"
)

// Options configures Analyze.
type Options struct {
	Filter FilterOptions
	// StrictPartyCodes fails the run on a party code with no category.
	StrictPartyCodes bool
	// Logf receives progress lines. Nil uses monitoring.Logf.
	Logf func(format string, v ...interface{})
}

// Result is everything the renderers and the summary command need.
type Result struct {
	RegistrationDuplicates int
	// RegistrationNullIDs counts rows without an id dropped after the first.
	RegistrationNullIDs  int
	MotorVoterDuplicates int
	MotorVoterNullIDs    int
	Joined               int

	Filter     FilterStats
	Aggregates []CountyPartyAggregate
	Counties   []CountySummary
	Categories []PartyCategory
	Unmapped   []string
}

// Analyze runs join, clean, aggregate and recode over the two raw tables.
func Analyze(registrations, motorVoter *table.Table, opts Options) (*Result, error) {
	logf := opts.Logf
	if logf == nil {
		logf = monitoring.Logf
	}
	if opts.Filter.ActiveStatus == "" {
		opts.Filter.ActiveStatus = DefaultFilterOptions().ActiveStatus
	}
	if opts.Filter.BirthFloor.IsZero() {
		opts.Filter.BirthFloor = DefaultBirthFloor
	}

	res := &Result{}
	reg, dups, nulls, err := registrations.DistinctBy(ColVoterID)
	if err != nil {
		return nil, err
	}
	res.RegistrationDuplicates, res.RegistrationNullIDs = dups, nulls

	omv, dups, nulls, err := motorVoter.DistinctBy(ColVoterID)
	if err != nil {
		return nil, err
	}
	res.MotorVoterDuplicates, res.MotorVoterNullIDs = dups, nulls
	logf("dedupe: %s %d rows (%d duplicate, %d repeated null id), %s %d rows (%d duplicate, %d repeated null id)",
		reg.Name, reg.Len(), res.RegistrationDuplicates, res.RegistrationNullIDs,
		omv.Name, omv.Len(), res.MotorVoterDuplicates, res.MotorVoterNullIDs)

	joined, err := table.LeftJoin(reg, omv, ColVoterID, table.Suffixes{Left: SuffixRegistration, Right: SuffixMotorVoter})
	if err != nil {
		return nil, err
	}
	if !joined.Unique(ColVoterID) {
		return nil, fmt.Errorf("join produced duplicate %s values", ColVoterID)
	}
	res.Joined = joined.Len()

	records, err := Normalize(joined)
	if err != nil {
		return nil, err
	}

	kept, stats := Filter(records, opts.Filter)
	res.Filter = stats
	logf("filter: %d in, %d confidential, %d not %s, %d born on or before %s, %d kept",
		stats.In, stats.Confidential, stats.Inactive, opts.Filter.ActiveStatus,
		stats.BirthFloor, opts.Filter.BirthFloor.Format("2006-01-02"), stats.Kept)

	aggs := Aggregate(kept)
	unmapped, err := RecodeParties(aggs, opts.StrictPartyCodes)
	if err != nil {
		return nil, err
	}
	for _, code := range unmapped {
		logf("party code %q has no display category, shown as its own segment", code)
	}
	if err := Verify(aggs); err != nil {
		return nil, fmt.Errorf("aggregate check failed: %w", err)
	}

	res.Aggregates = aggs
	res.Unmapped = unmapped
	res.Categories = OrderCategories(aggs)
	res.Counties = SummarizeCounties(aggs)
	logf("aggregate: %d groups across %d counties", len(aggs), len(res.Counties))
	return res, nil
}
