package voter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PartyCategory is the display grouping for a party code.
type PartyCategory string

const (
	Democrat      PartyCategory = "Democrat"
	Republican    PartyCategory = "Republican"
	NonAffiliated PartyCategory = "NonAffiliated"
	Other         PartyCategory = "Other"
)

// NoPartyCode is the category used for records with an empty party code.
const NoPartyCode PartyCategory = "(none)"

// ErrUnmappedParty is returned in strict mode for a code with no category.
var ErrUnmappedParty = errors.New("unmapped party code")

var partyCategories = map[string]PartyCategory{
	"DEM": Democrat,
	"REP": Republican,
	"NAV": NonAffiliated,
	"AME": Other,
	"CON": Other,
	"IND": Other,
	"LBT": Other,
	"NP":  Other,
	"OTH": Other,
	"PGP": Other,
	"PRO": Other,
	"WFP": Other,
}

// Categories returns the mapped categories in display order.
func Categories() []PartyCategory {
	return []PartyCategory{Democrat, Republican, NonAffiliated, Other}
}

// KnownPartyCodes returns every code with a category, sorted.
func KnownPartyCodes() []string {
	codes := make([]string, 0, len(partyCategories))
	for c := range partyCategories {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Recode maps a raw party code to its category. Codes are matched without
// regard to case or surrounding space.
func Recode(code string) (PartyCategory, bool) {
	c, ok := partyCategories[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// RecodeParties fills in Category on each aggregate. A code with no category
// becomes its own category (NoPartyCode when empty) and is listed once in the
// returned slice. With strict set, any such code is an error instead.
func RecodeParties(aggs []CountyPartyAggregate, strict bool) ([]string, error) {
	seen := make(map[string]bool)
	var unmapped []string
	for i := range aggs {
		code := aggs[i].PartyCode
		if cat, ok := Recode(code); ok {
			aggs[i].Category = cat
			continue
		}
		cat := PartyCategory(strings.TrimSpace(code))
		if cat == "" {
			cat = NoPartyCode
		}
		aggs[i].Category = cat
		if !seen[string(cat)] {
			seen[string(cat)] = true
			unmapped = append(unmapped, string(cat))
		}
	}
	sort.Strings(unmapped)
	if strict && len(unmapped) > 0 {
		return unmapped, fmt.Errorf("%w: %s", ErrUnmappedParty, strings.Join(unmapped, ", "))
	}
	return unmapped, nil
}

// OrderCategories returns the categories present in aggs: mapped ones first in
// display order, then pass-through codes sorted.
func OrderCategories(aggs []CountyPartyAggregate) []PartyCategory {
	present := make(map[PartyCategory]bool)
	for _, a := range aggs {
		present[a.Category] = true
	}
	var out []PartyCategory
	for _, c := range Categories() {
		if present[c] {
			out = append(out, c)
			delete(present, c)
		}
	}
	var rest []string
	for c := range present {
		rest = append(rest, string(c))
	}
	sort.Strings(rest)
	for _, c := range rest {
		out = append(out, PartyCategory(c))
	}
	return out
}
