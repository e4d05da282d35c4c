package voter

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// CountyPartyAggregate is one (county, party) group.
type CountyPartyAggregate struct {
	County    string
	PartyCode string
	Category  PartyCategory

	Count           int
	MotorVoterCount int
	CountyTotal     int

	// Proportion is MotorVoterCount / CountyTotal.
	Proportion float64
	// CountyProportion is the sum of Proportion over the county's groups.
	CountyProportion float64
}

type groupKey struct {
	county, party string
}

// Aggregate groups records by county and party code. Output is sorted by
// county, then party code. Category is left for RecodeParties.
func Aggregate(records []VoterRecord) []CountyPartyAggregate {
	groups := make(map[groupKey]*CountyPartyAggregate)
	countyTotals := make(map[string]int)
	for _, r := range records {
		k := groupKey{r.County, r.PartyCode}
		g, ok := groups[k]
		if !ok {
			g = &CountyPartyAggregate{County: r.County, PartyCode: r.PartyCode}
			groups[k] = g
		}
		g.Count++
		if r.MotorVoter() {
			g.MotorVoterCount++
		}
		countyTotals[r.County]++
	}

	out := make([]CountyPartyAggregate, 0, len(groups))
	for _, g := range groups {
		g.CountyTotal = countyTotals[g.County]
		g.Proportion = float64(g.MotorVoterCount) / float64(g.CountyTotal)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].County != out[j].County {
			return out[i].County < out[j].County
		}
		return out[i].PartyCode < out[j].PartyCode
	})

	for start := 0; start < len(out); {
		end := start
		for end < len(out) && out[end].County == out[start].County {
			end++
		}
		props := make([]float64, 0, end-start)
		for i := start; i < end; i++ {
			props = append(props, out[i].Proportion)
		}
		total := floats.Sum(props)
		for i := start; i < end; i++ {
			out[i].CountyProportion = total
		}
		start = end
	}
	return out
}

const proportionTolerance = 1e-9

// Verify checks that county totals match their group counts and that every
// proportion is consistent and within [0,1].
func Verify(aggs []CountyPartyAggregate) error {
	type county struct {
		total, sum, mv int
		prop           float64
	}
	counties := make(map[string]*county)
	for _, a := range aggs {
		if a.Proportion < 0 || a.Proportion > 1 {
			return fmt.Errorf("county %q party %q: proportion %v outside [0,1]", a.County, a.PartyCode, a.Proportion)
		}
		if a.MotorVoterCount > a.Count {
			return fmt.Errorf("county %q party %q: %d motor voters in a group of %d", a.County, a.PartyCode, a.MotorVoterCount, a.Count)
		}
		if a.CountyTotal > 0 {
			want := float64(a.MotorVoterCount) / float64(a.CountyTotal)
			if math.Abs(a.Proportion-want) > proportionTolerance {
				return fmt.Errorf("county %q party %q: proportion %v, want %v", a.County, a.PartyCode, a.Proportion, want)
			}
		}
		c, ok := counties[a.County]
		if !ok {
			c = &county{total: a.CountyTotal, prop: a.CountyProportion}
			counties[a.County] = c
		}
		if c.total != a.CountyTotal {
			return fmt.Errorf("county %q: inconsistent totals %d and %d", a.County, c.total, a.CountyTotal)
		}
		c.sum += a.Count
		c.mv += a.MotorVoterCount
	}
	for name, c := range counties {
		if c.sum != c.total {
			return fmt.Errorf("county %q: party counts sum to %d, total is %d", name, c.sum, c.total)
		}
		if c.prop < 0 || c.prop > 1+proportionTolerance {
			return fmt.Errorf("county %q: proportion %v outside [0,1]", name, c.prop)
		}
		if want := float64(c.mv) / float64(c.total); math.Abs(c.prop-want) > proportionTolerance {
			return fmt.Errorf("county %q: proportion %v, want %v", name, c.prop, want)
		}
	}
	return nil
}
