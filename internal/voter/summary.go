package voter

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CountySummary is one county's row in the charts and the summary table.
type CountySummary struct {
	County          string
	Total           int
	MotorVoterCount int
	// Proportion is the county's total motor-voter proportion.
	Proportion float64
	// MeanProportion is the unweighted mean of the county's per-party
	// proportions (motor-voter count / county total).
	MeanProportion float64
	ByCategory     map[PartyCategory]float64
}

// SummarizeCounties folds recoded aggregates into one summary per county,
// ordered by Proportion descending and then by name.
func SummarizeCounties(aggs []CountyPartyAggregate) []CountySummary {
	type acc struct {
		sum   CountySummary
		props []float64
	}
	byCounty := make(map[string]*acc)
	var order []string
	for _, a := range aggs {
		c, ok := byCounty[a.County]
		if !ok {
			c = &acc{sum: CountySummary{
				County:     a.County,
				Total:      a.CountyTotal,
				Proportion: a.CountyProportion,
				ByCategory: make(map[PartyCategory]float64),
			}}
			byCounty[a.County] = c
			order = append(order, a.County)
		}
		c.sum.MotorVoterCount += a.MotorVoterCount
		c.sum.ByCategory[a.Category] += a.Proportion
		c.props = append(c.props, a.Proportion)
	}

	out := make([]CountySummary, 0, len(order))
	for _, name := range order {
		c := byCounty[name]
		if len(c.props) > 0 {
			c.sum.MeanProportion = stat.Mean(c.props, nil)
		}
		out = append(out, c.sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Proportion != out[j].Proportion {
			return out[i].Proportion > out[j].Proportion
		}
		return out[i].County < out[j].County
	})
	return out
}
