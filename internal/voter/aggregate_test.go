package voter

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func born(y int) *time.Time {
	d := time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

// makeRecords builds n records in county/party, the first mv of them motor voter.
func makeRecords(county, party string, n, mv int) []VoterRecord {
	out := make([]VoterRecord, n)
	for i := range out {
		out[i] = VoterRecord{
			VoterID:   fmt.Sprintf("%s-%s-%d", county, party, i),
			County:    county,
			PartyCode: party,
			BirthDate: born(1970),
			Status:    "Active",
			Method:    Traditional,
		}
		if i < mv {
			out[i].Method = "OMV Phase 1"
		}
	}
	return out
}

func TestAggregate_CountyProportions(t *testing.T) {
	var records []VoterRecord
	records = append(records, makeRecords("A", "DEM", 100, 20)...)
	records = append(records, makeRecords("B", "REP", 50, 25)...)

	aggs := Aggregate(records)
	require.NoError(t, Verify(aggs))

	counties := SummarizeCounties(aggs)
	require.Len(t, counties, 2)
	assert.Equal(t, "B", counties[0].County)
	assert.InDelta(t, 0.50, counties[0].Proportion, 1e-12)
	assert.Equal(t, "A", counties[1].County)
	assert.InDelta(t, 0.20, counties[1].Proportion, 1e-12)
}

func TestAggregate_Groups(t *testing.T) {
	var records []VoterRecord
	records = append(records, makeRecords("Lane", "REP", 30, 3)...)
	records = append(records, makeRecords("Lane", "DEM", 10, 5)...)
	records = append(records, makeRecords("Coos", "NAV", 4, 0)...)

	got := Aggregate(records)
	want := []CountyPartyAggregate{
		{County: "Coos", PartyCode: "NAV", Count: 4, MotorVoterCount: 0, CountyTotal: 4, Proportion: 0, CountyProportion: 0},
		{County: "Lane", PartyCode: "DEM", Count: 10, MotorVoterCount: 5, CountyTotal: 40, Proportion: 0.125, CountyProportion: 0.2},
		{County: "Lane", PartyCode: "REP", Count: 30, MotorVoterCount: 3, CountyTotal: 40, Proportion: 0.075, CountyProportion: 0.2},
	}
	approx := cmp.Comparer(func(a, b float64) bool { return a-b < 1e-12 && b-a < 1e-12 })
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, Verify(got))

	for _, a := range got {
		assert.GreaterOrEqual(t, a.Proportion, 0.0)
		assert.LessOrEqual(t, a.Proportion, 1.0)
	}
}

func TestAggregate_Empty(t *testing.T) {
	aggs := Aggregate(nil)
	assert.Empty(t, aggs)
	assert.NoError(t, Verify(aggs))
	assert.Empty(t, SummarizeCounties(aggs))
}

func TestVerify_DetectsBrokenTotals(t *testing.T) {
	aggs := Aggregate(makeRecords("Lane", "DEM", 10, 5))
	aggs[0].CountyTotal = 11
	aggs[0].Proportion = 5.0 / 11
	aggs[0].CountyProportion = 5.0 / 11
	assert.Error(t, Verify(aggs))

	aggs = Aggregate(makeRecords("Lane", "DEM", 10, 5))
	aggs[0].Proportion = 0.7
	assert.Error(t, Verify(aggs))

	aggs = Aggregate(makeRecords("Lane", "DEM", 10, 5))
	aggs[0].CountyProportion = 0.9
	assert.Error(t, Verify(aggs))
}

func TestSummarizeCounties_MeanAndCategories(t *testing.T) {
	var records []VoterRecord
	records = append(records, makeRecords("Lane", "DEM", 10, 5)...)
	records = append(records, makeRecords("Lane", "REP", 30, 3)...)
	aggs := Aggregate(records)
	_, err := RecodeParties(aggs, false)
	require.NoError(t, err)

	counties := SummarizeCounties(aggs)
	require.Len(t, counties, 1)
	c := counties[0]
	assert.Equal(t, 40, c.Total)
	assert.Equal(t, 8, c.MotorVoterCount)
	assert.InDelta(t, 0.2, c.Proportion, 1e-12)
	// (5/40 + 3/40) / 2
	assert.InDelta(t, 0.1, c.MeanProportion, 1e-12)
	assert.InDelta(t, 0.125, c.ByCategory[Democrat], 1e-12)
	assert.InDelta(t, 0.075, c.ByCategory[Republican], 1e-12)
}

func TestSummarizeCounties_TiesOrderedByName(t *testing.T) {
	var records []VoterRecord
	records = append(records, makeRecords("Linn", "DEM", 10, 1)...)
	records = append(records, makeRecords("Coos", "DEM", 10, 1)...)

	counties := SummarizeCounties(Aggregate(records))
	require.Len(t, counties, 2)
	assert.Equal(t, "Coos", counties[0].County)
	assert.Equal(t, "Linn", counties[1].County)
}
