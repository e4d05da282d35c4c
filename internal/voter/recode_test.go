package voter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecode_KnownCodes(t *testing.T) {
	want := map[string]PartyCategory{
		"DEM": Democrat,
		"REP": Republican,
		"NAV": NonAffiliated,
	}
	for _, code := range []string{"AME", "CON", "IND", "LBT", "NP", "OTH", "PGP", "PRO", "WFP"} {
		want[code] = Other
	}

	assert.ElementsMatch(t, KnownPartyCodes(), keys(want))
	for code, cat := range want {
		got, ok := Recode(code)
		assert.True(t, ok, code)
		assert.Equal(t, cat, got, code)
		assert.Contains(t, Categories(), got)
	}
}

func keys(m map[string]PartyCategory) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestRecode_Normalises(t *testing.T) {
	got, ok := Recode(" dem ")
	assert.True(t, ok)
	assert.Equal(t, Democrat, got)

	_, ok = Recode("XYZ")
	assert.False(t, ok)
	_, ok = Recode("")
	assert.False(t, ok)
}

func TestRecodeParties_PassThrough(t *testing.T) {
	aggs := []CountyPartyAggregate{
		{County: "Lane", PartyCode: "DEM"},
		{County: "Lane", PartyCode: "XYZ"},
		{County: "Linn", PartyCode: "XYZ"},
		{County: "Linn", PartyCode: ""},
		{County: "Linn", PartyCode: "IND"},
	}

	unmapped, err := RecodeParties(aggs, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"(none)", "XYZ"}, unmapped)
	assert.Equal(t, Democrat, aggs[0].Category)
	assert.Equal(t, PartyCategory("XYZ"), aggs[1].Category)
	assert.Equal(t, NoPartyCode, aggs[3].Category)
	assert.Equal(t, Other, aggs[4].Category)

	assert.Equal(t, []PartyCategory{Democrat, Other, NoPartyCode, "XYZ"}, OrderCategories(aggs))
}

func TestRecodeParties_Strict(t *testing.T) {
	aggs := []CountyPartyAggregate{{County: "Lane", PartyCode: "XYZ"}}
	_, err := RecodeParties(aggs, true)
	assert.ErrorIs(t, err, ErrUnmappedParty)

	aggs = []CountyPartyAggregate{{County: "Lane", PartyCode: "REP"}}
	_, err = RecodeParties(aggs, true)
	assert.NoError(t, err)
}
