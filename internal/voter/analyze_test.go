package voter

import (
	"testing"

	"github.com/banshee-data/omv.report/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet(string, ...interface{}) {}

func rawTables(t *testing.T) (*table.Table, *table.Table) {
	t.Helper()
	reg := table.New("registrations", RegistrationColumns...)
	add := func(id, county, party, birth, status string, confidential bool) {
		conf := table.Null()
		if confidential {
			conf = table.Str("Y")
		}
		require.NoError(t, reg.Append(table.Str(id), table.Str(county), table.Str(party),
			table.Str(birth), table.Str("01-01-2016"), table.Str(status), conf))
	}
	add("1", "Lane", "DEM", "01-01-1980", "Active", false)
	add("2", "Lane", "REP", "01-01-1981", "Active", false)
	add("3", "Lane", "NAV", "01-01-1982", "Active", false)
	add("3", "Lane", "DEM", "01-01-1982", "Active", false) // duplicate id
	add("4", "Lane", "DEM", "01-01-1983", "Inactive", false)
	add("5", "Coos", "DEM", "01-01-1984", "Active", true)
	add("6", "Coos", "PGP", "01-01-1901", "Active", false)
	add("7", "Coos", "PGP", "01-01-1985", "Active", false)
	add("8", "Coos", "XYZ", "01-01-1986", "Active", false)

	omv := table.New("motor_voter", "voter_id", "county", "description")
	require.NoError(t, omv.Append(table.Str("1"), table.Str("Lane"), table.Str("OMV Phase 1")))
	require.NoError(t, omv.Append(table.Str("1"), table.Str("Lane"), table.Str("OMV Phase 2")))
	require.NoError(t, omv.Append(table.Str("7"), table.Str("Coos"), table.Str("OMV Phase 2")))
	require.NoError(t, omv.Append(table.Str("99"), table.Str("Linn"), table.Str("OMV Phase 1")))
	return reg, omv
}

func TestAnalyze(t *testing.T) {
	reg, omv := rawTables(t)

	res, err := Analyze(reg, omv, Options{Logf: quiet})
	require.NoError(t, err)

	assert.Equal(t, 1, res.RegistrationDuplicates)
	assert.Equal(t, 1, res.MotorVoterDuplicates)
	assert.Equal(t, 8, res.Joined)
	assert.Equal(t, FilterStats{In: 8, Confidential: 1, Inactive: 1, BirthFloor: 1, Kept: 5}, res.Filter)
	assert.Equal(t, []string{"XYZ"}, res.Unmapped)
	assert.Equal(t, []PartyCategory{Democrat, Republican, NonAffiliated, Other, "XYZ"}, res.Categories)

	require.Len(t, res.Counties, 2)
	coos, lane := res.Counties[0], res.Counties[1]
	assert.Equal(t, "Coos", coos.County)
	assert.Equal(t, 2, coos.Total)
	assert.InDelta(t, 0.5, coos.Proportion, 1e-12)
	assert.InDelta(t, 0.5, coos.ByCategory[Other], 1e-12)
	// PGP 1/2 and XYZ 0/2
	assert.InDelta(t, 0.25, coos.MeanProportion, 1e-12)
	assert.Equal(t, "Lane", lane.County)
	assert.Equal(t, 3, lane.Total)
	assert.InDelta(t, 1.0/3, lane.Proportion, 1e-12)

	require.NoError(t, Verify(res.Aggregates))
}

func TestAnalyze_KeepsFirstRowWithoutID(t *testing.T) {
	reg := table.New("registrations", RegistrationColumns...)
	for _, party := range []string{"DEM", "REP"} {
		require.NoError(t, reg.Append(table.Null(), table.Str("Lane"), table.Str(party),
			table.Str("01-01-1980"), table.Str("01-01-2016"), table.Str("Active"), table.Null()))
	}
	omv := table.New("motor_voter", "voter_id", "description")
	require.NoError(t, omv.Append(table.Null(), table.Str("OMV Phase 1")))

	res, err := Analyze(reg, omv, Options{Logf: quiet})
	require.NoError(t, err)

	assert.Equal(t, 1, res.RegistrationNullIDs)
	assert.Equal(t, 1, res.Joined)
	require.Len(t, res.Counties, 1)
	assert.Equal(t, 1, res.Counties[0].Total)
	assert.Zero(t, res.Counties[0].MotorVoterCount, "a missing id never matches a motor voter row")
	require.Len(t, res.Aggregates, 1)
	assert.Equal(t, "DEM", res.Aggregates[0].PartyCode, "first row without an id should win")
}

func TestAnalyze_Strict(t *testing.T) {
	reg, omv := rawTables(t)
	_, err := Analyze(reg, omv, Options{StrictPartyCodes: true, Logf: quiet})
	assert.ErrorIs(t, err, ErrUnmappedParty)
}

func TestAnalyze_MissingKey(t *testing.T) {
	_, omv := rawTables(t)
	_, err := Analyze(table.New("registrations", "county"), omv, Options{Logf: quiet})
	assert.Error(t, err)
}
