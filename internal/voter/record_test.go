package voter

import (
	"testing"
	"time"

	"github.com/banshee-data/omv.report/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMDY(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01-15-1980", "1980-01-15"},
		{"1-5-1980", "1980-01-05"},
		{"12/31/1999", "1999-12-31"},
		{"2/3/2004", "2004-02-03"},
		{"07-04-1976 00:00:00", "1976-07-04"},
		{" 03-01-2016 ", "2016-03-01"},
		{"", ""},
		{"1980-01-15", ""},
		{"13-01-1980", ""},
		{"not a date", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseMDY(tt.in)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func joinedFixture(t *testing.T) *table.Table {
	t.Helper()
	tb := table.New("registrations+motor_voter",
		"voter_id", "county_reg", "party_code", "birth_date", "eff_regn_date", "status", "confidential",
		"county_omv", "description")
	require.NoError(t, tb.Append(
		table.Str("1"), table.Str(" Baker "), table.Str("DEM"), table.Str("01-15-1980"), table.Str("03-01-2016"),
		table.Str("Active"), table.Null(), table.Null(), table.Null()))
	require.NoError(t, tb.Append(
		table.Str("2"), table.Str("Benton"), table.Null(), table.Str("garbage"), table.Null(),
		table.Str("Inactive"), table.Str("Y"), table.Str("Benton"), table.Str("OMV Phase 1")))
	return tb
}

func TestNormalize(t *testing.T) {
	records, err := Normalize(joinedFixture(t))
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "1", r.VoterID)
	assert.Equal(t, "Baker", r.County)
	assert.Equal(t, "DEM", r.PartyCode)
	require.NotNil(t, r.BirthDate)
	assert.Equal(t, time.Date(1980, 1, 15, 0, 0, 0, 0, time.UTC), *r.BirthDate)
	require.NotNil(t, r.EffectiveDate)
	assert.Nil(t, r.Confidential)
	assert.Equal(t, Traditional, r.Method)
	assert.False(t, r.MotorVoter())

	r = records[1]
	assert.Equal(t, "", r.PartyCode)
	assert.Nil(t, r.BirthDate, "unparsable dates become nil")
	assert.Nil(t, r.EffectiveDate)
	require.NotNil(t, r.Confidential)
	assert.Equal(t, "Y", *r.Confidential)
	assert.Equal(t, "OMV Phase 1", r.Method)
	assert.True(t, r.MotorVoter())
}

func TestNormalize_MissingColumns(t *testing.T) {
	_, err := Normalize(table.New("j", "voter_id", "county"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}
