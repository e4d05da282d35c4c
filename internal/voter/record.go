// Package voter turns the joined registration table into filtered voter
// records and the per-county, per-party motor-voter aggregates.
package voter

import (
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/omv.report/internal/table"
)

// Traditional labels a registration that did not come through motor voter.
const Traditional = "Traditional"

// VoterRecord is one cleaned registration.
type VoterRecord struct {
	VoterID       string
	County        string
	PartyCode     string
	BirthDate     *time.Time
	EffectiveDate *time.Time
	Status        string
	Confidential  *string
	// Method is Traditional or the motor-voter phase label.
	Method string
}

// MotorVoter reports whether the record was registered through motor voter.
func (r VoterRecord) MotorVoter() bool {
	return r.Method != Traditional
}

// mdyLayouts are the month-day-year forms found in the registration exports.
var mdyLayouts = []string{
	"01-02-2006",
	"1-2-2006",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006 15:04:05",
	"1-2-2006 15:04:05",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"01-02-2006 15:04",
	"01/02/2006 15:04",
}

// ParseMDY parses a month-day-year date. Empty or unparsable input yields nil.
func ParseMDY(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range mdyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// Normalize converts joined rows into voter records. Registration columns are
// read from the plain name or its registration suffix; the method label comes
// from the motor-voter description and defaults to Traditional.
func Normalize(joined *table.Table) ([]VoterRecord, error) {
	idx := map[string]int{
		ColVoterID:      joined.Lookup(ColVoterID, SuffixRegistration),
		ColCounty:       joined.Lookup(ColCounty, SuffixRegistration),
		ColPartyCode:    joined.Lookup(ColPartyCode, SuffixRegistration),
		ColBirthDate:    joined.Lookup(ColBirthDate, SuffixRegistration),
		ColEffRegnDate:  joined.Lookup(ColEffRegnDate, SuffixRegistration),
		ColStatus:       joined.Lookup(ColStatus, SuffixRegistration),
		ColConfidential: joined.Lookup(ColConfidential, SuffixRegistration),
		ColDescription:  joined.Lookup(ColDescription, SuffixMotorVoter),
	}
	var missing []string
	for _, c := range RegistrationColumns {
		if idx[c] < 0 {
			missing = append(missing, c)
		}
	}
	if idx[ColDescription] < 0 {
		missing = append(missing, ColDescription)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("normalize %s: missing columns %s", joined.Name, strings.Join(missing, ", "))
	}

	records := make([]VoterRecord, 0, joined.Len())
	for _, row := range joined.Rows {
		text := func(col string) string {
			return strings.TrimSpace(row[idx[col]].String)
		}

		rec := VoterRecord{
			VoterID:       text(ColVoterID),
			County:        text(ColCounty),
			PartyCode:     text(ColPartyCode),
			BirthDate:     ParseMDY(text(ColBirthDate)),
			EffectiveDate: ParseMDY(text(ColEffRegnDate)),
			Status:        text(ColStatus),
			Method:        Traditional,
		}
		if c := row[idx[ColConfidential]]; c.Valid {
			v := c.String
			rec.Confidential = &v
		}
		if d := row[idx[ColDescription]]; d.Valid {
			rec.Method = d.String
		}
		records = append(records, rec)
	}
	return records, nil
}
