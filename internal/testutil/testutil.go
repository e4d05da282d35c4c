// Package testutil provides shared test utilities and fixtures.
//
// The snapshot helpers build small SQLite voter snapshots on disk so the
// report driver and the command can be exercised end to end.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/banshee-data/omv.report/internal/snapshot"
)

// Registration is one row of the registrations table. Empty strings are
// stored as NULL.
type Registration struct {
	VoterID      string
	County       string
	PartyCode    string
	BirthDate    string
	EffRegnDate  string
	Status       string
	Confidential string
}

// MotorVoter is one row of the motor_voter table. Empty strings are stored
// as NULL.
type MotorVoter struct {
	VoterID     string
	County      string
	PartyCode   string
	Description string
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// WriteSnapshot creates a migrated snapshot at path holding the given rows.
func WriteSnapshot(t testing.TB, path string, regs []Registration, omv []MotorVoter) {
	t.Helper()

	db, err := snapshot.Create(path)
	AssertNoError(t, err)
	defer db.Close()

	tx, err := db.Begin()
	AssertNoError(t, err)
	for _, r := range regs {
		_, err := tx.Exec(`INSERT INTO registrations
			(voter_id, county, party_code, birth_date, eff_regn_date, status, confidential)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			nullable(r.VoterID), nullable(r.County), nullable(r.PartyCode), nullable(r.BirthDate),
			nullable(r.EffRegnDate), nullable(r.Status), nullable(r.Confidential))
		AssertNoError(t, err)
	}
	for _, m := range omv {
		_, err := tx.Exec(`INSERT INTO motor_voter (voter_id, county, party_code, description) VALUES (?, ?, ?, ?)`,
			nullable(m.VoterID), nullable(m.County), nullable(m.PartyCode), nullable(m.Description))
		AssertNoError(t, err)
	}
	AssertNoError(t, tx.Commit())
}

// NewSnapshot writes a snapshot into a fresh temporary directory and returns
// its path.
func NewSnapshot(t testing.TB, regs []Registration, omv []MotorVoter) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voters.db")
	WriteSnapshot(t, path, regs, omv)
	return path
}

// TwoCounties returns active Democrat registrations in two counties: Alpha
// with 100 voters of whom 20 came through motor voter, Beta with 50 of whom
// 25 did.
func TwoCounties() ([]Registration, []MotorVoter) {
	var regs []Registration
	var omv []MotorVoter
	add := func(county string, n, motor int) {
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("%s-%03d", county, i)
			regs = append(regs, Registration{
				VoterID:     id,
				County:      county,
				PartyCode:   "DEM",
				BirthDate:   "04-12-1975",
				EffRegnDate: "02-01-2016",
				Status:      "Active",
			})
			if i < motor {
				omv = append(omv, MotorVoter{VoterID: id, County: county, Description: "OMV Phase 1"})
			}
		}
	}
	add("Alpha", 100, 20)
	add("Beta", 50, 25)
	return regs, omv
}
