package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/banshee-data/omv.report/internal/table"
	"github.com/banshee-data/omv.report/internal/voter"
)

// LoadOptions names the tables to read. Empty names use the defaults.
type LoadOptions struct {
	RegistrationTable string
	MotorVoterTable   string
}

const (
	DefaultRegistrationTable = "registrations"
	DefaultMotorVoterTable   = "motor_voter"
)

// Tables is the raw content of a snapshot.
type Tables struct {
	Registrations *table.Table
	MotorVoter    *table.Table
}

// Load reads both tables in full. It fails if either table is missing or
// lacks one of its required columns.
func (db *DB) Load(ctx context.Context, opts LoadOptions) (*Tables, error) {
	regName := opts.RegistrationTable
	if regName == "" {
		regName = DefaultRegistrationTable
	}
	omvName := opts.MotorVoterTable
	if omvName == "" {
		omvName = DefaultMotorVoterTable
	}

	reg, err := db.LoadTable(ctx, regName, voter.RegistrationColumns...)
	if err != nil {
		return nil, err
	}
	omv, err := db.LoadTable(ctx, omvName, voter.MotorVoterColumns...)
	if err != nil {
		return nil, err
	}
	return &Tables{Registrations: reg, MotorVoter: omv}, nil
}

// LoadTable reads one table in rowid order and checks that the required
// columns are present.
func (db *DB) LoadTable(ctx context.Context, name string, required ...string) (*table.Table, error) {
	loadErr := func(err error) error {
		return &DataLoadError{Path: db.Path, Table: name, Err: err}
	}

	ok, err := db.tableExists(name)
	if err != nil {
		return nil, loadErr(err)
	}
	if !ok {
		return nil, loadErr(ErrMissingTable)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s ORDER BY rowid`, quoteIdent(name)))
	if err != nil {
		return nil, loadErr(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, loadErr(err)
	}
	t := table.New(name, cols...)
	if missing := t.Has(required...); len(missing) > 0 {
		return nil, loadErr(fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", ")))
	}

	cells := make([]sql.NullString, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, loadErr(err)
		}
		if err := t.Append(cells...); err != nil {
			return nil, loadErr(err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, loadErr(err)
	}
	return t, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
