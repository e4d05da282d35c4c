package snapshot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/omv.report/internal/monitoring"
	"github.com/go-gota/gota/dataframe"
)

// nullMarkers are CSV cell values stored as NULL.
var nullMarkers = []string{"", "NA", "NaN", "NULL", "<nil>"}

// ImportCSV appends the rows of a headed CSV export to an existing table and
// returns the number of rows written. Headers are matched to the table's
// columns case-insensitively; headers with no matching column are skipped.
// Every name in required must appear in the header.
func (db *DB) ImportCSV(ctx context.Context, tableName string, r io.Reader, required ...string) (int, error) {
	ok, err := db.tableExists(tableName)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("import %s: %w", tableName, ErrMissingTable)
	}
	schema, err := db.tableColumns(tableName)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", tableName, err)
	}

	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.HasHeader(true),
		dataframe.NaNValues(nullMarkers),
	)
	if df.Err != nil {
		return 0, fmt.Errorf("import %s: parse csv: %w", tableName, df.Err)
	}

	headers := make(map[string]string, df.Ncol())
	for _, h := range df.Names() {
		headers[strings.ToLower(strings.TrimSpace(h))] = h
	}

	var missing []string
	for _, c := range required {
		if _, ok := headers[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("import %s: %w: %s", tableName, ErrMissingColumns, strings.Join(missing, ", "))
	}

	var (
		columns  []string
		records  [][]string
		nulls    [][]bool
		inSchema = make(map[string]bool, len(schema))
	)
	for _, c := range schema {
		inSchema[c] = true
		h, ok := headers[c]
		if !ok {
			continue
		}
		s := df.Col(h)
		columns = append(columns, c)
		records = append(records, s.Records())
		nulls = append(nulls, s.IsNaN())
	}
	for norm, h := range headers {
		if !inSchema[norm] {
			monitoring.Logf("import %s: ignoring unknown column %q", tableName, h)
		}
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("import %s: no csv column matches the table", tableName)
	}

	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(tableName), strings.Join(quoted, ", "), strings.Join(marks, ", "))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", tableName, err)
	}
	defer stmt.Close()

	n := df.Nrow()
	args := make([]interface{}, len(columns))
	for row := 0; row < n; row++ {
		for i := range columns {
			if nulls[i][row] {
				args[i] = nil
			} else {
				args[i] = records[i][row]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("import %s: row %d: %w", tableName, row+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
