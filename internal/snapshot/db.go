// Package snapshot reads and writes the SQLite file holding the registration
// and motor-voter tables.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"
)

// DB is an open snapshot file.
type DB struct {
	*sql.DB
	Path string
}

// Open opens an existing snapshot. It never creates the file: a missing path
// or a file that is not a SQLite database fails with a *DataLoadError.
func Open(path string) (*DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DataLoadError{Path: path, Err: ErrSnapshotNotFound}
		}
		return nil, &DataLoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &DataLoadError{Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	// sqlite only validates the header on first read
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master`).Scan(&n); err != nil {
		db.Close()
		return nil, &DataLoadError{Path: path, Err: fmt.Errorf("not a valid snapshot: %w", err)}
	}

	return &DB{DB: db, Path: path}, nil
}

// Create opens (creating if needed) a snapshot and brings its schema up to
// the latest migration.
func Create(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA busy_timeout=5000; PRAGMA synchronous=NORMAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	s := &DB{DB: db, Path: path}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// CreateTableLike creates an empty table with the columns of template. It is
// a no-op when name already exists.
func (db *DB) CreateTableLike(ctx context.Context, name, template string) error {
	ok, err := db.tableExists(name)
	if err != nil || ok {
		return err
	}
	ok, err = db.tableExists(template)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("create %s like %s: %w", name, template, ErrMissingTable)
	}
	q := fmt.Sprintf(`CREATE TABLE %s AS SELECT * FROM %s WHERE 0`, quoteIdent(name), quoteIdent(template))
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create %s like %s: %w", name, template, err)
	}
	return nil
}

func (db *DB) tableExists(name string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// tableColumns lists a table's columns in declaration order.
func (db *DB) tableColumns(name string) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?) ORDER BY cid`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}
