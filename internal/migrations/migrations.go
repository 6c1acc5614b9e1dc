// Package migrations checks whether the main and codegen databases have
// applied every Hasura migration found on disk.
package migrations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

// ErrNoMigrations is returned when a database or the migrations directory
// holds no migrations at all.
var ErrNoMigrations = errors.New("no migrations")

const versionQuery = `SELECT (cli_state->'migrations'->'default')::text AS migrations FROM hdb_catalog.hdb_version`

// Status is the outcome of a check
type Status int

const (
	UpToDate Status = iota
	// MissingFromMain means the codegen database applied migrations the
	// main database did not.
	MissingFromMain
	// MissingFromCodegen means the main database applied migrations the
	// codegen database did not.
	MissingFromCodegen
	// NewMigration means a migration on disk is newer than both databases.
	NewMigration
)

func (s Status) String() string {
	switch s {
	case UpToDate:
		return "Up to date"
	case MissingFromMain:
		return "Migrations missing from main db"
	case MissingFromCodegen:
		return "Migrations missing from codegen db"
	case NewMigration:
		return "New migration exists"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Report is the result of Check
type Report struct {
	Status        Status
	MainLatest    string
	CodegenLatest string
	DiskLatest    string
}

// Applied returns the versions of the migrations a database applied,
// sorted ascending.
func Applied(ctx context.Context, db *sql.DB) ([]string, error) {
	var raw sql.NullString
	if err := db.QueryRowContext(ctx, versionQuery).Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to read hasura migration state: %w", err)
	}
	if !raw.Valid {
		return nil, fmt.Errorf("%w: hasura has recorded no migration state", ErrNoMigrations)
	}

	var state map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw.String), &state); err != nil {
		return nil, fmt.Errorf("failed to parse hasura migration state, the hasura version may not match: %w", err)
	}

	versions := make([]string, 0, len(state))
	for v := range state {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions, nil
}

// LatestOnDisk returns the newest migration timestamp in dir. Migration
// directories are named <timestamp>_<name>.
func LatestOnDisk(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var latest string
	for _, e := range entries {
		timestamp, _, _ := strings.Cut(e.Name(), "_")
		if timestamp > latest {
			latest = timestamp
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoMigrations, dir)
	}
	return latest, nil
}

// Check compares the migrations applied to the main and codegen databases
// with each other and with the migrations directory.
func Check(ctx context.Context, mainDB, codegenDB *sql.DB, dir string) (*Report, error) {
	mainVersions, err := Applied(ctx, mainDB)
	if err != nil {
		return nil, fmt.Errorf("main database: %w", err)
	}
	codegenVersions, err := Applied(ctx, codegenDB)
	if err != nil {
		return nil, fmt.Errorf("codegen database: %w", err)
	}

	for _, v := range codegenVersions {
		if _, found := slices.BinarySearch(mainVersions, v); !found {
			return &Report{Status: MissingFromMain}, nil
		}
	}
	for _, v := range mainVersions {
		if _, found := slices.BinarySearch(codegenVersions, v); !found {
			return &Report{Status: MissingFromCodegen}, nil
		}
	}
	if len(mainVersions) == 0 {
		return nil, fmt.Errorf("%w: databases have applied no migrations", ErrNoMigrations)
	}

	disk, err := LatestOnDisk(dir)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Status:        UpToDate,
		MainLatest:    mainVersions[len(mainVersions)-1],
		CodegenLatest: codegenVersions[len(codegenVersions)-1],
		DiskLatest:    disk,
	}
	if r.MainLatest < disk || r.CodegenLatest < disk {
		r.Status = NewMigration
	}
	return r, nil
}
