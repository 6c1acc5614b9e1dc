// Package catalog holds the enum types read from the database, which schema
// fields resolve to by their GraphQL scalar name.
package catalog

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"

	"github.com/lib/pq"

	"github.com/okra-platform/gqlpurs/internal/codegen/purescript"
	"github.com/okra-platform/gqlpurs/internal/config"
)

// Placeholder is the single constructor of an enum without labels.
const Placeholder = "ENUM_PLACEHOLDER"

const enumsQuery = `SELECT pg_type.typname AS enumtype, array_agg(pg_enum.enumlabel ORDER BY pg_enum.enumsortorder) AS enumlabel
FROM pg_type
INNER JOIN pg_enum ON pg_enum.enumtypid = pg_type.oid
GROUP BY typname
ORDER BY 1 ASC`

// Enum is a database enum type with its labels in declaration order
type Enum struct {
	Name   string
	Labels []string
}

// Catalog maps raw database enum names to the generated PureScript types.
// It is filled before generation starts and read concurrently afterwards.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]config.ExternalType
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{entries: make(map[string]config.ExternalType)}
}

// Add registers the type generated for a database enum
func (c *Catalog) Add(name string, t config.ExternalType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = t
}

// Lookup returns the type generated for the database enum name
func (c *Catalog) Lookup(name string) (config.ExternalType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[name]
	return t, ok
}

// Len returns the number of enums in the catalog
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Open connects to Postgres through the lib/pq driver and checks the
// connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Fetch reads every enum type and its labels from a Postgres database
func Fetch(ctx context.Context, db *sql.DB) ([]Enum, error) {
	rows, err := db.QueryContext(ctx, enumsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query enum types: %w", err)
	}
	defer rows.Close()

	var enums []Enum
	for rows.Next() {
		var (
			name   string
			labels pq.StringArray
		)
		if err := rows.Scan(&name, &labels); err != nil {
			return nil, fmt.Errorf("failed to scan enum type: %w", err)
		}
		enums = append(enums, Enum{Name: name, Labels: labels})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read enum types: %w", err)
	}
	return enums, nil
}

// Build turns database enums into standalone modules of lib and records each
// one in c. Modules are returned sorted by name.
func Build(c *Catalog, enums []Enum, lib string) ([]*purescript.Module, error) {
	pkg := purescript.ProperName(lib)

	var mods []*purescript.Module
	for _, e := range enums {
		name := purescript.ProperName(e.Name)
		values, originals := []string{Placeholder}, []string{Placeholder}
		if len(e.Labels) > 0 {
			values = make([]string, len(e.Labels))
			for i, label := range e.Labels {
				values[i] = purescript.ScreamingSnake(label)
			}
			originals = e.Labels
		}

		decl, err := purescript.NewEnumDecl(name, values, originals)
		if err != nil {
			return nil, err
		}
		module := pkg + "." + name
		mods = append(mods, purescript.EnumModule(module, decl, purescript.CatalogEnumCapabilities))
		c.Add(e.Name, config.ExternalType{Name: name, Module: module, Package: lib})
	}

	slices.SortFunc(mods, func(a, b *purescript.Module) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return mods, nil
}
