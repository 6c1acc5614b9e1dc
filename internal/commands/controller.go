// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/okra-platform/gqlpurs/internal/catalog"
	"github.com/okra-platform/gqlpurs/internal/config"
	"github.com/okra-platform/gqlpurs/internal/introspection"
)

type Flags struct {
	LogLevel string
	Settings config.Settings

	// check-migrations only
	CodegenDatabaseURL string
	MigrationsDir      string
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger

	// Source replaces the schema source derived from the settings
	Source introspection.Source
	// OpenDB connects to a database; catalog.Open when nil
	OpenDB func(ctx context.Context, url string) (*sql.DB, error)
	// Stdout receives command results; os.Stdout when nil
	Stdout io.Writer
}

func (c *Controller) openDB(ctx context.Context, url string) (*sql.DB, error) {
	if c.OpenDB != nil {
		return c.OpenDB(ctx, url)
	}
	return catalog.Open(ctx, url)
}

func (c *Controller) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// settings resolves the workspace file when none was given and validates
// the result.
func (c *Controller) settings() (*config.Settings, error) {
	s := c.Flags.Settings
	if s.WorkspaceFile == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		if path, err := config.FindWorkspace(wd); err == nil {
			s.WorkspaceFile = path
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Controller) source(s *config.Settings) introspection.Source {
	if c.Source != nil {
		return c.Source
	}
	if s.SchemaFile != "" {
		return introspection.FileSource{Path: s.SchemaFile}
	}
	return introspection.NewClient(introspection.ClientConfig{
		URL:    s.GraphQLURL,
		Secret: s.GraphQLSecret,
	}, c.Logger)
}
