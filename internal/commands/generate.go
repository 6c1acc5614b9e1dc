package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/gqlpurs/internal/catalog"
	"github.com/okra-platform/gqlpurs/internal/codegen"
	"github.com/okra-platform/gqlpurs/internal/config"
	"github.com/okra-platform/gqlpurs/internal/introspection"
	"github.com/okra-platform/gqlpurs/internal/output"
)

// Generate regenerates every role's schema library
func (c *Controller) Generate(ctx context.Context) error {
	s, err := c.settings()
	if err != nil {
		return err
	}
	return c.generate(ctx, s)
}

// run is everything loaded before the role tasks start. It is read-only
// while they run.
type run struct {
	workspace *config.Workspace
	roles     []string
	overrides config.Overrides
	catalog   *catalog.Catalog
}

func (c *Controller) load(ctx context.Context, s *config.Settings, ws *config.Workspace, w *output.Writer) (*run, error) {
	roles, err := config.LoadRoles(s.RolesFile)
	if err != nil {
		return nil, err
	}

	overrides := config.Overrides{}
	if len(s.OverrideFiles) > 0 {
		if overrides, err = config.LoadOverrides(s.OverrideFiles...); err != nil {
			return nil, err
		}
	}

	r := &run{workspace: ws, roles: roles, overrides: overrides}
	if s.DatabaseURL != "" {
		if r.catalog, err = c.loadCatalog(ctx, s.DatabaseURL, ws, w); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// loadCatalog reads the database enums and builds their library. It
// returns the catalog the resolver looks them up in.
func (c *Controller) loadCatalog(ctx context.Context, url string, ws *config.Workspace, w *output.Writer) (*catalog.Catalog, error) {
	start := time.Now()
	db, err := c.openDB(ctx, url)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	enums, err := catalog.Fetch(ctx, db)
	if err != nil {
		return nil, err
	}

	cat := catalog.New()
	mods, err := catalog.Build(cat, enums, ws.PostgresEnumsLib)
	if err != nil {
		return nil, err
	}

	if err := w.WriteLibrary(w.Layout().PostgresEnumsLib(), ws.PostgresEnumsLib, mods); err != nil {
		return nil, err
	}

	c.Logger.Info().
		Int("enums", cat.Len()).
		Dur("took", time.Since(start)).
		Msg("Generated postgres enums")
	return cat, nil
}

func (c *Controller) generate(ctx context.Context, s *config.Settings) error {
	start := time.Now()

	ws, err := config.LoadWorkspace(s.WorkspaceFile)
	if err != nil {
		return err
	}
	w := output.NewWriter(ws, c.Logger)

	r, err := c.load(ctx, s, ws, w)
	if err != nil {
		return err
	}

	if s.MockOutsideTypes {
		if err := w.WriteLibrary(w.Layout().MocksLib(), config.MockLib, config.MockModules(r.overrides, r.workspace)); err != nil {
			return err
		}
	}

	var enums codegen.EnumLookup
	if r.catalog != nil {
		enums = r.catalog
	}
	shared := codegen.NewSharedEnums()
	gen, err := codegen.NewGenerator(codegen.Config{
		Workspace:          r.workspace,
		SharedEnumSuffixes: s.SharedEnumSuffixes,
		DirectivesProxy:    s.DirectivesProxy,
	}, codegen.NewResolver(r.overrides, enums), shared, c.Logger)
	if err != nil {
		return err
	}

	roleErrs := generateRoles(ctx, r.roles, s.Concurrency, c.source(s), gen, w, c.Logger)

	// Roles that succeeded still get their shared enums
	if err := w.WriteLibrary(w.Layout().SharedEnumsLib(), r.workspace.SharedGraphQLEnumsLib, shared.Modules()); err != nil {
		roleErrs = append(roleErrs, err)
	}

	failed := 0
	for _, err := range roleErrs {
		if err != nil {
			failed++
		}
	}
	c.Logger.Info().
		Int("roles", len(r.roles)).
		Int("failed", failed).
		Int("shared_enums", shared.Len()).
		Dur("took", time.Since(start)).
		Msg("Generated schemas")

	return errors.Join(roleErrs...)
}

// generateRoles runs one task per role, at most limit at a time. A failing
// role does not stop the others. The returned errors are in role order.
func generateRoles(ctx context.Context, roles []string, limit int, src introspection.Source, gen *codegen.Generator, w *output.Writer, logger zerolog.Logger) []error {
	errs := make([]error, len(roles))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, role := range roles {
		g.Go(func() error {
			if err := generateRole(ctx, role, src, gen, w); err != nil {
				logger.Error().Err(err).Str("role", role).Msg("Role failed")
				errs[i] = fmt.Errorf("role %s: %w", role, err)
			}
			return nil
		})
	}
	g.Wait()
	return errs
}

func generateRole(ctx context.Context, role string, src introspection.Source, gen *codegen.Generator, w *output.Writer) error {
	s, err := src.Fetch(ctx, role)
	if err != nil {
		return err
	}
	rm, err := gen.Generate(role, s)
	if err != nil {
		return err
	}
	return w.WriteRole(rm)
}
