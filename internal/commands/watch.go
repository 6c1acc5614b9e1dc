package commands

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/gqlpurs/internal/watch"
)

// Watch generates once and then again whenever an input file changes,
// until ctx is cancelled.
func (c *Controller) Watch(ctx context.Context) error {
	s, err := c.settings()
	if err != nil {
		return err
	}

	// A broken first run is not fatal, the next edit may fix it
	if err := c.generate(ctx, s); err != nil {
		c.Logger.Error().Err(err).Msg("Initial generation failed")
	}

	regen := watch.NewRegenerator(watch.DefaultDelay, func(ctx context.Context) error {
		return c.generate(ctx, s)
	}, c.Logger)

	files := append([]string{s.RolesFile, s.WorkspaceFile, s.SchemaFile}, s.OverrideFiles...)
	fw, err := watch.NewFileWatcher(files, nil, regen.Notify, c.Logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	c.Logger.Info().Strs("files", files).Msg("Watching for changes")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return fw.Start(ctx) })
	g.Go(func() error { return regen.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	c.Logger.Info().Msg("Stopped watching")
	return nil
}
