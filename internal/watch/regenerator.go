package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDelay is how long the regenerator waits for changes to settle
const DefaultDelay = 300 * time.Millisecond

// Regenerator turns bursts of change events into single regeneration runs.
// A failed run is logged and the regenerator keeps waiting for the next
// change.
type Regenerator struct {
	delay   time.Duration
	run     func(ctx context.Context) error
	trigger chan struct{}
	logger  zerolog.Logger
}

// NewRegenerator creates a regenerator calling run after each burst of
// changes.
func NewRegenerator(delay time.Duration, run func(ctx context.Context) error, logger zerolog.Logger) *Regenerator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Regenerator{
		delay:   delay,
		run:     run,
		trigger: make(chan struct{}, 1),
		logger:  logger.With().Str("component", "watch").Logger(),
	}
}

// Notify records a change. It never blocks.
func (r *Regenerator) Notify(path string, op fsnotify.Op) {
	r.logger.Info().Str("path", path).Str("op", op.String()).Msg("Input changed")
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run waits for changes and regenerates until ctx is done
func (r *Regenerator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.trigger:
		}

		// Let the burst settle
		timer := time.NewTimer(r.delay)
	settle:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-r.trigger:
				timer.Reset(r.delay)
			case <-timer.C:
				break settle
			}
		}

		start := time.Now()
		if err := r.run(ctx); err != nil {
			r.logger.Error().Err(err).Msg("Regeneration failed")
			continue
		}
		r.logger.Info().Dur("took", time.Since(start)).Msg("Regenerated")
	}
}
