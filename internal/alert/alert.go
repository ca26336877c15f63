// Package alert evaluates the distraction-alert policy over today's
// aggregated stats and raises a rate-limited notification.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"studybee/internal/aggregate"
	"studybee/internal/localstore"
)

const (
	// MinDistractionSeconds: below this, no alert regardless of ratio.
	MinDistractionSeconds = 60
	// Cooldown between notifications.
	Cooldown = 30 * time.Minute
)

// Notifier delivers a notification to the user. Implementations wrap the
// platform notification mechanism.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Checker evaluates the policy: alert when today's distraction time exceeds
// today's learning time and is significant, at most once per cooldown.
type Checker struct {
	aggregator *aggregate.Aggregator
	store      localstore.Store
	notifier   Notifier
	log        zerolog.Logger
	now        func() time.Time
}

func NewChecker(aggregator *aggregate.Aggregator, store localstore.Store, notifier Notifier, log zerolog.Logger) *Checker {
	return &Checker{
		aggregator: aggregator,
		store:      store,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

// Check runs one policy evaluation. Errors are returned for logging but a
// failed check never stops the tracking loop.
func (c *Checker) Check(ctx context.Context) error {
	_, stats, err := c.aggregator.TodayStats(ctx)
	if err != nil {
		return fmt.Errorf("load today stats: %w", err)
	}

	if stats.Distraction <= stats.Learning || stats.Distraction <= MinDistractionSeconds {
		return nil
	}

	lastAlert, err := c.store.LastAlertTime(ctx)
	if err != nil {
		return fmt.Errorf("load last alert time: %w", err)
	}

	now := c.now()
	if now.Sub(lastAlert) <= Cooldown {
		return nil
	}

	message := fmt.Sprintf(
		"Distraction (%dm) > Learning (%dm). Time to refocus!",
		stats.Distraction/60,
		stats.Learning/60,
	)
	if err := c.notifier.Notify(ctx, "Focus Alert", message); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	if err := c.store.SetLastAlertTime(ctx, now); err != nil {
		return fmt.Errorf("record alert time: %w", err)
	}

	c.log.Info().Int("distraction", stats.Distraction).Int("learning", stats.Learning).Msg("distraction alert raised")
	return nil
}
