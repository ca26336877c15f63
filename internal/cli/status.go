package cli

import (
	"context"
	"fmt"

	"studybee/internal/aggregate"
	"studybee/internal/syncclient"
)

// Execute prints today's aggregated totals, the registered identity, and
// per-group rank-1 day counts.
func (cmd *StatusCommand) Execute(_ []string) error {
	env, err := setup(cmd.globals)
	if err != nil {
		return err
	}
	defer env.store.Close()

	ctx := context.Background()
	aggregator := aggregate.New(env.store)

	date, stats, err := aggregator.TodayStats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("date:        %s\n", date)
	fmt.Printf("learning:    %s\n", formatSeconds(stats.Learning))
	fmt.Printf("distraction: %s\n", formatSeconds(stats.Distraction))
	fmt.Printf("mixed:       %s\n", formatSeconds(stats.Mixed))

	user, err := env.store.RegisteredUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("identity:    not registered")
	} else {
		fmt.Printf("identity:    %s (user %s)\n", user.Nickname, user.UserID)
	}

	for _, code := range env.conf.Groups {
		dates, err := env.store.RankDates(ctx, code)
		if err != nil {
			return err
		}
		fmt.Printf("group %s:  %d day(s) at rank 1\n", code, len(dates))
	}

	// Once per civil date; the server being unreachable is not a status
	// failure.
	client := syncclient.New(env.conf.ServerURL, aggregator, env.store, env.log)
	if motivation, err := client.DailyMotivation(ctx); err == nil && motivation != "" {
		fmt.Printf("motivation:  %s\n", motivation)
	} else if err != nil {
		env.log.Debug().Err(err).Msg("motivation unavailable")
	}
	return nil
}

func formatSeconds(seconds int) string {
	return fmt.Sprintf("%dm %02ds", seconds/60, seconds%60)
}
