package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"studybee/internal/aggregate"
	"studybee/internal/alert"
	"studybee/internal/syncclient"
	"studybee/internal/tracker"
	"studybee/internal/trackercfg"
)

const alertCheckInterval = time.Minute

// Execute runs the tracking agent until stdin closes or a signal arrives.
func (cmd *RunCommand) Execute(_ []string) error {
	env, err := setup(cmd.globals)
	if err != nil {
		return err
	}
	defer env.store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aggregator := aggregate.New(env.store)
	tr := tracker.New(env.classifier(), aggregator, env.log)
	client := syncclient.New(env.conf.ServerURL, aggregator, env.store, env.log)
	checker := alert.NewChecker(aggregator, env.store, logNotifier{log: env.log}, env.log)

	events := make(chan tracker.Event, 16)
	go readEvents(ctx, os.Stdin, events, env.log)
	go runTimers(ctx, env.conf, client, checker, env.log)

	env.log.Info().Str("server", env.conf.ServerURL).Msg("tracking agent started")
	tr.Run(ctx, events, env.conf.PollPeriod)

	// Final push so a clean shutdown does not lose up to a sync interval.
	if err := client.SyncNow(context.Background()); err != nil {
		env.log.Warn().Err(err).Msg("final sync failed")
	}
	return nil
}

// readEvents decodes JSON-line events from the browser integration and
// feeds the tracking loop. Malformed lines are logged and skipped.
func readEvents(ctx context.Context, r io.Reader, events chan<- tracker.Event, log zerolog.Logger) {
	defer close(events)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event tracker.Event
		if err := json.Unmarshal(line, &event); err != nil {
			log.Warn().Err(err).Msg("skipping malformed event")
			continue
		}

		select {
		case events <- event:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("event stream read failed")
	}
}

// runTimers drives the periodic sync, leaderboard poll, and alert check.
// Every error is logged and swallowed; timers never stop the agent.
func runTimers(ctx context.Context, conf *trackercfg.Config, client *syncclient.Client, checker *alert.Checker, log zerolog.Logger) {
	syncTicker := time.NewTicker(conf.SyncInterval)
	defer syncTicker.Stop()
	alertTicker := time.NewTicker(alertCheckInterval)
	defer alertTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-syncTicker.C:
			if err := client.SyncNow(ctx); err != nil {
				log.Warn().Err(err).Msg("stats sync failed")
			}
			for _, code := range conf.Groups {
				if _, err := client.RefreshLeaderboard(ctx, code); err != nil {
					log.Warn().Err(err).Str("group", code).Msg("leaderboard refresh failed")
				}
			}
		case <-alertTicker.C:
			if err := checker.Check(ctx); err != nil {
				log.Warn().Err(err).Msg("alert check failed")
			}
		}
	}
}

// logNotifier delivers notifications through the structured log. Desktop
// integrations can replace it at the alert.Notifier boundary.
type logNotifier struct {
	log zerolog.Logger
}

func (n logNotifier) Notify(_ context.Context, title, message string) error {
	n.log.Info().Str("title", title).Msg(message)
	return nil
}
