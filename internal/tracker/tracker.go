// Package tracker maintains the single current observation window over a
// stream of browser events and emits closed sessions to the aggregator.
package tracker

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"studybee/internal/aggregate"
	"studybee/internal/category"
	"studybee/internal/civil"
	"studybee/internal/model"
)

// MinSessionSeconds is the anti-flicker debounce: observation windows
// shorter than this are discarded silently.
const MinSessionSeconds = 5

// DefaultPollPeriod is the re-sample interval while tracking.
const DefaultPollPeriod = 10 * time.Second

// privilegedPrefixes are internal browser URLs that never produce an
// observation.
var privilegedPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"edge://",
	"about:",
}

type state int

const (
	stateIdle state = iota
	stateTracking
)

// observation is the currently-open, not-yet-durable activity window.
// At most one exists; a zero URL means no window is open.
type observation struct {
	url       string
	hostname  string
	title     string
	category  model.Category
	startTime time.Time
}

// Tracker is a reducer over the browser event stream. It is not safe for
// concurrent use; a single loop goroutine must own it.
type Tracker struct {
	classifier *category.Classifier
	aggregator *aggregate.Aggregator
	log        zerolog.Logger
	now        func() time.Time

	state   state
	current observation
	lastTab *Tab
}

// New returns a tracker in the tracking state, ready to consume events.
func New(classifier *category.Classifier, aggregator *aggregate.Aggregator, log zerolog.Logger) *Tracker {
	return &Tracker{
		classifier: classifier,
		aggregator: aggregator,
		log:        log,
		now:        time.Now,
		state:      stateTracking,
	}
}

// Tracking reports whether the tracker is currently sampling.
func (t *Tracker) Tracking() bool {
	return t.state == stateTracking
}

// HandleEvent applies one event to the tracker state, producing zero or one
// closed session as a side effect. Errors are logged and swallowed;
// tracking never crashes the loop.
func (t *Tracker) HandleEvent(ctx context.Context, event Event) {
	switch event.Type {
	case EventNavigated, EventActivated:
		t.lastTab = event.Tab
		if t.state == stateTracking {
			t.observe(ctx, event.Tab)
		}
	case EventTimerFired:
		if t.state == stateTracking {
			t.observe(ctx, t.lastTab)
		}
	case EventIdleChanged:
		t.handleIdle(ctx, event.IdleState)
	default:
		t.log.Debug().Str("type", string(event.Type)).Msg("ignoring unknown event")
	}
}

func (t *Tracker) handleIdle(ctx context.Context, idleState string) {
	switch idleState {
	case IdleStateIdle, IdleStateLocked:
		t.closeCurrent(ctx)
		t.state = stateIdle
		t.log.Debug().Str("state", idleState).Msg("tracking suspended")
	case IdleStateActive:
		if t.state == stateIdle {
			t.state = stateTracking
			t.log.Debug().Msg("tracking resumed")
			t.observe(ctx, t.lastTab)
		}
	}
}

// observe re-samples the foreground tab. A URL change is the session
// boundary: the current observation closes and a new one opens. The same
// URL arriving from both the poll timer and a tab event coalesces to a
// single boundary via this equality check.
func (t *Tracker) observe(ctx context.Context, tab *Tab) {
	if tab == nil || tab.URL == "" {
		return
	}

	// Internal browser pages close the window and open nothing: time
	// parked on them counts for no category.
	if isPrivileged(tab.URL) {
		t.closeCurrent(ctx)
		return
	}

	if tab.URL == t.current.url {
		return
	}

	if !t.closeCurrent(ctx) {
		return
	}

	hostname := hostnameOf(tab.URL)
	t.current = observation{
		url:       tab.URL,
		hostname:  hostname,
		title:     tab.Title,
		category:  t.classifier.Classify(hostname, tab.Title),
		startTime: t.now(),
	}
}

// closeCurrent turns the open observation into a durable session if it
// lasted long enough, reporting whether no observation remains open. Date
// and hour are bucketed from the closing moment, so a window crossing
// midnight is attributed entirely to the closing day. On a failed write
// the observation is kept open and retried at the next boundary.
func (t *Tracker) closeCurrent(ctx context.Context) bool {
	if t.current.url == "" {
		return true
	}

	now := t.now()
	duration := int(now.Sub(t.current.startTime).Seconds())
	if duration < MinSessionSeconds {
		t.current = observation{}
		return true
	}

	date, hour := civil.DateHour(now)
	session := &model.Session{
		URL:             t.current.url,
		Hostname:        t.current.hostname,
		Title:           t.current.title,
		Category:        t.current.category,
		DurationSeconds: duration,
		TimestampMs:     t.current.startTime.UnixMilli(),
		Date:            date,
		Hour:            hour,
	}

	if err := t.aggregator.Record(ctx, session); err != nil {
		t.log.Warn().Err(err).Str("url", session.URL).Msg("session write failed, retrying at next boundary")
		return false
	}

	t.log.Debug().
		Str("hostname", session.Hostname).
		Str("category", string(session.Category)).
		Int("duration", session.DurationSeconds).
		Msg("session closed")
	t.current = observation{}
	return true
}

// Run consumes events until ctx is done or the channel closes, feeding the
// reducer and generating TimerFired ticks while tracking. The final
// observation is closed on shutdown.
func (t *Tracker) Run(ctx context.Context, events <-chan Event, pollPeriod time.Duration) {
	if pollPeriod <= 0 {
		pollPeriod = DefaultPollPeriod
	}
	ticker := time.NewTicker(pollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.closeCurrent(context.Background())
			return
		case event, ok := <-events:
			if !ok {
				t.closeCurrent(context.Background())
				return
			}
			t.HandleEvent(ctx, event)
		case <-ticker.C:
			t.HandleEvent(ctx, Event{Type: EventTimerFired})
		}
	}
}

func isPrivileged(rawURL string) bool {
	for _, prefix := range privilegedPrefixes {
		if strings.HasPrefix(rawURL, prefix) {
			return true
		}
	}
	return false
}

func hostnameOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
