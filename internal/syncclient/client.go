// Package syncclient pushes the tracker's cumulative totals for today to
// the backend and maintains the local rank history.
package syncclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"studybee/internal/aggregate"
	"studybee/internal/localstore"
	"studybee/internal/model"
)

// DefaultSyncInterval matches the original one-minute push cadence.
const DefaultSyncInterval = time.Minute

// Client talks to the backend's /api surface on behalf of the tracker.
type Client struct {
	baseURL    string
	httpClient *http.Client
	aggregator *aggregate.Aggregator
	store      localstore.Store
	log        zerolog.Logger
}

func New(baseURL string, aggregator *aggregate.Aggregator, store localstore.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		aggregator: aggregator,
		store:      store,
		log:        log,
	}
}

type registerRequest struct {
	Nickname string `json:"nickname"`
}

type registerResponse struct {
	User model.User `json:"user"`
}

type syncRequest struct {
	UserID          string `json:"userId"`
	LearningTime    int    `json:"learningTime"`
	DistractionTime int    `json:"distractionTime"`
}

type leaderboardResponse struct {
	GroupName   string                   `json:"groupName"`
	Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
}

// Register creates the identity on the server and persists it locally.
func (c *Client) Register(ctx context.Context, nickname string) (*model.User, error) {
	var resp registerResponse
	if err := c.post(ctx, "/api/user/register", registerRequest{Nickname: nickname}, &resp); err != nil {
		return nil, err
	}
	if err := c.store.SetRegisteredUser(ctx, &resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// SyncNow pushes today's cumulative learning and distraction totals. The
// payload is always a running total, never a delta: the server's monotonic
// merge treats repeated or out-of-order deliveries of the same snapshot as
// no-ops. Unregistered trackers sync nothing.
func (c *Client) SyncNow(ctx context.Context) error {
	user, err := c.store.RegisteredUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	_, stats, err := c.aggregator.TodayStats(ctx)
	if err != nil {
		return err
	}

	req := syncRequest{
		UserID:          user.UserID,
		LearningTime:    stats.Learning,
		DistractionTime: stats.Distraction,
	}
	if err := c.post(ctx, "/api/stats/sync", req, nil); err != nil {
		return err
	}

	c.log.Debug().Int("learning", stats.Learning).Int("distraction", stats.Distraction).Msg("stats synced")
	return nil
}

// RefreshLeaderboard fetches the group's leaderboard and, when the local
// identity holds rank 1, records today in the group's rank history. The
// history is observational only and never authoritative.
func (c *Client) RefreshLeaderboard(ctx context.Context, groupCode string) ([]model.LeaderboardEntry, error) {
	user, err := c.store.RegisteredUser(ctx)
	if err != nil {
		return nil, err
	}

	var resp leaderboardResponse
	if err := c.get(ctx, "/api/leaderboard/"+groupCode, &resp); err != nil {
		return nil, err
	}

	if user != nil {
		for _, entry := range resp.Leaderboard {
			if entry.UserID == user.UserID && entry.Rank == 1 {
				today, _, statsErr := c.aggregator.TodayStats(ctx)
				if statsErr != nil {
					return nil, statsErr
				}
				if err := c.store.AddRankDate(ctx, groupCode, today); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	return resp.Leaderboard, nil
}

type aiRequest struct {
	Type string `json:"type"`
	Data aiData `json:"data"`
}

type aiData struct {
	Event   string `json:"event"`
	Details string `json:"details"`
}

type aiResponse struct {
	Message string `json:"message"`
}

// DailyMotivation returns the motivational message for today, asking the
// coaching endpoint at most once per civil date and caching the answer
// locally.
func (c *Client) DailyMotivation(ctx context.Context) (string, error) {
	today, stats, err := c.aggregator.TodayStats(ctx)
	if err != nil {
		return "", err
	}

	if cached, ok, err := c.store.Motivation(ctx, today); err != nil {
		return "", err
	} else if ok {
		return cached, nil
	}

	req := aiRequest{
		Type: "motivation",
		Data: aiData{
			Event:   "daily",
			Details: fmt.Sprintf("Learning: %dm, Distraction: %dm", stats.Learning/60, stats.Distraction/60),
		},
	}
	var resp aiResponse
	if err := c.post(ctx, "/api/ai", req, &resp); err != nil {
		return "", err
	}

	if err := c.store.SetMotivation(ctx, today, resp.Message); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
