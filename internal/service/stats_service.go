package service

import (
	"context"
	"math"
	"time"

	apperrors "studybee/internal/errors"
	"studybee/internal/model"
	"studybee/internal/repository"
)

// StatsService merges client snapshots into the per-identity record. The
// stored record is an all-time high-water mark with no date key: clients
// send cumulative totals for their current day and the merge only ever
// raises values, so repeated, stale, or out-of-order deliveries are safe.
type StatsService struct {
	userRepo  *repository.UserRepository
	statsRepo *repository.StatsRepository
}

func NewStatsService(userRepo *repository.UserRepository, statsRepo *repository.StatsRepository) *StatsService {
	return &StatsService{userRepo: userRepo, statsRepo: statsRepo}
}

type SyncResult struct {
	Stats StatsView `json:"stats"`
}

type StatsView struct {
	LearningTime    int64 `json:"learningTime"`
	DistractionTime int64 `json:"distractionTime"`
	LastUpdated     int64 `json:"lastUpdated"`
}

// Sync applies the monotonic merge: stored = max(stored, floor(input)).
func (s *StatsService) Sync(ctx context.Context, userID string, learningTime, distractionTime float64) (*SyncResult, *apperrors.APIError) {
	if userID == "" {
		return nil, apperrors.Validation("user_id_required", "userId required")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user_not_found", "user not found")
		}
		return nil, apperrors.Internal("failed to query user")
	}

	merged, err := s.statsRepo.Merge(
		ctx,
		userID,
		floorNonNegative(learningTime),
		floorNonNegative(distractionTime),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, apperrors.Internal("failed to merge stats")
	}

	return &SyncResult{Stats: toStatsView(merged)}, nil
}

func toStatsView(stats *model.MergedStats) StatsView {
	return StatsView{
		LearningTime:    stats.LearningTime,
		DistractionTime: stats.DistractionTime,
		LastUpdated:     stats.LastUpdated.UnixMilli(),
	}
}

func floorNonNegative(v float64) int64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int64(math.Floor(v))
}
