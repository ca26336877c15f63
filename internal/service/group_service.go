package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	apperrors "studybee/internal/errors"
	"studybee/internal/model"
	"studybee/internal/repository"
)

type GroupService struct {
	userRepo  *repository.UserRepository
	groupRepo *repository.GroupRepository
	statsRepo *repository.StatsRepository
}

func NewGroupService(
	userRepo *repository.UserRepository,
	groupRepo *repository.GroupRepository,
	statsRepo *repository.StatsRepository,
) *GroupService {
	return &GroupService{userRepo: userRepo, groupRepo: groupRepo, statsRepo: statsRepo}
}

type GroupView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type GroupResult struct {
	Group GroupView `json:"group"`
}

type MembershipView struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
	IsCreator   bool   `json:"isCreator"`
}

type MyGroupsResult struct {
	Groups []MembershipView `json:"groups"`
}

type LeaderboardResult struct {
	GroupName   string                   `json:"groupName"`
	Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
}

// Create makes a new group with the caller as founding member.
func (s *GroupService) Create(ctx context.Context, userID, groupName string) (*GroupResult, *apperrors.APIError) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user_not_found", "user not found")
		}
		return nil, apperrors.Internal("failed to query user")
	}

	cleanName := strings.TrimSpace(groupName)
	if cleanName == "" {
		return nil, apperrors.Validation("group_name_required", "group name required")
	}

	code, apiErr := s.generateGroupCode(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	group := model.Group{
		Code:      code,
		Name:      cleanName,
		CreatedBy: userID,
		Members:   []string{userID},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.groupRepo.Create(ctx, &group); err != nil {
		return nil, apperrors.Internal("failed to create group")
	}

	return &GroupResult{Group: GroupView{Code: group.Code, Name: group.Name}}, nil
}

// generateGroupCode draws 6-char uppercase hex tokens until one is unused.
// Collisions are birthday-bounded and retried synchronously.
func (s *GroupService) generateGroupCode(ctx context.Context) (string, *apperrors.APIError) {
	for {
		raw := make([]byte, 3)
		if _, err := rand.Read(raw); err != nil {
			return "", apperrors.Internal("failed to generate group code")
		}
		code := strings.ToUpper(hex.EncodeToString(raw))

		exists, err := s.groupRepo.CodeExists(ctx, code)
		if err != nil {
			return "", apperrors.Internal("failed to check group code")
		}
		if !exists {
			return code, nil
		}
	}
}

// Join adds the user to an existing group.
func (s *GroupService) Join(ctx context.Context, userID, groupCode string) (*GroupResult, *apperrors.APIError) {
	if userID == "" || strings.TrimSpace(groupCode) == "" {
		return nil, apperrors.Validation("missing_fields", "userId and groupCode required")
	}
	code := normalizeCode(groupCode)

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user_not_found", "user not found")
		}
		return nil, apperrors.Internal("failed to query user")
	}

	group, err := s.groupRepo.GetByCode(ctx, code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("group_not_found", "group not found")
		}
		return nil, apperrors.Internal("failed to query group")
	}

	member, err := s.groupRepo.IsMember(ctx, code, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to check membership")
	}
	if member {
		return nil, apperrors.Conflict("already_member", "already a member of this group")
	}

	if err := s.groupRepo.AddMember(ctx, code, userID, time.Now().UTC()); err != nil {
		return nil, apperrors.Internal("failed to join group")
	}

	return &GroupResult{Group: GroupView{Code: group.Code, Name: group.Name}}, nil
}

// MyGroups lists the groups the user belongs to.
func (s *GroupService) MyGroups(ctx context.Context, userID string) (*MyGroupsResult, *apperrors.APIError) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("user_not_found", "user not found")
		}
		return nil, apperrors.Internal("failed to query user")
	}

	groups, err := s.groupRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list groups")
	}

	views := make([]MembershipView, 0, len(groups))
	for _, group := range groups {
		views = append(views, MembershipView{
			Code:        group.Code,
			Name:        group.Name,
			MemberCount: len(group.Members),
			IsCreator:   group.CreatedBy == userID,
		})
	}
	return &MyGroupsResult{Groups: views}, nil
}

// Leave removes the user from the group; a group left empty is deleted in
// the same transaction.
func (s *GroupService) Leave(ctx context.Context, userID, groupCode string) *apperrors.APIError {
	if userID == "" || strings.TrimSpace(groupCode) == "" {
		return apperrors.Validation("missing_fields", "userId and groupCode required")
	}
	code := normalizeCode(groupCode)

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("user_not_found", "user not found")
		}
		return apperrors.Internal("failed to query user")
	}

	if _, err := s.groupRepo.GetByCode(ctx, code); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("group_not_found", "group not found")
		}
		return apperrors.Internal("failed to query group")
	}

	member, err := s.groupRepo.IsMember(ctx, code, userID)
	if err != nil {
		return apperrors.Internal("failed to check membership")
	}
	if !member {
		return apperrors.Conflict("not_member", "not a member of this group")
	}

	if _, err := s.groupRepo.RemoveMember(ctx, code, userID); err != nil {
		return apperrors.Internal("failed to leave group")
	}
	return nil
}

// Leaderboard ranks the group's members by focus score, descending. Ranks
// are dense 1..N by sorted position; ties keep member iteration order.
func (s *GroupService) Leaderboard(ctx context.Context, groupCode string) (*LeaderboardResult, *apperrors.APIError) {
	code := normalizeCode(groupCode)

	group, err := s.groupRepo.GetByCode(ctx, code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("group_not_found", "group not found")
		}
		return nil, apperrors.Internal("failed to query group")
	}

	entries := make([]model.LeaderboardEntry, 0, len(group.Members))
	for _, memberID := range group.Members {
		user, err := s.userRepo.GetByID(ctx, memberID)
		if err == repository.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal("failed to query member")
		}

		var learning, distraction int64
		stats, err := s.statsRepo.Get(ctx, memberID)
		if err == nil {
			learning = stats.LearningTime
			distraction = stats.DistractionTime
		} else if err != repository.ErrNotFound {
			return nil, apperrors.Internal("failed to query member stats")
		}

		entries = append(entries, model.LeaderboardEntry{
			UserID:          memberID,
			Nickname:        user.Nickname,
			LearningTime:    learning,
			DistractionTime: distraction,
			FocusScore:      model.FocusScore(learning, distraction),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].FocusScore > entries[j].FocusScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &LeaderboardResult{GroupName: group.Name, Leaderboard: entries}, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
