package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "studybee/internal/errors"
	"studybee/internal/model"
	"studybee/internal/repository"
)

const maxNicknameLength = 32

type UserService struct {
	userRepo  *repository.UserRepository
	statsRepo *repository.StatsRepository
}

func NewUserService(userRepo *repository.UserRepository, statsRepo *repository.StatsRepository) *UserService {
	return &UserService{userRepo: userRepo, statsRepo: statsRepo}
}

type RegisterResult struct {
	User model.User `json:"user"`
}

// Register creates a new identity with a unique display name. The identity
// token is an opaque 32-char hex string; a zeroed stats row is created in
// the same flow so the first sync always finds a record.
func (s *UserService) Register(ctx context.Context, nickname string) (*RegisterResult, *apperrors.APIError) {
	cleanName := strings.TrimSpace(nickname)
	if cleanName == "" {
		return nil, apperrors.Validation("nickname_required", "nickname required")
	}
	if len(cleanName) > maxNicknameLength {
		return nil, apperrors.Validation("nickname_too_long", "nickname too long")
	}

	_, err := s.userRepo.GetByNickname(ctx, cleanName)
	if err == nil {
		return nil, apperrors.Conflict("nickname_taken", "nickname already taken")
	}
	if err != repository.ErrNotFound {
		return nil, apperrors.Internal("failed to query user")
	}

	now := time.Now().UTC()
	user := model.User{
		UserID:    strings.ReplaceAll(uuid.NewString(), "-", ""),
		Nickname:  cleanName,
		CreatedAt: now,
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, apperrors.Conflict("nickname_taken", "nickname already taken")
		}
		return nil, apperrors.Internal("failed to create user")
	}

	if err := s.statsRepo.CreateInitial(ctx, user.UserID, now); err != nil {
		return nil, apperrors.Internal("failed to initialize stats")
	}

	return &RegisterResult{User: user}, nil
}
