package service

import (
	"context"
	"time"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog"

	"studybee/internal/ai"
	"studybee/internal/civil"
	apperrors "studybee/internal/errors"
)

const motivationCacheTTL = 24 * 60 * 60 // seconds

// AIService turns coaching requests into prompts, delegates generation to
// the upstream, and caches motivation responses per civil date so the
// upstream sees at most one motivation call per event per day.
type AIService struct {
	generator ai.Generator
	cache     *freecache.Cache
	log       zerolog.Logger
	now       func() time.Time
}

func NewAIService(generator ai.Generator, cacheSizeBytes int, log zerolog.Logger) *AIService {
	return &AIService{
		generator: generator,
		cache:     freecache.NewCache(cacheSizeBytes),
		log:       log,
		now:       time.Now,
	}
}

type MessageResult struct {
	Message string `json:"message"`
}

// Respond handles one coaching request. Unknown types are a validation
// error; upstream failures degrade to an unavailable error whose message
// callers may show as a fallback.
func (s *AIService) Respond(ctx context.Context, requestType string, data ai.Data) (*MessageResult, *apperrors.APIError) {
	prompt := ai.BuildPrompt(requestType, data)
	if prompt == "" {
		return nil, apperrors.Validation("invalid_ai_type", "invalid AI request type")
	}

	var cacheKey []byte
	if requestType == ai.TypeMotivation {
		cacheKey = []byte(civil.Date(s.now()) + "|" + data.Event)
		if cached, err := s.cache.Get(cacheKey); err == nil {
			return &MessageResult{Message: string(cached)}, nil
		}
	}

	message, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Str("type", requestType).Msg("ai upstream failed")
		return nil, apperrors.Unavailable("AI temporarily unavailable")
	}

	if cacheKey != nil {
		if err := s.cache.Set(cacheKey, []byte(message), motivationCacheTTL); err != nil {
			s.log.Debug().Err(err).Msg("motivation cache set failed")
		}
	}

	return &MessageResult{Message: message}, nil
}
