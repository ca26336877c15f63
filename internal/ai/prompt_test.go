package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptChat(t *testing.T) {
	prompt := BuildPrompt(TypeChat, Data{
		LearningTime:    3600,
		DistractionTime: 120,
		BestHours:       "9-11",
		Pattern:         "steady mornings",
		Question:        "How do I stay focused after lunch?",
	})

	assert.Contains(t, prompt, "study coach")
	assert.Contains(t, prompt, "Learning time: 3600")
	assert.Contains(t, prompt, `"How do I stay focused after lunch?"`)
}

func TestBuildPromptReflection(t *testing.T) {
	prompt := BuildPrompt(TypeReflection, Data{
		LearningTime: 7200,
		MixedTime:    600,
		Trend:        "improving",
	})

	assert.Contains(t, prompt, "academic mentor")
	assert.Contains(t, prompt, "Trend: improving")
}

func TestBuildPromptMotivation(t *testing.T) {
	prompt := BuildPrompt(TypeMotivation, Data{Event: "daily", Details: "new day"})

	assert.Contains(t, prompt, "ONE short motivational message")
	assert.Contains(t, prompt, "Event: daily")
}

func TestBuildPromptUnknownType(t *testing.T) {
	assert.Empty(t, BuildPrompt("poetry", Data{}))
}
