package ai

import "fmt"

// Request types accepted by the coaching endpoint.
const (
	TypeChat       = "chat"
	TypeReflection = "reflection"
	TypeMotivation = "motivation"
)

// Data carries the analytics snapshot interpolated into prompts. Fields are
// loosely typed; callers send numbers or strings and the templates render
// either.
type Data struct {
	LearningTime    interface{} `json:"learningTime,omitempty"`
	DistractionTime interface{} `json:"distractionTime,omitempty"`
	MixedTime       interface{} `json:"mixedTime,omitempty"`
	BestHours       interface{} `json:"bestHours,omitempty"`
	Pattern         string      `json:"pattern,omitempty"`
	Trend           string      `json:"trend,omitempty"`
	Question        string      `json:"question,omitempty"`
	Event           string      `json:"event,omitempty"`
	Details         string      `json:"details,omitempty"`
}

// BuildPrompt renders the prompt for a request type, or "" for an unknown
// type.
func BuildPrompt(requestType string, data Data) string {
	switch requestType {
	case TypeChat:
		return fmt.Sprintf(`You are a friendly AI study coach.

Student data:
Learning time: %v
Distraction time: %v
Best study hours: %v
Recent pattern: %s

Student question:
"%s"

Rules:
- Be supportive and concise
- Give practical advice
- Do NOT mention AI or models
`, data.LearningTime, data.DistractionTime, data.BestHours, data.Pattern, data.Question)

	case TypeReflection:
		return fmt.Sprintf(`You are an academic mentor.

Weekly summary:
Learning time: %v
Distraction time: %v
Mixed time: %v
Best study hours: %v
Trend: %s

Write a 1-2 sentence weekly reflection.
End with one gentle suggestion.
Do NOT mention AI or models.
`, data.LearningTime, data.DistractionTime, data.MixedTime, data.BestHours, data.Trend)

	case TypeMotivation:
		return fmt.Sprintf(`Generate ONE short motivational message for a student.

Event: %s
Details: %s

Rules:
- One sentence only
- Friendly and encouraging
- No emojis
- Do NOT mention AI or models
`, data.Event, data.Details)
	}

	return ""
}
