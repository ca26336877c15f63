// Package category classifies browsing activity into learning, distraction,
// or mixed from the page's hostname and title alone. Classification is
// deterministic and side-effect free.
package category

import (
	"strings"

	"studybee/internal/model"
)

const videoSharingDomain = "youtube.com"

// Classifier holds the site and keyword lists. The zero value is not
// usable; construct with New.
type Classifier struct {
	learningSites    []string
	distractionSites []string
}

// New returns a Classifier using the built-in lists, with extra learning
// and distraction sites appended.
func New(extraLearning, extraDistraction []string) *Classifier {
	return &Classifier{
		learningSites:    append(append([]string{}, learningSites...), extraLearning...),
		distractionSites: append(append([]string{}, distractionSites...), extraDistraction...),
	}
}

// Classify maps (hostname, title) to a category, in strict priority order:
// learning sites, then distraction sites (with a title sub-classifier for
// the video-sharing domain), then educational title keywords, else mixed.
func (c *Classifier) Classify(hostname, title string) model.Category {
	if containsAny(hostname, c.learningSites) {
		return model.CategoryLearning
	}

	if containsAny(hostname, c.distractionSites) {
		if strings.Contains(hostname, videoSharingDomain) {
			return classifyVideoTitle(title)
		}
		return model.CategoryDistraction
	}

	if hasEducationalKeyword(title) {
		return model.CategoryLearning
	}

	return model.CategoryMixed
}

// classifyVideoTitle decides the video-sharing special case: educational
// titles count as learning, everything else is distraction. The
// entertainment list is consulted for expressiveness only; the fallthrough
// result is distraction either way.
func classifyVideoTitle(title string) model.Category {
	if hasEducationalKeyword(title) {
		return model.CategoryLearning
	}

	lower := strings.ToLower(title)
	if containsAny(lower, entertainmentKeywords) {
		return model.CategoryDistraction
	}

	return model.CategoryDistraction
}

func hasEducationalKeyword(title string) bool {
	return containsAny(strings.ToLower(title), educationalKeywords)
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
