// Package intent decides whether a conversation has enough context to
// generate a roadmap.
package intent

import (
	"strings"

	"github.com/swaggyashwin/pathfinder/internal/model"
)

// MinContextWords is the word count a message needs to carry enough context
// on its own.
const MinContextWords = 5

// KeywordSet holds the phrase lists the classifier matches against.
type KeywordSet struct {
	// Career phrases signal a career intent.
	Career []string
	// Roles are role nouns that also signal a career intent.
	Roles []string
	// Triggers ask for the roadmap to be generated.
	Triggers []string
}

// Keywords is the default keyword set.
var Keywords = KeywordSet{
	Career:   []string{"want to be", "become", "transition", "switch", "career", "learn", "study", "roadmap", "help me", "guide me"},
	Roles:    []string{"engineer", "developer", "designer", "analyst", "scientist", "manager", "photographer", "writer", "marketer"},
	Triggers: []string{"yes", "create", "generate", "make", "build", "ready", "go ahead", "let's do it", "sounds good"},
}

// Classifier inspects the current message and prior turns.
type Classifier struct {
	keywords KeywordSet
	minWords int
}

// NewClassifier creates a classifier with the default keywords.
func NewClassifier() *Classifier {
	return &Classifier{keywords: Keywords, minWords: MinContextWords}
}

// Classify returns DecisionGenerate or DecisionAskMore. prior must not
// include the message being classified; it is only read.
func (c *Classifier) Classify(message string, prior []model.Turn) model.Decision {
	lower := strings.ToLower(message)

	if containsAny(lower, c.keywords.Triggers) {
		earlier := strings.ToLower(model.UserTurns(prior))
		if c.hasCareerSignal(earlier) {
			return model.DecisionGenerate
		}
	}

	if c.hasCareerSignal(lower) && len(strings.Fields(message)) >= c.minWords {
		return model.DecisionGenerate
	}
	return model.DecisionAskMore
}

// hasCareerSignal reports whether lower mentions a career phrase or role noun.
func (c *Classifier) hasCareerSignal(lower string) bool {
	return containsAny(lower, c.keywords.Career) || containsAny(lower, c.keywords.Roles)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
