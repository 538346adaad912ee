package feedback

import (
	"fmt"
	"strings"
)

// SpeakingContext tells the feedback service what kind of talk was recorded.
type SpeakingContext string

// Supported speaking contexts.
const (
	General      SpeakingContext = "general"
	Presentation SpeakingContext = "presentation"
	Interview    SpeakingContext = "interview"
	Meeting      SpeakingContext = "meeting"
	Pitch        SpeakingContext = "pitch"
	Lecture      SpeakingContext = "lecture"
	Podcast      SpeakingContext = "podcast"
	Storytelling SpeakingContext = "storytelling"
	Debate       SpeakingContext = "debate"
)

var contextLabels = map[SpeakingContext]string{
	General:      "General Speaking",
	Presentation: "Business Presentation",
	Interview:    "Job Interview",
	Meeting:      "Team Meeting",
	Pitch:        "Sales Pitch",
	Lecture:      "Teaching/Lecture",
	Podcast:      "Podcast/Interview",
	Storytelling: "Storytelling",
	Debate:       "Debate/Discussion",
}

// Contexts returns every supported context in display order.
func Contexts() []SpeakingContext {
	return []SpeakingContext{
		General, Presentation, Interview, Meeting, Pitch,
		Lecture, Podcast, Storytelling, Debate,
	}
}

// Valid reports whether c is a supported context.
func (c SpeakingContext) Valid() bool {
	_, ok := contextLabels[c]
	return ok
}

// Label returns the human-readable name.
func (c SpeakingContext) Label() string {
	return contextLabels[c]
}

// ParseContext parses a context name. An empty string means General.
func ParseContext(s string) (SpeakingContext, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return General, nil
	}
	c := SpeakingContext(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidContext, s)
	}
	return c, nil
}
