package orchestrator

import (
	"fmt"
	"regexp"
)

// UnknownCreator is returned when a description carries no creator marker.
const UnknownCreator = "Unknown"

// The remote object model has no native "created by" field, so the creator
// is embedded in the free-text description at creation time and recovered
// by pattern matching here. This is a lossy, best-effort convention: only a
// contiguous run of word characters is captured, so "first.last" yields
// "first".
var creatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(Created by:\s*(\w+)\)`),
	regexp.MustCompile(`(?i)Created by:\s*(\w+)`),
	regexp.MustCompile(`(?i)User:\s*(\w+)`),
	regexp.MustCompile(`(?i)By:\s*(\w+)`),
}

// ExtractCreator recovers the creator username from a snapshot description,
// or UnknownCreator when no marker matches.
func ExtractCreator(description string) string {
	if description == "" {
		return UnknownCreator
	}
	for _, pattern := range creatorPatterns {
		if m := pattern.FindStringSubmatch(description); m != nil {
			return m[1]
		}
	}
	return UnknownCreator
}

// AnnotateCreator appends the creator marker that ExtractCreator will later
// recover.
func AnnotateCreator(description, user string) string {
	return fmt.Sprintf("%s (Created by: %s)", description, user)
}
