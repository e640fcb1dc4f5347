package cv

import "image"

// Matcher locates a grayscale template inside a grayscale screen
type Matcher interface {
	Match(screen, tmpl *image.Gray, config *MatchConfig) MatchResult
	Name() string
}

// NCCMatcher is the pure Go normalized cross-correlation matcher
type NCCMatcher struct{}

func (NCCMatcher) Match(screen, tmpl *image.Gray, config *MatchConfig) MatchResult {
	return FindTemplate(screen, tmpl, config)
}

func (NCCMatcher) Name() string {
	return "ncc"
}
