package conversation

import (
	"regexp"
	"strings"
)

// cuePattern matches the anaphoric words that pull context forward.
var cuePattern = regexp.MustCompile(`\b(them|that|those|it|these)\b`)

// ResolveReference returns the previous turn's context when the question
// refers back to it ("how about directors for them?"). Only the single
// most recent turn is consulted; there is no multi-turn coreference.
// Returns ok=false when the question stands on its own.
func ResolveReference(question string, s *Session) (Context, bool) {
	if s == nil || len(s.turns) == 0 {
		return Context{}, false
	}
	if !cuePattern.MatchString(strings.ToLower(question)) {
		return Context{}, false
	}

	ctx := s.CurrentContext()
	if len(ctx.LastFunctions) == 0 && len(ctx.LastLevels) == 0 {
		return Context{}, false
	}
	return ctx, true
}
