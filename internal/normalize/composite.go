// internal/normalize/composite.go
package normalize

import (
	"regexp"
	"strings"
)

// Joiner is the semantics of a composite qualification string.
type Joiner string

const (
	JoinerAnd Joiner = "and"
	JoinerOr  Joiner = "or"
)

var (
	splitPattern = regexp.MustCompile(`(?i)\s+(?:and|or)\s+|\s*,\s*`)
	andPattern   = regexp.MustCompile(`(?i)\s+and\s+`)
)

// SplitQualifiers splits a possibly composite string ("BS Accounting or
// BSBA major in Finance") into its alternatives and reports the joiner
// semantics observed in the input. A comma-only list defaults to "or".
// The same parsing is used by the scoring algorithms' list-expression
// logic, so reconstructed composites stay structurally round-trippable.
func SplitQualifiers(raw string) ([]string, Joiner) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, JoinerOr
	}

	joiner := JoinerOr
	if andPattern.MatchString(trimmed) {
		joiner = JoinerAnd
	}

	parts := splitPattern.Split(trimmed, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, joiner
}

// JoinQualifiers reconstructs a composite string with the given joiner.
func JoinQualifiers(parts []string, joiner Joiner) string {
	return strings.Join(parts, " "+string(joiner)+" ")
}
