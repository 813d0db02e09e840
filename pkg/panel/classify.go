package panel

import (
	"regexp"
	"strings"
)

// DeathType is the classified cause of a death in custody.
type DeathType string

const (
	DeathNatural       DeathType = "Natural causes"
	DeathSelfInflicted DeathType = "Self-inflicted"
	DeathOther         DeathType = "Other"
)

// causeRules classify the free-text cause field. The rules are a fixed
// heuristic, not a learned classifier, and their order matters because
// patterns can overlap: the first match wins. Anything unmatched falls
// through to Other (source data also records homicides; they land in
// Other under the three-bucket scheme).
var causeRules = []struct {
	re   *regexp.Regexp
	kind DeathType
}{
	{regexp.MustCompile(`(?i)natural\s*causes?`), DeathNatural},
	{regexp.MustCompile(`(?i)self.?inflicted`), DeathSelfInflicted},
	{regexp.MustCompile(`(?i)other`), DeathOther},
}

// ClassifyCause maps a raw cause-of-death string to its three-bucket
// classification.
func ClassifyCause(cause string) DeathType {
	cause = strings.TrimSpace(cause)
	for _, rule := range causeRules {
		if rule.re.MatchString(cause) {
			return rule.kind
		}
	}
	return DeathOther
}
