// Package tier centralizes subscription tier parsing and the capability
// rules derived from it. All tier comparisons in the codebase go through
// this package instead of ad hoc string checks.
package tier

import "strings"

type Tier string

const (
	Basic   Tier = "Basic"
	Premium Tier = "Premium"
	Elite   Tier = "Elite"
)

// rank orders tiers for minimum-tier checks.
var rank = map[Tier]int{
	Basic:   0,
	Premium: 1,
	Elite:   2,
}

// Parse normalizes a stored tier string. Unknown or empty values fall back
// to Basic.
func Parse(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "premium":
		return Premium
	case "elite":
		return Elite
	default:
		return Basic
	}
}

// AtLeast reports whether t grants at least the capabilities of min.
func (t Tier) AtLeast(min Tier) bool {
	return rank[t] >= rank[min]
}

// SeesLikerIdentities reports whether the tier may see who liked them,
// rather than only a count.
func (t Tier) SeesLikerIdentities() bool {
	return t == Premium || t == Elite
}

// Shape applies tier visibility to a "who likes you" result. Premium and
// Elite keep the full identity list; Basic gets an empty list plus the count.
// Only the likes-you read path goes through Shape: match lists are always
// mutually visible.
func Shape[T any](t Tier, full []T) (identities []T, count int) {
	if t.SeesLikerIdentities() {
		return full, len(full)
	}
	return nil, len(full)
}
