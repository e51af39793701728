// internal/rating/rating.go
//
// The 7-symbol rating scale used for every questionnaire item:
// N/A plus the integers 0 through 5. N/A means "no valid response on
// the paper" and is excluded from every numeric aggregate.

package rating

import "strings"

// Rating is one symbol of the closed scale.
type Rating string

// NotApplicable is the sentinel for missing, illegible or crossed-out
// responses. It is never coerced to zero.
const NotApplicable Rating = "N/A"

// Scale lists the symbols in display order.
var Scale = []Rating{NotApplicable, "0", "1", "2", "3", "4", "5"}

// Valid reports whether r belongs to the scale.
func (r Rating) Valid() bool {
	for _, s := range Scale {
		if r == s {
			return true
		}
	}
	return false
}

// Score returns the numeric value of r. The second result is false for
// N/A and for anything outside the scale.
func (r Rating) Score() (int, bool) {
	switch r {
	case "0", "1", "2", "3", "4", "5":
		return int(r[0] - '0'), true
	default:
		return 0, false
	}
}

// Parse normalizes free text read back from storage. Out-of-set values
// degrade to N/A; that leniency is deliberate, a foreign cell must not
// abort a read.
func Parse(s string) Rating {
	r := Rating(strings.TrimSpace(s))
	if r.Valid() {
		return r
	}
	return NotApplicable
}

// DuplicatePolicy decides how a double-marked paper item is transcribed:
// keep the higher score or discard the response entirely.
type DuplicatePolicy string

const (
	DuplicateNotApplicable DuplicatePolicy = "not-applicable"
	DuplicateHigher        DuplicatePolicy = "higher"
)

// ParsePolicy normalizes a config value, defaulting to not-applicable.
func ParsePolicy(s string) DuplicatePolicy {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case DuplicateHigher:
		return DuplicateHigher
	default:
		return DuplicateNotApplicable
	}
}

// ResolveDuplicate applies the duplicate policy to two marks found on
// the same item. N/A on either side never wins under the higher policy
// unless both marks are N/A.
func ResolveDuplicate(a, b Rating, policy DuplicatePolicy) Rating {
	if policy != DuplicateHigher {
		return NotApplicable
	}
	av, aok := a.Score()
	bv, bok := b.Score()
	switch {
	case aok && bok:
		if bv > av {
			return b
		}
		return a
	case aok:
		return a
	case bok:
		return b
	default:
		return NotApplicable
	}
}
