package identity

import (
	"fmt"
	"strconv"
)

// Predicate matches a row whose os_id-style column equals either the
// identifier the caller received or the key it resolved to.
type Predicate struct {
	Original string
	Resolved string
}

// BuildOrPredicate never fails; original == resolved yields a degenerate
// but valid predicate.
func BuildOrPredicate(original, resolved string) Predicate {
	return Predicate{Original: original, Resolved: resolved}
}

func (p Predicate) Matches(v string) bool {
	return v == p.Original || v == p.Resolved
}

// Degenerate reports whether both sides are the same value.
func (p Predicate) Degenerate() bool { return p.Original == p.Resolved }

// Values returns the distinct values, original first.
func (p Predicate) Values() []string {
	if p.Degenerate() {
		return []string{p.Original}
	}
	return []string{p.Original, p.Resolved}
}

// Placeholder renders the n-th (1-based) bind parameter of a dialect.
type Placeholder func(n int) string

var (
	Dollar   Placeholder = func(n int) string { return "$" + strconv.Itoa(n) }
	Question Placeholder = func(int) string { return "?" }
)

// SQL renders "(column = $n OR column = $n+1)" and its two args. column is
// interpolated as is and must come from code, never from input.
func (p Predicate) SQL(column string, ph Placeholder, next int) (string, []any) {
	clause := fmt.Sprintf("(%s = %s OR %s = %s)", column, ph(next), column, ph(next+1))
	return clause, []any{p.Original, p.Resolved}
}
