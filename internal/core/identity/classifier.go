// Package identity holds the pure half of order identifier handling: telling
// a surrogate key from a human number and building the either-form match
// used against tables whose os_id column holds both.
package identity

import "regexp"

var surrogatePattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsSurrogateShape reports whether id is written as a canonical 8-4-4-4-12
// hex uuid. Braced, urn-prefixed and unhyphenated forms are rejected.
func IsSurrogateShape(id string) bool {
	if len(id) != 36 {
		return false
	}
	return surrogatePattern.MatchString(id)
}
