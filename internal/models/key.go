package models

import "strings"

// Slug lowercases name and collapses every run of non-alphanumeric
// characters into a single dash.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ExerciseKey identifies an exercise across history: its id when set,
// otherwise a slug of its name.
func ExerciseKey(id, name string) string {
	if id != "" {
		return id
	}
	return Slug(name)
}
