package wizard

import "strings"

// Slugify lowercases the title, collapses every run of non-alphanumeric
// characters into a single hyphen, and trims leading/trailing hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// DeriveSlug regenerates the slug from the title while the record is new.
// Once the record exists, the slug stays whatever it already is.
func DeriveSlug(isNew bool, title, current string) string {
	if !isNew {
		return current
	}
	return Slugify(title)
}
