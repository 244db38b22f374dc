package validation

import "strings"

// Sanitize trims surrounding whitespace and strips the angle-bracket
// characters from free-text input before it is validated or stored.
// Passwords must never go through here: special characters have to reach
// the auth provider verbatim.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	return strings.NewReplacer("<", "", ">", "").Replace(trimmed)
}

// SplitTags turns a comma-separated tags input into a clean slice.
// Entries are trimmed and blank entries are dropped, so an input of only
// commas and whitespace yields no tags at all.
func SplitTags(input string) []string {
	var tags []string
	for _, part := range strings.Split(input, ",") {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
