package models

import "regexp"

// urlRegex matches the first URL-looking substring in a message.
var urlRegex = regexp.MustCompile(`(?i)https?://[^\s"'<>()\[\],]+`)

// ExtractFirstURL returns the first URL found in text, or "".
func ExtractFirstURL(text string) string {
	return urlRegex.FindString(text)
}
