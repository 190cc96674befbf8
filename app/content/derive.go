package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	ExcerptLength  = 200
	CharsPerMinute = 500
)

var markdownMarkers = regexp.MustCompile("[#*_`~>]+")

// Excerpt strips markdown markers, collapses whitespace and keeps the first
// ExcerptLength characters, appending "..." when the text was cut.
func Excerpt(body string) string {
	plain := markdownMarkers.ReplaceAllString(body, "")
	plain = strings.Join(strings.Fields(plain), " ")

	if utf8.RuneCountInString(plain) <= ExcerptLength {
		return plain
	}
	return string([]rune(plain)[:ExcerptLength]) + "..."
}

// ReadTime estimates reading time in minutes from the character count, minimum 1.
func ReadTime(body string) int {
	chars := utf8.RuneCountInString(body)
	minutes := (chars + CharsPerMinute - 1) / CharsPerMinute
	return max(minutes, 1)
}

// Tags returns the trimmed, non-empty keywords without duplicates, in order.
func Tags(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	tags := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		tags = append(tags, k)
	}
	return tags
}
