package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

var nonAlphanumericRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable, url-safe identifier from a title.
// Applying it to its own output returns the same string.
func Slugify(text string) string {
	text = strings.ToLower(text)
	text = nonAlphanumericRuns.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// entity replacements for the handful of entities that actually show up
// in the legacy site's markup. full entity decoding is overkill here.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&ndash;", "–",
	"&pound;", "£",
	"&#39;", "'",
	"&quot;", `"`,
)

func DecodeEntities(text string) string {
	return entityReplacer.Replace(text)
}

var tagRegex = regexp.MustCompile(`<[^>]+>`)

// StripTags removes markup tags and collapses the leftover whitespace.
func StripTags(markup string) string {
	text := tagRegex.ReplaceAllString(markup, " ")
	text = DecodeEntities(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.Trim(text, " \n\t")
}

// Truncate cuts text to at most max runes without splitting a rune.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
