package noticesite

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNumbers = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// formatDate validates a calendar date and renders it as YYYY-MM-DD.
// time.Date normalizes overflow (Feb 30 -> Mar 2), so a round-trip check
// catches impossible day numbers.
func formatDate(year int, month time.Month, day int) (string, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

var longDateRegex = regexp.MustCompile(
	`(?i)(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})`)

// ExtractLongDate finds a verbose "3 August 2024" style date. Case does not
// matter but the month must be a full English month name.
func ExtractLongDate(text string) (string, bool) {
	m := longDateRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	day, _ := strconv.Atoi(m[1])
	month := monthNumbers[strings.ToLower(m[2])]
	year, _ := strconv.Atoi(m[3])
	return formatDate(year, month, day)
}

var looseDateRegex = regexp.MustCompile(`(\d{1,2})[/\s](\w+)[/\s](\d{4})`)

// ExtractLooseDate scans free text for either "d Month yyyy" or a numeric
// "m/d/yyyy". Anything that doesn't resolve to a real calendar date is
// reported as absent, never guessed.
func ExtractLooseDate(text string) (string, bool) {
	m := looseDateRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	first, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])

	if month, ok := monthNumbers[strings.ToLower(m[2])]; ok {
		return formatDate(year, month, first)
	}

	second, err := strconv.Atoi(m[2])
	if err != nil || first < 1 || first > 12 {
		return "", false
	}
	return formatDate(year, time.Month(first), second)
}

func lastLongDate(text string) (string, bool) {
	matches := longDateRegex.FindAllStringSubmatch(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		day, _ := strconv.Atoi(m[1])
		month := monthNumbers[strings.ToLower(m[2])]
		year, _ := strconv.Atoi(m[3])
		if date, ok := formatDate(year, month, day); ok {
			return date, true
		}
	}
	return "", false
}

var datedHrefRegex = regexp.MustCompile(`href="(/?articles/[^"]+\.html)"`)

const (
	snippetBefore = 400
	snippetAfter  = 600
)

// ScanListingDates walks every article link on a listing page and looks for
// a verbose date in the text surrounding the link. The first successfully
// parsed date for a slug wins; later hits for the same slug are ignored.
func ScanListingDates(html string, dates map[string]string) {
	for _, m := range datedHrefRegex.FindAllStringSubmatchIndex(html, -1) {
		path := html[m[2]:m[3]]
		slug := SlugFromArticlePath(path)
		if slug == "" {
			continue
		}

		start := m[0] - snippetBefore
		if start < 0 {
			start = 0
		}
		end := m[0] + snippetAfter
		if end > len(html) {
			end = len(html)
		}

		// the date closest to the link is the one that belongs to it:
		// last one before the href, else first one after
		date, ok := lastLongDate(html[start:m[0]])
		if !ok {
			date, ok = ExtractLongDate(html[m[0]:end])
		}
		if !ok {
			continue
		}
		if _, exists := dates[slug]; !exists {
			dates[slug] = date
		}
	}
}

// SlugFromArticlePath derives the article slug from a path like
// "articles/community/some-notice.html".
func SlugFromArticlePath(path string) string {
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]
	return strings.TrimSuffix(last, ".html")
}

type sitemapUrl struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapUrlSet struct {
	Urls []sitemapUrl `xml:"url"`
}

// ParseSitemap extracts a slug -> date map from sitemap XML, keeping only
// article urls that carry a lastmod date.
func ParseSitemap(body string) map[string]string {
	var set sitemapUrlSet
	err := xml.Unmarshal([]byte(body), &set)
	if err != nil {
		return map[string]string{}
	}

	dates := map[string]string{}
	for _, u := range set.Urls {
		loc := strings.TrimSpace(u.Loc)
		if !strings.Contains(loc, "/articles/") {
			continue
		}
		slug := SlugFromArticlePath(loc)
		if slug == "" {
			continue
		}
		mod := strings.TrimSpace(u.LastMod)
		if len(mod) < 10 {
			continue
		}
		dates[slug] = mod[:10]
	}
	return dates
}
