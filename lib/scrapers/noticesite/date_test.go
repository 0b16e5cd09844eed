package noticesite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractLongDate(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
		ok       bool
	}{
		{
			text:     "Join us on 3 August 2024 at the hall",
			expected: "2024-08-03",
			ok:       true,
		},
		{
			text:     "03 august 2024",
			expected: "2024-08-03",
			ok:       true,
		},
		{
			text: "32 Smarch 2024",
			ok:   false,
		},
		{
			text: "32 August 2024",
			ok:   false,
		},
		{
			text: "no date here at all",
			ok:   false,
		},
		{
			text:     "deadline 29 February 2024",
			expected: "2024-02-29",
			ok:       true,
		},
		{
			text: "29 February 2023",
			ok:   false,
		},
	}

	for _, tc := range testCases {
		got, ok := ExtractLongDate(tc.text)
		if ok != tc.ok {
			t.Fatalf("ExtractLongDate(%q) ok = %v, expected %v", tc.text, ok, tc.ok)
		}
		if got != tc.expected {
			t.Fatalf("ExtractLongDate(%q) = %q, expected %q", tc.text, got, tc.expected)
		}
	}
}

func TestExtractLooseDate(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
		ok       bool
	}{
		{
			text:     "Posted 3/8/2024",
			expected: "2024-03-08",
			ok:       true,
		},
		{
			text:     "on 12 June 2023, the shop",
			expected: "2023-06-12",
			ok:       true,
		},
		{
			text: "version 13/40/2024",
			ok:   false,
		},
		{
			text: "nothing dated",
			ok:   false,
		},
	}

	for _, tc := range testCases {
		got, ok := ExtractLooseDate(tc.text)
		if ok != tc.ok {
			t.Fatalf("ExtractLooseDate(%q) ok = %v, expected %v", tc.text, ok, tc.ok)
		}
		if got != tc.expected {
			t.Fatalf("ExtractLooseDate(%q) = %q, expected %q", tc.text, got, tc.expected)
		}
	}
}

func TestScanListingDatesFirstWriteWins(t *testing.T) {
	html := `
		<li>3 August 2024 <a href="/articles/community/soup-kitchen.html">Soup Kitchen</a></li>
		<li>9 September 2024 <a href="/articles/support/soup-kitchen.html">Soup Kitchen (repost)</a></li>
		<li>1 January 2025 <a href="articles/shopping/bakery-sale.html">Bakery Sale</a></li>
	`
	dates := map[string]string{}
	ScanListingDates(html, dates)

	expected := map[string]string{
		"soup-kitchen": "2024-08-03",
		"bakery-sale":  "2025-01-01",
	}
	if diff := cmp.Diff(expected, dates); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseSitemap(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<url>
		<loc>https://example.org/articles/community/soup-kitchen.html</loc>
		<lastmod>2024-08-03T12:00:00+00:00</lastmod>
	</url>
	<url>
		<loc>https://example.org/about.html</loc>
		<lastmod>2024-01-01</lastmod>
	</url>
	<url>
		<loc>https://example.org/articles/shopping/bakery-sale.html</loc>
	</url>
</urlset>`

	expected := map[string]string{
		"soup-kitchen": "2024-08-03",
	}
	if diff := cmp.Diff(expected, ParseSitemap(body)); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseSitemapBadXml(t *testing.T) {
	dates := ParseSitemap("<urlset><url><loc>broken")
	if len(dates) != 0 {
		t.Fatalf("expected empty map, got %v", dates)
	}
}
