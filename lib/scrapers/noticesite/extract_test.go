package noticesite

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractArticleLinks(t *testing.T) {
	html := `
		<a href="articles/community/soup-kitchen.html">Soup Kitchen</a>
		<a href="articles/shopping/bakery-sale.html">Bakery Sale</a>
		<a href="articles/community/soup-kitchen.html">Soup Kitchen again</a>
		<a href="about.html">About</a>
	`
	expected := []string{
		"articles/community/soup-kitchen.html",
		"articles/shopping/bakery-sale.html",
	}
	if diff := cmp.Diff(expected, ExtractArticleLinks(html)); diff != "" {
		t.Fatal(diff)
	}
}

func TestDiscoverCategorySegments(t *testing.T) {
	html := `
		<a href="/articles/community/">Community</a>
		<a href="/articles/kosher-outdoor-dining/">Dining</a>
		<a href="/articles/community/">Community again</a>
	`
	expected := []string{"community", "kosher-outdoor-dining"}
	if diff := cmp.Diff(expected, DiscoverCategorySegments(html)); diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractTitle(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected string
		ok       bool
	}{
		{
			name:     "article classed heading preferred",
			html:     `<h1>Site Banner</h1><h1 class="article-title">Soup &amp; Kitchen</h1>`,
			expected: "Soup & Kitchen",
			ok:       true,
		},
		{
			name:     "fallback to any h1",
			html:     `<div><h1>  Bakery   Sale </h1></div>`,
			expected: "Bakery Sale",
			ok:       true,
		},
		{
			name: "too short is a parse failure",
			html: `<h1>ok</h1>`,
			ok:   false,
		},
		{
			name: "no heading at all",
			html: `<p>just a paragraph</p>`,
			ok:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractTitle(tc.html)
			if ok != tc.ok {
				t.Fatalf("ok = %v, expected %v", ok, tc.ok)
			}
			if tc.ok && got != tc.expected {
				t.Fatalf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestExtractTitlePrefersArticleClass(t *testing.T) {
	html := `<h1 class="article-heading">The Real Title</h1><h1>Something Else</h1>`
	got, ok := ExtractTitle(html)
	if !ok || got != "The Real Title" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestExtractSummary(t *testing.T) {
	html := `
		<main><p>Outer paragraph.</p></main>
		<div class="article-body">
			<p>First body paragraph with &amp; entity.</p>
			<p>Second paragraph.</p>
		</div>
	`
	got := ExtractSummary(html)
	if got != "First body paragraph with & entity." {
		t.Fatalf("got %q", got)
	}
}

func TestExtractSummaryFallbackAndTruncation(t *testing.T) {
	long := strings.Repeat("word ", 60)
	html := `<main><p>` + long + `</p></main>`
	got := ExtractSummary(html)
	if len([]rune(got)) != summaryMaxLen {
		t.Fatalf("expected %d chars, got %d", summaryMaxLen, len([]rune(got)))
	}
}

func TestExtractBodyMarkup(t *testing.T) {
	html := `<div class="post-content"><h3>Hours</h3><p>Open daily.</p></div>`
	got := ExtractBodyMarkup(html)
	if got != "<h3>Hours</h3><p>Open daily.</p>" {
		t.Fatalf("got %q", got)
	}

	if got := ExtractBodyMarkup("<div class='unrelated'>x</div>"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestExtractImage(t *testing.T) {
	html := `<img src="/img/articles/item_358_shiur.jpg" alt="">`
	got, ok := ExtractImage(html)
	if !ok || got != "/img/articles/item_358_shiur.jpg" {
		t.Fatalf("got %q ok=%v", got, ok)
	}

	_, ok = ExtractImage(`<img src="/icons/logo.svg">`)
	if ok {
		t.Fatal("svg outside images path should not match")
	}
}

func TestExtractArticleImage(t *testing.T) {
	html := `<body><img src="/img/articles/item_4301_radish-alert.png"></body>`
	got, ok := ExtractArticleImage(html)
	if !ok || got != "/img/articles/item_4301_radish-alert.png" {
		t.Fatalf("got %q ok=%v", got, ok)
	}

	_, ok = ExtractArticleImage(`<img src="/img/banner.png">`)
	if ok {
		t.Fatal("non-item image should not match")
	}
}

func TestExtractPdfLink(t *testing.T) {
	got, ok := ExtractPdfLink(`<a href="/files/timetable.PDF">timetable</a>`)
	if !ok || got != "/files/timetable.PDF" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestExtractExternalLink(t *testing.T) {
	html := `
		<a href="https://example.org/articles/x.html">internal</a>
		<a href="https://tickets.example.com/event">Book here</a>
	`
	got, ok := ExtractExternalLink(html, "example.org")
	if !ok || got != "https://tickets.example.com/event" {
		t.Fatalf("got %q ok=%v", got, ok)
	}

	_, ok = ExtractExternalLink(`<a href="https://other.example.com/">plain link</a>`, "example.org")
	if ok {
		t.Fatal("link without call-to-action text should not match")
	}
}

func TestConvertBlocks(t *testing.T) {
	blocks := ConvertBlocks(`<h3>Heading</h3><p>Body</p>`)
	expected := []Block{
		{Type: BlockHeading, Text: "Heading"},
		{Type: BlockParagraph, Text: "Body"},
	}
	if diff := cmp.Diff(expected, blocks); diff != "" {
		t.Fatal(diff)
	}
}

func TestConvertBlocksInterleaved(t *testing.T) {
	html := `<p>intro</p><h3>One</h3><p>first</p><h3>Two</h3><p></p><p>second</p>`
	blocks := ConvertBlocks(html)
	expected := []Block{
		{Type: BlockParagraph, Text: "intro"},
		{Type: BlockHeading, Text: "One"},
		{Type: BlockParagraph, Text: "first"},
		{Type: BlockHeading, Text: "Two"},
		{Type: BlockParagraph, Text: "second"},
	}
	if diff := cmp.Diff(expected, blocks); diff != "" {
		t.Fatal(diff)
	}
}

func TestConvertBlocksFallbackParagraph(t *testing.T) {
	blocks := ConvertBlocks(`<div><span>loose text</span> only</div>`)
	expected := []Block{
		{Type: BlockParagraph, Text: "loose text only"},
	}
	if diff := cmp.Diff(expected, blocks); diff != "" {
		t.Fatal(diff)
	}

	if got := ConvertBlocks(`<script>var x = 1;</script>`); got != nil {
		t.Fatalf("expected no blocks, got %v", got)
	}
}
