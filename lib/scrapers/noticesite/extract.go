package noticesite

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"noticeboard-migrate/lib/htmlutil"
	"noticeboard-migrate/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// The extractors in this file are pure: markup in, value out. Absence of a
// match is reported through the boolean, not an error, because the source
// pages are years of hand-edited HTML and most fields are genuinely missing
// on most pages. Only a missing title invalidates a whole record.

var articleHrefRegex = regexp.MustCompile(`href="(articles/[^"]+\.html)"`)

// ExtractArticleLinks returns the relative article paths linked from a
// listing page, de-duplicated while preserving first-seen order.
func ExtractArticleLinks(html string) []string {
	matches := articleHrefRegex.FindAllStringSubmatch(html, -1)
	seen := map[string]struct{}{}
	var links []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		links = append(links, m[1])
	}
	return links
}

var categorySegmentRegex = regexp.MustCompile(`/articles/([a-z0-9_-]+)/`)

// DiscoverCategorySegments scans a landing page for category path segments
// under the article root.
func DiscoverCategorySegments(html string) []string {
	matches := categorySegmentRegex.FindAllStringSubmatch(html, -1)
	seen := map[string]struct{}{}
	var segments []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		segments = append(segments, m[1])
	}
	return segments
}

func parseDoc(html string) (*goquery.Document, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false
	}
	return doc, true
}

// ExtractTitle tries the article-classed heading first, then any h1.
// A result under 3 characters counts as a parse failure.
func ExtractTitle(html string) (string, bool) {
	doc, ok := parseDoc(html)
	if !ok {
		return "", false
	}

	heading := doc.Find(`h1[class*="article"]`).First()
	if heading.Length() == 0 {
		heading = doc.Find("h1").First()
	}
	if heading.Length() == 0 {
		return "", false
	}

	title := textutil.StripTags(heading.Text())
	if len([]rune(title)) < 3 {
		return "", false
	}
	return title, true
}

const summaryMaxLen = 200

// ExtractSummary returns the first paragraph of the article body, falling
// back to the first paragraph under the page's main container.
func ExtractSummary(html string) string {
	doc, ok := parseDoc(html)
	if !ok {
		return ""
	}

	para := doc.Find(`div[class*="article"][class*="body"] p`).First()
	if para.Length() == 0 {
		para = doc.Find("main p").First()
	}
	if para.Length() == 0 {
		return ""
	}

	text := textutil.StripTags(para.Text())
	return textutil.Truncate(text, summaryMaxLen)
}

var bodyContainerRegex = regexp.MustCompile(
	`(?is)<div[^>]*class="[^"]*(?:article[-_]?body|post[-_]?content|entry[-_]?content)[^"]*"[^>]*>(.*?)</div>`)

// ExtractBodyMarkup returns the raw inner markup of the first container
// matching one of the known article-body class patterns. Downstream code
// converts it to structured blocks.
func ExtractBodyMarkup(html string) string {
	m := bodyContainerRegex.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return m[1]
}

var imageSrcRegex = regexp.MustCompile(
	`(?i)<img[^>]*src="([^"]*(?:uploads|images|img)[^"]*\.(?:jpe?g|png|webp))"`)

// ExtractImage returns the first img src under an images-ish path.
func ExtractImage(html string) (string, bool) {
	m := imageSrcRegex.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var articleImageRegex = regexp.MustCompile(
	`(?i)/img/articles/(item_\d+_[^"'\s]+\.(?:jpe?g|png|webp))`)

// ExtractArticleImage is the narrower variant matching the site's uploaded
// article images, which all live at /img/articles/item_<id>_<name>.<ext>.
func ExtractArticleImage(html string) (string, bool) {
	m := articleImageRegex.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return "/img/articles/" + m[1], true
}

var pdfHrefRegex = regexp.MustCompile(`(?i)href="([^"]+\.pdf)"`)

// ExtractPdfLink returns the first .pdf href on the page.
func ExtractPdfLink(html string) (string, bool) {
	m := pdfHrefRegex.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var callToActionWords = []string{
	"visit", "click", "here", "more", "info",
	"buy", "book", "register", "join", "download",
}

// ExtractExternalLink returns the first off-site link whose anchor text
// looks like a call to action.
func ExtractExternalLink(html, selfHost string) (string, bool) {
	doc, ok := parseDoc(html)
	if !ok {
		return "", false
	}

	for _, anchor := range htmlutil.GetAnchors(doc.Find("a")) {
		link, err := url.Parse(anchor.Href)
		if err != nil || (link.Scheme != "http" && link.Scheme != "https") {
			continue
		}
		if link.Hostname() == "" || strings.Contains(link.Hostname(), selfHost) {
			continue
		}
		name := strings.ToLower(textutil.Truncate(anchor.Name, 50))
		for _, word := range callToActionWords {
			if strings.Contains(name, word) {
				return anchor.Href, true
			}
		}
	}
	return "", false
}

type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
)

// Block is one unit of structured article content.
type Block struct {
	Type BlockType
	Text string
}

var (
	scriptRegex  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	headingRegex = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	paraRegex    = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
)

// ConvertBlocks walks heading and paragraph tags in document order and emits
// typed blocks of plain text. Headings and paragraphs are matched
// independently, so the merged list is re-sorted by source position. When
// the markup has no recognizable structure at all, the whole tag-stripped
// text becomes a single paragraph.
func ConvertBlocks(html string) []Block {
	html = scriptRegex.ReplaceAllString(html, "")

	type positioned struct {
		pos   int
		block Block
	}
	var found []positioned

	for _, m := range headingRegex.FindAllStringSubmatchIndex(html, -1) {
		text := textutil.StripTags(html[m[2]:m[3]])
		if text == "" {
			continue
		}
		found = append(found, positioned{
			pos:   m[0],
			block: Block{Type: BlockHeading, Text: text},
		})
	}
	for _, m := range paraRegex.FindAllStringSubmatchIndex(html, -1) {
		text := textutil.StripTags(html[m[2]:m[3]])
		if text == "" {
			continue
		}
		found = append(found, positioned{
			pos:   m[0],
			block: Block{Type: BlockParagraph, Text: text},
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].pos < found[j].pos
	})

	var blocks []Block
	for _, f := range found {
		blocks = append(blocks, f.block)
	}

	if len(blocks) == 0 {
		plain := textutil.StripTags(html)
		if plain != "" {
			blocks = append(blocks, Block{Type: BlockParagraph, Text: plain})
		}
	}

	return blocks
}
