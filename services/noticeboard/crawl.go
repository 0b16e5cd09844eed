package noticeboard

import (
	"context"
	"fmt"
	"log/slog"

	"noticeboard-migrate/lib/scrapers/noticesite"
)

const (
	// EmptyRunThreshold is how many consecutive content-less pages signal
	// end of pagination.
	EmptyRunThreshold = 2
	// PageCeiling guards against infinite pagination on malformed sites.
	PageCeiling = 30
)

// SeedCategories is the known set of category path segments. The crawl may
// discover more from the landing pages; discovered segments are appended
// as-is, with no synonym merging.
var SeedCategories = []string{
	"community", "education", "entertainment", "government", "support", "shopping",
	"announcements", "local-guidance", "local-shops", "shop-announcements",
	"cateringtake-away", "kosher-outdoor-dining", "gifts", "outings-and-activities",
	"kashrus", "halacha", "wellbeing", "women", "parenting", "gemachim",
	"childrens-education", "information-for-educators", "beis-hamikdosh",
	"organisations", "volunteering", "purim", "pesach", "recipes", "travel",
	"work-avenue", "business-directory", "online-events", "shiurim", "parsha",
}

// Crawler drives repeated fetch/extract cycles over the source site's
// listing pages.
type Crawler struct {
	Client *noticesite.Client
}

func listingPageUrl(category string, page int) string {
	base := "/articles/"
	if category != "" {
		base = fmt.Sprintf("/articles/%s/", category)
	}
	if page == 1 {
		return base
	}
	return fmt.Sprintf("%s?page=%d", base, page)
}

// CollectArticleLinks paginates the top-level listing, accumulating a flat
// ordered set of article paths. Pagination stops once the empty-run
// threshold or the page ceiling is reached.
func (c Crawler) CollectArticleLinks(ctx context.Context) []string {
	seen := map[string]struct{}{}
	var links []string

	emptyRun := 0
	for page := 1; emptyRun < EmptyRunThreshold && page <= PageCeiling; page++ {
		html, ok := c.Client.FetchText(ctx, listingPageUrl("", page))
		if !ok {
			emptyRun++
			c.Client.Pace(ctx)
			continue
		}

		pageLinks := noticesite.ExtractArticleLinks(html)
		if len(pageLinks) == 0 {
			emptyRun++
		} else {
			emptyRun = 0
			for _, link := range pageLinks {
				if _, dup := seen[link]; dup {
					continue
				}
				seen[link] = struct{}{}
				links = append(links, link)
			}
			slog.InfoContext(ctx, "collected listing page",
				"page", page, "links", len(pageLinks), "total", len(links))
		}
		c.Client.Pace(ctx)
	}

	return links
}

// ScrapeArticle fetches one article page and extracts a record from it.
// A missing or too-short title invalidates the whole record.
func (c Crawler) ScrapeArticle(ctx context.Context, path string) (Record, bool) {
	html, ok := c.Client.FetchText(ctx, "/"+path)
	if !ok {
		return Record{}, false
	}

	title, ok := noticesite.ExtractTitle(html)
	if !ok {
		return Record{}, false
	}

	record := Record{
		Title:      title,
		Summary:    noticesite.ExtractSummary(html),
		SourcePath: path,
		Category:   CategoryTitleForPath(path),
	}

	if date, ok := noticesite.ExtractLooseDate(html); ok {
		record.Date = date
	}
	record.ContentHtml = noticesite.ExtractBodyMarkup(html)
	if link, ok := noticesite.ExtractExternalLink(html, c.Client.BaseUrl.Hostname()); ok {
		record.ExternalLink = link
	}
	if pdf, ok := noticesite.ExtractPdfLink(html); ok {
		record.PdfUrl = c.Client.AbsoluteUrl(pdf)
	}
	img, ok := noticesite.ExtractArticleImage(html)
	if !ok {
		img, ok = noticesite.ExtractImage(html)
	}
	if ok {
		record.ImageUrl = c.Client.AbsoluteUrl(img)
	}

	return record, true
}

// ScrapeAll runs discovery then scrapes every discovered article. The
// result map is keyed by slug; the first record scraped for a slug wins and
// later ones for the same slug are dropped. Records come back in discovery
// order.
func (c Crawler) ScrapeAll(ctx context.Context) []Record {
	links := c.CollectArticleLinks(ctx)
	slog.InfoContext(ctx, "discovered article links", "count", len(links))

	bySlug := map[string]struct{}{}
	var records []Record
	for i, link := range links {
		record, ok := c.ScrapeArticle(ctx, link)
		c.Client.Pace(ctx)
		if !ok {
			continue
		}
		slug := record.Slug()
		if _, dup := bySlug[slug]; dup {
			continue
		}
		bySlug[slug] = struct{}{}
		records = append(records, record)

		if (i+1)%20 == 0 {
			slog.InfoContext(ctx, "scrape progress", "fetched", i+1, "total", len(links), "valid", len(records))
		}
	}
	return records
}

// DiscoverCategories scans the landing pages for category path segments and
// appends any the seed list doesn't already have. No synonym detection is
// attempted; a differently-spelled variant of an existing category is kept
// as its own channel.
func (c Crawler) DiscoverCategories(ctx context.Context, seed []string) []string {
	known := map[string]struct{}{}
	categories := make([]string, 0, len(seed))
	for _, cat := range seed {
		known[cat] = struct{}{}
		categories = append(categories, cat)
	}

	for _, page := range []string{"/categories/", "/"} {
		html, ok := c.Client.FetchText(ctx, page)
		if !ok {
			continue
		}
		for _, segment := range noticesite.DiscoverCategorySegments(html) {
			if _, dup := known[segment]; dup {
				continue
			}
			known[segment] = struct{}{}
			categories = append(categories, segment)
			slog.InfoContext(ctx, "discovered category segment", "segment", segment)
		}
	}
	return categories
}

// CollectCategoryDates crawls every category channel's listing pages and
// builds a slug -> publish date map from the text around each article link.
// The first date seen for a slug wins.
func (c Crawler) CollectCategoryDates(ctx context.Context, categories []string) map[string]string {
	dates := map[string]string{}

	for _, category := range categories {
		pagesScraped := 0
		emptyRun := 0
		for page := 1; emptyRun < EmptyRunThreshold && page <= PageCeiling; page++ {
			html, ok := c.Client.FetchText(ctx, listingPageUrl(category, page))
			if !ok {
				emptyRun++
				c.Client.Pace(ctx)
				continue
			}

			// each page is parsed in isolation: listings overlap across
			// categories, and a page of already-seen dated links is still
			// a content page, not the end of the channel
			pageDates := map[string]string{}
			noticesite.ScanListingDates(html, pageDates)
			if len(pageDates) == 0 {
				emptyRun++
			} else {
				emptyRun = 0
				pagesScraped++
				for slug, date := range pageDates {
					if _, exists := dates[slug]; !exists {
						dates[slug] = date
					}
				}
			}
			c.Client.Pace(ctx)
		}
		if pagesScraped > 0 {
			slog.InfoContext(ctx, "scanned category for dates",
				"category", category, "pages", pagesScraped, "dates", len(dates))
		}
	}

	return dates
}
