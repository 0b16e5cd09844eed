package noticeboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"noticeboard-migrate/lib/scrapers/noticesite"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// fixtureSite serves a small static noticeboard: three listing pages with
// links, empty pages after that, and the three article pages themselves.
func fixtureSite(t *testing.T, pagesRequested map[int]int) *noticesite.Client {
	t.Helper()

	listings := map[int]string{
		1: `<a href="articles/support/soup-kitchen-reopens.html">Soup Kitchen Reopens</a>`,
		2: `<a href="articles/shopping/bakery-sale.html">Bakery Sale</a>
			<a href="articles/support/soup-kitchen-reopens.html">Soup Kitchen Reopens</a>`,
		3: `<a href="articles/purim/purim-carnival.html">Purim Carnival</a>`,
	}
	articles := map[string]string{
		"/articles/support/soup-kitchen-reopens.html": `<html><body>
			<h1 class="article-title">Soup Kitchen Reopens</h1>
			<div class="article-body"><p>Reopening on 3 August 2024.</p></div>
			</body></html>`,
		"/articles/shopping/bakery-sale.html": `<html><body>
			<h1>Bakery Sale</h1>
			<div class="post-content"><h3>When</h3><p>This Sunday.</p></div>
			</body></html>`,
		"/articles/purim/purim-carnival.html": `<html><body>
			<h1>Purim Carnival</h1>
			<main><p>Games and prizes for everyone.</p></main>
			</body></html>`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if article, ok := articles[r.URL.Path]; ok {
			fmt.Fprint(w, article)
			return
		}
		if r.URL.Path == "/articles/" {
			page := 1
			if p := r.URL.Query().Get("page"); p != "" {
				page, _ = strconv.Atoi(p)
			}
			if pagesRequested != nil {
				pagesRequested[page]++
			}
			fmt.Fprint(w, listings[page])
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := noticesite.NewClient(context.Background(), noticesite.ClientOptions{
		BaseUrl: server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestCollectArticleLinksTermination(t *testing.T) {
	pagesRequested := map[int]int{}
	client := fixtureSite(t, pagesRequested)

	crawler := Crawler{Client: client}
	links := crawler.CollectArticleLinks(context.Background())

	expected := []string{
		"articles/support/soup-kitchen-reopens.html",
		"articles/shopping/bakery-sale.html",
		"articles/purim/purim-carnival.html",
	}
	if diff := cmp.Diff(expected, links); diff != "" {
		t.Fatal(diff)
	}

	// 3 content pages plus 2 empty pages hits the empty-run threshold;
	// page 6 must never be attempted
	require.Equal(t, 1, pagesRequested[5])
	require.Zero(t, pagesRequested[6])
}

func TestScrapeArticle(t *testing.T) {
	client := fixtureSite(t, nil)
	crawler := Crawler{Client: client}

	record, ok := crawler.ScrapeArticle(context.Background(), "articles/support/soup-kitchen-reopens.html")
	require.True(t, ok)
	require.Equal(t, "Soup Kitchen Reopens", record.Title)
	require.Equal(t, "2024-08-03", record.Date)
	require.Equal(t, "Reopening on 3 August 2024.", record.Summary)
	require.Equal(t, "Support", record.Category)
	require.Equal(t, "soup-kitchen-reopens", record.Slug())

	_, ok = crawler.ScrapeArticle(context.Background(), "articles/support/missing.html")
	require.False(t, ok)
}

func TestScrapeAll(t *testing.T) {
	client := fixtureSite(t, nil)
	crawler := Crawler{Client: client}

	records := crawler.ScrapeAll(context.Background())
	require.Len(t, records, 3)

	var slugs []string
	for _, r := range records {
		slugs = append(slugs, r.Slug())
	}
	expected := []string{"soup-kitchen-reopens", "bakery-sale", "purim-carnival"}
	if diff := cmp.Diff(expected, slugs); diff != "" {
		t.Fatal(diff)
	}
}

func TestCollectCategoryDatesOverlappingListings(t *testing.T) {
	// the same dated article appears in several category listings; a page
	// of already-seen links must still count as content, not end the channel
	listings := map[string]string{
		"a|1": `<li>3 August 2024 <a href="articles/community/dup-notice.html">Dup</a></li>`,
		"b|1": `<li>9 September 2024 <a href="articles/support/dup-notice.html">Dup</a></li>`,
		"b|2": `<li>9 September 2024 <a href="articles/support/dup-notice.html">Dup</a></li>`,
		"b|3": `<li>1 January 2025 <a href="articles/support/fresh-notice.html">Fresh</a></li>`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category := strings.Trim(strings.TrimPrefix(r.URL.Path, "/articles/"), "/")
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}
		fmt.Fprint(w, listings[fmt.Sprintf("%s|%d", category, page)])
	}))
	t.Cleanup(server.Close)

	client, err := noticesite.NewClient(context.Background(), noticesite.ClientOptions{
		BaseUrl: server.URL,
	})
	require.NoError(t, err)

	crawler := Crawler{Client: client}
	dates := crawler.CollectCategoryDates(context.Background(), []string{"a", "b"})

	expected := map[string]string{
		"dup-notice":   "2024-08-03", // first category crawled wins
		"fresh-notice": "2025-01-01",
	}
	if diff := cmp.Diff(expected, dates); diff != "" {
		t.Fatal(diff)
	}
}

func TestCollectArticleLinksPacesOnFailedFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := noticesite.NewClient(context.Background(), noticesite.ClientOptions{
		BaseUrl: server.URL,
		Delay:   30 * time.Millisecond,
	})
	require.NoError(t, err)

	crawler := Crawler{Client: client}
	start := time.Now()
	links := crawler.CollectArticleLinks(context.Background())

	require.Empty(t, links)
	// two failed pages hit the empty-run threshold, each paced
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
