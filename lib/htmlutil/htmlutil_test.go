package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func TestGetAnchors(t *testing.T) {
	html := `
		<a href="https://example.org/a">  Visit the   site </a>
		<a href="https://example.org/b"><b>Book</b> here</a>
		<a>no href</a>
	`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	got := GetAnchors(doc.Find("a"))
	expected := []Anchor{
		{Name: "Visit the site", Href: "https://example.org/a"},
		{Name: "Book here", Href: "https://example.org/b"},
		{Name: "no href", Href: ""},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal(diff)
	}
}
