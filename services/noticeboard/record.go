package noticeboard

import (
	"encoding/json"
	"fmt"
	"os"

	"noticeboard-migrate/lib/textutil"
)

// Record is one scraped notice, the unit of knowledge the crawl produces.
// Only Title is required; every other field is independently optional and
// absent fields stay empty. The same struct is the schema of the persisted
// intermediate state file consumed by later phases.
type Record struct {
	Title        string `json:"title"`
	Date         string `json:"date,omitempty"`
	Summary      string `json:"summary,omitempty"`
	ContentHtml  string `json:"contentHtml,omitempty"`
	ExternalLink string `json:"externalLink,omitempty"`
	PdfUrl       string `json:"pdfUrl,omitempty"`
	ImageUrl     string `json:"imageUrl,omitempty"`
	Category     string `json:"category,omitempty"`
	SourcePath   string `json:"sourcePath"`
}

// Slug is the record's identity: two records with the same slug are the
// same logical notice.
func (r Record) Slug() string {
	return textutil.Slugify(r.Title)
}

// NoticeId is the deterministic store document id for this record.
func (r Record) NoticeId() string {
	return NoticeIdForSlug(r.Slug())
}

func NoticeIdForSlug(slug string) string {
	return "notice-" + slug
}

// LoadRecords reads the intermediate state file: a single JSON array of
// records written by the scrape phase.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []Record
	err = json.Unmarshal(data, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scrape state file %s: %w", path, err)
	}
	return records, nil
}

func SaveRecords(path string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
