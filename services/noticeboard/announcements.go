package noticeboard

import "fmt"

// Announcement is a short operator-authored notice with no source page
// behind it, supplied in config and imported alongside scraped records.
type Announcement struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

// AnnouncementRecords converts config announcements into records. The
// synthetic source path routes each through the same category table as a
// scraped article would use.
func AnnouncementRecords(announcements []Announcement) []Record {
	var records []Record
	for _, a := range announcements {
		record := Record{
			Title:   a.Title,
			Summary: a.Summary,
			Date:    a.Date,
		}
		record.SourcePath = fmt.Sprintf("articles/%s/%s.html", a.Category, record.Slug())
		records = append(records, record)
	}
	return records
}
