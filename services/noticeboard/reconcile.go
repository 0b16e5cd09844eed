package noticeboard

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"noticeboard-migrate/lib/contentstore"
	"noticeboard-migrate/lib/scrapers/noticesite"
)

// StoredNotice is the slice of a stored document the reconciler reads back
// to decide whether anything needs writing.
type StoredNotice struct {
	Id          string `json:"_id"`
	Slug        string `json:"slug"`
	PublishDate string `json:"publishDate"`
	CategoryRef string `json:"categoryRef"`
	HasImage    bool   `json:"hasImage"`
}

const storedNoticeProjection = `{_id, "slug": slug.current, publishDate, "categoryRef": category._ref, "hasImage": defined(image)}`

// FetchStoredNotices reads every notice currently in the store, paging
// through the store's bounded result windows.
func FetchStoredNotices(ctx context.Context, store *contentstore.Client) ([]StoredNotice, error) {
	var notices []StoredNotice
	err := store.QueryWindowed(
		ctx,
		func(start, end int) string {
			return fmt.Sprintf(`*[_type == "notice"][%d...%d]%s`, start, end, storedNoticeProjection)
		},
		func(page json.RawMessage) (int, error) {
			var items []StoredNotice
			if err := json.Unmarshal(page, &items); err != nil {
				return 0, err
			}
			notices = append(notices, items...)
			return len(items), nil
		},
	)
	if err != nil {
		return nil, err
	}
	return notices, nil
}

// NoticeDoc is the full document written on create.
type NoticeDoc struct {
	Type        string                      `json:"_type"`
	Id          string                      `json:"_id"`
	Title       string                      `json:"title"`
	Slug        contentstore.Slug           `json:"slug"`
	Summary     string                      `json:"summary"`
	PublishDate string                      `json:"publishDate,omitempty"`
	Category    contentstore.Reference      `json:"category"`
	Featured    bool                        `json:"featured"`
	IsEvent     bool                        `json:"isEvent"`
	Content     []contentstore.ContentBlock `json:"content"`
}

// TitleLists carries the operator-supplied exact-match title lists. The
// matching rule is deliberate string equality, nothing fuzzier.
type TitleLists struct {
	Featured []string `json:"featured"`
	Events   []string `json:"events"`
	SkipPdfs []string `json:"skip_pdfs"`
}

// BuildNoticeDoc converts a scraped record into the store document shape,
// including the structured content blocks.
func BuildNoticeDoc(record Record, lists TitleLists) NoticeDoc {
	var content []contentstore.ContentBlock
	for _, block := range noticesite.ConvertBlocks(record.ContentHtml) {
		style := "normal"
		if block.Type == noticesite.BlockHeading {
			style = "h3"
		}
		content = append(content, contentstore.NewContentBlock(style, block.Text))
	}

	return NoticeDoc{
		Type:        "notice",
		Id:          record.NoticeId(),
		Title:       record.Title,
		Slug:        contentstore.NewSlug(record.Slug()),
		Summary:     record.Summary,
		PublishDate: record.Date,
		Category:    contentstore.NewReference(CategoryIdForPath(record.SourcePath)),
		Featured:    slices.Contains(lists.Featured, record.Title),
		IsEvent:     slices.Contains(lists.Events, record.Title),
		Content:     content,
	}
}

// Action is the reconciler's verdict for one record. At most one of Create
// and the patch fields is meaningful: Create set means the record is new;
// otherwise the booleans say which patches the stored document needs.
type Action struct {
	Create        *NoticeDoc
	PatchCategory string
	PatchImage    bool
}

// IsNoop reports whether the stored state already matches.
func (a Action) IsNoop() bool {
	return a.Create == nil && a.PatchCategory == "" && !a.PatchImage
}

// Reconcile compares a scraped record against the stored document at its
// derived id. No stored document means create. An existing document gets a
// category patch when its reference disagrees with the source path, and an
// image patch only when it has no image yet and the crawl found one. An
// existing image is never overwritten.
func Reconcile(record Record, stored *StoredNotice, lists TitleLists) Action {
	if stored == nil {
		doc := BuildNoticeDoc(record, lists)
		return Action{Create: &doc}
	}

	var action Action
	targetCategory := CategoryIdForPath(record.SourcePath)
	if stored.CategoryRef != targetCategory {
		action.PatchCategory = targetCategory
	}
	if !stored.HasImage && record.ImageUrl != "" {
		action.PatchImage = true
	}
	return action
}

// DateFixMutations compares stored publish dates against an independently
// gathered slug -> date map and emits a patch for every disagreement.
// Stored notices whose slug has no entry in the map are reported back as
// unmatched, not mutated.
func DateFixMutations(stored []StoredNotice, slugDates map[string]string) (mutations []contentstore.Mutation, unmatched []string) {
	for _, notice := range stored {
		if notice.Slug == "" {
			continue
		}
		date, ok := slugDates[notice.Slug]
		if !ok {
			unmatched = append(unmatched, notice.Slug)
			continue
		}
		if date != notice.PublishDate {
			mutations = append(mutations, contentstore.NewPatch(notice.Id, map[string]any{
				"publishDate": date,
			}))
		}
	}
	return mutations, unmatched
}
