package noticeboard

import (
	"context"
	"errors"
	"log/slog"
	"path"

	"noticeboard-migrate/lib/contentstore"
	"noticeboard-migrate/lib/scrapers/noticesite"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ErrNothingFound aborts a run when every discovery strategy came back
// empty. Continuing would silently do nothing useful.
var ErrNothingFound = errors.New("no records retrieved from any discovery strategy")

// Orchestrator sequences the migration phases: taxonomy, discovery,
// reconciliation, batched mutation, summary. Phases after taxonomy can be
// re-run any number of times without duplicating documents.
type Orchestrator struct {
	Site  *noticesite.Client
	Store *contentstore.Client
	Lists TitleLists
}

type Summary struct {
	Total     int
	Created   int
	Patched   int
	Skipped   int
	Unmatched int
	Failed    int
}

// Render formats the run summary as a table. Every discrepancy between
// "found" and "applied" should be explainable from these counts.
func (s Summary) Render() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRows([]table.Row{
		{"total seen", s.Total},
		{"created", s.Created},
		{"patched", s.Patched},
		{"skipped", s.Skipped},
		{"unmatched", s.Unmatched},
		{"failed", s.Failed},
	})
	return t.Render()
}

// Run executes the full pipeline against the live site.
func (o Orchestrator) Run(ctx context.Context) (Summary, error) {
	slog.InfoContext(ctx, "phase: ensure taxonomy")
	err := EnsureTaxonomy(ctx, o.Store)
	if err != nil {
		return Summary{}, err
	}

	slog.InfoContext(ctx, "phase: discover and extract")
	crawler := Crawler{Client: o.Site}
	records := crawler.ScrapeAll(ctx)
	if len(records) == 0 {
		return Summary{}, ErrNothingFound
	}

	return o.ImportRecords(ctx, records)
}

// ImportRecords reconciles already-extracted records against current store
// state and batch-applies the resulting mutations.
func (o Orchestrator) ImportRecords(ctx context.Context, records []Record) (Summary, error) {
	slog.InfoContext(ctx, "phase: reconcile", "records", len(records))

	stored, err := FetchStoredNotices(ctx, o.Store)
	if err != nil {
		return Summary{}, err
	}
	storedById := map[string]*StoredNotice{}
	for i := range stored {
		storedById[stored[i].Id] = &stored[i]
	}

	summary := Summary{Total: len(records)}
	var mutations []contentstore.Mutation

	for _, record := range records {
		action := Reconcile(record, storedById[record.NoticeId()], o.Lists)
		if action.IsNoop() {
			summary.Skipped++
			continue
		}

		if action.Create != nil {
			mutation, err := contentstore.NewCreateOrReplace(*action.Create)
			if err != nil {
				slog.WarnContext(ctx, "failed to encode notice", "id", record.NoticeId(), "err", err)
				summary.Failed++
				continue
			}
			mutations = append(mutations, mutation)
			summary.Created++
			continue
		}

		set := map[string]any{}
		if action.PatchCategory != "" {
			set["category"] = contentstore.NewReference(action.PatchCategory)
		}
		if action.PatchImage {
			assetId, ok := o.uploadRecordImage(ctx, record)
			if ok {
				set["image"] = contentstore.NewImage(assetId)
			} else if len(set) == 0 {
				// image upload failing only drops the image patch; the
				// rest of the record's patch still goes through. With
				// nothing else to patch, the record counts as failed,
				// exactly once.
				summary.Failed++
				continue
			}
		}
		if len(set) == 0 {
			summary.Skipped++
			continue
		}
		mutations = append(mutations, contentstore.NewPatch(record.NoticeId(), set))
		summary.Patched++
	}

	slog.InfoContext(ctx, "phase: apply mutations", "count", len(mutations))
	applied := o.Store.ApplyBatches(ctx, mutations)
	summary.Failed += len(mutations) - applied

	return summary, nil
}

// uploadRecordImage downloads a record's discovered image and uploads it as
// a store asset. This must succeed before the image patch is constructed.
func (o Orchestrator) uploadRecordImage(ctx context.Context, record Record) (string, bool) {
	data, contentType, ok := o.Site.DownloadImage(ctx, record.ImageUrl)
	if !ok {
		slog.WarnContext(ctx, "image download failed", "url", record.ImageUrl)
		return "", false
	}

	assetId, err := o.Store.UploadImage(ctx, data, path.Base(record.ImageUrl), contentType)
	if err != nil {
		slog.WarnContext(ctx, "image upload failed", "url", record.ImageUrl, "err", err)
		return "", false
	}
	return assetId, true
}

// Recategorize patches only the category reference of already-stored
// notices whose path-derived category disagrees. Nothing is created and no
// other field is touched. Records with no stored counterpart are counted as
// unmatched.
func (o Orchestrator) Recategorize(ctx context.Context, records []Record) (Summary, error) {
	stored, err := FetchStoredNotices(ctx, o.Store)
	if err != nil {
		return Summary{}, err
	}
	storedById := map[string]*StoredNotice{}
	for i := range stored {
		storedById[stored[i].Id] = &stored[i]
	}

	summary := Summary{Total: len(records)}
	var mutations []contentstore.Mutation
	for _, record := range records {
		notice := storedById[record.NoticeId()]
		if notice == nil {
			slog.InfoContext(ctx, "no stored notice for record", "id", record.NoticeId())
			summary.Unmatched++
			continue
		}
		target := CategoryIdForPath(record.SourcePath)
		if notice.CategoryRef == target {
			summary.Skipped++
			continue
		}
		mutations = append(mutations, contentstore.NewPatch(notice.Id, map[string]any{
			"category": contentstore.NewReference(target),
		}))
	}

	slog.InfoContext(ctx, "phase: apply mutations", "count", len(mutations))
	applied := o.Store.ApplyBatches(ctx, mutations)
	summary.Patched = applied
	summary.Failed = len(mutations) - applied
	return summary, nil
}

// sitemap coverage below this falls back to scraping category pages
const minSitemapDates = 50

// FixDates gathers a slug -> date map from the sitemap, falling back to
// category-page scraping when sitemap coverage is thin, then patches every
// stored notice whose publish date disagrees.
func (o Orchestrator) FixDates(ctx context.Context) (Summary, error) {
	slog.InfoContext(ctx, "phase: gather dates")

	slugDates := map[string]string{}
	if xml, ok := o.Site.FetchSitemap(ctx); ok {
		slugDates = noticesite.ParseSitemap(xml)
		slog.InfoContext(ctx, "dates from sitemap", "count", len(slugDates))
	}

	if len(slugDates) < minSitemapDates {
		crawler := Crawler{Client: o.Site}
		categories := crawler.DiscoverCategories(ctx, SeedCategories)
		scraped := crawler.CollectCategoryDates(ctx, categories)
		for slug, date := range scraped {
			if _, exists := slugDates[slug]; !exists {
				slugDates[slug] = date
			}
		}
		slog.InfoContext(ctx, "dates after category scrape", "count", len(slugDates))
	}

	if len(slugDates) == 0 {
		return Summary{}, ErrNothingFound
	}

	slog.InfoContext(ctx, "phase: fetch stored notices")
	stored, err := FetchStoredNotices(ctx, o.Store)
	if err != nil {
		return Summary{}, err
	}

	slog.InfoContext(ctx, "phase: match slugs", "stored", len(stored))
	mutations, unmatched := DateFixMutations(stored, slugDates)

	summary := Summary{
		Total:     len(stored),
		Unmatched: len(unmatched),
		Skipped:   len(stored) - len(mutations) - len(unmatched),
	}
	for _, slug := range unmatched {
		slog.InfoContext(ctx, "unmatched slug", "slug", slug)
	}

	if len(mutations) == 0 {
		slog.InfoContext(ctx, "nothing to update")
		return summary, nil
	}

	slog.InfoContext(ctx, "phase: apply mutations", "count", len(mutations))
	applied := o.Store.ApplyBatches(ctx, mutations)
	summary.Patched = applied
	summary.Failed = len(mutations) - applied

	return summary, nil
}
