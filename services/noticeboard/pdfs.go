package noticeboard

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"noticeboard-migrate/lib/contentstore"
)

// PdfManifestEntry describes one operator-curated PDF living in the legacy
// site's admin file manager: the stored filename, a human title, and the
// keywords used to find the notice it belongs to.
type PdfManifestEntry struct {
	Dir      string   `json:"dir"`
	File     string   `json:"file"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

// MigratePdfs uploads every record's linked PDF that is still live and
// patches the owning notice to reference the uploaded asset. The known-bad
// titles in the skip list are left alone.
func (o Orchestrator) MigratePdfs(ctx context.Context, records []Record) (Summary, error) {
	var summary Summary
	for _, record := range records {
		if record.PdfUrl == "" {
			continue
		}
		summary.Total++
		if slices.Contains(o.Lists.SkipPdfs, record.Title) {
			slog.InfoContext(ctx, "pdf on skip list", "title", record.Title)
			summary.Skipped++
			continue
		}

		if !o.Site.IsLive(ctx, record.PdfUrl) {
			slog.InfoContext(ctx, "pdf url is dead, skipping", "url", record.PdfUrl)
			summary.Skipped++
			continue
		}

		data, _, ok := o.Site.Download(ctx, record.PdfUrl)
		if !ok {
			slog.WarnContext(ctx, "pdf download failed", "url", record.PdfUrl)
			summary.Failed++
			continue
		}

		assetId, err := o.Store.UploadFile(ctx, data, record.Slug()+".pdf", "application/pdf")
		if err != nil {
			slog.WarnContext(ctx, "pdf upload failed", "url", record.PdfUrl, "err", err)
			summary.Failed++
			continue
		}

		err = o.Store.PatchSet(ctx, record.NoticeId(), map[string]any{
			"pdfFile": contentstore.NewFile(assetId),
		})
		if err != nil {
			slog.WarnContext(ctx, "pdf patch failed", "id", record.NoticeId(), "err", err)
			summary.Failed++
			continue
		}
		slog.InfoContext(ctx, "pdf linked", "id", record.NoticeId(), "bytes", len(data))
		summary.Patched++
	}
	return summary, nil
}

// MigrateSitePdfs pulls PDFs out of the legacy admin file manager and links
// each to its notice, located by keyword search with a fuzzy-title
// fallback. An entry with no matching notice still leaves the uploaded
// asset behind for manual assignment.
func (o Orchestrator) MigrateSitePdfs(ctx context.Context, entries []PdfManifestEntry, username, password string) (Summary, error) {
	err := o.Site.LoginAdmin(ctx, username, password)
	if err != nil {
		return Summary{}, fmt.Errorf("admin login failed: %w", err)
	}

	summary := Summary{Total: len(entries)}
	for _, entry := range entries {
		data, err := o.Site.DownloadAdminFile(ctx, entry.Dir, entry.File)
		if err != nil {
			slog.WarnContext(ctx, "admin file download failed", "file", entry.File, "err", err)
			summary.Failed++
			continue
		}

		assetId, err := o.Store.UploadFile(ctx, data, entry.File, "application/pdf")
		if err != nil {
			slog.WarnContext(ctx, "pdf upload failed", "file", entry.File, "err", err)
			summary.Failed++
			continue
		}
		slog.InfoContext(ctx, "uploaded admin pdf", "file", entry.File, "asset", assetId, "bytes", len(data))

		notice, err := FindNotice(ctx, o.Store, entry.Title, entry.Keywords)
		if err != nil {
			slog.WarnContext(ctx, "notice lookup failed", "title", entry.Title, "err", err)
			summary.Failed++
			continue
		}
		if notice == nil {
			slog.InfoContext(ctx, "no matching notice, asset ready for manual assignment",
				"title", entry.Title, "asset", assetId)
			summary.Unmatched++
			continue
		}

		err = o.Store.PatchSet(ctx, notice.Id, map[string]any{
			"pdfFile": contentstore.NewFile(assetId),
		})
		if err != nil {
			slog.WarnContext(ctx, "pdf patch failed", "id", notice.Id, "err", err)
			summary.Failed++
			continue
		}
		slog.InfoContext(ctx, "pdf linked", "id", notice.Id, "title", notice.Title)
		summary.Patched++
	}
	return summary, nil
}
