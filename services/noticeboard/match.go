package noticeboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"noticeboard-migrate/lib/contentstore"
	"noticeboard-migrate/lib/textutil"

	"github.com/antzucaro/matchr"
)

// MatchedNotice is the minimal projection needed to link an asset to a
// stored notice.
type MatchedNotice struct {
	Id    string `json:"_id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// similarity below this is treated as "no match" rather than risking
// linking an asset to the wrong notice
const minTitleSimilarity = 0.85

// FindNotice locates the stored notice an operator-supplied asset belongs
// to. Exact keyword matches are tried first; failing that, the closest
// stored title by Jaro-Winkler similarity wins, if it is close enough.
func FindNotice(ctx context.Context, store *contentstore.Client, title string, keywords []string) (*MatchedNotice, error) {
	for _, keyword := range keywords {
		var match *MatchedNotice
		err := store.Query(
			ctx,
			`*[_type == "notice" && title match $q][0]{_id, title, "slug": slug.current}`,
			map[string]any{"q": fmt.Sprintf("*%s*", keyword)},
			&match,
		)
		if err != nil {
			return nil, err
		}
		if match != nil && match.Id != "" {
			return match, nil
		}
	}

	candidates, err := fetchNoticeTitles(ctx, store)
	if err != nil {
		return nil, err
	}

	var best *MatchedNotice
	var bestSimilarity float64
	normalized := textutil.NormalizeName(title)
	for i, candidate := range candidates {
		similarity := matchr.JaroWinkler(normalized, textutil.NormalizeName(candidate.Title), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = &candidates[i]
		}
	}

	if best == nil || bestSimilarity < minTitleSimilarity {
		return nil, nil
	}
	slog.InfoContext(ctx, "fuzzy matched notice",
		"title", title, "matched", best.Title, "similarity", bestSimilarity)
	return best, nil
}

func fetchNoticeTitles(ctx context.Context, store *contentstore.Client) ([]MatchedNotice, error) {
	var notices []MatchedNotice
	err := store.QueryWindowed(
		ctx,
		func(start, end int) string {
			return fmt.Sprintf(`*[_type == "notice"][%d...%d]{_id, title, "slug": slug.current}`, start, end)
		},
		func(page json.RawMessage) (int, error) {
			var items []MatchedNotice
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
