package fetchcache

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS page (
	url TEXT NOT NULL PRIMARY KEY,
	body TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
);
`

// Cache is a url -> body cache so crawl re-runs don't hammer the source
// site for pages it already served.
type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Get(ctx context.Context, url string) (string, bool) {
	row := c.db.QueryRowContext(ctx, `SELECT body FROM page WHERE url = ?`, url)
	var body string
	err := row.Scan(&body)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to read page cache", "url", url, "err", err)
		return "", false
	}
	return body, true
}

func (c *Cache) Put(ctx context.Context, url, body string) {
	_, err := c.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO page (url, body, fetched_at) VALUES (?, ?, ?)`,
		url, body, time.Now().Unix(),
	)
	if err != nil {
		slog.WarnContext(ctx, "failed to write page cache", "url", url, "err", err)
	}
}
