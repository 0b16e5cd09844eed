package commands

import (
	"context"
	"os"
	"time"

	"noticeboard-migrate/lib/configutil"
	"noticeboard-migrate/lib/contentstore"
	"noticeboard-migrate/lib/fetchcache"
	"noticeboard-migrate/lib/restyutil"
	"noticeboard-migrate/lib/scrapers/noticesite"
	"noticeboard-migrate/lib/serviceutil"
	"noticeboard-migrate/services/noticeboard"
)

type SiteConfig struct {
	BaseUrl string `json:"base_url"`
	DelayMs int    `json:"delay_ms"`
}

type StoreConfig struct {
	BaseUrl string `json:"base_url"`
	Dataset string `json:"dataset"`
	Token   string `json:"token"`
}

type AdminConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Config struct {
	Site          SiteConfig                     `json:"site"`
	Store         StoreConfig                    `json:"store"`
	Admin         AdminConfig                    `json:"admin"`
	Lists         noticeboard.TitleLists         `json:"lists"`
	Pdfs          []noticeboard.PdfManifestEntry `json:"pdfs"`
	Announcements []noticeboard.Announcement     `json:"announcements"`
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Store.Token == "" {
		cfg.Store.Token = os.Getenv("CONTENT_STORE_TOKEN")
	}
	return cfg
}

func newSiteClient(ctx context.Context, cfg Config, cachePath string) *noticesite.Client {
	delay := time.Duration(cfg.Site.DelayMs) * time.Millisecond
	if delay == 0 {
		delay = 500 * time.Millisecond
	}

	site, err := noticesite.NewClient(ctx, noticesite.ClientOptions{
		BaseUrl: cfg.Site.BaseUrl,
		Delay:   delay,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize site client", err)
	}
	noticesite.SetInstrumentOutput(site, restyutil.NewFilesystemOutput(".dev/resty/noticesite"))

	if cachePath != "" {
		cache, err := fetchcache.Open(cachePath)
		if err != nil {
			serviceutil.Fatal("failed to open page cache", err)
		}
		site.SetCache(cache)
	}
	return site
}

// newStoreClient builds the content store client. Missing endpoint, dataset
// or token aborts here, before any phase runs.
func newStoreClient(cfg Config) *contentstore.Client {
	store, err := contentstore.NewClient(contentstore.ClientOptions{
		BaseUrl: cfg.Store.BaseUrl,
		Dataset: cfg.Store.Dataset,
		Token:   cfg.Store.Token,
	})
	if err != nil {
		serviceutil.Fatal("store configuration invalid", err)
	}
	return store
}
