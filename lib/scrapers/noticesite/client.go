package noticesite

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"noticeboard-migrate/lib/fetchcache"
	"noticeboard-migrate/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("scrapers/noticesite")

// Client talks to the legacy noticeboard site. Every fetch is tolerant:
// network errors, timeouts and non-2xx statuses collapse to absence so the
// crawl can keep going.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	// fixed pause between consecutive requests, cooperative pacing
	// rather than a true rate limiter
	Delay time.Duration

	cache *fetchcache.Cache
}

type ClientOptions struct {
	BaseUrl string
	Timeout time.Duration
	Delay   time.Duration
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 15
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (compatible; noticeboard-migrator/1.0)")
	client.SetTimeout(timeout)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		Delay:   opts.Delay,
	}, nil
}

func SetInstrumentOutput(c *Client, output restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.Http, tracer, output)
}

// SetCache attaches a page cache consulted before hitting the network.
func (c *Client) SetCache(cache *fetchcache.Cache) {
	c.cache = cache
}

// Pace sleeps for the configured inter-request delay, respecting
// context cancellation.
func (c *Client) Pace(ctx context.Context) {
	if c.Delay <= 0 {
		return
	}
	select {
	case <-time.After(c.Delay):
	case <-ctx.Done():
	}
}

// AbsoluteUrl resolves a possibly-relative href against the site base.
func (c *Client) AbsoluteUrl(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.BaseUrl.String(), "/"), strings.TrimLeft(href, "/"))
}

// FetchText gets a page body. The second return is false on any failure;
// callers treat that as "try the next candidate" or "stop", never as fatal.
func (c *Client) FetchText(ctx context.Context, pageUrl string) (string, bool) {
	ctx, span := tracer.Start(ctx, "client:FetchText", trace.WithAttributes(
		attribute.String("url", pageUrl),
	))
	defer span.End()

	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, pageUrl); ok {
			span.AddEvent("cache hit")
			return body, true
		}
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return "", false
	}
	if res.StatusCode() >= 300 {
		span.SetStatus(codes.Error, fmt.Sprintf("http %d", res.StatusCode()))
		return "", false
	}

	body := res.String()
	if c.cache != nil {
		c.cache.Put(ctx, pageUrl, body)
	}
	return body, true
}

// IsLive reports whether a url answers a HEAD request with a status
// under 400. Used as a cheap liveness probe before an expensive download.
func (c *Client) IsLive(ctx context.Context, pageUrl string) bool {
	ctx, span := tracer.Start(ctx, "client:IsLive")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Head(pageUrl)
	if err != nil {
		span.RecordError(err)
		return false
	}
	return res.StatusCode() < 400
}

// Download fetches a binary resource, returning its bytes and content type.
func (c *Client) Download(ctx context.Context, fileUrl string) ([]byte, string, bool) {
	ctx, span := tracer.Start(ctx, "client:Download", trace.WithAttributes(
		attribute.String("url", fileUrl),
	))
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(fileUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download failed")
		return nil, "", false
	}
	if res.StatusCode() >= 300 {
		span.SetStatus(codes.Error, fmt.Sprintf("http %d", res.StatusCode()))
		return nil, "", false
	}
	return res.Body(), res.Header().Get("Content-Type"), true
}

// DownloadImage is Download restricted to image content types.
func (c *Client) DownloadImage(ctx context.Context, imageUrl string) ([]byte, string, bool) {
	data, contentType, ok := c.Download(ctx, imageUrl)
	if !ok {
		return nil, "", false
	}
	if !strings.Contains(contentType, "image") {
		return nil, "", false
	}
	return data, contentType, true
}

// LoginAdmin performs a form login against the site's admin endpoint. The
// session is carried by the client's cookie jar afterwards.
func (c *Client) LoginAdmin(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginAdmin")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username":     username,
			"password":     password,
			"doAction":     "login",
			"return":       "",
			"loginkeeping": "on",
		}).
		Post("/admin/login.php")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login request failed")
		return err
	}
	if res.StatusCode() >= 400 {
		span.SetStatus(codes.Error, "login rejected")
		return fmt.Errorf("admin login failed: http %d", res.StatusCode())
	}
	return nil
}

// DownloadAdminFile pulls a file through the admin file manager, which is
// parameterized by directory and filename.
func (c *Client) DownloadAdminFile(ctx context.Context, dir, filename string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadAdminFile", trace.WithAttributes(
		attribute.String("dir", dir),
		attribute.String("filename", filename),
	))
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("p", dir).
		SetQueryParam("dl", filename).
		Get("/admin/tinyfilemanager.php")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "file manager download failed")
		return nil, err
	}
	if res.StatusCode() >= 300 {
		span.SetStatus(codes.Error, fmt.Sprintf("http %d", res.StatusCode()))
		return nil, fmt.Errorf("file manager download failed: http %d", res.StatusCode())
	}
	return res.Body(), nil
}

var sitemapPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap.php",
}

// FetchSitemap tries the usual sitemap locations in order and returns the
// first body that actually contains sitemap markup.
func (c *Client) FetchSitemap(ctx context.Context) (string, bool) {
	ctx, span := tracer.Start(ctx, "client:FetchSitemap")
	defer span.End()

	for _, path := range sitemapPaths {
		body, ok := c.FetchText(ctx, path)
		if !ok {
			continue
		}
		if strings.Contains(body, "<url") || strings.Contains(body, "<sitemap") {
			span.SetAttributes(attribute.String("path", path))
			return body, true
		}
	}
	return "", false
}
