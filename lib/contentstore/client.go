package contentstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("lib/contentstore")

// QueryWindow is the largest result window the store serves in one query
// call. Larger corpora are read through repeated windowed queries.
const QueryWindow = 500

// Client wraps the hosted content store's HTTP surface: declarative queries,
// document mutations and binary asset uploads.
type Client struct {
	Http    *resty.Client
	Dataset string
}

type ClientOptions struct {
	// BaseUrl is the store's API root, e.g. "https://<project>.api.example.com/v2024-01-01".
	BaseUrl string
	Dataset string
	Token   string
	Timeout time.Duration
}

// NewClient validates the store configuration up front. A missing endpoint
// or write token must fail here, before any mutation is attempted.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		return nil, fmt.Errorf("content store base url is not configured")
	}
	if opts.Dataset == "" {
		return nil, fmt.Errorf("content store dataset is not configured")
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("content store write token is not configured")
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseUrl, "/"))
	client.SetAuthToken(opts.Token)
	client.SetTimeout(timeout)

	return &Client{
		Http:    client,
		Dataset: opts.Dataset,
	}, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Query runs a declarative query with named parameters and decodes the
// result into out.
func (c *Client) Query(ctx context.Context, query string, params map[string]any, out any) error {
	ctx, span := tracer.Start(ctx, "client:Query", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	req := c.Http.R().
		SetContext(ctx).
		SetQueryParam("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		req.SetQueryParam("$"+name, string(encoded))
	}

	res, err := req.Get(fmt.Sprintf("/data/query/%s", c.Dataset))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query request failed")
		return err
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, fmt.Sprintf("http %d", res.StatusCode()))
		return fmt.Errorf("store query failed: http %d: %s", res.StatusCode(), res.String())
	}

	var decoded queryResponse
	err = json.Unmarshal(res.Body(), &decoded)
	if err != nil {
		return err
	}
	if out != nil && len(decoded.Result) > 0 {
		return json.Unmarshal(decoded.Result, out)
	}
	return nil
}

// QueryWindowed repeatedly queries result windows until the store returns a
// short page. buildQuery receives the half-open [start, end) window to
// embed in the query string, and each window's items are appended via
// appendPage.
func (c *Client) QueryWindowed(
	ctx context.Context,
	buildQuery func(start, end int) string,
	appendPage func(page json.RawMessage) (int, error),
) error {
	for start := 0; ; start += QueryWindow {
		var page json.RawMessage
		err := c.Query(ctx, buildQuery(start, start+QueryWindow), nil, &page)
		if err != nil {
			return err
		}
		count, err := appendPage(page)
		if err != nil {
			return err
		}
		if count < QueryWindow {
			return nil
		}
	}
}

type mutateRequest struct {
	Mutations []Mutation `json:"mutations"`
}

func (c *Client) mutate(ctx context.Context, mutations []Mutation) error {
	ctx, span := tracer.Start(ctx, "client:mutate", trace.WithAttributes(
		attribute.Int("count", len(mutations)),
	))
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(mutateRequest{Mutations: mutations}).
		Post(fmt.Sprintf("/data/mutate/%s", c.Dataset))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mutate request failed")
		return err
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, fmt.Sprintf("http %d", res.StatusCode()))
		return fmt.Errorf("store mutation failed: http %d: %s", res.StatusCode(), res.String())
	}
	return nil
}

// CreateOrReplace writes a whole document at its id, replacing any previous
// version. Safe to repeat.
func (c *Client) CreateOrReplace(ctx context.Context, doc any) error {
	encoded, err := toDocument(doc)
	if err != nil {
		return err
	}
	return c.mutate(ctx, []Mutation{{CreateOrReplace: encoded}})
}

// PatchSet sets named fields on an existing document.
func (c *Client) PatchSet(ctx context.Context, id string, set map[string]any) error {
	return c.mutate(ctx, []Mutation{{Patch: &Patch{Id: id, Set: set}}})
}

type assetResponse struct {
	Document struct {
		Id string `json:"_id"`
	} `json:"document"`
}

func (c *Client) uploadAsset(ctx context.Context, kind string, data []byte, filename, contentType string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:uploadAsset", trace.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("filename", filename),
		attribute.Int("bytes", len(data)),
	))
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetQueryParam("filename", filename).
		SetBody(data).
		Post(fmt.Sprintf("/assets/%s/%s", kind, url.PathEscape(c.Dataset)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "asset upload failed")
		return "", err
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, fmt.Sprintf("http %d", res.StatusCode()))
		return "", fmt.Errorf("asset upload failed: http %d: %s", res.StatusCode(), res.String())
	}

	var decoded assetResponse
	err = json.Unmarshal(res.Body(), &decoded)
	if err != nil {
		return "", err
	}
	if decoded.Document.Id == "" {
		return "", fmt.Errorf("asset upload returned no asset id")
	}
	return decoded.Document.Id, nil
}

// UploadImage uploads image bytes and returns the asset id to use in an
// image reference field.
func (c *Client) UploadImage(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	return c.uploadAsset(ctx, "images", data, filename, contentType)
}

// UploadFile uploads a generic binary asset, e.g. a PDF.
func (c *Client) UploadFile(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	return c.uploadAsset(ctx, "files", data, filename, contentType)
}

func toDocument(doc any) (map[string]any, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	err = json.Unmarshal(encoded, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
