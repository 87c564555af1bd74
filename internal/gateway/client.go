package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/magasin/internal/model"
)

// Endpoints consumed by the client.
const (
	PathTools      = "/api/tools"
	PathCategories = "/api/categories"
	PathEmployees  = "/api/employees"
	PathMovements  = "/api/movements"
	PathStats      = "/api/stats"
	PathFindTools  = "/find-tools"
)

// DefaultUserAgent identifies the client to the server.
const DefaultUserAgent = "magasin"

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	UserAgent string
	Logger    *zap.Logger
	// HTTPClient replaces the underlying transport client, mainly for tests.
	HTTPClient *http.Client
}

// Client is a resty-backed gateway to the inventory server. Each call makes a
// single attempt unless Options.Retries is set.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New builds a Client.
func New(opts Options) *Client {
	rc := resty.New()
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rc.
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries)
	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	return &Client{http: rc, log: log}
}

// FetchCollection issues GET endpoint with params and returns the raw JSON body.
func (c *Client) FetchCollection(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	resp, err := req.Get(endpoint)
	return c.body(http.MethodGet, endpoint, resp, err)
}

// ToolsPage fetches one page of tools.
func (c *Client) ToolsPage(ctx context.Context, page, perPage int) (*model.ToolPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	raw, err := c.FetchCollection(ctx, PathTools, params)
	if err != nil {
		return nil, err
	}
	result := &model.ToolPage{}
	if err := c.decode(http.MethodGet, PathTools, raw, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Categories fetches the category reference list.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := c.getInto(ctx, PathCategories, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Employees fetches the employee reference list.
func (c *Client) Employees(ctx context.Context) ([]model.Employee, error) {
	var out []model.Employee
	if err := c.getInto(ctx, PathEmployees, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Movements fetches the flat borrow history.
func (c *Client) Movements(ctx context.Context) ([]model.RawMovement, error) {
	var out []model.RawMovement
	if err := c.getInto(ctx, PathMovements, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats fetches the server-side counters.
func (c *Client) Stats(ctx context.Context) (*model.ServerStats, error) {
	out := &model.ServerStats{}
	if err := c.getInto(ctx, PathStats, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindTools searches tools by name or id on the server.
func (c *Client) FindTools(ctx context.Context, query string) ([]model.RawTool, error) {
	var out []model.RawTool
	if err := c.getInto(ctx, PathFindTools, url.Values{"q": {query}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTool submits a new tool as multipart form data, with the photo as a
// file part when present.
func (c *Client) CreateTool(ctx context.Context, t model.NewTool) (*model.RawTool, error) {
	fields := map[string]string{"name": t.Name}
	for k, v := range map[string]string{
		"category_id":   t.CategoryID,
		"loc_row":       t.LocRow,
		"loc_col":       t.LocCol,
		"loc_shelf":     t.LocShelf,
		"description":   t.Description,
		"purchase_date": t.PurchaseDate,
		"price":         t.Price,
		"status":        t.Status,
	} {
		if v != "" {
			fields[k] = v
		}
	}

	req := c.http.R().SetContext(ctx).SetMultipartFormData(fields)
	if t.Photo != nil {
		req.SetMultipartField("photo", t.Photo.Name, t.Photo.MIME, bytes.NewReader(t.Photo.Data))
	}
	resp, err := req.Post(PathTools)
	body, err := c.body(http.MethodPost, PathTools, resp, err)
	if err != nil {
		return nil, err
	}

	created := &model.RawTool{}
	if err := c.decode(http.MethodPost, PathTools, body, created); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateCategory submits a new category as a urlencoded form.
func (c *Client) CreateCategory(ctx context.Context, nc model.NewCategory) (*model.Category, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"name":        nc.Name,
			"description": nc.Description,
		}).
		Post(PathCategories)
	body, err := c.body(http.MethodPost, PathCategories, resp, err)
	if err != nil {
		return nil, err
	}

	created := &model.Category{}
	if err := c.decode(http.MethodPost, PathCategories, body, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) getInto(ctx context.Context, endpoint string, params url.Values, target any) error {
	raw, err := c.FetchCollection(ctx, endpoint, params)
	if err != nil {
		return err
	}
	return c.decode(http.MethodGet, endpoint, raw, target)
}

// body turns a resty outcome into the response body or an *Error.
func (c *Client) body(method, endpoint string, resp *resty.Response, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, c.fail(&Error{Method: method, Endpoint: endpoint, Kind: KindNetwork, Err: err})
	}

	data := bytes.TrimSpace(resp.Body())
	if resp.IsError() {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return nil, c.fail(&Error{
			Method:     method,
			Endpoint:   endpoint,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode(),
			Message:    apiErr.Error,
		})
	}

	if len(data) == 0 || !json.Valid(data) {
		return nil, c.fail(&Error{
			Method:     method,
			Endpoint:   endpoint,
			Kind:       KindDecode,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("invalid JSON body (%d bytes)", len(data)),
		})
	}

	c.log.Debug("fetched", zap.String("method", method), zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()), zap.Duration("took", resp.Time()))
	return json.RawMessage(data), nil
}

func (c *Client) decode(method, endpoint string, raw json.RawMessage, target any) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return c.fail(&Error{Method: method, Endpoint: endpoint, Kind: KindDecode, Err: err})
	}
	return nil
}

func (c *Client) fail(e *Error) *Error {
	c.log.Warn("fetch failed",
		zap.String("method", e.Method),
		zap.String("endpoint", e.Endpoint),
		zap.Stringer("kind", e.Kind),
		zap.Int("status", e.StatusCode),
		zap.Error(e.Err))
	return e
}
