package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout = 15 * time.Second

	tracerName = "github.com/appetiteclub/cafepos/services/pos/internal/api"
)

func init() {
	// The backend expects money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Response is a successful backend answer.
type Response struct {
	Op          string
	Status      int
	ContentType string
	Body        []byte
}

// Client talks to the café backend. It attaches the stored bearer token on
// every authenticated call and maps failures onto *Error.
type Client struct {
	http   *resty.Client
	tokens TokenStore
	logger aqm.Logger
	tracer trace.Tracer
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenStore, logger aqm.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		tokens: tokens,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

type request struct {
	method  string
	path    string
	query   map[string]string
	body    interface{}
	headers map[string]string
	public  bool
	upload  *upload
}

type upload struct {
	field    string
	filename string
	reader   io.Reader
	fields   map[string]string
}

func (c *Client) List(ctx context.Context, resource string, query map[string]string) (*Response, error) {
	return c.do(ctx, request{method: http.MethodGet, path: collectionPath(resource), query: query})
}

func (c *Client) Get(ctx context.Context, resource, id string) (*Response, error) {
	return c.do(ctx, request{method: http.MethodGet, path: itemPath(resource, id)})
}

func (c *Client) Create(ctx context.Context, resource string, payload interface{}) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPost, path: collectionPath(resource), body: payload})
}

// Update sends a PATCH with payload.
func (c *Client) Update(ctx context.Context, resource, id string, payload interface{}) (*Response, error) {
	return c.do(ctx, request{method: http.MethodPatch, path: itemPath(resource, id), body: payload})
}

func (c *Client) Delete(ctx context.Context, resource, id string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: itemPath(resource, id)})
	return err
}

func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	return c.do(ctx, request{method: method, path: path, body: body})
}

func (c *Client) do(ctx context.Context, req request) (*Response, error) {
	op := req.method + " " + req.path
	ctx, span := c.tracer.Start(ctx, "api "+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.method),
		attribute.String("http.route", req.path),
	)

	r := c.http.R().SetContext(ctx)

	if !req.public {
		token, err := c.tokens.Load(ctx)
		if err != nil {
			return nil, c.fail(span, &Error{Kind: KindNetwork, Op: op, Message: "cannot load token", Err: err})
		}
		if token != "" {
			r.SetAuthToken(token)
		}
	}

	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}
	for key, value := range req.headers {
		r.SetHeader(key, value)
	}

	switch {
	case req.upload != nil:
		r.SetFileReader(req.upload.field, req.upload.filename, req.upload.reader)
		if len(req.upload.fields) > 0 {
			r.SetFormData(req.upload.fields)
		}
	case req.body != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}

	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		return nil, c.fail(span, &Error{Kind: KindNetwork, Op: op, Err: err})
	}

	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))

	if status == http.StatusUnauthorized {
		return nil, c.fail(span, &Error{Kind: KindHTTP, Op: op, Status: status, Message: errorMessage(resp.Body()), Err: ErrUnauthorized})
	}
	if status >= http.StatusBadRequest {
		return nil, c.fail(span, &Error{Kind: KindHTTP, Op: op, Status: status, Message: errorMessage(resp.Body())})
	}

	return &Response{
		Op:          op,
		Status:      status,
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}

func (c *Client) fail(span trace.Span, err *Error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Kind.String())
	c.logger.Error("backend call failed", "op", err.Op, "kind", err.Kind.String(), "status", err.Status, "error", err)
	return err
}

func collectionPath(resource string) string {
	return "/" + strings.Trim(resource, "/")
}

func itemPath(resource, id string) string {
	return fmt.Sprintf("%s/%s", collectionPath(resource), url.PathEscape(id))
}
