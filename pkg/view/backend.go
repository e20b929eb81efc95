package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrLoadFailed = errors.New("view: failed to load translations")

// Backend loads the compiled translations of one namespace and language.
type Backend interface {
	Load(ctx context.Context, lang, namespace string) (map[string]any, error)
}

// HTTPBackend loads compiled files from the locale route.
type HTTPBackend struct {
	client *resty.Client
	opts   BackendOptions
}

// HTTPBackendOption configures an HTTPBackend.
type HTTPBackendOption func(*HTTPBackend)

// WithHTTPClient replaces the resty client.
func WithHTTPClient(c *resty.Client) HTTPBackendOption {
	return func(b *HTTPBackend) {
		if c != nil {
			b.client = c
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) HTTPBackendOption {
	return func(b *HTTPBackend) { b.client.SetTimeout(d) }
}

// NewHTTPBackend returns a backend requesting baseURL + opts.LoadPath.
func NewHTTPBackend(baseURL string, opts BackendOptions, options ...HTTPBackendOption) *HTTPBackend {
	if opts.LoadPath == "" {
		opts.LoadPath = DefaultLoadPath
	}
	b := &HTTPBackend{
		client: resty.New().SetTimeout(10 * time.Second),
		opts:   opts,
	}
	for _, o := range options {
		o(b)
	}
	b.client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	return b
}

// Load requests the compiled file. The route answers {} for a missing pair.
func (b *HTTPBackend) Load(ctx context.Context, lang, namespace string) (map[string]any, error) {
	path := strings.NewReplacer("{{lng}}", lang, "{{ns}}", namespace).Replace(b.opts.LoadPath)

	out := map[string]any{}
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(b.opts.QueryStringParams).
		SetHeader("Accept", "application/json").
		SetResult(&out).
		Get(path)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s: status %d", ErrLoadFailed, path, resp.StatusCode())
	}
	return out, nil
}
