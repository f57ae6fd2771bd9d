package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/port"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultTimeout = 10 * time.Second

// StatusError is returned for non-2xx responses. A 404 also matches port.ErrNotFound.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == port.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the inventory/catalog service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   DefaultTimeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	var stock domain.Stock
	if err := c.get(ctx, "/stock/"+strconv.FormatInt(productID, 10), &stock); err != nil {
		return domain.Stock{}, err
	}
	return stock, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	var product domain.Product
	if err := c.get(ctx, "/products/"+strconv.FormatInt(productID, 10), &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	u := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, res.Body)
		return &StatusError{StatusCode: res.StatusCode, Path: path}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

var _ port.Inventory = (*Client)(nil)
