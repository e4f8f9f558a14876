package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Client looks products up through the product-service HTTP API.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	}
}

func (c *Client) Lookup(ctx context.Context, id string) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%s", c.BaseURL, url.PathEscape(id)), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build product request")
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch product")
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, errors.Errorf("fetch product: %s", res.Status)
	}

	var p Product
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	return &p, nil
}
