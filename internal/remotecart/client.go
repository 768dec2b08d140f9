// Package remotecart implements session.CartStore against a remote cart
// service. The service owns the lines; every mutation round-trips to it and
// then re-reads the full line list.
package remotecart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/LISSConsulting/storefront/internal/session"
)

// Client talks to the cart service at a base URL.
type Client struct {
	baseURL    string
	httpClient *resty.Client
}

var _ session.CartStore = (*Client)(nil)

// quantityRequest is the body of PUT /cart/{id}.
type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// New creates a Client for baseURL. It returns an error if baseURL is empty.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remotecart: base url is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "storefront/1.0").
		SetTimeout(timeout)

	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string { return c.baseURL }

// Add posts a new line with quantity 1; the service increments an existing
// line instead of duplicating it.
func (c *Client) Add(ctx context.Context, p session.Product) (session.Cart, error) {
	line := session.CartLine{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image, Quantity: 1}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(line).
		Post("/cart")
	if err := check("add line", resp, err); err != nil {
		return session.Cart{}, err
	}
	return c.Cart(ctx)
}

// Remove deletes the line for id. A line the service does not know is not
// an error.
func (c *Client) Remove(ctx context.Context, id session.ProductID) (session.Cart, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		Delete("/cart/{id}")
	if err := check("remove line", resp, err, 404); err != nil {
		return session.Cart{}, err
	}
	return c.Cart(ctx)
}

// SetQuantity sets a line's quantity. Zero or less is sent as a removal.
func (c *Client) SetQuantity(ctx context.Context, id session.ProductID, quantity int) (session.Cart, error) {
	if quantity <= 0 {
		return c.Remove(ctx, id)
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		SetHeader("Content-Type", "application/json").
		SetBody(quantityRequest{Quantity: quantity}).
		Put("/cart/{id}")
	if err := check("set quantity", resp, err, 404); err != nil {
		return session.Cart{}, err
	}
	return c.Cart(ctx)
}

// Clear deletes every line.
func (c *Client) Clear(ctx context.Context) (session.Cart, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete("/cart")
	if err := check("clear", resp, err); err != nil {
		return session.Cart{}, err
	}
	return c.Cart(ctx)
}

// Cart reads all lines and summarizes them locally.
func (c *Client) Cart(ctx context.Context) (session.Cart, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get("/cart")
	if err := check("read", resp, err); err != nil {
		return session.Cart{}, err
	}
	cart, err := session.DecodeLines(resp.Body())
	if err != nil {
		return session.Cart{}, fmt.Errorf("remotecart: read: %w", err)
	}
	return cart, nil
}

// check turns a transport error or an error status into an error. Statuses
// listed in tolerated are accepted.
func check(op string, resp *resty.Response, err error, tolerated ...int) error {
	if err != nil {
		return fmt.Errorf("remotecart: %s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}
	for _, code := range tolerated {
		if resp.StatusCode() == code {
			return nil
		}
	}
	return fmt.Errorf("remotecart: %s: status %d: %s", op, resp.StatusCode(), strings.TrimSpace(resp.String()))
}
