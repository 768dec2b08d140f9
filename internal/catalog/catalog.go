// Package catalog loads the product catalog from a static list or a remote
// product service and hands it to the session store.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/LISSConsulting/storefront/internal/session"
)

// DefaultURL is the product collection the storefront reads by default.
const DefaultURL = "https://amazonebackend-b1ma.onrender.com/api/products"

// Source yields the full product catalog.
type Source interface {
	Products(ctx context.Context) ([]session.Product, error)
}

// Static is an in-process catalog.
type Static []session.Product

// Products returns a copy of the static list.
func (s Static) Products(context.Context) ([]session.Product, error) {
	out := make([]session.Product, len(s))
	copy(out, s)
	return out, nil
}

// HTTP reads the catalog with a GET against a fixed URL that returns a JSON
// array of products.
type HTTP struct {
	url    string
	client *resty.Client
	log    zerolog.Logger
}

// NewHTTP creates an HTTP source for url with the given request timeout.
func NewHTTP(url string, timeout time.Duration, log zerolog.Logger) *HTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "storefront/1.0").
		SetTimeout(timeout)
	return &HTTP{url: strings.TrimSpace(url), client: client, log: log}
}

// Products fetches and decodes the catalog. Entries without a usable id
// are skipped; missing or non-numeric numbers become zero.
func (h *HTTP) Products(ctx context.Context) ([]session.Product, error) {
	if h.url == "" {
		return nil, fmt.Errorf("catalog: url is not configured")
	}

	resp, err := h.client.R().
		SetContext(ctx).
		Get(h.url)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch products: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog: fetch products: status %d", resp.StatusCode())
	}

	products, skipped, err := session.DecodeProducts(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if skipped > 0 {
		h.log.Warn().Int("skipped", skipped).Msg("catalog entries without a usable id")
	}
	return products, nil
}

// Populate loads the catalog once and dispatches SetCatalog. On failure the
// error is logged and the store's catalog is left as it was. It does not
// retry.
func Populate(ctx context.Context, src Source, st *session.Store, log zerolog.Logger) error {
	products, err := src.Products(ctx)
	if err != nil {
		log.Error().Err(err).Msg("products fetch failed; catalog left unchanged")
		return err
	}
	st.Dispatch(session.SetCatalog{Products: products})
	log.Debug().Int("products", len(products)).Msg("catalog loaded")
	return nil
}

// Start runs Populate in the background. The returned channel is closed
// when it finishes, successfully or not.
func Start(ctx context.Context, src Source, st *session.Store, log zerolog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Populate(ctx, src, st, log)
	}()
	return done
}
