package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smallbiznis/storefront/internal/cache"
	catalogdomain "github.com/smallbiznis/storefront/internal/catalog/domain"
	"github.com/smallbiznis/storefront/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

// Client reads product pricing records from the remote catalog service over
// HTTP, with a short TTL cache in front so repeated views of the same
// product do not hammer the catalog.
type Client struct {
	baseURL  string
	http     *http.Client
	log      *zap.Logger
	cache    *cache.TTLCache[string, *catalogdomain.ProductPricingSource]
	cacheTTL time.Duration
}

func New(p Params) catalogdomain.Service {
	timeout := p.Cfg.CatalogTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(p.Cfg.CatalogBaseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		log:      p.Log.Named("catalog.client"),
		cache:    cache.NewTTLCache[string, *catalogdomain.ProductPricingSource](),
		cacheTTL: p.Cfg.CatalogCacheTTL,
	}
}

func (c *Client) GetPricingSource(ctx context.Context, productID string) (*catalogdomain.ProductPricingSource, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, catalogdomain.ErrInvalidProduct
	}

	if src, ok := c.cache.Get(productID); ok {
		return src, nil
	}

	endpoint := fmt.Sprintf("%s/v1/products/%s/pricing", c.baseURL, url.PathEscape(productID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("catalog fetch failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return nil, catalogdomain.ErrCatalogUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, catalogdomain.ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		c.log.Warn("catalog returned unexpected status",
			zap.String("product_id", productID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, catalogdomain.ErrCatalogUnavailable
	}

	var payload struct {
		Data catalogdomain.ProductPricingSource `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, catalogdomain.ErrCatalogUnavailable
	}

	src := payload.Data
	if src.ProductID == "" {
		src.ProductID = productID
	}

	c.cache.Set(productID, &src, c.cacheTTL)
	return &src, nil
}
