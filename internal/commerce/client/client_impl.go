package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	commercedomain "github.com/smallbiznis/storefront/internal/commerce/domain"
	"github.com/smallbiznis/storefront/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func New(p Params) commercedomain.Service {
	timeout := p.Cfg.CommerceTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(p.Cfg.CommerceBaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     p.Log.Named("commerce.client"),
	}
}

type intentRequest struct {
	ViewerID    string  `json:"viewer_id"`
	ProductID   string  `json:"product_id"`
	Action      string  `json:"action"`
	LicenseType string  `json:"license_type"`
	PriceINR    float64 `json:"price_inr"`
	OptionLabel string  `json:"option_label"`
}

func (c *Client) SubmitIntent(ctx context.Context, viewerID, productID string, action commercedomain.Action, intent commercedomain.PurchaseIntent) error {
	body, err := json.Marshal(intentRequest{
		ViewerID:    viewerID,
		ProductID:   productID,
		Action:      string(action),
		LicenseType: string(intent.LicenseType),
		PriceINR:    intent.PriceINR,
		OptionLabel: intent.OptionLabel,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/cart/items", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("commerce submit failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return commercedomain.ErrCommerceUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return commercedomain.ErrIntentRejected
	default:
		return commercedomain.ErrCommerceUnavailable
	}
}
