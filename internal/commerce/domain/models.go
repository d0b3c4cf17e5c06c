package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/storefront/internal/license"
)

// PurchaseIntent is the normalized outcome handed to the cart/checkout
// service: the coarse license tag it understands, the chosen price and the
// human-readable option label.
type PurchaseIntent struct {
	LicenseType license.Type `json:"license_type"`
	PriceINR    float64      `json:"price_inr"`
	OptionLabel string       `json:"option_label"`
}

// Action distinguishes the two purchase surfaces of the product view.
type Action string

const (
	ActionAddToCart Action = "ADD_TO_CART"
	ActionBuyNow    Action = "BUY_NOW"
)

// Service submits purchase intents to the commerce service. Unlike presence
// failures, cart failures are user-visible and propagate to the caller.
type Service interface {
	SubmitIntent(ctx context.Context, viewerID, productID string, action Action, intent PurchaseIntent) error
}

var (
	ErrCommerceUnavailable = errors.New("commerce_unavailable")
	ErrIntentRejected      = errors.New("intent_rejected")
)
