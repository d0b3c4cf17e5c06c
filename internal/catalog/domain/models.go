package domain

import (
	"context"
	"errors"
)

// DurationPlan is one priced subscription duration as the catalog service
// records it. Admin-defined plans share the same shape but come from a
// separate administrative list.
type DurationPlan struct {
	Label     string  `json:"label"`
	PriceINR  float64 `json:"price_inr"`
	PriceUSD  float64 `json:"price_usd"`
	TrialDays int     `json:"trial_days,omitempty"`
}

// ProductPricingSource is the raw pricing record of one product. Any subset
// of the tiers may be present at the same time; legacy scalar fields survive
// on records that predate the structured duration list.
type ProductPricingSource struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`

	SubscriptionDurations []DurationPlan `json:"subscription_durations"`

	Price1Year float64 `json:"price_1_year"`
	Price3Year float64 `json:"price_3_year"`

	LifetimePrice   float64 `json:"lifetime_price"`
	MembershipPrice float64 `json:"membership_price"`

	AdminSubscriptionPlans []DurationPlan `json:"admin_subscription_plans"`
}

// Service reads product pricing records from the remote catalog service.
type Service interface {
	GetPricingSource(ctx context.Context, productID string) (*ProductPricingSource, error)
}

var (
	ErrInvalidProduct     = errors.New("invalid_product")
	ErrProductNotFound    = errors.New("product_not_found")
	ErrCatalogUnavailable = errors.New("catalog_unavailable")
)
