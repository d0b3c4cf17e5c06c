package pricing

import (
	"fmt"
	"strconv"
	"strings"

	catalogdomain "github.com/smallbiznis/storefront/internal/catalog/domain"
)

// Resolve converts a raw product pricing record into the normalized option
// lists. It is pure and deterministic: the same source always yields the same
// options in the same order, a malformed or empty source yields an empty
// resolution and never an error.
//
// The rules run as an ordered pipeline; order matters because the lifetime
// savings computation reads the yearly price found by the earlier steps.
func Resolve(src catalogdomain.ProductPricingSource) Resolution {
	var res Resolution

	res.Options = appendDurationOptions(res.Options, src.SubscriptionDurations)

	// Legacy scalar fields are only consulted when the structured list
	// contributed nothing. Older records carry only these.
	if len(res.Options) == 0 {
		if src.Price1Year > 0 {
			res.Options = append(res.Options, Option{
				ID:       "legacy-1y",
				Label:    "1 Year License",
				PriceINR: src.Price1Year,
				Kind:     LegacyYearly,
			})
		}
		if src.Price3Year > 0 {
			res.Options = append(res.Options, Option{
				ID:       "legacy-3y",
				Label:    "3 Year License",
				PriceINR: src.Price3Year,
				Kind:     Legacy3Year,
			})
		}
	}

	if src.LifetimePrice > 0 {
		opt := Option{
			ID:       "lifetime",
			Label:    "Lifetime License",
			PriceINR: src.LifetimePrice,
			Kind:     Lifetime,
			Badge:    badgeFor(Lifetime, ""),
		}
		if savings := lifetimeSavings(res.Options, src.LifetimePrice); savings > 0 {
			opt.SavingsText = fmt.Sprintf("Save ₹%s", formatAmount(savings))
		}
		res.Options = append(res.Options, opt)
	}

	if src.MembershipPrice > 0 {
		res.Options = append(res.Options, Option{
			ID:       "membership",
			Label:    "Membership",
			PriceINR: src.MembershipPrice,
			Kind:     Membership,
			Badge:    badgeFor(Membership, ""),
		})
	}

	// Admin plans stay in their own list; no savings text is computed for
	// them and they never reorder the primary list.
	for i, plan := range src.AdminSubscriptionPlans {
		if plan.PriceINR <= 0 && plan.PriceUSD <= 0 {
			continue
		}
		res.AdminOptions = append(res.AdminOptions, Option{
			ID:        "admin-" + strconv.Itoa(i+1),
			Label:     strings.TrimSpace(plan.Label),
			PriceINR:  plan.PriceINR,
			PriceUSD:  plan.PriceUSD,
			Kind:      AdminSubscription,
			Badge:     badgeFor(AdminSubscription, plan.Label),
			TrialDays: plan.TrialDays,
		})
	}

	return res
}

func appendDurationOptions(options []Option, plans []catalogdomain.DurationPlan) []Option {
	for i, plan := range plans {
		// Entries priced at zero or blank in both currencies contribute
		// nothing; that is a silent drop, not an error.
		if plan.PriceINR <= 0 && plan.PriceUSD <= 0 {
			continue
		}
		options = append(options, Option{
			ID:        "sub-" + strconv.Itoa(i+1),
			Label:     strings.TrimSpace(plan.Label),
			PriceINR:  plan.PriceINR,
			PriceUSD:  plan.PriceUSD,
			Kind:      Subscription,
			Badge:     badgeFor(Subscription, plan.Label),
			TrialDays: plan.TrialDays,
		})
	}
	return options
}

// lifetimeSavings computes max(0, yearly*3 - lifetime) against the first
// subscription or yearly option emitted by the earlier pipeline steps. When
// no such option exists the yearly price is zero and no savings are claimed.
func lifetimeSavings(options []Option, lifetimePrice float64) float64 {
	yearly := 0.0
	for _, opt := range options {
		if opt.Kind == Subscription || opt.Kind == LegacyYearly {
			yearly = opt.PriceINR
			break
		}
	}
	savings := yearly*3 - lifetimePrice
	if savings < 0 {
		return 0
	}
	return savings
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
