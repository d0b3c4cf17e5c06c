// Package license folds normalized pricing options into the coarse
// three-value license vocabulary the external cart collaborator accepts.
package license

import (
	"strings"

	"github.com/smallbiznis/storefront/internal/pricing"
)

// Type is the fixed vocabulary understood by the cart/checkout service. It is
// intentionally narrower than pricing.Kind: finer-grained plans fold into the
// nearest bucket rather than being rejected.
type Type string

const (
	OneYear   Type = "ONE_YEAR"
	ThreeYear Type = "THREE_YEAR"
	Lifetime  Type = "LIFETIME"
)

// Normalize maps a chosen option to its license type. It is total: every
// option maps to exactly one type and unrecognized shapes default to OneYear.
// primary is the primary option list of the same resolution pass; positions
// within it decide the bucket for subscription-style options.
func Normalize(opt pricing.Option, primary []pricing.Option) Type {
	switch opt.Kind {
	case pricing.Lifetime:
		return Lifetime
	case pricing.Subscription, pricing.LegacyYearly, pricing.Legacy3Year:
		if subscriptionPosition(opt, primary) == 1 {
			return ThreeYear
		}
		return OneYear
	case pricing.AdminSubscription, pricing.Membership:
		return fromLabel(opt.Label)
	default:
		return OneYear
	}
}

// subscriptionPosition returns the index of opt among the subscription-like
// options of the primary list, or 0 when it is not found.
func subscriptionPosition(opt pricing.Option, primary []pricing.Option) int {
	pos := 0
	for _, candidate := range primary {
		switch candidate.Kind {
		case pricing.Subscription, pricing.LegacyYearly, pricing.Legacy3Year:
		default:
			continue
		}
		if candidate.ID == opt.ID {
			return pos
		}
		pos++
	}
	return 0
}

// fromLabel is the case-insensitive label heuristic for plans the cart has no
// exact bucket for. Monthly, quarterly and unrecognized labels all fold into
// OneYear by explicit default.
func fromLabel(label string) Type {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "3") && strings.Contains(l, "year"):
		return ThreeYear
	case strings.Contains(l, "1") && strings.Contains(l, "year"):
		return OneYear
	case strings.Contains(l, "annual"):
		return OneYear
	default:
		return OneYear
	}
}
