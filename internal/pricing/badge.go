package pricing

import "strings"

// badgeFor assigns the advisory UI badge for an option. The duration badges
// are a literal label-text heuristic carried over from the storefront's
// earlier releases ("1" in the label means the one-year plan, "3" the
// three-year plan); it is kept behind this single function so it can be
// replaced with an explicit tag on the option without touching callers.
func badgeFor(kind Kind, label string) string {
	switch kind {
	case Subscription:
		if strings.Contains(label, "1") {
			return "Most Popular"
		}
		if strings.Contains(label, "3") {
			return "Save 30%"
		}
		return ""
	case Lifetime:
		return "Best Value"
	case Membership:
		return "Premium Access"
	case AdminSubscription:
		if strings.Contains(strings.ToLower(label), "month") {
			return "Flexible"
		}
		return "Best Deal"
	default:
		return ""
	}
}
