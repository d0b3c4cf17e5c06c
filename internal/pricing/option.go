package pricing

// Kind classifies where a purchasable option came from in the product record.
type Kind string

const (
	Subscription      Kind = "SUBSCRIPTION"
	LegacyYearly      Kind = "LEGACY_YEARLY"
	Legacy3Year       Kind = "LEGACY_3YEAR"
	Lifetime          Kind = "LIFETIME"
	Membership        Kind = "MEMBERSHIP"
	AdminSubscription Kind = "ADMIN_SUBSCRIPTION"
)

// Option is one normalized purchasable plan derived from a product record.
// IDs are stable within a single resolution pass only and are never persisted.
type Option struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	PriceINR    float64 `json:"price_inr"`
	PriceUSD    float64 `json:"price_usd"`
	Kind        Kind    `json:"kind"`
	Badge       string  `json:"badge,omitempty"`
	TrialDays   int     `json:"trial_days,omitempty"`
	SavingsText string  `json:"savings_text,omitempty"`
}

// Resolution is the output of one resolver pass. Admin-defined plans are kept
// in their own list and are never merged into the primary ordering; callers
// concatenate the two for presentation but group them visually.
type Resolution struct {
	Options      []Option `json:"options"`
	AdminOptions []Option `json:"admin_options"`
}

// All returns the primary options followed by the admin-defined ones.
func (r Resolution) All() []Option {
	if len(r.AdminOptions) == 0 {
		return r.Options
	}
	out := make([]Option, 0, len(r.Options)+len(r.AdminOptions))
	out = append(out, r.Options...)
	out = append(out, r.AdminOptions...)
	return out
}

// Empty reports whether the pass produced no purchasable option at all.
// That is a valid, renderable state, not an error.
func (r Resolution) Empty() bool {
	return len(r.Options) == 0 && len(r.AdminOptions) == 0
}

// Find looks an option up by its pass-scoped id.
func (r Resolution) Find(id string) (Option, bool) {
	for _, opt := range r.All() {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}
