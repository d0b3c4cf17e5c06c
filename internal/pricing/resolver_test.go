package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/smallbiznis/storefront/internal/catalog/domain"
)

func TestResolveDurations(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		ProductID: "prd_1",
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "1 Year", PriceINR: 999, PriceUSD: 12.99},
			{Label: "3 Years", PriceINR: 2499, PriceUSD: 29.99, TrialDays: 7},
		},
	}

	res := Resolve(src)

	require.Len(t, res.Options, 2)
	assert.Equal(t, "sub-1", res.Options[0].ID)
	assert.Equal(t, "1 Year", res.Options[0].Label)
	assert.Equal(t, Subscription, res.Options[0].Kind)
	assert.Equal(t, "Most Popular", res.Options[0].Badge)
	assert.Equal(t, "sub-2", res.Options[1].ID)
	assert.Equal(t, "Save 30%", res.Options[1].Badge)
	assert.Equal(t, 7, res.Options[1].TrialDays)
	assert.Empty(t, res.AdminOptions)
}

func TestResolveSkipsZeroPricedDurations(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "Free Tier", PriceINR: 0, PriceUSD: 0},
			{Label: "1 Year", PriceINR: 999},
		},
	}

	res := Resolve(src)

	require.Len(t, res.Options, 1)
	// IDs follow the source position, not the emitted position.
	assert.Equal(t, "sub-2", res.Options[0].ID)
	assert.Equal(t, "1 Year", res.Options[0].Label)
}

func TestResolveUSDOnlyDurationSurvives(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "1 Year", PriceUSD: 9.99},
		},
	}

	res := Resolve(src)

	require.Len(t, res.Options, 1)
	assert.Equal(t, 9.99, res.Options[0].PriceUSD)
	assert.Zero(t, res.Options[0].PriceINR)
}

func TestResolveLegacyFallback(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		Price1Year: 899,
		Price3Year: 2199,
	}

	res := Resolve(src)

	require.Len(t, res.Options, 2)
	assert.Equal(t, "legacy-1y", res.Options[0].ID)
	assert.Equal(t, "1 Year License", res.Options[0].Label)
	assert.Equal(t, LegacyYearly, res.Options[0].Kind)
	assert.Equal(t, "legacy-3y", res.Options[1].ID)
	assert.Equal(t, "3 Year License", res.Options[1].Label)
	assert.Equal(t, Legacy3Year, res.Options[1].Kind)
}

func TestResolveLegacyThreeYearAlone(t *testing.T) {
	src := catalogdomain.ProductPricingSource{Price3Year: 2199}

	res := Resolve(src)

	require.Len(t, res.Options, 1)
	assert.Equal(t, "legacy-3y", res.Options[0].ID)
}

func TestResolveLegacyIgnoredWhenDurationsExist(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "1 Year", PriceINR: 999},
		},
		Price1Year: 899,
		Price3Year: 2199,
	}

	res := Resolve(src)

	require.Len(t, res.Options, 1)
	assert.Equal(t, "sub-1", res.Options[0].ID)
}

func TestResolveLifetimeSavings(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "1 Year", PriceINR: 999},
		},
		LifetimePrice: 2499,
	}

	res := Resolve(src)

	require.Len(t, res.Options, 2)
	lifetime := res.Options[1]
	assert.Equal(t, "lifetime", lifetime.ID)
	assert.Equal(t, Lifetime, lifetime.Kind)
	assert.Equal(t, "Best Value", lifetime.Badge)
	// 999*3 - 2499 = 498
	assert.Equal(t, "Save ₹498", lifetime.SavingsText)
}

func TestResolveLifetimeWithoutYearlyClaimsNoSavings(t *testing.T) {
	src := catalogdomain.ProductPricingSource{LifetimePrice: 2499}

	res := Resolve(src)

	require.Len(t, res.Options, 1)
	assert.Empty(t, res.Options[0].SavingsText)
}

func TestResolveLifetimeNegativeSavingsSuppressed(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "1 Year", PriceINR: 500},
		},
		LifetimePrice: 2000,
	}

	res := Resolve(src)

	require.Len(t, res.Options, 2)
	assert.Empty(t, res.Options[1].SavingsText)
}

func TestResolveMembershipAndAdminPlans(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		MembershipPrice: 4999,
		AdminSubscriptionPlans: []catalogdomain.DurationPlan{
			{Label: "Monthly Flex", PriceINR: 199},
			{Label: "Invalid", PriceINR: 0},
			{Label: "Annual Bundle", PriceINR: 1999},
		},
	}

	res := Resolve(src)

	require.Len(t, res.Options, 1)
	assert.Equal(t, "membership", res.Options[0].ID)
	assert.Equal(t, "Premium Access", res.Options[0].Badge)

	require.Len(t, res.AdminOptions, 2)
	assert.Equal(t, "admin-1", res.AdminOptions[0].ID)
	assert.Equal(t, "Flexible", res.AdminOptions[0].Badge)
	assert.Equal(t, "admin-3", res.AdminOptions[1].ID)
	assert.Equal(t, "Best Deal", res.AdminOptions[1].Badge)
}

func TestResolveEmptySource(t *testing.T) {
	res := Resolve(catalogdomain.ProductPricingSource{})

	assert.True(t, res.Empty())
	assert.Empty(t, res.All())
}

func TestResolveIsDeterministic(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "1 Year", PriceINR: 999},
			{Label: "3 Years", PriceINR: 2499},
		},
		LifetimePrice:   2999,
		MembershipPrice: 4999,
		AdminSubscriptionPlans: []catalogdomain.DurationPlan{
			{Label: "Monthly", PriceINR: 99},
		},
	}

	first := Resolve(src)
	second := Resolve(src)

	assert.Equal(t, first, second)
}

func TestResolveAllOptionsHaveAPrice(t *testing.T) {
	src := catalogdomain.ProductPricingSource{
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "Ghost"},
			{Label: "1 Year", PriceINR: 999},
		},
		LifetimePrice: 2999,
		AdminSubscriptionPlans: []catalogdomain.DurationPlan{
			{Label: "Zero"},
			{Label: "Monthly", PriceUSD: 1.99},
		},
	}

	for _, opt := range Resolve(src).All() {
		assert.True(t, opt.PriceINR > 0 || opt.PriceUSD > 0, "option %s has no price", opt.ID)
	}
}

func TestResolutionFind(t *testing.T) {
	res := Resolve(catalogdomain.ProductPricingSource{
		SubscriptionDurations: []catalogdomain.DurationPlan{
			{Label: "1 Year", PriceINR: 999},
		},
		AdminSubscriptionPlans: []catalogdomain.DurationPlan{
			{Label: "Monthly", PriceINR: 99},
		},
	})

	opt, ok := res.Find("admin-1")
	require.True(t, ok)
	assert.Equal(t, AdminSubscription, opt.Kind)

	_, ok = res.Find("nope")
	assert.False(t, ok)
}
