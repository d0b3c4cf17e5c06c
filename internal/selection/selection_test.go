package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/storefront/internal/pricing"
)

func twoOptionResolution() pricing.Resolution {
	return pricing.Resolution{
		Options: []pricing.Option{
			{ID: "sub-1", Label: "1 Year", PriceINR: 999, Kind: pricing.Subscription},
			{ID: "lifetime", Label: "Lifetime License", PriceINR: 2999, Kind: pricing.Lifetime},
		},
	}
}

func TestMachineStartsUnselected(t *testing.T) {
	m := NewMachine()
	m.ApplyResolution(twoOptionResolution())

	id, confirmed := m.Selected()
	assert.Empty(t, id)
	assert.False(t, confirmed)

	_, err := m.Guard()
	assert.ErrorIs(t, err, ErrSelectionRequired)
}

func TestMachineAutoConfirmsSingleOption(t *testing.T) {
	m := NewMachine()
	m.ApplyResolution(pricing.Resolution{
		Options: []pricing.Option{
			{ID: "lifetime", Label: "Lifetime License", PriceINR: 2999, Kind: pricing.Lifetime},
		},
	})

	id, confirmed := m.Selected()
	assert.Equal(t, "lifetime", id)
	assert.True(t, confirmed)

	opt, err := m.Guard()
	require.NoError(t, err)
	assert.Equal(t, "lifetime", opt.ID)
}

func TestMachineNoAutoConfirmWhenAdminOptionExists(t *testing.T) {
	m := NewMachine()
	m.ApplyResolution(pricing.Resolution{
		Options: []pricing.Option{
			{ID: "sub-1", Kind: pricing.Subscription, PriceINR: 999},
		},
		AdminOptions: []pricing.Option{
			{ID: "admin-1", Kind: pricing.AdminSubscription, PriceINR: 99},
		},
	})

	_, confirmed := m.Selected()
	assert.False(t, confirmed)
}

func TestMachineSelect(t *testing.T) {
	m := NewMachine()
	m.ApplyResolution(twoOptionResolution())

	require.NoError(t, m.Select("sub-1"))
	opt, err := m.Guard()
	require.NoError(t, err)
	assert.Equal(t, "sub-1", opt.ID)

	// A later pick overwrites the earlier one unconditionally.
	require.NoError(t, m.Select("lifetime"))
	opt, err = m.Guard()
	require.NoError(t, err)
	assert.Equal(t, "lifetime", opt.ID)
}

func TestMachineSelectUnknownOption(t *testing.T) {
	m := NewMachine()
	m.ApplyResolution(twoOptionResolution())

	err := m.Select("bogus")
	assert.ErrorIs(t, err, ErrUnknownOption)

	_, confirmed := m.Selected()
	assert.False(t, confirmed)
}

func TestMachineNeverRevertsToUnselected(t *testing.T) {
	m := NewMachine()
	m.ApplyResolution(twoOptionResolution())
	require.NoError(t, m.Select("sub-1"))

	// A failed pick after confirmation keeps the previous choice.
	assert.ErrorIs(t, m.Select("bogus"), ErrUnknownOption)
	id, confirmed := m.Selected()
	assert.Equal(t, "sub-1", id)
	assert.True(t, confirmed)

	// Re-applying a resolution keeps the confirmed choice too.
	m.ApplyResolution(twoOptionResolution())
	id, confirmed = m.Selected()
	assert.Equal(t, "sub-1", id)
	assert.True(t, confirmed)
}

func TestMachineGuardWithEmptyResolution(t *testing.T) {
	m := NewMachine()
	m.ApplyResolution(pricing.Resolution{})

	_, err := m.Guard()
	assert.ErrorIs(t, err, ErrSelectionRequired)
}
