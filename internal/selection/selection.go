// Package selection tracks which pricing option the viewer has chosen for
// one product view.
package selection

import (
	"errors"
	"sync"

	"github.com/smallbiznis/storefront/internal/pricing"
)

var (
	ErrSelectionRequired = errors.New("selection_required")
	ErrUnknownOption     = errors.New("unknown_option")
)

// Machine is the per-view selection state machine. It starts unselected,
// auto-confirms when a resolution leaves nothing to choose, and never reverts
// to unselected for the lifetime of the view. A new product view gets a fresh
// machine.
type Machine struct {
	mu         sync.Mutex
	resolution pricing.Resolution
	selectedID string
	confirmed  bool
}

func NewMachine() *Machine {
	return &Machine{}
}

// ApplyResolution installs the resolved options. A product with exactly one
// purchasable option has nothing to choose, so the machine confirms it
// immediately. This runs before any purchase-guard check of the same pass.
func (m *Machine) ApplyResolution(res pricing.Resolution) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolution = res
	if m.confirmed {
		return
	}
	if all := res.All(); len(all) == 1 {
		m.selectedID = all[0].ID
		m.confirmed = true
	}
}

// Select records an explicit user pick. It overwrites any prior selection
// unconditionally and confirms the machine.
func (m *Machine) Select(optionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resolution.Find(optionID); !ok {
		return ErrUnknownOption
	}
	m.selectedID = optionID
	m.confirmed = true
	return nil
}

// Guard gates purchase actions. While the viewer has not confirmed a choice
// it fails with ErrSelectionRequired and leaves the state unchanged.
func (m *Machine) Guard() (pricing.Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.confirmed {
		return pricing.Option{}, ErrSelectionRequired
	}
	opt, ok := m.resolution.Find(m.selectedID)
	if !ok {
		return pricing.Option{}, ErrSelectionRequired
	}
	return opt, nil
}

// Selected returns the chosen option id and whether the choice is confirmed.
func (m *Machine) Selected() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedID, m.confirmed
}

// Resolution returns the options installed by the last ApplyResolution.
func (m *Machine) Resolution() pricing.Resolution {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolution
}
