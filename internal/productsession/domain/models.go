package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/storefront/internal/presence"
	"github.com/smallbiznis/storefront/internal/pricing"
)

// GuardPrompt is the visible side effect of a purchase attempt without a
// confirmed selection: the view is directed to the option list immediately,
// then warned once the scroll has had time to complete.
type GuardPrompt struct {
	FocusOptions bool          `json:"focus_options"`
	IssuedAt     time.Time     `json:"issued_at"`
	WarnAfter    time.Duration `json:"warn_after"`
	Warned       bool          `json:"warned"`
}

// View is the client-facing projection of one product view session.
type View struct {
	SessionID        string            `json:"session_id"`
	ProductID        string            `json:"product_id"`
	ProductName      string            `json:"product_name,omitempty"`
	ViewerID         string            `json:"viewer_id"`
	Options          []pricing.Option  `json:"options"`
	AdminOptions     []pricing.Option  `json:"admin_options,omitempty"`
	SelectedOptionID string            `json:"selected_option_id,omitempty"`
	Confirmed        bool              `json:"confirmed"`
	Presence         presence.Snapshot `json:"presence"`
	GuardPrompt      *GuardPrompt      `json:"guard_prompt,omitempty"`
}

// Service is the product session engine: it owns the ephemeral per-view
// state from open to close and is the only writer of it.
type Service interface {
	Open(ctx context.Context, sessionKey, productID string) (*View, error)
	Get(ctx context.Context, sessionID string) (*View, error)
	Select(ctx context.Context, sessionID, optionID string) (*View, error)
	AddToCart(ctx context.Context, sessionID string) (*View, error)
	BuyNow(ctx context.Context, sessionID string) (*View, error)
	Presence(ctx context.Context, sessionID string) (presence.Snapshot, error)
	Close(ctx context.Context, sessionID string) error
}

var (
	ErrInvalidSession  = errors.New("invalid_session")
	ErrSessionNotFound = errors.New("session_not_found")
	ErrSessionConflict = errors.New("session_conflict")
	ErrRateLimited     = errors.New("rate_limited")
)
