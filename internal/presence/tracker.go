package presence

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TrackerConfig controls the tracker's two cadences and the teardown budget.
type TrackerConfig struct {
	TrackInterval  time.Duration
	PollInterval   time.Duration
	ReleaseTimeout time.Duration
}

func (c TrackerConfig) withDefaults() TrackerConfig {
	if c.TrackInterval <= 0 {
		c.TrackInterval = 10 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Second
	}
	if c.ReleaseTimeout <= 0 {
		c.ReleaseTimeout = 2 * time.Second
	}
	return c
}

// Tracker maintains one viewer's presence marker on one product while the
// corresponding view is live. Two independent tickers run in a single
// goroutine: the heartbeat renews the marker and the poll refreshes the
// count. Both are cancelled together so a leaked timer can never keep
// renewing presence for a product the viewer already left.
//
// Every store failure is logged and swallowed; the surfaced snapshot only
// moves on a successful call, otherwise the last-known count stays.
type Tracker struct {
	store store
	log   *zap.Logger
	cfg   TrackerConfig

	productID string
	viewerID  string

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	count   int64
}

// store is the subset of Store the tracker needs; narrowed for testability.
type store interface {
	Track(ctx context.Context, productID, viewerID string) (int64, error)
	Count(ctx context.Context, productID string) (int64, error)
	Release(ctx context.Context, productID, viewerID string) error
}

func NewTracker(s Store, log *zap.Logger, cfg TrackerConfig, productID, viewerID string) *Tracker {
	return &Tracker{
		store:     s,
		log:       log.Named("presence.tracker").With(zap.String("product_id", productID)),
		cfg:       cfg.withDefaults(),
		productID: productID,
		viewerID:  viewerID,
	}
}

// Start begins tracking: an immediate heartbeat, then the two repeating
// tickers. Idempotent.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil || t.stopped {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.run(ctx)
}

func (t *Tracker) run(ctx context.Context) {
	t.beat(ctx)

	track := time.NewTicker(t.cfg.TrackInterval)
	defer track.Stop()
	poll := time.NewTicker(t.cfg.PollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-track.C:
			t.beat(ctx)
		case <-poll.C:
			t.poll(ctx)
		}
	}
}

func (t *Tracker) beat(ctx context.Context) {
	productID := t.productID
	count, err := t.store.Track(ctx, productID, t.viewerID)
	if err != nil {
		if ctx.Err() == nil {
			t.log.Debug("presence track failed", zap.Error(err))
		}
		return
	}
	t.setCount(productID, count)
}

func (t *Tracker) poll(ctx context.Context) {
	productID := t.productID
	count, err := t.store.Count(ctx, productID)
	if err != nil {
		if ctx.Err() == nil {
			t.log.Debug("presence poll failed", zap.Error(err))
		}
		return
	}
	t.setCount(productID, count)
}

// setCount applies a completion. Completions are keyed by the productID
// captured when the call was issued; anything arriving after Stop, or for a
// product this tracker does not own, is discarded rather than written over
// the current view's display.
func (t *Tracker) setCount(productID string, count int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || productID != t.productID {
		return
	}
	if count < 0 {
		count = 0
	}
	t.count = count
}

// Stop cancels both tickers atomically and fires one best-effort release.
// The release is never awaited or retried; unreachable stores are covered by
// the server-side TTL expiry. Safe to call more than once.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	go func() {
		ctx, cancelRelease := context.WithTimeout(context.Background(), t.cfg.ReleaseTimeout)
		defer cancelRelease()
		if err := t.store.Release(ctx, t.productID, t.viewerID); err != nil {
			t.log.Debug("presence release failed", zap.Error(err))
		}
	}()
}

// Snapshot returns the last-known presence projection for the tracked
// product.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{ProductID: t.productID, Count: t.count}
}
