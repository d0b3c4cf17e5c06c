package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/storefront/internal/catalog/domain"
	"github.com/smallbiznis/storefront/internal/clock"
	commercedomain "github.com/smallbiznis/storefront/internal/commerce/domain"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/license"
	obsmetrics "github.com/smallbiznis/storefront/internal/observability/metrics"
	"github.com/smallbiznis/storefront/internal/presence"
	"github.com/smallbiznis/storefront/internal/pricing"
	psdomain "github.com/smallbiznis/storefront/internal/productsession/domain"
	"github.com/smallbiznis/storefront/internal/ratelimit"
	"github.com/smallbiznis/storefront/internal/selection"
	"github.com/smallbiznis/storefront/internal/viewer"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	LC         fx.Lifecycle
	Cfg        config.Config
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Catalog    catalogdomain.Service
	Commerce   commercedomain.Service
	Store      presence.Store
	TrackerCfg presence.TrackerConfig
	Viewers    *viewer.Provider
	Limiter    *ratelimit.SessionOpenLimiter `optional:"true"`
	Metrics    *obsmetrics.Metrics           `optional:"true"`
}

// session is one live product view. Each view owns its own options,
// selection machine and presence tracker; nothing here is shared across
// views except the viewer identity, which is read-only after creation.
type session struct {
	id        snowflake.ID
	viewerID  viewer.ID
	productID string
	name      string

	machine *selection.Machine
	tracker *presence.Tracker

	lockToken string
	clk       clock.Clock

	mu        sync.Mutex
	prompt    *psdomain.GuardPrompt
	warnTimer *time.Timer
	lastSeen  time.Time
}

type Service struct {
	cfg      config.Config
	log      *zap.Logger
	genID    *snowflake.Node
	clk      clock.Clock
	catalog  catalogdomain.Service
	commerce commercedomain.Service
	store    presence.Store
	trackCfg presence.TrackerConfig
	viewers  *viewer.Provider
	limiter  *ratelimit.SessionOpenLimiter
	metrics  *obsmetrics.Metrics

	mu       sync.RWMutex
	sessions map[snowflake.ID]*session
	byView   map[string]snowflake.ID

	janitorStop chan struct{}
}

func New(p Params) psdomain.Service {
	s := &Service{
		cfg:         p.Cfg,
		log:         p.Log.Named("productsession.service"),
		genID:       p.GenID,
		clk:         p.Clock,
		catalog:     p.Catalog,
		commerce:    p.Commerce,
		store:       p.Store,
		trackCfg:    p.TrackerCfg,
		viewers:     p.Viewers,
		limiter:     p.Limiter,
		metrics:     p.Metrics,
		sessions:    make(map[snowflake.ID]*session),
		byView:      make(map[string]snowflake.ID),
		janitorStop: make(chan struct{}),
	}

	if p.LC != nil {
		p.LC.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				_ = ctx
				go s.runJanitor()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				close(s.janitorStop)
				s.closeAll(ctx)
				return nil
			},
		})
	}

	return s
}

func (s *Service) Open(ctx context.Context, sessionKey, productID string) (*psdomain.View, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, catalogdomain.ErrInvalidProduct
	}

	viewerID := s.viewers.GetOrCreate(sessionKey)

	if s.limiter.Enabled() {
		allowed, err := s.limiter.AllowOpen(ctx, string(viewerID))
		if err != nil {
			// A broken limiter must not take the storefront down.
			s.log.Warn("session open limiter failed", zap.Error(err))
		} else if !allowed {
			return nil, psdomain.ErrRateLimited
		}
	}

	// Re-opening the same product in the same browser session returns the
	// live view instead of stacking a second tracker on it.
	if existing := s.findByView(viewerID, productID); existing != nil {
		existing.touch()
		return s.view(existing), nil
	}

	lockToken, locked, err := s.limiter.TryLockView(ctx, string(viewerID), productID, s.cfg.SessionIdleTTL)
	if err != nil {
		s.log.Warn("session view lock failed", zap.Error(err))
		lockToken, locked = "", true
	}
	if !locked {
		return nil, psdomain.ErrSessionConflict
	}

	src, err := s.catalog.GetPricingSource(ctx, productID)
	if err != nil {
		// The product fetch is the only failure that surfaces to the
		// viewer; drop the lock so a retry can go through.
		s.releaseViewLock(viewerID, productID, lockToken)
		return nil, err
	}

	machine := selection.NewMachine()
	machine.ApplyResolution(pricing.Resolve(*src))

	tracker := presence.NewTracker(s.store, s.log, s.trackCfg, productID, string(viewerID))
	tracker.Start()

	sess := &session{
		id:        s.genID.Generate(),
		viewerID:  viewerID,
		productID: productID,
		name:      src.Name,
		machine:   machine,
		tracker:   tracker,
		lockToken: lockToken,
		clk:       s.clk,
		lastSeen:  s.clk.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.byView[viewKey(viewerID, productID)] = sess.id
	s.mu.Unlock()

	s.metrics.RecordSessionOpened(ctx)
	s.log.Info("product session opened",
		zap.String("session_id", sess.id.String()),
		zap.String("product_id", productID),
	)

	return s.view(sess), nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (*psdomain.View, error) {
	_ = ctx
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.touch()
	return s.view(sess), nil
}

func (s *Service) Select(ctx context.Context, sessionID, optionID string) (*psdomain.View, error) {
	_ = ctx
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.touch()

	if err := sess.machine.Select(strings.TrimSpace(optionID)); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *Service) AddToCart(ctx context.Context, sessionID string) (*psdomain.View, error) {
	return s.purchase(ctx, sessionID, commercedomain.ActionAddToCart)
}

func (s *Service) BuyNow(ctx context.Context, sessionID string) (*psdomain.View, error) {
	return s.purchase(ctx, sessionID, commercedomain.ActionBuyNow)
}

func (s *Service) purchase(ctx context.Context, sessionID string, action commercedomain.Action) (*psdomain.View, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.touch()

	opt, err := sess.machine.Guard()
	if err != nil {
		s.armGuardPrompt(sess)
		s.metrics.RecordGuardRejection(ctx)
		return nil, err
	}

	intent := commercedomain.PurchaseIntent{
		LicenseType: license.Normalize(opt, sess.machine.Resolution().Options),
		PriceINR:    opt.PriceINR,
		OptionLabel: opt.Label,
	}

	if err := s.commerce.SubmitIntent(ctx, string(sess.viewerID), sess.productID, action, intent); err != nil {
		return nil, err
	}

	s.metrics.RecordPurchaseIntent(ctx, string(action), string(intent.LicenseType))
	s.log.Info("purchase intent submitted",
		zap.String("session_id", sess.id.String()),
		zap.String("product_id", sess.productID),
		zap.String("action", string(action)),
		zap.String("license_type", string(intent.LicenseType)),
	)

	return s.view(sess), nil
}

func (s *Service) Presence(ctx context.Context, sessionID string) (presence.Snapshot, error) {
	_ = ctx
	sess, err := s.lookup(sessionID)
	if err != nil {
		return presence.Snapshot{}, err
	}
	sess.touch()
	return sess.tracker.Snapshot(), nil
}

func (s *Service) Close(ctx context.Context, sessionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	s.closeSession(ctx, sess)
	return nil
}

// armGuardPrompt fires the focus-then-warn side effect for a rejected
// purchase attempt: the focus directive is visible immediately, the warning
// flag flips once the configured delay has passed so the scroll can finish
// first. A prompt already in flight is not re-armed.
func (s *Service) armGuardPrompt(sess *session) {
	delay := s.cfg.GuardWarnDelay
	if delay <= 0 {
		delay = 400 * time.Millisecond
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.prompt != nil && !sess.prompt.Warned {
		return
	}

	prompt := &psdomain.GuardPrompt{
		FocusOptions: true,
		IssuedAt:     s.clk.Now(),
		WarnAfter:    delay,
	}
	sess.prompt = prompt
	sess.warnTimer = time.AfterFunc(delay, func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if sess.prompt == prompt {
			prompt.Warned = true
		}
	})
}

func (s *Service) closeSession(ctx context.Context, sess *session) {
	s.mu.Lock()
	if _, ok := s.sessions[sess.id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, sess.id)
	delete(s.byView, viewKey(sess.viewerID, sess.productID))
	s.mu.Unlock()

	sess.tracker.Stop()

	sess.mu.Lock()
	if sess.warnTimer != nil {
		sess.warnTimer.Stop()
		sess.warnTimer = nil
	}
	sess.mu.Unlock()

	s.releaseViewLock(sess.viewerID, sess.productID, sess.lockToken)

	s.metrics.RecordSessionClosed(ctx)
	s.log.Info("product session closed",
		zap.String("session_id", sess.id.String()),
		zap.String("product_id", sess.productID),
	)
}

func (s *Service) closeAll(ctx context.Context) {
	s.mu.RLock()
	open := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.RUnlock()

	for _, sess := range open {
		s.closeSession(ctx, sess)
	}
}

// runJanitor closes sessions that went idle past the configured TTL, so an
// abandoned tab cannot keep a presence tracker renewing forever.
func (s *Service) runJanitor() {
	idleTTL := s.cfg.SessionIdleTTL
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}

	ticker := time.NewTicker(idleTTL / 4)
	defer ticker.Stop()

	for {
		select {
		case <-s.janitorStop:
			return
		case <-ticker.C:
			cutoff := s.clk.Now().Add(-idleTTL)

			s.mu.RLock()
			var stale []*session
			for _, sess := range s.sessions {
				if sess.seen().Before(cutoff) {
					stale = append(stale, sess)
				}
			}
			s.mu.RUnlock()

			for _, sess := range stale {
				s.log.Info("closing idle product session",
					zap.String("session_id", sess.id.String()),
					zap.String("product_id", sess.productID),
				)
				s.closeSession(context.Background(), sess)
			}
		}
	}
}

func (s *Service) lookup(sessionID string) (*session, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(sessionID))
	if err != nil {
		return nil, psdomain.ErrInvalidSession
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, psdomain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) findByView(viewerID viewer.ID, productID string) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byView[viewKey(viewerID, productID)]
	if !ok {
		return nil
	}
	return s.sessions[id]
}

func (s *Service) releaseViewLock(viewerID viewer.ID, productID, token string) {
	if token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.limiter.ReleaseView(ctx, string(viewerID), productID, token); err != nil {
		s.log.Warn("session view unlock failed", zap.Error(err))
	}
}

func (s *Service) view(sess *session) *psdomain.View {
	res := sess.machine.Resolution()
	selectedID, confirmed := sess.machine.Selected()

	sess.mu.Lock()
	var prompt *psdomain.GuardPrompt
	if sess.prompt != nil {
		copied := *sess.prompt
		prompt = &copied
	}
	sess.mu.Unlock()

	return &psdomain.View{
		SessionID:        sess.id.String(),
		ProductID:        sess.productID,
		ProductName:      sess.name,
		ViewerID:         string(sess.viewerID),
		Options:          res.Options,
		AdminOptions:     res.AdminOptions,
		SelectedOptionID: selectedID,
		Confirmed:        confirmed,
		Presence:         sess.tracker.Snapshot(),
		GuardPrompt:      prompt,
	}
}

func (sess *session) touch() {
	sess.mu.Lock()
	sess.lastSeen = sess.clk.Now()
	sess.mu.Unlock()
}

func (sess *session) seen() time.Time {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.lastSeen
}

func viewKey(viewerID viewer.ID, productID string) string {
	return string(viewerID) + ":" + productID
}
