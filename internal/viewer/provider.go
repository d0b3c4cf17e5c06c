// Package viewer mints and stores the per-browser-session viewer identity.
package viewer

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// ID is an opaque viewer identifier. One identity exists per browser
// session, shared across every product view of that session, and is
// read-only after creation.
type ID string

// Provider hands out viewer identities keyed by the caller's session key.
// Identifiers are ULIDs: a timestamp plus a random component, which gives
// analytics-grade uniqueness without any cryptographic claim.
type Provider struct {
	log *zap.Logger

	mu      sync.Mutex
	entropy *rand.Rand
	ids     map[string]ID
}

func NewProvider(log *zap.Logger) *Provider {
	return &Provider{
		log:     log.Named("viewer.provider"),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		ids:     make(map[string]ID),
	}
}

// GetOrCreate returns the identity bound to sessionKey, minting one on the
// first call. Subsequent calls with the same key return the same value.
func (p *Provider) GetOrCreate(sessionKey string) ID {
	sessionKey = strings.TrimSpace(sessionKey)

	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.ids[sessionKey]; ok {
		return id
	}

	id := ID(ulid.MustNew(ulid.Now(), p.entropy).String())
	p.ids[sessionKey] = id
	p.log.Debug("viewer identity created", zap.String("viewer_id", string(id)))
	return id
}

// Clear drops the identity bound to sessionKey. Test isolation only; never
// called from serving code.
func (p *Provider) Clear(sessionKey string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.ids, strings.TrimSpace(sessionKey))
}
