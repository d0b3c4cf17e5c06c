package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	p := NewProvider(zap.NewNop())

	first := p.GetOrCreate("sess-a")
	second := p.GetOrCreate("sess-a")

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestGetOrCreateDistinctSessions(t *testing.T) {
	p := NewProvider(zap.NewNop())

	a := p.GetOrCreate("sess-a")
	b := p.GetOrCreate("sess-b")

	assert.NotEqual(t, a, b)
}

func TestGetOrCreateTrimsSessionKey(t *testing.T) {
	p := NewProvider(zap.NewNop())

	a := p.GetOrCreate("sess-a")
	b := p.GetOrCreate("  sess-a  ")

	assert.Equal(t, a, b)
}

func TestClearMintsFreshIdentity(t *testing.T) {
	p := NewProvider(zap.NewNop())

	first := p.GetOrCreate("sess-a")
	p.Clear("sess-a")
	second := p.GetOrCreate("sess-a")

	assert.NotEqual(t, first, second)
}

func TestIdentityIsULID(t *testing.T) {
	p := NewProvider(zap.NewNop())

	id := p.GetOrCreate("sess-a")
	assert.Len(t, string(id), 26)
}
