package presence

import (
	"context"

	obsmetrics "github.com/smallbiznis/storefront/internal/observability/metrics"
)

// WithMetrics wraps a Store so swallowed failures still show up as counters.
func WithMetrics(next Store, m *obsmetrics.Metrics) Store {
	if m == nil {
		return next
	}
	return &instrumentedStore{next: next, metrics: m}
}

type instrumentedStore struct {
	next    Store
	metrics *obsmetrics.Metrics
}

func (s *instrumentedStore) Track(ctx context.Context, productID, viewerID string) (int64, error) {
	count, err := s.next.Track(ctx, productID, viewerID)
	if err != nil {
		s.metrics.RecordPresenceFailure(ctx, "track")
	}
	return count, err
}

func (s *instrumentedStore) Count(ctx context.Context, productID string) (int64, error) {
	count, err := s.next.Count(ctx, productID)
	if err != nil {
		s.metrics.RecordPresenceFailure(ctx, "poll")
	}
	return count, err
}

func (s *instrumentedStore) Release(ctx context.Context, productID, viewerID string) error {
	err := s.next.Release(ctx, productID, viewerID)
	if err != nil {
		s.metrics.RecordPresenceFailure(ctx, "release")
	}
	return err
}
