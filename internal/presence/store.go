// Package presence keeps a viewer's "currently looking at this product"
// marker alive against the external presence store and surfaces a
// best-effort aggregate count. The authoritative record and its TTL expiry
// live in the store; this package is only the client proxy.
package presence

import "context"

// Snapshot is the last count observed for one product. The client never
// holds more than this projection.
type Snapshot struct {
	ProductID string `json:"product_id"`
	Count     int64  `json:"count"`
}

// Store is the contract of the external presence store.
//
// Track registers or renews the (productID, viewerID) marker and returns the
// current aggregate count. Count reads the aggregate without registering
// anyone. Release removes the marker; callers treat it as fire-and-forget
// because the store's own TTL expiry is the authoritative cleanup for
// clients that vanish without releasing.
type Store interface {
	Track(ctx context.Context, productID, viewerID string) (int64, error)
	Count(ctx context.Context, productID string) (int64, error)
	Release(ctx context.Context, productID, viewerID string) error
}
