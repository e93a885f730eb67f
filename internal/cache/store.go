// Package cache provides the TTL-aware key/value store used for resolved
// transcripts. Supports in-memory, SQLite and Redis backends so a single
// binary and a multi-instance deployment can share the same contract.
package cache

import (
	"context"
	"time"
)

// Record is a single cached transcript entry as returned by a Store.
// Expired records are retained and returned with Expired set instead of being
// dropped; the resolver uses them for stale fallback.
type Record struct {
	Content     *string        `json:"content"`
	Source      string         `json:"source"`
	Service     string         `json:"service"`
	ResourceKey string         `json:"resource_key,omitempty"`
	Expired     bool           `json:"expired"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	StoredAt    time.Time      `json:"stored_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// SetArgs describes a cache write. Every write replaces the record stored
// under URL; records are never mutated in place.
type SetArgs struct {
	URL         string
	Service     string
	ResourceKey string
	Content     *string
	Source      string
	TTL         time.Duration
	Metadata    map[string]any
}

// Store defines the transcript cache contract.
// Implementations must be safe for concurrent use. Get returns nil, nil when
// no record exists for the URL.
type Store interface {
	Get(ctx context.Context, url string) (*Record, error)
	Set(ctx context.Context, args SetArgs) error
	Close() error
}
