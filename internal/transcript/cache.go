package transcript

import (
	"context"
	"time"

	"linksum/internal/cache"
)

// Positive results outlive negative ones by design: captions can appear on a
// video long before its content changes.
const (
	PositiveTTL = 7 * 24 * time.Hour
	NegativeTTL = 6 * time.Hour
)

// cacheReadOutcome is the gateway's translation of a raw store record into
// resolution terms. cached is kept even when it does not resolve the request
// so the stale-fallback path can reuse it later.
type cacheReadOutcome struct {
	cached      *cache.Record
	resolution  *Resolution
	diagnostics Diagnostics
}

// readCache consults the store for the normalized URL and classifies the
// result as miss, bypassed, expired or hit. Store errors propagate: store
// reliability is the store's contract, not this engine's.
func readCache(ctx context.Context, store cache.Store, url string, mode CacheMode) (cacheReadOutcome, error) {
	diagnostics := Diagnostics{
		CacheMode:          mode,
		CacheStatus:        CacheStatusMiss,
		AttemptedProviders: []Source{},
	}
	if mode == CacheModeBypass {
		diagnostics.CacheStatus = CacheStatusBypassed
		diagnostics.Notes = "Cache bypass requested"
	}

	var cached *cache.Record
	if store != nil {
		var err error
		cached, err = store.Get(ctx, url)
		if err != nil {
			return cacheReadOutcome{}, err
		}
	}
	if cached == nil {
		return cacheReadOutcome{diagnostics: diagnostics}, nil
	}

	provider := MapCachedSource(cached.Source)
	diagnostics.Provider = provider
	diagnostics.TextProvided = hasText(cached.Content)

	if mode == CacheModeBypass {
		diagnostics.Notes = appendNote(diagnostics.Notes, "Cached transcript ignored due to bypass request")
		return cacheReadOutcome{cached: cached, diagnostics: diagnostics}, nil
	}

	if cached.Expired {
		diagnostics.CacheStatus = CacheStatusExpired
		diagnostics.Notes = appendNote(diagnostics.Notes, "Cached transcript expired; fetching fresh copy")
		return cacheReadOutcome{cached: cached, diagnostics: diagnostics}, nil
	}

	diagnostics.CacheStatus = CacheStatusHit
	diagnostics.Notes = appendNote(diagnostics.Notes, "Served transcript from cache")
	return cacheReadOutcome{
		cached:      cached,
		resolution:  &Resolution{Text: cached.Content, Source: provider},
		diagnostics: diagnostics,
	}, nil
}

// writeCache persists a determinate provider outcome under the normalized
// URL. Indeterminate results (no source, no text) are never written, and a
// missing store degrades to a no-op.
func writeCache(ctx context.Context, store cache.Store, url string, service Service, resourceKey string, result Result) error {
	if store == nil {
		return nil
	}
	if result.Source == SourceNone && result.Text == nil {
		return nil
	}

	ttl := NegativeTTL
	if hasText(result.Text) {
		ttl = PositiveTTL
	}

	source := result.Source
	if source == SourceNone {
		if hasText(result.Text) {
			source = SourceUnknown
		} else {
			source = SourceUnavailable
		}
	}

	return store.Set(ctx, cache.SetArgs{
		URL:         url,
		Service:     string(service),
		ResourceKey: resourceKey,
		Content:     result.Text,
		Source:      string(source),
		TTL:         ttl,
		Metadata:    result.Metadata,
	})
}

// MapCachedSource coerces a persisted source tag back into the closed Source
// set. Known values pass through; legacy or free-form tags become
// SourceUnknown so older cache records stay readable across engine versions.
func MapCachedSource(source string) Source {
	if source == "" {
		return SourceNone
	}
	switch Source(source) {
	case SourceYoutubei, SourceCaptionTracks, SourceApify, SourceHTML, SourceUnavailable:
		return Source(source)
	}
	return SourceUnknown
}
