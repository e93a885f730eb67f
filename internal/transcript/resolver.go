package transcript

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linksum/internal/cache"
	"linksum/internal/youtube"
)

const defaultFetchTimeout = 15 * time.Second

// Config carries the resolver's external collaborators. Zero values are
// usable: no store means no caching, no client means a default HTTP client.
type Config struct {
	Store      cache.Store
	Client     *http.Client
	Timeout    time.Duration
	ApifyToken string
	Logger     *zap.Logger
}

// Resolver turns a content URL into a transcript resolution: select one
// provider, consult the cache, fetch on miss, write back, and fall back to
// stale cached content when a fresh attempt comes up empty.
type Resolver struct {
	registry *Registry
	store    cache.Store
	client   *http.Client
	timeout  time.Duration
	apify    string
	log      *zap.Logger
}

// NewResolver builds a resolver around an explicitly constructed registry.
func NewResolver(registry *Registry, config Config) *Resolver {
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		registry: registry,
		store:    config.Store,
		client:   client,
		timeout:  timeout,
		apify:    config.ApifyToken,
		log:      logger,
	}
}

// Resolve produces a transcript resolution for url. html, when non-empty, is
// the already-fetched page body. The only errors returned are registry
// misconfiguration and cache store failures; provider faults of any kind
// surface as a well-formed negative resolution instead.
func (r *Resolver) Resolve(ctx context.Context, url, html string, mode CacheMode) (Resolution, error) {
	if mode == "" {
		mode = CacheModeDefault
	}
	normalizedURL := strings.TrimSpace(url)
	requestID := uuid.NewString()

	pctx := Context{
		URL:         normalizedURL,
		HTML:        html,
		ResourceKey: extractResourceKey(normalizedURL),
	}

	provider, err := r.registry.Select(pctx)
	if err != nil {
		return Resolution{}, err
	}
	service := provider.ID()

	outcome, err := readCache(ctx, r.store, normalizedURL, mode)
	if err != nil {
		return Resolution{}, err
	}
	diagnostics := outcome.diagnostics

	if outcome.resolution != nil {
		r.log.Debug("served transcript from cache",
			zap.String("request_id", requestID),
			zap.String("url", normalizedURL),
			zap.String("provider", string(diagnostics.Provider)))
		resolved := *outcome.resolution
		resolved.Diagnostics = diagnostics
		return resolved, nil
	}

	result := provider.Fetch(ctx, pctx, FetchOptions{
		Client:     r.client,
		Timeout:    r.timeout,
		ApifyToken: r.apify,
		Logger:     r.log,
	})
	diagnostics.Provider = result.Source
	diagnostics.AttemptedProviders = result.AttemptedProviders
	diagnostics.TextProvided = hasText(result.Text)

	if result.Source != SourceNone || result.Text != nil {
		if err := writeCache(ctx, r.store, normalizedURL, service, pctx.ResourceKey, result); err != nil {
			return Resolution{}, err
		}
	}

	resolved := finalizeResolution(outcome, result, mode, diagnostics)
	r.log.Debug("resolved transcript",
		zap.String("request_id", requestID),
		zap.String("url", normalizedURL),
		zap.String("service", string(service)),
		zap.String("source", string(resolved.Source)),
		zap.String("cache_status", string(resolved.Diagnostics.CacheStatus)),
		zap.Bool("text_provided", resolved.Diagnostics.TextProvided))
	return resolved, nil
}

// finalizeResolution is the {cache outcome, provider outcome} -> resolution
// state machine. When the provider produced no text but a previously read
// record still carries content (and the cache was not bypassed), the stale
// content wins: transient provider failures must not erase a transcript the
// caller has seen before. The record's own expired flag picks the reported
// status, hit for a fresh record and fallback for an expired one (a
// diagnostics-only distinction, but one callers observe).
func finalizeResolution(outcome cacheReadOutcome, result Result, mode CacheMode, diagnostics Diagnostics) Resolution {
	staleUsable := outcome.cached != nil && hasText(outcome.cached.Content)
	if !hasText(result.Text) && staleUsable && mode != CacheModeBypass {
		diagnostics.CacheStatus = CacheStatusFallback
		if !outcome.cached.Expired {
			diagnostics.CacheStatus = CacheStatusHit
		}
		diagnostics.Provider = MapCachedSource(outcome.cached.Source)
		diagnostics.TextProvided = true
		diagnostics.Notes = appendNote(diagnostics.Notes,
			"Falling back to cached transcript content after provider miss")
		return Resolution{
			Text:        outcome.cached.Content,
			Source:      diagnostics.Provider,
			Diagnostics: diagnostics,
		}
	}

	return Resolution{
		Text:        result.Text,
		Source:      result.Source,
		Diagnostics: diagnostics,
	}
}

// extractResourceKey derives a secondary cache/telemetry key from the URL.
// Only YouTube URLs yield one today: the video id.
func extractResourceKey(url string) string {
	if youtube.IsYouTubeURL(url) {
		return youtube.ExtractVideoID(url)
	}
	return ""
}
