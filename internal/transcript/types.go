// Package transcript resolves plain-text transcripts for content URLs.
// One provider is selected deterministically per URL, results are served
// through a read-through cache with asymmetric TTLs, and a stale cached
// transcript backstops transient provider failures.
package transcript

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Service identifies which provider module ran for a URL.
type Service string

const (
	ServiceYouTube Service = "youtube"
	ServiceTwitter Service = "twitter"
	ServicePodcast Service = "podcast"
	ServiceGeneric Service = "generic"
)

// Source identifies the technique that ultimately produced transcript text.
// Distinct from Service: a provider may escalate through several techniques.
type Source string

const (
	// SourceNone marks the absence of a source: an indeterminate outcome.
	SourceNone          Source = ""
	SourceYoutubei      Source = "youtubei"
	SourceCaptionTracks Source = "captionTracks"
	SourceApify         Source = "apify"
	SourceHTML          Source = "html"
	SourceUnavailable   Source = "unavailable"
	SourceUnknown       Source = "unknown"
)

// CacheMode controls how a resolution consults the cache.
type CacheMode string

const (
	CacheModeDefault CacheMode = "default"
	CacheModeBypass  CacheMode = "bypass"
)

// CacheStatus reports how the cache participated in a resolution.
type CacheStatus string

const (
	CacheStatusUnknown  CacheStatus = "unknown"
	CacheStatusMiss     CacheStatus = "miss"
	CacheStatusHit      CacheStatus = "hit"
	CacheStatusExpired  CacheStatus = "expired"
	CacheStatusBypassed CacheStatus = "bypassed"
	CacheStatusFallback CacheStatus = "fallback"
)

// Diagnostics is the audit trail attached to every resolution. Notes are
// append-only, joined with "; " and never overwritten.
type Diagnostics struct {
	CacheMode          CacheMode   `json:"cache_mode"`
	CacheStatus        CacheStatus `json:"cache_status"`
	TextProvided       bool        `json:"text_provided"`
	Provider           Source      `json:"provider,omitempty"`
	AttemptedProviders []Source    `json:"attempted_providers"`
	Notes              string      `json:"notes,omitempty"`
}

// Resolution is the unit returned to callers. A nil Text means "no
// transcript obtainable", which is itself a cacheable fact.
type Resolution struct {
	Text        *string     `json:"text"`
	Source      Source      `json:"source,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Context carries what a provider needs to decide on and fetch a URL.
// HTML is the pre-fetched page body when the caller already has one.
type Context struct {
	URL         string
	HTML        string
	ResourceKey string
}

// FetchOptions are the shared collaborators handed to every provider fetch.
type FetchOptions struct {
	Client     *http.Client
	Timeout    time.Duration
	ApifyToken string
	Logger     *zap.Logger
}

// Result is a provider's outcome for one fetch. Source set or Text set makes
// the outcome determinate (cacheable); both empty means the provider could
// not even determine unavailability and nothing is persisted.
type Result struct {
	Text               *string
	Source             Source
	AttemptedProviders []Source
	Metadata           map[string]any
}

// Provider is one extraction strategy. CanHandle must be pure: a pattern or
// context inspection with no I/O. Fetch converts its own transport and parse
// failures into negative Results instead of returning them.
type Provider interface {
	ID() Service
	CanHandle(pctx Context) bool
	Fetch(ctx context.Context, pctx Context, opts FetchOptions) Result
}

// hasText reports whether a text pointer carries non-empty content.
func hasText(text *string) bool {
	return text != nil && *text != ""
}

// appendNote extends an append-only notes trail.
func appendNote(existing, next string) string {
	if existing == "" {
		return next
	}
	return existing + "; " + next
}
