package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRequiresGenericProvider(t *testing.T) {
	_, err := NewRegistry(&youtubeProvider{}, &twitterProvider{})

	assert.ErrorIs(t, err, ErrNoGenericProvider)
}

func TestDefaultRegistrySelection(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		name string
		url  string
		want Service
	}{
		{"youtube watch URL", "https://www.youtube.com/watch?v=abc123", ServiceYouTube},
		{"shortened youtube URL", "https://youtu.be/abc123", ServiceYouTube},
		{"twitter status", "https://twitter.com/someone/status/1", ServiceTwitter},
		{"x.com status", "https://x.com/someone/status/1", ServiceTwitter},
		{"podcast feed", "https://feeds.example.com/podcast/episode-12", ServicePodcast},
		{"spotify episode", "https://open.spotify.com/episode/xyz", ServicePodcast},
		{"arbitrary page", "https://example.com/talks/42", ServiceGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := registry.Select(Context{URL: tt.url})
			require.NoError(t, err)
			assert.Equal(t, tt.want, provider.ID())
		})
	}
}

func TestSelectPrefersFirstMatchingSpecializedProvider(t *testing.T) {
	first := &fakeProvider{id: ServiceTwitter, canHandle: matchAll}
	second := &fakeProvider{id: ServicePodcast, canHandle: matchAll}
	registry, err := NewRegistry(first, second, &genericProvider{})
	require.NoError(t, err)

	provider, err := registry.Select(Context{URL: "https://example.com"})

	require.NoError(t, err)
	assert.Equal(t, ServiceTwitter, provider.ID())
}

func TestSelectNeverPicksGenericOnPatternMatchAlone(t *testing.T) {
	// The generic provider claims everything; Select must still route a
	// specialized match past it regardless of registration order.
	registry, err := NewRegistry(&genericProvider{}, &twitterProvider{})
	require.NoError(t, err)

	provider, err := registry.Select(Context{URL: "https://x.com/someone/status/1"})

	require.NoError(t, err)
	assert.Equal(t, ServiceTwitter, provider.ID())
}
