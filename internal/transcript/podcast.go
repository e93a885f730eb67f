package transcript

import (
	"context"
	"regexp"
)

var podcastURLPattern = regexp.MustCompile(`(?i)rss|podcast|spotify\.com`)

// podcastProvider is a deliberate placeholder, mirroring twitterProvider:
// podcast episode transcripts need a feed-level lookup that is not built yet.
type podcastProvider struct{}

func (*podcastProvider) ID() Service { return ServicePodcast }

func (*podcastProvider) CanHandle(pctx Context) bool {
	return podcastURLPattern.MatchString(pctx.URL)
}

func (*podcastProvider) Fetch(_ context.Context, _ Context, _ FetchOptions) Result {
	return Result{
		AttemptedProviders: []Source{},
		Metadata: map[string]any{
			"provider": "podcast",
			"reason":   "not_implemented",
		},
	}
}
