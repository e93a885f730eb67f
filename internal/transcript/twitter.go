package transcript

import (
	"context"
	"regexp"
)

var twitterURLPattern = regexp.MustCompile(`(?i)twitter\.com|x\.com`)

// twitterProvider is a deliberate placeholder: it claims Twitter/X URLs so no
// other provider wastes a fetch on them, and reports an indeterminate outcome
// until video transcript extraction is implemented.
type twitterProvider struct{}

func (*twitterProvider) ID() Service { return ServiceTwitter }

func (*twitterProvider) CanHandle(pctx Context) bool {
	return twitterURLPattern.MatchString(pctx.URL)
}

func (*twitterProvider) Fetch(_ context.Context, _ Context, _ FetchOptions) Result {
	return Result{
		AttemptedProviders: []Source{},
		Metadata: map[string]any{
			"provider": "twitter",
			"reason":   "not_implemented",
		},
	}
}
