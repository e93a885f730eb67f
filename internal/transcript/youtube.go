package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"linksum/internal/youtube"
)

// youtubeProvider escalates through three techniques until one yields text:
// the innertube transcript endpoint, the caption-track download pipeline, and
// finally the paid scraping service when a token is configured. Network and
// parse faults are absorbed here; when everything fails the outcome is the
// determinate negative SourceUnavailable so the miss gets cached.
type youtubeProvider struct{}

func (*youtubeProvider) ID() Service { return ServiceYouTube }

func (*youtubeProvider) CanHandle(pctx Context) bool {
	return youtube.IsYouTubeURL(pctx.URL)
}

func (*youtubeProvider) Fetch(ctx context.Context, pctx Context, opts FetchOptions) Result {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	attempted := []Source{}

	videoID := pctx.ResourceKey
	if videoID == "" {
		videoID = youtube.ExtractVideoID(pctx.URL)
	}

	html := pctx.HTML
	if html == "" {
		fetched, err := fetchWatchPage(ctx, opts, pctx.URL)
		if err != nil {
			log.Debug("watch page fetch failed", zap.String("url", pctx.URL), zap.Error(err))
		}
		html = fetched
	}

	if html != "" && videoID != "" {
		attempted = append(attempted, SourceYoutubei)
		fetchCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		text, err := youtube.FetchTranscriptFromAPI(fetchCtx, opts.Client, html)
		cancel()
		if err != nil {
			log.Debug("innertube transcript fetch failed", zap.String("video_id", videoID), zap.Error(err))
		}
		if text != "" {
			return youtubeResult(&text, SourceYoutubei, attempted, videoID)
		}

		attempted = append(attempted, SourceCaptionTracks)
		fetchCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		text, err = youtube.FetchTranscriptFromCaptionTracks(fetchCtx, opts.Client, youtube.Page{
			HTML:        html,
			OriginalURL: pctx.URL,
			VideoID:     videoID,
		})
		cancel()
		if err != nil {
			log.Debug("caption track fetch failed", zap.String("video_id", videoID), zap.Error(err))
		}
		if text != "" {
			return youtubeResult(&text, SourceCaptionTracks, attempted, videoID)
		}
	}

	if opts.ApifyToken != "" {
		attempted = append(attempted, SourceApify)
		text, err := youtube.FetchTranscriptWithApify(ctx, opts.Client, opts.ApifyToken, pctx.URL)
		if err != nil {
			log.Debug("apify transcript fetch failed", zap.String("video_id", videoID), zap.Error(err))
		}
		if text != "" {
			return youtubeResult(&text, SourceApify, attempted, videoID)
		}
	}

	return youtubeResult(nil, SourceUnavailable, attempted, videoID)
}

func youtubeResult(text *string, source Source, attempted []Source, videoID string) Result {
	return Result{
		Text:               text,
		Source:             source,
		AttemptedProviders: attempted,
		Metadata: map[string]any{
			"provider": "youtube",
			"video_id": videoID,
		},
	}
}

func fetchWatchPage(ctx context.Context, opts FetchOptions, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build watch page request: %w", err)
	}
	response, err := opts.Client.Do(request)
	if err != nil {
		return "", fmt.Errorf("watch page request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page request returned status %d", response.StatusCode)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read watch page: %w", err)
	}
	return string(body), nil
}
