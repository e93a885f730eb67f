package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Page describes the watch page a caption request runs against.
type Page struct {
	HTML        string
	OriginalURL string
	VideoID     string
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks     []captionTrack `json:"captionTracks"`
			AutomaticCaptions []captionTrack `json:"automaticCaptions"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// FetchTranscriptFromCaptionTracks runs the player-endpoint caption flow:
// reconstruct the innertube session from the page bootstrap, enumerate and
// rank the caption tracks, then download them in order until one yields text.
// Returns "" when no track produces a transcript.
func FetchTranscriptFromCaptionTracks(ctx context.Context, client *http.Client, page Page) (string, error) {
	bootstrap := ExtractBootstrapConfig(page.HTML)
	if bootstrap == nil {
		return "", nil
	}
	apiKey, _ := bootstrap["INNERTUBE_API_KEY"].(string)
	if apiKey == "" {
		return "", nil
	}

	payload, err := postInnertube(ctx, client,
		fmt.Sprintf("%s/youtubei/v1/player?key=%s", innertubeBaseURL, apiKey),
		playerRequestBody(bootstrap, page))
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to re-encode player response: %w", err)
	}
	var response playerResponse
	if err := json.Unmarshal(encoded, &response); err != nil {
		return "", fmt.Errorf("failed to decode player response: %w", err)
	}

	renderer := response.Captions.PlayerCaptionsTracklistRenderer
	tracks := rankTracks(append(renderer.CaptionTracks, renderer.AutomaticCaptions...))

	for _, track := range tracks {
		text, err := downloadCaptionTrack(ctx, client, track)
		if err != nil {
			continue
		}
		if text != "" {
			return text, nil
		}
	}
	return "", nil
}

// playerRequestBody echoes the bootstrap client context, adding the original
// URL and the content flags permissive enough to expose captions.
func playerRequestBody(bootstrap map[string]any, page Page) map[string]any {
	requestContext := map[string]any{}
	if innertubeContext, ok := bootstrap["INNERTUBE_CONTEXT"].(map[string]any); ok {
		for key, value := range innertubeContext {
			requestContext[key] = value
		}
	}
	clientContext := map[string]any{}
	if existing, ok := requestContext["client"].(map[string]any); ok {
		for key, value := range existing {
			clientContext[key] = value
		}
	}
	clientContext["originalUrl"] = page.OriginalURL
	requestContext["client"] = clientContext

	return map[string]any{
		"context": requestContext,
		"videoId": page.VideoID,
		"playbackContext": map[string]any{
			"contentPlaybackContext": map[string]any{
				"html5Preference": "HTML5_PREF_WANTS",
			},
		},
		"contentCheckOk": true,
		"racyCheckOk":    true,
	}
}

// rankTracks orders candidate tracks by expected quality: duplicate
// (language, kind) pairs keep their first occurrence, auto-generated ("asr")
// tracks sink below manual ones and English floats above other languages.
// Deduping by language alone would drop a manual track listed after its
// automatic sibling. The sort is stable so remaining ties preserve input
// order.
func rankTracks(tracks []captionTrack) []captionTrack {
	seen := map[string]bool{}
	deduped := make([]captionTrack, 0, len(tracks))
	for _, track := range tracks {
		lang := strings.ToLower(track.LanguageCode)
		if lang != "" {
			key := lang + "|" + track.Kind
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		deduped = append(deduped, track)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		a, b := deduped[i], deduped[j]
		if (a.Kind == "asr") != (b.Kind == "asr") {
			return b.Kind == "asr"
		}
		if (a.LanguageCode == "en") != (b.LanguageCode == "en") {
			return a.LanguageCode == "en"
		}
		return false
	})
	return deduped
}

func downloadCaptionTrack(ctx context.Context, client *http.Client, track captionTrack) (string, error) {
	if track.BaseURL == "" {
		return "", nil
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, captionDownloadURL(track.BaseURL), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build caption request: %w", err)
	}
	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("caption download failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption download returned status %d", response.StatusCode)
	}
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read caption payload: %w", err)
	}

	if text := parseJSONTranscript(string(raw)); text != "" {
		return text, nil
	}
	return parseXMLTranscript(string(raw)), nil
}

// captionDownloadURL requests the JSON caption format explicitly, falling
// back to query-string appending when the base URL does not parse.
func captionDownloadURL(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		separator := "?"
		if strings.Contains(baseURL, "?") {
			separator = "&"
		}
		return baseURL + separator + "fmt=json3&alt=json"
	}
	query := parsed.Query()
	query.Set("fmt", "json3")
	query.Set("alt", "json")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

type captionSegment struct {
	UTF8 string `json:"utf8"`
}

type captionEvent struct {
	Segs []captionSegment `json:"segs"`
}

type captionPayload struct {
	Events []captionEvent `json:"events"`
}

// parseJSONTranscript reads the json3 caption format: a list of timed events
// whose segments are concatenated without separators, one line per event.
func parseJSONTranscript(raw string) string {
	var payload captionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ""
	}

	var lines []string
	for _, event := range payload.Events {
		segments := lo.Map(event.Segs, func(seg captionSegment, _ int) string {
			return seg.UTF8
		})
		if line := strings.TrimSpace(strings.Join(segments, "")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var (
	xmlTextPattern    = regexp.MustCompile(`(?is)<text[^>]*>(.*?)</text>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// parseXMLTranscript reads the legacy XML caption format: entity-decoded
// <text> bodies with internal whitespace collapsed to single spaces.
func parseXMLTranscript(xml string) string {
	var lines []string
	for _, match := range xmlTextPattern.FindAllStringSubmatch(xml, -1) {
		decoded := html.UnescapeString(match[1])
		line := strings.TrimSpace(whitespacePattern.ReplaceAllString(decoded, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
