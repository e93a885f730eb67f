package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// innertubeBaseURL is a var so tests can point the client at a local server.
var innertubeBaseURL = "https://www.youtube.com"

// FetchTranscriptFromAPI asks the innertube get_transcript endpoint for the
// video's transcript, using the session recovered from the watch page HTML.
// Returns "" when the page carries no transcript config or the endpoint has
// nothing to offer.
func FetchTranscriptFromAPI(ctx context.Context, client *http.Client, html string) (string, error) {
	config := ExtractTranscriptConfig(html)
	if config == nil {
		return "", nil
	}

	requestBody := map[string]any{
		"context": config.Context,
		"params":  config.Params,
	}
	payload, err := postInnertube(ctx, client,
		fmt.Sprintf("%s/youtubei/v1/get_transcript?key=%s", innertubeBaseURL, config.APIKey),
		requestBody)
	if err != nil {
		return "", err
	}
	return ExtractTranscriptFromPayload(payload), nil
}

// ExtractTranscriptFromPayload walks a get_transcript response's engagement
// panel down to its segment list and joins the segment lines with newlines.
// Returns "" when the payload carries no segments.
func ExtractTranscriptFromPayload(payload any) string {
	root, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	actions, ok := root["actions"].([]any)
	if !ok {
		return ""
	}

	var lines []string
	for _, action := range actions {
		segments, ok := digMap(action,
			"updateEngagementPanelAction", "content", "transcriptRenderer",
			"content", "transcriptSearchPanelRenderer", "body",
			"transcriptSegmentListRenderer")["initialSegments"].([]any)
		if !ok {
			continue
		}
		for _, segment := range segments {
			snippet := digMap(segment, "transcriptSegmentRenderer", "snippet")
			if text := joinRuns(snippet["runs"]); text != "" {
				lines = append(lines, text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// joinRuns concatenates the text of snippet runs without separators.
func joinRuns(runs any) string {
	list, ok := runs.([]any)
	if !ok {
		return ""
	}
	var builder strings.Builder
	for _, run := range list {
		if m, ok := run.(map[string]any); ok {
			if text, ok := m["text"].(string); ok {
				builder.WriteString(text)
			}
		}
	}
	return strings.TrimSpace(builder.String())
}

// digMap follows a chain of object keys, returning an empty map as soon as
// the chain breaks so callers can index the result unconditionally.
func digMap(value any, keys ...string) map[string]any {
	current, ok := value.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	for _, key := range keys {
		next, ok := current[key].(map[string]any)
		if !ok {
			return map[string]any{}
		}
		current = next
	}
	return current
}

// postInnertube issues a JSON POST and returns the decoded, sanitized body.
func postInnertube(ctx context.Context, client *http.Client, endpoint string, body map[string]any) (any, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode innertube request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to build innertube request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("innertube request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("innertube request returned status %d", response.StatusCode)
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read innertube response: %w", err)
	}

	var payload any
	if err := json.Unmarshal([]byte(SanitizeJSONResponse(string(raw))), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode innertube response: %w", err)
	}
	return payload, nil
}
