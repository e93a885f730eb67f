package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apifyActorPath runs the hosted YouTube transcript scraper synchronously and
// returns its dataset items in one call.
const apifyActorPath = "/v2/acts/dB9f4B02ocpTICIEY/run-sync-get-dataset-items"

// ApifyTimeout bounds the synchronous actor run; the scrape itself can take
// the better part of a minute.
const ApifyTimeout = 45 * time.Second

// apifyBaseURL is a var so tests can point the client at a local server.
var apifyBaseURL = "https://api.apify.com"

// FetchTranscriptWithApify submits the video URL to the paid scraping service
// and extracts transcript text from the first dataset item that carries any.
// Returns "" when the token is unset or the dataset has no usable text.
func FetchTranscriptWithApify(ctx context.Context, client *http.Client, token, videoURL string) (string, error) {
	if token == "" {
		return "", nil
	}

	body, err := json.Marshal(map[string]any{
		"startUrls":         []string{videoURL},
		"includeTimestamps": "No",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode apify request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ApifyTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s%s?token=%s", apifyBaseURL, apifyActorPath, token), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build apify request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("apify request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("apify request returned status %d", response.StatusCode)
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read apify response: %w", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return "", fmt.Errorf("failed to decode apify dataset: %w", err)
	}

	for _, item := range items {
		for _, field := range []string{"transcript", "transcriptText", "text"} {
			if text := normalizeTranscriptValue(item[field]); text != "" {
				return text, nil
			}
		}
	}
	return "", nil
}

// normalizeTranscriptValue flattens the transcript shapes the actor is known
// to emit: a plain string, a list of line strings, or a list of segment
// objects with a text field.
func normalizeTranscriptValue(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case []any:
		var lines []string
		for _, entry := range typed {
			switch line := entry.(type) {
			case string:
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					lines = append(lines, trimmed)
				}
			case map[string]any:
				if text, ok := line["text"].(string); ok {
					if trimmed := strings.TrimSpace(text); trimmed != "" {
						lines = append(lines, trimmed)
					}
				}
			}
		}
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return ""
}
