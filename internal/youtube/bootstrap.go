package youtube

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonHijackPrefix guards YouTube JSON bodies against cross-site inclusion.
const jsonHijackPrefix = ")]}'"

// SanitizeJSONResponse strips leading whitespace and the anti-hijacking
// marker some YouTube endpoints prepend to JSON bodies.
func SanitizeJSONResponse(input string) string {
	trimmed := strings.TrimLeft(input, " \t\r\n")
	return strings.TrimPrefix(trimmed, jsonHijackPrefix)
}

// ExtractBootstrapConfig recovers the ytcfg bootstrap object embedded in a
// watch page. Two legacy script shapes are tried in order: the ytcfg.set(...)
// assignment call and the var ytcfg = {...} declaration. Returns nil when no
// parseable config is found.
func ExtractBootstrapConfig(html string) map[string]any {
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		var config map[string]any
		doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
			config = parseBootstrapScript(script.Text())
			return config == nil
		})
		if config != nil {
			return config
		}
	}
	// Legacy fallback: scan the raw blob when it is not a full document.
	return parseBootstrapScript(html)
}

func parseBootstrapScript(source string) map[string]any {
	sanitized := SanitizeJSONResponse(source)

	for _, marker := range []string{"ytcfg.set(", "var ytcfg"} {
		idx := strings.Index(sanitized, marker)
		if idx < 0 {
			continue
		}
		blob := extractJSONObject(sanitized[idx+len(marker):])
		if blob == "" {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(SanitizeJSONResponse(blob)), &parsed); err == nil {
			return parsed
		}
	}
	return nil
}

// TranscriptConfig carries everything needed for a get_transcript call:
// the innertube API key and client context from ytcfg, and the opaque
// transcript params from the initial player response.
type TranscriptConfig struct {
	APIKey  string
	Params  string
	Context map[string]any
}

// ExtractTranscriptConfig combines the ytcfg bootstrap with the
// getTranscriptEndpoint params embedded in ytInitialPlayerResponse.
// Returns nil when either half is missing.
func ExtractTranscriptConfig(html string) *TranscriptConfig {
	bootstrap := ExtractBootstrapConfig(html)
	if bootstrap == nil {
		return nil
	}
	apiKey, _ := bootstrap["INNERTUBE_API_KEY"].(string)
	if apiKey == "" {
		return nil
	}
	clientContext, _ := bootstrap["INNERTUBE_CONTEXT"].(map[string]any)

	params := extractTranscriptParams(html)
	if params == "" {
		return nil
	}

	return &TranscriptConfig{APIKey: apiKey, Params: params, Context: clientContext}
}

func extractTranscriptParams(html string) string {
	idx := strings.Index(html, "ytInitialPlayerResponse")
	if idx < 0 {
		return ""
	}
	blob := extractJSONObject(html[idx:])
	if blob == "" {
		return ""
	}
	var playerResponse map[string]any
	if err := json.Unmarshal([]byte(blob), &playerResponse); err != nil {
		return ""
	}
	endpoint, ok := findNestedKey(playerResponse, "getTranscriptEndpoint").(map[string]any)
	if !ok {
		return ""
	}
	params, _ := endpoint["params"].(string)
	return params
}

// extractJSONObject returns the first balanced {...} object in s, honoring
// string literals and escapes. Returns "" when no complete object is present.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// findNestedKey depth-first searches decoded JSON for the first value stored
// under key.
func findNestedKey(value any, key string) any {
	switch typed := value.(type) {
	case map[string]any:
		if found, ok := typed[key]; ok {
			return found
		}
		for _, nested := range typed {
			if found := findNestedKey(nested, key); found != nil {
				return found
			}
		}
	case []any:
		for _, nested := range typed {
			if found := findNestedKey(nested, key); found != nil {
				return found
			}
		}
	}
	return nil
}
