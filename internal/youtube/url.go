// Package youtube reconstructs an innertube API session from a watch page and
// downloads caption data through it. Everything here fails closed: a parse or
// transport problem surfaces as an error (or empty result) for the provider
// boundary to absorb, never as a panic.
package youtube

import (
	"net/url"
	"strings"
)

// IsYouTubeURL reports whether rawURL points at a YouTube video page.
func IsYouTubeURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err == nil && parsed.Hostname() != "" {
		hostname := strings.ToLower(parsed.Hostname())
		return strings.Contains(hostname, "youtube.com") || strings.Contains(hostname, "youtu.be")
	}
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be")
}

// ExtractVideoID pulls the video id out of watch, short-link and shorts URLs.
// Returns "" when no id is derivable.
func ExtractVideoID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	hostname := parsed.Hostname()
	if hostname == "youtu.be" {
		return strings.TrimPrefix(parsed.Path, "/")
	}
	if strings.Contains(hostname, "youtube.com") {
		if strings.HasPrefix(parsed.Path, "/watch") {
			return parsed.Query().Get("v")
		}
		if strings.HasPrefix(parsed.Path, "/shorts/") {
			parts := strings.Split(parsed.Path, "/")
			if len(parts) > 2 {
				return parts[2]
			}
		}
	}
	return ""
}
