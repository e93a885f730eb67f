package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankTracksPrefersManualEnglish(t *testing.T) {
	tracks := rankTracks([]captionTrack{
		{BaseURL: "de-auto", LanguageCode: "de", Kind: "asr"},
		{BaseURL: "en-auto", LanguageCode: "en", Kind: "asr"},
		{BaseURL: "en-manual", LanguageCode: "en"},
	})

	require.Len(t, tracks, 3)
	assert.Equal(t, "en-manual", tracks[0].BaseURL)
	assert.Equal(t, "en-auto", tracks[1].BaseURL)
	assert.Equal(t, "de-auto", tracks[2].BaseURL)
}

func TestRankTracksDedupesLanguageKindPairsKeepingFirst(t *testing.T) {
	// The language match is case-insensitive, and a manual track is never
	// collapsed into an automatic one of the same language.
	tracks := rankTracks([]captionTrack{
		{BaseURL: "en-auto-1", LanguageCode: "en", Kind: "asr"},
		{BaseURL: "en-auto-2", LanguageCode: "EN", Kind: "asr"},
		{BaseURL: "en-manual", LanguageCode: "en"},
	})

	require.Len(t, tracks, 2)
	assert.Equal(t, "en-manual", tracks[0].BaseURL)
	assert.Equal(t, "en-auto-1", tracks[1].BaseURL)
}

func TestRankTracksKeepsTracksWithoutLanguage(t *testing.T) {
	tracks := rankTracks([]captionTrack{
		{BaseURL: "first"},
		{BaseURL: "second"},
	})

	require.Len(t, tracks, 2)
	assert.Equal(t, "first", tracks[0].BaseURL)
	assert.Equal(t, "second", tracks[1].BaseURL)
}

func TestParseJSONTranscript(t *testing.T) {
	raw := `{"events":[
		{"segs":[{"utf8":"Hello"},{"utf8":" there"}]},
		{"segs":[{"utf8":"   "}]},
		{"segs":[{"utf8":"World"}]}
	]}`

	assert.Equal(t, "Hello there\nWorld", parseJSONTranscript(raw))
	assert.Equal(t, "", parseJSONTranscript("not json"))
	assert.Equal(t, "", parseJSONTranscript(`{"events":[]}`))
}

func TestParseXMLTranscript(t *testing.T) {
	xml := `<transcript>
		<text start="0.0" dur="1.2">Hello &amp; welcome</text>
		<text start="1.2" dur="2.0">to   the
show</text>
		<text start="3.2" dur="0.5">   </text>
	</transcript>`

	assert.Equal(t, "Hello & welcome\nto the show", parseXMLTranscript(xml))
	assert.Equal(t, "", parseXMLTranscript("<transcript></transcript>"))
}

func TestCaptionDownloadURL(t *testing.T) {
	got := captionDownloadURL("https://www.youtube.com/api/timedtext?v=abc&lang=en")

	assert.Contains(t, got, "fmt=json3")
	assert.Contains(t, got, "alt=json")
	assert.Contains(t, got, "v=abc")
}

func TestFetchTranscriptFromCaptionTracksWithoutBootstrapIsNoop(t *testing.T) {
	text, err := FetchTranscriptFromCaptionTracks(context.Background(), http.DefaultClient, Page{
		HTML: "<html></html>",
	})

	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestFetchTranscriptFromCaptionTracks(t *testing.T) {
	var playerBody map[string]any
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "key-123", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&playerBody))
		fmt.Fprintf(w, `{"captions":{"playerCaptionsTracklistRenderer":{
			"captionTracks":[{"baseUrl":"%s/caption?lang=en","languageCode":"en"}],
			"automaticCaptions":[{"baseUrl":"%s/caption?lang=de","languageCode":"de","kind":"asr"}]
		}}}`, server.URL, server.URL)
	})
	mux.HandleFunc("/caption", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "json3", r.URL.Query().Get("fmt"))
		require.Equal(t, "en", r.URL.Query().Get("lang"))
		w.Write([]byte(`{"events":[{"segs":[{"utf8":"Hello"}]},{"segs":[{"utf8":"World"}]}]}`))
	})

	restore := innertubeBaseURL
	innertubeBaseURL = server.URL
	defer func() { innertubeBaseURL = restore }()

	html := `<script>ytcfg.set({"INNERTUBE_API_KEY":"key-123","INNERTUBE_CONTEXT":{"client":{"clientName":"WEB"}}});</script>`
	text, err := FetchTranscriptFromCaptionTracks(context.Background(), server.Client(), Page{
		HTML:        html,
		OriginalURL: "https://www.youtube.com/watch?v=abc",
		VideoID:     "abc",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello\nWorld", text)

	assert.Equal(t, "abc", playerBody["videoId"])
	assert.Equal(t, true, playerBody["contentCheckOk"])
	client := digMap(playerBody, "context", "client")
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", client["originalUrl"])
	assert.Equal(t, "WEB", client["clientName"])
}

func TestFetchTranscriptFromCaptionTracksSkipsFailingTrack(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"captions":{"playerCaptionsTracklistRenderer":{
			"captionTracks":[
				{"baseUrl":"%s/broken","languageCode":"en"},
				{"baseUrl":"%s/working","languageCode":"de"}
			]}}}`, server.URL, server.URL)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/working", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<transcript><text>Guten Tag</text></transcript>`))
	})

	restore := innertubeBaseURL
	innertubeBaseURL = server.URL
	defer func() { innertubeBaseURL = restore }()

	html := `<script>ytcfg.set({"INNERTUBE_API_KEY":"key-123"});</script>`
	text, err := FetchTranscriptFromCaptionTracks(context.Background(), server.Client(), Page{
		HTML:    html,
		VideoID: "abc",
	})

	require.NoError(t, err)
	assert.Equal(t, "Guten Tag", text)
}
