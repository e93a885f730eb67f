package transcript

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// genericProvider is the fallback strategy for URLs no specialized provider
// claims. It only works with a pre-fetched page body: embedded transcript
// sections (common on talk, lecture and episode pages) are lifted out of the
// HTML directly.
type genericProvider struct{}

func (*genericProvider) ID() Service { return ServiceGeneric }

func (*genericProvider) CanHandle(Context) bool { return true }

func (*genericProvider) Fetch(_ context.Context, pctx Context, _ FetchOptions) Result {
	if pctx.HTML == "" {
		// Nothing to inspect: indeterminate, so the miss is not cached.
		return Result{
			AttemptedProviders: []Source{},
			Metadata: map[string]any{
				"provider": "generic",
				"reason":   "no_html",
			},
		}
	}

	text := extractTranscriptFromHTML(pctx.HTML)
	if text == "" {
		return Result{
			Source:             SourceUnavailable,
			AttemptedProviders: []Source{SourceHTML},
			Metadata: map[string]any{
				"provider": "generic",
				"reason":   "transcript_not_found",
			},
		}
	}
	return Result{
		Text:               &text,
		Source:             SourceHTML,
		AttemptedProviders: []Source{SourceHTML},
		Metadata:           map[string]any{"provider": "generic"},
	}
}

// extractTranscriptFromHTML pulls text out of the first element whose id or
// class marks it as a transcript container. Returns "" when the page has no
// such section or the section is empty.
func extractTranscriptFromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()

	var text string
	doc.Find("div, section, article, pre").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		id, _ := selection.Attr("id")
		class, _ := selection.Attr("class")
		if !strings.Contains(strings.ToLower(id+" "+class), "transcript") {
			return true
		}
		text = normalizeTranscriptText(selection.Text())
		return text == ""
	})
	return text
}

func normalizeTranscriptText(raw string) string {
	lines := lo.FilterMap(strings.Split(raw, "\n"), func(line string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(line)
		return trimmed, trimmed != ""
	})
	return strings.Join(lines, "\n")
}
