package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/ingest"
	"github.com/poiesic/silo/storage"
)

// renderLinkEntry formats one link as an HTML list entry. Absent fields
// are omitted rather than rendered empty: the reply never claims a field
// the link doesn't have.
func renderLinkEntry(link *core.Link) string {
	title := link.Title
	if title == "" {
		title = link.URL
	}

	parts := []string{
		fmt.Sprintf(`• <a href="%s">%s</a>`, html.EscapeString(link.URL), html.EscapeString(title)),
	}

	switch {
	case link.Summary != "":
		parts = append(parts, html.EscapeString(link.Summary))
	case link.Description != "":
		parts = append(parts, html.EscapeString(link.Description))
	}

	return strings.Join(parts, "\n")
}

// renderLinkList formats a header plus one entry per link.
func renderLinkList(header string, links []*core.Link) string {
	blocks := make([]string, 0, len(links)+1)
	blocks = append(blocks, header)
	for _, link := range links {
		blocks = append(blocks, renderLinkEntry(link))
	}
	return strings.Join(blocks, "\n\n")
}

// renderSearchReply formats retrieval results for a query.
func renderSearchReply(queryText string, links []*core.Link) string {
	if len(links) == 0 {
		return "I couldn't find anything matching that. Try different words, or send me a link to save."
	}
	header := fmt.Sprintf("<b>Here is what I found for:</b> %s", html.EscapeString(queryText))
	return renderLinkList(header, links)
}

// renderOutcome formats the result of ingesting one URL.
func renderOutcome(report *ingest.Report) string {
	if report.Err != nil {
		return fmt.Sprintf("⚠️ I couldn't fetch %s. The page may require a login or be unreachable.",
			html.EscapeString(report.RawURL))
	}

	outcome := report.Outcome
	entry := renderLinkEntry(outcome.Link)
	if outcome.Degraded() {
		return entry + "\n<i>Saved with partial details; enrichment was unavailable.</i>"
	}
	return entry
}

// renderStats formats collection statistics. Sections with no data are
// omitted entirely.
func renderStats(stats *storage.Stats) string {
	if stats.TotalLinks == 0 {
		return "Nothing saved yet. Send me a link to get started."
	}

	lines := []string{
		"<b>Your collection</b>",
		fmt.Sprintf("• Links saved: %d", stats.TotalLinks),
		fmt.Sprintf("• Distinct domains: %d", stats.TotalDomains),
	}

	if len(stats.ByContentType) > 0 {
		var types []string
		for _, ct := range core.ContentTypes {
			if n, ok := stats.ByContentType[ct]; ok {
				types = append(types, fmt.Sprintf("%s (%d)", ct, n))
			}
		}
		lines = append(lines, "• By type: "+html.EscapeString(strings.Join(types, ", ")))
	}

	if len(stats.TopCategories) > 0 {
		var categories []string
		for _, cc := range stats.TopCategories {
			categories = append(categories, cc.Category)
		}
		lines = append(lines, "• Top categories: "+html.EscapeString(strings.Join(categories, ", ")))
	}

	if !stats.NewestLink.IsZero() {
		lines = append(lines, "• Last saved: "+stats.NewestLink.Format("2006-01-02 15:04 MST"))
	}

	return strings.Join(lines, "\n")
}

const helpText = `<b>Silo saves and finds your links.</b>

Send me a URL and I'll fetch it, summarize it, tag it and archive it.
Ask me in plain words and I'll find it again:

• articles about onboarding from last week
• that tool Sarah shared
• what did I save yesterday

Commands:
/recent — your latest links
/search &lt;words&gt; — search your collection
/stats — collection summary
/export — CSV of everything
/archive &lt;url&gt; — snapshot a page now
/help — this message`
