package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// urlPattern detects URLs embedded anywhere in a message.
var urlPattern = regexp.MustCompile(
	`https?://(?:www\.)?[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b(?:[-a-zA-Z0-9()@:%_\+.~#?&/=]*)`)

// Router dispatches inbound messages: URLs go to ingestion, commands to
// their handlers, everything else to natural-language retrieval. All
// replies go back through the Transport as escaped HTML.
type Router struct {
	service   *Service
	transport Transport
	logger    *slog.Logger
}

// NewRouter creates a message router.
func NewRouter(service *Service, transport Transport, logger *slog.Logger) (*Router, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	if transport == nil {
		return nil, ErrTransportRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		service:   service,
		transport: transport,
		logger:    logger.With("component", "router"),
	}, nil
}

// HandleText processes one plain message: messages containing URLs save
// them, anything else is treated as a search query.
func (r *Router) HandleText(ctx context.Context, chatID, userID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	urls := urlPattern.FindAllString(text, -1)
	if len(urls) > 0 {
		return r.handleURLs(ctx, chatID, userID, urls, extractNote(text))
	}

	links, err := r.service.Search(ctx, userID, text)
	if err != nil {
		r.logger.Error("search failed", "user", userID, "err", err)
		return r.transport.SendMessage(ctx, chatID, "Something went wrong searching your links. Please try again.")
	}
	return r.transport.SendMessage(ctx, chatID, renderSearchReply(text, links))
}

// extractNote returns the message text with URLs removed and whitespace
// collapsed. What remains is the sender's commentary on the links.
func extractNote(text string) string {
	return strings.Join(strings.Fields(urlPattern.ReplaceAllString(text, " ")), " ")
}

func (r *Router) handleURLs(ctx context.Context, chatID, userID int64, urls []string, note string) error {
	r.logger.Info("ingesting shared links", "user", userID, "count", len(urls))

	reports := r.service.IngestAll(ctx, userID, urls, note)
	blocks := make([]string, 0, len(reports))
	for _, report := range reports {
		blocks = append(blocks, renderOutcome(report))
	}
	return r.transport.SendMessage(ctx, chatID, strings.Join(blocks, "\n\n"))
}

// HandleCommand processes one slash command with its argument string.
// Unknown commands get the help text.
func (r *Router) HandleCommand(ctx context.Context, chatID, userID int64, command, args string) error {
	switch strings.ToLower(strings.TrimPrefix(command, "/")) {
	case "recent":
		links, err := r.service.Recent(ctx, userID)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			return r.transport.SendMessage(ctx, chatID, "Nothing saved yet. Send me a link to get started.")
		}
		return r.transport.SendMessage(ctx, chatID, renderLinkList("<b>Your latest links</b>", links))

	case "search":
		if strings.TrimSpace(args) == "" {
			return r.transport.SendMessage(ctx, chatID, "Tell me what to look for: /search onboarding doc")
		}
		links, err := r.service.Search(ctx, userID, args)
		if err != nil {
			return err
		}
		return r.transport.SendMessage(ctx, chatID, renderSearchReply(args, links))

	case "stats":
		stats, err := r.service.Stats(ctx, userID)
		if err != nil {
			return err
		}
		return r.transport.SendMessage(ctx, chatID, renderStats(stats))

	case "export":
		data, count, err := r.service.Export(ctx, userID)
		if err != nil {
			return err
		}
		if count == 0 {
			return r.transport.SendMessage(ctx, chatID, "Nothing to export yet. Send me a link first.")
		}
		filename := fmt.Sprintf("silo_links_%s.csv", time.Now().UTC().Format("20060102_150405"))
		return r.transport.SendDocument(ctx, chatID, filename, data, "Here is your Silo export.")

	case "archive":
		url := strings.TrimSpace(args)
		if url == "" {
			return r.transport.SendMessage(ctx, chatID, "Give me a URL to archive: /archive https://example.com")
		}
		snap, err := r.service.Archive(ctx, userID, url)
		if err != nil {
			r.logger.Warn("on-demand archive failed", "user", userID, "url", url, "err", err)
			return r.transport.SendMessage(ctx, chatID,
				"The archive service couldn't capture that page right now. The link itself is saved.")
		}
		return r.transport.SendMessage(ctx, chatID,
			fmt.Sprintf("Snapshot saved. You can find it at:\n<code>%s</code>", html.EscapeString(snap.Ref)))

	default:
		return r.transport.SendMessage(ctx, chatID, helpText)
	}
}
