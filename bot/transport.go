package bot

import "context"

// Transport delivers replies to the user over whatever chat system hosts
// the bot. Implementations must be thread-safe; the router may reply to
// concurrent conversations.
type Transport interface {
	// SendMessage delivers an HTML-formatted text reply to a chat.
	SendMessage(ctx context.Context, chatID int64, html string) error

	// SendDocument delivers a file payload with a caption.
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}
