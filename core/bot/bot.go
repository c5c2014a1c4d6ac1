package bot

import (
	"context"

	"github.com/kochabonline/tgkit/core/http"
)

// Messenger sends a text message to a chat and hands back the raw answer.
type Messenger interface {
	SendMessage(ctx context.Context, chatID, text string) (*http.Response, error)
}
