package telegram

import (
	"github.com/kochabonline/tgkit/core/http"
)

// Request describes a single Bot API call. Body is nil for calls without a
// payload.
type Request struct {
	Method string
	Path   string
	Body   any
}

// https://core.telegram.org/bots/api#setwebhook
type SetWebhook struct {
	URL string `json:"url"`
}

// https://core.telegram.org/bots/api#sendmessage
type SendMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type SendPhoto struct {
	ChatID string `json:"chat_id"`
	Photo  string `json:"photo"`
}

type SendAudio struct {
	ChatID string `json:"chat_id"`
	Audio  string `json:"audio"`
}

type SendDocument struct {
	ChatID   string `json:"chat_id"`
	Document string `json:"document"`
}

type SendSticker struct {
	ChatID  string `json:"chat_id"`
	Sticker string `json:"sticker"`
}

type SendVideo struct {
	ChatID string `json:"chat_id"`
	Video  string `json:"video"`
}

type SendVoice struct {
	ChatID string `json:"chat_id"`
	Voice  string `json:"voice"`
}

type SendVideoNote struct {
	ChatID    string `json:"chat_id"`
	VideoNote string `json:"video_note"`
}

// Location is the argument of SendLocation.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Venue is the argument of SendVenue.
type Venue struct {
	Latitude  float64
	Longitude float64
	Title     string
	Address   string
}

// Contact is the argument of SendContact.
type Contact struct {
	PhoneNumber string
	FirstName   string
}

// https://core.telegram.org/bots/api#sendlocation
type SendLocation struct {
	ChatID    string  `json:"chat_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// https://core.telegram.org/bots/api#sendvenue
type SendVenue struct {
	ChatID    string  `json:"chat_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Title     string  `json:"title"`
	Address   string  `json:"address"`
}

// https://core.telegram.org/bots/api#sendcontact
type SendContact struct {
	ChatID      string `json:"chat_id"`
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
}

// https://core.telegram.org/bots/api#sendchataction
type SendChatAction struct {
	ChatID string `json:"chat_id"`
	Action string `json:"action"`
}

// ApiResponse is the envelope every Bot API answer is wrapped in. The client
// never reads it; callers decode it with Decode when they need the result.
// https://core.telegram.org/bots/api#making-requests
type ApiResponse[T any] struct {
	Ok          bool                `json:"ok"`
	Result      T                   `json:"result"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

// https://core.telegram.org/bots/api#responseparameters
type ResponseParameters struct {
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
	RetryAfter      int   `json:"retry_after,omitempty"`
}

// https://core.telegram.org/bots/api#user
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// https://core.telegram.org/bots/api#webhookinfo
type WebhookInfo struct {
	URL                  string   `json:"url"`
	HasCustomCertificate bool     `json:"has_custom_certificate"`
	PendingUpdateCount   int      `json:"pending_update_count"`
	IPAddress            string   `json:"ip_address,omitempty"`
	LastErrorDate        int64    `json:"last_error_date,omitempty"`
	LastErrorMessage     string   `json:"last_error_message,omitempty"`
	MaxConnections       int      `json:"max_connections,omitempty"`
	AllowedUpdates       []string `json:"allowed_updates,omitempty"`
}

// https://core.telegram.org/bots/api#message
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// Decode reads the envelope out of resp.
func Decode[T any](resp *http.Response) (*ApiResponse[T], error) {
	var envelope ApiResponse[T]
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}
