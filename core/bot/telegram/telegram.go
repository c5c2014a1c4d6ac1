package telegram

import (
	"context"
	"net"
	nethttp "net/http"
	"time"

	"github.com/kochabonline/tgkit/core/bot"
	"github.com/kochabonline/tgkit/core/http"
	"github.com/kochabonline/tgkit/log"
	"github.com/kochabonline/tgkit/metrics/prometheus"
)

var _ bot.Messenger = (*Telegram)(nil)

// Transport is the collaborator that performs the HTTP round trip.
type Transport = http.Clienter

// Telegram is a stateless binding of the Bot API for one bot token. It is
// safe for concurrent use as long as its Transport is.
type Telegram struct {
	token     string
	api       string
	client    *nethttp.Client
	timeout   time.Duration
	logger    *log.Logger
	metrics   *prometheus.Prometheus
	transport Transport
}

type Option func(*Telegram)

// WithApi overrides the API prefix the token is appended to, e.g. a local
// Bot API server.
func WithApi(api string) Option {
	return func(t *Telegram) {
		t.api = api
	}
}

func WithClient(client *nethttp.Client) Option {
	return func(t *Telegram) {
		t.client = client
	}
}

// WithTimeout sets the overall request timeout on whichever client is in
// use, including the pooled one from NewPool.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Telegram) {
		t.timeout = timeout
	}
}

// WithTransport replaces the built-in JSON transport. WithApi, WithClient,
// WithLogger and WithMetrics have no effect when it is set.
func WithTransport(transport Transport) Option {
	return func(t *Telegram) {
		t.transport = transport
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(t *Telegram) {
		t.logger = logger
	}
}

func WithMetrics(metrics *prometheus.Prometheus) Option {
	return func(t *Telegram) {
		t.metrics = metrics
	}
}

// New creates a client for token. The token is not checked; a bad one only
// shows up as an error status on the first call. No request is sent here.
func New(token string, opts ...Option) *Telegram {
	t := &Telegram{
		token:  token,
		api:    API,
		client: nethttp.DefaultClient,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.timeout > 0 {
		client := *t.client
		client.Timeout = t.timeout
		t.client = &client
	}

	if t.transport == nil {
		t.transport = http.New(t.BaseURL(),
			http.WithClient(t.client),
			http.WithSecret(token),
			http.WithLogger(t.logger),
			http.WithMetrics(t.metrics),
		)
	}
	return t
}

// Connect is an alias of New.
func Connect(token string, opts ...Option) *Telegram {
	return New(token, opts...)
}

// NewPool creates a client backed by a tuned connection pool.
func NewPool(token string, opts ...Option) *Telegram {
	transport := &nethttp.Transport{
		Proxy:               nethttp.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return New(token, append([]Option{WithClient(&nethttp.Client{Transport: transport})}, opts...)...)
}

// BaseURL returns https://api.telegram.org/bot<token>/ or its WithApi
// equivalent.
func (t *Telegram) BaseURL() string {
	return t.api + t.token + "/"
}

func (t *Telegram) Token() string {
	return t.token
}

// Client returns the HTTP client handed to the built-in transport.
func (t *Telegram) Client() *nethttp.Client {
	return t.client
}

// Do sends req through the transport and returns its answer untouched.
func (t *Telegram) Do(ctx context.Context, req Request) (*http.Response, error) {
	if req.Method == http.MethodGet {
		return t.transport.Get(ctx, req.Path)
	}
	return t.transport.Post(ctx, req.Path, req.Body)
}

// https://core.telegram.org/bots/api#getwebhookinfo
func (t *Telegram) GetWebhookInfo(ctx context.Context) (*http.Response, error) {
	return t.Do(ctx, Request{Method: http.MethodGet, Path: MethodGetWebhookInfo})
}

// https://core.telegram.org/bots/api#setwebhook
func (t *Telegram) SetWebhook(ctx context.Context, url string) (*http.Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPost, Path: MethodSetWebhook, Body: &SetWebhook{
		URL: url,
	}})
}

// https://core.telegram.org/bots/api#deletewebhook
func (t *Telegram) DeleteWebhook(ctx context.Context) (*http.Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPost, Path: MethodDeleteWebhook})
}

// https://core.telegram.org/bots/api#getme
func (t *Telegram) GetMe(ctx context.Context) (*http.Response, error) {
	return t.Do(ctx, Request{Method: http.MethodGet, Path: MethodGetMe})
}

// https://core.telegram.org/bots/api#sendmessage
func (t *Telegram) SendMessage(ctx context.Context, chatID, text string) (*http.Response, error) {
	return t.post(ctx, MethodSendMessage, &SendMessage{ChatID: chatID, Text: text})
}

// https://core.telegram.org/bots/api#sendphoto
func (t *Telegram) SendPhoto(ctx context.Context, chatID, photo string) (*http.Response, error) {
	return t.post(ctx, MethodSendPhoto, &SendPhoto{ChatID: chatID, Photo: photo})
}

// https://core.telegram.org/bots/api#sendaudio
func (t *Telegram) SendAudio(ctx context.Context, chatID, audio string) (*http.Response, error) {
	return t.post(ctx, MethodSendAudio, &SendAudio{ChatID: chatID, Audio: audio})
}

// https://core.telegram.org/bots/api#senddocument
func (t *Telegram) SendDocument(ctx context.Context, chatID, document string) (*http.Response, error) {
	return t.post(ctx, MethodSendDocument, &SendDocument{ChatID: chatID, Document: document})
}

// https://core.telegram.org/bots/api#sendsticker
func (t *Telegram) SendSticker(ctx context.Context, chatID, sticker string) (*http.Response, error) {
	return t.post(ctx, MethodSendSticker, &SendSticker{ChatID: chatID, Sticker: sticker})
}

// https://core.telegram.org/bots/api#sendvideo
func (t *Telegram) SendVideo(ctx context.Context, chatID, video string) (*http.Response, error) {
	return t.post(ctx, MethodSendVideo, &SendVideo{ChatID: chatID, Video: video})
}

// https://core.telegram.org/bots/api#sendvoice
func (t *Telegram) SendVoice(ctx context.Context, chatID, voice string) (*http.Response, error) {
	return t.post(ctx, MethodSendVoice, &SendVoice{ChatID: chatID, Voice: voice})
}

// https://core.telegram.org/bots/api#sendvideonote
func (t *Telegram) SendVideoNote(ctx context.Context, chatID, videoNote string) (*http.Response, error) {
	return t.post(ctx, MethodSendVideoNote, &SendVideoNote{ChatID: chatID, VideoNote: videoNote})
}

// https://core.telegram.org/bots/api#sendlocation
func (t *Telegram) SendLocation(ctx context.Context, chatID string, location Location) (*http.Response, error) {
	return t.post(ctx, MethodSendLocation, &SendLocation{
		ChatID:    chatID,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
	})
}

// https://core.telegram.org/bots/api#sendvenue
func (t *Telegram) SendVenue(ctx context.Context, chatID string, venue Venue) (*http.Response, error) {
	return t.post(ctx, MethodSendVenue, &SendVenue{
		ChatID:    chatID,
		Latitude:  venue.Latitude,
		Longitude: venue.Longitude,
		Title:     venue.Title,
		Address:   venue.Address,
	})
}

// https://core.telegram.org/bots/api#sendcontact
func (t *Telegram) SendContact(ctx context.Context, chatID string, contact Contact) (*http.Response, error) {
	return t.post(ctx, MethodSendContact, &SendContact{
		ChatID:      chatID,
		PhoneNumber: contact.PhoneNumber,
		FirstName:   contact.FirstName,
	})
}

// https://core.telegram.org/bots/api#sendchataction
func (t *Telegram) SendChatAction(ctx context.Context, chatID, action string) (*http.Response, error) {
	return t.post(ctx, MethodSendChatAction, &SendChatAction{ChatID: chatID, Action: action})
}

func (t *Telegram) post(ctx context.Context, path string, body any) (*http.Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}
