package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabonline/tgkit/core/http"
	"github.com/kochabonline/tgkit/errors"
)

type call struct {
	method string
	path   string
	body   any
}

// recorder is a Transport that remembers every call and answers with a
// fixed response and error.
type recorder struct {
	mu    sync.Mutex
	calls []call
	resp  *http.Response
	err   error
}

func (r *recorder) Get(_ context.Context, path string) (*http.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{method: http.MethodGet, path: path})
	return r.resp, r.err
}

func (r *recorder) Post(_ context.Context, path string, body any) (*http.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{method: http.MethodPost, path: path, body: body})
	return r.resp, r.err
}

// wire renders a request body the way it goes over the network.
func wire(t *testing.T, body any) map[string]any {
	t.Helper()
	if body == nil {
		return nil
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestEndpoints(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		invoke func(*Telegram) (*http.Response, error)
		method string
		path   string
		body   map[string]any
	}{
		{
			name:   "getWebhookInfo",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.GetWebhookInfo(ctx) },
			method: "GET",
			path:   "getWebhookInfo",
		},
		{
			name:   "setWebhook",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SetWebhook(ctx, "https://example.com/hook") },
			method: "POST",
			path:   "setWebhook",
			body:   map[string]any{"url": "https://example.com/hook"},
		},
		{
			name:   "deleteWebhook",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.DeleteWebhook(ctx) },
			method: "POST",
			path:   "deleteWebhook",
		},
		{
			name:   "getMe",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.GetMe(ctx) },
			method: "GET",
			path:   "getMe",
		},
		{
			name:   "sendMessage",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendMessage(ctx, "42", "hello") },
			method: "POST",
			path:   "sendMessage",
			body:   map[string]any{"chat_id": "42", "text": "hello"},
		},
		{
			name:   "sendPhoto",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendPhoto(ctx, "42", "https://example.com/a.jpg") },
			method: "POST",
			path:   "sendPhoto",
			body:   map[string]any{"chat_id": "42", "photo": "https://example.com/a.jpg"},
		},
		{
			name:   "sendAudio",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendAudio(ctx, "42", "audio-id") },
			method: "POST",
			path:   "sendAudio",
			body:   map[string]any{"chat_id": "42", "audio": "audio-id"},
		},
		{
			name:   "sendDocument",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendDocument(ctx, "42", "doc-id") },
			method: "POST",
			path:   "sendDocument",
			body:   map[string]any{"chat_id": "42", "document": "doc-id"},
		},
		{
			name:   "sendSticker",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendSticker(ctx, "42", "sticker-id") },
			method: "POST",
			path:   "sendSticker",
			body:   map[string]any{"chat_id": "42", "sticker": "sticker-id"},
		},
		{
			name:   "sendVideo",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendVideo(ctx, "42", "video-id") },
			method: "POST",
			path:   "sendVideo",
			body:   map[string]any{"chat_id": "42", "video": "video-id"},
		},
		{
			name:   "sendVoice",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendVoice(ctx, "42", "voice-id") },
			method: "POST",
			path:   "sendVoice",
			body:   map[string]any{"chat_id": "42", "voice": "voice-id"},
		},
		{
			name:   "sendVideoNote",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendVideoNote(ctx, "42", "note-id") },
			method: "POST",
			path:   "sendVideoNote",
			body:   map[string]any{"chat_id": "42", "video_note": "note-id"},
		},
		{
			name: "sendLocation",
			invoke: func(tg *Telegram) (*http.Response, error) {
				return tg.SendLocation(ctx, "42", Location{Latitude: 30.5, Longitude: 114.25})
			},
			method: "POST",
			path:   "sendLocation",
			body:   map[string]any{"chat_id": "42", "latitude": 30.5, "longitude": 114.25},
		},
		{
			name: "sendVenue",
			invoke: func(tg *Telegram) (*http.Response, error) {
				return tg.SendVenue(ctx, "42", Venue{Latitude: 1.5, Longitude: 2.5, Title: "Cafe", Address: "Main St 1"})
			},
			method: "POST",
			path:   "sendVenue",
			body: map[string]any{
				"chat_id":   "42",
				"latitude":  1.5,
				"longitude": 2.5,
				"title":     "Cafe",
				"address":   "Main St 1",
			},
		},
		{
			name: "sendContact",
			invoke: func(tg *Telegram) (*http.Response, error) {
				return tg.SendContact(ctx, "42", Contact{PhoneNumber: "+1", FirstName: "A"})
			},
			method: "POST",
			path:   "sendContact",
			body:   map[string]any{"chat_id": "42", "phone_number": "+1", "first_name": "A"},
		},
		{
			name:   "sendChatAction",
			invoke: func(tg *Telegram) (*http.Response, error) { return tg.SendChatAction(ctx, "42", ActionTyping) },
			method: "POST",
			path:   "sendChatAction",
			body:   map[string]any{"chat_id": "42", "action": "typing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := &http.Response{StatusCode: 200, Body: []byte(`{"ok":true}`)}
			rec := &recorder{resp: want}
			tg := New("T", WithTransport(rec))

			resp, err := tt.invoke(tg)
			require.NoError(t, err)
			assert.Same(t, want, resp)

			require.Len(t, rec.calls, 1)
			got := rec.calls[0]
			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, tt.path, got.path)
			assert.Equal(t, tt.body, wire(t, got.body))
			if tt.body == nil {
				assert.Nil(t, got.body)
			}

			// no client state: a second call sends the same request again
			_, err = tt.invoke(tg)
			require.NoError(t, err)
			require.Len(t, rec.calls, 2)
			assert.Equal(t, got.method, rec.calls[1].method)
			assert.Equal(t, got.path, rec.calls[1].path)
			assert.Equal(t, wire(t, got.body), wire(t, rec.calls[1].body))
		})
	}
}

func TestNoRequestOnConstruction(t *testing.T) {
	rec := &recorder{}
	_ = Connect("T", WithTransport(rec))

	assert.Empty(t, rec.calls)
}

func TestBaseURL(t *testing.T) {
	tg := New("T")

	assert.Equal(t, "https://api.telegram.org/botT/", tg.BaseURL())
	assert.Equal(t, "T", tg.Token())

	transport, ok := tg.transport.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, "https://api.telegram.org/botT/", transport.Base())
	assert.Equal(t, "application/json", transport.Header()["Content-Type"])

	local := New("T", WithApi("http://localhost:8081/bot"))
	assert.Equal(t, "http://localhost:8081/botT/", local.BaseURL())
}

func TestErrorPassthrough(t *testing.T) {
	want := errors.TooManyRequests("retry later")
	resp := &http.Response{StatusCode: 429}
	tg := New("T", WithTransport(&recorder{resp: resp, err: want}))

	got, err := tg.SendMessage(context.Background(), "42", "hi")

	assert.Same(t, want, err)
	assert.Same(t, resp, got)
}

type server struct {
	mu       sync.Mutex
	requests []*nethttp.Request
	bodies   []string
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *server) {
	t.Helper()
	s := &server{}
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, r)
		s.bodies = append(s.bodies, string(body))
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, s
}

func TestSendContactOverHTTP(t *testing.T) {
	reply := `{"ok":true,"result":{"message_id":7,"chat":{"id":42,"type":"private"},"date":1}}`
	srv, s := newServer(t, nethttp.StatusOK, reply)
	tg := New("123:abc", WithApi(srv.URL+"/bot"))

	resp, err := tg.SendContact(context.Background(), "42", Contact{PhoneNumber: "+1", FirstName: "A"})
	require.NoError(t, err)
	assert.Equal(t, reply, string(resp.Body))

	require.Len(t, s.requests, 1)
	r := s.requests[0]
	assert.Equal(t, "POST", r.Method)
	assert.Equal(t, "/bot123:abc/sendContact", r.URL.Path)
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"chat_id":"42","phone_number":"+1","first_name":"A"}`, s.bodies[0])

	envelope, err := Decode[Message](resp)
	require.NoError(t, err)
	assert.True(t, envelope.Ok)
	assert.Equal(t, int64(7), envelope.Result.MessageID)
}

func TestGetMeOverHTTP(t *testing.T) {
	srv, s := newServer(t, nethttp.StatusOK, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot"}}`)
	tg := New("T", WithApi(srv.URL+"/bot"))

	resp, err := tg.GetMe(context.Background())
	require.NoError(t, err)

	require.Len(t, s.requests, 1)
	assert.Equal(t, "GET", s.requests[0].Method)
	assert.Empty(t, s.bodies[0])

	envelope, err := Decode[User](resp)
	require.NoError(t, err)
	assert.True(t, envelope.Result.IsBot)
}

func TestDeleteWebhookOverHTTP(t *testing.T) {
	srv, s := newServer(t, nethttp.StatusOK, `{"ok":true,"result":true}`)
	tg := New("T", WithApi(srv.URL+"/bot"))

	_, err := tg.DeleteWebhook(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "POST", s.requests[0].Method)
	assert.Equal(t, "/botT/deleteWebhook", s.requests[0].URL.Path)
	assert.Empty(t, s.bodies[0])
}

func TestErrorStatusOverHTTP(t *testing.T) {
	reply := `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`
	srv, _ := newServer(t, nethttp.StatusBadRequest, reply)
	tg := New("T", WithApi(srv.URL+"/bot"))

	resp, err := tg.SendMessage(context.Background(), "0", "hi")

	require.Error(t, err)
	assert.Equal(t, 400, errors.Code(err))
	require.NotNil(t, resp)
	assert.Equal(t, reply, string(resp.Body))

	envelope, err := Decode[Message](resp)
	require.NoError(t, err)
	assert.False(t, envelope.Ok)
	assert.Equal(t, "Bad Request: chat not found", envelope.Description)
}

func TestOkFalseInsideSuccess(t *testing.T) {
	reply := `{"ok":false,"error_code":403,"description":"Forbidden"}`
	srv, _ := newServer(t, nethttp.StatusOK, reply)
	tg := New("T", WithApi(srv.URL+"/bot"))

	resp, err := tg.SendMessage(context.Background(), "1", "hi")

	require.NoError(t, err)
	assert.Equal(t, reply, string(resp.Body))
}

func TestNetworkFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	tg := New("123:secret", WithApi("http://"+addr+"/bot"))
	resp, err := tg.GetMe(context.Background())

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.IsUnavailable(err))
	assert.NotContains(t, err.Error(), "123:secret")
}

func TestConcurrentCalls(t *testing.T) {
	srv, s := newServer(t, nethttp.StatusOK, `{"ok":true}`)
	tg := NewPool("T", WithApi(srv.URL+"/bot"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tg.SendChatAction(context.Background(), "42", ActionTyping)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, s.requests, 20)
}

func TestTimeoutKeepsPool(t *testing.T) {
	tg := NewPool("T", WithTimeout(30*time.Second))

	transport, ok := tg.Client().Transport.(*nethttp.Transport)
	require.True(t, ok, "pooled transport replaced")
	assert.Equal(t, 10, transport.MaxIdleConnsPerHost)
	assert.Equal(t, 30*time.Second, tg.Client().Timeout)
}

func TestTimeoutLeavesDefaultClient(t *testing.T) {
	tg := New("T", WithTimeout(time.Second))

	assert.Equal(t, time.Second, tg.Client().Timeout)
	assert.NotSame(t, nethttp.DefaultClient, tg.Client())
	assert.Zero(t, nethttp.DefaultClient.Timeout)

	assert.Same(t, nethttp.DefaultClient, New("T").Client())
}
