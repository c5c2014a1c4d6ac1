package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBegin(t *testing.T) {
	p := NewPrometheus(Config{})

	p.Begin("POST", "sendMessage")(200)
	p.Begin("POST", "sendMessage")(200)
	p.Begin("GET", "getMe")(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.requests.WithLabelValues("POST", "sendMessage", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.requests.WithLabelValues("GET", "getMe", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.inflight))
	assert.Equal(t, 2, testutil.CollectAndCount(p.duration))
}

func TestInFlight(t *testing.T) {
	p := NewPrometheus(Config{Namespace: "bot"})

	done := p.Begin("GET", "getMe")
	assert.Equal(t, 1.0, testutil.ToFloat64(p.inflight))
	done(200)
	assert.Equal(t, 0.0, testutil.ToFloat64(p.inflight))
}

func TestHandler(t *testing.T) {
	p := NewPrometheus(Config{})
	p.Begin("GET", "getMe")(200)

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `telegram_requests_total{code="200",method="GET",path="getMe"} 1`)
}

func TestWriteToTextfile(t *testing.T) {
	p := NewPrometheus(Config{})
	p.Begin("POST", "sendChatAction")(400)

	file := filepath.Join(t.TempDir(), "tgctl.prom")
	require.NoError(t, p.WriteToTextfile(file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `code="400"`))
}
