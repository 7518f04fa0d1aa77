package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/rashomon/pkg/fallback"
	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/metering"
	"github.com/tinyland-inc/rashomon/pkg/perspective"
	"github.com/tinyland-inc/rashomon/pkg/providers"
)

type keyRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (k *keyRecorder) factory() providers.Factory {
	return providers.FactoryFunc(func(key string) (providers.Generator, error) {
		k.mu.Lock()
		k.keys = append(k.keys, key)
		k.mu.Unlock()
		return providers.GeneratorFunc(func(context.Context, providers.Request) (string, error) {
			return "live text", nil
		}), nil
	})
}

func newTestServer(t *testing.T, factory providers.Factory, credential string) (*Server, *metering.Store) {
	t.Helper()
	meters := metering.NewStore()
	worker := perspective.NewWorker(factory, nil, meters)
	return NewServer("127.0.0.1:0", worker, meters, credential), meters
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil, "")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestPerspectives_DemoMode(t *testing.T) {
	s, meters := newTestServer(t, nil, "")
	body := strings.NewReader(`{"event":"Columbus arrives"}`)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/perspectives", body))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		RequestID    string            `json:"request_id"`
		Event        string            `json:"event"`
		Perspectives map[string]string `json:"perspectives"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "Columbus arrives", resp.Event)
	require.Len(t, resp.Perspectives, 3)
	for _, l := range lens.All() {
		assert.Equal(t, fallback.Default().Text(l, "Columbus arrives"), resp.Perspectives[l.Name()])
	}

	for _, m := range meters.Snapshot() {
		assert.Equal(t, int64(1), m.Demo)
	}
}

func TestPerspectives_LensSubsetAndHeaderKey(t *testing.T) {
	rec := &keyRecorder{}
	s, _ := newTestServer(t, rec.factory(), "server-key")

	req := httptest.NewRequest(http.MethodPost, "/v1/perspectives",
		strings.NewReader(`{"event":"x","lenses":["money","Follow the Money","subtext"]}`))
	req.Header.Set(CredentialHeader, "caller-key")
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp PerspectivesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, map[lens.Lens]string{lens.Money: "live text", lens.Subtext: "live text"}, resp.Perspectives)
	assert.Equal(t, []string{"caller-key", "caller-key"}, rec.keys)
}

func TestPerspectives_ServerKeyFallback(t *testing.T) {
	rec := &keyRecorder{}
	s, _ := newTestServer(t, rec.factory(), "server-key")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/perspectives",
		strings.NewReader(`{"event":"x","lenses":["money"]}`)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"server-key"}, rec.keys)
}

func TestPerspectives_Errors(t *testing.T) {
	s, _ := newTestServer(t, nil, "")
	cases := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{", http.StatusBadRequest},
		{"unknown lens", http.MethodPost, `{"event":"x","lenses":["gossip"]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(tc.method, "/v1/perspectives", strings.NewReader(tc.body)))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestStream_DeliversEveryLensThenDone(t *testing.T) {
	s, _ := newTestServer(t, nil, "")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/perspectives/stream?event=" + url.QueryEscape("The Boston Tea Party")
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	type wireFrame struct {
		Type      string `json:"type"`
		Lens      string `json:"lens"`
		Text      string `json:"text"`
		LatencyMs int64  `json:"latency_ms"`
	}
	got := map[string]string{}
	for {
		var f wireFrame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == FrameDone {
			break
		}
		require.Equal(t, FramePerspective, f.Type)
		got[f.Lens] = f.Text
	}
	require.Len(t, got, 3)
	for _, l := range lens.All() {
		assert.Equal(t, fallback.Generic(l, "The Boston Tea Party"), got[l.Name()])
	}

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestStream_UnknownLensRejectedBeforeUpgrade(t *testing.T) {
	s, _ := newTestServer(t, nil, "")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/perspectives/stream?lenses=money,gossip", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetering(t *testing.T) {
	s, meters := newTestServer(t, nil, "")
	meters.Observe(lens.Money, perspective.SourceFallback, 0)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/metering", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var snap map[string]metering.LensMeter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, int64(1), snap["Follow the Money"].Fallbacks)
	assert.Equal(t, lens.Money, snap["Follow the Money"].Lens)
}

func TestIsClosed(t *testing.T) {
	assert.True(t, IsClosed(http.ErrServerClosed))
	assert.False(t, IsClosed(nil))
}
