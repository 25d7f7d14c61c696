package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/scriptbridge/internal/bridge"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/logging"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	cfg.Script.PoolSize = 2
	cfg.Logging.Development = true
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, fs afero.Fs) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	s, err := New(cfg, fs, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func postEval(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/eval", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := get(t, s, "/")
	require.Equal(t, http.StatusOK, w.Code)
	var root map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "Hello World", root["name"])
	assert.Equal(t, "application/HelloWorld::Hello World Test", root["mime"])

	w = get(t, s, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status string                 `json:"status"`
		Pool   map[string]interface{} `json:"pool"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.EqualValues(t, 2, health.Pool["size"])
}

func TestClasses(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := get(t, s, "/classes")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Classes []struct {
			Name        string   `json:"name"`
			Methods     []string `json:"methods"`
			Constructor bool     `json:"constructor"`
		} `json:"classes"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Classes, 5)
	assert.Equal(t, "Arrays", body.Classes[0].Name)
	assert.Equal(t, []string{"at", "range", "sum"}, body.Classes[0].Methods)
	assert.True(t, body.Classes[1].Constructor, "CounterFactory")
}

func TestGraph(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := get(t, s, "/graph")
	require.Equal(t, http.StatusOK, w.Code)

	var root bridge.Description
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "<root>", root.Path)
	assert.Equal(t, "Plugin", root.Class)
	assert.Equal(t, "object", root.Base)

	var paths []string
	for _, child := range root.Children {
		paths = append(paths, child.Path)
	}
	assert.Equal(t, []string{"arrays", "counter", "object", "utils"}, paths)
}

func TestEval(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w, out := postEval(t, s, `{"script": "console.log('hi'); plugin.greet('http')"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, http!", out["value"])
	assert.True(t, strings.HasPrefix(out["id"].(string), "req_"))
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	console := out["console"].([]interface{})
	require.Len(t, console, 1)
	assert.Equal(t, "hi", console[0].(map[string]interface{})["message"])

	w, out = postEval(t, s, `{"script": "plugin.greet(1)"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, out["error"], "greet: argument 0 must be a string")

	w, _ = postEval(t, s, `{"code": "1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvalInstancesAreIsolated(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	_, _ = postEval(t, s, `{"script": "globalThis.leak = 1"}`)
	for i := 0; i < 3; i++ {
		_, out := postEval(t, s, `{"script": "typeof leak"}`)
		assert.Equal(t, "undefined", out["value"])
	}
}

func TestEvalAfterShutdown(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	require.NoError(t, s.Shutdown(context.Background()))

	w, _ := postEval(t, s, `{"script": "1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	postEval(t, s, `{"script": "plugin.nothing = 1"}`)

	w := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "scriptbridge_instances_active 2")
	assert.Contains(t, body, `scriptbridge_exceptions_total{message="unknown property"} 1`)
	assert.Contains(t, body, "go_goroutines")

	w = get(t, s, "/metrics/json")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestManifestFromFilesystem(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "plugins/a.yaml", []byte(`
name: Custom
mime: ["application/x-custom::Custom"]
class: Plugin
namespaces:
  - name: math
    class: Arrays
`), 0o644))

	cfg := testConfig()
	cfg.Glue.Manifest = "plugins/*.yaml"
	s := newTestServer(t, cfg, fs)

	_, out := postEval(t, s, `{"script": "plugin.math.sum([1, 2]) + ':' + typeof plugin.utils"}`)
	assert.Equal(t, "3:undefined", out["value"])
}

func TestBadManifest(t *testing.T) {
	cfg := testConfig()
	cfg.Glue.Manifest = "missing/*.yaml"
	_, err := New(cfg, afero.NewMemMapFs(), logging.NewNop())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Glue.MissingIndex = "zero"
	_, err = New(cfg, afero.NewMemMapFs(), logging.NewNop())
	assert.Error(t, err)
}

func TestConsole(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/console", nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "system", msg["type"])
	first := msg["instance"]

	eval := func(script string) map[string]interface{} {
		require.NoError(t, conn.WriteJSON(ConsoleMessage{Type: "eval", Script: script}))
		var reply map[string]interface{}
		require.NoError(t, conn.ReadJSON(&reply))
		require.Equal(t, "result", reply["type"])
		return reply["result"].(map[string]interface{})
	}

	eval(`var c = construct(plugin.counter, 40)`)
	assert.EqualValues(t, 42, eval(`c.increment(2)`)["value"])
	assert.Contains(t, eval(`plugin.arrays.sum("x")`)["error"], "must be an object")

	require.NoError(t, conn.WriteJSON(ConsoleMessage{Type: "reset"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "reset", msg["type"])
	assert.NotEqual(t, first, msg["instance"])
	assert.Equal(t, "undefined", eval(`typeof c`)["value"])

	require.NoError(t, conn.WriteJSON(ConsoleMessage{Type: "ping"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pong", msg["type"])

	require.NoError(t, conn.WriteJSON(ConsoleMessage{Type: "shout"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg["type"])
}
