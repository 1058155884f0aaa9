package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/srtcast/srtcast/internal/config"
	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/events"
	"github.com/srtcast/srtcast/internal/geometry"
	"github.com/srtcast/srtcast/internal/session"
)

func testResolver() *session.Resolver {
	return &session.Resolver{
		Displays: func(_ context.Context) ([]display.Geometry, error) {
			return []display.Geometry{
				{Index: 0, Output: "DP-1", Primary: true, Rect: geometry.Rect{Width: 1920, Height: 1080}},
			}, nil
		},
		LookupIP: func(_ context.Context, _ string) (string, error) {
			return "203.0.113.5", nil
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	presets := config.NewPresetManager(filepath.Join(t.TempDir(), "presets.toml"))

	server := NewServer(&Options{
		Resolver: testResolver(),
		Defaults: session.BuiltinDefaults,
		EventBus: events.New(),
		Presets:  presets,
	})

	ts := httptest.NewServer(server.GetMux())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Status string `json:"status"`
	}
	if status := getJSON(t, ts.URL+"/api/health", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body.Status != "ok" {
		t.Errorf("health status = %q, want ok", body.Status)
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}
	if status := getJSON(t, ts.URL+"/api/version", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body.Version == "" || body.GoVersion == "" {
		t.Errorf("incomplete version data: %+v", body)
	}
}

func TestRectangleValidation(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Valid bool `json:"valid"`
		Rect  struct {
			Width int `json:"width"`
		} `json:"rect"`
	}
	status := getJSON(t, ts.URL+"/api/rectangle?value=1920x1080%2B0,0", &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !body.Valid || body.Rect.Width != 1920 {
		t.Errorf("unexpected validation result: %+v", body)
	}
}

func TestRectangleValidationInvalid(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	status := getJSON(t, ts.URL+"/api/rectangle?value=bogus", &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body.Valid {
		t.Error("expected invalid result")
	}
	if body.Error == "" {
		t.Error("expected a parse error message")
	}
}

func TestPipelinePreviewListen(t *testing.T) {
	ts := newTestServer(t)

	reqBody := []byte(`{"listen_port": "5000", "share_all": true}`)
	resp, err := http.Post(ts.URL+"/api/pipeline", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /api/pipeline: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Role    string   `json:"role"`
		Mode    string   `json:"mode"`
		URI     string   `json:"uri"`
		Stages  []string `json:"stages"`
		Command string   `json:"command"`
		Wrapped string   `json:"wrapped"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if body.Role != "listen" || body.Mode != "screenshare" {
		t.Errorf("role/mode = %s/%s", body.Role, body.Mode)
	}
	if body.URI != "srt://:5000" {
		t.Errorf("uri = %q", body.URI)
	}
	if len(body.Stages) == 0 || body.Command == "" {
		t.Error("expected stages and command")
	}
	if !bytes.Contains([]byte(body.Wrapped), []byte("nix-shell")) {
		t.Error("wrapped command should use nix-shell")
	}
}

func TestPipelinePreviewConflict(t *testing.T) {
	ts := newTestServer(t)

	// Two connection roles at once must be rejected.
	reqBody := []byte(`{"listen_port": "5000", "call": "host:5000", "view": true}`)
	resp, err := http.Post(ts.URL+"/api/pipeline", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /api/pipeline: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPipelinePreviewScreenIndexZero(t *testing.T) {
	ts := newTestServer(t)

	reqBody := []byte(`{"call": "203.0.113.5:5000", "share_screen": 0}`)
	resp, err := http.Post(ts.URL+"/api/pipeline", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("POST /api/pipeline: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Mode string `json:"mode"`
		URI  string `json:"uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Mode != "screenshare" {
		t.Errorf("mode = %q", body.Mode)
	}
	if body.URI != "srt://203.0.113.5:5000" {
		t.Errorf("uri = %q", body.URI)
	}
}

func TestPresetLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// Save
	reqBody := []byte(`{"listen_port": "5000", "share_all": true, "fec": true}`)
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/presets/office", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT preset: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d", resp.StatusCode)
	}

	// List
	var list struct {
		Count   int `json:"count"`
		Presets []struct {
			Name string `json:"name"`
		} `json:"presets"`
	}
	if status := getJSON(t, ts.URL+"/api/presets", &list); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if list.Count != 1 || list.Presets[0].Name != "office" {
		t.Errorf("unexpected list: %+v", list)
	}

	// Delete
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/presets/office", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE preset: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", resp.StatusCode)
	}

	if status := getJSON(t, ts.URL+"/api/presets/office", nil); status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", status)
	}
}

func TestPresetConflictRejected(t *testing.T) {
	ts := newTestServer(t)

	reqBody := []byte(`{"view": true, "share_all": true, "listen_port": "5000"}`)
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/presets/bad", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT preset: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBasicAuthRequired(t *testing.T) {
	presets := config.NewPresetManager(filepath.Join(t.TempDir(), "presets.toml"))
	server := NewServer(&Options{
		AuthUsername: "admin",
		AuthPassword: "secret",
		Resolver:     testResolver(),
		Defaults:     session.BuiltinDefaults,
		EventBus:     events.New(),
		Presets:      presets,
	})
	ts := httptest.NewServer(server.GetMux())
	defer ts.Close()

	// Protected endpoint without credentials
	if status := getJSON(t, ts.URL+"/api/options", nil); status != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", status)
	}

	// Health stays open
	if status := getJSON(t, ts.URL+"/api/health", nil); status != http.StatusOK {
		t.Errorf("health status = %d, want 200", status)
	}

	// With credentials
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/options", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:secret")))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authenticated GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", resp.StatusCode)
	}
}
