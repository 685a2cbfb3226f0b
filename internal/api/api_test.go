package api

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/ogcanvas/internal/image"
	"github.com/youruser/ogcanvas/internal/util"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(imagepkg.NewComposer(nil), util.NewFetcher(2*time.Second, 1<<20))
	RegisterRoutes(r, h)
	return r
}

func do(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pngSize(t *testing.T, b []byte) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestHealth(t *testing.T) {
	w := do(newRouter(), http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body)
	}
}

func TestCanvasTestEndpoint(t *testing.T) {
	w := do(newRouter(), http.MethodGet, "/api/canvas-test", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type %q", ct)
	}
	if x, y := pngSize(t, w.Body.Bytes()); x != 200 || y != 200 {
		t.Errorf("size %dx%d", x, y)
	}
}

func TestOGQuery(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodGet, "/api/og?title=Hello+World&description=Some+text&date=2024-03-09&width=600&height=315&bg=%23112233&color=fff", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if x, y := pngSize(t, w.Body.Bytes()); x != 600 || y != 315 {
		t.Errorf("size %dx%d", x, y)
	}

	w = do(r, http.MethodGet, "/api/og?title=x&format=jpeg", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("jpeg: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestOGQueryErrors(t *testing.T) {
	r := newRouter()
	for _, target := range []string{
		"/api/og?width=0",
		"/api/og?width=abc",
		"/api/og?date=yesterday",
		"/api/og?color=%23zzzzzz",
		"/api/og?format=svg",
	} {
		w := do(r, http.MethodGet, target, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400 (%s)", target, w.Code, w.Body)
		}
	}
}

func TestOGJSONWithBackground(t *testing.T) {
	var bg bytes.Buffer
	if err := imaging.Encode(&bg, imaging.New(80, 40, color.NRGBA{R: 0x40, A: 0xff}), imaging.PNG); err != nil {
		t.Fatal(err)
	}
	r := newRouter()
	w := do(r, http.MethodPost, "/api/og", map[string]any{
		"title":      "Posted",
		"background": bg.Bytes(),
		"qr_text":    "https://example.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if x, y := pngSize(t, w.Body.Bytes()); x != imagepkg.OGWidth || y != imagepkg.OGHeight {
		t.Errorf("size %dx%d", x, y)
	}

	w = do(r, http.MethodPost, "/api/og", map[string]any{"background": []byte("garbage")})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad background: status %d, want 422", w.Code)
	}
}

func TestOGBackgroundURL(t *testing.T) {
	var bg bytes.Buffer
	if err := imaging.Encode(&bg, imaging.New(10, 10, color.White), imaging.PNG); err != nil {
		t.Fatal(err)
	}
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bg.png" {
			w.Write(bg.Bytes())
			return
		}
		http.NotFound(w, r)
	}))
	defer remote.Close()

	r := newRouter()
	w := do(r, http.MethodPost, "/api/og", map[string]any{"title": "x", "background_url": remote.URL + "/bg.png"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	w = do(r, http.MethodPost, "/api/og", map[string]any{"title": "x", "background_url": remote.URL + "/missing.png"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("missing background: status %d, want 502", w.Code)
	}
}

func TestCompose(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodPost, "/api/compose", map[string]any{
		"width":            400,
		"height":           300,
		"background_color": "#eeeeee",
		"texts": []map[string]any{
			{"content": "Heading", "font": "bold 40px go", "color": "#111"},
			{"content": "Body text that may wrap onto a second line", "font": "20px Arial"},
		},
		"layout": map[string]any{"final_line": "advance", "padding": 0},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if x, y := pngSize(t, w.Body.Bytes()); x != 400 || y != 300 {
		t.Errorf("size %dx%d", x, y)
	}

	w = do(r, http.MethodPost, "/api/compose", map[string]any{"width": 0, "height": 10})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero width: status %d, want 400", w.Code)
	}
	w = do(r, http.MethodPost, "/api/compose", map[string]any{
		"width": 10, "height": 10,
		"texts": []map[string]any{{"content": "x", "font": "bold Impact"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("font without size: status %d, want 400", w.Code)
	}
}

func TestQR(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodGet, "/api/qr?text=hello&size=128", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if x, y := pngSize(t, w.Body.Bytes()); x != 128 || y != 128 {
		t.Errorf("size %dx%d", x, y)
	}
	if w := do(r, http.MethodGet, "/api/qr", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing text: status %d", w.Code)
	}
}

func TestComposeRejectsOversizedFontAndLogo(t *testing.T) {
	r := newRouter()
	bodies := map[string]map[string]any{
		"font": {
			"width": 100, "height": 100,
			"texts": []map[string]any{{"content": "x", "font": "4000px go"}},
		},
		"logo_height": {
			"width": 100, "height": 100,
			"layout": map[string]any{"logo_height": 1e6},
		},
	}
	for name, body := range bodies {
		w := do(r, http.MethodPost, "/api/compose", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400 (%s)", name, w.Code, w.Body)
		}
	}
}
