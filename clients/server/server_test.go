package server

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/storage"
	"github.com/xob0t/cardgen/pkg/template"
)

var quiet = log.New(io.Discard, "", 0)

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.png")
	img := generator.NewSolidImage(540, 720, color.RGBA{245, 240, 230, 255})
	if err := generator.Generate(path, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRenderer(t *testing.T, templatePath string) *template.Renderer {
	t.Helper()
	fm, err := template.NewFontManager("", "")
	if err != nil {
		t.Fatal(err)
	}
	return template.NewRenderer(template.NewFaceEngine(fm), templatePath, "png")
}

func newInlineServer(t *testing.T, templatePath string) http.Handler {
	t.Helper()
	s, err := New(Options{
		Renderer: newRenderer(t, templatePath),
		Variant:  template.Variants["centered"],
		Logger:   quiet,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s.Handler()
}

func newFileServer(t *testing.T, templatePath string) (http.Handler, *storage.DiskStore) {
	t.Helper()
	store, err := storage.NewDiskStore(filepath.Join(t.TempDir(), "generated"), ".png", quiet)
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Options{
		Renderer: newRenderer(t, templatePath),
		Variant:  template.Variants["published"],
		Store:    store,
		BaseURL:  "http://cards.test",
		Logger:   quiet,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s.Handler(), store
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var m map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestHealth(t *testing.T) {
	h := newInlineServer(t, writeTemplate(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := decodeJSON(t, rec)["status"]; got != "ok" {
		t.Errorf("status = %q", got)
	}
}

func TestGenerateInline(t *testing.T) {
	h := newInlineServer(t, writeTemplate(t))
	body := `{"headline":"Hello World","body":"Para one.\n\nPara two."}`

	first := post(h, body)
	if first.Code != http.StatusOK {
		t.Fatalf("status %d: %s", first.Code, first.Body.String())
	}
	if ct := first.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(first.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 540 || b.Dy() != 720 {
		t.Errorf("image size %v, want template size", b)
	}

	second := post(h, body)
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("identical requests produced different images")
	}
}

func TestGenerateInlineAllowsMissingFields(t *testing.T) {
	h := newInlineServer(t, writeTemplate(t))
	if rec := post(h, `{"headline":"Only a headline"}`); rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	h := newInlineServer(t, writeTemplate(t))
	rec := post(h, `{"headline":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	if decodeJSON(t, rec)["error"] == "" {
		t.Error("missing error message")
	}
}

func TestGenerateFileMissingBody(t *testing.T) {
	h, store := newFileServer(t, writeTemplate(t))
	rec := post(h, `{"headline":"Hi"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	if got := decodeJSON(t, rec)["error"]; got != "Missing headline or body" {
		t.Errorf("error = %q", got)
	}
	if entries, _ := os.ReadDir(store.Dir()); len(entries) != 0 {
		t.Errorf("%d files written for a rejected request", len(entries))
	}
}

func TestGenerateFileSavesAndServes(t *testing.T) {
	h, store := newFileServer(t, writeTemplate(t))
	rec := post(h, `{"headline":"Saved","body":"Stored on disk."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeJSON(t, rec)
	if resp["status"] != "success" {
		t.Errorf("status = %q", resp["status"])
	}
	url := resp["image_url"]
	if !strings.HasPrefix(url, "http://cards.test/generated/image-") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("image_url = %q", url)
	}

	entries, _ := os.ReadDir(store.Dir())
	if len(entries) != 1 {
		t.Fatalf("expected 1 file, got %d", len(entries))
	}

	path := strings.TrimPrefix(url, "http://cards.test")
	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, path, nil))
	if get.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, get.Code)
	}
	if ct := get.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if _, err := png.Decode(get.Body); err != nil {
		t.Errorf("served file is not a PNG: %v", err)
	}
}

func TestGeneratedNotFound(t *testing.T) {
	h, _ := newFileServer(t, writeTemplate(t))
	for _, path := range []string{"/generated/image-1.png", "/generated/.tmp-123"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d", path, rec.Code)
		}
	}
}

func TestGeneratedRouteOnlyForFileDelivery(t *testing.T) {
	h := newInlineServer(t, writeTemplate(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generated/image-1.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d", rec.Code)
	}
}

func TestGenerateMissingTemplate(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "template.png")
	h, store := newFileServer(t, missing)

	rec := post(h, `{"headline":"Hi","body":"There"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
	if decodeJSON(t, rec)["error"] == "" {
		t.Error("empty error message")
	}
	if entries, _ := os.ReadDir(store.Dir()); len(entries) != 0 {
		t.Errorf("%d files written after failure", len(entries))
	}
}

func TestVariants(t *testing.T) {
	s, err := New(Options{
		Renderer: newRenderer(t, writeTemplate(t)),
		Variant:  template.Variants["left"],
		Variants: template.Variants,
		Logger:   quiet,
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/variants", nil))

	var resp struct {
		Active   string             `json:"active"`
		Variants []template.Variant `json:"variants"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Active != "left" || len(resp.Variants) != len(template.Variants) {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestNewRequiresStoreForFileDelivery(t *testing.T) {
	_, err := New(Options{
		Renderer: newRenderer(t, writeTemplate(t)),
		Variant:  template.Variants["published"],
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newInlineServer(t, writeTemplate(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status %d", rec.Code)
	}
}
