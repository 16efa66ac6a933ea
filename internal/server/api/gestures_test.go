package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/transform"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

type staticCatalog struct {
	catalog      gesture.Catalog
	interactions map[gesture.Name]transform.Kind
}

func (c staticCatalog) Catalog() gesture.Catalog { return c.catalog }

func (c staticCatalog) Interaction(g gesture.Name) transform.Kind { return c.interactions[g] }

func defaultSource() staticCatalog {
	return staticCatalog{catalog: gesture.DefaultCatalog(), interactions: transform.DefaultInteractions()}
}

type decodedGesture struct {
	Name        string    `json:"name"`
	Priority    int       `json:"priority"`
	Interaction string    `json:"interaction"`
	Fingers     [5]string `json:"fingers"`
}

func TestGestureHandler_List(t *testing.T) {
	handler := NewGestureHandler(defaultSource())

	req := httptest.NewRequest(http.MethodGet, "/api/gestures", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response struct {
		Gestures []decodedGesture `json:"gestures"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := gesture.DefaultCatalog().Names()
	if len(response.Gestures) != len(want) {
		t.Fatalf("expected %d gestures, got %d", len(want), len(response.Gestures))
	}
	for i, g := range response.Gestures {
		if g.Name != string(want[i]) {
			t.Errorf("gesture %d = %q, want %q", i, g.Name, want[i])
		}
		if g.Priority != i {
			t.Errorf("gesture %q priority = %d, want %d", g.Name, g.Priority, i)
		}
	}

	interactions := map[string]string{}
	for _, g := range response.Gestures {
		interactions[g.Name] = g.Interaction
	}
	wantInteractions := map[string]string{
		"fist":        "translate",
		"point_up":    "rotate_y",
		"point_right": "rotate_x",
		"thumbs_up":   "scale",
		"open_palm":   "reset",
		"two":         "none",
	}
	for name, kind := range wantInteractions {
		if interactions[name] != kind {
			t.Errorf("interaction of %s = %q, want %q", name, interactions[name], kind)
		}
	}
}

func TestGestureHandler_Get(t *testing.T) {
	handler := NewGestureHandler(defaultSource())

	req := httptest.NewRequest(http.MethodGet, "/api/gestures/thumbs_up", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var g decodedGesture
	if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := [5]string{"pointing(up)", "bent", "bent", "bent", "bent"}
	if g.Fingers != want {
		t.Errorf("fingers = %v, want %v", g.Fingers, want)
	}
	if g.Interaction != "scale" {
		t.Errorf("interaction = %q, want scale", g.Interaction)
	}
}

func TestGestureHandler_GetNotFound(t *testing.T) {
	handler := NewGestureHandler(defaultSource())

	req := httptest.NewRequest(http.MethodGet, "/api/gestures/wave", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	var response errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if response.Error != "Gesture not found" {
		t.Errorf("expected error 'Gesture not found', got %q", response.Error)
	}
}

func TestGestureHandler_ReadOnly(t *testing.T) {
	handler := NewGestureHandler(defaultSource())

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/gestures/fist", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}

func TestGestureHandler_CustomCatalog(t *testing.T) {
	catalog := gesture.Catalog{
		{Name: gesture.Fist, Fingers: [5]gesture.FingerState{gesture.Any(), gesture.Any(), gesture.Any(), gesture.Any(), gesture.Any()}},
	}
	handler := NewGestureHandler(staticCatalog{catalog: catalog})

	req := httptest.NewRequest(http.MethodGet, "/api/gestures", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var response struct {
		Gestures []decodedGesture `json:"gestures"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(response.Gestures))
	}
	g := response.Gestures[0]
	if g.Interaction != "none" || g.Fingers[0] != "*" {
		t.Errorf("got %+v, want no interaction and don't-care fingers", g)
	}
}
