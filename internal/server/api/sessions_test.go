package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

func seedSession(t *testing.T, s *store.Store) *store.Session {
	t.Helper()

	sess, err := s.Sessions().Start("mirrored", 0)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	at := time.Now().UTC()
	events := []*store.Event{
		{SessionID: sess.ID, Kind: store.EventCommit, Gesture: "fist", CreatedAt: at},
		{SessionID: sess.ID, Kind: store.EventCommit, Gesture: "open_palm", Previous: "fist", HeldMs: 800, CreatedAt: at},
		{SessionID: sess.ID, Kind: store.EventReset, Gesture: "open_palm", HeldMs: 1500, CreatedAt: at},
		{SessionID: sess.ID, Kind: store.EventCommit, Gesture: "fist", Previous: "open_palm", HeldMs: 1700, CreatedAt: at},
	}
	for _, e := range events {
		if err := s.Events().Record(e); err != nil {
			t.Fatalf("failed to record event: %v", err)
		}
	}
	return sess
}

func TestSessionHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	first := seedSession(t, s)
	second := seedSession(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listSessionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(response.Sessions))
	}
	ids := map[string]bool{response.Sessions[0].ID: true, response.Sessions[1].ID: true}
	if !ids[first.ID] || !ids[second.ID] {
		t.Errorf("listed sessions %v, want %s and %s", ids, first.ID, second.ID)
	}
}

func TestSessionHandler_ListLimit(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	for i := 0; i < 3; i++ {
		seedSession(t, s)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var response listSessionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(response.Sessions))
	}

	for _, bad := range []string{"0", "-1", "many"} {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions?limit="+bad, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected status %d, got %d", bad, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestSessionHandler_ListEmpty(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Body.String(); got != "{\"sessions\":[]}\n" {
		t.Errorf("body = %q, want an empty list", got)
	}
}

func TestSessionHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	sess := seedSession(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response struct {
		ID       string         `json:"id"`
		Facing   string         `json:"facing"`
		Gestures map[string]int `json:"gestures"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID != sess.ID || response.Facing != "mirrored" {
		t.Errorf("got session %s facing %s", response.ID, response.Facing)
	}
	if response.Gestures["fist"] != 2 || response.Gestures["open_palm"] != 1 {
		t.Errorf("gesture counts = %v, want fist:2 open_palm:1", response.Gestures)
	}
}

func TestSessionHandler_Events(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	sess := seedSession(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listEventsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(response.Events))
	}
	if response.Events[2].Kind != store.EventReset || response.Events[2].HeldMs != 1500 {
		t.Errorf("third event = %+v, want a reset held 1500ms", response.Events[2])
	}
}

func TestSessionHandler_NotFound(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	paths := []string{
		"/api/sessions/missing",
		"/api/sessions/missing/events",
		"/api/sessions/missing/unknown",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	sess := seedSession(t, s)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	events, err := s.Events().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected events to be deleted, got %d", len(events))
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/sessions"},
		{http.MethodPut, "/api/sessions/abc"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
