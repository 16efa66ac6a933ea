package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/transform"
)

// Catalog is the source of recognized gestures and what each one drives.
type Catalog interface {
	Catalog() gesture.Catalog
	Interaction(g gesture.Name) transform.Kind
}

// GestureHandler serves the gesture catalog.
type GestureHandler struct {
	source Catalog
}

// NewGestureHandler creates a new GestureHandler over source.
func NewGestureHandler(source Catalog) *GestureHandler {
	return &GestureHandler{source: source}
}

type gestureResponse struct {
	Name        string                 `json:"name"`
	Priority    int                    `json:"priority"`
	Interaction string                 `json:"interaction"`
	Fingers     [5]gesture.FingerState `json:"fingers"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

func toResponse(priority int, spec gesture.Spec, kind transform.Kind) gestureResponse {
	interaction := string(kind)
	if kind == transform.NoInteraction {
		interaction = "none"
	}
	return gestureResponse{
		Name:        string(spec.Name),
		Priority:    priority,
		Interaction: interaction,
		Fingers:     spec.Fingers,
	}
}

// ServeHTTP handles /api/gestures and /api/gestures/{name}.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/gestures")
	name = strings.TrimPrefix(name, "/")

	catalog := h.source.Catalog()
	if name == "" {
		h.list(w, catalog)
		return
	}
	h.get(w, catalog, gesture.Name(name))
}

// list returns the catalog in priority order.
func (h *GestureHandler) list(w http.ResponseWriter, catalog gesture.Catalog) {
	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(catalog)),
	}
	for i, spec := range catalog {
		response.Gestures = append(response.Gestures, toResponse(i, spec, h.source.Interaction(spec.Name)))
	}
	WriteJSON(w, http.StatusOK, response)
}

func (h *GestureHandler) get(w http.ResponseWriter, catalog gesture.Catalog, name gesture.Name) {
	for i, spec := range catalog {
		if spec.Name == name {
			WriteJSON(w, http.StatusOK, toResponse(i, spec, h.source.Interaction(name)))
			return
		}
	}
	WriteError(w, http.StatusNotFound, "Gesture not found")
}
