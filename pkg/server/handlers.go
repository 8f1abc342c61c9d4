package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/routestate/internal/errors"
	"github.com/vango-dev/routestate/pkg/router"
)

// StateResponse is the body of the preview, state and navigate routes.
type StateResponse struct {
	Template string            `json:"template"`
	Path     string            `json:"path"`
	Params   map[string]string `json:"params"`
	State    map[string]any    `json:"state"`
}

// NavigateRequest is the body of POST /_router/navigate.
type NavigateRequest struct {
	Path string `json:"path"`
}

// EndpointsResponse is the body of GET /_router/endpoints.
type EndpointsResponse struct {
	Endpoints []string `json:"endpoints"`
}

// chiPattern converts an endpoint template to chi syntax:
// "/users/:id" becomes "/users/{id}".
func chiPattern(template string) string {
	segments := strings.Split(template, "/")
	for i, seg := range segments {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segments[i] = "{" + name + "}"
		}
	}
	return strings.Join(segments, "/")
}

// routes builds the mux for rt.
func (s *Server) routes(rt *router.Router) *chi.Mux {
	mux := chi.NewRouter()

	preview := s.previewHandler(rt)
	rt.Endpoints().All(func(_ int, t string) bool {
		if strings.HasPrefix(t, ControlPrefix+"/") || t == ControlPrefix {
			s.logger.Warn("endpoint shadowed by control routes", "template", t)
			return true
		}
		mux.Get(chiPattern(t), preview)
		return true
	})

	mux.Route(ControlPrefix, func(cr chi.Router) {
		cr.Get("/endpoints", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, EndpointsResponse{Endpoints: rt.Endpoints().Templates()})
		})
		cr.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, currentState(rt))
		})
		cr.Post("/navigate", s.navigateHandler(rt))
		if s.live {
			cr.Get("/ws", s.hub.handler(rt))
		}
	})

	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New("E200").At(r.URL.Path))
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed,
			errors.Newf(errors.CategoryNavigation, "method %s not allowed", r.Method).At(r.URL.Path))
	})
	return mux
}

// previewHandler answers an endpoint GET with the navigation it would
// perform, leaving the live router untouched.
func (s *Server) previewHandler(rt *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc, state, err := rt.Resolve(r.URL.EscapedPath())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, StateResponse{
			Template: loc.Template,
			Path:     loc.Path,
			Params:   loc.Params,
			State:    state,
		})
	}
}

func (s *Server) navigateHandler(rt *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NavigateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.New("E202").WithDetailf("request body: %v", err))
			return
		}
		if err := rt.NavigateContext(r.Context(), req.Path); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, currentState(rt))
	}
}

func currentState(rt *router.Router) StateResponse {
	loc, state := rt.Snapshot()
	return StateResponse{
		Template: loc.Template,
		Path:     loc.Path,
		Params:   loc.Params,
		State:    state,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps navigation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, router.ErrUnknownTarget):
		return http.StatusNotFound
	case stderrors.Is(err, router.ErrInvalidParam),
		stderrors.Is(err, router.ErrInvalidPath),
		stderrors.Is(err, router.ErrSegmentMismatch):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorStatus(w, statusFor(err), err)
}

func writeErrorStatus(w http.ResponseWriter, status int, err error) {
	var re *errors.RouteError
	if !stderrors.As(err, &re) {
		re = errors.Newf(errors.CategoryNavigation, "navigation aborted").Wrap(err)
	}
	writeJSON(w, status, map[string]any{"error": re})
}
