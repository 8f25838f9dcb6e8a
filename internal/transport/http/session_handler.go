package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "gexcli/internal/errors"
	"gexcli/internal/services"
)

// SessionHandler handles saved session CRUD
type SessionHandler struct {
	service      *services.SessionService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSessionHandler creates a session handler
func NewSessionHandler(service *services.SessionService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SessionHandler {
	return &SessionHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "session_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the session routes
func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Rename)
		r.Delete("/", h.Delete)
	})

	return r
}

// List handles GET /api/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.service.List(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   sessions,
		"count":  len(sessions),
	})
}

// Get handles GET /api/sessions/{sessionID} and returns the full session
// including its option records.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		h.handleSessionError(w, r, err, sessionID)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   session,
	})
}

// Rename handles PATCH /api/sessions/{sessionID}
func (h *SessionHandler) Rename(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req struct {
		Name string `json:"name"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	session, err := h.service.Rename(r.Context(), sessionID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Name must be 1-120 characters"))
			return
		}
		h.handleSessionError(w, r, err, sessionID)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   session,
	})
}

// Delete handles DELETE /api/sessions/{sessionID}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.service.Delete(r.Context(), sessionID); err != nil {
		h.handleSessionError(w, r, err, sessionID)
		return
	}

	render.Status(r, http.StatusNoContent)
	render.NoContent(w, r)
}

func (h *SessionHandler) handleSessionError(w http.ResponseWriter, r *http.Request, err error, sessionID string) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "session operation failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("session_id", sessionID),
	)

	if errors.Is(err, services.ErrSessionNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"SESSION_NOT_FOUND",
			fmt.Sprintf("Session '%s' not found", sessionID),
			map[string]interface{}{"session_id": sessionID},
		))
		return
	}

	h.errorHandler.HandleError(w, r, err)
}
