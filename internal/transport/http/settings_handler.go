package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gexcli/internal/errors"
	"gexcli/internal/services"
	"gexcli/pkg/contracts/domain"
)

// SettingsHandler handles dashboard preference reads and writes
type SettingsHandler struct {
	service      *services.SettingsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSettingsHandler creates a settings handler
func NewSettingsHandler(service *services.SettingsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SettingsHandler {
	return &SettingsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "settings_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the settings routes
func (h *SettingsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.Get)
	r.Put("/", h.Save)
	r.Post("/reset", h.Reset)

	return r
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Get(r.Context()),
	})
}

// Save handles PUT /api/settings
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := render.DecodeJSON(r.Body, &settings); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.service.Save(r.Context(), settings); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest,
				"VALIDATION_FAILED",
				"Settings validation failed",
				map[string]interface{}{"error": err.Error()},
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   settings,
	})
}

// Reset handles POST /api/settings/reset
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Reset(r.Context()),
	})
}

// WatchlistHandler handles tracked underlying CRUD
type WatchlistHandler struct {
	service      *services.WatchlistService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewWatchlistHandler creates a watchlist handler
func NewWatchlistHandler(service *services.WatchlistService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *WatchlistHandler {
	return &WatchlistHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "watchlist_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the watchlist routes
func (h *WatchlistHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Delete("/{symbol}", h.Remove)

	return r
}

// List handles GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.service.List(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   items,
		"count":  len(items),
	})
}

// Add handles POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item domain.WatchlistItem
	if err := render.DecodeJSON(r.Body, &item); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	added, err := h.service.Add(r.Context(), item)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("symbol", "Symbol must be 1-12 characters"))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   added,
	})
}

// Remove handles DELETE /api/watchlist/{symbol}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	if err := h.service.Remove(r.Context(), symbol); err != nil {
		if errors.Is(err, services.ErrWatchlistItemNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound,
				"WATCHLIST_ITEM_NOT_FOUND",
				fmt.Sprintf("Symbol '%s' is not on the watchlist", symbol),
				map[string]interface{}{"symbol": symbol},
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusNoContent)
	render.NoContent(w, r)
}
