package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "gexcli/internal/errors"
	gexmiddleware "gexcli/internal/middleware"
	"gexcli/internal/services"
)

// LatestSessionID selects the most recently uploaded session in place of a
// concrete session ID.
const LatestSessionID = "latest"

// ChainHandler handles option chain uploads and gamma analytics reads
type ChainHandler struct {
	service        ChainServiceInterface
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	query          *gexmiddleware.QueryParamValidator
}

// NewChainHandler creates a chain handler
func NewChainHandler(service ChainServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChainHandler {
	return &ChainHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "chain_handler")),
		errorHandler:   errorHandler,
		query:          gexmiddleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the chain routes
func (h *ChainHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/upload", gexmiddleware.ChainUploadTraceHandler("multipart", h.Upload))

	r.Route("/{sessionID}", func(r chi.Router) {
		r.Use(h.SessionCtx)
		r.Get("/summary", h.GetSummary)
		r.Get("/strikes", h.GetStrikes)
		r.Get("/expiries", h.GetExpiries)
		r.Get("/levels", h.GetLevels)
		r.Get("/curve", h.GetCurve)
		r.Post("/export", h.ExportAll)
		r.Get("/export/{kind}", h.DownloadExport)
	})

	return r
}

// SessionCtx middleware validates the session ID parameter
func (h *ChainHandler) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if sessionID == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("sessionID", "Session ID is required"))
			return
		}
		if len(sessionID) > 64 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("sessionID", "Invalid session ID format"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/chain/upload. The chain file arrives as the
// multipart form field "file".
func (h *ChainHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusRequestEntityTooLarge,
				"UPLOAD_TOO_LARGE",
				fmt.Sprintf("Upload exceeds the %d byte limit", h.maxUploadBytes),
				map[string]interface{}{"limit_bytes": h.maxUploadBytes},
			))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Multipart form field 'file' is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusRequestEntityTooLarge,
				"UPLOAD_TOO_LARGE",
				fmt.Sprintf("Upload exceeds the %d byte limit", h.maxUploadBytes),
				map[string]interface{}{"limit_bytes": h.maxUploadBytes},
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "processing chain upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int("size_bytes", len(content)),
	)

	result, err := h.service.UploadChain(r.Context(), header.Filename, content)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "chain upload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("filename", header.Filename),
		)
		render.Render(w, r, apierrors.MapChainError(err, reqID))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"session":      result.Session.ID,
		"symbol":       result.Session.Symbol,
		"records":      result.Session.OptionCount,
		"dropped_rows": result.Dropped,
		"analysis":     result.Analysis,
	})
}

// analysisFor resolves the session ID parameter to an analysis, treating
// "latest" as the newest saved session.
func (h *ChainHandler) analysisFor(r *http.Request) (*services.ChainAnalysis, error) {
	sessionID := chi.URLParam(r, "sessionID")

	start := time.Now()
	var analysis *services.ChainAnalysis
	var err error
	if sessionID == LatestSessionID {
		analysis, err = h.service.GetLatestAnalysis(r.Context())
	} else {
		analysis, err = h.service.GetAnalysis(r.Context(), sessionID)
	}
	gexmiddleware.RecordAnalyticsStageMetrics(r.Context(), sessionID, "recompute", time.Since(start), err == nil)

	return analysis, err
}

// handleAnalysisError maps analytics read failures to problem responses
func (h *ChainHandler) handleAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "analytics read failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("session_id", chi.URLParam(r, "sessionID")),
	)

	if errors.Is(err, services.ErrNoSessions) {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			"NO_SESSIONS",
			"No sessions have been uploaded yet",
		))
		return
	}

	if !errors.Is(err, services.ErrSessionNotFound) {
		gexmiddleware.RecordSystemError(r.Context(), "analytics_read", "chain_handler")
	}

	render.Render(w, r, apierrors.MapChainError(err, reqID))
}

// GetSummary handles GET /api/chain/{sessionID}/summary
func (h *ChainHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.analysisFor(r)
	if err != nil {
		h.handleAnalysisError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"session": analysis.SessionID,
		"data":    analysis.Summary,
	})
}

// GetStrikes handles GET /api/chain/{sessionID}/strikes
func (h *ChainHandler) GetStrikes(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.analysisFor(r)
	if err != nil {
		h.handleAnalysisError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"session": analysis.SessionID,
		"data":    analysis.ByStrike,
		"count":   len(analysis.ByStrike),
	})
}

// GetExpiries handles GET /api/chain/{sessionID}/expiries
func (h *ChainHandler) GetExpiries(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.analysisFor(r)
	if err != nil {
		h.handleAnalysisError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"session": analysis.SessionID,
		"data":    analysis.ByExpiry,
		"count":   len(analysis.ByExpiry),
	})
}

// GetLevels handles GET /api/chain/{sessionID}/levels. An optional count
// query parameter caps the number of returned levels.
func (h *ChainHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	count, ok := h.query.ValidateInt(w, r, "count", 1, 50, 0)
	if !ok {
		return
	}

	analysis, err := h.analysisFor(r)
	if err != nil {
		h.handleAnalysisError(w, r, err)
		return
	}

	levels := analysis.KeyLevels
	if count > 0 && count < len(levels) {
		levels = levels[:count]
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"session": analysis.SessionID,
		"data":    levels,
		"count":   len(levels),
	})
}

// GetCurve handles GET /api/chain/{sessionID}/curve
func (h *ChainHandler) GetCurve(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.analysisFor(r)
	if err != nil {
		h.handleAnalysisError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"session": analysis.SessionID,
		"data":    analysis.Curve,
		"count":   len(analysis.Curve),
	})
}

// ExportAll handles POST /api/chain/{sessionID}/export and writes the full
// CSV export set to the exports directory.
func (h *ChainHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	paths, err := h.service.ExportSession(r.Context(), sessionID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "session export failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("session_id", sessionID),
		)
		render.Render(w, r, apierrors.MapChainError(err, reqID))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"files":  paths,
	})
}

// DownloadExport handles GET /api/chain/{sessionID}/export/{kind} and streams
// a single CSV export as an attachment.
func (h *ChainHandler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	sessionID := chi.URLParam(r, "sessionID")
	kind := chi.URLParam(r, "kind")

	path, err := h.service.ExportKind(r.Context(), sessionID, kind)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("kind",
				"Export kind must be one of: summary, strikes, expiries, levels, curve, records"))
			return
		}
		h.logger.ErrorContext(r.Context(), "export download failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("session_id", sessionID),
			slog.String("kind", kind),
		)
		render.Render(w, r, apierrors.MapChainError(err, reqID))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}
