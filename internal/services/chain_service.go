package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gexcli/internal/config"
	"gexcli/internal/exporter"
	"gexcli/internal/files"
	"gexcli/internal/gamma"
	"gexcli/internal/ingest"
	"gexcli/internal/store"
	"gexcli/pkg/contracts/domain"
)

// SummaryBroadcaster pushes dashboard updates to connected clients.
// The websocket hub implements it; tests substitute a recorder.
type SummaryBroadcaster interface {
	BroadcastSummary(sessionID string, summary domain.DashboardSummary)
}

// ChainAnalysis bundles everything computed from one set of option records
type ChainAnalysis struct {
	SessionID string                 `json:"session_id"`
	Summary   domain.DashboardSummary `json:"summary"`
	ByStrike  []domain.StrikeGamma   `json:"by_strike"`
	ByExpiry  []domain.ExpiryGamma   `json:"by_expiry"`
	KeyLevels []domain.KeyLevel      `json:"key_levels"`
	Curve     []domain.ExposurePoint `json:"curve"`
	Warnings  []string               `json:"warnings,omitempty"`
}

// UploadResult describes the outcome of a chain upload
type UploadResult struct {
	Session  domain.Session `json:"session"`
	Analysis *ChainAnalysis `json:"analysis"`
	Dropped  int            `json:"dropped_rows"`
}

// ChainService orchestrates chain ingestion, gamma analytics, session
// persistence, and export generation.
type ChainService struct {
	parser      *ingest.Parser
	exporter    *exporter.GammaExporter
	sessions    *store.SessionStore
	paths       *config.Paths
	fileManager *files.Manager
	analytics   config.AnalyticsConfig
	broadcaster SummaryBroadcaster
	logger      *slog.Logger
}

// NewChainService creates a chain service. The broadcaster may be nil when
// running without a websocket hub (CLI mode).
func NewChainService(paths *config.Paths, analytics config.AnalyticsConfig, sessions *store.SessionStore, broadcaster SummaryBroadcaster, logger *slog.Logger) *ChainService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ChainService{
		parser:      ingest.NewParser(logger),
		exporter:    exporter.NewGammaExporter(paths),
		sessions:    sessions,
		paths:       paths,
		fileManager: files.NewManager(paths),
		analytics:   analytics,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("service", "chain")),
	}
}

// UploadChain parses an uploaded chain file, persists it as a session, and
// returns the full analysis. The filename extension selects the parse path:
// .xlsx/.xls go through the workbook reader, everything else is treated as
// CSV text.
func (s *ChainService) UploadChain(ctx context.Context, filename string, content []byte) (*UploadResult, error) {
	if len(content) == 0 {
		return nil, ErrEmptyUpload
	}

	start := time.Now()

	result, err := s.parseUpload(filename, content)
	if err != nil {
		return nil, err
	}

	if len(result.Records) == 0 {
		s.logger.WarnContext(ctx, "upload parsed but produced no valid records",
			slog.String("filename", filename),
			slog.Int("row_count", result.RowCount),
			slog.Int("errors", len(result.Errors)))
		return nil, fmt.Errorf("%w: %s", ErrNoValidRecords, strings.Join(firstN(result.Errors, 3), "; "))
	}

	session := domain.Session{
		ID:              uuid.New().String(),
		Name:            sessionName(filename),
		Symbol:          result.Records[0].Underlying,
		UploadedAt:      time.Now().UTC(),
		OptionCount:     len(result.Records),
		UnderlyingPrice: result.Records[0].UnderlyingPrice,
		Records:         result.Records,
	}

	if !s.sessions.Save(session) {
		return nil, fmt.Errorf("%w: saving session %s", ErrStorageFailed, session.ID)
	}

	analysis := s.Analyze(session.ID, result.Records, session.UnderlyingPrice)
	analysis.Warnings = result.Warnings

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSummary(session.ID, analysis.Summary)
	}

	s.logger.InfoContext(ctx, "chain upload processed",
		slog.String("session_id", session.ID),
		slog.String("symbol", session.Symbol),
		slog.Int("records", len(result.Records)),
		slog.Int("dropped", result.RowCount-result.ValidRowCount),
		slog.Duration("duration", time.Since(start)))

	return &UploadResult{
		Session:  session,
		Analysis: analysis,
		Dropped:  result.RowCount - result.ValidRowCount,
	}, nil
}

// parseUpload routes the raw bytes to the right parser
func (s *ChainService) parseUpload(filename string, content []byte) (*domain.ParseResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".xlsx", ".xls":
		// The workbook reader needs a file on disk
		staged := fmt.Sprintf("uploads/upload_%s%s", uuid.New().String(), ext)
		if err := s.fileManager.WriteFile(staged, content); err != nil {
			return nil, fmt.Errorf("staging workbook upload: %w", err)
		}
		defer s.fileManager.DeleteFile(staged)

		result, err := s.parser.ParseWorkbook(s.fileManager.CleanPath(staged))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return result, nil

	case ".csv", ".txt", "":
		return s.parser.Parse(string(content)), nil

	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// Analyze computes the full analytics bundle for a record set. Spot drives
// the exposure curve; a zero spot yields an empty curve.
func (s *ChainService) Analyze(sessionID string, records []domain.OptionRecord, spot float64) *ChainAnalysis {
	byStrike := gamma.AggregateByStrike(records)
	byExpiry := gamma.AggregateByExpiry(records)

	return &ChainAnalysis{
		SessionID: sessionID,
		Summary:   gamma.Summarize(records),
		ByStrike:  byStrike,
		ByExpiry:  byExpiry,
		KeyLevels: gamma.KeyLevels(byStrike, s.analytics.TopLevelsCount),
		Curve:     gamma.ExposureCurve(records, spot, s.analytics.CurveRangePercent, s.analytics.CurveSteps),
	}
}

// GetAnalysis recomputes analytics for a stored session
func (s *ChainService) GetAnalysis(ctx context.Context, sessionID string) (*ChainAnalysis, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return s.Analyze(session.ID, session.Records, session.UnderlyingPrice), nil
}

// GetLatestAnalysis recomputes analytics for the most recent session
func (s *ChainService) GetLatestAnalysis(ctx context.Context) (*ChainAnalysis, error) {
	sessions := s.sessions.List()
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}

	latest := sessions[0]
	return s.Analyze(latest.ID, latest.Records, latest.UnderlyingPrice), nil
}

// ExportPaths lists the files written by ExportSession
type ExportPaths struct {
	Summary      string `json:"summary"`
	StrikeLevels string `json:"strike_levels"`
	ExpiryLevels string `json:"expiry_levels"`
	KeyLevels    string `json:"key_levels"`
	Records      string `json:"records"`
}

// ExportSession writes the full CSV export set for a stored session and
// returns the paths of the written files.
func (s *ChainService) ExportSession(ctx context.Context, sessionID string) (*ExportPaths, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	analysis := s.Analyze(session.ID, session.Records, session.UnderlyingPrice)

	now := time.Now()
	paths := &ExportPaths{
		Summary:      s.paths.GetSessionExportPath("gamma_summary", now),
		StrikeLevels: s.paths.GetSessionExportPath("gamma_by_strike", now),
		ExpiryLevels: s.paths.GetSessionExportPath("gamma_by_expiry", now),
		KeyLevels:    s.paths.GetSessionExportPath("key_levels", now),
		Records:      s.paths.GetSessionExportPath("option_records", now),
	}

	// The five exports are independent files, write them concurrently
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.exporter.ExportSummary(analysis.Summary, paths.Summary); err != nil {
			return fmt.Errorf("exporting summary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.exporter.ExportStrikeBuckets(analysis.ByStrike, paths.StrikeLevels); err != nil {
			return fmt.Errorf("exporting strike buckets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.exporter.ExportExpiryBuckets(analysis.ByExpiry, paths.ExpiryLevels); err != nil {
			return fmt.Errorf("exporting expiry buckets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.exporter.ExportKeyLevels(analysis.KeyLevels, paths.KeyLevels); err != nil {
			return fmt.Errorf("exporting key levels: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.exporter.ExportRecordsStreaming(session.Records, paths.Records); err != nil {
			return fmt.Errorf("exporting records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session exported",
		slog.String("session_id", sessionID),
		slog.String("summary", paths.Summary))

	return paths, nil
}

// ExportKind writes a single CSV export for a stored session and returns the
// written path. Valid kinds are summary, strikes, expiries, levels, curve,
// and records.
func (s *ChainService) ExportKind(ctx context.Context, sessionID, kind string) (string, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	analysis := s.Analyze(session.ID, session.Records, session.UnderlyingPrice)
	now := time.Now()

	var path string
	var err error
	switch kind {
	case "summary":
		path = s.paths.GetSessionExportPath("gamma_summary", now)
		err = s.exporter.ExportSummary(analysis.Summary, path)
	case "strikes":
		path = s.paths.GetSessionExportPath("gamma_by_strike", now)
		err = s.exporter.ExportStrikeBuckets(analysis.ByStrike, path)
	case "expiries":
		path = s.paths.GetSessionExportPath("gamma_by_expiry", now)
		err = s.exporter.ExportExpiryBuckets(analysis.ByExpiry, path)
	case "levels":
		path = s.paths.GetSessionExportPath("key_levels", now)
		err = s.exporter.ExportKeyLevels(analysis.KeyLevels, path)
	case "curve":
		path = s.paths.GetSessionExportPath("exposure_curve", now)
		err = s.exporter.ExportCurve(analysis.Curve, path)
	case "records":
		path = s.paths.GetSessionExportPath("option_records", now)
		err = s.exporter.ExportRecordsStreaming(session.Records, path)
	default:
		return "", fmt.Errorf("%w: export kind %q", ErrInvalidInput, kind)
	}
	if err != nil {
		return "", fmt.Errorf("exporting %s: %w", kind, err)
	}

	return path, nil
}

// sessionName derives a display name from the uploaded filename
func sessionName(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "Untitled upload"
	}
	return name
}

// firstN returns at most n leading elements
func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
