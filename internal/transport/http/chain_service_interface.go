package http

import (
	"context"

	"gexcli/internal/services"
)

// ChainServiceInterface is the surface of the chain service the handlers
// depend on. Tests substitute a mock implementation.
type ChainServiceInterface interface {
	UploadChain(ctx context.Context, filename string, content []byte) (*services.UploadResult, error)
	GetAnalysis(ctx context.Context, sessionID string) (*services.ChainAnalysis, error)
	GetLatestAnalysis(ctx context.Context) (*services.ChainAnalysis, error)
	ExportSession(ctx context.Context, sessionID string) (*services.ExportPaths, error)
	ExportKind(ctx context.Context, sessionID, kind string) (string, error)
}
