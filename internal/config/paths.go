package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	WebDir        string
	StaticDir     string
	DataDir       string
	UploadsDir    string
	ExportsDir    string
	CacheDir      string
	LogsDir       string

	// JSON stores for persisted client state
	StoreDir      string
	SessionsFile  string
	SettingsFile  string
	WatchlistFile string

	// Well-known export files
	SummaryCSV      string
	StrikeLevelsCSV string
	ExpiryLevelsCSV string
	KeyLevelsCSV    string
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	// dist/
	//   ├── data/
	//   │   ├── uploads/   (Raw chain exports as received)
	//   │   ├── exports/   (Generated analytics CSV files)
	//   │   ├── store/     (Persisted sessions, settings, watchlist)
	//   │   └── cache/     (Temporary files)
	//   ├── logs/          (Application logs)
	//   └── web/           (Frontend assets)

	dataDir := filepath.Join(exeDir, "data")
	exportsDir := filepath.Join(dataDir, "exports")
	storeDir := filepath.Join(dataDir, "store")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		WebDir:        filepath.Join(exeDir, "web"),
		StaticDir:     filepath.Join(exeDir, "web", "static"),
		UploadsDir:    filepath.Join(dataDir, "uploads"),
		ExportsDir:    exportsDir,
		CacheDir:      filepath.Join(dataDir, "cache"),
		LogsDir:       filepath.Join(exeDir, "logs"),

		StoreDir:      storeDir,
		SessionsFile:  filepath.Join(storeDir, "sessions.json"),
		SettingsFile:  filepath.Join(storeDir, "settings.json"),
		WatchlistFile: filepath.Join(storeDir, "watchlist.json"),

		SummaryCSV:      filepath.Join(exportsDir, "gamma_summary.csv"),
		StrikeLevelsCSV: filepath.Join(exportsDir, "gamma_by_strike.csv"),
		ExpiryLevelsCSV: filepath.Join(exportsDir, "gamma_by_expiry.csv"),
		KeyLevelsCSV:    filepath.Join(exportsDir, "key_levels.csv"),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.UploadsDir,
		p.ExportsDir,
		p.StoreDir,
		p.CacheDir,
		p.LogsDir,
		p.WebDir,
		p.StaticDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetWebFilePath returns the path to a web file
func (p *Paths) GetWebFilePath(filename string) string {
	return filepath.Join(p.WebDir, filename)
}

// GetStaticFilePath returns the path to a static file
func (p *Paths) GetStaticFilePath(filename string) string {
	return filepath.Join(p.StaticDir, filename)
}

// GetUploadPath returns the path for an uploaded chain export
func (p *Paths) GetUploadPath(filename string) string {
	return filepath.Join(p.UploadsDir, filename)
}

// GetExportPath returns the path for a generated analytics export
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCachePath returns the path for a cache file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// GetStorePath returns the path for a persisted JSON store file
func (p *Paths) GetStorePath(filename string) string {
	return filepath.Join(p.StoreDir, filename)
}

// GetSessionExportPath returns the path for a per-session export file
// (e.g. gamma_by_strike_20250829_143000.csv)
func (p *Paths) GetSessionExportPath(prefix string, at time.Time) string {
	filename := fmt.Sprintf("%s_%s.csv", prefix, at.Format("20060102_150405"))
	return filepath.Join(p.ExportsDir, filename)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("uploads", p.UploadsDir),
			slog.String("exports", p.ExportsDir),
			slog.String("store", p.StoreDir),
			slog.String("cache", p.CacheDir),
			slog.String("logs", p.LogsDir),
			slog.String("web", p.WebDir),
		),
		slog.Group("store_files",
			slog.String("sessions", p.SessionsFile),
			slog.String("settings", p.SettingsFile),
			slog.String("watchlist", p.WatchlistFile),
		),
		slog.Group("export_files",
			slog.String("summary_csv", p.SummaryCSV),
			slog.String("strike_csv", p.StrikeLevelsCSV),
			slog.String("expiry_csv", p.ExpiryLevelsCSV),
			slog.String("key_levels_csv", p.KeyLevelsCSV),
		))
}
