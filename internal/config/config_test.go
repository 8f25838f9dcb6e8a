package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.Analytics.TopLevelsCount)
	assert.Equal(t, 60, cfg.Analytics.CurveSteps)
	assert.Equal(t, 10.0, cfg.Analytics.CurveRangePercent)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = -1 },
			wantErr: "read timeout",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Server.MaxUploadBytes = 0 },
			wantErr: "max upload bytes",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "zero top levels",
			mutate:  func(c *Config) { c.Analytics.TopLevelsCount = 0 },
			wantErr: "top levels count",
		},
		{
			name:    "zero curve steps",
			mutate:  func(c *Config) { c.Analytics.CurveSteps = 0 },
			wantErr: "curve steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format, "format is forced to json")
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
  read_timeout: 30s
analytics:
  top_levels_count: 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 6, cfg.Analytics.TopLevelsCount)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := loadFromFile(path)
	assert.Error(t, err)
}

func TestMergeConfigs_EnvWins(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Analytics.TopLevelsCount = 6

	envCfg := Config{}
	envCfg.Server.Port = 8081

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 8081, merged.Server.Port, "env value takes precedence")
	assert.Equal(t, 6, merged.Analytics.TopLevelsCount, "file fills unset env values")
}

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.NotEmpty(t, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "uploads"), paths.UploadsDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "exports"), paths.ExportsDir)
	assert.Equal(t, filepath.Join(paths.StoreDir, "sessions.json"), paths.SessionsFile)
	assert.Equal(t, filepath.Join(paths.ExportsDir, "gamma_by_strike.csv"), paths.StrikeLevelsCSV)
}

func TestPathHelpers(t *testing.T) {
	p := &Paths{
		ExecutableDir: "/app",
		UploadsDir:    "/app/data/uploads",
		ExportsDir:    "/app/data/exports",
		StoreDir:      "/app/data/store",
		CacheDir:      "/app/data/cache",
		LogsDir:       "/app/logs",
	}

	assert.Equal(t, "/app/data/uploads/chain.csv", p.GetUploadPath("chain.csv"))
	assert.Equal(t, "/app/data/exports/out.csv", p.GetExportPath("out.csv"))
	assert.Equal(t, "/app/data/store/settings.json", p.GetStorePath("settings.json"))
	assert.Equal(t, "/app/logs/app.log", p.GetLogPath("app.log"))
	assert.Equal(t, "/app/web", p.GetRelativePath("web"))

	at := time.Date(2025, 8, 29, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "/app/data/exports/gamma_by_strike_20250829_143000.csv",
		p.GetSessionExportPath("gamma_by_strike", at))
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	p := &Paths{
		DataDir:    filepath.Join(dir, "data"),
		UploadsDir: filepath.Join(dir, "data", "uploads"),
		ExportsDir: filepath.Join(dir, "data", "exports"),
		StoreDir:   filepath.Join(dir, "data", "store"),
		CacheDir:   filepath.Join(dir, "data", "cache"),
		LogsDir:    filepath.Join(dir, "logs"),
		WebDir:     filepath.Join(dir, "web"),
		StaticDir:  filepath.Join(dir, "web", "static"),
	}

	require.NoError(t, p.EnsureDirectories())

	for _, d := range []string{p.UploadsDir, p.ExportsDir, p.StoreDir, p.LogsDir, p.StaticDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")

	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.True(t, FileExists(path))
}
