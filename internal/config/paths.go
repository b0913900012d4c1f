package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories of a pipeline workspace
type Paths struct {
	BaseDir      string
	DataDir      string
	RawDir       string
	ProcessedDir string
	TestDir      string
	LogsDir      string
	DatabaseFile string
}

// GetPaths resolves the workspace directories against SALES_BASE_DIR, or the
// working directory when it is unset.
func GetPaths() (*Paths, error) {
	base := os.Getenv(EnvPrefix + "_BASE_DIR")
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	return &Paths{
		BaseDir:      base,
		DataDir:      filepath.Join(base, DefaultDataDir),
		RawDir:       filepath.Join(base, DefaultRawDir),
		ProcessedDir: filepath.Join(base, DefaultOutputDir),
		TestDir:      filepath.Join(base, DefaultTestOutputDir),
		LogsDir:      filepath.Join(base, DefaultLogsDir),
		DatabaseFile: filepath.Join(base, DefaultDatabasePath),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.ProcessedDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// Resolve returns path unchanged when absolute, otherwise joined to BaseDir.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved workspace layout
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("raw", p.RawDir),
			slog.String("processed", p.ProcessedDir),
			slog.String("logs", p.LogsDir),
		),
		slog.String("database", p.DatabaseFile),
		slog.Bool("database_exists", FileExists(p.DatabaseFile)),
	)
}
