package testsupport

import (
	"path/filepath"
	"testing"

	"stenograf/internal/config"
)

// NewConfig returns a validated configuration with every path rooted in a
// fresh temp directory.
func NewConfig(t testing.TB) config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Source.Year = 2017
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StorePath = filepath.Join(base, "stenograf.db")
	return cfg
}
