package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tmpDir := t.TempDir()
	paths := &Paths{HomeDir: tmpDir}

	if got, want := paths.BaseDir(), filepath.Join(tmpDir, DefaultBaseDir); got != want {
		t.Errorf("BaseDir() = %q, want %q", got, want)
	}
	if got, want := paths.ConfigFile(), filepath.Join(tmpDir, DefaultBaseDir, DefaultConfigFile); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
	if got, want := paths.TracePath("session.trace"), filepath.Join(paths.TraceDir(), "session.trace"); got != want {
		t.Errorf("TracePath() = %q, want %q", got, want)
	}
	if got, want := paths.LogPath("wisp.log"), filepath.Join(paths.LogDir(), "wisp.log"); got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestPathsEnsure(t *testing.T) {
	paths := &Paths{HomeDir: t.TempDir()}

	for name, fn := range map[string]func() error{
		"base":  paths.EnsureBaseDir,
		"log":   paths.EnsureLogDir,
		"trace": paths.EnsureTraceDir,
	} {
		if err := fn(); err != nil {
			t.Fatalf("ensure %s dir: %v", name, err)
		}
	}
	for _, dir := range []string{paths.BaseDir(), paths.LogDir(), paths.TraceDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}
