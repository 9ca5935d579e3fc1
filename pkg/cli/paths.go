package cli

import (
	"os"
	"path/filepath"
)

// Paths provides access to the wisp directory structure under the user's
// home directory.
type Paths struct {
	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns the base wisp directory (~/.wisp).
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns the config file path (~/.wisp/config.yaml).
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// LogDir returns the log directory (~/.wisp/logs).
func (p *Paths) LogDir() string {
	return filepath.Join(p.BaseDir(), "logs")
}

// TraceDir returns the session trace directory (~/.wisp/traces).
func (p *Paths) TraceDir() string {
	return filepath.Join(p.BaseDir(), "traces")
}

// EnsureBaseDir creates the base directory if it doesn't exist.
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir(), 0755)
}

// EnsureLogDir creates the log directory if it doesn't exist.
func (p *Paths) EnsureLogDir() error {
	return os.MkdirAll(p.LogDir(), 0755)
}

// EnsureTraceDir creates the trace directory if it doesn't exist.
func (p *Paths) EnsureTraceDir() error {
	return os.MkdirAll(p.TraceDir(), 0755)
}

// LogPath returns a path within the log directory.
func (p *Paths) LogPath(name string) string {
	return filepath.Join(p.LogDir(), name)
}

// TracePath returns a path within the trace directory.
func (p *Paths) TracePath(name string) string {
	return filepath.Join(p.TraceDir(), name)
}
