package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrNoManifest is returned by Load when no playscript.toml is found.
	ErrNoManifest = errors.New("no " + ManifestName + " found")
	// ErrNoEntry is returned by EntryPath when [run].entry is not set.
	ErrNoEntry = errors.New("missing [run].entry")
)

// Manifest is a decoded playscript.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Run   RunConfig   `toml:"run"`
	Check CheckConfig `toml:"check"`
	Trace TraceConfig `toml:"trace"`
}

type RunConfig struct {
	Entry        string `toml:"entry"`
	MaxCallDepth int    `toml:"max_call_depth,omitempty"`
}

type CheckConfig struct {
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Jobs           int  `toml:"jobs"` // 0 means GOMAXPROCS
	Cache          bool `toml:"cache"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// DefaultConfig returns the settings used for keys a manifest leaves out.
func DefaultConfig() Config {
	return Config{
		Check: CheckConfig{MaxDiagnostics: 100, Cache: true},
		Trace: TraceConfig{Level: "off", Format: "text", Output: "-"},
	}
}

// Load finds and decodes the manifest governing startDir.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return LoadFile(path)
}

// LoadFile decodes the manifest at path. Keys absent from the file keep
// their DefaultConfig values.
func LoadFile(path string) (*Manifest, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("run", "entry") && strings.TrimSpace(cfg.Run.Entry) == "" {
		return nil, fmt.Errorf("%s: [run].entry is empty", path)
	}
	if cfg.Check.MaxDiagnostics < 0 || cfg.Check.Jobs < 0 {
		return nil, fmt.Errorf("%s: [check] values must not be negative", path)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// EntryPath resolves [run].entry against the project root.
func (m *Manifest) EntryPath() (string, error) {
	entry := strings.TrimSpace(m.Config.Run.Entry)
	if entry == "" {
		return "", fmt.Errorf("%s: %w", m.Path, ErrNoEntry)
	}
	p := filepath.Join(m.Root, filepath.FromSlash(entry))
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%s: [run].entry: %w", m.Path, err)
	}
	return p, nil
}

// WriteDefault creates a manifest in dir that runs entry. It fails if the
// manifest already exists.
func WriteDefault(dir, entry string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	cfg := DefaultConfig()
	cfg.Run.Entry = entry

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
