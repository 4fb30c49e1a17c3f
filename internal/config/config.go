// Package config loads docstore CLI configuration from HuJSON files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/docstore/pkg/docstore"
	"github.com/calvinalkan/docstore/pkg/docstore/format"
	"github.com/calvinalkan/docstore/pkg/docstore/query"
	"github.com/calvinalkan/docstore/pkg/fs"
)

// FileName is the project config file name.
const FileName = ".docstore.json"

const rootPerm os.FileMode = 0o777

var (
	ErrFileNotFound = errors.New("config file not found")
	ErrFileRead     = errors.New("cannot read config file")
	ErrInvalid      = errors.New("invalid config file")
	ErrRootEmpty    = errors.New("root cannot be empty")
	ErrFormatEmpty  = errors.New("format cannot be empty")
	ErrExists       = errors.New("config file already exists")
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	Root         string `json:"root"`
	Format       string `json:"format"`
	Compress     bool   `json:"compress,omitempty"`
	StrictDecode bool   `json:"strict_decode,omitempty"`
	Pretty       bool   `json:"pretty,omitempty"`

	// Resolved (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	RootAbs      string `json:"-"` // Absolute path to the store root

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project or explicit config if loaded, empty otherwise
}

// fileConfig is one config file as written. Pointers distinguish "absent"
// from "set to the zero value".
type fileConfig struct {
	Root         *string `json:"root"`
	Format       *string `json:"format"`
	Compress     *bool   `json:"compress"`
	StrictDecode *bool   `json:"strict_decode"`
	Pretty       *bool   `json:"pretty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Root:   "data",
		Format: "json",
	}
}

// globalPath returns $XDG_CONFIG_HOME/docstore/config.json, falling back to
// ~/.config/docstore/config.json. Empty if neither variable is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "docstore", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "docstore", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	RootOverride    string            // --root flag value; empty means no override
	FormatOverride  string            // --format flag value; empty means no override
	Env             map[string]string // environment variables
}

// Load resolves configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/docstore/config.json or ~/.config/docstore/config.json)
//  3. Project config file (.docstore.json in the working directory, if it exists)
//  4. Explicit config file via ConfigPath (replaces 3; must exist)
//  5. CLI overrides
//
// RootAbs is resolved against the working directory.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolving working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		fc, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, fc)
			cfg.Sources.Global = path
		}
	}

	projectPath, mustExist := filepath.Join(workDir, FileName), false
	if input.ConfigPath != "" {
		projectPath, mustExist = input.ConfigPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
	}

	fc, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, fc)
		cfg.Sources.Project = projectPath
	}

	if input.RootOverride != "" {
		cfg.Root = input.RootOverride
	}

	if input.FormatOverride != "" {
		cfg.Format = input.FormatOverride
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	cfg.RootAbs = cfg.Root
	if !filepath.IsAbs(cfg.RootAbs) {
		cfg.RootAbs = filepath.Join(workDir, cfg.RootAbs)
	}

	return cfg, nil
}

// loadFile reads one config file. A missing file is not an error unless
// mustExist is set.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if mustExist {
				return fileConfig{}, false, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}

			return fileConfig{}, false, nil
		}

		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrFileRead, path, err)
	}

	fc, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
	}

	if fc.Root != nil && *fc.Root == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, ErrRootEmpty)
	}

	if fc.Format != nil && *fc.Format == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, ErrFormatEmpty)
	}

	return fc, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&fc); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.Root != nil {
		base.Root = *overlay.Root
	}

	if overlay.Format != nil {
		base.Format = *overlay.Format
	}

	if overlay.Compress != nil {
		base.Compress = *overlay.Compress
	}

	if overlay.StrictDecode != nil {
		base.StrictDecode = *overlay.StrictDecode
	}

	if overlay.Pretty != nil {
		base.Pretty = *overlay.Pretty
	}

	return base
}

func validate(cfg Config) error {
	if cfg.Root == "" {
		return ErrRootEmpty
	}

	if cfg.Format == "" {
		return ErrFormatEmpty
	}

	if _, err := format.ByName(cfg.Format, format.Options{}); err != nil {
		return err
	}

	return nil
}

// Formatter builds the configured formatter.
func (c Config) Formatter() (docstore.Formatter, error) {
	return format.ByName(c.Format, format.Options{Pretty: c.Pretty, Compress: c.Compress})
}

// Repository returns the docstore settings for this configuration.
func (c Config) Repository(logger *slog.Logger) (docstore.Config, error) {
	f, err := c.Formatter()
	if err != nil {
		return docstore.Config{}, err
	}

	return docstore.Config{
		Root:         c.RootAbs,
		Formatter:    f,
		QueryFactory: query.Factory{},
		Logger:       logger,
		StrictDecode: c.StrictDecode,
	}, nil
}

// Open creates the store root if needed and opens the named repository.
func (c Config) Open(name string, logger *slog.Logger) (*docstore.Repository, error) {
	dc, err := c.Repository(logger)
	if err != nil {
		return nil, err
	}

	dc.FS = fs.NewReal()

	if err := dc.FS.MkdirAll(c.RootAbs, rootPerm); err != nil {
		return nil, fmt.Errorf("creating root %s: %w", c.RootAbs, err)
	}

	return docstore.New(name, dc)
}

// Marshal returns the serializable fields as HuJSON-formatted JSON.
func Marshal(cfg Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to format config: %w", err)
	}

	out, err := hujson.Format(data)
	if err != nil {
		return nil, fmt.Errorf("failed to format config: %w", err)
	}

	return out, nil
}

// WriteProject writes cfg to workDir/.docstore.json atomically and returns
// the path. An existing file is only replaced when force is set.
func WriteProject(workDir string, cfg Config, force bool) (string, error) {
	path := filepath.Join(workDir, FileName)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}
