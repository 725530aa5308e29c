// Package config implements kmatch's layered configuration: built-in
// defaults, an optional JSON-with-comments config file, then CLI flag
// overrides, each later layer overriding the fields it sets in the
// earlier ones. The loader and merge precedence are grounded on
// calvinalkan-agent-task/config.go's LoadConfig; the field set itself is
// adapted from kshedden-muscato/utils/config.go's domain Config struct,
// narrowed to this system's k-mer/read/index fields.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/bebop/kmatch/internal/kmatcherr"
)

// Config holds every field that can be set either on the `kmatch match`
// command line or in an optional -config file.
type Config struct {
	KLen          int    `json:"k_len,omitempty"`
	UseKLCP       bool   `json:"use_klcp,omitempty"`
	EmitRefSets   bool   `json:"emit_ref_sets,omitempty"`
	SkipAfterFail bool   `json:"skip_after_fail,omitempty"`
	OutputFile    string `json:"output_file,omitempty"`
	Format        string `json:"format,omitempty"` // "text" or "binary"
	End           string `json:"end,omitempty"`    // "single", "first", "second"
	BatchSize     int    `json:"batch_size,omitempty"`
	Profile       bool   `json:"profile,omitempty"`
}

// Default returns the built-in defaults (spec.md-mandated batch size and
// a plain-text, single-end read stream with rolling extension off).
func Default() Config {
	return Config{
		Format:    "text",
		End:       "single",
		BatchSize: 1 << 18,
	}
}

// Load applies, in increasing precedence: Default(), the file at path
// (skipped entirely if path is empty), then overrides. A field in
// overrides only takes effect when overrideSet reports it as explicitly
// passed on the command line — the caller (cmd/kmatch) is responsible
// for tracking which flags the user actually set, the same role
// cliOverrides/hasTicketDirOverride play in the teacher repo's
// LoadConfig.
func Load(path string, overrides Config, overrideSet map[string]bool) (Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fileCfg)
	}

	cfg = applyOverrides(cfg, overrides, overrideSet)
	return cfg, validate(cfg)
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: reading config %s: %v", kmatcherr.ErrInvalidArgs, path, err)
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s is not valid JSON-with-comments: %v", kmatcherr.ErrInvalidArgs, path, err)
	}
	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", kmatcherr.ErrInvalidArgs, path, err)
	}
	return cfg, nil
}

// merge layers overlay's non-zero fields onto base.
func merge(base, overlay Config) Config {
	if overlay.KLen != 0 {
		base.KLen = overlay.KLen
	}
	if overlay.Format != "" {
		base.Format = overlay.Format
	}
	if overlay.End != "" {
		base.End = overlay.End
	}
	if overlay.OutputFile != "" {
		base.OutputFile = overlay.OutputFile
	}
	if overlay.BatchSize != 0 {
		base.BatchSize = overlay.BatchSize
	}
	base.UseKLCP = base.UseKLCP || overlay.UseKLCP
	base.EmitRefSets = base.EmitRefSets || overlay.EmitRefSets
	base.SkipAfterFail = base.SkipAfterFail || overlay.SkipAfterFail
	base.Profile = base.Profile || overlay.Profile
	return base
}

// applyOverrides unconditionally copies fields the caller marked as set,
// even booleans explicitly turned back off, unlike merge's "non-zero
// wins" rule: flags win outright, per SPEC_FULL.md §6.1.
func applyOverrides(base, overrides Config, set map[string]bool) Config {
	if set["k_len"] {
		base.KLen = overrides.KLen
	}
	if set["use_klcp"] {
		base.UseKLCP = overrides.UseKLCP
	}
	if set["emit_ref_sets"] {
		base.EmitRefSets = overrides.EmitRefSets
	}
	if set["skip_after_fail"] {
		base.SkipAfterFail = overrides.SkipAfterFail
	}
	if set["output_file"] {
		base.OutputFile = overrides.OutputFile
	}
	if set["format"] {
		base.Format = overrides.Format
	}
	if set["end"] {
		base.End = overrides.End
	}
	if set["batch_size"] {
		base.BatchSize = overrides.BatchSize
	}
	if set["profile"] {
		base.Profile = overrides.Profile
	}
	return base
}

func validate(cfg Config) error {
	if cfg.UseKLCP && cfg.KLen <= 0 {
		return fmt.Errorf("%w: -u requires -k to be set to a positive length", kmatcherr.ErrInvalidArgs)
	}
	switch cfg.Format {
	case "text", "binary":
	default:
		return fmt.Errorf("%w: unknown -format %q", kmatcherr.ErrInvalidArgs, cfg.Format)
	}
	switch cfg.End {
	case "single", "first", "second":
	default:
		return fmt.Errorf("%w: unknown -end %q", kmatcherr.ErrInvalidArgs, cfg.End)
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("%w: -batch must be positive", kmatcherr.ErrInvalidArgs)
	}
	return nil
}
