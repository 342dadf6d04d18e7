// Package engine implements spec.md §6's single programmatic surface
// (BuildRequest/QueryRequest/DiffRequest) wired over acquire/parse/lower,
// semgraph, query and snapshot. Transport (HTTP, MCP, CLI) is a
// collaborator, not part of this package, per spec.md §6: "No CLI
// surface is specified by the core."
package engine

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/codegraphlabs/semcore/acquire"
	"github.com/codegraphlabs/semcore/lower"
)

// Config bundles the engine's ambient configuration, matching the
// teacher's posture of one explicit struct rather than package globals
// (inspector/info/config.go).
type Config struct {
	MaxFileBytes       int64              `yaml:"maxFileBytes"`
	RenameSimilarity   float64            `yaml:"renameSimilarity"`
	ImpactCeiling      int                `yaml:"impactCeiling"`
	BridgePolicy       lower.BridgePolicy `yaml:"-"` // not YAML-serializable (map key is [2]string); set programmatically
	MaxConcurrentFiles int                `yaml:"maxConcurrentFiles"`
	Logger             *zap.Logger        `yaml:"-"`
}

// DefaultConfig matches the package-level defaults already established
// in acquire and snapshot (DefaultLimits, RenameSimilarityThreshold,
// ImpactCeiling), plus a no-op logger so callers never need a nil check.
// RenameSimilarity and ImpactCeiling are not passed to snapshot.Diff,
// which always uses the snapshot package constants; changing these two
// fields does not change rename detection or impact-set sampling.
func DefaultConfig() Config {
	return Config{
		MaxFileBytes:       acquire.DefaultLimits().MaxFileBytes,
		RenameSimilarity:   0.82,
		ImpactCeiling:      10000,
		BridgePolicy:       lower.DefaultBridgePolicy(),
		MaxConcurrentFiles: 8,
		Logger:             zap.NewNop(),
	}
}

// LoadConfig reads a YAML config file and overlays it onto DefaultConfig
// (spec.md §10.2's "engine.Config file loading" via yaml.v3, per
// DESIGN.md's domain-stack wiring for gopkg.in/yaml.v3).
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	type overlay struct {
		MaxFileBytes       *int64   `yaml:"maxFileBytes"`
		RenameSimilarity   *float64 `yaml:"renameSimilarity"`
		ImpactCeiling      *int     `yaml:"impactCeiling"`
		MaxConcurrentFiles *int     `yaml:"maxConcurrentFiles"`
	}
	var ov overlay
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if ov.MaxFileBytes != nil {
		cfg.MaxFileBytes = *ov.MaxFileBytes
	}
	if ov.RenameSimilarity != nil {
		cfg.RenameSimilarity = *ov.RenameSimilarity
	}
	if ov.ImpactCeiling != nil {
		cfg.ImpactCeiling = *ov.ImpactCeiling
	}
	if ov.MaxConcurrentFiles != nil {
		cfg.MaxConcurrentFiles = *ov.MaxConcurrentFiles
	}
	return cfg, nil
}
