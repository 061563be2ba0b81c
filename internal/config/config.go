// Package config handles pipeline configuration: the currency table and the
// Price Model's tunable width factors.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCurrency is the built-in exchange table, converting each
// lowercase three-letter code into the canonical unit (USD). Values match
// the reference implementation's fixed table.
var DefaultCurrency = map[string]float64{
	"usd": 1.0,
	"eur": 1.30781,
	"gbp": 1.58827,
	"cad": 1.00209,
	"aud": 1.03697,
	"jpy": 0.0123550,
	"chf": 1.08817,
	"nzd": 0.826091,
}

// Default width factors for Pass B (disambiguation) and Pass C (pruning).
const (
	DefaultKDisambiguate = 1.5
	DefaultKPrune        = 7.0
)

// PipelineConfig overrides the built-in currency table and width factors.
// Every field is optional; zero values mean "use the default".
type PipelineConfig struct {
	Currency      map[string]float64 `yaml:"currency"`
	KDisambiguate float64            `yaml:"k_disambiguate"`
	KPrune        float64            `yaml:"k_prune"`
}

// Load reads a PipelineConfig from a YAML file at path. A missing path is
// not an error: Load returns a zero-value PipelineConfig so callers can
// layer it over defaults uniformly.
func Load(path string) (PipelineConfig, error) {
	if path == "" {
		return PipelineConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PipelineConfig{}, nil
		}
		return PipelineConfig{}, fmt.Errorf("read pipeline config: %w", err)
	}
	var cfg PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PipelineConfig{}, fmt.Errorf("parse pipeline config: %w", err)
	}
	return cfg, nil
}

// CurrencyTable returns cfg's currency overrides merged onto the built-in
// defaults, overrides winning on key collision.
func (cfg PipelineConfig) CurrencyTable() map[string]float64 {
	out := make(map[string]float64, len(DefaultCurrency)+len(cfg.Currency))
	for k, v := range DefaultCurrency {
		out[k] = v
	}
	for k, v := range cfg.Currency {
		out[k] = v
	}
	return out
}

// KDisambiguateOrDefault returns cfg's override or the built-in default.
func (cfg PipelineConfig) KDisambiguateOrDefault() float64 {
	if cfg.KDisambiguate != 0 {
		return cfg.KDisambiguate
	}
	return DefaultKDisambiguate
}

// KPruneOrDefault returns cfg's override or the built-in default.
func (cfg PipelineConfig) KPruneOrDefault() float64 {
	if cfg.KPrune != 0 {
		return cfg.KPrune
	}
	return DefaultKPrune
}
