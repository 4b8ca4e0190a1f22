// Package config loads the application configuration from YAML or JSON
// files with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ktakeda/loadplan/core/plan"
	"github.com/ktakeda/loadplan/infra/metrics"
	"github.com/ktakeda/loadplan/store"
)

type Config struct {
	Planner  plan.Config    `json:"planner"`
	Calendar CalendarConfig `json:"calendar"`
	Store    store.Config   `json:"store"`
	Metrics  metrics.Config `json:"metrics"`
}

// CalendarConfig lists the non-working days of the company calendar.
type CalendarConfig struct {
	// ClosedDates are explicit non-working days, formatted 2006-01-02.
	ClosedDates []string `json:"closed_dates"`
	// CloseWeekends marks Saturday and Sunday non-working.
	CloseWeekends bool `json:"close_weekends"`
}

// Validate checks date formats.
func (c CalendarConfig) Validate() error {
	for _, d := range c.ClosedDates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid closed date %q: %w", d, err)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("LP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "lp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Planner.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Calendar.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
