package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/etna-dt/twinhub/core/dispatch"
	"github.com/etna-dt/twinhub/core/metrics"
	"github.com/etna-dt/twinhub/core/model"
	"github.com/etna-dt/twinhub/core/registry"
)

// HTTPConfig defines the operator API server settings.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

type Config struct {
	Devices  []model.Device  `json:"devices"`
	Dispatch dispatch.Config `json:"dispatch"`
	HTTP     HTTPConfig      `json:"http"`
	Metrics  metrics.Config  `json:"metrics"`
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
	if err := k.Load(env.Provider("TWINHUB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "twinhub_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.HTTP.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks mandatory fields.
func (c *Config) Validate() error {
	if len(c.Devices) == 0 {
		return fmt.Errorf("at least one device is required")
	}
	for _, d := range c.Devices {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Registry builds the immutable device registry from the configured devices.
func (c *Config) Registry() (*registry.Registry, error) {
	return registry.New(c.Devices)
}
