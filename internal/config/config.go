// Package config assembles the service configuration from the layered YAML
// files plus environment overrides.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	pkgconfig "studyplanner/pkg/config"
)

type Config struct {
	Server  pkgconfig.ServerConfig  `yaml:"server"`
	DB      pkgconfig.DBConfig      `yaml:"db"`
	Redis   pkgconfig.RedisConfig   `yaml:"redis"`
	JWT     pkgconfig.JWTConfig     `yaml:"jwt"`
	Webhook pkgconfig.WebhookConfig `yaml:"webhook"`
	Parent  pkgconfig.ParentConfig  `yaml:"parent"`
	Limits  pkgconfig.LimitsConfig  `yaml:"limits"`
}

// Load reads the layered config for the active environment and applies
// environment-variable overrides on top.
func Load(configDir string) (*Config, error) {
	env := pkgconfig.GetConfigEnv()
	raw, err := pkgconfig.LoadConfig(env, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config for env %s: %w", env, err)
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode merged config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	pkgconfig.OverrideServerFromEnv(&cfg.Server)
	pkgconfig.OverrideDBFromEnv(&cfg.DB)
	pkgconfig.OverrideRedisFromEnv(&cfg.Redis)
	pkgconfig.OverrideJWTFromEnv(&cfg.JWT)
	pkgconfig.OverrideWebhookFromEnv(&cfg.Webhook)
	pkgconfig.OverrideParentFromEnv(&cfg.Parent)

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	return &cfg, nil
}
