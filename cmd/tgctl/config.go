package main

import (
	"time"

	"github.com/kochabonline/tgkit/config"
	"github.com/kochabonline/tgkit/log"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type TelegramConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Api     string        `mapstructure:"api" default:"https://api.telegram.org/bot" validate:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Pool    bool          `mapstructure:"pool"`
}

type LogConfig struct {
	log.Config `mapstructure:",squash"`
	File       bool `mapstructure:"file"`
}

type MetricsConfig struct {
	// Textfile is where request metrics are written after each command,
	// for the node_exporter textfile collector.
	Textfile string `mapstructure:"textfile"`
}

var envKeys = []string{
	"telegram.token",
	"telegram.api",
	"telegram.timeout",
	"telegram.pool",
	"log.level",
	"log.file",
	"log.mask.disabled",
	"metrics.textfile",
}

// loadConfig reads file, or tgctl.yaml from the usual places when file is
// empty, applies overrides and validates the result.
func loadConfig(file string, overrides map[string]any) (*Config, error) {
	cfg := new(Config)

	opts := []config.Option{
		config.WithDest(cfg),
		config.WithEnvPrefix("tgctl"),
		config.WithEnvKeys(envKeys...),
	}
	if file != "" {
		opts = append(opts, config.WithFile(file))
	} else {
		opts = append(opts,
			config.WithPath(".", "$HOME/.config/tgctl"),
			config.WithName("tgctl.yaml"),
			config.WithOptional(),
		)
	}

	c, err := config.New(opts...)
	if err != nil {
		return nil, err
	}
	for key, value := range overrides {
		c.GetViper().Set(key, value)
	}

	if err := c.ReadInConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}
