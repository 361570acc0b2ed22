// Package config loads tool configuration through viper: an optional
// overlay-diff.yaml, OVERLAY_DIFF_* environment variables, and defaults, in
// that order of precedence. CLI flags override the result in main.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every tunable of a dump run.
type Config struct {
	Out           string   `mapstructure:"out"`           // dump root directory
	Context       int      `mapstructure:"context"`       // hunk context window
	MergeHunks    bool     `mapstructure:"mergeHunks"`    // difflib compat rendering
	Archive       string   `mapstructure:"archive"`       // optional zip of the dump tree
	SettleSeconds int      `mapstructure:"settleSeconds"` // watch-mode quiet window
	MaxFileBytes  int64    `mapstructure:"maxFileBytes"`  // walker per-file guardrail
	Exclude       []string `mapstructure:"exclude"`       // walker base-name prefixes
	LogLevel      string   `mapstructure:"logLevel"`
}

// Load reads configuration. An explicit path must exist; otherwise the
// default search locations are probed and a missing file is fine.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("overlay-diff")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetDefault("out", "patch-dump")
	v.SetDefault("context", 3)
	v.SetDefault("mergeHunks", false)
	v.SetDefault("settleSeconds", 2)
	v.SetDefault("maxFileBytes", int64(8_000_000))
	v.SetDefault("logLevel", "info")

	v.SetEnvPrefix("OVERLAY_DIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if path != "" || !notFound {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
