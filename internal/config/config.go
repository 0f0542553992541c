// Package config handles the loading and parsing of the harvester's
// configuration. It uses the Viper library to read from a YAML file and
// environment variables.
package config

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"newsharvest/internal/logger"
	"newsharvest/internal/store"
)

// Settings defines the overall configuration structure for newsharvest. It
// mirrors the newsharvest.yaml file and is populated by Viper.
type Settings struct {
	Postgres  store.Config    `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Harvester HarvesterConfig `mapstructure:"harvester"`
	Logger    logger.Config   `mapstructure:"logger"`
}

// RedisConfig holds the configuration for the optional seen-URL cache.
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Key     string `mapstructure:"key"`
}

// HarvesterConfig contains settings for fetch behavior and bundled resources.
type HarvesterConfig struct {
	// Timeout is the per-fetch deadline in seconds.
	Timeout int `mapstructure:"timeout"`
	// DedupRequired makes commands refuse to run when the seen-URL store
	// cannot be reached, instead of proceeding without dedup.
	DedupRequired bool `mapstructure:"dedup_required"`
	// ResourcesDir anchors the bundled data files; relative resource
	// names below are resolved against it.
	ResourcesDir   string `mapstructure:"resources_dir"`
	UserAgentsFile string `mapstructure:"user_agents_file"`
	StopwordsDir   string `mapstructure:"stopwords_dir"`
	CacheDir       string `mapstructure:"cache_dir"`
}

// LoadConfig reads configuration from a file in the given path and
// unmarshals it into a Settings struct. Environment variables override file
// values (NEWSHARVEST_POSTGRES_HOST and friends).
func LoadConfig(path string) (config Settings, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("newsharvest")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("newsharvest")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("harvester.timeout", 7)
	v.SetDefault("harvester.dedup_required", true)
	v.SetDefault("logger.level", "info")

	if err = v.ReadInConfig(); err != nil {
		return
	}

	err = v.Unmarshal(&config)
	return
}

// Apply overrides fields of the settings from a map of named values, for
// callers assembling configuration programmatically. Keys follow the same
// mapstructure names as the YAML file; unknown keys are ignored.
func (s *Settings) Apply(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(overrides)
}
