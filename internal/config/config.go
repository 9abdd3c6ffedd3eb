// ABOUTME: Layered configuration for demoseed commands.
// ABOUTME: Defaults < demoseed.yaml < .env / DEMOSEED_* environment < command flags.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/2389/demoseed/internal/errors"
	"github.com/2389/demoseed/internal/usage"
)

// EnvPrefix is prepended to every environment variable, e.g. DEMOSEED_DEALS_COUNT.
const EnvPrefix = "DEMOSEED"

// Config holds all demoseed settings.
type Config struct {
	LogLevel  string      `mapstructure:"log_level"`
	LogFormat string      `mapstructure:"log_format"`
	UTM       UTMConfig   `mapstructure:"utm"`
	Deals     DealsConfig `mapstructure:"deals"`
	Usage     UsageConfig `mapstructure:"usage"`
}

// UTMConfig configures the UTM enricher. Seed 0 seeds from the clock.
type UTMConfig struct {
	Seed int64 `mapstructure:"seed"`
}

// DealsConfig configures the deal synthesizer.
type DealsConfig struct {
	Count              int           `mapstructure:"count"`
	LookupPath         string        `mapstructure:"lookup_path"`
	OutputPath         string        `mapstructure:"output_path"`
	Window             time.Duration `mapstructure:"window"`
	MultiWorkspaceRate float64       `mapstructure:"multi_workspace_rate"`
	BlankRate          float64       `mapstructure:"blank_rate"`
	Seed               int64         `mapstructure:"seed"`
	Strict             bool          `mapstructure:"strict"`
	Preview            int           `mapstructure:"preview"`
}

// UsageConfig configures the usage metric synthesizer.
type UsageConfig struct {
	InputPath  string                            `mapstructure:"input_path"`
	OutputPath string                            `mapstructure:"output_path"`
	Seed       int64                             `mapstructure:"seed"`
	Tiers      map[string]map[string]interface{} `mapstructure:"tiers"`
}

// LoadOptions control where configuration is read from.
type LoadOptions struct {
	// ConfigFile is an explicit config file. When empty, demoseed.yaml (or
	// .json/.toml) in the working directory is used if present.
	ConfigFile string
	// Flags maps config keys to command-line flags that override them when set.
	Flags    *pflag.FlagSet
	FlagKeys map[string]string
	// EnvFiles are loaded with godotenv before reading the environment.
	// Nil means DefaultEnvFiles().
	EnvFiles []string
}

// DefaultEnvFiles lists the .env files tried in order: the working directory,
// its parents, then the home directory.
func DefaultEnvFiles() []string {
	files := []string{".env", "../.env", "../../.env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".env"))
	}
	return files
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("utm.seed", 0)

	v.SetDefault("deals.count", 50)
	v.SetDefault("deals.lookup_path", "data/workspaces.csv")
	v.SetDefault("deals.output_path", "dummy_deals.csv")
	v.SetDefault("deals.window", "2160h")
	v.SetDefault("deals.multi_workspace_rate", 0.3)
	v.SetDefault("deals.blank_rate", 0.3)
	v.SetDefault("deals.seed", 0)
	v.SetDefault("deals.strict", false)
	v.SetDefault("deals.preview", 5)

	v.SetDefault("usage.input_path", "workspaces2.csv")
	v.SetDefault("usage.output_path", "workspaces3.csv")
	v.SetDefault("usage.seed", usage.DefaultSeed)
	v.SetDefault("usage.tiers", map[string]interface{}{})
}

// Load builds the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = DefaultEnvFiles()
	}
	for _, p := range envFiles {
		// godotenv.Load never overrides variables that are already set.
		if err := godotenv.Load(p); err == nil {
			log.WithField("path", p).Debug("Loaded env file")
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "cannot read config file").WithField(opts.ConfigFile)
		}
	} else {
		v.SetConfigName("demoseed")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "cannot read config file")
			}
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		log.WithField("path", used).Debug("Loaded config file")
	}

	if opts.Flags != nil {
		for key, name := range opts.FlagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				return nil, errors.Errorf("no flag %q to bind to %q", name, key)
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "bind flag %q", name)
			}
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "cannot decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	invalid := func(key, msg string) {
		result = multierror.Append(result, apperrors.New(apperrors.ErrInvalidConfig, msg).WithField(key))
	}

	if c.Deals.Count < 0 {
		invalid("deals.count", "must not be negative")
	}
	if c.Deals.LookupPath == "" {
		invalid("deals.lookup_path", "must not be empty")
	}
	if c.Deals.OutputPath == "" {
		invalid("deals.output_path", "must not be empty")
	}
	if c.Deals.Window < 0 {
		invalid("deals.window", "must not be negative")
	}
	if c.Deals.MultiWorkspaceRate < 0 || c.Deals.MultiWorkspaceRate > 1 {
		invalid("deals.multi_workspace_rate", "must be between 0 and 1")
	}
	if c.Deals.BlankRate < 0 || c.Deals.BlankRate > 1 {
		invalid("deals.blank_rate", "must be between 0 and 1")
	}
	if c.Deals.Preview < 0 {
		invalid("deals.preview", "must not be negative")
	}
	if c.Usage.InputPath == "" {
		invalid("usage.input_path", "must not be empty")
	}
	if c.Usage.OutputPath == "" {
		invalid("usage.output_path", "must not be empty")
	}
	if _, err := c.UsageTiers(); err != nil {
		result = multierror.Append(result, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "invalid tier override").WithField("usage.tiers"))
	}

	return result.ErrorOrNil()
}

// UsageTiers returns the built-in plan tiers with configured overrides applied.
func (c *Config) UsageTiers() (usage.Tiers, error) {
	return usage.DefaultTiers().Apply(c.Usage.Tiers)
}
