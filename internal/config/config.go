// Package config provides configuration management for ftlpack using Viper
// for loading from files, environment variables, and command-line flags.
//
// Sources by precedence: flags, FTLPACK_* environment variables (a .env file
// in the working directory is loaded into the environment first),
// .ftlpack.yml, defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/conneroisu/ftlpack/internal/classpath"
	"github.com/conneroisu/ftlpack/internal/discovery"
	ftlerrors "github.com/conneroisu/ftlpack/internal/errors"
	"github.com/conneroisu/ftlpack/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied when a value is not configured.
const (
	DefaultOutputDir    = "build/ftlpack"
	DefaultOutputFormat = "json"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

type Config struct {
	Freemarker FreemarkerConfig `yaml:"freemarker" mapstructure:"freemarker"`
	Classpath  []string         `yaml:"classpath" mapstructure:"classpath"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type FreemarkerConfig struct {
	// Locations are classpath-relative search roots, optionally prefixed
	// with "classpath:". Empty means discovery.DefaultLocation.
	Locations []string `yaml:"locations" mapstructure:"locations"`
	// Naming is "relative" or "last-index".
	Naming string `yaml:"naming" mapstructure:"naming"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return ftlerrors.NewConfigError("cannot load env file", err).WithPath(f)
		}
	}
	return nil
}

// EnvPrefix is the prefix of environment overrides, e.g. FTLPACK_OUTPUT_DIR.
const EnvPrefix = "FTLPACK"

// ConfigureEnv enables FTLPACK_<SECTION>_<OPTION> environment overrides on
// the global viper instance.
func ConfigureEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// SetDefaults registers defaults on the global viper instance so that every
// key is visible to environment overrides during Unmarshal.
func SetDefaults() {
	viper.SetDefault("freemarker.naming", string(discovery.NamingRelative))
	viper.SetDefault("output.dir", DefaultOutputDir)
	viper.SetDefault("output.format", DefaultOutputFormat)
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.format", DefaultLogFormat)
}

// Load builds a Config from the global viper instance.
func Load() (*Config, error) {
	SetDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, ftlerrors.NewConfigError("cannot decode configuration", err)
	}

	// Values set through env or flags arrive as comma-separated strings.
	if viper.IsSet("freemarker.locations") {
		config.Freemarker.Locations = splitList(viper.GetStringSlice("freemarker.locations"))
	}
	if viper.IsSet("classpath") {
		config.Classpath = splitList(viper.GetStringSlice("classpath"))
	}

	if len(config.Classpath) == 0 {
		config.Classpath = []string{"."}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// validateConfig validates configuration values
func validateConfig(config *Config) error {
	if !discovery.Naming(config.Freemarker.Naming).Valid() {
		return ftlerrors.NewConfigError(fmt.Sprintf("freemarker.naming must be %q or %q, got %q",
			discovery.NamingRelative, discovery.NamingLastIndex, config.Freemarker.Naming), nil)
	}

	switch strings.ToLower(config.Output.Format) {
	case "json", "yaml":
	default:
		return ftlerrors.NewConfigError(fmt.Sprintf("output.format must be json or yaml, got %q", config.Output.Format), nil)
	}

	if strings.TrimSpace(config.Output.Dir) == "" {
		return ftlerrors.NewConfigError("output.dir must not be blank", nil)
	}

	if !logging.IsValidLevel(config.Log.Level) {
		return ftlerrors.NewConfigError(fmt.Sprintf("log.level must be one of %s, got %q",
			strings.Join(logging.ValidLevels, ", "), config.Log.Level), nil)
	}

	validFormat := false
	for _, f := range logging.ValidFormats {
		if strings.EqualFold(f, config.Log.Format) {
			validFormat = true
		}
	}
	if !validFormat {
		return ftlerrors.NewConfigError(fmt.Sprintf("log.format must be one of %s, got %q",
			strings.Join(logging.ValidFormats, ", "), config.Log.Format), nil)
	}

	for _, loc := range config.Freemarker.Locations {
		if slices.Contains(strings.Split(filepath.ToSlash(classpath.StripPrefix(loc)), "/"), "..") {
			return ftlerrors.NewConfigError("location contains path traversal", nil).WithPath(loc)
		}
	}

	return nil
}

// ClasspathResolver parses the configured classpath. Elements may
// themselves be OS list-separated classpath strings.
func (c *Config) ClasspathResolver() (*classpath.Classpath, error) {
	return classpath.Parse(strings.Join(c.Classpath, ","))
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}

// DiscoveryOptions returns the discovery settings.
func (c *Config) DiscoveryOptions() discovery.Options {
	return discovery.Options{Naming: discovery.Naming(c.Freemarker.Naming)}
}
