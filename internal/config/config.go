package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/common/model"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/vango-dev/formcore/internal/errors"
	formmodel "github.com/vango-dev/formcore/pkg/model"
)

const (
	// ConfigName is the base name of the configuration file; the extension
	// selects the format (.json or .yaml).
	ConfigName = "formcore"

	// EnvPrefix prefixes environment overrides, e.g. FORMCORE_LOG_LEVEL.
	EnvPrefix = "FORMCORE"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "formcore"
)

// Config is the formcore configuration.
type Config struct {
	// Settings are applied to the model package at startup.
	Settings SettingsConfig `mapstructure:"settings" json:"settings"`

	Log LogConfig `mapstructure:"log" json:"log"`

	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics"`

	Tracing TracingConfig `mapstructure:"tracing" json:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SettingsConfig holds model settings.
type SettingsConfig struct {
	// CommentPrefix is appended to a question name to form its comment key.
	CommentPrefix string `mapstructure:"commentPrefix" json:"commentPrefix"`

	// DesignMode disables condition evaluation.
	DesignMode bool `mapstructure:"designMode" json:"designMode"`

	// Locale is the survey locale; empty means the default locale.
	Locale string `mapstructure:"locale" json:"locale"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" json:"level"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" json:"enabled"`
	Namespace string `mapstructure:"namespace" json:"namespace"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled" json:"enabled"`
	TracerName string `mapstructure:"tracerName" json:"tracerName"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Settings: SettingsConfig{
			CommentPrefix: formmodel.DefaultCommentPrefix,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	def := New()
	v.SetDefault("settings.commentPrefix", def.Settings.CommentPrefix)
	v.SetDefault("settings.designMode", def.Settings.DesignMode)
	v.SetDefault("settings.locale", def.Settings.Locale)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.namespace", def.Metrics.Namespace)
	v.SetDefault("tracing.enabled", def.Tracing.Enabled)
	v.SetDefault("tracing.tracerName", def.Tracing.TracerName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads formcore.json or formcore.yaml from dir. A missing file is
// not an error: defaults and environment overrides apply.
func Load(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.New("F001").Wrap(err)
		}
	}
	return decode(v)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F001").
				WithDetail("No configuration file at " + path).
				Wrap(err)
		}
		return nil, errors.New("F001").
			WithLocationFromError(path, err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON or YAML").
			Wrap(err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("F001").Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to path; the extension selects the
// format.
func (c *Config) SaveTo(path string) error {
	v := viper.New()
	v.Set("settings.commentPrefix", c.Settings.CommentPrefix)
	v.Set("settings.designMode", c.Settings.DesignMode)
	v.Set("settings.locale", c.Settings.Locale)
	v.Set("log.level", c.Log.Level)
	v.Set("metrics.enabled", c.Metrics.Enabled)
	v.Set("metrics.namespace", c.Metrics.Namespace)
	v.Set("tracing.enabled", c.Tracing.Enabled)
	v.Set("tracing.tracerName", c.Tracing.TracerName)

	if err := v.WriteConfigAs(path); err != nil {
		return errors.New("F001").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Settings.CommentPrefix == "" {
		c.Settings.CommentPrefix = formmodel.DefaultCommentPrefix
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("F002").
			WithSuggestion("Set log.level to debug, info, warn or error (got " + c.Log.Level + ")")
	}
	if !model.IsValidMetricName(model.LabelValue(c.Metrics.Namespace)) || strings.Contains(c.Metrics.Namespace, ":") {
		return errors.New("F003").
			WithSuggestion("Use a namespace such as \"formcore\" (got " + c.Metrics.Namespace + ")")
	}
	if c.Settings.Locale != "" {
		if _, err := language.Parse(c.Settings.Locale); err != nil {
			return errors.New("F004").Wrap(err)
		}
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// ModelSettings returns the settings for model.ApplySettings.
func (c *Config) ModelSettings() formmodel.Settings {
	return formmodel.Settings{CommentPrefix: c.Settings.CommentPrefix}
}

// Exists reports whether a formcore config file exists in dir.
func Exists(dir string) bool {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if _, err := os.Stat(filepath.Join(dir, ConfigName+ext)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up from startDir to the first directory holding a
// formcore config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("F001").
				WithDetail("No formcore.json or formcore.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
