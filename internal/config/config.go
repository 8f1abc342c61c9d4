package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/routestate/internal/errors"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "routestate"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ROUTESTATE"

	// DefaultPort is the default HTTP port.
	DefaultPort = 8080

	// DefaultHost is the default HTTP host.
	DefaultHost = "localhost"

	// DefaultDebounce is the default delay before a changed route file is
	// reloaded.
	DefaultDebounce = 100 * time.Millisecond
)

// Config is the complete tool configuration.
type Config struct {
	// Routes is the route configuration source: a .json/.yaml/.yml file
	// or an s3://bucket/key URI.
	Routes string `mapstructure:"routes" yaml:"routes"`

	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Dev     DevConfig     `mapstructure:"dev" yaml:"dev"`
	S3      S3Config      `mapstructure:"s3" yaml:"s3"`
}

// ServerConfig configures the HTTP bridge.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`

	// Live enables the WebSocket state stream.
	Live bool `mapstructure:"live" yaml:"live"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Tracer  string `mapstructure:"tracer" yaml:"tracer"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// DevConfig configures development helpers.
type DevConfig struct {
	// Watch reloads the route configuration when its file changes.
	Watch bool `mapstructure:"watch" yaml:"watch"`

	// Debounce delays reloads until the file has been quiet this long.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// S3Config locates route configurations given as s3:// URIs. Credentials
// are read from the standard AWS_* environment variables.
type S3Config struct {
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// PathStyle addresses buckets as endpoint/bucket instead of
	// bucket.endpoint.
	PathStyle bool `mapstructure:"path_style" yaml:"path_style"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"routes":     "routes",
	"host":       "server.host",
	"port":       "server.port",
	"live":       "server.live",
	"metrics":    "metrics.enabled",
	"tracing":    "tracing.enabled",
	"log-level":  "log.level",
	"log-format": "log.format",
	"watch":      "dev.watch",
}

// New returns a viper instance with defaults and environment overrides
// configured.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("routes", "")
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.live", true)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "routestate")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.tracer", "routestate")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("dev.watch", false)
	v.SetDefault("dev.debounce", DefaultDebounce)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.path_style", false)
}

// BindFlags binds the flags of fs that have a configuration key. Flags
// missing from fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// ReadFile reads the configuration file. With an empty path it looks for
// routestate.yaml in dir and treats a missing file as empty.
func ReadFile(v *viper.Viper, path, dir string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && stderrors.As(err, &notFound) {
			return nil
		}
		return errors.New("E300").WithDetailf("read %s: %v", describe(path), err).Wrap(err)
	}
	return nil
}

func describe(path string) string {
	if path == "" {
		return ConfigName + ".yaml"
	}
	return path
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("E300").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E301").At("server.port").WithDetailf("got %d", c.Server.Port)
	}
	if strings.ContainsAny(c.Server.Host, " \t\r\n") {
		return errors.New("E300").At("server.host").WithDetailf("host %q contains whitespace", c.Server.Host)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return errors.New("E302").At("log.level").Wrap(err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E302").At("log.format").WithDetailf("unknown format %q", c.Log.Format)
	}
	if c.Dev.Debounce < 0 {
		return errors.New("E300").At("dev.debounce").WithDetail("debounce must not be negative")
	}
	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// NewLogger builds the logger described by c writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(c.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
