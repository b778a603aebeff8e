package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/state"
)

const (
	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultApp is the demo app rendered when none is configured.
	DefaultApp = "counter"

	// DefaultSnapshotDir is where snapshots are written without S3.
	DefaultSnapshotDir = "snapshots"
)

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"hydra.json", "hydra.toml", "hydra.yaml", "hydra.yml"}

// Format is a config file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// Config is the complete hydra configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`

	// Debug turns on debug logging of mounts, hydration and controllers.
	Debug bool `json:"debug,omitempty" toml:"debug,omitempty" yaml:"debug,omitempty"`

	Log       LogConfig       `json:"log" toml:"log" yaml:"log"`
	Scheduler SchedulerConfig `json:"scheduler" toml:"scheduler" yaml:"scheduler"`
	Render    RenderConfig    `json:"render" toml:"render" yaml:"render"`
	Server    ServerConfig    `json:"server" toml:"server" yaml:"server"`
	Snapshot  SnapshotConfig  `json:"snapshot" toml:"snapshot" yaml:"snapshot"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" toml:"level,omitempty" yaml:"level,omitempty"`

	// Format is text, json or pretty (colored, for terminals).
	Format string `json:"format,omitempty" toml:"format,omitempty" yaml:"format,omitempty"`
}

// SchedulerConfig configures state update scheduling.
type SchedulerConfig struct {
	// MaxCascade is how many flushes a flush may trigger before the
	// scheduler reports an update storm.
	MaxCascade int `json:"maxCascade,omitempty" toml:"maxCascade,omitempty" yaml:"maxCascade,omitempty"`
}

// RenderConfig configures server-rendered pages.
type RenderConfig struct {
	// App is the demo app to render.
	App string `json:"app,omitempty" toml:"app,omitempty" yaml:"app,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`

	// Lang is the lang attribute of <html>.
	Lang string `json:"lang,omitempty" toml:"lang,omitempty" yaml:"lang,omitempty"`

	// StyleSheets are linked from the page head.
	StyleSheets []string `json:"styleSheets,omitempty" toml:"styleSheets,omitempty" yaml:"styleSheets,omitempty"`
}

// ServerConfig configures the live server.
type ServerConfig struct {
	Host string `json:"host,omitempty" toml:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" toml:"port,omitempty" yaml:"port,omitempty"`

	// MetricsPath is where Prometheus metrics are served. Empty disables them.
	MetricsPath string `json:"metricsPath,omitempty" toml:"metricsPath,omitempty" yaml:"metricsPath,omitempty"`

	// WSPath is the WebSocket endpoint of live sessions.
	WSPath string `json:"wsPath,omitempty" toml:"wsPath,omitempty" yaml:"wsPath,omitempty"`

	// MaxSessions limits concurrent live sessions. 0 means unlimited.
	MaxSessions int `json:"maxSessions,omitempty" toml:"maxSessions,omitempty" yaml:"maxSessions,omitempty"`
}

// SnapshotConfig configures where rendered snapshots are published.
type SnapshotConfig struct {
	// Dir is the local snapshot directory.
	Dir string `json:"dir,omitempty" toml:"dir,omitempty" yaml:"dir,omitempty"`

	// S3 publishes to a bucket instead when Bucket is set.
	S3 S3Config `json:"s3" toml:"s3" yaml:"s3"`
}

// S3Config configures snapshot publishing to S3.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" toml:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" toml:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the first config file of FileNames found in dir.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E140").
		WithDetail("No hydra.json, hydra.toml or hydra.yaml found in " + dir)
}

// LoadFile reads configuration from the specified file path. The format
// follows the file extension.
func LoadFile(path string) (*Config, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, errors.New("E142").
			WithDetail("Cannot tell the format of " + filepath.Base(path)).
			WithSuggestion("Use a .json, .toml or .yaml file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E140").WithDetail(path + " does not exist")
		}
		return nil, errors.New("E141").Wrap(err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes data in the given format on top of the defaults and
// validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := &Config{}

	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.New("E142").WithDetailf("Unknown format %q", format)
	}
	if err != nil {
		return nil, errors.New("E141").
			WithDetailf("Failed to parse %s config: %v", format, err).
			Wrap(err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode serializes the configuration in the given format.
func (c *Config) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(c)
	}
	return nil, errors.New("E142").WithDetailf("Unknown format %q", format)
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	format, ok := FormatOf(path)
	if !ok {
		return errors.New("E142").WithDetail("Cannot tell the format of " + filepath.Base(path))
	}
	data, err := c.Encode(format)
	if err != nil {
		return errors.New("E141").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E141").Wrap(err)
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
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Scheduler.MaxCascade == 0 {
		c.Scheduler.MaxCascade = state.DefaultMaxCascade
	}
	if c.Render.App == "" {
		c.Render.App = DefaultApp
	}
	if c.Render.Lang == "" {
		c.Render.Lang = "en"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = "/metrics"
	}
	if c.Server.WSPath == "" {
		c.Server.WSPath = "/ws"
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E143").WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "pretty":
	default:
		return errors.New("E143").WithDetailf("log.format %q is not text, json or pretty", c.Log.Format)
	}
	if c.Scheduler.MaxCascade < 0 {
		return errors.New("E143").WithDetail("scheduler.maxCascade must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E143").WithDetail("server.port must be between 0 and 65535")
	}
	if c.Server.MaxSessions < 0 {
		return errors.New("E143").WithDetail("server.maxSessions must not be negative")
	}
	for name, p := range map[string]string{"server.metricsPath": c.Server.MetricsPath, "server.wsPath": c.Server.WSPath} {
		if !strings.HasPrefix(p, "/") {
			return errors.New("E143").WithDetailf("%s %q must start with /", name, p)
		}
	}
	if c.Server.MetricsPath == c.Server.WSPath {
		return errors.New("E143").WithDetail("server.metricsPath and server.wsPath must differ")
	}
	if c.Snapshot.S3.Bucket != "" && c.Snapshot.S3.Region == "" {
		return errors.New("E143").WithDetail("snapshot.s3.region is required with snapshot.s3.bucket")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// UseS3 reports whether snapshots go to S3.
func (c *Config) UseS3() bool {
	return c.Snapshot.S3.Bucket != ""
}

// SnapshotDir returns the snapshot directory, relative to the config file.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// SlogLevel returns the configured log level. Debug forces slog.LevelDebug.
func (c *Config) SlogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
