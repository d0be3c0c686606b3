package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/elemkit/anim"
	"github.com/vango-dev/elemkit/internal/errors"
	"github.com/vango-dev/elemkit/widget"
)

const (
	// ConfigFileName is the JSON configuration file name.
	ConfigFileName = "elemkit.json"

	// YAMLConfigFileName is the YAML configuration file name, used when
	// no JSON file exists.
	YAMLConfigFileName = "elemkit.yaml"

	// DefaultPort is the default inspector server port.
	DefaultPort = 7070

	// DefaultHost is the default inspector server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where the inspector serves Prometheus metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultSnapshotDir is where run writes snapshots.
	DefaultSnapshotDir = "snapshots"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the elemkit configuration file.
type Config struct {
	// Log configures the CLI logger.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// Server configures the inspector server.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Snapshots configures where snapshots are written.
	Snapshots SnapshotConfig `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`

	// Transition configures the transition widget used by scenarios.
	Transition TransitionConfig `json:"transition,omitempty" yaml:"transition,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ServerConfig configures the inspector server.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// MetricsPath is where metrics are served. "-" disables the endpoint.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty"`

	// Tracing enables OpenTelemetry request spans.
	Tracing bool `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" yaml:"maxBodyBytes,omitempty"`
}

// SnapshotConfig configures snapshot output.
type SnapshotConfig struct {
	// Dir is the local output directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Format is the default encoding: json, yaml or msgpack.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// S3, when Bucket is set, replaces Dir as the destination.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config names an S3 bucket for snapshots.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// TransitionConfig configures swipe transitions.
type TransitionConfig struct {
	// Distance is the swipe distance in pixels.
	Distance float64 `json:"distance,omitempty" yaml:"distance,omitempty"`

	// Duration is a Go duration string such as "250ms".
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			MetricsPath:  DefaultMetricsPath,
			MaxBodyBytes: 1 << 20,
		},
		Snapshots: SnapshotConfig{
			Dir:    DefaultSnapshotDir,
			Format: "json",
		},
		Transition: TransitionConfig{
			Distance: anim.DefaultDistance,
			Duration: anim.DefaultSwipeDuration.String(),
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for elemkit.json, then elemkit.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E121").
		WithDetail("No elemkit.json or elemkit.yaml found in " + dir).
		WithSuggestion("Create elemkit.yaml or pass --config")
}

// LoadFile reads configuration from the specified file path. The
// extension selects JSON or YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").WithDetail("No config file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	name := filepath.Base(path)
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + name + ": " + err.Error()).
			WithSuggestion("Check that " + name + " is valid")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
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
	d := New()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = d.Server.MetricsPath
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = d.Server.MaxBodyBytes
	}
	if c.Snapshots.Dir == "" {
		c.Snapshots.Dir = d.Snapshots.Dir
	}
	if c.Snapshots.Format == "" {
		c.Snapshots.Format = d.Snapshots.Format
	}
	if c.Transition.Distance == 0 {
		c.Transition.Distance = d.Transition.Distance
	}
	if c.Transition.Duration == "" {
		c.Transition.Duration = d.Transition.Duration
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 1 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E123").
			WithDetail("Unknown log level " + strconv.Quote(c.Log.Level))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.New("E120").WithDetail("log.format must be text or json")
	}
	switch c.Snapshots.Format {
	case "", "json", "yaml", "msgpack":
	default:
		return errors.New("E120").WithDetail("snapshots.format must be json, yaml or msgpack")
	}
	if c.Transition.Duration != "" {
		if d, err := time.ParseDuration(c.Transition.Duration); err != nil || d < 0 {
			return errors.New("E120").
				WithDetail("transition.duration " + strconv.Quote(c.Transition.Duration) + " is not a duration")
		}
	}
	if c.Transition.Distance < 0 {
		return errors.New("E120").WithDetail("transition.distance must not be negative")
	}
	return nil
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

// SlogLevel returns the configured log level, or Info if it is invalid.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

// ServerAddress returns the inspector listen address.
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ServerURL returns the inspector base URL.
func (c *Config) ServerURL() string {
	return "http://" + c.ServerAddress()
}

// MetricsPath returns the metrics endpoint path, or "" when disabled.
func (c *Config) MetricsPath() string {
	if c.Server.MetricsPath == "-" {
		return ""
	}
	return c.Server.MetricsPath
}

// SnapshotDir returns the snapshot directory. A relative directory is
// resolved against the config file's directory.
func (c *Config) SnapshotDir() string {
	if dir := c.Dir(); dir != "" && !filepath.IsAbs(c.Snapshots.Dir) {
		return filepath.Join(dir, c.Snapshots.Dir)
	}
	return c.Snapshots.Dir
}

// SnapshotDestination returns the run output destination: an s3:// URL
// when a bucket is configured, otherwise the snapshot directory.
func (c *Config) SnapshotDestination() string {
	if c.Snapshots.S3.Bucket == "" {
		return c.SnapshotDir()
	}
	dest := "s3://" + c.Snapshots.S3.Bucket
	if p := strings.Trim(c.Snapshots.S3.Prefix, "/"); p != "" {
		dest += "/" + p
	}
	return dest
}

// TransitionOptions returns the swipe settings for scenario transitions.
func (c *Config) TransitionOptions() widget.TransitionOptions {
	opts := widget.TransitionOptions{Distance: c.Transition.Distance}
	if d, err := time.ParseDuration(c.Transition.Duration); err == nil {
		opts.Duration = d
	}
	return opts
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find a config file.
// Returns the directory containing it, or an error if not found.
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
			return "", errors.New("E121").
				WithDetail("No elemkit config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest parent with a config file. Without one it
// returns the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}

	return Load(root)
}
