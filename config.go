package zunderbolt

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Log output and format values accepted by LogConfig.
const (
	LogOutputStderr = "stderr"
	LogOutputFile   = "file"

	LogFormatText = "text"
	LogFormatJSON = "json"

	MetricsBackendBasic      = "basic"
	MetricsBackendPrometheus = "prometheus"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the file and environment configuration shared by the library and the CLI.
// Values are read from YAML and overridden by ZB_* environment variables.
type Config struct {
	Stream   StreamConfig   `yaml:"stream"`
	Copy     CopyConfig     `yaml:"copy"`
	Resource ResourceConfig `yaml:"resource"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// StreamConfig configures the buffered file stream cache.
type StreamConfig struct {
	// BufferSize is the initial cache capacity in bytes.
	BufferSize int `yaml:"bufferSize" env:"ZB_STREAM_BUFFER_SIZE" env-default:"4096"`

	// GrowthFactor scales the cache when a request exceeds its capacity. Must be > 1.
	GrowthFactor float64 `yaml:"growthFactor" env:"ZB_STREAM_GROWTH_FACTOR" env-default:"1.5"`

	// Alignment of cache capacity in bytes. Must be a power of two.
	Alignment int `yaml:"alignment" env:"ZB_STREAM_ALIGNMENT" env-default:"4"`

	// MaxWindow bounds the dirty window in bytes. Zero means unbounded.
	MaxWindow int `yaml:"maxWindow" env:"ZB_STREAM_MAX_WINDOW" env-default:"0"`
}

// CopyConfig configures batch copies.
type CopyConfig struct {
	BatchSize int  `yaml:"batchSize" env:"ZB_COPY_BATCH_SIZE" env-default:"4096"`
	Checksum  bool `yaml:"checksum" env:"ZB_COPY_CHECKSUM"`
}

// ResourceConfig configures the shared resource controller. Zero disables a limit.
type ResourceConfig struct {
	BufferMemoryLimitBytes int64 `yaml:"bufferMemoryLimitBytes" env:"ZB_RESOURCE_MEMORY_LIMIT"`
	MaxConcurrentCopies    int64 `yaml:"maxConcurrentCopies" env:"ZB_RESOURCE_MAX_COPIES"`
	CopyBytesPerSec        int64 `yaml:"copyBytesPerSec" env:"ZB_RESOURCE_COPY_BYTES_PER_SEC"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"ZB_LOG_LEVEL" env-default:"info"`

	// Format is text or json.
	Format string `yaml:"format" env:"ZB_LOG_FORMAT" env-default:"text"`

	// Output is stderr or file.
	Output string `yaml:"output" env:"ZB_LOG_OUTPUT" env-default:"stderr"`

	// FilePath is used when Output is file.
	FilePath string `yaml:"filePath" env:"ZB_LOG_FILE_PATH"`

	MaxSizeMB  int  `yaml:"maxSizeMB" env:"ZB_LOG_MAX_SIZE" env-default:"100"`
	MaxBackups int  `yaml:"maxBackups" env:"ZB_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int  `yaml:"maxAgeDays" env:"ZB_LOG_MAX_AGE" env-default:"7"`
	Compress   bool `yaml:"compress" env:"ZB_LOG_COMPRESS"`
}

// MetricsConfig selects where I/O statistics go.
type MetricsConfig struct {
	// Backend is basic (in-memory counters) or prometheus.
	Backend string `yaml:"backend" env:"ZB_METRICS_BACKEND" env-default:"basic"`

	// TextfilePath receives the Prometheus text exposition when a command
	// finishes, for the node_exporter textfile collector. Required for prometheus.
	TextfilePath string `yaml:"textfilePath" env:"ZB_METRICS_TEXTFILE_PATH"`
}

// DefaultConfig returns the configuration used when no file or environment is present.
func DefaultConfig() Config {
	return Config{
		Stream: StreamConfig{
			BufferSize:   4096,
			GrowthFactor: 1.5,
			Alignment:    4,
		},
		Copy: CopyConfig{
			BatchSize: 4096,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     LogFormatText,
			Output:     LogOutputStderr,
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Metrics: MetricsConfig{
			Backend: MetricsBackendBasic,
		},
	}
}

// LoadConfig reads the YAML file at path and applies environment overrides.
// An empty path reads the environment only.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Stream.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("stream.bufferSize must be >= 0, got %d", c.Stream.BufferSize))
	}
	if c.Stream.GrowthFactor <= 1 {
		errs = append(errs, fmt.Errorf("stream.growthFactor must be > 1, got %g", c.Stream.GrowthFactor))
	}
	if c.Stream.Alignment <= 0 || bits.OnesCount(uint(c.Stream.Alignment)) != 1 {
		errs = append(errs, fmt.Errorf("stream.alignment must be a power of two, got %d", c.Stream.Alignment))
	}
	if c.Stream.MaxWindow < 0 {
		errs = append(errs, fmt.Errorf("stream.maxWindow must be >= 0, got %d", c.Stream.MaxWindow))
	}
	if c.Copy.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("copy.batchSize must be > 0, got %d", c.Copy.BatchSize))
	}
	if c.Resource.BufferMemoryLimitBytes < 0 || c.Resource.MaxConcurrentCopies < 0 || c.Resource.CopyBytesPerSec < 0 {
		errs = append(errs, errors.New("resource limits must be >= 0"))
	}
	switch strings.ToLower(c.Log.Format) {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	switch strings.ToLower(c.Log.Output) {
	case LogOutputStderr:
	case LogOutputFile:
		if c.Log.FilePath == "" {
			errs = append(errs, errors.New("log.filePath is required when log.output is file"))
		}
	default:
		errs = append(errs, fmt.Errorf("log.output must be stderr or file, got %q", c.Log.Output))
	}
	switch strings.ToLower(c.Metrics.Backend) {
	case MetricsBackendBasic:
	case MetricsBackendPrometheus:
		if c.Metrics.TextfilePath == "" {
			errs = append(errs, errors.New("metrics.textfilePath is required when metrics.backend is prometheus"))
		}
	default:
		errs = append(errs, fmt.Errorf("metrics.backend must be basic or prometheus, got %q", c.Metrics.Backend))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
