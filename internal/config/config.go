package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/crimson-sun/panlogs/internal/engine/decision"
	"github.com/crimson-sun/panlogs/internal/engine/normalize"
	"github.com/crimson-sun/panlogs/internal/model"
	"github.com/crimson-sun/panlogs/internal/sizing"
)

// Config holds all PanLogs configuration.
type Config struct {
	Source  SourceConfig
	Engine  EngineConfig
	Storage StorageConfig
	Report  ReportConfig
	LogLevel string
}

// SourceConfig holds raw log source settings.
type SourceConfig struct {
	Provider string
	Path     string
	Extra    map[string]string
}

// EngineConfig holds decision pipeline settings.
type EngineConfig struct {
	InputFormat         string // "syslog", "csv", "json" — never auto-detected
	SourceType          string // "panorama" or "firewall"
	ModelPath           string // ONNX model; empty runs without a classifier
	ModelLabels         []string
	ConfidenceThreshold float64
	PriorityLevels      []string // always-forward priorities
	FailOpen            bool     // verdict when the classifier is unavailable
	Workers             int
}

// StorageConfig holds retention sizing settings.
type StorageConfig struct {
	RetentionDays    int
	CompressionRatio float64
	StorageBuffer    float64
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Format string // "json" or "text"
	Pretty bool
}

// Load reads configuration from environment variables with defaults taken
// from a typical Panorama deployment.
func Load() Config {
	return Config{
		Source: SourceConfig{
			Provider: getenv("PANLOGS_SOURCE", "file"),
			Path:     os.Getenv("PANLOGS_PATH"),
			Extra:    loadSourceExtra(),
		},
		Engine: EngineConfig{
			InputFormat:         getenv("PANLOGS_INPUT_FORMAT", "csv"),
			SourceType:          getenv("PANLOGS_SOURCE_TYPE", "panorama"),
			ModelPath:           os.Getenv("PANLOGS_MODEL_PATH"),
			ModelLabels:         splitList(getenv("PANLOGS_MODEL_LABELS", "drop,forward")),
			ConfidenceThreshold: getenvFloat("PANLOGS_CONFIDENCE_THRESHOLD", 0.8),
			PriorityLevels:      splitList(getenv("PANLOGS_PRIORITY_LEVELS", "critical,high")),
			FailOpen:            getenvBool("PANLOGS_FAIL_OPEN", false),
			Workers:             getenvInt("PANLOGS_WORKERS", runtime.NumCPU()),
		},
		Storage: StorageConfig{
			RetentionDays:    getenvInt("PANLOGS_RETENTION_DAYS", 365),
			CompressionRatio: getenvFloat("PANLOGS_COMPRESSION_RATIO", 0.3),
			StorageBuffer:    getenvFloat("PANLOGS_STORAGE_BUFFER", 1.2),
		},
		Report: ReportConfig{
			Format: getenv("PANLOGS_REPORT", "text"),
			Pretty: getenvBool("PANLOGS_REPORT_PRETTY", false),
		},
		LogLevel: getenv("PANLOGS_LOG_LEVEL", "info"),
	}
}

// Validate checks every invariant that would poison a run. Violations are
// fatal before any batch processing starts.
func (c Config) Validate() error {
	if _, err := normalize.ParseFormat(c.Engine.InputFormat); err != nil {
		return err
	}
	if err := c.DecisionConfig().Validate(); err != nil {
		return err
	}
	for _, lvl := range c.Engine.PriorityLevels {
		if _, ok := model.ParsePriority(lvl); !ok {
			return fmt.Errorf("config: unknown priority level %q", lvl)
		}
	}
	if err := c.StorageSettings().Validate(); err != nil {
		return err
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Engine.Workers)
	}
	switch c.Report.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: unknown report format %q", c.Report.Format)
	}
	return nil
}

// DecisionConfig converts the engine settings into the decision package's
// immutable config value.
func (c Config) DecisionConfig() decision.Config {
	levels := make([]model.Priority, 0, len(c.Engine.PriorityLevels))
	for _, lvl := range c.Engine.PriorityLevels {
		if p, ok := model.ParsePriority(lvl); ok {
			levels = append(levels, p)
		}
	}
	return decision.Config{
		ConfidenceThreshold: c.Engine.ConfidenceThreshold,
		PriorityLevels:      levels,
		FailOpen:            c.Engine.FailOpen,
	}
}

// StorageSettings converts the storage settings into sizing settings.
func (c Config) StorageSettings() sizing.Settings {
	return sizing.Settings{
		RetentionDays:    c.Storage.RetentionDays,
		CompressionRatio: c.Storage.CompressionRatio,
		StorageBuffer:    c.Storage.StorageBuffer,
	}
}

// loadSourceExtra reads provider-specific env vars into an Extra map.
func loadSourceExtra() map[string]string {
	vars := []struct {
		envVar   string
		extraKey string
	}{
		{"PANLOGS_AMQP_URL", "url"},
		{"PANLOGS_AMQP_QUEUE", "queue"},
		{"PANLOGS_SSH_HOST", "host"},
		{"PANLOGS_SSH_USER", "user"},
		{"PANLOGS_SSH_PORT", "port"},
		{"PANLOGS_SSH_KEY_PATH", "key_path"},
		{"PANLOGS_SSH_PASSWORD", "password"},
	}

	var m map[string]string
	for _, v := range vars {
		if val := os.Getenv(v.envVar); val != "" {
			if m == nil {
				m = make(map[string]string)
			}
			m[v.extraKey] = val
		}
	}
	return m
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
