package panlogs

import (
	"github.com/crimson-sun/panlogs/internal/engine/classifier"
	"github.com/crimson-sun/panlogs/internal/engine/feature"
	"github.com/crimson-sun/panlogs/internal/engine/normalize"
	"github.com/crimson-sun/panlogs/internal/model"
	"github.com/crimson-sun/panlogs/internal/sizing"
)

type options struct {
	format     normalize.Format
	sourceType model.SourceType
	schema     feature.Schema
	scorer     classifier.Scorer
	threshold  float64
	priorities []model.Priority
	failOpen   bool
	workers    int
	settings   sizing.Settings
}

// Option configures an Analyzer.
type Option func(*options)

// WithFormat sets the input format: "syslog", "csv", or "json".
// Default: "csv". Formats are never auto-detected.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = normalize.Format(format)
	}
}

// WithSourceType tags decoded records with their origin, "panorama" or
// "firewall". Default: "panorama".
func WithSourceType(st string) Option {
	return func(o *options) {
		o.sourceType = model.SourceType(st)
	}
}

// WithSchema replaces the default PAN-OS feature schema.
func WithSchema(s feature.Schema) Option {
	return func(o *options) {
		o.schema = s
	}
}

// WithScorer sets the classifier backend. A nil scorer runs every record
// through the unavailable path, where the fail-open setting decides.
func WithScorer(s classifier.Scorer) Option {
	return func(o *options) {
		o.scorer = s
	}
}

// WithConfidenceThreshold sets the minimum forward-class confidence for
// forwarding. The boundary itself forwards. Default: 0.8.
func WithConfidenceThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithPriorityOverrides sets the priorities that always forward,
// regardless of classifier output. Default: critical, high.
func WithPriorityOverrides(levels ...string) Option {
	return func(o *options) {
		o.priorities = o.priorities[:0]
		for _, lvl := range levels {
			if p, ok := model.ParsePriority(lvl); ok {
				o.priorities = append(o.priorities, p)
			}
		}
	}
}

// WithFailOpen forwards records when the classifier is unavailable.
// Default: fail closed (drop).
func WithFailOpen(on bool) Option {
	return func(o *options) {
		o.failOpen = on
	}
}

// WithWorkers sets the number of decision workers. Default: 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithStorageSettings overrides the retention sizing settings.
func WithStorageSettings(retentionDays int, compressionRatio, storageBuffer float64) Option {
	return func(o *options) {
		o.settings = sizing.Settings{
			RetentionDays:    retentionDays,
			CompressionRatio: compressionRatio,
			StorageBuffer:    storageBuffer,
		}
	}
}

func defaultOptions() options {
	return options{
		format:     normalize.FormatCSV,
		sourceType: model.SourcePanorama,
		schema:     feature.DefaultSchema(),
		threshold:  0.8,
		priorities: []model.Priority{model.PriorityCritical, model.PriorityHigh},
		workers:    1,
		settings: sizing.Settings{
			RetentionDays:    365,
			CompressionRatio: 0.3,
			StorageBuffer:    1.2,
		},
	}
}
