// Package decision combines classifier output with priority override rules
// to produce the final forward/drop verdict for each record.
package decision

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/panlogs/internal/engine/classifier"
	"github.com/crimson-sun/panlogs/internal/model"
)

// Config holds the decision policy for one batch. Pass it explicitly into
// every call; batches running concurrently may carry different configs.
type Config struct {
	// ConfidenceThreshold is the minimum classifier confidence to forward a
	// record absent a priority override. The boundary is inclusive.
	ConfidenceThreshold float64

	// PriorityLevels is the auto-forward list: records at these levels are
	// forwarded regardless of classifier confidence.
	PriorityLevels []model.Priority

	// FailOpen chooses the verdict when the classifier is unavailable:
	// true forwards, false (the zero value) drops. Either way the decision
	// reason is classifier_unavailable; there is no hidden default.
	FailOpen bool
}

// Validate checks the config invariants.
func (c Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("decision: confidence threshold %v outside [0,1]", c.ConfidenceThreshold)
	}
	return nil
}

func (c Config) overridden(p model.Priority) bool {
	for _, lvl := range c.PriorityLevels {
		if lvl == p {
			return true
		}
	}
	return false
}

// Decide produces the verdict for one record. Precedence is strict, first
// match wins:
//
//  1. priority in the auto-forward list  -> forward, priority_override
//  2. classifier unavailable             -> per FailOpen, classifier_unavailable
//  3. confidence >= threshold            -> forward, confidence_above_threshold
//  4. otherwise                          -> drop, confidence_below_threshold
//
// Priority always overrides model uncertainty, so critical/high events reach
// the SIEM even when the model is unsure or wrong. scoreErr is the error the
// classifier adapter returned for this record, if any.
func Decide(rec model.LogRecord, res classifier.Result, scoreErr error, cfg Config) model.Decision {
	if cfg.overridden(rec.Priority) {
		return model.Decision{
			Record:     rec,
			Forward:    true,
			Reason:     model.ReasonPriorityOverride,
			Confidence: res.Confidence,
		}
	}

	if errors.Is(scoreErr, classifier.ErrUnavailable) {
		return model.Decision{
			Record:  rec,
			Forward: cfg.FailOpen,
			Reason:  model.ReasonClassifierUnavailable,
		}
	}

	if res.Confidence >= cfg.ConfidenceThreshold {
		return model.Decision{
			Record:     rec,
			Forward:    true,
			Reason:     model.ReasonConfidenceAboveThreshold,
			Confidence: res.Confidence,
		}
	}

	return model.Decision{
		Record:     rec,
		Forward:    false,
		Reason:     model.ReasonConfidenceBelowThreshold,
		Confidence: res.Confidence,
	}
}
