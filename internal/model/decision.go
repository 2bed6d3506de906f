package model

// Reason explains why a forwarding decision came out the way it did.
type Reason string

const (
	ReasonPriorityOverride         Reason = "priority_override"
	ReasonConfidenceAboveThreshold Reason = "confidence_above_threshold"
	ReasonConfidenceBelowThreshold Reason = "confidence_below_threshold"
	ReasonClassifierUnavailable    Reason = "classifier_unavailable"
)

// Decision is the final forward/drop verdict for a single record.
// One Decision per LogRecord, never mutated after creation.
type Decision struct {
	Record     LogRecord
	Forward    bool
	Reason     Reason
	Confidence float64 // classifier confidence in [0,1]; 0 when unavailable
}
