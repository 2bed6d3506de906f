package decision

import (
	"testing"

	"github.com/crimson-sun/panlogs/internal/engine/classifier"
	"github.com/crimson-sun/panlogs/internal/model"
)

func testConfig() Config {
	return Config{
		ConfidenceThreshold: 0.8,
		PriorityLevels:      []model.Priority{model.PriorityCritical, model.PriorityHigh},
	}
}

func recordWith(p model.Priority) model.LogRecord {
	return model.LogRecord{Priority: p, SourceType: model.SourceFirewall}
}

func TestPriorityOverrideBeatsZeroConfidence(t *testing.T) {
	d := Decide(recordWith(model.PriorityCritical), classifier.Result{Confidence: 0}, nil, testConfig())
	if !d.Forward {
		t.Fatal("critical record must be forwarded even at confidence 0")
	}
	if d.Reason != model.ReasonPriorityOverride {
		t.Fatalf("expected priority_override, got %s", d.Reason)
	}
}

func TestPriorityOverrideBeatsUnavailableClassifier(t *testing.T) {
	d := Decide(recordWith(model.PriorityHigh), classifier.Result{}, classifier.ErrUnavailable, testConfig())
	if !d.Forward || d.Reason != model.ReasonPriorityOverride {
		t.Fatalf("override must precede unavailable: %+v", d)
	}
}

func TestThresholdBoundaryInclusive(t *testing.T) {
	d := Decide(recordWith(model.PriorityLow), classifier.Result{Confidence: 0.8}, nil, testConfig())
	if !d.Forward {
		t.Fatal("confidence exactly at threshold must forward")
	}
	if d.Reason != model.ReasonConfidenceAboveThreshold {
		t.Fatalf("expected confidence_above_threshold, got %s", d.Reason)
	}
}

func TestMediumBelowThresholdDropped(t *testing.T) {
	d := Decide(recordWith(model.PriorityMedium), classifier.Result{Confidence: 0.75}, nil, testConfig())
	if d.Forward {
		t.Fatal("medium at 0.75 must be dropped")
	}
	if d.Reason != model.ReasonConfidenceBelowThreshold {
		t.Fatalf("expected confidence_below_threshold, got %s", d.Reason)
	}
}

func TestLowAboveThresholdForwarded(t *testing.T) {
	d := Decide(recordWith(model.PriorityLow), classifier.Result{Confidence: 0.81}, nil, testConfig())
	if !d.Forward || d.Reason != model.ReasonConfidenceAboveThreshold {
		t.Fatalf("low at 0.81 must forward: %+v", d)
	}
}

func TestUnavailableFailClosed(t *testing.T) {
	d := Decide(recordWith(model.PriorityLow), classifier.Result{}, classifier.ErrUnavailable, testConfig())
	if d.Forward {
		t.Fatal("fail-closed must drop on unavailable classifier")
	}
	if d.Reason != model.ReasonClassifierUnavailable {
		t.Fatalf("expected classifier_unavailable, got %s", d.Reason)
	}
	if d.Confidence != 0 {
		t.Fatalf("unavailable decision must carry zero confidence, got %v", d.Confidence)
	}
}

func TestUnavailableFailOpen(t *testing.T) {
	cfg := testConfig()
	cfg.FailOpen = true
	d := Decide(recordWith(model.PriorityLow), classifier.Result{}, classifier.ErrUnavailable, cfg)
	if !d.Forward {
		t.Fatal("fail-open must forward on unavailable classifier")
	}
	if d.Reason != model.ReasonClassifierUnavailable {
		t.Fatalf("expected classifier_unavailable, got %s", d.Reason)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{ConfidenceThreshold: 0.5}).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if err := (Config{ConfidenceThreshold: 1.5}).Validate(); err == nil {
		t.Fatal("threshold above 1 must be rejected")
	}
	if err := (Config{ConfidenceThreshold: -0.1}).Validate(); err == nil {
		t.Fatal("negative threshold must be rejected")
	}
}
