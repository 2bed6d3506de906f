package panlogs

import (
	"context"
	"testing"

	"github.com/crimson-sun/panlogs/internal/engine/classifier"
	"github.com/crimson-sun/panlogs/internal/engine/feature"
)

type stubScorer struct {
	confidence float64
}

func (s stubScorer) Score(feature.Vector) (classifier.Result, error) {
	return classifier.Result{Label: "forward", Confidence: s.confidence}, nil
}

func TestNewRejectsBadOptions(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{"bad format", []Option{WithFormat("xml")}},
		{"threshold above 1", []Option{WithConfidenceThreshold(1.5)}},
		{"zero retention", []Option{WithStorageSettings(0, 0.3, 1.2)}},
		{"buffer below 1", []Option{WithStorageSettings(365, 0.3, 0.5)}},
	}
	for _, tc := range cases {
		if _, err := New(tc.opts...); err == nil {
			t.Fatalf("%s: expected error from New", tc.name)
		}
	}
}

func TestDecidePriorityOverride(t *testing.T) {
	a, err := New(WithFormat("syslog"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// No scorer configured, but critical records forward anyway.
	d, err := a.Decide(`priority=critical action=deny src=10.0.0.5`)
	if err != nil {
		t.Fatalf("Decide() error: %v", err)
	}
	if !d.Forward {
		t.Fatal("critical record must forward")
	}
	if d.Reason != "priority_override" {
		t.Fatalf("reason = %q, want priority_override", d.Reason)
	}
	if d.Priority != "critical" {
		t.Fatalf("priority = %q, want critical", d.Priority)
	}
}

func TestDecideConfidencePath(t *testing.T) {
	a, err := New(WithFormat("syslog"), WithScorer(stubScorer{confidence: 0.9}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	d, err := a.Decide(`priority=low action=allow`)
	if err != nil {
		t.Fatalf("Decide() error: %v", err)
	}
	if !d.Forward || d.Reason != "confidence_above_threshold" {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if d.Confidence != 0.9 {
		t.Fatalf("confidence = %v, want 0.9", d.Confidence)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	a, err := New(
		WithFormat("syslog"),
		WithScorer(stubScorer{confidence: 0.1}),
		WithWorkers(4),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	lines := []string{
		`priority=critical action=deny`,
		`priority=low action=allow`,
		`priority=low action=allow`,
		`priority=low msg="unterminated`,
	}
	r, err := a.AnalyzeBatch(context.Background(), lines)
	if err != nil {
		t.Fatalf("AnalyzeBatch() error: %v", err)
	}

	if r.TotalRecords != 3 {
		t.Fatalf("total records = %d, want 3", r.TotalRecords)
	}
	if r.ForwardedRecords != 1 {
		t.Fatalf("forwarded = %d, want 1 (override only)", r.ForwardedRecords)
	}
	if r.MalformedRecords != 1 {
		t.Fatalf("malformed = %d, want 1", r.MalformedRecords)
	}
	if r.RetentionDays != 365 {
		t.Fatalf("retention = %d, want default 365", r.RetentionDays)
	}
	if r.BatchID == "" {
		t.Fatal("report must carry a batch ID")
	}
}

func TestAnalyzeBatchEmptyInput(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	r, err := a.AnalyzeBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("AnalyzeBatch() error: %v", err)
	}
	if r.TotalRecords != 0 || r.TotalEPS != 0 {
		t.Fatalf("empty batch must report zeros: %+v", r)
	}
}
