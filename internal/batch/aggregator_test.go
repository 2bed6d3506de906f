package batch

import (
	"testing"

	"github.com/crimson-sun/panlogs/internal/model"
)

func decisionOf(p model.Priority, forward bool, size int64) model.Decision {
	return model.Decision{
		Record:  model.LogRecord{Priority: p, RawSize: size},
		Forward: forward,
	}
}

func TestAccumulateCounts(t *testing.T) {
	s := New()
	s = s.Accumulate(decisionOf(model.PriorityCritical, true, 100))
	s = s.Accumulate(decisionOf(model.PriorityLow, false, 50))
	s = s.Accumulate(decisionOf(model.PriorityLow, true, 25))

	if s.TotalRecords != 3 || s.ForwardedRecords != 2 {
		t.Fatalf("counts wrong: %+v", s)
	}
	if s.TotalBytes != 175 || s.ForwardedBytes != 125 {
		t.Fatalf("bytes wrong: %+v", s)
	}
	if pc := s.ByPriority[model.PriorityLow]; pc.Records != 2 || pc.Forwarded != 1 {
		t.Fatalf("per-priority wrong: %+v", pc)
	}
	if s.ForwardedRecords > s.TotalRecords {
		t.Fatal("forwarded must never exceed total")
	}
}

func TestAccumulateIsPure(t *testing.T) {
	base := New()
	base = base.Accumulate(decisionOf(model.PriorityHigh, true, 10))

	// Two divergent accumulations must not interfere.
	a := base.Accumulate(decisionOf(model.PriorityHigh, true, 10))
	b := base.Accumulate(decisionOf(model.PriorityLow, false, 10))

	if base.TotalRecords != 1 {
		t.Fatalf("base mutated: %+v", base)
	}
	if pc := base.ByPriority[model.PriorityLow]; pc.Records != 0 {
		t.Fatalf("base map mutated: %+v", base.ByPriority)
	}
	if a.TotalRecords != 2 || b.TotalRecords != 2 {
		t.Fatalf("branches wrong: a=%+v b=%+v", a, b)
	}
}

func TestFinalizeRejectsEmptyWindow(t *testing.T) {
	s := New()
	if _, err := s.Finalize(0); err == nil {
		t.Fatal("zero window must be rejected")
	}
	if _, err := s.Finalize(-5); err == nil {
		t.Fatal("negative window must be rejected")
	}
	out, err := s.Finalize(60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.WindowSeconds != 60 {
		t.Fatalf("window not set: %v", out.WindowSeconds)
	}
}

func TestMergeSumsEverything(t *testing.T) {
	a := New()
	a = a.Accumulate(decisionOf(model.PriorityCritical, true, 100))
	a = a.RecordMalformed()
	a, _ = a.Finalize(30)

	b := New()
	b = b.Accumulate(decisionOf(model.PriorityCritical, false, 40))
	b = b.Accumulate(decisionOf(model.PriorityMedium, true, 60))
	b = b.RecordSchemaMismatch()
	b, _ = b.Finalize(30)

	m := Merge(a, b)
	if m.TotalRecords != 3 || m.ForwardedRecords != 2 {
		t.Fatalf("merge counts wrong: %+v", m)
	}
	if m.TotalBytes != 200 || m.WindowSeconds != 60 {
		t.Fatalf("merge bytes/window wrong: %+v", m)
	}
	if m.Malformed != 1 || m.SchemaMismatches != 1 {
		t.Fatalf("merge drop counters wrong: %+v", m)
	}
	if pc := m.ByPriority[model.PriorityCritical]; pc.Records != 2 || pc.Forwarded != 1 {
		t.Fatalf("merge per-priority wrong: %+v", pc)
	}

	// Commutative over the counts.
	m2 := Merge(b, a)
	if m2.TotalRecords != m.TotalRecords || m2.WindowSeconds != m.WindowSeconds {
		t.Fatalf("merge not commutative: %+v vs %+v", m, m2)
	}
}

func TestMergeDoesNotAliasMaps(t *testing.T) {
	a := New()
	a = a.Accumulate(decisionOf(model.PriorityLow, true, 1))
	b := New()

	m := Merge(a, b)
	m.ByPriority[model.PriorityLow] = PriorityCount{Records: 99}
	if a.ByPriority[model.PriorityLow].Records == 99 {
		t.Fatal("merge result aliases input map")
	}
}

func TestNewAssignsBatchID(t *testing.T) {
	if New().BatchID == New().BatchID {
		t.Fatal("batch IDs must be unique")
	}
}
