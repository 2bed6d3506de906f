// Package batch accumulates forwarding decisions into mergeable summaries.
// Summaries are value types: Accumulate and Merge return new values instead
// of mutating shared state, so parallel workers over disjoint record streams
// need no locking — each builds a partial Summary and the partials are
// merged by summing corresponding fields.
package batch

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crimson-sun/panlogs/internal/model"
)

// PriorityCount holds per-priority record counts within a Summary.
type PriorityCount struct {
	Records   int64
	Forwarded int64
}

// Summary is the aggregate over a finite batch window. WindowSeconds stays
// zero until Finalize closes the window.
type Summary struct {
	BatchID          string
	TotalRecords     int64
	ForwardedRecords int64
	TotalBytes       int64
	ForwardedBytes   int64
	WindowSeconds    float64
	ByPriority       map[model.Priority]PriorityCount

	// Drop counters, kept distinct so silent data loss is observable.
	Malformed        int64 // records rejected by the normalizer
	SchemaMismatches int64 // records rejected by feature extraction
}

// New creates an empty Summary with a fresh batch ID.
func New() Summary {
	return Summary{BatchID: uuid.NewString()}
}

// Accumulate folds one decision into the summary and returns the updated
// copy. The receiver is not modified.
func (s Summary) Accumulate(d model.Decision) Summary {
	out := s.cloneCounts()

	out.TotalRecords++
	out.TotalBytes += d.Record.RawSize

	pc := out.ByPriority[d.Record.Priority]
	pc.Records++
	if d.Forward {
		out.ForwardedRecords++
		out.ForwardedBytes += d.Record.RawSize
		pc.Forwarded++
	}
	out.ByPriority[d.Record.Priority] = pc
	return out
}

// RecordMalformed counts a record the normalizer rejected.
func (s Summary) RecordMalformed() Summary {
	out := s.cloneCounts()
	out.Malformed++
	return out
}

// RecordSchemaMismatch counts a record feature extraction rejected.
func (s Summary) RecordSchemaMismatch() Summary {
	out := s.cloneCounts()
	out.SchemaMismatches++
	return out
}

// Finalize closes the window. A window that is not strictly positive is an
// error: it would poison every downstream rate computation.
func (s Summary) Finalize(windowSeconds float64) (Summary, error) {
	if windowSeconds <= 0 {
		return Summary{}, fmt.Errorf("batch: window must be positive, got %v", windowSeconds)
	}
	out := s.cloneCounts()
	out.WindowSeconds = windowSeconds
	return out, nil
}

// Merge combines two summaries by summing corresponding fields, including
// window seconds. The operation is commutative and associative over the
// counts; the result keeps a's batch ID (or b's when a has none).
func Merge(a, b Summary) Summary {
	out := a.cloneCounts()
	if out.BatchID == "" {
		out.BatchID = b.BatchID
	}
	out.TotalRecords += b.TotalRecords
	out.ForwardedRecords += b.ForwardedRecords
	out.TotalBytes += b.TotalBytes
	out.ForwardedBytes += b.ForwardedBytes
	out.WindowSeconds += b.WindowSeconds
	out.Malformed += b.Malformed
	out.SchemaMismatches += b.SchemaMismatches
	for p, pc := range b.ByPriority {
		cur := out.ByPriority[p]
		cur.Records += pc.Records
		cur.Forwarded += pc.Forwarded
		out.ByPriority[p] = cur
	}
	return out
}

// cloneCounts copies the summary with an owned ByPriority map.
func (s Summary) cloneCounts() Summary {
	out := s
	out.ByPriority = make(map[model.Priority]PriorityCount, len(s.ByPriority))
	for p, pc := range s.ByPriority {
		out.ByPriority[p] = pc
	}
	return out
}
