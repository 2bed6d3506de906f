// Package report assembles the machine-readable batch report a surrounding
// CLI or service renders.
package report

import (
	"fmt"

	"github.com/crimson-sun/panlogs/internal/batch"
	"github.com/crimson-sun/panlogs/internal/model"
	"github.com/crimson-sun/panlogs/internal/sizing"
)

// PriorityBreakdown holds per-priority counts in a report.
type PriorityBreakdown struct {
	Records   int64 `json:"records"`
	Forwarded int64 `json:"forwarded"`
}

// Report is the per-batch analysis result.
type Report struct {
	BatchID          string  `json:"batch_id"`
	WindowSeconds    float64 `json:"window_seconds"`
	TotalRecords     int64   `json:"total_records"`
	ForwardedRecords int64   `json:"forwarded_records"`
	MalformedRecords int64   `json:"malformed_records"`
	SchemaMismatches int64   `json:"schema_mismatches"`

	TotalEPS          float64 `json:"total_eps"`
	ForwardedEPS      float64 `json:"forwarded_eps"`
	EventsPerDay      float64 `json:"events_per_day"`
	ForwardedPerDay   float64 `json:"forwarded_per_day"`
	ForwardedFraction float64 `json:"forwarded_fraction"`

	RetentionDays         int     `json:"retention_days"`
	CompressionRatio      float64 `json:"compression_ratio"`
	StorageBuffer         float64 `json:"storage_buffer"`
	RawDailyBytes         float64 `json:"raw_daily_bytes"`
	ProjectedStorageBytes float64 `json:"projected_storage_bytes"`

	ByPriority map[string]PriorityBreakdown `json:"per_priority"`
}

// Build derives a Report from a finalized summary and storage settings.
func Build(sum batch.Summary, set sizing.Settings) (Report, error) {
	eps, err := sizing.ComputeEPS(sum)
	if err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}
	est, err := sizing.EstimateStorage(sum, set)
	if err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}

	r := Report{
		BatchID:          sum.BatchID,
		WindowSeconds:    sum.WindowSeconds,
		TotalRecords:     sum.TotalRecords,
		ForwardedRecords: sum.ForwardedRecords,
		MalformedRecords: sum.Malformed,
		SchemaMismatches: sum.SchemaMismatches,

		TotalEPS:        eps.Total,
		ForwardedEPS:    eps.Forwarded,
		EventsPerDay:    sizing.ProjectDaily(eps.Total),
		ForwardedPerDay: sizing.ProjectDaily(eps.Forwarded),

		RetentionDays:         est.RetentionDays,
		CompressionRatio:      est.CompressionRatio,
		StorageBuffer:         est.StorageBuffer,
		RawDailyBytes:         est.RawDailyBytes,
		ProjectedStorageBytes: est.ProjectedBytes,

		ByPriority: make(map[string]PriorityBreakdown, len(sum.ByPriority)),
	}
	if sum.TotalRecords > 0 {
		r.ForwardedFraction = float64(sum.ForwardedRecords) / float64(sum.TotalRecords)
	}
	for p, pc := range sum.ByPriority {
		r.ByPriority[string(p)] = PriorityBreakdown{Records: pc.Records, Forwarded: pc.Forwarded}
	}
	return r, nil
}

// priorityRows returns the report's breakdown in severity order, skipping
// levels with no records.
func (r Report) priorityRows() []struct {
	Priority model.Priority
	Counts   PriorityBreakdown
} {
	var rows []struct {
		Priority model.Priority
		Counts   PriorityBreakdown
	}
	for _, p := range model.Priorities {
		if pc, ok := r.ByPriority[string(p)]; ok {
			rows = append(rows, struct {
				Priority model.Priority
				Counts   PriorityBreakdown
			}{p, pc})
		}
	}
	return rows
}
