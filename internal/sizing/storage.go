package sizing

import (
	"fmt"

	"github.com/crimson-sun/panlogs/internal/batch"
)

// InvalidSettingsError reports storage settings that violate the sizing
// invariants. It is fatal: a wrong storage estimate is worse than none, so
// validation happens before any batch processing.
type InvalidSettingsError struct {
	Field  string
	Detail string
}

func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("sizing: invalid %s: %s", e.Field, e.Detail)
}

// Settings is the retention configuration a storage estimate is derived
// from.
type Settings struct {
	// RetentionDays is how long logs are kept. Must be positive.
	RetentionDays int

	// CompressionRatio is the fraction of raw byte volume retained after
	// compression (0.3 means 70% reduction). Must be in (0, 1].
	CompressionRatio float64

	// StorageBuffer is a multiplicative safety margin. Must be >= 1 so the
	// buffer can never shrink the estimate below the compressed size.
	StorageBuffer float64
}

// Validate checks the settings invariants.
func (s Settings) Validate() error {
	if s.RetentionDays <= 0 {
		return &InvalidSettingsError{Field: "retention_period_days", Detail: fmt.Sprintf("must be positive, got %d", s.RetentionDays)}
	}
	if s.CompressionRatio <= 0 {
		return &InvalidSettingsError{Field: "compression_ratio", Detail: fmt.Sprintf("must be positive, got %v", s.CompressionRatio)}
	}
	if s.CompressionRatio > 1 {
		return &InvalidSettingsError{Field: "compression_ratio", Detail: fmt.Sprintf("must not exceed 1, got %v", s.CompressionRatio)}
	}
	if s.StorageBuffer < 1 {
		return &InvalidSettingsError{Field: "storage_buffer", Detail: fmt.Sprintf("must be at least 1, got %v", s.StorageBuffer)}
	}
	return nil
}

// Estimate is the projected storage volume for retaining a batch's traffic
// over the retention period. It is derived purely from a summary plus
// settings and recomputed on demand, never persisted as source of truth.
type Estimate struct {
	RetentionDays        int
	CompressionRatio     float64
	StorageBuffer        float64
	RawDailyBytes        float64
	CompressedDailyBytes float64
	ProjectedBytes       float64
}

// EstimateStorage projects storage volume from a finalized summary:
//
//	raw_daily        = total_bytes / window_seconds * 86400
//	compressed_daily = raw_daily * compression_ratio
//	projected        = compressed_daily * retention_days * storage_buffer
func EstimateStorage(sum batch.Summary, set Settings) (Estimate, error) {
	if err := set.Validate(); err != nil {
		return Estimate{}, err
	}
	if sum.WindowSeconds <= 0 {
		return Estimate{}, fmt.Errorf("sizing: summary window must be positive, got %v", sum.WindowSeconds)
	}

	rawDaily := float64(sum.TotalBytes) / sum.WindowSeconds * secondsPerDay
	compressedDaily := rawDaily * set.CompressionRatio
	projected := compressedDaily * float64(set.RetentionDays) * set.StorageBuffer

	return Estimate{
		RetentionDays:        set.RetentionDays,
		CompressionRatio:     set.CompressionRatio,
		StorageBuffer:        set.StorageBuffer,
		RawDailyBytes:        rawDaily,
		CompressedDailyBytes: compressedDaily,
		ProjectedBytes:       projected,
	}, nil
}
