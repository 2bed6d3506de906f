// Package sizing converts batch summaries into throughput (events per
// second) and retention storage estimates.
package sizing

import (
	"fmt"

	"github.com/crimson-sun/panlogs/internal/batch"
)

const secondsPerDay = 86400

// EPS holds events-per-second rates for one batch window.
type EPS struct {
	Total     float64
	Forwarded float64
}

// ComputeEPS derives rates from a finalized summary. No smoothing across
// batches happens here: callers combining batches must Merge the summaries
// (summing counts and windows) and compute EPS on the merge — averaging EPS
// values from unequal windows is wrong.
func ComputeEPS(s batch.Summary) (EPS, error) {
	if s.WindowSeconds <= 0 {
		return EPS{}, fmt.Errorf("sizing: summary window must be positive, got %v", s.WindowSeconds)
	}
	return EPS{
		Total:     float64(s.TotalRecords) / s.WindowSeconds,
		Forwarded: float64(s.ForwardedRecords) / s.WindowSeconds,
	}, nil
}

// ProjectDaily scales an events-per-second rate to events per day.
func ProjectDaily(eps float64) float64 {
	return eps * secondsPerDay
}
