// Package classifier wraps an externally trained forwarding model behind a
// single-method scoring capability. The core never depends on a specific
// model implementation; any backend that can score a feature vector of the
// declared schema can be plugged in.
package classifier

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/panlogs/internal/engine/feature"
)

// ErrUnavailable signals that the underlying classifier cannot be invoked
// (not loaded, backend failure). The decision engine treats it as a distinct
// decision reason, never as an implicit forward or drop.
var ErrUnavailable = errors.New("classifier unavailable")

// Result is the outcome of scoring one feature vector.
type Result struct {
	Label      string
	Confidence float64 // in [0,1]
}

// Scorer is the capability a trained classifier must expose. Implementations
// must be safe for concurrent use: the underlying model is read-only after
// load and workers score without synchronization.
type Scorer interface {
	Score(vec feature.Vector) (Result, error)
}

// SchemaError reports a feature vector whose schema version or width does
// not match what the adapter's classifier was trained on. The adapter
// refuses to score rather than guess; vectors are never padded or truncated.
type SchemaError struct {
	WantVersion string
	GotVersion  string
	WantWidth   int
	GotWidth    int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("classifier: schema mismatch: want %s/%d, got %s/%d",
		e.WantVersion, e.WantWidth, e.GotVersion, e.GotWidth)
}

// Adapter binds a Scorer to the feature schema it was trained on and
// enforces the match on every call.
type Adapter struct {
	scorer  Scorer
	version string
	width   int
}

// NewAdapter creates an Adapter for the given scorer and training schema.
// A nil scorer is allowed: every Score call then reports ErrUnavailable,
// which the decision engine resolves via its fail-open/fail-closed policy.
func NewAdapter(s Scorer, schema feature.Schema) *Adapter {
	return &Adapter{scorer: s, version: schema.Version, width: schema.Width()}
}

// Score validates the vector against the adapter's schema and delegates to
// the backend. Backend failures surface as ErrUnavailable.
func (a *Adapter) Score(vec feature.Vector) (Result, error) {
	if vec.SchemaVersion != a.version || len(vec.Values) != a.width {
		return Result{}, &SchemaError{
			WantVersion: a.version,
			GotVersion:  vec.SchemaVersion,
			WantWidth:   a.width,
			GotWidth:    len(vec.Values),
		}
	}
	if a.scorer == nil {
		return Result{}, fmt.Errorf("classifier: no model loaded: %w", ErrUnavailable)
	}

	res, err := a.scorer.Score(vec)
	if err != nil {
		return Result{}, fmt.Errorf("classifier: backend: %v: %w", err, ErrUnavailable)
	}
	if res.Confidence < 0 {
		res.Confidence = 0
	} else if res.Confidence > 1 {
		res.Confidence = 1
	}
	return res, nil
}
