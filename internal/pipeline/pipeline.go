// Package pipeline drives raw records through the engine with parallel
// workers and folds the results into one batch summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/panlogs/internal/batch"
	"github.com/crimson-sun/panlogs/internal/engine"
	"github.com/crimson-sun/panlogs/internal/engine/feature"
	"github.com/crimson-sun/panlogs/internal/engine/normalize"
	"github.com/crimson-sun/panlogs/internal/model"
	"github.com/crimson-sun/panlogs/internal/source"
)

// Pipeline fans records out to workers. Decoding stays on the dispatcher
// goroutine (the CSV decoder is stateful); feature extraction, scoring, and
// deciding run in parallel. Each worker builds its own partial summary and
// the partials are merged at the end, so the hot path takes no locks.
type Pipeline struct {
	eng     *engine.Engine
	workers int
}

// New creates a Pipeline. workers < 1 is clamped to 1.
func New(eng *engine.Engine, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{eng: eng, workers: workers}
}

// Run consumes raw records until the channel closes or the context is
// cancelled, then returns the finalized summary. Malformed records and
// schema mismatches are counted and skipped; they never abort the batch.
//
// The batch window is the span between the earliest and latest record
// timestamps, falling back to wall-clock elapsed time when the records carry
// no usable timestamps.
func (p *Pipeline) Run(ctx context.Context, raws <-chan source.Record) (batch.Summary, error) {
	start := time.Now()

	recs := make(chan model.LogRecord, p.workers*4)
	partials := make(chan batch.Summary, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			partials <- p.work(recs)
		}()
	}

	dispatch := batch.New()
	var tsMin, tsMax time.Time

	dec := p.eng.Decoder()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case raw, ok := <-raws:
			if !ok {
				break loop
			}
			rec, ok, err := dec.Decode(raw.Payload)
			if err != nil {
				var pe *normalize.ParseError
				if errors.As(err, &pe) {
					dispatch = dispatch.RecordMalformed()
					slog.Debug("pipeline: record rejected", "err", err)
					continue
				}
				close(recs)
				wg.Wait()
				return batch.Summary{}, fmt.Errorf("pipeline: decode: %w", err)
			}
			if !ok {
				continue
			}
			if !rec.Timestamp.IsZero() {
				if tsMin.IsZero() || rec.Timestamp.Before(tsMin) {
					tsMin = rec.Timestamp
				}
				if rec.Timestamp.After(tsMax) {
					tsMax = rec.Timestamp
				}
			}
			select {
			case <-ctx.Done():
				break loop
			case recs <- rec:
			}
		}
	}
	close(recs)
	wg.Wait()
	close(partials)

	sum := dispatch
	for partial := range partials {
		sum = batch.Merge(sum, partial)
	}

	window := tsMax.Sub(tsMin).Seconds()
	if window <= 0 {
		window = time.Since(start).Seconds()
	}
	if window <= 0 {
		// Sub-microsecond runs on an empty stream; one second is the
		// smallest meaningful window.
		window = 1
	}

	final, err := sum.Finalize(window)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("pipeline: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return final, err
	}
	return final, nil
}

// work drains the record channel into a partial summary.
func (p *Pipeline) work(recs <-chan model.LogRecord) batch.Summary {
	sum := batch.Summary{}
	for rec := range recs {
		d, err := p.eng.Decide(rec)
		if err != nil {
			var sme *feature.SchemaMismatchError
			if errors.As(err, &sme) {
				sum = sum.RecordSchemaMismatch()
				slog.Debug("pipeline: schema mismatch", "err", err)
				continue
			}
			// Adapter schema refusal or unexpected failure: counted with
			// schema mismatches so the loss stays observable.
			sum = sum.RecordSchemaMismatch()
			slog.Warn("pipeline: record dropped", "err", err)
			continue
		}
		sum = sum.Accumulate(d)
	}
	return sum
}
