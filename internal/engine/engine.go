// Package engine orchestrates the per-record pipeline: normalize → extract →
// score → decide.
package engine

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/panlogs/internal/engine/classifier"
	"github.com/crimson-sun/panlogs/internal/engine/decision"
	"github.com/crimson-sun/panlogs/internal/engine/feature"
	"github.com/crimson-sun/panlogs/internal/engine/normalize"
	"github.com/crimson-sun/panlogs/internal/model"
)

// Engine runs the decision pipeline for individual records. Decide is safe
// for concurrent use; ProcessRaw is not, because the decoder carries CSV
// header state.
type Engine struct {
	decoder *normalize.Decoder
	schema  feature.Schema
	adapter *classifier.Adapter
	cfg     decision.Config
}

// New creates an Engine with the provided components.
func New(dec *normalize.Decoder, schema feature.Schema, adapter *classifier.Adapter, cfg decision.Config) *Engine {
	return &Engine{decoder: dec, schema: schema, adapter: adapter, cfg: cfg}
}

// Config returns the engine's decision config.
func (e *Engine) Config() decision.Config { return e.cfg }

// Decide extracts features from a normalized record, scores them, and emits
// the verdict. A classifier-unavailable condition still yields a Decision;
// a schema violation returns a *feature.SchemaMismatchError and the record
// must be dropped (counted, never aborting the batch).
func (e *Engine) Decide(rec model.LogRecord) (model.Decision, error) {
	vec, err := feature.Extract(rec, e.schema)
	if err != nil {
		return model.Decision{}, err
	}

	res, scoreErr := e.adapter.Score(vec)
	if scoreErr != nil && !errors.Is(scoreErr, classifier.ErrUnavailable) {
		// Adapter schema refusal: treated as a schema violation, not a
		// classifier outage.
		var sme *feature.SchemaMismatchError
		if errors.As(scoreErr, &sme) {
			return model.Decision{}, scoreErr
		}
		var se *classifier.SchemaError
		if errors.As(scoreErr, &se) {
			return model.Decision{}, scoreErr
		}
		return model.Decision{}, fmt.Errorf("engine: score: %w", scoreErr)
	}

	return decision.Decide(rec, res, scoreErr, e.cfg), nil
}

// ProcessRaw decodes one raw payload line and decides it. ok is false when
// the line carried no record (CSV header, blank line).
func (e *Engine) ProcessRaw(raw string) (d model.Decision, ok bool, err error) {
	rec, ok, err := e.decoder.Decode(raw)
	if err != nil || !ok {
		return model.Decision{}, false, err
	}
	d, err = e.Decide(rec)
	if err != nil {
		return model.Decision{}, false, err
	}
	return d, true, nil
}

// Decoder returns the engine's decoder for callers that need to drive
// decoding separately from deciding (the pipeline's dispatcher does).
func (e *Engine) Decoder() *normalize.Decoder { return e.decoder }
