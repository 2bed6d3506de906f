package panlogs

import (
	"context"
	"fmt"
	"time"

	"github.com/crimson-sun/panlogs/internal/engine"
	"github.com/crimson-sun/panlogs/internal/engine/classifier"
	"github.com/crimson-sun/panlogs/internal/engine/decision"
	"github.com/crimson-sun/panlogs/internal/engine/normalize"
	"github.com/crimson-sun/panlogs/internal/pipeline"
	"github.com/crimson-sun/panlogs/internal/report"
	"github.com/crimson-sun/panlogs/internal/source"
)

// Decision is the verdict for one log record.
type Decision struct {
	Forward    bool
	Reason     string // priority_override, confidence_above_threshold, ...
	Confidence float64
	Priority   string
}

// Report is the per-batch analysis result. It aliases the internal report
// type, which is stable and JSON-tagged.
type Report = report.Report

// Analyzer runs the forwarding decision pipeline. Create one per input
// stream; Analyze may be called repeatedly but not concurrently (the
// decoder carries CSV header state).
type Analyzer struct {
	opts options
}

// New creates an Analyzer.
func New(opts ...Option) (*Analyzer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := normalize.ParseFormat(string(o.format)); err != nil {
		return nil, fmt.Errorf("panlogs: %w", err)
	}
	if err := o.decisionConfig().Validate(); err != nil {
		return nil, fmt.Errorf("panlogs: %w", err)
	}
	if err := o.settings.Validate(); err != nil {
		return nil, fmt.Errorf("panlogs: %w", err)
	}

	return &Analyzer{opts: o}, nil
}

// Analyze consumes raw payload lines and returns the batch report.
func (a *Analyzer) Analyze(ctx context.Context, lines <-chan string) (Report, error) {
	raws := make(chan source.Record, 256)
	go func() {
		defer close(raws)
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					return
				}
				raws <- source.Record{Payload: line, Collected: time.Now()}
			}
		}
	}()

	p := pipeline.New(a.newEngine(), a.opts.workers)
	sum, err := p.Run(ctx, raws)
	if err != nil {
		return Report{}, fmt.Errorf("panlogs: %w", err)
	}
	r, err := report.Build(sum, a.opts.settings)
	if err != nil {
		return Report{}, fmt.Errorf("panlogs: %w", err)
	}
	return r, nil
}

// AnalyzeBatch is a convenience wrapper over Analyze for in-memory inputs.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, lines []string) (Report, error) {
	ch := make(chan string, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return a.Analyze(ctx, ch)
}

// Decide normalizes and decides a single raw record.
func (a *Analyzer) Decide(line string) (Decision, error) {
	eng := a.newEngine()
	d, ok, err := eng.ProcessRaw(line)
	if err != nil {
		return Decision{}, fmt.Errorf("panlogs: %w", err)
	}
	if !ok {
		return Decision{}, fmt.Errorf("panlogs: input carried no record")
	}
	return Decision{
		Forward:    d.Forward,
		Reason:     string(d.Reason),
		Confidence: d.Confidence,
		Priority:   string(d.Record.Priority),
	}, nil
}

func (a *Analyzer) newEngine() *engine.Engine {
	return engine.New(
		normalize.NewDecoder(a.opts.format, a.opts.sourceType),
		a.opts.schema,
		classifier.NewAdapter(a.opts.scorer, a.opts.schema),
		a.opts.decisionConfig(),
	)
}

func (o options) decisionConfig() decision.Config {
	return decision.Config{
		ConfidenceThreshold: o.threshold,
		PriorityLevels:      o.priorities,
		FailOpen:            o.failOpen,
	}
}
