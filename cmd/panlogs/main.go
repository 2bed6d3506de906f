package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/panlogs/internal/config"
	"github.com/crimson-sun/panlogs/internal/engine"
	"github.com/crimson-sun/panlogs/internal/engine/classifier"
	"github.com/crimson-sun/panlogs/internal/engine/feature"
	"github.com/crimson-sun/panlogs/internal/engine/normalize"
	"github.com/crimson-sun/panlogs/internal/logging"
	"github.com/crimson-sun/panlogs/internal/model"
	"github.com/crimson-sun/panlogs/internal/pipeline"
	"github.com/crimson-sun/panlogs/internal/report"
	"github.com/crimson-sun/panlogs/internal/source"

	// Register source implementations.
	_ "github.com/crimson-sun/panlogs/internal/source/amqp"
	_ "github.com/crimson-sun/panlogs/internal/source/file"
	_ "github.com/crimson-sun/panlogs/internal/source/ssh"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// The report goes to stdout, so diagnostics must stay on stderr.
	logging.Init(true, logging.ParseLevel(cfg.LogLevel))

	schema := feature.DefaultSchema()

	// Initialize classifier. Without a model every record takes the
	// unavailable path and the fail-open setting decides.
	var scorer classifier.Scorer
	if cfg.Engine.ModelPath != "" {
		onnx, err := classifier.NewONNXScorer(cfg.Engine.ModelPath, cfg.Engine.ModelLabels)
		if err != nil {
			log.Fatalf("failed to load model: %v", err)
		}
		defer onnx.Close()
		scorer = onnx
	} else {
		slog.Warn("no model configured, running without a classifier")
	}
	adapter := classifier.NewAdapter(scorer, schema)

	// Initialize engine.
	format, _ := normalize.ParseFormat(cfg.Engine.InputFormat)
	dec := normalize.NewDecoder(format, model.SourceType(cfg.Engine.SourceType))
	eng := engine.New(dec, schema, adapter, cfg.DecisionConfig())

	// Resolve source.
	ctor, err := source.Get(cfg.Source.Provider)
	if err != nil {
		log.Fatalf("failed to get source: %v", err)
	}
	src := ctor()

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	slog.Info("starting", "source", cfg.Source.Provider, "format", cfg.Engine.InputFormat, "workers", cfg.Engine.Workers)

	raws, err := src.Stream(ctx, source.Config{
		Provider: cfg.Source.Provider,
		Path:     cfg.Source.Path,
		Extra:    cfg.Source.Extra,
	})
	if err != nil {
		log.Fatalf("failed to start source: %v", err)
	}

	p := pipeline.New(eng, cfg.Engine.Workers)
	sum, err := p.Run(ctx, raws)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("pipeline error: %v", err)
	}

	r, err := report.Build(sum, cfg.StorageSettings())
	if err != nil {
		log.Fatalf("failed to build report: %v", err)
	}

	switch cfg.Report.Format {
	case "json":
		if err := report.WriteJSON(os.Stdout, r, cfg.Report.Pretty); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
	default:
		fmt.Println(report.RenderText(r))
	}
}
