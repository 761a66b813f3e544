// Package compiler is the Driver (spec §2, §4 "Driver"): it sequences the
// other packages — ingest, depanalyze, dagbuild, emit — into the single
// multi-file-in, one-program-out operation cmd/dtc exposes, and is the
// boundary where §10.2's zap/pkg-errors diagnostics live. No package it
// calls knows about logging; compiler is the only place that does.
package compiler

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gdavidbutler/decisionTableCompiler/dagbuild"
	"github.com/gdavidbutler/decisionTableCompiler/depanalyze"
	"github.com/gdavidbutler/decisionTableCompiler/emit"
	"github.com/gdavidbutler/decisionTableCompiler/fact"
	"github.com/gdavidbutler/decisionTableCompiler/ingest"
)

// Options configures a Compile run (spec §6: "dtc [-q] <file> [<file>...]").
type Options struct {
	// Quick selects dagbuild's heuristic search mode.
	Quick bool

	// Logger receives one Info event per phase transition and one Error
	// event for a fatal diagnostic. A nil Logger disables logging
	// (zap.NewNop()).
	Logger *zap.Logger
}

// NewStderrLogger returns the driver's default logger (§10.2): a plain,
// line-oriented console encoder writing to stderr, so the structured
// fields ride alongside the same human-readable message a terminal user
// already expects from `<argv[0]>: file:row: message`.
func NewStderrLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(os.Stderr)), zap.InfoLevel)

	return zap.New(core)
}

// Compile runs Ingestor -> Validate -> Dependency Analyzer -> DAG Builder
// -> Post-build Check -> Emitter over files, folding all of them into one
// shared fact.Graph (spec §6: "multi-file compilation into one Fact
// Graph"), and writes the resulting program to w.
func Compile(files []string, open func(name string) (io.Reader, error), w io.Writer, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	g := fact.New()
	ing := ingest.New(g)

	log.Info("ingest: starting", zap.Int("files", len(files)))
	for _, f := range files {
		r, err := open(f)
		if err != nil {
			log.Error("ingest: open failed", zap.String("file", f), zap.Error(err))
			return errors.Wrapf(err, "opening %s", f)
		}
		if err := ing.IngestFile(ingest.CSVSource{}, f, r); err != nil {
			log.Error("ingest: failed", zap.String("file", f), zap.Error(err))
			return errors.Wrapf(err, "ingesting %s", f)
		}
	}

	log.Info("validate: starting")
	if err := g.Validate(); err != nil {
		log.Error("validate: failed", zap.Error(err))
		return errors.Wrap(err, "validating fact graph")
	}

	log.Info("depanalyze: starting", zap.Int("names", len(g.Names)))
	res, err := depanalyze.Analyze(g)
	if err != nil {
		log.Error("depanalyze: failed", zap.Error(err))
		return errors.Wrap(err, "analyzing dependencies")
	}
	log.Info("depanalyze: done", zap.Int("independent", len(res.Independent)))

	log.Info("dagbuild: starting", zap.Bool("quick", opts.Quick), zap.Int("inferences", g.Inferences.Len()))
	root := dagbuild.Build(res.Independent, g.Inferences, dagbuild.Options{Quick: opts.Quick})
	log.Info("dagbuild: done", zap.Int("depth", root.Depth))

	log.Info("check: starting")
	if err := dagbuild.Check(root); err != nil {
		log.Error("check: contradiction", zap.Error(err))
		return errors.Wrap(err, "checking decision dag")
	}

	log.Info("emit: starting")
	if err := emit.Program(w, g, root, root.Depth); err != nil {
		log.Error("emit: failed", zap.Error(err))
		return errors.Wrap(err, "emitting program")
	}
	log.Info("emit: done")

	return nil
}
