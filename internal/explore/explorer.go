// Package explore drives the parameter search: classify the current vector,
// score and capture it when interesting, then step the odometer.
package explore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ca-explorer/internal/atlas"
	"ca-explorer/internal/catalog"
	"ca-explorer/internal/core"
	"ca-explorer/internal/engine"
	"ca-explorer/internal/judge"
	"ca-explorer/internal/periodicity"
)

// RoundReport describes one visited parameterization.
type RoundReport struct {
	Params         core.ParameterVector
	Classification judge.Result

	// Set only for interesting parameterizations.
	Scored    bool
	Score     float64
	Histogram periodicity.Histogram
	Missing   int
	Path      string
}

// Explorer owns the search state. It is not safe for concurrent use; every
// engine call happens on the caller's goroutine.
type Explorer struct {
	cfg    Config
	params core.ParameterVector
	engine engine.Engine
	rng    *core.RNG
	store  catalog.Store
	log    *zap.Logger
	runID  string
	now    func() time.Time
}

// New validates params and wires the collaborators. store may be nil, in
// which case captures are only logged.
func New(cfg Config, params core.ParameterVector, eng engine.Engine, rng *core.RNG, store catalog.Store, logger *zap.Logger) (*Explorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, errors.New("explore: engine is required")
	}
	if rng == nil {
		rng = core.NewRNG(cfg.Seed)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	return &Explorer{
		cfg:    cfg,
		params: params,
		engine: eng,
		rng:    rng,
		store:  store,
		log:    logger.With(zap.String("run", runID)),
		runID:  runID,
		now:    time.Now,
	}, nil
}

// Params returns the vector the next round will visit.
func (e *Explorer) Params() core.ParameterVector { return e.params }

// RunID identifies this session in logs and catalog entries.
func (e *Explorer) RunID() string { return e.runID }

// Round classifies the current vector and, when it is interesting, records,
// scores and captures it. It does not move the odometer. A capture that
// cannot be written is logged and the round still succeeds.
func (e *Explorer) Round(ctx context.Context) (RoundReport, error) {
	report := RoundReport{Params: e.params}
	slug := e.params.Slug()

	res, err := judge.Classify(ctx, e.engine, e.params, e.cfg.Judge)
	report.Classification = res
	if err != nil {
		return report, err
	}
	e.log.Info("classified",
		zap.String("params", slug),
		zap.Stringer("verdict", res.Judgement),
		zap.Int("bursts", res.Bursts),
		zap.Float64s("history", res.History),
	)
	if !res.Judgement.IsInteresting() {
		return report, nil
	}

	rec, err := periodicity.Record(ctx, e.engine, e.params, e.cfg.Periodicity)
	if err != nil {
		return report, err
	}
	h := periodicity.BuildHistogram(rec)
	report.Scored = true
	report.Histogram = h
	report.Score = h.Score()
	e.log.Info("scored",
		zap.String("params", slug),
		zap.Float64("score", report.Score),
		zap.Float64("oscillators", h.OscillatorDensity()),
		zap.Float64s("histogram", h.Density),
	)

	report.Path, report.Missing = e.capture(rec, h, report.Score)
	e.record(ctx, report)
	return report, nil
}

func (e *Explorer) capture(rec *periodicity.Recording, h periodicity.Histogram, score float64) (string, int) {
	a, ok := atlas.Build(rec, h, e.rng, e.cfg.Atlas)
	if !ok {
		e.log.Debug("no period dense enough for an atlas", zap.String("params", e.params.Slug()))
		return "", 0
	}
	missing := atlas.Missing(a.Picks)
	if missing > 0 {
		e.log.Warn("atlas slots left blank",
			zap.String("params", e.params.Slug()),
			zap.Int("missing", missing),
			zap.Int("slots", len(a.Slots)),
		)
	}
	path, err := atlas.Write(e.cfg.CapturesDir, atlas.Bucket(e.params), atlas.FileName(score, e.params), a.Frames, e.cfg.Atlas.FrameDelay)
	if err != nil {
		e.log.Warn("failed to persist artifact", zap.String("params", e.params.Slug()), zap.Error(err))
		return "", missing
	}
	e.log.Info("captured", zap.String("params", e.params.Slug()), zap.String("path", path))
	return path, missing
}

func (e *Explorer) record(ctx context.Context, report RoundReport) {
	if e.store == nil {
		return
	}
	c := catalog.Capture{
		ID:          uuid.NewString(),
		RunID:       e.runID,
		Params:      report.Params.Slug(),
		Divisor:     report.Params.Divisor(),
		Score:       report.Score,
		Oscillators: report.Histogram.OscillatorDensity(),
		Missing:     report.Missing,
		Path:        report.Path,
		CreatedAt:   e.now().UTC(),
	}
	if err := e.store.SaveCapture(ctx, c); err != nil {
		e.log.Warn("failed to record capture", zap.String("params", c.Params), zap.Error(err))
	}
}

// Step moves the odometer one position in the configured direction.
func (e *Explorer) Step() {
	if e.cfg.Reverse {
		e.params.Decrement()
		return
	}
	e.params.Increment()
}

// Run alternates Round and Step until ctx is cancelled or cfg.Rounds rounds
// have completed. Cancellation is a normal stop; only engine failures are
// returned. The count excludes a round interrupted by cancellation.
func (e *Explorer) Run(ctx context.Context) (int, error) {
	rounds, interesting := 0, 0
	progress := core.NewThrottle(e.cfg.Progress)
	start := e.now()
	for e.cfg.Rounds == 0 || rounds < e.cfg.Rounds {
		if ctx.Err() != nil {
			break
		}
		report, err := e.Round(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return rounds, fmt.Errorf("round %d (%s): %w", rounds+1, e.params.Slug(), err)
		}
		rounds++
		if report.Scored {
			interesting++
		}
		e.Step()
		if progress.Due() {
			elapsed := e.now().Sub(start)
			e.log.Info("progress",
				zap.Int("rounds", rounds),
				zap.Int("interesting", interesting),
				zap.Float64("rounds_per_sec", float64(rounds)/elapsed.Seconds()),
				zap.String("next", e.params.Slug()),
			)
		}
	}
	e.log.Info("search stopped", zap.Int("rounds", rounds), zap.String("next", e.params.Slug()))
	return rounds, nil
}
