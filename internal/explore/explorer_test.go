package explore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ca-explorer/internal/catalog"
	"ca-explorer/internal/core"
	"ca-explorer/internal/engine"
	"ca-explorer/internal/engine/enginetest"
	"ca-explorer/internal/judge"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func params(t *testing.T, values ...string) core.ParameterVector {
	t.Helper()
	p, err := core.ParseParameters(values)
	require.NoError(t, err)
	return p
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.CapturesDir = filepath.Join(t.TempDir(), "captures")
	cfg.Periodicity.Stride = 1
	return cfg
}

// mixedEngine replays an 8x8 lattice whose density never grows past the
// reset value and never dies, so every vector is interesting. Cells with
// i%4 == 0 blink, i%4 == 1 cycle with period 4, i%4 == 2 hold 7 and i%4 == 3
// stay empty.
func mixedEngine() *enginetest.Frames {
	return enginetest.Periodic(8, 8, 200, func(i, g int) uint8 {
		switch i % 4 {
		case 0:
			return uint8(g % 2)
		case 1:
			return uint8(1 + g%4)
		case 2:
			return 7
		}
		return 0
	})
}

func newStore(t *testing.T) catalog.Store {
	t.Helper()
	store := catalog.NewMemoryStore()
	require.NoError(t, store.Init(context.Background()))
	return store
}

func TestRoundDeadIsNotScored(t *testing.T) {
	eng := &enginetest.Densities{Values: []float64{0.5, 0}}
	store := newStore(t)
	x, err := New(testConfig(t), params(t, "2", "1"), eng, core.NewRNG(1), store, zap.NewNop())
	require.NoError(t, err)

	report, err := x.Round(context.Background())
	require.NoError(t, err)
	require.Equal(t, judge.Dead, report.Classification.Judgement)
	require.Equal(t, 1, report.Classification.Bursts)
	require.False(t, report.Scored)
	require.Len(t, eng.Calls, 2, "a dead vector is never recorded")

	top, err := store.TopCaptures(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestRoundChaoticIsNotScored(t *testing.T) {
	eng := &enginetest.Densities{Values: []float64{0.1, 0.3, 0.4}}
	x, err := New(testConfig(t), params(t, "3", "1", "2"), eng, core.NewRNG(1), nil, zap.NewNop())
	require.NoError(t, err)

	report, err := x.Round(context.Background())
	require.NoError(t, err)
	require.Equal(t, judge.Chaotic, report.Classification.Judgement)
	require.False(t, report.Scored)
}

func TestRoundInterestingIsCaptured(t *testing.T) {
	cfg := testConfig(t)
	store := newStore(t)
	x, err := New(cfg, params(t, "2", "1", "1"), mixedEngine(), core.NewRNG(7), store, zap.NewNop())
	require.NoError(t, err)

	report, err := x.Round(context.Background())
	require.NoError(t, err)
	require.Equal(t, judge.Unknown, report.Classification.Judgement)
	require.Equal(t, cfg.Judge.Attempts, report.Classification.Bursts)
	require.True(t, report.Scored)
	require.InDelta(t, 1000+20.0/3, report.Score, 1e-9)
	require.Zero(t, report.Missing)

	require.Equal(t, filepath.Join(cfg.CapturesDir, "d002", "SCORE 01006.67 PARAMS 2-1-1.gif"), report.Path)
	_, err = os.Stat(report.Path)
	require.NoError(t, err)

	top, err := store.TopCaptures(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, "2-1-1", top[0].Params)
	require.Equal(t, 2, top[0].Divisor)
	require.Equal(t, report.Path, top[0].Path)
	require.Equal(t, x.RunID(), top[0].RunID)
}

func TestRoundPersistFailureIsLogged(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.CapturesDir = blocker

	obs, logs := observer.New(zapcore.WarnLevel)
	store := newStore(t)
	x, err := New(cfg, params(t, "2", "1", "1"), mixedEngine(), core.NewRNG(3), store, zap.New(obs))
	require.NoError(t, err)

	report, err := x.Round(context.Background())
	require.NoError(t, err, "a lost artifact does not fail the round")
	require.True(t, report.Scored)
	require.Empty(t, report.Path)
	require.Equal(t, 1, logs.FilterMessage("failed to persist artifact").Len())

	top, err := store.TopCaptures(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Empty(t, top[0].Path)
}

func resetParams(calls []enginetest.Call) []string {
	var out []string
	for _, c := range calls {
		if c.Reset {
			out = append(out, c.Params.Slug())
		}
	}
	return out
}

func TestRunWalksTheOdometer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rounds = 3
	eng := &enginetest.Densities{Values: []float64{0.5, 0}}
	x, err := New(cfg, params(t, "2", "1", "0"), eng, core.NewRNG(1), nil, zap.NewNop())
	require.NoError(t, err)

	rounds, err := x.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, rounds)
	require.Equal(t, []string{"2-1", "2-1-1", "2-2"}, resetParams(eng.Calls))
	next := x.Params()
	require.Equal(t, "2-2-1", next.Slug())
}

func TestRunReverse(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rounds = 2
	cfg.Reverse = true
	eng := &enginetest.Densities{Values: []float64{0.5, 0}}
	x, err := New(cfg, params(t, "2", "1", "0"), eng, core.NewRNG(1), nil, zap.NewNop())
	require.NoError(t, err)

	rounds, err := x.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, rounds)
	require.Equal(t, []string{"2-1", "2-0-1"}, resetParams(eng.Calls))
}

type cancelAfter struct {
	engine.Engine
	calls  int
	limit  int
	cancel context.CancelFunc
}

func (c *cancelAfter) Advance(ctx context.Context, p core.ParameterVector, n int, reset bool) (engine.LatticeView, error) {
	view, err := c.Engine.Advance(ctx, p, n, reset)
	c.calls++
	if c.calls == c.limit {
		c.cancel()
	}
	return view, err
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng := &cancelAfter{
		Engine: &enginetest.Densities{Values: []float64{0.5, 0}},
		limit:  4,
		cancel: cancel,
	}
	x, err := New(testConfig(t), params(t, "2", "1"), eng, core.NewRNG(1), nil, zap.NewNop())
	require.NoError(t, err)

	rounds, err := x.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, rounds)
}

func TestRunInterruptedRoundIsNotCounted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng := &cancelAfter{
		Engine: &enginetest.Densities{Values: []float64{0.5}},
		limit:  2,
		cancel: cancel,
	}
	x, err := New(testConfig(t), params(t, "2", "1"), eng, core.NewRNG(1), nil, zap.NewNop())
	require.NoError(t, err)

	rounds, err := x.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, rounds)
	next := x.Params()
	require.Equal(t, "2-1", next.Slug(), "odometer stays on the interrupted vector")
}

type failingEngine struct{}

var errBroken = errors.New("device lost")

func (failingEngine) Advance(context.Context, core.ParameterVector, int, bool) (engine.LatticeView, error) {
	return engine.LatticeView{}, errBroken
}

func TestRunReturnsEngineErrors(t *testing.T) {
	x, err := New(testConfig(t), params(t, "2", "1"), failingEngine{}, core.NewRNG(1), nil, zap.NewNop())
	require.NoError(t, err)

	rounds, err := x.Run(context.Background())
	require.ErrorIs(t, err, errBroken)
	require.Zero(t, rounds)
}

func TestNewRejectsInvalidInput(t *testing.T) {
	var p core.ParameterVector
	_, err := New(testConfig(t), p, failingEngine{}, nil, nil, nil)
	require.ErrorIs(t, err, core.ErrInvalidDivisor)

	_, err = New(testConfig(t), params(t, "2"), nil, nil, nil, nil)
	require.Error(t, err)

	cfg := testConfig(t)
	cfg.Width = 0
	_, err = New(cfg, params(t, "2"), failingEngine{}, nil, nil, nil)
	require.Error(t, err)
}
