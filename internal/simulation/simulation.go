// Package simulation projects future portfolio value with a randomized
// monthly-return walk. Two paths are walked side by side: the current
// portfolio at its present weighted return, and a simulated portfolio whose
// monthly return is scaled by an improvement factor.
package simulation

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	defaultHorizonMonths = 60
	defaultNoiseStdDev   = 0.015
	defaultInitialValue  = 1_000_000
)

// Point is one month of the projection.
type Point struct {
	Month          int     `json:"month"`
	CurrentValue   float64 `json:"current"`
	SimulatedValue float64 `json:"simulated"`
}

// Result is one complete projection run.
type Result struct {
	RunID             string  `json:"runId"`
	ImprovementFactor float64 `json:"improvementFactor"`
	Points            []Point `json:"points"`
	FinalCurrent      float64 `json:"finalCurrent"`
	FinalSimulated    float64 `json:"finalSimulated"`
}

// Config tunes the walk. Zero values fall back to the defaults above; a nil
// Src seeds from the system source, making runs non-reproducible.
type Config struct {
	HorizonMonths int
	NoiseStdDev   float64
	InitialValue  float64
	Src           rand.Source
}

// Engine generates projections. Safe for concurrent use; draws from the
// random source are serialized.
type Engine struct {
	mu      sync.Mutex
	horizon int
	initial float64
	noise   distuv.Uniform
}

func New(cfg Config) *Engine {
	if cfg.HorizonMonths <= 0 {
		cfg.HorizonMonths = defaultHorizonMonths
	}
	if cfg.NoiseStdDev == 0 {
		cfg.NoiseStdDev = defaultNoiseStdDev
	}
	if cfg.InitialValue <= 0 {
		cfg.InitialValue = defaultInitialValue
	}
	return &Engine{
		horizon: cfg.HorizonMonths,
		initial: cfg.InitialValue,
		noise: distuv.Uniform{
			Min: -cfg.NoiseStdDev,
			Max: cfg.NoiseStdDev,
			Src: cfg.Src,
		},
	}
}

// Project walks both paths over the configured horizon. annualReturnPct is
// the portfolio's weighted return in percent (the valuation engine's
// output); improvementFactor scales the simulated path's monthly return
// (1.1 = "10% better"). Every call is an independent fresh walk.
func (e *Engine) Project(annualReturnPct, improvementFactor float64) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	monthlyCurrent := annualReturnPct / 100 / 12
	monthlySimulated := monthlyCurrent * improvementFactor

	currentValue := e.initial
	simulatedValue := e.initial

	points := make([]Point, 0, e.horizon+1)
	for month := 0; month <= e.horizon; month++ {
		currentValue *= 1 + monthlyCurrent + e.noise.Rand()
		simulatedValue *= 1 + monthlySimulated + e.noise.Rand()

		points = append(points, Point{
			Month:          month,
			CurrentValue:   math.Round(currentValue),
			SimulatedValue: math.Round(simulatedValue),
		})
	}

	last := points[len(points)-1]
	return Result{
		RunID:             uuid.NewString(),
		ImprovementFactor: improvementFactor,
		Points:            points,
		FinalCurrent:      last.CurrentValue,
		FinalSimulated:    last.SimulatedValue,
	}
}

// Returns converts one path of a projection into month-over-month returns,
// feeding the series risk metrics.
func Returns(points []Point, simulated bool) []float64 {
	if len(points) < 2 {
		return []float64{}
	}
	out := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev := points[i-1].CurrentValue
		cur := points[i].CurrentValue
		if simulated {
			prev = points[i-1].SimulatedValue
			cur = points[i].SimulatedValue
		}
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (cur-prev)/prev)
	}
	return out
}
