package engine

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"aargeom/domain/core"
	"aargeom/internal"
)

// closedFormPhi is the reference value the computed golden ratio must
// agree with at initialization. A mismatch is a build defect, not a
// data condition.
const closedFormPhi = 1.618033988749895

const fibonacciTerms = 20

// aarIDPrefix tags every generated artifact identifier.
const aarIDPrefix = "aar_"

// Constants is the immutable configuration shared by the validators:
// the golden ratio and a short Fibonacci table. Built once and passed
// by reference; never mutated after construction.
type Constants struct {
	Phi       float64
	PhiPowers [4]float64
	Fibonacci []int

	fibSet map[int]bool
}

func newConstants() *Constants {
	phi := (1 + math.Sqrt(5)) / 2

	fib := make([]int, fibonacciTerms)
	fib[0], fib[1] = 1, 1
	for i := 2; i < fibonacciTerms; i++ {
		fib[i] = fib[i-1] + fib[i-2]
	}

	fibSet := make(map[int]bool, fibonacciTerms)
	for _, f := range fib {
		fibSet[f] = true
	}

	return &Constants{
		Phi:       phi,
		PhiPowers: [4]float64{1, phi, phi * phi, phi * phi * phi},
		Fibonacci: fib,
		fibSet:    fibSet,
	}
}

// IsFibonacci reports whether n is one of the first 20 Fibonacci
// numbers (seed 1, 1).
func (c *Constants) IsFibonacci(n int) bool {
	return c.fibSet[n]
}

// Engine is the geometry processing facade. Validators and the
// aggregator are pure functions of their input and run in either
// state; Initialize only verifies the φ invariant and flips the
// health gate.
type Engine struct {
	constants *Constants
	logger    *internal.Logger

	initOnce    sync.Once
	initErr     error
	initialized atomic.Bool
}

// NewEngine creates an uninitialized engine.
func NewEngine() *Engine {
	return &Engine{
		constants: newConstants(),
		logger:    internal.DefaultLogger,
	}
}

// Initialize verifies the golden ratio invariant and seeds the
// pattern constants. Idempotent: repeat calls are no-ops.
func (e *Engine) Initialize() error {
	e.initOnce.Do(func() {
		if math.Abs(e.constants.Phi-closedFormPhi) >= 1e-10 {
			e.initErr = fmt.Errorf("%w: computed %v", core.ErrPhiInvariant, e.constants.Phi)
			return
		}
		e.initialized.Store(true)
		e.logger.Info("geometry engine initialized: phi=%v fibonacci_terms=%d",
			e.constants.Phi, len(e.constants.Fibonacci))
	})
	return e.initErr
}

// IsHealthy reports whether the engine initialized and the golden
// ratio still matches its closed form. Callable in either state.
func (e *Engine) IsHealthy() bool {
	return e.initialized.Load() && math.Abs(e.constants.Phi-closedFormPhi) < 1e-10
}

// Constants exposes the immutable pattern constants.
func (e *Engine) Constants() *Constants {
	return e.constants
}

// GenerateAARID derives a proportion-truncated identifier from a seed
// and the current time: sha256 of seed + timestamp + textual φ,
// truncated to floor(len/φ) hex characters. Pseudo-unique only; two
// calls in the same instant with the same seed may collide.
func (e *Engine) GenerateAARID(missionID string) string {
	timestamp := core.NewTimestamp(time.Now()).ISO8601()
	combined := missionID + "_" + timestamp + "_" + strconv.FormatFloat(e.constants.Phi, 'g', -1, 64)

	digest := core.NewHash([]byte(combined)).String()
	phiSection := int(float64(len(digest)) / e.constants.Phi)

	return aarIDPrefix + digest[:phiSection]
}
