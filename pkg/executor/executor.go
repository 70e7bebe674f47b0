// Package executor drives a simulation.Simulation for a simulated
// duration at a fixed tick rate, and dispatches imperative commands
// against it between ticks.
package executor

import (
	"time"

	"go.uber.org/zap"

	"github.com/azybler/openrailsim/pkg/simulation"
)

// Executor ticks a Simulation at FPS frames per second for RunTime
// simulated seconds, or indefinitely when RunTime <= 0. When
// SleepEnabled, each tick sleeps to approximate real-time pacing;
// otherwise it advances as fast as possible.
type Executor struct {
	FPS          float64
	RunTime      time.Duration
	SleepEnabled bool

	Logger *zap.Logger
}

// Request pairs a Command with a reply channel. It lets a goroutine other
// than the one running Run submit a command and block for its result
// without touching the Simulation itself: Run is the sole goroutine that
// ever calls sim.Update or executes a Command, so a Simulation never sees
// concurrent access.
type Request struct {
	Command Command
	Reply   chan<- Result
}

// Result is a Command's outcome, delivered back through a Request's Reply
// channel.
type Result struct {
	Message string
	Applied bool
}

// Run drives sim forward until RunTime simulated seconds have elapsed, or
// forever if RunTime <= 0. Queued requests are applied at the start of
// each tick boundary, never mid-tick, and are the only way code outside
// this goroutine may affect sim.
func (e *Executor) Run(sim *simulation.Simulation, requests <-chan Request) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if e.FPS <= 0 {
		e.FPS = 1
	}
	dt := time.Duration(float64(time.Second) / e.FPS)
	unbounded := e.RunTime <= 0

	var elapsed time.Duration
	for unbounded || elapsed < e.RunTime {
		e.drainRequests(sim, requests, logger)

		sim.Update(dt)
		elapsed += time.Duration(float64(dt) * sim.Speedup)

		if e.SleepEnabled {
			time.Sleep(dt)
		}
	}
}

// drainRequests applies every request currently queued, without
// blocking, so a tick never waits on the host for input.
func (e *Executor) drainRequests(sim *simulation.Simulation, requests <-chan Request, logger *zap.Logger) {
	for {
		select {
		case req, ok := <-requests:
			if !ok {
				return
			}
			msg, applied := req.Command.Execute(sim)
			logger.Debug("command executed", zap.String("result", msg), zap.Bool("applied", applied))
			req.Reply <- Result{Message: msg, Applied: applied}
		default:
			return
		}
	}
}
