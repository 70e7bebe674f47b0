package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/azybler/openrailsim/pkg/control"
	"github.com/azybler/openrailsim/pkg/executor"
	"github.com/azybler/openrailsim/pkg/importer"
	"github.com/azybler/openrailsim/pkg/metrics"
	"github.com/azybler/openrailsim/pkg/simulation"
)

func main() {
	input := flag.String("input", "", "Path to Overpass-style JSON railway export")
	addr := flag.String("addr", ":8090", "Control server listen address")
	fps := flag.Float64("fps", 10, "Simulation ticks per second")
	runTime := flag.Duration("runtime", 0, "Simulated duration to run the tick loop; the control server keeps serving until interrupted (0 = tick until interrupted)")
	speedup := flag.Float64("speedup", 1, "Initial simulation speedup factor")
	sleep := flag.Bool("sleep", true, "Pace ticks to wall-clock time")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: simulate --input <railway.json> [--addr :8090] [--fps 10] [--runtime 1h]")
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	data, err := os.ReadFile(*input)
	if err != nil {
		logger.Fatal("read input", zap.Error(err))
	}

	doc, err := importer.ParseDocument(data)
	if err != nil {
		logger.Fatal("parse input", zap.Error(err))
	}

	graph := importer.FromDocument(doc, logger)
	logger.Info("graph imported",
		zap.Int("nodes", graph.NumNodes()),
		zap.Int("edges", graph.NumEdges()),
		zap.Float64("total_length_m", graph.TotalLength()),
	)

	sim := simulation.New(simulation.Environment{Graph: graph})
	sim.Speedup = *speedup
	sim.RegisterMetricsHandler("ActionCount", metrics.NewActionCountHandler())
	sim.RegisterMetricsHandler("TargetReached", metrics.NewTargetReachedHandler())

	// sim is mutated from exactly one goroutine: exec.Run's tick loop.
	// Commands submitted over requests (including every HTTP command
	// control.Handlers receives) are applied from that same goroutine,
	// between ticks, so sim never sees concurrent access.
	exec := &executor.Executor{
		FPS:          *fps,
		RunTime:      *runTime,
		SleepEnabled: *sleep,
		Logger:       logger,
	}
	requests := make(chan executor.Request)
	go exec.Run(sim, requests)

	handlers := control.NewHandlers(requests)
	srv := control.NewServer(control.DefaultConfig(*addr), handlers, logger)

	if err := control.ListenAndServe(srv, logger); err != nil {
		logger.Error("control server stopped", zap.Error(err))
		os.Exit(1)
	}
}
