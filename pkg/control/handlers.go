package control

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/azybler/openrailsim/pkg/executor"
)

// Handlers adapts HTTP requests into executor.Request submissions. The
// simulation itself is never touched from this package: every command is
// handed to requests and executed by whichever goroutine is draining it
// (an Executor's Run loop), which is also the only goroutine that ticks
// the simulation forward. That keeps all mutation single-threaded even
// though commands arrive concurrently from HTTP.
type Handlers struct {
	requests chan<- executor.Request
}

// NewHandlers creates handlers that submit commands to requests, the same
// channel an Executor.Run drains on every tick.
func NewHandlers(requests chan<- executor.Request) *Handlers {
	return &Handlers{requests: requests}
}

// HandleCommand handles POST /api/v1/commands.
func (h *Handlers) HandleCommand(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	cmd, err := buildCommand(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply := make(chan executor.Result, 1)
	select {
	case h.requests <- executor.Request{Command: cmd, Reply: reply}:
	case <-r.Context().Done():
		writeError(w, http.StatusServiceUnavailable, "executor_unavailable")
		return
	}

	select {
	case result := <-reply:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CommandResponse{Result: result.Message, Applied: result.Applied})
	case <-r.Context().Done():
		writeError(w, http.StatusServiceUnavailable, "executor_unavailable")
	}
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

func buildCommand(req CommandRequest) (executor.Command, error) {
	switch req.Type {
	case "pause":
		return executor.Pause{}, nil
	case "speedup":
		return executor.Speedup{Factor: req.Factor}, nil
	case "object_list":
		return executor.ObjectList{}, nil
	case "object_show":
		return executor.ObjectShow{ObjectID: req.ObjectID}, nil
	case "metrics_list":
		return executor.MetricsList{}, nil
	case "metrics_get":
		return executor.MetricsGet{Name: req.Name}, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", req.Type)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
