// Package timing records per-phase wall-clock timings for a tool run and
// emits them as the timing YAML named in spec.md §6. Start and finish
// instants are recorded per phase; the report gives the tool name and each
// phase's elapsed seconds.
//
// Grounded on original_source/libraries/utilities/include/mcrl2/utilities/
// execution_timer.h (start/finish-by-name map, "- tool: ...\n  timing:\n"
// report shape) and stopwatch.h (reset-and-read elapsed duration), adapted
// from clock_t wall time to Go's time.Time/time.Duration.
package timing

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Stopwatch is a simple reset-and-read elapsed-time counter.
type Stopwatch struct {
	start time.Time
}

// NewStopwatch creates a Stopwatch started at the current instant.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{start: time.Now()}
}

// Reset restarts the stopwatch from this moment.
func (s *Stopwatch) Reset() {
	s.start = time.Now()
}

// Elapsed returns the time since the last Reset (or construction).
func (s *Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}

type timing struct {
	Start  time.Time
	Finish time.Time
}

func (t timing) seconds() float64 {
	if t.Finish.IsZero() {
		return time.Since(t.Start).Seconds()
	}
	return t.Finish.Sub(t.Start).Seconds()
}

// ExecutionTimer records named, possibly-overlapping phase timings for a
// single tool invocation and renders them as YAML. Starting an already
// running named phase, or finishing one that was never started, is a
// programming error and panics (mirroring the original's runtime_error,
// which this module has no business trying to recover from).
type ExecutionTimer struct {
	mu       sync.Mutex
	toolName string
	timings  map[string]timing
	order    []string
}

// NewExecutionTimer creates a timer reporting under toolName.
func NewExecutionTimer(toolName string) *ExecutionTimer {
	return &ExecutionTimer{toolName: toolName, timings: make(map[string]timing)}
}

// Start begins a named phase timing.
func (e *ExecutionTimer) Start(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.timings[name]; exists {
		panic(fmt.Sprintf("timing: starting already known timing %q; causes unreliable results", name))
	}
	e.timings[name] = timing{Start: time.Now()}
	e.order = append(e.order, name)
}

// Finish ends a named phase timing.
func (e *ExecutionTimer) Finish(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, exists := e.timings[name]
	if !exists {
		panic(fmt.Sprintf("timing: finishing timing %q that was not started", name))
	}
	t.Finish = time.Now()
	e.timings[name] = t
}

// Time runs fn while timing the named phase, finishing it even if fn panics.
func (e *ExecutionTimer) Time(name string, fn func()) {
	e.Start(name)
	defer e.Finish(name)
	fn()
}

// report is the YAML-serializable shape of a report: one document per
// tool run, matching "- tool: ...\n  timing:\n    phase: seconds".
type report struct {
	Tool   string             `yaml:"tool"`
	Timing map[string]float64 `yaml:"timing"`
}

// Report renders the accumulated timings as YAML, written as a singleton
// list entry the way the original emits one "- tool: ..." block per
// invocation. Phases appear sorted by name (yaml.v3 sorts map keys), not
// in the order they were started.
func (e *ExecutionTimer) Report() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := report{Tool: e.toolName, Timing: make(map[string]float64, len(e.timings))}
	for _, name := range e.order {
		r.Timing[name] = e.timings[name].seconds()
	}
	return yaml.Marshal([]report{r})
}

// WriteReport appends the YAML report to path if non-empty, or writes it to
// os.Stderr otherwise — matching the original's "empty filename means
// stderr, else append to file" behaviour.
func (e *ExecutionTimer) WriteReport(path string) error {
	data, err := e.Report()
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stderr.Write(data)
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("timing: opening report file: %w", err)
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// WriteReportTo writes the YAML report to an arbitrary writer, for tests.
func (e *ExecutionTimer) WriteReportTo(w io.Writer) error {
	data, err := e.Report()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
