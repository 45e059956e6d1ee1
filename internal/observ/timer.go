// Package observ measures the stages of a run for --timings.
package observ

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Stage is one measured interval.
type Stage struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records stage durations and named counters. Safe for concurrent use.
type Timer struct {
	mu       sync.Mutex
	stages   []Stage
	counters map[string]int64
}

// NewTimer returns an empty Timer.
func NewTimer() *Timer {
	return &Timer{stages: make([]Stage, 0, 8), counters: make(map[string]int64)}
}

// Begin starts a stage and returns its handle for End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages = append(t.stages, Stage{Name: name, Start: time.Now()})
	return len(t.stages) - 1
}

// End closes the stage idx. Unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.stages) {
		return
	}
	s := &t.stages[idx]
	s.Dur = time.Since(s.Start)
	s.Note = note
}

// Measure runs fn as stage name.
func (t *Timer) Measure(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	note := ""
	if err != nil {
		note = "failed"
	}
	t.End(idx, note)
	return err
}

// Count adds delta to the counter name.
func (t *Timer) Count(name string, delta int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counters[name] += delta
}

// StageReport is the serialized form of a stage.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates a timer for output.
type Report struct {
	TotalMS  float64          `json:"total_ms"`
	Stages   []StageReport    `json:"stages"`
	Counters map[string]int64 `json:"counters,omitempty"`
}

// Report snapshots the recorded stages and counters.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := Report{Stages: make([]StageReport, len(t.stages))}
	var total time.Duration
	for i, s := range t.stages {
		total += s.Dur
		r.Stages[i] = StageReport{Name: s.Name, DurationMS: millis(s.Dur), Note: s.Note}
	}
	r.TotalMS = millis(total)
	if len(t.counters) > 0 {
		r.Counters = maps.Clone(t.counters)
	}
	return r
}

// Summary renders the report as aligned text.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, s := range r.Stages {
		fmt.Fprintf(&sb, "  %-20s %8.2f ms", s.Name, s.DurationMS)
		if s.Note != "" {
			sb.WriteString("  (" + s.Note + ")")
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %8.2f ms\n", "total", r.TotalMS)
	for _, k := range slices.Sorted(maps.Keys(r.Counters)) {
		fmt.Fprintf(&sb, "  %-20s %8d\n", k, r.Counters[k])
	}
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
