package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	tm.End(idx, "4 files")
	err := tm.Measure("emit", func() error { return errors.New("boom") })
	if err == nil {
		t.Fatal("Measure must return fn's error")
	}
	tm.End(42, "ignored")
	tm.Count("cache.hits", 3)
	tm.Count("cache.hits", 2)

	r := tm.Report()
	if len(r.Stages) != 2 || r.Stages[0].Note != "4 files" || r.Stages[1].Note != "failed" {
		t.Fatalf("unexpected stages %+v", r.Stages)
	}
	if r.Counters["cache.hits"] != 5 {
		t.Fatalf("counter = %d", r.Counters["cache.hits"])
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:\n", "  parse ", "(4 files)", "  total ", "cache.hits"} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary missing %q:\n%s", want, sum)
		}
	}
}
