package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelStage        // run and stage boundaries
	LevelDetail       // plus one span per document
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelStage:
		return "stage"
	case LevelDetail:
		return "detail"
	}
	return "unknown"
}

// ParseLevel converts off|stage|detail to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return LevelOff, nil
	case "stage", "phase":
		return LevelStage, nil
	case "detail", "debug":
		return LevelDetail, nil
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected off|stage|detail)", s)
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelStage:
		return scope <= ScopeStage
	case LevelDetail:
		return scope <= ScopeDocument
	}
	return false
}
