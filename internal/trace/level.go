package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // heartbeats and fault dumps only
	LevelPhase        // driver and pass spans
	LevelDetail       // adds per-file work
	LevelDebug        // adds interpreted calls and frame pushes
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by Level.String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// finest is the most detailed scope each level lets through.
var finest = [...]Scope{
	LevelOff:    0,
	LevelError:  0,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeModule,
	LevelDebug:  ScopeNode,
}

// ShouldEmit reports whether events of scope pass level l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(finest) && scope != 0 && scope <= finest[l]
}
