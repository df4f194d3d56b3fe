package logger

import "strings"

// Level is a logging severity. A logger drops every message below its
// configured level.
type Level uint32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// levelTags holds the three-letter tags written into log lines, indexed by
// level. They double as accepted spellings in LevelFromString.
var levelTags = [...]string{"TRC", "DBG", "INF", "WRN", "ERR", "CRT", "OFF"}

var levelNames = [...]string{"trace", "debug", "info", "warn", "error", "critical", "off"}

// LevelFromString parses a level from its long name ("debug") or its tag
// ("DBG"), case-insensitively. Unrecognized input yields LevelInfo and
// false.
func LevelFromString(s string) (Level, bool) {
	s = strings.ToLower(s)
	for i := range levelNames {
		if s == levelNames[i] || s == strings.ToLower(levelTags[i]) {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// String returns the level's log-line tag. Out-of-range values print as
// "OFF" since they produce no output either way.
func (l Level) String() string {
	if l >= LevelOff {
		return "OFF"
	}
	return levelTags[l]
}
