// Package applog is the ambient structured logger shared by the DSL
// pipeline, the command dispatcher, and the Vixen importer: a
// component-scoped circular-buffer logger for this domain's components.
package applog

import (
	"fmt"
	"time"
)

// LogLevel is the severity of a log entry.
type LogLevel int

const (
	LevelNone LogLevel = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l LogLevel) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component names the subsystem that produced a log entry.
type Component string

const (
	ComponentDSL        Component = "DSL"
	ComponentDispatcher Component = "Dispatcher"
	ComponentImporter   Component = "Importer"
	ComponentShow       Component = "Show"
)

// Entry is a single log record.
type Entry struct {
	Timestamp time.Time
	Component Component
	Level     LogLevel
	Message   string
	Data      map[string]interface{}
}

// Format renders the entry in a bracketed, grep-friendly line style.
func (e *Entry) Format() string {
	ts := e.Timestamp.Format("15:04:05.000")
	return fmt.Sprintf("[%s] [%s] %s: %s", ts, e.Component, e.Level, e.Message)
}
