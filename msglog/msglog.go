// Package msglog is the in-memory message-log sink the discovery engine
// records non-fatal per-address conditions into (spec.md §7 policy:
// "discovery-pass errors... are recorded into descriptors and the message
// log, never fatal"). The CLI drains it to stderr; a future outer tool
// could redirect it anywhere else, which is why the sink itself carries no
// opinion about destination, per spec.md §1 scoping "message/error log
// sinks" out as an external collaborator.
package msglog

import (
	"fmt"
	"io"

	"gendasm/memory"
)

// Severity classifies a log entry.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "?"
	}
}

// Entry is one recorded condition.
type Entry struct {
	Severity Severity
	Addr     memory.Address
	Text     string
}

// Log accumulates Entry values in recorded order.
type Log struct {
	entries []Entry
}

// New creates an empty log.
func New() *Log { return &Log{} }

// Record appends a new entry.
func (l *Log) Record(sev Severity, addr memory.Address, text string) {
	l.entries = append(l.entries, Entry{Severity: sev, Addr: addr, Text: text})
}

// Recordf is Record with fmt.Sprintf-style formatting.
func (l *Log) Recordf(sev Severity, addr memory.Address, format string, args ...interface{}) {
	l.Record(sev, addr, fmt.Sprintf(format, args...))
}

// Entries returns every entry recorded so far, in order.
func (l *Log) Entries() []Entry {
	return l.entries
}

// WriteTo drains the log as plain text, one line per entry.
func (l *Log) WriteTo(w io.Writer) error {
	for _, e := range l.entries {
		if _, err := fmt.Fprintf(w, "[%s] $%04X: %s\n", e.Severity, uint32(e.Addr), e.Text); err != nil {
			return err
		}
	}
	return nil
}
