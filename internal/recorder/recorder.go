package recorder

import (
	"time"

	"SignalSentinel/internal/model"
)

// CycleRecord holds everything known about one decided cycle.
type CycleRecord struct {
	CycleID   string
	At        time.Time
	Decision  *model.Decision
	WindowLen int
	Sent      bool
	SendError string
}

// Recorder appends cycle history for external analysis. Nothing reads it
// back into the running process.
type Recorder interface {
	RecordCycle(rec *CycleRecord) error
	Close() error
}
