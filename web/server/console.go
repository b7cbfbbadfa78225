package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mohamed3ma/helios/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	entry       *logrus.Entry
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a web logger for one tracking run. Messages also go
// to entry at debug level; entry may be nil.
func NewWebLogger(entry *logrus.Entry, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		entry:       entry,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	if wl.entry != nil {
		wl.entry.Debug(strings.TrimSuffix(message, "\n"))
	}

	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			Message:   message,
			Timestamp: time.Now(),
			Level:     "info",
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}
