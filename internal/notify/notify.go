// Package notify surfaces organizer outcomes to the user. The error
// surface of the whole daemon is notification-based; nothing here is
// fatal and delivery failures are only logged.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"downsort/internal/logging"
)

// Notifier is the narrow interface the organizer and suggester call.
type Notifier interface {
	// Success announces an organized download.
	Success(filename, folder string)
	// Error surfaces a failed placement or download.
	Error(title, message string)
	// Prompt announces a pending rule suggestion.
	Prompt(title, message string)
}

// ModeFunc returns the current notification mode (always|errors|never).
// It is consulted per notification so a mode change applies immediately.
type ModeFunc func() string

// Desktop shows desktop toasts via the platform notification service.
type Desktop struct {
	mode ModeFunc
	log  *logging.Logger
}

func NewDesktop(mode ModeFunc, log *logging.Logger) *Desktop {
	if mode == nil {
		mode = func() string { return "always" }
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Desktop{mode: mode, log: log}
}

func (d *Desktop) Success(filename, folder string) {
	if d.mode() != "always" {
		return
	}
	msg := fmt.Sprintf("%s moved to %s", filename, folder)
	if err := beeep.Notify("Download organized", msg, ""); err != nil {
		d.log.Warn("notification failed", logging.Err(err))
	}
}

func (d *Desktop) Error(title, message string) {
	if d.mode() == "never" {
		return
	}
	if err := beeep.Alert(title, message, ""); err != nil {
		d.log.Warn("error notification failed", logging.Err(err))
	}
}

func (d *Desktop) Prompt(title, message string) {
	if d.mode() == "never" {
		return
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		d.log.Warn("prompt notification failed", logging.Err(err))
	}
}

// Log is a notifier that only writes to the log, for headless runs and
// tests.
type Log struct {
	log *logging.Logger
}

func NewLog(log *logging.Logger) *Log {
	if log == nil {
		log = logging.NewNop()
	}
	return &Log{log: log}
}

func (l *Log) Success(filename, folder string) {
	l.log.Info("organized", logging.String("file", filename), logging.String("folder", folder))
}

func (l *Log) Error(title, message string) {
	l.log.Error(title, logging.String("detail", message))
}

func (l *Log) Prompt(title, message string) {
	l.log.Info(title, logging.String("detail", message))
}
