package report

import (
	"context"
	"io"
	"time"
)

// LogSource tells which storage convention a log was served from.
type LogSource string

// const ...
const (
	LogSourceArchive LogSource = "archive"
	LogSourceLegacy  LogSource = "legacy"
)

// Log is an open captured log. The caller must Close it.
type Log struct {
	io.ReadCloser

	Name    string
	ModTime time.Time
	// Size is -1 when unknown.
	Size   int64
	Source LogSource
}

// LogLocator resolves a record's log reference (its status message) to the log content.
// A missing log is reported with an error matching ErrNotFound.
type LogLocator interface {
	Locate(ctx context.Context, ref string) (*Log, error)
}

// LogRef returns where the log of e lives: its status message, or for a flattened
// package record the logfile attribute.
func LogRef(e Entry) string {
	if ref := e.StatusMessage(); ref != "" {
		return ref
	}
	if r, ok := e.(*TestRecord); ok {
		if ref, ok := r.Attribute(LogFileAttribute); ok {
			return ref
		}
	}
	return ""
}

// Log opens the captured log of the child with the given id.
// The id is resolved before the locator is touched.
func (n *ResultNode) Log(ctx context.Context, locator LogLocator, id string) (*Log, error) {
	e, ok := n.Get(id)
	if !ok {
		return nil, NewNotFoundError(KindRecord, id)
	}

	ref := LogRef(e)
	if ref == "" {
		return nil, NewNotFoundError(KindLog, id)
	}

	return locator.Locate(ctx, ref)
}
