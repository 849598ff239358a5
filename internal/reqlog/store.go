// Copyright (c) 2026 Mogcord. All rights reserved.

package reqlog

import (
	"context"
	"log/slog"
)

// Repository defines the persistence contract for request log lines.
type Repository interface {
	// Save persists a single finished-request line.
	Save(ctx context.Context, line Line) error
}

// Fanout dispatches every line to all configured sinks.
//
// A failing sink never fails the pipeline: the error is logged and the
// remaining sinks still receive the line.
type Fanout struct {
	sinks  []Repository
	logger *slog.Logger
}

// NewFanout creates a Fanout over the given sinks.
func NewFanout(logger *slog.Logger, sinks ...Repository) *Fanout {
	return &Fanout{sinks: sinks, logger: logger}
}

// Save implements [Repository].
func (f *Fanout) Save(ctx context.Context, line Line) error {
	for _, sink := range f.sinks {
		if err := sink.Save(ctx, line); err != nil {
			f.logger.Error("request_log_sink_failed",
				slog.String("req_id", line.ReqID),
				slog.Any("error", err),
			)
		}
	}
	return nil
}
