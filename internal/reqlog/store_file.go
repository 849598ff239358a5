// Copyright (c) 2026 Mogcord. All rights reserved.

package reqlog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// FileStore appends request log lines as JSON to a daily rolling file.
//
// Files are named <folder>/<YYYY-MM-DD>.log by the line's UTC timestamp.
// The handle for the current day stays open between writes; when a line
// lands on a new day the previous handle is flushed and closed.
//
// # Concurrency
//
// All writes are serialized by an internal mutex.
type FileStore struct {
	folder string

	mu         sync.Mutex
	currentDay string
	file       *os.File
	writer     *bufio.Writer
}

// NewFileStore creates a FileStore rooted at folder, creating it if needed.
func NewFileStore(folder string) (*FileStore, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, apperr.NewFromChild(err, apperr.KindCreate, apperr.SubjectLog).
			AddDebug("folder", folder)
	}
	return &FileStore{folder: folder}, nil
}

// Save implements [Repository].
func (s *FileStore) Save(_ context.Context, line Line) error {
	payload, err := json.Marshal(line)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindParse, apperr.SubjectLog).
			AddDebug("req_id", line.ReqID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day := line.Timestamp.UTC().Format(time.DateOnly)
	if err := s.rotateLocked(day); err != nil {
		return err
	}

	if _, err := s.writer.Write(append(payload, '\n')); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectLog).
			AddDebug("req_id", line.ReqID)
	}

	// One line, one flush. Losing buffered lines on crash is worse than
	// the extra syscall.
	if err := s.writer.Flush(); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectLog)
	}

	return nil
}

// Close flushes and releases the current file handle.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

// rotateLocked ensures the open handle matches the given day.
// Must be called with the mutex held.
func (s *FileStore) rotateLocked(day string) error {
	if s.file != nil && s.currentDay == day {
		return nil
	}

	if err := s.closeLocked(); err != nil {
		return err
	}

	path := filepath.Join(s.folder, day+".log")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindCreate, apperr.SubjectLog).
			AddDebug("path", path)
	}

	s.currentDay = day
	s.file = file
	s.writer = bufio.NewWriter(file)
	return nil
}

// closeLocked flushes and closes the current handle if one is open.
// Must be called with the mutex held.
func (s *FileStore) closeLocked() error {
	if s.file == nil {
		return nil
	}

	flushErr := s.writer.Flush()
	closeErr := s.file.Close()

	s.file = nil
	s.writer = nil
	s.currentDay = ""

	if flushErr != nil {
		return apperr.NewFromChild(flushErr, apperr.KindInsert, apperr.SubjectLog)
	}
	if closeErr != nil {
		return apperr.NewFromChild(closeErr, apperr.KindInsert, apperr.SubjectLog)
	}
	return nil
}
