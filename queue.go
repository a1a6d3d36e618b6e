package microlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrQueueIndex is returned when a dequeue targets a position that does
// not exist. The queue is left unchanged.
var ErrQueueIndex = errors.New("queue index out of range")

// Queue is the pending-content file: one raw, unclassified content
// string per line, FIFO. Entries stay here until the auto-poster (or an
// operator) consumes them. Mutations are serialized by the mutex and
// rewrites go through a temp file + rename so a crash mid-write never
// truncates the queue.
type Queue struct {
	mu   sync.Mutex
	path string
}

// NewQueue returns a Queue backed by the file at path.
func NewQueue(path string) *Queue {
	return &Queue{path: path}
}

// Add appends one raw content string to the tail of the queue.
func (q *Queue) Add(content string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	f, err := os.OpenFile(q.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open queue: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content + "\n"); err != nil {
		return fmt.Errorf("append queue: %w", err)
	}
	return nil
}

// Lines returns the raw queued lines in FIFO order, blanks included.
// The auto-poster needs the blanks so it can drop them from the head.
func (q *Queue) Lines() ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	lines, err := readLines(q.path)
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	return lines, nil
}

// Entries returns the queued content strings in FIFO order with blank
// lines filtered out, for display.
func (q *Queue) Entries() ([]string, error) {
	lines, err := q.Lines()
	if err != nil {
		return nil, err
	}
	var entries []string
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			entries = append(entries, s)
		}
	}
	return entries, nil
}

// Remove deletes the line at the given 0-based index and atomically
// rewrites the remainder. An out-of-range index returns ErrQueueIndex
// with the queue untouched.
func (q *Queue) Remove(index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	lines, err := readLines(q.path)
	if err != nil {
		return fmt.Errorf("read queue: %w", err)
	}
	if index < 0 || index >= len(lines) {
		return ErrQueueIndex
	}
	remaining := append(append([]string{}, lines[:index]...), lines[index+1:]...)
	return q.rewrite(remaining)
}

// rewrite replaces the queue file contents. Callers must hold q.mu.
func (q *Queue) rewrite(lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	tmp, err := os.CreateTemp(filepath.Dir(q.path), ".queue-*")
	if err != nil {
		return fmt.Errorf("rewrite queue: %w", err)
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("rewrite queue: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rewrite queue: %w", err)
	}
	if err := os.Rename(tmp.Name(), q.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rewrite queue: %w", err)
	}
	return nil
}
