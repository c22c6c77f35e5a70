// Package trace implements the append-only JSONL trail of loop events.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// EventType enumerates all loop trace event types.
type EventType string

const (
	EventLoopStart     EventType = "loop_start"
	EventIteration     EventType = "iteration"
	EventConditionEval EventType = "condition_eval"
	EventLoopComplete  EventType = "loop_complete"
)

// Event is a single trace event written to the JSONL stream.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// Writer writes trace events to an append-only JSONL stream.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	runID string
	enc   *json.Encoder
}

// NewWriter creates a trace writer that writes to the given io.Writer.
func NewWriter(w io.Writer, runID string) *Writer {
	return &Writer{
		w:     w,
		runID: runID,
		enc:   json.NewEncoder(w),
	}
}

// NewFileWriter creates a trace writer that appends to a JSONL file.
func NewFileWriter(path, runID string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return NewWriter(f, runID), nil
}

// Emit writes a single trace event.
func (tw *Writer) Emit(eventType EventType, data map[string]any) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	evt := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RunID:     tw.runID,
		Data:      data,
	}
	return tw.enc.Encode(evt)
}

// EmitLoopStart emits a loop_start event.
func (tw *Writer) EmitLoopStart(loopType string, maxIterations int) error {
	return tw.Emit(EventLoopStart, map[string]any{
		"loop_type":      loopType,
		"max_iterations": maxIterations,
	})
}

// EmitIteration emits an iteration event for a completed action.
func (tw *Writer) EmitIteration(iteration int, actionType, selector string) error {
	return tw.Emit(EventIteration, map[string]any{
		"iteration": iteration,
		"action":    actionType,
		"selector":  selector,
	})
}

// EmitConditionEval emits a condition_eval event.
func (tw *Writer) EmitConditionEval(assertion string, negate, met bool) error {
	return tw.Emit(EventConditionEval, map[string]any{
		"assertion": assertion,
		"negate":    negate,
		"met":       met,
	})
}

// EmitLoopComplete emits a loop_complete event.
func (tw *Writer) EmitLoopComplete(iterations int, status string, duration time.Duration) error {
	return tw.Emit(EventLoopComplete, map[string]any{
		"iterations": iterations,
		"status":     status,
		"duration":   duration.String(),
	})
}
