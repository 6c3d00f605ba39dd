package tracing

import (
	"encoding/json"
	"os"

	"github.com/tebeka/atexit"
)

// JSONTraceWriter writes every task as one JSON array to a file, written out
// in full on Flush (there is no incremental JSON array append, so unlike the
// CSV and SQLite writers this one keeps everything buffered until flushed).
type JSONTraceWriter struct {
	path  string
	tasks []Task
}

// NewJSONTraceWriter creates a writer that will write to path on Flush.
func NewJSONTraceWriter(path string) *JSONTraceWriter {
	return &JSONTraceWriter{path: path}
}

// Init registers an atexit flush so a task array is written even if Flush
// is never called explicitly.
func (w *JSONTraceWriter) Init() {
	atexit.Register(func() { w.Flush() })
}

// Write buffers task.
func (w *JSONTraceWriter) Write(task Task) {
	w.tasks = append(w.tasks, task)
}

// Flush serializes every buffered task to path as a JSON array.
func (w *JSONTraceWriter) Flush() {
	if len(w.tasks) == 0 {
		return
	}

	data, err := json.MarshalIndent(w.tasks, "", "  ")
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		panic(err)
	}
}
