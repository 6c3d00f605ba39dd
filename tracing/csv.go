package tracing

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

// CSVTraceWriter writes tasks to a CSV file, buffering writes and flushing
// either when the buffer fills or when the process exits.
type CSVTraceWriter struct {
	path string
	file *os.File

	tasks      []Task
	bufferSize int
}

// NewCSVTraceWriter creates a writer that will create (or truncate) path.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{path: path, bufferSize: 1000}
}

// Init creates the CSV file and writes its header row.
func (w *CSVTraceWriter) Init() {
	file, err := os.Create(w.path)
	if err != nil {
		panic(err)
	}

	w.file = file

	fmt.Fprintln(w.file, "id,sender,receiver,kind,start_time,end_time")

	atexit.Register(func() {
		w.Flush()

		if err := w.file.Close(); err != nil {
			panic(err)
		}
	})
}

// Write buffers task, flushing once the buffer reaches its size threshold.
func (w *CSVTraceWriter) Write(task Task) {
	w.tasks = append(w.tasks, task)
	if len(w.tasks) >= w.bufferSize {
		w.Flush()
	}
}

// Flush writes every buffered task to the file.
func (w *CSVTraceWriter) Flush() {
	for _, task := range w.tasks {
		fmt.Fprintf(w.file, "%s,%s,%s,%s,%.10f,%.10f\n",
			task.ID, task.SenderName, task.Receiver, task.Kind,
			task.StartTime, task.EndTime)
	}

	w.tasks = nil
}
