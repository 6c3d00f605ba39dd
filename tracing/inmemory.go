package tracing

// InMemoryTraceWriter keeps every written Task in memory. Useful in tests
// and for short runs inspected programmatically rather than exported.
type InMemoryTraceWriter struct {
	Tasks []Task
}

// NewInMemoryTraceWriter creates an empty writer.
func NewInMemoryTraceWriter() *InMemoryTraceWriter {
	return &InMemoryTraceWriter{}
}

// Init is a no-op; there is nothing to open.
func (w *InMemoryTraceWriter) Init() {}

// Write appends task to Tasks.
func (w *InMemoryTraceWriter) Write(task Task) {
	w.Tasks = append(w.Tasks, task)
}

// Flush is a no-op; Tasks is already durable for the life of the writer.
func (w *InMemoryTraceWriter) Flush() {}
