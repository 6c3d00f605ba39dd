package tracing

import (
	"strconv"

	"github.com/fulcrumsim/desim/desim"
)

// EventTracer is a desim.Hook that turns every dispatched event into a Task
// and forwards it to a TraceWriter. Install it on a Simulator with
// AcceptHook; SimulationObject does not accept hooks.
type EventTracer struct {
	writer TraceWriter
}

// NewEventTracer creates a tracer backed by writer. writer.Init is called
// immediately.
func NewEventTracer(writer TraceWriter) *EventTracer {
	writer.Init()
	return &EventTracer{writer: writer}
}

// Func implements desim.Hook. It only reacts to HookPosAfterEvent, since
// that position fires once per event whether or not the frontier was
// delivered through a batch handler.
func (t *EventTracer) Func(ctx desim.HookCtx) {
	if ctx.Pos != desim.HookPosAfterEvent {
		return
	}

	e, ok := ctx.Item.(*desim.Event)
	if !ok {
		return
	}

	id := strconv.FormatUint(e.SequenceNumber(), 10)
	t.writer.Write(newTask(id, e))
}

// Flush forces the underlying writer to push any buffered tasks out now,
// without waiting for an atexit handler.
func (t *EventTracer) Flush() {
	t.writer.Flush()
}
