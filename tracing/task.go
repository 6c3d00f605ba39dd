// Package tracing records dispatched events as a stream of Tasks, for
// consumption by an external collaborator (a log viewer, a space-time
// visualization renderer) that the simulation core itself treats as opaque.
package tracing

import "github.com/fulcrumsim/desim/desim"

// Task is one dispatched event, flattened into a form a TraceWriter can
// serialize without reaching back into the core.
type Task struct {
	ID         string  `json:"id"`
	SenderName string  `json:"sender_name"`
	Receiver   string  `json:"receiver"`
	Kind       string  `json:"kind"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

// TraceWriter receives Tasks as they are produced and is responsible for
// getting them to durable storage. Init is called once before the first
// Write; Flush may be called any number of times, including from an
// atexit-registered handler, to push buffered tasks out before the process
// exits.
type TraceWriter interface {
	Init()
	Write(task Task)
	Flush()
}

func newTask(id string, e *desim.Event) Task {
	senderName := ""
	if e.Sender() != nil {
		senderName = e.Sender().Name()
	}

	receiverName := ""
	if e.Receiver() != nil {
		receiverName = e.Receiver().Name()
	}

	kind := ""
	if e.Message() != nil {
		kind = string(e.Message().Kind())
	}

	return Task{
		ID:         id,
		SenderName: senderName,
		Receiver:   receiverName,
		Kind:       kind,
		StartTime:  float64(e.CreationTime()),
		EndTime:    float64(e.ReceiveTime()),
	}
}
