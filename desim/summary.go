package desim

import "time"

// TerminationReason identifies why Run stopped, per spec.md §4.7.
type TerminationReason string

const (
	// TerminationMaxTimeReached means the next pending event's receive_time
	// exceeded the max_time passed to Run.
	TerminationMaxTimeReached TerminationReason = "max_time_reached"

	// TerminationStopCondition means the configured StopCondition returned
	// true, evaluated before advancing to the next frontier's time.
	TerminationStopCondition TerminationReason = "stop_condition"

	// TerminationNoEvents means the heap emptied with no stop condition or
	// max_time boundary reached first.
	TerminationNoEvents TerminationReason = "no_events"

	// TerminationError means a DispatchError or SchedulingError aborted the
	// run; RunSummary.Err carries the cause and RunSummary.ErrorKind its
	// ErrorKind.
	TerminationError TerminationReason = "error"
)

// RunSummary is returned from Simulator.Run, per spec.md §4.7.
type RunSummary struct {
	NumEvents int

	StartWallTime time.Time
	EndWallTime   time.Time
	Duration      time.Duration

	FinalSimTime Time

	TerminationReason TerminationReason
	ErrorKind         ErrorKind // populated when TerminationReason == TerminationError
	Err               error     // populated when TerminationReason == TerminationError

	// PerObjectEventCounts is populated only when EnableProfiling has been
	// called on the Simulator before Run.
	PerObjectEventCounts map[string]int
}
