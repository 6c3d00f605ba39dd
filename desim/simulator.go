package desim

import (
	"sync"
	"time"
)

// Simulator owns the global event list, the registered objects, the current
// simulation time, and the run loop. It is the sole component with write
// access to the event heap; SimulationObjects reach it only through
// SendEvent/SendEventAt.
type Simulator struct {
	HookableBase

	currentTime        Time
	nextSequenceNumber uint64

	heap          *EventHeap
	secondaryHeap *EventHeap

	objects     map[string]*SimulationObject
	objectOrder []string

	idGen IDGenerator

	stopCondition StopCondition
	stopRequested bool

	initialized bool
	running     bool
	startTime   time.Time

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	profiling   bool
	eventCounts map[string]int
}

// NewSimulator creates an empty Simulator, ready to accept objects.
func NewSimulator() *Simulator {
	return &Simulator{
		heap:          NewEventHeap(),
		secondaryHeap: NewEventHeap(),
		objects:       make(map[string]*SimulationObject),
		idGen:         NewSequentialIDGenerator(),
	}
}

// WithIDGenerator overrides the default sequential IDGenerator. Call before
// adding any object that relies on generated IDs.
func (s *Simulator) WithIDGenerator(gen IDGenerator) *Simulator {
	s.idGen = gen
	return s
}

// EnableProfiling turns on per-object event counting; the counts are
// attached to RunSummary.PerObjectEventCounts after Run returns
// (spec.md §4.7, EXPANSION).
func (s *Simulator) EnableProfiling() {
	s.profiling = true
}

// NextID returns a fresh opaque identifier from the Simulator's own
// IDGenerator.
func (s *Simulator) NextID() string {
	return s.idGen.Generate()
}

// AddObject registers obj. Returns *SchedulingError wrapping
// IsDuplicateObjectName if the name is already taken (I4).
func (s *Simulator) AddObject(obj *SimulationObject) error {
	if _, exists := s.objects[obj.name]; exists {
		return &SchedulingError{Kind: ErrDuplicateObjectName, ObjectName: obj.name}
	}

	obj.sim = s
	s.objects[obj.name] = obj
	s.objectOrder = append(s.objectOrder, obj.name)

	return nil
}

// AddObjects registers every obj in objs, stopping at the first error.
func (s *Simulator) AddObjects(objs ...*SimulationObject) error {
	for _, obj := range objs {
		if err := s.AddObject(obj); err != nil {
			return err
		}
	}

	return nil
}

// RemoveObject unregisters the object named name. Returns *SchedulingError
// wrapping IsUnknownObject if no such object is registered.
func (s *Simulator) RemoveObject(name string) error {
	if _, exists := s.objects[name]; !exists {
		return &SchedulingError{Kind: ErrUnknownObject, ObjectName: name}
	}

	delete(s.objects, name)

	for i, n := range s.objectOrder {
		if n == name {
			s.objectOrder = append(s.objectOrder[:i], s.objectOrder[i+1:]...)
			break
		}
	}

	return nil
}

// Object looks up a registered object by name.
func (s *Simulator) Object(name string) (*SimulationObject, bool) {
	obj, ok := s.objects[name]
	return obj, ok
}

// Objects returns every registered object, in registration order.
func (s *Simulator) Objects() []*SimulationObject {
	out := make([]*SimulationObject, len(s.objectOrder))
	for i, name := range s.objectOrder {
		out[i] = s.objects[name]
	}

	return out
}

// CurrentTime returns the simulation time as of the most recently dispatched
// frontier.
func (s *Simulator) CurrentTime() Time {
	return s.currentTime
}

// SetStopCondition installs the predicate consulted before each frontier's
// dispatch (spec.md §4.6).
func (s *Simulator) SetStopCondition(sc StopCondition) {
	s.stopCondition = sc
}

// RequestStop asks the run loop to halt at the next frontier boundary,
// cooperatively — spec.md §5's cancellation flag. The flag is a plain field
// with no synchronization; it is set and read on the goroutine running Run
// (from a handler, a hook, or the stop condition).
func (s *Simulator) RequestStop() {
	s.stopRequested = true
}

// Pause blocks the run loop before it dispatches its next frontier. Safe to
// call from a goroutine other than the one running Run — e.g. an inspection
// endpoint reading object state consistently between frontiers.
func (s *Simulator) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue releases a paused run loop.
func (s *Simulator) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}

// Initialize runs every registered object's pre-run callback, in
// registration order, and records the run's start wall time. Idempotent:
// calling it again before Reset is a no-op.
func (s *Simulator) Initialize() error {
	if s.initialized {
		return nil
	}

	for _, name := range s.objectOrder {
		obj := s.objects[name]
		if obj.preRunInit != nil {
			obj.preRunInit(obj)
		}
	}

	s.initialized = true
	s.startTime = time.Now()

	return nil
}

// Run drains the heap until it empties, the next frontier's time exceeds
// maxTime, or the stop condition (or a stop request) fires, dispatching one
// tied-event frontier per iteration. See spec.md §4.5.
func (s *Simulator) Run(maxTime Time) (RunSummary, error) {
	if !s.initialized {
		return RunSummary{}, &SchedulingError{Kind: ErrNotInitialized}
	}

	if s.running {
		return RunSummary{}, &SchedulingError{Kind: ErrAlreadyRunning}
	}

	s.running = true
	defer func() { s.running = false }()

	summary := RunSummary{StartWallTime: s.startTime}

	if s.profiling {
		s.eventCounts = make(map[string]int)
	}

	var runErr error

	for {
		s.pauseLock.Lock()

		h := s.activeHeap()
		if h == nil {
			summary.TerminationReason = TerminationNoEvents
			s.pauseLock.Unlock()

			break
		}

		t := h.Peek().ReceiveTime()
		if t > maxTime {
			summary.TerminationReason = TerminationMaxTimeReached
			s.pauseLock.Unlock()

			break
		}

		if s.stopRequested || (s.stopCondition != nil && s.stopCondition.ShouldStop(s)) {
			summary.TerminationReason = TerminationStopCondition
			s.pauseLock.Unlock()

			break
		}

		s.currentTime = t
		frontier := h.PopFrontier()

		err := dispatchFrontier(s, frontier)
		summary.NumEvents += len(frontier)

		if s.profiling {
			s.eventCounts[frontier[0].receiver.name] += len(frontier)
		}

		if err != nil {
			runErr = err
			summary.TerminationReason = TerminationError

			if de, ok := err.(*DispatchError); ok {
				summary.ErrorKind = de.Kind
			}

			summary.Err = err
			s.pauseLock.Unlock()

			break
		}

		s.pauseLock.Unlock()
	}

	for _, name := range s.objectOrder {
		obj := s.objects[name]
		if obj.postRunTeardown != nil {
			obj.postRunTeardown(obj)
		}
	}

	summary.FinalSimTime = s.currentTime
	summary.EndWallTime = time.Now()
	summary.Duration = summary.EndWallTime.Sub(summary.StartWallTime)

	if s.profiling {
		summary.PerObjectEventCounts = s.eventCounts
	}

	return summary, runErr
}

// activeHeap picks which of the primary and secondary heaps the next
// frontier should be drawn from: the secondary heap only when its minimum
// time is strictly earlier than the primary heap's (spec.md §3 EXPANSION).
// Returns nil when both heaps are empty.
func (s *Simulator) activeHeap() *EventHeap {
	if s.heap.IsEmpty() && s.secondaryHeap.IsEmpty() {
		return nil
	}

	if s.heap.IsEmpty() {
		return s.secondaryHeap
	}

	if s.secondaryHeap.IsEmpty() {
		return s.heap
	}

	if s.secondaryHeap.Peek().ReceiveTime() < s.heap.Peek().ReceiveTime() {
		return s.secondaryHeap
	}

	return s.heap
}

// Reset discards the heap and every object registration, and restores
// current_time and the sequence counter to their defaults. The Simulator
// may be reused for a new model afterward.
func (s *Simulator) Reset() {
	s.heap = NewEventHeap()
	s.secondaryHeap = NewEventHeap()
	s.objects = make(map[string]*SimulationObject)
	s.objectOrder = nil
	s.currentTime = 0
	s.nextSequenceNumber = 0
	s.stopRequested = false
	s.initialized = false
	s.eventCounts = nil
}

// RestoreCurrentTime sets current_time directly, outside of a dispatch.
// Only a checkpoint loader should call this, immediately after RestoreHeap
// and before Run.
func (s *Simulator) RestoreCurrentTime(t Time) {
	s.currentTime = t
}

// NextSequenceNumber reports the highest sequence number handed out so
// far; schedule assigns nextSequenceNumber+1 to the next event it creates.
// Used by a checkpoint writer to persist the counter even when the heap
// happens to be empty at snapshot time.
func (s *Simulator) NextSequenceNumber() uint64 {
	return s.nextSequenceNumber
}

// RestoreSequenceNumber sets the counter directly, only ever upward. Only a
// checkpoint loader should call this; RestoreHeap already advances it to
// cover every restored event, so this is only needed to preserve a counter
// value ahead of any pending event (I6 across a round trip where some
// already-assigned sequence numbers belong to events that were delivered,
// not pending, at snapshot time).
func (s *Simulator) RestoreSequenceNumber(n uint64) {
	if n > s.nextSequenceNumber {
		s.nextSequenceNumber = n
	}
}

// SnapshotHeap returns every pending event without removing them: all
// primary events first, then all secondary events, each group ordered by
// the scheduling ordering key. Used by an external checkpoint writer;
// spec.md §6.
func (s *Simulator) SnapshotHeap() []*Event {
	return append(s.heap.Snapshot(), s.secondaryHeap.Snapshot()...)
}

// RestoreHeap rebuilds the heap from a previously snapshotted event list,
// preserving sequence numbers verbatim (I6) and splitting events back into
// the primary and secondary heaps by IsSecondary.
func (s *Simulator) RestoreHeap(events []*Event) {
	s.heap = NewEventHeap()
	s.secondaryHeap = NewEventHeap()

	var maxSeq uint64

	for _, e := range events {
		if e.IsSecondary() {
			s.secondaryHeap.Push(e)
		} else {
			s.heap.Push(e)
		}

		if e.SequenceNumber() > maxSeq {
			maxSeq = e.SequenceNumber()
		}
	}

	if maxSeq > s.nextSequenceNumber {
		s.nextSequenceNumber = maxSeq
	}
}

// schedule is the single path through which an event enters the heap,
// called from SimulationObject.SendEvent/SendEventAt/SendSecondaryEvent*.
// It enforces I1, I2, and I5 before the event ever reaches the heap.
func (s *Simulator) schedule(
	sender, receiver *SimulationObject,
	delay Time,
	message Message,
	secondary bool,
) error {
	senderName := ""
	if sender != nil {
		senderName = sender.name
	}

	if delay < 0 {
		return &SchedulingError{Kind: ErrNegativeDelay, ObjectName: senderName, Delay: delay}
	}

	if receiver == nil || s.objects[receiver.name] != receiver {
		name := ""
		if receiver != nil {
			name = receiver.name
		}

		return &SchedulingError{Kind: ErrUnknownReceiver, ObjectName: name}
	}

	kind := message.Kind()
	if sender != nil && sender.sentVariants != nil && !sender.sentVariants.Contains(kind) {
		return &SchedulingError{Kind: ErrUndeclaredSentVariant, ObjectName: senderName, Variant: kind}
	}

	now := s.currentTime
	s.nextSequenceNumber++

	evt := &Event{
		sequenceNumber: s.nextSequenceNumber,
		creationTime:   now,
		receiveTime:    now + delay,
		sender:         sender,
		receiver:       receiver,
		message:        message,
		secondary:      secondary,
	}

	if secondary {
		s.secondaryHeap.Push(evt)
	} else {
		s.heap.Push(evt)
	}

	return nil
}
