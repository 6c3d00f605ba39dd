package desim

// EventHandler processes one delivered event addressed to a
// SimulationObject. It may read and mutate the owning object's state and
// may schedule further events through the object's Simulator handle; it
// must not reach into any other object's state.
type EventHandler func(self *SimulationObject, evt DeliveredEvent) error

// BatchHandler processes every event tied at one receiver for one
// receive_time in a single call, ordered by (sender.priority_key,
// sender.name, sequence_number). Installing one on a SimulationObject
// replaces per-variant dispatch for that receiver entirely (spec.md §4.4).
type BatchHandler func(self *SimulationObject, batch []DeliveredEvent) error

// PreRunInit is called exactly once, in registration order, after every
// object has been added to the Simulator and before the first event fires.
// Typical use: schedule the object's initial events.
type PreRunInit func(self *SimulationObject)

// PostRunTeardown is called once per object after the run loop halts.
type PostRunTeardown func(self *SimulationObject)

// SimulationObject is a long-lived entity that owns model state, receives
// events through its handler table (or batch handler), and can schedule new
// events. Construct one with ObjectBuilder; the zero value is not usable.
type SimulationObject struct {
	name        string
	priorityKey int

	handlers       map[Kind]EventHandler
	batchHandler   BatchHandler
	sentVariants   VariantSet
	preRunInit     PreRunInit
	postRunTeardown PostRunTeardown

	sim *Simulator

	// State is free for the model to use; the core never reads or writes it.
	State interface{}
}

// Name returns the object's unique identifier.
func (o *SimulationObject) Name() string { return o.name }

// PriorityKey returns the object's tiebreak priority (lower runs first
// among events tied at the same receive_time and different receivers —
// spec.md §3 only orders across receivers this way; within one receiver's
// frontier the sender's priority applies instead, per §4.4/§5).
func (o *SimulationObject) PriorityKey() int { return o.priorityKey }

// Simulator returns the Simulator the object is registered with, or nil if
// it has not been added to one yet. Useful for looking up a neighbor by
// name from inside a handler.
func (o *SimulationObject) Simulator() *Simulator { return o.sim }

// Time returns the owning Simulator's current simulation time. Valid only
// after the object has been added to a Simulator.
func (o *SimulationObject) Time() Time {
	if o.sim == nil {
		return 0
	}

	return o.sim.CurrentTime()
}

// SendEvent schedules message to be delivered to receiver at
// Time()+delay. delay must be >= 0 (I1); the resulting receive_time must be
// >= the current simulation time (I2, automatically true for delay >= 0).
// A delay of exactly 0 produces a simultaneous event in the same or a later
// frontier than the one currently dispatching, never within it
// (spec.md §5, P5).
func (o *SimulationObject) SendEvent(
	delay Time,
	receiver *SimulationObject,
	message Message,
) error {
	return o.sim.schedule(o, receiver, delay, message, false)
}

// SendEventAt schedules message to be delivered to receiver at the given
// absolute simulation time, which must be >= the current simulation time
// (I2). Returns a *SchedulingError wrapping IsPastScheduling otherwise.
func (o *SimulationObject) SendEventAt(
	absoluteTime Time,
	receiver *SimulationObject,
	message Message,
) error {
	now := o.sim.CurrentTime()
	if absoluteTime < now {
		return &SchedulingError{
			Kind: ErrPastScheduling, Now: now, ReceiveAt: absoluteTime,
		}
	}

	return o.sim.schedule(o, receiver, absoluteTime-now, message, false)
}

// SendSecondaryEvent is SendEvent for the secondary event set
// (spec.md §3 EXPANSION).
func (o *SimulationObject) SendSecondaryEvent(
	delay Time,
	receiver *SimulationObject,
	message Message,
) error {
	return o.sim.schedule(o, receiver, delay, message, true)
}

// SendSecondaryEventAt is SendEventAt for the secondary event set.
func (o *SimulationObject) SendSecondaryEventAt(
	absoluteTime Time,
	receiver *SimulationObject,
	message Message,
) error {
	now := o.sim.CurrentTime()
	if absoluteTime < now {
		return &SchedulingError{
			Kind: ErrPastScheduling, Now: now, ReceiveAt: absoluteTime,
		}
	}

	return o.sim.schedule(o, receiver, absoluteTime-now, message, true)
}

// handlerFor looks up the per-variant handler for kind, reporting whether
// one is registered.
func (o *SimulationObject) handlerFor(kind Kind) (EventHandler, bool) {
	h, ok := o.handlers[kind]
	return h, ok
}

// ObjectBuilder builds a SimulationObject. The zero value is ready to use;
// fields are set with the With* methods and the object is finalized with
// Build, mirroring the builder pattern used throughout this codebase (e.g.
// message response builders).
type ObjectBuilder struct {
	name        string
	priorityKey int

	handlers        map[Kind]EventHandler
	batchHandler    BatchHandler
	sentVariants    VariantSet
	preRunInit      PreRunInit
	postRunTeardown PostRunTeardown
}

// NewObjectBuilder creates a builder for an object named name.
// NameMustBeValid panics if name does not follow the naming convention.
func NewObjectBuilder(name string) ObjectBuilder {
	NameMustBeValid(name)

	return ObjectBuilder{
		name:     name,
		handlers: make(map[Kind]EventHandler),
	}
}

// WithPriorityKey sets the object's tiebreak priority. Default 0.
func (b ObjectBuilder) WithPriorityKey(priorityKey int) ObjectBuilder {
	b.priorityKey = priorityKey
	return b
}

// WithHandler registers the handler for one message kind. Declaring two
// handlers for the same kind is a programmer error and panics — this is
// caught at build time, never at run time.
func (b ObjectBuilder) WithHandler(kind Kind, handler EventHandler) ObjectBuilder {
	newHandlers := make(map[Kind]EventHandler, len(b.handlers)+1)
	for k, v := range b.handlers {
		newHandlers[k] = v
	}

	if _, exists := newHandlers[kind]; exists {
		panic("duplicate handler registered for message kind " + string(kind))
	}

	newHandlers[kind] = handler
	b.handlers = newHandlers

	return b
}

// WithBatchHandler installs a batch handler, which replaces per-variant
// dispatch entirely for this object (spec.md §4.4).
func (b ObjectBuilder) WithBatchHandler(handler BatchHandler) ObjectBuilder {
	b.batchHandler = handler
	return b
}

// WithSentVariants declares the closed set of message kinds this object may
// send (I5); SendEvent/SendEventAt reject any other kind.
func (b ObjectBuilder) WithSentVariants(kinds ...Kind) ObjectBuilder {
	b.sentVariants = NewVariantSet(kinds...)
	return b
}

// WithPreRunInit sets the callback the Simulator invokes once, in
// registration order, before the first event fires.
func (b ObjectBuilder) WithPreRunInit(fn PreRunInit) ObjectBuilder {
	b.preRunInit = fn
	return b
}

// WithPostRunTeardown sets the callback the Simulator invokes once after the
// run loop halts.
func (b ObjectBuilder) WithPostRunTeardown(fn PostRunTeardown) ObjectBuilder {
	b.postRunTeardown = fn
	return b
}

// Build finalizes the object. It is not yet usable until AddObject(s) binds
// it to a Simulator.
func (b ObjectBuilder) Build() *SimulationObject {
	handlers := make(map[Kind]EventHandler, len(b.handlers))
	for k, v := range b.handlers {
		handlers[k] = v
	}

	// A nil sentVariants means the object never declared a send-list: I5's
	// check is skipped entirely rather than rejecting every send. Calling
	// WithSentVariants (even with zero kinds) opts into the closed-set
	// check.
	return &SimulationObject{
		name:            b.name,
		priorityKey:     b.priorityKey,
		handlers:        handlers,
		batchHandler:    b.batchHandler,
		sentVariants:    b.sentVariants,
		preRunInit:      b.preRunInit,
		postRunTeardown: b.postRunTeardown,
	}
}
