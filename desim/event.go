package desim

// Event is the scheduling record produced by Simulator.SendEvent or
// SendEventAt. It is opaque to user code: handlers only ever see the
// sender, the times, and the message (a DeliveredEvent), never the Event
// value itself.
type Event struct {
	sequenceNumber uint64
	creationTime   Time
	receiveTime    Time
	sender         *SimulationObject
	receiver       *SimulationObject
	message        Message
	secondary      bool
}

// CreationTime is the simulated time at which the event was scheduled.
func (e *Event) CreationTime() Time { return e.creationTime }

// ReceiveTime is the simulated time at which the event fires.
func (e *Event) ReceiveTime() Time { return e.receiveTime }

// Sender is the object that scheduled the event.
func (e *Event) Sender() *SimulationObject { return e.sender }

// Receiver is the object the event is addressed to.
func (e *Event) Receiver() *SimulationObject { return e.receiver }

// Message is the payload carried by the event.
func (e *Event) Message() Message { return e.message }

// SequenceNumber is the monotonically increasing tiebreaker assigned to the
// event when it was scheduled, unique within the owning Simulator's run.
func (e *Event) SequenceNumber() uint64 { return e.sequenceNumber }

// IsSecondary reports whether the event belongs to the secondary event set
// (spec.md §3 EXPANSION — drained only once no primary event is due at an
// earlier or equal time).
func (e *Event) IsSecondary() bool { return e.secondary }

// NewRestoredEvent reconstructs an Event from serialized fields, preserving
// its sequence number verbatim to keep I6 across a checkpoint round trip
// (spec.md §6, "Persisted state layout"). Only a checkpoint reader should
// call this; model code never needs to build an Event by hand.
func NewRestoredEvent(
	sequenceNumber uint64,
	creationTime, receiveTime Time,
	sender, receiver *SimulationObject,
	message Message,
	secondary bool,
) *Event {
	return &Event{
		sequenceNumber: sequenceNumber,
		creationTime:   creationTime,
		receiveTime:    receiveTime,
		sender:         sender,
		receiver:       receiver,
		message:        message,
		secondary:      secondary,
	}
}

// DeliveredEvent is what a handler actually receives: the sender's name,
// the times, and the message. Handlers never see sequence numbers or the
// receiver handle (a handler always knows who it is).
type DeliveredEvent struct {
	SenderName   string
	CreationTime Time
	ReceiveTime  Time
	Message      Message
}

func newDeliveredEvent(e *Event) DeliveredEvent {
	senderName := ""
	if e.sender != nil {
		senderName = e.sender.Name()
	}

	return DeliveredEvent{
		SenderName:   senderName,
		CreationTime: e.creationTime,
		ReceiveTime:  e.receiveTime,
		Message:      e.message,
	}
}

// less implements the ordering key from spec.md §3:
// (receive_time, receiver.priority_key, receiver.identifier, sequence_number).
func (e *Event) less(other *Event) bool {
	if e.receiveTime != other.receiveTime {
		return e.receiveTime < other.receiveTime
	}

	pi, pj := e.receiverPriority(), other.receiverPriority()
	if pi != pj {
		return pi < pj
	}

	ni, nj := e.receiverName(), other.receiverName()
	if ni != nj {
		return ni < nj
	}

	return e.sequenceNumber < other.sequenceNumber
}

func (e *Event) receiverPriority() int {
	if e.receiver == nil {
		return 0
	}

	return e.receiver.priorityKey
}

func (e *Event) receiverName() string {
	if e.receiver == nil {
		return ""
	}

	return e.receiver.name
}

// sameFrontier reports whether e and other belong to the same pop_frontier
// batch: same receive time, same receiver.
func (e *Event) sameFrontier(other *Event) bool {
	return e.receiveTime == other.receiveTime && e.receiver == other.receiver
}
