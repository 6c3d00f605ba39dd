package desim

// Kind discriminates an EventMessage variant. Concrete message types return
// a stable Kind from their Kind method so the dispatcher can look up a handler
// without reflection.
type Kind string

// Message is a typed payload carried by a single Event. Concrete variants
// are declared by user code; a Message's fields should be treated as
// immutable once built, since the core moves messages from sender to
// receiver rather than copying them.
type Message interface {
	// Kind returns the discriminant used to route this message to a
	// handler and to validate it against a sender's declared send-list.
	Kind() Kind
}

// VariantSet is a closed set of message kinds, used both for a sender's
// declared send-list (I5) and, implicitly, for a receiver's handler table.
type VariantSet map[Kind]struct{}

// NewVariantSet builds a VariantSet from a list of kinds.
func NewVariantSet(kinds ...Kind) VariantSet {
	s := make(VariantSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}

	return s
}

// Contains reports whether kind is a member of the set.
func (s VariantSet) Contains(kind Kind) bool {
	_, ok := s[kind]
	return ok
}
