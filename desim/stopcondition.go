package desim

// StopCondition is a user-supplied predicate consulted at most once per
// frontier boundary, before that frontier's dispatch (spec.md §4.6). A
// StopConditionFunc can be used to adapt a plain function.
type StopCondition interface {
	ShouldStop(sim *Simulator) bool
}

// StopConditionFunc adapts a function to a StopCondition.
type StopConditionFunc func(sim *Simulator) bool

// ShouldStop calls f.
func (f StopConditionFunc) ShouldStop(sim *Simulator) bool {
	return f(sim)
}
