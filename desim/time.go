package desim

// Time is the simulated time at which an Event occurs. It is an abstract
// totally-ordered value; the core attaches no physical unit to it.
type Time float64
