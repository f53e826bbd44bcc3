package model

// Bus is a network node. It carries no behavior of its own; every bus is
// subject to exact flow conservation per timestep (no losses, no storage).
// Anything lossy or stateful must be modeled as an explicit component
// attached to the bus.
type Bus struct {
	// ID uniquely identifies the bus within a network.
	ID string
	// Kind is a free-form energy carrier tag, e.g. "coal", "elec", "heat".
	Kind string
}
