package model

// Edge is a directed flow path between a bus and a component (or vice
// versa), identified by the endpoint ids.
type Edge struct {
	Src string
	Dst string
}

func (e Edge) String() string { return e.Src + "->" + e.Dst }

// DeriveEdges turns a component list into the ordered edge sequence the
// model builder consumes. For each component in list order it emits one
// (input.ID, component) edge per input in input-list order, then one
// (component, output.ID) edge per output in output-list order.
//
// The ordering is a contract, not an implementation detail: downstream
// output (LP files, flow ledgers) is deterministic because of it.
// Duplicates are kept as-is when components share a bus.
func DeriveEdges(components []Component) []Edge {
	var edges []Edge
	for _, c := range components {
		for _, in := range c.InputBuses() {
			edges = append(edges, Edge{Src: in.ID, Dst: c.UID()})
		}
		for _, out := range c.OutputBuses() {
			edges = append(edges, Edge{Src: c.UID(), Dst: out.ID})
		}
	}
	return edges
}

// InputEdge returns the edge feeding a single-input component.
func InputEdge(c Component) Edge {
	return Edge{Src: c.InputBuses()[0].ID, Dst: c.UID()}
}

// OutputEdge returns the i-th output edge of a component.
func OutputEdge(c Component, i int) Edge {
	return Edge{Src: c.UID(), Dst: c.OutputBuses()[i].ID}
}
