package optimize

import (
	"fmt"

	"energyflow/internal/lp"
)

// addBusBalance generates the conservation law anchoring the network: for
// every bus b and timestep t, inflow minus outflow is exactly zero. There
// is no tolerance for losses or storage at a bus; such behavior belongs
// in an explicit component.
//
// Generates |buses| x |timesteps| equality rows.
func (m *Model) addBusBalance() {
	for _, b := range m.Entities.Buses {
		for _, t := range m.Timesteps {
			var terms []lp.Term
			for _, e := range m.Edges {
				if e.Dst == b.ID {
					terms = append(terms, lp.Term{Col: m.flowCols[flowKey{e.Src, e.Dst, t}], Coef: 1})
				}
				if e.Src == b.ID {
					terms = append(terms, lp.Term{Col: m.flowCols[flowKey{e.Src, e.Dst, t}], Coef: -1})
				}
			}
			m.Problem.AddEqRow(fmt.Sprintf("bus(%s,%d)", b.ID, t), terms, 0)
		}
	}
}
