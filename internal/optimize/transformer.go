package optimize

import (
	"fmt"

	"energyflow/internal/lp"
	"energyflow/internal/model"
)

// addTransformerConstraints generates, for every simple transformer and
// timestep, the conversion row
//
//	w[in, e, t] * eta(e) - w[e, out, t] = 0
//
// In investment mode it additionally bounds each transformer edge by its
// base capacity plus the solver-chosen extra capacity:
//
//	w[i, j, t] <= capacity(i, j) + w_add[i, j]
//
// This is the only place the base capacity still participates under
// investment mode; flow on non-transformer edges stays unbounded above
// and carries no investment decision.
func (m *Model) addTransformerConstraints() {
	for _, tr := range m.Entities.Transformers {
		in := model.InputEdge(tr)
		out := model.OutputEdge(tr, 0)
		for _, t := range m.Timesteps {
			terms := []lp.Term{
				{Col: m.flowCols[flowKey{in.Src, in.Dst, t}], Coef: tr.Eta},
				{Col: m.flowCols[flowKey{out.Src, out.Dst, t}], Coef: -1},
			}
			m.Problem.AddEqRow(fmt.Sprintf("eta(%s,%d)", tr.ID, t), terms, 0)
		}
	}

	if !m.Opts.Invest {
		return
	}
	for _, tr := range m.Entities.Transformers {
		for _, e := range []model.Edge{model.InputEdge(tr), model.OutputEdge(tr, 0)} {
			cap := m.Opts.Capacity(e)
			for _, t := range m.Timesteps {
				terms := []lp.Term{
					{Col: m.flowCols[flowKey{e.Src, e.Dst, t}], Coef: 1},
					{Col: m.extraCols[e], Coef: -1},
				}
				m.Problem.AddLeRow(fmt.Sprintf("inv(%s,%s,%d)", e.Src, e.Dst, t), terms, cap)
			}
		}
	}
}
