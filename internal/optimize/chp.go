package optimize

import (
	"fmt"

	"energyflow/internal/lp"
	"energyflow/internal/model"
)

// addCHPConstraints generates two rows per CHP and timestep:
//
//	w[in, e, t] - (w[e, power, t] + w[e, heat, t]) / eff = 0
//	w[e, power, t] - w[e, heat, t] * ratio = 0
//
// The output order [power, heat] is semantically significant; it was
// checked during entity validation before any row is built.
func (m *Model) addCHPConstraints() {
	for _, c := range m.Entities.CHPs {
		in := model.InputEdge(c)
		power := model.OutputEdge(c, 0)
		heat := model.OutputEdge(c, 1)
		eff := c.EffectiveEfficiency()
		ratio := c.EffectivePowerToHeatRatio()

		for _, t := range m.Timesteps {
			balance := []lp.Term{
				{Col: m.flowCols[flowKey{in.Src, in.Dst, t}], Coef: 1},
				{Col: m.flowCols[flowKey{power.Src, power.Dst, t}], Coef: -1 / eff},
				{Col: m.flowCols[flowKey{heat.Src, heat.Dst, t}], Coef: -1 / eff},
			}
			m.Problem.AddEqRow(fmt.Sprintf("chp(%s,%d)", c.ID, t), balance, 0)

			pth := []lp.Term{
				{Col: m.flowCols[flowKey{power.Src, power.Dst, t}], Coef: 1},
				{Col: m.flowCols[flowKey{heat.Src, heat.Dst, t}], Coef: -ratio},
			}
			m.Problem.AddEqRow(fmt.Sprintf("pth(%s,%d)", c.ID, t), pth, 0)
		}
	}
}
