package optimize

// addObjective declares the scalar objective: the unweighted sum of all
// flow variables across all edges and timesteps, minimized. The sum is a
// structural total-throughput placeholder rather than a cost objective,
// so the sense is fixed explicitly to minimize instead of being left to
// backend defaults. Extra-capacity variables carry no objective weight.
func (m *Model) addObjective() {
	m.Problem.Maximize = false
	for _, col := range m.flowCols {
		m.Problem.Cols[col].Cost = 1
	}
}
