package analysis

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteFlowsCSV writes the flow ledger to path, one row per
// (edge, timestep).
func WriteFlowsCSV(path string, flows []FlowRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"src",
		"dst",
		"timestep",
		"flow",
		"capacity",
		"extra_capacity",
		"utilization",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range flows {
		row := []string{
			strconv.Itoa(r.Index),
			r.Src,
			r.Dst,
			strconv.Itoa(r.Timestep),
			fmtFloat(r.Flow),
			fmtFloat(r.Capacity),
			fmtFloat(r.ExtraCapacity),
			fmtFloat(r.Utilization),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
