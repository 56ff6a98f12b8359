package precond

import (
	"github.com/camader/tacs/bcsr"
	"github.com/camader/tacs/dist"
	"github.com/camader/tacs/halo"
	"github.com/camader/tacs/rowmap"
)

// buildSingleRank1D builds a single-rank (no interface, no halo
// traffic) 1-D Poisson DistributedMatrix of order n, used to check
// that ApproxSchur degenerates to LocalILU when there is no interface
// to solve for.
func buildSingleRank1D(n int) *dist.DistributedMatrix {
	rowPtr := make([]int, n+1)
	var colIdx []int
	for i := 0; i < n; i++ {
		if i > 0 {
			colIdx = append(colIdx, i-1)
		}
		colIdx = append(colIdx, i)
		if i < n-1 {
			colIdx = append(colIdx, i+1)
		}
		rowPtr[i+1] = len(colIdx)
	}
	a := bcsr.New(1, n, n, rowPtr, colIdx)
	for i := 0; i < n; i++ {
		for k := rowPtr[i]; k < rowPtr[i+1]; k++ {
			if colIdx[k] == i {
				a.Vals[k] = 2
			} else {
				a.Vals[k] = -1
			}
		}
	}
	b := bcsr.New(1, 0, 0, []int{0}, nil)
	net := halo.NewMemNetwork()
	h := halo.New(1, net.Transport(0), nil, nil, nil)
	rows := rowmap.New([]int{0, n}, 0)
	return dist.New(a, b, rows, h, nil, dist.NopReporter{})
}
