package dist

import (
	"sync"

	"github.com/camader/tacs/bcsr"
	"github.com/camader/tacs/halo"
	"github.com/camader/tacs/rowmap"
)

// buildTwoRankChain assembles a two-rank 1-D Poisson toy system: two
// 4-row local chains (diag 2, off-diag -1) joined by a single
// cross-rank edge between each rank's interface row (its local row 3),
// carried through B/Halo instead of A. Rank 0 owns global rows [0,4),
// rank 1 owns [4,8); the global row ids are bookkeeping labels for
// rowmap, not a physical mesh ordering.
func buildTwoRankChain(net *halo.MemNetwork, rank int) *DistributedMatrix {
	rowPtr := []int{0, 2, 5, 8, 10}
	colIdx := []int{0, 1, 0, 1, 2, 1, 2, 3, 2, 3}
	a := bcsr.New(1, 4, 4, rowPtr, colIdx)
	// fill A: tridiagonal chain 0-1-2-3, diag=2, offdiag=-1
	vals := map[[2]int]float64{
		{0, 0}: 2, {0, 1}: -1,
		{1, 0}: -1, {1, 1}: 2, {1, 2}: -1,
		{2, 1}: -1, {2, 2}: 2, {2, 3}: -1,
		{3, 2}: -1, {3, 3}: 2,
	}
	for i := 0; i < 4; i++ {
		for k := rowPtr[i]; k < rowPtr[i+1]; k++ {
			a.Vals[k] = vals[[2]int{i, colIdx[k]}]
		}
	}

	b := bcsr.New(1, 1, 1, []int{0, 1}, []int{0})
	b.Vals[0] = -1

	other := 1 - rank
	foreignGlobal := 4*other + 3 // the other rank's local row 3
	h := halo.New(1, net.Transport(rank),
		[]halo.SendSpec{{Rank: other, Rows: []int{3}}},
		[]halo.RecvSpec{{Rank: other, Offset: 0, Count: 1}},
		[]int{foreignGlobal},
	)

	rows := rowmap.New([]int{0, 4, 8}, rank)
	return New(a, b, rows, h, nil, NopReporter{})
}

// runMult drives Mult on both ranks concurrently, since rank 0's Halo.End
// blocks until rank 1 has posted its send and vice versa.
func runMult(dm0, dm1 *DistributedMatrix, x0, y0, x1, y1 []float64) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); dm0.Mult(x0, y0) }()
	go func() { defer wg.Done(); dm1.Mult(x1, y1) }()
	wg.Wait()
}
