package precond

import (
	"github.com/camader/tacs/bcsr"
	"github.com/camader/tacs/dist"
	"github.com/camader/tacs/halo"
	"github.com/camader/tacs/rowmap"
)

// buildTwoRankChain mirrors dist's own test fixture: two 4-row local
// chains (diag 2, off-diag -1) joined by one cross-rank edge between
// each rank's interface row (local row 3), a symmetric system used to
// check <Sv,w> = <v,Sw>.
func buildTwoRankChain(net *halo.MemNetwork, rank int) *dist.DistributedMatrix {
	rowPtr := []int{0, 2, 5, 8, 10}
	colIdx := []int{0, 1, 0, 1, 2, 1, 2, 3, 2, 3}
	a := bcsr.New(1, 4, 4, rowPtr, colIdx)
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
	foreignGlobal := 4*other + 3
	h := halo.New(1, net.Transport(rank),
		[]halo.SendSpec{{Rank: other, Rows: []int{3}}},
		[]halo.RecvSpec{{Rank: other, Offset: 0, Count: 1}},
		[]int{foreignGlobal},
	)

	rows := rowmap.New([]int{0, 4, 8}, rank)
	return dist.New(a, b, rows, h, nil, dist.NopReporter{})
}
