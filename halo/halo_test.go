package halo

import (
	"sync"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_begin_end01 exercises a 3-rank ring exchange (b=2): each rank
// sends its one interface row to its right neighbor and receives one
// external row from its left neighbor, concurrently, since Begin never
// blocks and only End waits for the transfers to land.
func Test_begin_end01(tst *testing.T) {

	chk.PrintTitle("begin_end01. ring exchange over three simulated ranks")

	net := NewMemNetwork()
	b := 2
	n := 3

	halos := make([]*Halo, n)
	for r := 0; r < n; r++ {
		right := (r + 1) % n
		left := (r - 1 + n) % n
		halos[r] = New(b, net.Transport(r),
			[]SendSpec{{Rank: right, Rows: []int{0}}},
			[]RecvSpec{{Rank: left, Offset: 0, Count: 1}},
			[]int{left},
		)
	}

	src := [][]float64{{1, 10}, {2, 20}, {3, 30}}
	dst := make([][]float64, n)
	for r := range dst {
		dst[r] = make([]float64, b)
	}

	var wg sync.WaitGroup
	ctxs := make([]*Ctx, n)
	for r := 0; r < n; r++ {
		ctxs[r] = halos[r].CreateCtx()
	}
	for r := 0; r < n; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			halos[r].Begin(ctxs[r], src[r], dst[r])
			halos[r].End(ctxs[r])
		}(r)
	}
	wg.Wait()

	for r := 0; r < n; r++ {
		left := (r - 1 + n) % n
		chk.Vector(tst, "dst", 1e-15, dst[r], src[left])
	}
}

func Test_dim01(tst *testing.T) {

	chk.PrintTitle("dim01. Dim/Indices reflect the recv schedule")

	net := NewMemNetwork()
	h := New(1, net.Transport(0), nil,
		[]RecvSpec{{Rank: 1, Offset: 0, Count: 2}, {Rank: 2, Offset: 2, Count: 1}},
		[]int{10, 11, 12},
	)
	chk.IntAssert(h.Dim(), 3)
	chk.Vector(tst, "indices", 0, float64sOf(h.Indices()), []float64{10, 11, 12})
}

func float64sOf(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
