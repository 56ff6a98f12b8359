package precond

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/camader/tacs/bcsr"
	"github.com/camader/tacs/dist"
	"github.com/camader/tacs/halo"
	"github.com/camader/tacs/rowmap"
)

func Test_relax01(tst *testing.T) {

	chk.PrintTitle("relax01. single-rank symmetric SOR converges from a zero guess")

	dm := buildSingleRank1D(10)
	r := NewRelaxation(dm, RelaxConfig{ZeroGuess: false, Omega: 1.0, Iters: 1, Symmetric: true})
	r.Factor()

	rhs := dm.CreateVec()
	for i := range rhs {
		rhs[i] = 1
	}
	y := dm.CreateVec()

	residual := func() float64 {
		ay := make([]float64, len(y))
		dm.A.Mult(y, ay)
		var s float64
		for i := range rhs {
			d := rhs[i] - ay[i]
			s += d * d
		}
		return math.Sqrt(s)
	}

	prev := residual()
	for it := 0; it < 50; it++ {
		r.Apply(rhs, y)
		cur := residual()
		if cur > prev+1e-10 {
			tst.Errorf("residual increased at iter %d: %v -> %v", it, prev, cur)
			return
		}
		prev = cur
	}
	if prev >= 1e-3 {
		tst.Errorf("relaxation did not converge below 1e-3: got %v", prev)
	}
}

func Test_relax02(tst *testing.T) {

	chk.PrintTitle("relax02. non-zero-guess Apply folds the (empty) interface correction in")

	dm := buildSingleRank1D(5)
	r := NewRelaxation(dm, RelaxConfig{ZeroGuess: false, Omega: 1.0, Iters: 1, Symmetric: false})
	r.Factor()

	x := dm.CreateVec()
	for i := range x {
		x[i] = float64(i + 1)
	}
	y := dm.CreateVec()
	r.Apply(x, y)

	// with Nc=0 the interface correction is a no-op; confirm a sweep
	// runs and produces a finite, non-trivial result.
	var sum float64
	for _, v := range y {
		sum += v
	}
	if sum == 0 {
		tst.Errorf("expected a non-trivial SOR sweep result, got all zeros")
	}
}

// poisonTransport fails the test if either Send or Recv is ever
// invoked, used below to prove that a zero-guess Apply never posts a
// halo exchange even when the local domain has a non-empty interface.
type poisonTransport struct{ tst *testing.T }

func (p poisonTransport) Send(vals []float64, to int) {
	p.tst.Fatalf("poisonTransport.Send called: zero-guess Apply must not touch the halo")
}

func (p poisonTransport) Recv(vals []float64, from int) {
	p.tst.Fatalf("poisonTransport.Recv called: zero-guess Apply must not touch the halo")
}

// buildInterfaceRankPoisoned builds a single rank's 4-row local chain
// with one interface row (Nc=1) wired to a transport that fails the
// test if it is ever used, so any test exercising it can assert that
// no communication happened.
func buildInterfaceRankPoisoned(tst *testing.T) *dist.DistributedMatrix {
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

	h := halo.New(1, poisonTransport{tst},
		[]halo.SendSpec{{Rank: 1, Rows: []int{3}}},
		[]halo.RecvSpec{{Rank: 1, Offset: 0, Count: 1}},
		[]int{7},
	)

	rows := rowmap.New([]int{0, 4}, 0)
	return dist.New(a, b, rows, h, nil, dist.NopReporter{})
}

func Test_relax03_zeroguess_skips_halo(tst *testing.T) {

	chk.PrintTitle("relax03. zero-guess Apply on a domain with Nc>0 never touches the halo")

	dm := buildInterfaceRankPoisoned(tst)
	r := NewRelaxation(dm, RelaxConfig{ZeroGuess: true, Omega: 1.0, Iters: 2, Symmetric: true})
	r.Factor()

	x := dm.CreateVec()
	for i := range x {
		x[i] = float64(i + 1)
	}
	y := dm.CreateVec()
	r.Apply(x, y) // must not call poisonTransport.Send/Recv

	// the result must equal a direct sweep of A against x with a zero
	// initial guess (no coupling correction applies when y starts at 0).
	want := dm.CreateVec()
	dm.A.FactorDiag()
	dm.A.ApplySSOR(x, want, 1.0, 2, true)
	chk.Vector(tst, "zero-guess Apply == direct SSOR(x)", 1e-14, y, want)
}
