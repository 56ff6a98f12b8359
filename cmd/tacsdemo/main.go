// Command tacsdemo assembles a two-rank toy 1-D Poisson system — an
// 8-node chain split 4/4 with one interface node per rank — and drives
// it with a preconditioned outer Richardson iteration using either
// preconditioner, printing the residual history and writing the
// non-zero-pattern diagnostic dump. It plays the role gofem's own
// main.go plays: MPI bootstrap, colored status output and panic
// recovery, but for this module's single executable rather than a
// full FE simulation.
package main

import (
	"flag"
	"math"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"

	"github.com/camader/tacs/bcsr"
	"github.com/camader/tacs/dist"
	"github.com/camader/tacs/halo"
	"github.com/camader/tacs/precond"
	"github.com/camader/tacs/rowmap"
)

func main() {

	precondName := flag.String("precond", "schur", "preconditioner: 'schur' or 'relax'")
	outerIters := flag.Int("iters", 20, "outer Richardson iterations")
	dumpPath := flag.String("out", "tacs_dump.dat", "diagnostic non-zero-pattern dump path")
	flag.Parse()

	mpi.Start(false)
	defer mpi.Stop(false)

	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				io.Pfred("tacsdemo: fatal: %v\n", err)
			}
		}
	}()

	if mpi.Rank() != 0 {
		return // this demo only drives its toy system on a single OS process
	}

	io.Pf("tacsdemo: two-rank 1-D Poisson toy system, preconditioner=%s\n", *precondName)

	net := halo.NewMemNetwork()
	dm0 := buildRank(net, 0)
	dm1 := buildRank(net, 1)

	pc0, pc1 := buildPreconditioner(*precondName, dm0, dm1)

	x0 := []float64{1, 1, 1, 1}
	x1 := []float64{1, 1, 1, 1}
	y0 := make([]float64, 4)
	y1 := make([]float64, 4)

	for it := 0; it <= *outerIters; it++ {
		res := residual(dm0, dm1, x0, x1, y0, y1)
		io.Pf("  iter %3d: |r| = %12.5e\n", it, res)
		if it == *outerIters {
			break
		}
		r0, r1 := computeResidualVec(dm0, dm1, x0, x1, y0, y1)
		z0 := make([]float64, 4)
		z1 := make([]float64, 4)
		runDual(func() { pc0.Apply(r0, z0) }, func() { pc1.Apply(r1, z1) })
		for i := 0; i < 4; i++ {
			y0[i] += z0[i]
			y1[i] += z1[i]
		}
	}

	dist.DumpPattern(*dumpPath, dm0, 0)
	io.Pf("tacsdemo: wrote diagnostic dump to %s\n", *dumpPath)
}

// applier is the common apply(x, y) shape both preconditioners expose.
type applier interface {
	Apply(x, y []float64)
}

func buildPreconditioner(name string, dm0, dm1 *dist.DistributedMatrix) (applier, applier) {
	switch name {
	case "relax":
		r0 := precond.NewRelaxation(dm0, precond.RelaxConfig{Omega: 1.0, Iters: 2, Symmetric: true})
		r1 := precond.NewRelaxation(dm1, precond.RelaxConfig{Omega: 1.0, Iters: 2, Symmetric: true})
		runDual(r0.Factor, r1.Factor)
		return r0, r1
	case "schur":
		cfg := precond.SchurConfig{LevelFill: 1, Fill: 1.0, InnerIters: 4, InnerRTol: 1e-3, InnerATol: 1e-10}
		p0 := precond.NewApproxSchur(dm0, cfg, 2)
		p1 := precond.NewApproxSchur(dm1, cfg, 2)
		runDual(p0.Factor, p1.Factor)
		return p0, p1
	default:
		chk.Panic("tacsdemo: unknown -precond %q (want 'schur' or 'relax')", name)
		return nil, nil
	}
}

func runDual(f0, f1 func()) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); f0() }()
	go func() { defer wg.Done(); f1() }()
	wg.Wait()
}

// buildRank assembles one rank's 4-row local chain (diag 2, off-diag
// -1) of the 8-node toy system; the cross-rank edge between each
// rank's interface row (local 3) lives in B/Halo instead of A, using
// utl.IntRange the way gofem's own toy-partition fixtures build index
// ranges.
func buildRank(net *halo.MemNetwork, rank int) *dist.DistributedMatrix {
	locals := utl.IntRange(4)
	rowPtr := []int{0, 2, 5, 8, 10}
	colIdx := []int{0, 1, 0, 1, 2, 1, 2, 3, 2, 3}
	a := bcsr.New(1, len(locals), len(locals), rowPtr, colIdx)
	vals := map[[2]int]float64{
		{0, 0}: 2, {0, 1}: -1,
		{1, 0}: -1, {1, 1}: 2, {1, 2}: -1,
		{2, 1}: -1, {2, 2}: 2, {2, 3}: -1,
		{3, 2}: -1, {3, 3}: 2,
	}
	for _, i := range locals {
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
	return dist.New(a, b, rows, h, nil, dist.StderrReporter{})
}

func computeResidualVec(dm0, dm1 *dist.DistributedMatrix, x0, x1, y0, y1 []float64) (r0, r1 []float64) {
	ay0 := make([]float64, 4)
	ay1 := make([]float64, 4)
	runDual(func() { dm0.Mult(y0, ay0) }, func() { dm1.Mult(y1, ay1) })
	r0 = make([]float64, 4)
	r1 = make([]float64, 4)
	for i := 0; i < 4; i++ {
		r0[i] = x0[i] - ay0[i]
		r1[i] = x1[i] - ay1[i]
	}
	return
}

func residual(dm0, dm1 *dist.DistributedMatrix, x0, x1, y0, y1 []float64) float64 {
	r0, r1 := computeResidualVec(dm0, dm1, x0, x1, y0, y1)
	var s float64
	for i := 0; i < 4; i++ {
		s += r0[i]*r0[i] + r1[i]*r1[i]
	}
	return math.Sqrt(s)
}
