// Package precond implements four preconditioners built from a
// dist.DistributedMatrix's already-assembled A and B blocks: plain
// block relaxation, a local-only additive-Schwarz ILU, the implicit
// Schur-complement interface operator, and the two-stage
// preconditioner that composes ILU with an inner Krylov solve on that
// operator.
package precond

import (
	"github.com/camader/tacs/dist"
	"github.com/camader/tacs/halo"
)

// RelaxConfig holds the tunables for block relaxation.
type RelaxConfig struct {
	ZeroGuess bool
	Omega     float64
	Iters     int
	Symmetric bool // false: SOR; true: SSOR
}

// Relaxation applies block (S)SOR to the full distributed system,
// folding the off-diagonal coupling into the right-hand side with one
// halo exchange per apply. The halo handle is obtained from the
// distributed matrix first and every scratch buffer is sized from it,
// so construction never reads a halo dimension before the halo itself
// exists.
type Relaxation struct {
	cfg  RelaxConfig
	dm   *dist.DistributedMatrix
	h    *halo.Halo
	ctx  *halo.Ctx
	xExt []float64
	rhs  []float64
}

// NewRelaxation builds a Relaxation over dm. dm's A must already have
// had FactorDiag called, or Factor must be called before the first Apply.
func NewRelaxation(dm *dist.DistributedMatrix, cfg RelaxConfig) *Relaxation {
	h := dm.H
	return &Relaxation{
		cfg:  cfg,
		dm:   dm,
		h:    h,
		ctx:  h.CreateCtx(),
		xExt: make([]float64, h.Dim()*dm.A.B),
		rhs:  dm.CreateVec(),
	}
}

// Factor caches A's inverted diagonal block; it must be called again
// whenever A's values change.
func (r *Relaxation) Factor() {
	r.dm.A.FactorDiag()
}

// Apply solves A*y ≈ x approximately by Iters sweeps of (S)SOR.
//
// With a zero initial guess the off-diagonal coupling contributes
// nothing (B*x_ext against an all-zero y is zero), so the sweep runs
// directly against x with no halo traffic at all. Otherwise x_ext is
// gathered from y's own current interface values via one halo
// exchange, B*x_ext is subtracted from x to form the right-hand side,
// and the coupling is treated as a frozen correction for the sweep.
func (r *Relaxation) Apply(x, y []float64) {
	if len(x) != len(y) || len(x) != len(r.rhs) {
		r.dm.Report.Report("precond: Relaxation.Apply length mismatch: want %d, got x=%d y=%d", len(r.rhs), len(x), len(y))
		return
	}
	if r.dm.Nc() == 0 || r.cfg.ZeroGuess {
		r.sweep(x, y, r.cfg.ZeroGuess)
		return
	}

	r.h.Begin(r.ctx, y, r.xExt)
	copy(r.rhs, x)
	r.h.End(r.ctx)

	lo := r.dm.Np() * r.dm.A.B
	ifaceRHS := r.rhs[lo:]
	coupling := make([]float64, len(ifaceRHS))
	r.dm.Bmat.Mult(r.xExt, coupling)
	for d := range ifaceRHS {
		ifaceRHS[d] -= coupling[d]
	}
	r.sweep(r.rhs, y, false)
}

func (r *Relaxation) sweep(rhs, y []float64, zero bool) {
	if r.cfg.Symmetric {
		r.dm.A.ApplySSOR(rhs, y, r.cfg.Omega, r.cfg.Iters, zero)
	} else {
		r.dm.A.ApplySOR(rhs, y, r.cfg.Omega, r.cfg.Iters, zero)
	}
}
