package precond

import (
	"github.com/camader/tacs/bcsr"
	"github.com/camader/tacs/dist"
	"github.com/camader/tacs/ksm"
)

// SchurConfig holds the tunables for ApproxSchur: the local ILU
// parameters plus the inner GMRES's stopping criteria.
type SchurConfig struct {
	LevelFill  int
	Fill       float64
	Alpha      float64
	InnerIters int
	InnerRTol  float64
	InnerATol  float64
}

// ApproxSchur is the two-stage preconditioner: an ILU(k) factorization
// of the diagonal block, with the interface unknowns resolved by an
// inner GMRES on the implicit SchurOperator instead of the
// factorization's own (locally-truncated) upper solve. With a single
// rank there is no interface to solve for, and apply degenerates
// exactly to LocalILU's apply.
type ApproxSchur struct {
	cfg    SchurConfig
	a      *bcsr.Matrix
	factor *bcsr.Factored
	schur  *SchurOperator
	solver *ksm.GMRES
	r, w   []float64
	np     int
	bs     int
	dm     *dist.DistributedMatrix
	nranks int
	report dist.Reporter
}

// NewApproxSchur builds an ApproxSchur over dm's A/B/Halo; nranks is
// the communicator size, determining whether the Schur stage is used
// at all.
func NewApproxSchur(dm *dist.DistributedMatrix, cfg SchurConfig, nranks int) *ApproxSchur {
	a := dm.A
	cp := bcsr.New(a.B, a.Nrow, a.Ncol, append([]int(nil), a.RowPtr...), append([]int(nil), a.ColIdx...))
	report := dm.Report
	if report == nil {
		report = dist.StderrReporter{}
	}
	return &ApproxSchur{
		cfg: cfg, a: cp, dm: dm, np: dm.Np(), bs: a.B,
		nranks: nranks, report: report,
	}
}

// Factor refactors the local diagonal block and, on more than one
// rank, rebuilds the SchurOperator view of it.
func (p *ApproxSchur) Factor() {
	if err := p.a.Copy(p.dm.A); err != nil {
		p.report.Report("precond: ApproxSchur.Factor: %v", err)
		return
	}
	if p.cfg.Alpha != 0 {
		p.a.AddDiag(p.cfg.Alpha)
	}
	f, err := p.a.Factor(p.cfg.LevelFill, p.cfg.Fill, 0)
	if err != nil {
		p.report.Report("precond: ApproxSchur.Factor: %v", err)
		return
	}
	p.factor = f

	if p.nranks < 2 {
		p.schur = nil
		p.solver = nil
		return
	}
	p.schur = NewSchurOperator(p.factor, p.dm.Bmat, p.dm.H, p.np)
	n := p.schur.Dim()
	if len(p.r) != n {
		p.r = make([]float64, n)
		p.w = make([]float64, n)
	}
	p.solver = &ksm.GMRES{InnerIters: p.cfg.InnerIters, RTol: p.cfg.InnerRTol, ATol: p.cfg.InnerATol}
}

// SetMonitor forwards the inner GMRES's convergence history to mon.
func (p *ApproxSchur) SetMonitor(mon ksm.Monitor) {
	if p.solver != nil {
		p.solver.Monitor = mon
	}
}

// Apply computes the two-stage solve: a full lower solve, an upper
// solve restricted to the interface rows, an inner GMRES correction on
// the Schur complement in place of the factorization's own interface
// upper solve, and finally the interior back-substitution. On a single
// rank it falls back to the plain ILU apply (the interface upper solve
// over the whole domain).
func (p *ApproxSchur) Apply(x, y []float64) {
	if p.factor == nil {
		p.report.Report("precond: ApproxSchur.Apply called before Factor")
		return
	}
	n := p.factor.N * p.factor.B
	if len(x) != n || len(y) != n {
		p.report.Report("precond: ApproxSchur.Apply length mismatch")
		return
	}

	p.factor.ApplyLower(x, y)

	if p.schur == nil {
		p.factor.ApplyPartialUpper(y, y, 0)
		return
	}

	p.factor.ApplyPartialUpper(y, y, p.np)

	lo := p.np * p.bs
	copy(p.r, y[lo:])
	for i := range p.w {
		p.w[i] = 0
	}
	p.solver.Solve(p.schur, p.r, p.w)
	copy(y[lo:], p.w)

	p.factor.ApplyFactorSchur(y, p.np)
}
