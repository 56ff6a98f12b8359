// Package ksm adapts gonum's reverse-communication GMRES
// (gonum.org/v1/gonum/linsolve) into a small inner-solver contract:
// something that can approximately solve op*w=r to a tolerance and
// hand back its best iterate even when it doesn't fully converge,
// since inside a preconditioner non-convergence is not a failure.
package ksm

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/linsolve"
	"gonum.org/v1/gonum/mat"
)

// Operator is the minimal contract ksm needs: exactly what
// precond.SchurOperator already provides.
type Operator interface {
	Mult(x, y []float64)
	Dim() int
}

// Monitor is forwarded convergence history, one call per outer
// (restart) iteration, for a caller's SetMonitor to report to an
// outer driver.
type Monitor func(iter int, residualNorm float64)

// GMRES is a restarted GMRES configured with zero restarts:
// InnerIters bounds the Krylov subspace size (gonum's Restart
// parameter) and, because no second restart cycle is attempted, also
// bounds the total number of inner iterations. Passing InnerIters<=0
// lets gonum use the full operator dimension (unrestarted GMRES).
type GMRES struct {
	InnerIters int
	RTol       float64
	ATol       float64
	Monitor    Monitor
}

// Solve approximately solves op*w = r, using w's current contents as
// the initial guess and overwriting it with the result. It never
// fails on non-convergence; it returns the best iterate found within
// InnerIters steps.
func (g *GMRES) Solve(op Operator, r, w []float64) {
	n := op.Dim()
	if len(r) != n || len(w) != n {
		chk.Panic("ksm: vector length mismatch: dim=%d len(r)=%d len(w)=%d", n, len(r), len(w))
	}

	applyA := func(dst, src *mat.VecDense) {
		y := make([]float64, n)
		op.Mult(src.RawVector().Data, y)
		dst.CopyVec(mat.NewVecDense(n, y))
	}

	x := mat.NewVecDense(n, append([]float64(nil), w...))
	b := mat.NewVecDense(n, append([]float64(nil), r...))
	bnorm := mat.Norm(b, 2)
	tol := g.ATol + g.RTol*bnorm

	ax0 := mat.NewVecDense(n, nil)
	applyA(ax0, x)
	resid0 := mat.NewVecDense(n, nil)
	resid0.SubVec(b, ax0)

	method := &linsolve.GMRES{Restart: g.InnerIters}
	ctx := &linsolve.Context{
		Src: mat.NewVecDense(n, nil),
		Dst: mat.NewVecDense(n, nil),
		X:   mat.NewVecDense(n, nil),
	}
	ctx.X.CopyVec(x)
	method.Init(ctx.X, resid0)

	iters := 0
	for {
		op2, err := method.Iterate(ctx)
		if err != nil {
			// a breakdown of the Krylov method itself, not a data error:
			// fall back to whatever iterate we already have.
			copy(w, ctx.X.RawVector().Data)
			return
		}
		switch op2 {
		case linsolve.MulVec:
			applyA(ctx.Dst, ctx.Src)
		case linsolve.PreconSolve:
			ctx.Dst.CopyVec(ctx.Src) // no inner-inner preconditioning
		case linsolve.ComputeResidual:
			ax := mat.NewVecDense(n, nil)
			applyA(ax, ctx.X)
			ctx.Dst.SubVec(b, ax)
		case linsolve.CheckResidualNorm:
			ctx.Converged = ctx.ResidualNorm <= tol
		case linsolve.MajorIteration:
			iters++
			if g.Monitor != nil {
				g.Monitor(iters, ctx.ResidualNorm)
			}
			copy(w, ctx.X.RawVector().Data)
			return // zero restarts: stop after the first major iteration
		case linsolve.NoOperation:
		}
	}
}
