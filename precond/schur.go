package precond

import (
	"github.com/camader/tacs/bcsr"
	"github.com/camader/tacs/halo"
)

// SchurOperator implements, against an already-factored diagonal
// block, the implicit interface-length operator:
//
//	S*v = v + U_s^{-1} L_s^{-1} (B * x_ext(v))
//
// where x_ext(v) is the halo gather of v embedded at the interface
// rows of an otherwise-zero local vector, and L_s, U_s are the
// factorization's interface-row blocks. It never materializes the
// Schur complement; every application costs one halo exchange, one B
// multiply and one partial (interface-restricted) triangular solve
// pair.
type SchurOperator struct {
	factor *bcsr.Factored
	b      *bcsr.Matrix
	h      *halo.Halo
	ctx    *halo.Ctx
	np     int
	nc     int
	bs     int
	xExt   []float64
	vFull  []float64
	wFull  []float64
}

// NewSchurOperator builds a SchurOperator over an already-factored
// diagonal block. factor and b are observed, not owned: the caller
// (ApproximateSchurPreconditioner) refactors them and this operator
// picks up the new values on the next Mult.
func NewSchurOperator(factor *bcsr.Factored, b *bcsr.Matrix, h *halo.Halo, np int) *SchurOperator {
	return &SchurOperator{
		factor: factor, b: b, h: h, ctx: h.CreateCtx(),
		np: np, nc: b.Nrow, bs: factor.B,
		xExt:  make([]float64, h.Dim()*factor.B),
		vFull: make([]float64, factor.N*factor.B),
		wFull: make([]float64, factor.N*factor.B),
	}
}

// Dim returns the interface scalar length Nc*B.
func (s *SchurOperator) Dim() int { return s.nc * s.bs }

// Mult computes w := v + U_s^{-1} L_s^{-1} (B * x_ext(v)).
func (s *SchurOperator) Mult(v, w []float64) {
	lo := s.np * s.bs
	for i := range s.vFull {
		s.vFull[i] = 0
	}
	copy(s.vFull[lo:], v)

	s.h.Begin(s.ctx, s.vFull, s.xExt)
	s.h.End(s.ctx)

	for i := range s.wFull {
		s.wFull[i] = 0
	}
	ifaceW := s.wFull[lo:]
	s.b.Mult(s.xExt, ifaceW)

	s.factor.ApplyPartialLower(s.wFull, s.wFull, s.np)
	s.factor.ApplyPartialUpper(s.wFull, s.wFull, s.np)

	for i, val := range v {
		w[i] = s.wFull[lo+i] + val
	}
}

// CreateVec allocates a zeroed interface-length scratch vector.
func (s *SchurOperator) CreateVec() []float64 { return make([]float64, s.Dim()) }
