// Package dist implements the distributed block-sparse matrix: a
// diagonal block A and a coupling block B partitioned across ranks by
// a rowmap.Map, together with the boundary-condition enforcement and
// diagnostic dump that operate on that partition.
package dist

import (
	"github.com/cpmech/gosl/chk"

	"github.com/camader/tacs/bcsr"
	"github.com/camader/tacs/halo"
	"github.com/camader/tacs/rowmap"
)

// DistributedLinearOperator is the small capability interface
// distributed operators share: DistributedMatrix is its only
// production implementation, but scalar ops that need to type-check a
// dynamic argument (copyFrom, axpy, axpby) accept this interface so a
// foreign kind can be rejected with TypeMismatch instead of failing to
// compile against a concrete type the caller doesn't have.
type DistributedLinearOperator interface {
	Sizes() (nRows, nCols int)
	Mult(x, y []float64)
	CreateVec() []float64
}

// DistributedMatrix owns the diagonal block A (N×N), the coupling
// block B (Nc×M_ext), the shared row map and BC list, and the Halo
// together with its external buffer.
type DistributedMatrix struct {
	A    *bcsr.Matrix
	Bmat *bcsr.Matrix
	Rows *rowmap.Map
	H    *halo.Halo
	BCs  *BCList

	np     int // strictly-interior block rows
	nc     int // interface block rows
	xExt   []float64
	ctx    *halo.Ctx
	Report Reporter
}

// New validates and assembles a DistributedMatrix. Every
// dimension/block-size mismatch between a, b, h and rows is a
// ConfigurationError and is fatal.
func New(a, b *bcsr.Matrix, rows *rowmap.Map, h *halo.Halo, bcs *BCList, report Reporter) *DistributedMatrix {
	if report == nil {
		report = StderrReporter{}
	}
	if err := validate(a, b, rows, h); err != nil {
		chk.Panic("%v", err)
	}
	m := &DistributedMatrix{
		A: a, Bmat: b, Rows: rows, H: h, BCs: bcs,
		nc: b.Nrow, np: a.Nrow - b.Nrow,
		xExt:   make([]float64, h.Dim()*a.B),
		Report: report,
	}
	m.ctx = h.CreateCtx()
	return m
}

func validate(a, b *bcsr.Matrix, rows *rowmap.Map, h *halo.Halo) error {
	if a.Nrow != a.Ncol {
		return configErrorf("diagonal block A must be square, got %d x %d", a.Nrow, a.Ncol)
	}
	if a.B != b.B {
		return configErrorf("block size mismatch between A (%d) and B (%d)", a.B, b.B)
	}
	if rows.LocalN() != a.Nrow {
		return configErrorf("row map local range has %d rows, A has %d", rows.LocalN(), a.Nrow)
	}
	if b.Nrow > a.Nrow {
		return configErrorf("coupling block B has more rows (%d) than A (%d): Nc must be <= N", b.Nrow, a.Nrow)
	}
	if b.Ncol != h.Dim() {
		return configErrorf("coupling block B has %d columns but Halo provides %d external values", b.Ncol, h.Dim())
	}
	return nil
}

// Sizes returns the logical square dimension of the local diagonal
// piece, in scalar units.
func (m *DistributedMatrix) Sizes() (nRows, nCols int) {
	n := m.A.Nrow * m.A.B
	return n, n
}

// CreateVec allocates a zeroed vector of local scalar length.
func (m *DistributedMatrix) CreateVec() []float64 {
	n, _ := m.Sizes()
	return make([]float64, n)
}

// Np returns the number of strictly-interior block rows on this rank.
func (m *DistributedMatrix) Np() int { return m.np }

// Nc returns the number of interface block rows on this rank.
func (m *DistributedMatrix) Nc() int { return m.nc }

// Zero zeros both A and B.
func (m *DistributedMatrix) Zero() {
	m.A.Zero()
	m.Bmat.Zero()
}

// CopyFrom copies A and B values element-wise from src, which must be
// structurally identical. A dynamic kind other than *DistributedMatrix
// is a TypeMismatch, reported and turned into a no-op.
func (m *DistributedMatrix) CopyFrom(src DistributedLinearOperator) error {
	other, ok := src.(*DistributedMatrix)
	if !ok {
		err := &TypeMismatch{Op: "CopyFrom", Msg: "source is not a *DistributedMatrix"}
		m.Report.Report("%v", err)
		return nil
	}
	if err := m.A.Copy(other.A); err != nil {
		err2 := &TypeMismatch{Op: "CopyFrom", Msg: err.Error()}
		m.Report.Report("%v", err2)
		return nil
	}
	if err := m.Bmat.Copy(other.Bmat); err != nil {
		err2 := &TypeMismatch{Op: "CopyFrom", Msg: err.Error()}
		m.Report.Report("%v", err2)
		return nil
	}
	return nil
}

// Scale multiplies A and B by alpha.
func (m *DistributedMatrix) Scale(alpha float64) {
	m.A.Scale(alpha)
	m.Bmat.Scale(alpha)
}

// Axpy performs m := alpha*other + m on A and B independently.
func (m *DistributedMatrix) Axpy(alpha float64, src DistributedLinearOperator) error {
	other, ok := src.(*DistributedMatrix)
	if !ok {
		err := &TypeMismatch{Op: "Axpy", Msg: "source is not a *DistributedMatrix"}
		m.Report.Report("%v", err)
		return nil
	}
	if err := m.A.Axpy(alpha, other.A); err != nil {
		m.Report.Report("%v", &TypeMismatch{Op: "Axpy", Msg: err.Error()})
		return nil
	}
	if err := m.Bmat.Axpy(alpha, other.Bmat); err != nil {
		m.Report.Report("%v", &TypeMismatch{Op: "Axpy", Msg: err.Error()})
		return nil
	}
	return nil
}

// Axpby performs m := alpha*other + beta*m on A and B independently.
func (m *DistributedMatrix) Axpby(alpha, beta float64, src DistributedLinearOperator) error {
	other, ok := src.(*DistributedMatrix)
	if !ok {
		err := &TypeMismatch{Op: "Axpby", Msg: "source is not a *DistributedMatrix"}
		m.Report.Report("%v", err)
		return nil
	}
	if err := m.A.Axpby(alpha, beta, other.A); err != nil {
		m.Report.Report("%v", &TypeMismatch{Op: "Axpby", Msg: err.Error()})
		return nil
	}
	if err := m.Bmat.Axpby(alpha, beta, other.Bmat); err != nil {
		m.Report.Report("%v", &TypeMismatch{Op: "Axpby", Msg: err.Error()})
		return nil
	}
	return nil
}

// AddDiag applies a diagonal scalar shift to A only; B has no diagonal.
func (m *DistributedMatrix) AddDiag(alpha float64) { m.A.AddDiag(alpha) }

// Mult computes y := A*x + B*x_ext, overlapping the halo exchange with
// the interior SpMV: the halo is posted before the interior multiply
// and only waited on right before B is touched.
func (m *DistributedMatrix) Mult(x, y []float64) {
	b := m.A.B
	m.H.Begin(m.ctx, x, m.xExt)
	m.A.Mult(x, y)
	m.H.End(m.ctx)
	if m.nc == 0 {
		return
	}
	lo := m.np * b
	ifaceY := y[lo:]
	m.Bmat.MultAdd(m.xExt, ifaceY, ifaceY)
}

// ApplyBCs enforces every boundary condition in BCs whose global row
// falls in this rank's owned range: the corresponding block row of A
// is zeroed with the identity substituted on its diagonal for the
// constrained variables, and if the row is also an interface row (its
// local index >= Np), the corresponding row of B is zeroed with no
// diagonal substitution (B has none).
func (m *DistributedMatrix) ApplyBCs() {
	if m.BCs == nil {
		return
	}
	lo, hi := m.Rows.LocalRange()
	for _, bc := range m.BCs.Entries() {
		if bc.GlobalRow < lo || bc.GlobalRow >= hi {
			continue
		}
		local := bc.GlobalRow - lo
		m.A.ZeroRow(local, bc.VarMask, true)
		if ifaceRow := local - m.np; ifaceRow >= 0 {
			m.Bmat.ZeroRow(ifaceRow, bc.VarMask, false)
		}
	}
}
