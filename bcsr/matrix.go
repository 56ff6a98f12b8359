// Package bcsr implements the block-CSR numeric kernels that the
// distributed core is built on: storage, mat-vec, scalar ops, ILU(k)
// factorization and the partial triangular solves the Schur
// preconditioner needs. A "scalar" of this format is a dense b×b
// block stored row-major; every row/column index in this package is a
// block index, not a scalar index.
package bcsr

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Matrix is a block-CSR matrix of fixed block size B and shape Nrow×Ncol
// (in block units). RowPtr has length Nrow+1; ColIdx and Vals are
// parallel arrays of length nnz (RowPtr[Nrow]) and nnz*B*B respectively,
// block k's entries occupying Vals[k*B*B : (k+1)*B*B] row-major.
type Matrix struct {
	B        int
	Nrow     int
	Ncol     int
	RowPtr   []int
	ColIdx   []int
	Vals     []float64
	diagIdx  []int // per row, index into ColIdx/Vals of the diagonal block, or -1
	diagInv  []float64 // Nrow*B*B, cached inverted diagonal blocks after FactorDiag
	diagOK   bool
}

// New builds a matrix from a CSR pattern (rowPtr, colIdx) and zeroed
// values. The pattern is not copied defensively; callers must not
// mutate it afterwards except through this type's methods.
func New(b, nrow, ncol int, rowPtr, colIdx []int) *Matrix {
	if b <= 0 {
		chk.Panic("bcsr: block size must be positive, got %d", b)
	}
	if len(rowPtr) != nrow+1 {
		chk.Panic("bcsr: rowPtr must have length nrow+1=%d, got %d", nrow+1, len(rowPtr))
	}
	nnz := rowPtr[nrow]
	if len(colIdx) != nnz {
		chk.Panic("bcsr: colIdx length %d does not match rowPtr[nrow]=%d", len(colIdx), nnz)
	}
	m := &Matrix{
		B: b, Nrow: nrow, Ncol: ncol,
		RowPtr: rowPtr, ColIdx: colIdx,
		Vals: make([]float64, nnz*b*b),
	}
	m.buildDiagIdx()
	return m
}

func (m *Matrix) buildDiagIdx() {
	m.diagIdx = make([]int, m.Nrow)
	for i := 0; i < m.Nrow; i++ {
		m.diagIdx[i] = -1
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			if m.ColIdx[k] == i {
				m.diagIdx[i] = k
				break
			}
		}
	}
}

// RowDim, ColDim and BlockSize are the matrix's basic introspection contract.
func (m *Matrix) RowDim() int    { return m.Nrow }
func (m *Matrix) ColDim() int    { return m.Ncol }
func (m *Matrix) BlockSize() int { return m.B }

// NNZ returns the number of stored blocks.
func (m *Matrix) NNZ() int { return m.RowPtr[m.Nrow] }

// Arrays exposes the raw CSR pattern and values, read-only by convention.
func (m *Matrix) Arrays() (rowp, cols []int, vals []float64) {
	return m.RowPtr, m.ColIdx, m.Vals
}

// block returns a view of block k as a blas64.General.
func (m *Matrix) block(k int) blas64.General {
	b := m.B
	return blas64.General{Rows: b, Cols: b, Stride: b, Data: m.Vals[k*b*b : (k+1)*b*b]}
}

// Zero sets every stored value to zero.
func (m *Matrix) Zero() {
	for i := range m.Vals {
		m.Vals[i] = 0
	}
	m.diagOK = false
}

// Copy copies values (and checks pattern identity) from src into m.
func (m *Matrix) Copy(src *Matrix) error {
	if !m.samePattern(src) {
		return fmt.Errorf("bcsr: Copy requires identical sparsity pattern")
	}
	copy(m.Vals, src.Vals)
	m.diagOK = false
	return nil
}

func (m *Matrix) samePattern(o *Matrix) bool {
	if m.B != o.B || m.Nrow != o.Nrow || m.Ncol != o.Ncol || len(m.ColIdx) != len(o.ColIdx) {
		return false
	}
	for i := range m.RowPtr {
		if m.RowPtr[i] != o.RowPtr[i] {
			return false
		}
	}
	for i := range m.ColIdx {
		if m.ColIdx[i] != o.ColIdx[i] {
			return false
		}
	}
	return true
}

// Scale multiplies every stored value by alpha.
func (m *Matrix) Scale(alpha float64) {
	for i := range m.Vals {
		m.Vals[i] *= alpha
	}
	m.diagOK = false
}

// Axpy performs m := alpha*other + m, requiring identical sparsity.
func (m *Matrix) Axpy(alpha float64, other *Matrix) error {
	if !m.samePattern(other) {
		return fmt.Errorf("bcsr: Axpy requires identical sparsity pattern")
	}
	for i := range m.Vals {
		m.Vals[i] += alpha * other.Vals[i]
	}
	m.diagOK = false
	return nil
}

// Axpby performs m := alpha*other + beta*m, requiring identical sparsity.
func (m *Matrix) Axpby(alpha, beta float64, other *Matrix) error {
	if !m.samePattern(other) {
		return fmt.Errorf("bcsr: Axpby requires identical sparsity pattern")
	}
	for i := range m.Vals {
		m.Vals[i] = alpha*other.Vals[i] + beta*m.Vals[i]
	}
	m.diagOK = false
	return nil
}

// AddDiag adds alpha to every scalar diagonal entry of every diagonal
// block. Rows without a stored diagonal block are skipped silently:
// B never has a diagonal per spec, and callers rely on that.
func (m *Matrix) AddDiag(alpha float64) {
	b := m.B
	for i := 0; i < m.Nrow && i < m.Ncol; i++ {
		k := m.diagIdx[i]
		if k < 0 {
			continue
		}
		blk := m.Vals[k*b*b : (k+1)*b*b]
		for d := 0; d < b; d++ {
			blk[d*b+d] += alpha
		}
	}
	m.diagOK = false
}

// ZeroRow zeros the n_vars within-block scalar variables named in
// varList for block row, across every stored column, leaving the rest
// of the row untouched. If keepDiag is true and the row has a stored
// diagonal block, the diagonal entries for those variables are
// instead set to 1 (identity substitution) rather than 0.
func (m *Matrix) ZeroRow(row int, varList []int, keepDiag bool) {
	b := m.B
	for k := m.RowPtr[row]; k < m.RowPtr[row+1]; k++ {
		blk := m.Vals[k*b*b : (k+1)*b*b]
		isDiag := keepDiag && m.ColIdx[k] == row
		for _, v := range varList {
			for c := 0; c < b; c++ {
				blk[v*b+c] = 0
			}
			if isDiag {
				blk[v*b+v] = 1
			}
		}
	}
	m.diagOK = false
}

// Mult computes y := A*x. x has length Ncol*B, y has length Nrow*B.
func (m *Matrix) Mult(x, y []float64) {
	m.spmv(x, y, 0)
}

// MultAdd computes z := y + A*x.
func (m *Matrix) MultAdd(x, y, z []float64) {
	if len(z) != len(y) {
		chk.Panic("bcsr: MultAdd length mismatch")
	}
	copy(z, y)
	m.spmv(x, z, 1)
}

// spmv computes dst := A*x when beta is 0 and dst += A*x for any other
// beta (dst is not scaled), using blas64.Gemv per block.
func (m *Matrix) spmv(x, dst []float64, beta float64) {
	b := m.B
	if beta == 0 {
		for i := range dst[:m.Nrow*b] {
			dst[i] = 0
		}
	}
	for i := 0; i < m.Nrow; i++ {
		yi := blas64.Vector{N: b, Inc: 1, Data: dst[i*b : (i+1)*b]}
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			j := m.ColIdx[k]
			xj := blas64.Vector{N: b, Inc: 1, Data: x[j*b : (j+1)*b]}
			blas64.Gemv(blas.NoTrans, 1, m.block(k), xj, 1, yi)
		}
	}
}

// FactorDiag inverts and caches the per-row diagonal b×b block, the
// scratch used by SOR/SSOR relaxation. It performs no communication
// and does not touch off-diagonal entries.
func (m *Matrix) FactorDiag() {
	b := m.B
	if m.diagInv == nil {
		m.diagInv = make([]float64, m.Nrow*b*b)
	}
	for i := 0; i < m.Nrow; i++ {
		k := m.diagIdx[i]
		dst := m.diagInv[i*b*b : (i+1)*b*b]
		if k < 0 {
			for d := 0; d < b; d++ {
				dst[d*b+d] = 1
			}
			continue
		}
		copy(dst, m.Vals[k*b*b:(k+1)*b*b])
		inv, ok := blockInverse(dst, b)
		if !ok {
			chk.Panic("bcsr: singular diagonal block at row %d", i)
		}
		copy(dst, inv)
	}
	m.diagOK = true
}
