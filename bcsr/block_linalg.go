package bcsr

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// blockInverse returns the inverse of the b×b block stored row-major in
// a, via LU factorization (lapack64.Getrf) followed by explicit
// inversion (lapack64.Getri), both run on a private copy, so a itself
// is not modified; ok is false if the block is numerically singular.
func blockInverse(a []float64, b int) (inv []float64, ok bool) {
	work := make([]float64, len(a))
	copy(work, a)
	gen := blas64.General{Rows: b, Cols: b, Stride: b, Data: work}
	ipiv := make([]int, b)
	ok = lapack64.Getrf(gen, ipiv)
	if !ok {
		return nil, false
	}
	lwork := b * b
	scratch := make([]float64, lwork)
	ok = lapack64.Getri(gen, ipiv, scratch, lwork)
	if !ok {
		return nil, false
	}
	return work, true
}

// blockMatMul computes c := alpha*a*b + beta*c for b×b blocks stored
// row-major, via blas64.Gemm.
func blockMatMul(c []float64, alpha float64, a, bMat []float64, beta float64, n int) {
	ga := blas64.General{Rows: n, Cols: n, Stride: n, Data: a}
	gb := blas64.General{Rows: n, Cols: n, Stride: n, Data: bMat}
	gc := blas64.General{Rows: n, Cols: n, Stride: n, Data: c}
	blas64.Gemm(blas.NoTrans, blas.NoTrans, alpha, ga, gb, beta, gc)
}

// blockGemv computes y := alpha*A*x + beta*y for a b×b block A and
// length-b vectors x, y.
func blockGemv(y []float64, alpha float64, a []float64, x []float64, beta float64, n int) {
	ga := blas64.General{Rows: n, Cols: n, Stride: n, Data: a}
	vx := blas64.Vector{N: n, Inc: 1, Data: x}
	vy := blas64.Vector{N: n, Inc: 1, Data: y}
	blas64.Gemv(blas.NoTrans, alpha, ga, vx, beta, vy)
}

func blockCopy(dst, src []float64) {
	copy(dst, src)
}

func blockSub(dst []float64, a, c []float64) {
	for i := range dst {
		dst[i] = a[i] - c[i]
	}
}
