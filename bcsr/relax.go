package bcsr

import "github.com/cpmech/gosl/chk"

// ApplySOR performs iters sweeps of (weighted) SOR of m against rhs,
// writing into y. If zeroGuess, y starts from zero; otherwise y is
// used (and overwritten) as the running iterate. FactorDiag must have
// been called first so the cached inverted diagonal block is current.
func (m *Matrix) ApplySOR(rhs, y []float64, omega float64, iters int, zeroGuess bool) {
	if !m.diagOK {
		chk.Panic("bcsr: ApplySOR requires FactorDiag to have been called")
	}
	if zeroGuess {
		for i := range y {
			y[i] = 0
		}
	}
	for it := 0; it < iters; it++ {
		m.sorSweep(rhs, y, omega, true)
	}
}

// ApplySSOR performs iters symmetric sweeps (forward then backward)
// of m against rhs, writing into y.
func (m *Matrix) ApplySSOR(rhs, y []float64, omega float64, iters int, zeroGuess bool) {
	if !m.diagOK {
		chk.Panic("bcsr: ApplySSOR requires FactorDiag to have been called")
	}
	if zeroGuess {
		for i := range y {
			y[i] = 0
		}
	}
	for it := 0; it < iters; it++ {
		m.sorSweep(rhs, y, omega, true)
		m.sorSweep(rhs, y, omega, false)
	}
}

// sorSweep performs one Gauss-Seidel-style sweep over the block rows,
// forward if fwd else backward, with relaxation weight omega:
//
//	y_i := (1-omega) y_i + omega * D_i^{-1} (rhs_i - sum_{j != i} A_ij y_j)
func (m *Matrix) sorSweep(rhs, y []float64, omega float64, fwd bool) {
	b := m.B
	bb := b * b
	acc := make([]float64, b)
	corr := make([]float64, b)
	step := func(i int) {
		copy(acc, rhs[i*b:(i+1)*b])
		for d := range corr {
			corr[d] = 0
		}
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			j := m.ColIdx[k]
			if j == i {
				continue
			}
			blockGemv(corr, 1, m.Vals[k*bb:k*bb+bb], y[j*b:(j+1)*b], 1, b)
		}
		for d := range acc {
			acc[d] -= corr[d]
		}
		upd := make([]float64, b)
		blockGemv(upd, 1, m.diagInv[i*bb:i*bb+bb], acc, 0, b)
		for d := 0; d < b; d++ {
			y[i*b+d] = (1-omega)*y[i*b+d] + omega*upd[d]
		}
	}
	if fwd {
		for i := 0; i < m.Nrow; i++ {
			step(i)
		}
	} else {
		for i := m.Nrow - 1; i >= 0; i-- {
			step(i)
		}
	}
}
