package precond

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_localilu01(tst *testing.T) {

	chk.PrintTitle("localilu01. LocalILU.Apply(A x) == x exactly when k >= bandwidth(A)")

	dm := buildSingleRank1D(6)
	p := NewLocalILU(dm.A, ILUConfig{LevelFill: 1, Fill: 1.0, Alpha: 0}, nil)
	p.Factor(dm.A)

	x := dm.CreateVec()
	for i := range x {
		x[i] = float64(i + 1)
	}
	ax := make([]float64, len(x))
	dm.A.Mult(x, ax)

	y := make([]float64, len(x))
	p.Apply(ax, y)
	chk.Vector(tst, "y", 1e-10, y, x)
}
