package dist

import (
	"bytes"

	"github.com/cpmech/gosl/io"
)

// DumpPattern writes the per-rank non-zero-pattern diagnostic dump: a
// Tecplot-style ASCII file with one zone for the diagonal block and
// one for the off-diagonal block, using global block indices
// throughout. Callers aggregate the per-rank files themselves; this
// function only ever writes the calling rank's piece.
func DumpPattern(path string, m *DistributedMatrix, rank int) {
	var buf bytes.Buffer
	io.Ff(&buf, "VARIABLES = \"i\", \"j\"\n")

	io.Ff(&buf, "ZONE T = \"Diagonal block %d\"\n", rank)
	rowp, cols, _ := m.A.Arrays()
	for i := 0; i < m.A.Nrow; i++ {
		gi := m.Rows.GlobalIndex(rank, i)
		for k := rowp[i]; k < rowp[i+1]; k++ {
			gj := m.Rows.GlobalIndex(rank, cols[k])
			io.Ff(&buf, "%d %d\n", gi, gj)
		}
	}

	io.Ff(&buf, "ZONE T = \"Off-diagonal block %d\"\n", rank)
	brp, bcols, _ := m.Bmat.Arrays()
	foreign := m.H.Indices()
	for i := 0; i < m.Bmat.Nrow; i++ {
		gi := m.Rows.GlobalIndex(rank, m.np+i)
		for k := brp[i]; k < brp[i+1]; k++ {
			gj := foreign[bcols[k]]
			io.Ff(&buf, "%d %d\n", gi, gj)
		}
	}

	io.WriteFileV(path, &buf)
}
