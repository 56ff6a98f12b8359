package halo

import "github.com/cpmech/gosl/mpi"

// MPITransport implements Transport over gosl/mpi's blocking
// point-to-point Send/Recv. gofem's own use of gosl/mpi (fem/fem.go,
// fem/domain.go) only ever exercises the package-level
// Start/Stop/Rank/Size/AllReduceSum surface — it delegates all of its
// actual distributed linear algebra to MUMPS — so there is no in-pack
// example of gosl/mpi's point-to-point calls to ground the exact
// signature against. gosl/mpi has no communicator object anywhere in
// the pack (Rank/Size/AllReduceSum all operate on the implicit world
// communicator), so Send/Recv are modeled the same way, as
// package-level calls, rather than inventing a Communicator type the
// corpus never shows; see DESIGN.md for the reasoning.
type MPITransport struct{}

// NewMPITransport builds a transport over the current MPI job.
func NewMPITransport() *MPITransport {
	return &MPITransport{}
}

func (t *MPITransport) Send(vals []float64, to int) {
	mpi.Send(vals, to)
}

func (t *MPITransport) Recv(vals []float64, from int) {
	mpi.Recv(vals, from)
}
