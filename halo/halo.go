// Package halo implements the one-shot, overlap-friendly distribution
// primitive that gathers remote interface values into a contiguous
// external buffer: Begin posts the transfers, End waits for them.
package halo

import "sync"

// Transport is the point-to-point send/recv this package needs from
// the underlying communication layer. It is deliberately narrow so the
// rest of the core can be tested with an in-memory fake instead of a
// live MPI run.
type Transport interface {
	Send(vals []float64, to int)
	Recv(vals []float64, from int)
}

// SendSpec describes one neighbor this rank must push owned interface
// values to: Rows holds the local (this-rank) block-row indices whose
// current values the neighbor needs, in the order the neighbor expects
// them packed.
type SendSpec struct {
	Rank int
	Rows []int
}

// RecvSpec describes one neighbor this rank must pull foreign values
// from, landing them at block offset Offset (Count blocks) of the
// external buffer.
type RecvSpec struct {
	Rank   int
	Offset int
	Count  int
}

// Halo is a fixed communication schedule (built once from the mesh
// partition) over a given Transport.
type Halo struct {
	b          int
	transport  Transport
	sendTo     []SendSpec
	recvFrom   []RecvSpec
	mExt       int
	foreignIDs []int
}

// New builds a Halo. foreignIDs holds, for each of the mExt external
// columns (in x_ext order), the owning rank's global block row id; it
// is carried only for the diagnostic dumper.
func New(b int, transport Transport, sendTo []SendSpec, recvFrom []RecvSpec, foreignIDs []int) *Halo {
	mExt := 0
	for _, r := range recvFrom {
		if e := r.Offset + r.Count; e > mExt {
			mExt = e
		}
	}
	return &Halo{b: b, transport: transport, sendTo: sendTo, recvFrom: recvFrom, mExt: mExt, foreignIDs: foreignIDs}
}

// Dim returns M_ext, the number of foreign interface block columns.
func (h *Halo) Dim() int { return h.mExt }

// Indices returns the foreign global block row id of every external
// column, in x_ext order.
func (h *Halo) Indices() []int { return h.foreignIDs }

// Ctx is the scratch state for one concurrent exchange, allocated once
// by CreateCtx and reused across Begin/End pairs.
type Ctx struct {
	sendBufs [][]float64
	wg       sync.WaitGroup
}

// CreateCtx allocates the packing buffers for one concurrent exchange.
func (h *Halo) CreateCtx() *Ctx {
	ctx := &Ctx{sendBufs: make([][]float64, len(h.sendTo))}
	for i, s := range h.sendTo {
		ctx.sendBufs[i] = make([]float64, len(s.Rows)*h.b)
	}
	return ctx
}

// Begin packs src's owned interface rows and posts the sends and
// receives as goroutines; it returns immediately without waiting for
// any of them to complete. The caller may perform local compute on
// src/dst concurrently with the in-flight transfer, provided it does
// not touch the rows being sent or the dst slice being received into.
func (h *Halo) Begin(ctx *Ctx, src, dst []float64) {
	b := h.b
	for i, s := range h.sendTo {
		buf := ctx.sendBufs[i]
		for r, row := range s.Rows {
			copy(buf[r*b:(r+1)*b], src[row*b:(row+1)*b])
		}
		ctx.wg.Add(1)
		go func(rank int, data []float64) {
			defer ctx.wg.Done()
			h.transport.Send(data, rank)
		}(s.Rank, buf)
	}
	for _, r := range h.recvFrom {
		ctx.wg.Add(1)
		go func(rank, offset, count int) {
			defer ctx.wg.Done()
			h.transport.Recv(dst[offset*b:(offset+count)*b], rank)
		}(r.Rank, r.Offset, r.Count)
	}
}

// End waits for every transfer posted by the matching Begin to
// complete. After End returns, dst is safe to read.
func (h *Halo) End(ctx *Ctx) {
	ctx.wg.Wait()
}
