// Package rowmap implements the distributed row-owner map: the lookup
// from a global block row to the rank that owns it and that rank's
// local index. It is built once and shared, read-only, by every
// DistributedMatrix and preconditioner that reads it afterwards.
package rowmap

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Map is an immutable partition of the global block row index space
// into contiguous per-rank ranges. Lo has length NumRanks()+1; rank r
// owns block rows [Lo[r], Lo[r+1]).
type Map struct {
	Lo   []int
	Rank int
}

// New builds a Map directly from precomputed boundaries, for tests and
// for single-process use. lo must be non-decreasing and start at 0.
func New(lo []int, rank int) *Map {
	for i := 1; i < len(lo); i++ {
		if lo[i] < lo[i-1] {
			chk.Panic("rowmap: owner boundaries must be non-decreasing, got %v", lo)
		}
	}
	if rank < 0 || rank >= len(lo)-1 {
		chk.Panic("rowmap: rank %d out of range for %d partitions", rank, len(lo)-1)
	}
	return &Map{Lo: lo, Rank: rank}
}

// BuildFromLocalCount constructs the global Map from each rank's own
// local row count n, without any rank needing to know the others'
// counts up front. It exploits mpi.AllReduceSum's element-wise sum
// across ranks: each rank contributes its count only in its own slot
// of a P-length vector (every other slot left zero), so the reduction
// recovers every rank's count on every rank in one collective, the
// same trick the gofem pack's implicit time-stepping solver uses to
// combine per-rank essential-bc contributions into a globally
// consistent right-hand side (fem/s_linimp.go's
// `mpi.AllReduceSum(d.Fb, d.Wb)`).
func BuildFromLocalCount(n int) *Map {
	p := mpi.Size()
	rank := mpi.Rank()
	if p <= 1 {
		return New([]int{0, n}, 0)
	}
	local := make([]float64, p)
	local[rank] = float64(n)
	global := make([]float64, p)
	mpi.AllReduceSum(global, local)
	lo := make([]int, p+1)
	for r := 0; r < p; r++ {
		lo[r+1] = lo[r] + int(global[r]+0.5)
	}
	return New(lo, rank)
}

// NumRanks returns the number of partitions (ranks) in this map.
func (m *Map) NumRanks() int { return len(m.Lo) - 1 }

// N returns the total number of global block rows.
func (m *Map) N() int { return m.Lo[len(m.Lo)-1] }

// LocalRange returns this rank's owned [lo, hi) block-row range.
func (m *Map) LocalRange() (lo, hi int) { return m.Lo[m.Rank], m.Lo[m.Rank+1] }

// LocalN returns the number of block rows owned by this rank.
func (m *Map) LocalN() int {
	lo, hi := m.LocalRange()
	return hi - lo
}

// Owner returns the rank owning global block row g, found by binary
// search over the sorted partition boundaries (O(log P)).
func (m *Map) Owner(g int) int {
	if g < 0 || g >= m.N() {
		chk.Panic("rowmap: global row %d out of range [0,%d)", g, m.N())
	}
	// sort.Search finds the first index i such that Lo[i+1] > g, i.e.
	// the owning partition.
	r := sort.Search(len(m.Lo)-1, func(i int) bool { return m.Lo[i+1] > g })
	return r
}

// LocalIndex returns the local row index within the owner's range for
// global row g, together with the owning rank.
func (m *Map) LocalIndex(g int) (owner, local int) {
	owner = m.Owner(g)
	return owner, g - m.Lo[owner]
}

// GlobalIndex converts a local row index on the given rank back to a
// global block row.
func (m *Map) GlobalIndex(rank, local int) int { return m.Lo[rank] + local }
