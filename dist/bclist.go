package dist

// BC is one boundary-condition record: a global block row, the
// within-block variables it constrains, and the values they are
// prescribed to (the values themselves are consumed by whatever
// assembles the right-hand side; applyBCs only needs the mask).
type BC struct {
	GlobalRow int
	VarMask   []int
	Values    []float64
}

// BCList is the sequence of boundary conditions applied once per
// factor() preparation, shared (read-only) across the matrix and every
// preconditioner built from it.
type BCList struct {
	entries []BC
}

// NewBCList builds a shared, immutable BC list.
func NewBCList(entries []BC) *BCList {
	cp := make([]BC, len(entries))
	copy(cp, entries)
	return &BCList{entries: cp}
}

// Entries returns the boundary conditions, in the order supplied.
func (l *BCList) Entries() []BC {
	if l == nil {
		return nil
	}
	return l.entries
}
