// Operand overlap analysis.
//
// Instructions whose correctness depends on source and destination
// independence (in-place matrix copy, transpose) consult these before
// executing. Sizes are at most 4, so the exhaustive comparisons are a
// small fixed cost.

package insts

// MatrixOverlapType classifies how two matrix operands share physical
// storage.
type MatrixOverlapType int

const (
	// OverlapNone means the operands share no physical slot.
	OverlapNone MatrixOverlapType = iota
	// OverlapPartial means the operands share at least one slot but
	// are not the same register.
	OverlapPartial
	// OverlapEqual means the operands are the identical register.
	OverlapEqual
)

// VectorOverlap counts the physical slots shared by two vector
// operands. A register fully overlaps itself, so
// VectorOverlap(r, sz, r, sz) == NumVectorElements(sz).
func VectorOverlap(reg1 int, sz1 VectorSize, reg2 int, sz2 VectorSize) int {
	// Different banks can't overlap, return early.
	if (reg1>>2)&7 != (reg2>>2)&7 {
		return 0
	}

	n1 := NumVectorElements(sz1)
	n2 := NumVectorElements(sz2)
	slots1 := VectorSlots(sz1, reg1)
	slots2 := VectorSlots(sz2, reg2)

	count := 0
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			if slots1[i] == slots2[j] {
				count++
			}
		}
	}
	return count
}

// MatrixOverlap classifies the storage overlap of two matrix operands
// of the same size.
func MatrixOverlap(reg1, reg2 int, sz MatrixSize) MatrixOverlapType {
	n := MatrixSide(sz)

	if reg1 == reg2 {
		return OverlapEqual
	}

	m1 := MatrixSlots(sz, reg1)
	m2 := MatrixSlots(sz, reg2)

	// Simply do an exhaustive search.
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			val := m1[y*4+x]
			for a := 0; a < n; a++ {
				for b := 0; b < n; b++ {
					if m2[a*4+b] == val {
						return OverlapPartial
					}
				}
			}
		}
	}

	return OverlapNone
}
