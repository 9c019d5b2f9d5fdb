// VFPU register field decoding.
//
// A register field packs bank, column, row and transpose into 7 bits:
//
//	bits 0-1: base column
//	bits 2-4: bank (matrix slot)
//	bits 5-6: base row / transpose, split differently per size class
//
// Decoding advances along the row or column axis from the base
// position, wrapping each coordinate modulo 4. The wraparound is a
// hardware quirk: out-of-range base positions fold back into the 4x4
// bank instead of faulting.

package insts

import "fmt"

// VectorSlots decodes a vector register field into the physical slot
// indices of its elements. Only the first NumVectorElements(sz)
// entries of the result are meaningful. Slot indices are always in
// [0, NumSlots).
func VectorSlots(sz VectorSize, reg int) [4]uint8 {
	bank := (reg >> 2) & 7
	col := reg & 3
	row := 0
	length := 0
	transpose := (reg >> 5) & 1

	switch sz {
	case VSingle:
		transpose = 0
		row = (reg >> 5) & 3
		length = 1
	case VPair:
		row = (reg >> 5) & 2
		length = 2
	case VTriple:
		row = (reg >> 6) & 1
		length = 3
	case VQuad:
		row = (reg >> 5) & 2
		length = 4
	default:
		panic(fmt.Sprintf("VectorSlots: bad vector size %d", sz))
	}

	var slots [4]uint8
	for i := 0; i < length; i++ {
		if transpose != 0 {
			slots[i] = uint8(bank*16 + ((row+i)&3)*4 + col)
		} else {
			slots[i] = uint8(bank*16 + col*4 + ((row+i)&3))
		}
	}
	return slots
}

// MatrixSlots decodes a matrix register field into the physical slot
// indices of its elements, laid out with a fixed stride of 4:
// element (i, j) (row i of column j) is at index j*4+i. Only the
// MatrixSide(sz) leading rows and columns are meaningful.
func MatrixSlots(sz MatrixSize, reg int) [16]uint8 {
	bank := (reg >> 2) & 7
	col := reg & 3
	row := 0
	side := 0
	transpose := (reg >> 5) & 1

	switch sz {
	case M1x1:
		transpose = 0
		row = (reg >> 5) & 3
		side = 1
	case M2x2:
		row = (reg >> 5) & 2
		side = 2
	case M3x3:
		row = (reg >> 6) & 1
		side = 3
	case M4x4:
		row = (reg >> 5) & 2
		side = 4
	default:
		panic(fmt.Sprintf("MatrixSlots: bad matrix size %d", sz))
	}

	var slots [16]uint8
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			if transpose != 0 {
				slots[j*4+i] = uint8(bank*16 + ((row+i)&3)*4 + ((col+j)&3))
			} else {
				slots[j*4+i] = uint8(bank*16 + ((col+j)&3)*4 + ((row+i)&3))
			}
		}
	}
	return slots
}

// MatrixName composes the register field naming a whole matrix of the
// given bank. For 3x3 and 2x2 sizes, row and column select the base
// position and must be 0 or 2 (bit 0 of either is ignored by the
// hardware); 4x4 matrices always start at (0, 0). Out-of-range row or
// column values fold into the encoding the same way the hardware
// would interpret them.
func MatrixName(bank int, sz MatrixSize, column, row int, transposed bool) int {
	name := bank * 4
	if transposed {
		name |= 1 << 5
	}

	switch sz {
	case M4x4:
		// Base position is fixed; row and column are not encoded.
	case M3x3:
		name |= row<<6 | column
	case M2x2:
		name |= row<<5 | column
	default:
		panic(fmt.Sprintf("MatrixName: bad matrix size %d", sz))
	}

	return name
}

// ColumnName composes the vector register field naming one column of
// the given bank, at the given row offset.
func ColumnName(bank, column, offset int) int {
	return bank*4 + column + offset*32
}

// RowName composes the vector register field naming one row of the
// given bank. The transpose bit distinguishes row vectors from column
// vectors of the same bank, so the two never collide in encoding
// space.
func RowName(bank, column, offset int) int {
	return 0x20 | (bank*4 + column + offset*32)
}

// MatrixColumns synthesizes the vector register fields covering each
// column of the given matrix register. Only the first
// MatrixSide(sz) entries of the result are meaningful. Columns of a
// transposed matrix are rows of the underlying bank.
func MatrixColumns(sz MatrixSize, reg int) [4]int {
	n := MatrixSide(sz)

	col := reg & 3
	row := (reg >> 5) & 2
	transpose := (reg >> 5) & 1

	var vecs [4]int
	for i := 0; i < n; i++ {
		vecs[i] = transpose<<5 | row<<5 | (reg & 0x1C) | (i + col)
	}
	return vecs
}

// MatrixRows synthesizes the vector register fields covering each row
// of the given matrix register, by flipping the transpose bit and
// swapping the base coordinates.
func MatrixRows(sz MatrixSize, reg int) [4]int {
	n := MatrixSide(sz)
	col := reg & 3
	row := (reg >> 5) & 2

	swappedCol := 0
	if row != 0 {
		if sz == M3x3 {
			swappedCol = 1
		} else {
			swappedCol = 2
		}
	}
	swappedRow := 0
	if col != 0 {
		swappedRow = 2
	}
	transpose := ((reg >> 5) & 1) ^ 1

	var vecs [4]int
	for i := 0; i < n; i++ {
		vecs[i] = transpose<<5 | swappedRow<<5 | (reg & 0x1C) | (i + swappedCol)
	}
	return vecs
}
