// Package insts provides VFPU register-operand encoding and decoding.
//
// The VFPU register file is a single flat bank of 128 scalar float
// slots, organized as 8 matrix banks of 4x4 each. The same 7-bit
// register field can name a scalar, a 2/3/4-element vector (row or
// column, selected by a transpose bit) or a 1x1..4x4 matrix, depending
// on an out-of-band size class carried by the opcode. This package
// implements the decoding of those register fields into physical slot
// indices, the size-class algebra, operand overlap analysis, and
// debug notation.
//
// Usage:
//
//	slots := insts.VectorSlots(insts.VQuad, 0x20)
//	n := insts.NumVectorElements(insts.VQuad)
//	fmt.Println(slots[:n], insts.VectorNotation(0x20, insts.VQuad))
package insts

import "fmt"

// VectorSize is the element-count class of a vector operand.
type VectorSize int

// Vector size classes. VInvalid marks encodings with no defined size.
const (
	VInvalid VectorSize = iota
	VSingle             // 1 element
	VPair               // 2 elements
	VTriple             // 3 elements
	VQuad               // 4 elements
)

// MatrixSize is the side-length class of a matrix operand.
type MatrixSize int

// Matrix size classes. MInvalid marks encodings with no defined size.
const (
	MInvalid MatrixSize = iota
	M1x1
	M2x2
	M3x3
	M4x4
)

// NumSlots is the total number of scalar slots in the register file.
const NumSlots = 128

// NumVectorElements returns the element count for a vector size,
// or 0 for VInvalid.
func NumVectorElements(sz VectorSize) int {
	switch sz {
	case VSingle:
		return 1
	case VPair:
		return 2
	case VTriple:
		return 3
	case VQuad:
		return 4
	default:
		return 0
	}
}

// HalfVectorSizeSafe returns the vector size with half as many
// elements, or VInvalid if there is none (VSingle and VTriple have no
// half-size counterpart).
func HalfVectorSizeSafe(sz VectorSize) VectorSize {
	switch sz {
	case VPair:
		return VSingle
	case VQuad:
		return VPair
	default:
		return VInvalid
	}
}

// HalfVectorSize is like HalfVectorSizeSafe but panics on sizes
// without a half-size counterpart. Passing such a size is a bug in
// the instruction decoder.
func HalfVectorSize(sz VectorSize) VectorSize {
	res := HalfVectorSizeSafe(sz)
	if res == VInvalid {
		panic(fmt.Sprintf("HalfVectorSize: bad vector size %d", sz))
	}
	return res
}

// DoubleVectorSizeSafe returns the vector size with twice as many
// elements, or VInvalid if there is none.
func DoubleVectorSizeSafe(sz VectorSize) VectorSize {
	switch sz {
	case VSingle:
		return VPair
	case VPair:
		return VQuad
	default:
		return VInvalid
	}
}

// DoubleVectorSize is like DoubleVectorSizeSafe but panics on sizes
// without a double-size counterpart.
func DoubleVectorSize(sz VectorSize) VectorSize {
	res := DoubleVectorSizeSafe(sz)
	if res == VInvalid {
		panic(fmt.Sprintf("DoubleVectorSize: bad vector size %d", sz))
	}
	return res
}

// VectorSizeOfMatrixSafe returns the vector size corresponding to a
// matrix size (the size of one row or column), or VInvalid.
func VectorSizeOfMatrixSafe(sz MatrixSize) VectorSize {
	switch sz {
	case M1x1:
		return VSingle
	case M2x2:
		return VPair
	case M3x3:
		return VTriple
	case M4x4:
		return VQuad
	default:
		return VInvalid
	}
}

// VectorSizeOfMatrix is like VectorSizeOfMatrixSafe but panics on an
// invalid matrix size.
func VectorSizeOfMatrix(sz MatrixSize) VectorSize {
	res := VectorSizeOfMatrixSafe(sz)
	if res == VInvalid {
		panic(fmt.Sprintf("VectorSizeOfMatrix: bad matrix size %d", sz))
	}
	return res
}

// MatrixSizeOfVectorSafe returns the matrix size corresponding to a
// vector size, or MInvalid.
func MatrixSizeOfVectorSafe(sz VectorSize) MatrixSize {
	switch sz {
	case VSingle:
		return M1x1
	case VPair:
		return M2x2
	case VTriple:
		return M3x3
	case VQuad:
		return M4x4
	default:
		return MInvalid
	}
}

// MatrixSizeOfVector is like MatrixSizeOfVectorSafe but panics on an
// invalid vector size.
func MatrixSizeOfVector(sz VectorSize) MatrixSize {
	res := MatrixSizeOfVectorSafe(sz)
	if res == MInvalid {
		panic(fmt.Sprintf("MatrixSizeOfVector: bad vector size %d", sz))
	}
	return res
}

// MatrixSideSafe returns the side length of a matrix size, or 0 for
// MInvalid.
func MatrixSideSafe(sz MatrixSize) int {
	switch sz {
	case M1x1:
		return 1
	case M2x2:
		return 2
	case M3x3:
		return 3
	case M4x4:
		return 4
	default:
		return 0
	}
}

// MatrixSide is like MatrixSideSafe but panics on an invalid matrix
// size.
func MatrixSide(sz MatrixSize) int {
	res := MatrixSideSafe(sz)
	if res == 0 {
		panic(fmt.Sprintf("MatrixSide: bad matrix size %d", sz))
	}
	return res
}

// VecSizeOfOpcodeSafe extracts the vector size class from an opcode
// word. Bits 7 and 15 select among the four sizes.
func VecSizeOfOpcodeSafe(op uint32) VectorSize {
	a := (op >> 7) & 1
	b := (op >> 15) & 1
	switch a + b<<1 {
	case 0:
		return VSingle
	case 1:
		return VPair
	case 2:
		return VTriple
	case 3:
		return VQuad
	default:
		return VInvalid
	}
}

// VecSizeOfOpcode is like VecSizeOfOpcodeSafe but panics on an
// invalid encoding.
func VecSizeOfOpcode(op uint32) VectorSize {
	res := VecSizeOfOpcodeSafe(op)
	if res == VInvalid {
		panic(fmt.Sprintf("VecSizeOfOpcode: bad vector size in opcode %08x", op))
	}
	return res
}

// MtxSizeOfOpcodeSafe extracts the matrix size class from an opcode
// word. The 0 encoding decodes as 1x1: it appears in disassembly of
// junk but has predictable behavior.
func MtxSizeOfOpcodeSafe(op uint32) MatrixSize {
	a := (op >> 7) & 1
	b := (op >> 15) & 1
	switch a + b<<1 {
	case 0:
		return M1x1
	case 1:
		return M2x2
	case 2:
		return M3x3
	case 3:
		return M4x4
	default:
		return MInvalid
	}
}

// MtxSizeOfOpcode is like MtxSizeOfOpcodeSafe but panics on an
// invalid encoding.
func MtxSizeOfOpcode(op uint32) MatrixSize {
	res := MtxSizeOfOpcodeSafe(op)
	if res == MInvalid {
		panic(fmt.Sprintf("MtxSizeOfOpcode: bad matrix size in opcode %08x", op))
	}
	return res
}
