// Register notation for disassembly and debugging.
//
// Scalars render as S<bank><col><row>, column vectors as C<bank><col><row>,
// row vectors as R<bank><row><col>, matrices as M (or E when
// transposed). Each call returns a freshly allocated string.

package insts

import "fmt"

// VectorNotation renders a vector register field as a short mnemonic.
func VectorNotation(reg int, sz VectorSize) string {
	bank := (reg >> 2) & 7
	col := reg & 3
	row := 0
	transpose := (reg >> 5) & 1

	var c byte
	switch sz {
	case VSingle:
		transpose = 0
		c = 'S'
		row = (reg >> 5) & 3
	case VPair:
		c = 'C'
		row = (reg >> 5) & 2
	case VTriple:
		c = 'C'
		row = (reg >> 6) & 1
	case VQuad:
		c = 'C'
		row = (reg >> 5) & 2
	default:
		c = '?'
	}
	if transpose != 0 && c == 'C' {
		c = 'R'
	}
	if transpose != 0 {
		return fmt.Sprintf("%c%d%d%d", c, bank, row, col)
	}
	return fmt.Sprintf("%c%d%d%d", c, bank, col, row)
}

// MatrixNotation renders a matrix register field as a short mnemonic.
func MatrixNotation(reg int, sz MatrixSize) string {
	bank := (reg >> 2) & 7
	col := reg & 3
	row := 0
	transpose := (reg >> 5) & 1

	var c byte
	switch sz {
	case M2x2:
		c = 'M'
		row = (reg >> 5) & 2
	case M3x3:
		c = 'M'
		row = (reg >> 6) & 1
	case M4x4:
		c = 'M'
		row = (reg >> 5) & 2
	default:
		c = '?'
	}
	if transpose != 0 && c == 'M' {
		c = 'E'
	}
	if transpose != 0 {
		return fmt.Sprintf("%c%d%d%d", c, bank, row, col)
	}
	return fmt.Sprintf("%c%d%d%d", c, bank, col, row)
}
