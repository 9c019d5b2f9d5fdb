// Register access: gather and scatter through the register-field
// decoding, honoring the per-lane write mask.

package emu

import (
	"github.com/emulab/pspsim/insts"
)

// ReadVector reads a vector operand into rd, which must hold at least
// NumVectorElements(sz) entries.
func (r *RegFile) ReadVector(rd []float32, sz insts.VectorSize, reg int) {
	if sz == insts.VSingle {
		slots := insts.VectorSlots(sz, reg)
		rd[0] = r.V[slots[0]]
		return
	}

	n := insts.NumVectorElements(sz)
	slots := insts.VectorSlots(sz, reg)
	for i := 0; i < n; i++ {
		rd[i] = r.V[slots[i]]
	}
}

// WriteVector writes a vector operand from rd, skipping lanes whose
// write-mask bit is set.
func (r *RegFile) WriteVector(rd []float32, sz insts.VectorSize, reg int) {
	if sz == insts.VSingle {
		// Optimize the common case.
		if !r.LaneMasked(0) {
			slots := insts.VectorSlots(sz, reg)
			r.V[slots[0]] = rd[0]
		}
		return
	}

	n := insts.NumVectorElements(sz)
	slots := insts.VectorSlots(sz, reg)
	if r.WriteMask == 0 {
		for i := 0; i < n; i++ {
			r.V[slots[i]] = rd[i]
		}
		return
	}
	for i := 0; i < n; i++ {
		if !r.LaneMasked(i) {
			r.V[slots[i]] = rd[i]
		}
	}
}

// ReadMatrix reads a matrix operand into rd, laid out with a stride
// of 4: element (i, j) at rd[j*4+i]. rd must hold 16 entries.
func (r *RegFile) ReadMatrix(rd []float32, sz insts.MatrixSize, reg int) {
	side := insts.MatrixSide(sz)
	bank := (reg >> 2) & 7
	col := reg & 3
	row := baseRowOfMatrix(sz, reg)
	transpose := (reg>>5)&1 != 0 && sz != insts.M1x1

	v := r.V[bank*16 : bank*16+16]
	if side == 4 && col == 0 && row == 0 && !transpose {
		// Fast path: a whole untransposed bank is a straight copy.
		copy(rd[:16], v)
		return
	}

	slots := insts.MatrixSlots(sz, reg)
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			rd[j*4+i] = r.V[slots[j*4+i]]
		}
	}
}

// WriteMatrix writes a matrix operand from rd (stride-4 layout, as in
// ReadMatrix).
//
// The write mask applies only to the final column (or row, when
// transposed) of the matrix: only the last destination register of a
// multi-register result honors per-lane masking. This asymmetry
// matches the hardware instruction semantics and is easy to get
// wrong; see the tests covering it before changing anything here.
func (r *RegFile) WriteMatrix(rd []float32, sz insts.MatrixSize, reg int) {
	side := insts.MatrixSide(sz)
	bank := (reg >> 2) & 7
	col := reg & 3
	row := baseRowOfMatrix(sz, reg)
	transpose := (reg>>5)&1 != 0 && sz != insts.M1x1

	if side == 4 && col == 0 && row == 0 && !transpose && r.WriteMask == 0 {
		copy(r.V[bank*16:bank*16+16], rd[:16])
		return
	}

	slots := insts.MatrixSlots(sz, reg)
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			if j != side-1 || !r.LaneMasked(i) {
				r.V[slots[j*4+i]] = rd[j*4+i]
			}
		}
	}
}

// baseRowOfMatrix extracts the base row field for a matrix register,
// using the same per-size bit split as insts.MatrixSlots.
func baseRowOfMatrix(sz insts.MatrixSize, reg int) int {
	switch sz {
	case insts.M1x1:
		return (reg >> 5) & 3
	case insts.M3x3:
		return (reg >> 6) & 1
	default:
		return (reg >> 5) & 2
	}
}
