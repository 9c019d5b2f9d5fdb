// Package emu provides functional VFPU emulation: the register-file
// context, register access with write masking, and the hardware's
// non-IEEE arithmetic.
package emu

// VFPU control register indices.
const (
	CtrlSPrefix = 0 // source prefix transform
	CtrlTPrefix = 1 // second-source prefix transform
	CtrlDPrefix = 2 // destination prefix transform
	CtrlCC      = 3 // condition codes
	CtrlINF4    = 4
	CtrlRSV5    = 5
	CtrlRSV6    = 6
	CtrlREV     = 7
	CtrlRCX0    = 8
	CtrlRCX1    = 9
	CtrlRCX2    = 10
	CtrlRCX3    = 11
	CtrlRCX4    = 12
	CtrlRCX5    = 13
	CtrlRCX6    = 14
	CtrlRCX7    = 15

	// NumCtrlRegs is the number of VFPU control registers.
	NumCtrlRegs = 16
)

// RegFile represents the VFPU register file.
// It is owned by the CPU context driving the instruction stream and
// must not be shared between concurrently executing instructions.
type RegFile struct {
	// V holds the 128 scalar float slots: 8 banks, each a 4x4 grid.
	// Slot indices follow insts.VectorSlots / insts.MatrixSlots.
	V [128]float32

	// WriteMask holds the per-lane write suppression bits for lanes
	// 0-3, as set by the destination prefix state. A set bit means
	// writes to that lane are skipped.
	WriteMask uint8

	// Ctrl holds the VFPU control registers.
	Ctrl [NumCtrlRegs]uint32
}

// LaneMasked reports whether writes to the given lane are suppressed.
func (r *RegFile) LaneMasked(lane int) bool {
	return r.WriteMask&(1<<lane) != 0
}

// CtrlMask returns the writable-bit mask for a control register.
// It returns ok=false for the read-only registers (RSV5, RSV6, REV)
// and for indices outside the register set.
func CtrlMask(reg int) (mask uint32, ok bool) {
	switch reg {
	case CtrlSPrefix, CtrlTPrefix:
		return 0x000FFFFF, true
	case CtrlDPrefix:
		return 0x00000FFF, true
	case CtrlCC:
		return 0x0000003F, true
	case CtrlINF4:
		return 0xFFFFFFFF, true
	case CtrlRSV5, CtrlRSV6, CtrlREV:
		// Read only, don't change anything.
		return 0, false
	case CtrlRCX0, CtrlRCX1, CtrlRCX2, CtrlRCX3,
		CtrlRCX4, CtrlRCX5, CtrlRCX6, CtrlRCX7:
		return 0x3FFFFFFF, true
	default:
		return 0, false
	}
}

// SetCtrl writes a control register, keeping only the bits the
// hardware defines as writable. Writes to read-only or undefined
// registers are ignored.
func (r *RegFile) SetCtrl(reg int, value uint32) {
	mask, ok := CtrlMask(reg)
	if !ok {
		return
	}
	r.Ctrl[reg] = value & mask
}

// RewritePrefix returns a prefix control register's value with the
// given bits removed and added, without writing it back.
func (r *RegFile) RewritePrefix(ctrl int, remove, add uint32) uint32 {
	return (r.Ctrl[ctrl] &^ remove) | add
}
