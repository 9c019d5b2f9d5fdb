// Hardware-exact VFPU arithmetic.
//
// The VFPU does not implement IEEE-754 arithmetic for these
// operations. Dot products accumulate in extended-precision
// fixed point, sqrt and rsqrt run a fixed number of Newton-Raphson
// iterations on the mantissa, and sin/cos use an exponent-based range
// reduction with a deliberate precision cutoff for tiny angles. Game
// code depends on the exact result bits, so everything here works on
// the raw float32 bit patterns and must not be "simplified" into
// calls on the native FPU.

package emu

import (
	"math"
	"math/bits"
)

// Flushes the angle to 0 if the exponent is smaller than this in
// Sin/Cos/SinCos. The hardware cutoff was measured around 0x68, but
// some games are sensitive to the exact curve shape near the
// threshold, so a lower value is used.
const precisionExpThreshold = 0x65

func uexp(x uint32) int32 {
	return int32((x >> 23) & 0xFF)
}

// mant returns the mantissa with the hidden 1 restored.
func mant(x uint32) uint32 {
	return (x & 0x007FFFFF) | 0x00800000
}

func signBit(x uint32) uint32 {
	return x & 0x80000000
}

// clz returns the number of leading zero bits of a nonzero value.
func clz(x uint32) int32 {
	return int32(bits.LeadingZeros32(x))
}

// Dot computes the 4-wide dot product the way the hardware does:
// each lane's product is kept as a fixed-point mantissa with 2 guard
// bits, all lanes are aligned to the largest exponent and summed in a
// single signed accumulator, and the sum is renormalized with
// round-to-even at the guard boundary.
func Dot(a, b [4]float32) float32 {
	const extraBits = 2

	var exps [4]int32
	var mants [4]int32
	var signs [4]uint32
	maxExp := int32(0)
	lastInf := int64(-1)

	for i := 0; i < 4; i++ {
		ai := math.Float32bits(a[i])
		bi := math.Float32bits(b[i])

		aexp := uexp(ai)
		bexp := uexp(bi)
		amant := int32(mant(ai)) << extraBits
		bmant := int32(mant(bi)) << extraBits

		exps[i] = aexp + bexp - 127
		if aexp == 255 {
			// INF * 0 = NAN
			if ai&0x007FFFFF != 0 || bexp == 0 {
				return math.Float32frombits(0x7F800001)
			}
			mants[i] = int32(mant(0)) << extraBits
			exps[i] = 255
		} else if bexp == 255 {
			if bi&0x007FFFFF != 0 || aexp == 0 {
				return math.Float32frombits(0x7F800001)
			}
			mants[i] = int32(mant(0)) << extraBits
			exps[i] = 255
		} else {
			prod := uint64(amant) * uint64(bmant)
			mants[i] = int32((prod >> (23 + extraBits)) & 0x7FFFFFFF)
		}
		signs[i] = signBit(ai) ^ signBit(bi)

		if exps[i] > maxExp {
			maxExp = exps[i]
		}
		if exps[i] >= 255 {
			// Infinity minus infinity is not a real number.
			if lastInf != -1 && int64(signs[i]) != lastInf {
				return math.Float32frombits(0x7F800001)
			}
			lastInf = int64(signs[i])
		}
	}

	mantSum := int32(0)
	for i := 0; i < 4; i++ {
		shift := maxExp - exps[i]
		if shift >= 32 {
			mants[i] = 0
		} else {
			mants[i] >>= uint(shift)
		}
		if signs[i] != 0 {
			mants[i] = -mants[i]
		}
		mantSum += mants[i]
	}

	signSum := uint32(0)
	if mantSum < 0 {
		signSum = 0x80000000
		mantSum = -mantSum
	}

	// Truncate off the guard bits now. We want them zeroed for
	// rounding purposes.
	sum := uint32(mantSum) >> extraBits

	if sum == 0 || maxExp <= 0 {
		return 0.0
	}

	shift := clz(sum) - 8
	if shift < 0 {
		// Round to even if we'd shift away a 0.5.
		roundBit := uint32(1) << uint(-shift-1)
		if sum&roundBit != 0 && sum&(roundBit<<1) != 0 {
			sum += roundBit
			shift = clz(sum) - 8
		} else if sum&roundBit != 0 && sum&(roundBit-1) != 0 {
			sum += roundBit
			shift = clz(sum) - 8
		}
		sum >>= uint(-shift)
		maxExp += -shift
	} else {
		sum <<= uint(shift)
		maxExp -= shift
	}

	if maxExp >= 255 {
		maxExp = 255
		sum = 0
	} else if maxExp <= 0 {
		return 0.0
	}

	return math.Float32frombits(signSum | uint32(maxExp)<<23 | (sum & 0x007FFFFF))
}

// Sqrt computes the hardware square root: 6 fixed-point
// Newton-Raphson iterations on the mantissa, with the low two result
// bits always clear. Negative inputs produce the hardware's NaN
// pattern, not an exception.
func Sqrt(a float32) float32 {
	v := math.Float32bits(a)

	if v&0xFF800000 == 0x7F800000 {
		if v&0x007FFFFF != 0 {
			v = 0x7F800001
		}
		return math.Float32frombits(v)
	}
	if v&0x7F800000 == 0 {
		// Kill any sign.
		return math.Float32frombits(0)
	}
	if v&0x80000000 != 0 {
		return math.Float32frombits(0x7F800001)
	}

	k := uexp(v) - 127
	sp := mant(v)
	lessBits := k & 1
	k >>= 1

	z := uint32(0x00C00000) >> uint(lessBits)
	halfsp := int64(sp>>1) << uint(23-lessBits)
	for i := 0; i < 6; i++ {
		z = (z >> 1) + uint32(halfsp/int64(z))
	}

	v = uint32(k+127)<<23 | ((z << uint(lessBits)) & 0x007FFFFF)
	// The lower two bits never end up set on the hardware.
	v &= 0xFFFFFFFC

	return math.Float32frombits(v)
}

// mantMul multiplies two 23-bit-scaled fixed-point mantissas with the
// hardware's round-to-nearest constant.
func mantMul(a, b uint32) uint32 {
	m := uint64(a) * uint64(b)
	if m&0x007FFFFF != 0 {
		m += 0x01437000
	}
	return uint32(m >> 23)
}

// Rsqrt computes the hardware reciprocal square root: 6 iterations of
// z = z*(1.5 - 0.5*sp*z*z) in 23-bit fixed point via mantMul.
func Rsqrt(a float32) float32 {
	v := math.Float32bits(a)

	if v == 0x7F800000 {
		return 0.0
	}
	if v&0x7FFFFFFF > 0x7F800000 {
		return math.Float32frombits(v&0x80000000 | 0x7F800001)
	}
	if v&0x7F800000 == 0 {
		return math.Float32frombits(v&0x80000000 | 0x7F800000)
	}
	if v&0x80000000 != 0 {
		return math.Float32frombits(0xFF800001)
	}

	k := uexp(v) - 127
	sp := mant(v)
	lessBits := k & 1
	k = -(k >> 1)

	z := uint32(0x00800000) >> uint(lessBits)
	halfsp := sp >> uint(1+lessBits)
	for i := 0; i < 6; i++ {
		zsq := mantMul(z, z)
		correction := 0x00C00000 - mantMul(halfsp, zsq)
		z = mantMul(z, correction)
	}

	shift := clz(z) - 8 + lessBits
	if shift < 1 {
		z >>= uint(-shift)
		k += -shift
	} else if shift > 0 {
		z <<= uint(shift)
		k -= shift
	}

	z >>= uint(lessBits)

	v = uint32(k+127)<<23 | (z & 0x007FFFFF)
	v &= 0xFFFFFFFC

	return math.Float32frombits(v)
}

// reduceAngle performs the sin/cos range reduction: modulus by 4 (the
// wave repeats every 4 units), subtracting off 2 when reached, and
// renormalizing the mantissa. It returns the reduced exponent and
// mantissa and whether the 2 was subtracted. Sin, Cos and SinCos
// differ in how the subtraction flips signs, so they share only this
// mechanical part.
func reduceAngle(k int32, mantissa int32) (int32, int32, bool) {
	wrapped := false
	if k > 0x80 {
		over := uint(k & 0x1F)
		mantissa = (mantissa << over) & 0x00FFFFFF
		k = 0x80
	}
	if k == 0x80 && mantissa >= 1<<23 {
		mantissa -= 1 << 23
		wrapped = true
	}

	normShift := int32(32)
	if mantissa != 0 {
		normShift = clz(uint32(mantissa)) - 8
	}
	mantissa <<= uint(normShift)
	k -= normShift

	return k, mantissa, wrapped
}

// Sin computes the hardware sine of a, where the angle is in the
// hardware's quarter-turn units (the wave repeats every 4.0).
func Sin(a float32) float32 {
	v := math.Float32bits(a)

	k := uexp(v)
	if k == 255 {
		return math.Float32frombits(v&0xFF800001 | 1)
	}

	if k < precisionExpThreshold {
		return math.Float32frombits(v & 0x80000000)
	}

	k, mantissa, wrapped := reduceAngle(k, int32(mant(v)))
	if wrapped {
		// Subtracting the 2 inverts the wave.
		v ^= 0x80000000
	}

	if k <= 0 || mantissa == 0 {
		return math.Float32frombits(v & 0x80000000)
	}

	// This is the value with modulus applied.
	v = v&0x80000000 | uint32(k)<<23 | (uint32(mantissa) &^ (1 << 23))
	s := float32(math.Sin(float64(math.Float32frombits(v)) * (math.Pi / 2)))
	return math.Float32frombits(math.Float32bits(s) & 0xFFFFFFFC)
}

// Cos computes the hardware cosine of a. Unlike Sin, a NaN result
// always comes out with the sign bit clear.
func Cos(a float32) float32 {
	v := math.Float32bits(a)

	k := uexp(v)
	if k == 255 {
		return math.Float32frombits(v&0x7F800001 | 1)
	}

	if k < precisionExpThreshold {
		return 1.0
	}

	k, mantissa, negate := reduceAngle(k, int32(mant(v)))

	if k <= 0 || mantissa == 0 {
		if negate {
			return -1.0
		}
		return 1.0
	}

	v = v&0x80000000 | uint32(k)<<23 | (uint32(mantissa) &^ (1 << 23))
	reduced := math.Float32frombits(v)
	if reduced == 1.0 || reduced == -1.0 {
		// Exact quarter turns; don't let the transcendental round.
		if negate {
			return 0.0
		}
		return math.Float32frombits(0x80000000) // -0.0
	}
	c := float32(math.Cos(float64(reduced) * (math.Pi / 2)))
	c = math.Float32frombits(math.Float32bits(c) & 0xFFFFFFFC)
	if negate {
		return -c
	}
	return c
}

// SinCos computes the hardware sine and cosine of a in one call,
// matching Sin and Cos bit-for-bit. For sin the wave inversion
// negates the input, for cos it negates the output.
func SinCos(a float32) (s, c float32) {
	v := math.Float32bits(a)

	k := uexp(v)
	if k == 255 {
		s = math.Float32frombits(v&0xFF800001 | 1)
		c = math.Float32frombits(v&0x7F800001 | 1)
		return s, c
	}

	if k < precisionExpThreshold {
		s = math.Float32frombits(v & 0x80000000)
		c = 1.0
		return s, c
	}

	k, mantissa, negate := reduceAngle(k, int32(mant(v)))

	if k <= 0 || mantissa == 0 {
		sbits := v & 0x80000000
		if negate {
			sbits ^= 0x80000000
		}
		s = math.Float32frombits(sbits)
		if negate {
			c = -1.0
		} else {
			c = 1.0
		}
		return s, c
	}

	v = v&0x80000000 | uint32(k)<<23 | (uint32(mantissa) &^ (1 << 23))
	reduced := math.Float32frombits(v)

	var sbits, cbits uint32
	switch {
	case reduced == 1.0:
		if negate {
			sbits = math.Float32bits(-1.0)
			cbits = math.Float32bits(0.0)
		} else {
			sbits = math.Float32bits(1.0)
			cbits = 0x80000000 // -0.0
		}
	case reduced == -1.0:
		if negate {
			sbits = math.Float32bits(1.0)
			cbits = math.Float32bits(0.0)
		} else {
			sbits = math.Float32bits(-1.0)
			cbits = 0x80000000
		}
	case negate:
		sbits = math.Float32bits(float32(math.Sin(float64(-reduced) * (math.Pi / 2))))
		cbits = math.Float32bits(-float32(math.Cos(float64(reduced) * (math.Pi / 2))))
	default:
		angle := float64(reduced) * (math.Pi / 2)
		sbits = math.Float32bits(float32(math.Sin(angle)))
		cbits = math.Float32bits(float32(math.Cos(angle)))
	}

	sbits &= 0xFFFFFFFC
	cbits &= 0xFFFFFFFC
	return math.Float32frombits(sbits), math.Float32frombits(cbits)
}

// Half-precision field layout.
const (
	float16SignShift = 15
	float16ExpShift  = 10
	float16ExpMask   = 0x1F
	float16FracMask  = 0x03FF
)

// Float16ToFloat32 converts a half-precision value to single
// precision, normalizing subnormals and preserving NaN payloads in
// the low mantissa bits the way the hardware does.
func Float16ToFloat32(h uint16) float32 {
	sign := uint32(h>>float16SignShift) & 1
	exponent := int32(h>>float16ExpShift) & float16ExpMask
	fraction := uint32(h) & float16FracMask

	if exponent == float16ExpMask {
		return math.Float32frombits(sign<<31 | 255<<23 | fraction)
	}
	if exponent == 0 && fraction == 0 {
		if sign == 1 {
			return math.Float32frombits(0x80000000)
		}
		return 0.0
	}

	if exponent == 0 {
		for fraction&(float16FracMask+1) == 0 {
			fraction <<= 1
			exponent--
		}
		fraction &= float16FracMask
	}

	// Rebias into single precision.
	return math.Float32frombits(sign<<31 | uint32(exponent+112)<<23 | fraction<<13)
}
