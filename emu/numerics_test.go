package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emulab/pspsim/emu"
)

func bitsOf(f float32) uint32 {
	return math.Float32bits(f)
}

var inf32 = float32(math.Inf(1))

var _ = Describe("Hardware numerics", func() {
	Describe("Dot", func() {
		It("should compute simple unit products exactly", func() {
			Expect(emu.Dot(
				[4]float32{1, 0, 0, 0},
				[4]float32{1, 0, 0, 0},
			)).To(Equal(float32(1.0)))
		})

		It("should sum aligned lanes exactly", func() {
			Expect(emu.Dot(
				[4]float32{1, 1, 0, 0},
				[4]float32{1, 1, 0, 0},
			)).To(Equal(float32(2.0)))
			Expect(emu.Dot(
				[4]float32{2, 0, 0, 0},
				[4]float32{3, 0, 0, 0},
			)).To(Equal(float32(6.0)))
		})

		It("should carry the sign through the accumulator", func() {
			Expect(emu.Dot(
				[4]float32{-1, 0, 0, 0},
				[4]float32{1, 0, 0, 0},
			)).To(Equal(float32(-1.0)))
		})

		It("should return zero for all-zero operands", func() {
			Expect(emu.Dot(
				[4]float32{0, 0, 0, 0},
				[4]float32{0, 0, 0, 0},
			)).To(Equal(float32(0.0)))
		})

		It("should produce the hardware NaN for infinity times zero", func() {
			got := emu.Dot(
				[4]float32{inf32, 0, 0, 0},
				[4]float32{0, 1, 1, 1},
			)
			Expect(bitsOf(got)).To(Equal(uint32(0x7F800001)))
		})

		It("should produce the hardware NaN for infinity minus infinity", func() {
			got := emu.Dot(
				[4]float32{inf32, -inf32, 0, 0},
				[4]float32{1, 1, 0, 0},
			)
			Expect(bitsOf(got)).To(Equal(uint32(0x7F800001)))
		})

		It("should propagate a single infinite lane", func() {
			got := emu.Dot(
				[4]float32{inf32, 1, 0, 0},
				[4]float32{1, 1, 0, 0},
			)
			Expect(bitsOf(got)).To(Equal(uint32(0x7F800000)))
		})
	})

	Describe("Sqrt", func() {
		It("should compute exact squares exactly", func() {
			Expect(emu.Sqrt(1.0)).To(Equal(float32(1.0)))
			Expect(emu.Sqrt(4.0)).To(Equal(float32(2.0)))
		})

		It("should return unsigned zero for either zero", func() {
			Expect(bitsOf(emu.Sqrt(0.0))).To(Equal(uint32(0)))
			Expect(bitsOf(emu.Sqrt(float32(math.Copysign(0, -1))))).To(Equal(uint32(0)))
		})

		It("should return the hardware NaN for negative input", func() {
			Expect(bitsOf(emu.Sqrt(-1.0))).To(Equal(uint32(0x7F800001)))
		})

		It("should pass positive infinity through", func() {
			Expect(bitsOf(emu.Sqrt(inf32))).To(Equal(uint32(0x7F800000)))
		})

		It("should force NaN inputs to the hardware NaN", func() {
			nan := math.Float32frombits(0x7FC00000)
			Expect(bitsOf(emu.Sqrt(nan))).To(Equal(uint32(0x7F800001)))
		})

		It("should never set the low two mantissa bits", func() {
			for _, x := range []float32{0.5, 1.5, 2.0, 3.0, 7.25, 10000.0, 1e-20} {
				b := bitsOf(emu.Sqrt(x))
				Expect(b & 3).To(Equal(uint32(0)))
			}
		})
	})

	Describe("Rsqrt", func() {
		It("should compute exact powers of four exactly", func() {
			Expect(emu.Rsqrt(1.0)).To(Equal(float32(1.0)))
			Expect(emu.Rsqrt(4.0)).To(Equal(float32(0.5)))
		})

		It("should return zero for positive infinity", func() {
			Expect(emu.Rsqrt(inf32)).To(Equal(float32(0.0)))
		})

		It("should return signed infinity for zeros", func() {
			Expect(bitsOf(emu.Rsqrt(0.0))).To(Equal(uint32(0x7F800000)))
			neg0 := math.Float32frombits(0x80000000)
			Expect(bitsOf(emu.Rsqrt(neg0))).To(Equal(uint32(0xFF800000)))
		})

		It("should return the negative hardware NaN for negative input", func() {
			Expect(bitsOf(emu.Rsqrt(-1.0))).To(Equal(uint32(0xFF800001)))
		})

		It("should preserve the sign on NaN input", func() {
			nan := math.Float32frombits(0x7FC00000)
			Expect(bitsOf(emu.Rsqrt(nan))).To(Equal(uint32(0x7F800001)))
			negNan := math.Float32frombits(0xFFC00000)
			Expect(bitsOf(emu.Rsqrt(negNan))).To(Equal(uint32(0xFF800001)))
		})

		It("should never set the low two mantissa bits", func() {
			for _, x := range []float32{0.5, 1.5, 2.0, 3.0, 7.25, 10000.0, 1e-20} {
				b := bitsOf(emu.Rsqrt(x))
				Expect(b & 3).To(Equal(uint32(0)))
			}
		})
	})

	Describe("Sin and Cos", func() {
		It("should flush tiny angles below the precision threshold", func() {
			Expect(bitsOf(emu.Sin(1e-10))).To(Equal(uint32(0)))
			Expect(bitsOf(emu.Sin(-1e-10))).To(Equal(uint32(0x80000000)))
			Expect(emu.Cos(1e-10)).To(Equal(float32(1.0)))
			Expect(emu.Cos(-1e-10)).To(Equal(float32(1.0)))
		})

		It("should hit the quarter-turn points exactly", func() {
			// The angle unit is a quarter turn: the wave repeats
			// every 4.0.
			Expect(emu.Sin(0.0)).To(Equal(float32(0.0)))
			Expect(emu.Sin(1.0)).To(Equal(float32(1.0)))
			Expect(bitsOf(emu.Sin(2.0))).To(Equal(uint32(0x80000000)))
			Expect(emu.Sin(3.0)).To(Equal(float32(-1.0)))
			Expect(bitsOf(emu.Sin(4.0))).To(Equal(uint32(0)))

			Expect(emu.Cos(0.0)).To(Equal(float32(1.0)))
			Expect(bitsOf(emu.Cos(1.0))).To(Equal(uint32(0x80000000)))
			Expect(emu.Cos(2.0)).To(Equal(float32(-1.0)))
			Expect(bitsOf(emu.Cos(3.0))).To(Equal(uint32(0)))
			Expect(emu.Cos(4.0)).To(Equal(float32(1.0)))
		})

		It("should reduce large angles modulo 4", func() {
			Expect(emu.Sin(5.0)).To(Equal(float32(1.0)))
			Expect(bitsOf(emu.Sin(8.0))).To(Equal(uint32(0)))
			Expect(emu.Cos(8.0)).To(Equal(float32(1.0)))
		})

		It("should preserve the input sign in Sin's NaN but not Cos's", func() {
			negInf := float32(math.Inf(-1))
			Expect(bitsOf(emu.Sin(inf32))).To(Equal(uint32(0x7F800001)))
			Expect(bitsOf(emu.Sin(negInf))).To(Equal(uint32(0xFF800001)))
			Expect(bitsOf(emu.Cos(negInf))).To(Equal(uint32(0x7F800001)))
		})

		It("should never set the low two mantissa bits for finite angles", func() {
			for _, x := range []float32{0.1, 0.33, 0.9, 1.1, 2.7, 3.9, 17.42, -0.66, -5.5, 1234.5} {
				Expect(bitsOf(emu.Sin(x)) & 3).To(Equal(uint32(0)))
				Expect(bitsOf(emu.Cos(x)) & 3).To(Equal(uint32(0)))
			}
		})
	})

	Describe("SinCos", func() {
		It("should match Sin and Cos bit for bit", func() {
			angles := []float32{
				0, 1e-10, 0.1, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.7,
				4.0, 5.25, 100.5, 12345.678,
				-0.1, -1.0, -2.5, -3.7, -100.5,
			}
			for _, x := range angles {
				s, c := emu.SinCos(x)
				Expect(bitsOf(s)).To(Equal(bitsOf(emu.Sin(x))), "sin of %v", x)
				Expect(bitsOf(c)).To(Equal(bitsOf(emu.Cos(x))), "cos of %v", x)
			}
		})

		It("should match Sin and Cos on NaN and infinity", func() {
			for _, b := range []uint32{0x7F800000, 0xFF800000, 0x7FC00001} {
				x := math.Float32frombits(b)
				s, c := emu.SinCos(x)
				Expect(bitsOf(s)).To(Equal(bitsOf(emu.Sin(x))))
				Expect(bitsOf(c)).To(Equal(bitsOf(emu.Cos(x))))
			}
		})
	})

	Describe("Float16ToFloat32", func() {
		It("should convert normals", func() {
			Expect(emu.Float16ToFloat32(0x3C00)).To(Equal(float32(1.0)))
			Expect(emu.Float16ToFloat32(0xBC00)).To(Equal(float32(-1.0)))
			Expect(emu.Float16ToFloat32(0x4000)).To(Equal(float32(2.0)))
			Expect(bitsOf(emu.Float16ToFloat32(0x3555))).To(Equal(uint32(0x3EAAA000)))
		})

		It("should convert signed zeros", func() {
			Expect(bitsOf(emu.Float16ToFloat32(0x0000))).To(Equal(uint32(0)))
			Expect(bitsOf(emu.Float16ToFloat32(0x8000))).To(Equal(uint32(0x80000000)))
		})

		It("should map the full exponent to infinity and NaN", func() {
			Expect(bitsOf(emu.Float16ToFloat32(0x7C00))).To(Equal(uint32(0x7F800000)))
			Expect(bitsOf(emu.Float16ToFloat32(0xFC00))).To(Equal(uint32(0xFF800000)))
			// NaN payload lands unshifted in the low mantissa bits.
			Expect(bitsOf(emu.Float16ToFloat32(0x7E00))).To(Equal(uint32(0x7F800200)))
		})

		It("should normalize subnormals with the rebias loop", func() {
			Expect(bitsOf(emu.Float16ToFloat32(0x0001))).To(Equal(uint32(0x33000000)))
			Expect(bitsOf(emu.Float16ToFloat32(0x03FF))).To(Equal(uint32(0x37FFC000)))
		})
	})
})
