package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCpu() (cpu *Cpu) {
	cpu = NewCpu()
	cpu.SeedRandom(1)
	return
}

func TestExecute_AluAdd(t *testing.T) {
	assert := assert.New(t)

	// For all a, b: result is (a+b) mod 256, VF is 1 iff a+b >= 256.
	for a := 0; a < 256; a += 3 {
		for b := 0; b < 256; b += 7 {
			cpu := newTestCpu()
			cpu.V[1] = uint8(a)
			cpu.V[2] = uint8(b)

			assert.NoError(cpu.Execute(Code(0x8124), NO_KEY))

			assert.Equal(uint8((a+b)%256), cpu.V[1], "%v+%v", a, b)
			carry := uint8(0)
			if a+b >= 256 {
				carry = 1
			}
			assert.Equal(carry, cpu.V[0xF], "%v+%v carry", a, b)
		}
	}
}

func TestExecute_AluSub(t *testing.T) {
	assert := assert.New(t)

	// For all a, b: result is (a-b) mod 256, VF is 1 iff a >= b.
	for a := 0; a < 256; a += 3 {
		for b := 0; b < 256; b += 7 {
			cpu := newTestCpu()
			cpu.V[1] = uint8(a)
			cpu.V[2] = uint8(b)

			assert.NoError(cpu.Execute(Code(0x8125), NO_KEY))

			assert.Equal(uint8((a-b+256)%256), cpu.V[1], "%v-%v", a, b)
			borrow := uint8(0)
			if a >= b {
				borrow = 1
			}
			assert.Equal(borrow, cpu.V[0xF], "%v-%v flag", a, b)
		}
	}
}

func TestExecute_AluSub_Equal(t *testing.T) {
	assert := assert.New(t)

	// Equal operands read as "no borrow": VF is 1.
	cpu := newTestCpu()
	cpu.V[1] = 0x42
	cpu.V[2] = 0x42
	cpu.V[0xF] = 0

	assert.NoError(cpu.Execute(Code(0x8125), NO_KEY))
	assert.Equal(uint8(0), cpu.V[1])
	assert.Equal(uint8(1), cpu.V[0xF])

	cpu.V[1] = 0x42
	cpu.V[2] = 0x42
	cpu.V[0xF] = 0

	assert.NoError(cpu.Execute(Code(0x8127), NO_KEY))
	assert.Equal(uint8(0), cpu.V[1])
	assert.Equal(uint8(1), cpu.V[0xF])
}

func TestExecute_AluSubn(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, b  uint8
		value uint8
		flag  uint8
	}){
		{10, 25, 15, 1},
		{25, 10, 241, 0},
		{0, 255, 255, 1},
	}

	for _, entry := range table {
		cpu := newTestCpu()
		cpu.V[1] = entry.a
		cpu.V[2] = entry.b

		assert.NoError(cpu.Execute(Code(0x8127), NO_KEY))

		assert.Equal(entry.value, cpu.V[1], "%v subn %v", entry.a, entry.b)
		assert.Equal(entry.flag, cpu.V[0xF], "%v subn %v flag", entry.a, entry.b)
	}
}

func TestExecute_AluBitwise(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code  Code
		value uint8
	}){
		{0x8120, 0x3c}, // ld v
		{0x8121, 0x7e}, // or
		{0x8122, 0x18}, // and
		{0x8123, 0x66}, // xor
	}

	for _, entry := range table {
		cpu := newTestCpu()
		cpu.V[1] = 0x5a
		cpu.V[2] = 0x3c
		cpu.V[0xF] = 0xaa

		assert.NoError(cpu.Execute(entry.code, NO_KEY))

		assert.Equal(entry.value, cpu.V[1], "%v", entry.code)
		// These members leave the flag register untouched.
		assert.Equal(uint8(0xaa), cpu.V[0xF], "%v flag", entry.code)
	}
}

func TestExecute_AluShift(t *testing.T) {
	assert := assert.New(t)

	// Classic dialect: Vx takes Vy's value, then shifts; VF takes the
	// bit shifted out of the copied value.
	cpu := newTestCpu()
	cpu.V[1] = 0xff
	cpu.V[2] = 0x81

	assert.NoError(cpu.Execute(Code(0x8126), NO_KEY)) // shr
	assert.Equal(uint8(0x40), cpu.V[1])
	assert.Equal(uint8(1), cpu.V[0xF])

	cpu.V[1] = 0xff
	cpu.V[2] = 0x81

	assert.NoError(cpu.Execute(Code(0x812e), NO_KEY)) // shl
	assert.Equal(uint8(0x02), cpu.V[1])
	assert.Equal(uint8(1), cpu.V[0xF])

	cpu.V[1] = 0xff
	cpu.V[2] = 0x7e

	assert.NoError(cpu.Execute(Code(0x8126), NO_KEY))
	assert.Equal(uint8(0x3f), cpu.V[1])
	assert.Equal(uint8(0), cpu.V[0xF])
}

func TestExecute_AluShift_InPlace(t *testing.T) {
	assert := assert.New(t)

	// SUPER-CHIP dialect: Vy is ignored.
	cpu := newTestCpu()
	cpu.Quirks.ShiftInPlace = true
	cpu.V[1] = 0x81
	cpu.V[2] = 0xff

	assert.NoError(cpu.Execute(Code(0x8126), NO_KEY))
	assert.Equal(uint8(0x40), cpu.V[1])
	assert.Equal(uint8(1), cpu.V[0xF])
}

func TestExecute_AddImmediate(t *testing.T) {
	assert := assert.New(t)

	// Wrapping add; no flag.
	cpu := newTestCpu()
	cpu.V[1] = 0xff
	cpu.V[0xF] = 0xaa

	assert.NoError(cpu.Execute(Code(0x7102), NO_KEY))
	assert.Equal(uint8(0x01), cpu.V[1])
	assert.Equal(uint8(0xaa), cpu.V[0xF])
}

func TestExecute_Skips(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
		set  func(cpu *Cpu)
		skip bool
	}){
		{"se imm eq", 0x3042, func(cpu *Cpu) { cpu.V[0] = 0x42 }, true},
		{"se imm ne", 0x3042, func(cpu *Cpu) { cpu.V[0] = 0x43 }, false},
		{"sne imm eq", 0x4042, func(cpu *Cpu) { cpu.V[0] = 0x42 }, false},
		{"sne imm ne", 0x4042, func(cpu *Cpu) { cpu.V[0] = 0x43 }, true},
		{"se reg eq", 0x5120, func(cpu *Cpu) { cpu.V[1] = 7; cpu.V[2] = 7 }, true},
		{"se reg ne", 0x5120, func(cpu *Cpu) { cpu.V[1] = 7; cpu.V[2] = 8 }, false},
		{"sne reg eq", 0x9120, func(cpu *Cpu) { cpu.V[1] = 7; cpu.V[2] = 7 }, false},
		{"sne reg ne", 0x9120, func(cpu *Cpu) { cpu.V[1] = 7; cpu.V[2] = 8 }, true},
	}

	for _, entry := range table {
		cpu := newTestCpu()
		entry.set(cpu)

		pc := cpu.Pc
		assert.NoError(cpu.Execute(entry.code, NO_KEY))

		want := pc
		if entry.skip {
			want += 2
		}
		assert.Equal(want, cpu.Pc, entry.name)
	}
}

func TestExecute_Jump(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	assert.NoError(cpu.LoadProgram([]byte{0x14, 0x00}))
	cpu.Memory[0x400] = 0x60
	cpu.Memory[0x401] = 0x12

	// The next fetch reads exactly the jump target.
	assert.NoError(cpu.Step(NO_KEY))
	assert.Equal(uint16(0x400), cpu.Pc)

	assert.NoError(cpu.Step(NO_KEY))
	assert.Equal(uint8(0x12), cpu.V[0])
}

func TestExecute_JumpOffset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.V[0] = 0x05
	assert.NoError(cpu.Execute(Code(0xb300), NO_KEY))
	assert.Equal(uint16(0x305), cpu.Pc)

	// SUPER-CHIP dialect indexes by Vx instead.
	cpu = newTestCpu()
	cpu.Quirks.JumpOffsetVx = true
	cpu.V[0] = 0x05
	cpu.V[3] = 0x10
	assert.NoError(cpu.Execute(Code(0xb300), NO_KEY))
	assert.Equal(uint16(0x310), cpu.Pc)
}

func TestExecute_CallReturn(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	assert.NoError(cpu.LoadProgram([]byte{0x23, 0x00}))
	cpu.Memory[0x300] = 0x00
	cpu.Memory[0x301] = 0xee

	assert.NoError(cpu.Step(NO_KEY))
	assert.Equal(uint16(0x300), cpu.Pc)

	// Return resumes exactly after the call instruction.
	assert.NoError(cpu.Step(NO_KEY))
	assert.Equal(uint16(0x202), cpu.Pc)
	assert.True(cpu.Stack.Empty())
}

func TestExecute_StackLimits(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()

	for n := 0; n < STACK_LIMIT; n++ {
		assert.NoError(cpu.Execute(Code(0x2300), NO_KEY), "call %v", n)
	}
	assert.ErrorIs(cpu.Execute(Code(0x2300), NO_KEY), ErrStackFull)

	cpu = newTestCpu()
	assert.ErrorIs(cpu.Execute(Code(0x00ee), NO_KEY), ErrStackEmpty)
}

func TestExecute_Random(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()

	// A zero mask always produces zero.
	cpu.V[0] = 0xaa
	assert.NoError(cpu.Execute(Code(0xc000), NO_KEY))
	assert.Equal(uint8(0), cpu.V[0])

	// The mask bounds the result.
	for n := 0; n < 64; n++ {
		assert.NoError(cpu.Execute(Code(0xc00f), NO_KEY))
		assert.LessOrEqual(cpu.V[0], uint8(0x0f))
	}
}

func TestExecute_ClearScreen(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.Display[5][10] = 1
	cpu.Display[31][63] = 1

	assert.NoError(cpu.Execute(Code(0x00e0), NO_KEY))
	assert.True(cpu.Drawn)

	for row := range cpu.Display {
		for col := range cpu.Display[row] {
			assert.Equal(uint8(0), cpu.Display[row][col], "(%v,%v)", row, col)
		}
	}
}

// assertGlyph checks an 8-wide sprite region of the display against
// the sprite bytes, most significant bit leftmost.
func assertGlyph(t *testing.T, cpu *Cpu, sprite []byte, row, col int) {
	t.Helper()
	assert := assert.New(t)

	for i := range sprite {
		for j := 0; j < 8; j++ {
			want := (sprite[i] >> (7 - j)) & 1
			r := (row + i) % DISPLAY_HEIGHT
			c := (col + j) % DISPLAY_WIDTH
			assert.Equal(want, cpu.Display[r][c], "(%v,%v)", r, c)
		}
	}
}

func TestExecute_Draw(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()

	// Draw the font glyph for '0' at the top-left corner.
	assert.NoError(cpu.Execute(Code(0xa000), NO_KEY))
	assert.NoError(cpu.Execute(Code(0xd015), NO_KEY))
	assert.True(cpu.Drawn)
	assert.Equal(uint8(0), cpu.V[0xF])

	assertGlyph(t, cpu, FontSet[:FONT_GLYPH_SIZE], 0, 0)
}

func TestExecute_Draw_Idempotent(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.I = GlyphAddress(0x8)

	// First draw on a clear screen: no collision.
	assert.NoError(cpu.Execute(Code(0xd015), NO_KEY))
	assert.Equal(uint8(0), cpu.V[0xF])

	// Second draw: every set bit collides and the XOR restores the
	// prior (clear) screen.
	assert.NoError(cpu.Execute(Code(0xd015), NO_KEY))
	assert.Equal(uint8(1), cpu.V[0xF])

	for row := range cpu.Display {
		for col := range cpu.Display[row] {
			assert.Equal(uint8(0), cpu.Display[row][col], "(%v,%v)", row, col)
		}
	}
}

func TestExecute_Draw_ZeroSprite(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.I = 0x300 // zeroed memory

	assert.NoError(cpu.Execute(Code(0x00e0), NO_KEY))
	assert.NoError(cpu.Execute(Code(0xd015), NO_KEY))

	assert.Equal(uint8(0), cpu.V[0xF])
	for row := range cpu.Display {
		for col := range cpu.Display[row] {
			assert.Equal(uint8(0), cpu.Display[row][col], "(%v,%v)", row, col)
		}
	}
}

func TestExecute_Draw_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.Memory[0x300] = 0xff
	cpu.Memory[0x301] = 0xff
	cpu.I = 0x300
	cpu.V[0] = 60 // column
	cpu.V[1] = 31 // row

	assert.NoError(cpu.Execute(Code(0xd012), NO_KEY))

	// Each sprite byte wraps independently at both edges.
	for _, row := range []int{31, 0} {
		for _, col := range []int{60, 61, 62, 63, 0, 1, 2, 3} {
			assert.Equal(uint8(1), cpu.Display[row][col], "(%v,%v)", row, col)
		}
		assert.Equal(uint8(0), cpu.Display[row][4], "(%v,4)", row)
		assert.Equal(uint8(0), cpu.Display[row][59], "(%v,59)", row)
	}
}

func TestExecute_Draw_AddressRange(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.I = MEMORY_SIZE - 1

	assert.ErrorIs(cpu.Execute(Code(0xd012), NO_KEY), ErrAddressRange)
}

func TestExecute_KeySkips(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
		key  Key
		skip bool
	}){
		{"skp match", 0xe09e, Key(0x5), true},
		{"skp mismatch", 0xe09e, Key(0x6), false},
		{"skp no key", 0xe09e, NO_KEY, false},
		{"sknp match", 0xe0a1, Key(0x5), false},
		{"sknp mismatch", 0xe0a1, Key(0x6), true},
		// No pending key reads as "no skip" for both forms.
		{"sknp no key", 0xe0a1, NO_KEY, false},
	}

	for _, entry := range table {
		cpu := newTestCpu()
		cpu.V[0] = 0x5

		pc := cpu.Pc
		assert.NoError(cpu.Execute(entry.code, entry.key))

		want := pc
		if entry.skip {
			want += 2
		}
		assert.Equal(want, cpu.Pc, entry.name)
	}
}

func TestExecute_WaitKey(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	assert.NoError(cpu.LoadProgram([]byte{0xf1, 0x0a}))

	// Without a key the instruction repeats.
	assert.NoError(cpu.Step(NO_KEY))
	assert.Equal(uint16(0x200), cpu.Pc)

	assert.NoError(cpu.Step(Key(0xb)))
	assert.Equal(uint16(0x202), cpu.Pc)
	assert.Equal(uint8(0xb), cpu.V[1])
}

func TestExecute_Timers(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.V[1] = 42

	assert.NoError(cpu.Execute(Code(0xf115), NO_KEY)) // ld dt, v1
	assert.Equal(uint8(42), cpu.Delay)

	assert.NoError(cpu.Execute(Code(0xf118), NO_KEY)) // ld st, v1
	assert.Equal(uint8(42), cpu.Sound)

	cpu.Delay = 17
	assert.NoError(cpu.Execute(Code(0xf207), NO_KEY)) // ld v2, dt
	assert.Equal(uint8(17), cpu.V[2])
}

func TestExecute_IndexOps(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.I = 0x300
	cpu.V[1] = 0x10

	assert.NoError(cpu.Execute(Code(0xf11e), NO_KEY)) // add i, v1
	assert.Equal(uint16(0x310), cpu.I)

	cpu.V[2] = 0x0b
	assert.NoError(cpu.Execute(Code(0xf229), NO_KEY)) // ld f, v2
	assert.Equal(GlyphAddress(0xb), cpu.I)
	assert.Equal(uint16(0xb*FONT_GLYPH_SIZE), cpu.I)
}

func TestExecute_Bcd(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.I = 0x300
	cpu.V[1] = 234

	assert.NoError(cpu.Execute(Code(0xf133), NO_KEY))
	assert.Equal(uint8(2), cpu.Memory[0x300])
	assert.Equal(uint8(3), cpu.Memory[0x301])
	assert.Equal(uint8(4), cpu.Memory[0x302])

	cpu.I = MEMORY_SIZE - 2
	assert.ErrorIs(cpu.Execute(Code(0xf133), NO_KEY), ErrAddressRange)
}

func TestExecute_StoreLoad(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu()
	cpu.I = 0x300
	copy(cpu.V[:], []uint8{1, 2, 3, 4, 0xff})

	assert.NoError(cpu.Execute(Code(0xf355), NO_KEY)) // ld [i], v3
	assert.Equal([]uint8{1, 2, 3, 4, 0}, cpu.Memory[0x300:0x305])

	clear(cpu.V[:])
	assert.NoError(cpu.Execute(Code(0xf365), NO_KEY)) // ld v3, [i]
	assert.Equal([]uint8{1, 2, 3, 4, 0}, cpu.V[:5])

	cpu.I = MEMORY_SIZE - 3
	assert.ErrorIs(cpu.Execute(Code(0xf355), NO_KEY), ErrAddressRange)
}

func TestExecute_Unsupported(t *testing.T) {
	assert := assert.New(t)

	for _, code := range []Code{0x0000, 0x0123, 0x5121, 0x812f, 0xe000, 0xf0ff} {
		cpu := newTestCpu()
		err := cpu.Execute(code, NO_KEY)

		assert.Error(err, "0x%04x", uint16(code))
		assert.ErrorIs(err, ErrOpcode(0), "0x%04x", uint16(code))
	}
}
