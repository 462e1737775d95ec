package chip8

import (
	"log"
)

// Step fetches, decodes, and executes a single instruction. The key,
// if any, is the most recent pending key code for this cycle.
func (cpu *Cpu) Step(key Key) (err error) {
	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	return cpu.Execute(code, key)
}

// Execute runs a single instruction against the CPU state. An
// instruction outside the implemented set returns ErrOpcode; the
// counter has already moved past it, so callers may log and continue.
// All other errors are unrecoverable.
func (cpu *Cpu) Execute(code Code, key Key) (err error) {
	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Pc-2, code)
	}

	cpu.Drawn = false

	x, y := code.X(), code.Y()

	op := code.Decode()
	switch op {
	case OP_CLS:
		cpu.clearScreen()
	case OP_RET:
		addr, ok := cpu.Stack.Pop()
		if !ok {
			return ErrStackEmpty
		}
		cpu.Pc = addr
	case OP_JP:
		cpu.Pc = code.Addr()
	case OP_CALL:
		if !cpu.Stack.Push(cpu.Pc) {
			return ErrStackFull
		}
		cpu.Pc = code.Addr()
	case OP_SE_IMM:
		cpu.skipIf(cpu.V[x] == code.Imm())
	case OP_SNE_IMM:
		cpu.skipIf(cpu.V[x] != code.Imm())
	case OP_SE_REG:
		cpu.skipIf(cpu.V[x] == cpu.V[y])
	case OP_SNE_REG:
		cpu.skipIf(cpu.V[x] != cpu.V[y])
	case OP_LD_IMM:
		cpu.V[x] = code.Imm()
	case OP_ADD_IMM:
		// Wrapping add; the flag register is not touched.
		cpu.V[x] += code.Imm()
	case OP_LD_REG, OP_OR, OP_AND, OP_XOR, OP_ADD_REG, OP_SUB, OP_SUBN, OP_SHR, OP_SHL:
		cpu.alu(op, x, y)
	case OP_LD_I:
		cpu.I = code.Addr()
	case OP_JP_V0:
		if cpu.Quirks.JumpOffsetVx {
			cpu.Pc = code.Addr() + uint16(cpu.V[x])
		} else {
			cpu.Pc = code.Addr() + uint16(cpu.V[0])
		}
	case OP_RND:
		cpu.V[x] = uint8(cpu.rand.Intn(256)) & code.Imm()
	case OP_DRW:
		err = cpu.draw(x, y, code.N())
	case OP_SKP:
		// No pending key reads as "no skip".
		cpu.skipIf(key != NO_KEY && uint8(key) == cpu.V[x])
	case OP_SKNP:
		cpu.skipIf(key != NO_KEY && uint8(key) != cpu.V[x])
	case OP_LD_DT:
		cpu.V[x] = cpu.Delay
	case OP_LD_KEY:
		if key == NO_KEY {
			// Repeat the instruction until a key code arrives.
			cpu.Pc -= 2
		} else {
			cpu.V[x] = uint8(key)
		}
	case OP_ST_DT:
		cpu.Delay = cpu.V[x]
	case OP_ST_ST:
		cpu.Sound = cpu.V[x]
	case OP_ADD_I:
		cpu.I += uint16(cpu.V[x])
	case OP_LD_FONT:
		cpu.I = GlyphAddress(cpu.V[x])
	case OP_BCD:
		err = cpu.bcd(x)
	case OP_STORE:
		err = cpu.store(x)
	case OP_LOAD:
		err = cpu.load(x)
	default:
		return ErrOpcode(code)
	}

	return
}

// skipIf advances the counter past the next instruction on a match.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 2
	}
}

// alu runs the 8xyN family. The arithmetic and shift members rewrite
// the flag register; the assign and bitwise members leave it untouched.
func (cpu *Cpu) alu(op Op, x, y uint8) {
	vx, vy := cpu.V[x], cpu.V[y]

	switch op {
	case OP_LD_REG:
		cpu.V[x] = vy
	case OP_OR:
		cpu.V[x] = vx | vy
	case OP_AND:
		cpu.V[x] = vx & vy
	case OP_XOR:
		cpu.V[x] = vx ^ vy
	case OP_ADD_REG:
		sum := uint16(vx) + uint16(vy)
		cpu.V[x] = uint8(sum)
		cpu.V[0xF] = 0
		if sum > 0xff {
			cpu.V[0xF] = 1
		}
	case OP_SUB:
		cpu.V[x] = vx - vy
		cpu.setBorrow(vx, vy)
	case OP_SUBN:
		cpu.V[x] = vy - vx
		cpu.setBorrow(vy, vx)
	case OP_SHR:
		src := vy
		if cpu.Quirks.ShiftInPlace {
			src = vx
		}
		cpu.V[x] = src >> 1
		cpu.V[0xF] = src & 0x01
	case OP_SHL:
		src := vy
		if cpu.Quirks.ShiftInPlace {
			src = vx
		}
		cpu.V[x] = src << 1
		cpu.V[0xF] = (src >> 7) & 0x01
	}
}

// setBorrow sets VF to 1 when minuend >= subtrahend (no borrow,
// including the equal case), and 0 when the subtraction wrapped.
func (cpu *Cpu) setBorrow(minuend, subtrahend uint8) {
	if minuend >= subtrahend {
		cpu.V[0xF] = 1
	} else {
		cpu.V[0xF] = 0
	}
}

func (cpu *Cpu) clearScreen() {
	for row := range cpu.Display {
		clear(cpu.Display[row][:])
	}
	cpu.Drawn = true
}

// draw XORs an n-row sprite read from memory at the index register
// onto the framebuffer at (Vx, Vy). Each sprite byte wraps
// independently at the display edges. VF is cleared first, then set if
// the draw unsets any lit pixel.
func (cpu *Cpu) draw(x, y, n uint8) (err error) {
	if int(cpu.I)+int(n) > MEMORY_SIZE {
		return ErrAddressRange
	}

	row := int(cpu.V[y])
	col := int(cpu.V[x])

	cpu.V[0xF] = 0

	for i := 0; i < int(n); i++ {
		sprite := cpu.Memory[int(cpu.I)+i]

		for j := 0; j < 8; j++ {
			bit := (sprite >> j) & 1

			r := (row + i) % DISPLAY_HEIGHT
			c := (col + 7 - j) % DISPLAY_WIDTH

			if bit == 1 && cpu.Display[r][c] == 1 {
				cpu.V[0xF] = 1
			}

			cpu.Display[r][c] ^= bit
		}
	}

	cpu.Drawn = true

	return
}

// bcd writes the decimal digits of Vx to memory at the index register.
func (cpu *Cpu) bcd(x uint8) (err error) {
	if int(cpu.I)+3 > MEMORY_SIZE {
		return ErrAddressRange
	}

	v := cpu.V[x]
	cpu.Memory[cpu.I] = v / 100
	cpu.Memory[cpu.I+1] = (v / 10) % 10
	cpu.Memory[cpu.I+2] = v % 10

	return
}

// store copies V0..Vx to memory at the index register.
func (cpu *Cpu) store(x uint8) (err error) {
	if int(cpu.I)+int(x)+1 > MEMORY_SIZE {
		return ErrAddressRange
	}

	copy(cpu.Memory[cpu.I:], cpu.V[:int(x)+1])

	return
}

// load copies memory at the index register to V0..Vx.
func (cpu *Cpu) load(x uint8) (err error) {
	if int(cpu.I)+int(x)+1 > MEMORY_SIZE {
		return ErrAddressRange
	}

	copy(cpu.V[:int(x)+1], cpu.Memory[cpu.I:])

	return
}
