// Package chip8 implements the CHIP-8 virtual machine core: the CPU
// state, the instruction decoder and executor, and an assembler for
// building program images.
package chip8

import (
	"log"
	"math/rand"
	"time"
)

const (
	MEMORY_SIZE   = 4096  // Addressable memory in bytes
	PROGRAM_START = 0x200 // First program address; below is interpreter space

	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
)

// Key is a pending CHIP-8 key code in 0x0..0xF.
type Key int

// NO_KEY marks the absence of a pending key code.
const NO_KEY = Key(-1)

// Quirks selects between classic CHIP-8 and SUPER-CHIP behavior at the
// points where the dialects genuinely diverge. The zero value is
// classic CHIP-8.
type Quirks struct {
	JumpOffsetVx bool // Bnnn jumps to nnn+Vx instead of nnn+V0
	ShiftInPlace bool // 8xy6/8xyE shift Vx in place instead of copying Vy first
}

// Cpu is the CHIP-8 machine state: memory, registers, call stack,
// timers, and the monochrome framebuffer.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory [MEMORY_SIZE]uint8
	V      [16]uint8 // Variable registers; V[0xF] doubles as the flag register.
	I      uint16    // Index register.
	Pc     uint16    // Program counter.
	Stack  Stack     // Call stack of return addresses.
	Delay  uint8     // Delay timer, decremented at 60 Hz.
	Sound  uint8     // Sound timer, decremented at 60 Hz.

	Display [DISPLAY_HEIGHT][DISPLAY_WIDTH]uint8
	Drawn   bool // Set when the last executed instruction touched the display.

	Quirks Quirks

	rand *rand.Rand
}

// NewCpu creates a CPU with the font table loaded and the program
// counter at the program start address.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Pc:   PROGRAM_START,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(cpu.Memory[FONT_START:], FontSet[:])

	return
}

// SeedRandom replaces the random source, for reproducible Cxnn results.
func (cpu *Cpu) SeedRandom(seed int64) {
	cpu.rand = rand.New(rand.NewSource(seed))
}

// Reset clears all state except the font table.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[len(FontSet):])
	clear(cpu.V[:])
	cpu.I = 0
	cpu.Pc = PROGRAM_START
	cpu.Stack.Reset()
	cpu.Delay = 0
	cpu.Sound = 0
	cpu.clearScreen()
	cpu.Drawn = false
}

// LoadProgram copies a program image into memory at the program start
// address. Images that would extend past the end of memory are
// rejected.
func (cpu *Cpu) LoadProgram(image []byte) (err error) {
	if PROGRAM_START+len(image) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	copy(cpu.Memory[PROGRAM_START:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %v byte program", len(image))
	}

	return
}

// Fetch reads the instruction at the program counter and advances the
// counter past it. The counter always moves before the instruction
// executes, so jump and call targets are absolute.
func (cpu *Cpu) Fetch() (code Code, err error) {
	if int(cpu.Pc)+1 >= MEMORY_SIZE {
		err = ErrAddressRange
		return
	}

	code = Code(uint16(cpu.Memory[cpu.Pc])<<8 | uint16(cpu.Memory[cpu.Pc+1]))
	cpu.Pc += 2

	return
}

// TickTimers decrements the delay and sound timers by the given number
// of 60 Hz steps, flooring at zero.
func (cpu *Cpu) TickTimers(steps int) {
	for ; steps > 0; steps-- {
		if cpu.Delay > 0 {
			cpu.Delay--
		}
		if cpu.Sound > 0 {
			cpu.Sound--
		}
	}
}
