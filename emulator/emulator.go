// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives the CHIP-8 fetch-decode-execute cycle
// against display and input collaborators.
package emulator

import (
	"errors"
	"log"
	"time"

	"github.com/ezrec/gochip8/chip8"
)

const (
	CYCLE_DELAY = 5 * time.Millisecond // Default inter-cycle delay
	TIMER_RATE  = time.Second / 60     // Delay/sound timer cadence
)

// Display receives a full framebuffer snapshot after each drawing
// instruction. The core never queries it for state.
type Display interface {
	Draw(frame *[chip8.DISPLAY_HEIGHT][chip8.DISPLAY_WIDTH]uint8) error
}

// Input supplies at most one pending key code per cycle: the most
// recent relevant key-down since the last poll, or NO_KEY. quit
// reports a user-initiated termination (window close or escape).
type Input interface {
	Poll() (key chip8.Key, quit bool)
}

// Emulator state: CPU + display and input collaborators.
type Emulator struct {
	Verbose    bool // If set, enables verbose logging.
	*chip8.Cpu      // Reference to the CPU simulation.

	Program *chip8.Program // Optional source listing for error context.

	Display Display
	Input   Input

	CycleDelay time.Duration // Inter-cycle sleep; a cadence, not a real-time clock.

	lastTimer time.Time
}

// NewEmulator creates an emulator around the given collaborators.
// Either may be nil, leaving the machine headless or input-less.
func NewEmulator(display Display, input Input) (emu *Emulator) {
	emu = &Emulator{
		Cpu:        chip8.NewCpu(),
		Display:    display,
		Input:      input,
		CycleDelay: CYCLE_DELAY,
	}

	return
}

// LineNo returns the source line of the instruction at the program
// counter, when a Program listing is attached.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	return emu.Program.LineNo(emu.Cpu.Pc)
}

// Tick performs a single cycle: poll input, advance the 60 Hz timers,
// execute one instruction, and push the framebuffer if it changed.
// done reports a user-initiated quit; it is not an error.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	key := chip8.NO_KEY
	if emu.Input != nil {
		var quit bool
		key, quit = emu.Input.Poll()
		if quit {
			if emu.Verbose {
				log.Printf("emulator: quit requested")
			}
			done = true
			return
		}
	}

	emu.tickTimers()

	err = emu.Cpu.Step(key)
	if errors.Is(err, chip8.ErrOpcode(0)) {
		// Tolerated: the counter has already moved past it.
		log.Printf("emulator: %v", err)
		err = nil
	}
	if err != nil {
		return
	}

	if emu.Cpu.Drawn && emu.Display != nil {
		err = emu.Display.Draw(&emu.Cpu.Display)
	}

	return
}

// tickTimers decrements the delay and sound timers once for every
// 1/60 s boundary passed since the previous cycle.
func (emu *Emulator) tickTimers() {
	now := time.Now()
	if emu.lastTimer.IsZero() {
		emu.lastTimer = now
		return
	}

	steps := int(now.Sub(emu.lastTimer) / TIMER_RATE)
	if steps > 0 {
		emu.Cpu.TickTimers(steps)
		emu.lastTimer = emu.lastTimer.Add(time.Duration(steps) * TIMER_RATE)
	}
}

// Run loops Tick with the fixed cycle delay until a quit event or a
// fatal error. A quit ends the run with a nil error so that hosts
// decide the process exit themselves; the bundled CLI exits 0.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}

		time.Sleep(emu.CycleDelay)
	}
}
