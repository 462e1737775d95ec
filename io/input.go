package io

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/ezrec/gochip8/chip8"
	"github.com/ezrec/gochip8/emulator"
)

// KEYPAD maps the left hand of a QWERTY keyboard onto the 4x4 CHIP-8
// keypad:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var KEYPAD = map[sdl.Keycode]chip8.Key{
	sdl.K_1: 0x1, sdl.K_2: 0x2, sdl.K_3: 0x3, sdl.K_4: 0xC,
	sdl.K_q: 0x4, sdl.K_w: 0x5, sdl.K_e: 0x6, sdl.K_r: 0xD,
	sdl.K_a: 0x7, sdl.K_s: 0x8, sdl.K_d: 0x9, sdl.K_f: 0xE,
	sdl.K_z: 0xA, sdl.K_x: 0x0, sdl.K_c: 0xB, sdl.K_v: 0xF,
}

// Keypad polls SDL events and converts key-down events to CHIP-8 key
// codes.
type Keypad struct{}

var _ emulator.Input = (*Keypad)(nil)

// Poll drains pending events and reports the most recent mapped
// key-down, if any. A window close or the escape key reports quit.
func (k *Keypad) Poll() (key chip8.Key, quit bool) {
	key = chip8.NO_KEY

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			if e.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
				continue
			}
			if code, ok := KEYPAD[e.Keysym.Sym]; ok {
				key = code
			}
		}
	}

	return
}
