package io

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/ezrec/gochip8/chip8"
	"github.com/ezrec/gochip8/emulator"
)

// DEFAULT_SCALE is the default window pixels per CHIP-8 pixel.
const DEFAULT_SCALE = 10

// Screen renders framebuffer snapshots into an SDL window.
type Screen struct {
	win   *sdl.Window
	ren   *sdl.Renderer
	scale int32
}

var _ emulator.Display = (*Screen)(nil)

// NewScreen initializes SDL video and opens the emulator window.
func NewScreen(title string, scale int) (s *Screen, err error) {
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return
	}

	if scale <= 0 {
		scale = DEFAULT_SCALE
	}

	win, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(chip8.DISPLAY_WIDTH*scale), int32(chip8.DISPLAY_HEIGHT*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return
	}

	ren, err := sdl.CreateRenderer(win, -1,
		sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return
	}

	s = &Screen{win: win, ren: ren, scale: int32(scale)}

	return
}

// Destroy tears down the window and SDL.
func (s *Screen) Destroy() {
	s.ren.Destroy()
	s.win.Destroy()
	sdl.Quit()
}

// Draw renders a full framebuffer snapshot, one filled rectangle per
// lit pixel.
func (s *Screen) Draw(frame *[chip8.DISPLAY_HEIGHT][chip8.DISPLAY_WIDTH]uint8) (err error) {
	if err = s.ren.SetDrawColor(0x00, 0x00, 0x00, 0xff); err != nil {
		return
	}
	if err = s.ren.Clear(); err != nil {
		return
	}
	if err = s.ren.SetDrawColor(0xff, 0xff, 0xff, 0xff); err != nil {
		return
	}

	for row := range frame {
		for col, pixel := range frame[row] {
			if pixel == 0 {
				continue
			}
			rect := sdl.Rect{
				X: int32(col) * s.scale,
				Y: int32(row) * s.scale,
				W: s.scale,
				H: s.scale,
			}
			if err = s.ren.FillRect(&rect); err != nil {
				return
			}
		}
	}

	s.ren.Present()

	return
}
