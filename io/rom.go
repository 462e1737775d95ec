// Package io provides the collaborators around the CHIP-8 core: the
// ROM image loader and the SDL display and input drivers.
package io

import (
	"os"

	"github.com/ezrec/gochip8/chip8"
)

// ROM_LIMIT is the largest loadable program image; everything below
// the program start address is reserved for the interpreter and font.
const ROM_LIMIT = chip8.MEMORY_SIZE - chip8.PROGRAM_START

// Rom is a program image read from a file. No header, no metadata;
// raw CHIP-8 bytecode loaded verbatim at the program start address.
type Rom struct {
	Data []byte
}

// NewRom reads a raw CHIP-8 image from a file.
func NewRom(filename string) (rom *Rom, err error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return
	}

	if len(data) > ROM_LIMIT {
		err = ErrRomTooLarge
		return
	}

	rom = &Rom{Data: data}

	return
}
