// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ezrec/gochip8/chip8"
	"github.com/ezrec/gochip8/emulator"
	"github.com/ezrec/gochip8/io"
)

func main() {
	var compile string
	var output string
	var scale int
	var delay int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".c8asm file to assemble")
	flag.StringVar(&output, "o", "", "write the assembled image to a file, do not execute")
	flag.IntVar(&scale, "s", io.DEFAULT_SCALE, "window pixels per CHIP-8 pixel")
	flag.IntVar(&delay, "d", 5, "cycle delay in milliseconds")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	var image []byte
	var prog *chip8.Program

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &chip8.Assembler{Verbose: verbose}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		image = prog.Binary()
	case flag.NArg() == 1:
		rom, err := io.NewRom(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
		image = rom.Data
	default:
		log.Fatalf("%v: expected a rom file, or -c source", os.Args[0])
	}

	if len(output) != 0 {
		if err := os.WriteFile(output, image, 0o644); err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	screen, err := io.NewScreen("CHIP-8", scale)
	if err != nil {
		log.Fatalf("sdl: %v", err)
	}
	defer screen.Destroy()

	emu := emulator.NewEmulator(screen, &io.Keypad{})
	emu.Verbose = verbose
	emu.Program = prog
	emu.CycleDelay = time.Duration(delay) * time.Millisecond

	if err := emu.Cpu.LoadProgram(image); err != nil {
		log.Fatal(err)
	}

	// A quit or escape event returns nil; exit status 0.
	if err := emu.Run(); err != nil {
		log.Fatal(err)
	}
}
