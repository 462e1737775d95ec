package chip8

// Opcode is the assembled output of one source line.
type Opcode struct {
	LineNo int    // Source line number.
	Addr   int    // Memory address of the first emitted byte.
	Bytes  []byte // Emitted bytes.
}

// Program is an assembled CHIP-8 image with its source listing.
type Program struct {
	Opcodes []Opcode
}

// Debug is the source location of a memory address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the source opcode covering a memory address.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// LineNo returns the source line covering a memory address, or 0.
func (prog *Program) LineNo(addr uint16) int {
	dbg := prog.Debug(addr)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Binary returns the ROM image, addressed from the program start.
func (prog *Program) Binary() (image []byte) {
	for _, op := range prog.Opcodes {
		image = append(image, op.Bytes...)
	}

	return
}
