package chip8

import (
	"fmt"
)

// Code is a raw 16-bit CHIP-8 instruction, big-endian in memory.
type Code uint16

// Nibbles returns the four 4-bit fields, most significant first.
func (c Code) Nibbles() (a, x, y, n uint8) {
	a = uint8(c>>12) & 0xf
	x = uint8(c>>8) & 0xf
	y = uint8(c>>4) & 0xf
	n = uint8(c) & 0xf
	return
}

// Addr returns the 12-bit address field (nnn).
func (c Code) Addr() uint16 {
	return uint16(c) & 0x0fff
}

// Imm returns the 8-bit immediate field (nn).
func (c Code) Imm() uint8 {
	return uint8(c)
}

// X returns the first register selector.
func (c Code) X() uint8 {
	return uint8(c>>8) & 0xf
}

// Y returns the second register selector.
func (c Code) Y() uint8 {
	return uint8(c>>4) & 0xf
}

// N returns the 4-bit immediate field (sprite height).
func (c Code) N() uint8 {
	return uint8(c) & 0xf
}

// String returns the decoded mnemonic and the raw instruction word.
func (c Code) String() string {
	return fmt.Sprintf("%v 0x%04x", c.Decode(), uint16(c))
}

// Op is a decoded instruction variant. OP_UNKNOWN marks nibble tuples
// outside the implemented set; the executor treats those as a logged
// no-op rather than a fatal condition.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_UNKNOWN = Op(iota) // ???
	OP_CLS                // cls
	OP_RET                // ret
	OP_JP                 // jp
	OP_CALL               // call
	OP_SE_IMM             // se
	OP_SNE_IMM            // sne
	OP_SE_REG             // se v
	OP_SNE_REG            // sne v
	OP_LD_IMM             // ld
	OP_ADD_IMM            // add
	OP_LD_REG             // ld v
	OP_OR                 // or
	OP_AND                // and
	OP_XOR                // xor
	OP_ADD_REG            // add v
	OP_SUB                // sub
	OP_SUBN               // subn
	OP_SHR                // shr
	OP_SHL                // shl
	OP_LD_I               // ld i
	OP_JP_V0              // jp v0
	OP_RND                // rnd
	OP_DRW                // drw
	OP_SKP                // skp
	OP_SKNP               // sknp
	OP_LD_DT              // ld dt
	OP_LD_KEY             // ld k
	OP_ST_DT              // st dt
	OP_ST_ST              // st st
	OP_ADD_I              // add i
	OP_LD_FONT            // ld f
	OP_BCD                // ld b
	OP_STORE              // ld [i]
	OP_LOAD               // ld v [i]
)

// Decode routes the nibble tuple to its operation variant. Pure; all
// operand fields stay on the Code itself.
func (c Code) Decode() (op Op) {
	a, _, _, n := c.Nibbles()

	switch a {
	case 0x0:
		switch uint16(c) {
		case 0x00e0:
			op = OP_CLS
		case 0x00ee:
			op = OP_RET
		}
	case 0x1:
		op = OP_JP
	case 0x2:
		op = OP_CALL
	case 0x3:
		op = OP_SE_IMM
	case 0x4:
		op = OP_SNE_IMM
	case 0x5:
		if n == 0x0 {
			op = OP_SE_REG
		}
	case 0x6:
		op = OP_LD_IMM
	case 0x7:
		op = OP_ADD_IMM
	case 0x8:
		switch n {
		case 0x0:
			op = OP_LD_REG
		case 0x1:
			op = OP_OR
		case 0x2:
			op = OP_AND
		case 0x3:
			op = OP_XOR
		case 0x4:
			op = OP_ADD_REG
		case 0x5:
			op = OP_SUB
		case 0x6:
			op = OP_SHR
		case 0x7:
			op = OP_SUBN
		case 0xe:
			op = OP_SHL
		}
	case 0x9:
		if n == 0x0 {
			op = OP_SNE_REG
		}
	case 0xa:
		op = OP_LD_I
	case 0xb:
		op = OP_JP_V0
	case 0xc:
		op = OP_RND
	case 0xd:
		op = OP_DRW
	case 0xe:
		switch c.Imm() {
		case 0x9e:
			op = OP_SKP
		case 0xa1:
			op = OP_SKNP
		}
	case 0xf:
		switch c.Imm() {
		case 0x07:
			op = OP_LD_DT
		case 0x0a:
			op = OP_LD_KEY
		case 0x15:
			op = OP_ST_DT
		case 0x18:
			op = OP_ST_ST
		case 0x1e:
			op = OP_ADD_I
		case 0x29:
			op = OP_LD_FONT
		case 0x33:
			op = OP_BCD
		case 0x55:
			op = OP_STORE
		case 0x65:
			op = OP_LOAD
		}
	}

	return
}
