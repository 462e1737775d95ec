package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	assert.True(s.Push(0x0234))
	assert.False(s.Empty())
	assert.Equal(1, s.Sp)
	assert.Equal(uint16(0x0234), s.Data[0])
}

func TestStack_Push_Full(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := 0; i < STACK_LIMIT; i++ {
		assert.True(s.Push(uint16(0x200 + i)))
	}
	assert.True(s.Full())

	// The 17th nested call must be refused, not wrapped.
	assert.False(s.Push(0x0300))
	assert.Equal(STACK_LIMIT, s.Sp)
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x0234)
	s.Push(0x0abc)

	addr, ok := s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x0abc), addr)
	assert.Equal(1, s.Sp)

	addr, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x0234), addr)
	assert.True(s.Empty())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	addr, ok := s.Pop()
	assert.False(ok)
	assert.Equal(uint16(0), addr)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x0234)
	s.Push(0x0abc)

	addr, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0x0abc), addr)
	assert.Equal(2, s.Sp)
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	addr, ok := s.Peek()
	assert.False(ok)
	assert.Equal(uint16(0), addr)
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x0234)
	s.Push(0x0abc)
	assert.Equal(2, s.Sp)

	s.Reset()
	assert.True(s.Empty())
}
