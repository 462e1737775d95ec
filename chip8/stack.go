package chip8

const (
	STACK_LIMIT = 16 // Maximum call nesting depth
)

// Stack is the fixed-capacity call stack of return addresses. Push
// writes at the pointer then increments; Pop decrements then reads.
type Stack struct {
	Data [STACK_LIMIT]uint16
	Sp   int
}

func (s *Stack) Push(addr uint16) (ok bool) {
	if s.Full() {
		return
	}
	s.Data[s.Sp] = addr
	s.Sp++
	return true
}

func (s *Stack) Pop() (addr uint16, ok bool) {
	addr, ok = s.Peek()
	if ok {
		s.Sp--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Sp == 0
}

func (s *Stack) Full() bool {
	return s.Sp == STACK_LIMIT
}

func (s *Stack) Peek() (addr uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp-1], true
}

func (s *Stack) Reset() {
	s.Sp = 0
}
