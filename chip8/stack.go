package chip8

import (
	"fmt"
	"strings"
)

// StackDepth is the number of nested subroutine calls the machine supports.
const StackDepth = 16

// Stack implements the CHIP-8 return address stack.
type Stack struct {
	Addrs [StackDepth]uint16
	Ptr   byte
}

func (s *Stack) push(addr uint16) {
	if s.Ptr == StackDepth {
		panic(StackOverflow)
	}
	s.Addrs[s.Ptr] = addr
	s.Ptr++
}

func (s *Stack) pop() uint16 {
	if s.Ptr == 0 {
		panic(StackUnderflow)
	}
	s.Ptr--
	return s.Addrs[s.Ptr]
}

// Peek returns the most recently pushed address, and reports whether
// there was one.
func (s *Stack) Peek() (uint16, bool) {
	if s.Ptr == 0 {
		return 0, false
	}
	return s.Addrs[s.Ptr-1], true
}

func (s Stack) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, v := range s.Addrs[:s.Ptr] {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%.3x", v)
	}
	b.WriteByte(' ')
	b.WriteByte(')')
	return b.String()
}
