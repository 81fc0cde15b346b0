// Package chip8 provides an implementation of the CHIP-8 virtual machine,
// called Machine, together with its display and keypad.
package chip8

import (
	"fmt"
	"math/rand"
)

// Memory layout.
const (
	MemSize     = 0x1000
	ProgramAddr = 0x200
	MaxROMSize  = MemSize - ProgramAddr
)

// DefaultHz is the instruction rate a new Machine runs at.
const DefaultHz = 540

// TimerHz is the rate at which the delay and sound timers count down.
const TimerHz = 60

// Machine is an implementation of the CHIP-8 virtual machine.
//
// A Machine is not safe for concurrent use; only its Keypad and Display
// may be accessed while it runs.
type Machine struct {
	Mem   [MemSize]byte
	V     [16]byte
	I     uint16
	PC    uint16
	DT    byte // delay timer
	ST    byte // sound timer
	Stack Stack

	Display *Display
	Keys    *Keypad
	Rand    *rand.Rand
	Clock   Clock
	Hz      int

	// Frames receives a snapshot after each CLS or DRW. It holds at most
	// one frame: if the host has not received the previous frame it is
	// replaced, so intermediate frames are dropped.
	Frames chan Frame

	// Breaks holds addresses at which Run stops with ErrBreak.
	Breaks map[uint16]bool

	held    uint16 // keypad state sampled at the start of the tick
	pressed uint16 // keys pressed since the previous tick
	ticks   uint64
	waiting bool
}

// NewMachine returns a Machine with the font glyphs loaded at FontAddr
// and rom loaded at ProgramAddr, ready to execute rom.
func NewMachine(rom []byte) (*Machine, error) {
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("rom is %d bytes, exceeds maximum of %d", len(rom), MaxROMSize)
	}
	m := &Machine{
		PC:      ProgramAddr,
		Display: NewDisplay(DisplayWidth, DisplayHeight),
		Keys:    NewKeypad(),
		Frames:  make(chan Frame, 1),
		Clock:   SystemClock,
		Hz:      DefaultHz,
	}
	m.Seed(m.Clock.Now().UnixNano())
	copy(m.Mem[FontAddr:], font[:])
	copy(m.Mem[ProgramAddr:], rom)
	return m, nil
}

// Seed replaces the machine's random source with one seeded by seed.
func (m *Machine) Seed(seed int64) {
	m.Rand = rand.New(rand.NewSource(seed))
}

// Waiting reports whether the machine is blocked on an LD Vx, K
// instruction, waiting for a key to be pressed.
func (m *Machine) Waiting() bool { return m.waiting }

// Ticks returns the number of times Step has been called.
func (m *Machine) Ticks() uint64 { return m.ticks }

// Step performs one tick of the machine: it samples the keypad, counts
// down the timers when due, and executes the instruction at PC.
// It only returns a non-nil error if it encounters a halt condition,
// in which case the error is a HaltError.
func (m *Machine) Step() error {
	m.held, m.pressed = m.Keys.Merge()
	m.ticks++
	if m.ticks%m.timerDivisor() == 0 {
		if m.DT > 0 {
			m.DT--
		}
		if m.ST > 0 {
			m.ST--
		}
	}
	return m.exec()
}

func (m *Machine) exec() (err error) {
	var (
		pc   = m.PC
		word uint16
	)
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(HaltCode); ok {
				m.PC = pc
				err = HaltError{
					HaltCode: code,
					Word:     word,
					Addr:     pc,
				}
			} else {
				panic(e)
			}
		}
	}()

	word = uint16(m.load(pc))<<8 | uint16(m.load(pc+1))
	in, err := Decode(word)
	if err != nil {
		return HaltError{HaltCode: BadOpcode, Word: word, Addr: pc, Err: err}
	}

	m.PC += 2
	m.waiting = false

	x, y := in.X(), in.Y()
	switch in.Op {
	case SYS:
		// Machine code routines are not supported.
	case CLS:
		m.Display.Clear()
	case RET:
		m.PC = m.Stack.pop()
	case JP:
		m.PC = in.Addr()
	case CALL:
		m.Stack.push(m.PC)
		m.PC = in.Addr()
	case SEB:
		m.skipIf(m.V[x] == in.Byte())
	case SNEB:
		m.skipIf(m.V[x] != in.Byte())
	case SER:
		m.skipIf(m.V[x] == m.V[y])
	case LDB:
		m.V[x] = in.Byte()
	case ADDB:
		m.V[x] += in.Byte()
	case LDR:
		m.V[x] = m.V[y]
	case OR:
		m.V[x] |= m.V[y]
	case AND:
		m.V[x] &= m.V[y]
	case XOR:
		m.V[x] ^= m.V[y]
	case ADDR:
		sum := uint16(m.V[x]) + uint16(m.V[y])
		m.V[x] = byte(sum)
		m.V[0xf] = flag(sum > 0xff)
	case SUB:
		f := flag(m.V[x] > m.V[y])
		m.V[x] -= m.V[y]
		m.V[0xf] = f
	case SHR:
		f := m.V[x] & 0x01
		m.V[x] >>= 1
		m.V[0xf] = f
	case SUBN:
		f := flag(m.V[y] > m.V[x])
		m.V[x] = m.V[y] - m.V[x]
		m.V[0xf] = f
	case SHL:
		f := m.V[x] >> 7
		m.V[x] <<= 1
		m.V[0xf] = f
	case SNER:
		m.skipIf(m.V[x] != m.V[y])
	case LDI:
		m.I = in.Addr()
	case JPV:
		m.PC = in.Addr() + uint16(m.V[0])
	case RND:
		m.V[x] = byte(m.Rand.Intn(0x100)) & in.Byte()
	case DRW:
		sprite := m.span(m.I, int(in.N()))
		m.V[0xf] = flag(m.Display.DrawSprite(int(m.V[x]), int(m.V[y]), sprite))
	case SKP:
		m.skipIf(m.keyHeld(m.V[x]))
	case SKNP:
		m.skipIf(!m.keyHeld(m.V[x]))
	case LDDT:
		m.V[x] = m.DT
	case LDK:
		if m.pressed == 0 {
			m.waiting = true
			m.PC = pc
		} else {
			m.V[x] = byte(lowestKey(m.pressed))
		}
	case SETDT:
		m.DT = m.V[x]
	case SETST:
		m.ST = m.V[x]
	case ADDI:
		m.I += uint16(m.V[x])
	case LDF:
		m.I = FontAddr + uint16(m.V[x]&0xf)*glyphHeight
	case BCD:
		b, v := m.span(m.I, 3), m.V[x]
		b[0], b[1], b[2] = v/100, v/10%10, v%10
	case STM:
		copy(m.span(m.I, int(x)+1), m.V[:x+1])
	case LDM:
		copy(m.V[:x+1], m.span(m.I, int(x)+1))
	default:
		panic(fmt.Errorf("internal error: %v not implemented", in.Op))
	}

	if in.Op.Draws() {
		m.publish()
	}
	return nil
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.PC += 2
	}
}

func (m *Machine) keyHeld(v byte) bool {
	return v < NumKeys && m.held&Key(v).mask() != 0
}

func (m *Machine) load(addr uint16) byte {
	if int(addr) >= MemSize {
		panic(OutOfBounds)
	}
	return m.Mem[addr]
}

// span returns n bytes of memory starting at addr.
func (m *Machine) span(addr uint16, n int) []byte {
	end := int(addr) + n
	if end > MemSize {
		panic(OutOfBounds)
	}
	return m.Mem[addr:end]
}

func (m *Machine) timerDivisor() uint64 {
	d := m.hz() / TimerHz
	if d < 1 {
		d = 1
	}
	return uint64(d)
}

// publish sends a snapshot of the display to Frames. If the previous
// frame has not been received yet it is replaced, so the machine never
// waits for the host.
func (m *Machine) publish() {
	if m.Frames == nil {
		return
	}
	f := m.Display.Snapshot()
	select {
	case m.Frames <- f:
		return
	default:
	}
	select {
	case <-m.Frames:
	default:
	}
	select {
	case m.Frames <- f:
	default:
	}
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// HaltError is returned by Step and Run if execution cannot continue.
type HaltError struct {
	HaltCode
	Word uint16 // instruction word, if it was fetched
	Addr uint16 // address of the instruction
	Err  error  // underlying error, if any
}

func (e HaltError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %.3x: %v", e.HaltCode, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s executing %.4x at %.3x", e.HaltCode, e.Word, e.Addr)
}

func (e HaltError) Unwrap() error { return e.Err }

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	BadOpcode HaltCode = iota + 1
	StackOverflow
	StackUnderflow
	OutOfBounds
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		BadOpcode:      "bad opcode",
		StackOverflow:  "stack overflow",
		StackUnderflow: "stack underflow",
		OutOfBounds:    "memory access out of bounds",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
