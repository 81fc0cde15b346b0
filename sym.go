package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nf/c8/chip8"
)

// symbols is a list of labels sorted by address.
type symbols []symbol

func (s symbols) forAddr(addr uint16) (ss []symbol) {
	i := sort.Search(len(s), func(i int) bool { return s[i].addr >= addr })
	for ; i < len(s); i++ {
		if s[i].addr != addr {
			break
		}
		ss = append(ss, s[i])
	}
	return ss
}

func (s symbols) withLabelPrefix(prefix string) (ss []symbol) {
	for _, s := range s {
		if strings.HasPrefix(s.label, prefix) {
			ss = append(ss, s)
		}
	}
	return ss
}

// resolve interprets v as a label or a hexadecimal address.
func (s symbols) resolve(v string) (symbol, bool) {
	for _, s := range s {
		if s.label == v {
			return s, true
		}
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(v, "0x"), 16, 16)
	if err != nil || addr >= chip8.MemSize {
		return symbol{}, false
	}
	sym := symbol{addr: uint16(addr), label: fmt.Sprintf("%.3x", addr)}
	if ss := s.forAddr(sym.addr); len(ss) > 0 {
		sym = ss[0]
	}
	return sym, true
}

type symbol struct {
	addr  uint16
	label string
}

func (s symbol) String() string { return fmt.Sprintf("%s (%.3x)", s.label, s.addr) }

// parseSymbols reads a label file. Each non-blank line holds a
// hexadecimal address and a label, separated by white space; text after
// a '#' is ignored.
func parseSymbols(b []byte) (symbols, error) {
	var (
		ss   symbols
		sc   = bufio.NewScanner(bytes.NewReader(b))
		line = 0
	)
	for sc.Scan() {
		line++
		text, _, _ := strings.Cut(sc.Text(), "#")
		f := strings.Fields(text)
		if len(f) == 0 {
			continue
		}
		if len(f) != 2 {
			return nil, fmt.Errorf("line %d: want address and label, got %q", line, text)
		}
		addr, err := strconv.ParseUint(strings.TrimPrefix(f[0], "0x"), 16, 16)
		if err != nil || addr >= chip8.MemSize {
			return nil, fmt.Errorf("line %d: invalid address %q", line, f[0])
		}
		ss = append(ss, symbol{addr: uint16(addr), label: f[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].addr < ss[j].addr
	})
	return ss, nil
}

// loadSymbols reads the label file for romFile, if there is one.
func loadSymbols(romFile string) (symbols, error) {
	b, err := os.ReadFile(romFile + ".sym")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return parseSymbols(b)
}

// operandAddr returns the memory address the instruction at PC refers
// to, either directly or through I.
func operandAddr(m *chip8.Machine) (uint16, bool) {
	if int(m.PC)+1 >= chip8.MemSize {
		return 0, false
	}
	in, err := chip8.Decode(uint16(m.Mem[m.PC])<<8 | uint16(m.Mem[m.PC+1]))
	if err != nil {
		return 0, false
	}
	switch in.Op {
	case chip8.JP, chip8.CALL, chip8.LDI:
		return in.Addr(), true
	case chip8.JPV:
		return in.Addr() + uint16(m.V[0]), true
	case chip8.DRW, chip8.BCD, chip8.STM, chip8.LDM:
		return m.I, true
	}
	return 0, false
}
