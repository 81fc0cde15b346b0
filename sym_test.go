package main

import (
	"strings"
	"testing"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/host"
)

const testSymbols = `
# sprite data
300 ball
200 main   # entry
20a loop
300 ball.left
`

func TestParseSymbols(t *testing.T) {
	ss, err := parseSymbols([]byte(testSymbols))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range ss {
		got = append(got, s.String())
	}
	want := "main (200),loop (20a),ball (300),ball.left (300)"
	if g := strings.Join(got, ","); g != want {
		t.Errorf("got %s\nwant %s", g, want)
	}

	if s := ss.forAddr(0x300); len(s) != 2 {
		t.Errorf("forAddr(300) = %v", s)
	}
	if s := ss.forAddr(0x201); len(s) != 0 {
		t.Errorf("forAddr(201) = %v", s)
	}
	if s := ss.withLabelPrefix("ba"); len(s) != 2 {
		t.Errorf("withLabelPrefix(ba) = %v", s)
	}

	for _, c := range []struct {
		in   string
		addr uint16
		ok   bool
	}{
		{"loop", 0x20a, true},
		{"20a", 0x20a, true},
		{"0x2f0", 0x2f0, true},
		{"1000", 0, false},
		{"nope", 0, false},
	} {
		s, ok := ss.resolve(c.in)
		if ok != c.ok || s.addr != c.addr {
			t.Errorf("resolve(%q) = %v, %v", c.in, s, ok)
		}
	}
}

func TestParseSymbolsErrors(t *testing.T) {
	for _, in := range []string{
		"200",
		"200 main extra",
		"zzz main",
		"1000 main",
	} {
		if _, err := parseSymbols([]byte(in)); err == nil {
			t.Errorf("parseSymbols(%q) succeeded", in)
		}
	}
}

func TestOperandAddr(t *testing.T) {
	for _, c := range []struct {
		word uint16
		addr uint16
		ok   bool
	}{
		{0x1234, 0x234, true},
		{0x2456, 0x456, true},
		{0xa2f0, 0x2f0, true},
		{0xb300, 0x302, true},
		{0xd125, 0x3a0, true},
		{0xf355, 0x3a0, true},
		{0x6001, 0, false},
		{0xffff, 0, false},
	} {
		m, _ := chip8.NewMachine([]byte{byte(c.word >> 8), byte(c.word)})
		m.V[0] = 2
		m.I = 0x3a0
		addr, ok := operandAddr(m)
		if ok != c.ok || addr != c.addr {
			t.Errorf("%.4x: got %.3x, %v; want %.3x, %v", c.word, addr, ok, c.addr, c.ok)
		}
	}
}

func TestStateMsg(t *testing.T) {
	ss, _ := parseSymbols([]byte("200 main\n2f0 sprite\n"))
	m, _ := chip8.NewMachine([]byte{0xa2, 0xf0})
	msg := stateMsg(ss, m, host.BreakState)
	for _, want := range []string{"200 LD I, 2f0", "[break]", "main (200) -> sprite (2f0)", "ret: ---", "stack: ( )"} {
		if !strings.Contains(msg, want) {
			t.Errorf("state message %q does not contain %q", msg, want)
		}
	}

	m.Stack = chip8.Stack{Addrs: [chip8.StackDepth]uint16{0x204, 0x2f0}, Ptr: 2}
	msg = stateMsg(ss, m, host.PauseState)
	for _, want := range []string{"[pause]", "ret: sprite (2f0)", "stack: ( 204 2f0 )"} {
		if !strings.Contains(msg, want) {
			t.Errorf("state message %q does not contain %q", msg, want)
		}
	}
}
