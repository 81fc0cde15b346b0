package chip8

import (
	"errors"
	"testing"
)

var opPatterns = []struct {
	mask, value uint16
	op          Op
}{
	{0xffff, 0x00e0, CLS},
	{0xffff, 0x00ee, RET},
	{0xf000, 0x0000, SYS},
	{0xf000, 0x1000, JP},
	{0xf000, 0x2000, CALL},
	{0xf000, 0x3000, SEB},
	{0xf000, 0x4000, SNEB},
	{0xf00f, 0x5000, SER},
	{0xf000, 0x6000, LDB},
	{0xf000, 0x7000, ADDB},
	{0xf00f, 0x8000, LDR},
	{0xf00f, 0x8001, OR},
	{0xf00f, 0x8002, AND},
	{0xf00f, 0x8003, XOR},
	{0xf00f, 0x8004, ADDR},
	{0xf00f, 0x8005, SUB},
	{0xf00f, 0x8006, SHR},
	{0xf00f, 0x8007, SUBN},
	{0xf00f, 0x800e, SHL},
	{0xf00f, 0x9000, SNER},
	{0xf000, 0xa000, LDI},
	{0xf000, 0xb000, JPV},
	{0xf000, 0xc000, RND},
	{0xf000, 0xd000, DRW},
	{0xf0ff, 0xe09e, SKP},
	{0xf0ff, 0xe0a1, SKNP},
	{0xf0ff, 0xf007, LDDT},
	{0xf0ff, 0xf00a, LDK},
	{0xf0ff, 0xf015, SETDT},
	{0xf0ff, 0xf018, SETST},
	{0xf0ff, 0xf01e, ADDI},
	{0xf0ff, 0xf029, LDF},
	{0xf0ff, 0xf033, BCD},
	{0xf0ff, 0xf055, STM},
	{0xf0ff, 0xf065, LDM},
}

func TestDecodeAll(t *testing.T) {
	for i := 0; i <= 0xffff; i++ {
		w := uint16(i)
		want, known := Op(0), false
		for _, p := range opPatterns {
			if w&p.mask == p.value {
				want, known = p.op, true
				break
			}
		}
		in, err := Decode(w)
		if !known {
			var d *DecodeError
			if !errors.As(err, &d) {
				t.Fatalf("Decode(%.4x) = %v, %v; want DecodeError", w, in, err)
			}
			if d.Word != w || d.High != byte(w>>12) || d.Low != byte(w&0xf) {
				t.Fatalf("Decode(%.4x) error is %+v", w, *d)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Decode(%.4x): %v", w, err)
		}
		if in.Op != want || in.Word != w {
			t.Fatalf("Decode(%.4x) = %v (%.4x), want %v", w, in.Op, in.Word, want)
		}
	}
}

func TestInstructionFields(t *testing.T) {
	in, err := Decode(0xd7a3)
	if err != nil {
		t.Fatal(err)
	}
	if in.Addr() != 0x7a3 || in.X() != 7 || in.Y() != 0xa || in.Byte() != 0xa3 || in.N() != 3 {
		t.Errorf("fields of %.4x: nnn=%.3x x=%X y=%X kk=%.2x n=%X",
			in.Word, in.Addr(), in.X(), in.Y(), in.Byte(), in.N())
	}
}

func TestInstructionString(t *testing.T) {
	for _, c := range []struct {
		w    uint16
		want string
	}{
		{0x00e0, "CLS"},
		{0x00ee, "RET"},
		{0x0123, "SYS 123"},
		{0x1abc, "JP abc"},
		{0x2200, "CALL 200"},
		{0x3142, "SE V1, 42"},
		{0x8374, "ADD V3, V7"},
		{0x8ab6, "SHR VA, VB"},
		{0xa2f0, "LD I, 2f0"},
		{0xb300, "JP V0, 300"},
		{0xd015, "DRW V0, V1, 5"},
		{0xe59e, "SKP V5"},
		{0xf30a, "LD V3, K"},
		{0xf215, "LD DT, V2"},
		{0xf133, "LD B, V1"},
		{0xfe55, "LD [I], VE"},
		{0xf465, "LD V4, [I]"},
	} {
		in, err := Decode(c.w)
		if err != nil {
			t.Fatal(err)
		}
		if g := in.String(); g != c.want {
			t.Errorf("%.4x: got %q, want %q", c.w, g, c.want)
		}
	}
}

func TestOpString(t *testing.T) {
	for op := Op(0); op < numOps; op++ {
		if op.String() == "" {
			t.Errorf("Op(%d) has no name", op)
		}
	}
	if g := numOps.String(); g != "???" {
		t.Errorf("numOps.String() = %q, want ???", g)
	}
}
