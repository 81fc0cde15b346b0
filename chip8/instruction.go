package chip8

import "fmt"

// Instruction is a decoded CHIP-8 instruction word.
type Instruction struct {
	Op   Op
	Word uint16
}

func (in Instruction) Addr() uint16 { return in.Word & 0x0fff }     // nnn
func (in Instruction) X() byte      { return byte(in.Word>>8) & 0xf } // x
func (in Instruction) Y() byte      { return byte(in.Word>>4) & 0xf } // y
func (in Instruction) Byte() byte   { return byte(in.Word) }          // kk
func (in Instruction) N() byte      { return byte(in.Word) & 0xf }    // n

// String renders the instruction in assembler syntax, eg. "ADD V3, V7".
func (in Instruction) String() string {
	var (
		op   = in.Op.String()
		x, y = in.X(), in.Y()
	)
	switch in.Op {
	case CLS, RET:
		return op
	case SYS, JP, CALL:
		return fmt.Sprintf("%s %.3x", op, in.Addr())
	case SEB, SNEB, LDB, ADDB, RND:
		return fmt.Sprintf("%s V%X, %.2x", op, x, in.Byte())
	case SER, SNER, LDR, OR, AND, XOR, ADDR, SUB, SHR, SUBN, SHL:
		return fmt.Sprintf("%s V%X, V%X", op, x, y)
	case LDI:
		return fmt.Sprintf("%s I, %.3x", op, in.Addr())
	case JPV:
		return fmt.Sprintf("%s V0, %.3x", op, in.Addr())
	case DRW:
		return fmt.Sprintf("%s V%X, V%X, %d", op, x, y, in.N())
	case SKP, SKNP:
		return fmt.Sprintf("%s V%X", op, x)
	case LDDT:
		return fmt.Sprintf("%s V%X, DT", op, x)
	case LDK:
		return fmt.Sprintf("%s V%X, K", op, x)
	case SETDT:
		return fmt.Sprintf("%s DT, V%X", op, x)
	case SETST:
		return fmt.Sprintf("%s ST, V%X", op, x)
	case ADDI:
		return fmt.Sprintf("%s I, V%X", op, x)
	case LDF:
		return fmt.Sprintf("%s F, V%X", op, x)
	case BCD:
		return fmt.Sprintf("%s B, V%X", op, x)
	case STM:
		return fmt.Sprintf("%s [I], V%X", op, x)
	case LDM:
		return fmt.Sprintf("%s V%X, [I]", op, x)
	}
	return fmt.Sprintf("%s %.4x", op, in.Word)
}

// DecodeError reports a word that does not encode any CHIP-8 instruction.
type DecodeError struct {
	Word uint16
	High byte // top nibble
	Low  byte // bottom nibble
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode %.4x (group %X, low nibble %X)", e.Word, e.High, e.Low)
}

// Decode maps an instruction word to its operation. It returns a
// *DecodeError for any word outside the CHIP-8 instruction set.
func Decode(w uint16) (Instruction, error) {
	var (
		in   = Instruction{Word: w}
		high = byte(w >> 12)
		low  = byte(w) & 0xf
		ok   = true
	)
	switch high {
	case 0x0:
		switch w {
		case 0x00e0:
			in.Op = CLS
		case 0x00ee:
			in.Op = RET
		default:
			in.Op = SYS
		}
	case 0x1:
		in.Op = JP
	case 0x2:
		in.Op = CALL
	case 0x3:
		in.Op = SEB
	case 0x4:
		in.Op = SNEB
	case 0x5:
		in.Op, ok = SER, low == 0
	case 0x6:
		in.Op = LDB
	case 0x7:
		in.Op = ADDB
	case 0x8:
		switch low {
		case 0x0:
			in.Op = LDR
		case 0x1:
			in.Op = OR
		case 0x2:
			in.Op = AND
		case 0x3:
			in.Op = XOR
		case 0x4:
			in.Op = ADDR
		case 0x5:
			in.Op = SUB
		case 0x6:
			in.Op = SHR
		case 0x7:
			in.Op = SUBN
		case 0xe:
			in.Op = SHL
		default:
			ok = false
		}
	case 0x9:
		in.Op, ok = SNER, low == 0
	case 0xa:
		in.Op = LDI
	case 0xb:
		in.Op = JPV
	case 0xc:
		in.Op = RND
	case 0xd:
		in.Op = DRW
	case 0xe:
		switch byte(w) {
		case 0x9e:
			in.Op = SKP
		case 0xa1:
			in.Op = SKNP
		default:
			ok = false
		}
	case 0xf:
		switch byte(w) {
		case 0x07:
			in.Op = LDDT
		case 0x0a:
			in.Op = LDK
		case 0x15:
			in.Op = SETDT
		case 0x18:
			in.Op = SETST
		case 0x1e:
			in.Op = ADDI
		case 0x29:
			in.Op = LDF
		case 0x33:
			in.Op = BCD
		case 0x55:
			in.Op = STM
		case 0x65:
			in.Op = LDM
		default:
			ok = false
		}
	}
	if !ok {
		return Instruction{}, &DecodeError{Word: w, High: high, Low: low}
	}
	return in, nil
}
