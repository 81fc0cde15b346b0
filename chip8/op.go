package chip8

// Op identifies a CHIP-8 operation, independent of its operands.
type Op byte

const (
	SYS  Op = iota // 0nnn
	CLS            // 00E0
	RET            // 00EE
	JP             // 1nnn
	CALL           // 2nnn
	SEB            // 3xkk
	SNEB           // 4xkk
	SER            // 5xy0
	LDB            // 6xkk
	ADDB           // 7xkk
	LDR            // 8xy0
	OR             // 8xy1
	AND            // 8xy2
	XOR            // 8xy3
	ADDR           // 8xy4
	SUB            // 8xy5
	SHR            // 8xy6
	SUBN           // 8xy7
	SHL            // 8xyE
	SNER           // 9xy0
	LDI            // Annn
	JPV            // Bnnn
	RND            // Cxkk
	DRW            // Dxyn
	SKP            // Ex9E
	SKNP           // ExA1
	LDDT           // Fx07
	LDK            // Fx0A
	SETDT          // Fx15
	SETST          // Fx18
	ADDI           // Fx1E
	LDF            // Fx29
	BCD            // Fx33
	STM            // Fx55
	LDM            // Fx65

	numOps
)

// String returns the conventional assembler mnemonic for the operation.
// Several operations share a mnemonic (for example LD), since CHIP-8
// assemblers distinguish them by operand types.
func (op Op) String() string {
	if op < numOps {
		return opNames[op]
	}
	return "???"
}

// Draws reports whether the operation mutates the display.
func (op Op) Draws() bool { return op == CLS || op == DRW }

var opNames = [numOps]string{
	SYS:   "SYS",
	CLS:   "CLS",
	RET:   "RET",
	JP:    "JP",
	CALL:  "CALL",
	SEB:   "SE",
	SNEB:  "SNE",
	SER:   "SE",
	LDB:   "LD",
	ADDB:  "ADD",
	LDR:   "LD",
	OR:    "OR",
	AND:   "AND",
	XOR:   "XOR",
	ADDR:  "ADD",
	SUB:   "SUB",
	SHR:   "SHR",
	SUBN:  "SUBN",
	SHL:   "SHL",
	SNER:  "SNE",
	LDI:   "LD",
	JPV:   "JP",
	RND:   "RND",
	DRW:   "DRW",
	SKP:   "SKP",
	SKNP:  "SKNP",
	LDDT:  "LD",
	LDK:   "LD",
	SETDT: "LD",
	SETST: "LD",
	ADDI:  "ADD",
	LDF:   "LD",
	BCD:   "LD",
	STM:   "LD",
	LDM:   "LD",
}
