package host

import (
	"unicode"

	"github.com/nf/c8/chip8"
)

// keyRunes maps each keypad key to a key on a QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  q w e r
//	7 8 9 E      a s d f
//	A 0 B F      z x c v
var keyRunes = [chip8.NumKeys]rune{
	0x0: 'x',
	0x1: '1', 0x2: '2', 0x3: '3', 0xc: '4',
	0x4: 'q', 0x5: 'w', 0x6: 'e', 0xd: 'r',
	0x7: 'a', 0x8: 's', 0x9: 'd', 0xe: 'f',
	0xa: 'z', 0xb: 'c', 0xf: 'v',
}

// KeyForRune returns the keypad key bound to r, ignoring case.
func KeyForRune(r rune) (chip8.Key, bool) {
	r = unicode.ToLower(r)
	for k, kr := range keyRunes {
		if kr == r {
			return chip8.Key(k), true
		}
	}
	return 0, false
}

// RuneForKey returns the keyboard key bound to k.
func RuneForKey(k chip8.Key) rune {
	if k >= chip8.NumKeys {
		return 0
	}
	return keyRunes[k]
}
