package chip8

import (
	"fmt"
	"strconv"
	"sync"
)

// Key identifies one of the 16 keys of the CHIP-8 hexadecimal keypad.
type Key byte

// NumKeys is the number of keys on the keypad.
const NumKeys = 16

func (k Key) String() string { return fmt.Sprintf("%X", byte(k)) }

func (k Key) mask() uint16 { return 1 << k }

// ParseKey parses a single hexadecimal digit as a Key.
func ParseKey(s string) (Key, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil || v >= NumKeys {
		return 0, fmt.Errorf("invalid key %q", s)
	}
	return Key(v), nil
}

// Keypad buffers key events from the host until the machine samples
// them with Merge. Press and Release may be called from any goroutine.
type Keypad struct {
	mu   sync.Mutex
	live uint16 // keys the host currently holds down
	down uint16 // keys pressed since the last Merge

	ready chan struct{}
}

// NewKeypad returns a keypad with no keys held.
func NewKeypad() *Keypad {
	return &Keypad{ready: make(chan struct{}, 1)}
}

// Ready returns a channel that receives a value after the host delivers
// a key event.
func (k *Keypad) Ready() <-chan struct{} { return k.ready }

// Press records that key was pressed. Pressing a key that is already
// held does nothing.
func (k *Keypad) Press(key Key) {
	if key >= NumKeys {
		return
	}
	k.mu.Lock()
	if k.live&key.mask() == 0 {
		k.live |= key.mask()
		k.down |= key.mask()
	}
	k.mu.Unlock()
	k.updated()
}

// Release records that key was released.
func (k *Keypad) Release(key Key) {
	if key >= NumKeys {
		return
	}
	k.mu.Lock()
	k.live &^= key.mask()
	k.mu.Unlock()
	k.updated()
}

// Merge samples the keypad. It returns the keys held at the time of the
// call together with any key pressed since the previous call, even if it
// has already been released, and the set of keys pressed since the
// previous call.
func (k *Keypad) Merge() (held, pressed uint16) {
	k.mu.Lock()
	defer k.mu.Unlock()
	held, pressed = k.live|k.down, k.down
	k.down = 0
	return
}

// Reset releases all keys and discards pending events.
func (k *Keypad) Reset() {
	k.mu.Lock()
	k.live, k.down = 0, 0
	k.mu.Unlock()
}

func (k *Keypad) updated() {
	select {
	case k.ready <- struct{}{}:
	default:
	}
}

// lowestKey returns the lowest-numbered key in mask, which must be
// non-zero.
func lowestKey(mask uint16) Key {
	for k := Key(0); k < NumKeys; k++ {
		if mask&k.mask() != 0 {
			return k
		}
	}
	panic("lowestKey: empty mask")
}
