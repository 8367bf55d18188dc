// Package keypad implements the 16 key hexadecimal CHIP-8 keypad.
package keypad

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// KeyCount is the number of keys on the keypad.
const KeyCount = 16

// hostKeys maps keypad keys 0-F to host keyboard keys.
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   <-   q w e r
//	7 8 9 E        a s d f
//	A 0 B F        y x c v
var hostKeys = [KeyCount]rune{
	'x', '1', '2', '3',
	'q', 'w', 'e', 'a',
	's', 'd', 'y', 'c',
	'4', 'r', 'f', 'v',
}

// Keypad holds the pressed state of all keys.
type Keypad struct {
	keys [KeyCount]bool
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// IsDown returns whether the given key is held. Keys outside of 0-F are never held.
// Querying a key does not change its state.
func (k *Keypad) IsDown(key uint8) bool {
	if int(key) >= KeyCount {
		return false
	}
	return k.keys[key]
}

// Press marks the key as held.
func (k *Keypad) Press(key uint8) {
	if int(key) < KeyCount {
		k.keys[key] = true
	}
}

// Release marks the key as released.
func (k *Keypad) Release(key uint8) {
	if int(key) < KeyCount {
		k.keys[key] = false
	}
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
}

// Snapshot returns the current state of all keys.
func (k *Keypad) Snapshot() [KeyCount]bool {
	return k.keys
}

// KeyForRune returns the keypad key that the host keyboard key is mapped to.
func KeyForRune(r rune) (uint8, bool) {
	r = unicode.ToLower(r)
	for i, hk := range hostKeys {
		if hk == r {
			return uint8(i), true
		}
	}
	return 0, false
}

// ParseKeys parses a comma separated list of hexadecimal keypad keys like "1,a,F".
func ParseKeys(s string) ([]uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	keys := make([]uint8, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		key, err := strconv.ParseUint(part, 16, 8)
		if err != nil || key >= KeyCount {
			return nil, fmt.Errorf("invalid keypad key '%s'", part)
		}
		keys = append(keys, uint8(key))
	}
	return keys, nil
}
