package sim

import (
	"fmt"
	"strings"
)

// Key identifies a physical input (keyboard key or mouse button) independent
// of the device backend. Backends translate their own codes into Keys.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyTab
	KeyLeftShift
	KeyLeftControl
	KeyLeftAlt
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	MouseLeft
	MouseRight
	MouseMiddle

	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown:     "unknown",
	KeyEscape:      "escape",
	KeySpace:       "space",
	KeyEnter:       "enter",
	KeyTab:         "tab",
	KeyLeftShift:   "left-shift",
	KeyLeftControl: "left-control",
	KeyLeftAlt:     "left-alt",
	KeyUp:          "up",
	KeyDown:        "down",
	KeyLeft:        "left",
	KeyRight:       "right",
	MouseLeft:      "mouse-left",
	MouseRight:     "mouse-right",
	MouseMiddle:    "mouse-middle",
}

func init() {
	for k := KeyA; k <= KeyZ; k++ {
		keyNames[k] = string(rune('a' + int(k-KeyA)))
	}
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// Keys returns every known key in declaration order.
func Keys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := KeyUnknown + 1; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// ParseKey resolves a key name such as "w", "left-control" or "mouse-left".
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := KeyUnknown + 1; k < keyCount; k++ {
		if keyNames[k] == name {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}
