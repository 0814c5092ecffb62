package term

import (
	"fmt"
	"strings"
)

// Event represents an event that can be read from the terminal.
type Event interface {
	isEvent()
}

// KeyEvent represents a key press.
type KeyEvent Key

// PasteEvent carries text pasted in one piece.
type PasteEvent string

func (KeyEvent) isEvent()   {}
func (PasteEvent) isEvent() {}

// Key represents a single keyboard input, typically assembled from an escape
// sequence.
type Key struct {
	Rune rune
	Mod  Mod
}

// K constructs a new Key.
func K(r rune, mods ...Mod) Key {
	var mod Mod
	for _, m := range mods {
		mod |= m
	}
	return Key{r, mod}
}

// Mod represents a modifier key.
type Mod byte

// Values for Mod.
const (
	// Shift is the shift modifier. It is only applied to special keys (e.g.
	// Shift-F1). For instance 'A' and '@' which are typically entered with the
	// shift key pressed, are not considered to be shift-modified.
	Shift Mod = 1 << iota
	// Alt is the alt modifier, traditionally known as the meta modifier.
	Alt
	Ctrl
)

// Special negative runes to represent function keys, used in the Rune field
// of the Key struct.
const (
	Up rune = -iota - 1
	Down
	Right
	Left

	Home
	Insert
	Delete
	End
	PageUp
	PageDown

	// Unused, but reserved for completeness.
	DefaultBindingRune
)

// Plain characters with special names.
const (
	Tab       = '\t'
	Enter     = '\n'
	Backspace = 0x7f
)

var functionKeyNames = map[rune]string{
	Up: "Up", Down: "Down", Right: "Right", Left: "Left",
	Home: "Home", Insert: "Insert", Delete: "Delete", End: "End",
	PageUp: "PageUp", PageDown: "PageDown",
	Tab: "Tab", Enter: "Enter", Backspace: "Backspace",
}

func (k Key) String() string {
	var b strings.Builder
	if k.Mod&Ctrl != 0 {
		b.WriteString("Ctrl-")
	}
	if k.Mod&Alt != 0 {
		b.WriteString("Alt-")
	}
	if k.Mod&Shift != 0 {
		b.WriteString("Shift-")
	}
	if name, ok := functionKeyNames[k.Rune]; ok {
		b.WriteString(name)
	} else if k.Rune > 0 {
		b.WriteRune(k.Rune)
	} else {
		fmt.Fprintf(&b, "(bad function key %d)", k.Rune)
	}
	return b.String()
}
