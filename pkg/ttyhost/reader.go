package ttyhost

import (
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"src.elv.sh/formtk/pkg/term"
)

// Timeout for bytes in escape sequences. Modern terminal emulators send escape
// sequences very fast, so 10ms is more than sufficient.
var keySeqTimeout = 10 * time.Millisecond

var errTimeout = errors.New("timed out")

type byteReaderWithTimeout interface {
	// ReadByteWithTimeout reads a single byte with a timeout. A negative
	// timeout means no timeout.
	ReadByteWithTimeout(timeout time.Duration) (byte, error)
}

// Reads a file from a goroutine, so that reads can time out.
type fileReader struct {
	ch  chan byte
	err error
}

func newFileReader(r io.Reader) *fileReader {
	fr := &fileReader{ch: make(chan byte, 64)}
	go func() {
		var buf [64]byte
		for {
			n, err := r.Read(buf[:])
			for _, b := range buf[:n] {
				fr.ch <- b
			}
			if err != nil {
				fr.err = err
				close(fr.ch)
				return
			}
		}
	}()
	return fr
}

func (fr *fileReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	var timer <-chan time.Time
	if timeout >= 0 {
		timer = time.After(timeout)
	}
	select {
	case b, ok := <-fr.ch:
		if !ok {
			// The goroutine sets err before closing the channel.
			return 0, fr.err
		}
		return b, nil
	case <-timer:
		return 0, errTimeout
	}
}

// An escape sequence that could not be decoded.
type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

func readRuneTimeout(rd byteReaderWithTimeout, timeout time.Duration) (rune, error) {
	b, err := rd.ReadByteWithTimeout(timeout)
	if err != nil {
		return 0, err
	}
	if b < utf8.RuneSelf {
		return rune(b), nil
	}
	buf := []byte{b}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		b, err := rd.ReadByteWithTimeout(keySeqTimeout)
		if err != nil {
			return utf8.RuneError, nil
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	return r, nil
}

// Used by readEvent to signal the end of the current sequence.
const runeEndOfSeq rune = -1

func readEvent(rd byteReaderWithTimeout) (event term.Event, err error) {
	var r rune
	r, err = readRuneTimeout(rd, -1)
	if err != nil {
		return
	}

	currentSeq := string(r)
	// Attempts to read a rune within a timeout of keySeqTimeout. It returns
	// runeEndOfSeq if there is any error; the caller should terminate the
	// current sequence when it sees that value.
	readRune := func() rune {
		r, e := readRuneTimeout(rd, keySeqTimeout)
		if e != nil {
			return runeEndOfSeq
		}
		currentSeq += string(r)
		return r
	}
	badSeq := func(msg string) {
		err = seqError{msg, currentSeq}
	}

	if r != 0x1b {
		return term.KeyEvent(ctrlModify(r)), nil
	}

	r2 := readRune()
	// rxvt and derivatives prepend another ESC to a CSI-style or G3-style
	// sequence to signal Alt.
	alt := false
	if r2 == 0x1b {
		alt = true
		r2 = readRune()
	}
	switch r2 {
	case runeEndOfSeq:
		// Nothing follows. Taken as a lone Escape.
		event = term.KeyEvent(term.K('[', term.Ctrl))
	case '[':
		r = readRune()
		if r == runeEndOfSeq {
			event = term.KeyEvent(term.K('[', term.Alt))
			return
		}
		var nums []int
	CSISeq:
		for {
			switch {
			case r == ';':
				nums = append(nums, 0)
			case '0' <= r && r <= '9':
				if len(nums) == 0 {
					nums = append(nums, 0)
				}
				cur := len(nums) - 1
				nums[cur] = nums[cur]*10 + int(r-'0')
			case r == runeEndOfSeq:
				badSeq("incomplete CSI")
				return
			default: // Treat as a terminator.
				break CSISeq
			}
			r = readRune()
		}
		if r == '~' && len(nums) == 1 && nums[0] == 200 {
			return readPaste(rd)
		}
		k := parseCSI(nums, r)
		if k == (term.Key{}) {
			badSeq("bad CSI")
			return
		}
		if alt {
			k.Mod |= term.Alt
		}
		event = term.KeyEvent(k)
	case 'O':
		// G3 style function key sequence: read one rune.
		r = readRune()
		if r == runeEndOfSeq {
			// Nothing follows after 'O'. Taken as Alt-O.
			event = term.KeyEvent(term.K('O', term.Alt))
			return
		}
		k, ok := g3Seq[r]
		if !ok {
			badSeq("bad G3")
			return
		}
		if alt {
			k.Mod |= term.Alt
		}
		event = term.KeyEvent(k)
	default:
		// Something other than '[' or 'O' follows. Taken as an Alt-modified
		// key, possibly also modified by Ctrl.
		k := ctrlModify(r2)
		k.Mod |= term.Alt
		event = term.KeyEvent(k)
	}
	return
}

// Reads bracketed paste content up to the closing sequence.
func readPaste(rd byteReaderWithTimeout) (term.Event, error) {
	const end = "\x1b[201~"
	var buf []byte
	for {
		b, err := rd.ReadByteWithTimeout(-1)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)
		if len(buf) >= len(end) && string(buf[len(buf)-len(end):]) == end {
			return term.PasteEvent(buf[:len(buf)-len(end)]), nil
		}
	}
}

// Determines whether a rune corresponds to a Ctrl-modified key and returns the
// key the rune represents. Ctrl-letters are reported with lower-case letters.
func ctrlModify(r rune) term.Key {
	switch r {
	case '\r':
		// Enter, since ICRNL is off in raw mode.
		return term.K(term.Enter)
	case term.Tab, term.Enter, term.Backspace:
		// Ambiguous Ctrl keys; prefer the non-Ctrl form as they are more likely.
		return term.K(r)
	case 0x08:
		return term.K(term.Backspace)
	case 0x0:
		return term.K('`', term.Ctrl) // ^@
	case 0x1e:
		return term.K('6', term.Ctrl) // ^^
	case 0x1f:
		return term.K('/', term.Ctrl) // ^_
	}
	switch {
	case 0x1 <= r && r <= 0x1a:
		return term.K(r+0x60, term.Ctrl)
	case 0x1b <= r && r <= 0x1d:
		return term.K(r+0x40, term.Ctrl)
	}
	return term.K(r)
}

// G3-style key sequences: \eO followed by exactly one character.
var g3Seq = map[rune]term.Key{
	'A': term.K(term.Up), 'B': term.K(term.Down),
	'C': term.K(term.Right), 'D': term.K(term.Left),
	'H': term.K(term.Home), 'F': term.K(term.End),
}

// CSI-style key sequences identified by the last rune. For instance, \e[A is
// Up. When modified, two numerical arguments are added, the first always being
// 1 and the second identifying the modifier. For instance, \e[1;3A is Alt-Up.
var csiSeqByLast = map[rune]term.Key{
	'A': term.K(term.Up), 'B': term.K(term.Down),
	'C': term.K(term.Right), 'D': term.K(term.Left),
	'H': term.K(term.Home), 'F': term.K(term.End),
	'Z': term.K(term.Tab, term.Shift),
}

// CSI-style key sequences ending with '~', with one or two numerical
// arguments. The first argument identifies the key, and the optional second
// argument identifies the modifier. For instance, \e[3~ is Delete.
var csiSeqTilde = map[int]rune{
	1: term.Home, 2: term.Insert, 3: term.Delete, 4: term.End,
	5: term.PageUp, 6: term.PageDown, 7: term.Home, 8: term.End,
}

func parseCSI(nums []int, last rune) term.Key {
	if k, ok := csiSeqByLast[last]; ok {
		switch {
		case len(nums) == 0:
			return k
		case len(nums) == 2 && nums[0] == 1:
			return xtermModify(k, nums[1])
		}
		return term.Key{}
	}
	if last == '~' && (len(nums) == 1 || len(nums) == 2) {
		if r, ok := csiSeqTilde[nums[0]]; ok {
			k := term.K(r)
			if len(nums) == 1 {
				return k
			}
			return xtermModify(k, nums[1])
		}
	}
	return term.Key{}
}

func xtermModify(k term.Key, mod int) term.Key {
	if mod < 0 || mod > 16 {
		return term.Key{}
	}
	if mod == 0 {
		return k
	}
	modFlags := mod - 1
	if modFlags&0x1 != 0 {
		k.Mod |= term.Shift
	}
	if modFlags&0x2 != 0 {
		k.Mod |= term.Alt
	}
	if modFlags&0x4 != 0 {
		k.Mod |= term.Ctrl
	}
	if modFlags&0x8 != 0 {
		// Meta is conflated with Alt.
		k.Mod |= term.Alt
	}
	return k
}
