// Package ttyhost hosts a widget tree on a terminal.
//
// The host puts the terminal into raw mode, draws the mounted widget on the
// alternate screen, and routes key events to it. Tab and Shift-Tab move the
// focus through the tree.
package ttyhost

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"src.elv.sh/formtk/pkg/logutil"
	"src.elv.sh/formtk/pkg/term"
	"src.elv.sh/formtk/pkg/tk"
)

var logger = logutil.GetLogger("[ttyhost] ")

const (
	enterAltScreen  = "\033[?1049h"
	leaveAltScreen  = "\033[?1049l"
	enableBPaste    = "\033[?2004h"
	disableBPaste   = "\033[?2004l"
	clearScreen     = "\033[H\033[2J"
	moveCursorToFmt = "\033[%d;%dH"
)

// Host runs a widget on a terminal.
type Host struct {
	// Consulted before the mounted widget gets an event.
	Bindings tk.Bindings

	in, out *os.File

	mu     sync.Mutex
	widget tk.Widget
	quit   chan struct{}
	once   sync.Once
}

// New creates a Host reading from in and drawing to out.
func New(in, out *os.File) *Host {
	return &Host{Bindings: tk.DummyBindings{}, in: in, out: out, quit: make(chan struct{})}
}

// Mount replaces the widget shown by the host.
func (h *Host) Mount(w tk.Widget) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.widget = w
}

// Quit makes Run return after the current event. It can be called from
// bindings and from other goroutines.
func (h *Host) Quit() {
	h.once.Do(func() { close(h.quit) })
}

// Run takes over the terminal until Quit is called or the input ends.
func (h *Host) Run() error {
	h.mu.Lock()
	w := h.widget
	h.mu.Unlock()
	if w == nil {
		return errors.New("nothing mounted")
	}

	restore, err := makeRaw(h.in)
	if err != nil {
		return err
	}
	defer func() {
		if err := restore(); err != nil {
			logger.Println("restore terminal:", err)
		}
	}()
	h.write(enterAltScreen + enableBPaste)
	defer h.write(disableBPaste + leaveAltScreen)

	if f, ok := w.(tk.Focuser); ok {
		f.Enter(1)
	}

	type result struct {
		event term.Event
		err   error
	}
	results := make(chan result)
	go func() {
		rd := newFileReader(h.in)
		for {
			event, err := readEvent(rd)
			select {
			case results <- result{event, err}:
			case <-h.quit:
				return
			}
			if err != nil {
				if _, bad := err.(seqError); !bad {
					return
				}
			}
		}
	}()

	for {
		h.redraw(w)
		select {
		case <-h.quit:
			return nil
		case r := <-results:
			if r.err != nil {
				if _, bad := r.err.(seqError); bad {
					logger.Println(r.err)
					continue
				}
				if errors.Is(r.err, io.EOF) {
					return nil
				}
				return r.err
			}
			h.handle(w, r.event)
		}
		select {
		case <-h.quit:
			return nil
		default:
		}
	}
}

func (h *Host) handle(w tk.Widget, event term.Event) {
	if h.Bindings.Handle(w, event) {
		return
	}
	switch event {
	case term.KeyEvent(term.K(term.Tab)):
		if moveFocus(w, 1) {
			return
		}
	case term.KeyEvent(term.K(term.Tab, term.Shift)):
		if moveFocus(w, -1) {
			return
		}
	}
	if !w.Handle(event) {
		logger.Println("unhandled event", event)
	}
}

// Moves the focus, wrapping around at either end.
func moveFocus(w tk.Widget, dir int) bool {
	f, ok := w.(tk.Focuser)
	if !ok {
		return false
	}
	if f.Advance(dir) {
		return true
	}
	return f.Enter(dir)
}

func (h *Host) redraw(w tk.Widget) {
	rows, cols := winSize(h.out)
	buf := w.Render(cols, rows)
	var sb strings.Builder
	sb.WriteString(clearScreen)
	sb.WriteString(buf.TTYString())
	fmt.Fprintf(&sb, moveCursorToFmt, buf.Dot.Line+1, buf.Dot.Col+1)
	h.write(sb.String())
}

func (h *Host) write(s string) {
	if _, err := h.out.WriteString(s); err != nil {
		logger.Println("write:", err)
	}
}
