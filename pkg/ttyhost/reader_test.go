package ttyhost

import (
	"io"
	"testing"
	"time"

	"src.elv.sh/formtk/pkg/term"
	"src.elv.sh/formtk/pkg/tt"
)

type fakeReader struct{ data []byte }

func (r *fakeReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	if len(r.data) == 0 {
		if timeout < 0 {
			return 0, io.EOF
		}
		return 0, errTimeout
	}
	b := r.data[0]
	r.data = r.data[1:]
	return b, nil
}

func decode(s string) (term.Event, error) {
	return readEvent(&fakeReader{[]byte(s)})
}

func k(r rune, mods ...term.Mod) term.Event { return term.KeyEvent(term.K(r, mods...)) }

func TestReadEvent(t *testing.T) {
	tt.Test(t, tt.Fn("decode", decode), tt.Table{
		tt.Args("a").Rets(k('a'), nil),
		tt.Args("é").Rets(k('é'), nil),
		tt.Args("\x01").Rets(k('a', term.Ctrl), nil),
		tt.Args("\r").Rets(k(term.Enter), nil),
		tt.Args("\t").Rets(k(term.Tab), nil),
		tt.Args("\x7f").Rets(k(term.Backspace), nil),
		tt.Args("\x08").Rets(k(term.Backspace), nil),
		tt.Args("\x1b").Rets(k('[', term.Ctrl), nil),
		tt.Args("\x1bx").Rets(k('x', term.Alt), nil),
		tt.Args("\x1b\x01").Rets(k('a', term.Ctrl|term.Alt), nil),
		tt.Args("\x1b[").Rets(k('[', term.Alt), nil),
		tt.Args("\x1bO").Rets(k('O', term.Alt), nil),

		tt.Args("\x1b[A").Rets(k(term.Up), nil),
		tt.Args("\x1b[1;3A").Rets(k(term.Up, term.Alt), nil),
		tt.Args("\x1b[1;5C").Rets(k(term.Right, term.Ctrl), nil),
		tt.Args("\x1b\x1b[B").Rets(k(term.Down, term.Alt), nil),
		tt.Args("\x1b[Z").Rets(k(term.Tab, term.Shift), nil),
		tt.Args("\x1b[3~").Rets(k(term.Delete), nil),
		tt.Args("\x1b[5;2~").Rets(k(term.PageUp, term.Shift), nil),
		tt.Args("\x1bOH").Rets(k(term.Home), nil),

		tt.Args("\x1b[200~a\tb\x1b[201~").Rets(term.PasteEvent("a\tb"), nil),

		tt.Args("\x1b[X").Rets(nil, tt.ErrorContains("bad CSI")),
		tt.Args("\x1b[1;2;3A").Rets(nil, tt.ErrorContains("bad CSI")),
		tt.Args("\x1b[12").Rets(nil, tt.ErrorContains("incomplete CSI")),
		tt.Args("\x1bOx").Rets(nil, tt.ErrorContains("bad G3")),
		tt.Args("").Rets(nil, io.EOF),
	})
}

func TestReadEvent_Sequence(t *testing.T) {
	rd := &fakeReader{[]byte("a\x1b[Db")}
	var got []term.Event
	for {
		event, err := readEvent(rd)
		if err != nil {
			if err != io.EOF {
				t.Fatal(err)
			}
			break
		}
		got = append(got, event)
	}
	want := []term.Event{k('a'), k(term.Left), k('b')}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d is %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFileReader(t *testing.T) {
	pr, pw := io.Pipe()
	rd := newFileReader(pr)

	go pw.Write([]byte("x"))
	b, err := rd.ReadByteWithTimeout(-1)
	if b != 'x' || err != nil {
		t.Errorf("got (%q, %v), want ('x', nil)", b, err)
	}

	_, err = rd.ReadByteWithTimeout(time.Millisecond)
	if err != errTimeout {
		t.Errorf("got error %v, want errTimeout", err)
	}

	pw.Close()
	_, err = rd.ReadByteWithTimeout(time.Second)
	if err != io.EOF {
		t.Errorf("got error %v, want io.EOF", err)
	}
}
