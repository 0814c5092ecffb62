package editor

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"

	"src.elv.sh/formtk/pkg/form"
	"src.elv.sh/formtk/pkg/must"
	"src.elv.sh/formtk/pkg/prog"
	"src.elv.sh/formtk/pkg/prog/progtest"
	"src.elv.sh/formtk/pkg/schema"
	"src.elv.sh/formtk/pkg/term"
	"src.elv.sh/formtk/pkg/tk"
	"src.elv.sh/formtk/pkg/testutil"
)

func setup(t *testing.T) string {
	testutil.Setenv(t, "XDG_CONFIG_HOME", t.TempDir())
	testutil.Setenv(t, "XDG_CACHE_HOME", t.TempDir())
	return testutil.ApplyDir(t, testutil.Dir{
		"name.schema": `name TEXTSHORT! "Name"`,
		"bad.schema":  `name WEIRDTYPE`,
	})
}

func TestProgram_BadUsage(t *testing.T) {
	dir := setup(t)
	progtest.Test(t, &Program{},
		progtest.ThatFormtk("-edit", filepath.Join(dir, "name.schema")).
			ExitsWith(2).
			WritesStderrContaining("-edit takes a schema and a record"),
		progtest.ThatFormtk("-edit", filepath.Join(dir, "bad.schema"), filepath.Join(dir, "x.yaml")).
			ExitsWith(2).
			WritesStderrContaining("unknown type WEIRDTYPE"),
		// Not a terminal.
		progtest.ThatFormtk("-edit", filepath.Join(dir, "name.schema"), filepath.Join(dir, "x.yaml")).
			ExitsWith(2),
		progtest.ThatFormtk().
			ExitsWith(2).
			WritesStderrContaining("no suitable subprogram"),
	)
}

type fakeQuitter struct{ quit bool }

func (q *fakeQuitter) Quit() { q.quit = true }

func newTestEditor(t *testing.T, path string) (*editor, tk.Widget) {
	tree := must.OK1(schema.CompileText("test", `name TEXTSHORT! "Name"`))
	e := newEditor(tree, map[string]any{}, &form.Env{}, path)
	w := e.session.Widget()
	w.(tk.Focuser).Enter(1)
	return e, w
}

func TestEditor_SaveAndQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.yaml")
	e, w := newTestEditor(t, path)
	q := &fakeQuitter{}
	bindings := e.bindings(q)
	ctrlS := term.KeyEvent(term.K('s', term.Ctrl))
	ctrlQ := term.KeyEvent(term.K('q', term.Ctrl))

	bindings.Handle(w, ctrlS)
	if !strings.Contains(e.status.text, "missing required fields: name") {
		t.Errorf("status after saving with missing fields is %q", e.status.text)
	}
	if _, err := os.Stat(path); err == nil {
		t.Errorf("record written with missing fields")
	}

	w.Handle(term.KeyEvent(term.K('A')))
	if !e.dirty {
		t.Errorf("not dirty after editing")
	}
	bindings.Handle(w, ctrlQ)
	if q.quit {
		t.Errorf("quit with unsaved changes")
	}
	if !strings.Contains(e.status.text, "unsaved changes") {
		t.Errorf("status after first Ctrl-Q is %q", e.status.text)
	}

	bindings.Handle(w, ctrlS)
	if got := must.ReadFileString(path); got != "name: A\n" {
		t.Errorf("saved %q", got)
	}
	if e.dirty {
		t.Errorf("dirty after saving")
	}
	bindings.Handle(w, ctrlQ)
	if !q.quit {
		t.Errorf("did not quit after saving")
	}
}

func TestEditor_QuitTwiceDiscards(t *testing.T) {
	e, w := newTestEditor(t, filepath.Join(t.TempDir(), "rec.yaml"))
	q := &fakeQuitter{}
	bindings := e.bindings(q)
	w.Handle(term.KeyEvent(term.K('A')))
	bindings.Handle(w, term.KeyEvent(term.K('q', term.Ctrl)))
	bindings.Handle(w, term.KeyEvent(term.K('q', term.Ctrl)))
	if !q.quit {
		t.Errorf("did not quit after the second Ctrl-Q")
	}
}

func TestEditor_RemovingRowNeedsSaving(t *testing.T) {
	tree := must.OK1(schema.CompileText("test", `xs TEXTSHORT[] "Items"`))
	e := newEditor(tree, map[string]any{"xs": []any{"a", "b"}}, &form.Env{}, filepath.Join(t.TempDir(), "rec.yaml"))
	w := e.session.Widget()
	w.(tk.Focuser).Enter(1)
	q := &fakeQuitter{}
	bindings := e.bindings(q)

	if !w.Handle(term.KeyEvent(term.K('d', term.Ctrl))) {
		t.Fatalf("Ctrl-D not handled")
	}
	if !e.dirty {
		t.Errorf("not dirty after removing a row")
	}
	bindings.Handle(w, term.KeyEvent(term.K('q', term.Ctrl)))
	if q.quit {
		t.Errorf("quit with a removed row unsaved")
	}
}

func TestProgram_InTerminal(t *testing.T) {
	dir := setup(t)
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("no pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	var mu sync.Mutex
	var screen strings.Builder
	go func() {
		var buf [1024]byte
		for {
			n, err := ptmx.Read(buf[:])
			mu.Lock()
			screen.Write(buf[:n])
			mu.Unlock()
			if err != nil {
				return
			}
		}
	}()
	waitFor := func(sub string) {
		t.Helper()
		for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); {
			mu.Lock()
			found := strings.Contains(screen.String(), sub)
			mu.Unlock()
			if found {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Fatalf("timed out waiting for %q", sub)
	}

	record := filepath.Join(dir, "ada.yaml")
	p := &Program{}
	fs := &prog.FlagSet{FlagSet: flag.NewFlagSet("formtk", flag.ContinueOnError)}
	p.RegisterFlags(fs)
	must.OK(fs.Parse([]string{"-edit"}))
	done := make(chan error, 1)
	go func() {
		done <- p.Run([3]*os.File{tty, tty, tty}, []string{filepath.Join(dir, "name.schema"), record})
	}()

	waitFor("Ctrl-S to save")
	ptmx.Write([]byte("Ada\x13\x11"))
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("editor did not quit")
	}
	if got := must.ReadFileString(record); got != "name: Ada\n" {
		t.Errorf("saved %q", got)
	}
}
