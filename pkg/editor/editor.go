// Package editor implements the -edit subprogram, which edits a record in
// the terminal.
//
// Lookups and uploads go to the daemon when one is listening, and to the
// database directly otherwise.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"src.elv.sh/formtk/pkg/form"
	"src.elv.sh/formtk/pkg/logutil"
	"src.elv.sh/formtk/pkg/prog"
	"src.elv.sh/formtk/pkg/remote"
	"src.elv.sh/formtk/pkg/schema"
	"src.elv.sh/formtk/pkg/store"
	"src.elv.sh/formtk/pkg/term"
	"src.elv.sh/formtk/pkg/tk"
	"src.elv.sh/formtk/pkg/tool"
	"src.elv.sh/formtk/pkg/ttyhost"
)

var logger = logutil.GetLogger("[editor] ")

const dialTimeout = time.Second

// Program is the -edit subprogram.
type Program struct {
	run   bool
	paths *prog.DaemonPaths
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "edit", false,
		"Edit the record in the terminal; Ctrl-S saves, Ctrl-Q quits")
	p.paths = fs.DaemonPaths()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.run {
		return prog.NextProgram()
	}
	if len(args) != 2 {
		return prog.BadUsage("-edit takes a schema and a record")
	}
	text, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	tree, err := schema.CompileText(args[0], string(text))
	if err != nil {
		return err
	}
	record := map[string]any{}
	if _, err := os.Stat(args[1]); err == nil {
		record, err = tool.LoadRecord(args[1], fds[0])
		if err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	env := &form.Env{}
	if closer := p.connect(env); closer != nil {
		defer closer.Close()
	}
	h := ttyhost.New(fds[0], fds[1])
	e := newEditor(tree, record, env, args[1])
	e.mount(h)
	return h.Run()
}

// Fills the collaborators of env, preferring the daemon to the database.
// The returned Closer, if not nil, releases them.
func (p *Program) connect(env *form.Env) io.Closer {
	if err := p.paths.Resolve(); err != nil {
		logger.Println("cannot resolve daemon paths:", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	c, err := remote.Dial(ctx, p.paths.Sock)
	if err == nil {
		logger.Println("using daemon at", p.paths.Sock)
		env.Lookuper, env.Store = c, c
		return c
	}
	logger.Println("cannot dial daemon:", err)
	st, err := store.NewStore(p.paths.DB)
	if err != nil {
		logger.Println("cannot open database:", err)
		return nil
	}
	logger.Println("using database at", p.paths.DB)
	env.Lookuper, env.Store = st, st
	return st
}

// The state of one editing session.
type editor struct {
	session *form.Session
	path    string
	status  *statusLine
	dirty   bool
	// Set by the first Ctrl-Q with unsaved changes.
	quitPending bool
}

func newEditor(tree *schema.Tree, record map[string]any, env *form.Env, path string) *editor {
	e := &editor{path: path, status: &statusLine{}}
	env.OnChange = func(n form.Node) {
		e.dirty = true
		e.quitPending = false
		e.status.set("", "")
	}
	e.session = form.NewSession(tree, record, env)
	e.status.set("Ctrl-S to save, Ctrl-Q to quit", term.Dim)
	return e
}

type quitter interface{ Quit() }

// Mounts the session together with a status line, and binds Ctrl-S and
// Ctrl-Q.
func (e *editor) mount(h *ttyhost.Host) {
	col := tk.NewColumn(tk.ColumnSpec{})
	col.Insert(0, e.session.Widget())
	col.Insert(1, e.status)
	h.Mount(col)
	h.Bindings = e.bindings(h)
}

func (e *editor) bindings(h quitter) tk.MapBindings {
	return tk.MapBindings{
		term.KeyEvent(term.K('s', term.Ctrl)): func(tk.Widget) { e.save() },
		term.KeyEvent(term.K('q', term.Ctrl)): func(tk.Widget) { e.quit(h) },
	}
}

func (e *editor) save() {
	if missing := e.session.Missing(); len(missing) > 0 {
		e.status.set("missing required fields: "+strings.Join(missing, ", "), term.FgRed)
		return
	}
	record, err := e.session.Collect(context.Background())
	if err != nil {
		e.status.set(err.Error(), term.FgRed)
		return
	}
	text, err := tool.DumpRecord(record)
	if err == nil {
		err = os.WriteFile(e.path, []byte(text), 0644)
	}
	if err != nil {
		e.status.set(err.Error(), term.FgRed)
		return
	}
	e.dirty = false
	e.status.set(fmt.Sprintf("saved to %s", e.path), term.FgGreen)
}

func (e *editor) quit(h quitter) {
	if e.dirty && !e.quitPending {
		e.quitPending = true
		e.status.set("unsaved changes; Ctrl-Q again to quit anyway", term.FgYellow)
		return
	}
	h.Quit()
}

// A line of text below the form.
type statusLine struct {
	text, style string
}

func (s *statusLine) set(text, style string) { s.text, s.style = text, style }

func (s *statusLine) Render(width, height int) *term.Buffer {
	return tk.Label{Content: s.text, Style: s.style}.Render(width, height)
}

func (s *statusLine) Handle(term.Event) bool { return false }
