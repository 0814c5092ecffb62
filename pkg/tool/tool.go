// Package tool implements the subprograms that work on a schema without a
// terminal: -check, -render and -collect.
package tool

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"src.elv.sh/formtk/pkg/diag"
	"src.elv.sh/formtk/pkg/form"
	"src.elv.sh/formtk/pkg/logutil"
	"src.elv.sh/formtk/pkg/prog"
	"src.elv.sh/formtk/pkg/schema"
)

var logger = logutil.GetLogger("[tool] ")

// Lines rendered by -render at most.
const maxRenderLines = 10000

// Program is the subprogram for -check, -render and -collect.
type Program struct {
	check, render, collect, diff bool
	out                          *prog.Output
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.check, "check", false,
		"Compile the schema and print its errors")
	fs.BoolVar(&p.render, "render", false,
		"Print the form of the schema, populated with the record")
	fs.BoolVar(&p.collect, "collect", false,
		"Pass the record through the form of the schema and print it as YAML")
	fs.BoolVar(&p.diff, "diff", false,
		"With -collect, print the changes to the record instead")
	p.out = fs.Output()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	switch {
	case p.check:
		if len(args) != 1 {
			return prog.BadUsage("-check takes exactly one schema")
		}
		return p.runCheck(fds, args[0])
	case p.render && p.collect:
		return prog.BadUsage("-render and -collect cannot be used together")
	case p.diff && !p.collect:
		return prog.BadUsage("-diff requires -collect")
	case !p.render && !p.collect:
		return prog.NextProgram()
	}
	if len(args) < 1 || len(args) > 2 {
		return prog.BadUsage("expect a schema and an optional record")
	}

	tree, err := p.compile(fds[2], args[0])
	if err != nil {
		return err
	}
	record := map[string]any{}
	if len(args) == 2 {
		record, err = LoadRecord(args[1], fds[0])
		if err != nil {
			return err
		}
	}
	s := form.NewSession(tree, record, &form.Env{})
	if p.render {
		return p.runRender(fds[1], s)
	}
	return p.runCollect(fds, s, record)
}

func (p *Program) runCheck(fds [3]*os.File, path string) error {
	tree, err := p.compile(fds[2], path)
	if err != nil {
		return err
	}
	ok := p.color(fds[1], color.FgGreen)
	ok.Fprintf(fds[1], "%s: ok, %d fields\n", path, len(tree.Fields))
	return nil
}

// Compiles the schema at path, showing compile errors on w.
func (p *Program) compile(w *os.File, path string) (*schema.Tree, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := schema.CompileText(path, string(text))
	if err == nil {
		return tree, nil
	}
	errs := schema.UnpackErrors(err)
	if len(errs) == 0 {
		return nil, err
	}
	styles := diag.Plain
	if p.out.Colored(w) {
		styles = diag.ANSI
	}
	for _, e := range errs {
		fmt.Fprintln(w, e.ShowStyled("", styles))
	}
	summary := p.color(w, color.FgRed, color.Bold)
	if len(errs) == 1 {
		summary.Fprintln(w, "1 error")
	} else {
		summary.Fprintf(w, "%d errors\n", len(errs))
	}
	return nil, prog.Exit(1)
}

func (p *Program) runRender(w *os.File, s *form.Session) error {
	buf := s.Widget().Render(p.out.Width, maxRenderLines)
	var text string
	if p.out.Colored(w) {
		text = strings.ReplaceAll(buf.TTYString(), "\r\n", "\n")
	} else {
		text = buf.String()
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func (p *Program) runCollect(fds [3]*os.File, s *form.Session, in map[string]any) error {
	if missing := s.Missing(); len(missing) > 0 {
		fmt.Fprintln(fds[2], "missing required fields:", strings.Join(missing, ", "))
		return prog.Exit(1)
	}
	out, err := s.Collect(context.Background())
	if err != nil {
		return err
	}
	outText, err := DumpRecord(out)
	if err != nil {
		return err
	}
	if !p.diff {
		_, err := io.WriteString(fds[1], outText)
		return err
	}
	inText, err := DumpRecord(in)
	if err != nil {
		return err
	}
	_, err = io.WriteString(fds[1], lineDiff(inText, outText, p.color(fds[1], color.FgRed), p.color(fds[1], color.FgGreen)))
	return err
}

// Returns a color that is enabled exactly when output to w is colored.
func (p *Program) color(w *os.File, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.out.Colored(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// LoadRecord reads a YAML record from a file, or from stdin if path is "-".
// An empty file is an empty record.
func LoadRecord(path string, stdin io.Reader) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if record == nil {
		record = map[string]any{}
	}
	logger.Printf("loaded %d keys from %s", len(record), path)
	return plain(record).(map[string]any), nil
}

// DumpRecord encodes a record as YAML.
func DumpRecord(record map[string]any) (string, error) {
	if len(record) == 0 {
		return "{}\n", nil
	}
	data, err := yaml.Marshal(record)
	return string(data), err
}

// Replaces the timestamps YAML decodes unquoted dates into with the date
// strings date fields expect, so that dates survive a round trip unchanged.
func plain(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, elem := range v {
			v[k] = plain(elem)
		}
	case []any:
		for i, elem := range v {
			v[i] = plain(elem)
		}
	case time.Time:
		if v.Equal(v.Truncate(24*time.Hour)) && v.Location() == time.UTC {
			return v.Format(form.DateLayout)
		}
	}
	return v
}
