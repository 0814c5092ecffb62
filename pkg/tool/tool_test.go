package tool

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"src.elv.sh/formtk/pkg/prog/progtest"
	"src.elv.sh/formtk/pkg/testutil"
)

func setup(t *testing.T) string {
	testutil.Setenv(t, "XDG_CONFIG_HOME", t.TempDir())
	return testutil.ApplyDir(t, testutil.Dir{
		"name.schema":  `name TEXTSHORT "Name"`,
		"count.schema": "name TEXTSHORT \"Name\"\ncount INTEGER",
		"req.schema":   `name TEXTSHORT! "Name"`,
		"bad.schema":   "age WEIRDTYPE\nname TEXTSHORT",
		"bad2.schema":  "a WEIRD\nb ODD",
		"ada.yaml":     "name: Ada\n",
		"count.yaml":   "name: Ada\ncount: \"007\"\n",
	})
}

func TestProgram_Check(t *testing.T) {
	dir := setup(t)
	progtest.Test(t, &Program{},
		progtest.ThatFormtk("-check", filepath.Join(dir, "count.schema")).
			WritesStdoutContaining("count.schema: ok, 2 fields"),
		progtest.ThatFormtk("-check", filepath.Join(dir, "bad.schema")).
			ExitsWith(1).
			WritesStderrContaining("unknown type WEIRDTYPE"),
		progtest.ThatFormtk("-check", filepath.Join(dir, "bad.schema")).
			ExitsWith(1).
			WritesStderrContaining("1 error\n"),
		progtest.ThatFormtk("-check", filepath.Join(dir, "bad2.schema")).
			ExitsWith(1).
			WritesStderrContaining("2 errors\n"),
		progtest.ThatFormtk("-check", "-color", "always", filepath.Join(dir, "bad.schema")).
			ExitsWith(1).
			WritesStderrContaining("\033["),
		progtest.ThatFormtk("-check", filepath.Join(dir, "nonexistent")).
			ExitsWith(2).
			WritesStderrContaining("no such file"),
		progtest.ThatFormtk("-check").
			ExitsWith(2).
			WritesStderrContaining("-check takes exactly one schema"),
	)
}

func TestProgram_Render(t *testing.T) {
	dir := setup(t)
	progtest.Test(t, &Program{},
		progtest.ThatFormtk("-render", filepath.Join(dir, "name.schema"), filepath.Join(dir, "ada.yaml")).
			WritesStdout("Name\n  Ada\n"),
		progtest.ThatFormtk("-render", filepath.Join(dir, "name.schema"), "-").
			WithStdin("name: Bob\n").
			WritesStdout("Name\n  Bob\n"),
		progtest.ThatFormtk("-render", filepath.Join(dir, "bad.schema")).
			ExitsWith(1).
			WritesStderrContaining("unknown type WEIRDTYPE"),
		progtest.ThatFormtk("-render").
			ExitsWith(2).
			WritesStderrContaining("expect a schema and an optional record"),
		progtest.ThatFormtk("-render", "-collect", "a").
			ExitsWith(2).
			WritesStderrContaining("cannot be used together"),
	)
}

func TestProgram_Collect(t *testing.T) {
	dir := setup(t)
	countSchema := filepath.Join(dir, "count.schema")
	progtest.Test(t, &Program{},
		progtest.ThatFormtk("-collect", countSchema, filepath.Join(dir, "count.yaml")).
			WritesStdout("count: 7\nname: Ada\n"),
		progtest.ThatFormtk("-collect", countSchema).
			WritesStdout("{}\n"),
		progtest.ThatFormtk("-collect", "-diff", countSchema, filepath.Join(dir, "count.yaml")).
			WritesStdout("-count: \"007\"\n+count: 7\n name: Ada\n"),
		progtest.ThatFormtk("-collect", "-diff", countSchema, filepath.Join(dir, "ada.yaml")).
			DoesNothing(),
		progtest.ThatFormtk("-collect", filepath.Join(dir, "req.schema")).
			ExitsWith(1).
			WritesStderr("missing required fields: name\n"),
		progtest.ThatFormtk("-collect", countSchema, "-").
			WithStdin("- a\n").
			ExitsWith(2).
			WritesStderrContaining("-: yaml:"),
		progtest.ThatFormtk("-diff", countSchema).
			ExitsWith(2).
			WritesStderrContaining("-diff requires -collect"),
	)
}

func TestProgram_NotSelected(t *testing.T) {
	testutil.Setenv(t, "XDG_CONFIG_HOME", t.TempDir())
	progtest.Test(t, &Program{},
		progtest.ThatFormtk().ExitsWith(2).WritesStderrContaining("no suitable subprogram"),
	)
}

func TestPlain(t *testing.T) {
	in := map[string]any{
		"day":  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"at":   time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		"list": []any{time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), "x"},
	}
	want := map[string]any{
		"day":  "2024-03-01",
		"at":   time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		"list": []any{"2020-01-02", "x"},
	}
	if diff := cmp.Diff(want, plain(in)); diff != "" {
		t.Errorf("plain (-want +got):\n%s", diff)
	}
}

func TestLineDiff(t *testing.T) {
	del, ins := color.New(color.FgRed), color.New(color.FgGreen)
	del.DisableColor()
	ins.DisableColor()
	got := lineDiff("a\nb\nc\n", "a\nc\nd\n", del, ins)
	want := " a\n-b\n c\n+d\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := lineDiff("same\n", "same\n", del, ins); got != "" {
		t.Errorf("diff of equal texts is %q", got)
	}
}
