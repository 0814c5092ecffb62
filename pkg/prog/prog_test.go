package prog_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"src.elv.sh/formtk/pkg/must"
	. "src.elv.sh/formtk/pkg/prog"
	"src.elv.sh/formtk/pkg/prog/progtest"
	"src.elv.sh/formtk/pkg/testutil"
)

var (
	Test       = progtest.Test
	ThatFormtk = progtest.ThatFormtk
)

func noConfig(t *testing.T) {
	testutil.Setenv(t, "XDG_CONFIG_HOME", t.TempDir())
}

func TestCommonFlagHandling(t *testing.T) {
	noConfig(t)
	Test(t, &testProgram{},
		ThatFormtk("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatFormtk("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatFormtk("-help").
			WritesStdoutContaining("Usage: formtk [flags] schema [record]"),
	)
}

func TestLogFlag(t *testing.T) {
	noConfig(t)
	logPath := filepath.Join(t.TempDir(), "log")
	Test(t, &testProgram{},
		ThatFormtk("-log", logPath).DoesNothing(),
	)
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file was not created: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	noConfig(t)
	dir := testutil.ApplyDir(t, testutil.Dir{
		"rc.toml":  "db = \"from-rc.db\"\nwidth = 33\n",
		"bad.toml": "nope = 1\n",
	})
	rcPath := filepath.Join(dir, "rc.toml")

	Test(t, &testProgram{showFlags: true},
		// Values from the file apply to flags not given.
		ThatFormtk("-rc", rcPath).WritesStdout("db=from-rc.db width=33\n"),
		// Flags given on the command line win.
		ThatFormtk("-rc", rcPath, "-db", "flag.db").WritesStdout("db=flag.db width=33\n"),
		ThatFormtk("-rc", filepath.Join(dir, "bad.toml")).
			ExitsWith(2).
			WritesStderrContaining("unknown keys: nope"),
	)
}

func TestConfigFile_Default(t *testing.T) {
	config := t.TempDir()
	testutil.Setenv(t, "XDG_CONFIG_HOME", config)
	must.OK(os.MkdirAll(filepath.Join(config, "formtk"), 0700))
	must.OK(os.WriteFile(filepath.Join(config, "formtk", "rc.toml"), []byte("width = 50\n"), 0600))

	Test(t, &testProgram{showFlags: true},
		ThatFormtk().WritesStdout("db= width=50\n"),
	)
}

func TestComposite(t *testing.T) {
	noConfig(t)
	Test(t,
		Composite(&testProgram{nextProgram: true}, &testProgram{writeOut: "program 2"}),
		ThatFormtk().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	noConfig(t)
	Test(t,
		Composite(&testProgram{nextProgram: true}, &testProgram{nextProgram: true}),
		ThatFormtk().
			ExitsWith(2).
			WritesStderr(ErrNextProgram.Error()+"\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	noConfig(t)
	Test(t,
		Composite(
			&testProgram{writeOut: "program 1"}, &testProgram{writeOut: "program 2"}),
		ThatFormtk().WritesStdout("program 1"),
	)
}

func TestComposite_RunsCleanups(t *testing.T) {
	noConfig(t)
	var order []string
	cleanup := func(name string) func([3]*os.File) {
		return func([3]*os.File) { order = append(order, name) }
	}
	Test(t,
		Composite(
			&testProgram{nextProgram: true, cleanup: cleanup("first")},
			&testProgram{nextProgram: true, cleanup: cleanup("second")},
			&testProgram{writeOut: "done"}),
		ThatFormtk().WritesStdout("done"),
	)
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("cleanups ran in order %v, want [second first]", order)
	}
}

func TestBadUsageError(t *testing.T) {
	noConfig(t)
	Test(t,
		&testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatFormtk().ExitsWith(2).WritesStderrContaining("lorem ipsum\nUsage:"),
	)
}

func TestExitError(t *testing.T) {
	noConfig(t)
	Test(t, &testProgram{returnErr: Exit(3)},
		ThatFormtk().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	noConfig(t)
	Test(t, &testProgram{returnErr: Exit(0)},
		ThatFormtk().ExitsWith(0),
	)
}

func TestDaemonPaths_Resolve(t *testing.T) {
	cache := t.TempDir()
	testutil.Setenv(t, "XDG_CACHE_HOME", cache)

	dp := &DaemonPaths{Sock: "/given/sock"}
	if err := dp.Resolve(); err != nil {
		t.Fatal(err)
	}
	want := DaemonPaths{DB: filepath.Join(cache, "formtk", "db.bolt"), Sock: "/given/sock"}
	if *dp != want {
		t.Errorf("got %v, want %v", *dp, want)
	}
}

func TestOutput_Colored(t *testing.T) {
	f := must.OK1(os.CreateTemp(t.TempDir(), "out"))
	defer f.Close()
	for color, want := range map[string]bool{"always": true, "never": false, "auto": false} {
		o := &Output{Color: color}
		if got := o.Colored(f); got != want {
			t.Errorf("Colored with %s on a regular file = %v, want %v", color, got, want)
		}
	}
}

type testProgram struct {
	nextProgram bool
	cleanup     func([3]*os.File)
	writeOut    string
	returnErr   error
	showFlags   bool

	paths  *DaemonPaths
	output *Output
}

func (p *testProgram) RegisterFlags(f *FlagSet) {
	p.paths = f.DaemonPaths()
	p.output = f.Output()
}

func (p *testProgram) Run(fds [3]*os.File, args []string) error {
	if p.nextProgram {
		if p.cleanup != nil {
			return NextProgram(p.cleanup)
		}
		return NextProgram()
	}
	if p.showFlags {
		fmt.Fprintf(fds[1], "db=%s width=%d\n", p.paths.DB, p.output.Width)
		return nil
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

