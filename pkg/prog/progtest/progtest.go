// Package progtest provides a framework for testing subprograms.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T, the Program implementation under test, and any number of test
// cases.
//
// Test cases are constructed using the ThatFormtk function, followed by
// method calls that add additional information to it.
//
// Example:
//
//	Test(t, someProgram,
//	     ThatFormtk("-check", "song.schema").WritesStdout("ok\n"),
//	     ThatFormtk("-bad").ExitsWith(2).WritesStderrContaining("bad flag"))
package progtest

import (
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"src.elv.sh/formtk/pkg/must"
	"src.elv.sh/formtk/pkg/prog"
)

// Case is a test case that can be used in Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitCode int
	stdout   output
	stderr   output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + quote(o.content)
	}
	return quote(o.content)
}

// ThatFormtk returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "formtk -bad" writes "bad flag" to
// stderr reads like:
//
//	ThatFormtk("-bad").WritesStderrContaining("bad flag")
func ThatFormtk(args ...string) Case {
	return Case{args: append([]string{"formtk"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin
// of the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise
// don't have any expectations, for example:
//
//	ThatFormtk("-render", "empty.schema").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program run to return
// with the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program run to
// write exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program
// run to write output to stdout that contains the given text as a
// substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program run to
// write exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program
// run to write output to stderr that contains the given text as a
// substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitCode != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", r.exitCode, c.want.exitCode)
			}
			if !matchOutput(r.stdout, c.want.stdout) {
				t.Errorf("got stdout %v, want %v", r.stdout, c.want.stdout)
			}
			if !matchOutput(r.stderr, c.want.stderr) {
				t.Errorf("got stderr %v, want %v", r.stderr, c.want.stderr)
			}
		})
	}
}

// Run runs p with the given arguments, not including the program name, and
// returns what it wrote to stdout and stderr, along with its exit code.
func Run(p prog.Program, args ...string) (stdout, stderr string, exit int) {
	r := run(p, append([]string{"formtk"}, args...), "")
	return r.stdout.content, r.stderr.content, r.exitCode
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.Pipe()
	// Write stdin in a goroutine, so that large inputs don't fill the pipe
	// buffer before the program starts reading.
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()

	var wg sync.WaitGroup
	var stdout, stderr []byte
	wg.Add(2)
	go func() { stdout = must.ReadAllAndClose(r1); wg.Done() }()
	go func() { stderr = must.ReadAllAndClose(r2); wg.Done() }()

	exitCode := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	wg.Wait()

	return result{exitCode, output{content: string(stdout)}, output{content: string(stderr)}}
}

func matchOutput(got, want output) bool {
	if want.partial {
		return strings.Contains(got.content, want.content)
	}
	return got.content == want.content
}

func quote(s string) string {
	if s == "" {
		return "(empty)"
	}
	return "\n" + s + "\n"
}
