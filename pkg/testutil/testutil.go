// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"path/filepath"
	"strings"

	"src.elv.sh/formtk/pkg/must"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// TempDirer is the subset of [testing.TB] used by ApplyDir.
type TempDirer interface {
	TempDir() string
}

// Set sets *p to v for the duration of a test.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// Setenv sets the value of an environment variable for the duration of a
// test. It returns value.
func Setenv(c Cleanuper, name, value string) string {
	oldValue, existed := os.LookupEnv(name)
	if existed {
		c.Cleanup(func() { os.Setenv(name, oldValue) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
	os.Setenv(name, value)
	return value
}

// Dir describes the layout of a directory. The keys are file names; the
// values are either a string (the content of a regular file) or a Dir.
type Dir map[string]any

// ApplyDir creates the files in dir under a fresh temporary directory and
// returns its path.
func ApplyDir(t TempDirer, dir Dir) string {
	root := t.TempDir()
	applyDir(root, dir)
	return root
}

func applyDir(root string, dir Dir) {
	for name, file := range dir {
		path := filepath.Join(root, name)
		switch file := file.(type) {
		case string:
			must.OK(os.WriteFile(path, []byte(file), 0600))
		case Dir:
			must.OK(os.MkdirAll(path, 0700))
			applyDir(path, file)
		default:
			panic("file is neither string nor Dir")
		}
	}
}

// Dedent removes the indentation common to all non-blank lines of text. A
// leading newline is removed, so that raw strings can start on the line after
// the opening backtick.
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")
	margin := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if margin == -1 || n < margin {
			margin = n
		}
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		} else {
			lines[i] = line[margin:]
		}
	}
	return strings.Join(lines, "\n")
}
