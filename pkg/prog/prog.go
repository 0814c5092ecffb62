// Package prog supports building testable, composable programs.
//
// The main abstraction of this package is the [Program] interface, which can
// be combined using [Composite]. The formtk command is a composite of the
// checking, rendering, collecting and editing tools, the daemon and the
// language server.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"src.elv.sh/formtk/pkg/logutil"
	"src.elv.sh/formtk/pkg/rc"
)

// Program represents a subprogram.
type Program interface {
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram.
	Run(fds [3]*os.File, args []string) error
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: formtk [flags] schema [record]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags and runs the [Program], returning the exit
// status. It also handles the flags common to all subprograms.
//
// Flags not given on the command line take their values from the
// configuration file, if it has them.
func Run(fds [3]*os.File, args []string, p Program) int {
	fs := flag.NewFlagSet("formtk", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	var log, rcPath string
	var help bool
	fs.StringVar(&log, "log", "", "Path to a file to write debug logs")
	fs.BoolVar(&help, "help", false, "Show usage help and quit")
	fs.StringVar(&rcPath, "rc", "", "Path to the configuration file")

	p.RegisterFlags(&FlagSet{FlagSet: fs})

	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// (*flag.FlagSet).Parse returns ErrHelp when -h or -help was
			// requested but *not* defined. -help is defined, but not -h; so
			// this means that -h has been requested. Handle this by printing
			// the same message as an undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if help {
		usage(fds[1], fs)
		return 0
	}

	if err := applyConfig(fs, rcPath); err != nil {
		fmt.Fprintln(fds[2], err)
		return 2
	}

	if log != "" {
		err = logutil.SetOutputFile(log)
		if err == nil {
			defer logutil.SetOutput(io.Discard)
		} else {
			fmt.Fprintln(fds[2], err)
		}
	}

	err = p.Run(fds, fs.Args())
	if err == nil {
		return 0
	}
	if np, ok := err.(nextProgramError); ok {
		np.cleanup(fds)
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
	case exitError:
		return err.exit
	}
	return 2
}

// Sets the flags not given on the command line from the configuration file.
// Keys naming flags that no subprogram registered are ignored.
func applyConfig(fs *flag.FlagSet, rcPath string) error {
	var cfg *rc.Config
	var err error
	if rcPath == "" {
		cfg, err = rc.LoadDefault()
	} else {
		cfg, err = rc.Load(rcPath)
	}
	if err != nil {
		return err
	}
	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })
	values := cfg.Values()
	for _, name := range rc.Keys(values) {
		if given[name] || fs.Lookup(name) == nil {
			continue
		}
		if err := fs.Set(name, values[name]); err != nil {
			return fmt.Errorf("configuration key %s: %w", name, err)
		}
	}
	return nil
}

// Composite returns a [Program] made up from other programs. It runs each of
// them in turn until one of them returns an error that is not
// [ErrNextProgram].
func Composite(programs ...Program) Program {
	return composite(programs)
}

type composite []Program

func (cp composite) RegisterFlags(f *FlagSet) {
	for _, p := range cp {
		p.RegisterFlags(f)
	}
}

func (cp composite) Run(fds [3]*os.File, args []string) error {
	var cleanups []func([3]*os.File)
	for _, p := range cp {
		err := p.Run(fds, args)
		if np, ok := err.(nextProgramError); ok {
			cleanups = append(cleanups, np.cleanups...)
		} else {
			for i := len(cleanups) - 1; i >= 0; i-- {
				cleanups[i](fds)
			}
			return err
		}
	}
	// If we have reached here, all subprograms have returned ErrNextProgram
	return NextProgram(cleanups...)
}

// NextProgram returns a special error that may be returned by [Program.Run]
// that is part of a [Composite] program, indicating that the next program
// should be tried. It can carry a list of cleanup functions that should be
// run in any case before the composite program exits.
func NextProgram(cleanups ...func([3]*os.File)) error { return nextProgramError{cleanups} }

// ErrNextProgram is a sentinel value: errors.Is reports true for any error
// returned by [NextProgram].
var ErrNextProgram = errors.New("internal error: no suitable subprogram")

type nextProgramError struct{ cleanups []func([3]*os.File) }

func (e nextProgramError) Error() string { return ErrNextProgram.Error() }

func (e nextProgramError) Is(target error) bool { return target == ErrNextProgram }

func (e nextProgramError) cleanup(fds [3]*os.File) {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i](fds)
	}
}

// BadUsage returns a special error that may be returned by [Program.Run]. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by [Program.Run]. It
// causes the main function to exit with the given code without printing any
// error messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
