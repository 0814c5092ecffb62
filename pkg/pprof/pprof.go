// Package pprof adds profiling flags to formtk.
package pprof

import (
	"fmt"
	"os"
	"runtime/pprof"

	"src.elv.sh/formtk/pkg/prog"
)

// Program adds support for the -cpuprofile and -allocsprofile flags. It never
// runs by itself; it starts profiling and passes on to the next subprogram.
type Program struct {
	cpuProfile    string
	allocsProfile string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.StringVar(&p.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&p.allocsProfile, "allocsprofile", "", "Write memory allocation profile to file")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	var cleanups []func([3]*os.File)
	if p.cpuProfile != "" {
		f, err := os.Create(p.cpuProfile)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot create CPU profile:", err)
		} else if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot start CPU profile:", err)
			f.Close()
		} else {
			cleanups = append(cleanups, func([3]*os.File) {
				pprof.StopCPUProfile()
				f.Close()
			})
		}
	}
	if p.allocsProfile != "" {
		f, err := os.Create(p.allocsProfile)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot create memory allocation profile:", err)
		} else {
			cleanups = append(cleanups, func(fds [3]*os.File) {
				if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
					fmt.Fprintln(fds[2], "Warning: cannot write memory allocation profile:", err)
				}
				f.Close()
			})
		}
	}
	return prog.NextProgram(cleanups...)
}
