package prog

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
)

// FlagSet wraps a [flag.FlagSet]. It provides methods to register flags
// shared by multiple subprograms, each of which registers its flags at most
// once.
type FlagSet struct {
	*flag.FlagSet
	daemonPaths *DaemonPaths
	output      *Output
}

// DaemonPaths stores the -db and -sock flags.
type DaemonPaths struct {
	DB, Sock string
}

// DaemonPaths returns a pointer to a struct storing the value of -db and
// -sock flags, registering them if needed.
func (fs *FlagSet) DaemonPaths() *DaemonPaths {
	if fs.daemonPaths == nil {
		var dp DaemonPaths
		fs.StringVar(&dp.DB, "db", "",
			"Path to the database file")
		fs.StringVar(&dp.Sock, "sock", "",
			"Path to the daemon's UNIX socket")
		fs.daemonPaths = &dp
	}
	return fs.daemonPaths
}

// Resolve fills the paths that are empty with their default values, in the
// formtk directory under the user cache directory, which is created if
// needed.
func (dp *DaemonPaths) Resolve() error {
	if dp.DB != "" && dp.Sock != "" {
		return nil
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(cache, "formtk")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if dp.DB == "" {
		dp.DB = filepath.Join(dir, "db.bolt")
	}
	if dp.Sock == "" {
		dp.Sock = filepath.Join(dir, "sock")
	}
	return nil
}

// Output stores the -width and -color flags.
type Output struct {
	Width int
	Color string
}

// Output returns a pointer to a struct storing the value of the -width and
// -color flags, registering them if needed.
func (fs *FlagSet) Output() *Output {
	if fs.output == nil {
		o := Output{Color: "auto"}
		fs.IntVar(&o.Width, "width", 80,
			"Width used to render forms outside a terminal")
		fs.StringVar(&o.Color, "color", "auto",
			"When to color the output: auto, always or never")
		fs.output = &o
	}
	return fs.output
}

// Colored reports whether output written to f should be colored.
func (o *Output) Colored(f *os.File) bool {
	switch o.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
