// Formtk edits structured records through forms generated from schema
// documents. Besides the terminal editor, it checks schemas, renders and
// round-trips records, and runs a storage daemon and a schema language
// server.
package main

import (
	"os"

	"src.elv.sh/formtk/pkg/buildinfo"
	"src.elv.sh/formtk/pkg/editor"
	"src.elv.sh/formtk/pkg/lsp"
	"src.elv.sh/formtk/pkg/pprof"
	"src.elv.sh/formtk/pkg/prog"
	"src.elv.sh/formtk/pkg/remote"
	"src.elv.sh/formtk/pkg/tool"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &remote.Program{}, &lsp.Program{},
			&tool.Program{}, &editor.Program{})))
}
