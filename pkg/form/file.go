package form

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"src.elv.sh/formtk/pkg/lens"
	"src.elv.sh/formtk/pkg/term"
	"src.elv.sh/formtk/pkg/tk"
)

// ErrNoStore is returned when a file field has a file to upload but there is
// no BlobStore.
var ErrNoStore = errors.New("no blob store to upload to")

// File is a leaf holding a stored file. Its value is the record of a
// FileRef. The user picks a new file by entering its path; the file is
// uploaded to the BlobStore when the tree is collected.
type File struct {
	Base
	// The kind of files accepted.
	FileKind string
	env      *Env
	path     tk.TextField
	current  any
}

// NewFile creates a File bound to out.
func NewFile(out lens.Lens, kind string, env *Env) *File {
	f := &File{FileKind: kind, env: env}
	f.Out = out
	return f
}

func (f *File) Kind() Kind { return KindFile }
func (f *File) Widget() tk.Widget {
	if f.path == nil {
		return nil
	}
	return fileWidget{f}
}

// PathField returns the widget the path of the file to upload is entered in.
func (f *File) PathField() tk.TextField { return f.path }

func (f *File) PreBuild() {
	f.path = tk.NewTextField(tk.TextFieldSpec{Placeholder: "path of a new " + f.FileKind + " file"})
	f.Int = lens.Funcs(func() any { return f.current }, func(v any) { f.current = v })
}

func (f *File) PreSetup() {
	f.path.SetOnChange(func(string) { f.env.changed(f) })
}

func (f *File) ConvertInput(v any) any {
	if m, ok := v.(map[string]any); ok {
		if _, ok := m["storedName"]; !ok {
			logger.Printf("%s: file record without storedName", Path(f))
		}
	} else if v != nil {
		logger.Printf("%s: unexpected %T bound to a file", Path(f), v)
	}
	return lens.Copy(v)
}

// MidOutput uploads the picked file, if any, and stages its descriptor.
func (f *File) MidOutput(ctx context.Context) error {
	path := strings.TrimSpace(f.path.Text())
	if path == "" {
		return nil
	}
	if f.env == nil || f.env.Store == nil {
		return ErrNoStore
	}
	r, err := f.env.open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	ref, err := f.env.Store.Put(ctx, f.FileKind, filepath.Base(path), r)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	f.current = ref.Record()
	f.path.SetText("")
	return nil
}

func (f *File) Present() bool {
	return f.current != nil || strings.TrimSpace(f.path.Text()) != ""
}

func (f *File) describe() string {
	m, ok := f.current.(map[string]any)
	if !ok {
		return ""
	}
	name := fmt.Sprint(m["displayName"])
	if m["displayName"] == nil {
		name = fmt.Sprint(m["storedName"])
	}
	if size, ok := m["size"]; ok {
		return fmt.Sprintf("%s (%v bytes)", name, size)
	}
	return name
}

// Shows the current file above the path field.
type fileWidget struct{ f *File }

func (w fileWidget) Render(width, height int) *term.Buffer {
	bb := term.NewBufferBuilder(width)
	if d := w.f.describe(); d != "" {
		bb.Write(d, "")
	} else {
		bb.Write("(no file)", term.Dim)
	}
	buf := bb.Buffer()
	if height <= 1 {
		buf.TrimToLines(0, height)
		return buf
	}
	return buf.ExtendDown(w.f.path.Render(width, height-1), true)
}

func (w fileWidget) Handle(event term.Event) bool { return w.f.path.Handle(event) }
func (w fileWidget) Enter(dir int) bool           { return w.f.path.Enter(dir) }
func (w fileWidget) Advance(dir int) bool         { return w.f.path.Advance(dir) }
func (w fileWidget) Leave()                       { w.f.path.Leave() }
