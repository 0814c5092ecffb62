package form

import (
	"context"
	"io"
	"os"

	"src.elv.sh/formtk/pkg/tk"
)

// Lookuper finds candidates for reference fields.
type Lookuper interface {
	// Lookup returns the entities of the given type matching the keyword, as
	// a map from ids to display labels.
	Lookup(ctx context.Context, entityType, keyword string) (map[string]string, error)
}

// BlobStore stores the content of file fields.
type BlobStore interface {
	// Put stores the content read from r and returns a descriptor of the
	// stored file.
	Put(ctx context.Context, kind, displayName string, r io.Reader) (FileRef, error)
}

// FileRef describes a stored file.
type FileRef struct {
	StoredName  string
	DisplayName string
	Kind        string
	Size        int64
}

// Record returns the representation of the descriptor in a record.
func (ref FileRef) Record() map[string]any {
	return map[string]any{
		"storedName":  ref.StoredName,
		"displayName": ref.DisplayName,
		"kind":        ref.Kind,
		"size":        ref.Size,
	}
}

// Host is where the widget of a tree is mounted.
type Host interface {
	Mount(w tk.Widget)
}

// Env holds the collaborators of the nodes of a tree. All fields are
// optional.
type Env struct {
	Lookuper Lookuper
	Store    BlobStore
	// Used for lookups triggered by editing. Defaults to context.Background().
	Context context.Context
	// Opens files picked in file fields. Defaults to os.Open.
	Open func(name string) (io.ReadCloser, error)
	// Called after the value of a leaf has been edited.
	OnChange func(Node)
}

func (env *Env) context() context.Context {
	if env == nil || env.Context == nil {
		return context.Background()
	}
	return env.Context
}

func (env *Env) open(name string) (io.ReadCloser, error) {
	if env == nil || env.Open == nil {
		return os.Open(name)
	}
	return env.Open(name)
}

func (env *Env) changed(n Node) {
	if env != nil && env.OnChange != nil {
		env.OnChange(n)
	}
}
