package viewer

import (
	"context"
	"path/filepath"

	"github.com/Faultbox/tintview/internal/loader"
	"github.com/Faultbox/tintview/internal/scene"
)

// Source names a model to load. The zero Source is the placeholder car.
type Source struct {
	// Path is a .gltf or .glb file.
	Path string
	// Data is an in-memory payload and takes precedence over Path.
	Data []byte
	// Name labels Data in logs.
	Name string
}

// FileSource loads from a file.
func FileSource(path string) Source {
	return Source{Path: path}
}

// BytesSource loads from memory.
func BytesSource(name string, data []byte) Source {
	return Source{Name: name, Data: data}
}

// IsPlaceholder reports whether s selects the placeholder car.
func (s Source) IsPlaceholder() bool {
	return s.Path == "" && len(s.Data) == 0
}

func (s Source) String() string {
	switch {
	case len(s.Data) > 0 && s.Name != "":
		return s.Name
	case len(s.Data) > 0:
		return "<memory>"
	case s.Path != "":
		return filepath.Base(s.Path)
	default:
		return "placeholder"
	}
}

// LoadFunc produces a scene graph for a source. It runs off the caller's
// thread and must not touch shared state.
type LoadFunc func(ctx context.Context, src Source) (*scene.Node, error)

// DefaultLoad reads files and payloads with the loader package.
func DefaultLoad(ctx context.Context, src Source) (*scene.Node, error) {
	switch {
	case len(src.Data) > 0:
		return loader.LoadBytes(src.Data)
	case src.Path != "":
		return loader.LoadFile(ctx, src.Path)
	default:
		return loader.Placeholder(), nil
	}
}
