package loader

import (
	"bytes"
	"fmt"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/scene"
)

// Registered model types.
var (
	TypeGLB  = filetype.NewType("glb", "model/gltf-binary")
	TypeGLTF = filetype.NewType("gltf", "model/gltf+json")
)

func init() {
	filetype.AddMatcher(TypeGLB, matchGLB)
	filetype.AddMatcher(TypeGLTF, matchGLTF)
}

// matchGLB checks the binary glTF header magic "glTF".
func matchGLB(buf []byte) bool {
	return len(buf) >= 12 && buf[0] == 'g' && buf[1] == 'l' && buf[2] == 'T' && buf[3] == 'F'
}

// matchGLTF accepts a JSON object that carries the required asset block.
func matchGLTF(buf []byte) bool {
	trimmed := bytes.TrimLeft(buf, " \t\r\n\ufeff")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return bytes.Contains(trimmed, []byte(`"asset"`))
}

// Sniff identifies a model payload.
func Sniff(data []byte) (types.Type, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return types.Unknown, fmt.Errorf("matching payload: %w", err)
	}
	if kind != TypeGLB && kind != TypeGLTF {
		return kind, fmt.Errorf("%w: %s", ErrUnsupportedFormat, describe(kind))
	}
	return kind, nil
}

func describe(kind types.Type) string {
	if kind == types.Unknown {
		return "unknown"
	}
	return kind.MIME.Value
}

// LoadBytes decodes an in-memory .glb or self-contained .gltf payload.
func LoadBytes(data []byte) (*scene.Node, error) {
	kind, err := Sniff(data)
	if err != nil {
		return nil, err
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind.Extension, err)
	}
	root, err := convert(doc)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", kind.Extension, err)
	}
	logger.Debug("model decoded",
		zap.String("type", kind.Extension),
		zap.Int("bytes", len(data)),
		zap.Int("meshes", len(root.Meshes())),
	)
	return root, nil
}
