package tint

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/registry"
)

// Source yields the currently mapped panes. *registry.Registry satisfies it.
type Source interface {
	Mapped() []registry.Entry
}

// ApplyAll tints every mapped pane from s and returns how many panes were
// touched. A surface holding two roles ends up with the later role's shade.
func ApplyAll(src Source, s State) int {
	if src == nil {
		return 0
	}
	n := 0
	for _, e := range src.Mapped() {
		node := e.Surface.Node
		if node == nil || node.Mesh == nil {
			continue
		}
		shade := s.ShadeFor(e.Key)
		Apply(node.Mesh.Material, float32(shade)/100, s.Film)
		n++
	}
	logger.Debug("tint applied",
		zap.Int("panes", n),
		zap.String("film", string(s.Film)),
		zap.Bool("uniform", s.Uniform),
	)
	return n
}
