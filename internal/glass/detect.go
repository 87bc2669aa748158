package glass

import (
	"strings"

	"github.com/Faultbox/tintview/internal/scene"
)

// DefaultKeywords are the name fragments that mark a mesh as glass.
var DefaultKeywords = []string{
	"glass", "window", "wind", "screen", "front", "rear", "backlight",
	"left", "right", "lf", "rf", "lr", "rr",
}

// Rule is one detection signal. Rules are evaluated in table order and the
// first match wins.
type Rule struct {
	Name       string
	Confidence float32
	Match      func(n *scene.Node) bool
}

// Match is a mesh the detector judged to be glass.
type Match struct {
	Node       *scene.Node
	Rule       string
	Confidence float32
}

// Detector flags glass meshes in a scene graph.
type Detector struct {
	Rules []Rule
}

// NewDetector returns a detector with the standard rule table. Extra
// keywords extend the default name list.
func NewDetector(extraKeywords ...string) *Detector {
	keywords := make([]string, 0, len(DefaultKeywords)+len(extraKeywords))
	for _, k := range append(append([]string{}, DefaultKeywords...), extraKeywords...) {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Detector{Rules: DefaultRules(keywords)}
}

// DefaultRules builds the ordered rule table for the given keywords.
func DefaultRules(keywords []string) []Rule {
	return []Rule{
		{
			Name:       "name",
			Confidence: 0.9,
			Match: func(n *scene.Node) bool {
				return containsKeyword(n.Name, keywords)
			},
		},
		{
			Name:       "material-name",
			Confidence: 0.8,
			Match: func(n *scene.Node) bool {
				mat := n.Mesh.Material
				return mat != nil && containsKeyword(mat.Name, keywords)
			},
		},
		{
			Name:       "transparent",
			Confidence: 0.6,
			Match: func(n *scene.Node) bool {
				mat := n.Mesh.Material
				return mat != nil && mat.Transparent
			},
		},
		{
			Name:       "opacity",
			Confidence: 0.5,
			Match: func(n *scene.Node) bool {
				mat := n.Mesh.Material
				return mat != nil && mat.Opacity < 1
			},
		},
	}
}

func containsKeyword(name string, keywords []string) bool {
	if name == "" {
		return false
	}
	name = strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// Detect returns the meshes under root that match any rule, in traversal
// order. It does not modify the scene.
func (d *Detector) Detect(root *scene.Node) []Match {
	if root == nil {
		return nil
	}
	var out []Match
	for _, n := range root.Meshes() {
		for _, r := range d.Rules {
			if r.Match(n) {
				out = append(out, Match{Node: n, Rule: r.Name, Confidence: r.Confidence})
				break
			}
		}
	}
	return out
}

// CommitMaterials gives every matched mesh its own standard glass material,
// replacing whatever the asset provided.
func CommitMaterials(matches []Match) {
	for _, m := range matches {
		mat := scene.NewGlassMaterial()
		if old := m.Node.Mesh.Material; old != nil && old.Name != "" {
			mat.Name = old.Name
		}
		m.Node.Mesh.Material = mat
	}
}
