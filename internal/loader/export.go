package loader

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/scene"
)

// glassExtras carries the transmission parameters core glTF has no slot for.
type glassExtras struct {
	Transmission        float32    `json:"transmission"`
	Thickness           float32    `json:"thickness"`
	IOR                 float32    `json:"ior"`
	Reflectivity        float32    `json:"reflectivity"`
	AttenuationColor    [3]float32 `json:"attenuationColor"`
	AttenuationDistance float32    `json:"attenuationDistance"`
	Proxy               string     `json:"proxy,omitempty"`
}

// Export writes root and its subtree to path. Files ending in .gltf are
// written as JSON with embedded buffers, anything else as binary glTF.
func Export(root *scene.Node, path string) error {
	if root == nil {
		return ErrNoScene
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding path %s: %w", path, err)
	}

	doc := Document(root)

	if strings.EqualFold(filepath.Ext(expanded), ".gltf") {
		err = gltf.Save(doc, expanded)
	} else {
		err = gltf.SaveBinary(doc, expanded)
	}
	if err != nil {
		return fmt.Errorf("saving model %s: %w", expanded, err)
	}
	logger.Info("model exported",
		zap.String("path", expanded),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
	)
	return nil
}

type exporter struct {
	doc       *gltf.Document
	materials map[*scene.Material]uint32
}

// Document converts root into a glTF document with a single scene whose
// only root node is root.
func Document(root *scene.Node) *gltf.Document {
	e := &exporter{
		doc:       gltf.NewDocument(),
		materials: map[*scene.Material]uint32{},
	}
	idx := e.node(root)
	e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, idx)
	return e.doc
}

func (e *exporter) node(n *scene.Node) uint32 {
	dst := &gltf.Node{Name: n.Name}
	if n.Matrix != nil {
		dst.Matrix = *n.Matrix
	} else {
		dst.Translation = n.Translation
		dst.Rotation = [4]float32{n.Rotation.V[0], n.Rotation.V[1], n.Rotation.V[2], n.Rotation.W}
		dst.Scale = n.Scale
	}
	if n.Mesh != nil && len(n.Mesh.Positions) > 0 {
		dst.Mesh = gltf.Index(e.mesh(n.Name, n.Mesh))
	}

	idx := uint32(len(e.doc.Nodes))
	e.doc.Nodes = append(e.doc.Nodes, dst)
	for _, c := range n.Children {
		dst.Children = append(dst.Children, e.node(c))
	}
	return idx
}

func (e *exporter) mesh(name string, m *scene.Mesh) uint32 {
	m.EnsureNormals()
	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(modeler.WritePosition(e.doc, m.Positions)),
			gltf.NORMAL:   uint32(modeler.WriteNormal(e.doc, m.Normals)),
		},
	}
	if len(m.Indices) > 0 {
		prim.Indices = gltf.Index(uint32(modeler.WriteIndices(e.doc, m.Indices)))
	}
	if m.Material != nil {
		prim.Material = gltf.Index(e.material(m))
	}
	idx := uint32(len(e.doc.Meshes))
	e.doc.Meshes = append(e.doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	return idx
}

func (e *exporter) material(m *scene.Mesh) uint32 {
	mat := m.Material
	if idx, ok := e.materials[mat]; ok {
		return idx
	}
	bc := mat.BaseColor
	dst := &gltf.Material{
		Name: mat.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{bc[0], bc[1], bc[2], mat.Opacity},
			MetallicFactor:  gltf.Float(mat.Metalness),
			RoughnessFactor: gltf.Float(mat.Roughness),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	if mat.IsTransparent() {
		dst.AlphaMode = gltf.AlphaBlend
		dst.DoubleSided = true
	}
	if mat.Transmission > 0 || m.Proxy {
		dst.Extras = glassExtras{
			Transmission:        mat.Transmission,
			Thickness:           mat.Thickness,
			IOR:                 mat.IOR,
			Reflectivity:        mat.Reflectivity,
			AttenuationColor:    mat.AttenuationColor,
			AttenuationDistance: mat.AttenuationDistance,
			Proxy:               m.ProxyKey,
		}
	}
	idx := uint32(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, dst)
	e.materials[mat] = idx
	return idx
}

// readGlassExtras restores transmission parameters written by Export. Other
// extras are ignored.
func readGlassExtras(mat *scene.Material, extras any) {
	var raw []byte
	switch v := extras.(type) {
	case nil:
		return
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return
		}
		raw = b
	}
	var g glassExtras
	if err := json.Unmarshal(raw, &g); err != nil || g.Transmission == 0 {
		return
	}
	mat.Transmission = g.Transmission
	mat.Thickness = g.Thickness
	mat.IOR = g.IOR
	mat.Reflectivity = g.Reflectivity
	mat.AttenuationColor = g.AttenuationColor
	mat.AttenuationDistance = g.AttenuationDistance
}
