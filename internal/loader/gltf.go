// Package loader turns glTF assets into scene graphs and writes them back.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mitchellh/go-homedir"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/scene"
)

// Loader errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported model format")
	ErrNoScene           = errors.New("model has no scene")
	ErrBadAccessor       = errors.New("accessor out of range")
	ErrMalformed         = errors.New("malformed model data")
)

// LoadFile reads a .gltf or .glb file. A leading ~ is expanded to the home
// directory.
func LoadFile(ctx context.Context, path string) (*scene.Node, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding path %s: %w", path, err)
	}
	doc, err := gltf.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("opening model %s: %w", expanded, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := convert(doc)
	if err != nil {
		return nil, fmt.Errorf("converting model %s: %w", expanded, err)
	}
	logger.Info("model loaded",
		zap.String("path", expanded),
		zap.Int("meshes", len(root.Meshes())),
	)
	return root, nil
}

type converter struct {
	doc       *gltf.Document
	materials map[uint32]*scene.Material
}

// convert builds a scene graph from the document's default scene (or its
// first scene when none is marked default). Buffer reads that run past
// the end of their data are reported as ErrMalformed.
func convert(doc *gltf.Document) (root *scene.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			root, err = nil, fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()
	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	var sceneIdx uint32
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if int(sceneIdx) >= len(doc.Scenes) {
		return nil, fmt.Errorf("%w: index %d", ErrNoScene, sceneIdx)
	}
	src := doc.Scenes[sceneIdx]

	c := &converter{doc: doc, materials: map[uint32]*scene.Material{}}
	root = scene.NewNode(src.Name)
	if root.Name == "" {
		root.Name = "model"
	}
	for _, idx := range src.Nodes {
		n, err := c.node(idx, 0)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

// maxDepth guards against cyclic node references.
const maxDepth = 64

func (c *converter) node(idx uint32, depth int) (*scene.Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("node hierarchy deeper than %d", maxDepth)
	}
	if int(idx) >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	src := c.doc.Nodes[idx]

	n := scene.NewNode(src.Name)
	if src.Matrix != [16]float32{} && src.Matrix != gltf.DefaultMatrix {
		m := mgl32.Mat4(src.Matrix)
		n.Matrix = &m
	} else {
		r := src.RotationOrDefault()
		n.Translation = src.TranslationOrDefault()
		n.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		n.Scale = src.ScaleOrDefault()
	}

	if src.Mesh != nil {
		if err := c.attachMesh(n, *src.Mesh); err != nil {
			return nil, fmt.Errorf("node %q: %w", src.Name, err)
		}
	}

	for _, child := range src.Children {
		cn, err := c.node(child, depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(cn)
	}
	return n, nil
}

// attachMesh puts a single-primitive mesh on n directly and gives each
// primitive of a multi-primitive mesh its own child node.
func (c *converter) attachMesh(n *scene.Node, idx uint32) error {
	if int(idx) >= len(c.doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", idx)
	}
	src := c.doc.Meshes[idx]
	if n.Name == "" {
		n.Name = src.Name
	}

	var meshes []*scene.Mesh
	for i, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			logger.Debug("skipping non-triangle primitive",
				zap.String("mesh", src.Name),
				zap.Int("primitive", i),
			)
			continue
		}
		m, err := c.primitive(prim)
		if err != nil {
			return fmt.Errorf("primitive %d: %w", i, err)
		}
		meshes = append(meshes, m)
	}

	switch len(meshes) {
	case 0:
	case 1:
		n.Mesh = meshes[0]
	default:
		for i, m := range meshes {
			n.Add(scene.NewMeshNode(fmt.Sprintf("%s_%d", n.Name, i), m))
		}
	}
	return nil
}

func (c *converter) primitive(prim *gltf.Primitive) (*scene.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("missing POSITION attribute")
	}
	acr, err := c.accessor(posIdx)
	if err != nil {
		return nil, fmt.Errorf("POSITION: %w", err)
	}
	positions, err := modeler.ReadPosition(c.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	m := &scene.Mesh{Positions: positions}

	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := c.accessor(nIdx)
		if err != nil {
			return nil, fmt.Errorf("NORMAL: %w", err)
		}
		normals, err := modeler.ReadNormal(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		m.Normals = normals
	}

	if prim.Indices != nil {
		acr, err := c.accessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices, err := modeler.ReadIndices(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
		m.Indices = indices
	} else {
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}
	m.EnsureNormals()

	if prim.Material != nil {
		m.Material = c.material(*prim.Material)
	} else {
		m.Material = scene.NewMaterial("default")
	}
	return m, nil
}

// accessor returns the accessor at idx, or ErrBadAccessor when the index or
// the buffer view it points at is missing.
func (c *converter) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(c.doc.Accessors) || c.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: index %d", ErrBadAccessor, idx)
	}
	acr := c.doc.Accessors[idx]
	if acr.BufferView != nil && int(*acr.BufferView) >= len(c.doc.BufferViews) {
		return nil, fmt.Errorf("%w: buffer view %d", ErrBadAccessor, *acr.BufferView)
	}
	return acr, nil
}

// material converts and caches a glTF material so primitives sharing one
// share the scene material too.
func (c *converter) material(idx uint32) *scene.Material {
	if mat, ok := c.materials[idx]; ok {
		return mat
	}
	if int(idx) >= len(c.doc.Materials) {
		return scene.NewMaterial("default")
	}
	src := c.doc.Materials[idx]
	mat := scene.NewMaterial(src.Name)
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		bc := pbr.BaseColorFactorOrDefault()
		mat.BaseColor = bc
		mat.Opacity = bc[3]
		mat.Metalness = pbr.MetallicFactorOrDefault()
		mat.Roughness = pbr.RoughnessFactorOrDefault()
	}
	mat.Transparent = src.AlphaMode == gltf.AlphaBlend
	if src.AlphaMode == gltf.AlphaOpaque {
		mat.Opacity = 1
	}
	readGlassExtras(mat, src.Extras)
	c.materials[idx] = mat
	return mat
}
