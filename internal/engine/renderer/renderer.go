// Package renderer draws the car with OpenGL: an opaque pass for the body
// followed by a blended pass for glass.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/engine/lighting"
	"github.com/Faultbox/tintview/internal/engine/shader"
	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/scene"
)

// Background is the clear colour.
var Background = mgl32.Vec4{0x0f / 255.0, 0x11 / 255.0, 0x15 / 255.0, 1}

// OutlineColor is used for edges of highlighted panes.
var OutlineColor = mgl32.Vec4{1, 1, 1, 1}

// Frame carries per-frame inputs for Draw.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Light      lighting.Setup
	// Highlight reports whether a mesh node should be outlined.
	Highlight func(*scene.Node) bool
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	width, height int
	program       *shader.Program
	lines         *lineBuffer
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(width, height int) (*Renderer, error) {
	r := &Renderer{width: width, height: height}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(Background[0], Background[1], Background[2], Background[3])

	var err error
	r.program, err = shader.NewProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	logger.Debug("shader program created", zap.Uint32("program", r.program.ID))
	r.lines = newLineBuffer()

	r.Resize(width, height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.lines != nil {
		r.lines.delete()
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

// Begin starts a new frame. State is reset since an overlay may have
// changed it since the last frame.
func (r *Renderer) Begin() {
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.SCISSOR_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(Background[0], Background[1], Background[2], Background[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Draw renders every uploaded mesh under root.
func (r *Renderer) Draw(root *scene.Node, f Frame) {
	opaque, blended := partition(root, f.Eye)

	p := r.program
	p.Use()
	p.SetMat4("uView", f.View)
	p.SetMat4("uProjection", f.Projection)
	p.SetVec3("uEye", f.Eye)
	p.SetVec3("uSunDir", f.Light.SunDir)
	p.SetVec3("uSunColor", f.Light.SunColor.Mul(f.Light.Sun))
	p.SetVec3("uAmbient", f.Light.AmbientColor.Mul(f.Light.Ambient))
	p.SetBool("uUnlit", false)

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for _, it := range opaque {
		r.drawItem(it)
	}

	// Glass: blend back to front without writing depth so panes behind
	// panes still show through.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, it := range blended {
		r.drawItem(it)
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	if f.Highlight != nil {
		r.drawOutlines(append(opaque, blended...), f.Highlight)
	}
}

func (r *Renderer) drawItem(it drawItem) {
	m := it.node.Mesh
	if m.GPU == nil {
		return
	}
	s := shade(m.Material)
	p := r.program
	p.SetMat4("uModel", it.model)
	p.SetVec4("uColor", s.Color)
	p.SetFloat("uReflectivity", s.Reflectivity)
	p.SetFloat("uRoughness", s.Roughness)
	p.SetFloat("uMetalness", s.Metalness)

	gl.BindVertexArray(m.GPU.VAO)
	if len(m.Indices) > 0 {
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(len(m.Indices)), gl.UNSIGNED_INT, 0)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(m.Positions)))
	}
}

// drawOutlines draws highlighted meshes as white wireframe on top of
// everything else.
func (r *Renderer) drawOutlines(items []drawItem, highlight func(*scene.Node) bool) {
	p := r.program
	p.SetBool("uUnlit", true)
	gl.Disable(gl.DEPTH_TEST)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	for _, it := range items {
		if !highlight(it.node) || it.node.Mesh.GPU == nil {
			continue
		}
		m := it.node.Mesh
		p.SetMat4("uModel", it.model)
		p.SetVec4("uColor", OutlineColor)
		gl.BindVertexArray(m.GPU.VAO)
		if len(m.Indices) > 0 {
			gl.DrawElementsWithOffset(gl.TRIANGLES, int32(len(m.Indices)), gl.UNSIGNED_INT, 0)
		} else {
			gl.DrawArrays(gl.TRIANGLES, 0, int32(len(m.Positions)))
		}
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Enable(gl.DEPTH_TEST)
	p.SetBool("uUnlit", false)
}

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	gl_Position = uProjection * uView * world;
}
`

const fragmentShader = `
#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;

uniform vec4 uColor;
uniform vec3 uEye;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform vec3 uAmbient;
uniform float uReflectivity;
uniform float uRoughness;
uniform float uMetalness;
uniform bool uUnlit;

out vec4 FragColor;

void main() {
	if (uUnlit) {
		FragColor = uColor;
		return;
	}

	vec3 n = normalize(vNormal);
	vec3 v = normalize(uEye - vWorldPos);
	// Panes are single planes; light both faces.
	if (dot(n, v) < 0.0) n = -n;

	vec3 l = normalize(uSunDir);
	float diff = max(dot(n, l), 0.0);

	vec3 h = normalize(l + v);
	float shininess = mix(256.0, 8.0, clamp(uRoughness, 0.0, 1.0));
	float specular = pow(max(dot(n, h), 0.0), shininess);

	// Schlick fresnel on the reflectivity
	float f0 = max(uReflectivity, mix(0.04, 1.0, uMetalness) * 0.25);
	float fresnel = f0 + (1.0 - f0) * pow(1.0 - max(dot(n, v), 0.0), 5.0);

	vec3 base = uColor.rgb;
	vec3 color = base * (uAmbient + uSunColor * diff) + uSunColor * specular * fresnel;

	// Reflections make grazing glass more opaque
	float alpha = clamp(uColor.a + fresnel * 0.5, 0.0, 1.0);

	// ACES filmic approximation
	color = clamp((color * (2.51 * color + 0.03)) / (color * (2.43 * color + 0.59) + 0.14), 0.0, 1.0);
	FragColor = vec4(pow(color, vec3(1.0 / 2.2)), alpha);
}
`
