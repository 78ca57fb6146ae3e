// Package renderer draws the tessellated terrain mesh with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/terraroam/internal/engine/shader"
	"github.com/Faultbox/terraroam/internal/logger"
	"github.com/Faultbox/terraroam/pkg/math"
)

const vertexShaderSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;
uniform float uHeightScale;

out float vHeight;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vHeight = aPos.y * uHeightScale;
}
`

const fragmentShaderSrc = `
#version 410 core

in float vHeight;
out vec4 FragColor;

uniform vec3 uLowColor;
uniform vec3 uHighColor;

void main() {
	FragColor = vec4(mix(uLowColor, uHighColor, clamp(vHeight, 0.0, 1.0)), 1.0);
}
`

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	Wireframe bool
	// MaxTris sizes the vertex and index buffers; must match the engine.
	MaxTris int
}

// Renderer owns the GL state for the terrain mesh: one dynamic vertex
// buffer re-uploaded each frame and a static 32-bit index buffer.
type Renderer struct {
	config Config

	program *shader.Program
	vao     uint32
	vbo     uint32
	ebo     uint32
}

// New creates a renderer. Must be called after the OpenGL context exists.
func New(cfg Config, indices []uint32) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.25, 0.55, 0.8, 1.0) // sky

	var err error
	r.program, err = shader.Compile(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	// Dynamic vertex storage; orphaned and refilled every frame.
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 9*cfg.MaxTris*4, nil, gl.STREAM_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	// The index list is the identity mapping and never changes. 32-bit
	// indices: the mesh addresses far more than 65535 vertices.
	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	return r, nil
}

// Close releases GL resources.
func (r *Renderer) Close() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// SetWireframe toggles wireframe fill mode.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Aspect returns the current viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawTerrain uploads the frame's vertex buffer and draws the whole index
// range. Unused slots hold zeroed positions and collapse to degenerate
// triangles.
func (r *Renderer) DrawTerrain(vertices []float32, mvp *math.Mat4) {
	r.program.Use()
	r.program.SetMat4("uMVP", mvp)
	r.program.SetFloat("uHeightScale", 1.0/255.0)
	r.program.SetVec3("uLowColor", math.Vec3{X: 0.15, Y: 0.35, Z: 0.12})
	r.program.SetVec3("uHighColor", math.Vec3{X: 0.95, Y: 0.95, Z: 0.98})

	gl.BindVertexArray(r.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, nil, gl.STREAM_DRAW) // orphan
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))

	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.DrawElements(gl.TRIANGLES, int32(3*r.config.MaxTris), gl.UNSIGNED_INT, nil)
	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.BindVertexArray(0)
}
