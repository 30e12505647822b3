// Package graphics is the GL side of the demo: shader compilation, an orbit
// camera, and the renderer that uploads chunk meshes and draws them under
// the scene's fixed point light.
package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/kazimuth/morass/internal/mesh"
	"github.com/kazimuth/morass/internal/world"
)

// Scene light constants.
var (
	ambientLight  = mgl32.Vec3{0.1, 0.1, 0.1}
	lightPosition = mgl32.Vec3{20, 20, -20}
	lightColor    = mgl32.Vec3{1, 1, 1}
)

const (
	lightRadius    float32 = 50.0
	lightIntensity float32 = 3.0
)

const voxelVertexShader = `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 1) in vec4 color;
layout(location = 2) in vec3 normal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 proj;

out vec4 vColor;
out vec3 vNormal;
out vec3 vWorldPos;

void main() {
    vec4 worldPos = model * vec4(position, 1.0);
    gl_Position = proj * view * worldPos;
    vWorldPos = worldPos.xyz;
    vNormal = mat3(model) * normal;
    vColor = color;
}
`

const voxelFragmentShader = `#version 410 core
in vec4 vColor;
in vec3 vNormal;
in vec3 vWorldPos;

uniform vec3 ambient;
uniform vec3 lightPos;
uniform vec3 lightColor;
uniform float lightRadius;
uniform float lightIntensity;

out vec4 outColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 toLight = lightPos - vWorldPos;
    float dist = length(toLight);
    float atten = clamp(1.0 - dist / lightRadius, 0.0, 1.0);
    float diff = max(dot(n, toLight / dist), 0.0);
    vec3 lit = ambient + lightColor * (diff * atten * lightIntensity);
    outColor = vec4(vColor.rgb * lit, vColor.a);
}
`

// Renderer owns the GL resources for chunk meshes. It is the mesh system's
// sink: CreateMesh uploads vertex buffers, Attach binds the result to a
// chunk and places it at the chunk's coordinate. A renderer has its own
// change feed so it can free buffers of removed chunks on its own schedule.
type Renderer struct {
	shader *Shader
	feed   world.ChangeFeed
	chunks world.ChunkSource

	pending  map[mesh.Handle]*chunkMesh
	attached map[world.ChunkID]*chunkMesh
	next     mesh.Handle
}

var _ mesh.Sink = (*Renderer)(nil)

type chunkMesh struct {
	vao         uint32
	positionVBO uint32
	colorVBO    uint32
	normalVBO   uint32
	ebo         uint32
	indexCount  int32
	model       mgl32.Mat4
}

// NewRenderer configures GL state and compiles the voxel shader. It must be
// called on the thread owning the GL context.
func NewRenderer(feed world.ChangeFeed, chunks world.ChunkSource) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	shader, err := NewShader(voxelVertexShader, voxelFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("graphics: voxel shader: %w", err)
	}

	return &Renderer{
		shader:   shader,
		feed:     feed,
		chunks:   chunks,
		pending:  make(map[mesh.Handle]*chunkMesh),
		attached: make(map[world.ChunkID]*chunkMesh),
	}, nil
}

// CreateMesh uploads a mesh's buffers and returns a handle for Attach.
func (r *Renderer) CreateMesh(d *mesh.Data) (mesh.Handle, error) {
	m := &chunkMesh{model: mgl32.Ident4()}
	if d.VertexCount() > 0 {
		m.upload(d)
	}
	r.next++
	r.pending[r.next] = m
	return r.next, nil
}

// Attach binds an uploaded mesh to a chunk, replacing any mesh the chunk
// had. The mesh is placed at the chunk's canonical coordinate.
func (r *Renderer) Attach(id world.ChunkID, h mesh.Handle) error {
	m, ok := r.pending[h]
	if !ok {
		return fmt.Errorf("graphics: unknown mesh handle %d", h)
	}
	delete(r.pending, h)

	ch, ok := r.chunks.Chunk(id)
	if !ok {
		m.dispose()
		return fmt.Errorf("graphics: attaching mesh to missing chunk %d", id)
	}
	p := ch.Coord.Vec3()
	m.model = mgl32.Translate3D(p.X(), p.Y(), p.Z())

	if old, ok := r.attached[id]; ok {
		old.dispose()
	}
	r.attached[id] = m
	return nil
}

// Prune drops GL buffers belonging to chunks the host has removed.
func (r *Renderer) Prune() {
	for _, c := range r.feed.Drain() {
		if c.Event != world.Removed {
			continue
		}
		if m, ok := r.attached[c.ID]; ok {
			m.dispose()
			delete(r.attached, c.ID)
		}
	}
}

// Draw clears the frame and renders every attached chunk mesh.
func (r *Renderer) Draw(view, proj mgl32.Mat4) {
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.shader.Use()
	r.shader.SetMatrix4("view", &view[0])
	r.shader.SetMatrix4("proj", &proj[0])
	r.shader.SetVector3("ambient", ambientLight.X(), ambientLight.Y(), ambientLight.Z())
	r.shader.SetVector3("lightPos", lightPosition.X(), lightPosition.Y(), lightPosition.Z())
	r.shader.SetVector3("lightColor", lightColor.X(), lightColor.Y(), lightColor.Z())
	r.shader.SetFloat("lightRadius", lightRadius)
	r.shader.SetFloat("lightIntensity", lightIntensity)

	for _, m := range r.attached {
		if m.indexCount == 0 {
			continue
		}
		r.shader.SetMatrix4("model", &m.model[0])
		gl.BindVertexArray(m.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, 0)
	}
	gl.BindVertexArray(0)
}

// MeshCount returns the number of chunks currently holding a mesh.
func (r *Renderer) MeshCount() int { return len(r.attached) }

// Dispose frees every GL resource the renderer owns.
func (r *Renderer) Dispose() {
	for _, m := range r.pending {
		m.dispose()
	}
	for _, m := range r.attached {
		m.dispose()
	}
	r.pending = make(map[mesh.Handle]*chunkMesh)
	r.attached = make(map[world.ChunkID]*chunkMesh)
	r.shader.Dispose()
}

func (m *chunkMesh) upload(d *mesh.Data) {
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	positions := flatten3(d.Positions)
	gl.GenBuffers(1, &m.positionVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.positionVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)

	colors := flatten4(d.Colors)
	gl.GenBuffers(1, &m.colorVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.colorVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(colors)*4, gl.Ptr(colors), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, 4*4, 0)

	normals := flatten3(d.Normals)
	gl.GenBuffers(1, &m.normalVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.normalVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(normals)*4, gl.Ptr(normals), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, 3*4, 0)

	indices := quadIndices(d.QuadCount())
	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	m.indexCount = int32(len(indices))

	gl.BindVertexArray(0)
}

func (m *chunkMesh) dispose() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	for _, b := range []uint32{m.positionVBO, m.colorVBO, m.normalVBO, m.ebo} {
		if b != 0 {
			gl.DeleteBuffers(1, &b)
		}
	}
	m.vao, m.positionVBO, m.colorVBO, m.normalVBO, m.ebo = 0, 0, 0, 0, 0
	m.indexCount = 0
}

// quadIndices splits each four-vertex quad into two triangles.
func quadIndices(quads int) []uint32 {
	idx := make([]uint32, 0, quads*6)
	for q := 0; q < quads; q++ {
		base := uint32(q * 4)
		idx = append(idx, base, base+1, base+2, base+2, base+3, base)
	}
	return idx
}

func flatten3(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

func flatten4(vs []mgl32.Vec4) []float32 {
	out := make([]float32, 0, len(vs)*4)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2], v[3])
	}
	return out
}
