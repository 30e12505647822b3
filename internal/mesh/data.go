package mesh

import "github.com/go-gl/mathgl/mgl32"

// Data is one chunk's mesh as ordered per-vertex buffers. Every four
// consecutive vertices form one quad wound counter-clockwise seen from
// outside; a sink that wants triangles splits each quad with the index
// pattern 0,1,2, 2,3,0.
//
// Positions are chunk-local: the chunk's canonical coordinate is the center
// of its [0][0][0] voxel, so the renderer places the mesh by translating it
// to that coordinate.
type Data struct {
	Positions []mgl32.Vec3
	Colors    []mgl32.Vec4
	Normals   []mgl32.Vec3
}

// VertexCount returns the number of vertices in the mesh.
func (d *Data) VertexCount() int { return len(d.Positions) }

// QuadCount returns the number of quads in the mesh.
func (d *Data) QuadCount() int { return len(d.Positions) / 4 }
