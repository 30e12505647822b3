package raycast

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/kazimuth/morass/internal/world"
)

// Caster resolves rays against chunk contents, looking chunks up through the
// index as the ray crosses them. Regions with no loaded chunk are skipped in
// chunk-sized steps instead of voxel by voxel; a voxel inside an unloaded
// chunk is never interesting.
type Caster struct {
	Index  *world.ChunkIndex
	Chunks world.ChunkSource
}

// chunkPoint maps a world position into chunk-cell space, where every chunk
// is a unit cell centered on its integer cell coordinate. The direction
// vector is left unscaled, so one unit of cell-space distance equals
// ChunkSize units of world distance.
func chunkPoint(p mgl32.Vec3) mgl32.Vec3 {
	const offset = (world.ChunkSize - 1) / (2.0 * world.ChunkSize)
	return mgl32.Vec3{
		p.X()/world.ChunkSize - offset,
		p.Y()/world.ChunkSize - offset,
		p.Z()/world.ChunkSize - offset,
	}
}

// Cast walks voxels from start along dir within the inclusive box
// [min, max] until a voxel matching interesting is entered (ok true) or the
// box is exhausted (ok false, Border hit). Dist is a multiple of dir.
//
// Trace's preconditions apply: no NaN inputs, and start must lie within the
// box.
func (ca *Caster) Cast(start, dir mgl32.Vec3, min, max world.VoxelCoord, interesting func(world.Voxel) bool) (Hit, bool) {
	cur := world.Canonicalize(start)
	point := start
	base := float32(0)

	// The voxel predicate reads chunk contents, caching the chunk the walk
	// is currently inside. Entering an unloaded chunk forces a stop so the
	// walk can switch to cell space.
	var (
		cached      *world.Chunk
		cachedCoord world.VoxelCoord
		haveCached  bool
		missing     bool
	)
	voxelPred := func(vc world.VoxelCoord) bool {
		cc := world.CanonicalChunk(vc)
		if !haveCached || cc != cachedCoord {
			cached = nil
			cachedCoord = cc
			haveCached = true
			if id, ok := ca.Index.Lookup(cc); ok {
				if ch, ok := ca.Chunks.Chunk(id); ok {
					cached = ch
				}
			}
		}
		if cached == nil {
			missing = true
			return true
		}
		return interesting(cached.AtUnchecked(vc.Sub(cc)))
	}

	cellMin, cellMax := world.ChunkCell(min), world.ChunkCell(max)
	cellPred := func(cell world.VoxelCoord) bool {
		_, ok := ca.Index.Lookup(cell.Scale(world.ChunkSize))
		return ok
	}

	for range maxSteps {
		missing = false
		h := Trace(cur, point, dir, min, max, voxelPred)
		if !missing {
			h.Dist += base
			return h, h.Kind == Contained
		}

		// The walk entered an unloaded chunk at h.Voxel. Hop in cell space
		// to the next loaded chunk along the ray.
		enter := point.Add(dir.Mul(h.Dist))
		hop := Trace(world.ChunkCell(h.Voxel), chunkPoint(enter), dir, cellMin, cellMax, cellPred)

		travel := world.ChunkSize * hop.Dist
		point = enter.Add(dir.Mul(travel))
		base += h.Dist + travel

		// Recover the voxel at the hop target from the float position,
		// nudging it into the cell the hop reported; the two computations
		// can disagree by one at cell boundaries.
		lo := hop.Voxel.Scale(world.ChunkSize)
		cur = nudgeInto(world.Canonicalize(point), lo, lo.Add(world.Coord(chunkMaxOff, chunkMaxOff, chunkMaxOff)))
		haveCached = false

		if outside(cur, min, max) || onStopLayer(cur, min, max, dir) {
			// The hop landed on or past the layer where the walk would
			// stop; by the walk's border rule the voxel is not tested
			// against the predicate.
			return Hit{Dist: base, Voxel: cur, Kind: Border}, false
		}

		if hop.Kind == Border {
			if _, ok := ca.Index.Lookup(cur); !ok {
				// Cell space is exhausted and the final cell is unloaded:
				// sweep voxel by voxel to the true voxel-space border,
				// reading through to any loaded chunk the sweep clips.
				tail := Trace(cur, point, dir, min, max, func(vc world.VoxelCoord) bool {
					cc := world.CanonicalChunk(vc)
					id, ok := ca.Index.Lookup(cc)
					if !ok {
						return false
					}
					ch, ok := ca.Chunks.Chunk(id)
					if !ok {
						return false
					}
					return interesting(ch.AtUnchecked(vc.Sub(cc)))
				})
				tail.Dist += base
				return tail, tail.Kind == Contained
			}
		}
	}
	panic("raycast: chunk hopping failed to terminate")
}

const chunkMaxOff = world.ChunkSize - 1

// nudgeInto moves v at most one unit per axis toward the box [lo, hi].
func nudgeInto(v, lo, hi world.VoxelCoord) world.VoxelCoord {
	v.X = nudge(v.X, lo.X, hi.X)
	v.Y = nudge(v.Y, lo.Y, hi.Y)
	v.Z = nudge(v.Z, lo.Z, hi.Z)
	return v
}

func nudge(c, lo, hi int32) int32 {
	if c < lo {
		return c + 1
	}
	if c > hi {
		return c - 1
	}
	return c
}

func outside(v, min, max world.VoxelCoord) bool {
	return v.X < min.X || v.X > max.X ||
		v.Y < min.Y || v.Y > max.Y ||
		v.Z < min.Z || v.Z > max.Z
}

// onStopLayer reports whether v sits on the box layer at which the walk
// stops, the limit each axis steps toward. Limits the ray moves away from
// or parallel to never stop the walk.
func onStopLayer(v, min, max world.VoxelCoord, dir mgl32.Vec3) bool {
	if s := step(dir.X()); (s > 0 && v.X == max.X) || (s < 0 && v.X == min.X) {
		return true
	}
	if s := step(dir.Y()); (s > 0 && v.Y == max.Y) || (s < 0 && v.Y == min.Y) {
		return true
	}
	if s := step(dir.Z()); (s > 0 && v.Z == max.Z) || (s < 0 && v.Z == min.Z) {
		return true
	}
	return false
}
