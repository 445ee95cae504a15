// Package debug provides debug visualization and capture utilities.
package debug

import "github.com/Faultbox/voxelfx/pkg/voxel"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// BoundsWireframe creates line vertices for the edges of b grown by padding
// on every side. Returns 24 vertices, format: [x, y, z] per vertex.
func BoundsWireframe(b voxel.Bounds, padding float32) []float32 {
	minX, minY, minZ := b.Min[0]-padding, b.Min[1]-padding, b.Min[2]-padding
	maxX, maxY, maxZ := b.Max[0]+padding, b.Max[1]+padding, b.Max[2]+padding

	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}
