package surface

import v3 "github.com/deadsy/sdfx/vec/v3"

// Mesh is a triangle mesh. Vertices are shared across surface variants of
// the same subject: vertex i on the orig surface corresponds to vertex i
// on the pial and inflated surfaces.
type Mesh struct {
	Vertices []v3.Vec
	Indices  []uint32 // 3 per triangle

	// Overlays are named per-vertex scalar arrays ("sulc", "curv", ...).
	Overlays map[string][]float64
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return m == nil || len(m.Vertices) == 0 }

// Clear drops all geometry and overlays, leaving an empty mesh in place.
// Used when a boundary-cut output must be invalidated without replacing
// the mesh object other nodes reference.
func (m *Mesh) Clear() {
	m.Vertices = nil
	m.Indices = nil
	m.Overlays = nil
}

// Overlay returns the named per-vertex scalar array, or nil.
func (m *Mesh) Overlay(name string) []float64 {
	if m == nil || m.Overlays == nil {
		return nil
	}
	return m.Overlays[name]
}

// OverlayRange returns the min and max of the named overlay.
func (m *Mesh) OverlayRange(name string) (min, max float64, ok bool) {
	arr := m.Overlay(name)
	if len(arr) == 0 {
		return 0, 0, false
	}
	min, max = arr[0], arr[0]
	for _, v := range arr[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}
