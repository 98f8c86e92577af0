package surface

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Locator answers nearest-vertex queries against one mesh using a uniform
// grid. It is read-only after Build and safe to query repeatedly; the
// single-threaded model means no locking is needed.
type Locator struct {
	mesh     *Mesh
	origin   v3.Vec
	cellSize float64
	dims     [3]int
	cells    map[int][]int // cell index -> vertex ids
}

// targetVerticesPerCell tunes grid resolution. Brain surfaces run to
// ~150k vertices; a handful per cell keeps query rings short.
const targetVerticesPerCell = 8.0

// BuildLocator constructs a locator over the mesh's vertices.
func BuildLocator(mesh *Mesh) *Locator {
	l := &Locator{mesh: mesh, cells: make(map[int][]int)}
	n := len(mesh.Vertices)
	if n == 0 {
		l.cellSize = 1
		l.dims = [3]int{1, 1, 1}
		return l
	}

	min := mesh.Vertices[0]
	max := mesh.Vertices[0]
	for _, p := range mesh.Vertices[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	ext := max.Sub(min)
	volume := math.Max(ext.X, 1e-6) * math.Max(ext.Y, 1e-6) * math.Max(ext.Z, 1e-6)
	l.cellSize = math.Cbrt(volume * targetVerticesPerCell / float64(n))
	if l.cellSize <= 0 {
		l.cellSize = 1
	}
	l.origin = min
	l.dims = [3]int{
		int(ext.X/l.cellSize) + 1,
		int(ext.Y/l.cellSize) + 1,
		int(ext.Z/l.cellSize) + 1,
	}
	for i, p := range mesh.Vertices {
		c := l.cellIndex(l.cellCoords(p))
		l.cells[c] = append(l.cells[c], i)
	}
	return l
}

// Mesh returns the mesh this locator was built against.
func (l *Locator) Mesh() *Mesh { return l.mesh }

func (l *Locator) cellCoords(p v3.Vec) [3]int {
	c := [3]int{
		int((p.X - l.origin.X) / l.cellSize),
		int((p.Y - l.origin.Y) / l.cellSize),
		int((p.Z - l.origin.Z) / l.cellSize),
	}
	for a := 0; a < 3; a++ {
		if c[a] < 0 {
			c[a] = 0
		}
		if c[a] >= l.dims[a] {
			c[a] = l.dims[a] - 1
		}
	}
	return c
}

func (l *Locator) cellIndex(c [3]int) int {
	return (c[2]*l.dims[1]+c[1])*l.dims[0] + c[0]
}

// NearestVertex returns the id of the mesh vertex closest to p, or -1
// when the mesh is empty.
func (l *Locator) NearestVertex(p v3.Vec) int {
	if len(l.mesh.Vertices) == 0 {
		return -1
	}
	center := l.cellCoords(p)
	best := -1
	bestDist2 := math.MaxFloat64

	maxRing := l.dims[0]
	if l.dims[1] > maxRing {
		maxRing = l.dims[1]
	}
	if l.dims[2] > maxRing {
		maxRing = l.dims[2]
	}

	for ring := 0; ring <= maxRing; ring++ {
		l.scanRing(p, center, ring, &best, &bestDist2)
		// Keep scanning until the ring boundary is provably farther
		// than the best candidate found so far.
		if best >= 0 && float64(ring)*l.cellSize > math.Sqrt(bestDist2)+l.cellSize {
			break
		}
	}
	return best
}

func (l *Locator) scanRing(p v3.Vec, center [3]int, ring int, best *int, bestDist2 *float64) {
	for dz := -ring; dz <= ring; dz++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if ring > 0 && abs(dx) != ring && abs(dy) != ring && abs(dz) != ring {
					continue // interior cells were scanned by smaller rings
				}
				c := [3]int{center[0] + dx, center[1] + dy, center[2] + dz}
				if c[0] < 0 || c[1] < 0 || c[2] < 0 ||
					c[0] >= l.dims[0] || c[1] >= l.dims[1] || c[2] >= l.dims[2] {
					continue
				}
				for _, vi := range l.cells[l.cellIndex(c)] {
					d := l.mesh.Vertices[vi].Sub(p)
					d2 := d.Dot(d)
					if d2 < *bestDist2 {
						*bestDist2 = d2
						*best = vi
					}
				}
			}
		}
	}
}

// NearestPoint returns the mesh vertex position closest to p. When the
// mesh is empty, p is returned unchanged.
func (l *Locator) NearestPoint(p v3.Vec) v3.Vec {
	vi := l.NearestVertex(p)
	if vi < 0 {
		return p
	}
	return l.mesh.Vertices[vi]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
