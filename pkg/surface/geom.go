package surface

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ClosestPointOnPlane returns the orthogonal projection of p onto the
// plane through origin with unit normal n.
func ClosestPointOnPlane(origin, normal, p v3.Vec) v3.Vec {
	n := normal.Normalize()
	d := p.Sub(origin).Dot(n)
	return p.Sub(n.MulScalar(d))
}

// PlaneFromPoints derives a plane (origin, unit normal) from marker
// control points. At least three non-collinear points are required.
func PlaneFromPoints(pts []v3.Vec) (origin, normal v3.Vec, ok bool) {
	if len(pts) < 3 {
		return v3.Vec{}, v3.Vec{}, false
	}
	origin = pts[0]
	n := pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0]))
	if n.Length() < 1e-12 {
		return v3.Vec{}, v3.Vec{}, false
	}
	return origin, n.Normalize(), true
}

// ClosestPolylinePointAlongRay projects each polyline point onto the line
// through origin in direction dir and returns the projection of the point
// with the smallest perpendicular distance to that line. The returned
// point therefore lies on the ray's carrier line. ok is false when the
// polyline is empty.
func ClosestPolylinePointAlongRay(pts []v3.Vec, origin, dir v3.Vec) (v3.Vec, bool) {
	if len(pts) == 0 {
		return v3.Vec{}, false
	}
	d := dir.Normalize()
	best := v3.Vec{}
	bestDist2 := math.MaxFloat64
	for _, p := range pts {
		rel := p.Sub(origin)
		t := rel.Dot(d)
		proj := origin.Add(d.MulScalar(t))
		perp := p.Sub(proj)
		dist2 := perp.Dot(perp)
		if dist2 < bestDist2 {
			bestDist2 = dist2
			best = proj
		}
	}
	return best, true
}
