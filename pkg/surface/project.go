package surface

import v3 "github.com/deadsy/sdfx/vec/v3"

// ProjectPoints maps points placed on the source surface to the
// corresponding positions on a sibling variant of the same subject.
// Each point is snapped to its nearest source vertex and replaced by the
// destination mesh's vertex with the same id. Requires both variants to
// share vertex numbering; returns nil when they do not.
func ProjectPoints(pts []v3.Vec, src *Locator, dst *Mesh) []v3.Vec {
	if src == nil || dst.IsEmpty() {
		return nil
	}
	if src.Mesh().VertexCount() != dst.VertexCount() {
		return nil
	}
	out := make([]v3.Vec, 0, len(pts))
	for _, p := range pts {
		vi := src.NearestVertex(p)
		if vi < 0 {
			return nil
		}
		out = append(out, dst.Vertices[vi])
	}
	return out
}
