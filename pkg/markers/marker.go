package markers

import (
	"github.com/google/uuid"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Type tags the geometric kind of a marker.
type Type int

const (
	TypeCurve Type = iota
	TypeClosedCurve
	TypePlane
	TypePoints // single control points, used for parcel seeds
)

func (t Type) String() string {
	switch t {
	case TypeCurve:
		return "curve"
	case TypeClosedCurve:
		return "closed-curve"
	case TypePlane:
		return "plane"
	case TypePoints:
		return "points"
	default:
		return "unknown"
	}
}

// Display holds the visualization attributes the host reads when it
// renders a marker. The core only assigns defaults; rendering itself
// belongs to the host.
type Display struct {
	GlyphScale         float64
	SurfaceSnap        bool // curve points are fitted to the surface
	InteractiveHandles bool // plane handle affordance
	Visible            bool
}

// Marker is a named geometric primitive: a curve, closed curve or plane,
// or a bare set of points (seeds). Identity is the name; the ID is a
// scene-unique handle assigned at creation.
type Marker struct {
	id      string
	name    string
	typ     Type
	points  []v3.Vec
	attrs   map[string]string
	locked  bool
	display Display

	// Typed references to other markers, keyed by role string.
	// Used for relative-constraint bookkeeping and derived-marker links.
	refs map[string][]*Marker

	store *Store
}

func newMarker(name string, typ Type, store *Store) *Marker {
	return &Marker{
		id:    uuid.NewString(),
		name:  name,
		typ:   typ,
		attrs: make(map[string]string),
		refs:  make(map[string][]*Marker),
		display: Display{
			GlyphScale: 1.0,
			Visible:    true,
		},
		store: store,
	}
}

// ID returns the scene-unique handle of the marker.
func (m *Marker) ID() string { return m.id }

// Name returns the marker's name. Names are unique within a store.
func (m *Marker) Name() string { return m.name }

// Kind returns the marker's geometric type tag.
func (m *Marker) Kind() Type { return m.typ }

// NumberOfControlPoints returns the current control point count.
func (m *Marker) NumberOfControlPoints() int { return len(m.points) }

// ControlPoint returns the i-th control point.
func (m *Marker) ControlPoint(i int) v3.Vec { return m.points[i] }

// ControlPoints returns a copy of the control points.
func (m *Marker) ControlPoints() []v3.Vec {
	pts := make([]v3.Vec, len(m.points))
	copy(pts, m.points)
	return pts
}

// AddControlPoint appends a control point and emits PointAdded.
func (m *Marker) AddControlPoint(p v3.Vec) {
	m.points = append(m.points, p)
	m.store.emit(m, EventPointAdded)
}

// SetControlPoint moves the i-th control point and emits PointModified.
func (m *Marker) SetControlPoint(i int, p v3.Vec) {
	m.points[i] = p
	m.store.emit(m, EventPointModified)
}

// SetControlPoints replaces all control points and emits PointModified.
func (m *Marker) SetControlPoints(pts []v3.Vec) {
	m.points = make([]v3.Vec, len(pts))
	copy(m.points, pts)
	m.store.emit(m, EventPointModified)
}

// RemoveControlPoint deletes the i-th control point and emits PointRemoved.
func (m *Marker) RemoveControlPoint(i int) {
	m.points = append(m.points[:i], m.points[i+1:]...)
	m.store.emit(m, EventPointRemoved)
}

// RemoveAllControlPoints deletes every control point and emits PointRemoved.
func (m *Marker) RemoveAllControlPoints() {
	if len(m.points) == 0 {
		return
	}
	m.points = nil
	m.store.emit(m, EventPointRemoved)
}

// Attribute returns the named string attribute, or "" when unset.
func (m *Marker) Attribute(name string) string { return m.attrs[name] }

// SetAttribute sets a string attribute on the marker.
func (m *Marker) SetAttribute(name, value string) { m.attrs[name] = value }

// Locked reports whether the marker is locked against user edits.
func (m *Marker) Locked() bool { return m.locked }

// SetLocked changes the lock state and emits LockModified on change.
func (m *Marker) SetLocked(locked bool) {
	if m.locked == locked {
		return
	}
	m.locked = locked
	m.store.emit(m, EventLockModified)
}

// DisplayAttributes returns the marker's display attributes.
func (m *Marker) DisplayAttributes() Display { return m.display }

// SetDisplayAttributes replaces the display attributes and emits
// DisplayModified.
func (m *Marker) SetDisplayAttributes(d Display) {
	m.display = d
	m.store.emit(m, EventDisplayModified)
}

// AddReference records a typed reference from this marker to another.
// Duplicate references under the same role are ignored so that rerunning
// a query does not accumulate edges.
func (m *Marker) AddReference(role string, target *Marker) {
	for _, r := range m.refs[role] {
		if r == target {
			return
		}
	}
	m.refs[role] = append(m.refs[role], target)
}

// References returns the markers referenced under the given role, in the
// order they were recorded.
func (m *Marker) References(role string) []*Marker {
	refs := make([]*Marker, len(m.refs[role]))
	copy(refs, m.refs[role])
	return refs
}

// Reference returns the single marker referenced under the given role,
// or nil when the role is empty.
func (m *Marker) Reference(role string) *Marker {
	refs := m.refs[role]
	if len(refs) == 0 {
		return nil
	}
	return refs[0]
}

// SetReference replaces the role's reference list with a single marker.
func (m *Marker) SetReference(role string, target *Marker) {
	m.refs[role] = []*Marker{target}
}

// RemoveReferences clears all references recorded under the given role.
func (m *Marker) RemoveReferences(role string) {
	delete(m.refs, role)
}
