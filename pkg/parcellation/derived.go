package parcellation

import (
	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/surface"
)

// Reference roles and attributes for derived markers: each curve placed
// on the orig surface gets a sibling control-point marker per surface
// variant, kept in sync through vertex-id projection.
const (
	origMarkerRef     = "OrigMarker"
	nodeTypeAttribute = "Parcellation.NodeType"
)

func variantLabel(v surface.Variant) string {
	switch v {
	case surface.Orig:
		return "Orig"
	case surface.Pial:
		return "Pial"
	case surface.Inflated:
		return "Inflated"
	default:
		return ""
	}
}

func variantFromLabel(label string) (surface.Variant, bool) {
	switch label {
	case "Orig":
		return surface.Orig, true
	case "Pial":
		return surface.Pial, true
	case "Inflated":
		return surface.Inflated, true
	default:
		return 0, false
	}
}

func derivedRef(v surface.Variant) string {
	return variantLabel(v) + "ControlPoints"
}

// derivedPoints returns the marker holding the master's control points on
// the given surface variant, creating it on first use. Derived markers
// are locked copies; the user edits them to move the master indirectly.
func (l *Logic) derivedPoints(master *markers.Marker, v surface.Variant) *markers.Marker {
	if d := master.Reference(derivedRef(v)); d != nil {
		return d
	}
	name := master.Name() + "_" + derivedRef(v)
	d := l.store.ResolveByName(name)
	if d == nil {
		var err error
		d, err = l.store.Create(name, markers.TypePoints)
		if err != nil {
			l.log.Error("derived marker creation failed")
			return nil
		}
		d.SetAttribute(nodeTypeAttribute, variantLabel(v))
		d.SetLocked(master.Locked())
	}
	master.SetReference(derivedRef(v), d)
	d.SetReference(origMarkerRef, master)
	return d
}

// isDerived reports whether m is a derived variant marker.
func isDerived(m *markers.Marker) bool {
	return m.Reference(origMarkerRef) != nil
}

// onMasterMarkerModified mirrors an edited curve's control points onto
// the sibling surface variants. No-op while a projection cascade is
// already in flight.
func (l *Logic) onMasterMarkerModified(m *markers.Marker) {
	if l.updatingFromMaster || l.updatingFromDerived {
		return
	}
	if isDerived(m) {
		l.onDerivedMarkerModified(m)
		return
	}
	if m.Kind() != markers.TypeCurve && m.Kind() != markers.TypeClosedCurve {
		return
	}
	srcLoc := l.locators.Locator(surface.Orig)
	if srcLoc == nil {
		return
	}

	wasUpdating := l.updatingFromMaster
	l.updatingFromMaster = true
	defer func() { l.updatingFromMaster = wasUpdating }()

	l.store.BeginBatch()
	defer l.store.EndBatch()

	for _, v := range []surface.Variant{surface.Pial, surface.Inflated} {
		dst := l.locators.Mesh(v)
		if dst.IsEmpty() {
			continue
		}
		pts := surface.ProjectPoints(m.ControlPoints(), srcLoc, dst)
		if pts == nil {
			continue
		}
		if d := l.derivedPoints(m, v); d != nil {
			d.SetControlPoints(pts)
		}
	}
}

// onDerivedMarkerModified pushes a user edit on a variant marker back
// onto the orig master and across to the other variant.
func (l *Logic) onDerivedMarkerModified(d *markers.Marker) {
	master := d.Reference(origMarkerRef)
	if master == nil {
		return
	}
	v, ok := variantFromLabel(d.Attribute(nodeTypeAttribute))
	if !ok {
		return
	}
	srcLoc := l.locators.Locator(v)
	origMesh := l.locators.Mesh(surface.Orig)
	if srcLoc == nil || origMesh.IsEmpty() {
		return
	}

	wasUpdating := l.updatingFromDerived
	l.updatingFromDerived = true
	defer func() { l.updatingFromDerived = wasUpdating }()

	l.store.BeginBatch()
	defer l.store.EndBatch()

	if pts := surface.ProjectPoints(d.ControlPoints(), srcLoc, origMesh); pts != nil {
		master.SetControlPoints(pts)
	}

	other := surface.Pial
	if v == surface.Pial {
		other = surface.Inflated
	}
	otherMesh := l.locators.Mesh(other)
	if otherMesh.IsEmpty() {
		return
	}
	if pts := surface.ProjectPoints(d.ControlPoints(), srcLoc, otherMesh); pts != nil {
		if od := l.derivedPoints(master, other); od != nil {
			od.SetControlPoints(pts)
		}
	}
}

// onMasterLockModified applies the master's lock state to its derived
// markers so a locked curve cannot be moved through a variant view.
func (l *Logic) onMasterLockModified(m *markers.Marker) {
	if l.updatingFromMaster || isDerived(m) {
		return
	}
	wasUpdating := l.updatingFromMaster
	l.updatingFromMaster = true
	defer func() { l.updatingFromMaster = wasUpdating }()

	for _, v := range []surface.Variant{surface.Pial, surface.Inflated} {
		if d := m.Reference(derivedRef(v)); d != nil {
			d.SetLocked(m.Locked())
		}
	}
}

// onMasterDisplayModified copies the master's display attributes to its
// derived markers.
func (l *Logic) onMasterDisplayModified(m *markers.Marker) {
	if l.updatingFromMaster || isDerived(m) {
		return
	}
	wasUpdating := l.updatingFromMaster
	l.updatingFromMaster = true
	defer func() { l.updatingFromMaster = wasUpdating }()

	for _, v := range []surface.Variant{surface.Pial, surface.Inflated} {
		if d := m.Reference(derivedRef(v)); d != nil {
			d.SetDisplayAttributes(m.DisplayAttributes())
		}
	}
}
