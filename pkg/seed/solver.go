package seed

import (
	"math"

	"go.uber.org/zap"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/surface"
)

// Reference roles used for symmetric constraint bookkeeping: the seed
// records its targets under "Relative.<role>", the target records the
// seed back under "Relative" so dependent seeds can be found when it
// moves.
const (
	relativeRef       = "Relative"
	relativeRefPrefix = relativeRef + "."
)

// Manual-flag attribute values.
const (
	manualTrue  = "TRUE"
	manualFalse = "FALSE"
)

// Solver positions parcel seeds from their relative constraints and
// snaps them onto the orig surface.
type Solver struct {
	locators *surface.LocatorSet
	log      *zap.Logger

	// updating guards against a programmatic seed write being taken for
	// a user edit by the manual-flag event handler.
	updating bool
}

// NewSolver creates a solver snapping against the given locator set.
func NewSolver(locators *surface.LocatorSet, log *zap.Logger) *Solver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Solver{locators: locators, log: log}
}

// Updating reports whether the solver is currently writing seed points.
// The host's marker event handlers must not flip seeds to manual while
// this is true.
func (s *Solver) Updating() bool { return s.updating }

func roleRef(r Role) string { return relativeRefPrefix + r.String() }

// AddConstraint records "seed lies <role> relative to target". Both ends
// keep a typed reference so that edits to the target re-derive the seed.
// Constraints are never removed automatically.
func (s *Solver) AddConstraint(seed, target *markers.Marker, role Role) {
	seed.AddReference(roleRef(role), target)
	target.AddReference(relativeRef, seed)
}

// ConstraintTargets returns the markers the seed references under role,
// in recorded order.
func (s *Solver) ConstraintTargets(seed *markers.Marker, role Role) []*markers.Marker {
	return seed.References(roleRef(role))
}

// DependentSeeds returns the seeds that reference the marker in any role.
func (s *Solver) DependentSeeds(target *markers.Marker) []*markers.Marker {
	return target.References(relativeRef)
}

// UpdateSeedsForMarker re-derives every seed constrained against the
// given marker. Called when the marker's points change.
func (s *Solver) UpdateSeedsForMarker(target *markers.Marker) {
	for _, seed := range s.DependentSeeds(target) {
		s.UpdateSeed(seed)
	}
}

// MarkManual flags the seed as user-positioned; it will not be
// re-derived until the flag is reset.
func (s *Solver) MarkManual(seed *markers.Marker) {
	seed.SetAttribute(markers.ManuallyPlacedAttribute, manualTrue)
}

// ResetManual clears the manual flag, re-enabling derivation. Called when
// the user removes the seed's last control point.
func (s *Solver) ResetManual(seed *markers.Marker) {
	seed.SetAttribute(markers.ManuallyPlacedAttribute, manualFalse)
}

// UpdateSeed derives the seed's position from its constraints: centroid
// initialization when the seed has no point yet, one single-axis
// correction per constraint in fixed role order, then a snap onto the
// orig surface. Manually placed seeds are left alone, as are seeds from
// scenes that predate the manual flag (unset flag with existing points).
func (s *Solver) UpdateSeed(seed *markers.Marker) {
	if seed == nil {
		return
	}
	switch seed.Attribute(markers.ManuallyPlacedAttribute) {
	case manualTrue:
		return
	case "":
		if seed.NumberOfControlPoints() != 0 {
			return
		}
	}

	wasUpdating := s.updating
	s.updating = true
	defer func() { s.updating = wasUpdating }()

	// The solver owns placement from here on; stamp the flag so a derived
	// seed is not mistaken for a legacy hand-placed one on later updates.
	seed.SetAttribute(markers.ManuallyPlacedAttribute, manualFalse)

	if seed.NumberOfControlPoints() == 0 {
		s.initializeSeed(seed)
	}
	for _, role := range Roles {
		for _, target := range seed.References(roleRef(role)) {
			s.applyConstraint(seed, target, role)
		}
	}
	s.snapToSurface(seed)
}

// initializeSeed places the first control point at the two-level
// equal-weight centroid of the constraint targets: the mean of each
// target's point centroid, weighted per constraint rather than per
// point.
func (s *Solver) initializeSeed(seed *markers.Marker) {
	var targets []*markers.Marker
	for _, role := range Roles {
		targets = append(targets, seed.References(roleRef(role))...)
	}
	if len(targets) == 0 {
		return
	}

	invTargets := 1.0 / float64(len(targets))
	point := v3.Vec{}
	for _, target := range targets {
		n := target.NumberOfControlPoints()
		if n == 0 {
			continue
		}
		invPoints := 1.0 / float64(n)
		centroid := v3.Vec{}
		for i := 0; i < n; i++ {
			centroid = centroid.Add(target.ControlPoint(i).MulScalar(invPoints))
		}
		point = point.Add(centroid.MulScalar(invTargets))
	}
	seed.AddControlPoint(point)
}

// applyConstraint corrects at most one coordinate of each seed point so
// the seed ends up on the role's side of the reference point. Targets
// with no points are skipped; the constraint stays recorded and applies
// once the target is drawn.
func (s *Solver) applyConstraint(seed, target *markers.Marker, role Role) {
	if target.NumberOfControlPoints() == 0 {
		s.log.Debug("constraint target has no points, skipping",
			zap.String("seed", seed.Name()),
			zap.String("target", target.Name()),
			zap.Stringer("role", role))
		return
	}
	if seed.NumberOfControlPoints() == 0 {
		s.initializeSeed(seed)
	}

	for i := 0; i < seed.NumberOfControlPoints(); i++ {
		seedPoint := seed.ControlPoint(i)

		var refPoint v3.Vec
		switch target.Kind() {
		case markers.TypePlane:
			origin, normal, ok := surface.PlaneFromPoints(target.ControlPoints())
			if !ok {
				continue
			}
			refPoint = surface.ClosestPointOnPlane(origin, normal, seedPoint)
		default:
			p, ok := surface.ClosestPolylinePointAlongRay(
				target.ControlPoints(), seedPoint, role.SearchDirection(seedPoint))
			if !ok {
				continue
			}
			refPoint = p
		}

		diff := seedPoint.Sub(refPoint)
		axis := -1
		switch role {
		case LateralOf:
			if math.Abs(seedPoint.X) < math.Abs(refPoint.X) {
				axis = 0
			}
		case MedialOf:
			if math.Abs(seedPoint.X) > math.Abs(refPoint.X) {
				axis = 0
			}
		case AnteriorOf:
			if diff.Y < 0 {
				axis = 1
			}
		case PosteriorOf:
			if diff.Y > 0 {
				axis = 1
			}
		case SuperiorOf:
			if diff.Z < 0 {
				axis = 2
			}
		case InferiorOf:
			if diff.Z > 0 {
				axis = 2
			}
		}
		if axis < 0 {
			continue
		}

		// Mirror the offending coordinate across the reference point,
		// leaving the other two untouched.
		switch axis {
		case 0:
			seedPoint.X = refPoint.X - diff.X
		case 1:
			seedPoint.Y = refPoint.Y - diff.Y
		case 2:
			seedPoint.Z = refPoint.Z - diff.Z
		}
		seed.SetControlPoint(i, seedPoint)
	}
}

// snapToSurface replaces every seed point with the nearest vertex of the
// orig surface, so seeds always lie on the mesh.
func (s *Solver) snapToSurface(seed *markers.Marker) {
	if s.locators == nil {
		return
	}
	locator := s.locators.Locator(surface.Orig)
	if locator == nil {
		return
	}
	for i := 0; i < seed.NumberOfControlPoints(); i++ {
		seed.SetControlPoint(i, locator.NearestPoint(seed.ControlPoint(i)))
	}
}
