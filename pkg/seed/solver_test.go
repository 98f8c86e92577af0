package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/surface"
)

type fixture struct {
	store  *markers.Store
	solver *Solver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		store:  markers.NewStore(),
		solver: NewSolver(nil, nil),
	}
}

func (f *fixture) marker(t *testing.T, name string, typ markers.Type, pts ...v3.Vec) *markers.Marker {
	t.Helper()
	m, err := f.store.Create(name, typ)
	require.NoError(t, err)
	for _, p := range pts {
		m.AddControlPoint(p)
	}
	return m
}

func (f *fixture) seed(t *testing.T, name string, pts ...v3.Vec) *markers.Marker {
	t.Helper()
	m := f.marker(t, name, markers.TypePoints, pts...)
	if len(pts) > 0 {
		// Pre-placed points would otherwise trip the legacy-scene rule.
		f.solver.ResetManual(m)
	}
	return m
}

// Initialization averages per-constraint centroids, not raw points: a
// two-point curve contributes the same weight as a single-point one.
func TestInitializeSeedTwoLevelCentroid(t *testing.T) {
	f := newFixture(t)
	a := f.marker(t, "A", markers.TypeCurve, v3.Vec{}, v3.Vec{X: 2})
	b := f.marker(t, "B", markers.TypeCurve, v3.Vec{Z: 10})
	s := f.seed(t, "P_SeedPoints")

	f.solver.AddConstraint(s, a, AnteriorOf)
	f.solver.AddConstraint(s, b, InferiorOf)
	f.solver.UpdateSeed(s)

	require.Equal(t, 1, s.NumberOfControlPoints())
	assert.Equal(t, v3.Vec{X: 0.5, Z: 5}, s.ControlPoint(0))
}

// Targets without points still count in the constraint average, pulling
// the initial position toward the origin until they are drawn.
func TestInitializeSeedCountsEmptyTargets(t *testing.T) {
	f := newFixture(t)
	a := f.marker(t, "A", markers.TypeCurve, v3.Vec{X: 2})
	b := f.marker(t, "B", markers.TypeCurve)
	s := f.seed(t, "P_SeedPoints")

	f.solver.AddConstraint(s, a, AnteriorOf)
	f.solver.AddConstraint(s, b, AnteriorOf)
	f.solver.UpdateSeed(s)

	require.Equal(t, 1, s.NumberOfControlPoints())
	assert.Equal(t, v3.Vec{X: 1}, s.ControlPoint(0))
}

func TestNoConstraintsNoPlacement(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t, "P_SeedPoints")
	f.solver.UpdateSeed(s)
	assert.Zero(t, s.NumberOfControlPoints())
}

// A violated directional constraint mirrors the offending coordinate
// across the reference; a satisfied one leaves the point alone.
func TestAnteriorCorrection(t *testing.T) {
	f := newFixture(t)
	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{Y: 3})

	violated := f.seed(t, "Behind", v3.Vec{Y: 1})
	f.solver.AddConstraint(violated, curve, AnteriorOf)
	f.solver.UpdateSeed(violated)
	assert.Equal(t, v3.Vec{Y: 5}, violated.ControlPoint(0))

	satisfied := f.seed(t, "Ahead", v3.Vec{Y: 5})
	f.solver.AddConstraint(satisfied, curve, AnteriorOf)
	f.solver.UpdateSeed(satisfied)
	assert.Equal(t, v3.Vec{Y: 5}, satisfied.ControlPoint(0))
}

// Medial/lateral compare |x| so the rule works in both hemispheres.
func TestMedialLateralUseMagnitude(t *testing.T) {
	f := newFixture(t)
	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{X: 8})

	medial := f.seed(t, "TooLateral", v3.Vec{X: 10})
	f.solver.AddConstraint(medial, curve, MedialOf)
	f.solver.UpdateSeed(medial)
	assert.Equal(t, v3.Vec{X: 6}, medial.ControlPoint(0))

	lateral := f.seed(t, "TooMedial", v3.Vec{X: 5})
	f.solver.AddConstraint(lateral, curve, LateralOf)
	f.solver.UpdateSeed(lateral)
	assert.Equal(t, v3.Vec{X: 11}, lateral.ControlPoint(0))
}

func TestLateralCorrectionLeftHemisphere(t *testing.T) {
	f := newFixture(t)
	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{X: -8})
	s := f.seed(t, "TooMedial", v3.Vec{X: -5})

	f.solver.AddConstraint(s, curve, LateralOf)
	f.solver.UpdateSeed(s)
	assert.Equal(t, v3.Vec{X: -11}, s.ControlPoint(0))
}

// Plane targets use the closest point on the plane as reference.
func TestPlaneConstraint(t *testing.T) {
	f := newFixture(t)
	plane := f.marker(t, "Axial", markers.TypePlane,
		v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1})
	s := f.seed(t, "Above", v3.Vec{X: 1, Y: 2, Z: -3})

	f.solver.AddConstraint(s, plane, SuperiorOf)
	f.solver.UpdateSeed(s)
	assert.Equal(t, v3.Vec{X: 1, Y: 2, Z: 3}, s.ControlPoint(0))
}

func TestConstraintSkipsEmptyTarget(t *testing.T) {
	f := newFixture(t)
	empty := f.marker(t, "Empty", markers.TypeCurve)
	s := f.seed(t, "P", v3.Vec{Y: 1})

	f.solver.AddConstraint(s, empty, AnteriorOf)
	f.solver.UpdateSeed(s)
	assert.Equal(t, v3.Vec{Y: 1}, s.ControlPoint(0))
}

// A manually placed seed is frozen until its flag is reset.
func TestManualSeedFrozen(t *testing.T) {
	f := newFixture(t)
	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{Y: 3})
	s := f.seed(t, "P", v3.Vec{Y: 1})
	f.solver.AddConstraint(s, curve, AnteriorOf)

	f.solver.MarkManual(s)
	f.solver.UpdateSeed(s)
	assert.Equal(t, v3.Vec{Y: 1}, s.ControlPoint(0), "manual seed must not move")

	f.solver.ResetManual(s)
	f.solver.UpdateSeed(s)
	assert.Equal(t, v3.Vec{Y: 5}, s.ControlPoint(0), "reset seed derives again")
}

// Seeds from scenes predating the manual flag (points but no flag) are
// treated as hand-placed and left alone.
func TestLegacySeedWithPointsSkipped(t *testing.T) {
	f := newFixture(t)
	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{Y: 3})
	s := f.marker(t, "P", markers.TypePoints, v3.Vec{Y: 1}) // no flag set

	f.solver.AddConstraint(s, curve, AnteriorOf)
	f.solver.UpdateSeed(s)
	assert.Equal(t, v3.Vec{Y: 1}, s.ControlPoint(0))
}

// Once the solver has derived a seed it owns the placement: moving a
// constraint target re-derives the seed on the next update.
func TestDerivedSeedStaysDerivable(t *testing.T) {
	f := newFixture(t)
	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{Y: 3})
	s := f.seed(t, "P")
	f.solver.AddConstraint(s, curve, AnteriorOf)

	f.solver.UpdateSeed(s)
	require.Equal(t, 1, s.NumberOfControlPoints())
	assert.Equal(t, manualFalse, s.Attribute(markers.ManuallyPlacedAttribute))

	curve.SetControlPoint(0, v3.Vec{Y: 8})
	f.solver.UpdateSeedsForMarker(curve)
	// Mirrored across the new reference: y = 8 - (3 - 8).
	assert.Equal(t, v3.Vec{Y: 13}, s.ControlPoint(0))
}

func TestDependentSeeds(t *testing.T) {
	f := newFixture(t)
	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{Y: 3})
	s1 := f.seed(t, "P1")
	s2 := f.seed(t, "P2")

	f.solver.AddConstraint(s1, curve, AnteriorOf)
	f.solver.AddConstraint(s2, curve, PosteriorOf)
	// Adding the same constraint twice must not duplicate the edge.
	f.solver.AddConstraint(s1, curve, AnteriorOf)

	deps := f.solver.DependentSeeds(curve)
	require.Len(t, deps, 2)
	assert.Equal(t, []*markers.Marker{curve}, f.solver.ConstraintTargets(s1, AnteriorOf))
}

// Updating must be observable from inside the write events the solver
// emits, so event handlers can tell solver writes from user edits.
func TestUpdatingVisibleDuringWrites(t *testing.T) {
	f := newFixture(t)
	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{Y: 3})
	s := f.seed(t, "P")
	f.solver.AddConstraint(s, curve, AnteriorOf)

	var sawUpdating []bool
	f.store.Subscribe(func(m *markers.Marker, ev markers.Event) {
		if m == s {
			sawUpdating = append(sawUpdating, f.solver.Updating())
		}
	})

	f.solver.UpdateSeed(s)
	require.NotEmpty(t, sawUpdating)
	for i, u := range sawUpdating {
		assert.True(t, u, "event %d delivered with updating unset", i)
	}
	assert.False(t, f.solver.Updating())
}

func TestSnapToOrigSurface(t *testing.T) {
	f := newFixture(t)
	locators := surface.NewLocatorSet()
	locators.SetMesh(surface.Orig, &surface.Mesh{
		Vertices: []v3.Vec{{}, {Y: 5}},
	})
	f.solver = NewSolver(locators, nil)

	curve := f.marker(t, "C", markers.TypeCurve, v3.Vec{Y: 3})
	s := f.seed(t, "P")
	f.solver.AddConstraint(s, curve, AnteriorOf)
	f.solver.UpdateSeed(s)

	require.Equal(t, 1, s.NumberOfControlPoints())
	assert.Equal(t, v3.Vec{Y: 5}, s.ControlPoint(0), "seed must land on a mesh vertex")
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, ok := ParseRole(r.String())
		require.True(t, ok, r.String())
		assert.Equal(t, r, got)
	}
	_, ok := ParseRole("beside_of")
	assert.False(t, ok)
}

func TestSearchDirectionFollowsHemisphere(t *testing.T) {
	right := v3.Vec{X: 5}
	left := v3.Vec{X: -5}

	assert.Equal(t, v3.Vec{X: -1}, LateralOf.SearchDirection(right))
	assert.Equal(t, v3.Vec{X: 1}, LateralOf.SearchDirection(left))
	assert.Equal(t, v3.Vec{X: 1}, MedialOf.SearchDirection(right))
	assert.Equal(t, v3.Vec{X: -1}, MedialOf.SearchDirection(left))
	assert.Equal(t, v3.Vec{Y: -1}, AnteriorOf.SearchDirection(right))
	assert.Equal(t, v3.Vec{Z: 1}, InferiorOf.SearchDirection(right))
}
