package parcellation

import (
	"go.uber.org/zap"

	"github.com/nbrainlab/parcellate/pkg/boundarycut"
	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/query"
	"github.com/nbrainlab/parcellate/pkg/seed"
	"github.com/nbrainlab/parcellate/pkg/surface"
)

// Logic is the host-facing facade of the parcellation core. It owns the
// marker store, the query interpreter, the relative seed solver and the
// boundary-cut runner, and reacts to marker change events.
type Logic struct {
	store    *markers.Store
	registry *markers.Registry
	jobs     *boundarycut.Set
	locators *surface.LocatorSet
	solver   *seed.Solver
	interp   *query.Interpreter
	runner   *boundarycut.Runner
	log      *zap.Logger

	result *query.Result // latest run; nil before the first LoadQuery
	seeds  map[*markers.Marker]bool

	// Reentrancy guards. Each handler that can be re-invoked by its own
	// writes checks the matching flag and no-ops while it is set.
	updatingFromMaster  bool
	updatingFromDerived bool
}

// New creates a Logic wired to the given external boundary-cut solver.
// cutSolver may be nil when only marker/seed management is needed.
func New(cutSolver boundarycut.Solver, log *zap.Logger) *Logic {
	if log == nil {
		log = zap.NewNop()
	}
	store := markers.NewStore()
	locators := surface.NewLocatorSet()
	registry := markers.NewRegistry(store, log)
	jobs := boundarycut.NewSet()
	solver := seed.NewSolver(locators, log)

	l := &Logic{
		store:    store,
		registry: registry,
		jobs:     jobs,
		locators: locators,
		solver:   solver,
		interp:   query.NewInterpreter(registry, jobs, log),
		log:      log,
		seeds:    make(map[*markers.Marker]bool),
	}
	l.runner = boundarycut.NewRunner(cutSolver, solver.UpdateSeed, log)
	store.Subscribe(l.onMarkerEvent)
	return l
}

// Store returns the marker store.
func (l *Logic) Store() *markers.Store { return l.store }

// Registry returns the marker registry.
func (l *Logic) Registry() *markers.Registry { return l.registry }

// Solver returns the relative seed solver.
func (l *Logic) Solver() *seed.Solver { return l.solver }

// Jobs returns the boundary-cut job set.
func (l *Logic) Jobs() *boundarycut.Set { return l.jobs }

// Result returns the latest query run result, or nil.
func (l *Logic) Result() *query.Result { return l.result }

// SetSurface installs a surface variant mesh. Installing the orig
// surface rewires every current job's input model and refreshes the
// curve cost functions against the new overlays.
func (l *Logic) SetSurface(v surface.Variant, m *surface.Mesh) {
	l.locators.SetMesh(v, m)
	if v != surface.Orig {
		return
	}
	if l.result != nil {
		for _, b := range l.result.Bindings {
			b.Job.InputMesh = m
		}
		l.updateCurveCostFunctions()
	}
}

// Surface returns the mesh installed for a variant, or nil.
func (l *Logic) Surface(v surface.Variant) *surface.Mesh {
	return l.locators.Mesh(v)
}

// LoadQuery interprets a query script, atomically replacing the previous
// run's input and binding references. Existing markers, seeds and jobs
// are reused by name. Newly bound seeds are derived immediately.
func (l *Logic) LoadQuery(source string) *query.Result {
	l.store.BeginBatch()
	defer l.store.EndBatch()

	res := l.interp.Run(source)
	l.result = res

	l.seeds = make(map[*markers.Marker]bool)
	origMesh := l.locators.Mesh(surface.Orig)
	for _, b := range res.Bindings {
		b.Job.InputMesh = origMesh
		l.seeds[b.Seed] = true
		l.solver.UpdateSeed(b.Seed)
	}
	l.updateCurveCostFunctions()

	if !res.Success {
		l.log.Error("query run failed", zap.String("errors", res.ErrorMessage()))
	}
	return res
}

// AddRelativeSeed records a directional constraint between a seed and a
// reference marker and re-derives the seed.
func (l *Logic) AddRelativeSeed(seedMarker, target *markers.Marker, role seed.Role) {
	if seedMarker == nil || target == nil {
		l.log.Error("AddRelativeSeed: nil marker")
		return
	}
	l.solver.AddConstraint(seedMarker, target, role)
	l.seeds[seedMarker] = true
	l.store.BeginBatch()
	l.solver.UpdateSeed(seedMarker)
	l.store.EndBatch()
}

// RunTool executes one boundary-cut job. IncompleteInputError is
// advisory; any other error is a real failure.
func (l *Logic) RunTool(job *boundarycut.Job) error {
	return l.runner.Run(job)
}

// RunAll executes the boundary-cut job of every current binding, and
// returns the first non-advisory error.
func (l *Logic) RunAll() error {
	if l.result == nil {
		return nil
	}
	var firstErr error
	for _, b := range l.result.Bindings {
		err := l.RunTool(b.Job)
		if err == nil {
			continue
		}
		if _, skipped := err.(*boundarycut.IncompleteInputError); skipped {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// onMarkerEvent is the single entry point for marker change
// notifications.
func (l *Logic) onMarkerEvent(m *markers.Marker, ev markers.Event) {
	if l.seeds[m] {
		l.onSeedEvent(m, ev)
		return
	}
	switch ev {
	case markers.EventPointAdded, markers.EventPointModified, markers.EventPointRemoved:
		l.onMasterMarkerModified(m)
		l.solver.UpdateSeedsForMarker(m)
	case markers.EventLockModified:
		l.onMasterLockModified(m)
	case markers.EventDisplayModified:
		l.onMasterDisplayModified(m)
	}
}

// onSeedEvent maintains the manually-placed tri-state: a point edit not
// caused by the solver freezes the seed; removing the last point resets
// it so derivation can resume.
func (l *Logic) onSeedEvent(m *markers.Marker, ev markers.Event) {
	switch ev {
	case markers.EventPointAdded, markers.EventPointModified:
		if l.solver.Updating() {
			return
		}
		l.solver.MarkManual(m)
	case markers.EventPointRemoved:
		if m.NumberOfControlPoints() != 0 {
			return
		}
		l.solver.ResetManual(m)
	}
}
