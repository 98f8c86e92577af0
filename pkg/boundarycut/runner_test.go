package boundarycut

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/surface"
)

// fakeSolver returns a fixed mesh or error and records calls.
type fakeSolver struct {
	mesh  *surface.Mesh
	err   error
	calls int
}

func (f *fakeSolver) Solve(job *Job) (*surface.Mesh, error) {
	f.calls++
	return f.mesh, f.err
}

func makeJob(t *testing.T, pointsPerBorder ...int) (*Job, *markers.Store) {
	t.Helper()
	store := markers.NewStore()
	job := &Job{Name: "P_BoundaryCut", Output: &OutputModel{Name: "P", Mesh: &surface.Mesh{}}}
	for i, n := range pointsPerBorder {
		m, err := store.Create(string(rune('A'+i)), markers.TypeCurve)
		if err != nil {
			t.Fatal(err)
		}
		for j := 0; j < n; j++ {
			m.AddControlPoint(v3.Vec{X: float64(j)})
		}
		job.Borders = append(job.Borders, m)
	}
	return job, store
}

func TestRunSolvesCompleteJob(t *testing.T) {
	job, _ := makeJob(t, 2, 3)
	result := &surface.Mesh{Vertices: []v3.Vec{{}}}
	solver := &fakeSolver{mesh: result}
	r := NewRunner(solver, nil, nil)

	if err := r.Run(job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if solver.calls != 1 {
		t.Errorf("solver called %d times, want 1", solver.calls)
	}
	if job.Output.Mesh != result {
		t.Error("output mesh not replaced with the solve result")
	}
}

// A border with no control points skips the solve and clears the previous
// output so a stale parcel patch never outlives its inputs.
func TestRunIncompleteInputClearsOutput(t *testing.T) {
	job, _ := makeJob(t, 2, 0)
	job.Output.Mesh.Vertices = []v3.Vec{{X: 1}} // stale patch from an earlier solve
	solver := &fakeSolver{mesh: &surface.Mesh{}}
	r := NewRunner(solver, nil, nil)

	err := r.Run(job)
	var incomplete *IncompleteInputError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error = %v, want IncompleteInputError", err)
	}
	if incomplete.Marker != "B" {
		t.Errorf("reported marker = %q, want B", incomplete.Marker)
	}
	if solver.calls != 0 {
		t.Error("solver ran against incomplete input")
	}
	if !job.Output.Mesh.IsEmpty() {
		t.Error("stale output mesh not cleared")
	}
}

func TestRunRefreshesSeedFirst(t *testing.T) {
	job, store := makeJob(t, 1)
	seed, _ := store.Create("P_SeedPoints", markers.TypePoints)
	job.Seed = seed

	var refreshed *markers.Marker
	r := NewRunner(&fakeSolver{mesh: &surface.Mesh{}}, func(m *markers.Marker) {
		refreshed = m
	}, nil)

	if err := r.Run(job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if refreshed != seed {
		t.Error("seed not re-derived before the solve")
	}
}

func TestRunWrapsSolverFailure(t *testing.T) {
	job, _ := makeJob(t, 1)
	cause := errors.New("no path between endpoints")
	r := NewRunner(&fakeSolver{err: cause}, nil, nil)

	err := r.Run(job)
	var solveErr *SolveError
	if !errors.As(err, &solveErr) {
		t.Fatalf("error = %v, want SolveError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("SolveError does not unwrap to the solver failure")
	}
}

func TestRunMissingCollaborators(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	var missing *MissingCollaboratorError
	if err := r.Run(nil); !errors.As(err, &missing) {
		t.Errorf("nil job error = %v, want MissingCollaboratorError", err)
	}

	job, _ := makeJob(t, 1)
	job.Output = nil
	if err := r.Run(job); !errors.As(err, &missing) || missing.What != "output model" {
		t.Errorf("missing output error = %v", err)
	}

	job, _ = makeJob(t, 1)
	if err := r.Run(job); !errors.As(err, &missing) || missing.What != "solver" {
		t.Errorf("missing solver error = %v", err)
	}
}

func TestConfigureForcesContinuousUpdateOff(t *testing.T) {
	job, store := makeJob(t, 1)
	job.ContinuousUpdate = true
	seed, _ := store.Create("S", markers.TypePoints)
	job.Configure(job.Borders, seed, job.Output)
	if job.ContinuousUpdate {
		t.Error("Configure left continuous update enabled")
	}
	if job.Seed != seed {
		t.Error("Configure did not install the seed")
	}
}

func TestSetReusesByName(t *testing.T) {
	s := NewSet()
	j1 := s.GetOrCreateJob("P_BoundaryCut")
	j2 := s.GetOrCreateJob("P_BoundaryCut")
	if j1 != j2 {
		t.Error("GetOrCreateJob duplicated a job")
	}
	o1 := s.GetOrCreateOutput("P")
	o2 := s.GetOrCreateOutput("P")
	if o1 != o2 {
		t.Error("GetOrCreateOutput duplicated an output")
	}
	if o1.Mesh == nil {
		t.Error("new output has no mesh")
	}
	if o1.Visible {
		t.Error("new output should start invisible")
	}
	if s.Job("missing") != nil || s.Output("missing") != nil {
		t.Error("lookup of unknown names should return nil")
	}
}
