package boundarycut

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/surface"
)

// Solver is the external boundary-cut collaborator. Solve computes the
// parcel patch for a fully specified job.
type Solver interface {
	Solve(job *Job) (*surface.Mesh, error)
}

// IncompleteInputError reports a job whose border markers are missing
// control points. Non-fatal: the job is skipped and its output cleared.
type IncompleteInputError struct {
	Job    string
	Marker string
}

func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("boundarycut: job %q skipped: border marker %q has no points", e.Job, e.Marker)
}

// MissingCollaboratorError reports an absent required external node.
type MissingCollaboratorError struct {
	Job  string
	What string
}

func (e *MissingCollaboratorError) Error() string {
	return fmt.Sprintf("boundarycut: job %q: missing %s", e.Job, e.What)
}

// SolveError wraps a failure from the external solver.
type SolveError struct {
	Job string
	Err error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("boundarycut: job %q: %v", e.Job, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }

// Runner executes boundary-cut jobs against the external solver. Before
// solving it re-derives the job's seed through the injected hook, so an
// explicit "run tool" request always sees an up-to-date seed.
type Runner struct {
	solver     Solver
	updateSeed func(*markers.Marker)
	log        *zap.Logger
}

// NewRunner creates a runner. updateSeed may be nil when no relative
// seed solving is wired in.
func NewRunner(solver Solver, updateSeed func(*markers.Marker), log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{solver: solver, updateSeed: updateSeed, log: log}
}

// Run executes one job. Policy: when any border marker has zero control
// points the solve is skipped and the previous output mesh is cleared
// rather than solving against incomplete input; the returned
// IncompleteInputError is advisory, not fatal.
func (r *Runner) Run(job *Job) error {
	if job == nil {
		return &MissingCollaboratorError{What: "job"}
	}
	if r.updateSeed != nil && job.Seed != nil {
		r.updateSeed(job.Seed)
	}
	if job.Output == nil {
		return &MissingCollaboratorError{Job: job.Name, What: "output model"}
	}

	for _, border := range job.Borders {
		if border.NumberOfControlPoints() == 0 {
			if job.Output.Mesh != nil {
				job.Output.Mesh.Clear()
			}
			r.log.Warn("boundary-cut job skipped, incomplete input",
				zap.String("job", job.Name),
				zap.String("marker", border.Name()))
			return &IncompleteInputError{Job: job.Name, Marker: border.Name()}
		}
	}

	if r.solver == nil {
		return &MissingCollaboratorError{Job: job.Name, What: "solver"}
	}
	mesh, err := r.solver.Solve(job)
	if err != nil {
		return &SolveError{Job: job.Name, Err: err}
	}
	job.Output.Mesh = mesh
	return nil
}
