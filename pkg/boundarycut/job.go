package boundarycut

import (
	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/surface"
)

// OutputModel is the named mesh a boundary-cut job writes its parcel
// patch into. The host owns the real scene node; this is the core's view
// of it.
type OutputModel struct {
	Name    string
	Mesh    *surface.Mesh
	Visible bool
}

// Job is a boundary-cut solve request: cut the patch of InputMesh that is
// enclosed by the border markers and contains the seed point.
type Job struct {
	Name      string
	Borders   []*markers.Marker
	Seed      *markers.Marker
	Output    *OutputModel
	InputMesh *surface.Mesh

	// ContinuousUpdate requests a re-solve on every input change. The
	// interpreter forces it off: recomputation is explicit.
	ContinuousUpdate bool
}

// Configure replaces the job's inputs and output. Called on every query
// run so that re-executing a script reconfigures instead of duplicating.
func (j *Job) Configure(borders []*markers.Marker, seed *markers.Marker, output *OutputModel) {
	j.Borders = append(j.Borders[:0], borders...)
	j.Seed = seed
	j.Output = output
	j.ContinuousUpdate = false
}

// Set is the collection of boundary-cut jobs and output models, keyed by
// name. Like markers, jobs persist for the life of the project and are
// reused by name when a script is re-run.
type Set struct {
	jobs    map[string]*Job
	outputs map[string]*OutputModel
}

// NewSet creates an empty job collection.
func NewSet() *Set {
	return &Set{
		jobs:    make(map[string]*Job),
		outputs: make(map[string]*OutputModel),
	}
}

// Job returns the named job, or nil.
func (s *Set) Job(name string) *Job { return s.jobs[name] }

// Output returns the named output model, or nil.
func (s *Set) Output(name string) *OutputModel { return s.outputs[name] }

// GetOrCreateJob resolves or creates a job by name.
func (s *Set) GetOrCreateJob(name string) *Job {
	if j, ok := s.jobs[name]; ok {
		return j
	}
	j := &Job{Name: name}
	s.jobs[name] = j
	return j
}

// GetOrCreateOutput resolves or creates an output model by name. New
// outputs start invisible; the host decides when to show a parcel.
func (s *Set) GetOrCreateOutput(name string) *OutputModel {
	if o, ok := s.outputs[name]; ok {
		return o
	}
	o := &OutputModel{Name: name, Mesh: &surface.Mesh{}}
	s.outputs[name] = o
	return o
}
