package query

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nbrainlab/parcellate/pkg/boundarycut"
	"github.com/nbrainlab/parcellate/pkg/markers"
)

// Name suffixes for the nodes a parcel statement derives from its target.
const (
	SeedSuffix = "_SeedPoints"
	JobSuffix  = "_BoundaryCut"
)

// Special assignment targets recognized by the interpreter.
const (
	targetPlanes       = "_Planes"
	targetCurves       = "_Curves"
	targetClosedCurves = "_ClosedCurves"
	targetWeighting    = "_DistanceWeightingFunction"
)

// Binding associates one parcel name with its border markers, interior
// seed and boundary-cut job.
type Binding struct {
	Parcel  string
	Borders []*markers.Marker
	Seed    *markers.Marker
	Job     *boundarycut.Job
	Output  *boundarycut.OutputModel
}

// Result bundles the output of one interpreter run. A failed run keeps
// the bindings committed before the error; statements are not rolled
// back.
type Result struct {
	Success  bool
	Errors   []EvalError
	Inputs   []*markers.Marker
	Bindings []*Binding
}

// ErrorMessage aggregates all run errors into a single message for the
// caller, one line each.
func (r *Result) ErrorMessage() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Interpreter executes query scripts against a marker registry and a
// boundary-cut job set. Re-running a script is idempotent with respect to
// existing markers, seeds and jobs: nodes are resolved by name and
// reconfigured, never duplicated.
type Interpreter struct {
	registry *markers.Registry
	jobs     *boundarycut.Set
	log      *zap.Logger
}

// NewInterpreter creates an interpreter over the given registry and job set.
func NewInterpreter(registry *markers.Registry, jobs *boundarycut.Set, log *zap.Logger) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpreter{registry: registry, jobs: jobs, log: log}
}

// Run parses and executes a query script. Statements run in textual
// order; the first evaluation error aborts the run, leaving earlier
// statements applied. The weighting-function state starts empty on every
// run and is threaded through statement evaluation in order.
func (it *Interpreter) Run(source string) *Result {
	res := &Result{}

	script, err := Parse(source)
	if err != nil {
		if ee, ok := err.(EvalError); ok {
			res.Errors = append(res.Errors, ee)
		} else {
			res.Errors = append(res.Errors, EvalError{Kind: KindParse, Message: err.Error()})
		}
		it.log.Error("query parse failed", zap.Error(err))
		return res
	}

	it.registry.SetDistanceWeightingFunction("")
	bindingIndex := make(map[string]int)

	for _, stmt := range script.Stmts {
		if ee := it.execStmt(stmt, res, bindingIndex); ee != nil {
			res.Errors = append(res.Errors, *ee)
			it.log.Error("query run aborted",
				zap.Int("line", ee.Line),
				zap.String("reason", ee.Message))
			return res
		}
	}
	res.Success = true
	return res
}

func (it *Interpreter) execStmt(stmt Stmt, res *Result, bindingIndex map[string]int) *EvalError {
	switch stmt.Target {
	case targetPlanes:
		return it.declareInputs(stmt, markers.TypePlane, res)
	case targetCurves:
		return it.declareInputs(stmt, markers.TypeCurve, res)
	case targetClosedCurves:
		return it.declareInputs(stmt, markers.TypeClosedCurve, res)
	case targetWeighting:
		str, ok := stmt.Value.(StringExpr)
		if !ok {
			return &EvalError{Kind: KindUnsupported, Line: stmt.Line,
				Message: "expected string literal for " + targetWeighting}
		}
		it.registry.SetDistanceWeightingFunction(str.Value)
		return nil
	}
	return it.bindParcel(stmt, res, bindingIndex)
}

// declareInputs handles _Planes/_Curves/_ClosedCurves: every name in the
// list literal resolves to (or creates) a marker of the stated type and
// is registered as an input of this run.
func (it *Interpreter) declareInputs(stmt Stmt, typ markers.Type, res *Result) *EvalError {
	list, ok := stmt.Value.(ListExpr)
	if !ok {
		return &EvalError{Kind: KindUnsupported, Line: stmt.Line,
			Message: "expected list of marker names in " + stmt.Target}
	}
	for _, elem := range list.Elems {
		name, ok := elem.(NameExpr)
		if !ok {
			return &EvalError{Kind: KindUnsupported, Line: elem.Pos(),
				Message: "expected marker name in " + stmt.Target}
		}
		m := it.registry.GetOrCreate(name.Name, typ)
		if typ == markers.TypeCurve || typ == markers.TypeClosedCurve {
			// Curves fit to the surface even when the marker predates
			// this run with a different mode.
			d := m.DisplayAttributes()
			if !d.SurfaceSnap {
				d.SurfaceSnap = true
				m.SetDisplayAttributes(d)
			}
		}
		res.Inputs = append(res.Inputs, m)
	}
	return nil
}

// bindParcel handles `Parcel = A | B | ...`: the right-hand side must
// reduce to a list of existing markers, which become the parcel's border
// set. The seed and boundary-cut job are created or reused by name.
func (it *Interpreter) bindParcel(stmt Stmt, res *Result, bindingIndex map[string]int) *EvalError {
	borders, ee := it.evalMarkers(stmt.Value)
	if ee != nil {
		return ee
	}

	output := it.jobs.GetOrCreateOutput(stmt.Target)
	seed := it.registry.GetOrCreate(stmt.Target+SeedSuffix, markers.TypePoints)
	job := it.jobs.GetOrCreateJob(stmt.Target + JobSuffix)
	job.Configure(borders, seed, output)

	b := &Binding{
		Parcel:  stmt.Target,
		Borders: borders,
		Seed:    seed,
		Job:     job,
		Output:  output,
	}
	if i, dup := bindingIndex[stmt.Target]; dup {
		res.Bindings[i] = b
		return nil
	}
	bindingIndex[stmt.Target] = len(res.Bindings)
	res.Bindings = append(res.Bindings, b)
	return nil
}

// evalMarkers reduces a border expression to a flat marker list. A bare
// name is a singleton; '|' concatenates left and right. Anything else is
// unsupported.
func (it *Interpreter) evalMarkers(expr Expr) ([]*markers.Marker, *EvalError) {
	switch e := expr.(type) {
	case NameExpr:
		m := it.registry.Store().ResolveByName(e.Name)
		if m == nil {
			return nil, &EvalError{Kind: KindUnresolved, Line: e.Line,
				Message: "no marker named " + e.Name}
		}
		return []*markers.Marker{m}, nil
	case BarExpr:
		left, ee := it.evalMarkers(e.Left)
		if ee != nil {
			return nil, ee
		}
		right, ee := it.evalMarkers(e.Right)
		if ee != nil {
			return nil, ee
		}
		return append(left, right...), nil
	case CallExpr:
		return nil, &EvalError{Kind: KindUnsupported, Line: e.Line,
			Message: "function calls are not supported"}
	case UnaryExpr:
		return nil, &EvalError{Kind: KindUnsupported, Line: e.Line,
			Message: "unary operator not supported"}
	default:
		return nil, &EvalError{Kind: KindUnsupported, Line: expr.Pos(),
			Message: "expected marker name or '|' combination"}
	}
}
