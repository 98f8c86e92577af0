package markers

import "go.uber.org/zap"

// Attribute names used by the parcellation core.
const (
	// DistanceWeightingAttribute holds the weighting-function expression
	// used to configure the surface cost function of curve markers.
	DistanceWeightingAttribute = "DistanceWeightingFunction"

	// ManuallyPlacedAttribute marks a seed marker as user-positioned.
	// Tri-state: "" (unset, legacy), "FALSE", "TRUE".
	ManuallyPlacedAttribute = "Parcellation.ManuallyPlaced"
)

// Default glyph scale for markers created through the registry. Markers
// placed through a query get larger handles than free-hand ones.
const registryGlyphScale = 4.0

// Registry resolves marker names to markers, creating them on first
// reference with per-type display defaults. Name is the sole identity
// key: a hit returns the existing marker regardless of the requested
// type. The interpreter threads the active distance-weighting function
// through the registry so that curve markers declared after a weighting
// directive pick it up.
type Registry struct {
	store     *Store
	weighting string
	log       *zap.Logger
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store *Store, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: store, log: log}
}

// Store returns the underlying marker store.
func (r *Registry) Store() *Store { return r.store }

// SetDistanceWeightingFunction sets the weighting-function expression
// applied to curve markers created by subsequent GetOrCreate calls.
func (r *Registry) SetDistanceWeightingFunction(expr string) {
	r.weighting = expr
}

// DistanceWeightingFunction returns the currently active expression.
func (r *Registry) DistanceWeightingFunction() string { return r.weighting }

// GetOrCreate resolves name to an existing marker or creates a new one of
// the given type. On a name hit the requested type is ignored; callers
// that need type consistency must check Kind themselves.
func (r *Registry) GetOrCreate(name string, typ Type) *Marker {
	if m := r.store.ResolveByName(name); m != nil {
		if m.Kind() != typ {
			r.log.Warn("marker type mismatch on name hit",
				zap.String("name", name),
				zap.Stringer("have", m.Kind()),
				zap.Stringer("want", typ))
		}
		r.applyWeighting(m)
		return m
	}

	m, err := r.store.Create(name, typ)
	if err != nil {
		// Unreachable: ResolveByName missed, so the name is free.
		panic(err)
	}

	d := m.DisplayAttributes()
	d.GlyphScale = registryGlyphScale
	switch typ {
	case TypeCurve, TypeClosedCurve:
		d.SurfaceSnap = true
	case TypePlane:
		d.InteractiveHandles = true
	}
	m.SetDisplayAttributes(d)

	r.applyWeighting(m)
	return m
}

func (r *Registry) applyWeighting(m *Marker) {
	if m.Kind() != TypeCurve && m.Kind() != TypeClosedCurve {
		return
	}
	m.SetAttribute(DistanceWeightingAttribute, r.weighting)
}
