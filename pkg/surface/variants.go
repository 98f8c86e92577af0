package surface

// Variant names one of the surface representations of a subject.
type Variant int

const (
	Orig Variant = iota // white-matter surface, the reference for snapping
	Pial
	Inflated
	numVariants
)

func (v Variant) String() string {
	switch v {
	case Orig:
		return "orig"
	case Pial:
		return "pial"
	case Inflated:
		return "inflated"
	default:
		return "unknown"
	}
}

// LocatorSet keeps one lazily built locator per surface variant. A
// locator is rebuilt only when the variant's mesh identity changes
// (pointer comparison, not content), matching how often surfaces are
// actually swapped in a session.
type LocatorSet struct {
	meshes   [numVariants]*Mesh
	locators [numVariants]*Locator
}

// NewLocatorSet creates an empty locator set.
func NewLocatorSet() *LocatorSet {
	return &LocatorSet{}
}

// SetMesh installs the mesh for a variant. The locator is not rebuilt
// until the next lookup.
func (ls *LocatorSet) SetMesh(v Variant, m *Mesh) {
	ls.meshes[v] = m
}

// Mesh returns the mesh installed for a variant, or nil.
func (ls *LocatorSet) Mesh(v Variant) *Mesh {
	return ls.meshes[v]
}

// Locator returns the locator for a variant, building it on first use or
// after the mesh identity changed. Returns nil when no mesh is installed.
func (ls *LocatorSet) Locator(v Variant) *Locator {
	m := ls.meshes[v]
	if m == nil {
		ls.locators[v] = nil
		return nil
	}
	if loc := ls.locators[v]; loc != nil && loc.Mesh() == m {
		return loc
	}
	loc := BuildLocator(m)
	ls.locators[v] = loc
	return loc
}
