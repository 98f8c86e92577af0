package seed

import v3 "github.com/deadsy/sdfx/vec/v3"

// Role is the direction a seed lies in relative to a reference marker,
// in anatomical coordinates: +x lateral (sign follows the hemisphere),
// +y anterior, +z superior.
type Role int

const (
	AnteriorOf Role = iota
	PosteriorOf
	SuperiorOf
	InferiorOf
	MedialOf
	LateralOf
)

// Roles is the fixed iteration order constraints are applied in.
var Roles = [...]Role{
	AnteriorOf,
	PosteriorOf,
	SuperiorOf,
	InferiorOf,
	MedialOf,
	LateralOf,
}

func (r Role) String() string {
	switch r {
	case AnteriorOf:
		return "anterior_of"
	case PosteriorOf:
		return "posterior_of"
	case SuperiorOf:
		return "superior_of"
	case InferiorOf:
		return "inferior_of"
	case MedialOf:
		return "medial_of"
	case LateralOf:
		return "lateral_of"
	default:
		return "unknown"
	}
}

// ParseRole maps a role name to its Role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// Axis returns the coordinate axis the role constrains: 0 for
// medial/lateral, 1 for anterior/posterior, 2 for superior/inferior.
func (r Role) Axis() int {
	switch r {
	case MedialOf, LateralOf:
		return 0
	case AnteriorOf, PosteriorOf:
		return 1
	default:
		return 2
	}
}

// SearchDirection returns the axis-aligned ray direction used to find
// the reference point on the target marker: opposite to the direction
// the role implies, so a seed that must be lateral_of a curve searches
// medially for it. The lateral axis sign follows the seed's hemisphere.
func (r Role) SearchDirection(seedPoint v3.Vec) v3.Vec {
	lateral := v3.Vec{X: 1}
	if seedPoint.X < 0 {
		lateral.X = -1
	}
	switch r {
	case LateralOf:
		return lateral.Neg()
	case MedialOf:
		return lateral
	case AnteriorOf:
		return v3.Vec{Y: -1}
	case PosteriorOf:
		return v3.Vec{Y: 1}
	case SuperiorOf:
		return v3.Vec{Z: -1}
	case InferiorOf:
		return v3.Vec{Z: 1}
	default:
		return v3.Vec{}
	}
}
