package parcellation

import (
	"strconv"
	"strings"

	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/surface"
)

// Attributes carrying the configured surface cost function, read by the
// external curve-fitting collaborator.
const (
	SurfaceCostFunctionAttribute = "SurfaceCostFunction"
	SurfaceWeightingAttribute    = "SurfaceDistanceWeightingFunction"

	costFunctionDistance       = "distance"
	costFunctionInverseSquared = "inverseSquared"
)

// updateCurveCostFunctions configures the cost function of every input
// curve from its weighting expression. Scalar-range placeholders
// (sulcMin, sulcMax, curvMin, curvMax) are substituted from the orig
// surface overlays; without overlays or an expression the curve falls
// back to plain distance weighting.
func (l *Logic) updateCurveCostFunctions() {
	if l.result == nil {
		return
	}
	origMesh := l.locators.Mesh(surface.Orig)
	sulcMin, sulcMax, haveSulc := origMesh.OverlayRange("sulc")
	curvMin, curvMax, haveCurv := origMesh.OverlayRange("curv")

	for _, m := range l.result.Inputs {
		if m.Kind() != markers.TypeCurve && m.Kind() != markers.TypeClosedCurve {
			continue
		}
		expr := m.Attribute(markers.DistanceWeightingAttribute)
		if expr == "" || !haveSulc || !haveCurv {
			m.SetAttribute(SurfaceCostFunctionAttribute, costFunctionDistance)
			continue
		}
		expr = strings.ReplaceAll(expr, "sulcMin", formatScalar(sulcMin))
		expr = strings.ReplaceAll(expr, "sulcMax", formatScalar(sulcMax))
		expr = strings.ReplaceAll(expr, "curvMin", formatScalar(curvMin))
		expr = strings.ReplaceAll(expr, "curvMax", formatScalar(curvMax))
		m.SetAttribute(SurfaceCostFunctionAttribute, costFunctionInverseSquared)
		m.SetAttribute(SurfaceWeightingAttribute, expr)
	}
}

func formatScalar(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
