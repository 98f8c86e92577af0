// Package boundarycut holds the solve-request plumbing between the query
// interpreter and the external boundary-cut solver. A Job describes one
// parcel solve: the border markers, the interior seed and the output
// model the resulting patch is written to. The solver itself is an
// external collaborator behind the Solver interface.
package boundarycut
