// Package surface holds the triangle-mesh representation of a brain
// surface and the nearest-point lookup used to keep markers on it.
// A subject typically carries several variants of the same surface
// (orig, pial, inflated) with identical vertex ids, which makes
// projecting points between variants an id lookup.
package surface
