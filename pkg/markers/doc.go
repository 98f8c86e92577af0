// Package markers implements the named-marker store and the surface
// registry. Markers are the geometric inputs of a parcellation: curves,
// closed curves and planes placed on a brain surface, plus single-point
// seed markers. The store owns marker identity and emits change events;
// the registry layers name-based deduplication and per-type display
// defaults on top of it.
package markers
