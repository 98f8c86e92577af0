// Package query parses and executes the parcellation query language: a
// small statement language that declares input markers (curves, closed
// curves, planes) and binds parcel names to the markers forming their
// borders. Executing a script produces marker declarations through the
// registry and one boundary-cut job per parcel.
package query
