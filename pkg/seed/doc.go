// Package seed derives the interior seed point of a parcel from
// directional constraints against other markers ("the seed lies
// anterior_of curve X, lateral_of plane Y"). Seeds are re-derived
// whenever a referenced marker moves, unless the user has placed the
// seed by hand.
package seed
