// Package parcellation ties the query interpreter, the relative seed
// solver and the boundary-cut plumbing together behind a single Logic
// value, and owns the event wiring between them: marker edits re-derive
// dependent seeds, curve edits are mirrored onto sibling surface
// variants, and lock and display state propagate to derived markers.
// Everything runs on one logical thread; cascading updates are fenced
// with scoped reentrancy guards and store-level batch regions.
package parcellation
