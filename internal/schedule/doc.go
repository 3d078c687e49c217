// Package schedule keeps the derived schedule dates of root projects and
// subprojects consistent with their children.
//
// A node's available and start dates are the earliest over its children; its
// end date is the latest over its children, defined only once every child has
// one. Two entry points maintain that rule:
//
//   - Propagator walks from one changed node up to its root after a single
//     mutation, classifying each child-side change so that tightening
//     changes cost no sibling reads and only changes that may loosen an
//     aggregate trigger a rescan of the level.
//   - Recalculator recomputes every node of an organization bottom-up in
//     bounded batches, for backfills and repairs.
package schedule
