// Package hierodb implements persistent hierarchical objects backed by
// a single SQLite file. A caller opens a database (Open), names a
// table (DB.Table), and gets back a root *Handle that behaves as a
// mutable, nested dictionary or array: Get, Set, Delete, Has, Keys,
// Entries, Values, Length.
//
// Every composite value — a *Record or an *Array of arbitrary depth —
// is flattened into a set of leaf rows keyed by their path from the
// table root, so reading or writing any subtree only ever touches that
// subtree's rows. Paths and values are serialized with an
// order-preserving binary encoding (internal/pathcodec,
// internal/valuecodec) so that a subtree's rows always occupy a
// contiguous byte-key range (internal/rangekey), letting every
// operation compile down to a handful of prepared SQL statements
// (internal/sqlstore).
//
// A Set or Delete call made directly on a Handle is always a top-level
// write: it opens one transaction for itself and, for a composite
// value, every row its recursive descent writes. The transaction
// commits on success or rolls back whole on any error, including a
// cycle detected in the source Go value graph being written.
package hierodb
