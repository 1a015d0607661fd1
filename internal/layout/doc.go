// Package layout loads and validates stubtree layouts: YAML documents that
// name a versioned list of paths to materialize. Layouts are checked against
// an embedded JSON Schema, their format version is matched against the
// supported semver range, and every path is checked with the pathspec rules.
// A small catalog of built-in layouts is embedded in the binary.
package layout
