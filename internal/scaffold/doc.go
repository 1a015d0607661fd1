// Package scaffold materializes a pathspec.PathSpec on a filesystem: for
// every path it creates the missing parent directories and an empty file,
// leaving files that already exist untouched. It powers "stubtree apply".
//
// Three modes are supported. Direct mode processes paths one at a time and
// stops at the first failure, leaving earlier paths in place. Staged mode
// checks every path first, builds the new files in a staging directory, and
// moves them into place, removing anything it created if the move fails.
// Dry-run mode only checks and reports.
package scaffold
