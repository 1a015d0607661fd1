// Package cli defines the Cobra command tree for the stubtree CLI. Each file
// in this package registers one top-level command (apply, plan, validate,
// layouts, config, version) with the root command. Commands resolve their
// inputs and settings here and delegate the filesystem work to the scaffold
// package.
package cli
