// Package filter removes attribute constructs from textual dumps of
// hierarchical scientific data files (h5dump and ncdump output) so that
// expected and actual dumps compare equal across environments.
//
// Two constructs are recognised for each configured attribute name:
//
//   - a block, opened by a line like `   ATTRIBUTE "_FillValue" {` and closed
//     by the first later line that is exactly the opener's indentation
//     followed by `}`;
//   - an inline assignment, a single line like `var:_FillValue = 0s ;`.
//
// Everything else passes through unchanged and in order. The package is
// pure: [Filter.Apply] takes lines and returns lines, and the caller owns
// all I/O.
//
// Attribute sets and lookahead windows are bundled into named profiles
// (see [ResolveProfile]); the built-in "classic" and "extended" profiles
// reproduce the two historical filter scripts.
package filter
