// Package textutil provides text normalization shared by every parsing layer.
//
// The primary use cases are:
//   - Collapsing the irregular whitespace found in steno markup fragments
//   - Deriving stable speaker keys from steno display labels
//   - Sanitizing speaker names for safe filesystem use
//
// The normalization rules encode observed site behavior (non-breaking spaces,
// stray leading colons left behind by extracted anchors) and should not be
// tightened without fixture coverage.
package textutil
