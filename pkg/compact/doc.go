// Package compact implements axis-aligned compact regions of n-dimensional
// space: closed boxes (Rect) and composites built by folding boolean set
// operations over boxes and other composites (Compact).
//
// Every region a caller manipulates is a *Compact; a box is simply a
// Compact with one term. Lattice points inside a region are enumerated with
// an Iterator issued by the Compact, which tracks and owns it until it is
// released.
package compact
