// Package vector defines the coordinate vector contract consumed by the
// compact engine, together with a dense float64 implementation.
//
// Compacts only talk to vectors through the Vector interface; the Dense type
// is the implementation the rest of gridbox uses.
package vector
