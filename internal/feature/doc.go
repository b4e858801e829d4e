// Package feature defines the ternary feature system that every other
// package builds on: the feature universe, partial feature bundles, and
// the alphabet that maps surface symbols to full bundles.
//
// All values here are immutable after construction. An Alphabet is built
// once per compilation unit and shared freely; the bundles and slices it
// hands to callers are shared, not copied, and must not be mutated.
package feature
