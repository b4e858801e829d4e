// Package evaluator applies Search & Change semantics directly to symbol
// strings, without materialising the transducer. It shares the predicate
// compiler and Out evaluator with the machine builder, and can cross-check
// its own trace against a compiled machine arc-by-arc.
package evaluator
