// Package outdsl implements the Out expression language of Search & Change
// rules: a small pure s-expression language that computes an output feature
// bundle from the two bound input bundles INR and TRM.
//
// The AST is a sealed variant; Parse builds it and Eval interprets it. The
// same evaluator is used by the reference evaluator and the transducer
// builder so the two cannot disagree about Out semantics.
package outdsl
