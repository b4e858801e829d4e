// Package analysis derives the grammar-visible feature set V and the
// Out-visible terminator set P from a rule. These two sets control the
// entire state/arc blow-up of the compiled transducer, so the analysis is
// deliberately conservative: P may over-approximate, never under.
package analysis
