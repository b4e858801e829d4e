// Package catalog records compiled transducer artifacts in a SQLite
// database: which rule was compiled, its V/P sizes, the state and arc
// counts, and where the AT&T and symbol-table files landed. The catalog is
// an audit surface for batch compiles; the compiler itself never reads it.
package catalog
