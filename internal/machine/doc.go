// Package machine builds the merged canonical transducer T_V for one rule:
// the witness-alphabet encoding, the compiled class predicates, the shared
// Out evaluator, the direct state/arc construction, and the AT&T emitter.
//
// Everything here is deterministic by construction. State numbering, arc
// order within a state, and symbol-table ids are functions of V_order and
// P_order alone; two runs produce byte-identical output.
package machine
