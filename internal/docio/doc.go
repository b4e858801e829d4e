// Package docio loads and writes the documents the core trades in: rules
// documents (JSON, TOML, YAML, or CUE, by extension), alphabet feature
// tables (CSV/TSV), input word lists, and evaluation output documents.
//
// Symbol and feature names are NFC-normalised on load so that composed and
// decomposed spellings of the same IPA sequence compare equal.
package docio
