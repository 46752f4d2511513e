// Package storage provides JSON-based persistence for program documents.
//
// Each degree program is written to its own file in the data directory as a
// single-key object mapping the program name to its course records, pretty-printed
// with two-space indentation. Documents are read back for listing, prerequisite
// checks and for comparing a fresh scrape with the previous one.
package storage
