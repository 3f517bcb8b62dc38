// symbols/symbol_table.go - Main symbol table entry point
//
// The symbol table is split into focused modules:
// - symbol_table_core.go: SymbolTable struct, scopes and lookup errors
// - symbol_table_init.go: Prelude initialization and built-in types
// - symbol_table_operations.go: Define, lookup and delegate construction
// - hierarchy.go: Base classes and implemented interfaces
// - conversions.go: Implicit conversion oracle used by type inference

// Package symbols holds the declared types a call site can mention and
// answers hierarchy and conversion questions about them.
package symbols
