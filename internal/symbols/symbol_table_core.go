package symbols

import (
	"fmt"
	"sync"

	"github.com/funvibe/typeinfer/internal/typesystem"
)

type ScopeType int

const (
	ScopePrelude ScopeType = iota // Built-in types
	ScopeGlobal                   // Types declared by a scenario
)

// SymbolTable maps type names to definitions. Lookups fall through to the
// outer table, so every table sees the prelude.
//
// Definitions must not change once inference starts; the interface cache
// is the only state mutated afterwards and is guarded by mu.
type SymbolTable struct {
	defs      map[string]*typesystem.Definition
	order     []*typesystem.Definition
	outer     *SymbolTable
	scopeType ScopeType

	mu         sync.RWMutex
	interfaces map[string][]typesystem.Type
}

func NewEmptySymbolTable() *SymbolTable {
	return &SymbolTable{
		defs:       make(map[string]*typesystem.Definition),
		scopeType:  ScopeGlobal,
		interfaces: make(map[string][]typesystem.Type),
	}
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

// IsPrelude returns true for the shared table of built-in types.
func (s *SymbolTable) IsPrelude() bool {
	return s.scopeType == ScopePrelude
}

// DefinitionNotFoundError indicates a type name could not be resolved
type DefinitionNotFoundError struct {
	Name  string
	Arity int
}

func (e *DefinitionNotFoundError) Error() string {
	if e.Arity > 0 {
		return fmt.Sprintf("type not found: %s with %d type parameter(s)", e.Name, e.Arity)
	}
	return fmt.Sprintf("type not found: %s", e.Name)
}

func NewDefinitionNotFoundError(name string, arity int) *DefinitionNotFoundError {
	return &DefinitionNotFoundError{Name: name, Arity: arity}
}

// DuplicateDefinitionError indicates a name and arity were declared twice
type DuplicateDefinitionError struct {
	Key string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("type already defined: %s", e.Key)
}
