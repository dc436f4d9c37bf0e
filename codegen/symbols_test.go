package codegen

import (
	"testing"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// TestResolveBuiltin_MaterializesOnce checks that a built-in variable's
// OpVariable is declared the first time it is referenced and reused
// (not redeclared) on every later reference.
func TestResolveBuiltin_MaterializesOnce(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	globals := NewGlobalTable(engine)

	first := globals.ResolveBuiltin(ast.BuiltinPosition)
	second := globals.ResolveBuiltin(ast.BuiltinPosition)
	if first.BaseID != second.BaseID {
		t.Fatalf("ResolveBuiltin materialized BuiltinPosition twice: got ids %d and %d", first.BaseID, second.BaseID)
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpVariable] != 1 {
		t.Errorf("expected exactly 1 OpVariable for gl_Position, got %d", counts[spirv.OpVariable])
	}
	if counts[spirv.OpDecorate] != 1 {
		t.Errorf("expected exactly 1 BuiltIn decoration, got %d OpDecorate", counts[spirv.OpDecorate])
	}
}

// TestResolveBuiltin_AddsToInterfaceVars checks that every stage built-in
// that participates in the interface (the common case) is appended to
// InterfaceVars on first materialization, and not duplicated on reuse.
func TestResolveBuiltin_AddsToInterfaceVars(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	globals := NewGlobalTable(engine)

	globals.ResolveBuiltin(ast.BuiltinPosition)
	globals.ResolveBuiltin(ast.BuiltinVertexIndex)
	globals.ResolveBuiltin(ast.BuiltinPosition)

	vars := globals.InterfaceVars()
	if len(vars) != 2 {
		t.Fatalf("expected 2 distinct interface vars, got %d: %v", len(vars), vars)
	}
}

// TestGlobalTable_ResolveSymbol_Undeclared checks that referencing a symbol
// nobody declared is treated as a programmer error, not a recoverable one:
// it panics rather than silently returning a zero value.
func TestGlobalTable_ResolveSymbol_Undeclared(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected ResolveSymbol to panic on an undeclared symbol")
		}
	}()
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	globals := NewGlobalTable(engine)
	globals.ResolveSymbol(ast.Symbol{ID: 999})
}

// TestLocalTable_FallsBackToGlobal checks scope nesting: a LocalTable
// resolves its own locals first, then falls back to the enclosing module
// scope for anything it doesn't shadow.
func TestLocalTable_FallsBackToGlobal(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	globals := NewGlobalTable(engine)

	const globalSym ast.SymbolID = 1
	globalData := InitLvalue(42, engine.Types.TypeID(ast.NewScalar(ast.BasicFloat)), spirv.StorageClassPrivate, ast.LayoutUnspecified)
	globals.Declare(globalSym, globalData)

	locals := NewLocalTable(globals)
	resolved := locals.ResolveSymbol(ast.Symbol{ID: globalSym})
	if resolved.BaseID != globalData.BaseID {
		t.Errorf("LocalTable did not fall back to global scope: got BaseID %d, want %d", resolved.BaseID, globalData.BaseID)
	}

	const localSym ast.SymbolID = 2
	localData := InitLvalue(43, engine.Types.TypeID(ast.NewScalar(ast.BasicFloat)), spirv.StorageClassFunction, ast.LayoutUnspecified)
	locals.Declare(localSym, localData)
	if got := locals.ResolveSymbol(ast.Symbol{ID: localSym}); got.BaseID != localData.BaseID {
		t.Errorf("LocalTable did not resolve its own local: got BaseID %d, want %d", got.BaseID, localData.BaseID)
	}
}

// TestGlobalTable_Function_Unknown checks the not-found path of the Scope
// contract Function(): ok is false and returned values are zero, not a
// panic (callers use this to distinguish functions from built-ins and
// constructors when lowering a call).
func TestGlobalTable_Function_Unknown(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	globals := NewGlobalTable(engine)

	_, _, _, ok := globals.Function(123)
	if ok {
		t.Fatalf("expected Function to report not-found for an undeclared symbol")
	}
}
