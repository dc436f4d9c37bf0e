package codegen

import (
	"fmt"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// builtInInfo pairs a built-in variable's SPIR-V BuiltIn decoration with
// the storage class and type its backing OpVariable needs.
type builtInInfo struct {
	builtIn      spirv.BuiltIn
	storage      spirv.StorageClass
	typ          *ast.Type
	interfaceVar bool // true for every stage-4+ built-in: added to OpEntryPoint's interface list
}

var builtInTable = map[ast.Builtin]builtInInfo{
	ast.BuiltinPosition:           {spirv.BuiltInPosition, spirv.StorageClassOutput, ast.NewVector(ast.BasicFloat, 4), true},
	ast.BuiltinPointSize:          {spirv.BuiltInPointSize, spirv.StorageClassOutput, ast.NewScalar(ast.BasicFloat), true},
	ast.BuiltinVertexIndex:        {spirv.BuiltInVertexIndex, spirv.StorageClassInput, ast.NewScalar(ast.BasicInt), true},
	ast.BuiltinInstanceIndex:      {spirv.BuiltInInstanceIndex, spirv.StorageClassInput, ast.NewScalar(ast.BasicInt), true},
	ast.BuiltinFragCoord:          {spirv.BuiltInFragCoord, spirv.StorageClassInput, ast.NewVector(ast.BasicFloat, 4), true},
	ast.BuiltinFrontFacing:        {spirv.BuiltInFrontFacing, spirv.StorageClassInput, ast.NewScalar(ast.BasicBool), true},
	ast.BuiltinFragDepth:          {spirv.BuiltInFragDepth, spirv.StorageClassOutput, ast.NewScalar(ast.BasicFloat), true},
	ast.BuiltinSampleID:           {spirv.BuiltInSampleId, spirv.StorageClassInput, ast.NewScalar(ast.BasicInt), true},
	ast.BuiltinSampleMask:         {spirv.BuiltInSampleMask, spirv.StorageClassInput, ast.NewArray(ast.NewScalar(ast.BasicInt), 1), true},
	ast.BuiltinSamplePosition:     {spirv.BuiltInSamplePosition, spirv.StorageClassInput, ast.NewVector(ast.BasicFloat, 2), true},
	ast.BuiltinNumWorkGroups:      {spirv.BuiltInNumWorkgroups, spirv.StorageClassInput, ast.NewVector(ast.BasicUint, 3), true},
	ast.BuiltinWorkGroupID:        {spirv.BuiltInWorkgroupId, spirv.StorageClassInput, ast.NewVector(ast.BasicUint, 3), true},
	ast.BuiltinLocalInvocationID:  {spirv.BuiltInLocalInvocationId, spirv.StorageClassInput, ast.NewVector(ast.BasicUint, 3), true},
	ast.BuiltinGlobalInvocationID: {spirv.BuiltInGlobalInvocationId, spirv.StorageClassInput, ast.NewVector(ast.BasicUint, 3), true},
	ast.BuiltinLocalInvocationIndex: {spirv.BuiltInLocalInvocationIndex, spirv.StorageClassInput, ast.NewScalar(ast.BasicUint), true},
}

// FunctionInfo is what the call-lowering path needs to know about a
// previously translated function.
type FunctionInfo struct {
	ID           uint32
	ReturnTypeID uint32
	Parameters   []ast.Parameter
}

// GlobalTable resolves module-scope symbols: declared globals (an interface
// block is one such global; its fields are reached through it), functions,
// and built-in variables materialized lazily on first reference. It implements Scope directly for translating global
// initializers and is wrapped by a LocalTable inside function bodies.
type GlobalTable struct {
	engine    *Engine
	globals   map[ast.SymbolID]NodeData
	functions map[ast.SymbolID]FunctionInfo
	builtins  map[ast.Builtin]NodeData
	// interfaceVars accumulates every built-in and module-scope input/output
	// variable id materialized so far, in first-use order, for the
	// OpEntryPoint interface lists.
	interfaceVars []uint32
}

// NewGlobalTable creates an empty GlobalTable backed by engine.
func NewGlobalTable(engine *Engine) *GlobalTable {
	return &GlobalTable{
		engine:    engine,
		globals:   make(map[ast.SymbolID]NodeData),
		functions: make(map[ast.SymbolID]FunctionInfo),
		builtins:  make(map[ast.Builtin]NodeData),
	}
}

// Declare registers a module-scope variable's synthesis record.
func (g *GlobalTable) Declare(id ast.SymbolID, data NodeData) {
	g.globals[id] = data
}

// DeclareFunction registers a translated function's call-lowering info.
func (g *GlobalTable) DeclareFunction(id ast.SymbolID, info FunctionInfo) {
	g.functions[id] = info
}

// InterfaceVars returns every built-in and module-scope input/output
// variable id materialized so far, in first-use order. A module's entry
// points all share this one list: SPIR-V permits (and Vulkan tooling
// tolerates) an OpEntryPoint interface that is a superset of what that
// particular stage's call tree touches.
func (g *GlobalTable) InterfaceVars() []uint32 {
	return g.interfaceVars
}

// ResolveSymbol implements Scope. A plain global symbol is looked up
// directly; a built-in reference (Symbol.Builtin != ast.BuiltinNone, the
// shape a reference to an as-yet-unmaterialized built-in variable takes)
// is materialized on first use: its OpVariable is declared, decorated with
// its BuiltIn, and added to the interface list.
func (g *GlobalTable) ResolveSymbol(sym ast.Symbol) NodeData {
	if sym.Builtin != ast.BuiltinNone {
		return g.ResolveBuiltin(sym.Builtin)
	}
	if data, ok := g.globals[sym.ID]; ok {
		return data
	}
	panic(fmt.Sprintf("codegen: reference to undeclared symbol %d", sym.ID))
}

// ResolveBuiltin resolves a built-in variable reference, materializing its
// backing OpVariable the first time it is seen.
func (g *GlobalTable) ResolveBuiltin(b ast.Builtin) NodeData {
	if data, ok := g.builtins[b]; ok {
		return data
	}
	info, ok := builtInTable[b]
	if !ok {
		panic(fmt.Sprintf("codegen: unhandled built-in variable %d", b))
	}
	typeID := g.engine.Types.TypeID(info.typ)
	pointerType := g.engine.Types.PointerTypeID(typeID, info.storage)
	varID := g.engine.Builder.DeclareVariable(pointerType, info.storage, "")
	g.engine.Builder.Module.AddDecorate(varID, spirv.DecorationBuiltIn, uint32(info.builtIn))
	if info.interfaceVar {
		g.interfaceVars = append(g.interfaceVars, varID)
	}
	data := InitLvalue(varID, typeID, info.storage, ast.LayoutUnspecified)
	g.builtins[b] = data
	return data
}

// Function implements Scope.
func (g *GlobalTable) Function(id ast.SymbolID) (funcID, returnTypeID uint32, params []ast.Parameter, ok bool) {
	info, found := g.functions[id]
	if !found {
		return 0, 0, nil, false
	}
	return info.ID, info.ReturnTypeID, info.Parameters, true
}

// LocalTable extends a GlobalTable with a function's local variables and
// parameters, shadowing the global scope for the duration of one function
// body's translation. A fresh LocalTable is created per function.
type LocalTable struct {
	parent *GlobalTable
	locals map[ast.SymbolID]NodeData
}

// NewLocalTable creates a LocalTable over parent.
func NewLocalTable(parent *GlobalTable) *LocalTable {
	return &LocalTable{parent: parent, locals: make(map[ast.SymbolID]NodeData)}
}

// Declare registers a local variable's or parameter's synthesis record.
func (l *LocalTable) Declare(id ast.SymbolID, data NodeData) {
	l.locals[id] = data
}

// ResolveSymbol implements Scope, checking locals before falling back to
// the enclosing module scope, and materializing a built-in on first
// reference via the parent table regardless of which scope named it.
func (l *LocalTable) ResolveSymbol(sym ast.Symbol) NodeData {
	if sym.Builtin != ast.BuiltinNone {
		return l.parent.ResolveBuiltin(sym.Builtin)
	}
	if data, ok := l.locals[sym.ID]; ok {
		return data
	}
	if data, ok := l.parent.globals[sym.ID]; ok {
		return data
	}
	panic(fmt.Sprintf("codegen: reference to undeclared symbol %d", sym.ID))
}

// Function implements Scope.
func (l *LocalTable) Function(id ast.SymbolID) (funcID, returnTypeID uint32, params []ast.Parameter, ok bool) {
	return l.parent.Function(id)
}
