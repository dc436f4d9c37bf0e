package codegen

import (
	"testing"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// fakeScope is a minimal Scope backed by plain maps, enough to drive
// Translator without a full GlobalTable/LocalTable.
type fakeScope struct {
	symbols   map[ast.SymbolID]NodeData
	functions map[ast.SymbolID]FunctionInfo
}

func newFakeScope() *fakeScope {
	return &fakeScope{symbols: make(map[ast.SymbolID]NodeData), functions: make(map[ast.SymbolID]FunctionInfo)}
}

func (s *fakeScope) ResolveSymbol(sym ast.Symbol) NodeData {
	data, ok := s.symbols[sym.ID]
	if !ok {
		panic("fakeScope: undeclared symbol")
	}
	return data
}

func (s *fakeScope) Function(id ast.SymbolID) (uint32, uint32, []ast.Parameter, bool) {
	info, ok := s.functions[id]
	if !ok {
		return 0, 0, nil, false
	}
	return info.ID, info.ReturnTypeID, info.Parameters, true
}

// TestTranslate_DynamicArrayIndex is scenario S5: a[i] where i is a runtime
// value collapses to a single OpAccessChain + OpLoad, not an
// OpCompositeExtract (which requires a literal index).
func TestTranslate_DynamicArrayIndex(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	scope := newFakeScope()
	translator := NewTranslator(engine, 0, scope)

	elemType := ast.NewScalar(ast.BasicFloat)
	arrayType := ast.NewArray(elemType, 4)
	arrayTypeID := engine.Types.TypeID(arrayType)
	arrayPtrType := engine.Types.PointerTypeID(arrayTypeID, spirv.StorageClassPrivate)
	arrayVar := builder.DeclareVariable(arrayPtrType, spirv.StorageClassPrivate, "a")

	const (
		arraySym ast.SymbolID = 1
		indexSym ast.SymbolID = 2
	)
	scope.symbols[arraySym] = InitLvalue(arrayVar, arrayTypeID, spirv.StorageClassPrivate, ast.LayoutUnspecified)

	intType := ast.NewScalar(ast.BasicInt)
	intPtrType := engine.Types.PointerTypeID(engine.Types.TypeID(intType), spirv.StorageClassPrivate)
	indexVar := builder.DeclareVariable(intPtrType, spirv.StorageClassPrivate, "i")
	scope.symbols[indexSym] = InitLvalue(indexVar, engine.Types.TypeID(intType), spirv.StorageClassPrivate, ast.LayoutUnspecified)

	indexNode := &ast.Node{Type: intType, Kind: ast.Symbol{ID: indexSym}}
	indexExpr := &ast.Node{Type: elemType, Kind: ast.Index{
		Base:  &ast.Node{Type: arrayType, Kind: ast.Symbol{ID: arraySym}},
		Index: indexNode,
	}}

	value := translator.Value(indexExpr)
	if value == 0 {
		t.Fatalf("Value returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpAccessChain] != 1 {
		t.Errorf("expected 1 OpAccessChain, got %d", counts[spirv.OpAccessChain])
	}
	if counts[spirv.OpCompositeExtract] != 0 {
		t.Errorf("a dynamic index should not use OpCompositeExtract, got %d", counts[spirv.OpCompositeExtract])
	}
}

// TestTranslate_DynamicVectorComponent is the lvalue counterpart of
// scenario S6: v[i] on a plain vector lvalue folds the dynamic index directly into the access chain
// (PushDynamicComponent's default case), collapsing to an OpAccessChain
// rather than OpVectorExtractDynamic (reserved for the rvalue/swizzle
// fusion cases).
func TestTranslate_DynamicVectorComponent(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	scope := newFakeScope()
	translator := NewTranslator(engine, 0, scope)

	vecType := ast.NewVector(ast.BasicFloat, 4)
	vecTypeID := engine.Types.TypeID(vecType)
	vecPtrType := engine.Types.PointerTypeID(vecTypeID, spirv.StorageClassPrivate)
	vecVar := builder.DeclareVariable(vecPtrType, spirv.StorageClassPrivate, "v")

	const (
		vecSym   ast.SymbolID = 1
		indexSym ast.SymbolID = 2
	)
	scope.symbols[vecSym] = InitLvalue(vecVar, vecTypeID, spirv.StorageClassPrivate, ast.LayoutUnspecified)

	intType := ast.NewScalar(ast.BasicInt)
	intPtrType := engine.Types.PointerTypeID(engine.Types.TypeID(intType), spirv.StorageClassPrivate)
	indexVar := builder.DeclareVariable(intPtrType, spirv.StorageClassPrivate, "i")
	scope.symbols[indexSym] = InitLvalue(indexVar, engine.Types.TypeID(intType), spirv.StorageClassPrivate, ast.LayoutUnspecified)

	scalarType := ast.NewScalar(ast.BasicFloat)
	indexExpr := &ast.Node{Type: scalarType, Kind: ast.Index{
		Base:  &ast.Node{Type: vecType, Kind: ast.Symbol{ID: vecSym}},
		Index: &ast.Node{Type: intType, Kind: ast.Symbol{ID: indexSym}},
	}}

	value := translator.Value(indexExpr)
	if value == 0 {
		t.Fatalf("Value returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpAccessChain] != 1 {
		t.Errorf("expected 1 OpAccessChain, got %d", counts[spirv.OpAccessChain])
	}
	if counts[spirv.OpVectorExtractDynamic] != 0 {
		t.Errorf("a plain lvalue dynamic component should not use OpVectorExtractDynamic, got %d", counts[spirv.OpVectorExtractDynamic])
	}
}

// TestTranslate_DynamicIndexIntoSwizzle covers v.ywxz[i]: a runtime index
// applied on top of a pending multi-component swizzle fuses into a single
// new dynamic index (OpVectorExtractDynamic against a constant composite of
// the swizzle's component positions), which is then folded into the access
// chain like any other dynamic index. This exercises PushDynamicComponent's
// swizzle-fusion branch, which requires a real scalar type id (not a
// constant value id) as OpVectorExtractDynamic's result type.
func TestTranslate_DynamicIndexIntoSwizzle(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	scope := newFakeScope()
	translator := NewTranslator(engine, 0, scope)

	vecType := ast.NewVector(ast.BasicFloat, 4)
	vecTypeID := engine.Types.TypeID(vecType)
	vecPtrType := engine.Types.PointerTypeID(vecTypeID, spirv.StorageClassPrivate)
	vecVar := builder.DeclareVariable(vecPtrType, spirv.StorageClassPrivate, "v")

	const (
		vecSym   ast.SymbolID = 1
		indexSym ast.SymbolID = 2
	)
	scope.symbols[vecSym] = InitLvalue(vecVar, vecTypeID, spirv.StorageClassPrivate, ast.LayoutUnspecified)

	intType := ast.NewScalar(ast.BasicInt)
	intPtrType := engine.Types.PointerTypeID(engine.Types.TypeID(intType), spirv.StorageClassPrivate)
	indexVar := builder.DeclareVariable(intPtrType, spirv.StorageClassPrivate, "i")
	scope.symbols[indexSym] = InitLvalue(indexVar, engine.Types.TypeID(intType), spirv.StorageClassPrivate, ast.LayoutUnspecified)

	swizzled := &ast.Node{Type: vecType, Kind: ast.Swizzle{
		Base:    &ast.Node{Type: vecType, Kind: ast.Symbol{ID: vecSym}},
		Pattern: []ast.SwizzleComponent{ast.ComponentY, ast.ComponentW, ast.ComponentX, ast.ComponentZ},
	}}
	scalarType := ast.NewScalar(ast.BasicFloat)
	indexExpr := &ast.Node{Type: scalarType, Kind: ast.Index{
		Base:  swizzled,
		Index: &ast.Node{Type: intType, Kind: ast.Symbol{ID: indexSym}},
	}}

	value := translator.Value(indexExpr)
	if value == 0 {
		t.Fatalf("Value returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpVectorExtractDynamic] != 1 {
		t.Errorf("expected 1 OpVectorExtractDynamic (fusing the swizzle selector), got %d", counts[spirv.OpVectorExtractDynamic])
	}
	if counts[spirv.OpAccessChain] != 1 {
		t.Errorf("expected 1 OpAccessChain (indexing v by the fused position), got %d", counts[spirv.OpAccessChain])
	}
}

// TestTranslateBuiltin_AtomicCompSwap is scenario S8: atomicCompSwap's
// source-order arguments (pointer, comparator, value) are reordered to
// OpAtomicCompareExchange's (pointer, scope, equal, unequal, value,
// comparator) operand shape.
func TestTranslateBuiltin_AtomicCompSwap(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	scope := newFakeScope()
	translator := NewTranslator(engine, 0, scope)

	intType := ast.NewScalar(ast.BasicUint)
	intTypeID := engine.Types.TypeID(intType)
	ptrType := engine.Types.PointerTypeID(intTypeID, spirv.StorageClassPrivate)
	target := builder.DeclareVariable(ptrType, spirv.StorageClassPrivate, "slot")

	const targetSym ast.SymbolID = 1
	scope.symbols[targetSym] = InitLvalue(target, intTypeID, spirv.StorageClassPrivate, ast.LayoutUnspecified)

	call := &ast.Node{Type: intType, Kind: ast.Aggregate{
		Callee: ast.BuiltinCallee{Function: ast.BuiltinFuncAtomicCompSwap},
		Arguments: []*ast.Node{
			{Type: intType, Kind: ast.Symbol{ID: targetSym}},
			{Type: intType, Kind: ast.Constant{Value: ast.ScalarConstant{Basic: ast.BasicUint, Bits: 0}}},
			{Type: intType, Kind: ast.Constant{Value: ast.ScalarConstant{Basic: ast.BasicUint, Bits: 1}}},
		},
	}}

	value := translator.Value(call)
	if value == 0 {
		t.Fatalf("Value returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpAtomicCompareExchange] != 1 {
		t.Errorf("expected 1 OpAtomicCompareExchange, got %d", counts[spirv.OpAtomicCompareExchange])
	}
}

// TestTranslateBinary_MatrixTimesVector checks the product-type dispatch
// table picks the orientation-specific opcode rather than a componentwise
// multiply.
func TestTranslateBinary_MatrixTimesVector(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	scope := newFakeScope()
	translator := NewTranslator(engine, 0, scope)

	matType := ast.NewMatrix(ast.BasicFloat, 4, 4)
	vecType := ast.NewVector(ast.BasicFloat, 4)
	matTypeID := engine.Types.TypeID(matType)
	vecTypeID := engine.Types.TypeID(vecType)
	matPtr := engine.Types.PointerTypeID(matTypeID, spirv.StorageClassPrivate)
	vecPtr := engine.Types.PointerTypeID(vecTypeID, spirv.StorageClassPrivate)
	matVar := builder.DeclareVariable(matPtr, spirv.StorageClassPrivate, "m")
	vecVar := builder.DeclareVariable(vecPtr, spirv.StorageClassPrivate, "v")

	const (
		matSym ast.SymbolID = 1
		vecSym ast.SymbolID = 2
	)
	scope.symbols[matSym] = InitLvalue(matVar, matTypeID, spirv.StorageClassPrivate, ast.LayoutUnspecified)
	scope.symbols[vecSym] = InitLvalue(vecVar, vecTypeID, spirv.StorageClassPrivate, ast.LayoutUnspecified)

	expr := &ast.Node{Type: vecType, Kind: ast.Binary{
		Op:    ast.OpMul,
		Left:  &ast.Node{Type: matType, Kind: ast.Symbol{ID: matSym}},
		Right: &ast.Node{Type: vecType, Kind: ast.Symbol{ID: vecSym}},
	}}

	value := translator.Value(expr)
	if value == 0 {
		t.Fatalf("Value returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpMatrixTimesVector] != 1 {
		t.Errorf("expected 1 OpMatrixTimesVector, got %d", counts[spirv.OpMatrixTimesVector])
	}
	if counts[spirv.OpFMul] != 0 {
		t.Errorf("matrix*vector should not use componentwise OpFMul, got %d", counts[spirv.OpFMul])
	}
}
