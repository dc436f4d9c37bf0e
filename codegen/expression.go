package codegen

import (
	"fmt"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// Scope resolves a symbol reference to the synthesis record describing how
// to reach its value: a fresh copy of its stored NodeData (the access chain
// engine mutates a NodeData as indices are pushed onto it, so each use site
// needs its own copy of the chain rooted at the same BaseID).
type Scope interface {
	// ResolveSymbol resolves a Symbol node reference: a plain variable or
	// parameter lookup, or, when sym.Builtin is set, the lazy
	// materialization of a built-in variable.
	ResolveSymbol(sym ast.Symbol) NodeData
	// Function looks up a previously translated function's SPIR-V id, its
	// return type id, and its declared parameters, for call lowering.
	Function(id ast.SymbolID) (funcID uint32, returnTypeID uint32, params []ast.Parameter, ok bool)
}

// ExtInstSet is the result id of an imported extended instruction set
// (GLSL.std.450), needed by Translator to emit OpExtInst.
type ExtInstSet uint32

// Translator lowers a validated ast.Node expression tree to SPIR-V,
// producing a NodeData synthesis record for every node: an rvalue for a
// plain computed value, an lvalue (with a possibly still-pending access
// chain) for anything that denotes a location.
type Translator struct {
	Engine  *Engine
	Ctor    *ConstructorSynthesizer
	ExtGLSL uint32
	Scope   Scope
}

// NewTranslator creates a Translator over engine, using extGLSL as the
// imported GLSL.std.450 instruction set id.
func NewTranslator(engine *Engine, extGLSL uint32, scope Scope) *Translator {
	return &Translator{Engine: engine, Ctor: NewConstructorSynthesizer(engine), ExtGLSL: extGLSL, Scope: scope}
}

// Translate lowers n to a synthesis record. It does not itself resolve the
// record to a value id; callers that need a value call t.Engine.Load on the
// result, so that an lvalue target of an assignment can instead be passed
// to t.Engine.Store without an unnecessary load first.
func (t *Translator) Translate(n *ast.Node) NodeData {
	switch k := n.Kind.(type) {
	case ast.Symbol:
		return t.Scope.ResolveSymbol(k)

	case ast.Constant:
		return t.translateConstant(n.Type, k.Value)

	case ast.Swizzle:
		return t.translateSwizzle(n, k)

	case ast.Index:
		return t.translateIndex(n, k)

	case ast.FieldSelect:
		return t.translateFieldSelect(n, k)

	case ast.Binary:
		return t.translateBinary(n, k)

	case ast.Unary:
		return t.translateUnary(n, k)

	case ast.Ternary:
		return t.translateTernary(n, k)

	case ast.Aggregate:
		return t.translateAggregate(n, k)

	default:
		panic(fmt.Sprintf("codegen: unhandled expression kind %T", k))
	}
}

// Value lowers n and resolves it to a plain value id.
func (t *Translator) Value(n *ast.Node) uint32 {
	data := t.Translate(n)
	return t.Engine.Load(&data)
}

func (t *Translator) translateConstant(typ *ast.Type, v ast.ConstantValue) NodeData {
	id := t.constantID(typ, v)
	return InitRvalue(id, t.Engine.Types.TypeID(typ))
}

func (t *Translator) constantID(typ *ast.Type, v ast.ConstantValue) uint32 {
	switch c := v.(type) {
	case ast.ScalarConstant:
		return t.Engine.Types.ScalarConstantID(c)
	case ast.CompositeConstant:
		componentType := typ.Element
		ids := make([]uint32, len(c.Components))
		for i, comp := range c.Components {
			ct := componentType
			if ct == nil && typ.Struct != nil {
				ct = typ.Struct.Members[i].Type
			}
			if ct == nil {
				ct = scalarComponentType(typ)
			}
			ids[i] = t.constantID(ct, comp)
		}
		return t.Engine.Types.CompositeConstantID(typ, ids)
	default:
		panic(fmt.Sprintf("codegen: unhandled constant value kind %T", v))
	}
}

func scalarComponentType(t *ast.Type) *ast.Type {
	if t.Shape.IsMatrix() {
		return ast.NewVector(t.Basic, t.Shape.MatrixRows)
	}
	return ast.NewScalar(t.Basic)
}

// translateSwizzle pushes a pending swizzle onto base's access chain,
// deferring its resolution to the eventual Load or Store.
func (t *Translator) translateSwizzle(n *ast.Node, k ast.Swizzle) NodeData {
	base := t.Translate(k.Base)
	resultTypeID := t.Engine.Types.TypeID(n.Type)
	base.PushSwizzle(k.Pattern, resultTypeID, k.Base.Type.Shape.Vector)
	return base
}

// translateIndex pushes a runtime-computed index onto base's access chain.
// A vector base reaching here (rather than through FieldSelect) denotes a
// single dynamic component select, handled by PushDynamicComponent's
// three-way branch; an array, matrix, or struct base is a plain indexed
// access, handled by PushIndex/PushDynamicComponent's default branch
// (which are the same append for this caller — the distinction lives in
// how Engine.Load interprets what's already on the chain).
func (t *Translator) translateIndex(n *ast.Node, k ast.Index) NodeData {
	base := t.Translate(k.Base)
	index := t.Value(k.Index)
	resultTypeID := t.Engine.Types.TypeID(n.Type)
	if k.Base.Type.Shape.IsVector() && k.Base.Type.Element == nil {
		base.PushDynamicComponent(t.Engine, index, resultTypeID)
	} else {
		base.PushIndex(index, resultTypeID)
	}
	return base
}

// translateFieldSelect pushes a compile-time-known member/element position
// onto base's access chain. A single-component vector select (v.x) arrives
// here as well as through Swizzle with a length-1 pattern, depending on how
// the front end that built this tree chose to represent it; both paths
// fold to the same literal index.
func (t *Translator) translateFieldSelect(n *ast.Node, k ast.FieldSelect) NodeData {
	base := t.Translate(k.Base)
	resultTypeID := t.Engine.Types.TypeID(n.Type)
	base.PushLiteralIndex(k.Index, resultTypeID)
	return base
}

func (t *Translator) translateBinary(n *ast.Node, k ast.Binary) NodeData {
	if isAssignOp(k.Op) {
		return t.translateAssign(n, k)
	}

	left := t.Value(k.Left)
	right := t.Value(k.Right)
	resultTypeID := t.Engine.Types.TypeID(n.Type)

	switch k.Op {
	case ast.OpLogicalAnd:
		return InitRvalue(t.Engine.Builder.Module.AddBinaryOp(spirv.OpLogicalAnd, resultTypeID, left, right), resultTypeID)
	case ast.OpLogicalOr:
		return InitRvalue(t.Engine.Builder.Module.AddBinaryOp(spirv.OpLogicalOr, resultTypeID, left, right), resultTypeID)
	}

	if isComparisonOp(k.Op) {
		opcode := comparisonOpcode(k.Op, k.Left.Type.Basic)
		return InitRvalue(t.Engine.Builder.Module.AddBinaryOp(opcode, resultTypeID, left, right), resultTypeID)
	}

	id := t.arithmetic(k.Op, k.Left.Type, k.Right.Type, n.Type, resultTypeID, left, right)
	return InitRvalue(id, resultTypeID)
}

// arithmetic picks between a plain scalar/vector binary opcode and a
// dedicated matrix/vector/scalar product instruction, per the product type
// table: vector*scalar and matrix*scalar use the scaling opcodes,
// vector*matrix and matrix*vector use the product opcodes in the
// orientation that matches which operand is the matrix, and matrix*matrix
// uses OpMatrixTimesMatrix. Every other combination is a componentwise
// opcode; when one operand is a scalar and the other a vector, the scalar
// is first broadcast into a vector of matching size with
// OpCompositeConstruct.
func (t *Translator) arithmetic(op ast.BinaryOp, leftType, rightType, resultType *ast.Type, resultTypeID, left, right uint32) uint32 {
	if op == ast.OpMul {
		switch {
		case leftType.Shape.IsMatrix() && rightType.Shape.IsScalar():
			return t.Engine.Builder.Module.AddBinaryOp(spirv.OpMatrixTimesScalar, resultTypeID, left, right)
		case leftType.Shape.IsScalar() && rightType.Shape.IsMatrix():
			return t.Engine.Builder.Module.AddBinaryOp(spirv.OpMatrixTimesScalar, resultTypeID, right, left)
		case leftType.Shape.IsVector() && rightType.Shape.IsScalar():
			return t.Engine.Builder.Module.AddBinaryOp(spirv.OpVectorTimesScalar, resultTypeID, left, right)
		case leftType.Shape.IsScalar() && rightType.Shape.IsVector():
			return t.Engine.Builder.Module.AddBinaryOp(spirv.OpVectorTimesScalar, resultTypeID, right, left)
		case leftType.Shape.IsMatrix() && rightType.Shape.IsMatrix():
			return t.Engine.Builder.Module.AddBinaryOp(spirv.OpMatrixTimesMatrix, resultTypeID, left, right)
		case leftType.Shape.IsVector() && rightType.Shape.IsMatrix():
			return t.Engine.Builder.Module.AddBinaryOp(spirv.OpVectorTimesMatrix, resultTypeID, left, right)
		case leftType.Shape.IsMatrix() && rightType.Shape.IsVector():
			return t.Engine.Builder.Module.AddBinaryOp(spirv.OpMatrixTimesVector, resultTypeID, left, right)
		}
	}
	if leftType.Shape.IsScalar() != rightType.Shape.IsScalar() && !leftType.Shape.IsMatrix() && !rightType.Shape.IsMatrix() {
		scalar, scalarType, size := &right, rightType, leftType.Shape.Vector
		if leftType.Shape.IsScalar() {
			scalar, scalarType, size = &left, leftType, rightType.Shape.Vector
		}
		parts := make([]uint32, size)
		for i := range parts {
			parts[i] = *scalar
		}
		vecTypeID := t.Engine.Types.TypeID(ast.NewVector(scalarType.Basic, size))
		*scalar = t.Engine.Builder.Module.AddCompositeConstruct(vecTypeID, parts...)
	}
	opcode := arithmeticOpcode(op, resultType.Basic)
	return t.Engine.Builder.Module.AddBinaryOp(opcode, resultTypeID, left, right)
}

// translateAssign lowers a plain or compound assignment. A compound
// assignment (+=, -=, ...) evaluates the current value of Left, computes
// the combined arithmetic result, and stores it back; a plain assignment
// just evaluates Right and stores it.
func (t *Translator) translateAssign(n *ast.Node, k ast.Binary) NodeData {
	target := t.Translate(k.Left)

	var valueID uint32
	if k.Op == ast.OpAssign {
		valueID = t.Value(k.Right)
	} else {
		current := t.Engine.Load(&target)
		right := t.Value(k.Right)
		resultTypeID := t.Engine.Types.TypeID(k.Left.Type)
		valueID = t.arithmetic(compoundBaseOp(k.Op), k.Left.Type, k.Right.Type, k.Left.Type, resultTypeID, current, right)
	}

	t.Engine.Store(&target, valueID)
	return InitRvalue(valueID, t.Engine.Types.TypeID(n.Type))
}

func compoundBaseOp(op ast.BinaryOp) ast.BinaryOp {
	switch op {
	case ast.OpAddAssign:
		return ast.OpAdd
	case ast.OpSubAssign:
		return ast.OpSub
	case ast.OpMulAssign:
		return ast.OpMul
	case ast.OpDivAssign:
		return ast.OpDiv
	default:
		panic(fmt.Sprintf("codegen: %d is not a compound assignment", op))
	}
}

func isAssignOp(op ast.BinaryOp) bool {
	switch op {
	case ast.OpAssign, ast.OpAddAssign, ast.OpSubAssign, ast.OpMulAssign, ast.OpDivAssign:
		return true
	default:
		return false
	}
}

func isComparisonOp(op ast.BinaryOp) bool {
	switch op {
	case ast.OpEqual, ast.OpNotEqual, ast.OpLess, ast.OpLessEqual, ast.OpGreater, ast.OpGreaterEqual:
		return true
	default:
		return false
	}
}

func (t *Translator) translateUnary(n *ast.Node, k ast.Unary) NodeData {
	resultTypeID := t.Engine.Types.TypeID(n.Type)

	switch k.Op {
	case ast.OpPreIncrement, ast.OpPreDecrement, ast.OpPostIncrement, ast.OpPostDecrement:
		return t.translateIncDec(k, resultTypeID)
	}

	operand := t.Value(k.Operand)
	switch k.Op {
	case ast.OpNegate:
		if n.Type.Basic == ast.BasicFloat {
			return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpFNegate, resultTypeID, operand), resultTypeID)
		}
		return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpSNegate, resultTypeID, operand), resultTypeID)
	case ast.OpLogicalNot:
		return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpLogicalNot, resultTypeID, operand), resultTypeID)
	case ast.OpBitwiseNot:
		return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpNot, resultTypeID, operand), resultTypeID)
	default:
		panic(fmt.Sprintf("codegen: unhandled unary operator %d", k.Op))
	}
}

func (t *Translator) translateIncDec(k ast.Unary, resultTypeID uint32) NodeData {
	target := t.Translate(k.Operand)
	current := t.Engine.Load(&target)
	one := t.Engine.Types.ScalarConstantID(ast.ScalarConstant{Basic: k.Operand.Type.Basic, Bits: 1})
	op := ast.OpAdd
	if k.Op == ast.OpPreDecrement || k.Op == ast.OpPostDecrement {
		op = ast.OpSub
	}
	updated := t.arithmetic(op, k.Operand.Type, k.Operand.Type, k.Operand.Type, resultTypeID, current, one)
	t.Engine.Store(&target, updated)
	if k.Op == ast.OpPreIncrement || k.Op == ast.OpPreDecrement {
		return InitRvalue(updated, resultTypeID)
	}
	return InitRvalue(current, resultTypeID)
}

func (t *Translator) translateTernary(n *ast.Node, k ast.Ternary) NodeData {
	condition := t.Value(k.Condition)
	accept := t.Value(k.TrueExpr)
	reject := t.Value(k.FalseExpr)
	resultTypeID := t.Engine.Types.TypeID(n.Type)
	return InitRvalue(t.Engine.Builder.Module.AddSelect(resultTypeID, condition, accept, reject), resultTypeID)
}

func (t *Translator) translateAggregate(n *ast.Node, k ast.Aggregate) NodeData {
	switch callee := k.Callee.(type) {
	case ast.ConstructorCallee:
		args := make([]ArgumentValue, len(k.Arguments))
		for i, arg := range k.Arguments {
			args[i] = ArgumentValue{ID: t.Value(arg), Type: arg.Type}
		}
		resultTypeID := t.Engine.Types.TypeID(n.Type)
		return InitRvalue(t.Ctor.Construct(callee.Type, args), resultTypeID)

	case ast.FunctionCallee:
		return t.translateCall(n, callee, k.Arguments)

	case ast.BuiltinCallee:
		return t.translateBuiltin(n, callee, k.Arguments)

	default:
		panic(fmt.Sprintf("codegen: unhandled callee kind %T", callee))
	}
}

// translateCall lowers a user-defined function call, per the parameter
// passing table: an in parameter receives the argument's loaded value; an
// out or inout argument that is an unindexed lvalue is passed by reference
// directly (its pointer id); anything else targeting out/inout (an
// indexed, swizzled, or otherwise not-directly-addressable lvalue, or an
// rvalue, for an out-only argument the source language still required to
// be an lvalue) is copied into a temporary before the call and, for
// out/inout, copied back into the original target after.
func (t *Translator) translateCall(n *ast.Node, callee ast.FunctionCallee, argNodes []*ast.Node) NodeData {
	funcID, returnTypeID, params, ok := t.Scope.Function(callee.Function)
	if !ok {
		panic(fmt.Sprintf("codegen: call to unresolved function symbol %d", callee.Function))
	}

	argIDs := make([]uint32, len(argNodes))
	var copyBacks []func()

	for i, argNode := range argNodes {
		param := params[i]
		switch param.Qualifier {
		case ast.QualifierOut, ast.QualifierInOut:
			data := t.Translate(argNode)
			if data.IsUnindexedLvalue() {
				argIDs[i] = t.Engine.Collapse(&data)
				continue
			}
			paramTypeID := t.Engine.Types.TypeID(param.Type)
			tempPtrType := t.Engine.Types.PointerTypeID(paramTypeID, spirv.StorageClassFunction)
			temp := t.Engine.Builder.DeclareVariable(tempPtrType, spirv.StorageClassFunction, "param")
			if param.Qualifier == ast.QualifierInOut {
				t.Engine.Builder.Module.AddStore(temp, t.Engine.Load(&data))
			}
			argIDs[i] = temp
			target := data
			copyBacks = append(copyBacks, func() {
				t.Engine.Store(&target, t.Engine.Builder.Module.AddLoad(paramTypeID, temp))
			})

		default:
			argIDs[i] = t.Value(argNode)
		}
	}

	result := t.Engine.Builder.Module.AddFunctionCall(returnTypeID, funcID, argIDs...)
	for _, cb := range copyBacks {
		cb()
	}
	return InitRvalue(result, returnTypeID)
}

// translateBuiltin lowers a built-in function or atomic invocation.
// Texture sampling and query built-ins are lowered to their dedicated
// image opcodes; atomicCompSwap's operand order is swapped to match
// OpAtomicCompareExchange's (pointer, scope, equal, unequal, value,
// comparator) shape against the source language's atomicCompSwap(pointer,
// comparator, value); derivatives use the core D/Dx/D/Dy/Fwidth family;
// everything else looks up its GLSL.std.450 instruction number.
func (t *Translator) translateBuiltin(n *ast.Node, callee ast.BuiltinCallee, argNodes []*ast.Node) NodeData {
	resultTypeID := t.Engine.Types.TypeID(n.Type)

	switch callee.Function {
	case ast.BuiltinFuncDFdx:
		return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpDPdx, resultTypeID, t.Value(argNodes[0])), resultTypeID)
	case ast.BuiltinFuncDFdy:
		return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpDPdy, resultTypeID, t.Value(argNodes[0])), resultTypeID)
	case ast.BuiltinFuncFwidth:
		return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpFwidth, resultTypeID, t.Value(argNodes[0])), resultTypeID)

	case ast.BuiltinFuncDot:
		return InitRvalue(t.Engine.Builder.Module.AddBinaryOp(spirv.OpDot, resultTypeID, t.Value(argNodes[0]), t.Value(argNodes[1])), resultTypeID)

	case ast.BuiltinFuncTranspose:
		return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpTranspose, resultTypeID, t.Value(argNodes[0])), resultTypeID)

	case ast.BuiltinFuncTexture:
		return t.translateTextureSample(n, argNodes, resultTypeID)

	case ast.BuiltinFuncTexelFetch:
		return t.translateTexelFetch(argNodes, resultTypeID)

	case ast.BuiltinFuncTextureSize:
		return InitRvalue(t.Engine.Builder.Module.AddUnaryOp(spirv.OpImageQuerySize, resultTypeID, t.Value(argNodes[0])), resultTypeID)

	case ast.BuiltinFuncAtomicCompSwap:
		return t.translateAtomicCompSwap(argNodes, resultTypeID)

	case ast.BuiltinFuncAtomicAdd, ast.BuiltinFuncAtomicAnd, ast.BuiltinFuncAtomicOr,
		ast.BuiltinFuncAtomicXor, ast.BuiltinFuncAtomicMin, ast.BuiltinFuncAtomicMax,
		ast.BuiltinFuncAtomicExchange:
		return t.translateAtomicRMW(callee.Function, argNodes, resultTypeID)
	}

	if inst, ok := glslBuiltin(callee.Function, operandBasicType(argNodes)); ok {
		operands := make([]uint32, len(argNodes))
		for i, a := range argNodes {
			operands[i] = t.Value(a)
		}
		id := t.Engine.Builder.Module.AddExtInst(resultTypeID, t.ExtGLSL, uint32(inst), operands...)
		return InitRvalue(id, resultTypeID)
	}

	panic(fmt.Sprintf("codegen: unhandled built-in function %d", callee.Function))
}

func operandBasicType(argNodes []*ast.Node) ast.BasicType {
	return argNodes[0].Type.Basic
}

func (t *Translator) translateTextureSample(n *ast.Node, argNodes []*ast.Node, resultTypeID uint32) NodeData {
	sampler := t.Value(argNodes[0])
	coord := t.Value(argNodes[1])
	id := t.Engine.Builder.Module.AddBinaryOp(spirv.OpImageSampleImplicitLod, resultTypeID, sampler, coord)
	return InitRvalue(id, resultTypeID)
}

func (t *Translator) translateTexelFetch(argNodes []*ast.Node, resultTypeID uint32) NodeData {
	image := t.Value(argNodes[0])
	coord := t.Value(argNodes[1])
	id := t.Engine.Builder.Module.AddBinaryOp(spirv.OpImageFetch, resultTypeID, image, coord)
	return InitRvalue(id, resultTypeID)
}

// translateAtomicRMW lowers an atomicAdd/And/Or/Xor/Min/Max/Exchange call.
// Every atomic in this generator's target operates on storage or shared
// buffer memory visible across the whole device, so Device scope and
// Relaxed semantics apply uniformly rather than being threaded through
// from the call site.
func (t *Translator) translateAtomicRMW(fn ast.BuiltinFunction, argNodes []*ast.Node, resultTypeID uint32) NodeData {
	target := t.Translate(argNodes[0])
	pointer := t.Engine.Collapse(&target)
	value := t.Value(argNodes[1])
	opcode := atomicOpcode(fn, argNodes[0].Type.Basic)
	id := t.Engine.Builder.Module.AddAtomicOp(opcode, resultTypeID, pointer, spirv.ScopeDevice, spirv.MemorySemanticsRelaxed, value)
	return InitRvalue(id, resultTypeID)
}

// translateAtomicCompSwap lowers atomicCompSwap(pointer, comparator,
// value) to OpAtomicCompareExchange, which takes value before comparator:
// the source language's argument order is the reverse of the wire
// instruction's operand order.
func (t *Translator) translateAtomicCompSwap(argNodes []*ast.Node, resultTypeID uint32) NodeData {
	target := t.Translate(argNodes[0])
	pointer := t.Engine.Collapse(&target)
	comparator := t.Value(argNodes[1])
	value := t.Value(argNodes[2])
	id := t.Engine.Builder.Module.AddAtomicCompareExchange(
		resultTypeID, pointer, spirv.ScopeDevice,
		spirv.MemorySemanticsRelaxed, spirv.MemorySemanticsRelaxed,
		value, comparator,
	)
	return InitRvalue(id, resultTypeID)
}
