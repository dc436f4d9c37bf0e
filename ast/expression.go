package ast

// Node is one position in the validated tree. Every node carries its fully
// resolved semantic Type, any storage/parameter Qualifier that applies at
// this position, and the buffer layout in force if the node denotes a
// buffer-backed value. Kind holds the node-specific payload: which
// expression or statement this is, and its children.
type Node struct {
	Kind      Kind
	Type      *Type
	Qualifier Qualifier
	Layout    BlockLayout
}

// Kind is implemented by every expression and statement payload. A Node's
// Kind is matched with a type switch by the generator; there is no visitor
// interface to implement per node kind (see Design Notes: explicit-variant
// dispatch over an interface hierarchy).
type Kind interface {
	astKind()
}

// Symbol references a previously declared variable, function parameter,
// interface block field, or built-in by identity.
type Symbol struct {
	ID SymbolID
	// Builtin is set when this reference denotes a built-in variable that
	// has not yet been materialized; the resolver allocates and decorates
	// the backing SPIR-V variable the first time it is seen.
	Builtin Builtin
}

func (Symbol) astKind() {}

// Constant is a literal or pre-folded constant sub-expression. Constant
// folding happens upstream; by the time the generator sees a Constant node
// its Value is already resolved.
type Constant struct {
	Value ConstantValue
}

func (Constant) astKind() {}

// ConstantValue is implemented by ScalarConstant and CompositeConstant.
type ConstantValue interface {
	constantValue()
}

// ScalarConstant is a single scalar constant value, tagged by the basic type
// it represents so that bit patterns are interpreted unambiguously.
type ScalarConstant struct {
	Basic BasicType
	Bits  uint64 // bit pattern; float values are stored via math.Float32/64bits
}

func (ScalarConstant) constantValue() {}

// CompositeConstant is a constant vector, matrix, array, or struct, built
// from already-resolved constant components.
type CompositeConstant struct {
	Components []ConstantValue
}

func (CompositeConstant) constantValue() {}

// SwizzleComponent names one lane of a vector (x/y/z/w or equivalently
// r/g/b/a, s/t/p/q in source syntax — all map to the same component index).
type SwizzleComponent uint8

const (
	ComponentX SwizzleComponent = iota
	ComponentY
	ComponentZ
	ComponentW
)

// Swizzle selects and reorders components of a vector-typed Base. A
// single-component swizzle (len(Pattern) == 1) denotes plain component
// access; a multi-component swizzle denotes a reordered sub-vector and may
// itself be the target of a store (e.g. `v.ywxz = rhs`).
type Swizzle struct {
	Base    *Node
	Pattern []SwizzleComponent
}

func (Swizzle) astKind() {}

// Index selects an element of an array, vector, or matrix by a
// runtime-computed expression. A constant-folded index upstream becomes a
// FieldSelect instead.
type Index struct {
	Base  *Node
	Index *Node
}

func (Index) astKind() {}

// FieldSelect selects a struct member or interface block field, or an
// array/vector/matrix element whose index is a compile-time literal, by
// position. Index is the literal member/element position, not an
// expression.
type FieldSelect struct {
	Base  *Node
	Index uint32
}

func (FieldSelect) astKind() {}

// BinaryOp names a binary operator.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpLogicalAnd
	OpLogicalOr
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpShiftLeft
	OpShiftRight
	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
)

// Binary is a two-operand expression, including plain and compound
// assignment. Assignment operators require Left to be an lvalue (a Symbol,
// Index, FieldSelect, or Swizzle node whose resolved access is not an
// rvalue).
type Binary struct {
	Op    BinaryOp
	Left  *Node
	Right *Node
}

func (Binary) astKind() {}

// UnaryOp names a unary operator.
type UnaryOp uint8

const (
	OpNegate UnaryOp = iota
	OpLogicalNot
	OpBitwiseNot
	OpPreIncrement
	OpPreDecrement
	OpPostIncrement
	OpPostDecrement
)

// Unary is a single-operand expression.
type Unary struct {
	Op      UnaryOp
	Operand *Node
}

func (Unary) astKind() {}

// Ternary is the conditional (?:) expression.
type Ternary struct {
	Condition *Node
	TrueExpr  *Node
	FalseExpr *Node
}

func (Ternary) astKind() {}

// Aggregate is a constructor call, function call, or built-in invocation;
// the shared shape for every "name applied to an argument list" expression.
// Which of these it is, and how the generator lowers it, is resolved from
// Callee.
type Aggregate struct {
	Callee    Callee
	Arguments []*Node
}

func (Aggregate) astKind() {}

// Callee is implemented by ConstructorCallee, FunctionCallee, and
// BuiltinCallee.
type Callee interface {
	callee()
}

// ConstructorCallee constructs a value of Type from Arguments, per the
// constructor synthesis rules (scalar/array/struct/vector/matrix).
type ConstructorCallee struct {
	Type *Type
}

func (ConstructorCallee) callee() {}

// FunctionCallee calls a user-defined function by symbol identity.
type FunctionCallee struct {
	Function SymbolID
}

func (FunctionCallee) callee() {}

// BuiltinFunction names a built-in function or atomic operation.
type BuiltinFunction uint8

const (
	BuiltinFuncNone BuiltinFunction = iota
	BuiltinFuncAbs
	BuiltinFuncSign
	BuiltinFuncFloor
	BuiltinFuncCeil
	BuiltinFuncFract
	BuiltinFuncMod
	BuiltinFuncMin
	BuiltinFuncMax
	BuiltinFuncClamp
	BuiltinFuncMix
	BuiltinFuncStep
	BuiltinFuncSmoothStep
	BuiltinFuncSqrt
	BuiltinFuncInverseSqrt
	BuiltinFuncPow
	BuiltinFuncExp
	BuiltinFuncExp2
	BuiltinFuncLog
	BuiltinFuncLog2
	BuiltinFuncSin
	BuiltinFuncCos
	BuiltinFuncTan
	BuiltinFuncAsin
	BuiltinFuncAcos
	BuiltinFuncAtan
	BuiltinFuncDot
	BuiltinFuncCross
	BuiltinFuncLength
	BuiltinFuncDistance
	BuiltinFuncNormalize
	BuiltinFuncFaceForward
	BuiltinFuncReflect
	BuiltinFuncRefract
	BuiltinFuncDeterminant
	BuiltinFuncInverse
	BuiltinFuncTranspose
	BuiltinFuncDFdx
	BuiltinFuncDFdy
	BuiltinFuncFwidth
	BuiltinFuncTexture
	BuiltinFuncTexelFetch
	BuiltinFuncTextureSize
	BuiltinFuncAtomicAdd
	BuiltinFuncAtomicAnd
	BuiltinFuncAtomicOr
	BuiltinFuncAtomicXor
	BuiltinFuncAtomicMin
	BuiltinFuncAtomicMax
	BuiltinFuncAtomicExchange
	BuiltinFuncAtomicCompSwap
)

// BuiltinCallee invokes a built-in function. Some built-ins (atomics) carry
// a memory scope distinct from the shading-language-visible argument list;
// the generator attaches Device scope and Relaxed semantics per spec.
type BuiltinCallee struct {
	Function BuiltinFunction
}

func (BuiltinCallee) callee() {}
