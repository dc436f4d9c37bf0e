package codegen

import (
	"fmt"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// convertOpcode picks the explicit conversion instruction needed to change
// a scalar value from one basic type to another.
func convertOpcode(from, to ast.BasicType) spirv.OpCode {
	switch {
	case from == ast.BasicFloat && to == ast.BasicInt:
		return spirv.OpConvertFToS
	case from == ast.BasicFloat && to == ast.BasicUint:
		return spirv.OpConvertFToU
	case from == ast.BasicInt && to == ast.BasicFloat:
		return spirv.OpConvertSToF
	case from == ast.BasicUint && to == ast.BasicFloat:
		return spirv.OpConvertUToF
	case from == ast.BasicInt && to == ast.BasicUint:
		return spirv.OpBitcast
	case from == ast.BasicUint && to == ast.BasicInt:
		return spirv.OpBitcast
	case from == ast.BasicBool:
		// no conversion opcode takes a bool operand, and no caller lowers
		// a bool-to-scalar conversion another way; it is rejected here.
		panic("codegen: convertOpcode called with a bool source")
	default:
		panic(fmt.Sprintf("codegen: no conversion from %d to %d", from, to))
	}
}

// arithmeticOpcode picks the binary arithmetic instruction for op over
// operands of basic type t, which must already agree in shape
// (Translator.arithmetic broadcasts a scalar operand against a vector, and
// picks the dedicated matrix/vector product opcodes itself, before this is
// consulted). Bitwise And/Or/Xor on bool operands use the logical
// instructions.
func arithmeticOpcode(op ast.BinaryOp, t ast.BasicType) spirv.OpCode {
	isFloat := t == ast.BasicFloat
	isSigned := t == ast.BasicInt
	isBool := t == ast.BasicBool
	switch op {
	case ast.OpAdd, ast.OpAddAssign:
		if isFloat {
			return spirv.OpFAdd
		}
		return spirv.OpIAdd
	case ast.OpSub, ast.OpSubAssign:
		if isFloat {
			return spirv.OpFSub
		}
		return spirv.OpISub
	case ast.OpMul, ast.OpMulAssign:
		if isFloat {
			return spirv.OpFMul
		}
		return spirv.OpIMul
	case ast.OpDiv, ast.OpDivAssign:
		switch {
		case isFloat:
			return spirv.OpFDiv
		case isSigned:
			return spirv.OpSDiv
		default:
			return spirv.OpUDiv
		}
	case ast.OpMod:
		switch {
		case isFloat:
			return spirv.OpFMod
		case isSigned:
			return spirv.OpSMod
		default:
			return spirv.OpUMod
		}
	case ast.OpBitwiseAnd:
		if isBool {
			return spirv.OpLogicalAnd
		}
		return spirv.OpBitwiseAnd
	case ast.OpBitwiseOr:
		if isBool {
			return spirv.OpLogicalOr
		}
		return spirv.OpBitwiseOr
	case ast.OpBitwiseXor:
		if isBool {
			return spirv.OpLogicalNotEqual
		}
		return spirv.OpBitwiseXor
	case ast.OpShiftLeft:
		return spirv.OpShiftLeftLogical
	case ast.OpShiftRight:
		if isSigned {
			return spirv.OpShiftRightArithmetic
		}
		return spirv.OpShiftRightLogical
	default:
		panic(fmt.Sprintf("codegen: %d is not an arithmetic operator", op))
	}
}

// comparisonOpcode picks the comparison instruction for op over operands of
// basic type t. Float inequality is unordered (true if either operand is
// NaN); bool equality and inequality use the logical instructions.
func comparisonOpcode(op ast.BinaryOp, t ast.BasicType) spirv.OpCode {
	isFloat := t == ast.BasicFloat
	isSigned := t == ast.BasicInt
	isBool := t == ast.BasicBool
	switch op {
	case ast.OpEqual:
		switch {
		case isFloat:
			return spirv.OpFOrdEqual
		case isBool:
			return spirv.OpLogicalEqual
		}
		return spirv.OpIEqual
	case ast.OpNotEqual:
		switch {
		case isFloat:
			return spirv.OpFUnordNotEqual
		case isBool:
			return spirv.OpLogicalNotEqual
		}
		return spirv.OpINotEqual
	case ast.OpLess:
		switch {
		case isFloat:
			return spirv.OpFOrdLessThan
		case isSigned:
			return spirv.OpSLessThan
		default:
			return spirv.OpULessThan
		}
	case ast.OpLessEqual:
		switch {
		case isFloat:
			return spirv.OpFOrdLessThanEqual
		case isSigned:
			return spirv.OpSLessThanEqual
		default:
			return spirv.OpULessThanEqual
		}
	case ast.OpGreater:
		switch {
		case isFloat:
			return spirv.OpFOrdGreaterThan
		case isSigned:
			return spirv.OpSGreaterThan
		default:
			return spirv.OpUGreaterThan
		}
	case ast.OpGreaterEqual:
		switch {
		case isFloat:
			return spirv.OpFOrdGreaterThanEqual
		case isSigned:
			return spirv.OpSGreaterThanEqual
		default:
			return spirv.OpUGreaterThanEqual
		}
	default:
		panic(fmt.Sprintf("codegen: %d is not a comparison operator", op))
	}
}

// glslBuiltin maps a built-in math function to its GLSL.std.450 extended
// instruction number, for the subset lowered via the extended instruction
// set rather than a plain core opcode or a hand-built expansion.
func glslBuiltin(fn ast.BuiltinFunction, t ast.BasicType) (spirv.GLSLstd450, bool) {
	isFloat := t == ast.BasicFloat
	isSigned := t == ast.BasicInt
	switch fn {
	case ast.BuiltinFuncAbs:
		if isFloat {
			return spirv.GLSLstd450FAbs, true
		}
		return spirv.GLSLstd450SAbs, true
	case ast.BuiltinFuncSign:
		if isFloat {
			return spirv.GLSLstd450FSign, true
		}
		return spirv.GLSLstd450SSign, true
	case ast.BuiltinFuncFloor:
		return spirv.GLSLstd450Floor, true
	case ast.BuiltinFuncCeil:
		return spirv.GLSLstd450Ceil, true
	case ast.BuiltinFuncFract:
		return spirv.GLSLstd450Fract, true
	case ast.BuiltinFuncMin:
		switch {
		case isFloat:
			return spirv.GLSLstd450FMin, true
		case isSigned:
			return spirv.GLSLstd450SMin, true
		default:
			return spirv.GLSLstd450UMin, true
		}
	case ast.BuiltinFuncMax:
		switch {
		case isFloat:
			return spirv.GLSLstd450FMax, true
		case isSigned:
			return spirv.GLSLstd450SMax, true
		default:
			return spirv.GLSLstd450UMax, true
		}
	case ast.BuiltinFuncClamp:
		switch {
		case isFloat:
			return spirv.GLSLstd450FClamp, true
		case isSigned:
			return spirv.GLSLstd450SClamp, true
		default:
			return spirv.GLSLstd450UClamp, true
		}
	case ast.BuiltinFuncMix:
		return spirv.GLSLstd450FMix, true
	case ast.BuiltinFuncStep:
		return spirv.GLSLstd450Step, true
	case ast.BuiltinFuncSmoothStep:
		return spirv.GLSLstd450SmoothStep, true
	case ast.BuiltinFuncSqrt:
		return spirv.GLSLstd450Sqrt, true
	case ast.BuiltinFuncInverseSqrt:
		return spirv.GLSLstd450InverseSqrt, true
	case ast.BuiltinFuncPow:
		return spirv.GLSLstd450Pow, true
	case ast.BuiltinFuncExp:
		return spirv.GLSLstd450Exp, true
	case ast.BuiltinFuncExp2:
		return spirv.GLSLstd450Exp2, true
	case ast.BuiltinFuncLog:
		return spirv.GLSLstd450Log, true
	case ast.BuiltinFuncLog2:
		return spirv.GLSLstd450Log2, true
	case ast.BuiltinFuncSin:
		return spirv.GLSLstd450Sin, true
	case ast.BuiltinFuncCos:
		return spirv.GLSLstd450Cos, true
	case ast.BuiltinFuncTan:
		return spirv.GLSLstd450Tan, true
	case ast.BuiltinFuncAsin:
		return spirv.GLSLstd450Asin, true
	case ast.BuiltinFuncAcos:
		return spirv.GLSLstd450Acos, true
	case ast.BuiltinFuncAtan:
		return spirv.GLSLstd450Atan, true
	case ast.BuiltinFuncCross:
		return spirv.GLSLstd450Cross, true
	case ast.BuiltinFuncLength:
		return spirv.GLSLstd450Length, true
	case ast.BuiltinFuncDistance:
		return spirv.GLSLstd450Distance, true
	case ast.BuiltinFuncNormalize:
		return spirv.GLSLstd450Normalize, true
	case ast.BuiltinFuncFaceForward:
		return spirv.GLSLstd450FaceForward, true
	case ast.BuiltinFuncReflect:
		return spirv.GLSLstd450Reflect, true
	case ast.BuiltinFuncRefract:
		return spirv.GLSLstd450Refract, true
	case ast.BuiltinFuncDeterminant:
		return spirv.GLSLstd450Determinant, true
	case ast.BuiltinFuncInverse:
		return spirv.GLSLstd450MatrixInverse, true
	default:
		return 0, false
	}
}

// atomicOpcode maps an atomic built-in to its core SPIR-V atomic opcode.
// atomicCompSwap is handled separately by the caller since it doesn't take
// the uniform (resultType, pointer, scope, semantics, value) shape the
// atomics below do.
func atomicOpcode(fn ast.BuiltinFunction, t ast.BasicType) spirv.OpCode {
	signed := t == ast.BasicInt
	switch fn {
	case ast.BuiltinFuncAtomicAdd:
		return spirv.OpAtomicIAdd
	case ast.BuiltinFuncAtomicAnd:
		return spirv.OpAtomicAnd
	case ast.BuiltinFuncAtomicOr:
		return spirv.OpAtomicOr
	case ast.BuiltinFuncAtomicXor:
		return spirv.OpAtomicXor
	case ast.BuiltinFuncAtomicMin:
		if signed {
			return spirv.OpAtomicSMin
		}
		return spirv.OpAtomicUMin
	case ast.BuiltinFuncAtomicMax:
		if signed {
			return spirv.OpAtomicSMax
		}
		return spirv.OpAtomicUMax
	case ast.BuiltinFuncAtomicExchange:
		return spirv.OpAtomicExchange
	default:
		panic(fmt.Sprintf("codegen: %d is not a read-modify-write atomic", fn))
	}
}
