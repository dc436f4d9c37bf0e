// Package spirv provides the low-level SPIR-V binary module model: the
// instruction encoder, the section-ordered module builder, and the opcode
// and enumerant tables the rest of the generator emits against.
//
// This package knows nothing about shading-language semantics. It is the
// mechanical half of code generation: interned ids, section placement, word
// encoding. The codegen package drives it.
package spirv

// Version identifies a target SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions.
var (
	Version1_0 = Version{1, 0}
	Version1_1 = Version{1, 1}
	Version1_2 = Version{1, 2}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word encodes major/minor into the packed version word SPIR-V stores in
// its header: 0 | major | minor | 0.
func (v Version) Word() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)<<8
}

// Options configures module-level generation policy that does not belong to
// any single shading-language construct: target version, whether to emit
// debug names, and a handful of shader-wide decoration policies.
// codegen.Backend reads Version, Capabilities and DebugInfo. InvariantAll,
// SelectViewportIndex, EmitNoContractionOnExact and
// HoistPrecisionQualifiers are carried here, but nothing in the generator
// reads them, so setting them changes no output.
type Options struct {
	Version Version

	// Capabilities are additional capabilities to declare beyond the ones
	// the generator infers are required by the module's constructs.
	Capabilities []Capability

	// DebugInfo emits an OpName for each named function. Struct, member and
	// temporary-variable names are emitted whatever its value; no OpSource
	// is emitted.
	DebugInfo bool

	// InvariantAll names the policy of decorating every output variable
	// Invariant. Not read by the generator.
	InvariantAll bool

	// SelectViewportIndex names the policy of forwarding gl_ViewIndex to a
	// matching vertex output for multiview rendering. Not read by the
	// generator.
	SelectViewportIndex bool

	// EmitNoContractionOnExact names the policy of adding a NoContraction
	// decoration to arithmetic marked exact/precise in source. Not read by
	// the generator.
	EmitNoContractionOnExact bool

	// HoistPrecisionQualifiers names the policy of turning precision
	// qualifiers into RelaxedPrecision decorations. Not read by the
	// generator.
	HoistPrecisionQualifiers bool
}

// DefaultOptions returns sensible default options: SPIR-V 1.3 (Vulkan 1.1
// baseline), no debug info.
func DefaultOptions() Options {
	return Options{
		Version: Version1_3,
	}
}

// Capability names a SPIR-V capability declared with OpCapability.
type Capability uint32

const (
	CapabilityMatrix                Capability = 0
	CapabilityShader                Capability = 1
	CapabilityGeometry               Capability = 2
	CapabilityTessellation           Capability = 3
	CapabilityFloat64                Capability = 10
	CapabilityInt64                  Capability = 11
	CapabilityInt64Atomics           Capability = 12
	CapabilityInt16                  Capability = 22
	CapabilityImageQuery             Capability = 50
	CapabilityDerivativeControl      Capability = 51
	CapabilitySampled1D              Capability = 43
	CapabilitySampledBuffer          Capability = 46
	CapabilityStorageImageExtendedFormats Capability = 49
	CapabilityMultiViewport          Capability = 57
	CapabilityAtomicStorage          Capability = 21
	CapabilityStorageImageWriteWithoutFormat Capability = 56
)

// MagicNumber is the fixed SPIR-V module header magic.
const MagicNumber = 0x07230203

// GeneratorID identifies this tool as the module's generator. 0 is the
// unregistered-tool value; a real magic number would need registration
// with Khronos.
const GeneratorID = 0

// OpCode is a SPIR-V instruction opcode.
type OpCode uint16

// Instruction opcodes, in the order the SPIR-V specification lists them.
const (
	OpNop                     OpCode = 0
	OpUndef                   OpCode = 1
	OpSourceContinued         OpCode = 2
	OpSource                  OpCode = 3
	OpSourceExtension         OpCode = 4
	OpName                    OpCode = 5
	OpMemberName              OpCode = 6
	OpString                  OpCode = 7
	OpLine                    OpCode = 8
	OpExtension               OpCode = 10
	OpExtInstImport           OpCode = 11
	OpExtInst                 OpCode = 12
	OpMemoryModel             OpCode = 14
	OpEntryPoint              OpCode = 15
	OpExecutionMode           OpCode = 16
	OpCapability              OpCode = 17
	OpTypeVoid                OpCode = 19
	OpTypeBool                OpCode = 20
	OpTypeInt                 OpCode = 21
	OpTypeFloat               OpCode = 22
	OpTypeVector              OpCode = 23
	OpTypeMatrix              OpCode = 24
	OpTypeImage               OpCode = 25
	OpTypeSampler             OpCode = 26
	OpTypeSampledImage        OpCode = 27
	OpTypeArray               OpCode = 28
	OpTypeRuntimeArray        OpCode = 29
	OpTypeStruct              OpCode = 30
	OpTypePointer             OpCode = 32
	OpTypeFunction            OpCode = 33
	OpConstantTrue            OpCode = 41
	OpConstantFalse           OpCode = 42
	OpConstant                OpCode = 43
	OpConstantComposite       OpCode = 44
	OpConstantNull            OpCode = 46
	OpFunction                OpCode = 54
	OpFunctionParameter       OpCode = 55
	OpFunctionEnd             OpCode = 56
	OpFunctionCall            OpCode = 57
	OpVariable                OpCode = 59
	OpImageTexelPointer       OpCode = 60
	OpLoad                    OpCode = 61
	OpStore                   OpCode = 62
	OpAccessChain             OpCode = 65
	OpDecorate                OpCode = 71
	OpMemberDecorate          OpCode = 72
	OpVectorExtractDynamic    OpCode = 77
	OpVectorInsertDynamic     OpCode = 78
	OpVectorShuffle           OpCode = 79
	OpCompositeConstruct      OpCode = 80
	OpCompositeExtract        OpCode = 81
	OpCompositeInsert         OpCode = 82
	OpTranspose               OpCode = 84
	OpImageSampleImplicitLod  OpCode = 87
	OpImageSampleExplicitLod  OpCode = 88
	OpImageSampleDrefImplicitLod OpCode = 89
	OpImageSampleDrefExplicitLod OpCode = 90
	OpImageFetch              OpCode = 95
	OpImage                   OpCode = 100
	OpImageQuerySizeLod       OpCode = 103
	OpImageQuerySize          OpCode = 104
	OpImageQueryLod           OpCode = 105
	OpImageQueryLevels        OpCode = 106
	OpImageQuerySamples       OpCode = 107
	OpConvertFToU             OpCode = 109
	OpConvertFToS             OpCode = 110
	OpConvertSToF             OpCode = 111
	OpConvertUToF             OpCode = 112
	OpUConvert                OpCode = 113
	OpSConvert                OpCode = 114
	OpFConvert                OpCode = 115
	OpBitcast                 OpCode = 124
	OpSNegate                 OpCode = 126
	OpFNegate                 OpCode = 127
	OpIAdd                    OpCode = 128
	OpFAdd                    OpCode = 129
	OpISub                    OpCode = 130
	OpFSub                    OpCode = 131
	OpIMul                    OpCode = 132
	OpFMul                    OpCode = 133
	OpUDiv                    OpCode = 134
	OpSDiv                    OpCode = 135
	OpFDiv                    OpCode = 136
	OpUMod                    OpCode = 137
	OpSRem                    OpCode = 138
	OpSMod                    OpCode = 139
	OpFRem                    OpCode = 140
	OpFMod                    OpCode = 141
	OpVectorTimesScalar       OpCode = 142
	OpMatrixTimesScalar       OpCode = 143
	OpVectorTimesMatrix       OpCode = 144
	OpMatrixTimesVector       OpCode = 145
	OpMatrixTimesMatrix       OpCode = 146
	OpOuterProduct            OpCode = 147
	OpDot                     OpCode = 148
	OpIAddCarry               OpCode = 149
	OpISubBorrow              OpCode = 150
	OpAny                     OpCode = 154
	OpAll                     OpCode = 155
	OpIsNan                   OpCode = 156
	OpIsInf                   OpCode = 157
	OpLogicalEqual            OpCode = 164
	OpLogicalNotEqual         OpCode = 165
	OpLogicalOr               OpCode = 166
	OpLogicalAnd              OpCode = 167
	OpLogicalNot              OpCode = 168
	OpSelect                  OpCode = 169
	OpIEqual                  OpCode = 170
	OpINotEqual               OpCode = 171
	OpUGreaterThan            OpCode = 172
	OpSGreaterThan            OpCode = 173
	OpUGreaterThanEqual       OpCode = 174
	OpSGreaterThanEqual       OpCode = 175
	OpULessThan               OpCode = 176
	OpSLessThan               OpCode = 177
	OpULessThanEqual          OpCode = 178
	OpSLessThanEqual          OpCode = 179
	OpFOrdEqual               OpCode = 180
	OpFUnordEqual             OpCode = 181
	OpFOrdNotEqual            OpCode = 182
	OpFUnordNotEqual          OpCode = 183
	OpFOrdLessThan            OpCode = 184
	OpFUnordLessThan          OpCode = 185
	OpFOrdGreaterThan         OpCode = 186
	OpFUnordGreaterThan       OpCode = 187
	OpFOrdLessThanEqual       OpCode = 188
	OpFUnordLessThanEqual     OpCode = 189
	OpFOrdGreaterThanEqual    OpCode = 190
	OpFUnordGreaterThanEqual  OpCode = 191
	OpShiftRightLogical       OpCode = 194
	OpShiftRightArithmetic    OpCode = 195
	OpShiftLeftLogical        OpCode = 196
	OpBitwiseOr               OpCode = 197
	OpBitwiseXor              OpCode = 198
	OpBitwiseAnd              OpCode = 199
	OpNot                     OpCode = 200
	OpBitFieldInsert          OpCode = 201
	OpBitFieldSExtract        OpCode = 202
	OpBitFieldUExtract        OpCode = 203
	OpBitReverse              OpCode = 204
	OpBitCount                OpCode = 205
	OpDPdx                    OpCode = 207
	OpDPdy                    OpCode = 208
	OpFwidth                  OpCode = 209
	OpDPdxFine                OpCode = 210
	OpDPdyFine                OpCode = 211
	OpFwidthFine              OpCode = 212
	OpDPdxCoarse              OpCode = 213
	OpDPdyCoarse              OpCode = 214
	OpFwidthCoarse            OpCode = 215
	OpControlBarrier          OpCode = 224
	OpMemoryBarrier           OpCode = 225
	OpAtomicLoad              OpCode = 227
	OpAtomicStore             OpCode = 228
	OpAtomicExchange          OpCode = 229
	OpAtomicCompareExchange   OpCode = 230
	OpAtomicIIncrement        OpCode = 232
	OpAtomicIDecrement        OpCode = 233
	OpAtomicIAdd              OpCode = 234
	OpAtomicISub              OpCode = 235
	OpAtomicSMin              OpCode = 236
	OpAtomicUMin              OpCode = 237
	OpAtomicSMax              OpCode = 238
	OpAtomicUMax              OpCode = 239
	OpAtomicAnd               OpCode = 240
	OpAtomicOr                OpCode = 241
	OpAtomicXor               OpCode = 242
	OpPhi                     OpCode = 245
	OpLoopMerge               OpCode = 246
	OpSelectionMerge          OpCode = 247
	OpLabel                   OpCode = 248
	OpBranch                  OpCode = 249
	OpBranchConditional       OpCode = 250
	OpSwitch                  OpCode = 251
	OpKill                    OpCode = 252
	OpReturn                  OpCode = 253
	OpReturnValue             OpCode = 254
	OpUnreachable             OpCode = 255
	OpNoLine                  OpCode = 317
)

// Decoration names a SPIR-V decoration applied with OpDecorate or
// OpMemberDecorate.
type Decoration uint32

const (
	DecorationRelaxedPrecision Decoration = 0
	DecorationSpecId           Decoration = 1
	DecorationBlock            Decoration = 2
	DecorationBufferBlock      Decoration = 3
	DecorationRowMajor         Decoration = 4
	DecorationColMajor         Decoration = 5
	DecorationArrayStride      Decoration = 6
	DecorationMatrixStride     Decoration = 7
	DecorationGLSLShared       Decoration = 8
	DecorationGLSLPacked       Decoration = 9
	DecorationCPacked          Decoration = 10
	DecorationBuiltIn          Decoration = 11
	DecorationNoPerspective    Decoration = 13
	DecorationFlat             Decoration = 14
	DecorationPatch            Decoration = 15
	DecorationCentroid         Decoration = 16
	DecorationSample           Decoration = 17
	DecorationInvariant        Decoration = 18
	DecorationRestrict         Decoration = 19
	DecorationAliased          Decoration = 20
	DecorationVolatile         Decoration = 21
	DecorationConstant         Decoration = 22
	DecorationCoherent         Decoration = 23
	DecorationNonWritable      Decoration = 24
	DecorationNonReadable      Decoration = 25
	DecorationUniform          Decoration = 26
	DecorationNoContraction    Decoration = 42
	DecorationLocation         Decoration = 30
	DecorationComponent        Decoration = 31
	DecorationIndex            Decoration = 32
	DecorationBinding          Decoration = 33
	DecorationDescriptorSet    Decoration = 34
	DecorationOffset           Decoration = 35
)

// StorageClass names the address space a pointer type or variable lives in.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassPushConstant    StorageClass = 9
	StorageClassStorageBuffer   StorageClass = 12
	// StorageClassMax is a sentinel used by the access chain engine to mark
	// a synthesis record as an rvalue: an access chain has a real storage
	// class only once it denotes an addressable location.
	StorageClassMax StorageClass = 0x7fffffff
)

// ExecutionModel names the shader stage OpEntryPoint targets.
type ExecutionModel uint32

const (
	ExecutionModelVertex   ExecutionModel = 0
	ExecutionModelFragment ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// ExecutionMode configures stage-specific execution behavior.
type ExecutionMode uint32

const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeDepthReplacing  ExecutionMode = 12
	ExecutionModeLocalSize       ExecutionMode = 17
)

// AddressingModel names the module's pointer addressing model. Shaders
// always use Logical: pointers are opaque handles, not integers.
type AddressingModel uint32

const AddressingModelLogical AddressingModel = 0

// MemoryModel names the module's memory model.
type MemoryModel uint32

const (
	MemoryModelSimple MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
)

// SelectionControl hints the compiler about an OpSelectionMerge's branches.
type SelectionControl uint32

const SelectionControlNone SelectionControl = 0

// LoopControl hints the compiler about an OpLoopMerge's iteration behavior.
type LoopControl uint32

const LoopControlNone LoopControl = 0

// FunctionControl hints the compiler about a function's inlining behavior.
type FunctionControl uint32

const FunctionControlNone FunctionControl = 0

// MemoryScope names the scope an atomic or barrier operation applies to.
type MemoryScope uint32

const (
	ScopeCrossDevice MemoryScope = 0
	ScopeDevice      MemoryScope = 1
	ScopeWorkgroup   MemoryScope = 2
	ScopeInvocation  MemoryScope = 4
)

// MemorySemantics names the ordering and visibility guarantees of an atomic
// operation.
type MemorySemantics uint32

const (
	MemorySemanticsRelaxed             MemorySemantics = 0x0
	MemorySemanticsUniformMemory       MemorySemantics = 0x40
	MemorySemanticsWorkgroupMemory     MemorySemantics = 0x100
	MemorySemanticsImageMemory         MemorySemantics = 0x800
)

// BuiltIn names a SPIR-V built-in variable, set via a BuiltIn decoration.
type BuiltIn uint32

const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInVertexId             BuiltIn = 5
	BuiltInInstanceId           BuiltIn = 6
	BuiltInFragCoord            BuiltIn = 15
	BuiltInFrontFacing          BuiltIn = 17
	BuiltInSampleId             BuiltIn = 18
	BuiltInSamplePosition       BuiltIn = 19
	BuiltInSampleMask           BuiltIn = 20
	BuiltInFragDepth            BuiltIn = 22
	BuiltInNumWorkgroups        BuiltIn = 24
	BuiltInWorkgroupId          BuiltIn = 26
	BuiltInLocalInvocationId    BuiltIn = 27
	BuiltInGlobalInvocationId   BuiltIn = 28
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43
)

// Dim names a SPIR-V image dimensionality.
type Dim uint32

const (
	Dim1D     Dim = 0
	Dim2D     Dim = 1
	Dim3D     Dim = 2
	DimCube   Dim = 3
	DimBuffer Dim = 5
)

// ImageFormat names a SPIR-V storage image texel format.
type ImageFormat uint32

const ImageFormatUnknown ImageFormat = 0

// GLSLstd450 names an instruction number in the GLSL.std.450 extended
// instruction set, imported via OpExtInstImport and invoked with OpExtInst.
type GLSLstd450 uint32

const (
	GLSLstd450Round          GLSLstd450 = 1
	GLSLstd450Trunc          GLSLstd450 = 3
	GLSLstd450FAbs           GLSLstd450 = 4
	GLSLstd450SAbs           GLSLstd450 = 5
	GLSLstd450FSign          GLSLstd450 = 6
	GLSLstd450SSign          GLSLstd450 = 7
	GLSLstd450Floor          GLSLstd450 = 8
	GLSLstd450Ceil           GLSLstd450 = 9
	GLSLstd450Fract          GLSLstd450 = 10
	GLSLstd450Radians        GLSLstd450 = 11
	GLSLstd450Degrees        GLSLstd450 = 12
	GLSLstd450Sin            GLSLstd450 = 13
	GLSLstd450Cos            GLSLstd450 = 14
	GLSLstd450Tan            GLSLstd450 = 15
	GLSLstd450Asin           GLSLstd450 = 16
	GLSLstd450Acos           GLSLstd450 = 17
	GLSLstd450Atan           GLSLstd450 = 18
	GLSLstd450Sinh           GLSLstd450 = 19
	GLSLstd450Cosh           GLSLstd450 = 20
	GLSLstd450Tanh           GLSLstd450 = 21
	GLSLstd450Asinh          GLSLstd450 = 22
	GLSLstd450Acosh          GLSLstd450 = 23
	GLSLstd450Atanh          GLSLstd450 = 24
	GLSLstd450Atan2          GLSLstd450 = 25
	GLSLstd450Pow            GLSLstd450 = 26
	GLSLstd450Exp            GLSLstd450 = 27
	GLSLstd450Log            GLSLstd450 = 28
	GLSLstd450Exp2           GLSLstd450 = 29
	GLSLstd450Log2           GLSLstd450 = 30
	GLSLstd450Sqrt           GLSLstd450 = 31
	GLSLstd450InverseSqrt    GLSLstd450 = 32
	GLSLstd450Determinant    GLSLstd450 = 33
	GLSLstd450MatrixInverse  GLSLstd450 = 34
	GLSLstd450FMin           GLSLstd450 = 37
	GLSLstd450UMin           GLSLstd450 = 38
	GLSLstd450SMin           GLSLstd450 = 39
	GLSLstd450FMax           GLSLstd450 = 40
	GLSLstd450UMax           GLSLstd450 = 41
	GLSLstd450SMax           GLSLstd450 = 42
	GLSLstd450FClamp         GLSLstd450 = 43
	GLSLstd450UClamp         GLSLstd450 = 44
	GLSLstd450SClamp         GLSLstd450 = 45
	GLSLstd450FMix           GLSLstd450 = 46
	GLSLstd450Step           GLSLstd450 = 48
	GLSLstd450SmoothStep     GLSLstd450 = 49
	GLSLstd450Fma            GLSLstd450 = 50
	GLSLstd450Length         GLSLstd450 = 66
	GLSLstd450Distance       GLSLstd450 = 67
	GLSLstd450Cross          GLSLstd450 = 68
	GLSLstd450Normalize      GLSLstd450 = 69
	GLSLstd450FaceForward    GLSLstd450 = 70
	GLSLstd450Reflect        GLSLstd450 = 71
	GLSLstd450Refract        GLSLstd450 = 72
	GLSLstd450NMin           GLSLstd450 = 79
	GLSLstd450NMax           GLSLstd450 = 80
	GLSLstd450NClamp         GLSLstd450 = 81
)
