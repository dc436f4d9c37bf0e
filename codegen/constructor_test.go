package codegen

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

func floatConst(e *Engine, v float32) uint32 {
	return e.Types.ScalarConstantID(ast.ScalarConstant{Basic: ast.BasicFloat, Bits: uint64(math.Float32bits(v))})
}

// TestConstruct_Vec4FromVec2AndScalars checks that vec4(v2, 1.0, 1.0)
// concatenates the vec2's two components with the two trailing scalars.
func TestConstruct_Vec4FromVec2AndScalars(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	synth := NewConstructorSynthesizer(engine)

	vec2Type := ast.NewVector(ast.BasicFloat, 2)
	vx := floatConst(engine, 1)
	vy := floatConst(engine, 2)
	vec2ID := engine.Types.CompositeConstantID(vec2Type, []uint32{vx, vy})

	one := floatConst(engine, 1)

	target := ast.NewVector(ast.BasicFloat, 4)
	result := synth.Construct(target, []ArgumentValue{
		{ID: vec2ID, Type: vec2Type},
		{ID: one, Type: ast.NewScalar(ast.BasicFloat)},
		{ID: one, Type: ast.NewScalar(ast.BasicFloat)},
	})
	if result == 0 {
		t.Fatalf("Construct returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpCompositeExtract] != 2 {
		t.Errorf("expected 2 OpCompositeExtract (reading v2.x, v2.y), got %d", counts[spirv.OpCompositeExtract])
	}
	if counts[spirv.OpCompositeConstruct] != 1 {
		t.Errorf("expected 1 OpCompositeConstruct (the vec4 itself), got %d", counts[spirv.OpCompositeConstruct])
	}
}

// TestConstruct_Vec2TruncatesVec3 checks that vec2(v3)
// drops the trailing component via a vector shuffle rather than extracting
// and reassembling.
func TestConstruct_Vec2TruncatesVec3(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	synth := NewConstructorSynthesizer(engine)

	vec3Type := ast.NewVector(ast.BasicFloat, 3)
	components := []uint32{floatConst(engine, 1), floatConst(engine, 2), floatConst(engine, 3)}
	vec3ID := engine.Types.CompositeConstantID(vec3Type, components)

	target := ast.NewVector(ast.BasicFloat, 2)
	result := synth.Construct(target, []ArgumentValue{{ID: vec3ID, Type: vec3Type}})
	if result == 0 {
		t.Fatalf("Construct returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpVectorShuffle] != 1 {
		t.Errorf("expected 1 OpVectorShuffle (truncation), got %d", counts[spirv.OpVectorShuffle])
	}
	if counts[spirv.OpCompositeExtract] != 0 {
		t.Errorf("truncation should not extract components, got %d OpCompositeExtract", counts[spirv.OpCompositeExtract])
	}
}

// TestConstruct_Vec3FromScalarBroadcast checks that vec3(0.0) broadcasts
// the single scalar argument to all three components, rather than handing
// OpCompositeConstruct a single operand against a 3-component result type.
func TestConstruct_Vec3FromScalarBroadcast(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	synth := NewConstructorSynthesizer(engine)

	zero := floatConst(engine, 0)
	target := ast.NewVector(ast.BasicFloat, 3)
	result := synth.Construct(target, []ArgumentValue{{ID: zero, Type: ast.NewScalar(ast.BasicFloat)}})
	if result == 0 {
		t.Fatalf("Construct returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	if counts[spirv.OpCompositeConstruct] != 1 {
		t.Errorf("expected 1 OpCompositeConstruct, got %d", counts[spirv.OpCompositeConstruct])
	}

	for i := 5 * 4; i < len(out); {
		head := binary.LittleEndian.Uint32(out[i : i+4])
		wordCount := int(head >> 16)
		opcode := spirv.OpCode(head & 0xffff)
		if opcode == spirv.OpCompositeConstruct {
			// result type, result id, then N component operands.
			if got := wordCount - 3; got != 3 {
				t.Errorf("expected OpCompositeConstruct with 3 component operands, got %d", got)
			}
		}
		i += wordCount * 4
	}
}

// TestConstruct_Mat3FromScalar is scenario S4: mat3(2.0) builds a diagonal
// matrix scaled by 2.0, identity (zero off-diagonal) elsewhere.
func TestConstruct_Mat3FromScalar(t *testing.T) {
	builder := spirv.NewBuilder(spirv.Version1_3)
	engine := NewEngine(builder)
	synth := NewConstructorSynthesizer(engine)

	diag := floatConst(engine, 2)
	target := ast.NewMatrix(ast.BasicFloat, 3, 3)
	result := synth.Construct(target, []ArgumentValue{{ID: diag, Type: ast.NewScalar(ast.BasicFloat)}})
	if result == 0 {
		t.Fatalf("Construct returned zero id")
	}

	out := builder.Module.Build()
	counts := opcodeCounts(t, out)
	// 3 column OpCompositeConstruct + 1 to assemble the matrix from columns.
	if counts[spirv.OpCompositeConstruct] != 4 {
		t.Errorf("expected 4 OpCompositeConstruct (3 columns + 1 matrix), got %d", counts[spirv.OpCompositeConstruct])
	}
}
