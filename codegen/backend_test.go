package codegen

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// opcodeCounts decodes a SPIR-V word stream's instruction section (skipping
// the 5-word header) and tallies how many instructions use each opcode, the
// way a test checking "does this module contain an OpEntryPoint" needs
// without a full disassembler.
func opcodeCounts(t *testing.T, words []byte) map[spirv.OpCode]int {
	t.Helper()
	if len(words)%4 != 0 {
		t.Fatalf("word stream length %d is not a multiple of 4", len(words))
	}
	counts := make(map[spirv.OpCode]int)
	for i := 5 * 4; i < len(words); {
		head := binary.LittleEndian.Uint32(words[i : i+4])
		wordCount := head >> 16
		opcode := spirv.OpCode(head & 0xffff)
		if wordCount == 0 {
			t.Fatalf("zero-length instruction at word offset %d", i/4)
		}
		counts[opcode]++
		i += int(wordCount) * 4
	}
	return counts
}

func checkHeader(t *testing.T, words []byte) {
	t.Helper()
	if len(words) < 20 {
		t.Fatalf("module too short: %d bytes", len(words))
	}
	magic := binary.LittleEndian.Uint32(words[0:4])
	if magic != spirv.MagicNumber {
		t.Fatalf("bad magic: got 0x%08x want 0x%08x", magic, spirv.MagicNumber)
	}
}

func emptyMainModule() *ast.Module {
	const mainSym ast.SymbolID = 1
	def := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{
			Symbol:     mainSym,
			Name:       "main",
			ReturnType: ast.NewScalar(ast.BasicVoid),
		},
		Body: &ast.Node{Kind: ast.Block{}},
	}}
	return &ast.Module{
		Functions:   []*ast.Node{def},
		EntryPoints: []ast.EntryPoint{{Name: "main", Stage: ast.StageVertex, Function: mainSym}},
	}
}

// TestCompile_EmptyMain is scenario S1: a module containing OpEntryPoint
// "main", a single function whose body is just OpReturn, OpFunctionEnd.
func TestCompile_EmptyMain(t *testing.T) {
	backend := NewBackend(spirv.DefaultOptions())
	out, err := backend.Compile(emptyMainModule())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	checkHeader(t, out)

	counts := opcodeCounts(t, out)
	for _, op := range []spirv.OpCode{spirv.OpEntryPoint, spirv.OpFunction, spirv.OpLabel, spirv.OpReturn, spirv.OpFunctionEnd} {
		if counts[op] != 1 {
			t.Errorf("opcode %d: got %d instances, want 1 (%v)", op, counts[op], counts)
		}
	}
}

// TestCompile_Determinism checks universal property 2: compiling the same
// module twice produces byte-identical output.
func TestCompile_Determinism(t *testing.T) {
	a, err := NewBackend(spirv.DefaultOptions()).Compile(emptyMainModule())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	b, err := NewBackend(spirv.DefaultOptions()).Compile(emptyMainModule())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Compile(module) not deterministic (-first +second):\n%s", diff)
	}
}

// passthroughModule is scenario S2:
//
//	layout(location=0) in vec4 v; layout(location=0) out vec4 o;
//	void main() { o = v; }
func passthroughModule() *ast.Module {
	const (
		inSym   ast.SymbolID = 1
		outSym  ast.SymbolID = 2
		mainSym ast.SymbolID = 3
	)
	vec4 := ast.NewVector(ast.BasicFloat, 4)

	inDecl := &ast.Node{
		Type: vec4, Qualifier: ast.QualifierIn,
		Kind: ast.Declaration{Symbol: inSym, Type: vec4, Qualifier: ast.QualifierIn},
	}
	outDecl := &ast.Node{
		Type: vec4, Qualifier: ast.QualifierOut,
		Kind: ast.Declaration{Symbol: outSym, Type: vec4, Qualifier: ast.QualifierOut},
	}
	assign := &ast.Node{
		Type: vec4,
		Kind: ast.Binary{
			Op:    ast.OpAssign,
			Left:  &ast.Node{Type: vec4, Qualifier: ast.QualifierOut, Kind: ast.Symbol{ID: outSym}},
			Right: &ast.Node{Type: vec4, Qualifier: ast.QualifierIn, Kind: ast.Symbol{ID: inSym}},
		},
	}
	def := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{Symbol: mainSym, Name: "main", ReturnType: ast.NewScalar(ast.BasicVoid)},
		Body:      &ast.Node{Kind: ast.Block{Statements: []*ast.Node{assign}}},
	}}
	return &ast.Module{
		Globals:     []*ast.Node{inDecl, outDecl},
		Functions:   []*ast.Node{def},
		EntryPoints: []ast.EntryPoint{{Name: "main", Stage: ast.StageFragment, Function: mainSym}},
	}
}

func TestCompile_Passthrough(t *testing.T) {
	backend := NewBackend(spirv.DefaultOptions())
	out, err := backend.Compile(passthroughModule())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	checkHeader(t, out)

	counts := opcodeCounts(t, out)
	if counts[spirv.OpLoad] != 1 {
		t.Errorf("expected exactly one OpLoad (read of v), got %d", counts[spirv.OpLoad])
	}
	if counts[spirv.OpStore] != 1 {
		t.Errorf("expected exactly one OpStore (write to o), got %d", counts[spirv.OpStore])
	}
	if counts[spirv.OpDecorate] < 2 {
		t.Errorf("expected at least 2 Location decorations, got %d OpDecorate instructions", counts[spirv.OpDecorate])
	}
}

// mutualRecursionModule is scenario S9: two functions that call each other,
// checking that a call translated before its callee's body is emitted still
// resolves against a pre-reserved id.
func mutualRecursionModule() *ast.Module {
	const (
		aSym ast.SymbolID = 1
		bSym ast.SymbolID = 2
		xA   ast.SymbolID = 3
		xB   ast.SymbolID = 4
	)
	intType := ast.NewScalar(ast.BasicInt)

	protoA := &ast.FunctionPrototype{Symbol: aSym, Name: "a", ReturnType: intType,
		Parameters: []ast.Parameter{{Symbol: xA, Type: intType, Qualifier: ast.QualifierIn}}}
	protoB := &ast.FunctionPrototype{Symbol: bSym, Name: "b", ReturnType: intType,
		Parameters: []ast.Parameter{{Symbol: xB, Type: intType, Qualifier: ast.QualifierIn}}}

	callB := &ast.Node{Type: intType, Kind: ast.Aggregate{
		Callee:    ast.FunctionCallee{Function: bSym},
		Arguments: []*ast.Node{{Type: intType, Kind: ast.Symbol{ID: xA}}},
	}}
	bodyA := &ast.Node{Kind: ast.Block{Statements: []*ast.Node{
		{Kind: ast.Branch{Kind: ast.BranchReturnValue, Value: callB}},
	}}}

	callA := &ast.Node{Type: intType, Kind: ast.Aggregate{
		Callee:    ast.FunctionCallee{Function: aSym},
		Arguments: []*ast.Node{{Type: intType, Kind: ast.Symbol{ID: xB}}},
	}}
	bodyB := &ast.Node{Kind: ast.Block{Statements: []*ast.Node{
		{Kind: ast.Branch{Kind: ast.BranchReturnValue, Value: callA}},
	}}}

	defA := &ast.Node{Kind: ast.FunctionDefinition{Prototype: protoA, Body: bodyA}}
	defB := &ast.Node{Kind: ast.FunctionDefinition{Prototype: protoB, Body: bodyB}}

	return &ast.Module{Functions: []*ast.Node{defA, defB}}
}

func TestCompile_MutualRecursion(t *testing.T) {
	backend := NewBackend(spirv.DefaultOptions())
	out, err := backend.Compile(mutualRecursionModule())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	checkHeader(t, out)

	counts := opcodeCounts(t, out)
	if counts[spirv.OpFunctionCall] != 2 {
		t.Errorf("expected 2 OpFunctionCall (a calls b, b calls a), got %d", counts[spirv.OpFunctionCall])
	}
	if counts[spirv.OpFunction] != 2 {
		t.Errorf("expected 2 OpFunction, got %d", counts[spirv.OpFunction])
	}
}

// TestCompile_MultipleEntryPoints is scenario S10: one module with a vertex
// and a fragment entry point both get their own OpEntryPoint.
func TestCompile_MultipleEntryPoints(t *testing.T) {
	const (
		vsSym ast.SymbolID = 1
		fsSym ast.SymbolID = 2
	)
	voidType := ast.NewScalar(ast.BasicVoid)
	vsDef := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{Symbol: vsSym, Name: "vertex_main", ReturnType: voidType},
		Body:      &ast.Node{Kind: ast.Block{}},
	}}
	fsDef := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{Symbol: fsSym, Name: "fragment_main", ReturnType: voidType},
		Body:      &ast.Node{Kind: ast.Block{}},
	}}
	module := &ast.Module{
		Functions: []*ast.Node{vsDef, fsDef},
		EntryPoints: []ast.EntryPoint{
			{Name: "vertex_main", Stage: ast.StageVertex, Function: vsSym},
			{Name: "fragment_main", Stage: ast.StageFragment, Function: fsSym},
		},
	}

	backend := NewBackend(spirv.DefaultOptions())
	out, err := backend.Compile(module)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	counts := opcodeCounts(t, out)
	if counts[spirv.OpEntryPoint] != 2 {
		t.Errorf("expected 2 OpEntryPoint, got %d", counts[spirv.OpEntryPoint])
	}
	if counts[spirv.OpExecutionMode] != 1 {
		t.Errorf("expected 1 OpExecutionMode (OriginUpperLeft for the fragment stage), got %d", counts[spirv.OpExecutionMode])
	}
}
