package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/codegen"
	"github.com/gogpu/spirvgen/spirv"
)

// TestDisassemble_RoundTripsGeneratorOutput feeds a module compiled by the
// generator straight into Disassemble, the way nagac's own output would be
// inspected without a separate spirv-dis binary.
func TestDisassemble_RoundTripsGeneratorOutput(t *testing.T) {
	const mainSym ast.SymbolID = 1
	def := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{
			Symbol:     mainSym,
			Name:       "main",
			ReturnType: ast.NewScalar(ast.BasicVoid),
		},
		Body: &ast.Node{Kind: ast.Block{}},
	}}
	module := &ast.Module{
		Functions:   []*ast.Node{def},
		EntryPoints: []ast.EntryPoint{{Name: "main", Stage: ast.StageVertex, Function: mainSym}},
	}

	backend := codegen.NewBackend(spirv.DefaultOptions())
	spirvBytes, err := backend.Compile(module)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	var out bytes.Buffer
	if err := Disassemble(&out, spirvBytes); err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"; SPIR-V", "OpEntryPoint", "OpFunction", "OpLabel", "OpReturn", "OpFunctionEnd"} {
		if !strings.Contains(text, want) {
			t.Errorf("disassembly missing %q:\n%s", want, text)
		}
	}
}

// TestDisassemble_RejectsBadMagic checks the header validation path a
// corrupt or truncated module hits.
func TestDisassemble_RejectsBadMagic(t *testing.T) {
	bad := make([]byte, 20)
	var out bytes.Buffer
	if err := Disassemble(&out, bad); err == nil {
		t.Fatalf("expected an error for a zeroed header, got none")
	}
}

// TestDisassemble_RejectsShortInput checks the length guard ahead of the
// magic-number check.
func TestDisassemble_RejectsShortInput(t *testing.T) {
	var out bytes.Buffer
	if err := Disassemble(&out, []byte{1, 2, 3}); err == nil {
		t.Fatalf("expected an error for a too-short input, got none")
	}
}
