package codegen

import (
	"testing"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// ifElseModule builds:
//
//	void main() { if (cond) { return; } else { return; } }
func ifElseModule() *ast.Module {
	const (
		mainSym ast.SymbolID = 1
		condSym ast.SymbolID = 2
	)
	boolType := ast.NewScalar(ast.BasicBool)

	ifElse := &ast.Node{Kind: ast.IfElse{
		Condition: &ast.Node{Type: boolType, Kind: ast.Symbol{ID: condSym}},
		Accept:    &ast.Node{Kind: ast.Block{Statements: []*ast.Node{{Kind: ast.Branch{Kind: ast.BranchReturn}}}}},
		Reject:    &ast.Node{Kind: ast.Block{Statements: []*ast.Node{{Kind: ast.Branch{Kind: ast.BranchReturn}}}}},
	}}

	def := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{
			Symbol:     mainSym,
			Name:       "main",
			ReturnType: ast.NewScalar(ast.BasicVoid),
			Parameters: []ast.Parameter{{Symbol: condSym, Type: boolType, Qualifier: ast.QualifierIn}},
		},
		Body: &ast.Node{Kind: ast.Block{Statements: []*ast.Node{ifElse}}},
	}}

	return &ast.Module{Functions: []*ast.Node{def}}
}

func TestCompile_IfElse(t *testing.T) {
	backend := NewBackend(spirv.DefaultOptions())
	out, err := backend.Compile(ifElseModule())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	counts := opcodeCounts(t, out)
	if counts[spirv.OpSelectionMerge] != 1 {
		t.Errorf("expected 1 OpSelectionMerge, got %d", counts[spirv.OpSelectionMerge])
	}
	if counts[spirv.OpBranchConditional] != 1 {
		t.Errorf("expected 1 OpBranchConditional, got %d", counts[spirv.OpBranchConditional])
	}
	if counts[spirv.OpReturn] != 3 {
		t.Errorf("expected 3 OpReturn (one per branch, plus the closing OpReturn of the merge block), got %d", counts[spirv.OpReturn])
	}
}

// whileLoopModule builds: void main() { while (cond) { } }
func whileLoopModule() *ast.Module {
	const (
		mainSym ast.SymbolID = 1
		condSym ast.SymbolID = 2
	)
	boolType := ast.NewScalar(ast.BasicBool)

	loop := &ast.Node{Kind: ast.Loop{
		Kind:      ast.LoopWhile,
		Condition: &ast.Node{Type: boolType, Kind: ast.Symbol{ID: condSym}},
		Body:      &ast.Node{Kind: ast.Block{}},
	}}

	def := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{
			Symbol:     mainSym,
			Name:       "main",
			ReturnType: ast.NewScalar(ast.BasicVoid),
			Parameters: []ast.Parameter{{Symbol: condSym, Type: boolType, Qualifier: ast.QualifierIn}},
		},
		Body: &ast.Node{Kind: ast.Block{Statements: []*ast.Node{loop}}},
	}}

	return &ast.Module{Functions: []*ast.Node{def}}
}

func TestCompile_WhileLoop(t *testing.T) {
	backend := NewBackend(spirv.DefaultOptions())
	out, err := backend.Compile(whileLoopModule())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	counts := opcodeCounts(t, out)
	if counts[spirv.OpLoopMerge] != 1 {
		t.Errorf("expected 1 OpLoopMerge, got %d", counts[spirv.OpLoopMerge])
	}
	// the only conditional branch is the check block's test of cond, to the
	// body or the merge block; the other branches are unconditional.
	if counts[spirv.OpBranchConditional] != 1 {
		t.Errorf("expected 1 OpBranchConditional (the loop condition test), got %d", counts[spirv.OpBranchConditional])
	}
}

// switchModule builds:
//
//	void main() { switch (s) { case 1: break; case 2: break; default: break; } }
func switchModule() *ast.Module {
	const (
		mainSym ast.SymbolID = 1
		selSym  ast.SymbolID = 2
	)
	intType := ast.NewScalar(ast.BasicInt)

	breakStmt := &ast.Node{Kind: ast.Branch{Kind: ast.BranchBreak}}
	sw := &ast.Node{Kind: ast.Switch{
		Selector: &ast.Node{Type: intType, Kind: ast.Symbol{ID: selSym}},
		Cases: []*ast.Case{
			{Value: ast.SwitchInt(1), Body: &ast.Node{Kind: ast.Block{Statements: []*ast.Node{breakStmt}}}},
			{Value: ast.SwitchInt(2), Body: &ast.Node{Kind: ast.Block{Statements: []*ast.Node{breakStmt}}}},
			{Value: ast.SwitchDefault{}, Body: &ast.Node{Kind: ast.Block{Statements: []*ast.Node{breakStmt}}}},
		},
	}}

	// each case's break exits to the switch's own merge block (a switch
	// scope is breakable); the loop around the switch gives the break that
	// follows it a target too, exercising the shared break-target machinery.
	loop := &ast.Node{Kind: ast.Loop{
		Kind: ast.LoopWhile,
		Body: &ast.Node{Kind: ast.Block{Statements: []*ast.Node{sw, {Kind: ast.Branch{Kind: ast.BranchBreak}}}}},
	}}

	def := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{
			Symbol:     mainSym,
			Name:       "main",
			ReturnType: ast.NewScalar(ast.BasicVoid),
			Parameters: []ast.Parameter{{Symbol: selSym, Type: intType, Qualifier: ast.QualifierIn}},
		},
		Body: &ast.Node{Kind: ast.Block{Statements: []*ast.Node{loop}}},
	}}

	return &ast.Module{Functions: []*ast.Node{def}}
}

func TestCompile_Switch(t *testing.T) {
	backend := NewBackend(spirv.DefaultOptions())
	out, err := backend.Compile(switchModule())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	counts := opcodeCounts(t, out)
	if counts[spirv.OpSwitch] != 1 {
		t.Errorf("expected 1 OpSwitch, got %d", counts[spirv.OpSwitch])
	}
	if counts[spirv.OpSelectionMerge] != 1 {
		t.Errorf("expected 1 OpSelectionMerge for the switch, got %d", counts[spirv.OpSelectionMerge])
	}
}
