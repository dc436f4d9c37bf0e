package main

import "github.com/gogpu/spirvgen/ast"

// This module has no AST-producing front end of its own (§1 of SPEC_FULL.md
// excludes a parser as an external collaborator), so the CLI drives the
// generator from these hand-built fixture modules rather than from shader
// source text. Each mirrors one of the concrete scenarios the generator's
// tests are built against.
var fixtures = map[string]func() *ast.Module{
	"empty-main":  emptyMainFixture,
	"passthrough": passthroughFixture,
}

// emptyMainFixture is scenario S1: a single vertex entry point with an
// empty body.
func emptyMainFixture() *ast.Module {
	const mainSym ast.SymbolID = 1

	body := &ast.Node{Kind: ast.Block{}}
	def := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{
			Symbol:     mainSym,
			Name:       "main",
			ReturnType: ast.NewScalar(ast.BasicVoid),
		},
		Body: body,
	}}

	return &ast.Module{
		Functions: []*ast.Node{def},
		EntryPoints: []ast.EntryPoint{
			{Name: "main", Stage: ast.StageVertex, Function: mainSym},
		},
	}
}

// passthroughFixture is scenario S2:
//
//	layout(location=0) in vec4 v;
//	layout(location=0) out vec4 o;
//	void main() { o = v; }
func passthroughFixture() *ast.Module {
	const (
		inSym   ast.SymbolID = 1
		outSym  ast.SymbolID = 2
		mainSym ast.SymbolID = 3
	)

	vec4 := ast.NewVector(ast.BasicFloat, 4)

	inDecl := &ast.Node{Kind: ast.Declaration{
		Symbol:    inSym,
		Type:      vec4,
		Qualifier: ast.QualifierIn,
	}, Type: vec4, Qualifier: ast.QualifierIn}

	outDecl := &ast.Node{Kind: ast.Declaration{
		Symbol:    outSym,
		Type:      vec4,
		Qualifier: ast.QualifierOut,
	}, Type: vec4, Qualifier: ast.QualifierOut}

	assign := &ast.Node{
		Type: vec4,
		Kind: ast.Binary{
			Op:    ast.OpAssign,
			Left:  &ast.Node{Type: vec4, Qualifier: ast.QualifierOut, Kind: ast.Symbol{ID: outSym}},
			Right: &ast.Node{Type: vec4, Qualifier: ast.QualifierIn, Kind: ast.Symbol{ID: inSym}},
		},
	}

	body := &ast.Node{Kind: ast.Block{Statements: []*ast.Node{assign}}}
	def := &ast.Node{Kind: ast.FunctionDefinition{
		Prototype: &ast.FunctionPrototype{
			Symbol:     mainSym,
			Name:       "main",
			ReturnType: ast.NewScalar(ast.BasicVoid),
		},
		Body: body,
	}}

	return &ast.Module{
		Globals:   []*ast.Node{inDecl, outDecl},
		Functions: []*ast.Node{def},
		EntryPoints: []ast.EntryPoint{
			{Name: "main", Stage: ast.StageFragment, Function: mainSym},
		},
	}
}
