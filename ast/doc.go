// Package ast defines the validated, type-checked syntax tree that the
// generator consumes.
//
// A tree of this shape is assumed to be handed to the generator by an
// external parser and semantic analyzer: identifiers are already resolved to
// SymbolIDs, types are fully resolved, qualifiers are attached, and constant
// sub-expressions are pre-folded into Constant nodes. This package does not
// parse source text or perform semantic analysis; it only describes the
// shape of an already-validated tree.
//
// # Structure
//
// Every Node carries its semantic Type, Qualifier and, for buffer-backed
// values, BlockLayout alongside a Kind payload that holds the node-specific
// children (expression.go) or side effects (statement.go). A Module is the
// root: a list of global declarations and function definitions.
//
// # References
//
// The node shapes mirror the GLSL-family AST consumed by GPU shader
// compilers feeding a SPIR-V backend (symbol reference, constant, swizzle,
// binary/unary/ternary, control flow, function prototype/definition,
// aggregate construction and calls).
package ast
