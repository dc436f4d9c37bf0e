package ast

import "fmt"

// ValidationError reports one structural problem found by Validate. It is
// not a substitute for the semantic analysis the tree is assumed to have
// already passed; it catches shape mistakes a hand-built tree (as in tests)
// can introduce, not source-language errors.
type ValidationError struct {
	Message  string
	Function string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("in function %s: %s", e.Function, e.Message)
	}
	return e.Message
}

// Validator walks a Module looking for structural violations.
type Validator struct {
	module   *Module
	errors   []ValidationError
	function string
}

// Validate checks module for structural well-formedness and returns any
// violations found. A nil result means the tree is well-formed.
func Validate(module *Module) []ValidationError {
	if module == nil {
		return []ValidationError{{Message: "module is nil"}}
	}
	v := &Validator{module: module}
	v.validateModule()
	return v.errors
}

func (v *Validator) addError(format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Message:  fmt.Sprintf(format, args...),
		Function: v.function,
	})
}

func (v *Validator) validateModule() {
	seen := make(map[SymbolID]bool)
	for _, g := range v.module.Globals {
		v.validateGlobal(g, seen)
	}
	for _, f := range v.module.Functions {
		v.validateFunction(f)
	}
	for _, ep := range v.module.EntryPoints {
		if ep.Name == "" {
			v.addError("entry point has empty name")
		}
	}
}

func (v *Validator) validateGlobal(n *Node, seen map[SymbolID]bool) {
	decl, ok := n.Kind.(Declaration)
	if !ok {
		v.addError("global node is not a declaration")
		return
	}
	if seen[decl.Symbol] {
		v.addError("symbol %d declared more than once at global scope", decl.Symbol)
	}
	seen[decl.Symbol] = true
	if decl.Type == nil {
		v.addError("global symbol %d has no type", decl.Symbol)
	}
}

func (v *Validator) validateFunction(n *Node) {
	def, ok := n.Kind.(FunctionDefinition)
	if !ok {
		v.addError("function node is not a definition")
		return
	}
	v.function = def.Prototype.Name
	defer func() { v.function = "" }()

	if def.Body == nil {
		v.addError("function has no body")
		return
	}
	body, ok := def.Body.Kind.(Block)
	if !ok {
		v.addError("function body is not a block")
		return
	}
	rt := def.Prototype.ReturnType
	v.validateBlock(body, rt != nil && rt.Basic != BasicVoid)
}

func (v *Validator) validateBlock(b Block, returnsValue bool) {
	for _, s := range b.Statements {
		v.validateStatement(s, returnsValue)
	}
}

func (v *Validator) validateStatement(n *Node, returnsValue bool) {
	switch k := n.Kind.(type) {
	case Block:
		v.validateBlock(k, returnsValue)
	case IfElse:
		v.validateBlockNode(k.Accept, returnsValue)
		if k.Reject != nil {
			v.validateBlockNode(k.Reject, returnsValue)
		}
	case Loop:
		v.validateBlockNode(k.Body, returnsValue)
	case Switch:
		for _, c := range k.Cases {
			v.validateBlockNode(c.Body, returnsValue)
		}
	case Branch:
		if k.Kind == BranchReturnValue && !returnsValue {
			v.addError("return with value in a function with no return type")
		}
		if k.Kind == BranchReturn && returnsValue {
			v.addError("bare return in a function with a return type")
		}
	case Binary:
		if isAssignOp(k.Op) && !isAssignableTarget(k.Left) {
			v.addError("assignment target is not an lvalue")
		}
	}
}

func (v *Validator) validateBlockNode(n *Node, returnsValue bool) {
	b, ok := n.Kind.(Block)
	if !ok {
		v.addError("expected block")
		return
	}
	v.validateBlock(b, returnsValue)
}

func isAssignOp(op BinaryOp) bool {
	switch op {
	case OpAssign, OpAddAssign, OpSubAssign, OpMulAssign, OpDivAssign:
		return true
	default:
		return false
	}
}

// isAssignableTarget reports whether n denotes a location a value can be
// stored to: a symbol, an indexed or field-selected access rooted at one,
// or a swizzle of one.
func isAssignableTarget(n *Node) bool {
	switch k := n.Kind.(type) {
	case Symbol:
		return true
	case Index:
		return isAssignableTarget(k.Base)
	case FieldSelect:
		return isAssignableTarget(k.Base)
	case Swizzle:
		return isAssignableTarget(k.Base)
	default:
		return false
	}
}
