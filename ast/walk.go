package ast

// Visitor is called once for every Node reached by Walk, before its
// children are visited. Returning false skips the node's children but
// continues the walk with its siblings.
type Visitor func(n *Node) bool

// Walk traverses n and its descendants in pre-order: visit is called on a
// node before any of its children, and children are walked left to right.
// It never mutates the tree.
func Walk(n *Node, visit Visitor) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	switch k := n.Kind.(type) {
	case Symbol, Constant:
		// leaves
	case Swizzle:
		Walk(k.Base, visit)
	case Index:
		Walk(k.Base, visit)
		Walk(k.Index, visit)
	case FieldSelect:
		Walk(k.Base, visit)
	case Binary:
		Walk(k.Left, visit)
		Walk(k.Right, visit)
	case Unary:
		Walk(k.Operand, visit)
	case Ternary:
		Walk(k.Condition, visit)
		Walk(k.TrueExpr, visit)
		Walk(k.FalseExpr, visit)
	case Aggregate:
		for _, arg := range k.Arguments {
			Walk(arg, visit)
		}
	case Block:
		for _, s := range k.Statements {
			Walk(s, visit)
		}
	case Declaration:
		Walk(k.Initializer, visit)
	case GlobalQualifierDeclaration:
		// leaf
	case IfElse:
		Walk(k.Condition, visit)
		Walk(k.Accept, visit)
		Walk(k.Reject, visit)
	case Loop:
		Walk(k.Init, visit)
		Walk(k.Condition, visit)
		Walk(k.Body, visit)
		Walk(k.Continuing, visit)
	case Switch:
		Walk(k.Selector, visit)
		for _, c := range k.Cases {
			Walk(c.Body, visit)
		}
	case Branch:
		Walk(k.Value, visit)
	case FunctionPrototype:
		// leaf; parameters carry no sub-nodes
	case FunctionDefinition:
		Walk(k.Body, visit)
	case PreprocessorDirective:
		// leaf
	}
}
