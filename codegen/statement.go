package codegen

import (
	"fmt"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// StatementTranslator lowers a validated ast.Node statement tree to
// structured SPIR-V control flow, driving the same Translator used for
// expressions for every condition, initializer, and side-effecting
// sub-expression it contains.
type StatementTranslator struct {
	Engine *Engine
	Expr   *Translator
	// Locals is the symbol table backing Scope.ResolveSymbol for this
	// function's local variables and parameters. It must be assigned before
	// Translate is called on a function body.
	Locals *LocalTable
	// voidType is the void type's id, interned when the translator is
	// created.
	voidType uint32
}

// NewStatementTranslator creates a StatementTranslator sharing engine and
// expr with the rest of the generator.
func NewStatementTranslator(engine *Engine, expr *Translator) *StatementTranslator {
	return &StatementTranslator{Engine: engine, Expr: expr, voidType: engine.Types.TypeID(ast.NewScalar(ast.BasicVoid))}
}

// Translate lowers a statement node. Block, Declaration,
// GlobalQualifierDeclaration, IfElse, Loop, Switch, and Branch are the only
// statement kinds; anything else (a bare expression statement, including a
// call for its side effects) is an expression node evaluated for its value,
// which is then discarded.
func (s *StatementTranslator) Translate(n *ast.Node) {
	switch k := n.Kind.(type) {
	case ast.Block:
		s.translateBlock(k)
	case ast.Declaration:
		s.translateDeclaration(k)
	case ast.GlobalQualifierDeclaration:
		// Qualifiers are applied at declaration time; restating one for an
		// already-declared global has no further codegen effect.
	case ast.IfElse:
		s.translateIfElse(k)
	case ast.Loop:
		s.translateLoop(k)
	case ast.Switch:
		s.translateSwitch(k)
	case ast.Branch:
		s.translateBranch(k)
	default:
		s.Expr.Value(n)
	}
}

func (s *StatementTranslator) translateBlock(k ast.Block) {
	for _, stmt := range k.Statements {
		if s.Engine.Builder.IsTerminated() {
			return
		}
		s.Translate(stmt)
	}
}

func (s *StatementTranslator) translateDeclaration(k ast.Declaration) {
	typeID := s.Engine.Types.TypeID(k.Type)
	pointerType := s.Engine.Types.PointerTypeID(typeID, spirv.StorageClassFunction)
	var id uint32
	if k.Initializer != nil {
		initID := s.Expr.Value(k.Initializer)
		id = s.Engine.Builder.Module.AddVariableWithInit(pointerType, spirv.StorageClassFunction, initID)
	} else {
		id = s.Engine.Builder.DeclareVariable(pointerType, spirv.StorageClassFunction, "")
	}
	data := InitLvalue(id, typeID, spirv.StorageClassFunction, ast.LayoutUnspecified)
	s.declare(k.Symbol, data)
}

// declare registers a local's synthesis record with the generator's symbol
// scope, so later Symbol references in this function resolve to it.
func (s *StatementTranslator) declare(id ast.SymbolID, data NodeData) {
	if s.Locals == nil {
		panic("codegen: StatementTranslator.Locals must be set before translating a function body")
	}
	s.Locals.Declare(id, data)
}

func (s *StatementTranslator) translateIfElse(k ast.IfElse) {
	condition := s.Expr.Value(k.Condition)

	thenLabel := s.Engine.Builder.FreshID()
	mergeLabel := s.Engine.Builder.FreshID()
	elseLabel := mergeLabel
	if k.Reject != nil {
		elseLabel = s.Engine.Builder.FreshID()
	}

	s.Engine.Builder.Module.AddSelectionMerge(mergeLabel, spirv.SelectionControlNone)
	s.Engine.Builder.Module.AddBranchConditional(condition, thenLabel, elseLabel)
	s.Engine.Builder.TerminateBlock()
	s.Engine.Builder.StartConditional(mergeLabel, 0, false)

	s.Engine.Builder.StartBlockWithID(thenLabel)
	s.Translate(k.Accept)
	s.branchToMergeIfOpen(mergeLabel)

	if k.Reject != nil {
		s.Engine.Builder.StartBlockWithID(elseLabel)
		s.Translate(k.Reject)
		s.branchToMergeIfOpen(mergeLabel)
	}

	s.Engine.Builder.EndConditional()
	s.Engine.Builder.StartBlockWithID(mergeLabel)
}

// branchToMergeIfOpen closes the current block with a branch to target, but
// only if the block wasn't already closed by a return/discard/break/
// continue inside it.
func (s *StatementTranslator) branchToMergeIfOpen(target uint32) {
	if s.Engine.Builder.IsTerminated() {
		return
	}
	s.Engine.Builder.Module.AddBranch(target)
	s.Engine.Builder.TerminateBlock()
}

// translateLoop lowers for/while/do-while to the standard five-block
// structured loop shape: a header block (holding OpLoopMerge and branching
// to the check block), a check block (testing the condition, if any, and
// branching to the body or the merge block), a body block, a continue
// block (where the per-iteration Continuing expression runs before looping
// back to the header), and a merge block. do-while instead tests its
// condition at the end of the continue block, and its check block branches
// straight into the body.
func (s *StatementTranslator) translateLoop(k ast.Loop) {
	if k.Init != nil {
		s.Translate(k.Init)
	}

	headerLabel := s.Engine.Builder.FreshID()
	bodyLabel := s.Engine.Builder.FreshID()
	continueLabel := s.Engine.Builder.FreshID()
	mergeLabel := s.Engine.Builder.FreshID()

	s.Engine.Builder.Module.AddBranch(headerLabel)
	s.Engine.Builder.TerminateBlock()

	s.Engine.Builder.StartBlockWithID(headerLabel)
	s.Engine.Builder.Module.AddLoopMerge(mergeLabel, continueLabel, spirv.LoopControlNone)
	s.Engine.Builder.StartConditional(mergeLabel, continueLabel, true)

	checkLabel := s.Engine.Builder.FreshID()
	s.Engine.Builder.Module.AddBranch(checkLabel)
	s.Engine.Builder.TerminateBlock()

	if k.DoWhileTestAtEnd {
		s.Engine.Builder.StartBlockWithID(checkLabel)
		s.Engine.Builder.Module.AddBranch(bodyLabel)
		s.Engine.Builder.TerminateBlock()
	} else {
		s.Engine.Builder.StartBlockWithID(checkLabel)
		if k.Condition != nil {
			condition := s.Expr.Value(k.Condition)
			s.Engine.Builder.Module.AddBranchConditional(condition, bodyLabel, mergeLabel)
		} else {
			s.Engine.Builder.Module.AddBranch(bodyLabel)
		}
		s.Engine.Builder.TerminateBlock()
	}

	s.Engine.Builder.StartBlockWithID(bodyLabel)
	s.Translate(k.Body)
	s.branchToMergeIfOpen(continueLabel)

	s.Engine.Builder.StartBlockWithID(continueLabel)
	if k.Continuing != nil {
		s.Expr.Value(k.Continuing)
	}
	if k.DoWhileTestAtEnd && k.Condition != nil {
		condition := s.Expr.Value(k.Condition)
		s.Engine.Builder.Module.AddBranchConditional(condition, headerLabel, mergeLabel)
	} else {
		s.Engine.Builder.Module.AddBranch(headerLabel)
	}
	s.Engine.Builder.TerminateBlock()

	s.Engine.Builder.EndConditional()
	s.Engine.Builder.StartBlockWithID(mergeLabel)
}

// translateSwitch lowers a structured switch over an integer selector to
// OpSwitch plus one block per case, with fallthrough cases branching
// directly into the next case's block instead of the merge block.
func (s *StatementTranslator) translateSwitch(k ast.Switch) {
	selector := s.Expr.Value(k.Selector)
	mergeLabel := s.Engine.Builder.FreshID()

	var defaultLabel uint32
	caseLabels := make([]uint32, len(k.Cases))
	pairs := make([]uint32, 0, len(k.Cases)*2)
	for i, c := range k.Cases {
		caseLabels[i] = s.Engine.Builder.FreshID()
		if _, isDefault := c.Value.(ast.SwitchDefault); isDefault {
			defaultLabel = caseLabels[i]
		} else {
			pairs = append(pairs, uint32(c.Value.(ast.SwitchInt)), caseLabels[i])
		}
	}
	if defaultLabel == 0 {
		defaultLabel = mergeLabel
	}

	s.Engine.Builder.Module.AddSelectionMerge(mergeLabel, spirv.SelectionControlNone)
	s.Engine.Builder.Module.AddSwitch(selector, defaultLabel, pairs...)
	s.Engine.Builder.TerminateBlock()
	s.Engine.Builder.StartConditional(mergeLabel, 0, true)

	for i, c := range k.Cases {
		s.Engine.Builder.StartBlockWithID(caseLabels[i])
		s.Translate(c.Body)
		if !s.Engine.Builder.IsTerminated() {
			if c.FallThrough && i+1 < len(k.Cases) {
				s.branchToMergeIfOpen(caseLabels[i+1])
			} else {
				s.branchToMergeIfOpen(mergeLabel)
			}
		}
	}

	s.Engine.Builder.EndConditional()
	s.Engine.Builder.StartBlockWithID(mergeLabel)
}

func (s *StatementTranslator) translateBranch(k ast.Branch) {
	switch k.Kind {
	case ast.BranchReturn:
		s.Engine.Builder.Module.AddReturn()
	case ast.BranchReturnValue:
		value := s.Expr.Value(k.Value)
		s.Engine.Builder.Module.AddReturnValue(value)
	case ast.BranchDiscard:
		s.Engine.Builder.Module.AddKill()
	case ast.BranchBreak:
		s.Engine.Builder.Module.AddBranch(s.Engine.Builder.BreakTarget())
	case ast.BranchContinue:
		s.Engine.Builder.Module.AddBranch(s.Engine.Builder.ContinueLabel())
	default:
		panic(fmt.Sprintf("codegen: unhandled branch kind %d", k.Kind))
	}
	s.Engine.Builder.TerminateBlock()
}
