package ast

// Block is a sequence of statements sharing a lexical scope.
type Block struct {
	Statements []*Node
}

func (Block) astKind() {}

// Declaration introduces a local variable, optionally with an initializer.
type Declaration struct {
	Symbol      SymbolID
	Type        *Type
	Qualifier   Qualifier
	Initializer *Node // nil if uninitialized
}

func (Declaration) astKind() {}

// GlobalQualifierDeclaration restates a qualifier for an already-declared
// global (e.g. `precise` or `invariant` applied after the fact), without
// introducing a new symbol.
type GlobalQualifierDeclaration struct {
	Symbol    SymbolID
	Qualifier Qualifier
}

func (GlobalQualifierDeclaration) astKind() {}

// IfElse is a conditional statement. Reject is nil when there is no else
// branch.
type IfElse struct {
	Condition *Node
	Accept    *Node // Block
	Reject    *Node // Block, or nil
}

func (IfElse) astKind() {}

// LoopKind distinguishes the three shading-language loop forms; all three
// lower to the same 5-block structured control flow shape.
type LoopKind uint8

const (
	LoopFor LoopKind = iota
	LoopWhile
	LoopDoWhile
)

// Loop is a structured loop. Init and Continuing may be nil (a `while` loop
// has no Init or Continuing; a `for` loop has both). Condition is nil only
// for an unconditional `for(;;)`.
type Loop struct {
	Kind       LoopKind
	Init       *Node // Declaration or Block, or nil
	Condition  *Node // nil means unconditional
	Continuing *Node // expression evaluated at the end of each iteration, or nil
	Body       *Node // Block
	// DoWhileTestAtEnd is true for LoopDoWhile, where the condition guards
	// re-entry at the bottom of the body rather than entry at the top.
	DoWhileTestAtEnd bool
}

func (Loop) astKind() {}

// SwitchValue is a case label value.
type SwitchValue interface {
	switchValue()
}

// SwitchInt is an integer case label.
type SwitchInt int32

func (SwitchInt) switchValue() {}

// SwitchDefault marks the default case label.
type SwitchDefault struct{}

func (SwitchDefault) switchValue() {}

// Switch is a structured switch statement over an integer selector.
type Switch struct {
	Selector *Node
	Cases    []*Case
}

func (Switch) astKind() {}

// Case is one arm of a Switch. FallThrough indicates the case body has no
// terminating break and control falls into the next case's body.
type Case struct {
	Value       SwitchValue
	Body        *Node // Block
	FallThrough bool
}

// BranchKind names the kind of non-local control transfer a Branch performs.
type BranchKind uint8

const (
	BranchReturn BranchKind = iota
	BranchReturnValue
	BranchDiscard
	BranchBreak
	BranchContinue
)

// Branch is a non-local control transfer: return, discard, break, or
// continue. Value is set only for BranchReturnValue.
type Branch struct {
	Kind  BranchKind
	Value *Node
}

func (Branch) astKind() {}

// Parameter is one formal parameter of a function prototype.
type Parameter struct {
	Symbol    SymbolID
	Type      *Type
	Qualifier Qualifier // QualifierIn, QualifierOut, QualifierInOut, or QualifierConst
}

// FunctionPrototype declares a function's signature without a body,
// including forward declarations and built-in function signatures the
// generator must be able to resolve calls against.
type FunctionPrototype struct {
	Symbol     SymbolID
	Name       string
	ReturnType *Type
	Parameters []Parameter
}

func (FunctionPrototype) astKind() {}

// FunctionDefinition provides the body for a previously or concurrently
// declared function prototype.
type FunctionDefinition struct {
	Prototype *FunctionPrototype
	Body      *Node // Block
}

func (FunctionDefinition) astKind() {}

// PreprocessorDirective is a placeholder for a source preprocessor
// directive that survived to this stage (e.g. a pragma the front end does
// not fully resolve). The generator does not act on it; it exists so the
// tree can represent source it is not responsible for interpreting.
type PreprocessorDirective struct {
	Text string
}

func (PreprocessorDirective) astKind() {}

// ShaderStage names the pipeline stage a Module targets.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageCompute
)

// EntryPoint identifies the function serving as a shader stage's entry
// point, plus stage-specific execution parameters.
type EntryPoint struct {
	Name      string
	Stage     ShaderStage
	Function  SymbolID
	Workgroup [3]uint32 // compute stage local size; ignored otherwise
}

// Module is the root of a validated tree: every global declaration and
// function definition that makes up one compilation unit, plus the entry
// points the generator must emit OpEntryPoint for.
type Module struct {
	Globals     []*Node
	Functions   []*Node
	EntryPoints []EntryPoint
}
