package spirv

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Builder is the SPIR-V Builder component the generator drives: fresh id
// allocation, structural interning of types and constants, and the
// bookkeeping that keeps function bodies well-formed (every block
// terminated exactly once, in an order that respects structured control
// flow). It wraps a ModuleBuilder, which does the mechanical section
// placement and word encoding.
//
// Interning is idempotent: calling an Intern* method twice with the same
// structural key returns the same id without emitting a duplicate
// declaration, matching the SPIR-V requirement that equivalent types and
// constants be declared at most once per module.
type Builder struct {
	Module *ModuleBuilder

	// types, scalars, and composites are keyed by the xxhash of the
	// caller-supplied structural key rather than the key string itself: the
	// keys are often long Sprintf-built descriptions of a type or constant's
	// full shape, and this project's interning maps are on the hot path of
	// translating every expression node, so hashing once with xxhash and
	// using a uint64 map key avoids rehashing that string on every lookup.
	types      map[uint64]uint32
	pointers   map[pointerKey]uint32
	scalars    map[uint64]uint32
	composites map[uint64]uint32

	fn *functionState
}

type pointerKey struct {
	base    uint32
	storage StorageClass
}

// functionState tracks the function currently being emitted: which block is
// open, whether it has been terminated, and the merge/continue labels in
// scope for break/continue resolution inside nested conditionals and loops.
type functionState struct {
	id           uint32
	blockLabel   uint32
	terminated   bool
	mergeStack   []controlScope
}

// controlScope is one level of structured control flow nesting: the merge
// block a break exits to, and the continue block a continue jumps to (zero
// if this scope is a conditional, not a loop). Breakable marks a loop or
// switch scope, the kind of scope a break can target; a plain if/else
// scope is not breakable, so a break nested inside one searches past it to
// the enclosing loop or switch.
type controlScope struct {
	mergeLabel    uint32
	continueLabel uint32
	breakable     bool
}

// NewBuilder creates a Builder around a fresh ModuleBuilder targeting
// version.
func NewBuilder(version Version) *Builder {
	return &Builder{
		Module:     NewModuleBuilder(version),
		types:      make(map[uint64]uint32, 32),
		pointers:   make(map[pointerKey]uint32, 16),
		scalars:    make(map[uint64]uint32, 16),
		composites: make(map[uint64]uint32, 16),
	}
}

// FreshID allocates a new, never-before-used SPIR-V id.
func (b *Builder) FreshID() uint32 {
	return b.Module.AllocID()
}

// InternType returns the id for the type named by key, calling create to
// declare it the first time key is seen. key must uniquely identify the
// type's complete structure (element types, lengths, member layout): two
// calls with the same key but different create functions will silently
// return the first result.
func (b *Builder) InternType(key string, create func() uint32) uint32 {
	h := xxhash.Sum64String(key)
	if id, ok := b.types[h]; ok {
		return id
	}
	id := create()
	b.types[h] = id
	return id
}

// InternPointerType returns the id of a pointer-to-base type in storage
// class storage, declaring OpTypePointer the first time this (base,
// storage) pair is requested.
func (b *Builder) InternPointerType(base uint32, storage StorageClass) uint32 {
	k := pointerKey{base: base, storage: storage}
	if id, ok := b.pointers[k]; ok {
		return id
	}
	id := b.Module.AddTypePointer(storage, base)
	b.pointers[k] = id
	return id
}

// InternScalarConstant returns the id of a scalar constant named by key
// (typically the type id and bit pattern, as a string), declaring it via
// create the first time key is seen.
func (b *Builder) InternScalarConstant(key string, create func() uint32) uint32 {
	h := xxhash.Sum64String(key)
	if id, ok := b.scalars[h]; ok {
		return id
	}
	id := create()
	b.scalars[h] = id
	return id
}

// InternCompositeConstant returns the id of a composite constant named by
// key (typically the type id and component ids, as a string), declaring it
// via create the first time key is seen.
func (b *Builder) InternCompositeConstant(key string, create func() uint32) uint32 {
	h := xxhash.Sum64String(key)
	if id, ok := b.composites[h]; ok {
		return id
	}
	id := create()
	b.composites[h] = id
	return id
}

// DeclareVariable emits OpVariable in pointerType's storage class. Function-
// storage variables must be declared while a function is open: SPIR-V
// requires them to appear as the first instructions of a function's entry
// block.
func (b *Builder) DeclareVariable(pointerType uint32, storage StorageClass, name string) uint32 {
	id := b.Module.AddVariable(pointerType, storage)
	if name != "" {
		b.Module.AddName(id, name)
	}
	return id
}

// StartFunction opens a new function of the given type and begins its
// entry block. Only one function may be open at a time.
func (b *Builder) StartFunction(funcType, returnType uint32, control FunctionControl) uint32 {
	if b.fn != nil {
		panic("spirv: StartFunction called while a function is already open")
	}
	id := b.Module.AddFunction(funcType, returnType, control)
	b.fn = &functionState{id: id}
	b.StartBlock()
	return id
}

// StartFunctionWithID opens a function using an id the caller already
// allocated via FreshID, for the case where the id had to be registered for
// forward or mutually recursive call resolution before its body is
// translated. Only one function may be open at a time.
func (b *Builder) StartFunctionWithID(id, funcType, returnType uint32, control FunctionControl) {
	if b.fn != nil {
		panic("spirv: StartFunctionWithID called while a function is already open")
	}
	b.Module.AddFunctionWithID(id, funcType, returnType, control)
	b.fn = &functionState{id: id}
	b.StartBlock()
}

// StartBlock begins a new basic block and returns its label id. The
// previously current block, if any, must already be terminated.
func (b *Builder) StartBlock() uint32 {
	if b.fn == nil {
		panic("spirv: StartBlock called with no function open")
	}
	if b.fn.blockLabel != 0 && !b.fn.terminated {
		panic("spirv: StartBlock called before the current block was terminated")
	}
	label := b.Module.AddLabel()
	b.fn.blockLabel = label
	b.fn.terminated = false
	return label
}

// StartBlockWithID begins a new basic block using a label id the caller
// already allocated via FreshID, emitting OpLabel for it. Used when the
// label had to be referenced by a branch instruction before the block it
// names could be opened, as with the then/else/merge blocks of structured
// control flow. The previously current block, if any, must already be
// terminated.
func (b *Builder) StartBlockWithID(label uint32) {
	if b.fn == nil {
		panic("spirv: StartBlockWithID called with no function open")
	}
	if b.fn.blockLabel != 0 && !b.fn.terminated {
		panic("spirv: StartBlockWithID called before the current block was terminated")
	}
	b.Module.AddLabelWithID(label)
	b.fn.blockLabel = label
	b.fn.terminated = false
}

// CurrentBlock returns the label of the block currently being emitted into.
func (b *Builder) CurrentBlock() uint32 {
	if b.fn == nil {
		return 0
	}
	return b.fn.blockLabel
}

// IsTerminated reports whether the current block already has a terminator.
// The generator consults this before emitting a fallthrough branch at the
// end of an if/else arm, since a nested return or discard may already have
// closed the block.
func (b *Builder) IsTerminated() bool {
	return b.fn == nil || b.fn.terminated
}

// TerminateBlock marks the current block terminated. emit must have
// already appended exactly one terminator instruction (OpBranch,
// OpBranchConditional, OpSwitch, OpReturn, OpReturnValue, OpKill,
// OpUnreachable) to the function's instruction stream.
func (b *Builder) TerminateBlock() {
	if b.fn == nil {
		panic("spirv: TerminateBlock called with no function open")
	}
	b.fn.terminated = true
}

// AssembleFunctionBlocks closes out the function currently open, emitting
// OpFunctionEnd, and clears the builder's function-scoped state.
func (b *Builder) AssembleFunctionBlocks() {
	if b.fn == nil {
		panic("spirv: AssembleFunctionBlocks called with no function open")
	}
	if !b.fn.terminated {
		panic(fmt.Sprintf("spirv: function %d's last block was never terminated", b.fn.id))
	}
	b.Module.AddFunctionEnd()
	b.fn = nil
}

// StartConditional pushes a new structured control flow scope identified by
// its merge block and (for loops) continue block, and emits the
// OpSelectionMerge or OpLoopMerge header instruction the caller built.
// Subsequent Break/Continue within this scope target these labels.
// breakable marks a loop or switch scope, reachable by a nested break; pass
// false for a plain if/else scope.
func (b *Builder) StartConditional(mergeLabel, continueLabel uint32, breakable bool) {
	if b.fn == nil {
		panic("spirv: StartConditional called with no function open")
	}
	b.fn.mergeStack = append(b.fn.mergeStack, controlScope{mergeLabel: mergeLabel, continueLabel: continueLabel, breakable: breakable})
}

// NextBlock terminates the current block with a branch to target and opens
// a new block there. This is the common "fall into the next structured
// block" step used between if/else arms and loop sections.
func (b *Builder) NextBlock(target uint32) {
	b.Module.AddBranch(target)
	b.TerminateBlock()
	b.fn.blockLabel = target
	b.fn.terminated = false
}

// EndConditional pops the innermost structured control flow scope. It does
// not itself emit anything; the caller has already branched into the merge
// block via NextBlock.
func (b *Builder) EndConditional() {
	if b.fn == nil || len(b.fn.mergeStack) == 0 {
		panic("spirv: EndConditional called with no conditional open")
	}
	b.fn.mergeStack = b.fn.mergeStack[:len(b.fn.mergeStack)-1]
}

// MergeLabel returns the merge block of the innermost structured control
// flow scope, the target a structured fallthrough (not a break) branches
// to: the immediately enclosing if/else, loop, or switch, whichever is
// innermost.
func (b *Builder) MergeLabel() uint32 {
	if b.fn == nil || len(b.fn.mergeStack) == 0 {
		return 0
	}
	return b.fn.mergeStack[len(b.fn.mergeStack)-1].mergeLabel
}

// BreakTarget returns the merge block a break statement exits to: the
// innermost breakable (loop or switch) scope, searching outward past any
// enclosing plain if/else scopes.
func (b *Builder) BreakTarget() uint32 {
	if b.fn == nil {
		return 0
	}
	for i := len(b.fn.mergeStack) - 1; i >= 0; i-- {
		if b.fn.mergeStack[i].breakable {
			return b.fn.mergeStack[i].mergeLabel
		}
	}
	return 0
}

// ContinueLabel returns the continue block of the innermost loop scope,
// searching outward past any enclosing plain if/else or switch scopes (none
// of which have a continue block of their own).
func (b *Builder) ContinueLabel() uint32 {
	if b.fn == nil {
		return 0
	}
	for i := len(b.fn.mergeStack) - 1; i >= 0; i-- {
		if b.fn.mergeStack[i].continueLabel != 0 {
			return b.fn.mergeStack[i].continueLabel
		}
	}
	return 0
}
