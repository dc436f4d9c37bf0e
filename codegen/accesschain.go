package codegen

import (
	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// idOrLiteral is one entry of an access chain's index list: either a
// SPIR-V id (a runtime-computed index) or a literal integer (a
// compile-time-known index, deferred to OpConstant materialization only if
// the chain ends up needing OpAccessChain rather than OpCompositeExtract).
type idOrLiteral struct {
	isLiteral bool
	value     uint32
}

func idEntry(id uint32) idOrLiteral      { return idOrLiteral{value: id} }
func literalEntry(v uint32) idOrLiteral  { return idOrLiteral{isLiteral: true, value: v} }

// AccessChain is the lazy, algebraic representation of "some location,
// possibly still being indexed into" described by the data model: an
// lvalue accumulates a storage class and a list of pending indices without
// emitting any instructions, so that a trailing swizzle or dynamic
// component reference can still be folded into the eventual OpAccessChain
// or OpLoad instead of requiring its own separate access step.
type AccessChain struct {
	// StorageClass is spirv.StorageClassMax for an rvalue: a chain over a
	// value that has no address, only a producing SPIR-V id.
	StorageClass spirv.StorageClass

	// Indices is the pending index list. Each push appends here; the list
	// is materialized into instructions only at Collapse or Load/Store
	// time.
	Indices []idOrLiteral

	// AllIndicesLiteral tracks whether every entry pushed so far is a
	// literal, enabling the OpCompositeExtract fast path for rvalues.
	AllIndicesLiteral bool

	// Swizzles is a pending multi-component swizzle (len > 1) applied
	// after all Indices are resolved. A single-component swizzle is
	// folded directly into Indices instead of being stored here.
	Swizzles []ast.SwizzleComponent
	SwizzledVectorComponentCount uint8

	// DynamicComponent is a single runtime-computed component index
	// applied after Indices and Swizzles are resolved, used when an
	// rvalue with an otherwise-literal index list is additionally indexed
	// by a non-literal component (v[i].x is literal; v[i][j] is not).
	DynamicComponent      idOrLiteral
	HasDynamicComponent   bool

	// PreSwizzleTypeID, PostSwizzleTypeID, and
	// PostDynamicComponentTypeID are the type ids of the value at each
	// successive stage of resolution.
	PreSwizzleTypeID           uint32
	PostSwizzleTypeID          uint32
	PostDynamicComponentTypeID uint32

	// BaseBlockStorage records the layout in force for the base value, so
	// that array strides and matrix strides along the chain are computed
	// against the right rules.
	BaseBlockStorage ast.BlockLayout

	// collapsedID memoizes the OpAccessChain result once Collapse has run,
	// so repeated loads through the same chain don't re-emit it.
	collapsedID uint32

	// originalType is the type of the base value before any index was
	// pushed, recorded at Init time. PreSwizzleTypeID tracks the type at
	// the innermost pushed index instead, so a spilled rvalue's temp
	// variable (which must hold the whole, unindexed value) needs this
	// separately.
	originalType uint32
}

// NodeData is the per-node synthesis record threaded through expression
// translation: the id (or, for a partially-resolved access, no id yet) that
// represents this node's value, plus the access chain describing how to
// reach it if it denotes a location rather than a plain SSA value.
type NodeData struct {
	BaseID uint32
	Chain  AccessChain
}

// IsRvalue reports whether data denotes a value with no address: the
// result of an expression, not a location a store can target.
func (d *NodeData) IsRvalue() bool {
	return d.Chain.StorageClass == spirv.StorageClassMax
}

// IsUnindexedLvalue reports whether data is an lvalue with no pending
// index, swizzle, or dynamic component: exactly the base variable itself.
// This is the shape required for an out/inout parameter to be passed by
// reference instead of by temp-copy.
func (d *NodeData) IsUnindexedLvalue() bool {
	return !d.IsRvalue() &&
		len(d.Chain.Indices) == 0 &&
		len(d.Chain.Swizzles) == 0 &&
		!d.Chain.HasDynamicComponent
}

// InitRvalue starts a synthesis record for an rvalue: the plain result of
// evaluating an expression, addressed by baseID directly.
func InitRvalue(baseID, typeID uint32) NodeData {
	return NodeData{
		BaseID: baseID,
		Chain: AccessChain{
			StorageClass:      spirv.StorageClassMax,
			AllIndicesLiteral: true,
			PreSwizzleTypeID:  typeID,
			originalType:      typeID,
		},
	}
}

// InitLvalue starts a synthesis record for an lvalue: a variable in
// storageClass, addressed by baseID (the OpVariable or function-argument
// pointer id).
func InitLvalue(baseID, typeID uint32, storageClass spirv.StorageClass, blockStorage ast.BlockLayout) NodeData {
	return NodeData{
		BaseID: baseID,
		Chain: AccessChain{
			StorageClass:      storageClass,
			AllIndicesLiteral: true,
			PreSwizzleTypeID:  typeID,
			BaseBlockStorage:  blockStorage,
		},
	}
}

// PushIndex appends a runtime-computed index (array/struct/vector element
// selected by a non-constant expression) to the chain.
func (d *NodeData) PushIndex(index, typeID uint32) {
	d.Chain.Indices = append(d.Chain.Indices, idEntry(index))
	d.Chain.AllIndicesLiteral = false
	d.Chain.PreSwizzleTypeID = typeID
}

// PushLiteralIndex appends a compile-time-known index to the chain. It
// preserves AllIndicesLiteral if it was already true, keeping the
// OpCompositeExtract fast path available for a fully-constant-indexed
// rvalue.
func (d *NodeData) PushLiteralIndex(index, typeID uint32) {
	d.Chain.Indices = append(d.Chain.Indices, literalEntry(index))
	d.Chain.PreSwizzleTypeID = typeID
}

// PushSwizzle records a swizzle applied to the value the chain currently
// denotes. A single-component swizzle folds directly into the index list
// as a literal, since it behaves exactly like FieldSelect; a
// multi-component swizzle is deferred, since only OpVectorShuffle at
// Load/Store time can express reordering multiple lanes at once.
func (d *NodeData) PushSwizzle(pattern []ast.SwizzleComponent, typeID uint32, componentCount uint8) {
	if len(d.Chain.Swizzles) != 0 {
		panic("codegen: PushSwizzle called on a chain that already has a pending swizzle")
	}
	if len(pattern) == 1 {
		d.PushLiteralIndex(uint32(pattern[0]), typeID)
		return
	}
	d.Chain.Swizzles = pattern
	d.Chain.PostSwizzleTypeID = typeID
	d.Chain.SwizzledVectorComponentCount = componentCount
}

// dynamicComponentBuilder is the small slice of the Builder+TypeEmitter
// PushDynamicComponent needs to materialize a temp variable, a constant
// swizzle-selector composite, or a fused OpVectorExtractDynamic index.
type dynamicComponentBuilder interface {
	FreshID() uint32
	UintConstant(v uint32) uint32
	UintTypeID() uint32
	CompositeConstantUint(values []uint32) uint32
	VectorExtractDynamic(resultType, vector, index uint32) uint32
}

// PushDynamicComponent records a runtime-computed single-component index
// applied after everything already on the chain. It has three distinct
// outcomes depending on the chain's current shape, mirroring the original
// translator's handling of `expr[i]`, `expr.ywxz[i]`, and `lvalue[i]`:
//
//  1. An rvalue whose indices so far are all literal defers the dynamic
//     index separately, so the literal prefix can still use
//     OpCompositeExtract and only the final step needs a dynamic
//     extraction.
//  2. A chain with a pending multi-component swizzle fuses the swizzle and
//     the dynamic index into one new dynamic index, via
//     OpVectorExtractDynamic against a constant composite of the swizzle's
//     component positions: `v.ywxz[i]` becomes `v[{1,3,0,2}[i]]`.
//  3. Anything else (an lvalue, or an rvalue with a non-literal index
//     already on its chain) folds the new index directly into the chain
//     via PushIndex.
func (d *NodeData) PushDynamicComponent(b dynamicComponentBuilder, index, typeID uint32) {
	switch {
	case d.IsRvalue() && d.Chain.AllIndicesLiteral:
		d.Chain.DynamicComponent = idEntry(index)
		d.Chain.HasDynamicComponent = true
		d.Chain.PostDynamicComponentTypeID = typeID

	case len(d.Chain.Swizzles) != 0:
		if len(d.Chain.Swizzles) < 2 {
			panic("codegen: a single-component swizzle should already have been folded")
		}
		values := make([]uint32, len(d.Chain.Swizzles))
		for i, c := range d.Chain.Swizzles {
			values[i] = uint32(c)
		}
		selector := b.CompositeConstantUint(values)
		fusedIndex := b.VectorExtractDynamic(b.UintTypeID(), selector, index)
		d.Chain.Swizzles = nil
		d.PushIndex(fusedIndex, typeID)

	default:
		d.PushIndex(index, typeID)
	}
}

// resultTypeID returns the type id the chain currently resolves to,
// prioritizing the most recently applied stage: a dynamic component
// narrows further than a swizzle, which narrows further than the plain
// indexed type.
func (c *AccessChain) resultTypeID() uint32 {
	if c.HasDynamicComponent {
		return c.PostDynamicComponentTypeID
	}
	if len(c.Swizzles) != 0 {
		return c.PostSwizzleTypeID
	}
	return c.PreSwizzleTypeID
}
