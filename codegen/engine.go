package codegen

import "github.com/gogpu/spirvgen/spirv"

// Engine drives the SPIR-V Builder and TypeEmitter to resolve access chains
// into instructions: Collapse (OpAccessChain), Load (the full read
// algorithm), and Store (the swizzle-aware read-modify-write algorithm).
type Engine struct {
	Builder *spirv.Builder
	Types   *TypeEmitter
}

// NewEngine creates an Engine over builder.
func NewEngine(builder *spirv.Builder) *Engine {
	return &Engine{Builder: builder, Types: NewTypeEmitter(builder)}
}

// FreshID implements dynamicComponentBuilder.
func (e *Engine) FreshID() uint32 { return e.Builder.FreshID() }

// UintConstant implements dynamicComponentBuilder.
func (e *Engine) UintConstant(v uint32) uint32 { return e.Types.UintConstant(v) }

// UintTypeID implements dynamicComponentBuilder.
func (e *Engine) UintTypeID() uint32 { return e.Types.UintTypeID() }

// CompositeConstantUint implements dynamicComponentBuilder.
func (e *Engine) CompositeConstantUint(values []uint32) uint32 {
	return e.Types.CompositeConstantUint(values)
}

// VectorExtractDynamic implements dynamicComponentBuilder.
func (e *Engine) VectorExtractDynamic(resultType, vector, index uint32) uint32 {
	return e.Builder.Module.AddVectorExtractDynamic(resultType, vector, index)
}

// indexIDs materializes the chain's pending index list into SPIR-V ids,
// turning any literal entries into OpConstant uint ids on the fly. Used
// when the chain must become a real OpAccessChain.
func (e *Engine) indexIDs(c *AccessChain) []uint32 {
	ids := make([]uint32, len(c.Indices))
	for i, entry := range c.Indices {
		if entry.isLiteral {
			ids[i] = e.Types.UintConstant(entry.value)
		} else {
			ids[i] = entry.value
		}
	}
	return ids
}

// literalIndices materializes the chain's pending index list as plain
// literal values, valid only when every entry is already known to be
// literal (AllIndicesLiteral).
func (e *Engine) literalIndices(c *AccessChain) []uint32 {
	lits := make([]uint32, len(c.Indices))
	for i, entry := range c.Indices {
		if !entry.isLiteral {
			panic("codegen: literalIndices called on a chain with a non-literal index")
		}
		lits[i] = entry.value
	}
	return lits
}

// Collapse resolves an lvalue's pending indices into a single OpAccessChain
// instruction (or returns the base id directly if there are none), caching
// the result so a later Load/Store through the same chain doesn't re-emit
// it. It is an error to call Collapse on an rvalue.
func (e *Engine) Collapse(d *NodeData) uint32 {
	if d.IsRvalue() {
		panic("codegen: Collapse called on an rvalue")
	}
	if d.Chain.collapsedID != 0 {
		return d.Chain.collapsedID
	}
	if len(d.Chain.Indices) == 0 {
		d.Chain.collapsedID = d.BaseID
		return d.BaseID
	}
	indexIDs := e.indexIDs(&d.Chain)
	pointerType := e.Types.PointerTypeID(d.Chain.PreSwizzleTypeID, d.Chain.StorageClass)
	id := e.Builder.Module.AddAccessChain(pointerType, d.BaseID, indexIDs...)
	d.Chain.collapsedID = id
	return id
}

// Load resolves d to a value id, per the four-case algorithm the data
// model's access chain load operation describes:
//
//  1. an rvalue with no pending indices is already a value: its BaseID.
//  2. an rvalue with all-literal indices extracts via OpCompositeExtract.
//  3. an rvalue with a non-literal index has no address to chain through,
//     so it is spilled to a Function-storage temp ("indexable") first,
//     stored once, then loaded like an lvalue.
//  4. an lvalue collapses to a pointer and loads it with OpLoad.
//
// After the base value is resolved by one of the above, a pending swizzle
// (OpVectorShuffle) and then a pending dynamic component
// (OpVectorExtractDynamic) are applied, in that order, since a swizzle can
// itself be the thing a dynamic component indexes into.
func (e *Engine) Load(d *NodeData) uint32 {
	var result uint32

	switch {
	case d.IsRvalue() && len(d.Chain.Indices) == 0:
		result = d.BaseID

	case d.IsRvalue() && d.Chain.AllIndicesLiteral:
		resultType := d.Chain.PreSwizzleTypeID
		result = e.Builder.Module.AddCompositeExtract(resultType, d.BaseID, e.literalIndices(&d.Chain)...)

	case d.IsRvalue():
		tempType := e.Types.PointerTypeID(indexableBaseType(d), spirv.StorageClassFunction)
		temp := e.Builder.DeclareVariable(tempType, spirv.StorageClassFunction, "indexable")
		e.Builder.Module.AddStore(temp, d.BaseID)
		spilled := NodeData{BaseID: temp, Chain: d.Chain}
		spilled.Chain.StorageClass = spirv.StorageClassFunction
		spilled.Chain.collapsedID = 0
		result = e.loadLvalue(&spilled)

	default:
		result = e.loadLvalue(d)
	}

	if len(d.Chain.Swizzles) != 0 {
		if len(d.Chain.Swizzles) < 2 {
			panic("codegen: a single-component swizzle should already have been folded into the index list")
		}
		selectors := make([]uint32, len(d.Chain.Swizzles))
		for i, c := range d.Chain.Swizzles {
			selectors[i] = uint32(c)
		}
		result = e.Builder.Module.AddVectorShuffle(d.Chain.PostSwizzleTypeID, result, result, selectors)
	}

	if d.Chain.HasDynamicComponent {
		index := d.Chain.DynamicComponent.value
		result = e.Builder.Module.AddVectorExtractDynamic(d.Chain.PostDynamicComponentTypeID, result, index)
	}

	return result
}

func (e *Engine) loadLvalue(d *NodeData) uint32 {
	pointer := e.Collapse(d)
	return e.Builder.Module.AddLoad(d.Chain.PreSwizzleTypeID, pointer)
}

// indexableBaseType returns the type id a spilled rvalue's temp variable
// must hold: the type of the whole value before any of its pending indices
// are applied.
func indexableBaseType(d *NodeData) uint32 {
	return d.Chain.originalType
}

// Store writes value through d, the swizzle-aware read-modify-write
// algorithm the data model's access chain store operation describes:
// collapse the chain to a pointer, and if a multi-component swizzle is
// pending, load the current value, shuffle value's components into the
// swizzled positions (leaving the rest unchanged), and store that instead
// of value directly.
//
// A single-component swizzle and a dynamic component target are both
// already folded into the index list by the time a chain reaches Store
// (PushSwizzle folds size-1 patterns, and PushDynamicComponent never
// applies to a store target), so neither is handled here.
func (e *Engine) Store(d *NodeData, value uint32) {
	if len(d.Chain.Swizzles) == 1 {
		panic("codegen: a single-component swizzle should already have been folded into the index list")
	}
	if d.Chain.HasDynamicComponent {
		panic("codegen: a dynamic component cannot be the target of a store")
	}

	pointer := e.Collapse(d)

	if len(d.Chain.Swizzles) != 0 {
		current := e.Builder.Module.AddLoad(d.Chain.PreSwizzleTypeID, pointer)
		n := d.Chain.SwizzledVectorComponentCount
		shuffle := make([]uint32, n)
		for i := uint8(0); i < n; i++ {
			shuffle[i] = uint32(i)
		}
		for i, comp := range d.Chain.Swizzles {
			shuffle[uint8(comp)] = uint32(n) + uint32(i)
		}
		value = e.Builder.Module.AddVectorShuffle(d.Chain.PreSwizzleTypeID, current, value, shuffle)
	}

	e.Builder.Module.AddStore(pointer, value)
}
