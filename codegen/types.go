package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// TypeEmitter interns SPIR-V types and constants for semantic ast.Type
// values, keyed structurally so that two occurrences of, say, vec3<f32>
// anywhere in the module resolve to the same SPIR-V type id.
type TypeEmitter struct {
	builder *spirv.Builder
}

// NewTypeEmitter creates a TypeEmitter backed by builder.
func NewTypeEmitter(builder *spirv.Builder) *TypeEmitter {
	return &TypeEmitter{builder: builder}
}

// TypeID returns the SPIR-V id for t, declaring it (and any element/member
// types it depends on) the first time it is seen.
func (e *TypeEmitter) TypeID(t *ast.Type) uint32 {
	key := typeKey(t)
	return e.builder.InternType(key, func() uint32 {
		return e.emitType(t)
	})
}

func (e *TypeEmitter) emitType(t *ast.Type) uint32 {
	switch t.Basic {
	case ast.BasicVoid:
		return e.builder.Module.AddTypeVoid()
	case ast.BasicBool:
		return e.builder.Module.AddTypeBool()
	case ast.BasicFloat:
		return e.emitShaped(t, func() uint32 { return e.builder.Module.AddTypeFloat(32) })
	case ast.BasicInt:
		return e.emitShaped(t, func() uint32 { return e.builder.Module.AddTypeInt(32, true) })
	case ast.BasicUint:
		return e.emitShaped(t, func() uint32 { return e.builder.Module.AddTypeInt(32, false) })
	case ast.BasicSampler:
		return e.builder.Module.AddTypeSampler()
	case ast.BasicImage:
		return e.emitImageType(t)
	case ast.BasicStruct, ast.BasicInterfaceBlock:
		return e.emitStructType(t)
	default:
		panic(fmt.Sprintf("codegen: unhandled basic type %d", t.Basic))
	}
}

// emitShaped declares a scalar, vector, or matrix type whose scalar
// component is built by scalar. Arrays are handled separately because they
// nest arbitrarily via Element.
func (e *TypeEmitter) emitShaped(t *ast.Type, scalar func() uint32) uint32 {
	if t.Element != nil {
		return e.emitArrayType(t)
	}
	scalarID := e.builder.InternType(typeKey(&ast.Type{Basic: t.Basic}), scalar)
	switch {
	case t.Shape.IsMatrix():
		vecType := &ast.Type{Basic: t.Basic, Shape: ast.Shape{Vector: t.Shape.MatrixRows}}
		columnID := e.TypeID(vecType)
		return e.builder.Module.AddTypeMatrix(columnID, uint32(t.Shape.MatrixCols))
	case t.Shape.IsVector():
		return e.builder.Module.AddTypeVector(scalarID, uint32(t.Shape.Vector))
	default:
		return scalarID
	}
}

func (e *TypeEmitter) emitArrayType(t *ast.Type) uint32 {
	elementID := e.TypeID(t.Element)
	if t.ArrayUnsized {
		return e.builder.Module.AddTypeRuntimeArray(elementID)
	}
	lengthConst := e.UintConstant(t.ArrayLength)
	id := e.builder.Module.AddTypeArray(elementID, lengthConst)
	if t.Layout != ast.LayoutUnspecified {
		e.builder.Module.AddDecorate(id, spirv.DecorationArrayStride, arrayStride(t.Element, t.Layout))
	}
	return id
}

func (e *TypeEmitter) emitStructType(t *ast.Type) uint32 {
	memberIDs := make([]uint32, len(t.Struct.Members))
	for i, m := range t.Struct.Members {
		memberIDs[i] = e.TypeID(m.Type)
	}
	id := e.builder.Module.AddTypeStruct(memberIDs...)
	e.builder.Module.AddName(id, t.Struct.Name)
	if t.Basic == ast.BasicInterfaceBlock {
		e.builder.Module.AddDecorate(id, spirv.DecorationBlock)
	}
	offset := uint32(0)
	for i, m := range t.Struct.Members {
		e.builder.Module.AddMemberName(id, uint32(i), m.Name)
		if t.Layout != ast.LayoutUnspecified {
			e.builder.Module.AddMemberDecorate(id, uint32(i), spirv.DecorationOffset, offset)
			offset = alignedOffset(offset, m.Type, t.Layout)
		}
	}
	return id
}

func (e *TypeEmitter) emitImageType(t *ast.Type) uint32 {
	img := t.Image
	sampledTypeID := e.TypeID(img.SampledType)
	dim := spirv.Dim2D
	switch img.Dim {
	case ast.Dim1D:
		dim = spirv.Dim1D
	case ast.Dim3D:
		dim = spirv.Dim3D
	case ast.DimCube:
		dim = spirv.DimCube
	}
	depth := uint32(0)
	if img.Depth {
		depth = 1
	}
	arrayed := uint32(0)
	if img.Arrayed {
		arrayed = 1
	}
	multisampled := uint32(0)
	if img.Multisampled {
		multisampled = 1
	}
	sampled := uint32(1)
	if img.Storage {
		sampled = 2
	}
	return e.builder.Module.AddTypeImage(sampledTypeID, dim, depth, arrayed, multisampled, sampled, spirv.ImageFormatUnknown)
}

// PointerTypeID returns the id of a pointer to elementType in storageClass.
func (e *TypeEmitter) PointerTypeID(elementTypeID uint32, storageClass spirv.StorageClass) uint32 {
	return e.builder.InternPointerType(elementTypeID, storageClass)
}

// UintTypeID returns the id of the scalar uint32 type.
func (e *TypeEmitter) UintTypeID() uint32 {
	return e.TypeID(ast.NewScalar(ast.BasicUint))
}

// UintConstant returns the id of the uint32 constant value, interning it.
func (e *TypeEmitter) UintConstant(value uint32) uint32 {
	uintType := e.TypeID(ast.NewScalar(ast.BasicUint))
	key := fmt.Sprintf("uconst:%d", value)
	return e.builder.InternScalarConstant(key, func() uint32 {
		return e.builder.Module.AddConstant(uintType, value)
	})
}

// ScalarConstantID returns the id of a scalar constant value.
func (e *TypeEmitter) ScalarConstantID(v ast.ScalarConstant) uint32 {
	typeID := e.TypeID(ast.NewScalar(v.Basic))
	key := fmt.Sprintf("sconst:%d:%d", v.Basic, v.Bits)
	return e.builder.InternScalarConstant(key, func() uint32 {
		switch v.Basic {
		case ast.BasicBool:
			if v.Bits != 0 {
				return e.builder.Module.AddConstantTrue(typeID)
			}
			return e.builder.Module.AddConstantFalse(typeID)
		case ast.BasicFloat:
			return e.builder.Module.AddConstant(typeID, uint32(v.Bits))
		default:
			return e.builder.Module.AddConstant(typeID, uint32(v.Bits))
		}
	})
}

// CompositeConstantUint builds (and interns) a uint32 vector constant from
// values, used to fuse a swizzle's component positions into a single
// indexable constant for OpVectorExtractDynamic.
func (e *TypeEmitter) CompositeConstantUint(values []uint32) uint32 {
	t := ast.NewVector(ast.BasicUint, uint8(len(values)))
	ids := make([]uint32, len(values))
	for i, v := range values {
		ids[i] = e.UintConstant(v)
	}
	return e.CompositeConstantID(t, ids)
}

// CompositeConstantID returns the id of a composite constant built from
// component ids already resolved via ScalarConstantID/CompositeConstantID.
func (e *TypeEmitter) CompositeConstantID(t *ast.Type, componentIDs []uint32) uint32 {
	typeID := e.TypeID(t)
	var b strings.Builder
	fmt.Fprintf(&b, "cconst:%d:", typeID)
	for _, id := range componentIDs {
		fmt.Fprintf(&b, "%d,", id)
	}
	return e.builder.InternCompositeConstant(b.String(), func() uint32 {
		return e.builder.Module.AddConstantComposite(typeID, componentIDs...)
	})
}

// typeKey builds a structural string uniquely describing t, used as the
// interning key. It intentionally ignores field names and other cosmetic
// detail that doesn't affect SPIR-V type identity, except for struct
// identity, which SPIR-V treats nominally: two structurally identical but
// differently-named structs are still distinct types.
func typeKey(t *ast.Type) string {
	var b strings.Builder
	writeTypeKey(&b, t)
	return b.String()
}

func writeTypeKey(b *strings.Builder, t *ast.Type) {
	fmt.Fprintf(b, "%d/%d,%d,%d/%d", t.Basic, t.Shape.Vector, t.Shape.MatrixCols, t.Shape.MatrixRows, t.Layout)
	if t.Element != nil {
		b.WriteString("[")
		if t.ArrayUnsized {
			b.WriteString("?")
		} else {
			fmt.Fprintf(b, "%d", t.ArrayLength)
		}
		writeTypeKey(b, t.Element)
		b.WriteString("]")
	}
	if t.Struct != nil {
		fmt.Fprintf(b, "{%s:", t.Struct.Name)
		for _, m := range t.Struct.Members {
			writeTypeKey(b, m.Type)
			b.WriteString(",")
		}
		b.WriteString("}")
	}
	if t.Image != nil {
		fmt.Fprintf(b, "img%+v", *t.Image)
	}
	if t.Sampler != nil {
		fmt.Fprintf(b, "samp%+v", *t.Sampler)
	}
}

// scalarSize returns the size in bytes of one scalar component. Every
// scalar this generator handles is 32 bits.
const scalarSize = 4

// arrayStride computes the std140/std430 stride of an array whose element
// type is element.
func arrayStride(element *ast.Type, layout ast.BlockLayout) uint32 {
	size := typeSize(element, layout)
	if layout == ast.LayoutStd140 {
		return roundUp(size, 16)
	}
	return size
}

// alignedOffset returns the next member offset after placing a member of
// type t at the current offset, per std140/std430 alignment rules.
func alignedOffset(current uint32, t *ast.Type, layout ast.BlockLayout) uint32 {
	align := typeAlign(t, layout)
	aligned := roundUp(current, align)
	return aligned + typeSize(t, layout)
}

func typeAlign(t *ast.Type, layout ast.BlockLayout) uint32 {
	switch {
	case t.Element != nil:
		elemAlign := typeAlign(t.Element, layout)
		if layout == ast.LayoutStd140 {
			return roundUp(elemAlign, 16)
		}
		return elemAlign
	case t.Struct != nil:
		max := uint32(scalarSize)
		for _, m := range t.Struct.Members {
			if a := typeAlign(m.Type, layout); a > max {
				max = a
			}
		}
		if layout == ast.LayoutStd140 {
			return roundUp(max, 16)
		}
		return max
	case t.Shape.IsMatrix():
		return typeAlign(&ast.Type{Basic: t.Basic, Shape: ast.Shape{Vector: t.Shape.MatrixRows}}, layout)
	case t.Shape.IsVector():
		switch t.Shape.Vector {
		case 2:
			return 2 * scalarSize
		default:
			return 4 * scalarSize
		}
	default:
		return scalarSize
	}
}

func typeSize(t *ast.Type, layout ast.BlockLayout) uint32 {
	switch {
	case t.Element != nil:
		count := t.ArrayLength
		if count == 0 {
			count = 1
		}
		return count * arrayStride(t.Element, layout)
	case t.Struct != nil:
		offset := uint32(0)
		for _, m := range t.Struct.Members {
			offset = alignedOffset(offset, m.Type, layout)
		}
		return roundUp(offset, typeAlign(t, layout))
	case t.Shape.IsMatrix():
		colSize := typeAlign(&ast.Type{Basic: t.Basic, Shape: ast.Shape{Vector: t.Shape.MatrixRows}}, layout)
		return uint32(t.Shape.MatrixCols) * colSize
	case t.Shape.IsVector():
		return uint32(t.Shape.Vector) * scalarSize
	default:
		return scalarSize
	}
}

func roundUp(v, align uint32) uint32 {
	if align == 0 {
		return v
	}
	return uint32(math.Ceil(float64(v)/float64(align))) * align
}
