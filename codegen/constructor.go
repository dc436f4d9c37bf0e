package codegen

import "github.com/gogpu/spirvgen/ast"

// ConstructorSynthesizer lowers a shading-language constructor call
// (`vec4(...)`, `mat3(...)`, `MyStruct(...)`, `float[4](...)`) to the
// OpCompositeConstruct (or, for a single-argument scalar-to-scalar cast, a
// bare conversion) instructions the argument shapes call for. The rules are
// matched in order; the first one whose argument shape matches the target
// type applies.
type ConstructorSynthesizer struct {
	engine *Engine
}

// NewConstructorSynthesizer creates a synthesizer over engine.
func NewConstructorSynthesizer(engine *Engine) *ConstructorSynthesizer {
	return &ConstructorSynthesizer{engine: engine}
}

// ArgumentValue is one already-translated constructor argument: its value
// id and its resolved type, needed to decide truncation/expansion/casting.
type ArgumentValue struct {
	ID   uint32
	Type *ast.Type
}

// Construct builds a value of type target from args, per the rule table in
// the constructor synthesizer's contract.
func (s *ConstructorSynthesizer) Construct(target *ast.Type, args []ArgumentValue) uint32 {
	targetTypeID := s.engine.Types.TypeID(target)

	switch {
	case target.Shape.IsScalar() && target.Struct == nil && target.Element == nil:
		return s.constructScalar(target, targetTypeID, args)
	case target.Element != nil:
		return s.constructArray(target, targetTypeID, args)
	case target.Struct != nil:
		return s.constructStruct(target, targetTypeID, args)
	case target.Shape.IsMatrix():
		return s.constructMatrix(target, targetTypeID, args)
	case target.Shape.IsVector():
		return s.constructVector(target, targetTypeID, args)
	default:
		panic("codegen: unhandled constructor target shape")
	}
}

// constructScalar converts a single scalar argument to target's basic
// type, or passes it through unchanged if the basic type already matches.
// A single-component vector argument (the result of a swizzle) is treated
// the same as a scalar.
func (s *ConstructorSynthesizer) constructScalar(target *ast.Type, targetTypeID uint32, args []ArgumentValue) uint32 {
	if len(args) != 1 {
		panic("codegen: scalar constructor takes exactly one argument")
	}
	return s.convertScalar(args[0].ID, args[0].Type.Basic, target.Basic, targetTypeID)
}

// convertScalar emits the explicit convert opcode needed to change a
// scalar value from one basic type to another, or returns id unchanged if
// no conversion is needed.
func (s *ConstructorSynthesizer) convertScalar(id uint32, from, to ast.BasicType, toTypeID uint32) uint32 {
	if from == to {
		return id
	}
	op := convertOpcode(from, to)
	return s.engine.Builder.Module.AddUnaryOp(op, toTypeID, id)
}

// constructVector builds a vector from a mix of scalar and vector
// arguments. Per the shading-language constructor rule, arguments are
// consumed left to right, contributing one component each if scalar or
// their full component count if a vector, and construction stops once the
// target's component count is reached (so `vec2(v3)` truncates v3, and
// `vec4(v2, 1.0, 1.0)` concatenates).
func (s *ConstructorSynthesizer) constructVector(target *ast.Type, targetTypeID uint32, args []ArgumentValue) uint32 {
	componentTypeID := s.engine.Types.TypeID(ast.NewScalar(target.Basic))
	want := int(target.Shape.Vector)

	// A single vector argument being resized (truncated or exactly matched)
	// uses a plain shuffle.
	if len(args) == 1 && args[0].Type.Shape.IsVector() {
		return s.resizeVector(target, targetTypeID, componentTypeID, args[0])
	}

	// A single scalar argument broadcasts to every component, e.g. vec3(0.0).
	if len(args) == 1 && args[0].Type.Shape.IsScalar() {
		scalar := s.convertScalar(args[0].ID, args[0].Type.Basic, target.Basic, componentTypeID)
		components := make([]uint32, want)
		for i := range components {
			components[i] = scalar
		}
		return s.engine.Builder.Module.AddCompositeConstruct(targetTypeID, components...)
	}

	components := make([]uint32, 0, want)
	for _, arg := range args {
		if len(components) >= want {
			break
		}
		if arg.Type.Shape.IsVector() {
			n := int(arg.Type.Shape.Vector)
			for i := 0; i < n && len(components) < want; i++ {
				comp := s.engine.Builder.Module.AddCompositeExtract(componentTypeID, arg.ID, uint32(i))
				components = append(components, s.convertScalar(comp, arg.Type.Basic, target.Basic, componentTypeID))
			}
		} else {
			components = append(components, s.convertScalar(arg.ID, arg.Type.Basic, target.Basic, componentTypeID))
		}
	}
	return s.engine.Builder.Module.AddCompositeConstruct(targetTypeID, components...)
}

func (s *ConstructorSynthesizer) resizeVector(target *ast.Type, targetTypeID, componentTypeID uint32, arg ArgumentValue) uint32 {
	source := arg.ID
	if arg.Type.Basic != target.Basic {
		n := int(arg.Type.Shape.Vector)
		components := make([]uint32, n)
		for i := 0; i < n; i++ {
			comp := s.engine.Builder.Module.AddCompositeExtract(componentTypeID, source, uint32(i))
			components[i] = s.convertScalar(comp, arg.Type.Basic, target.Basic, componentTypeID)
		}
		source = s.engine.Builder.Module.AddCompositeConstruct(s.engine.Types.TypeID(ast.NewVector(target.Basic, uint8(n))), components...)
	}
	want := int(target.Shape.Vector)
	shuffle := make([]uint32, want)
	for i := 0; i < want; i++ {
		shuffle[i] = uint32(i)
	}
	return s.engine.Builder.Module.AddVectorShuffle(targetTypeID, source, source, shuffle)
}

// constructMatrix builds a matrix, following the three shapes the language
// allows: one scalar (a diagonal matrix scaled by that value, identity
// elsewhere), one matrix of a possibly different size (extended with the
// identity matrix's values, or truncated), or exactly enough column
// vectors or scalars to fill every element.
func (s *ConstructorSynthesizer) constructMatrix(target *ast.Type, targetTypeID uint32, args []ArgumentValue) uint32 {
	cols := int(target.Shape.MatrixCols)
	rows := int(target.Shape.MatrixRows)
	columnType := ast.NewVector(target.Basic, uint8(rows))
	columnTypeID := s.engine.Types.TypeID(columnType)

	switch {
	case len(args) == 1 && args[0].Type.Shape.IsScalar():
		return s.constructDiagonalMatrix(target, targetTypeID, columnType, columnTypeID, args[0])

	case len(args) == 1 && args[0].Type.Shape.IsMatrix():
		return s.constructMatrixFromMatrix(target, targetTypeID, columnType, columnTypeID, args[0])

	case len(args) == cols && allVectors(args):
		columnIDs := make([]uint32, cols)
		for i, a := range args {
			columnIDs[i] = a.ID
		}
		return s.engine.Builder.Module.AddCompositeConstruct(targetTypeID, columnIDs...)

	default:
		// Enough scalars to fill every element, row-major in source order,
		// grouped into columns.
		componentTypeID := s.engine.Types.TypeID(ast.NewScalar(target.Basic))
		columnIDs := make([]uint32, cols)
		idx := 0
		for c := 0; c < cols; c++ {
			rowIDs := make([]uint32, rows)
			for r := 0; r < rows; r++ {
				rowIDs[r] = s.convertScalar(args[idx].ID, args[idx].Type.Basic, target.Basic, componentTypeID)
				idx++
			}
			columnIDs[c] = s.engine.Builder.Module.AddCompositeConstruct(columnTypeID, rowIDs...)
		}
		return s.engine.Builder.Module.AddCompositeConstruct(targetTypeID, columnIDs...)
	}
}

func (s *ConstructorSynthesizer) constructDiagonalMatrix(target *ast.Type, targetTypeID uint32, columnType *ast.Type, columnTypeID uint32, arg ArgumentValue) uint32 {
	componentTypeID := s.engine.Types.TypeID(ast.NewScalar(target.Basic))
	diag := s.convertScalar(arg.ID, arg.Type.Basic, target.Basic, componentTypeID)
	zero := s.engine.Types.ScalarConstantID(ast.ScalarConstant{Basic: target.Basic})

	cols := int(target.Shape.MatrixCols)
	rows := int(target.Shape.MatrixRows)
	columnIDs := make([]uint32, cols)
	for c := 0; c < cols; c++ {
		rowIDs := make([]uint32, rows)
		for r := 0; r < rows; r++ {
			if r == c {
				rowIDs[r] = diag
			} else {
				rowIDs[r] = zero
			}
		}
		columnIDs[c] = s.engine.Builder.Module.AddCompositeConstruct(columnTypeID, rowIDs...)
	}
	return s.engine.Builder.Module.AddCompositeConstruct(targetTypeID, columnIDs...)
}

func (s *ConstructorSynthesizer) constructMatrixFromMatrix(target *ast.Type, targetTypeID uint32, columnType *ast.Type, columnTypeID uint32, arg ArgumentValue) uint32 {
	srcCols := int(arg.Type.Shape.MatrixCols)
	srcRows := int(arg.Type.Shape.MatrixRows)
	cols := int(target.Shape.MatrixCols)
	rows := int(target.Shape.MatrixRows)
	componentTypeID := s.engine.Types.TypeID(ast.NewScalar(target.Basic))
	zero := s.engine.Types.ScalarConstantID(ast.ScalarConstant{Basic: target.Basic})
	srcColumnTypeID := s.engine.Types.TypeID(ast.NewVector(target.Basic, uint8(srcRows)))

	columnIDs := make([]uint32, cols)
	for c := 0; c < cols; c++ {
		rowIDs := make([]uint32, rows)
		for r := 0; r < rows; r++ {
			switch {
			case c < srcCols && r < srcRows:
				srcColumn := s.engine.Builder.Module.AddCompositeExtract(srcColumnTypeID, arg.ID, uint32(c))
				rowIDs[r] = s.engine.Builder.Module.AddCompositeExtract(componentTypeID, srcColumn, uint32(r))
			case r == c:
				rowIDs[r] = s.engine.Types.ScalarConstantID(ast.ScalarConstant{Basic: target.Basic, Bits: 1})
			default:
				rowIDs[r] = zero
			}
		}
		columnIDs[c] = s.engine.Builder.Module.AddCompositeConstruct(columnTypeID, rowIDs...)
	}
	return s.engine.Builder.Module.AddCompositeConstruct(targetTypeID, columnIDs...)
}

// constructArray builds a fixed-size array from one argument per element.
func (s *ConstructorSynthesizer) constructArray(target *ast.Type, targetTypeID uint32, args []ArgumentValue) uint32 {
	ids := make([]uint32, len(args))
	for i, a := range args {
		ids[i] = a.ID
	}
	return s.engine.Builder.Module.AddCompositeConstruct(targetTypeID, ids...)
}

// constructStruct builds a struct from one argument per member, in
// declaration order.
func (s *ConstructorSynthesizer) constructStruct(target *ast.Type, targetTypeID uint32, args []ArgumentValue) uint32 {
	ids := make([]uint32, len(args))
	for i, a := range args {
		ids[i] = a.ID
	}
	return s.engine.Builder.Module.AddCompositeConstruct(targetTypeID, ids...)
}

func allVectors(args []ArgumentValue) bool {
	for _, a := range args {
		if !a.Type.Shape.IsVector() {
			return false
		}
	}
	return true
}
