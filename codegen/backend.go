package codegen

import (
	"fmt"

	"github.com/gogpu/spirvgen/ast"
	"github.com/gogpu/spirvgen/spirv"
)

// Backend orchestrates one full module translation: an ast.Module in, a
// complete SPIR-V binary out. It owns the shared Builder, type/constant
// interning, module-scope symbol table, and the Translator and
// StatementTranslator every function body is driven through.
type Backend struct {
	options spirv.Options

	builder *spirv.Builder
	engine  *Engine
	globals *GlobalTable
	extGLSL uint32

	nextInputLocation  uint32
	nextOutputLocation uint32
	nextBinding        uint32
}

// NewBackend creates a Backend configured by options.
func NewBackend(options spirv.Options) *Backend {
	builder := spirv.NewBuilder(options.Version)
	engine := NewEngine(builder)
	return &Backend{
		options: options,
		builder: builder,
		engine:  engine,
		globals: NewGlobalTable(engine),
	}
}

// Compile lowers module to a complete SPIR-V binary, following the same
// section order SPIR-V itself requires: capabilities, extended instruction
// imports, memory model, globals and their decorations, functions, and
// finally the entry points naming which functions and interface variables
// each stage uses.
func (b *Backend) Compile(module *ast.Module) ([]byte, error) {
	b.emitCapabilities()
	b.extGLSL = b.builder.Module.AddExtInstImport("GLSL.std.450")
	b.builder.Module.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	for _, g := range module.Globals {
		if err := b.emitGlobal(g); err != nil {
			return nil, err
		}
	}

	// Every function's signature is declared before any body is translated,
	// so a call to a function defined later in module.Functions (or one that
	// calls back into its own caller) still resolves: SPIR-V itself allows
	// OpFunctionCall to name a function not yet defined in the module.
	defs := make([]*ast.FunctionDefinition, 0, len(module.Functions))
	for _, fn := range module.Functions {
		switch k := fn.Kind.(type) {
		case ast.FunctionDefinition:
			b.declareFunctionSignature(k.Prototype)
			def := k
			defs = append(defs, &def)
		case ast.FunctionPrototype:
			b.declareFunctionSignature(&k)
		default:
			return nil, fmt.Errorf("codegen: module.Functions entry is not a function: %T", fn.Kind)
		}
	}

	for _, def := range defs {
		if err := b.emitFunctionBody(def); err != nil {
			return nil, err
		}
	}

	if err := b.emitEntryPoints(module.EntryPoints); err != nil {
		return nil, err
	}

	return b.builder.Module.Build(), nil
}

// emitCapabilities declares the Shader capability every shading-language
// module needs, plus any additional capabilities the caller requested.
func (b *Backend) emitCapabilities() {
	b.builder.Module.AddCapability(spirv.CapabilityShader)
	for _, cap := range b.options.Capabilities {
		b.builder.Module.AddCapability(cap)
	}
}

// emitGlobal declares one module-scope variable. GlobalQualifierDeclaration
// restates a qualifier on an already-declared symbol and has no codegen
// effect of its own.
func (b *Backend) emitGlobal(n *ast.Node) error {
	decl, ok := n.Kind.(ast.Declaration)
	if !ok {
		if _, ok := n.Kind.(ast.GlobalQualifierDeclaration); ok {
			return nil
		}
		return fmt.Errorf("codegen: unexpected global node kind %T", n.Kind)
	}

	storage := globalStorageClass(decl.Qualifier, decl.Type)
	typeID := b.engine.Types.TypeID(decl.Type)
	pointerType := b.engine.Types.PointerTypeID(typeID, storage)

	var varID uint32
	if decl.Initializer != nil {
		initID := b.constGlobalInit(decl.Initializer)
		varID = b.builder.Module.AddVariableWithInit(pointerType, storage, initID)
	} else {
		varID = b.builder.DeclareVariable(pointerType, storage, "")
	}

	b.decorateGlobal(varID, decl)
	b.globals.Declare(decl.Symbol, InitLvalue(varID, typeID, storage, decl.Type.Layout))
	if storage == spirv.StorageClassInput || storage == spirv.StorageClassOutput {
		b.globals.interfaceVars = append(b.globals.interfaceVars, varID)
	}
	return nil
}

// constGlobalInit translates a global initializer. Front-end validation
// guarantees this is always a folded Constant node: SPIR-V module-scope
// OpVariable initializers must themselves be constants.
func (b *Backend) constGlobalInit(n *ast.Node) uint32 {
	translator := NewTranslator(b.engine, b.extGLSL, b.globals)
	return translator.Value(n)
}

// decorateGlobal applies the layout decorations a module-scope variable
// needs based on its qualifier: Location for stage inputs/outputs (assigned
// sequentially in declaration order, or per-field for an in/out interface
// block), DescriptorSet/Binding for uniform and storage resources.
func (b *Backend) decorateGlobal(id uint32, decl ast.Declaration) {
	switch decl.Qualifier {
	case ast.QualifierIn:
		b.decorateInterfaceLocations(id, decl.Type, &b.nextInputLocation)
	case ast.QualifierOut, ast.QualifierVarying:
		b.decorateInterfaceLocations(id, decl.Type, &b.nextOutputLocation)
	case ast.QualifierUniform, ast.QualifierIOBlock:
		b.builder.Module.AddDecorate(id, spirv.DecorationDescriptorSet, 0)
		b.builder.Module.AddDecorate(id, spirv.DecorationBinding, b.nextBinding)
		b.nextBinding++
	}
}

// decorateInterfaceLocations assigns Location decorations for a stage
// input/output variable. An interface block gets one MemberDecorate per
// field, using the field's explicit layout(location=N) where given and
// falling back to the next sequential slot otherwise; a plain scalar,
// vector, or matrix variable gets a single Location decoration on the
// variable itself.
func (b *Backend) decorateInterfaceLocations(id uint32, t *ast.Type, next *uint32) {
	if t.Basic == ast.BasicInterfaceBlock {
		structID := b.engine.Types.TypeID(t)
		for i, field := range t.Struct.Members {
			loc := *next
			if field.Location >= 0 {
				loc = uint32(field.Location)
			}
			b.builder.Module.AddMemberDecorate(structID, uint32(i), spirv.DecorationLocation, loc)
			*next = loc + 1
		}
		return
	}
	b.builder.Module.AddDecorate(id, spirv.DecorationLocation, *next)
	*next++
}

// globalStorageClass maps a source-level qualifier to the SPIR-V storage
// class its backing OpVariable is declared in. QualifierVarying (legacy
// GLSL, direction implied by stage) is treated as an output: linking a
// varying's producing and consuming stages into a single module is out of
// scope, so only the vertex-shader side of a varying is materialized here.
func globalStorageClass(q ast.Qualifier, t *ast.Type) spirv.StorageClass {
	switch q {
	case ast.QualifierIn:
		return spirv.StorageClassInput
	case ast.QualifierOut, ast.QualifierVarying:
		return spirv.StorageClassOutput
	case ast.QualifierShared:
		return spirv.StorageClassWorkgroup
	case ast.QualifierUniform, ast.QualifierIOBlock:
		if t.Basic == ast.BasicSampler || t.Basic == ast.BasicImage {
			return spirv.StorageClassUniformConstant
		}
		if t.Layout == ast.LayoutStd430 {
			return spirv.StorageClassStorageBuffer
		}
		return spirv.StorageClassUniform
	default:
		return spirv.StorageClassPrivate
	}
}

// declareFunctionSignature computes proto's SPIR-V function type and
// reserves a function id for it, registering both with the global table so
// a call site translated before or after this function's own body still
// resolves. Emitting the actual OpFunction header is deferred to
// emitFunctionBody, once bodies are translated in declaration order.
func (b *Backend) declareFunctionSignature(proto *ast.FunctionPrototype) {
	returnTypeID := b.engine.Types.TypeID(proto.ReturnType)
	paramTypeIDs := make([]uint32, len(proto.Parameters))
	for i, p := range proto.Parameters {
		paramTypeIDs[i] = b.paramTypeID(p)
	}
	b.functionTypeID(returnTypeID, paramTypeIDs)
	funcID := b.builder.FreshID()
	b.globals.DeclareFunction(proto.Symbol, FunctionInfo{
		ID:           funcID,
		ReturnTypeID: returnTypeID,
		Parameters:   proto.Parameters,
	})
}

// functionTypeID interns an OpTypeFunction by its return and parameter type
// ids, so declaring a prototype's signature ahead of its body and emitting
// the OpFunction header later resolve to the same type instead of two
// structurally-identical OpTypeFunction declarations.
func (b *Backend) functionTypeID(returnTypeID uint32, paramTypeIDs []uint32) uint32 {
	key := fmt.Sprintf("fn:%d/%v", returnTypeID, paramTypeIDs)
	return b.builder.InternType(key, func() uint32 {
		return b.builder.Module.AddTypeFunction(returnTypeID, paramTypeIDs...)
	})
}

// paramTypeID returns the SPIR-V type a formal parameter is declared with.
// An out or inout parameter is passed as a Function-storage pointer, per
// the by-reference calling convention Translator.translateCall implements;
// an in or const parameter is passed by value.
func (b *Backend) paramTypeID(p ast.Parameter) uint32 {
	base := b.engine.Types.TypeID(p.Type)
	if p.Qualifier == ast.QualifierOut || p.Qualifier == ast.QualifierInOut {
		return b.engine.Types.PointerTypeID(base, spirv.StorageClassFunction)
	}
	return base
}

// emitFunctionBody emits the full OpFunction..OpFunctionEnd sequence for
// def, using the id and type declareFunctionSignature already reserved for
// its prototype.
func (b *Backend) emitFunctionBody(def *ast.FunctionDefinition) error {
	proto := def.Prototype
	funcID, returnTypeID, _, ok := b.globals.Function(proto.Symbol)
	if !ok {
		return fmt.Errorf("codegen: function %q has no reserved signature", proto.Name)
	}

	paramTypeIDs := make([]uint32, len(proto.Parameters))
	for i, p := range proto.Parameters {
		paramTypeIDs[i] = b.paramTypeID(p)
	}
	funcTypeID := b.functionTypeID(returnTypeID, paramTypeIDs)

	b.builder.StartFunctionWithID(funcID, funcTypeID, returnTypeID, spirv.FunctionControlNone)

	locals := NewLocalTable(b.globals)
	for i, p := range proto.Parameters {
		paramID := b.builder.Module.AddFunctionParameter(paramTypeIDs[i])
		if p.Qualifier == ast.QualifierOut || p.Qualifier == ast.QualifierInOut {
			locals.Declare(p.Symbol, InitLvalue(paramID, b.engine.Types.TypeID(p.Type), spirv.StorageClassFunction, ast.LayoutUnspecified))
		} else {
			locals.Declare(p.Symbol, InitRvalue(paramID, b.engine.Types.TypeID(p.Type)))
		}
	}

	translator := NewTranslator(b.engine, b.extGLSL, locals)
	stmts := NewStatementTranslator(b.engine, translator)
	stmts.Locals = locals

	stmts.Translate(def.Body)

	// A validated tree guarantees every path through a non-void function
	// returns explicitly; this only fires for a void function whose body
	// falls off the end without a bare `return`.
	if !b.builder.IsTerminated() {
		b.builder.Module.AddReturn()
		b.builder.TerminateBlock()
	}

	b.builder.AssembleFunctionBlocks()
	if b.options.DebugInfo && proto.Name != "" {
		b.builder.Module.AddName(funcID, proto.Name)
	}
	return nil
}

// emitEntryPoints emits OpEntryPoint and any stage-specific OpExecutionMode
// for every entry point in module, using the interface variables the
// globals and built-ins actually referenced accumulated while their bodies
// were translated.
func (b *Backend) emitEntryPoints(entryPoints []ast.EntryPoint) error {
	for _, ep := range entryPoints {
		funcID, _, _, ok := b.globals.Function(ep.Function)
		if !ok {
			return fmt.Errorf("codegen: entry point %q names an unresolved function", ep.Name)
		}

		var execModel spirv.ExecutionModel
		switch ep.Stage {
		case ast.StageVertex:
			execModel = spirv.ExecutionModelVertex
		case ast.StageFragment:
			execModel = spirv.ExecutionModelFragment
		case ast.StageCompute:
			execModel = spirv.ExecutionModelGLCompute
		default:
			return fmt.Errorf("codegen: unsupported shader stage %d", ep.Stage)
		}

		b.builder.Module.AddEntryPoint(execModel, funcID, ep.Name, b.globals.InterfaceVars())

		switch ep.Stage {
		case ast.StageFragment:
			b.builder.Module.AddExecutionMode(funcID, spirv.ExecutionModeOriginUpperLeft)
		case ast.StageCompute:
			b.builder.Module.AddExecutionMode(funcID, spirv.ExecutionModeLocalSize,
				ep.Workgroup[0], ep.Workgroup[1], ep.Workgroup[2])
		}
	}
	return nil
}
