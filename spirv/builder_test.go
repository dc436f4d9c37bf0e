package spirv

import "testing"

func TestBuilder_InternTypeIsIdempotent(t *testing.T) {
	b := NewBuilder(Version1_3)

	calls := 0
	create := func() uint32 {
		calls++
		return b.Module.AddTypeFloat(32)
	}

	id1 := b.InternType("f32", create)
	id2 := b.InternType("f32", create)

	if id1 != id2 {
		t.Errorf("InternType returned different ids for the same key: %d, %d", id1, id2)
	}
	if calls != 1 {
		t.Errorf("create was called %d times, want 1", calls)
	}
}

func TestBuilder_InternPointerTypeDeduplicatesByStorageClass(t *testing.T) {
	b := NewBuilder(Version1_3)
	floatType := b.Module.AddTypeFloat(32)

	p1 := b.InternPointerType(floatType, StorageClassFunction)
	p2 := b.InternPointerType(floatType, StorageClassFunction)
	p3 := b.InternPointerType(floatType, StorageClassPrivate)

	if p1 != p2 {
		t.Errorf("same (base, storage class) produced different pointer ids: %d, %d", p1, p2)
	}
	if p1 == p3 {
		t.Errorf("different storage classes produced the same pointer id: %d", p1)
	}
}

func TestBuilder_FunctionBlockLifecycle(t *testing.T) {
	b := NewBuilder(Version1_3)
	voidType := b.Module.AddTypeVoid()
	funcType := b.Module.AddTypeFunction(voidType)

	b.StartFunction(funcType, voidType, FunctionControlNone)
	if b.CurrentBlock() == 0 {
		t.Fatal("StartFunction did not open an entry block")
	}
	if b.IsTerminated() {
		t.Fatal("a freshly opened block should not be terminated")
	}

	b.Module.AddReturn()
	b.TerminateBlock()

	if !b.IsTerminated() {
		t.Fatal("TerminateBlock did not mark the block terminated")
	}

	b.AssembleFunctionBlocks()
}

func TestBuilder_AssembleFunctionBlocksPanicsIfUnterminated(t *testing.T) {
	b := NewBuilder(Version1_3)
	voidType := b.Module.AddTypeVoid()
	funcType := b.Module.AddTypeFunction(voidType)
	b.StartFunction(funcType, voidType, FunctionControlNone)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an unterminated block")
		}
	}()
	b.AssembleFunctionBlocks()
}

func TestBuilder_ConditionalScopeTracksMergeAndContinue(t *testing.T) {
	b := NewBuilder(Version1_3)
	voidType := b.Module.AddTypeVoid()
	funcType := b.Module.AddTypeFunction(voidType)
	b.StartFunction(funcType, voidType, FunctionControlNone)

	merge := b.FreshID()
	cont := b.FreshID()
	b.StartConditional(merge, cont, true)

	if b.MergeLabel() != merge {
		t.Errorf("MergeLabel() = %d, want %d", b.MergeLabel(), merge)
	}
	if b.ContinueLabel() != cont {
		t.Errorf("ContinueLabel() = %d, want %d", b.ContinueLabel(), cont)
	}
	if b.BreakTarget() != merge {
		t.Errorf("BreakTarget() = %d, want %d", b.BreakTarget(), merge)
	}

	b.EndConditional()
	if b.MergeLabel() != 0 {
		t.Error("MergeLabel() should be 0 once the scope is popped")
	}
}

func TestBuilder_BreakSearchesPastNonBreakableScopes(t *testing.T) {
	b := NewBuilder(Version1_3)
	voidType := b.Module.AddTypeVoid()
	funcType := b.Module.AddTypeFunction(voidType)
	b.StartFunction(funcType, voidType, FunctionControlNone)

	loopMerge := b.FreshID()
	loopContinue := b.FreshID()
	b.StartConditional(loopMerge, loopContinue, true)

	ifMerge := b.FreshID()
	b.StartConditional(ifMerge, 0, false)

	if b.BreakTarget() != loopMerge {
		t.Errorf("BreakTarget() = %d, want the enclosing loop's merge %d", b.BreakTarget(), loopMerge)
	}
	if b.ContinueLabel() != loopContinue {
		t.Errorf("ContinueLabel() = %d, want the enclosing loop's continue %d", b.ContinueLabel(), loopContinue)
	}
	if b.MergeLabel() != ifMerge {
		t.Errorf("MergeLabel() = %d, want the innermost scope's merge %d", b.MergeLabel(), ifMerge)
	}

	b.EndConditional()
	b.EndConditional()
}
