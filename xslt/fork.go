package xslt

import "sync"

// ============================================================================
// 4.8 FORK EXECUTOR
// ============================================================================
//
// No repo in the retrieval pack implements a worker-pool/fan-out
// primitive to adapt (DESIGN.md notes this explicitly), so this is
// built directly on stdlib sync.WaitGroup, the idiomatic Go answer for
// "run N independent tasks, wait for all of them" with no external
// scheduler needed — goroutines are cheap enough that branch count
// (bounded by the stylesheet's own xsl:fork branch count, never
// unbounded input) doesn't need a pool to throttle it.

// runFork implements spec.md section 4.8: each branch gets an
// independent variable scope and a cloned accumulator manager, writes
// into its own buffer, and after all branches succeed the buffers are
// replayed to out in declaration order. The first branch error wins;
// the rest are discarded once one is seen (but all branches are still
// awaited so no goroutine outlives this call).
func runFork(ctx *TransformContext, branches []Instruction, out Sink) error {
	if len(branches) == 1 {
		return branches[0].Execute(ctx.PushVariableScope(), out)
	}

	roots := make([]*Node, len(branches))
	errs := make([]error, len(branches))

	var wg sync.WaitGroup
	wg.Add(len(branches))
	for i, branch := range branches {
		branchCtx := ctx.PushVariableScope()
		if branchCtx.Accumulators() != nil {
			branchCtx = branchCtx.WithAccumulatorManager(branchCtx.Accumulators().Clone())
		}
		pipeline, root := newNodeBufferSink()
		roots[i] = root
		go func(i int, branch Instruction, ctx *TransformContext, pipeline *Pipeline) {
			defer wg.Done()
			if err := branch.Execute(ctx, pipeline); err != nil {
				errs[i] = err
				return
			}
			errs[i] = pipeline.Flush()
		}(i, branch, branchCtx, pipeline)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for _, root := range roots {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if err := replayNode(c, out, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// Fork is the xsl:fork instruction.
type Fork struct {
	Branches []Instruction
}

func (f *Fork) Name() string          { return "fork" }
func (f *Fork) Streaming() StreamMode { return StreamNone }

func (f *Fork) Execute(ctx *TransformContext, out Sink) error {
	return runFork(ctx, f.Branches, out)
}
