package xslt

// ============================================================================
// ITERATE / BREAK / NEXT-ITERATION
// ============================================================================
//
// No pack repo models stateful iteration with early exit, so this is built
// directly against spec.md's own numbered protocol, reusing signal.go's
// BreakSignal/NextIterationSignal sentinel errors (themselves grounded on
// the midbel reference's errBreak/errIterate pattern) as the unwind
// mechanism: Body's tree can call an arbitrarily nested Break or
// NextIteration instruction, and Iterate is the one place allowed to
// catch what they throw.

// IterateParam declares one xsl:param child of xsl:iterate: an initial
// value plus the name next-iteration assignments rebind.
type IterateParam struct {
	Name   QName
	Select CompiledExpr
}

// Iterate is xsl:iterate.
type Iterate struct {
	Select       CompiledExpr
	Params       []IterateParam
	Body         Instruction
	OnCompletion Instruction
}

func (it *Iterate) Name() string          { return "iterate" }
func (it *Iterate) Streaming() StreamMode { return StreamNone }

func (it *Iterate) Execute(ctx *TransformContext, out Sink) error {
	items, err := selectNodes(ctx, it.Select, false)
	if err != nil {
		return err
	}

	params := make(map[QName]Value, len(it.Params))
	for _, p := range it.Params {
		v, err := p.Select.Evaluate(ctx)
		if err != nil {
			return err
		}
		params[p.Name] = v
	}

	for i, item := range items {
		loopCtx := ctx.WithContextItem(item).WithPositionAndSize(i+1, len(items)).PushVariableScope()
		if n := item.Node(); n != nil {
			loopCtx = loopCtx.WithXSLTCurrentNode(n)
		}
		for name, v := range params {
			loopCtx = loopCtx.WithVariable(name.URI, name.Local, v)
		}

		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		err := it.Body.Execute(loopCtx, out)
		if err == nil {
			continue
		}
		if asBreak(err) {
			break
		}
		if next, ok := asNextIteration(err); ok {
			for name, v := range next.Params {
				params[name] = v
			}
			continue
		}
		return err
	}

	if it.OnCompletion != nil {
		return it.OnCompletion.Execute(ctx, out)
	}
	return nil
}

// Break is xsl:break: unwinds to the nearest enclosing xsl:iterate,
// optionally writing a final fragment of content first.
type Break struct {
	Content Instruction
}

func (b *Break) Name() string          { return "break" }
func (b *Break) Streaming() StreamMode { return StreamNone }

func (b *Break) Execute(ctx *TransformContext, out Sink) error {
	if b.Content != nil {
		if err := b.Content.Execute(ctx, out); err != nil {
			return err
		}
	}
	return BreakSignal{}
}

// NextIterationParam is one xsl:with-param child of xsl:next-iteration:
// the updated value bound to the named iterate parameter for the next
// pass.
type NextIterationParam struct {
	Name   QName
	Select CompiledExpr
}

// NextIteration is xsl:next-iteration.
type NextIteration struct {
	Params []NextIterationParam
}

func (n *NextIteration) Name() string          { return "next-iteration" }
func (n *NextIteration) Streaming() StreamMode { return StreamNone }

func (n *NextIteration) Execute(ctx *TransformContext, out Sink) error {
	params := make(map[QName]Value, len(n.Params))
	for _, p := range n.Params {
		v, err := p.Select.Evaluate(ctx)
		if err != nil {
			return err
		}
		params[p.Name] = v
	}
	return NextIterationSignal{Params: params}
}
