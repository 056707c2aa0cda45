package xslt

// ============================================================================
// TEMPLATE INVOCATION INSTRUCTIONS
// ============================================================================
//
// apply-templates/for-each's per-node select+iterate shape is grounded
// on other_examples/9b6c24cd_midbel-codecs__xslt-stylesheet.go.go's
// Mode.matchTemplate dispatch loop, generalized to this package's
// find_match/find_import_match/find_next_match trio (stylesheet.go).

// selectNodes evaluates select against ctx and returns its items in
// whatever order the expression produced (sorting, if any, is applied
// by the caller per spec.md section 4.4).
func selectNodes(ctx *TransformContext, select_ CompiledExpr, defaultChildAxis bool) ([]Value, error) {
	if select_ == nil {
		if !defaultChildAxis {
			return nil, nil
		}
		node := ctx.ContextNode()
		if node == nil {
			return nil, nil
		}
		var out []Value
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			out = append(out, FromNode(c))
		}
		return out, nil
	}
	v, err := select_.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return v.Items(), nil
}

// dispatchItem runs one selected item (node or atomic) through the
// matcher for mode and executes the winning rule's body (or the
// configured built-in) in a freshly pushed scope with parameters
// resolved, per spec.md section 4.4's apply-templates contract.
func dispatchItem(ctx *TransformContext, item Value, mode QName, params []WithParamValue, exec func(ctx *TransformContext, body Instruction, out Sink) error, out Sink) error {
	m := ctx.Stylesheet().ModeFor(mode)

	if node := item.Node(); node != nil {
		rule, builtin, err := m.FindMatch(node, ctx)
		if err != nil {
			return err
		}
		bodyCtx := ctx.WithContextNode(node).WithXSLTCurrentNode(node).WithMode(mode)
		if rule == nil {
			return runBuiltIn(bodyCtx, node, builtin, mode, out, exec)
		}
		return invokeRule(bodyCtx, rule, params, exec, out)
	}

	a, _ := item.AtomicValue()
	rule, err := m.FindMatchForAtomicValue(a, ctx)
	if err != nil {
		return err
	}
	if rule == nil {
		return out.AtomicValue(a)
	}
	bodyCtx := ctx.WithContextItem(item).WithMode(mode)
	return invokeRule(bodyCtx, rule, params, exec, out)
}

// invokeRule pushes a new scope, resolves the rule's declared
// parameters against supplied with-params, records the rule as the
// context's current template rule (enabling apply-imports/next-match),
// and runs its body.
func invokeRule(ctx *TransformContext, rule *TemplateRule, params []WithParamValue, exec func(ctx *TransformContext, body Instruction, out Sink) error, out Sink) error {
	next := ctx.PushVariableScope().WithCurrentTemplateRule(rule)
	resolved, err := resolveParameters(next, rule.Params, params)
	if err != nil {
		return err
	}
	return exec(resolved, rule.Body, out)
}

func defaultExec(ctx *TransformContext, body Instruction, out Sink) error {
	if body == nil {
		return nil
	}
	return body.Execute(ctx, out)
}

// ApplyTemplates is the xsl:apply-templates instruction.
type ApplyTemplates struct {
	Select    CompiledExpr
	Mode      QName
	Sorts     []SortSpec
	WithParams []*WithParamInstr
}

func (a *ApplyTemplates) Name() string          { return "apply-templates" }
func (a *ApplyTemplates) Streaming() StreamMode { return StreamGrounded }

func (a *ApplyTemplates) Execute(ctx *TransformContext, out Sink) error {
	mode := ctx.WithMode(a.Mode).Mode()
	items, err := selectNodes(ctx, a.Select, true)
	if err != nil {
		return err
	}
	if len(a.Sorts) > 0 {
		items, err = sortItems(ctx, items, a.Sorts)
		if err != nil {
			return err
		}
	}
	params, err := evaluateWithParams(ctx, a.WithParams)
	if err != nil {
		return err
	}
	accum := ctx.Accumulators()
	for i, item := range items {
		posCtx := ctx.WithPositionAndSize(i+1, len(items))
		if n := item.Node(); n != nil && accum != nil {
			if err := accum.BeforeDescent(posCtx, n, execInstructionToValue); err != nil {
				return err
			}
		}
		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		if err := dispatchItem(posCtx, item, mode, params, defaultExec, out); err != nil {
			return err
		}
		if n := item.Node(); n != nil && accum != nil {
			if err := accum.AfterDescent(posCtx, n, execInstructionToValue); err != nil {
				return err
			}
		}
	}
	return nil
}

func execInstructionToValue(ctx *TransformContext, body Instruction) (Value, error) {
	return executeToValue(ctx, body)
}

// ApplyImports is xsl:apply-imports.
type ApplyImports struct {
	WithParams []*WithParamInstr
}

func (a *ApplyImports) Name() string          { return "apply-imports" }
func (a *ApplyImports) Streaming() StreamMode { return StreamNone }

func (a *ApplyImports) Execute(ctx *TransformContext, out Sink) error {
	rule := ctx.CurrentTemplateRule()
	node := ctx.CurrentNode()
	if rule == nil || node == nil {
		return NewError(XTDE0560, "apply-imports: no current template rule")
	}
	m := ctx.Stylesheet().ModeFor(ctx.Mode())
	next, builtin, err := m.FindImportMatch(node, rule, ctx)
	if err != nil {
		return err
	}
	params, err := evaluateWithParams(ctx, a.WithParams)
	if err != nil {
		return err
	}
	if next == nil {
		return runBuiltIn(ctx, node, builtin, ctx.Mode(), out, defaultExec)
	}
	return invokeRule(ctx, next, params, defaultExec, out)
}

// NextMatch is xsl:next-match.
type NextMatch struct {
	WithParams []*WithParamInstr
}

func (n *NextMatch) Name() string          { return "next-match" }
func (n *NextMatch) Streaming() StreamMode { return StreamNone }

func (n *NextMatch) Execute(ctx *TransformContext, out Sink) error {
	rule := ctx.CurrentTemplateRule()
	node := ctx.CurrentNode()
	if rule == nil || node == nil {
		return NewError(XTDE0560, "next-match: no current template rule")
	}
	m := ctx.Stylesheet().ModeFor(ctx.Mode())
	next, builtin, err := m.FindNextMatch(node, rule, ctx)
	if err != nil {
		return err
	}
	params, err := evaluateWithParams(ctx, n.WithParams)
	if err != nil {
		return err
	}
	if next == nil {
		return runBuiltIn(ctx, node, builtin, ctx.Mode(), out, defaultExec)
	}
	return invokeRule(ctx, next, params, defaultExec, out)
}

// CallTemplate is xsl:call-template.
type CallTemplate struct {
	Name       QName
	WithParams []*WithParamInstr
}

func (c *CallTemplate) Name() string          { return "call-template" }
func (c *CallTemplate) Streaming() StreamMode { return StreamNone }

func (c *CallTemplate) Execute(ctx *TransformContext, out Sink) error {
	rule, err := ctx.Stylesheet().LookupNamedTemplate(c.Name)
	if err != nil {
		return err
	}
	params, err := evaluateWithParams(ctx, c.WithParams)
	if err != nil {
		return err
	}
	return invokeRule(ctx, rule, params, defaultExec, out)
}

// ForEach is xsl:for-each: like apply-templates but executes Body
// directly per item without template matching.
type ForEach struct {
	Select CompiledExpr
	Sorts  []SortSpec
	Body   Instruction
}

func (f *ForEach) Name() string          { return "for-each" }
func (f *ForEach) Streaming() StreamMode { return StreamGrounded }

func (f *ForEach) Execute(ctx *TransformContext, out Sink) error {
	items, err := selectNodes(ctx, f.Select, false)
	if err != nil {
		return err
	}
	if len(f.Sorts) > 0 {
		items, err = sortItems(ctx, items, f.Sorts)
		if err != nil {
			return err
		}
	}
	for i, item := range items {
		itemCtx := ctx.WithContextItem(item).WithPositionAndSize(i+1, len(items)).PushVariableScope()
		if n := item.Node(); n != nil {
			itemCtx = itemCtx.WithXSLTCurrentNode(n)
		}
		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		if err := f.Body.Execute(itemCtx, out); err != nil {
			return err
		}
	}
	return nil
}
