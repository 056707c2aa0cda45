package xslt

// ============================================================================
// TRANSFORM ENTRYPOINT
// ============================================================================
//
// Transform is the top-level driver spec.md section 2's Lifecycle
// describes: "a transform creates a root context, enters the root match
// or named entry template, and the context evolves through a tree of
// calls". Binding global variables/params ahead of that entry point
// mirrors instr_misc.go's bindScope/evaluateBoundValue protocol,
// generalized from a single scope-building child to the whole-stylesheet
// scope every template body executes inside.

// InitialParam supplies one top-level stylesheet parameter's value,
// overriding the corresponding xsl:param declaration's select/content
// default when present.
type InitialParam struct {
	Name  QName
	Value Value
}

// RunOption customizes the root context Transform builds before binding
// globals and dispatching — the same "apply a list of With* calls" shape
// NewRootContext's own With* setters already use, generalized so callers
// outside this package (a driving CLI) can wire a DocumentProvider,
// ResultDestination, RecoveryMode, or ErrorListener without reaching into
// unexported context fields.
type RunOption func(*TransformContext) *TransformContext

func WithDocuments(d DocumentProvider) RunOption {
	return func(c *TransformContext) *TransformContext { return c.WithDocumentProvider(d) }
}

func WithResults(r ResultDestination) RunOption {
	return func(c *TransformContext) *TransformContext { return c.WithResultDestination(r) }
}

func WithRunRecoveryMode(m RecoveryMode) RunOption {
	return func(c *TransformContext) *TransformContext { return c.WithRecoveryMode(m) }
}

func WithRunErrorListener(l ErrorListener) RunOption {
	return func(c *TransformContext) *TransformContext { return c.WithErrorListener(l) }
}

// Transform runs sheet against source, starting either at a named entry
// template (initialTemplate non-zero) or by applying templates to the
// source node in the unnamed default mode (spec.md section 2's "root
// match ... entry template" alternative), writing the resulting event
// stream to out.
func Transform(sheet *CompiledStylesheet, source *Node, initialTemplate QName, params []InitialParam, out Sink, opts ...RunOption) error {
	ctx := NewRootContext(source, sheet)
	for _, opt := range opts {
		ctx = opt(ctx)
	}

	ctx, err := bindGlobals(ctx, sheet, params)
	if err != nil {
		return err
	}

	if initialTemplate.Local != "" {
		rule, err := sheet.LookupNamedTemplate(initialTemplate)
		if err != nil {
			return err
		}
		return invokeRule(ctx, rule, nil, defaultExec, out)
	}

	mode := ctx.WithMode(QName{}).Mode()
	return dispatchItem(ctx, FromNode(source), mode, nil, defaultExec, out)
}

// bindGlobals evaluates every global parameter once, in declaration
// order, and then every global variable once, in GlobalVars map
// iteration order (not defined), into a single scope shared by the whole
// transform.
// Supplied InitialParams override a global xsl:param's own default the
// same way a caller's with-param overrides a template xsl:param's
// default (params.go's resolveOneParameter), but there is no enclosing
// call site to resolve against — the override list here stands in for
// it.
func bindGlobals(ctx *TransformContext, sheet *CompiledStylesheet, params []InitialParam) (*TransformContext, error) {
	next := ctx.PushVariableScope()

	override := make(map[QName]Value, len(params))
	for _, p := range params {
		override[p.Name] = p.Value
	}

	for _, decl := range sheet.GlobalParams {
		if v, ok := override[decl.Name]; ok {
			next = next.WithVariable(decl.Name.URI, decl.Name.Local, v)
			continue
		}
		v, err := evaluateBoundValue(next, decl.SelectExpr, decl.DefaultContent, decl.AsType)
		if err != nil {
			return nil, err
		}
		if decl.Required && decl.SelectExpr == nil && decl.DefaultContent == nil {
			return nil, NewError(XTDE0700, "required global parameter $%s not supplied", decl.Name.Local)
		}
		next = next.WithVariable(decl.Name.URI, decl.Name.Local, v)
	}

	for name, body := range sheet.GlobalVars {
		v, err := executeToValue(next, body)
		if err != nil {
			return nil, err
		}
		next = next.WithVariable(name.URI, name.Local, v)
	}

	return next, nil
}
