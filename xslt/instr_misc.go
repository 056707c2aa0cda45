package xslt

// ============================================================================
// VARIABLE / PARAM / WITH-PARAM BINDING
// ============================================================================
//
// Grounded on params.go's resolveParameters protocol (itself spec.md §4.5
// direct), reused here for xsl:variable/xsl:param's own select-or-content-
// or-default resolution and for collecting xsl:with-param instructions
// ahead of a template invocation.

// WithParamInstr is one compiled xsl:with-param.
type WithParamInstr struct {
	Name    QName
	Tunnel  bool
	AsType  string
	Select  CompiledExpr
	Content Instruction // used when Select is nil
}

// evaluateWithParams resolves a list of xsl:with-param instructions
// against ctx into the WithParamValue list resolveParameters expects.
func evaluateWithParams(ctx *TransformContext, params []*WithParamInstr) ([]WithParamValue, error) {
	if len(params) == 0 {
		return nil, nil
	}
	out := make([]WithParamValue, 0, len(params))
	for _, p := range params {
		v, err := evaluateBoundValue(ctx, p.Select, p.Content, p.AsType)
		if err != nil {
			return nil, err
		}
		out = append(out, WithParamValue{Name: p.Name, Tunnel: p.Tunnel, Value: v})
	}
	return out, nil
}

// evaluateBoundValue is the shared select-or-content(-or-RTF) resolution
// xsl:variable, xsl:param, and xsl:with-param all share: a select
// expression takes priority, otherwise the sequence-constructor content
// is captured via the sequence builder, with an optional declared-type
// coercion applied at the end.
func evaluateBoundValue(ctx *TransformContext, selectExpr CompiledExpr, content Instruction, asType string) (Value, error) {
	var v Value
	var err error
	switch {
	case selectExpr != nil:
		v, err = selectExpr.Evaluate(ctx)
	case content != nil:
		v, err = executeToValue(ctx, content)
	default:
		v = FromString("")
	}
	if err != nil {
		return Value{}, err
	}
	if asType != "" {
		return coerceAtomicType(v, asType)
	}
	return v, nil
}

// Variable is xsl:variable.
type Variable struct {
	Name    QName
	AsType  string
	Select  CompiledExpr
	Content Instruction
	// Legacy1_0 selects the XSLT 1.0 behavior of binding an RTF when
	// there is no select attribute, instead of a sequence (spec.md's
	// compatibility note).
	Legacy1_0 bool
}

func (v *Variable) Name() string { return "variable" }

func (v *Variable) Streaming() StreamMode { return StreamNone }

func (v *Variable) Execute(ctx *TransformContext, out Sink) error {
	// Binding happens via bindScope, called by the enclosing Block's
	// Execute (variables are scope-building, not output-
	// producing); Execute here is a no-op passthrough for instruction
	// trees that list it as an ordinary child for diagnostics purposes.
	return nil
}

// bindScope computes this declaration's value and returns a context with
// it bound. Block.Execute (instr.go) special-cases any child implementing
// scopeBinder: unlike every other instruction, a variable changes the
// scope subsequent siblings see rather than writing to out.
func (v *Variable) bindScope(ctx *TransformContext) (*TransformContext, error) {
	var val Value
	var err error
	if v.Legacy1_0 && v.Select == nil && v.Content != nil {
		rtf, rerr := executeToRTF(ctx, v.Content, ctx.StaticBaseURI())
		if rerr != nil {
			return nil, rerr
		}
		val = FromRTF(rtf)
	} else {
		val, err = evaluateBoundValue(ctx, v.Select, v.Content, v.AsType)
	}
	if err != nil {
		return nil, err
	}
	return ctx.WithVariable(v.Name.URI, v.Name.Local, val), nil
}

// Param is xsl:param, used both as a global stylesheet parameter and
// (via stylesheet.go's ParamDecl, which this mirrors) a template/function
// parameter declared outside the call protocol — e.g. a stylesheet-level
// global parameter bound once at transform start.
type Param struct {
	Name     QName
	AsType   string
	Required bool
	Select   CompiledExpr
	Content  Instruction
}

func (p *Param) Name() string { return "param" }

func (p *Param) Streaming() StreamMode { return StreamNone }

func (p *Param) Execute(ctx *TransformContext, out Sink) error { return nil }

// bindScope resolves this parameter the way a sequence-constructor-local
// xsl:param behaves when encountered as an ordinary Block child (no
// externally supplied override reaches it here — that path is
// resolveParameters in params.go, used for template/function parameters
// specifically).
func (p *Param) bindScope(ctx *TransformContext) (*TransformContext, error) {
	if p.Required {
		return nil, NewError(XTDE0700, "parameter $%s is required", p.Name.Local)
	}
	val, err := evaluateBoundValue(ctx, p.Select, p.Content, p.AsType)
	if err != nil {
		return nil, err
	}
	return ctx.WithVariable(p.Name.URI, p.Name.Local, val), nil
}

// bindGlobalParam resolves a stylesheet-level global parameter against an
// externally supplied override (if any), falling back to select/content/
// empty-string exactly as resolveOneParameter does for template
// parameters.
func (p *Param) bindGlobalParam(ctx *TransformContext, supplied map[QName]Value) (*TransformContext, error) {
	if v, ok := supplied[p.Name]; ok {
		if p.AsType != "" {
			coerced, err := coerceAtomicType(v, p.AsType)
			if err != nil {
				return nil, WrapError(XTTE0590, err, "global parameter $%s", p.Name.Local)
			}
			v = coerced
		}
		return ctx.WithVariable(p.Name.URI, p.Name.Local, v), nil
	}
	if p.Required {
		return nil, NewError(XTDE0700, "global parameter $%s is required", p.Name.Local)
	}
	val, err := evaluateBoundValue(ctx, p.Select, p.Content, p.AsType)
	if err != nil {
		return nil, err
	}
	return ctx.WithVariable(p.Name.URI, p.Name.Local, val), nil
}

// scopeBinder is implemented by instructions that mutate the enclosing
// sequence constructor's variable scope instead of writing events —
// xsl:variable and xsl:param when they appear as ordinary children of a
// Block.
type scopeBinder interface {
	bindScope(ctx *TransformContext) (*TransformContext, error)
}
