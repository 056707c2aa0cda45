package xslt

// ============================================================================
// 4.5 PARAMETER RESOLUTION PROTOCOL
// ============================================================================
//
// Direct implementation of spec.md section 4.5's numbered protocol.
// WithParamInstr (instr_misc.go) instructions aren't executed as part of
// a body the normal way; the template-invoking instructions
// (call-template, apply-templates's matched rule entry, apply-imports,
// next-match) collect them first and hand the resulting list here.

// WithParamValue is one resolved xsl:with-param, keyed for matching
// against a ParamDecl by (name, tunnel).
type WithParamValue struct {
	Name   QName
	Tunnel bool
	Value  Value
}

// resolveParameters implements the protocol for one template's
// parameter list, given the supplied with-params and the outer context's
// existing tunnel map (already part of ctx). It returns a context with
// the supplied tunnel params merged in and every declared parameter
// bound (so tunnel params the callee doesn't declare still propagate to
// its own callees).
func resolveParameters(ctx *TransformContext, params []*ParamDecl, supplied []WithParamValue) (*TransformContext, error) {
	suppliedNonTunnel := make(map[QName]Value)
	suppliedTunnel := make(map[QName]Value)
	for _, p := range supplied {
		if p.Tunnel {
			suppliedTunnel[p.Name] = p.Value
		} else {
			suppliedNonTunnel[p.Name] = p.Value
		}
	}

	next := ctx.WithTunnelParameters(suppliedTunnel)

	for _, p := range params {
		v, found, err := resolveOneParameter(ctx, next, p, suppliedNonTunnel, suppliedTunnel)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		next = next.WithVariable(p.Name.URI, p.Name.Local, v)
	}
	return next, nil
}

func resolveOneParameter(outer, next *TransformContext, p *ParamDecl, suppliedNonTunnel, suppliedTunnel map[QName]Value) (Value, bool, error) {
	var (
		v     Value
		found bool
	)
	if p.Tunnel {
		if sv, ok := suppliedTunnel[p.Name]; ok {
			v, found = sv, true
		} else if tv, ok := outer.LookupTunnelParameter(p.Name); ok {
			v, found = tv, true
		}
	} else if sv, ok := suppliedNonTunnel[p.Name]; ok {
		v, found = sv, true
	}

	if !found {
		switch {
		case p.Required:
			return Value{}, false, NewError(XTDE0700, "template parameter $%s is required", p.Name.Local)
		case p.SelectExpr != nil:
			sv, err := p.SelectExpr.Evaluate(next)
			if err != nil {
				return Value{}, false, err
			}
			v, found = sv, true
		case p.DefaultContent != nil:
			sv, err := executeToValue(next, p.DefaultContent)
			if err != nil {
				return Value{}, false, err
			}
			v, found = sv, true
		default:
			v, found = FromString(""), true
		}
	}

	if found && p.AsType != "" {
		coerced, err := coerceAtomicType(v, p.AsType)
		if err != nil {
			return Value{}, false, WrapError(XTTE0590, err, "parameter $%s", p.Name.Local)
		}
		v = coerced
	}
	return v, found, nil
}
