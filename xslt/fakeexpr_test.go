package xslt

// Small stand-ins for the external ExprEval/CompiledPattern collaborators
// (expreval.go): compiling real XPath is out of this package's scope, so
// tests that need a select/match/test expression build one of these
// instead, the same way a compiler would hand the core an opaque
// CompiledExpr/CompiledPattern pair.

type fakeExpr struct {
	src string
	fn  func(ctx *TransformContext) (Value, error)
}

func (f *fakeExpr) Evaluate(ctx *TransformContext) (Value, error) { return f.fn(ctx) }
func (f *fakeExpr) Source() string                                { return f.src }

// constExpr always evaluates to v, ignoring ctx.
func constExpr(v Value) CompiledExpr {
	return &fakeExpr{src: "const()", fn: func(*TransformContext) (Value, error) { return v, nil }}
}

// attrExpr evaluates to the string value of the context node's attribute
// named local, or "" if the context item isn't a node or has no such
// attribute.
func attrExpr(local string) CompiledExpr {
	return &fakeExpr{src: "@" + local, fn: func(ctx *TransformContext) (Value, error) {
		n := ctx.ContextNode()
		if n == nil {
			return FromString(""), nil
		}
		for _, a := range n.Attr {
			if a.Local == local {
				return FromString(a.Data), nil
			}
		}
		return FromString(""), nil
	}}
}

// varExpr evaluates to the current value of an in-scope unprefixed
// variable.
func varExpr(local string) CompiledExpr {
	return &fakeExpr{src: "$" + local, fn: func(ctx *TransformContext) (Value, error) {
		return ctx.LookupVariable("", local)
	}}
}

// fakePattern matches elements by local name (kind/uri ignored), the
// minimum a test needs to drive Mode.FindMatch/FindImportMatch/
// FindNextMatch.
type fakePattern struct{ local string }

func namePattern(local string) CompiledPattern { return &fakePattern{local: local} }

func (p *fakePattern) Matches(node *Node, ctx *TransformContext) (bool, error) {
	return node.Kind == ElementNode && node.Local == p.local, nil
}

func (p *fakePattern) MatchesAtomic(v Atomic, ctx *TransformContext) (bool, error) {
	return false, nil
}

func (p *fakePattern) Source() string { return "fake:" + p.local }

// instrFunc adapts a plain closure to the Instruction interface, letting
// a test observe/assert from inside a sequence constructor body without
// a dedicated struct per test.
type instrFunc func(ctx *TransformContext, out Sink) error

func (f instrFunc) Execute(ctx *TransformContext, out Sink) error { return f(ctx, out) }
func (f instrFunc) Name() string                                 { return "test-instruction" }
func (f instrFunc) Streaming() StreamMode                        { return StreamNone }

// elemWithAttrs builds a detached element carrying the given attributes
// (unordered map, fine for the by-name lookups these tests perform).
func elemWithAttrs(local string, attrs map[string]string) *Node {
	el := NewElement("", local, "")
	for k, v := range attrs {
		el.Attr = append(el.Attr, NewAttribute("", k, "", v))
	}
	return el
}
