package xslt

import "strings"

// ============================================================================
// ATTRIBUTE VALUE TEMPLATES
// ============================================================================
//
// AVTs are lexical (literal text with embedded `{expr}` runs) and belong
// to the external compiler's domain, but the core still has to evaluate
// already-compiled ones at run time — e.g. a literal result element's
// attribute values, xsl:element's name/namespace. Modeled here as a thin
// ordered list of literal/expression parts rather than re-parsing
// anything: the compiler hands the core a pre-split AVT, the core's job
// is only to concatenate the evaluated parts' string-values.

// AVTPart is one segment of a compiled attribute value template: either
// a literal run or a compiled expression to be evaluated and
// string-valued at each use.
type AVTPart struct {
	Literal string
	Expr    CompiledExpr
}

// AVT is a compiled attribute value template.
type AVT struct {
	Parts []AVTPart
}

// ConstantAVT wraps a fixed string as a trivial one-part AVT, used for
// attributes that never contained `{}`.
func ConstantAVT(s string) AVT {
	return AVT{Parts: []AVTPart{{Literal: s}}}
}

// Evaluate concatenates every part's contribution in order.
func (a AVT) Evaluate(ctx *TransformContext) (string, error) {
	if len(a.Parts) == 1 && a.Parts[0].Expr == nil {
		return a.Parts[0].Literal, nil
	}
	var b strings.Builder
	for _, p := range a.Parts {
		if p.Expr == nil {
			b.WriteString(p.Literal)
			continue
		}
		v, err := p.Expr.Evaluate(ctx)
		if err != nil {
			return "", err
		}
		for i, item := range atomizeAVTValue(v) {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(item.String())
		}
	}
	return b.String(), nil
}

// atomizeAVTValue atomizes v for AVT substitution: a node-set is joined
// space-separated, matching the same atomize-then-space-join rule
// value-of uses (spec.md section 4.4).
func atomizeAVTValue(v Value) []Atomic {
	return Atomize(v)
}

// ParseQName splits a lexical QName into (prefix, local); "" prefix
// means unprefixed.
func ParseQName(lexical string) (prefix, local string) {
	if i := strings.IndexByte(lexical, ':'); i >= 0 {
		return lexical[:i], lexical[i+1:]
	}
	return "", lexical
}

// NamespaceContext resolves a lexical prefix to a namespace URI, as
// captured at compile time from the in-scope namespace bindings of the
// element a name/QName-valued attribute appeared on.
type NamespaceContext interface {
	ResolveURI(prefix string) (string, bool)
	DefaultURI() string
}

// staticNamespaceContext is a simple map-backed NamespaceContext, built
// by the compiler per element and passed down to instructions that need
// to resolve a dynamically computed prefixed name (xsl:element's name
// AVT, xsl:attribute's name AVT).
type staticNamespaceContext struct {
	bindings map[string]string
	deflt    string
}

func NewNamespaceContext(bindings map[string]string, deflt string) NamespaceContext {
	return &staticNamespaceContext{bindings: bindings, deflt: deflt}
}

func (n *staticNamespaceContext) ResolveURI(prefix string) (string, bool) {
	uri, ok := n.bindings[prefix]
	return uri, ok
}

func (n *staticNamespaceContext) DefaultURI() string { return n.deflt }

// ResolveComputedName resolves a dynamically computed (possibly
// prefixed) name against nsctx, per spec.md section 4.4's `element`/
// `attribute` name-resolution rules: unprefixed names resolve against
// the default namespace for elements (none for attributes), unresolved
// prefixes fail with the given error code.
func ResolveComputedName(lexical string, nsctx NamespaceContext, isAttribute bool, unresolvedCode Code) (uri, local, prefix string, err error) {
	prefix, local = ParseQName(lexical)
	if prefix == "" {
		if isAttribute {
			return "", local, "", nil
		}
		return nsctx.DefaultURI(), local, "", nil
	}
	uri, ok := nsctx.ResolveURI(prefix)
	if !ok {
		return "", "", "", NewError(unresolvedCode, "unresolved namespace prefix %q", prefix)
	}
	return uri, local, prefix, nil
}
