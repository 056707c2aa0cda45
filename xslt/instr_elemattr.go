package xslt

import "fmt"

// ============================================================================
// COMPUTED ELEMENT / ATTRIBUTE CONSTRUCTORS
// ============================================================================
//
// Name/namespace resolution is qname.go's ResolveComputedName, shared with
// xsl:element and xsl:attribute since both resolve a dynamically computed
// lexical name against an in-scope namespace context the same way (spec.md
// §4.4). No pack repo constructs elements by computed name, so the error
// paths (XTDE0820/0830/0835) are built directly from spec.md's own list.

// ElementConstructor is xsl:element.
type ElementConstructor struct {
	Name             AVT
	Namespace        AVT // empty Parts means "resolve via NSContext"
	NSContext        NamespaceContext
	UseAttributeSets []QName
	Content          Instruction
	Validation       ValidationMode
	Type             QName // named type for "type" attribute validation; zero value means none
}

func (e *ElementConstructor) Name() string          { return "element" }
func (e *ElementConstructor) Streaming() StreamMode { return StreamNone }

func (e *ElementConstructor) Execute(ctx *TransformContext, out Sink) error {
	lexical, err := e.Name.Evaluate(ctx)
	if err != nil {
		return err
	}

	var uri, local, prefix string
	if len(e.Namespace.Parts) > 0 {
		ns, err := e.Namespace.Evaluate(ctx)
		if err != nil {
			return err
		}
		prefix, local = ParseQName(lexical)
		if local == "" {
			return NewError(XTDE0820, "invalid computed element name %q", lexical)
		}
		uri = ns
	} else {
		uri, local, prefix, err = ResolveComputedName(lexical, e.NSContext, false, XTDE0830)
		if err != nil {
			return err
		}
	}
	if local == "" {
		return NewError(XTDE0820, "invalid computed element name %q", lexical)
	}

	qname := local
	if prefix != "" {
		qname = prefix + ":" + local
	}
	if err := out.StartElement(uri, local, qname); err != nil {
		return err
	}
	if ctx.Stylesheet() != nil {
		for _, name := range e.UseAttributeSets {
			if as, ok := ctx.Stylesheet().AttributeSets[name]; ok {
				for _, a := range as.Attrs {
					if err := a.Execute(ctx, out); err != nil {
						return err
					}
				}
			}
		}
	}
	if e.Validation != ValidationSkip && e.Type.Local != "" {
		if err := out.SetElementType(e.Type.URI, e.Type.Local); err != nil {
			return err
		}
	}
	if e.Content != nil {
		if err := e.Content.Execute(ctx, out); err != nil {
			return err
		}
	}
	return out.EndElement(uri, local, qname)
}

// AttributeConstructor is xsl:attribute.
type AttributeConstructor struct {
	Name       AVT
	Namespace  AVT
	NSContext  NamespaceContext
	Select     CompiledExpr
	Content    Instruction
	Separator  CompiledExpr
	Validation ValidationMode
	Type       QName
}

func (a *AttributeConstructor) Name() string          { return "attribute" }
func (a *AttributeConstructor) Streaming() StreamMode { return StreamNone }

func (a *AttributeConstructor) Execute(ctx *TransformContext, out Sink) error {
	lexical, err := a.Name.Evaluate(ctx)
	if err != nil {
		return err
	}

	var uri, local, prefix string
	if len(a.Namespace.Parts) > 0 {
		ns, err := a.Namespace.Evaluate(ctx)
		if err != nil {
			return err
		}
		_, local = ParseQName(lexical)
		if local == "" {
			return NewError(XTDE0835, "invalid computed attribute name %q", lexical)
		}
		uri = ns
		prefix = syntheticPrefix(uri)
	} else {
		uri, local, prefix, err = ResolveComputedName(lexical, a.NSContext, true, XTDE0830)
		if err != nil {
			return err
		}
	}
	if local == "" || local == "xmlns" {
		return NewError(XTDE0835, "invalid computed attribute name %q", lexical)
	}

	value, err := a.attributeValue(ctx)
	if err != nil {
		return err
	}

	if a.Validation != ValidationSkip && a.Type.Local != "" {
		validator := ctx.Validator()
		if validator == nil {
			validator = NoopValidator{}
		}
		if _, err := validator.ValidateSimpleValue(value, a.Type.URI, a.Type.Local); err != nil {
			return WrapError(XTTE3090, err, "attribute %q failed validation against type %s", lexical, a.Type)
		}
	}

	qname := local
	if prefix != "" {
		qname = prefix + ":" + local
	}
	if err := out.Attribute(uri, local, qname, value); err != nil {
		return err
	}
	if a.Validation != ValidationSkip && a.Type.Local != "" {
		return out.SetAttributeType(a.Type.URI, a.Type.Local)
	}
	return nil
}

// attributeValue resolves this constructor's value: select takes
// priority, joining multiple atomized items with the declared separator
// (default single space, per spec.md §4.4's xsl:attribute/xsl:value-of
// parity); content falls back to its captured string-value.
func (a *AttributeConstructor) attributeValue(ctx *TransformContext) (string, error) {
	if a.Select != nil {
		v, err := a.Select.Evaluate(ctx)
		if err != nil {
			return "", err
		}
		sep := " "
		if a.Separator != nil {
			sv, err := a.Separator.Evaluate(ctx)
			if err != nil {
				return "", err
			}
			sep = sv.StringValue()
		}
		items := Atomize(v)
		var b []byte
		for i, it := range items {
			if i > 0 {
				b = append(b, sep...)
			}
			b = append(b, it.String()...)
		}
		return string(b), nil
	}
	return contentOrSelectString(ctx, nil, a.Content)
}

// syntheticPrefix derives a stable, collision-avoiding prefix for a
// computed attribute namespace URI that wasn't reached through a
// resolvable lexical prefix, per spec.md §4.4's requirement that such
// attributes still serialize with *some* prefix (attributes are never
// in a default namespace).
func syntheticPrefix(uri string) string {
	h := fnv32(uri)
	return fmt.Sprintf("ns%d", h%1000)
}

func fnv32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
