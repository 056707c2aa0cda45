package xslt

// ============================================================================
// LITERAL CONTENT INSTRUCTIONS
// ============================================================================
//
// Grounded on the midbel-codecs scripts-xslt.go reference's executeText
// (literal character data is copied through verbatim) and the general
// "literal result element passes through, attributes get AVT-expanded"
// shape common across the xsl:-namespace-filtered tree walk every
// reference engine in the pack performs.

// LiteralText emits a run of character data exactly as written in the
// stylesheet (spec.md section 4.4, "Literal text").
type LiteralText struct {
	Text string
	Raw  bool // disable-output-escaping
}

func (l *LiteralText) Name() string          { return "text" }
func (l *LiteralText) Streaming() StreamMode { return StreamFull }

func (l *LiteralText) Execute(ctx *TransformContext, out Sink) error {
	if l.Raw {
		return out.CharactersRaw(l.Text)
	}
	return out.Characters(l.Text)
}

// LiteralAttribute is one statically-present attribute of a literal
// result element, with its value as a compiled AVT.
type LiteralAttribute struct {
	URI, Local, Prefix string
	Value              AVT
}

// LiteralElement emits a start/end element pair for a literal result
// element appearing directly in a template body (spec.md section 4.4).
type LiteralElement struct {
	URI, Local, Prefix string

	Attrs      []LiteralAttribute
	NSDecls    []pendingNS
	Content    Instruction
	UseAttributeSets []QName

	stylesheet *CompiledStylesheet
}

func (e *LiteralElement) Name() string          { return "literal-result-element" }
func (e *LiteralElement) Streaming() StreamMode { return StreamGrounded }

func (e *LiteralElement) qname() string {
	if e.Prefix == "" {
		return e.Local
	}
	return e.Prefix + ":" + e.Local
}

func (e *LiteralElement) Execute(ctx *TransformContext, out Sink) error {
	uri, prefix := e.URI, e.Prefix
	sheet := ctx.Stylesheet()
	if sheet != nil {
		if resultURI, resultPrefix, ok := sheet.ResolveAlias(uri); ok {
			uri, prefix = resultURI, resultPrefix
		}
	}
	qname := e.Local
	if prefix != "" {
		qname = prefix + ":" + e.Local
	}
	if err := out.StartElement(uri, e.Local, qname); err != nil {
		return err
	}
	for _, ns := range e.NSDecls {
		nsURI := ns.uri
		nsPrefix := ns.prefix
		if sheet != nil {
			if resultURI, resultPrefix, ok := sheet.ResolveAlias(ns.uri); ok {
				nsURI, nsPrefix = resultURI, resultPrefix
			}
		}
		if err := out.Namespace(nsPrefix, nsURI); err != nil {
			return err
		}
	}
	if uri == "" && prefix == "" {
		if err := out.Namespace("", ""); err != nil {
			return err
		}
	}
	if sheet != nil {
		for _, name := range e.UseAttributeSets {
			if as, ok := sheet.AttributeSets[name]; ok {
				for _, a := range as.Attrs {
					if err := a.Execute(ctx, out); err != nil {
						return err
					}
				}
			}
		}
	}
	for _, a := range e.Attrs {
		value, err := a.Value.Evaluate(ctx)
		if err != nil {
			return err
		}
		auri, aprefix := a.URI, a.Prefix
		if sheet != nil {
			if resultURI, resultPrefix, ok := sheet.ResolveAlias(a.URI); ok {
				auri, aprefix = resultURI, resultPrefix
			}
		}
		aqname := a.Local
		if aprefix != "" {
			aqname = aprefix + ":" + a.Local
		}
		if err := out.Attribute(auri, a.Local, aqname, value); err != nil {
			return err
		}
	}
	if e.Content != nil {
		if err := e.Content.Execute(ctx, out); err != nil {
			return err
		}
	}
	return out.EndElement(uri, e.Local, qname)
}
