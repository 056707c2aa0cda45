package xslt

import "strings"

// ============================================================================
// CONTENT CONSTRUCTION INSTRUCTIONS
// ============================================================================
//
// copy/copy-of's node replay is grounded on the same moznion-helium
// Dumper.DumpNode recursive-event shape rtf.go's replayNode already
// uses; value-of/sequence's atomize-then-write protocol follows spec.md
// section 4.4 directly since no pack repo models XDM atomization.

// copyDeep writes a full recursive copy of n (including attributes,
// namespaces except xml, and all descendants) to out. includeType
// controls whether type annotations are copied; the reserved xml prefix
// is always skipped, since its binding is implicit.
func copyDeep(out Sink, n *Node, includeType bool) error {
	switch n.Kind {
	case TextNode:
		return out.Characters(n.Data)
	case CommentNode:
		return out.Comment(n.Data)
	case ProcInstNode:
		return out.ProcessingInstruction(n.Local, n.Data)
	case AttributeNode:
		return out.Attribute(n.Space, n.Local, n.QualifiedName(), n.Data)
	case NamespaceNode:
		return out.Namespace(n.Local, n.Data)
	case RootNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := copyDeep(out, c, includeType); err != nil {
				return err
			}
		}
		return nil
	case ElementNode:
		qname := n.QualifiedName()
		if err := out.StartElement(n.Space, n.Local, qname); err != nil {
			return err
		}
		for _, ns := range n.NSDecl {
			if ns.Local == "xml" {
				continue
			}
			if err := out.Namespace(ns.Local, ns.Data); err != nil {
				return err
			}
		}
		for _, a := range n.Attr {
			if err := out.Attribute(a.Space, a.Local, a.QualifiedName(), a.Data); err != nil {
				return err
			}
		}
		if includeType && n.Type != nil {
			out.SetElementType(n.Type.URI, n.Type.Local)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := copyDeep(out, c, includeType); err != nil {
				return err
			}
		}
		return out.EndElement(n.Space, n.Local, qname)
	default:
		return nil
	}
}

// Copy is xsl:copy.
type Copy struct {
	Select           CompiledExpr // XSLT 3.0 optional select; nil means the context item
	CopyNamespaces   AVT
	UseAttributeSets []QName
	Content          Instruction
	OnEmpty          Instruction
}

func (c *Copy) Name() string          { return "copy" }
func (c *Copy) Streaming() StreamMode { return StreamGrounded }

func (c *Copy) Execute(ctx *TransformContext, out Sink) error {
	items := []Value{ctx.ContextItem()}
	if c.Select != nil {
		v, err := c.Select.Evaluate(ctx)
		if err != nil {
			return err
		}
		items = v.Items()
	}
	if len(items) == 0 {
		if c.OnEmpty != nil {
			return c.OnEmpty.Execute(ctx, out)
		}
		return nil
	}
	for i, item := range items {
		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		if err := c.copyOne(ctx, item, out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Copy) copyOne(ctx *TransformContext, item Value, out Sink) error {
	n := item.Node()
	if n == nil {
		a, _ := item.AtomicValue()
		return out.AtomicValue(a)
	}
	switch n.Kind {
	case TextNode:
		return out.Characters(n.Data)
	case CommentNode:
		return out.Comment(n.Data)
	case ProcInstNode:
		return out.ProcessingInstruction(n.Local, n.Data)
	case AttributeNode:
		return out.Attribute(n.Space, n.Local, n.QualifiedName(), n.Data)
	case NamespaceNode:
		return out.Namespace(n.Local, n.Data)
	case RootNode:
		if c.Content != nil {
			return c.Content.Execute(ctx.WithContextNode(n), out)
		}
		return nil
	case ElementNode:
		qname := n.QualifiedName()
		if err := out.StartElement(n.Space, n.Local, qname); err != nil {
			return err
		}
		copyNS := true
		if len(c.CopyNamespaces.Parts) > 0 {
			s, err := c.CopyNamespaces.Evaluate(ctx)
			if err != nil {
				return err
			}
			copyNS = s != "no"
		}
		if copyNS {
			for _, ns := range n.NSDecl {
				if ns.Local == "xml" {
					continue
				}
				if err := out.Namespace(ns.Local, ns.Data); err != nil {
					return err
				}
			}
		}
		if ctx.Stylesheet() != nil {
			for _, name := range c.UseAttributeSets {
				if as, ok := ctx.Stylesheet().AttributeSets[name]; ok {
					for _, a := range as.Attrs {
						if err := a.Execute(ctx, out); err != nil {
							return err
						}
					}
				}
			}
		}
		if c.Content != nil {
			if err := c.Content.Execute(ctx.WithContextNode(n), out); err != nil {
				return err
			}
		}
		return out.EndElement(n.Space, n.Local, qname)
	default:
		return nil
	}
}

// CopyOf is xsl:copy-of.
type CopyOf struct {
	Select CompiledExpr
	Strip  bool
}

func (c *CopyOf) Name() string          { return "copy-of" }
func (c *CopyOf) Streaming() StreamMode { return StreamNone }

func (c *CopyOf) Execute(ctx *TransformContext, out Sink) error {
	v, err := c.Select.Evaluate(ctx)
	if err != nil {
		return err
	}
	items := v.Items()
	for i, item := range items {
		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		switch {
		case item.Kind() == KindRTF:
			if err := item.RTF().Replay(out, c.Strip); err != nil {
				return err
			}
		case item.Node() != nil:
			if err := copyDeep(out, item.Node(), !c.Strip); err != nil {
				return err
			}
		default:
			for j, a := range Atomize(item) {
				if j > 0 {
					if err := out.Characters(" "); err != nil {
						return err
					}
				}
				if err := out.AtomicValue(a); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ValueOf is xsl:value-of.
type ValueOf struct {
	Select          CompiledExpr
	Separator       CompiledExpr // nil => default (" " in 2.0+, first item only in 1.0)
	Legacy1_0       bool
	DisableEscaping bool
}

func (v *ValueOf) Name() string          { return "value-of" }
func (v *ValueOf) Streaming() StreamMode { return StreamFull }

func (v *ValueOf) Execute(ctx *TransformContext, out Sink) error {
	val, err := v.Select.Evaluate(ctx)
	if err != nil {
		return err
	}
	items := Atomize(val)
	if len(items) == 0 {
		return nil
	}
	if v.Legacy1_0 {
		if len(items) > 1 {
			if rerr := recoverable(ctx, XTTE0570, "value-of: multiple items in XSLT 1.0 mode"); rerr != nil {
				return rerr
			}
		}
		return v.write(out, items[0].String())
	}
	sep := " "
	if v.Separator != nil {
		sepVal, err := v.Separator.Evaluate(ctx)
		if err != nil {
			return err
		}
		sep = sepVal.StringValue()
	}
	var b strings.Builder
	for i, a := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(a.String())
	}
	return v.write(out, b.String())
}

func (v *ValueOf) write(out Sink, s string) error {
	if v.DisableEscaping {
		return out.CharactersRaw(s)
	}
	return out.Characters(s)
}

// Sequence is xsl:sequence: replays select's value, RTFs as events,
// node-sets as nodes, atomic values via atomic_value.
type Sequence struct {
	Select CompiledExpr
}

func (s *Sequence) Name() string          { return "sequence" }
func (s *Sequence) Streaming() StreamMode { return StreamNone }

func (s *Sequence) Execute(ctx *TransformContext, out Sink) error {
	v, err := s.Select.Evaluate(ctx)
	if err != nil {
		return err
	}
	return replayValue(v, out)
}

// replayValue streams every item of v to out: RTFs replay as buffered
// events, nodes deep-copy, atomics go through atomic_value, with
// item_boundary between items. Shared by xsl:sequence and by xsl:try's
// success path, which must replay its buffered body the same way.
func replayValue(v Value, out Sink) error {
	items := v.Items()
	for i, item := range items {
		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		switch {
		case item.Kind() == KindRTF:
			if err := item.RTF().Replay(out, false); err != nil {
				return err
			}
		case item.Node() != nil:
			if err := copyDeep(out, item.Node(), true); err != nil {
				return err
			}
		case item.Kind() == KindAtomic:
			a, _ := item.AtomicValue()
			if err := out.AtomicValue(a); err != nil {
				return err
			}
		default:
			// maps/arrays aren't event-shaped; the sequence builder
			// collaborator (seqbuilder.go) is the path that actually
			// needs to hold these, a pure-streaming out just drops them.
		}
	}
	return nil
}

// Comment is xsl:comment.
type Comment struct {
	Select  CompiledExpr
	Content Instruction
}

func (c *Comment) Name() string          { return "comment" }
func (c *Comment) Streaming() StreamMode { return StreamNone }

func (c *Comment) Execute(ctx *TransformContext, out Sink) error {
	text, err := contentOrSelectString(ctx, c.Select, c.Content)
	if err != nil {
		return err
	}
	return out.Comment(text)
}

// ProcessingInstruction is xsl:processing-instruction.
type ProcessingInstruction struct {
	Target  AVT
	Select  CompiledExpr
	Content Instruction
}

func (p *ProcessingInstruction) Name() string          { return "processing-instruction" }
func (p *ProcessingInstruction) Streaming() StreamMode { return StreamNone }

func (p *ProcessingInstruction) Execute(ctx *TransformContext, out Sink) error {
	target, err := p.Target.Evaluate(ctx)
	if err != nil {
		return err
	}
	text, err := contentOrSelectString(ctx, p.Select, p.Content)
	if err != nil {
		return err
	}
	return out.ProcessingInstruction(target, text)
}

// contentOrSelectString evaluates select if present, else executes
// content as a string-valued sequence constructor.
func contentOrSelectString(ctx *TransformContext, select_ CompiledExpr, content Instruction) (string, error) {
	if select_ != nil {
		v, err := select_.Evaluate(ctx)
		if err != nil {
			return "", err
		}
		return v.StringValue(), nil
	}
	if content == nil {
		return "", nil
	}
	v, err := executeToValue(ctx, content)
	if err != nil {
		return "", err
	}
	return v.StringValue(), nil
}
