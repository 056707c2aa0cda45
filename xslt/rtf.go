package xslt

import "strings"

// ============================================================================
// RESULT TREE FRAGMENT
// ============================================================================
//
// Grounded on moznion-helium/dump.go's DumpNode: a recursive replay of a
// captured node shape against an output sink. An RTF is the buffered
// equivalent — events captured once by a Pipeline writing into
// nodeBuildEmitter (below) instead of written straight to io.Writer, then replayable
// against any Sink an arbitrary number of times (xsl:copy-of, xsl:sequence).

// ResultTreeFragment is an opaque, buffered event stream with an
// associated base URI, produced by sequence construction (spec.md
// section 3/GLOSSARY "RTF").
type ResultTreeFragment struct {
	BaseURI string
	root    *Node // a RootNode wrapping the captured content
}

// NewResultTreeFragment wraps a already-built document-shaped subtree.
func NewResultTreeFragment(root *Node, baseURI string) *ResultTreeFragment {
	return &ResultTreeFragment{root: root, BaseURI: baseURI}
}

// StringValue concatenates the string-value of the fragment's content,
// same rule as an element node.
func (r *ResultTreeFragment) StringValue() string {
	if r.root == nil {
		return ""
	}
	return r.root.StringValue()
}

// AsNodeTree exposes the RTF's buffered content as a node-tree view
// (spec.md: "convertible to a node-set view"), used when an RTF needs to
// be navigated (e.g. by a subsequent xpath evaluation over
// xsl:variable's constructed value in legacy RTF-variable mode).
func (r *ResultTreeFragment) AsNodeTree() *Node { return r.root }

// Replay streams the fragment's captured content into sink, as if the
// instructions that built it were executing directly against sink. strip
// removes type annotations on replay (xsl:copy-of's "strip" option).
func (r *ResultTreeFragment) Replay(sink Sink, strip bool) error {
	if r.root == nil {
		return nil
	}
	for c := r.root.FirstChild; c != nil; c = c.NextSibling {
		if err := replayNode(c, sink, strip); err != nil {
			return err
		}
	}
	return nil
}

func replayNode(n *Node, sink Sink, strip bool) error {
	switch n.Kind {
	case TextNode:
		return sink.Characters(n.Data)
	case CommentNode:
		return sink.Comment(n.Data)
	case ProcInstNode:
		return sink.ProcessingInstruction(n.Local, n.Data)
	case ElementNode:
		if err := sink.StartElement(n.Space, n.Local, n.QualifiedName()); err != nil {
			return err
		}
		for _, ns := range n.NSDecl {
			if err := sink.Namespace(ns.Local, ns.Data); err != nil {
				return err
			}
		}
		for _, a := range n.Attr {
			if err := sink.Attribute(a.Space, a.Local, a.QualifiedName(), a.Data); err != nil {
				return err
			}
		}
		if !strip && n.Type != nil {
			if err := sink.SetElementType(n.Type.URI, n.Type.Local); err != nil {
				return err
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := replayNode(c, sink, strip); err != nil {
				return err
			}
		}
		return sink.EndElement(n.Space, n.Local, n.QualifiedName())
	default:
		return nil
	}
}

// rtfFromString is a convenience used by places that need a text-only RTF
// (e.g. a legacy-mode xsl:variable without select or children).
func rtfFromString(s string) *ResultTreeFragment {
	root := NewDocument()
	if strings.TrimSpace(s) != "" || s != "" {
		root.Append(NewText(s))
	}
	return NewResultTreeFragment(root, "")
}

// nodeBuildEmitter is the Emitter used to materialize a literal node
// tree (as opposed to seqEmitter's per-item Value capture), backing
// executeToRTF and the document() constructor.
type nodeBuildEmitter struct {
	current *Node
}

func (e *nodeBuildEmitter) EmitStartElement(uri, local, qname string, attrs []pendingAttr, nsDecls []pendingNS, typ *TypeAnnotation) error {
	el := NewElement(uri, local, prefixFromQName(qname))
	for _, ns := range nsDecls {
		el.NSDecl = append(el.NSDecl, NewNamespace(ns.prefix, ns.uri))
	}
	for _, a := range attrs {
		attr := NewAttribute(a.uri, a.local, prefixFromQName(a.qname), a.value)
		if a.typ != nil {
			attr.Type = a.typ
		}
		el.Attr = append(el.Attr, attr)
	}
	if typ != nil {
		el.Type = typ
	}
	e.current.Append(el)
	e.current = el
	return nil
}

func (e *nodeBuildEmitter) EmitEndElement(uri, local, qname string) error {
	if e.current.Parent != nil {
		e.current = e.current.Parent
	}
	return nil
}

func (e *nodeBuildEmitter) EmitCharacters(text string, raw bool) error {
	e.current.Append(NewText(text))
	return nil
}

func (e *nodeBuildEmitter) EmitComment(text string) error {
	e.current.Append(NewComment(text))
	return nil
}

func (e *nodeBuildEmitter) EmitProcessingInstruction(target, data string) error {
	e.current.Append(NewProcInst(target, data))
	return nil
}

func (e *nodeBuildEmitter) EmitAtomicValue(v Atomic, separator bool) error {
	text := v.String()
	if separator {
		text = " " + text
	}
	e.current.Append(NewText(text))
	return nil
}

func (e *nodeBuildEmitter) EmitItemBoundary() error { return nil }
