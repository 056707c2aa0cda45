package xslt

import "strings"

// ============================================================================
// 1. NODE MODEL (Value & Node model component)
// ============================================================================
//
// Node is a single concrete type discriminated by Kind, in the style of
// golang.org/x/net/html.Node and antchfx/xmlquery.Node: one struct, linked
// tree navigation, a Kind tag instead of a sealed interface hierarchy. This
// keeps axis walks (FirstChild/NextSibling/Parent) allocation-free. Nodes
// are individually allocated and linked by pointers (including Parent
// back-pointers); there is no arena and no integer-index linking.

// NodeKind enumerates the seven XDM node kinds this engine understands.
type NodeKind uint8

const (
	RootNode NodeKind = iota
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
	AttributeNode
	NamespaceNode
)

func (k NodeKind) String() string {
	switch k {
	case RootNode:
		return "document-node"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "processing-instruction"
	case AttributeNode:
		return "attribute"
	case NamespaceNode:
		return "namespace"
	default:
		return "unknown"
	}
}

// TypeAnnotation records the schema type assigned to an element or
// attribute by the external SchemaValidator (see schema.go).
type TypeAnnotation struct {
	URI   string
	Local string
}

var (
	// UntypedAnnotation is the default element annotation before validation.
	UntypedAnnotation = &TypeAnnotation{URI: XSDNamespace, Local: "untyped"}
	// UntypedAtomicAnnotation is the default attribute/text annotation.
	UntypedAtomicAnnotation = &TypeAnnotation{URI: XSDNamespace, Local: "untypedAtomic"}
)

// Node is one node in a source or result tree. Attributes and namespaces
// are reachable via Attr/NSDecl but are never part of the Child chain —
// this is the "attributes and namespaces are not children" invariant from
// spec.md section 3.
type Node struct {
	Kind NodeKind

	Space  string // expanded namespace URI ("" if none)
	Local  string // local name (element/attribute/PI target)
	Prefix string // lexical prefix as it appeared in the source, if any

	Data string // text/comment content, or attribute/namespace string value

	Type *TypeAnnotation // nil for kinds other than element/attribute

	order int64 // stable document-order index, assigned at tree build time
	docID int64 // identifies the owning document for cross-document equality checks

	Parent    *Node
	FirstChild *Node
	LastChild  *Node
	PrevSibling *Node
	NextSibling *Node

	Attr   []*Node // AttributeNode children, in source order
	NSDecl []*Node // NamespaceNode children, in source order

	BaseURI string
}

// Identity returns a value that compares equal only for the same
// underlying node — "two nodes compare equal only if they denote the same
// underlying node" (spec.md section 3).
func (n *Node) Identity() *Node { return n }

// DocumentOrder returns the stable document-order index assigned at parse
// or construction time.
func (n *Node) DocumentOrder() int64 { return n.order }

// ExpandedName returns the (namespace URI, local name) pair.
func (n *Node) ExpandedName() (string, string) { return n.Space, n.Local }

// QualifiedName renders prefix:local (or just local if unprefixed).
func (n *Node) QualifiedName() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// StringValue implements the XDM string-value accessor for every node
// kind: text/comment/PI/attribute/namespace return their own data;
// elements and the document root concatenate all descendant text nodes.
func (n *Node) StringValue() string {
	switch n.Kind {
	case TextNode, CommentNode, ProcInstNode, AttributeNode, NamespaceNode:
		return n.Data
	case ElementNode, RootNode:
		var b strings.Builder
		collectText(n, &b)
		return b.String()
	default:
		return ""
	}
}

func collectText(n *Node, b *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Kind {
		case TextNode:
			b.WriteString(c.Data)
		case ElementNode:
			collectText(c, b)
		}
	}
}

// Append adds a child node, wiring sibling/parent pointers. Document order
// is NOT assigned here; callers building a tree incrementally call
// Reindex on the finished root, as ParseDocument in lex.go does.
func (n *Node) Append(child *Node) {
	child.Parent = n
	if n.LastChild == nil {
		n.FirstChild = child
		n.LastChild = child
	} else {
		n.LastChild.NextSibling = child
		child.PrevSibling = n.LastChild
		n.LastChild = child
	}
}

// Children returns element content children (excluding attributes and
// namespaces, which are never part of this chain).
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// PrecedingSiblings returns siblings before this node, nearest first.
func (n *Node) PrecedingSiblings() []*Node {
	var out []*Node
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		out = append(out, s)
	}
	return out
}

// FollowingSiblings returns siblings after this node, nearest first.
func (n *Node) FollowingSiblings() []*Node {
	var out []*Node
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		out = append(out, s)
	}
	return out
}

// Root walks up to the document root.
func (n *Node) Root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Depth counts ancestors (0 for the document root).
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Reindex assigns document-order indices to the whole subtree in document
// order (root first, then pre-order over children, with each element's
// namespaces and attributes numbered immediately after it, per XDM's
// "element node, then its namespace nodes, then its attribute nodes"
// ordering rule).
func Reindex(root *Node, startAt int64, docID int64) int64 {
	next := startAt
	var walk func(n *Node)
	walk = func(n *Node) {
		n.order = next
		n.docID = docID
		next++
		for _, ns := range n.NSDecl {
			ns.order = next
			ns.docID = docID
			next++
		}
		for _, a := range n.Attr {
			a.order = next
			a.docID = docID
			next++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return next
}

// SameDocument reports whether two nodes were produced by the same
// Reindex call (used to decide whether document-order comparison between
// them is meaningful).
func SameDocument(a, b *Node) bool { return a.docID == b.docID }

// NewElement creates a detached element node.
func NewElement(uri, local, prefix string) *Node {
	return &Node{Kind: ElementNode, Space: uri, Local: local, Prefix: prefix, Type: UntypedAnnotation}
}

// NewText creates a detached text node.
func NewText(data string) *Node { return &Node{Kind: TextNode, Data: data} }

// NewComment creates a detached comment node.
func NewComment(data string) *Node { return &Node{Kind: CommentNode, Data: data} }

// NewProcInst creates a detached processing-instruction node.
func NewProcInst(target, data string) *Node {
	return &Node{Kind: ProcInstNode, Local: target, Data: data}
}

// NewAttribute creates a detached attribute node.
func NewAttribute(uri, local, prefix, value string) *Node {
	return &Node{Kind: AttributeNode, Space: uri, Local: local, Prefix: prefix, Data: value, Type: UntypedAtomicAnnotation}
}

// NewNamespace creates a detached namespace node (local is the bound
// prefix, "" for the default namespace; Data is the URI).
func NewNamespace(prefix, uri string) *Node {
	return &Node{Kind: NamespaceNode, Local: prefix, Data: uri}
}

// NewDocument creates a detached document-root node.
func NewDocument() *Node { return &Node{Kind: RootNode} }

// prefixFromQName extracts the prefix portion of a lexical QName
// ("ns:local" -> "ns"; "local" -> "").
func prefixFromQName(qname string) string {
	i := strings.IndexByte(qname, ':')
	if i < 0 {
		return ""
	}
	return qname[:i]
}

// DeepClone duplicates a subtree, including attributes and namespaces but
// with fresh sibling/parent pointers; it does not copy document-order
// indices (the caller reindexes).
func DeepClone(n *Node) *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		Kind:    n.Kind,
		Space:   n.Space,
		Local:   n.Local,
		Prefix:  n.Prefix,
		Data:    n.Data,
		Type:    n.Type,
		BaseURI: n.BaseURI,
	}
	for _, a := range n.Attr {
		ac := DeepClone(a)
		ac.Parent = clone
		clone.Attr = append(clone.Attr, ac)
	}
	for _, ns := range n.NSDecl {
		nc := DeepClone(ns)
		nc.Parent = clone
		clone.NSDecl = append(clone.NSDecl, nc)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.Append(DeepClone(c))
	}
	return clone
}
