package xslt

// ============================================================================
// 4.2 TRANSFORM CONTEXT
// ============================================================================
//
// Grounded on the midbel-codecs reference engine's Context/Env pair
// (other_examples/9b6c24cd_midbel-codecs__xslt-stylesheet.go.go's
// createContext: ContextNode/Mode/Size/Index/Stylesheet/Env). That
// engine mutates a shared Env; TransformContext instead follows spec.md
// section 4.2's "all mutation is scoped by construction" requirement by
// making every with_* a copy-on-write step. The scope chain
// (variableFrame) and the tunnel map share suffix structure the way
// spec.md section 9's design note asks for, so with_variable in a
// hot loop body doesn't recopy the whole chain, only the new frame.

// variableFrame is one link of the persistent variable-scope chain.
// Binding a new variable never mutates an existing frame; it always
// conses a new one-entry frame onto the chain.
type variableFrame struct {
	parent *variableFrame
	uri    string
	local  string
	value  Value
}

func (f *variableFrame) lookup(uri, local string) (Value, bool) {
	for n := f; n != nil; n = n.parent {
		if n.uri == uri && n.local == local {
			return n.value, true
		}
	}
	return Value{}, false
}

// tunnelFrame is the persistent analogue for tunnel parameters: each
// with_tunnel_parameters call adds one frame holding a whole map at once
// (spec.md section 4.2), and lookup walks the frames innermost first, so
// the later merge wins.
type tunnelFrame struct {
	parent *tunnelFrame
	bound  map[QName]Value
}

func (f *tunnelFrame) lookup(name QName) (Value, bool) {
	for n := f; n != nil; n = n.parent {
		if v, ok := n.bound[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// TransformContext is the persistent snapshot threaded through every
// instruction's Execute call (spec.md section 3/4.2).
type TransformContext struct {
	item Value // current context item: node or atomic

	position int
	size     int

	mode        QName
	currentNode *Node // XSLT current(): set only by apply-templates/for-each

	scope   *variableFrame
	tunnels *tunnelFrame

	currentRule *TemplateRule

	staticBaseURI    string
	defaultCollation string

	stylesheet *CompiledStylesheet
	validator  SchemaValidator
	accum      *AccumulatorManager

	docs    DocumentProvider
	results ResultDestination

	recoveryMode RecoveryMode
	listener     ErrorListener
}

// NewRootContext builds the initial context a transform begins with: the
// context item is the source document's root node, position and size
// are both 1, and mode is the unnamed default mode.
func NewRootContext(root *Node, sheet *CompiledStylesheet) *TransformContext {
	return &TransformContext{
		item:             FromNode(root),
		position:         1,
		size:             1,
		currentNode:      root,
		staticBaseURI:    sheet.BaseURI,
		defaultCollation: sheet.DefaultCollation,
		stylesheet:       sheet,
		listener:         NewSlogListener(nil),
		docs:             noDocumentProvider{},
		results:          noResultDestination{},
	}
}

func (c *TransformContext) clone() *TransformContext {
	cp := *c
	return &cp
}

// ContextItem returns the current context item.
func (c *TransformContext) ContextItem() Value { return c.item }

// ContextNode returns the current context item as a node, or nil if the
// context item is an atomic value.
func (c *TransformContext) ContextNode() *Node { return c.item.Node() }

// CurrentNode returns the XSLT current() node.
func (c *TransformContext) CurrentNode() *Node { return c.currentNode }

func (c *TransformContext) Position() int { return c.position }
func (c *TransformContext) Size() int     { return c.size }
func (c *TransformContext) Mode() QName   { return c.mode }

func (c *TransformContext) CurrentTemplateRule() *TemplateRule { return c.currentRule }
func (c *TransformContext) StaticBaseURI() string              { return c.staticBaseURI }
func (c *TransformContext) DefaultCollation() string           { return c.defaultCollation }
func (c *TransformContext) Stylesheet() *CompiledStylesheet    { return c.stylesheet }
func (c *TransformContext) Validator() SchemaValidator         { return c.validator }
func (c *TransformContext) Accumulators() *AccumulatorManager  { return c.accum }
func (c *TransformContext) Documents() DocumentProvider        { return c.docs }
func (c *TransformContext) ResultDestination() ResultDestination { return c.results }

// WithContextItem returns a context with a new context item, leaving
// current() untouched (spec.md section 4.2).
func (c *TransformContext) WithContextItem(v Value) *TransformContext {
	n := c.clone()
	n.item = v
	return n
}

// WithContextNode is WithContextItem specialized for nodes.
func (c *TransformContext) WithContextNode(node *Node) *TransformContext {
	return c.WithContextItem(FromNode(node))
}

// WithXSLTCurrentNode updates current(); only apply-templates and
// for-each's executors may call this.
func (c *TransformContext) WithXSLTCurrentNode(node *Node) *TransformContext {
	n := c.clone()
	n.currentNode = node
	return n
}

func (c *TransformContext) WithPositionAndSize(position, size int) *TransformContext {
	n := c.clone()
	n.position = position
	n.size = size
	return n
}

// WithMode resolves "#current" at the call site to the caller's
// existing mode before storing it.
func (c *TransformContext) WithMode(name QName) *TransformContext {
	n := c.clone()
	if name.Local == "#current" && name.URI == "" {
		n.mode = c.mode
	} else {
		n.mode = name
	}
	return n
}

// PushVariableScope opens a new, initially empty frame on top of the
// current scope chain.
func (c *TransformContext) PushVariableScope() *TransformContext {
	n := c.clone()
	n.scope = &variableFrame{parent: c.scope}
	return n
}

// WithVariable binds (uri, local) to v in the current frame, consing a
// new frame so the parent chain is untouched (and therefore still
// visible to any sibling that branched off the same parent).
func (c *TransformContext) WithVariable(uri, local string, v Value) *TransformContext {
	n := c.clone()
	n.scope = &variableFrame{parent: c.scope, uri: uri, local: local, value: v}
	return n
}

// LookupVariable walks the scope chain inner-first.
func (c *TransformContext) LookupVariable(uri, local string) (Value, error) {
	if v, ok := c.scope.lookup(uri, local); ok {
		return v, nil
	}
	return Value{}, NewError(XTDE0560, "variable {%s}%s not in scope", uri, local)
}

// WithTunnelParameters merges params into a fresh frame on top of the
// tunnel chain; tunnel bindings survive ordinary template calls, so
// apply-templates/call-template carry the tunnel frame forward
// regardless of lexical nesting.
func (c *TransformContext) WithTunnelParameters(params map[QName]Value) *TransformContext {
	if len(params) == 0 {
		return c
	}
	n := c.clone()
	n.tunnels = &tunnelFrame{parent: c.tunnels, bound: params}
	return n
}

// LookupTunnelParameter looks up a tunnel parameter by name.
func (c *TransformContext) LookupTunnelParameter(name QName) (Value, bool) {
	return c.tunnels.lookup(name)
}

// WithCurrentTemplateRule records the rule whose body is executing,
// required before body execution so apply-imports/next-match can find
// their reference point.
func (c *TransformContext) WithCurrentTemplateRule(r *TemplateRule) *TransformContext {
	n := c.clone()
	n.currentRule = r
	return n
}

func (c *TransformContext) WithStaticBaseURI(s string) *TransformContext {
	n := c.clone()
	n.staticBaseURI = s
	return n
}

func (c *TransformContext) WithValidator(v SchemaValidator) *TransformContext {
	n := c.clone()
	n.validator = v
	return n
}

func (c *TransformContext) WithAccumulatorManager(a *AccumulatorManager) *TransformContext {
	n := c.clone()
	n.accum = a
	return n
}

func (c *TransformContext) WithDocumentProvider(d DocumentProvider) *TransformContext {
	n := c.clone()
	n.docs = d
	return n
}

func (c *TransformContext) WithResultDestination(r ResultDestination) *TransformContext {
	n := c.clone()
	n.results = r
	return n
}

func (c *TransformContext) WithRecoveryMode(m RecoveryMode) *TransformContext {
	n := c.clone()
	n.recoveryMode = m
	return n
}

func (c *TransformContext) WithErrorListener(l ErrorListener) *TransformContext {
	n := c.clone()
	n.listener = l
	return n
}

func (c *TransformContext) RecoveryMode() RecoveryMode { return c.recoveryMode }
func (c *TransformContext) Listener() ErrorListener    { return c.listener }
