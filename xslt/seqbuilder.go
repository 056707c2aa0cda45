package xslt

// ============================================================================
// 4.6 SEQUENCE BUILDER
// ============================================================================
//
// Implemented as a Pipeline (output.go) wired to a custom Emitter that
// captures events as Values instead of bytes, rather than as its own
// independent state machine — the pending-start-tag and namespace-dedup
// rules a sequence builder needs for constructed elements are exactly
// Pipeline's, so reusing it keeps the "one state machine" shape
// DESIGN.md's output-pipeline entry calls for instead of duplicating it.

// SequenceBuilder is the sink used wherever an instruction's result
// must be captured as a Value rather than streamed: xsl:variable/
// xsl:param with a sequence/item/map/array "as" type, xsl:sequence,
// xsl:evaluate's with-params, and the document() constructor's content.
type SequenceBuilder struct {
	*Pipeline
	seq *seqEmitter
}

// NewSequenceBuilder returns an empty builder.
func NewSequenceBuilder() *SequenceBuilder {
	e := &seqEmitter{}
	return &SequenceBuilder{Pipeline: NewPipeline(e), seq: e}
}

// AddItem injects a pre-built value directly, used by the document()
// constructor to add its finished RTF as a single item (spec.md section
// 4.6's add_item).
func (b *SequenceBuilder) AddItem(v Value) {
	b.seq.flushText()
	b.seq.items = append(b.seq.items, v)
}

// GetSequence returns the accumulated items as a (possibly empty)
// sequence Value.
func (b *SequenceBuilder) GetSequence() Value {
	b.seq.flushText()
	return FromSequence(b.seq.items)
}

// seqEmitter is the Emitter collaborator that actually builds Values.
// Construction of a literal element nests: while buildStack is non-empty
// every event is appended as a child of its top entry instead of
// becoming a new top-level item.
type seqEmitter struct {
	items []Value

	buildStack []*Node

	textRun      string
	haveTextRun  bool
	atomicRun    string
	haveAtomic   bool
}

func (e *seqEmitter) flushText() {
	if e.haveTextRun {
		e.emitItem(NewText(e.textRun))
		e.textRun = ""
		e.haveTextRun = false
	}
	if e.haveAtomic {
		e.items = append(e.items, FromAtomic(UntypedAtomicValue(e.atomicRun)))
		e.atomicRun = ""
		e.haveAtomic = false
	}
}

func (e *seqEmitter) emitItem(n *Node) {
	if len(e.buildStack) > 0 {
		e.buildStack[len(e.buildStack)-1].Append(n)
		return
	}
	e.items = append(e.items, FromNode(n))
}

func (e *seqEmitter) EmitStartElement(uri, local, qname string, attrs []pendingAttr, nsDecls []pendingNS, typ *TypeAnnotation) error {
	e.flushText()
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
	if len(e.buildStack) > 0 {
		e.buildStack[len(e.buildStack)-1].Append(el)
	}
	e.buildStack = append(e.buildStack, el)
	return nil
}

func (e *seqEmitter) EmitEndElement(uri, local, qname string) error {
	e.flushText()
	top := e.buildStack[len(e.buildStack)-1]
	e.buildStack = e.buildStack[:len(e.buildStack)-1]
	if len(e.buildStack) == 0 {
		e.items = append(e.items, FromNode(top))
	}
	return nil
}

func (e *seqEmitter) EmitCharacters(text string, raw bool) error {
	e.haveAtomic = false
	e.textRun += text
	e.haveTextRun = true
	return nil
}

func (e *seqEmitter) EmitComment(text string) error {
	e.flushText()
	e.emitItem(NewComment(text))
	return nil
}

func (e *seqEmitter) EmitProcessingInstruction(target, data string) error {
	e.flushText()
	e.emitItem(NewProcInst(target, data))
	return nil
}

func (e *seqEmitter) EmitAtomicValue(v Atomic, separator bool) error {
	e.haveTextRun = false
	if separator && e.haveAtomic {
		e.atomicRun += " " + v.String()
		return nil
	}
	e.flushText()
	e.atomicRun = v.String()
	e.haveAtomic = true
	return nil
}

func (e *seqEmitter) EmitItemBoundary() error {
	e.flushText()
	return nil
}
