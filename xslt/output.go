package xslt

// ============================================================================
// 2. OUTPUT PIPELINE
// ============================================================================
//
// Grounded on moznion-helium/sax/interface.go's ContentHandler (
// StartElement/EndElement/Characters/ProcessingInstruction/Comment), which
// is the pack's closest SAX-shaped analogue. spec.md section 4.1 asks for
// more state than plain SAX tracks — a pending-start-tag window in which
// attribute/namespace/set_element_type are legal, an atomic-value-pending
// separator flag, and an in-attribute-content flag — so Sink is a
// superset of ContentHandler with that state folded in, rather than a
// direct port.

// Sink receives a linearized XML event stream. Every method may fail; on
// failure the sink is considered poisoned and must not be reused.
type Sink interface {
	StartElement(uri, local, qname string) error
	EndElement(uri, local, qname string) error
	Attribute(uri, local, qname, value string) error
	Namespace(prefix, uri string) error
	Characters(text string) error
	CharactersRaw(text string) error
	Comment(text string) error
	ProcessingInstruction(target, data string) error
	SetElementType(uri, local string) error
	SetAttributeType(uri, local string) error
	AtomicValue(v Atomic) error
	SetAtomicValuePending(bool)
	IsAtomicValuePending() bool
	SetInAttributeContent(bool)
	IsInAttributeContent() bool
	ItemBoundary() error
	Flush() error
}

// pipelineState is the Sink state machine (spec.md section 4.1).
type pipelineState uint8

const (
	stateReady pipelineState = iota
	stateInDocument
	statePendingStart
	stateInContent
	stateClosed
)

// openElement tracks one entry of the element stack: its identity (for
// matching start/end pairs). Namespace frames live in Pipeline.ns, and
// only elements whose start tag has been flushed are on the stack.
type openElement struct {
	uri, local, qname string
	attrsWritten      map[string]bool
}

// Pipeline is the concrete streaming Sink implementation shared by every
// instruction that writes output. It delegates the actual byte-level
// write to an Emitter (e.g. a serializer, or a SequenceBuilder capturing
// events as a Value — see seqbuilder.go), and owns all the bookkeeping
// spec.md section 4.1 requires: pending-start-tag buffering, namespace
// dedup, and the atomic-value separator flag.
type Pipeline struct {
	emit  Emitter
	state pipelineState

	stack []*openElement
	ns    nsStack

	pendingURI, pendingLocal, pendingQName string
	pendingAttrs                           []pendingAttr
	pendingNS                              []pendingNS
	pendingType                            *TypeAnnotation

	atomicPending   bool
	inAttrContent   bool
}

type pendingAttr struct {
	uri, local, qname, value string
	typ                      *TypeAnnotation
}
type pendingNS struct{ prefix, uri string }

// Emitter is the byte/event-level collaborator a Pipeline writes through
// once a pending start tag (and its attributes/namespaces) is finalized.
// A serializer implements this to produce bytes; seqEmitter (inside
// SequenceBuilder) implements it to capture items as a Value (spec.md
// section 4.6).
type Emitter interface {
	EmitStartElement(uri, local, qname string, attrs []pendingAttr, nsDecls []pendingNS, typ *TypeAnnotation) error
	EmitEndElement(uri, local, qname string) error
	EmitCharacters(text string, raw bool) error
	EmitComment(text string) error
	EmitProcessingInstruction(target, data string) error
	EmitAtomicValue(v Atomic, separator bool) error
	EmitItemBoundary() error
}

// NewPipeline wraps an Emitter as a Sink.
func NewPipeline(emit Emitter) *Pipeline {
	return &Pipeline{emit: emit, state: stateReady}
}

func (p *Pipeline) fail(op string) error {
	names := [...]string{"Ready", "InDocument", "PendingStart", "InContent", "Closed"}
	return &UsageError{Op: op, State: names[p.state]}
}

// closePending flushes any buffered start tag — called automatically
// whenever a non-attribute/namespace event arrives while PendingStart,
// per spec.md's "any characters/comment/PI/nested start_element while in
// PendingStart implicitly closes the pending start".
func (p *Pipeline) closePending() error {
	if p.state != statePendingStart {
		return nil
	}
	if err := p.emit.EmitStartElement(p.pendingURI, p.pendingLocal, p.pendingQName, p.pendingAttrs, p.pendingNS, p.pendingType); err != nil {
		return err
	}
	p.stack = append(p.stack, &openElement{uri: p.pendingURI, local: p.pendingLocal, qname: p.pendingQName})
	p.pendingAttrs = nil
	p.pendingNS = nil
	p.pendingType = nil
	p.state = stateInContent
	p.atomicPending = false
	return nil
}

func (p *Pipeline) StartElement(uri, local, qname string) error {
	switch p.state {
	case stateReady:
		p.state = stateInDocument
	case stateClosed:
		return p.fail("start_element")
	default:
		if err := p.closePending(); err != nil {
			return err
		}
	}
	p.ns.push()
	p.pendingURI, p.pendingLocal, p.pendingQName = uri, local, qname
	p.state = statePendingStart
	p.atomicPending = false
	return nil
}

func (p *Pipeline) EndElement(uri, local, qname string) error {
	if p.state == statePendingStart {
		if err := p.closePending(); err != nil {
			return err
		}
	}
	if p.state != stateInContent || len(p.stack) == 0 {
		return p.fail("end_element")
	}
	top := p.stack[len(p.stack)-1]
	if top.uri != uri || top.local != local {
		return p.fail("end_element (stack mismatch)")
	}
	p.stack = p.stack[:len(p.stack)-1]
	p.ns.pop()
	if err := p.emit.EmitEndElement(uri, local, qname); err != nil {
		return err
	}
	if len(p.stack) == 0 {
		p.state = stateInDocument
	}
	p.atomicPending = false
	return nil
}

func (p *Pipeline) Attribute(uri, local, qname, value string) error {
	if p.state != statePendingStart {
		return p.fail("attribute")
	}
	if qname == "xmlns" || (local == "" && uri == XMLNSNamespace) {
		return p.fail("attribute (forbidden xmlns shape)")
	}
	for i, a := range p.pendingAttrs {
		if a.uri == uri && a.local == local {
			p.pendingAttrs[i].value = value // last write wins
			return nil
		}
	}
	p.pendingAttrs = append(p.pendingAttrs, pendingAttr{uri: uri, local: local, qname: qname, value: value})
	return nil
}

// Namespace declares a prefix binding, suppressing redundant declarations
// per spec.md section 4.1's namespace dedup algorithm (grounded directly
// on ucarion-c14n/internal/stack — see nsstack.go).
func (p *Pipeline) Namespace(prefix, uri string) error {
	if p.state != statePendingStart {
		return p.fail("namespace")
	}
	if prefix == "xml" {
		return nil
	}
	if p.ns.declare(prefix, uri) {
		p.pendingNS = append(p.pendingNS, pendingNS{prefix, uri})
	}
	return nil
}

func (p *Pipeline) Characters(text string) error { return p.writeText(text, false) }

func (p *Pipeline) CharactersRaw(text string) error { return p.writeText(text, true) }

func (p *Pipeline) writeText(text string, raw bool) error {
	if p.state == statePendingStart {
		if err := p.closePending(); err != nil {
			return err
		}
	}
	if p.state != stateInContent && p.state != stateInDocument {
		return p.fail("characters")
	}
	p.atomicPending = false
	return p.emit.EmitCharacters(text, raw)
}

func (p *Pipeline) Comment(text string) error {
	if p.state == statePendingStart {
		if err := p.closePending(); err != nil {
			return err
		}
	}
	p.atomicPending = false
	return p.emit.EmitComment(text)
}

func (p *Pipeline) ProcessingInstruction(target, data string) error {
	if p.state == statePendingStart {
		if err := p.closePending(); err != nil {
			return err
		}
	}
	p.atomicPending = false
	return p.emit.EmitProcessingInstruction(target, data)
}

func (p *Pipeline) SetElementType(uri, local string) error {
	if p.state != statePendingStart {
		return p.fail("set_element_type")
	}
	p.pendingType = &TypeAnnotation{URI: uri, Local: local}
	return nil
}

func (p *Pipeline) SetAttributeType(uri, local string) error {
	if p.state != statePendingStart || len(p.pendingAttrs) == 0 {
		return p.fail("set_attribute_type")
	}
	p.pendingAttrs[len(p.pendingAttrs)-1].typ = &TypeAnnotation{URI: uri, Local: local}
	return nil
}

// AtomicValue writes the atomic's string value, preceded by a single
// space iff atomic-value-pending is set (and not inside attribute
// content, where XSLT concatenates without separators).
func (p *Pipeline) AtomicValue(v Atomic) error {
	if p.state == statePendingStart {
		if err := p.closePending(); err != nil {
			return err
		}
	}
	sep := p.atomicPending && !p.inAttrContent
	if err := p.emit.EmitAtomicValue(v, sep); err != nil {
		return err
	}
	p.atomicPending = true
	return nil
}

func (p *Pipeline) SetAtomicValuePending(b bool) { p.atomicPending = b }
func (p *Pipeline) IsAtomicValuePending() bool    { return p.atomicPending }

func (p *Pipeline) SetInAttributeContent(b bool) { p.inAttrContent = b }
func (p *Pipeline) IsInAttributeContent() bool    { return p.inAttrContent }

func (p *Pipeline) ItemBoundary() error { return p.emit.EmitItemBoundary() }

func (p *Pipeline) Flush() error {
	if p.state == statePendingStart {
		return p.closePending()
	}
	return nil
}
