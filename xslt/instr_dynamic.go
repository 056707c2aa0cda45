package xslt

// ============================================================================
// DYNAMIC EVALUATION / SECONDARY DOCUMENTS / MAP CONSTRUCTION
// ============================================================================
//
// evaluate/source-document/result-document are spec.md section 4.4's three
// "opens an external collaborator" instructions: evaluate calls through
// ExprEval (expreval.go, cached via evaluate_cache.go), the other two call
// through the document.go gateway the same way schema validation calls
// through SchemaValidator. map/map-entry need no external collaborator —
// they're built directly against value.go's ValueMap, the XDM shape spec.md
// section 3 already defines.

// Evaluate is xsl:evaluate: compiles and runs a dynamic XPath string
// against a derived context. Cannot stream (spec.md section 4.4).
type Evaluate struct {
	XPath       CompiledExpr // evaluates to the source string
	ContextItem CompiledExpr // optional; nil means the ambient context item
	BaseURI     CompiledExpr // optional
	WithParams  []*WithParamInstr
	cache       *evaluateCache
}

// NewEvaluate builds an Evaluate instruction with its own single-entry
// compile cache, private to this compiled-tree node (spec.md section 9:
// "single-slot LRU is sufficient for tight loops" — a cache shared across
// distinct xsl:evaluate sites would thrash on every site switch).
func NewEvaluate(xpath, contextItem, baseURI CompiledExpr, withParams []*WithParamInstr) *Evaluate {
	return &Evaluate{XPath: xpath, ContextItem: contextItem, BaseURI: baseURI, WithParams: withParams, cache: newEvaluateCache()}
}

func (e *Evaluate) Name() string          { return "evaluate" }
func (e *Evaluate) Streaming() StreamMode { return StreamNone }

func (e *Evaluate) Execute(ctx *TransformContext, out Sink) error {
	sheet := ctx.Stylesheet()
	if sheet == nil || sheet.Eval == nil {
		return NewError(XPST0003, "evaluate: no expression evaluator configured")
	}
	srcVal, err := e.XPath.Evaluate(ctx)
	if err != nil {
		return err
	}
	source := srcVal.StringValue()

	compiled, err := e.cache.compile(sheet.Eval, source)
	if err != nil {
		return WrapError(XPST0003, err, "evaluate: %q", source)
	}

	derived := ctx
	if e.ContextItem != nil {
		v, err := e.ContextItem.Evaluate(ctx)
		if err != nil {
			return err
		}
		derived = derived.WithContextItem(v)
	}
	if e.BaseURI != nil {
		v, err := e.BaseURI.Evaluate(ctx)
		if err != nil {
			return err
		}
		derived = derived.WithStaticBaseURI(v.StringValue())
	}
	params, err := evaluateWithParams(ctx, e.WithParams)
	if err != nil {
		return err
	}
	for _, p := range params {
		derived = derived.WithVariable(p.Name.URI, p.Name.Local, p.Value)
	}

	result, err := compiled.Evaluate(derived)
	if err != nil {
		return err
	}
	return replayValue(result, out)
}

// SourceDocument is xsl:source-document: opens a secondary input document
// and runs Body with the document node as context item.
type SourceDocument struct {
	Href       CompiledExpr
	Streamable bool // default true per spec.md section 4.4
	Body       Instruction
}

func (s *SourceDocument) Name() string { return "source-document" }

func (s *SourceDocument) Streaming() StreamMode {
	if s.Streamable {
		return StreamGrounded
	}
	return StreamNone
}

func (s *SourceDocument) Execute(ctx *TransformContext, out Sink) error {
	hrefVal, err := s.Href.Evaluate(ctx)
	if err != nil {
		return err
	}
	href := hrefVal.StringValue()
	if href == "" {
		return NewError(FODC0002, "source-document: empty href")
	}
	root, err := ctx.Documents().Open(href, ctx.StaticBaseURI(), s.Streamable)
	if err != nil {
		return WrapError(FODC0002, err, "source-document: %q", href)
	}
	if root == nil {
		return NewError(FODC0002, "source-document: %q resolved to no document", href)
	}
	docCtx := ctx.WithContextNode(root).WithXSLTCurrentNode(root).WithStaticBaseURI(href).PushVariableScope()
	if s.Body == nil {
		return nil
	}
	return s.Body.Execute(docCtx, out)
}

// ResultDocument is xsl:result-document: opens a secondary output sink
// addressed by an evaluated href, merging the stylesheet's default output
// properties with any inline overrides.
type ResultDocument struct {
	Href     CompiledExpr
	Format   string // names an entry of CompiledStylesheet.Outputs; "" is the default
	Override *OutputProperties // inline xsl:result-document attributes, may be nil
	Body     Instruction
}

func (r *ResultDocument) Name() string          { return "result-document" }
func (r *ResultDocument) Streaming() StreamMode { return StreamNone }

func (r *ResultDocument) Execute(ctx *TransformContext, out Sink) error {
	hrefVal, err := r.Href.Evaluate(ctx)
	if err != nil {
		return err
	}
	href := hrefVal.StringValue()
	if href == "" {
		return NewError(FODC0002, "result-document: empty href")
	}

	props := mergeOutputProperties(ctx.Stylesheet().GetOutput(r.Format), r.Override)

	sink, closeDest, err := ctx.ResultDestination().Create(href, props)
	if err != nil {
		return WrapError(FODC0002, err, "result-document: %q", href)
	}
	if r.Body != nil {
		if err := r.Body.Execute(ctx, sink); err != nil {
			_ = closeDest()
			return err
		}
	}
	if err := sink.Flush(); err != nil {
		_ = closeDest()
		return err
	}
	return closeDest()
}

// mergeOutputProperties overlays override's non-zero fields onto base,
// leaving base untouched (spec.md section 4.4's "merging the stylesheet's
// defaults with any inline overrides").
func mergeOutputProperties(base *OutputProperties, override *OutputProperties) *OutputProperties {
	merged := *base
	if override == nil {
		return &merged
	}
	if override.Method != "" {
		merged.Method = override.Method
	}
	if override.Encoding != "" {
		merged.Encoding = override.Encoding
	}
	if override.Version != "" {
		merged.Version = override.Version
	}
	if override.Standalone != "" {
		merged.Standalone = override.Standalone
	}
	if override.MediaType != "" {
		merged.MediaType = override.MediaType
	}
	if override.Indent {
		merged.Indent = true
	}
	if override.OmitProlog {
		merged.OmitProlog = true
	}
	if len(override.CDATASectionElements) > 0 {
		merged.CDATASectionElements = override.CDATASectionElements
	}
	return &merged
}

// DocumentConstructor is the document() constructor (spec.md section
// 4.4): runs Content into a buffered document, optionally validates it,
// and wraps the result as a ResultTreeFragment. Grounded on instr.go's
// executeToRTF, the same buffering primitive xsl:variable's legacy mode
// uses.
type DocumentConstructor struct {
	Content    Instruction
	Validation ValidationMode
	Type       QName
}

func (d *DocumentConstructor) Name() string          { return "document" }
func (d *DocumentConstructor) Streaming() StreamMode { return StreamNone }

func (d *DocumentConstructor) Execute(ctx *TransformContext, out Sink) error {
	rtf, err := executeToRTF(ctx, d.Content, ctx.StaticBaseURI())
	if err != nil {
		return err
	}
	if d.Validation != ValidationSkip && d.Type.Local != "" {
		validator := ctx.Validator()
		if validator == nil {
			validator = NoopValidator{}
		}
		mode := d.Validation
		if mode == ValidationStrict {
			mode = ValidationLax // strict downgraded to lax, spec.md's explicit scope note
		}
		if _, verr := validator.ValidateNode(rtf.AsNodeTree(), d.Type.URI, d.Type.Local, mode); verr != nil {
			return WrapError(XTTE3090, verr, "document constructor failed validation against type %s", d.Type)
		}
	}
	return emitRTFAsItem(rtf, out)
}

// emitRTFAsItem adds rtf as a single sequence item if out is collecting a
// sequence (seqbuilder.go's AddItem), otherwise replays its content
// directly — spec.md's "if the outer sink is a sequence builder, the
// fragment is added as a single item; otherwise it is replayed" rule.
func emitRTFAsItem(rtf *ResultTreeFragment, out Sink) error {
	if builder, ok := out.(*SequenceBuilder); ok {
		builder.AddItem(FromRTF(rtf))
		return nil
	}
	return rtf.Replay(out, false)
}

// MapEntry is xsl:map-entry: emits a single-entry map as an atomic item.
type MapEntry struct {
	Key     CompiledExpr
	Select  CompiledExpr
	Content Instruction
}

func (m *MapEntry) Name() string          { return "map-entry" }
func (m *MapEntry) Streaming() StreamMode { return StreamNone }

func (m *MapEntry) Execute(ctx *TransformContext, out Sink) error {
	keyVal, err := m.Key.Evaluate(ctx)
	if err != nil {
		return err
	}
	val, err := evaluateBoundValue(ctx, m.Select, m.Content, "")
	if err != nil {
		return err
	}
	entry := NewValueMap()
	entry.Put(keyVal.StringValue(), val)
	return emitMapAsItem(entry, out)
}

// emitMapAsItem adds m as a single map-typed sequence item when out can
// hold one (the sequence builder), or drops it otherwise — maps have no
// event-stream representation (spec.md section 3: "maps and arrays ...
// opaque items").
func emitMapAsItem(m *ValueMap, out Sink) error {
	if builder, ok := out.(*SequenceBuilder); ok {
		builder.AddItem(FromMap(m))
	}
	return nil
}

// MapConstructor is xsl:map: executes Children into a sequence builder,
// then merges every collected map, later keys overwriting earlier
// (spec.md section 4.4). Non-map content is XTTE3375.
type MapConstructor struct {
	Content Instruction
}

func (m *MapConstructor) Name() string          { return "map" }
func (m *MapConstructor) Streaming() StreamMode { return StreamNone }

func (m *MapConstructor) Execute(ctx *TransformContext, out Sink) error {
	v, err := executeToValue(ctx, m.Content)
	if err != nil {
		return err
	}
	merged := NewValueMap()
	for _, item := range v.Items() {
		entry := item.Map()
		if entry == nil {
			return NewError(XTTE3375, "xsl:map content is not a map")
		}
		merged.Merge(entry)
	}
	return emitMapAsItem(merged, out)
}
