package xslt

// ============================================================================
// CONDITIONAL / DIAGNOSTIC INSTRUCTIONS
// ============================================================================
//
// if/choose's test-then-execute shape and message's terminate handling
// follow the midbel scripts file's executeIf/executeChoose/executeMessage
// functions (other_examples/fa88e262_…scripts-xslt.go.go); try/catch and
// assert/fallback are supplemented features (spec.md §12) with no pack
// precedent, built directly against spec.md's own numbered behavior using
// this package's signal.go sentinel-error machinery.

// If is xsl:if.
type If struct {
	Test CompiledExpr
	Body Instruction
}

func (i *If) Name() string          { return "if" }
func (i *If) Streaming() StreamMode { return i.Body.Streaming() }

func (i *If) Execute(ctx *TransformContext, out Sink) error {
	v, err := i.Test.Evaluate(ctx)
	if err != nil {
		return err
	}
	if !v.True() {
		return nil
	}
	return i.Body.Execute(ctx, out)
}

// When is one branch of xsl:choose.
type When struct {
	Test CompiledExpr
	Body Instruction
}

// Choose is xsl:choose.
type Choose struct {
	Whens     []When
	Otherwise Instruction
}

func (c *Choose) Name() string          { return "choose" }
func (c *Choose) Streaming() StreamMode { return StreamNone }

func (c *Choose) Execute(ctx *TransformContext, out Sink) error {
	for _, w := range c.Whens {
		v, err := w.Test.Evaluate(ctx)
		if err != nil {
			return err
		}
		if v.True() {
			return w.Body.Execute(ctx, out)
		}
	}
	if c.Otherwise != nil {
		return c.Otherwise.Execute(ctx, out)
	}
	return nil
}

// Message is xsl:message.
type Message struct {
	Select    CompiledExpr
	Content   Instruction
	Terminate AVT
}

func (m *Message) Name() string          { return "message" }
func (m *Message) Streaming() StreamMode { return StreamNone }

func (m *Message) Execute(ctx *TransformContext, out Sink) error {
	text, err := contentOrSelectString(ctx, m.Select, m.Content)
	if err != nil {
		return err
	}
	terminate := false
	if len(m.Terminate.Parts) > 0 {
		s, err := m.Terminate.Evaluate(ctx)
		if err != nil {
			return err
		}
		switch s {
		case "yes", "true":
			terminate = true
		case "no", "false", "":
			terminate = false
		default:
			return NewError(XTDE0030, "message: invalid terminate value %q", s)
		}
	}
	reported := NewError("", "%s", text)
	if listener := ctx.Listener(); listener != nil {
		severity := SeverityWarning
		if terminate {
			severity = SeverityFatal
		}
		listener.Report(severity, reported)
	}
	if terminate {
		return &FatalSignal{Cause: reported}
	}
	return nil
}

// Assert is the supplemented xsl:assert instruction (spec.md §12): fails
// with the given error code when test is false. Defaults to the generic
// assertion-failure code when none is given, mirroring how Message
// defaults its own terminate code.
type Assert struct {
	Test      CompiledExpr
	Content   Instruction
	ErrorCode Code
}

func (a *Assert) Name() string          { return "assert" }
func (a *Assert) Streaming() StreamMode { return StreamNone }

func (a *Assert) Execute(ctx *TransformContext, out Sink) error {
	v, err := a.Test.Evaluate(ctx)
	if err != nil {
		return err
	}
	if v.True() {
		return nil
	}
	text, err := contentOrSelectString(ctx, nil, a.Content)
	if err != nil {
		return err
	}
	code := a.ErrorCode
	if code == "" {
		code = XTMM9000
	}
	return NewError(code, "assertion failed: %s", text)
}

// Fallback is xsl:fallback (spec.md §12): content used in place of an
// unrecognized instruction. Since this engine only ever compiles
// instructions it recognizes, a Fallback's content is simply the body to
// run whenever the containing instruction chooses to delegate to it —
// instructions with no fallback children just ignore it.
type Fallback struct {
	Body Instruction
}

func (f *Fallback) Name() string          { return "fallback" }
func (f *Fallback) Streaming() StreamMode { return StreamNone }

func (f *Fallback) Execute(ctx *TransformContext, out Sink) error {
	if f.Body == nil {
		return nil
	}
	return f.Body.Execute(ctx, out)
}

// Try is the supplemented xsl:try/xsl:catch instruction (spec.md §12):
// runs Body, and on a non-fatal *Error whose Code matches one of Catch's
// declared codes (or Catch.Codes is empty, matching anything) runs Catch
// instead, with the error's code/description bound to the magic variables
// named in spec.md §12.
type Try struct {
	Body  Instruction
	Catch *CatchClause
}

// CatchClause is xsl:catch.
type CatchClause struct {
	Codes []QName // empty means "catch any error"
	Body  Instruction
}

func (t *Try) Name() string          { return "try" }
func (t *Try) Streaming() StreamMode { return StreamNone }

func (t *Try) Execute(ctx *TransformContext, out Sink) error {
	b := NewSequenceBuilder()
	err := t.Body.Execute(ctx, b)
	if err == nil {
		if ferr := b.Flush(); ferr != nil {
			err = ferr
		}
	}
	if err == nil {
		return replayValue(b.GetSequence(), out)
	}
	if _, fatal := err.(*FatalSignal); fatal {
		return err
	}
	code, ok := CodeOf(err)
	if !ok || t.Catch == nil || !t.Catch.matches(code) {
		return err
	}
	catchCtx := ctx.
		WithVariable("", MagicErrorCode, FromString(string(code))).
		WithVariable("", MagicErrorDescription, FromString(err.Error()))
	return t.Catch.Body.Execute(catchCtx, out)
}

func (c *CatchClause) matches(code Code) bool {
	if len(c.Codes) == 0 {
		return true
	}
	for _, want := range c.Codes {
		if want.Local == string(code) {
			return true
		}
	}
	return false
}
