package xslt

// ============================================================================
// 4.4 INSTRUCTION TREE
// ============================================================================
//
// Grounded on other_examples/fa88e262_midbel-codecs__scripts-xslt.go.go's
// `executers map[xml.QName]executeFunc` dispatch table, re-expressed per
// spec.md section 9's design note ("tagged variant or sealed hierarchy
// with a uniform execute(ctx, out) operation ... avoid virtual
// inheritance chains") as a single Go interface implemented by one
// struct per instruction kind, with compilation producing a tree of
// these instead of re-walking a generic xml.Node at run time the way
// the reference engine's executeFunc(node, datum, sheet) does.

// StreamMode classifies how much of an instruction's execution can
// proceed without materializing its whole input (spec.md section 4.4).
type StreamMode uint8

const (
	StreamNone StreamMode = iota
	StreamGrounded
	StreamFull
)

// Instruction is one compiled node of a template/function body.
type Instruction interface {
	// Execute runs the instruction, writing output events to out.
	Execute(ctx *TransformContext, out Sink) error

	// Name returns the instruction's XSLT element name, for diagnostics.
	Name() string

	// Streaming reports this instruction's streaming capability.
	Streaming() StreamMode
}

// Block is a Sequence instruction: executes children in order, emitting
// item_boundary between them (spec.md section 4.4's "Sequence").
type Block struct {
	Children []Instruction

	// OnEmpty/OnNonEmpty implement the two-phase on-empty/on-non-empty
	// mode: when set, content is first executed into a splitting sink
	// (see splitsink.go) so attributes/namespaces flow through
	// immediately while buffered content determines which branch
	// replays.
	OnEmpty    Instruction
	OnNonEmpty Instruction
}

func (b *Block) Name() string { return "sequence-constructor" }

func (b *Block) Streaming() StreamMode {
	mode := StreamFull
	for _, c := range b.Children {
		if c.Streaming() < mode {
			mode = c.Streaming()
		}
	}
	return mode
}

func (b *Block) Execute(ctx *TransformContext, out Sink) error {
	if b.OnEmpty == nil && b.OnNonEmpty == nil {
		wroteItem := false
		for _, c := range b.Children {
			if binder, ok := c.(scopeBinder); ok {
				next, err := binder.bindScope(ctx)
				if err != nil {
					return err
				}
				ctx = next
				continue
			}
			if wroteItem {
				if err := out.ItemBoundary(); err != nil {
					return err
				}
			}
			if err := c.Execute(ctx, out); err != nil {
				return err
			}
			wroteItem = true
		}
		return nil
	}
	return b.executeWithEmptyBranches(ctx, out)
}

// executeWithEmptyBranches implements the on-empty/on-non-empty two
// phase protocol: phase 1 runs children through a splittingSink that
// forwards attribute/namespace events to out immediately but buffers
// everything else; phase 2 replays the buffer (if non-empty) or
// executes OnEmpty/OnNonEmpty depending on which fired.
func (b *Block) executeWithEmptyBranches(ctx *TransformContext, out Sink) error {
	split := newSplittingSink(out)
	wroteItem := false
	for _, c := range b.Children {
		if binder, ok := c.(scopeBinder); ok {
			next, err := binder.bindScope(ctx)
			if err != nil {
				return err
			}
			ctx = next
			continue
		}
		if wroteItem {
			if err := split.ItemBoundary(); err != nil {
				return err
			}
		}
		if err := c.Execute(ctx, split); err != nil {
			return err
		}
		wroteItem = true
	}
	if split.nonEmpty() {
		if err := split.replay(out); err != nil {
			return err
		}
		if b.OnNonEmpty != nil {
			return b.OnNonEmpty.Execute(ctx, out)
		}
		return nil
	}
	if b.OnEmpty != nil {
		return b.OnEmpty.Execute(ctx, out)
	}
	return nil
}

// executeToValue runs instr against a fresh SequenceBuilder and returns
// the accumulated Value: the general-purpose way any instruction's
// result can be captured rather than streamed directly, used throughout
// xsl:variable/xsl:param/xsl:sort/xsl:with-param evaluation.
func executeToValue(ctx *TransformContext, instr Instruction) (Value, error) {
	b := NewSequenceBuilder()
	if err := instr.Execute(ctx, b); err != nil {
		return Value{}, err
	}
	if err := b.Flush(); err != nil {
		return Value{}, err
	}
	return b.GetSequence(), nil
}

// newNodeBufferSink returns a fully-isolated Sink that materializes
// every event into a detached node tree rooted at the returned node,
// with no event ever escaping to any other sink. Used wherever a
// construct needs a buffer nothing else can observe until it is
// explicitly replayed: RTF construction and fork branches.
func newNodeBufferSink() (*Pipeline, *Node) {
	root := NewDocument()
	return NewPipeline(&nodeBuildEmitter{current: root}), root
}

// executeToRTF runs instr against a fresh newNodeBufferSink and wraps the
// built tree as a ResultTreeFragment (legacy-mode xsl:variable, and the
// document() constructor).
func executeToRTF(ctx *TransformContext, instr Instruction, baseURI string) (*ResultTreeFragment, error) {
	pipeline, root := newNodeBufferSink()
	if err := instr.Execute(ctx, pipeline); err != nil {
		return nil, err
	}
	if err := pipeline.Flush(); err != nil {
		return nil, err
	}
	return NewResultTreeFragment(root, baseURI), nil
}
