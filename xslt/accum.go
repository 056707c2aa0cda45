package xslt

// ============================================================================
// ACCUMULATORS
// ============================================================================
//
// apply-templates "fires accumulator pre/post-descent notifications
// around each element's execution" (spec.md section 4.4) and fork
// branches each get "a cloned accumulator manager" (section 4.8/5).
// AccumulatorDef's before/after rules are themselves sequence
// constructors compiled the same way a template body is, so
// AccumulatorManager is deliberately a thin registry over per-name
// current values rather than its own evaluation engine: the values it
// holds are ordinary Values produced by executing a rule's body with a
// context whose item is the node being entered/left.

// AccumulatorRule pairs a match pattern with the body that computes a
// new accumulator value when a matching node is entered (pre-descent,
// "before") or left (post-descent, "after").
type AccumulatorRule struct {
	Pattern CompiledPattern
	Phase   AccumulatorPhase
	Body    Instruction
}

type AccumulatorPhase uint8

const (
	AccumulatorBeforeDescent AccumulatorPhase = iota
	AccumulatorAfterDescent
)

// AccumulatorDef is one named accumulator as declared by xsl:accumulator:
// an initial value and an ordered list of rules, the first matching rule
// (by document order of declaration) applying at each node.
type AccumulatorDef struct {
	Name    QName
	Initial Value
	Rules   []AccumulatorRule
	Streamable bool
}

// AccumulatorManager tracks the live value of every declared accumulator
// for the duration of one transform (or one fork branch). It is
// intentionally mutable and thread-confined: fork gives each branch its
// own Clone so no manager is shared across goroutines.
type AccumulatorManager struct {
	defs    map[QName]*AccumulatorDef
	current map[QName]Value
}

// NewAccumulatorManager builds a manager seeded with every definition's
// initial value.
func NewAccumulatorManager(defs []*AccumulatorDef) *AccumulatorManager {
	m := &AccumulatorManager{
		defs:    make(map[QName]*AccumulatorDef, len(defs)),
		current: make(map[QName]Value, len(defs)),
	}
	for _, d := range defs {
		m.defs[d.Name] = d
		m.current[d.Name] = d.Initial
	}
	return m
}

// Clone produces an independent copy whose current values match this
// manager's at the time of cloning but which shares no further mutable
// state (spec.md section 5: "an independent accumulator manager; no
// shared mutable state between branches").
func (m *AccumulatorManager) Clone() *AccumulatorManager {
	cp := &AccumulatorManager{
		defs:    m.defs,
		current: make(map[QName]Value, len(m.current)),
	}
	for k, v := range m.current {
		cp.current[k] = v
	}
	return cp
}

// Value returns the current value of a named accumulator.
func (m *AccumulatorManager) Value(name QName) (Value, bool) {
	v, ok := m.current[name]
	return v, ok
}

// notify runs every matching rule of the given phase against node,
// updating that accumulator's current value to the rule body's result.
func (m *AccumulatorManager) notify(ctx *TransformContext, node *Node, phase AccumulatorPhase, exec func(ctx *TransformContext, body Instruction) (Value, error)) error {
	for name, def := range m.defs {
		for _, r := range def.Rules {
			if r.Phase != phase {
				continue
			}
			ok, err := r.Pattern.Matches(node, ctx)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			v, err := exec(ctx.WithContextNode(node), r.Body)
			if err != nil {
				return err
			}
			m.current[name] = v
			break
		}
	}
	return nil
}

// BeforeDescent fires, for each accumulator, its first before-descent
// rule matching node (rules tried in declaration order), updating current
// values. The order in which accumulators are visited is not defined.
func (m *AccumulatorManager) BeforeDescent(ctx *TransformContext, node *Node, exec func(ctx *TransformContext, body Instruction) (Value, error)) error {
	return m.notify(ctx, node, AccumulatorBeforeDescent, exec)
}

// AfterDescent fires every accumulator's after-descent rule matching
// node.
func (m *AccumulatorManager) AfterDescent(ctx *TransformContext, node *Node, exec func(ctx *TransformContext, body Instruction) (Value, error)) error {
	return m.notify(ctx, node, AccumulatorAfterDescent, exec)
}
