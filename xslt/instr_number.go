package xslt

// ============================================================================
// xsl:number INSTRUCTION
// ============================================================================
//
// level="single"/"multiple"/"any" walk the ancestor-or-self axis exactly
// the way spec.md describes it; no pack repo implements this so the
// count/from pattern matching is built directly against the pattern
// interface expreval.go already defines (CompiledPattern), reusing it
// the same way for-each-group's GroupStartingWith reuses CompiledPattern.

// NumberLevel selects how xsl:number locates the value(s) being numbered.
type NumberLevel uint8

const (
	LevelSingle NumberLevel = iota
	LevelMultiple
	LevelAny
)

// Number is xsl:number.
type Number struct {
	Select CompiledExpr // nil means the context node
	Level  NumberLevel
	Count  CompiledPattern // nil matches the selected node's own kind/name
	From   CompiledPattern // nil means no boundary
	Format NumberFormat
}

func (n *Number) Name() string          { return "number" }
func (n *Number) Streaming() StreamMode { return StreamNone }

func (n *Number) Execute(ctx *TransformContext, out Sink) error {
	node := ctx.ContextNode()
	if n.Select != nil {
		v, err := n.Select.Evaluate(ctx)
		if err != nil {
			return err
		}
		node = v.Node()
	}
	if node == nil {
		return out.Characters("")
	}

	values, err := n.computeValues(ctx, node)
	if err != nil {
		return err
	}
	text, err := FormatNumbers(values, n.Format)
	if err != nil {
		return err
	}
	return out.Characters(text)
}

// computeValues implements spec.md's level semantics: single counts this
// node's position among matching preceding siblings (stopping at a
// from-boundary ancestor), multiple returns one value per matching
// ancestor-or-self (outermost first), any counts every matching node in
// the whole preceding-or-ancestor scope as a single value.
func (n *Number) computeValues(ctx *TransformContext, node *Node) ([]int, error) {
	countsAs := func(c *Node) (bool, error) {
		if n.Count == nil {
			return c.Kind == node.Kind && c.Local == node.Local && c.Space == node.Space, nil
		}
		return n.Count.Matches(c, ctx)
	}
	isBoundary := func(c *Node) (bool, error) {
		if n.From == nil {
			return false, nil
		}
		return n.From.Matches(c, ctx)
	}

	switch n.Level {
	case LevelMultiple:
		var chain []*Node
		for cur := node; cur != nil; cur = cur.Parent {
			ok, err := countsAs(cur)
			if err != nil {
				return nil, err
			}
			if ok {
				chain = append(chain, cur)
			}
			boundary, err := isBoundary(cur)
			if err != nil {
				return nil, err
			}
			if boundary {
				break
			}
		}
		values := make([]int, len(chain))
		for i, anc := range chain {
			pos, err := countPrecedingMatches(ctx, anc, countsAs, isBoundary)
			if err != nil {
				return nil, err
			}
			values[len(chain)-1-i] = pos
		}
		return values, nil

	case LevelAny:
		count := 0
		done := false
		var walk func(*Node) error
		walk = func(c *Node) error {
			if done {
				return nil
			}
			ok, err := countsAs(c)
			if err != nil {
				return err
			}
			if ok {
				count++
			}
			if c == node {
				done = true
				return nil
			}
			for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
				if err := walk(ch); err != nil {
					return err
				}
				if done {
					return nil
				}
			}
			return nil
		}
		if err := walk(node.Root()); err != nil {
			return nil, err
		}
		return []int{count}, nil

	default: // LevelSingle
		pos, err := countPrecedingMatches(ctx, node, countsAs, isBoundary)
		if err != nil {
			return nil, err
		}
		return []int{pos}, nil
	}
}

// countPrecedingMatches counts node plus its matching preceding siblings,
// stopping early if a from-boundary sibling is found, then (if no match
// was found at this level) continues the same count from the parent —
// implementing level="single"'s "nearest ancestor-or-self matching count,
// numbered among its own matching preceding siblings" rule.
func countPrecedingMatches(ctx *TransformContext, node *Node, countsAs func(*Node) (bool, error), isBoundary func(*Node) (bool, error)) (int, error) {
	cur := node
	for cur != nil {
		ok, err := countsAs(cur)
		if err != nil {
			return 0, err
		}
		if ok {
			n := 1
			for s := cur.PrevSibling; s != nil; s = s.PrevSibling {
				boundary, err := isBoundary(s)
				if err != nil {
					return 0, err
				}
				if boundary {
					break
				}
				match, err := countsAs(s)
				if err != nil {
					return 0, err
				}
				if match {
					n++
				}
			}
			return n, nil
		}
		cur = cur.Parent
	}
	return 0, nil
}
