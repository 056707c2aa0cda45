package xslt

import "sort"

// ============================================================================
// FOR-EACH-GROUP / PERFORM-SORT / MERGE INSTRUCTIONS
// ============================================================================
//
// Wires the free grouping/sort/merge functions in sortgroup.go to the
// instruction tree, binding the magic variables consts.go declares
// (__current_group__ etc.) into each group's body scope — no pack repo
// models grouping, so the binding protocol follows spec.md §4.4's own
// numbered description directly.

// GroupMode selects which of sortgroup.go's four partition functions
// for-each-group uses.
type GroupMode uint8

const (
	GroupByKey GroupMode = iota
	GroupByAdjacent
	GroupByStartingWith
	GroupByEndingWith
)

// ForEachGroup is xsl:for-each-group.
type ForEachGroup struct {
	Select     CompiledExpr
	Mode       GroupMode
	KeyExpr    CompiledExpr  // GroupByKey / GroupByAdjacent
	Pattern    CompiledPattern // GroupByStartingWith / GroupByEndingWith
	Collation  string // "" means the default codepoint collation
	Sorts      []SortSpec
	Body       Instruction
}

func (f *ForEachGroup) Name() string          { return "for-each-group" }
func (f *ForEachGroup) Streaming() StreamMode { return StreamNone }

func (f *ForEachGroup) Execute(ctx *TransformContext, out Sink) error {
	items, err := selectNodes(ctx, f.Select, false)
	if err != nil {
		return err
	}

	collation := LookupCollation(f.Collation)
	var groups []ItemGroup
	switch f.Mode {
	case GroupByKey:
		groups, err = GroupBy(ctx, items, f.KeyExpr, collation)
	case GroupByAdjacent:
		groups, err = GroupAdjacent(ctx, items, f.KeyExpr, collation)
	case GroupByStartingWith:
		groups, err = GroupStartingWith(ctx, items, f.Pattern)
	case GroupByEndingWith:
		groups, err = GroupEndingWith(ctx, items, f.Pattern)
	}
	if err != nil {
		return err
	}

	if len(f.Sorts) > 0 {
		groups, err = sortGroupsByLeader(ctx, groups, f.Sorts)
		if err != nil {
			return err
		}
	}

	for i, g := range groups {
		groupCtx := ctx.
			WithContextItem(g.Members[0]).
			WithPositionAndSize(i+1, len(groups)).
			PushVariableScope().
			WithVariable("", MagicCurrentGroupingKey, g.Key).
			WithVariable("", MagicCurrentGroup, FromSequence(g.Members))
		if n := g.Members[0].Node(); n != nil {
			groupCtx = groupCtx.WithXSLTCurrentNode(n)
		}
		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		if err := f.Body.Execute(groupCtx, out); err != nil {
			return err
		}
	}
	return nil
}

// sortGroupsByLeader sorts groups by sort keys computed against each
// group's first member, computing every group's key vector once and
// reusing sortgroup.go's compareSortKey for the tie-broken comparison —
// the same two-step "precompute keys, then sort.Stable" shape sortItems
// itself uses, just keyed on ItemGroup instead of Value.
func sortGroupsByLeader(ctx *TransformContext, groups []ItemGroup, specs []SortSpec) ([]ItemGroup, error) {
	keys := make([][]sortKey, len(groups))
	for i, g := range groups {
		leaderCtx := ctx.WithContextItem(g.Members[0]).WithPositionAndSize(i+1, len(groups))
		row := make([]sortKey, len(specs))
		for k, spec := range specs {
			v, err := spec.Select.Evaluate(leaderCtx)
			if err != nil {
				return nil, err
			}
			if spec.Numeric {
				a, _ := coerceAtomicType(v, "xs:double")
				n, _ := a.AtomicValue()
				row[k] = sortKey{isNumber: true, num: n.Num}
			} else {
				row[k] = sortKey{str: v.StringValue()}
			}
		}
		keys[i] = row
	}
	out := append([]ItemGroup(nil), groups...)
	sort.Stable(&sortableGroups{groups: out, keys: keys, specs: specs})
	return out, nil
}

type sortableGroups struct {
	groups []ItemGroup
	keys   [][]sortKey
	specs  []SortSpec
}

func (s *sortableGroups) Len() int { return len(s.groups) }
func (s *sortableGroups) Swap(i, j int) {
	s.groups[i], s.groups[j] = s.groups[j], s.groups[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}
func (s *sortableGroups) Less(i, j int) bool {
	for k, spec := range s.specs {
		c := compareSortKey(s.keys[i][k], s.keys[j][k], spec.UpperFirst, LookupCollation(spec.Collation))
		if c == 0 {
			continue
		}
		if spec.Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}

// PerformSort is xsl:perform-sort: sorts the selected or constructed
// sequence and emits a deep copy of each item in the new order.
type PerformSort struct {
	Select CompiledExpr
	Body   Instruction // used when Select is nil: sequence constructor input
	Sorts  []SortSpec
}

func (p *PerformSort) Name() string          { return "perform-sort" }
func (p *PerformSort) Streaming() StreamMode { return StreamNone }

func (p *PerformSort) Execute(ctx *TransformContext, out Sink) error {
	var items []Value
	if p.Select != nil {
		v, err := p.Select.Evaluate(ctx)
		if err != nil {
			return err
		}
		items = v.Items()
	} else {
		v, err := executeToValue(ctx, p.Body)
		if err != nil {
			return err
		}
		items = v.Items()
	}
	sorted, err := sortItems(ctx, items, p.Sorts)
	if err != nil {
		return err
	}
	return replayValue(FromSequence(sorted), out)
}

// MergeSourceInstr is one xsl:merge-source child: its own select and
// per-source sort-key expressions.
type MergeSourceInstr struct {
	Name   string
	Select CompiledExpr
	Keys   []CompiledExpr
}

// MergeInstr is xsl:merge.
type MergeInstr struct {
	Sources []MergeSourceInstr
	Body    Instruction
}

func (m *MergeInstr) Name() string          { return "merge" }
func (m *MergeInstr) Streaming() StreamMode { return StreamNone }

func (m *MergeInstr) Execute(ctx *TransformContext, out Sink) error {
	sources := make([]MergeSource, len(m.Sources))
	for i, src := range m.Sources {
		v, err := src.Select.Evaluate(ctx)
		if err != nil {
			return err
		}
		sources[i] = MergeSource{Name: src.Name, Items: v.Items(), Keys: src.Keys}
	}
	groups, err := Merge(ctx, sources)
	if err != nil {
		return err
	}
	for i, g := range groups {
		groupCtx := ctx.
			WithPositionAndSize(i+1, len(groups)).
			PushVariableScope().
			WithVariable("", MagicCurrentMergeGroup, FromSequence(g.Members)).
			WithVariable("", MagicCurrentMergeKeyName, FromString(g.Key))
		for _, src := range m.Sources {
			groupCtx = groupCtx.WithVariable("", magicMergeGroupName(src.Name), FromSequence(g.BySource[src.Name]))
		}
		if len(g.Members) > 0 {
			groupCtx = groupCtx.WithContextItem(g.Members[0])
		}
		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		if err := m.Body.Execute(groupCtx, out); err != nil {
			return err
		}
	}
	return nil
}
