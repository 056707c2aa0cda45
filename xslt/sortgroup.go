package xslt

import (
	"sort"
	"strings"
)

// ============================================================================
// 4.7 SORT / GROUP ENGINE
// ============================================================================
//
// The multi-key stable sort is grounded directly on
// ucarion-c14n/internal/sortattr/sortattr.go's SortAttr: a sort.Interface
// (Len/Swap/Less) driven by sort.Stable, with Less working through an
// ordered list of comparison keys and falling through to the next key on
// a tie. sortattr.go has exactly two keys (namespace-ness, then
// name); sortableItems generalizes that chain to an arbitrary list of
// compiled sort specs, each producing one comparable key per item.

// SortSpec is one compiled xsl:sort: AVTs for data-type/order/
// case-order/collation are pre-evaluated once per spec.md section 4.7
// ("pre-evaluates AVT attributes of each sort spec ... once").
type SortSpec struct {
	Select     CompiledExpr
	Numeric    bool
	Descending bool
	UpperFirst bool // case-order="upper-first"
	Collation  string
}

type sortKey struct {
	isNumber bool
	num      float64
	str      string
}

func compareSortKey(a, b sortKey, upperFirst bool, collation Collation) int {
	if a.isNumber && b.isNumber {
		switch {
		case a.num != a.num && b.num != b.num:
			return 0
		case a.num != a.num: // NaN sorts first ascending
			return -1
		case b.num != b.num:
			return 1
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	}
	if c := collation.Compare(a.str, b.str); c != 0 {
		return c
	}
	// The collation treats these as equal (often because it folds case);
	// break the tie by case-order so values differing only in case still
	// sort deterministically per spec.md §4.7's case-order attribute.
	if a.str == b.str {
		return 0
	}
	al, bl := strings.ToLower(a.str), strings.ToLower(b.str)
	if al != bl {
		return 0
	}
	aUpper, bUpper := a.str != al, b.str != bl
	if aUpper == bUpper {
		return strings.Compare(a.str, b.str)
	}
	if aUpper == upperFirst {
		return -1
	}
	return 1
}

// sortableItems pairs each item with its pre-computed key vector; Less
// walks the spec list key-by-key, exactly mirroring sortattr.SortAttr's
// single-chain-of-keys Less.
type sortableItems struct {
	items []Value
	keys  [][]sortKey
	specs []SortSpec
}

func (s *sortableItems) Len() int      { return len(s.items) }
func (s *sortableItems) Swap(i, j int) {
	s.items[i], s.items[j] = s.items[j], s.items[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}

func (s *sortableItems) Less(i, j int) bool {
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

// sortItems implements spec.md section 4.7's sort algorithm: per-item
// sort keys computed with the item as context node and position/size =
// (original index+1, N), then a stable multi-key sort.
func sortItems(ctx *TransformContext, items []Value, specs []SortSpec) ([]Value, error) {
	if len(specs) == 0 {
		return items, nil
	}
	keys := make([][]sortKey, len(items))
	for i, item := range items {
		itemCtx := ctx.WithContextItem(item).WithPositionAndSize(i+1, len(items))
		row := make([]sortKey, len(specs))
		for k, spec := range specs {
			v, err := spec.Select.Evaluate(itemCtx)
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
	out := append([]Value(nil), items...)
	sort.Stable(&sortableItems{items: out, keys: keys, specs: specs})
	return out, nil
}

// ----------------------------------------------------------------------
// Grouping (for-each-group, spec.md section 4.4/4.7)
// ----------------------------------------------------------------------

type ItemGroup struct {
	Key     Value
	Members []Value
}

// GroupBy partitions items by the string-value of a per-item key
// expression, preserving first-occurrence insertion order of groups.
// Equality is decided through collation (spec.md §4.7's group-by key
// comparison respects the in-scope collation the same way xsl:sort does).
func GroupBy(ctx *TransformContext, items []Value, keyExpr CompiledExpr, collation Collation) ([]ItemGroup, error) {
	var groups []ItemGroup
	index := make(map[string]int)
	for i, item := range items {
		itemCtx := ctx.WithContextItem(item).WithPositionAndSize(i+1, len(items))
		k, err := keyExpr.Evaluate(itemCtx)
		if err != nil {
			return nil, err
		}
		sk := collation.Key(k.StringValue())
		if gi, ok := index[sk]; ok {
			groups[gi].Members = append(groups[gi].Members, item)
			continue
		}
		index[sk] = len(groups)
		groups = append(groups, ItemGroup{Key: k, Members: []Value{item}})
	}
	return groups, nil
}

// GroupAdjacent partitions items into runs of consecutive equal keys.
func GroupAdjacent(ctx *TransformContext, items []Value, keyExpr CompiledExpr, collation Collation) ([]ItemGroup, error) {
	var groups []ItemGroup
	var lastKey string
	haveLast := false
	for i, item := range items {
		itemCtx := ctx.WithContextItem(item).WithPositionAndSize(i+1, len(items))
		k, err := keyExpr.Evaluate(itemCtx)
		if err != nil {
			return nil, err
		}
		sk := collation.Key(k.StringValue())
		if haveLast && sk == lastKey {
			last := &groups[len(groups)-1]
			last.Members = append(last.Members, item)
			continue
		}
		groups = append(groups, ItemGroup{Key: k, Members: []Value{item}})
		lastKey, haveLast = sk, true
	}
	return groups, nil
}

// GroupStartingWith starts a new group whenever an item matches pattern
// (the matched item becomes the first member of the new group).
func GroupStartingWith(ctx *TransformContext, items []Value, pattern CompiledPattern) ([]ItemGroup, error) {
	var groups []ItemGroup
	for _, item := range items {
		match := false
		if n := item.Node(); n != nil {
			ok, err := pattern.Matches(n, ctx)
			if err != nil {
				return nil, err
			}
			match = ok
		}
		if match || len(groups) == 0 {
			groups = append(groups, ItemGroup{Members: []Value{item}})
			continue
		}
		last := &groups[len(groups)-1]
		last.Members = append(last.Members, item)
	}
	return groups, nil
}

// GroupEndingWith ends the current group at an item matching pattern.
func GroupEndingWith(ctx *TransformContext, items []Value, pattern CompiledPattern) ([]ItemGroup, error) {
	var groups []ItemGroup
	var current []Value
	for _, item := range items {
		current = append(current, item)
		match := false
		if n := item.Node(); n != nil {
			ok, err := pattern.Matches(n, ctx)
			if err != nil {
				return nil, err
			}
			match = ok
		}
		if match {
			groups = append(groups, ItemGroup{Members: current})
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, ItemGroup{Members: current})
	}
	return groups, nil
}

// ----------------------------------------------------------------------
// Merge (xsl:merge, spec.md section 4.4)
// ----------------------------------------------------------------------

const mergeKeySeparator = "\x00"

// MergeSource is one xsl:merge-source: its own selected items and key
// expressions.
type MergeSource struct {
	Name  string
	Items []Value
	Keys  []CompiledExpr
}

// MergedGroup is one post-merge group: the concatenated key string used
// to group, and the contributing items tagged by source name.
type MergedGroup struct {
	Key     string
	Members []Value
	BySource map[string][]Value
}

// Merge implements spec.md section 4.4's merge: items from every source
// are collected, sorted by concatenated key (U+0000 separator between
// key fields), then grouped by identical key.
func Merge(ctx *TransformContext, sources []MergeSource) ([]MergedGroup, error) {
	type tagged struct {
		key    string
		value  Value
		source string
	}
	var all []tagged
	for _, src := range sources {
		for i, item := range src.Items {
			itemCtx := ctx.WithContextItem(item).WithPositionAndSize(i+1, len(src.Items))
			var parts []string
			for _, k := range src.Keys {
				v, err := k.Evaluate(itemCtx)
				if err != nil {
					return nil, err
				}
				parts = append(parts, v.StringValue())
			}
			key := ""
			for i, p := range parts {
				if i > 0 {
					key += mergeKeySeparator
				}
				key += p
			}
			all = append(all, tagged{key: key, value: item, source: src.Name})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].key < all[j].key })

	var groups []MergedGroup
	index := make(map[string]int)
	for _, t := range all {
		gi, ok := index[t.key]
		if !ok {
			gi = len(groups)
			index[t.key] = gi
			groups = append(groups, MergedGroup{Key: t.key, BySource: make(map[string][]Value)})
		}
		groups[gi].Members = append(groups[gi].Members, t.value)
		groups[gi].BySource[t.source] = append(groups[gi].BySource[t.source], t.value)
	}
	return groups, nil
}
