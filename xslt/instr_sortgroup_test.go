package xslt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSortItemsAppliesTwoKeysPrimaryAscendingSecondaryDescending is the
// "two-key sort" scenario: three items with primaries [1,1,2] and
// secondaries [x,y,z] must sort as (1,y),(1,x),(2,z) — primary ascending
// breaks the tie by secondary descending.
func TestSortItemsAppliesTwoKeysPrimaryAscendingSecondaryDescending(t *testing.T) {
	e1 := elemWithAttrs("item", map[string]string{"primary": "1", "secondary": "x"})
	e2 := elemWithAttrs("item", map[string]string{"primary": "1", "secondary": "y"})
	e3 := elemWithAttrs("item", map[string]string{"primary": "2", "secondary": "z"})

	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	sorted, err := sortItems(ctx, []Value{FromNode(e1), FromNode(e2), FromNode(e3)}, []SortSpec{
		{Select: attrExpr("primary"), Numeric: true},
		{Select: attrExpr("secondary"), Descending: true},
	})
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Same(t, e2, sorted[0].Node())
	assert.Same(t, e1, sorted[1].Node())
	assert.Same(t, e3, sorted[2].Node())
}

func TestSortItemsIsStableOnFullTie(t *testing.T) {
	e1 := elemWithAttrs("item", map[string]string{"k": "1"})
	e2 := elemWithAttrs("item", map[string]string{"k": "1"})
	e3 := elemWithAttrs("item", map[string]string{"k": "1"})

	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	sorted, err := sortItems(ctx, []Value{FromNode(e1), FromNode(e2), FromNode(e3)}, []SortSpec{
		{Select: attrExpr("k"), Numeric: true},
	})
	require.NoError(t, err)
	assert.Same(t, e1, sorted[0].Node())
	assert.Same(t, e2, sorted[1].Node())
	assert.Same(t, e3, sorted[2].Node())
}

// TestForEachGroupByKeyPartitionsAndOrdersByFirstOccurrence is the
// "for-each-group" scenario: items keyed a,b,a must produce two groups,
// [a:{i1,i3}, b:{i2}], in first-occurrence order, with members retained
// in their original relative order within each group.
func TestForEachGroupByKeyPartitionsAndOrdersByFirstOccurrence(t *testing.T) {
	i1 := elemWithAttrs("i", map[string]string{"k": "a"})
	i2 := elemWithAttrs("i", map[string]string{"k": "b"})
	i3 := elemWithAttrs("i", map[string]string{"k": "a"})
	labels := map[*Node]string{i1: "i1", i2: "i2", i3: "i3"}

	type seenGroup struct {
		key     string
		members []string
	}
	var groups []seenGroup

	body := instrFunc(func(ctx *TransformContext, out Sink) error {
		key, err := ctx.LookupVariable("", MagicCurrentGroupingKey)
		if err != nil {
			return err
		}
		group, err := ctx.LookupVariable("", MagicCurrentGroup)
		if err != nil {
			return err
		}
		var names []string
		for _, item := range group.Items() {
			names = append(names, labels[item.Node()])
		}
		groups = append(groups, seenGroup{key: key.StringValue(), members: names})
		return nil
	})

	instr := &ForEachGroup{
		Select:  constExpr(FromNodeSet([]*Node{i1, i2, i3})),
		Mode:    GroupByKey,
		KeyExpr: attrExpr("k"),
		Body:    body,
	}

	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)
	out, _ := newNodeBufferSink()
	require.NoError(t, instr.Execute(ctx, out))

	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].key)
	assert.Equal(t, []string{"i1", "i3"}, groups[0].members)
	assert.Equal(t, "b", groups[1].key)
	assert.Equal(t, []string{"i2"}, groups[1].members)
}

func TestGroupAdjacentStartsNewGroupOnKeyChange(t *testing.T) {
	i1 := elemWithAttrs("i", map[string]string{"k": "a"})
	i2 := elemWithAttrs("i", map[string]string{"k": "a"})
	i3 := elemWithAttrs("i", map[string]string{"k": "b"})
	i4 := elemWithAttrs("i", map[string]string{"k": "a"})

	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)
	groups, err := GroupAdjacent(ctx, []Value{FromNode(i1), FromNode(i2), FromNode(i3), FromNode(i4)}, attrExpr("k"), LookupCollation(""))
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].Members, 2)
	assert.Len(t, groups[1].Members, 1)
	assert.Len(t, groups[2].Members, 1)
}

func TestPerformSortReplaysItemsInSortedOrder(t *testing.T) {
	e1 := elemWithAttrs("item", map[string]string{"k": "2"})
	e2 := elemWithAttrs("item", map[string]string{"k": "1"})

	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	instr := &PerformSort{
		Select: constExpr(FromNodeSet([]*Node{e1, e2})),
		Sorts:  []SortSpec{{Select: attrExpr("k"), Numeric: true}},
	}
	out, root := newNodeBufferSink()
	require.NoError(t, instr.Execute(ctx, out))
	require.NoError(t, out.Flush())

	require.NotNil(t, root.FirstChild)
	assert.Equal(t, "1", root.FirstChild.Attr[0].Data)
	require.NotNil(t, root.FirstChild.NextSibling)
	assert.Equal(t, "2", root.FirstChild.NextSibling.Attr[0].Data)
}

// TestMergeGroupsSourcesByConcatenatedKey exercises xsl:merge: two
// pre-sorted sources merged on a shared numeric key, each resulting
// group tagging which source(s) contributed to it.
func TestMergeGroupsSourcesByConcatenatedKey(t *testing.T) {
	left1 := elemWithAttrs("l", map[string]string{"k": "1"})
	left2 := elemWithAttrs("l", map[string]string{"k": "2"})
	right1 := elemWithAttrs("r", map[string]string{"k": "1"})

	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	sources := []MergeSource{
		{Name: "left", Items: []Value{FromNode(left1), FromNode(left2)}, Keys: []CompiledExpr{attrExpr("k")}},
		{Name: "right", Items: []Value{FromNode(right1)}, Keys: []CompiledExpr{attrExpr("k")}},
	}
	groups, err := Merge(ctx, sources)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "1", groups[0].Key)
	assert.Len(t, groups[0].Members, 2)
	assert.Len(t, groups[0].BySource["left"], 1)
	assert.Len(t, groups[0].BySource["right"], 1)

	assert.Equal(t, "2", groups[1].Key)
	assert.Len(t, groups[1].Members, 1)
	assert.Len(t, groups[1].BySource["left"], 1)
	assert.Empty(t, groups[1].BySource["right"])
}
