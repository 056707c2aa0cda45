package xslt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAppendLinksSiblingsAndParent(t *testing.T) {
	parent := NewElement("", "root", "")
	a := NewElement("", "a", "")
	b := NewElement("", "b", "")

	parent.Append(a)
	parent.Append(b)

	require.Equal(t, a, parent.FirstChild)
	require.Equal(t, b, parent.LastChild)
	assert.Equal(t, parent, a.Parent)
	assert.Equal(t, parent, b.Parent)
	assert.Equal(t, b, a.NextSibling)
	assert.Equal(t, a, b.PrevSibling)
	assert.Equal(t, []*Node{a, b}, parent.Children())
}

func TestNodeStringValueConcatenatesDescendantText(t *testing.T) {
	root := NewElement("", "root", "")
	root.Append(NewText("hello "))
	child := NewElement("", "child", "")
	child.Append(NewText("world"))
	root.Append(child)
	root.Append(NewComment("ignored"))

	assert.Equal(t, "hello world", root.StringValue())
}

func TestNodeSiblingAccessors(t *testing.T) {
	parent := NewElement("", "root", "")
	a, b, c := NewElement("", "a", ""), NewElement("", "b", ""), NewElement("", "c", "")
	parent.Append(a)
	parent.Append(b)
	parent.Append(c)

	assert.Equal(t, []*Node{a}, b.PrecedingSiblings())
	assert.Equal(t, []*Node{c}, b.FollowingSiblings())
	assert.Empty(t, a.PrecedingSiblings())
	assert.Empty(t, c.FollowingSiblings())
}

func TestNodeRootAndDepth(t *testing.T) {
	doc := NewDocument()
	root := NewElement("", "root", "")
	child := NewElement("", "child", "")
	doc.Append(root)
	root.Append(child)
	Reindex(doc, 0, nextDocID())

	assert.Equal(t, doc, child.Root())
	assert.Equal(t, 0, doc.Depth())
	assert.Equal(t, 1, root.Depth())
	assert.Equal(t, 2, child.Depth())
}

func TestReindexAssignsStrictlyIncreasingOrder(t *testing.T) {
	doc := NewDocument()
	root := NewElement("", "root", "")
	doc.Append(root)
	a := NewElement("", "a", "")
	b := NewElement("", "b", "")
	root.Append(a)
	root.Append(b)

	next := Reindex(doc, 5, nextDocID())

	assert.True(t, doc.DocumentOrder() < root.DocumentOrder())
	assert.True(t, root.DocumentOrder() < a.DocumentOrder())
	assert.True(t, a.DocumentOrder() < b.DocumentOrder())
	assert.Equal(t, int64(5), doc.DocumentOrder())
	assert.Greater(t, next, b.DocumentOrder())
}

func TestDeepCloneProducesIndependentEqualTree(t *testing.T) {
	root := NewElement("", "root", "")
	root.Append(NewText("x"))
	child := NewElement("", "child", "")
	root.Append(child)

	clone := DeepClone(root)

	require.NotSame(t, root, clone)
	assert.Equal(t, root.StringValue(), clone.StringValue())
	assert.Equal(t, len(root.Children()), len(clone.Children()))
	assert.Nil(t, clone.Parent)
}
