package xslt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyProducesShallowCopyWithoutAttributesAndRunsOwnContent(t *testing.T) {
	src := NewElement("", "item", "")
	src.Attr = append(src.Attr, NewAttribute("", "id", "", "7"))
	src.Append(NewText("ignored child text"))

	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet).WithContextNode(src)

	copyInstr := &Copy{Content: &ValueOf{Select: constExpr(FromString("replacement"))}}

	pipeline, root := newNodeBufferSink()
	require.NoError(t, copyInstr.Execute(ctx, pipeline))
	require.NoError(t, pipeline.Flush())

	el := root.FirstChild
	require.NotNil(t, el)
	assert.Equal(t, "item", el.Local)
	assert.Empty(t, el.Attr, "xsl:copy does not copy the source element's attributes")
	assert.Equal(t, "replacement", el.StringValue(), "xsl:copy replaces descendants with its own content, keeping only the name")
}

func TestCopyOfDeepCopiesDescendants(t *testing.T) {
	src := NewElement("", "item", "")
	child := NewElement("", "child", "")
	child.Append(NewText("x"))
	src.Append(child)

	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	copyOf := &CopyOf{Select: constExpr(FromNode(src))}

	pipeline, root := newNodeBufferSink()
	require.NoError(t, copyOf.Execute(ctx, pipeline))
	require.NoError(t, pipeline.Flush())

	el := root.FirstChild
	require.NotNil(t, el)
	assert.Equal(t, "item", el.Local)
	require.NotNil(t, el.FirstChild)
	assert.Equal(t, "child", el.FirstChild.Local)
	assert.Equal(t, "x", el.FirstChild.StringValue())
}

// TestOnEmptyAttributeOnlyContentCountsAsNonEmpty is spec.md §8's
// on-empty/attribute-only scenario: a sequence constructor whose only
// content is an xsl:attribute must still be treated as non-empty — the
// attribute attaches to the enclosing result element and on-empty must
// not fire.
func TestOnEmptyAttributeOnlyContentCountsAsNonEmpty(t *testing.T) {
	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	pipeline, root := newNodeBufferSink()
	require.NoError(t, pipeline.StartElement("", "out", "out"))

	onEmptyFired := false
	block := &Block{
		Children: []Instruction{&AttributeConstructor{
			Name:   ConstantAVT("id"),
			Select: constExpr(FromString("42")),
		}},
		OnEmpty: instrFunc(func(ctx *TransformContext, out Sink) error {
			onEmptyFired = true
			return nil
		}),
	}
	require.NoError(t, block.Execute(ctx, pipeline))
	require.NoError(t, pipeline.EndElement("", "out", "out"))
	require.NoError(t, pipeline.Flush())

	el := root.FirstChild
	require.NotNil(t, el)
	require.Len(t, el.Attr, 1)
	assert.Equal(t, "id", el.Attr[0].Local)
	assert.Equal(t, "42", el.Attr[0].Data)
	assert.False(t, onEmptyFired, "an attribute-only body must count as non-empty")
}

func TestOnEmptyFiresWhenBodyProducesNothing(t *testing.T) {
	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	pipeline, root := newNodeBufferSink()
	require.NoError(t, pipeline.StartElement("", "out", "out"))

	onEmptyFired := false
	block := &Block{
		Children: nil,
		OnEmpty: instrFunc(func(ctx *TransformContext, out Sink) error {
			onEmptyFired = true
			return out.Characters("fallback")
		}),
	}
	require.NoError(t, block.Execute(ctx, pipeline))
	require.NoError(t, pipeline.EndElement("", "out", "out"))
	require.NoError(t, pipeline.Flush())

	el := root.FirstChild
	require.NotNil(t, el)
	assert.True(t, onEmptyFired)
	assert.Equal(t, "fallback", el.StringValue())
}
