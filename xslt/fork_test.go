package xslt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestForkConcatenatesBranchesInDeclarationOrder exercises the
// multi-branch path of runFork (the single-branch fast path takes a
// different, un-synchronized route) and checks that replay order always
// follows declaration order, never goroutine completion order.
func TestForkConcatenatesBranchesInDeclarationOrder(t *testing.T) {
	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	branch := func(label string) Instruction {
		return instrFunc(func(ctx *TransformContext, out Sink) error {
			return out.Characters(label)
		})
	}
	fork := &Fork{Branches: []Instruction{branch("a"), branch("b"), branch("c")}}

	pipeline, root := newNodeBufferSink()
	require.NoError(t, pipeline.StartElement("", "out", "out"))
	require.NoError(t, fork.Execute(ctx, pipeline))
	require.NoError(t, pipeline.EndElement("", "out", "out"))
	require.NoError(t, pipeline.Flush())

	require.NotNil(t, root.FirstChild)
	assert.Equal(t, "abc", root.FirstChild.StringValue())
}

func TestForkPropagatesFirstBranchError(t *testing.T) {
	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	failing := instrFunc(func(ctx *TransformContext, out Sink) error {
		return NewError(XPST0003, "boom")
	})
	ok := instrFunc(func(ctx *TransformContext, out Sink) error {
		return out.Characters("fine")
	})
	fork := &Fork{Branches: []Instruction{ok, failing}}

	out, _ := newNodeBufferSink()
	err := fork.Execute(ctx, out)
	require.Error(t, err)
}

func TestForkSingleBranchBypassesBuffering(t *testing.T) {
	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	out, root := newNodeBufferSink()
	var sawOuterSink bool
	only := instrFunc(func(ctx *TransformContext, branchOut Sink) error {
		sawOuterSink = branchOut == Sink(out)
		return branchOut.Characters("solo")
	})
	fork := &Fork{Branches: []Instruction{only}}

	require.NoError(t, fork.Execute(ctx, out))
	require.NoError(t, out.Flush())
	assert.True(t, sawOuterSink, "a single branch must write straight to the outer sink, not a buffer")
	assert.Equal(t, "solo", root.StringValue())
}
