package xslt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIterateAccumulatesUntilBreak drives xsl:iterate over a running sum
// carried as an iterate parameter, rebound each pass via next-iteration,
// until the body decides to break — exercising the BreakSignal/
// NextIterationSignal unwind path signal.go documents.
func TestIterateAccumulatesUntilBreak(t *testing.T) {
	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	items := []Value{
		FromAtomic(NumberAtomic(1)),
		FromAtomic(NumberAtomic(2)),
		FromAtomic(NumberAtomic(3)),
		FromAtomic(NumberAtomic(4)),
	}
	sumName := QName{Local: "sum"}

	var visited []float64
	body := instrFunc(func(ctx *TransformContext, out Sink) error {
		cur, err := ctx.LookupVariable("", "sum")
		if err != nil {
			return err
		}
		sum, _ := cur.AtomicValue()
		item, _ := ctx.ContextItem().AtomicValue()
		visited = append(visited, item.Num)
		next := sum.Num + item.Num
		if next >= 6 {
			brk := &Break{Content: instrFunc(func(ctx *TransformContext, out Sink) error {
				return out.Characters(formatXPathNumber(next))
			})}
			return brk.Execute(ctx, out)
		}
		ni := &NextIteration{Params: []NextIterationParam{
			{Name: sumName, Select: constExpr(FromAtomic(NumberAtomic(next)))},
		}}
		return ni.Execute(ctx, out)
	})

	iterate := &Iterate{
		Select: constExpr(FromSequence(items)),
		Params: []IterateParam{{Name: sumName, Select: constExpr(FromAtomic(NumberAtomic(0)))}},
		Body:   body,
	}

	v, err := executeToValue(ctx, iterate)
	require.NoError(t, err)
	assert.Equal(t, "6", v.StringValue())
	assert.Equal(t, []float64{1, 2, 3}, visited, "iterate must stop as soon as break fires, not run every item")
}

func TestIterateRunsOnCompletionWhenNoBreakFires(t *testing.T) {
	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)

	items := []Value{FromAtomic(NumberAtomic(1)), FromAtomic(NumberAtomic(2))}
	var completed bool
	iterate := &Iterate{
		Select: constExpr(FromSequence(items)),
		Body:   instrFunc(func(ctx *TransformContext, out Sink) error { return nil }),
		OnCompletion: instrFunc(func(ctx *TransformContext, out Sink) error {
			completed = true
			return nil
		}),
	}
	out, _ := newNodeBufferSink()
	require.NoError(t, iterate.Execute(ctx, out))
	assert.True(t, completed)
}
