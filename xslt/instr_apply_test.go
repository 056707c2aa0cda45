package xslt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallTemplateInvokesNamedRuleByName(t *testing.T) {
	sheet := NewCompiledStylesheet()
	var ran bool
	sheet.NamedTemplates[QName{Local: "greet"}] = &TemplateRule{
		Name: QName{Local: "greet"},
		Body: instrFunc(func(ctx *TransformContext, out Sink) error {
			ran = true
			return out.Characters("hi")
		}),
	}

	ctx := NewRootContext(NewDocument(), sheet)
	call := &CallTemplate{Name: QName{Local: "greet"}}
	v, err := executeToValue(ctx, call)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "hi", v.StringValue())
}

func TestCallTemplateUnknownNameErrors(t *testing.T) {
	sheet := NewCompiledStylesheet()
	ctx := NewRootContext(NewDocument(), sheet)
	call := &CallTemplate{Name: QName{Local: "missing"}}
	_, err := executeToValue(ctx, call)
	require.Error(t, err)
}

// TestParameterTunnelingPropagatesThroughAnUndeclaringIntermediateCall is
// the "tunnel parameters" scenario: template A calls B with a tunnel
// parameter B never declares; B calls C with no with-params at all; C
// still receives the value A supplied, because the tunnel frame travels
// on the context rather than through each template's own parameter list.
func TestParameterTunnelingPropagatesThroughAnUndeclaringIntermediateCall(t *testing.T) {
	sheet := NewCompiledStylesheet()
	pName := QName{Local: "p"}

	templateC := &TemplateRule{
		Name:   QName{Local: "C"},
		Params: []*ParamDecl{{Name: pName, Tunnel: true}},
		Body:   &ValueOf{Select: varExpr("p")},
	}
	templateB := &TemplateRule{
		Name: QName{Local: "B"},
		Body: &CallTemplate{Name: QName{Local: "C"}},
	}
	templateA := &TemplateRule{
		Name: QName{Local: "A"},
		Body: &CallTemplate{
			Name: QName{Local: "B"},
			WithParams: []*WithParamInstr{
				{Name: pName, Tunnel: true, Select: constExpr(FromString("hello"))},
			},
		},
	}
	sheet.NamedTemplates[templateA.Name] = templateA
	sheet.NamedTemplates[templateB.Name] = templateB
	sheet.NamedTemplates[templateC.Name] = templateC

	ctx := NewRootContext(NewDocument(), sheet)
	got, err := executeToValue(ctx, templateA.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.StringValue())
}

// TestImportPrecedenceBeatsPriorityTie is the "import precedence"
// scenario: two rules match the same element with equal priority but
// different import precedence; the higher-precedence rule must win
// regardless of declaration order or priority.
func TestImportPrecedenceBeatsPriorityTie(t *testing.T) {
	sheet := NewCompiledStylesheet()
	mode := sheet.Modes[QName{}]

	doc := NewDocument()
	x := NewElement("", "x", "")
	doc.Append(x)
	Reindex(doc, 0, nextDocID())

	imported := &TemplateRule{Pattern: namePattern("x"), Match: "x", Precedence: 0, AllModes: true, Body: instrFunc(func(*TransformContext, Sink) error { return nil })}
	importing := &TemplateRule{Pattern: namePattern("x"), Match: "x", Precedence: 1, AllModes: true, Body: instrFunc(func(*TransformContext, Sink) error { return nil })}
	mode.AddRule(imported, ElementNode, "x", "")
	mode.AddRule(importing, ElementNode, "x", "")

	ctx := NewRootContext(doc, sheet)
	rule, _, err := mode.FindMatch(x, ctx)
	require.NoError(t, err)
	assert.Same(t, importing, rule, "higher import precedence must win a priority tie")
}

// TestApplyImportsDispatchesToLowerPrecedenceRule is the "apply-imports"
// scenario, continuing directly from the import-precedence setup above:
// the higher-precedence rule's own body calls xsl:apply-imports, which
// must reach the imported module's rule for the same element.
func TestApplyImportsDispatchesToLowerPrecedenceRule(t *testing.T) {
	sheet := NewCompiledStylesheet()
	mode := sheet.Modes[QName{}]

	doc := NewDocument()
	x := NewElement("", "x", "")
	doc.Append(x)
	Reindex(doc, 0, nextDocID())

	var importedRan, importingRan bool
	imported := &TemplateRule{
		Pattern: namePattern("x"), Match: "x", Precedence: 0, AllModes: true,
		Body: instrFunc(func(ctx *TransformContext, out Sink) error {
			importedRan = true
			return nil
		}),
	}
	importing := &TemplateRule{
		Pattern: namePattern("x"), Match: "x", Precedence: 1, AllModes: true,
		Body: instrFunc(func(ctx *TransformContext, out Sink) error {
			importingRan = true
			return (&ApplyImports{}).Execute(ctx, out)
		}),
	}
	mode.AddRule(imported, ElementNode, "x", "")
	mode.AddRule(importing, ElementNode, "x", "")

	ctx := NewRootContext(doc, sheet)
	rule, _, err := mode.FindMatch(x, ctx)
	require.NoError(t, err)
	require.Same(t, importing, rule)

	invokeCtx := ctx.WithContextNode(x).WithXSLTCurrentNode(x).WithMode(QName{})
	out, root := newNodeBufferSink()
	require.NoError(t, invokeRule(invokeCtx, rule, nil, defaultExec, out))
	_ = root

	assert.True(t, importingRan)
	assert.True(t, importedRan, "apply-imports must dispatch to the lower-precedence rule")
}

func TestApplyTemplatesAppliesSelectedNodesInDocumentOrder(t *testing.T) {
	sheet := NewCompiledStylesheet()
	mode := sheet.Modes[QName{}]

	doc := NewDocument()
	root := NewElement("", "root", "")
	a := NewElement("", "a", "")
	b := NewElement("", "b", "")
	root.Append(a)
	root.Append(b)
	doc.Append(root)
	Reindex(doc, 0, nextDocID())

	var seen []string
	rule := &TemplateRule{
		Pattern: namePattern("a"), Match: "a", AllModes: true,
		Body: instrFunc(func(ctx *TransformContext, out Sink) error {
			seen = append(seen, "a@"+ctxPos(ctx))
			return nil
		}),
	}
	ruleB := &TemplateRule{
		Pattern: namePattern("b"), Match: "b", AllModes: true,
		Body: instrFunc(func(ctx *TransformContext, out Sink) error {
			seen = append(seen, "b@"+ctxPos(ctx))
			return nil
		}),
	}
	mode.AddRule(rule, ElementNode, "a", "")
	mode.AddRule(ruleB, ElementNode, "b", "")

	ctx := NewRootContext(doc, sheet).WithContextNode(root)
	apply := &ApplyTemplates{}
	out, _ := newNodeBufferSink()
	require.NoError(t, apply.Execute(ctx, out))

	assert.Equal(t, []string{"a@1", "b@2"}, seen)
}

func ctxPos(ctx *TransformContext) string {
	return string(rune('0' + ctx.Position()))
}

func TestForEachExecutesBodyPerItemWithoutTemplateMatching(t *testing.T) {
	sheet := NewCompiledStylesheet()
	doc := NewDocument()
	root := NewElement("", "root", "")
	a := NewElement("", "a", "")
	b := NewElement("", "b", "")
	root.Append(a)
	root.Append(b)
	doc.Append(root)
	Reindex(doc, 0, nextDocID())

	var count int
	forEach := &ForEach{
		Select: constExpr(FromNodeSet([]*Node{a, b})),
		Body: instrFunc(func(ctx *TransformContext, out Sink) error {
			count++
			return nil
		}),
	}
	ctx := NewRootContext(doc, sheet).WithContextNode(root)
	out, _ := newNodeBufferSink()
	require.NoError(t, forEach.Execute(ctx, out))
	assert.Equal(t, 2, count)
}

func TestNextMatchDispatchesToNextRankedRule(t *testing.T) {
	sheet := NewCompiledStylesheet()
	mode := sheet.Modes[QName{}]

	doc := NewDocument()
	x := NewElement("", "x", "")
	doc.Append(x)
	Reindex(doc, 0, nextDocID())

	var lowRan bool
	low := &TemplateRule{Pattern: namePattern("x"), Match: "x", Precedence: 0, Declaration: 0, AllModes: true, Body: instrFunc(func(*TransformContext, Sink) error { lowRan = true; return nil })}
	high := &TemplateRule{Pattern: namePattern("x"), Match: "x", Precedence: 0, Declaration: 1, AllModes: true, Body: instrFunc(func(ctx *TransformContext, out Sink) error {
		return (&NextMatch{}).Execute(ctx, out)
	})}
	mode.AddRule(low, ElementNode, "x", "")
	mode.AddRule(high, ElementNode, "x", "")

	ctx := NewRootContext(doc, sheet)
	rule, _, err := mode.FindMatch(x, ctx)
	require.NoError(t, err)
	require.Same(t, high, rule, "later declaration wins an exact priority/precedence tie")

	invokeCtx := ctx.WithContextNode(x).WithXSLTCurrentNode(x).WithMode(QName{})
	out, _ := newNodeBufferSink()
	require.NoError(t, invokeRule(invokeCtx, rule, nil, defaultExec, out))
	assert.True(t, lowRan, "next-match must fall through to the next-ranked candidate")
}
