package xslt

import (
	"bytes"
	"strings"
	"testing"
)

func runToString(t *testing.T, src string, opts ...RunOption) string {
	t.Helper()
	root, err := ParseDocument(strings.NewReader(src), "")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	sheet := NewCompiledStylesheet()
	var buf bytes.Buffer
	sink := NewPipeline(NewXMLSerializer(&buf, sheet.GetOutput("")))
	if err := Transform(sheet, root, QName{}, nil, sink, opts...); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return buf.String()
}

func TestTransformBuiltInDefaultModeCopiesText(t *testing.T) {
	got := runToString(t, `<root>hello <b>world</b></root>`)
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Fatalf("expected built-in default-mode fallback to copy all text, got %q", got)
	}
}

func TestTransformBuiltInDefaultModeSkipsComments(t *testing.T) {
	got := runToString(t, `<root><!--note-->kept</root>`)
	if strings.Contains(got, "note") {
		t.Errorf("expected comment to be skipped by the built-in fallback, got %q", got)
	}
	if !strings.Contains(got, "kept") {
		t.Errorf("expected sibling text to survive, got %q", got)
	}
}

func TestTransformInitialTemplateNotFoundErrors(t *testing.T) {
	root, err := ParseDocument(strings.NewReader(`<root/>`), "")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	sheet := NewCompiledStylesheet()
	var buf bytes.Buffer
	sink := NewPipeline(NewXMLSerializer(&buf, sheet.GetOutput("")))
	err = Transform(sheet, root, QName{Local: "missing"}, nil, sink)
	if err == nil {
		t.Fatalf("expected an error for a named initial template that was never declared")
	}
}

func TestTransformRequiredGlobalParamMustBeSupplied(t *testing.T) {
	root, err := ParseDocument(strings.NewReader(`<root/>`), "")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	sheet := NewCompiledStylesheet()
	sheet.GlobalParams = append(sheet.GlobalParams, &ParamDecl{
		Name:     QName{Local: "mustHave"},
		Required: true,
	})
	var buf bytes.Buffer
	sink := NewPipeline(NewXMLSerializer(&buf, sheet.GetOutput("")))

	if err := Transform(sheet, root, QName{}, nil, sink); err == nil {
		t.Fatalf("expected an error when a required global parameter is not supplied")
	}

	buf.Reset()
	supplied := []InitialParam{{Name: QName{Local: "mustHave"}, Value: FromString("x")}}
	if err := Transform(sheet, root, QName{}, supplied, sink); err != nil {
		t.Fatalf("unexpected error once the required parameter is supplied: %v", err)
	}
}
