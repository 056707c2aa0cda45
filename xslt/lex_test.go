package xslt

import (
	"strings"
	"testing"
)

func TestParseDocumentBasicTree(t *testing.T) {
	src := `<root a="1"><child>text</child><!--note--></root>`
	root, err := ParseDocument(strings.NewReader(src), "file:///test.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != RootNode {
		t.Fatalf("expected root node, got %v", root.Kind)
	}
	el := root.FirstChild
	if el == nil || el.Kind != ElementNode || el.Local != "root" {
		t.Fatalf("expected <root> element child, got %#v", el)
	}
	if len(el.Attr) != 1 || el.Attr[0].Local != "a" || el.Attr[0].Data != "1" {
		t.Fatalf("expected attribute a=\"1\", got %#v", el.Attr)
	}
	child := el.FirstChild
	if child == nil || child.Kind != ElementNode || child.Local != "child" {
		t.Fatalf("expected <child> element, got %#v", child)
	}
	if child.StringValue() != "text" {
		t.Errorf("expected string-value %q, got %q", "text", child.StringValue())
	}
	comment := child.NextSibling
	if comment == nil || comment.Kind != CommentNode || comment.Data != "note" {
		t.Fatalf("expected comment node, got %#v", comment)
	}
}

func TestParseDocumentNamespaceDeclarationsSplitFromAttributes(t *testing.T) {
	src := `<root xmlns="urn:default" xmlns:h="urn:html" h:id="x"/>`
	root, err := ParseDocument(strings.NewReader(src), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := root.FirstChild
	if el.Space != "urn:default" {
		t.Errorf("expected default namespace urn:default, got %q", el.Space)
	}
	if len(el.NSDecl) != 2 {
		t.Fatalf("expected 2 namespace declarations, got %d", len(el.NSDecl))
	}
	if len(el.Attr) != 1 || el.Attr[0].Space != "urn:html" || el.Attr[0].Local != "id" {
		t.Fatalf("expected one non-xmlns attribute h:id, got %#v", el.Attr)
	}
}

func TestParseDocumentAssignsDistinctDocumentOrder(t *testing.T) {
	root, err := ParseDocument(strings.NewReader(`<a><b/><c/></a>`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := root.FirstChild
	b := a.FirstChild
	c := b.NextSibling
	if !(root.DocumentOrder() < a.DocumentOrder() && a.DocumentOrder() < b.DocumentOrder() && b.DocumentOrder() < c.DocumentOrder()) {
		t.Fatalf("expected strictly increasing document order, got root=%d a=%d b=%d c=%d",
			root.DocumentOrder(), a.DocumentOrder(), b.DocumentOrder(), c.DocumentOrder())
	}
}

func TestParseDocumentDistinctDocIDsAcrossParses(t *testing.T) {
	r1, err := ParseDocument(strings.NewReader(`<a/>`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := ParseDocument(strings.NewReader(`<a/>`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if SameDocument(r1, r2) {
		t.Errorf("expected distinct parses to report SameDocument=false")
	}
	if !SameDocument(r1, r1.FirstChild) {
		t.Errorf("expected nodes from the same parse to report SameDocument=true")
	}
}
