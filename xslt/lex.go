package xslt

import (
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
)

// ============================================================================
// SOURCE DOCUMENT PARSING
// ============================================================================
//
// ParseDocument builds a *Node tree from raw XML the same way xml.go's
// MapXML does: a single encoding/xml.Decoder token loop driving an explicit
// stack, one stack frame per open element. MapXML's stack holds *node
// (tagName + OrderedMap); this stack holds *Node directly since node.go's
// tree IS the target shape, so there is no intermediate map to build and
// no ForceArray/type-inference step to run. Namespace resolution is left to
// encoding/xml itself — the Decoder already resolves every Name.Space to
// its expanded URI, which is the same shortcut streaming_decoder.go takes
// by building all its behavior on top of encoding/xml's token stream
// rather than re-implementing namespace scoping.

// ParseDocument reads r and returns a document-root *Node with every
// element, attribute, text, comment and processing-instruction node
// assigned and document-order indexed, ready for axis navigation.
func ParseDocument(r io.Reader, baseURI string) (*Node, error) {
	dec := xml.NewDecoder(r)
	// Legacy, non-UTF-8 secondary documents (the teacher's xml.go has its
	// own latin1Reader for exactly this, reached via EnableLegacyCharsets)
	// are instead handled with golang.org/x/net/html/charset, the library
	// ucarion-c14n's own test suite wires into encoding/xml.Decoder the
	// same way, rather than a hand-rolled reader per encoding.
	dec.CharsetReader = charset.NewReaderLabel

	root := NewDocument()
	root.BaseURI = baseURI
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, WrapError(FODC0002, err, "parse document")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t.Name.Space, t.Name.Local, "")
			el.BaseURI = baseURI

			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					el.NSDecl = append(el.NSDecl, NewNamespace(a.Name.Local, a.Value))
					continue
				}
				if a.Name.Space == "" && a.Name.Local == "xmlns" {
					el.NSDecl = append(el.NSDecl, NewNamespace("", a.Value))
					continue
				}
				el.Attr = append(el.Attr, NewAttribute(a.Name.Space, a.Name.Local, "", a.Value))
			}
			for _, ns := range el.NSDecl {
				ns.Parent = el
			}
			for _, a := range el.Attr {
				a.Parent = el
			}

			stack[len(stack)-1].Append(el)
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			stack[len(stack)-1].Append(NewText(string(t)))

		case xml.Comment:
			stack[len(stack)-1].Append(NewComment(string(t)))

		case xml.ProcInst:
			stack[len(stack)-1].Append(NewProcInst(t.Target, string(t.Inst)))

		case xml.Directive:
			// DTD/other directives carry no XDM node representation; skipped
			// the same way MapXML's token switch only handles the kinds it
			// assigns meaning to and silently ignores the rest.
		}
	}

	Reindex(root, 0, nextDocID())
	return root, nil
}

var docIDCounter int64

// nextDocID hands out a fresh identifier for each parsed document so
// SameDocument can distinguish nodes from unrelated parses (spec.md
// section 3's "two nodes compare equal only if they denote the same
// underlying node" extends to document-order comparisons being undefined
// across documents).
func nextDocID() int64 {
	docIDCounter++
	return docIDCounter
}
