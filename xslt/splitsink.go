package xslt

// ============================================================================
// ON-EMPTY / ON-NON-EMPTY SPLITTING SINK
// ============================================================================
//
// Implements the Sequence instruction's two-phase on-empty/on-non-empty
// mode (spec.md section 4.4): "phase 1 executes children into splitting
// sinks that forward attributes/namespaces immediately to the parent
// but buffer content; phase 2 replays conditional segments only when the
// content-non-empty predicate matches. Content is non-empty iff any
// attribute/namespace was produced or any buffer is non-empty." Content
// other than attributes/namespaces is captured into a node tree (the
// same buffering shape rtf.go already uses for result tree fragments)
// so it can be replayed into the real sink exactly once, only after the
// emptiness verdict is known.

type splittingSink struct {
	*Pipeline
	build *nodeBuildEmitter
	root  *Node

	parent      Sink
	sawAttrOrNS bool
}

func newSplittingSink(parent Sink) *splittingSink {
	root := NewDocument()
	b := &nodeBuildEmitter{current: root}
	return &splittingSink{
		Pipeline: NewPipeline(b),
		build:    b,
		root:     root,
		parent:   parent,
	}
}

// Attribute and Namespace bypass this sink's own buffering pipeline
// entirely and forward straight to the enclosing sink, since they must
// attach to whatever element the enclosing sink currently has pending.
func (s *splittingSink) Attribute(uri, local, qname, value string) error {
	s.sawAttrOrNS = true
	return s.parent.Attribute(uri, local, qname, value)
}

func (s *splittingSink) Namespace(prefix, uri string) error {
	s.sawAttrOrNS = true
	return s.parent.Namespace(prefix, uri)
}

// nonEmpty reports whether content produced by this sink should count
// as non-empty for the purpose of on-empty/on-non-empty selection.
func (s *splittingSink) nonEmpty() bool {
	return s.sawAttrOrNS || s.root.FirstChild != nil
}

// replay streams every buffered content event into out, in the order it
// was originally produced.
func (s *splittingSink) replay(out Sink) error {
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		if err := replayNode(c, out, false); err != nil {
			return err
		}
	}
	return nil
}
