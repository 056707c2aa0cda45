package xslt

// ============================================================================
// SECONDARY DOCUMENT GATEWAY
// ============================================================================
//
// URI resolution and file/network I/O are out of core scope (spec.md
// section 1's "CLI/URI-resolution/file-I/O glue"), the same way expression
// compilation and schema validation are: the core calls through a narrow
// facade and never opens anything itself. Grounded on the same shape as
// ExprEval (expreval.go) and SchemaValidator (schema.go) — a single
// interface the core depends on, implemented by the command-line driver.

// DocumentProvider resolves source-document/document() secondary inputs.
// The streamable hint (spec.md section 4.4's source-document) only
// affects whether the provider is allowed to discard the tree after the
// driving body finishes; this core always receives a materialized node,
// since true event-driven parsing is explicitly out of scope beyond the
// coarse Streaming() classification (SPEC_FULL.md section 12).
type DocumentProvider interface {
	// Open retrieves and parses href (resolved against baseURI) into a
	// node tree rooted at a document node. Empty/invalid href is the
	// provider's responsibility to report as FODC0002.
	Open(href, baseURI string, streamable bool) (*Node, error)
}

// ResultDestination opens secondary output sinks for xsl:result-document,
// keyed by the evaluated href and configured per the merged output
// properties. Close finalizes and releases the underlying resource.
type ResultDestination interface {
	Create(href string, props *OutputProperties) (sink Sink, close func() error, err error)
}

// noDocumentProvider is the default when a transform is constructed
// without secondary-document support configured; every source-document/
// document() call fails cleanly rather than panicking on a nil interface.
type noDocumentProvider struct{}

func (noDocumentProvider) Open(href, baseURI string, streamable bool) (*Node, error) {
	return nil, NewError(FODC0002, "no document provider configured for %q", href)
}

type noResultDestination struct{}

func (noResultDestination) Create(href string, props *OutputProperties) (Sink, func() error, error) {
	return nil, nil, NewError(FODC0002, "no result destination configured for %q", href)
}
