package main

import (
	"os"
	"path/filepath"

	"github.com/arturoeanton/go-xslt/xslt"
)

// fileDocumentProvider resolves xsl:source-document hrefs against the
// local filesystem, relative to baseDir when the href is not already
// absolute. It always returns a fully materialized tree — see
// xslt/document.go's DocumentProvider doc comment on why true streaming
// parse is out of scope.
type fileDocumentProvider struct {
	baseDir string
}

func (p fileDocumentProvider) Open(href, baseURI string, streamable bool) (*xslt.Node, error) {
	path := href
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return xslt.ParseDocument(f, path)
}

// fileResultDestination opens xsl:result-document hrefs as files
// relative to baseDir, serializing through xslt.XMLSerializer.
type fileResultDestination struct {
	baseDir string
}

func (d fileResultDestination) Create(href string, props *xslt.OutputProperties) (xslt.Sink, func() error, error) {
	path := href
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.baseDir, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	sink := xslt.NewPipeline(xslt.NewXMLSerializer(f, props))
	return sink, f.Close, nil
}
