package main

import (
	"testing"

	"github.com/arturoeanton/go-xslt/xslt"
)

func TestParseQNameFlag(t *testing.T) {
	if got := parseQNameFlag(""); got != (xslt.QName{}) {
		t.Errorf("expected empty QName for an empty flag, got %#v", got)
	}
	if got := parseQNameFlag("local"); got != (xslt.QName{Local: "local"}) {
		t.Errorf("expected no-namespace QName, got %#v", got)
	}
	want := xslt.QName{URI: "urn:example", Local: "tmpl"}
	if got := parseQNameFlag("{urn:example}tmpl"); got != want {
		t.Errorf("parseQNameFlag(Clark notation) = %#v, want %#v", got, want)
	}
}

func TestParseRecoveryMode(t *testing.T) {
	cases := map[string]xslt.RecoveryMode{
		"strict":      xslt.RecoveryStrict,
		"silent":      xslt.RecoverySilent,
		"recover":     xslt.RecoveryRecover,
		"unspecified": xslt.RecoveryRecover,
	}
	for in, want := range cases {
		if got := parseRecoveryMode(in); got != want {
			t.Errorf("parseRecoveryMode(%q) = %v, want %v", in, got, want)
		}
	}
}
