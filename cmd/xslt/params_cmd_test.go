package main

import "testing"

func TestSplitParamFlag(t *testing.T) {
	cases := []struct {
		in         string
		name, val  string
		ok         bool
	}{
		{"name=value", "name", "value", true},
		{"name=", "name", "", true},
		{"name=a=b", "name", "a=b", true},
		{"novalue", "", "", false},
		{"=value", "", "", false},
	}
	for _, c := range cases {
		name, val, ok := splitParamFlag(c.in)
		if ok != c.ok || name != c.name || val != c.val {
			t.Errorf("splitParamFlag(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.in, name, val, ok, c.name, c.val, c.ok)
		}
	}
}

func TestParseParamFlagsRejectsMalformedEntry(t *testing.T) {
	if _, err := parseParamFlags([]string{"novalue"}); err == nil {
		t.Fatalf("expected an error for a --param with no '='")
	}
}

func TestParseParamFlagsRejectsDuplicateName(t *testing.T) {
	if _, err := parseParamFlags([]string{"x=1", "x=2"}); err == nil {
		t.Fatalf("expected an error for a duplicate --param name")
	}
}

func TestParseParamFlagsOK(t *testing.T) {
	got, err := parseParamFlags([]string{"a=1", "b=2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected result: %#v", got)
	}
}
