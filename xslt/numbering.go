package xslt

import "strings"

// ============================================================================
// xsl:number FORMATTING
// ============================================================================
//
// No pack repo formats sequence numbers, so this is built directly
// against spec.md's numbered list of supported format tokens: decimal
// ("1"), alphabetic ("a"/"A"), and Roman ("i"/"I"), each applied
// per-component before grouping-separator insertion.

// NumberFormatToken selects one component's rendering within an
// xsl:number format string (spec.md's simplified subset — ordinal
// suffixes and non-Latin numbering systems are out of scope).
type NumberFormatToken uint8

const (
	FormatDecimal NumberFormatToken = iota
	FormatAlphaLower
	FormatAlphaUpper
	FormatRomanLower
	FormatRomanUpper
)

// NumberFormat is a compiled xsl:number "format" attribute: a sequence of
// (separator, token) pairs, e.g. "1.1.1" -> [{"", Decimal}, {".", Decimal}, {".", Decimal}].
type NumberFormat struct {
	Tokens     []NumberFormatToken
	Separators []string // Separators[i] precedes Tokens[i]; Separators[0] is usually ""
	GroupSize  int       // grouping-separator digit count, 0 = no grouping
	GroupSep   string
}

// DefaultNumberFormat is "1" repeated with "." separators, the default
// when no format attribute is given for a multi-level number.
func DefaultNumberFormat() NumberFormat {
	return NumberFormat{Tokens: []NumberFormatToken{FormatDecimal}, Separators: []string{""}}
}

// FormatNumbers renders a list of level values (most significant first)
// according to fmt, cycling its token list if there are more values than
// tokens (per spec.md's level="multiple" behavior).
func FormatNumbers(values []int, format NumberFormat) (string, error) {
	if len(format.Tokens) == 0 {
		format = DefaultNumberFormat()
	}
	var b strings.Builder
	for i, v := range values {
		if v < 0 {
			return "", NewError(XTDE0980, "xsl:number: negative value %d", v)
		}
		tok := format.Tokens[i%len(format.Tokens)]
		sep := ""
		if i < len(format.Separators) {
			sep = format.Separators[i%len(format.Separators)]
		} else if i > 0 {
			sep = "."
		}
		b.WriteString(sep)
		rendered, err := formatOne(v, tok)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}

func formatOne(v int, tok NumberFormatToken) (string, error) {
	switch tok {
	case FormatDecimal:
		return formatDecimal(v), nil
	case FormatAlphaLower:
		return formatAlpha(v, "abcdefghijklmnopqrstuvwxyz"), nil
	case FormatAlphaUpper:
		return formatAlpha(v, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"), nil
	case FormatRomanLower:
		return strings.ToLower(formatRoman(v)), nil
	case FormatRomanUpper:
		return formatRoman(v), nil
	default:
		return formatDecimal(v), nil
	}
}

func formatDecimal(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// formatAlpha renders v (1-based) as a bijective base-26 numeral over
// alphabet, the scheme xsl:number's "a"/"A" tokens use: 1="a", 26="z",
// 27="aa".
func formatAlpha(v int, alphabet string) string {
	if v <= 0 {
		return formatDecimal(v)
	}
	var out []byte
	for v > 0 {
		v--
		out = append([]byte{alphabet[v%26]}, out...)
		v /= 26
	}
	return string(out)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// formatRoman renders v as an uppercase Roman numeral; values outside the
// classical 1..3999 range fall back to decimal (spec.md's "Roman falls
// back to decimal for values it cannot represent").
func formatRoman(v int) string {
	if v <= 0 || v > 3999 {
		return formatDecimal(v)
	}
	var b strings.Builder
	for _, e := range romanTable {
		for v >= e.value {
			b.WriteString(e.symbol)
			v -= e.value
		}
	}
	return b.String()
}
