// Package numbering implements the numbering-pattern engine spec.md §8's
// testable property names directly ("applying pattern \"1.a\" to (3, 2)
// yields \"3.b\"") and which K (flow layout) consumes for heading/figure/
// page counters, grounded on original_source
// crates/typst/src/model/numbering.rs's NumberingPattern/NumberingKind.
// Only the Arabic/Letter/Roman/Symbol kinds are implemented; the CJK
// counting-symbol kinds the original also supports are not (see
// DESIGN.md's numbering entry).
package numbering

import (
	"strings"
	"unicode"
)

// Kind is the closed set of counting-symbol kinds this module supports.
type Kind uint8

const (
	KindArabic Kind = iota
	KindLetter
	KindRoman
	KindSymbol
)

func kindFromChar(c rune) (Kind, bool) {
	switch unicode.ToLower(c) {
	case '1':
		return KindArabic, true
	case 'a':
		return KindLetter, true
	case 'i':
		return KindRoman, true
	case '*':
		return KindSymbol, true
	default:
		return 0, false
	}
}

// Case selects upper/lower rendering for letter- and roman-numeral
// pieces; Arabic and Symbol ignore it.
type Case uint8

const (
	CaseLower Case = iota
	CaseUpper
)

// piece is one prefix+counting-symbol segment of a parsed pattern.
type piece struct {
	prefix string
	kind   Kind
	cas    Case
}

// Pattern is a parsed numbering pattern string, e.g. "1.a.i" or "(I)".
type Pattern struct {
	pieces  []piece
	suffix  string
	trimmed bool
}

// Parse parses a pattern string into prefix/kind/case pieces plus a
// trailing suffix (original_source's `NumberingPattern::from_str`).
// An empty or counting-symbol-free pattern is an error.
func Parse(pattern string) (*Pattern, error) {
	var pieces []piece
	handled := 0
	runes := []rune(pattern)
	byteOffset := 0
	for _, c := range runes {
		clen := len(string(c))
		if kind, ok := kindFromChar(c); ok {
			prefix := pattern[handled:byteOffset]
			cas := CaseLower
			if unicode.IsUpper(c) {
				cas = CaseUpper
			}
			pieces = append(pieces, piece{prefix: prefix, kind: kind, cas: cas})
			handled = byteOffset + clen
		}
		byteOffset += clen
	}
	if len(pieces) == 0 {
		return nil, &InvalidPatternError{Pattern: pattern}
	}
	return &Pattern{pieces: pieces, suffix: pattern[handled:]}, nil
}

// InvalidPatternError reports a pattern string with no counting symbol.
type InvalidPatternError struct{ Pattern string }

func (e *InvalidPatternError) Error() string {
	return "numbering: invalid pattern " + e.Pattern + ": no counting symbol"
}

// Trimmed returns a copy of p with the leading prefix of its first piece
// and trailing suffix omitted, used when a caller wants just the bare
// counted value (e.g. a `numbering.apply_kth`-style single-segment use).
func (p *Pattern) Trimmed() *Pattern {
	cp := *p
	cp.trimmed = true
	return &cp
}

// Pieces reports how many counting symbols this pattern has.
func (p *Pattern) Pieces() int { return len(p.pieces) }

// Apply formats numbers according to the pattern (spec.md §8): each
// number consumes one piece in order; once pieces are exhausted, the
// last piece's prefix and kind are repeated for any remaining numbers
// (when that prefix is empty, the suffix is written in its place).
func (p *Pattern) Apply(numbers ...int) string {
	var b strings.Builder
	n := len(p.pieces)
	for i, num := range numbers {
		pc := p.pieces[min(i, n-1)]
		if i < n {
			if i > 0 || !p.trimmed {
				b.WriteString(pc.prefix)
			}
		} else if pc.prefix == "" {
			b.WriteString(p.suffix)
		} else {
			b.WriteString(pc.prefix)
		}
		b.WriteString(applyKind(pc.kind, num, pc.cas))
	}
	if !p.trimmed {
		b.WriteString(p.suffix)
	}
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// String reconstructs the pattern text this Pattern was parsed from.
func (p *Pattern) String() string {
	var b strings.Builder
	for _, pc := range p.pieces {
		b.WriteString(pc.prefix)
		c := kindChar(pc.kind)
		if pc.cas == CaseUpper {
			c = unicode.ToUpper(c)
		}
		b.WriteRune(c)
	}
	b.WriteString(p.suffix)
	return b.String()
}

func kindChar(k Kind) rune {
	switch k {
	case KindArabic:
		return '1'
	case KindLetter:
		return 'a'
	case KindRoman:
		return 'i'
	case KindSymbol:
		return '*'
	default:
		return '1'
	}
}

func applyKind(k Kind, n int, cas Case) string {
	switch k {
	case KindArabic:
		return arabic(n)
	case KindLetter:
		return letter(n, cas)
	case KindRoman:
		return roman(n, cas)
	case KindSymbol:
		return symbol(n)
	default:
		return arabic(n)
	}
}

func arabic(n int) string {
	return itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// letter is zero-less base-26 ("a".."z", "aa".."az", ...), matching
// original_source's `zeroless::<26>` helper.
func letter(n int, cas Case) string {
	return zeroless(n, 26, func(x int) rune {
		base := rune('a')
		if cas == CaseUpper {
			base = 'A'
		}
		return base + rune(x)
	})
}

// zeroless renders n (1-based) in a base-`base` bijective numeral system
// with no zero digit, e.g. base 26 for spreadsheet-style column letters.
func zeroless(n, base int, digit func(int) rune) string {
	if n <= 0 {
		return ""
	}
	var runes []rune
	for n > 0 {
		n--
		runes = append([]rune{digit(n % base)}, runes...)
		n /= base
	}
	return string(runes)
}

var romanTable = []struct {
	name  string
	value int
}{
	{"M", 1000}, {"CM", 900}, {"D", 500}, {"CD", 400},
	{"C", 100}, {"XC", 90}, {"L", 50}, {"XL", 40},
	{"X", 10}, {"IX", 9}, {"V", 5}, {"IV", 4}, {"I", 1},
}

func roman(n int, cas Case) string {
	if n <= 0 {
		return "N"
	}
	var b strings.Builder
	for _, e := range romanTable {
		for n >= e.value {
			n -= e.value
			b.WriteString(e.name)
		}
	}
	s := b.String()
	if cas == CaseLower {
		return strings.ToLower(s)
	}
	return s
}

// symbolGlyphs is the wrap-around sequence spec.md §8's "applying '*' to
// 7 yields '**'" example draws from.
var symbolGlyphs = []rune{'*', '†', '‡', '§', '¶', '‖'}

func symbol(n int) string {
	if n <= 0 {
		return "-"
	}
	idx := (n - 1) % len(symbolGlyphs)
	amount := (n-1)/len(symbolGlyphs) + 1
	return strings.Repeat(string(symbolGlyphs[idx]), amount)
}
