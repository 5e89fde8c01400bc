package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-showif/pkg/visibility"
)

var (
	// ErrSyntax wraps every malformed rule text.
	ErrSyntax = errors.New("visibility/expr: syntax error")
	// ErrComposition is returned for &&, || and parentheses. A rule compares a
	// single field; combine rules on the host side instead.
	ErrComposition = errors.New("visibility/expr: boolean composition is not supported")
)

// Parse reads a single rule written as
//
//	enabled                      bool shorthand, shown when true
//	!enabled                     shown when false
//	count > 5                    kind inferred from the literals
//	ratio:float >= 0.5
//	mode:enum == Fast, "Slow"    enum matched by name
//	mode == #0, #2               enum matched by index
//
// Values are comma separated; equality comparisons match any of them while
// ordering comparisons use the first one. `[]` is an empty value list and
// requires an explicit kind (`count:int == []`).
func Parse(text string) (visibility.Rule, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return visibility.Rule{}, fmt.Errorf("%w: empty rule", ErrSyntax)
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return visibility.Rule{}, err
	}
	stream := &tokenStream{tokens: tokens}
	return parseRule(stream)
}

// MustParse is Parse for static rule text; it panics on error.
func MustParse(text string) visibility.Rule {
	rule, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return rule
}

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenString
	tokenOp
	tokenNot
	tokenColon
	tokenComma
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(' || ch == ')':
			return nil, fmt.Errorf("%w: unexpected %q", ErrComposition, string(ch))
		case ch == '&' || ch == '|':
			return nil, fmt.Errorf("%w: unexpected %q", ErrComposition, string(ch))
		case ch == ',':
			tokens = append(tokens, token{kind: tokenComma, raw: ","})
			i++
		case ch == ':':
			tokens = append(tokens, token{kind: tokenColon, raw: ":"})
			i++
		case ch == '!':
			if peek(1) == '=' {
				tokens = append(tokens, token{kind: tokenOp, raw: "!="})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case ch == '=':
			if peek(1) != '=' {
				return nil, fmt.Errorf("%w: unexpected '='; use '=='", ErrSyntax)
			}
			tokens = append(tokens, token{kind: tokenOp, raw: "=="})
			i += 2
		case ch == '>' || ch == '<':
			if peek(1) == '=' {
				tokens = append(tokens, token{kind: tokenOp, raw: string(ch) + "="})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokenOp, raw: string(ch)})
			i++
		case ch == '"' || ch == '\'':
			value, next, err := readQuoted(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = next
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenWord, raw: input[start:i]})
		}
	}

	return tokens, nil
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '!', '=', '&', '|', ',', ':', '<', '>', '"', '\'':
		return true
	default:
		return false
	}
}

// readQuoted consumes a quoted literal starting at input[start]. Double quotes
// follow Go escaping; single quotes only unescape \'.
func readQuoted(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[start+1 : i]
		if quote == '\'' {
			return strings.ReplaceAll(body, `\'`, `'`), i + 1, nil
		}
		value, err := strconv.Unquote(input[start : i+1])
		if err != nil {
			return "", 0, fmt.Errorf("%w: invalid string literal: %v", ErrSyntax, err)
		}
		return value, i + 1, nil
	}
	return "", 0, fmt.Errorf("%w: unterminated string literal", ErrSyntax)
}

type tokenStream struct {
	tokens []token
	pos    int
}

func (s *tokenStream) done() bool { return s.pos >= len(s.tokens) }

func (s *tokenStream) match(kind tokenKind) bool {
	if s.done() || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.done() || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) unexpected(want string) error {
	if s.done() {
		return fmt.Errorf("%w: expected %s at end of rule", ErrSyntax, want)
	}
	return fmt.Errorf("%w: expected %s, got %q", ErrSyntax, want, s.tokens[s.pos].raw)
}

func parseRule(s *tokenStream) (visibility.Rule, error) {
	if s.match(tokenNot) {
		field, ok := s.consume(tokenWord)
		if !ok {
			return visibility.Rule{}, s.unexpected("field name")
		}
		if !s.done() {
			return visibility.Rule{}, s.unexpected("end of rule")
		}
		return visibility.ShowIfBool(field.raw, false), nil
	}

	field, ok := s.consume(tokenWord)
	if !ok {
		return visibility.Rule{}, s.unexpected("field name")
	}
	if s.done() {
		return visibility.ShowIf(field.raw), nil
	}

	kind := visibility.KindUnknown
	if s.match(tokenColon) {
		word, ok := s.consume(tokenWord)
		if !ok {
			return visibility.Rule{}, s.unexpected("value kind")
		}
		parsed, err := visibility.ParseValueKind(word.raw)
		if err != nil {
			return visibility.Rule{}, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		kind = parsed
		if s.done() {
			if kind != visibility.KindBool {
				return visibility.Rule{}, s.unexpected("comparison")
			}
			return visibility.ShowIf(field.raw), nil
		}
	}

	op, ok := s.consume(tokenOp)
	if !ok {
		return visibility.Rule{}, s.unexpected("comparison")
	}
	comparison, err := visibility.ParseComparison(op.raw)
	if err != nil {
		return visibility.Rule{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	values, err := parseValues(s)
	if err != nil {
		return visibility.Rule{}, err
	}

	expected, kind, err := buildExpected(kind, values)
	if err != nil {
		return visibility.Rule{}, fmt.Errorf("%w: field %q: %v", ErrSyntax, field.raw, err)
	}
	return visibility.NewRule(field.raw, kind, comparison, expected), nil
}

type literalKind int

const (
	litBool literalKind = iota
	litInt
	litFloat
	litText
	litIndex
)

type literal struct {
	kind   literalKind
	text   string
	quoted bool
	b      bool
	i      int64
	f      float64
}

// emptyList is the value list of a rule that carries no expected values.
const emptyList = "[]"

func parseValues(s *tokenStream) ([]literal, error) {
	if !s.done() && s.tokens[s.pos].kind == tokenWord && s.tokens[s.pos].raw == emptyList {
		s.pos++
		if !s.done() {
			return nil, s.unexpected("end of rule")
		}
		return []literal{}, nil
	}

	var values []literal
	for {
		if s.done() {
			return nil, s.unexpected("value")
		}
		tok := s.tokens[s.pos]
		switch tok.kind {
		case tokenString:
			values = append(values, literal{kind: litText, text: tok.raw, quoted: true})
		case tokenWord:
			lit, err := classify(tok.raw)
			if err != nil {
				return nil, err
			}
			values = append(values, lit)
		default:
			return nil, s.unexpected("value")
		}
		s.pos++
		if s.done() {
			return values, nil
		}
		if !s.match(tokenComma) {
			return nil, s.unexpected("',' or end of rule")
		}
	}
}

func classify(raw string) (literal, error) {
	lit := literal{kind: litText, text: raw}
	switch strings.ToLower(raw) {
	case "true":
		lit.kind, lit.b = litBool, true
		return lit, nil
	case "false":
		lit.kind, lit.b = litBool, false
		return lit, nil
	}
	if strings.HasPrefix(raw, "#") {
		idx, err := strconv.ParseInt(raw[1:], 10, 64)
		if err != nil || idx < 0 {
			return literal{}, fmt.Errorf("%w: invalid enum index %q", ErrSyntax, raw)
		}
		lit.kind, lit.i = litIndex, idx
		return lit, nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		lit.kind, lit.i, lit.f = litInt, i, float64(i)
		return lit, nil
	}
	if looksLikeNumber(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			lit.kind, lit.f = litFloat, f
		}
	}
	return lit, nil
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+' || ch == '.'
}

func buildExpected(kind visibility.ValueKind, values []literal) (visibility.ExpectedSet, visibility.ValueKind, error) {
	if kind == visibility.KindUnknown {
		if len(values) == 0 {
			return visibility.ExpectedSet{}, kind, errors.New("an empty value list needs an explicit kind")
		}
		kind = inferKind(values)
	}

	switch kind {
	case visibility.KindBool:
		out := make([]bool, 0, len(values))
		for _, v := range values {
			if v.kind != litBool || v.quoted {
				return visibility.ExpectedSet{}, kind, fmt.Errorf("%q is not a bool", v.text)
			}
			out = append(out, v.b)
		}
		return visibility.Bools(out...), kind, nil
	case visibility.KindInt:
		out := make([]int64, 0, len(values))
		for _, v := range values {
			if v.kind != litInt || v.quoted {
				return visibility.ExpectedSet{}, kind, fmt.Errorf("%q is not an int", v.text)
			}
			out = append(out, v.i)
		}
		return visibility.Ints(out...), kind, nil
	case visibility.KindFloat:
		out := make([]float64, 0, len(values))
		for _, v := range values {
			if (v.kind != litInt && v.kind != litFloat) || v.quoted {
				return visibility.ExpectedSet{}, kind, fmt.Errorf("%q is not a number", v.text)
			}
			out = append(out, v.f)
		}
		return visibility.Floats(out...), kind, nil
	case visibility.KindString:
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, v.text)
		}
		return visibility.Strings(out...), kind, nil
	case visibility.KindEnum:
		indices := make([]int, 0, len(values))
		names := make([]string, 0, len(values))
		for _, v := range values {
			if v.kind == litIndex && !v.quoted {
				indices = append(indices, int(v.i))
				continue
			}
			names = append(names, v.text)
		}
		if len(indices) > 0 && len(names) > 0 {
			return visibility.ExpectedSet{}, kind, errors.New("enum names and indices cannot be mixed")
		}
		if len(indices) > 0 {
			return visibility.EnumIndices(indices...), kind, nil
		}
		return visibility.EnumNames(names...), kind, nil
	default:
		return visibility.ExpectedSet{}, kind, fmt.Errorf("unsupported kind %s", kind)
	}
}

// inferKind picks the narrowest kind every literal fits. Quoted or bare text
// falls back to string.
func inferKind(values []literal) visibility.ValueKind {
	counts := map[literalKind]int{}
	for _, v := range values {
		if v.quoted {
			return visibility.KindString
		}
		counts[v.kind]++
	}
	switch {
	case counts[litBool] == len(values):
		return visibility.KindBool
	case counts[litIndex] == len(values):
		return visibility.KindEnum
	case counts[litInt] == len(values):
		return visibility.KindInt
	case counts[litInt]+counts[litFloat] == len(values):
		return visibility.KindFloat
	default:
		return visibility.KindString
	}
}
