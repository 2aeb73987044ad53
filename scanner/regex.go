package scanner

import (
	"fmt"
	"regexp"

	"github.com/ordoparse/ordo"
)

// --- Errors -----------------------------------------------------------------

// PatternError signals that a lexicon or whitespace pattern did not compile
// as a regular expression. It is returned by NewRegexTokenizer, before any
// text is scanned.
type PatternError struct {
	Pattern string // the offending pattern string
	Err     error  // the underlying regexp compile error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("cannot compile token pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// noMatchPrefixLen bounds the diagnostic prefix carried by a NoMatchError.
const noMatchPrefixLen = 10

// NoMatchError signals that neither a token pattern nor a whitespace pattern
// matched at the current input position. Prefix holds a bounded portion of
// the unmatched remainder.
type NoMatchError struct {
	Pos    int    // byte offset of the unmatched position
	Prefix string // start of the unmatched remainder, at most noMatchPrefixLen runes
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no token pattern matches input at byte %d: %q", e.Pos, e.Prefix)
}

// --- Regex tokenizer --------------------------------------------------------

// Pattern pairs a token type with a regular-expression pattern string.
// Patterns are always matched anchored at the current input position.
type Pattern struct {
	Type ordo.TokType
	Expr string
}

type tokenPattern struct {
	typ ordo.TokType
	re  *regexp.Regexp
}

// RegexTokenizer matches an ordered lexicon of regular-expression patterns.
// Matching is first-declared-pattern-wins, not longest match: callers must
// order more specific patterns (multi-character operators, reserved words)
// before more general ones (identifiers), or tokenization will silently
// produce the wrong token type.
//
// A RegexTokenizer is immutable after construction and may be shared freely
// between goroutines.
type RegexTokenizer struct {
	patterns   []tokenPattern
	whitespace []*regexp.Regexp
}

// NewRegexTokenizer compiles an ordered lexicon and an ordered list of
// whitespace patterns. The first pattern that fails to compile aborts
// construction with a *PatternError.
func NewRegexTokenizer(lexicon []Pattern, whitespace []string) (*RegexTokenizer, error) {
	t := &RegexTokenizer{
		patterns: make([]tokenPattern, 0, len(lexicon)),
	}
	for _, p := range lexicon {
		re, err := regexp.Compile(anchor(p.Expr))
		if err != nil {
			return nil, &PatternError{Pattern: p.Expr, Err: err}
		}
		t.patterns = append(t.patterns, tokenPattern{typ: p.Type, re: re})
	}
	for _, w := range whitespace {
		re, err := regexp.Compile(anchor(w))
		if err != nil {
			return nil, &PatternError{Pattern: w, Err: err}
		}
		t.whitespace = append(t.whitespace, re)
	}
	return t, nil
}

// anchor pins a pattern to the start of the remaining input. The non-capturing
// group protects patterns containing top-level alternation.
func anchor(expr string) string {
	return "^(?:" + expr + ")"
}

// Tokenize converts input into a token sequence. It fails with a
// *NoMatchError when no token pattern and no whitespace pattern matches at
// the current position. The result carries no end-of-input sentinel; the
// parser appends its own.
//
// For fixed (lexicon, whitespace, input), Tokenize always returns the
// identical sequence.
func (t *RegexTokenizer) Tokenize(input string) ([]ordo.Token, error) {
	var tokens []ordo.Token
	pos := 0
	for pos < len(input) {
		pos = t.skipWhitespace(input, pos)
		if pos >= len(input) {
			break
		}
		token, next, err := t.match(input, pos)
		if err != nil {
			return nil, err
		}
		tracer().Debugf("token %d|%q @%d", token.TokType(), token.Lexeme(), pos)
		tokens = append(tokens, token)
		pos = next
	}
	return tokens, nil
}

// skipWhitespace tries each whitespace pattern in declared order and restarts
// from the first pattern after every successful skip: consuming one
// whitespace region may expose a position matched by an earlier pattern that
// did not match before.
func (t *RegexTokenizer) skipWhitespace(input string, pos int) int {
	for {
		skipped := false
		for _, re := range t.whitespace {
			loc := re.FindStringIndex(input[pos:])
			if loc != nil && loc[1] > 0 { // a zero-length match cannot advance the scan
				pos += loc[1]
				skipped = true
				break
			}
		}
		if !skipped {
			return pos
		}
	}
}

// match attempts every token pattern in declared order, anchored at pos, and
// takes the first (not the longest) match.
func (t *RegexTokenizer) match(input string, pos int) (ordo.Token, int, error) {
	for _, p := range t.patterns {
		loc := p.re.FindStringIndex(input[pos:])
		if loc == nil || loc[1] == 0 { // a zero-length match cannot advance the scan
			continue
		}
		lexeme := input[pos : pos+loc[1]]
		span := ordo.Span{uint64(pos), uint64(pos + loc[1])}
		return MakeToken(p.typ, lexeme, span), pos + loc[1], nil
	}
	return nil, pos, &NoMatchError{Pos: pos, Prefix: prefix(input[pos:])}
}

func prefix(rest string) string {
	runes := []rune(rest)
	if len(runes) > noMatchPrefixLen {
		runes = runes[:noMatchPrefixLen]
	}
	return string(runes)
}

// --- Streaming adapter ------------------------------------------------------

// Scanner returns a streaming view on input, implementing the Tokenizer
// interface. Lexical errors are reported through the error handler; the
// scan then stops and an EOF token is returned.
func (t *RegexTokenizer) Scanner(input string) *RexScanner {
	return &RexScanner{
		tokenizer: t,
		input:     input,
		Error:     logError,
	}
}

// RexScanner is a streaming scanner over a single input string, backed by a
// RegexTokenizer. Create one with RegexTokenizer.Scanner.
type RexScanner struct {
	tokenizer *RegexTokenizer
	input     string
	pos       int
	failed    bool
	Error     func(error) // error handler
}

var _ Tokenizer = (*RexScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (s *RexScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		s.Error = logError
		return
	}
	s.Error = h
}

// NextToken is part of the Tokenizer interface.
func (s *RexScanner) NextToken() ordo.Token {
	if s.failed {
		return s.eof()
	}
	s.pos = s.tokenizer.skipWhitespace(s.input, s.pos)
	if s.pos >= len(s.input) {
		tracer().Debugf("regex scanner reached end of input")
		return s.eof()
	}
	token, next, err := s.tokenizer.match(s.input, s.pos)
	if err != nil {
		s.failed = true
		s.Error(err)
		return s.eof()
	}
	s.pos = next
	return token
}

func (s *RexScanner) eof() ordo.Token {
	p := uint64(s.pos)
	return MakeToken(ordo.EOF, "", ordo.Span{p, p})
}
