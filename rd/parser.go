/*
Package rd implements a backtracking recursive-descent parser with ordered
choice.

The parser expands nonterminals by trying their productions in grammar
declaration order and committing to the first alternative that matches.
Left-recursive productions are admissible: an exclusion set of production
body digests, scoped to the current derivation path, keeps a production from
being re-entered at the same input position. Consuming a token clears the
set, so recursion may resume once the parse has made progress.

Alternatives are abandoned only on the two parse failures, ErrSymbolNotFound
and ErrUnexpectedEnd. An error returned by a semantic reducer is final: the
parser is committed to the alternative whose reducer ran and will not fall
back to a later one.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 The ordo authors

*/
package rd

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/ordoparse/ordo"
	"github.com/ordoparse/ordo/grammar"
	"github.com/ordoparse/ordo/scanner"
)

// tracer traces with key 'ordo.parser'.
func tracer() tracing.Trace {
	return tracing.Select("ordo.parser")
}

// The two recoverable parse failures. Both make the parser abandon the
// current alternative and try the next one; use errors.Is to test for them
// on the error returned by Parse.
var (
	// ErrSymbolNotFound flags that no alternative matched at a position.
	ErrSymbolNotFound = errors.New("no grammar alternative matches")
	// ErrUnexpectedEnd flags that input ended while a production still
	// expected tokens.
	ErrUnexpectedEnd = errors.New("unexpected end of input")
)

// backtrackable tells whether an error makes the parser try the next
// alternative, as opposed to aborting the parse.
func backtrackable(err error) bool {
	return errors.Is(err, ErrSymbolNotFound) || errors.Is(err, ErrUnexpectedEnd)
}

// TokenValueFunc converts a matched token into the value handed to the
// reducers of the grammar. With a nil TokenValueFunc the parser passes the
// token's lexeme as a string.
type TokenValueFunc func(typ ordo.TokType, lexeme string) interface{}

// Parser is a backtracking ordered-choice parser for a fixed grammar.
// A Parser holds no parse state and may be used concurrently; every call to
// Parse runs on its own.
type Parser struct {
	g          *grammar.Grammar
	tokenValue TokenValueFunc
}

// NewParser creates a parser for a grammar. tokenValue may be nil.
func NewParser(g *grammar.Grammar, tokenValue TokenValueFunc) *Parser {
	return &Parser{g: g, tokenValue: tokenValue}
}

// Parse derives start from the token sequence and returns the value produced
// by the reducers. The parser appends its own end-of-input sentinel; tokens
// must not contain one. A terminal declared with token type ordo.EOF matches
// and consumes that sentinel, so grammars using such a terminal take part in
// the engine's own end handling; the usual way to demand end of input is the
// builder's EOF element, which asserts the sentinel without consuming it.
//
// Parse succeeds as soon as start has been derived, trailing tokens
// notwithstanding. Grammars that require the whole input to be consumed say
// so with an end marker in the start production.
func (p *Parser) Parse(tokens []ordo.Token, start string) (interface{}, error) {
	if !p.g.HasSymbol(start) {
		return nil, fmt.Errorf("start symbol %q is not defined by grammar %q", start, p.g.Name())
	}
	run := &parse{
		g:          p.g,
		tokenValue: p.tokenValue,
		tokens:     appendSentinel(tokens),
	}
	tracer().Debugf("parsing %d tokens from %q", len(tokens), start)
	value, err := run.resolveSymbol(start, newExclusionSet())
	if err != nil {
		if backtrackable(err) {
			return nil, fmt.Errorf("parse failed at %s: %w", run.farthestToken(), err)
		}
		return nil, err
	}
	return value, nil
}

// appendSentinel copies the token sequence and terminates it with an
// end-of-input token.
func appendSentinel(tokens []ordo.Token) []ordo.Token {
	var end uint64
	if n := len(tokens); n > 0 {
		end = tokens[n-1].Span().To()
	}
	all := make([]ordo.Token, len(tokens), len(tokens)+1)
	copy(all, tokens)
	return append(all, scanner.MakeToken(ordo.EOF, "", ordo.Span{end, end}))
}

// parse is the per-call state of one Parse run.
type parse struct {
	g          *grammar.Grammar
	tokenValue TokenValueFunc
	tokens     []ordo.Token // input plus trailing sentinel
	pos        int          // cursor into tokens
	farthest   int          // rightmost position where an alternative failed
}

// resolveSymbol derives a nonterminal at the current cursor position.
// Productions whose body digest is in excl are not admissible; the
// admissible ones are tried in declaration order, each starting from the
// same cursor position. The first body that matches wins and its reducer
// decides the result.
func (run *parse) resolveSymbol(sym string, excl exclusionSet) (interface{}, error) {
	var admissible []*grammar.Production
	for _, prod := range run.g.ProductionsFor(sym) {
		if !excl.contains(prod.Digest()) {
			admissible = append(admissible, prod)
		}
	}
	tracer().Debugf("resolve %s @%d, %d of %d alternatives admissible",
		sym, run.pos, len(admissible), len(run.g.ProductionsFor(sym)))
	mark := run.pos
	for _, prod := range admissible {
		run.pos = mark
		values, err := run.matchBody(prod, excl)
		if err != nil {
			if backtrackable(err) {
				tracer().Debugf("alternative %s failed, backtracking", prod)
				continue
			}
			return nil, err
		}
		tracer().Debugf("matched %s", prod)
		return prod.Reduce(values)
	}
	run.pos = mark
	return nil, run.fail(ErrSymbolNotFound)
}

// matchBody matches the elements of a production body left to right,
// collecting the value of each matched element. Consuming a token clears
// excl in place; every descent into a nonterminal carries its own copy of
// excl, extended by the enclosing body's digest at body position 0, so
// tokens consumed inside one descent never lift the guard for a later
// element of the same body.
func (run *parse) matchBody(prod *grammar.Production, excl exclusionSet) ([]interface{}, error) {
	var values []interface{}
	for i, el := range prod.Body() {
		switch el.Kind {
		case grammar.Terminal:
			if run.pos >= len(run.tokens) {
				return nil, run.fail(ErrUnexpectedEnd)
			}
			token := run.tokens[run.pos]
			if token.TokType() != el.Tok {
				return nil, run.fail(ErrSymbolNotFound)
			}
			run.pos++
			excl.clear()
			values = append(values, run.value(token))
		case grammar.Nonterminal:
			child := excl.copy()
			if i == 0 {
				child.add(prod.Digest())
			}
			v, err := run.resolveSymbol(el.Sym, child)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		case grammar.EndMarker:
			if run.pos >= len(run.tokens) || run.tokens[run.pos].TokType() != ordo.EOF {
				return nil, run.fail(ErrSymbolNotFound)
			}
			excl.clear() // asserts the end without consuming it
		}
	}
	return values, nil
}

// value converts a consumed token into a reducer value.
func (run *parse) value(token ordo.Token) interface{} {
	if run.tokenValue == nil {
		return token.Lexeme()
	}
	return run.tokenValue(token.TokType(), token.Lexeme())
}

// fail notes the failure position for diagnostics and passes err through.
func (run *parse) fail(err error) error {
	if run.pos > run.farthest {
		run.farthest = run.pos
	}
	return err
}

// farthestToken describes the rightmost failure position for the error
// message of a failed parse.
func (run *parse) farthestToken() string {
	if run.farthest >= len(run.tokens) {
		return "end of input"
	}
	token := run.tokens[run.farthest]
	if token.TokType() == ordo.EOF {
		return fmt.Sprintf("token %d (end of input)", run.farthest)
	}
	return fmt.Sprintf("token %d (%q)", run.farthest, token.Lexeme())
}
