/*
Package lexmach adapts the lexmachine scanner generator to the Tokenizer
interface of package scanner.

lexmachine compiles all patterns into one DFA and applies maximal-munch
(longest match) tokenization. That is a different matching discipline than
the first-declared-pattern-wins regex tokenizer of package scanner; use this
backend when longest-match semantics is what the language calls for. For
more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

Clients configure the lexer themselves and wrap it:

	adapter, err := lexmach.New(func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`[a-z]+`), lexmach.MakeToken(tokIdent))
		lexer.Add([]byte(`( |\t|\n)+`), lexmach.Skip)
	})
	sc, err := adapter.Scanner(input)
	tokens := scanner.Collect(sc)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 The ordo authors

*/
package lexmach

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/ordoparse/ordo"
	"github.com/ordoparse/ordo/scanner"
)

// tracer traces with key 'ordo.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("ordo.scanner")
}

// Adapter wraps a compiled lexmachine lexer.
type Adapter struct {
	Lexer *lexmachine.Lexer
}

// New creates a lexmachine adapter. init receives a fresh lexer and is
// expected to add all patterns, usually with the MakeToken and Skip actions.
// New returns an error if compiling the DFA failed.
func New(init func(*lexmachine.Lexer)) (*Adapter, error) {
	adapter := &Adapter{Lexer: lexmachine.NewLexer()}
	init(adapter.Lexer)
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input, implementing the
// scanner.Tokenizer interface.
func (a *Adapter) Scanner(input string) (*Scanner, error) {
	s, err := a.Lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Scanner{scanner: s, Error: logError}, nil
}

// Scanner is a streaming scanner over a single input, backed by a lexmachine
// DFA. Create one with Adapter.Scanner.
type Scanner struct {
	scanner *lexmachine.Scanner
	Error   func(error) // error handler
}

var _ scanner.Tokenizer = (*Scanner)(nil)

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// SetErrorHandler sets an error handler for the scanner.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		s.Error = logError
		return
	}
	s.Error = h
}

// NextToken is part of the Tokenizer interface. Unconsumable input is
// reported to the error handler and skipped.
func (s *Scanner) NextToken() ordo.Token {
	tok, err, eof := s.scanner.Next()
	for err != nil {
		s.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			s.scanner.TC = ui.FailTC
		}
		tok, err, eof = s.scanner.Next()
	}
	if eof {
		return scanner.MakeToken(ordo.EOF, "", ordo.Span{})
	}
	token := tok.(*lexmachine.Token)
	return scanner.MakeToken(
		ordo.TokType(token.Type),
		string(token.Lexeme),
		ordo.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	)
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token
// of the given type.
func MakeToken(typ ordo.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(typ), string(m.Bytes), m), nil
	}
}
