/*
Package compile bundles a tokenizer and a parser into a single text-to-value
pipeline.

A Compiler is configured once, with a lexicon, whitespace patterns, a
grammar and a start symbol, and then turns input strings into the values
produced by the grammar's reducers:

	c, err := compile.New(lexicon, whitespace, g, "Program", tokenValue)
	value, err := c.Compile("x + 5")

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 The ordo authors

*/
package compile

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/ordoparse/ordo/grammar"
	"github.com/ordoparse/ordo/rd"
	"github.com/ordoparse/ordo/scanner"
)

// tracer traces with key 'ordo.parser'.
func tracer() tracing.Trace {
	return tracing.Select("ordo.parser")
}

// Compiler turns input text into values, by tokenizing with an ordered
// regex lexicon and parsing with a backtracking ordered-choice parser.
// A Compiler is immutable and safe for concurrent use.
type Compiler struct {
	tokenizer *scanner.RegexTokenizer
	parser    *rd.Parser
	start     string
}

// New creates a compiler. It fails if a lexicon or whitespace pattern does
// not compile, or if the grammar does not define the start symbol.
func New(lexicon []scanner.Pattern, whitespace []string, g *grammar.Grammar,
	start string, tokenValue rd.TokenValueFunc) (*Compiler, error) {
	//
	tokenizer, err := scanner.NewRegexTokenizer(lexicon, whitespace)
	if err != nil {
		return nil, err
	}
	if !g.HasSymbol(start) {
		return nil, fmt.Errorf("start symbol %q is not defined by grammar %q", start, g.Name())
	}
	return &Compiler{
		tokenizer: tokenizer,
		parser:    rd.NewParser(g, tokenValue),
		start:     start,
	}, nil
}

// Compile tokenizes and parses text, returning the value reduced for the
// start symbol. Lexical errors and parse errors are returned as-is from the
// underlying stages.
func (c *Compiler) Compile(text string) (interface{}, error) {
	tokens, err := c.tokenizer.Tokenize(text)
	if err != nil {
		tracer().Errorf("tokenization failed: %v", err)
		return nil, err
	}
	tracer().Debugf("compiling %d tokens", len(tokens))
	return c.parser.Parse(tokens, c.start)
}
