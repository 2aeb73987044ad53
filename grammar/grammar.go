/*
Package grammar models context-free productions with attached semantic
reducers, to be matched by the parsers of package rd.

A grammar is an ordered sequence of productions. Order is load-bearing:
productions sharing a head are tried in declaration order by the parser, and
the first alternative to succeed wins. Clients usually declare a grammar
with a builder:

	b := grammar.NewBuilder("Expressions")
	b.LHS("Program").N("Value").EOF().End(nil)
	b.LHS("Value").N("Value").T("+", tokPlus).N("Value").End(reduceAdd)
	b.LHS("Value").T("number", tokNumber).End(nil)
	g, err := b.Grammar()

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 The ordo authors

*/
package grammar

import (
	"bytes"
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko/tracing"

	"github.com/ordoparse/ordo"
)

// tracer traces with key 'ordo.parser'.
func tracer() tracing.Trace {
	return tracing.Select("ordo.parser")
}

// --- Grammar elements -------------------------------------------------------

// ElementKind discriminates the variants of Element.
type ElementKind int8

// The three kinds of elements a production body is built from.
const (
	Terminal    ElementKind = iota // matches one token of a given type
	Nonterminal                    // expanded via the productions for a symbol
	EndMarker                      // asserts the end-of-input sentinel
)

// Element is one entry of a production body: a terminal (token type), a
// nonterminal (symbol name), or the end marker.
type Element struct {
	Kind ElementKind
	Tok  ordo.TokType // set for Terminal
	Sym  string       // set for Nonterminal
	name string       // display name for terminals
}

func (el Element) String() string {
	switch el.Kind {
	case Terminal:
		if el.name != "" {
			return el.name
		}
		return fmt.Sprintf("t(%d)", el.Tok)
	case Nonterminal:
		return el.Sym
	default:
		return "#eof"
	}
}

// elemSig is the portion of an Element that participates in body value
// equality. Display names are excluded on purpose.
type elemSig struct {
	Kind int8
	Tok  int
	Sym  string
}

// bodyDigest fingerprints a production body by value. Two bodies with equal
// element sequences share a digest, independent of which production they
// belong to.
func bodyDigest(body []Element) string {
	sig := struct {
		Body []elemSig
	}{Body: make([]elemSig, len(body))}
	for i, el := range body {
		sig.Body[i] = elemSig{Kind: int8(el.Kind), Tok: int(el.Tok), Sym: el.Sym}
	}
	return fmt.Sprintf("%x", structhash.Sha1(sig, 1))
}

// --- Productions ------------------------------------------------------------

// Reducer combines the intermediate values matched for a production body
// into one result value. A reducer returning an error aborts the whole
// parse; the parser never falls back to another alternative once a reducer
// has been invoked and failed.
type Reducer func(values []interface{}) (interface{}, error)

// Production is one rewrite alternative for a nonterminal, paired with a
// semantic reducer.
type Production struct {
	serial  int
	head    string
	body    []Element
	reducer Reducer
	digest  string
}

// Head returns the nonterminal this production rewrites.
func (p *Production) Head() string {
	return p.head
}

// Body returns the ordered elements of this production. Callers must not
// modify the returned slice.
func (p *Production) Body() []Element {
	return p.body
}

// Serial returns the position of this production in grammar declaration
// order.
func (p *Production) Serial() int {
	return p.serial
}

// Digest returns the value-equality fingerprint of this production's body.
func (p *Production) Digest() string {
	return p.digest
}

// Reduce applies the production's reducer to the matched values. A
// production declared without a reducer passes its first value through.
func (p *Production) Reduce(values []interface{}) (interface{}, error) {
	if p.reducer == nil {
		if len(values) == 0 {
			return nil, nil
		}
		return values[0], nil
	}
	return p.reducer(values)
}

func (p *Production) String() string {
	var b bytes.Buffer
	b.WriteString(p.head)
	b.WriteString(" ➞")
	for _, el := range p.body {
		b.WriteString(" ")
		b.WriteString(el.String())
	}
	return b.String()
}

// --- Grammar ----------------------------------------------------------------

// Grammar is an ordered sequence of productions, indexed by head symbol.
// A Grammar is immutable after construction; build one with a Builder.
type Grammar struct {
	name   string
	prods  []*Production
	byHead *treemap.Map // head name ➞ *arraylist.List of *Production
}

// Name returns the name given to the grammar builder.
func (g *Grammar) Name() string {
	return g.name
}

// Size returns the number of productions.
func (g *Grammar) Size() int {
	return len(g.prods)
}

// Production returns the production with the given serial.
func (g *Grammar) Production(serial int) *Production {
	if serial < 0 || serial >= len(g.prods) {
		return nil
	}
	return g.prods[serial]
}

// HasSymbol tells whether at least one production rewrites the given
// nonterminal.
func (g *Grammar) HasSymbol(name string) bool {
	_, found := g.byHead.Get(name)
	return found
}

// ProductionsFor returns the productions rewriting head, in declaration
// order. The result is nil for an unknown head.
func (g *Grammar) ProductionsFor(head string) []*Production {
	v, found := g.byHead.Get(head)
	if !found {
		return nil
	}
	list := v.(*arraylist.List)
	prods := make([]*Production, 0, list.Size())
	it := list.Iterator()
	for it.Next() {
		prods = append(prods, it.Value().(*Production))
	}
	return prods
}

// EachProduction iterates over all productions in declaration order.
func (g *Grammar) EachProduction(f func(*Production)) {
	for _, p := range g.prods {
		f(p)
	}
}

// Dump is a debugging helper, listing all productions of the grammar.
func (g *Grammar) Dump() {
	tracer().Debugf("grammar %q:", g.name)
	for _, p := range g.prods {
		tracer().Debugf("%3d: %s", p.serial, p)
	}
}
