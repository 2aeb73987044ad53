package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"github.com/ordoparse/ordo"
)

// Builder is a builder type for grammars. Clients are supposed to create a
// builder, declare all productions with it, and then call Grammar(), which
// validates the declarations and returns an immutable grammar.
type Builder struct {
	name   string
	prods  []*Production
	errors []error
}

// NewBuilder creates a builder for a grammar with a given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// LHS starts a production for a nonterminal. Elements of the production's
// body are then appended with the returned production builder.
func (b *Builder) LHS(head string) *ProdBuilder {
	if head == "" {
		b.errors = append(b.errors, fmt.Errorf("refusing production with empty head"))
	}
	return &ProdBuilder{builder: b, head: head}
}

// Grammar validates all declared productions and returns the finished
// grammar. Validation fails for an empty grammar, for productions with
// empty bodies, and for nonterminals without any production.
func (b *Builder) Grammar() (*Grammar, error) {
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}
	if len(b.prods) == 0 {
		return nil, fmt.Errorf("grammar %q has no productions", b.name)
	}
	g := &Grammar{
		name:   b.name,
		prods:  b.prods,
		byHead: treemap.NewWith(utils.StringComparator),
	}
	for _, p := range b.prods {
		v, found := g.byHead.Get(p.head)
		var list *arraylist.List
		if found {
			list = v.(*arraylist.List)
		} else {
			list = arraylist.New()
			g.byHead.Put(p.head, list)
		}
		list.Add(p)
	}
	if err := b.validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// validate checks that every referenced nonterminal has at least one
// production, and warns about duplicate alternatives for a head.
func (b *Builder) validate(g *Grammar) error {
	for _, p := range g.prods {
		for _, el := range p.body {
			if el.Kind == Nonterminal && !g.HasSymbol(el.Sym) {
				return fmt.Errorf("nonterminal %q referenced in %q, but has no production",
					el.Sym, p)
			}
		}
	}
	seen := map[string]*Production{} // head+digest ➞ first declaration
	for _, p := range g.prods {
		key := p.head + "\x00" + p.digest
		if first, dup := seen[key]; dup {
			tracer().Infof("duplicate alternative for %q: #%d repeats #%d",
				p.head, p.serial, first.serial)
			continue
		}
		seen[key] = p
	}
	return nil
}

// ProdBuilder is a builder type for a single production. Create one with
// Builder.LHS.
type ProdBuilder struct {
	builder *Builder
	head    string
	body    []Element
}

// N appends a nonterminal to the production's body.
func (pb *ProdBuilder) N(sym string) *ProdBuilder {
	pb.body = append(pb.body, Element{Kind: Nonterminal, Sym: sym})
	return pb
}

// T appends a terminal to the production's body. name is used for display
// only and does not take part in body equality.
func (pb *ProdBuilder) T(name string, tok ordo.TokType) *ProdBuilder {
	pb.body = append(pb.body, Element{Kind: Terminal, Tok: tok, name: name})
	return pb
}

// EOF appends the end marker to the production's body. The parser will
// assert end of input at this point without consuming it.
func (pb *ProdBuilder) EOF() *ProdBuilder {
	pb.body = append(pb.body, Element{Kind: EndMarker})
	return pb
}

// End finishes the production and attaches a reducer (which may be nil).
// It returns the completed production.
func (pb *ProdBuilder) End(r Reducer) *Production {
	if len(pb.body) == 0 {
		pb.builder.errors = append(pb.builder.errors,
			fmt.Errorf("refusing empty production for %q", pb.head))
		return nil
	}
	p := &Production{
		serial:  len(pb.builder.prods),
		head:    pb.head,
		body:    pb.body,
		reducer: r,
		digest:  bodyDigest(pb.body),
	}
	pb.builder.prods = append(pb.builder.prods, p)
	return p
}
