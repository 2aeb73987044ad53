package rd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/ordoparse/ordo"
	"github.com/ordoparse/ordo/grammar"
	"github.com/ordoparse/ordo/scanner"
)

const (
	tNum ordo.TokType = iota + 10
	tPlus
	tLParen
	tRParen
)

var sumLexicon = []scanner.Pattern{
	{Type: tNum, Expr: `\d+`},
	{Type: tPlus, Expr: `\+`},
	{Type: tLParen, Expr: `\(`},
	{Type: tRParen, Expr: `\)`},
}

func toks(t *testing.T, input string) []ordo.Token {
	tz, err := scanner.NewRegexTokenizer(sumLexicon, []string{` `})
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := tz.Tokenize(input)
	if err != nil {
		t.Fatal(err)
	}
	return tokens
}

// parenthesize renders reduction order, so tests can pin down associativity.
func parenthesize(values []interface{}) (interface{}, error) {
	return "(" + values[0].(string) + "+" + values[2].(string) + ")", nil
}

// sumGrammar is left-recursive in its first alternative.
//
//	Sum ➞ Sum + Sum | ( Sum ) | number
func sumGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("Sums")
	b.LHS("Sum").N("Sum").T("+", tPlus).N("Sum").End(parenthesize)
	b.LHS("Sum").T("(", tLParen).N("Sum").T(")", tRParen).End(func(values []interface{}) (interface{}, error) {
		return values[1], nil
	})
	b.LHS("Sum").T("number", tNum).End(nil)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestLeftRecursionTerminates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	p := NewParser(sumGrammar(t), nil)
	v, err := p.Parse(toks(t, "1+2+3"), "Sum")
	if err != nil {
		t.Fatal(err)
	}
	if v != "(1+(2+3))" {
		t.Errorf("expected right-folded sum, got %v", v)
	}
}

func TestGroupingBindsFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	p := NewParser(sumGrammar(t), nil)
	v, err := p.Parse(toks(t, "(1+2)+3"), "Sum")
	if err != nil {
		t.Fatal(err)
	}
	if v != "((1+2)+3)" {
		t.Errorf("expected the group to reduce first, got %v", v)
	}
}

func TestNestedGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	p := NewParser(sumGrammar(t), nil)
	v, err := p.Parse(toks(t, "((1+2))"), "Sum")
	if err != nil {
		t.Fatal(err)
	}
	if v != "(1+2)" {
		t.Errorf("unexpected value %v", v)
	}
}

func TestGuardScopedPerDescent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	// A token consumed inside one trailing nonterminal must not lift the
	// left-recursion guard for a later element of the same body: with the
	// guard intact, 'A S S' can only cover "a 1 2" and the top-level sum
	// keeps the trailing "+ 3".
	const tMark ordo.TokType = 99
	lexicon := []scanner.Pattern{
		{Type: tMark, Expr: `a`},
		{Type: tNum, Expr: `\d+`},
		{Type: tPlus, Expr: `\+`},
	}
	tz, err := scanner.NewRegexTokenizer(lexicon, []string{` `})
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := tz.Tokenize("a 1 2 + 3")
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.NewBuilder("Guarded")
	b.LHS("S").N("S").T("+", tPlus).N("S").End(parenthesize)
	b.LHS("S").N("A").N("S").N("S").End(func(values []interface{}) (interface{}, error) {
		return fmt.Sprintf("[%s %s %s]", values[0], values[1], values[2]), nil
	})
	b.LHS("S").T("number", tNum).End(nil)
	b.LHS("A").T("marker", tMark).End(nil)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	v, err := NewParser(g, nil).Parse(tokens, "S")
	if err != nil {
		t.Fatal(err)
	}
	if v != "([a 1 2]+3)" {
		t.Errorf("expected the guard to survive sibling descents, got %v", v)
	}
}

func TestEndMarkerRejectsTrailingInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	b := grammar.NewBuilder("Program")
	b.LHS("Program").N("Sum").EOF().End(nil)
	b.LHS("Sum").N("Sum").T("+", tPlus).N("Sum").End(parenthesize)
	b.LHS("Sum").T("number", tNum).End(nil)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(g, nil)
	if v, err := p.Parse(toks(t, "1+2"), "Program"); err != nil {
		t.Errorf("expected fully consumed input to parse, got %v", err)
	} else if v != "(1+2)" {
		t.Errorf("unexpected value %v", v)
	}
	_, err = p.Parse(toks(t, "1+2 3"), "Program")
	if err == nil {
		t.Fatal("expected trailing input to be rejected, was not")
	}
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestOrderedChoiceIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	first := func([]interface{}) (interface{}, error) { return "first", nil }
	second := func([]interface{}) (interface{}, error) { return "second", nil }
	//
	b := grammar.NewBuilder("Choice")
	b.LHS("A").T("number", tNum).End(first)
	b.LHS("A").T("number", tNum).End(second)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	v, err := NewParser(g, nil).Parse(toks(t, "1"), "A")
	if err != nil {
		t.Fatal(err)
	}
	if v != "first" {
		t.Errorf("expected the earlier alternative to win, got %v", v)
	}
	// Swapping declaration order swaps the winner.
	b = grammar.NewBuilder("Choice")
	b.LHS("A").T("number", tNum).End(second)
	b.LHS("A").T("number", tNum).End(first)
	g, err = b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	v, err = NewParser(g, nil).Parse(toks(t, "1"), "A")
	if err != nil {
		t.Fatal(err)
	}
	if v != "second" {
		t.Errorf("expected the swapped order to change the winner, got %v", v)
	}
}

func TestReducerErrorIsFinal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	errBoom := errors.New("value out of range")
	b := grammar.NewBuilder("Committed")
	b.LHS("A").T("number", tNum).End(func([]interface{}) (interface{}, error) {
		return nil, errBoom
	})
	b.LHS("A").T("number", tNum).End(func([]interface{}) (interface{}, error) {
		return "fallback", nil
	})
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewParser(g, nil).Parse(toks(t, "1"), "A")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected the reducer error to propagate unchanged, got %v", err)
	}
	if backtrackable(err) {
		t.Errorf("a reducer error must not be backtrackable")
	}
}

func TestUnexpectedEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	// The first terminal consumes the end-of-input sentinel, so the second
	// terminal finds the token stream exhausted.
	b := grammar.NewBuilder("PastEnd")
	b.LHS("A").T("#eof", ordo.EOF).T("number", tNum).End(nil)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewParser(g, nil).Parse(nil, "A")
	if !errors.Is(err, ErrUnexpectedEnd) {
		t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
	}
}

func TestUnexpectedEndIsBacktrackable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	b := grammar.NewBuilder("Recover")
	b.LHS("A").T("#eof", ordo.EOF).T("number", tNum).End(nil)
	b.LHS("A").T("#eof", ordo.EOF).End(func([]interface{}) (interface{}, error) {
		return "end", nil
	})
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	v, err := NewParser(g, nil).Parse(nil, "A")
	if err != nil {
		t.Fatalf("expected the second alternative to recover, got %v", err)
	}
	if v != "end" {
		t.Errorf("unexpected value %v", v)
	}
}

func TestUnknownStartSymbol(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	p := NewParser(sumGrammar(t), nil)
	_, err := p.Parse(toks(t, "1"), "Ghost")
	if err == nil {
		t.Fatal("expected an unknown start symbol to be rejected")
	}
	if !strings.Contains(err.Error(), "Ghost") {
		t.Errorf("expected the error to name the symbol, got %v", err)
	}
}

func TestFailurePositionInError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	p := NewParser(sumGrammar(t), nil)
	_, err := p.Parse(toks(t, "(1+"), "Sum")
	if err == nil {
		t.Fatal("expected an incomplete group to fail")
	}
	if !backtrackable(err) {
		t.Errorf("expected a parse failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "token") {
		t.Errorf("expected the failure position in the message, got %v", err)
	}
}

func TestTokenValueFunc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	b := grammar.NewBuilder("Values")
	b.LHS("A").T("number", tNum).End(nil)
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(g, func(typ ordo.TokType, lexeme string) interface{} {
		return len(lexeme)
	})
	v, err := p.Parse(toks(t, "12345"), "A")
	if err != nil {
		t.Fatal(err)
	}
	if v != 5 {
		t.Errorf("expected the token value function to decide values, got %v", v)
	}
}

func TestParserReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ordo.parser")
	defer teardown()
	//
	p := NewParser(sumGrammar(t), nil)
	inputs := []string{"1", "1+2", "(1+2)+3", "1+2+3"}
	want := []string{"1", "(1+2)", "((1+2)+3)", "(1+(2+3))"}
	for round := 0; round < 3; round++ {
		for i, input := range inputs {
			v, err := p.Parse(toks(t, input), "Sum")
			if err != nil {
				t.Fatalf("round %d: %q: %v", round, input, err)
			}
			if v != want[i] {
				t.Errorf("round %d: %q: expected %q, got %v", round, input, want[i], v)
			}
		}
	}
}
