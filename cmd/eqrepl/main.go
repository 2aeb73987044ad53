package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/ordoparse/ordo/examples/eq"
)

// main starts an interactive CLI where users may enter equation expressions.
// Every expression is parsed, displayed as a tree and evaluated against the
// current time value and parameter bindings. Bindings are set with lines of
// the form 'name = number'; the time variable t is bound the same way.
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	pterm.Info.Println("Welcome to the equation REPL")
	//
	compiler, err := eq.NewCompiler()
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	repl, err := readline.New("eq> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{
		compiler: compiler,
		repl:     repl,
		time:     0,
		params:   make(map[string]float64),
	}
	input := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if input != "" {
		intp.Eval(input)
	}
	tracer().Infof("Quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	compiler *eq.Compiler
	repl     *readline.Instance
	time     float64
	params   map[string]float64
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if line == "quit" || line == "bye" {
			break
		}
		intp.Eval(line)
	}
	println("Good bye!")
}

// Eval handles one input line: either a parameter binding or an expression
// to parse and evaluate.
func (intp *Intp) Eval(line string) {
	if intp.bind(line) {
		return
	}
	node, err := intp.compiler.Compile(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	root := pterm.NewTreeFromLeveledList(leveledNode(node, pterm.LeveledList{}, 0))
	pterm.DefaultTree.WithRoot(root).Render()
	v, err := node.Eval(intp.time, intp.params)
	if err != nil {
		pterm.Error.Println(err.Error())
		intp.dumpBindings()
		return
	}
	pterm.Info.Println(fmt.Sprintf("%s = %g", node, v))
}

// bind handles lines of the form 'name = number' and reports whether the
// line was one.
func (intp *Intp) bind(line string) bool {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return false
	}
	name := strings.TrimSpace(parts[0])
	if name == "" || strings.ContainsAny(name, " \t()+-*/^") {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("cannot bind %q: %v", name, err))
		return true
	}
	if name == "t" {
		intp.time = v
	} else {
		intp.params[name] = v
	}
	pterm.Info.Println(fmt.Sprintf("%s = %g", name, v))
	return true
}

func (intp *Intp) dumpBindings() {
	names := make([]string, 0, len(intp.params))
	for name := range intp.params {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	fmt.Fprintf(&b, "t = %g", intp.time)
	for _, name := range names {
		fmt.Fprintf(&b, ", %s = %g", name, intp.params[name])
	}
	pterm.Info.Println("bound: " + b.String())
}

// leveledNode flattens an expression tree for pterm's tree renderer.
func leveledNode(node eq.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	switch n := node.(type) {
	case *eq.BinOp:
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: n.Op.String()})
		ll = leveledNode(n.Left, ll, level+1)
		ll = leveledNode(n.Right, ll, level+1)
	case *eq.Call:
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: n.Fn.String()})
		ll = leveledNode(n.Arg, ll, level+1)
	default:
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: node.String()})
	}
	return ll
}
