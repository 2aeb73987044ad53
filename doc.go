/*
Package ordo is a backtracking parsing toolbox.

Ordo strives to be a small and predictable tool to turn raw text into an
abstract syntax tree, given an ordered token lexicon and an ordered grammar
of productions with attached semantic reducers. Alternatives are tried in
declaration order ("ordered choice"); the first one to succeed wins.
Package structure is as follows:

■ scanner: Package scanner converts raw text into a sequence of tokens.
The default backend matches ordered regular-expression patterns, first
declared pattern wins. A lexmachine-backed alternative lives in
scanner/lexmach.

■ grammar: Package grammar models productions (head, body, reducer) and
provides a fluent builder for declaring them.

■ rd: Package rd implements the recursive-descent matcher: ordered-choice
backtracking over grammar alternatives with a termination guard for
left-recursive productions.

■ compile: Package compile wires a scanner and a parser into a single
"text to result" call.

The base package contains data types which are used throughout all the
other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 The ordo authors

*/
package ordo
