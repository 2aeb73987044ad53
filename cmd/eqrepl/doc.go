/*
Package main implements an interactive REPL for the equation language of
package examples/eq.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 The ordo authors

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ordo.parser'.
func tracer() tracing.Trace {
	return tracing.Select("ordo.parser")
}
