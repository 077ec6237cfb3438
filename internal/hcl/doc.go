// Package hcl loads boot plans from HCL files.
//
// A plan declares tasks — handler name, ordered input bindings with a read
// mode, output variable names — and initial values for variables supplied
// from outside the graph:
//
//	task "parse_args" {
//	  handler = "ParseArgs"
//	  input "raw" { var = "argv" }
//	  input "_"   { var = "opts"  mode = "all" }
//	  outputs = ["args"]
//	}
//
//	value "argv" {
//	  value = ["prog", "-x", "3"]
//	}
//
// The loader rejects malformed plans (unknown read modes, duplicate task or
// value names, empty variable references) before anything reaches the
// registry or the engine.
package hcl
