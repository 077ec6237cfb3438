// Package registry is the glue between boot plans and compiled Go code.
//
// The Registry stores mappings from the string handler names used in plan
// files to ordinary Go functions. Resolve turns one plan task — a handler
// name plus named input/output bindings — into the plain-data registration
// the startup engine consumes, wrapping the function in a reflection-driven
// invocation adapter. Signature mismatches between a plan and its Go handler
// (wrong parameter count, wrong result arity) are rejected here, at
// resolution time, before the engine ever runs anything.
package registry
