package testutil

import "github.com/vk/startupgo/internal/registry"

// ModuleFunc adapts a plain function into a registry.Module, so tests can
// register ad-hoc handlers without declaring a package-level module type.
type ModuleFunc func(r *registry.Registry)

// Register implements registry.Module.
func (f ModuleFunc) Register(r *registry.Registry) { f(r) }

// HandlerModule returns a module that registers a single named handler.
func HandlerModule(name string, fn any) ModuleFunc {
	return func(r *registry.Registry) { r.RegisterHandler(name, fn) }
}
