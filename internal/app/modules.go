package app

import (
	"github.com/vk/startupgo/internal/registry"
	"github.com/vk/startupgo/modules/env_vars"
	"github.com/vk/startupgo/modules/print"
)

// coreModules are the handler packages compiled into the default binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&print.Module{},
}
