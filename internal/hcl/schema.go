package hcl

import (
	"github.com/zclconf/go-cty/cty"
)

// InputBinding represents an `input` block within a task: one parameter
// bound to one variable. Block order in the file is parameter order.
type InputBinding struct {
	Param string `hcl:"param,label"`
	Var   string `hcl:"var"`
	Mode  string `hcl:"mode,optional"`
}

// TaskBlock represents a `task` block from a plan file: a runnable instance
// of a registered handler.
type TaskBlock struct {
	Name    string          `hcl:"instance_name,label"`
	Handler string          `hcl:"handler"`
	Key     string          `hcl:"key,optional"`
	Inputs  []*InputBinding `hcl:"input,block"`
	Outputs []string        `hcl:"outputs,optional"`
}

// ValueBlock represents a `value` block: an initial value supplied to the
// engine at run time, counting as one writer of its variable.
type ValueBlock struct {
	Name  string    `hcl:"variable_name,label"`
	Value cty.Value `hcl:"value"`
}

// PlanConfig is the top-level structure of a plan file.
type PlanConfig struct {
	Tasks  []*TaskBlock  `hcl:"task,block"`
	Values []*ValueBlock `hcl:"value,block"`
}
