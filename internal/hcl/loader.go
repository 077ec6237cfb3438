package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/startupgo/internal/ctxlog"
	"github.com/vk/startupgo/internal/registry"
	"github.com/vk/startupgo/internal/startup"
)

// Plan is a fully loaded and validated boot plan: the task specs to resolve
// against the handler registry, and the initial values to run with.
type Plan struct {
	Tasks  []registry.TaskSpec
	Values map[string]any
}

// Loader parses .hcl plan files into a Plan.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every plan file reachable from the given paths. A path may be a
// single .hcl file or a directory searched recursively. Files are processed
// in sorted path order so the resulting Plan is independent of filesystem
// enumeration order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := findPlanFiles(path)
		if err != nil {
			return nil, fmt.Errorf("failed to discover plan files in %s: %w", path, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl plan files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Found plan files to load.", "files", files)

	plan := &Plan{Values: make(map[string]any)}
	seenTasks := make(map[string]string)
	seenValues := make(map[string]string)

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse plan file %s: %w", file, diags)
		}

		var cfg PlanConfig
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &cfg); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode plan file %s: %w", file, diags)
		}

		for _, block := range cfg.Tasks {
			if prev, dup := seenTasks[block.Name]; dup {
				return nil, fmt.Errorf("%w: task %q declared in both %s and %s",
					startup.ErrDuplicateTask, block.Name, prev, file)
			}
			seenTasks[block.Name] = file

			spec, err := translateTask(block)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			plan.Tasks = append(plan.Tasks, spec)
		}

		for _, block := range cfg.Values {
			if prev, dup := seenValues[block.Name]; dup {
				return nil, fmt.Errorf("%w: value %q declared in both %s and %s",
					startup.ErrMalformedBinding, block.Name, prev, file)
			}
			seenValues[block.Name] = file

			native, err := ctyToNative(block.Value)
			if err != nil {
				return nil, fmt.Errorf("in %s: value %q: %w", file, block.Name, err)
			}
			plan.Values[block.Name] = native
		}

		logger.Debug("Loaded plan file.", "file", file,
			"tasks", len(cfg.Tasks), "values", len(cfg.Values))
	}

	logger.Info("Boot plan loaded.", "tasks", len(plan.Tasks), "values", len(plan.Values))
	return plan, nil
}

// translateTask converts one task block into a registry spec, validating the
// binding forms the plan language recognizes.
func translateTask(block *TaskBlock) (registry.TaskSpec, error) {
	spec := registry.TaskSpec{
		Name:    block.Name,
		Handler: block.Handler,
		Key:     block.Key,
	}
	if block.Handler == "" {
		return spec, fmt.Errorf("%w: task %q: no handler", startup.ErrMalformedBinding, block.Name)
	}
	for _, in := range block.Inputs {
		mode, err := parseMode(in.Mode)
		if err != nil {
			return spec, fmt.Errorf("task %q: input %q: %w", block.Name, in.Param, err)
		}
		if in.Var == "" {
			return spec, fmt.Errorf("%w: task %q: input %q names no variable",
				startup.ErrMalformedBinding, block.Name, in.Param)
		}
		spec.Inputs = append(spec.Inputs, registry.InputSpec{Param: in.Param, Var: in.Var, Mode: mode})
	}
	for _, out := range block.Outputs {
		if out == "" {
			return spec, fmt.Errorf("%w: task %q: empty output name",
				startup.ErrMalformedBinding, block.Name)
		}
		spec.Outputs = append(spec.Outputs, out)
	}
	return spec, nil
}

// parseMode maps the plan spelling of a read mode onto the engine's.
func parseMode(mode string) (startup.Mode, error) {
	switch mode {
	case "", "latest":
		return startup.Latest, nil
	case "all":
		return startup.All, nil
	default:
		return 0, fmt.Errorf("%w: unknown read mode %q (want \"latest\" or \"all\")",
			startup.ErrMalformedBinding, mode)
	}
}

// findPlanFiles resolves a path to the sorted list of .hcl files beneath it.
func findPlanFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
