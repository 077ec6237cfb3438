// Package testutil provides the integration-test harness: it materializes
// in-memory plan files into a temp directory, boots the full application
// against them, and captures logs, results, and recovered panics.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/startupgo/internal/app"
	"github.com/vk/startupgo/internal/hcl"
	"github.com/vk/startupgo/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Values    map[string]any
	Err       error
	App       *app.App
}

// RunPlanTest boots the application against the given plan files with the
// deterministic sequential engine.
func RunPlanTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunPlanTestWithWorkers(t, files, 1, modules...)
}

// RunPlanTestWithWorkers is RunPlanTest with an explicit worker count, for
// exercising the opted-in parallel mode.
func RunPlanTestWithWorkers(t *testing.T, files map[string]string, workers int, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig, err := app.NewConfig(app.Config{
		PlanPath:  tmpDir,
		LogLevel:  "debug",
		LogFormat: "text",
		Workers:   workers,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	// App startup panics on critical errors; surface them as harness errors
	// so tests can assert on them.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	values, runErr := testApp.Run(context.Background(), appConfig)
	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Values:    values,
		Err:       runErr,
		App:       testApp,
	}
}
