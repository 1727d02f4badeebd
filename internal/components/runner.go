package components

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/serverless/compose/internal/config"
)

// DefaultFrameworkBinary is the framework executable run for each component.
const DefaultFrameworkBinary = "serverless"

// Task is one command to run on one component.
type Task struct {
	Component config.Component
	// Command may contain ":" separated parts, e.g. "deploy:function".
	Command string
	Options map[string]any
	Stage   string
	Verbose bool
	// Interactive tasks are attached to the terminal.
	Interactive bool
}

// Runner executes a task. A non-nil error marks the outcome as failed.
type Runner interface {
	Run(ctx context.Context, task Task) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, task Task) error

// Run calls f(ctx, task).
func (f RunnerFunc) Run(ctx context.Context, task Task) error {
	return f(ctx, task)
}

// FrameworkRunner runs the framework binary inside the component directory.
type FrameworkRunner struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

// NewFrameworkRunner returns a runner for binary writing to the process
// standard streams. An empty binary selects DefaultFrameworkBinary.
func NewFrameworkRunner(binary string) *FrameworkRunner {
	if binary == "" {
		binary = DefaultFrameworkBinary
	}
	return &FrameworkRunner{Binary: binary, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the task. Non-interactive, non-verbose output is buffered and
// only shown when the command fails.
func (r *FrameworkRunner) Run(ctx context.Context, task Task) error {
	cmd := exec.CommandContext(ctx, r.Binary, Args(task)...)
	cmd.Dir = task.Component.Path
	cmd.Env = append(os.Environ(), "SLS_COMPOSE=1")

	var buf bytes.Buffer
	switch {
	case task.Interactive:
		cmd.Stdin = os.Stdin
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	case task.Verbose:
		prefix := task.Component.Name + " › "
		cmd.Stdout = newPrefixWriter(r.Stdout, prefix)
		cmd.Stderr = newPrefixWriter(r.Stderr, prefix)
	default:
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	if pw, ok := cmd.Stdout.(*prefixWriter); ok {
		pw.Flush()
	}
	if pw, ok := cmd.Stderr.(*prefixWriter); ok {
		pw.Flush()
	}
	if err != nil {
		if buf.Len() > 0 {
			fmt.Fprintf(r.Stderr, "\n%s › %s failed:\n%s\n", task.Component.Name, task.Command, strings.TrimRight(buf.String(), "\n"))
		}
		return fmt.Errorf("%s %s: %w", r.Binary, task.Command, err)
	}
	return nil
}

// Args builds the framework command line of a task.
func Args(task Task) []string {
	args := strings.Split(task.Command, ":")
	if task.Stage != "" {
		args = append(args, "--stage", task.Stage)
	}
	if task.Component.Config != "" {
		args = append(args, "--config", task.Component.Config)
	}

	for _, key := range sortedKeys(task.Component.Params) {
		args = append(args, "--param", key+"="+paramValue(task.Component.Params[key]))
	}

	for _, key := range sortedKeys(task.Options) {
		if key == "stage" || key == "_" {
			continue
		}
		args = append(args, optionArgs(key, task.Options[key])...)
	}
	if task.Verbose && task.Options["verbose"] == nil {
		args = append(args, "--verbose")
	}
	return args
}

func optionArgs(key string, value any) []string {
	flag := "--" + key
	if len(key) == 1 {
		flag = "-" + key
	}
	switch v := value.(type) {
	case bool:
		if v {
			return []string{flag}
		}
		return []string{"--no-" + key}
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, optionArgs(key, item)...)
		}
		return out
	default:
		return []string{flag + "=" + fmt.Sprint(v)}
	}
}

func paramValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// prefixWriter prefixes every complete line written to it.
type prefixWriter struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	buf    []byte
}

func newPrefixWriter(w io.Writer, prefix string) *prefixWriter {
	return &prefixWriter{w: w, prefix: prefix}
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf = append(p.buf, b...)
	for {
		i := bytes.IndexByte(p.buf, '\n')
		if i < 0 {
			break
		}
		if _, err := fmt.Fprintf(p.w, "%s%s\n", p.prefix, p.buf[:i]); err != nil {
			return 0, err
		}
		p.buf = p.buf[i+1:]
	}
	return len(b), nil
}

// Flush writes a trailing partial line.
func (p *prefixWriter) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) > 0 {
		fmt.Fprintf(p.w, "%s%s\n", p.prefix, p.buf)
		p.buf = nil
	}
}
