package script

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Runner executes configured procedures as external processes inside workDir
type Runner struct {
	workDir string
	config  Config
	env     []string
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithConfig replaces the default procedures
func WithConfig(cfg Config) RunnerOption {
	return func(r *Runner) {
		r.config = cfg
	}
}

// WithEnv appends KEY=VALUE pairs to the environment of every step
func WithEnv(env ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// NewRunner creates a Runner rooted at workDir
func NewRunner(workDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		workDir: workDir,
		config:  DefaultConfig(),
		env:     os.Environ(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prepare runs the prepare steps of the job's family
func (r *Runner) Prepare(ctx context.Context, job model.JobInstance, v model.VersionInfo) error {
	return r.run(ctx, "prepare", r.config[job.Family].Prepare, job, v)
}

// Build runs the build steps of the job's family
func (r *Runner) Build(ctx context.Context, job model.JobInstance, v model.VersionInfo) error {
	return r.run(ctx, "build", r.config[job.Family].Build, job, v)
}

func (r *Runner) run(ctx context.Context, stage string, steps []Step, job model.JobInstance, v model.VersionInfo) error {
	params := newParams(job, v)
	for i, step := range steps {
		command, args, env, err := step.render(params)
		if err != nil {
			return goerr.Wrap(err, "failed to render step", goerr.V("stage", stage), goerr.V("step", i))
		}
		if err := r.exec(ctx, stage, command, args, env); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) exec(ctx context.Context, stage, command string, args, env []string) error {
	logger := ctxlog.From(ctx).With("stage", stage, "command", command)
	logger.Info("Running step", "args", args)

	// Relative commands are scripts in the work tree
	if !filepath.IsAbs(command) && strings.ContainsRune(command, '/') {
		command = filepath.Join(r.workDir, command)
	}

	stdout := newLineLogger(logger, slog.LevelDebug)
	stderr := newLineLogger(logger, slog.LevelWarn)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = r.workDir
	cmd.Env = append(append([]string{}, r.env...), env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()
	if err != nil {
		opts := []goerr.Option{
			goerr.V("stage", stage),
			goerr.V("command", command),
			goerr.V("args", args),
			goerr.V("stderr", stderr.Tail()),
		}
		if ctx.Err() != nil {
			opts = append(opts, goerr.V("ctx_err", ctx.Err().Error()))
		}
		return goerr.Wrap(err, "step failed", opts...)
	}
	return nil
}

const (
	tailLines = 20
	// waitDelay bounds how long output pipes held by orphaned children may block Wait
	waitDelay = 5 * time.Second
)

// lineLogger writes each complete line of process output to the logger and
// keeps the last lines for error reports.
type lineLogger struct {
	mu     sync.Mutex
	logger *slog.Logger
	level  slog.Level
	buf    bytes.Buffer
	tail   []string
}

func newLineLogger(logger *slog.Logger, level slog.Level) *lineLogger {
	return &lineLogger{logger: logger, level: level}
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush emits a trailing line without newline
func (w *lineLogger) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

// Tail returns the last lines written
func (w *lineLogger) Tail() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.tail, "\n")
}

func (w *lineLogger) emit(line string) {
	w.logger.Log(context.Background(), w.level, line)
	w.tail = append(w.tail, line)
	if len(w.tail) > tailLines {
		w.tail = w.tail[len(w.tail)-tailLines:]
	}
}
