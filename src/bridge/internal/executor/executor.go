package executor

import (
	"bytes"
	"os/exec"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the Executor used to launch editor commands.
var Module = fx.Provide(func(logger *zap.SugaredLogger) Executor {
	return NewExecutor(WithLogger(logger))
})

// Executor wraps the execution of "os/exec".Cmd's so that every launch is logged and can be faked in tests.
type Executor interface {
	// Run logs and executes cmd, capturing its Stdout and Stderr.
	Run(cmd *exec.Cmd) (stdout string, stderr string, exitCode int, err error)
}

type executorImpl struct {
	logger *zap.SugaredLogger
	// execFunc may be nil to skip execution in tests.
	execFunc func(cmd *exec.Cmd) error
}

// Option customizes the behavior of the Executor.
type Option func(*executorImpl)

// WithLogger overrides the default noop logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *executorImpl) {
		e.logger = logger
	}
}

// WithExecFunc replaces the function used to run a command.
func WithExecFunc(execFunc func(cmd *exec.Cmd) error) Option {
	return func(e *executorImpl) {
		e.execFunc = execFunc
	}
}

// NewExecutor creates a new Executor that runs commands with (*exec.Cmd).Run unless overridden.
func NewExecutor(opts ...Option) Executor {
	e := &executorImpl{
		logger:   zap.NewNop().Sugar(),
		execFunc: func(cmd *exec.Cmd) error { return cmd.Run() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *executorImpl) Run(cmd *exec.Cmd) (string, string, int, error) {
	e.logger.Infow("Exec",
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", cmd.Args[1:],
	)

	if e.execFunc == nil {
		e.logger.Warn("missing execFunc - skipped execution")
		return "", "", 0, nil
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := e.execFunc(cmd)

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	return stdout.String(), stderr.String(), exitCode, err
}
