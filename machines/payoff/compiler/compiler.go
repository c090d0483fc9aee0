package compiler

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/robbyt/go-payoffscript/execution/script"
	"github.com/robbyt/go-payoffscript/internal/helpers"
	"github.com/robbyt/go-payoffscript/machines/payoff/optimizer"
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
)

// Compiler turns payoff script text into a *vm.Script. The text uses
// Starlark syntax restricted to arithmetic, comparisons, conditionals and
// the payoff builtins.
type Compiler struct {
	optimize   bool
	optimizer  *optimizer.Optimizer
	logHandler slog.Handler
	logger     *slog.Logger
}

// NewCompiler creates a new payoff Compiler instance with the provided options.
func NewCompiler(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
	c.applyDefaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}

	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "payoff", "Compiler")
	}

	if c.optimize {
		o, err := optimizer.New(c.logHandler)
		if err != nil {
			return nil, fmt.Errorf("failed to create optimizer: %w", err)
		}
		c.optimizer = o
	}
	return c, nil
}

func (c *Compiler) String() string {
	return "payoff.Compiler"
}

// Compile turns the provided script content into a runnable payoff script.
func (c *Compiler) Compile(scriptReader io.ReadCloser) (script.ExecutableContent, error) {
	if scriptReader == nil {
		return nil, ErrContentNil
	}

	scriptBodyBytes, err := io.ReadAll(scriptReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	if err := scriptReader.Close(); err != nil {
		return nil, fmt.Errorf("failed to close reader: %w", err)
	}

	exe, err := c.compile(scriptBodyBytes)
	if err != nil {
		return nil, err
	}
	return exe, nil
}

func (c *Compiler) compile(scriptBodyBytes []byte) (*Executable, error) {
	logger := c.logger.WithGroup("compile")
	if len(scriptBodyBytes) == 0 {
		logger.Error("Compile called with nil script")
		return nil, ErrContentNil
	}

	logger.Debug("Starting validation")

	stmts, err := parse(scriptBodyBytes)
	if err != nil {
		logger.Warn("Compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if c.optimizer != nil {
		var stats optimizer.Stats
		stmts, stats, err = c.optimizer.Optimize(stmts)
		if err != nil {
			logger.Error("Optimization failed", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		logger.Debug("Optimization completed",
			"folded", stats.Folded,
			"specialized", stats.Specialized,
			"propagated", stats.Propagated,
		)
	}

	payoffScript, err := vm.NewScript(stmts...)
	if err != nil {
		logger.Error("Lowered script is malformed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	exe := newExecutable(scriptBodyBytes, payoffScript)
	if exe == nil {
		logger.Warn("Failed to create Executable from script")
		return nil, ErrExecCreationFailed
	}

	logger.Debug("Validation completed", "statements", payoffScript.Len())
	return exe, nil
}
