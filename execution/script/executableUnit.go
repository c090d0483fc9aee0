package script

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-payoffscript/execution/data"
	"github.com/robbyt/go-payoffscript/execution/script/loader"
	"github.com/robbyt/go-payoffscript/internal/helpers"
	machineTypes "github.com/robbyt/go-payoffscript/machines/types"
)

const checksumLength = 12

// ExecutableUnit is one compiled version of a script together with the data
// provider its evaluations read from. It is compiled once, when created, and
// then shared by every run.
type ExecutableUnit struct {
	// ID identifies this version, by default derived from a hash of the source.
	ID string

	// CreatedAt records when this executable unit was instantiated.
	CreatedAt time.Time

	// ScriptLoader supplied the script text.
	ScriptLoader loader.Loader

	// Compiler is the compiler used to build Content.
	Compiler Compiler

	// Content holds the compiled script and its source.
	Content ExecutableContent

	// DataProvider supplies market values and parameters to each evaluation.
	DataProvider data.Provider

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewExecutableUnit loads the script from scriptLoader and compiles it.
// An empty versionID is replaced by a prefix of the source's SHA-256.
func NewExecutableUnit(
	handler slog.Handler,
	versionID string,
	scriptLoader loader.Loader,
	compiler Compiler,
	dataProvider data.Provider,
) (*ExecutableUnit, error) {
	handler, logger := helpers.SetupLogger(handler, "script", "ExecutableUnit")

	if compiler == nil {
		return nil, ErrCompiler
	}
	if scriptLoader == nil {
		return nil, ErrNoLoader
	}

	reader, err := scriptLoader.GetReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get reader from loader: %w", err)
	}

	exe, err := compiler.Compile(reader)
	if err != nil {
		return nil, fmt.Errorf("compiler failed: %w", err)
	}

	if versionID == "" {
		versionID = helpers.SHA256(exe.GetSource())
		if len(versionID) > checksumLength {
			versionID = versionID[:checksumLength]
		}
	}

	logger = logger.With("ID", versionID)
	logger.Debug("executable unit created", "machineType", exe.GetMachineType())

	return &ExecutableUnit{
		ID:           versionID,
		CreatedAt:    time.Now(),
		ScriptLoader: scriptLoader,
		Content:      exe,
		Compiler:     compiler,
		DataProvider: dataProvider,
		logHandler:   handler,
		logger:       logger,
	}, nil
}

func (exe *ExecutableUnit) String() string {
	return fmt.Sprintf("ExecutableUnit{ID: %s, CreatedAt: %s, Compiler: %s, Loader: %s}",
		exe.ID, exe.CreatedAt, exe.Compiler, exe.ScriptLoader)
}

// GetID returns the unique identifier (version number, or name) for this script version.
func (exe *ExecutableUnit) GetID() string {
	return exe.ID
}

// GetContent returns the compiled script content.
func (exe *ExecutableUnit) GetContent() ExecutableContent {
	return exe.Content
}

// GetCreatedAt returns the timestamp when the version was created.
func (exe *ExecutableUnit) GetCreatedAt() time.Time {
	return exe.CreatedAt
}

// GetMachineType returns the machine type this script is intended to run on.
func (exe *ExecutableUnit) GetMachineType() machineTypes.Type {
	return exe.Content.GetMachineType()
}

func (exe *ExecutableUnit) GetCompiler() Compiler {
	return exe.Compiler
}

func (exe *ExecutableUnit) GetLoader() loader.Loader {
	return exe.ScriptLoader
}

// GetDataProvider returns the data provider for this executable unit.
func (exe *ExecutableUnit) GetDataProvider() data.Provider {
	return exe.DataProvider
}
