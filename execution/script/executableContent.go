package script

import (
	machineTypes "github.com/robbyt/go-payoffscript/machines/types"
)

// ExecutableContent represents validated script content that is ready for execution.
// It provides access to the script's source code and its compiled form.
type ExecutableContent interface {
	// GetSource returns the original script content as a string.
	GetSource() string

	// GetByteCode returns the compiled script in a machine-specific format.
	// The evaluator asserts it into the type it runs, so the MachineType and
	// ByteCode must be compatible.
	GetByteCode() any

	// GetMachineType returns the machine type this script is intended to run on.
	GetMachineType() machineTypes.Type
}
